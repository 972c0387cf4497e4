package engine

import (
	"context"
	"errors"
	"os/exec"
	"strings"
)

// Launcher starts an external viewer for an attachment
type Launcher interface {
	Launch(ctx context.Context, command, target string) error
}

// ExecLauncher runs viewer command templates such as "xdg-open %s" or
// "feh --scale-down". The target replaces a %s field, or is appended when
// there is none. The viewer is not waited for.
type ExecLauncher struct{}

func (ExecLauncher) Launch(ctx context.Context, command, target string) error {
	name, args, err := viewerArgs(command, target)
	if err != nil {
		return err
	}
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func viewerArgs(command, target string) (string, []string, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return "", nil, errors.New("empty viewer command")
	}
	substituted := false
	for i, f := range fields[1:] {
		if strings.Contains(f, "%s") {
			fields[i+1] = strings.ReplaceAll(f, "%s", target)
			substituted = true
		}
	}
	if !substituted {
		fields = append(fields, target)
	}
	return fields[0], fields[1:], nil
}
