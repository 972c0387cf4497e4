package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"logbook/internal/model"
)

// Canonical returns the form two paths must share to name the same file:
// expanded, absolute, cleaned, with symlinks in the directory part resolved.
// The final element is left alone so a link and its target stay distinct.
func Canonical(path string) (string, error) {
	expanded, err := ExpandPath(path)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", err
	}
	dir, base := filepath.Split(abs)
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}
	return filepath.Join(dir, base), nil
}

// SameFile reports whether two paths are canonically equal
func SameFile(a, b string) bool {
	ca, err := Canonical(a)
	if err != nil {
		return false
	}
	cb, err := Canonical(b)
	if err != nil {
		return false
	}
	return ca == cb
}

// StatFile reads size and times of a file, following symlinks.
// Portable creation times do not exist, so Created starts as the
// modification time and is kept by the attachment from then on.
func StatFile(path string) (model.FileStat, error) {
	info, err := os.Stat(path)
	if err != nil {
		return model.FileStat{}, err
	}
	return model.FileStat{
		Size:     info.Size(),
		Created:  info.ModTime(),
		Modified: info.ModTime(),
	}, nil
}

// Exists reports whether something (a file, dir or dangling link) occupies path
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// IsDir reports whether path is an existing directory
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Writable reports whether the owner write bit is set on the entry at path.
// Symlinks count as writable; removing one never touches its target.
func Writable(path string) (bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return false, err
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return true, nil
	}
	return info.Mode().Perm()&0o200 != 0, nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// CopyFile copies src to dst byte for byte. dst must not exist. On any
// failure, including cancellation of ctx, nothing is left at dst.
func CopyFile(ctx context.Context, src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	if _, err = io.Copy(out, &ctxReader{ctx: ctx, r: in}); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy: %w", err)
	}
	if err = out.Sync(); err != nil {
		_ = out.Close()
		return fmt.Errorf("sync: %w", err)
	}
	if err = out.Close(); err != nil {
		return fmt.Errorf("close destination: %w", err)
	}
	return nil
}

// LinkFile creates dst as a symlink to the absolute form of src
func LinkFile(src, dst string) error {
	abs, err := filepath.Abs(src)
	if err != nil {
		return err
	}
	if err := os.Symlink(abs, dst); err != nil {
		return fmt.Errorf("symlink: %w", err)
	}
	return nil
}

// RemoveFile removes the entry at path; a missing file is not an error.
func RemoveFile(path string) error {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// EnsureDir creates dir and any missing parents
func EnsureDir(dir string) error {
	expanded, err := ExpandPath(dir)
	if err != nil {
		return err
	}
	return os.MkdirAll(expanded, 0o755)
}
