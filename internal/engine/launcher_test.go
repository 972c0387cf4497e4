package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewerArgs(t *testing.T) {
	tests := []struct {
		command  string
		wantName string
		wantArgs []string
	}{
		{"xdg-open", "xdg-open", []string{"/a/b.png"}},
		{"feh --scale-down %s", "feh", []string{"--scale-down", "/a/b.png"}},
		{"gv %s -nocenter", "gv", []string{"/a/b.png", "-nocenter"}},
		{"browser --url=%s", "browser", []string{"--url=/a/b.png"}},
	}
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			name, args, err := viewerArgs(tt.command, "/a/b.png")
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantArgs, args)
		})
	}

	_, _, err := viewerArgs("   ", "/a/b.png")
	assert.Error(t, err)
}

func TestErrorKinds(t *testing.T) {
	for _, k := range []ErrorKind{SourceNotFound, SourceIsDirectory, DestinationNotFound, DestinationAlreadyExists, TransferFailed} {
		assert.False(t, k.Warning(), k.String())
		assert.NotNil(t, k.Sentinel())
	}
	assert.True(t, FileKeptSharedReference.Warning())
	assert.True(t, DiskRemovalFailed.Warning())

	err := newError(FileKeptSharedReference, "/tmp/x.png", nil)
	assert.Equal(t, "/tmp/x.png: "+ErrFileKeptSharedReference.Error(), err.Error())
	assert.True(t, IsWarning(err))
	assert.False(t, IsWarning(ErrNotFound))
}
