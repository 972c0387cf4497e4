package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"logbook/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceScope []*model.Attachment

func (s sliceScope) All() []*model.Attachment { return s }

func fileAttachment(path string) *model.Attachment {
	return model.NewFileAttachment(registry.Lookup(model.KindImage), path, path, "", model.FileStat{})
}

func TestCanDeleteFromDiskCanonicalPaths(t *testing.T) {
	tmp := t.TempDir()
	realDir := filepath.Join(tmp, "realDir")
	writeFile(t, filepath.Join(realDir, "x.png"), "pixels")
	require.NoError(t, os.Symlink(realDir, filepath.Join(tmp, "alias")))

	a := fileAttachment(filepath.Join(realDir, "x.png"))
	viaAlias := fileAttachment(filepath.Join(tmp, "alias", "x.png"))
	viaDots := fileAttachment(filepath.Join(realDir, "..", "realDir", "x.png"))
	other := fileAttachment(filepath.Join(realDir, "y.png"))

	g := NewGuard(nil)
	assert.True(t, g.CanDeleteFromDisk(a, sliceScope{a, other}))
	assert.False(t, g.CanDeleteFromDisk(a, sliceScope{a, viaAlias}))
	assert.False(t, g.CanDeleteFromDisk(a, sliceScope{viaDots, a}))
	assert.True(t, g.CanDeleteFromDisk(a, sliceScope{}))
}

func TestCanDeleteFromDiskIgnoresURLs(t *testing.T) {
	a := fileAttachment("/tmp/x.png")
	u := model.NewURLAttachment(registry.Lookup(model.KindURL), "/tmp/x.png", "")

	g := NewGuard(nil)
	assert.True(t, g.CanDeleteFromDisk(a, sliceScope{a, u}))
	assert.False(t, g.CanDeleteFromDisk(u, sliceScope{a, u}))
}

func TestGuardRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("removes unshared file", func(t *testing.T) {
		path := writeFile(t, filepath.Join(t.TempDir(), "x.png"), "pixels")
		require.NoError(t, NewGuard(nil).Remove(ctx, fileAttachment(path), true, sliceScope{}))
		assert.NoFileExists(t, path)
	})

	t.Run("association only", func(t *testing.T) {
		path := writeFile(t, filepath.Join(t.TempDir(), "x.png"), "pixels")
		require.NoError(t, NewGuard(nil).Remove(ctx, fileAttachment(path), false, sliceScope{}))
		assert.FileExists(t, path)
	})

	t.Run("remover failure", func(t *testing.T) {
		path := writeFile(t, filepath.Join(t.TempDir(), "x.png"), "pixels")
		g := NewGuard(nil)
		cause := errors.New("device busy")
		g.remove = func(string) error { return cause }

		err := g.Remove(ctx, fileAttachment(path), true, sliceScope{})
		requireKind(t, err, DiskRemovalFailed)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), path)
	})
}
