package engine

import (
	"context"
	"path/filepath"
	"testing"

	"logbook/internal/model"
	"logbook/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndOpenCatalog(t *testing.T) {
	t.Setenv(storage.EnvAttachmentDir, "")
	f := newFixture(t)
	a := f.attach(t, f.entry, "a.png")
	_, err := f.m.Create(context.Background(), NewAttachmentRequest{
		EntryID: f.entry.ID,
		Source:  "https://example.com",
		Type:    registry.Lookup(model.KindURL),
	})
	require.NoError(t, err)
	require.True(t, f.m.Modified())

	catalog := filepath.Join(f.tmp, "book.db")
	require.NoError(t, f.m.Save(catalog))
	assert.False(t, f.m.Modified())

	loaded, err := OpenCatalog(catalog, "", registry)
	require.NoError(t, err)
	require.NoError(t, loaded.Check())
	assert.Equal(t, f.dir, loaded.Logbook().AttachmentDir)

	got := loaded.Attachments(f.entry.ID)
	require.Len(t, got, 2)
	assert.Equal(t, a.ID(), got[0].ID())
	assert.Equal(t, a.Path(), got[0].Path())
	assert.True(t, got[0].Modified().Equal(a.Modified()))
	assert.True(t, got[1].IsURL())

	// the guard sees the reloaded scope
	assert.True(t, loaded.CanDeleteFromDisk(a.ID()))
}

func TestOpenCatalogAttachmentDirOverrides(t *testing.T) {
	catalog := filepath.Join(t.TempDir(), "book.db")

	t.Setenv(storage.EnvAttachmentDir, "")
	m, err := OpenCatalog(catalog, "/srv/files", registry)
	require.NoError(t, err)
	assert.Equal(t, "/srv/files", m.Logbook().AttachmentDir)

	t.Setenv(storage.EnvAttachmentDir, "/env/files")
	m, err = OpenCatalog(catalog, "/srv/files", registry)
	require.NoError(t, err)
	assert.Equal(t, "/env/files", m.Logbook().AttachmentDir)
}
