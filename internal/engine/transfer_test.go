package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"logbook/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var registry = model.NewRegistry(map[string]string{"image_viewer": "feh %s"})

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func fileRequest(source, dir string) NewAttachmentRequest {
	return NewAttachmentRequest{
		EntryID:   uuid.New(),
		Source:    source,
		Type:      registry.Lookup(model.KindImage),
		TargetDir: dir,
		Comments:  "scan",
	}
}

func requireKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	require.Error(t, err)
	got, ok := KindOf(err)
	require.True(t, ok, "error %v carries no kind", err)
	assert.Equal(t, kind, got)
	assert.ErrorIs(t, err, kind.Sentinel())
}

func TestCreateCopy(t *testing.T) {
	tmp := t.TempDir()
	src := writeFile(t, filepath.Join(tmp, "in", "x.png"), "pixels")
	dir := filepath.Join(tmp, "managed")
	require.NoError(t, os.Mkdir(dir, 0o755))

	att, err := Create(context.Background(), fileRequest(src, dir))
	require.NoError(t, err)

	managed := filepath.Join(dir, "x.png")
	assert.Equal(t, managed, att.Path())
	assert.Equal(t, src, att.Source())
	assert.Equal(t, int64(6), att.Size())
	assert.False(t, att.Modified().IsZero())
	assert.Equal(t, "scan", att.Comments())

	data, err := os.ReadFile(managed)
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(data))

	info, err := os.Lstat(managed)
	require.NoError(t, err)
	assert.Zero(t, info.Mode()&os.ModeSymlink)
}

func TestCreateLink(t *testing.T) {
	tmp := t.TempDir()
	src := writeFile(t, filepath.Join(tmp, "x.png"), "pixels")
	dir := filepath.Join(tmp, "managed")
	require.NoError(t, os.Mkdir(dir, 0o755))

	req := fileRequest(src, dir)
	req.Mode = ModeLink
	att, err := Create(context.Background(), req)
	require.NoError(t, err)

	target, err := os.Readlink(att.Path())
	require.NoError(t, err)
	assert.Equal(t, src, target)
	assert.Equal(t, int64(6), att.Size())
}

func TestCreateURL(t *testing.T) {
	req := NewAttachmentRequest{
		Source:    "https://example.com/a?b=c",
		Type:      registry.Lookup(model.KindURL),
		TargetDir: "/does/not/exist",
	}
	att, err := Create(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, req.Source, att.Path())
	assert.Equal(t, req.Source, att.Source())
	_, hasFile := att.File()
	assert.False(t, hasFile)
	assert.Zero(t, att.Size())
}

func TestCreateRejections(t *testing.T) {
	tmp := t.TempDir()
	src := writeFile(t, filepath.Join(tmp, "x.png"), "pixels")
	dir := filepath.Join(tmp, "managed")
	writeFile(t, filepath.Join(dir, "taken.png"), "old")
	writeFile(t, filepath.Join(tmp, "taken.png"), "new")

	tests := []struct {
		name   string
		source string
		dir    string
		kind   ErrorKind
	}{
		{"missing source", filepath.Join(tmp, "nope.png"), dir, SourceNotFound},
		{"directory source", tmp, dir, SourceIsDirectory},
		{"missing destination", src, filepath.Join(tmp, "nowhere"), DestinationNotFound},
		{"empty destination", src, "", DestinationNotFound},
		{"destination is a file", src, src, DestinationNotFound},
		{"name taken", filepath.Join(tmp, "taken.png"), dir, DestinationAlreadyExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := fileRequest(tt.source, tt.dir)
			att, err := Create(context.Background(), req)
			assert.Nil(t, att)
			requireKind(t, err, tt.kind)
			assert.False(t, tt.kind.Warning())
		})
	}

	data, err := os.ReadFile(filepath.Join(dir, "taken.png"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
}

func TestCreateRejectionNamesPath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.png")
	_, err := Create(context.Background(), fileRequest(missing, t.TempDir()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), missing)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCreateAdoptsFileInPlace(t *testing.T) {
	dir := t.TempDir()
	managed := writeFile(t, filepath.Join(dir, "x.png"), "pixels")

	att, err := Create(context.Background(), fileRequest(managed, dir))
	require.NoError(t, err)
	assert.Equal(t, managed, att.Path())

	data, err := os.ReadFile(managed)
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(data))
}

func TestCreateCancelledBeforeStart(t *testing.T) {
	tmp := t.TempDir()
	src := writeFile(t, filepath.Join(tmp, "x.png"), "pixels")
	dir := filepath.Join(tmp, "managed")
	require.NoError(t, os.Mkdir(dir, 0o755))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Create(ctx, fileRequest(src, dir))
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, filepath.Join(dir, "x.png"))

	att, err := Create(ctx, NewAttachmentRequest{
		Source: "https://example.com/run/42",
		Type:   registry.Lookup(model.KindURL),
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, att)
}

func TestCreateAbandonedAfterTransfer(t *testing.T) {
	for _, mode := range []Mode{ModeCopy, ModeLink} {
		t.Run(mode.String(), func(t *testing.T) {
			tmp := t.TempDir()
			src := writeFile(t, filepath.Join(tmp, "x.png"), "pixels")
			dir := filepath.Join(tmp, "managed")
			require.NoError(t, os.Mkdir(dir, 0o755))

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			var sawFile bool
			orig := transferDone
			transferDone = func(_ context.Context, managed string) {
				_, err := os.Lstat(managed)
				sawFile = err == nil
				cancel()
			}
			defer func() { transferDone = orig }()

			req := fileRequest(src, dir)
			req.Mode = mode
			att, err := Create(ctx, req)
			assert.Nil(t, att)
			assert.ErrorIs(t, err, context.Canceled)
			assert.True(t, sawFile)

			_, statErr := os.Lstat(filepath.Join(dir, "x.png"))
			assert.True(t, errors.Is(statErr, os.ErrNotExist))
			assert.FileExists(t, src)
		})
	}
}

func TestRefresh(t *testing.T) {
	tmp := t.TempDir()
	src := writeFile(t, filepath.Join(tmp, "notes.txt"), "one")
	dir := filepath.Join(tmp, "managed")
	require.NoError(t, os.Mkdir(dir, 0o755))

	att, err := Create(context.Background(), fileRequest(src, dir))
	require.NoError(t, err)
	created := att.Created()

	changed, err := Refresh(att)
	require.NoError(t, err)
	assert.False(t, changed)

	later := time.Now().Add(time.Hour)
	require.NoError(t, os.WriteFile(att.Path(), []byte("one two"), 0o644))
	require.NoError(t, os.Chtimes(att.Path(), later, later))

	changed, err = Refresh(att)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, int64(7), att.Size())
	assert.True(t, att.Modified().Equal(later))
	assert.True(t, att.Created().Equal(created))

	require.NoError(t, os.Remove(att.Path()))
	changed, err = Refresh(att)
	assert.ErrorIs(t, err, ErrBroken)
	assert.True(t, changed)
	assert.True(t, att.Broken())

	_, err = Refresh(att)
	assert.ErrorIs(t, err, ErrBroken)
}

func TestRefreshURL(t *testing.T) {
	att := model.NewURLAttachment(registry.Lookup(model.KindURL), "https://example.com", "")
	changed, err := Refresh(att)
	assert.NoError(t, err)
	assert.False(t, changed)
}
