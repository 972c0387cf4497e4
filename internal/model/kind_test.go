package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry(nil)

	assert.Equal(t, KindImage, r.Lookup(KindImage).Kind)
	assert.Equal(t, "Image", r.Lookup(KindImage).Name)
	assert.Equal(t, KindUnknown, r.Lookup(Kind(99)).Kind, "absent kinds fall back to Unknown")
}

func TestRegistryLookupName(t *testing.T) {
	r := NewRegistry(nil)

	tests := []struct {
		name string
		want Kind
	}{
		{"image", KindImage},
		{"Plain Text", KindPlainText},
		{"text", KindPlainText},
		{" URL ", KindURL},
		{"html", KindHTML},
		{"spreadsheet", KindUnknown},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, r.LookupName(tc.name).Kind)
		})
	}
}

func TestRegistryIsClosed(t *testing.T) {
	r := NewRegistry(nil)

	err := r.Register(AttachmentType{Kind: Kind(42), Name: "Spreadsheet"})
	assert.ErrorIs(t, err, ErrRegistrySealed)
	assert.Len(t, r.Types(), 6)
}

func TestRegisterDuplicateKind(t *testing.T) {
	r := &Registry{types: map[Kind]AttachmentType{}}
	require.NoError(t, r.Register(AttachmentType{Kind: KindImage, Name: "Image"}))

	err := r.Register(AttachmentType{Kind: KindImage, Name: "Picture"})
	assert.ErrorIs(t, err, ErrDuplicateKind)
}

func TestViewerCommand(t *testing.T) {
	r := NewRegistry(map[string]string{"image_viewer": "feh %s"})

	assert.Equal(t, "feh %s", r.ViewerCommand(r.Lookup(KindImage)))
	assert.Equal(t, "", r.ViewerCommand(r.Lookup(KindHTML)))
	assert.Equal(t, "", r.ViewerCommand(AttachmentType{Kind: KindImage}))
}

func TestDetect(t *testing.T) {
	r := NewRegistry(nil)
	dir := t.TempDir()

	write := func(name string, data []byte) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, data, 0o644))
		return p
	}

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

	assert.Equal(t, KindURL, r.Detect("https://example.org/run/42").Kind)
	assert.Equal(t, KindImage, r.Detect(write("shot.png", png)).Kind)
	assert.Equal(t, KindPlainText, r.Detect(write("notes.txt", []byte("beam current nominal\n"))).Kind)
	assert.Equal(t, KindHTML, r.Detect(write("page.html", []byte("<!DOCTYPE html><html><body>hi</body></html>"))).Kind)
	assert.Equal(t, KindPostscript, r.Detect(write("plot.ps", []byte("%!PS-Adobe-3.0\n"))).Kind)
	assert.Equal(t, KindUnknown, r.Detect(filepath.Join(dir, "missing")).Kind)
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("http://example.org"))
	assert.True(t, IsURL("mailto:shift@example.org"))
	assert.False(t, IsURL("/tmp/x.png"))
	assert.False(t, IsURL(`C:\data\x.png`))
	assert.False(t, IsURL("relative/file.txt"))
}
