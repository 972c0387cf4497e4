package ui

import (
	"context"
	"path/filepath"
	"testing"

	"logbook/internal/engine"
	"logbook/internal/model"
	"logbook/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var registry = model.NewRegistry(nil)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func addURL(t *testing.T, m *engine.Manager, e *model.Entry, url string) *model.Attachment {
	t.Helper()
	a, err := m.Create(context.Background(), engine.NewAttachmentRequest{
		EntryID: e.ID,
		Source:  url,
		Type:    registry.Lookup(model.KindURL),
	})
	require.NoError(t, err)
	return a
}

func TestAttachmentWindowFollowsEngine(t *testing.T) {
	m := engine.NewManager(&model.Logbook{Name: "test", AttachmentDir: t.TempDir()}, registry)
	e := m.AddEntry("Run 1")

	w := NewAttachmentWindow(e)
	require.NoError(t, m.ViewOpened(e.ID, w))
	assert.False(t, w.Visible())

	b := addURL(t, m, e, "https://b.example.com")
	a := addURL(t, m, e, "https://a.example.com")
	assert.True(t, w.Visible())
	assert.Equal(t, 2, w.Len())

	sel, ok := w.Selected()
	require.True(t, ok)
	assert.Equal(t, a.ID(), sel.ID(), "rows are sorted by name")

	w.Update(key("S"))
	sel, _ = w.Selected()
	assert.Equal(t, b.ID(), sel.ID())

	require.NoError(t, m.Delete(context.Background(), engine.DeleteAttachmentRequest{AttachmentID: b.ID()}))
	assert.Equal(t, 1, w.Len())
	require.NoError(t, m.Delete(context.Background(), engine.DeleteAttachmentRequest{AttachmentID: a.ID()}))
	assert.Equal(t, 0, w.Len())
	assert.False(t, w.Visible())
	assert.Contains(t, w.View(), "No attachments")
}

func TestGlobalWindowShowsEveryEntry(t *testing.T) {
	m := engine.NewManager(&model.Logbook{Name: "test", AttachmentDir: t.TempDir()}, registry)
	e1 := m.AddEntry("one")
	e2 := m.AddEntry("two")
	addURL(t, m, e1, "https://one.example.com")

	w := NewAttachmentWindow(nil)
	m.SetGlobalView(w)
	assert.True(t, w.Global())
	assert.Equal(t, 1, w.Len())

	addURL(t, m, e2, "https://two.example.com")
	assert.Equal(t, 2, w.Len())

	w.Update(key("a"))
	assert.Equal(t, WindowNone, w.Action, "nothing can be added to the global window")
}

func TestWindowEditRedraws(t *testing.T) {
	m := engine.NewManager(&model.Logbook{Name: "test", AttachmentDir: t.TempDir()}, registry)
	e := m.AddEntry("Run 1")
	a := addURL(t, m, e, "https://example.com")

	w := NewAttachmentWindow(e)
	require.NoError(t, m.ViewOpened(e.ID, w))

	require.NoError(t, m.Edit(engine.EditAttachmentRequest{
		AttachmentID: a.ID(),
		Type:         a.Type(),
		Comments:     "beam profile",
	}))
	assert.Contains(t, w.View(), "beam profile")
}

func TestEditorDetectsURL(t *testing.T) {
	ed := NewEditorModel(registry, false)
	ed, _ = ed.Update(key("https://example.com/plot"))
	ed, _ = ed.Update(key("ctrl+s"))

	require.True(t, ed.Saved)
	req := ed.NewRequest(model.NewEntry("x").ID, "/tmp")
	assert.Equal(t, "https://example.com/plot", req.Source)
	assert.True(t, req.Type.IsURL())
	assert.Equal(t, engine.ModeCopy, req.Mode)
}

func TestEditorRequiresSource(t *testing.T) {
	ed := NewEditorModel(registry, true)
	ed, _ = ed.Update(key("ctrl+s"))
	assert.False(t, ed.Saved)
	assert.NotEmpty(t, ed.Error)
}

func TestEditorEditKeepsComments(t *testing.T) {
	a := model.NewURLAttachment(registry.Lookup(model.KindURL), "https://example.com", "old")
	ed := EditAttachmentModel(registry, a)
	assert.True(t, ed.Editing())

	req := ed.EditRequest()
	assert.Equal(t, a.ID(), req.AttachmentID)
	assert.Equal(t, "old", req.Comments)
	assert.True(t, req.Type.IsURL())
}

func update(t *testing.T, app App, keys ...string) App {
	t.Helper()
	for _, k := range keys {
		next, _ := app.Update(key(k))
		app = next.(App)
	}
	return app
}

func TestAppAttachFlow(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(storage.EnvConfig, filepath.Join(tmp, "config.yaml"))
	t.Setenv(storage.EnvAttachmentDir, "")
	catalog := filepath.Join(tmp, "book.db")

	app := InitialModel(&model.Config{}, catalog, nil)
	require.NoError(t, app.err)
	require.Equal(t, ViewList, app.currentView)

	app = update(t, app, "n", "Run 1", "enter")
	require.Len(t, app.manager.Entries(), 1)

	app = update(t, app, "enter")
	require.Equal(t, ViewWindow, app.currentView)
	require.Len(t, app.windows, 1)

	app = update(t, app, "a", "https://example.com", "ctrl+s")
	require.Equal(t, ViewWindow, app.currentView)
	assert.Equal(t, 1, app.windows[0].Len())
	assert.False(t, app.manager.Modified(), "the catalog is saved after each change")

	app = update(t, app, "q")
	assert.Equal(t, ViewList, app.currentView)
	assert.Empty(t, app.windows)

	reopened, err := engine.OpenCatalog(catalog, "", registry)
	require.NoError(t, err)
	assert.Len(t, reopened.All(), 1)
}

func TestAppDeleteEntryDropsWindows(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(storage.EnvConfig, filepath.Join(tmp, "config.yaml"))
	t.Setenv(storage.EnvAttachmentDir, "")

	app := InitialModel(&model.Config{}, filepath.Join(tmp, "book.db"), nil)
	require.NoError(t, app.err)

	app = update(t, app, "n", "Run 1", "enter", "enter", "tab")
	require.Equal(t, ViewList, app.currentView)
	require.Len(t, app.windows, 1)

	app = update(t, app, "d", "y")
	assert.Empty(t, app.manager.Entries())
	assert.Empty(t, app.windows)
	assert.Equal(t, ViewList, app.currentView)
}
