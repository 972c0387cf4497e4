package ui

import (
	"context"
	"fmt"
	"slices"
	"time"

	"logbook/internal/engine"
	"logbook/internal/logging"
	"logbook/internal/model"
	"logbook/internal/storage"
	"logbook/internal/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

// ViewState represents the current view
type ViewState int

const (
	ViewSelector ViewState = iota
	ViewSetup
	ViewList
	ViewWindow
	ViewEditor
	ViewSettings
	ViewDeleteEntry
	ViewDeleteAttachment
)

// App is the main application model
type App struct {
	config      *model.Config
	registry    *model.Registry
	log         logging.Logger
	ref         *model.LogbookRef
	manager     *engine.Manager
	currentView ViewState

	// Sub-models
	selectorModel SelectorModel
	setupModel    SetupModel
	listModel     ListModel
	editorModel   EditorModel
	settingsModel SettingsModel

	// attachment windows, in the order they were opened
	windows      []*AttachmentWindow
	active       int
	editorTarget *AttachmentWindow

	deleteID       uuid.UUID
	deleteFromDisk bool
	deleteShared   bool

	// State
	width  int
	height int
	err    error
}

// InitialModel creates the application model. When catalog is set that
// logbook is opened directly; otherwise the known logbooks are offered.
func InitialModel(config *model.Config, catalog string, log logging.Logger) App {
	if log == nil {
		log = logging.Discard()
	}
	if config.Theme != "" {
		theme.Set(config.Theme)
	}

	app := App{
		config:   config,
		registry: model.NewRegistry(config.Viewers),
		log:      log,
	}

	switch {
	case catalog != "":
		ref := storage.FindLogbook(config, catalog)
		if ref == nil {
			storage.AddLogbook(config, "", catalog, "")
			ref = storage.FindLogbook(config, catalog)
		}
		app.err = app.openLogbook(ref)
	case len(config.Logbooks) > 0:
		app.selectorModel = NewSelectorModel(storage.GetSortedLogbooks(config), config.Theme)
		app.currentView = ViewSelector
	default:
		app.setupModel = NewSetupModel()
		app.currentView = ViewSetup
	}

	return app
}

func (a *App) openLogbook(ref *model.LogbookRef) error {
	m, err := engine.OpenCatalog(ref.Catalog, ref.AttachmentDir, a.registry,
		engine.WithLogger(a.log), engine.WithLauncher(engine.ExecLauncher{}))
	if err != nil {
		return err
	}
	if ref.Name == "" {
		ref.Name = m.Logbook().Name
	}

	a.ref = ref
	a.manager = m
	a.windows = nil
	a.config.ActiveLogbook = ref.Catalog
	storage.UpdateLogbookLastOpened(a.config, ref.Catalog, time.Now())
	if err := storage.SaveConfig(a.config); err != nil {
		a.log.Warn(context.Background(), "save config", "error", err)
	}

	a.listModel = NewListModel(m)
	a.listModel.SetSize(a.width, a.height)
	a.currentView = ViewList
	a.log.Info(context.Background(), "logbook opened", "catalog", ref.Catalog, "attachments", len(m.All()))
	return nil
}

func (a *App) save() {
	if a.manager == nil || !a.manager.Modified() {
		return
	}
	if err := a.manager.Save(a.ref.Catalog); err != nil {
		a.log.Error(context.Background(), "save catalog", "error", err)
		a.err = err
	}
}

func (a App) existingCatalogs() []string {
	paths := make([]string, len(a.config.Logbooks))
	for i, lb := range a.config.Logbooks {
		paths[i] = lb.Catalog
	}
	return paths
}

func (a App) Init() tea.Cmd {
	return nil
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.listModel.SetSize(msg.Width, msg.Height)
		a.editorModel.SetSize(msg.Width, msg.Height)
		for _, w := range a.windows {
			w.SetSize(msg.Width, msg.Height)
		}
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			a.save()
			return a, tea.Quit
		}
	}

	var cmd tea.Cmd

	switch a.currentView {
	case ViewSelector:
		a.selectorModel, cmd = a.selectorModel.Update(msg)
		if a.selectorModel.Done {
			a.selectorModel.Done = false
			if a.selectorModel.ThemeChanged {
				a.config.Theme = a.selectorModel.NewTheme
			}

			if a.selectorModel.CreateNew {
				a.setupModel = NewSetupModel(a.existingCatalogs()...)
				a.currentView = ViewSetup
			} else if sel := a.selectorModel.Selected; sel != nil {
				// Selected is a copy; work on the entry inside config
				ref := storage.FindLogbook(a.config, sel.Catalog)
				if ref == nil {
					ref = sel
				}
				if err := a.openLogbook(ref); err != nil {
					a.err = err
					return a, nil
				}
			}
		}

	case ViewSetup:
		a.setupModel, cmd = a.setupModel.Update(msg)
		if a.setupModel.Cancelled {
			if len(a.config.Logbooks) == 0 {
				return a, tea.Quit
			}
			a.selectorModel = NewSelectorModel(storage.GetSortedLogbooks(a.config), a.config.Theme)
			a.currentView = ViewSelector
			return a, nil
		}
		if a.setupModel.Done {
			s := a.setupModel
			storage.AddLogbook(a.config, s.Name, s.CatalogPath, s.AttachmentDir)
			ref := storage.FindLogbook(a.config, s.CatalogPath)
			if err := a.openLogbook(ref); err != nil {
				a.err = err
				return a, nil
			}
			a.manager.Logbook().Name = s.Name
			if err := a.manager.Save(ref.Catalog); err != nil {
				a.err = err
				return a, nil
			}
		}

	case ViewList:
		a.listModel, cmd = a.listModel.Update(msg)
		action := a.listModel.Action
		a.listModel.Action = ActionNone

		switch action {
		case ActionNewEntry:
			e := a.manager.AddEntry(a.listModel.NewTitle)
			a.save()
			a.listModel.Reload()
			a.log.Info(context.Background(), "entry added", "entry", e.ID)

		case ActionOpenEntry:
			if e := a.listModel.Selected(); e != nil {
				a.openWindow(e)
			}

		case ActionDeleteEntry:
			a.currentView = ViewDeleteEntry

		case ActionGlobalView:
			a.toggleGlobal()

		case ActionNextWindow:
			a.nextWindow()

		case ActionSettings:
			a.settingsModel = NewSettingsModel(a.config, a.manager.Logbook())
			a.currentView = ViewSettings
			return a, a.settingsModel.Init()

		case ActionQuit:
			a.save()
			return a, tea.Quit
		}

	case ViewWindow:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "tab" {
			a.nextWindow()
			return a, nil
		}
		w := a.windows[a.active]
		cmd = w.Update(msg)
		action := w.Action
		w.Action = WindowNone
		cmd = tea.Batch(cmd, a.handleWindow(w, action))

	case ViewEditor:
		cmd = a.updateEditor(msg)

	case ViewDeleteEntry:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "y", "Y":
				if e := a.listModel.Selected(); e != nil {
					a.dropWindows(e.ID)
					if err := a.manager.RemoveEntry(context.Background(), e.ID, false); err != nil {
						a.log.Warn(context.Background(), "remove entry", "entry", e.ID, "error", err)
					}
					a.save()
					a.listModel.Reload()
				}
				a.currentView = ViewList
			case "n", "N", "esc":
				a.currentView = ViewList
			}
		}

	case ViewDeleteAttachment:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "y", "Y":
				a.confirmDelete()
				a.currentView = ViewWindow
			case "n", "N", "esc":
				a.currentView = ViewWindow
			}
		}

	case ViewSettings:
		a.settingsModel, cmd = a.settingsModel.Update(msg)

		if a.settingsModel.Cancelled {
			a.currentView = ViewList
			a.settingsModel.Cancelled = false
		} else if a.settingsModel.Saved {
			a.settingsModel.Saved = false
			a.config.LinkByDefault = a.settingsModel.LinkByDefault
			a.manager.Logbook().AttachmentDir = a.settingsModel.AttachmentDir
			a.ref.AttachmentDir = a.settingsModel.AttachmentDir
			if err := a.manager.Save(a.ref.Catalog); err != nil {
				a.err = err
				return a, nil
			}
			if err := storage.SaveConfig(a.config); err != nil {
				a.err = err
				return a, nil
			}
			a.currentView = ViewList
		}
	}

	return a, cmd
}

func (a *App) openWindow(e *model.Entry) {
	w := NewAttachmentWindow(e)
	w.SetSize(a.width, a.height)
	if err := a.manager.ViewOpened(e.ID, w); err != nil {
		a.err = err
		return
	}
	a.windows = append(a.windows, w)
	a.active = len(a.windows) - 1
	a.currentView = ViewWindow
}

func (a *App) toggleGlobal() {
	for i, w := range a.windows {
		if w.Global() {
			a.active = i
			a.currentView = ViewWindow
			return
		}
	}
	w := NewAttachmentWindow(nil)
	w.SetSize(a.width, a.height)
	a.manager.SetGlobalView(w)
	a.windows = append(a.windows, w)
	a.active = len(a.windows) - 1
	a.currentView = ViewWindow
}

// nextWindow cycles list -> first window -> ... -> last window -> list
func (a *App) nextWindow() {
	if a.currentView == ViewList {
		if len(a.windows) > 0 {
			a.active = 0
			a.currentView = ViewWindow
		}
		return
	}
	a.active++
	if a.active >= len(a.windows) {
		a.currentView = ViewList
	}
}

func (a *App) closeWindow(w *AttachmentWindow) {
	if w.Global() {
		a.manager.SetGlobalView(nil)
	} else {
		a.manager.ViewClosed(w.ViewID())
	}
	a.removeWindow(w)
}

func (a *App) removeWindow(w *AttachmentWindow) {
	i := slices.Index(a.windows, w)
	if i < 0 {
		return
	}
	a.windows = slices.Delete(a.windows, i, i+1)
	if len(a.windows) == 0 {
		a.currentView = ViewList
		return
	}
	a.active = min(i, len(a.windows)-1)
}

// dropWindows forgets the windows of an entry that is going away
func (a *App) dropWindows(entryID uuid.UUID) {
	for _, w := range slices.Clone(a.windows) {
		if e := w.Entry(); e != nil && e.ID == entryID {
			a.removeWindow(w)
		}
	}
}

func (a *App) handleWindow(w *AttachmentWindow, action WindowAction) tea.Cmd {
	ctx := context.Background()

	switch action {
	case WindowAdd:
		a.editorModel = NewEditorModel(a.registry, a.config.LinkByDefault)
		a.editorModel.SetSize(a.width, a.height)
		a.editorTarget = w
		a.currentView = ViewEditor
		return a.editorModel.Init()

	case WindowEdit:
		if att, ok := w.Selected(); ok {
			a.editorModel = EditAttachmentModel(a.registry, att)
			a.editorModel.SetSize(a.width, a.height)
			a.editorTarget = w
			a.currentView = ViewEditor
			return a.editorModel.Init()
		}

	case WindowDelete, WindowDeleteFromDisk:
		if att, ok := w.Selected(); ok {
			a.deleteID = att.ID()
			a.deleteFromDisk = action == WindowDeleteFromDisk && !att.IsURL()
			a.deleteShared = a.deleteFromDisk && !a.manager.CanDeleteFromDisk(att.ID())
			a.currentView = ViewDeleteAttachment
		}

	case WindowOpen:
		if att, ok := w.Selected(); ok {
			if err := a.manager.Open(ctx, att.ID()); err != nil {
				w.Error = err.Error()
			}
		}

	case WindowRefresh:
		n, err := a.manager.RefreshAll()
		if err != nil {
			w.Error = err.Error()
		}
		w.Message = fmt.Sprintf("%d attachment(s) changed on disk", n)
		a.save()

	case WindowClose:
		a.closeWindow(w)
	}
	return nil
}

func (a *App) confirmDelete() {
	w := a.windows[a.active]
	err := a.manager.Delete(context.Background(), engine.DeleteAttachmentRequest{
		AttachmentID: a.deleteID,
		FromDisk:     a.deleteFromDisk,
	})
	switch {
	case err == nil:
		w.Message = "Attachment deleted"
	case engine.IsWarning(err):
		w.Message = "Attachment deleted"
		w.Error = err.Error()
	default:
		w.Error = err.Error()
	}
	a.save()
}

func (a *App) updateEditor(msg tea.Msg) tea.Cmd {
	if a.editorModel.ConfirmMkdir != "" {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "y", "Y":
				dir := a.editorModel.ConfirmMkdir
				a.editorModel.ConfirmMkdir = ""
				if err := storage.EnsureDir(dir); err != nil {
					a.editorModel.Error = err.Error()
					return nil
				}
				a.submitEditor()
			case "n", "N", "esc":
				a.editorModel.ConfirmMkdir = ""
			}
		}
		return nil
	}

	var cmd tea.Cmd
	a.editorModel, cmd = a.editorModel.Update(msg)

	if a.editorModel.Cancelled {
		a.editorModel.Cancelled = false
		a.backToWindow()
	} else if a.editorModel.Saved {
		a.editorModel.Saved = false
		a.submitEditor()
	}
	return cmd
}

// submitEditor runs the form's request. On failure the form stays open with
// its values so the request can be corrected and sent again.
func (a *App) submitEditor() {
	w := a.editorTarget

	if a.editorModel.Editing() {
		if err := a.manager.Edit(a.editorModel.EditRequest()); err != nil {
			a.editorModel.Error = err.Error()
			return
		}
		a.save()
		w.Message = "Attachment updated"
		a.backToWindow()
		return
	}

	lb := a.manager.Logbook()
	req := a.editorModel.NewRequest(w.Entry().ID, lb.DestinationDir())
	if !req.Type.IsURL() {
		if dir, err := storage.ExpandPath(req.TargetDir); err == nil && req.TargetDir != "" && !storage.IsDir(dir) {
			a.editorModel.ConfirmMkdir = req.TargetDir
			return
		}
	}

	att, err := a.manager.Create(context.Background(), req)
	if err != nil {
		a.editorModel.Error = err.Error()
		return
	}
	a.save()
	w.Message = "Attached " + att.Name()
	a.backToWindow()
}

func (a *App) backToWindow() {
	if i := slices.Index(a.windows, a.editorTarget); i >= 0 {
		a.active = i
		a.currentView = ViewWindow
		return
	}
	a.currentView = ViewList
}

func (a App) View() string {
	if a.err != nil {
		return "Error: " + a.err.Error() + "\n\nPress Ctrl+C to quit."
	}

	switch a.currentView {
	case ViewSelector:
		return a.selectorModel.View()
	case ViewSetup:
		return a.setupModel.View()
	case ViewList:
		return a.listModel.View()
	case ViewWindow:
		return a.windowTabs() + a.windows[a.active].View()
	case ViewEditor:
		return a.editorModel.View()
	case ViewSettings:
		return a.settingsModel.View()
	case ViewDeleteEntry:
		return a.renderDeleteEntry()
	case ViewDeleteAttachment:
		return a.renderDeleteAttachment()
	}

	return ""
}

func (a App) windowTabs() string {
	t := theme.Current()
	activeStyle := lipgloss.NewStyle().Foreground(t.Selected).Bold(true).Underline(true)
	tabStyle := lipgloss.NewStyle().Foreground(t.Muted)

	tabs := []string{tabStyle.Render("Entries")}
	for i, w := range a.windows {
		label := fmt.Sprintf("%d:%s", i+1, w.Title())
		if i == a.active {
			tabs = append(tabs, activeStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, joinTabs(tabs)...) + "\n"
}

func joinTabs(tabs []string) []string {
	out := make([]string, 0, len(tabs)*2)
	for i, tab := range tabs {
		if i > 0 {
			out = append(out, "  ")
		}
		out = append(out, tab)
	}
	return out
}

func (a App) renderDeleteEntry() string {
	t := theme.Current()

	entry := a.listModel.Selected()
	if entry == nil {
		return "No entry selected"
	}

	promptStyle := lipgloss.NewStyle().Foreground(t.Warning).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(t.Error).Bold(true)
	helpStyle := lipgloss.NewStyle().Foreground(t.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)

	var s string
	s += "\n"
	s += promptStyle.Render("Delete Entry?") + "\n\n"
	s += labelStyle.Render("  Title: ") + entry.Title + "\n"
	s += labelStyle.Render("  Attachments: ") + fmt.Sprint(len(a.manager.Attachments(entry.ID))) + " (files stay on disk)\n\n"
	s += helpStyle.Render("  Press ") + keyStyle.Render("y") + helpStyle.Render(" to confirm, ")
	s += keyStyle.Render("n") + helpStyle.Render(" or ") + keyStyle.Render("Esc") + helpStyle.Render(" to cancel")

	return s
}

func (a App) renderDeleteAttachment() string {
	t := theme.Current()

	att, ok := a.manager.Get(a.deleteID)
	if !ok {
		return "No attachment selected"
	}

	promptStyle := lipgloss.NewStyle().Foreground(t.Warning).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(t.Error).Bold(true)
	noteStyle := lipgloss.NewStyle().Foreground(t.TextDim).Italic(true)
	helpStyle := lipgloss.NewStyle().Foreground(t.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)

	title := "Remove Attachment?"
	if a.deleteFromDisk {
		title = "Delete Attachment And File?"
	}

	var s string
	s += "\n"
	s += promptStyle.Render(title) + "\n\n"
	s += labelStyle.Render("  Name: ") + att.Name() + "\n"
	s += labelStyle.Render("  Type: ") + att.Type().Name + "\n"
	if a.deleteShared {
		s += noteStyle.Render("  Another attachment uses this file; it will be kept on disk.") + "\n"
	} else if !a.deleteFromDisk && !att.IsURL() {
		s += noteStyle.Render("  The file stays in "+att.Path()) + "\n"
	}
	s += "\n"
	s += helpStyle.Render("  Press ") + keyStyle.Render("y") + helpStyle.Render(" to confirm, ")
	s += keyStyle.Render("n") + helpStyle.Render(" or ") + keyStyle.Render("Esc") + helpStyle.Render(" to cancel")

	return s
}
