package ui

import (
	"strings"

	"logbook/internal/engine"
	"logbook/internal/model"
	"logbook/internal/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

type editorField int

const (
	fieldSource editorField = iota
	fieldType
	fieldMode
	fieldComments
)

// EditorModel is the form for a new attachment request or an edit request.
// A rejected request keeps every field so it can be fixed and resubmitted.
type EditorModel struct {
	registry      *model.Registry
	types         []model.AttachmentType
	sourceInput   textinput.Model
	commentsInput textinput.Model
	typeIndex     int
	typeChosen    bool
	mode          engine.Mode
	focusedField  editorField
	EditingID     uuid.UUID
	editingName   string
	ConfirmMkdir  string // destination directory waiting for a yes/no
	Saved         bool
	Cancelled     bool
	Error         string
	width         int
}

func newInputs() (textinput.Model, textinput.Model) {
	si := textinput.New()
	si.Placeholder = "File path or URL"
	si.CharLimit = 1024
	si.Width = 60

	ci := textinput.New()
	ci.Placeholder = "Comments"
	ci.CharLimit = 512
	ci.Width = 60
	return si, ci
}

// NewEditorModel creates the form for attaching a new file or URL
func NewEditorModel(registry *model.Registry, linkByDefault bool) EditorModel {
	si, ci := newInputs()
	si.Focus()

	m := EditorModel{
		registry:      registry,
		types:         registry.Types(),
		sourceInput:   si,
		commentsInput: ci,
		focusedField:  fieldSource,
	}
	if linkByDefault {
		m.mode = engine.ModeLink
	}
	return m
}

// EditAttachmentModel creates the form for changing type and comments of an
// existing attachment
func EditAttachmentModel(registry *model.Registry, a *model.Attachment) EditorModel {
	si, ci := newInputs()
	ci.SetValue(a.Comments())

	m := EditorModel{
		registry:      registry,
		types:         registry.Types(),
		sourceInput:   si,
		commentsInput: ci,
		typeChosen:    true,
		focusedField:  fieldType,
		EditingID:     a.ID(),
		editingName:   a.Name(),
	}
	m.selectType(a.Type())
	return m
}

func (m EditorModel) Editing() bool {
	return m.EditingID != uuid.Nil
}

func (m *EditorModel) SetSize(width, height int) {
	m.width = width
	w := width - 10
	if w < 20 {
		w = 20
	}
	if w > 100 {
		w = 100
	}
	m.sourceInput.Width = w
	m.commentsInput.Width = w
}

func (m EditorModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *EditorModel) selectType(t model.AttachmentType) {
	for i, typ := range m.types {
		if typ.Equal(t) {
			m.typeIndex = i
			return
		}
	}
}

// Type returns the selected attachment type
func (m EditorModel) Type() model.AttachmentType {
	if len(m.types) == 0 {
		return m.registry.Lookup(model.KindUnknown)
	}
	return m.types[m.typeIndex]
}

func (m EditorModel) fields() []editorField {
	if m.Editing() {
		return []editorField{fieldType, fieldComments}
	}
	return []editorField{fieldSource, fieldType, fieldMode, fieldComments}
}

func (m *EditorModel) focus(f editorField) tea.Cmd {
	// leaving the source field guesses the type unless one was picked
	if m.focusedField == fieldSource && f != fieldSource && !m.typeChosen {
		if src := strings.TrimSpace(m.sourceInput.Value()); src != "" {
			m.selectType(m.registry.Detect(src))
		}
	}

	m.focusedField = f
	m.sourceInput.Blur()
	m.commentsInput.Blur()
	switch f {
	case fieldSource:
		m.sourceInput.Focus()
		return textinput.Blink
	case fieldComments:
		m.commentsInput.Focus()
		return textinput.Blink
	}
	return nil
}

func (m *EditorModel) cycleFocus(step int) tea.Cmd {
	fields := m.fields()
	i := 0
	for j, f := range fields {
		if f == m.focusedField {
			i = j
		}
	}
	i = (i + step + len(fields)) % len(fields)
	return m.focus(fields[i])
}

func (m EditorModel) Update(msg tea.Msg) (EditorModel, tea.Cmd) {
	var cmd tea.Cmd

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if m.ConfirmMkdir != "" {
			// answered by the app
			return m, nil
		}

		switch keyMsg.String() {
		case "tab", "down":
			return m, m.cycleFocus(1)
		case "shift+tab", "up":
			return m, m.cycleFocus(-1)

		case "esc":
			m.Cancelled = true
			return m, nil

		case "ctrl+s":
			m.submit()
			return m, nil

		case "enter":
			fields := m.fields()
			if m.focusedField == fields[len(fields)-1] {
				m.submit()
				return m, nil
			}
			return m, m.cycleFocus(1)

		case "left", "right", " ":
			switch m.focusedField {
			case fieldType:
				step := 1
				if keyMsg.String() == "left" {
					step = len(m.types) - 1
				}
				m.typeIndex = (m.typeIndex + step) % len(m.types)
				m.typeChosen = true
				return m, nil
			case fieldMode:
				if m.mode == engine.ModeCopy {
					m.mode = engine.ModeLink
				} else {
					m.mode = engine.ModeCopy
				}
				return m, nil
			}
		}
	}

	m.Error = ""

	switch m.focusedField {
	case fieldSource:
		m.sourceInput, cmd = m.sourceInput.Update(msg)
	case fieldComments:
		m.commentsInput, cmd = m.commentsInput.Update(msg)
	}

	return m, cmd
}

func (m *EditorModel) submit() {
	if !m.Editing() && strings.TrimSpace(m.sourceInput.Value()) == "" {
		m.Error = "A file path or URL is required"
		return
	}
	if m.focusedField == fieldSource {
		m.focus(fieldType)
	}
	m.Saved = true
}

// NewRequest builds the create request from the form
func (m EditorModel) NewRequest(entryID uuid.UUID, targetDir string) engine.NewAttachmentRequest {
	return engine.NewAttachmentRequest{
		EntryID:   entryID,
		Source:    strings.TrimSpace(m.sourceInput.Value()),
		Type:      m.Type(),
		TargetDir: targetDir,
		Mode:      m.mode,
		Comments:  m.commentsInput.Value(),
	}
}

// EditRequest builds the edit request from the form
func (m EditorModel) EditRequest() engine.EditAttachmentRequest {
	return engine.EditAttachmentRequest{
		AttachmentID: m.EditingID,
		Type:         m.Type(),
		Comments:     m.commentsInput.Value(),
	}
}

func (m EditorModel) View() string {
	t := theme.Current()
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Title)
	labelStyle := lipgloss.NewStyle().Foreground(t.Text).Bold(true)
	labelActiveStyle := lipgloss.NewStyle().Foreground(t.Selected).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(t.Info)
	helpStyle := lipgloss.NewStyle().Foreground(t.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	errorStyle := lipgloss.NewStyle().Foreground(t.Error).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim).Italic(true)
	promptStyle := lipgloss.NewStyle().Foreground(t.Warning).Bold(true)

	label := func(f editorField, text string) string {
		if m.focusedField == f {
			return labelActiveStyle.Render("> " + text)
		}
		return labelStyle.Render("  " + text)
	}

	b.WriteString("\n")
	if m.Editing() {
		b.WriteString(titleStyle.Render("Edit Attachment"))
		b.WriteString("  ")
		b.WriteString(valueStyle.Render(m.editingName))
	} else {
		b.WriteString(titleStyle.Render("New Attachment"))
	}
	b.WriteString("\n\n")

	if !m.Editing() {
		b.WriteString(label(fieldSource, "Source:"))
		b.WriteString("\n  ")
		b.WriteString(m.sourceInput.View())
		b.WriteString("\n\n")
	}

	b.WriteString(label(fieldType, "Type:"))
	b.WriteString(" ")
	b.WriteString(valueStyle.Render("< " + m.Type().Name + " >"))
	if !m.typeChosen && !m.Editing() {
		b.WriteString("  ")
		b.WriteString(hintStyle.Render("(detected)"))
	}
	b.WriteString("\n\n")

	if !m.Editing() {
		b.WriteString(label(fieldMode, "Mode:"))
		b.WriteString(" ")
		b.WriteString(valueStyle.Render(m.mode.String()))
		if m.Type().IsURL() {
			b.WriteString("  ")
			b.WriteString(hintStyle.Render("(URLs are stored as is)"))
		}
		b.WriteString("\n\n")
	}

	b.WriteString(label(fieldComments, "Comments:"))
	b.WriteString("\n  ")
	b.WriteString(m.commentsInput.View())
	b.WriteString("\n")

	if m.Error != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.Error))
		b.WriteString("\n")
	}

	if m.ConfirmMkdir != "" {
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("Create directory " + m.ConfirmMkdir + "?"))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render(keyStyle.Render("y") + " create | " + keyStyle.Render("n") + " back to the form"))
		return b.String()
	}

	b.WriteString("\n")

	var parts []string
	parts = append(parts, keyStyle.Render("Tab")+" switch fields")
	parts = append(parts, keyStyle.Render("Left/Right")+" change")
	parts = append(parts, keyStyle.Render("Ctrl+S")+" save")
	parts = append(parts, keyStyle.Render("Esc")+" cancel")
	b.WriteString(helpStyle.Render(strings.Join(parts, " | ")))

	return b.String()
}
