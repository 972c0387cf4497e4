package ui

import (
	"path/filepath"
	"slices"
	"strings"

	"logbook/internal/storage"
	"logbook/internal/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type setupStep int

const (
	stepChoosePath setupStep = iota
	stepEnterName
	stepAttachmentDir
)

// SetupModel walks through creating a new logbook: where its catalog lives,
// its name, and the directory attachments are copied into.
type SetupModel struct {
	step          setupStep
	textInput     textinput.Model
	nameInput     textinput.Model
	dirInput      textinput.Model
	selectedOpt   int
	showPathInput bool
	CatalogPath   string
	Name          string
	AttachmentDir string
	Done          bool
	Cancelled     bool
	Error         string
	defaultPath   string
	existing      []string
}

// NewSetupModel creates the setup flow. existing lists catalogs already in
// use so they are not registered twice.
func NewSetupModel(existing ...string) SetupModel {
	ti := textinput.New()
	ti.Placeholder = "Enter catalog path..."
	ti.CharLimit = 256
	ti.Width = 50

	ni := textinput.New()
	ni.Placeholder = "Lab Notes"
	ni.CharLimit = 50
	ni.Width = 30

	di := textinput.New()
	di.CharLimit = 256
	di.Width = 50

	defaultPath, _ := storage.GetDefaultCatalogPath()

	return SetupModel{
		step:        stepChoosePath,
		textInput:   ti,
		nameInput:   ni,
		dirInput:    di,
		defaultPath: defaultPath,
		existing:    existing,
	}
}

func (m SetupModel) Init() tea.Cmd {
	return nil
}

func (m *SetupModel) choosePath(path string) tea.Cmd {
	expanded, err := storage.ExpandPath(path)
	if err != nil {
		m.Error = err.Error()
		return nil
	}
	if slices.Contains(m.existing, expanded) {
		m.Error = "A logbook already uses " + expanded
		return nil
	}
	m.Error = ""
	m.CatalogPath = expanded
	m.dirInput.SetValue(storage.DefaultAttachmentDir(expanded))
	m.showPathInput = false
	m.textInput.Blur()
	m.step = stepEnterName
	m.nameInput.Focus()
	return textinput.Blink
}

func (m SetupModel) Update(msg tea.Msg) (SetupModel, tea.Cmd) {
	var cmd tea.Cmd

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch m.step {
	case stepChoosePath:
		if m.showPathInput {
			switch keyMsg.String() {
			case "enter":
				if v := strings.TrimSpace(m.textInput.Value()); v != "" {
					return m, m.choosePath(v)
				}
				return m, nil
			case "esc":
				m.showPathInput = false
				m.textInput.Blur()
				return m, nil
			}
			m.textInput, cmd = m.textInput.Update(msg)
			return m, cmd
		}

		switch keyMsg.String() {
		case "up", "k":
			if m.selectedOpt > 0 {
				m.selectedOpt--
			}
		case "down", "j":
			if m.selectedOpt < 1 {
				m.selectedOpt++
			}
		case "enter":
			if m.selectedOpt == 0 {
				return m, m.choosePath(m.defaultPath)
			}
			m.showPathInput = true
			m.textInput.Focus()
			return m, textinput.Blink
		case "esc":
			m.Cancelled = true
		}

	case stepEnterName:
		switch keyMsg.String() {
		case "enter":
			m.Name = strings.TrimSpace(m.nameInput.Value())
			if m.Name == "" {
				m.Name = strings.TrimSuffix(filepath.Base(m.CatalogPath), filepath.Ext(m.CatalogPath))
			}
			m.nameInput.Blur()
			m.step = stepAttachmentDir
			m.dirInput.Focus()
			return m, textinput.Blink
		case "esc":
			m.step = stepChoosePath
			m.nameInput.Blur()
			return m, nil
		}
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd

	case stepAttachmentDir:
		switch keyMsg.String() {
		case "enter":
			dir := strings.TrimSpace(m.dirInput.Value())
			if dir == "" {
				dir = storage.DefaultAttachmentDir(m.CatalogPath)
			}
			m.AttachmentDir = dir
			m.Done = true
			return m, nil
		case "esc":
			m.step = stepEnterName
			m.dirInput.Blur()
			m.nameInput.Focus()
			return m, textinput.Blink
		}
		m.dirInput, cmd = m.dirInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m SetupModel) View() string {
	t := theme.Current()
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Title)
	promptStyle := lipgloss.NewStyle().Foreground(t.Text)
	optionStyle := lipgloss.NewStyle().Foreground(t.Text).PaddingLeft(2)
	selectedStyle := lipgloss.NewStyle().Foreground(t.Selected).Bold(true).PaddingLeft(2)
	pathStyle := lipgloss.NewStyle().Foreground(t.Info).Italic(true)
	helpStyle := lipgloss.NewStyle().Foreground(t.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	errorStyle := lipgloss.NewStyle().Foreground(t.Error).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim).Italic(true)

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("New Logbook"))
	b.WriteString("\n\n")

	switch m.step {
	case stepChoosePath:
		b.WriteString(promptStyle.Render("Where should the logbook catalog be stored?"))
		b.WriteString("\n\n")

		opt1 := "Use default location"
		if m.selectedOpt == 0 {
			b.WriteString(selectedStyle.Render("> " + opt1))
		} else {
			b.WriteString(optionStyle.Render("  " + opt1))
		}
		b.WriteString("\n    ")
		b.WriteString(pathStyle.Render(m.defaultPath))
		b.WriteString("\n\n")

		opt2 := "Enter custom path"
		if m.selectedOpt == 1 {
			b.WriteString(selectedStyle.Render("> " + opt2))
		} else {
			b.WriteString(optionStyle.Render("  " + opt2))
		}
		b.WriteString("\n")

		if m.showPathInput {
			b.WriteString("\n    ")
			b.WriteString(m.textInput.View())
			b.WriteString("\n")
		}
		if m.Error != "" {
			b.WriteString("\n  ")
			b.WriteString(errorStyle.Render(m.Error))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		if m.showPathInput {
			b.WriteString(helpStyle.Render("    " + keyStyle.Render("Enter") + " confirm  " + keyStyle.Render("Esc") + " cancel"))
		} else {
			b.WriteString(helpStyle.Render(keyStyle.Render("Up/Down") + " navigate  " + keyStyle.Render("Enter") + " select  " + keyStyle.Render("Esc") + " back"))
		}

	case stepEnterName:
		b.WriteString(promptStyle.Render("Give the logbook a name:"))
		b.WriteString("\n\n  ")
		b.WriteString(m.nameInput.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render(keyStyle.Render("Enter") + " continue  " + keyStyle.Render("Esc") + " back"))

	case stepAttachmentDir:
		b.WriteString(promptStyle.Render("Directory for attached files:"))
		b.WriteString("\n\n  ")
		b.WriteString(m.dirInput.View())
		b.WriteString("\n  ")
		b.WriteString(hintStyle.Render("created when the first file is attached"))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render(keyStyle.Render("Enter") + " create logbook  " + keyStyle.Render("Esc") + " back"))
	}

	return b.String()
}
