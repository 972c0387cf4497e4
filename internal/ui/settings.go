package ui

import (
	"strings"

	"logbook/internal/model"
	"logbook/internal/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type settingsField int

const (
	settingsFieldDir settingsField = iota
	settingsFieldLink
)

// SettingsModel edits the attachment directory of the open logbook and the
// default transfer mode. Existing attachments keep their files where they are.
type SettingsModel struct {
	config        *model.Config
	logbook       *model.Logbook
	dirInput      textinput.Model
	focusedField  settingsField
	LinkByDefault bool
	AttachmentDir string
	Saved         bool
	Cancelled     bool
}

func NewSettingsModel(config *model.Config, lb *model.Logbook) SettingsModel {
	ti := textinput.New()
	ti.SetValue(lb.AttachmentDir)
	ti.CharLimit = 256
	ti.Width = 50
	ti.Focus()

	return SettingsModel{
		config:        config,
		logbook:       lb,
		dirInput:      ti,
		focusedField:  settingsFieldDir,
		LinkByDefault: config.LinkByDefault,
		AttachmentDir: lb.AttachmentDir,
	}
}

func (m SettingsModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m SettingsModel) Update(msg tea.Msg) (SettingsModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab":
			if m.focusedField == settingsFieldDir {
				m.focusedField = settingsFieldLink
				m.dirInput.Blur()
				return m, nil
			}
			m.focusedField = settingsFieldDir
			m.dirInput.Focus()
			return m, textinput.Blink

		case "enter", " ":
			if m.focusedField == settingsFieldLink {
				m.LinkByDefault = !m.LinkByDefault
				return m, nil
			}

		case "esc":
			m.Cancelled = true
			return m, nil

		case "ctrl+s":
			if dir := strings.TrimSpace(m.dirInput.Value()); dir != "" {
				m.AttachmentDir = dir
			}
			m.Saved = true
			return m, nil
		}
	}

	if m.focusedField == settingsFieldDir {
		m.dirInput, cmd = m.dirInput.Update(msg)
	}

	return m, cmd
}

func (m SettingsModel) View() string {
	t := theme.Current()
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Title)
	labelStyle := lipgloss.NewStyle().Foreground(t.Text).Bold(true)
	labelActiveStyle := lipgloss.NewStyle().Foreground(t.Selected).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(t.Info)
	helpStyle := lipgloss.NewStyle().Foreground(t.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	checkboxStyle := lipgloss.NewStyle().Foreground(t.Text).PaddingLeft(2)
	checkboxSelectedStyle := lipgloss.NewStyle().Foreground(t.Selected).Bold(true).PaddingLeft(2)
	checkmarkStyle := lipgloss.NewStyle().Foreground(t.Success).Bold(true)
	dividerStyle := lipgloss.NewStyle().Foreground(t.Muted)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim).Italic(true)

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Logbook Settings"))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Logbook: "))
	b.WriteString(valueStyle.Render(m.logbook.Name))
	b.WriteString("\n\n")

	b.WriteString(dividerStyle.Render(strings.Repeat("-", 60)))
	b.WriteString("\n\n")

	dirLabel := "Attachment directory:"
	if m.focusedField == settingsFieldDir {
		b.WriteString(labelActiveStyle.Render("> " + dirLabel))
	} else {
		b.WriteString(labelStyle.Render("  " + dirLabel))
	}
	b.WriteString("\n  ")
	b.WriteString(m.dirInput.View())
	b.WriteString("\n  ")
	b.WriteString(hintStyle.Render("applies to new attachments"))
	b.WriteString("\n\n")

	checkbox := "[ ]"
	if m.LinkByDefault {
		checkbox = "[" + checkmarkStyle.Render("x") + "]"
	}
	linkLabel := checkbox + " Link files instead of copying them"
	if m.focusedField == settingsFieldLink {
		b.WriteString(checkboxSelectedStyle.Render("> " + linkLabel))
	} else {
		b.WriteString(checkboxStyle.Render("  " + linkLabel))
	}
	b.WriteString("\n\n")

	var parts []string
	parts = append(parts, keyStyle.Render("Tab")+" switch fields")
	parts = append(parts, keyStyle.Render("Space/Enter")+" toggle")
	parts = append(parts, keyStyle.Render("Ctrl+S")+" save")
	parts = append(parts, keyStyle.Render("Esc")+" cancel")

	b.WriteString(helpStyle.Render(strings.Join(parts, " | ")))

	return b.String()
}
