package ui

import (
	"fmt"
	"strings"

	"logbook/internal/engine"
	"logbook/internal/model"
	"logbook/internal/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type ListAction int

const (
	ActionNone ListAction = iota
	ActionNewEntry
	ActionOpenEntry
	ActionDeleteEntry
	ActionGlobalView
	ActionNextWindow
	ActionSettings
	ActionQuit
)

// ListModel is the entry list of the open logbook
type ListModel struct {
	manager       *engine.Manager
	entries       []*model.Entry
	SelectedIndex int
	Action        ListAction
	titleInput    textinput.Model
	naming        bool
	NewTitle      string
	width         int
	height        int
	offset        int
}

func NewListModel(manager *engine.Manager) ListModel {
	ti := textinput.New()
	ti.Placeholder = "Entry title"
	ti.CharLimit = 120
	ti.Width = 50

	m := ListModel{
		manager:    manager,
		titleInput: ti,
	}
	m.Reload()
	return m
}

// Reload re-reads the entries after a change
func (m *ListModel) Reload() {
	m.entries = m.manager.Entries()
	if m.SelectedIndex >= len(m.entries) {
		m.SelectedIndex = max(0, len(m.entries)-1)
	}
}

func (m *ListModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Selected returns the entry under the cursor
func (m ListModel) Selected() *model.Entry {
	if m.SelectedIndex >= 0 && m.SelectedIndex < len(m.entries) {
		return m.entries[m.SelectedIndex]
	}
	return nil
}

func (m ListModel) Init() tea.Cmd {
	return nil
}

func (m ListModel) Update(msg tea.Msg) (ListModel, tea.Cmd) {
	var cmd tea.Cmd

	if m.naming {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "enter":
				if title := strings.TrimSpace(m.titleInput.Value()); title != "" {
					m.NewTitle = title
					m.Action = ActionNewEntry
				}
				m.naming = false
				m.titleInput.SetValue("")
				m.titleInput.Blur()
				return m, nil
			case "esc":
				m.naming = false
				m.titleInput.SetValue("")
				m.titleInput.Blur()
				return m, nil
			}
		}
		m.titleInput, cmd = m.titleInput.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.SelectedIndex > 0 {
				m.SelectedIndex--
				m.adjustScroll()
			}
		case "down", "j":
			if m.SelectedIndex < len(m.entries)-1 {
				m.SelectedIndex++
				m.adjustScroll()
			}
		case "enter":
			if len(m.entries) > 0 {
				m.Action = ActionOpenEntry
			}
		case "n":
			m.naming = true
			m.titleInput.Focus()
			return m, textinput.Blink
		case "d":
			if len(m.entries) > 0 {
				m.Action = ActionDeleteEntry
			}
		case "g":
			m.Action = ActionGlobalView
		case "tab":
			m.Action = ActionNextWindow
		case "s":
			m.Action = ActionSettings
		case "q":
			m.Action = ActionQuit
		}
	}

	return m, nil
}

func (m *ListModel) adjustScroll() {
	visibleLines := m.height - 8
	if visibleLines < 1 {
		visibleLines = 10
	}

	if m.SelectedIndex < m.offset {
		m.offset = m.SelectedIndex
	} else if m.SelectedIndex >= m.offset+visibleLines {
		m.offset = m.SelectedIndex - visibleLines + 1
	}
}

func (m ListModel) View() string {
	t := theme.Current()
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Title)
	itemStyle := lipgloss.NewStyle().PaddingLeft(2)
	selectedStyle := lipgloss.NewStyle().Foreground(t.Selected).Bold(true).PaddingLeft(2)
	idStyle := lipgloss.NewStyle().Foreground(t.Info).Bold(true)
	textStyle := lipgloss.NewStyle().Foreground(t.Text)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Italic(true).PaddingLeft(2)
	helpStyle := lipgloss.NewStyle().Foreground(t.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	scrollStyle := lipgloss.NewStyle().Foreground(t.Muted).Italic(true)
	badgeStyle := lipgloss.NewStyle().Foreground(t.Warning).Bold(true)
	attachBadgeStyle := lipgloss.NewStyle().Foreground(t.Success).Bold(true)

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(m.manager.Logbook().Name))
	b.WriteString("\n\n")

	if m.naming {
		b.WriteString("New entry:\n\n  ")
		b.WriteString(m.titleInput.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render(keyStyle.Render("Enter") + " create | " + keyStyle.Render("Esc") + " cancel"))
		return b.String()
	}

	if len(m.entries) == 0 {
		b.WriteString(emptyStyle.Render("No entries yet. Press 'n' to create one."))
		b.WriteString("\n")
	} else {
		visibleLines := m.height - 8
		if visibleLines < 1 {
			visibleLines = 10
		}

		end := min(m.offset+visibleLines, len(m.entries))

		for i := m.offset; i < end; i++ {
			entry := m.entries[i]
			id := idStyle.Render("[" + entry.ShortID() + "]")
			title := textStyle.Render(entry.Title)

			badges := ""
			if n := len(m.manager.Attachments(entry.ID)); n > 0 {
				badges += attachBadgeStyle.Render(fmt.Sprintf(" [%d files]", n))
			}
			if entry.Modified() {
				badges += badgeStyle.Render(" *")
			}

			line := fmt.Sprintf("%s %s%s", id, title, badges)

			if i == m.SelectedIndex {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString(itemStyle.Render("  " + line))
			}
			b.WriteString("\n")
		}

		if len(m.entries) > visibleLines {
			scrollInfo := fmt.Sprintf("(%d-%d of %d)", m.offset+1, end, len(m.entries))
			b.WriteString(scrollStyle.Render("  " + scrollInfo))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")

	var parts []string
	parts = append(parts, keyStyle.Render("Up/Down")+" navigate")
	parts = append(parts, keyStyle.Render("Enter")+" attachments")
	parts = append(parts, keyStyle.Render("n")+" new")
	parts = append(parts, keyStyle.Render("g")+" all attachments")
	parts = append(parts, keyStyle.Render("Tab")+" windows")
	parts = append(parts, keyStyle.Render("d")+" delete")
	parts = append(parts, keyStyle.Render("s")+" settings")
	parts = append(parts, keyStyle.Render("q")+" quit")

	b.WriteString(helpStyle.Render(strings.Join(parts, " | ")))

	return b.String()
}
