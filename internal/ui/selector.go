package ui

import (
	"strings"

	"logbook/internal/model"
	"logbook/internal/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// SelectorModel picks one of the known logbooks, or asks for a new one
type SelectorModel struct {
	logbooks      []model.LogbookRef
	selectedIndex int
	Selected      *model.LogbookRef
	CreateNew     bool
	Done          bool
	themeIndex    int
	themes        []string
	ThemeChanged  bool
	NewTheme      string
}

func NewSelectorModel(logbooks []model.LogbookRef, currentTheme string) SelectorModel {
	themes := theme.List()
	themeIndex := 0
	for i, t := range themes {
		if t == currentTheme {
			themeIndex = i
			break
		}
	}

	return SelectorModel{
		logbooks:   logbooks,
		themes:     themes,
		themeIndex: themeIndex,
		NewTheme:   themes[themeIndex],
	}
}

func (m SelectorModel) Init() tea.Cmd {
	return nil
}

func (m *SelectorModel) stepTheme(step int) {
	m.themeIndex = (m.themeIndex + step + len(m.themes)) % len(m.themes)
	m.NewTheme = m.themes[m.themeIndex]
	theme.Set(m.NewTheme)
	m.ThemeChanged = true
}

func (m SelectorModel) Update(msg tea.Msg) (SelectorModel, tea.Cmd) {
	// the last option is "Create new logbook"
	totalOptions := len(m.logbooks) + 1

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.selectedIndex > 0 {
				m.selectedIndex--
			}
		case "down", "j":
			if m.selectedIndex < totalOptions-1 {
				m.selectedIndex++
			}
		case "left", "h":
			m.stepTheme(-1)
		case "right", "l":
			m.stepTheme(1)
		case "enter":
			if m.selectedIndex < len(m.logbooks) {
				m.Selected = &m.logbooks[m.selectedIndex]
			} else {
				m.CreateNew = true
			}
			m.Done = true
		case "q":
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m SelectorModel) View() string {
	t := theme.Current()
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Title)
	selectedStyle := lipgloss.NewStyle().Foreground(t.Selected).Bold(true).PaddingLeft(2)
	itemStyle := lipgloss.NewStyle().Foreground(t.Text).PaddingLeft(2)
	pathStyle := lipgloss.NewStyle().Foreground(t.Info).Italic(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.Muted)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	helpStyle := lipgloss.NewStyle().Foreground(t.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	themeStyle := lipgloss.NewStyle().Foreground(t.Success).Bold(true)

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Theme: "))
	b.WriteString(themeStyle.Render(m.themes[m.themeIndex]))
	b.WriteString(mutedStyle.Render("  (Left/Right to change)"))
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render("Open Logbook"))
	b.WriteString("\n\n")

	for i, lb := range m.logbooks {
		name := lb.Name
		if name == "" {
			name = "Unnamed Logbook"
		}
		if !lb.LastOpened.IsZero() {
			name += mutedStyle.Render(" (opened " + humanize.Time(lb.LastOpened) + ")")
		}

		if i == m.selectedIndex {
			b.WriteString(selectedStyle.Render("> " + name))
		} else {
			b.WriteString(itemStyle.Render("  " + name))
		}
		b.WriteString("\n    ")
		b.WriteString(pathStyle.Render(lb.Catalog))
		b.WriteString("\n\n")
	}

	newOption := "Create new logbook"
	if m.selectedIndex == len(m.logbooks) {
		b.WriteString(selectedStyle.Render("> " + accentStyle.Render(newOption)))
	} else {
		b.WriteString(itemStyle.Render("  " + newOption))
	}
	b.WriteString("\n\n")

	b.WriteString(helpStyle.Render(keyStyle.Render("Up/Down") + " navigate | " + keyStyle.Render("Enter") + " select | " + keyStyle.Render("q") + " quit"))

	return b.String()
}
