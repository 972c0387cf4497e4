package ui

import (
	"fmt"
	"strings"

	"logbook/internal/engine"
	"logbook/internal/model"
	"logbook/internal/theme"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

type WindowAction int

const (
	WindowNone WindowAction = iota
	WindowAdd
	WindowEdit
	WindowDelete
	WindowDeleteFromDisk
	WindowOpen
	WindowRefresh
	WindowClose
)

const (
	minColumnWidth = 4
	maxNameWidth   = 48
)

// AttachmentWindow lists attachments in a table. One window shows a single
// entry; the global window (entry nil) shows the whole logbook. Rows are
// pushed into it by the engine.
type AttachmentWindow struct {
	id         uuid.UUID
	entry      *model.Entry
	rows       []*engine.Row
	order      []*engine.Row // rows as displayed, after sorting
	table      table.Model
	sortColumn model.Column
	descending bool
	visible    bool
	Action     WindowAction
	Error      string
	Message    string
	width      int
	height     int
}

func NewAttachmentWindow(entry *model.Entry) *AttachmentWindow {
	t := table.New(
		table.WithFocused(true),
		table.WithHeight(10),
		table.WithStyles(theme.Current().TableStyles()),
	)
	w := &AttachmentWindow{
		id:         uuid.New(),
		entry:      entry,
		table:      t,
		sortColumn: model.ColumnName,
	}
	w.layout()
	return w
}

func (w *AttachmentWindow) ViewID() uuid.UUID { return w.id }

// Entry returns the entry shown, or nil for the global window
func (w *AttachmentWindow) Entry() *model.Entry { return w.entry }

func (w *AttachmentWindow) Global() bool { return w.entry == nil }

func (w *AttachmentWindow) Visible() bool { return w.visible }

func (w *AttachmentWindow) Title() string {
	if w.entry == nil {
		return "All attachments"
	}
	return w.entry.Title
}

func (w *AttachmentWindow) InsertRow(r *engine.Row) {
	w.rows = append(w.rows, r)
	w.layout()
}

func (w *AttachmentWindow) UpdateRow(*engine.Row) {
	w.layout()
}

func (w *AttachmentWindow) RemoveRow(r *engine.Row) {
	for i, row := range w.rows {
		if row == r {
			w.rows = append(w.rows[:i], w.rows[i+1:]...)
			break
		}
	}
	w.layout()
}

func (w *AttachmentWindow) SetVisible(visible bool) {
	w.visible = visible
}

func (w *AttachmentWindow) SetSize(width, height int) {
	w.width = width
	w.height = height
	h := height - 12
	if h < 3 {
		h = 3
	}
	w.table.SetHeight(h)
}

// Selected returns the attachment under the cursor
func (w *AttachmentWindow) Selected() (*model.Attachment, bool) {
	i := w.table.Cursor()
	if i < 0 || i >= len(w.order) {
		return nil, false
	}
	return w.order[i].Attachment()
}

// Len returns the number of rows shown
func (w *AttachmentWindow) Len() int { return len(w.order) }

// layout sorts the rows and recomputes every column width from the content
// currently shown.
func (w *AttachmentWindow) layout() {
	atts := make([]*model.Attachment, 0, len(w.rows))
	byID := make(map[uuid.UUID]*engine.Row, len(w.rows))
	for _, r := range w.rows {
		a, ok := r.Attachment()
		if !ok {
			continue
		}
		atts = append(atts, a)
		byID[a.ID()] = r
	}
	model.SortAttachments(atts, w.sortColumn, w.descending)

	columns := model.Columns()
	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = max(minColumnWidth, lipgloss.Width(w.header(c)))
	}

	w.order = w.order[:0]
	rows := make([]table.Row, 0, len(atts))
	for _, a := range atts {
		w.order = append(w.order, byID[a.ID()])
		row := make(table.Row, len(columns))
		for i, c := range columns {
			row[i] = cell(a, c)
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
		rows = append(rows, row)
	}

	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		width := widths[i]
		if c == model.ColumnName {
			width = min(width, maxNameWidth)
		}
		cols[i] = table.Column{Title: w.header(c), Width: width}
	}

	w.table.SetColumns(cols)
	w.table.SetRows(rows)
	if n := len(rows); n > 0 && w.table.Cursor() >= n {
		w.table.SetCursor(n - 1)
	}
}

func (w *AttachmentWindow) header(c model.Column) string {
	title := c.String()
	if c != w.sortColumn {
		return title
	}
	if w.descending {
		return title + " v"
	}
	return title + " ^"
}

func cell(a *model.Attachment, c model.Column) string {
	s := a.Cell(c)
	if c == model.ColumnName && a.Broken() {
		s = "! " + s
	}
	return s
}

func (w *AttachmentWindow) Init() tea.Cmd {
	return nil
}

func (w *AttachmentWindow) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	w.Error = ""
	w.Message = ""
	hasRows := len(w.order) > 0

	switch keyMsg.String() {
	case "a":
		if !w.Global() {
			w.Action = WindowAdd
		}
		return nil
	case "e":
		if hasRows {
			w.Action = WindowEdit
		}
		return nil
	case "d":
		if hasRows {
			w.Action = WindowDelete
		}
		return nil
	case "D":
		if hasRows {
			w.Action = WindowDeleteFromDisk
		}
		return nil
	case "o", "enter":
		if hasRows {
			w.Action = WindowOpen
		}
		return nil
	case "r":
		w.Action = WindowRefresh
		return nil
	case "s":
		w.sortColumn = w.sortColumn.Next()
		w.layout()
		return nil
	case "S":
		w.descending = !w.descending
		w.layout()
		return nil
	case "esc", "q":
		w.Action = WindowClose
		return nil
	}

	var cmd tea.Cmd
	w.table, cmd = w.table.Update(msg)
	return cmd
}

func (w *AttachmentWindow) View() string {
	t := theme.Current()
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Title)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.Info).Bold(true)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Italic(true).PaddingLeft(2)
	helpStyle := lipgloss.NewStyle().Foreground(t.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	errorStyle := lipgloss.NewStyle().Foreground(t.Error).Bold(true)
	successStyle := lipgloss.NewStyle().Foreground(t.Success).Bold(true)
	commentStyle := lipgloss.NewStyle().Foreground(t.TextDim).Italic(true)
	brokenStyle := lipgloss.NewStyle().Foreground(t.Broken)

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Attachments"))
	b.WriteString("  ")
	b.WriteString(subtitleStyle.Render(w.Title()))
	b.WriteString("\n\n")

	if !w.visible {
		if w.Global() {
			b.WriteString(emptyStyle.Render("The logbook has no attachments."))
		} else {
			b.WriteString(emptyStyle.Render("No attachments. Press 'a' to add one."))
		}
		b.WriteString("\n\n")
	} else {
		b.WriteString(w.table.View())
		b.WriteString("\n")
		if a, ok := w.Selected(); ok {
			if a.Broken() {
				b.WriteString(brokenStyle.Render("  missing on disk: " + a.Path()))
				b.WriteString("\n")
			}
			if a.Comments() != "" {
				b.WriteString(commentStyle.Render("  " + a.Comments()))
				b.WriteString("\n")
			}
			if !a.IsURL() {
				b.WriteString(commentStyle.Render(fmt.Sprintf("  modified %s", a.DisplayAge())))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}

	if w.Error != "" {
		b.WriteString(errorStyle.Render(w.Error))
		b.WriteString("\n\n")
	}
	if w.Message != "" {
		b.WriteString(successStyle.Render(w.Message))
		b.WriteString("\n\n")
	}

	var parts []string
	if !w.Global() {
		parts = append(parts, keyStyle.Render("a")+" add")
	}
	if len(w.order) > 0 {
		parts = append(parts, keyStyle.Render("e")+" edit")
		parts = append(parts, keyStyle.Render("o")+" open")
		parts = append(parts, keyStyle.Render("d/D")+" delete/from disk")
	}
	parts = append(parts, keyStyle.Render("r")+" refresh")
	parts = append(parts, keyStyle.Render("s/S")+" sort/reverse")
	parts = append(parts, keyStyle.Render("Tab")+" next window")
	parts = append(parts, keyStyle.Render("Esc")+" close")
	b.WriteString(helpStyle.Render(strings.Join(parts, " | ")))

	return b.String()
}
