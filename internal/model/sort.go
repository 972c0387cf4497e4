package model

import (
	"sort"
	"strings"
)

// Column is a sortable attachment list column
type Column int

const (
	ColumnName Column = iota
	ColumnType
	ColumnSize
	ColumnModified
	ColumnCreated
)

var columnTitles = []string{"Name", "Type", "Size", "Modified", "Created"}

// Columns lists every column in display order
func Columns() []Column {
	return []Column{ColumnName, ColumnType, ColumnSize, ColumnModified, ColumnCreated}
}

func (c Column) String() string {
	if c < 0 || int(c) >= len(columnTitles) {
		return "?"
	}
	return columnTitles[c]
}

// Next cycles to the following column
func (c Column) Next() Column {
	return (c + 1) % Column(len(columnTitles))
}

// ParseColumn maps a column title to a column, case-insensitively
func ParseColumn(s string) (Column, bool) {
	for i, title := range columnTitles {
		if strings.EqualFold(title, s) {
			return Column(i), true
		}
	}
	return ColumnName, false
}

// Cell returns the text an attachment shows in column c
func (a *Attachment) Cell(c Column) string {
	switch c {
	case ColumnType:
		return a.typ.Name
	case ColumnSize:
		return a.DisplaySize()
	case ColumnModified:
		return a.DisplayModified()
	case ColumnCreated:
		return a.DisplayCreated()
	default:
		return a.Name()
	}
}

// Less orders two attachments by column c. Sizes compare as numbers and
// times as instants even though their cells are text.
func Less(a, b *Attachment, c Column) bool {
	switch c {
	case ColumnType:
		if a.typ.Kind != b.typ.Kind {
			return strings.ToLower(a.typ.Name) < strings.ToLower(b.typ.Name)
		}
	case ColumnSize:
		if a.stat.Size != b.stat.Size {
			return a.stat.Size < b.stat.Size
		}
	case ColumnModified:
		if !a.stat.Modified.Equal(b.stat.Modified) {
			return a.stat.Modified.Before(b.stat.Modified)
		}
	case ColumnCreated:
		if !a.stat.Created.Equal(b.stat.Created) {
			return a.stat.Created.Before(b.stat.Created)
		}
	}
	return strings.ToLower(a.Name()) < strings.ToLower(b.Name())
}

// SortAttachments sorts in place by column c. Ties keep their order.
func SortAttachments(list []*Attachment, c Column, descending bool) {
	sort.SliceStable(list, func(i, j int) bool {
		if descending {
			return Less(list[j], list[i], c)
		}
		return Less(list[i], list[j], c)
	})
}
