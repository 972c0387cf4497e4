package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fileAttachment(name string, size int64, modified time.Time) *Attachment {
	r := NewRegistry(nil)
	return NewFileAttachment(r.Lookup(KindPlainText), "/src/"+name, "/logbook/att/"+name, "", FileStat{
		Size:     size,
		Created:  modified,
		Modified: modified,
	})
}

func TestFileAttachmentAccessors(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	a := fileAttachment("run.txt", 2048, now)

	assert.Equal(t, "run.txt", a.Name())
	assert.Equal(t, "/logbook/att/run.txt", a.Path())
	assert.Equal(t, "/src/run.txt", a.Source())
	assert.Equal(t, "2.0 KiB", a.DisplaySize())
	assert.Equal(t, "2024-03-01 09:30", a.DisplayModified())

	f, ok := a.File()
	assert.True(t, ok)
	assert.Equal(t, "/logbook/att/run.txt", f.Path)
}

func TestURLAttachmentHasNoFile(t *testing.T) {
	r := NewRegistry(nil)
	a := NewURLAttachment(r.Lookup(KindURL), "https://example.org/elog", "wiki")

	_, ok := a.File()
	assert.False(t, ok)
	assert.Equal(t, "https://example.org/elog", a.Path())
	assert.Equal(t, "https://example.org/elog", a.Name())
	assert.Equal(t, "-", a.DisplaySize())
	assert.Equal(t, "-", a.DisplayModified())
}

func TestEdit(t *testing.T) {
	r := NewRegistry(nil)
	a := fileAttachment("scope.png", 1, time.Now())

	a.Edit(r.Lookup(KindImage), "scope trace")
	assert.Equal(t, KindImage, a.Type().Kind)
	assert.Equal(t, "scope trace", a.Comments())

	a.Edit(r.Lookup(KindURL), "changed")
	assert.Equal(t, KindURL, a.Type().Kind)
	assert.Equal(t, "changed", a.Comments())
	_, ok := a.File()
	assert.False(t, ok, "a URL has no managed file")
}

func TestUpdateStatKeepsCreation(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := fileAttachment("a.txt", 1, created)
	a.MarkBroken()

	later := created.Add(time.Hour)
	a.UpdateStat(FileStat{Size: 7, Created: later, Modified: later})

	assert.Equal(t, int64(7), a.Size())
	assert.Equal(t, created, a.Created())
	assert.Equal(t, later, a.Modified())
	assert.False(t, a.Broken())
}

func TestSortBySizeIsNumeric(t *testing.T) {
	now := time.Now()
	list := []*Attachment{
		fileAttachment("ten", 10, now),
		fileAttachment("two", 2, now),
		fileAttachment("hundred", 100, now),
	}

	SortAttachments(list, ColumnSize, false)

	var sizes []int64
	for _, a := range list {
		sizes = append(sizes, a.Size())
	}
	assert.Equal(t, []int64{2, 10, 100}, sizes)

	SortAttachments(list, ColumnSize, true)
	assert.Equal(t, int64(100), list[0].Size())
}

func TestSortByModifiedIsTemporal(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	list := []*Attachment{
		fileAttachment("b", 1, base.Add(48*time.Hour)),
		fileAttachment("a", 1, base.Add(9*time.Hour)),
		fileAttachment("c", 1, base.Add(10*time.Hour)),
	}

	SortAttachments(list, ColumnModified, false)

	assert.Equal(t, []string{"a", "c", "b"}, []string{list[0].Name(), list[1].Name(), list[2].Name()})
}

func TestSortByNameIgnoresCase(t *testing.T) {
	now := time.Now()
	list := []*Attachment{
		fileAttachment("beta", 1, now),
		fileAttachment("Alpha", 1, now),
		fileAttachment("gamma", 1, now),
	}

	SortAttachments(list, ColumnName, false)

	assert.Equal(t, "Alpha", list[0].Name())
	assert.Equal(t, "gamma", list[2].Name())
}

func TestColumns(t *testing.T) {
	assert.Equal(t, ColumnType, ColumnName.Next())
	assert.Equal(t, ColumnName, ColumnCreated.Next())

	c, ok := ParseColumn("size")
	assert.True(t, ok)
	assert.Equal(t, ColumnSize, c)

	_, ok = ParseColumn("colour")
	assert.False(t, ok)
}
