package model

import (
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

const timeLayout = "2006-01-02 15:04"

// ManagedFile is the on-disk side of a file attachment. Only attachments that
// are not URLs hand one out, so disk operations cannot be reached for URLs.
type ManagedFile struct {
	Source string
	Path   string
}

// FileStat is what an attachment records about its managed file
type FileStat struct {
	Size     int64
	Created  time.Time
	Modified time.Time
}

// Attachment is a file or URL attached to one log entry.
// Ownership by an entry is tracked outside the attachment.
type Attachment struct {
	id       uuid.UUID
	typ      AttachmentType
	source   string
	path     string
	comments string
	stat     FileStat
	broken   bool
}

// NewFileAttachment builds an attachment for a managed file that already
// exists on disk. stat must come from the managed file, not the source.
func NewFileAttachment(typ AttachmentType, source, managed, comments string, stat FileStat) *Attachment {
	return &Attachment{
		id:       uuid.New(),
		typ:      typ,
		source:   source,
		path:     managed,
		comments: comments,
		stat:     stat,
	}
}

// NewURLAttachment builds a URL attachment; the URL is kept verbatim.
func NewURLAttachment(typ AttachmentType, rawURL, comments string) *Attachment {
	return &Attachment{
		id:       uuid.New(),
		typ:      typ,
		source:   rawURL,
		path:     rawURL,
		comments: comments,
	}
}

// Restore rebuilds an attachment from catalog metadata, keeping its id.
func Restore(id uuid.UUID, typ AttachmentType, source, managed, comments string, stat FileStat) *Attachment {
	a := &Attachment{
		id:       id,
		typ:      typ,
		source:   source,
		path:     managed,
		comments: comments,
	}
	if !typ.IsURL() {
		a.stat = stat
	}
	return a
}

func (a *Attachment) ID() uuid.UUID        { return a.id }
func (a *Attachment) Type() AttachmentType { return a.typ }
func (a *Attachment) Source() string       { return a.source }
func (a *Attachment) Path() string         { return a.path }
func (a *Attachment) Comments() string     { return a.comments }
func (a *Attachment) Size() int64          { return a.stat.Size }
func (a *Attachment) Created() time.Time   { return a.stat.Created }
func (a *Attachment) Modified() time.Time  { return a.stat.Modified }
func (a *Attachment) Stat() FileStat       { return a.stat }
func (a *Attachment) IsURL() bool          { return a.typ.IsURL() }
func (a *Attachment) Broken() bool         { return a.broken }

// File returns the managed file, or false for URL attachments.
func (a *Attachment) File() (ManagedFile, bool) {
	if a.typ.IsURL() {
		return ManagedFile{}, false
	}
	return ManagedFile{Source: a.source, Path: a.path}, true
}

// Edit changes the type and comments. The file system is not touched: a file
// retyped as URL keeps its file on disk, and a URL retyped as a file has no
// managed file to remove.
func (a *Attachment) Edit(typ AttachmentType, comments string) {
	a.typ = typ
	a.comments = comments
}

// UpdateStat records fresh metadata read from the managed file.
// The creation time is kept once known.
func (a *Attachment) UpdateStat(stat FileStat) {
	if !a.stat.Created.IsZero() {
		stat.Created = a.stat.Created
	}
	a.stat = stat
	a.broken = false
}

// MarkBroken flags an attachment whose managed file has disappeared
func (a *Attachment) MarkBroken() {
	a.broken = true
}

// Name is the display name: the managed file's base name or the URL.
func (a *Attachment) Name() string {
	if a.typ.IsURL() {
		return a.path
	}
	return filepath.Base(a.path)
}

// DisplaySize formats the size for list columns
func (a *Attachment) DisplaySize() string {
	if a.typ.IsURL() {
		return "-"
	}
	return humanize.IBytes(uint64(a.stat.Size))
}

// DisplayModified formats the modification time
func (a *Attachment) DisplayModified() string {
	return formatTime(a.stat.Modified)
}

// DisplayCreated formats the creation time
func (a *Attachment) DisplayCreated() string {
	return formatTime(a.stat.Created)
}

// DisplayAge is the modification time relative to now, e.g. "3 hours ago".
func (a *Attachment) DisplayAge() string {
	if a.stat.Modified.IsZero() {
		return "-"
	}
	return humanize.Time(a.stat.Modified)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(timeLayout)
}
