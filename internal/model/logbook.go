package model

import (
	"time"

	"github.com/google/uuid"
)

// Entry represents a single log entry
type Entry struct {
	ID        uuid.UUID
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
	modified  bool
}

// NewEntry creates an entry stamped with the current time
func NewEntry(title string) *Entry {
	now := time.Now()
	return &Entry{
		ID:        uuid.New(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MarkModified flags the entry as changed since it was last saved
func (e *Entry) MarkModified() {
	e.modified = true
	e.UpdatedAt = time.Now()
}

// Modified reports whether MarkModified was called since the last ClearModified
func (e *Entry) Modified() bool {
	return e.modified
}

// ClearModified resets the modified flag after a save
func (e *Entry) ClearModified() {
	e.modified = false
}

// ShortID returns the first six characters of the id, for display
func (e *Entry) ShortID() string {
	return e.ID.String()[:6]
}

// Logbook represents a collection of entries sharing one attachment directory
type Logbook struct {
	Name          string
	AttachmentDir string
	Entries       []*Entry
}

// DestinationDir is the directory new attachments are placed in by default
func (l *Logbook) DestinationDir() string {
	return l.AttachmentDir
}

// Entry finds an entry by id
func (l *Logbook) Entry(id uuid.UUID) *Entry {
	for _, e := range l.Entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// RemoveEntry drops an entry from the logbook, reporting whether it was there
func (l *Logbook) RemoveEntry(id uuid.UUID) bool {
	for i, e := range l.Entries {
		if e.ID == id {
			l.Entries = append(l.Entries[:i], l.Entries[i+1:]...)
			return true
		}
	}
	return false
}

// LogbookRef is a known logbook as listed in the config file
type LogbookRef struct {
	Name          string    `yaml:"name"`
	Catalog       string    `yaml:"catalog"`
	AttachmentDir string    `yaml:"attachment_dir"`
	LastOpened    time.Time `yaml:"last_opened,omitempty"`
}

// Config represents the application configuration
type Config struct {
	Logbooks      []LogbookRef      `yaml:"logbooks,omitempty"`
	ActiveLogbook string            `yaml:"active_logbook,omitempty"` // Catalog path of active logbook
	Theme         string            `yaml:"theme,omitempty"`
	LinkByDefault bool              `yaml:"link_by_default"`
	Viewers       map[string]string `yaml:"viewers,omitempty"` // ViewerKey -> command template
}
