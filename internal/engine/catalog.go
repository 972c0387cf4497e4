package engine

import (
	"fmt"
	"os"

	"logbook/internal/model"
	"logbook/internal/storage"
)

// OpenCatalog loads the logbook stored at path. attachmentDir, when set,
// replaces the directory recorded in the catalog; the LOGBOOK_ATTACHMENT_DIR
// environment variable overrides both.
func OpenCatalog(path, attachmentDir string, registry *model.Registry, opts ...Option) (*Manager, error) {
	snap, err := storage.LoadCatalog(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	if attachmentDir != "" {
		snap.Logbook.AttachmentDir = attachmentDir
	}
	if dir := os.Getenv(storage.EnvAttachmentDir); dir != "" {
		snap.Logbook.AttachmentDir = dir
	}
	return Load(snap, registry, opts...)
}

// Save writes the logbook to the catalog at path and clears the modified
// flag of every entry.
func (m *Manager) Save(path string) error {
	if err := storage.SaveCatalog(path, m.Snapshot()); err != nil {
		return fmt.Errorf("save catalog %s: %w", path, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.logbook.Entries {
		e.ClearModified()
	}
	return nil
}

// Modified reports whether any entry changed since the last save
func (m *Manager) Modified() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.logbook.Entries {
		if e.Modified() {
			return true
		}
	}
	return false
}
