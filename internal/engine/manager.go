package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"logbook/internal/logging"
	"logbook/internal/model"
	"logbook/internal/storage"

	"github.com/google/uuid"
)

// EventType says what happened to an attachment
type EventType int

const (
	EventAdded EventType = iota
	EventUpdated
	EventRemoved
)

func (t EventType) String() string {
	switch t {
	case EventAdded:
		return "added"
	case EventUpdated:
		return "updated"
	case EventRemoved:
		return "removed"
	}
	return "unknown"
}

// Event is published after a request has settled. Warning carries the
// deletion warning of a removal, if there was one.
type Event struct {
	Type       EventType
	EntryID    uuid.UUID
	Attachment *model.Attachment
	Warning    error
}

type Option func(*Manager)

func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.log = l }
}

func WithLauncher(l Launcher) Option {
	return func(m *Manager) { m.launcher = l }
}

// WithRemover replaces the function that deletes managed files
func WithRemover(fn func(path string) error) Option {
	return func(m *Manager) { m.remove = fn }
}

// Manager is the single entry point for attachment requests on one logbook.
// Requests are serialized; each one sees the settled state of the previous.
// Listeners run while the request still holds the lock and must not call
// back into the manager.
type Manager struct {
	mu        sync.Mutex
	logbook   *model.Logbook
	registry  *model.Registry
	store     *Store
	views     *Synchronizer
	guard     *Guard
	launcher  Launcher
	remove    func(path string) error
	log       logging.Logger
	listeners []func(Event)
}

func NewManager(lb *model.Logbook, registry *model.Registry, opts ...Option) *Manager {
	m := &Manager{
		logbook:  lb,
		registry: registry,
		store:    NewStore(),
		launcher: ExecLauncher{},
		log:      logging.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With("logbook", lb.Name)
	m.views = NewSynchronizer(m.store.Get)
	m.guard = NewGuard(m.log)
	if m.remove != nil {
		m.guard.remove = m.remove
	}
	return m
}

// Load builds a manager from a catalog snapshot. Records of entries that no
// longer exist are skipped.
func Load(snap *storage.Snapshot, registry *model.Registry, opts ...Option) (*Manager, error) {
	m := NewManager(snap.Logbook, registry, opts...)
	for _, rec := range snap.Attachments {
		typ := registry.LookupName(rec.Kind)
		stat := model.FileStat{Size: rec.Size, Created: rec.Created, Modified: rec.Modified}
		att := model.Restore(rec.ID, typ, rec.Source, rec.Path, rec.Comments, stat)
		if err := m.Adopt(rec.EntryID, att); err != nil {
			if errors.Is(err, ErrNoEntry) {
				m.log.Warn(context.Background(), "skipping orphaned attachment", "attachment", rec.ID, "entry", rec.EntryID)
				continue
			}
			return nil, err
		}
	}
	return m, nil
}

// Snapshot returns the catalog form of the logbook and its attachments
func (m *Manager) Snapshot() *storage.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := &storage.Snapshot{Logbook: m.logbook}
	for _, entry := range m.logbook.Entries {
		for _, a := range m.store.ForEntry(entry.ID) {
			snap.Attachments = append(snap.Attachments, storage.AttachmentRecord{
				ID:       a.ID(),
				EntryID:  entry.ID,
				Kind:     a.Type().Kind.String(),
				Source:   a.Source(),
				Path:     a.Path(),
				Comments: a.Comments(),
				Size:     a.Size(),
				Created:  a.Created(),
				Modified: a.Modified(),
			})
		}
	}
	return snap
}

func (m *Manager) Logbook() *model.Logbook   { return m.logbook }
func (m *Manager) Registry() *model.Registry { return m.registry }

// Subscribe registers a listener for attachment events
func (m *Manager) Subscribe(fn func(Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

func (m *Manager) emit(ev Event) {
	for _, fn := range m.listeners {
		fn(ev)
	}
}

// AddEntry appends a new entry to the logbook
func (m *Manager) AddEntry(title string) *model.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := model.NewEntry(title)
	entry.MarkModified()
	m.logbook.Entries = append(m.logbook.Entries, entry)
	return entry
}

func (m *Manager) Entry(id uuid.UUID) (*model.Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.logbook.Entry(id)
	return e, e != nil
}

func (m *Manager) Entries() []*model.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.Entry(nil), m.logbook.Entries...)
}

// RemoveEntry deletes an entry with all of its attachments and closes its
// views. Deletion warnings are joined into the returned error.
func (m *Manager) RemoveEntry(ctx context.Context, id uuid.UUID, fromDisk bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.logbook.Entry(id) == nil {
		return fmt.Errorf("%s: %w", id, ErrNoEntry)
	}

	var warnings []error
	for _, a := range m.store.ForEntry(id) {
		if err := m.delete(ctx, a, fromDisk); err != nil {
			warnings = append(warnings, err)
		}
	}
	m.views.CloseEntry(id)
	m.logbook.RemoveEntry(id)
	m.log.Info(ctx, "entry removed", "entry", id)
	return errors.Join(warnings...)
}

// Create performs the file-system side of a request, then links the new
// attachment to its entry and shows it in every open view of that entry.
// An empty TargetDir means the logbook's attachment directory.
func (m *Manager) Create(ctx context.Context, req NewAttachmentRequest) (*model.Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := m.logbook.Entry(req.EntryID)
	if entry == nil {
		return nil, fmt.Errorf("%s: %w", req.EntryID, ErrNoEntry)
	}
	if req.TargetDir == "" {
		req.TargetDir = m.logbook.DestinationDir()
	}

	att, err := Create(ctx, req)
	if err != nil {
		m.log.Warn(ctx, "attachment rejected", "source", req.Source, "error", err)
		return nil, err
	}

	if err := m.store.Add(entry.ID, att); err != nil {
		return nil, err
	}
	m.views.Attach(entry.ID, att)
	entry.MarkModified()

	m.log.Info(ctx, "attachment created",
		"entry", entry.ID, "attachment", att.ID(), "type", att.Type().Kind, "mode", req.Mode, "path", att.Path())
	m.emit(Event{Type: EventAdded, EntryID: entry.ID, Attachment: att})
	return att, nil
}

// Adopt links an attachment that already exists, such as one read back from
// the catalog. The entry is not marked modified.
func (m *Manager) Adopt(entryID uuid.UUID, att *model.Attachment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.logbook.Entry(entryID) == nil {
		return fmt.Errorf("%s: %w", entryID, ErrNoEntry)
	}
	if err := m.store.Add(entryID, att); err != nil {
		return err
	}
	m.views.Attach(entryID, att)
	return nil
}

// Edit changes type and comments in place and redraws every row showing the
// attachment.
func (m *Manager) Edit(req EditAttachmentRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	att, ok := m.store.Get(req.AttachmentID)
	if !ok {
		return fmt.Errorf("%s: %w", req.AttachmentID, ErrNotFound)
	}
	entryID, _ := m.store.Owner(att.ID())

	att.Edit(req.Type, req.Comments)
	m.views.OnEdited(att)
	m.logbook.Entry(entryID).MarkModified()
	m.emit(Event{Type: EventUpdated, EntryID: entryID, Attachment: att})
	return nil
}

// Delete removes an attachment's rows, then its association, then (when
// FromDisk is set) its file. The returned error is a deletion warning at
// most; the attachment is gone either way.
func (m *Manager) Delete(ctx context.Context, req DeleteAttachmentRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	att, ok := m.store.Get(req.AttachmentID)
	if !ok {
		return fmt.Errorf("%s: %w", req.AttachmentID, ErrNotFound)
	}
	return m.delete(ctx, att, req.FromDisk)
}

func (m *Manager) delete(ctx context.Context, att *model.Attachment, fromDisk bool) error {
	entryID, _ := m.store.Owner(att.ID())

	m.views.OnDeleted(att.ID())
	m.store.Remove(att.ID())
	warning := m.guard.Remove(ctx, att, fromDisk, m.store)

	m.logbook.Entry(entryID).MarkModified()
	m.log.Info(ctx, "attachment deleted", "entry", entryID, "attachment", att.ID(), "from_disk", fromDisk)
	m.emit(Event{Type: EventRemoved, EntryID: entryID, Attachment: att, Warning: warning})
	return warning
}

// Refresh re-reads the managed file of one attachment. A missing file leaves
// the attachment in place, marked broken, and returns ErrBroken.
func (m *Manager) Refresh(id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	att, ok := m.store.Get(id)
	if !ok {
		return false, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return m.refresh(att)
}

// RefreshAll refreshes every attachment and reports how many changed
func (m *Manager) RefreshAll() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	n := 0
	for _, att := range m.store.All() {
		changed, err := m.refresh(att)
		if changed {
			n++
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return n, errors.Join(errs...)
}

func (m *Manager) refresh(att *model.Attachment) (bool, error) {
	changed, err := Refresh(att)
	if changed {
		entryID, _ := m.store.Owner(att.ID())
		m.views.OnEdited(att)
		m.logbook.Entry(entryID).MarkModified()
		m.emit(Event{Type: EventUpdated, EntryID: entryID, Attachment: att})
	}
	if err != nil {
		m.log.Warn(context.Background(), "refresh attachment", "attachment", att.ID(), "error", err)
	}
	return changed, err
}

// ViewOpened shows an entry's attachments in a newly opened view
func (m *Manager) ViewOpened(entryID uuid.UUID, v View) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.logbook.Entry(entryID) == nil {
		return fmt.Errorf("%s: %w", entryID, ErrNoEntry)
	}
	m.views.OpenView(entryID, v, m.store.ForEntry(entryID))
	return nil
}

// ViewClosed drops a view's rows; attachments are untouched
func (m *Manager) ViewClosed(viewID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views.CloseView(viewID)
}

// SetGlobalView installs the view listing every attachment of the logbook.
// nil removes it.
func (m *Manager) SetGlobalView(v View) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views.SetGlobal(v, m.store.All())
}

// RowCount returns how many view rows show an attachment
func (m *Manager) RowCount(id uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.views.RowCount(id)
}

func (m *Manager) Attachments(entryID uuid.UUID) []*model.Attachment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.ForEntry(entryID)
}

func (m *Manager) All() []*model.Attachment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.All()
}

func (m *Manager) Get(id uuid.UUID) (*model.Attachment, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Get(id)
}

// Owner returns the entry that owns an attachment
func (m *Manager) Owner(id uuid.UUID) (*model.Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entryID, ok := m.store.Owner(id)
	if !ok {
		return nil, false
	}
	return m.logbook.Entry(entryID), true
}

// CanDeleteFromDisk reports whether deleting id from disk would remove its file
func (m *Manager) CanDeleteFromDisk(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	att, ok := m.store.Get(id)
	if !ok {
		return false
	}
	return m.guard.CanDeleteFromDisk(att, m.store)
}

// Open starts the viewer configured for the attachment's type
func (m *Manager) Open(ctx context.Context, id uuid.UUID) error {
	// the viewer starts outside the lock, so read what it needs first
	m.mu.Lock()
	att, ok := m.store.Get(id)
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	broken, typ, path, name := att.Broken(), att.Type(), att.Path(), att.Name()
	m.mu.Unlock()

	if broken {
		return fmt.Errorf("%s: %w", path, ErrBroken)
	}

	command := m.registry.ViewerCommand(typ)
	if command == "" {
		return fmt.Errorf("%s: %w", typ.Name, ErrNoViewer)
	}
	if err := m.launcher.Launch(ctx, command, path); err != nil {
		return fmt.Errorf("launch viewer for %s: %w", name, err)
	}
	m.log.Debug(ctx, "viewer launched", "attachment", id, "command", command)
	return nil
}

// Check verifies the association invariants. Tests call it after every step.
func (m *Manager) Check() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Check(); err != nil {
		return err
	}
	return m.views.Check()
}
