package engine

import (
	"fmt"

	"logbook/internal/assoc"
	"logbook/internal/model"

	"github.com/google/uuid"
)

// View is a list that displays attachment rows. Views lay themselves out
// again (column widths and so on) when rows are inserted or removed.
type View interface {
	ViewID() uuid.UUID
	InsertRow(r *Row)
	UpdateRow(r *Row)
	RemoveRow(r *Row)
	// SetVisible hides a view that has no rows left and shows it again on its first row.
	SetVisible(visible bool)
}

// Resolver looks an attachment up by id
type Resolver func(id uuid.UUID) (*model.Attachment, bool)

// Row is one view's projection of one attachment. It refers to the
// attachment by id only and never keeps it alive.
type Row struct {
	view         View
	attachmentID uuid.UUID
	resolve      Resolver
}

func (r *Row) View() View               { return r.view }
func (r *Row) AttachmentID() uuid.UUID { return r.attachmentID }

// Attachment resolves the bound attachment; false once it has been destroyed.
func (r *Row) Attachment() (*model.Attachment, bool) {
	return r.resolve(r.attachmentID)
}

// Synchronizer keeps the rows of every open view in step with the attachments
// they show: one row per open view of the owning entry, plus one in the
// global view when there is one.
type Synchronizer struct {
	resolve    Resolver
	views      map[uuid.UUID]View
	entryViews *assoc.Graph[uuid.UUID, uuid.UUID] // entry -> view
	bound      *assoc.Graph[uuid.UUID, *Row]      // attachment -> row
	shown      *assoc.Graph[uuid.UUID, *Row]      // view -> row
	global     View
}

func NewSynchronizer(resolve Resolver) *Synchronizer {
	return &Synchronizer{
		resolve:    resolve,
		views:      make(map[uuid.UUID]View),
		entryViews: assoc.New[uuid.UUID, uuid.UUID](),
		bound:      assoc.New[uuid.UUID, *Row](),
		shown:      assoc.New[uuid.UUID, *Row](),
	}
}

// OpenView registers a view of an entry and fills it with the entry's attachments
func (s *Synchronizer) OpenView(entryID uuid.UUID, v View, existing []*model.Attachment) {
	s.views[v.ViewID()] = v
	s.entryViews.Link(entryID, v.ViewID())
	for _, a := range existing {
		s.bind(v, a)
	}
	if len(existing) == 0 {
		v.SetVisible(false)
	}
}

// SetGlobal installs the view that lists every attachment of the logbook,
// replacing any previous one. A nil view removes it.
func (s *Synchronizer) SetGlobal(v View, all []*model.Attachment) {
	if s.global != nil {
		s.CloseView(s.global.ViewID())
	}
	s.global = v
	if v == nil {
		return
	}
	s.views[v.ViewID()] = v
	for _, a := range all {
		s.bind(v, a)
	}
	if len(all) == 0 {
		v.SetVisible(false)
	}
}

// Global returns the global view, if any
func (s *Synchronizer) Global() View {
	return s.global
}

// CloseView forgets a view and its rows. The attachments are not affected.
func (s *Synchronizer) CloseView(viewID uuid.UUID) {
	for _, r := range s.shown.RemoveLeft(viewID) {
		s.bound.Unlink(r.attachmentID, r)
	}
	s.entryViews.RemoveRight(viewID)
	delete(s.views, viewID)
	if s.global != nil && s.global.ViewID() == viewID {
		s.global = nil
	}
}

// CloseEntry closes every view of an entry
func (s *Synchronizer) CloseEntry(entryID uuid.UUID) {
	for _, viewID := range s.entryViews.Right(entryID) {
		s.CloseView(viewID)
	}
}

// Attach adds a row for a to every open view of its entry and to the global view.
func (s *Synchronizer) Attach(entryID uuid.UUID, a *model.Attachment) {
	for _, viewID := range s.entryViews.Right(entryID) {
		s.bind(s.views[viewID], a)
	}
	if s.global != nil {
		s.bind(s.global, a)
	}
}

func (s *Synchronizer) bind(v View, a *model.Attachment) *Row {
	r := &Row{view: v, attachmentID: a.ID(), resolve: s.resolve}
	s.bound.Link(a.ID(), r)
	s.shown.Link(v.ViewID(), r)
	v.InsertRow(r)
	if s.shown.CountRight(v.ViewID()) == 1 {
		v.SetVisible(true)
	}
	return r
}

// OnEdited redraws every row bound to a. It returns how many there were;
// zero is fine when no view shows the attachment.
func (s *Synchronizer) OnEdited(a *model.Attachment) int {
	rows := s.bound.Right(a.ID())
	for _, r := range rows {
		r.view.UpdateRow(r)
	}
	return len(rows)
}

// OnDeleted removes every row bound to an attachment. Callers destroy the
// attachment only after this returns, so no row sees it gone.
func (s *Synchronizer) OnDeleted(attachmentID uuid.UUID) int {
	rows := s.bound.RemoveLeft(attachmentID)
	for _, r := range rows {
		viewID := r.view.ViewID()
		s.shown.Unlink(viewID, r)
		r.view.RemoveRow(r)
		if s.shown.CountRight(viewID) == 0 {
			r.view.SetVisible(false)
		}
	}
	return len(rows)
}

// Rows returns the rows currently bound to an attachment
func (s *Synchronizer) Rows(attachmentID uuid.UUID) []*Row {
	return s.bound.Right(attachmentID)
}

// RowCount returns how many rows are bound to an attachment
func (s *Synchronizer) RowCount(attachmentID uuid.UUID) int {
	return s.bound.CountRight(attachmentID)
}

// ViewRows returns the rows shown by one view
func (s *Synchronizer) ViewRows(viewID uuid.UUID) []*Row {
	return s.shown.Right(viewID)
}

// ViewsOf returns the open views of an entry, global view excluded
func (s *Synchronizer) ViewsOf(entryID uuid.UUID) []View {
	ids := s.entryViews.Right(entryID)
	out := make([]View, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.views[id])
	}
	return out
}

// Check verifies the row bookkeeping
func (s *Synchronizer) Check() error {
	for _, g := range []interface{ Check() error }{s.entryViews, s.bound, s.shown} {
		if err := g.Check(); err != nil {
			return err
		}
	}
	if s.bound.Len() != s.shown.Len() {
		return fmt.Errorf("%d bound rows but %d shown rows", s.bound.Len(), s.shown.Len())
	}
	for _, viewID := range s.shown.Lefts() {
		if _, ok := s.views[viewID]; !ok {
			return fmt.Errorf("rows shown in unknown view %s", viewID)
		}
	}
	return nil
}
