package engine

import (
	"fmt"

	"logbook/internal/assoc"
	"logbook/internal/model"

	"github.com/google/uuid"
)

// Scope is the set of attachments the shared-file check looks through
type Scope interface {
	All() []*model.Attachment
}

// Store owns the attachments of every entry in one logbook. An attachment
// lives in the store exactly as long as its edge to the owning entry exists.
type Store struct {
	owners *assoc.Graph[uuid.UUID, uuid.UUID] // entry -> attachment
	arena  map[uuid.UUID]*model.Attachment
}

func NewStore() *Store {
	return &Store{
		owners: assoc.New[uuid.UUID, uuid.UUID](),
		arena:  make(map[uuid.UUID]*model.Attachment),
	}
}

// Add links a new attachment to its entry
func (s *Store) Add(entryID uuid.UUID, a *model.Attachment) error {
	if _, ok := s.arena[a.ID()]; ok {
		return fmt.Errorf("attachment %s already belongs to an entry", a.ID())
	}
	s.arena[a.ID()] = a
	s.owners.Link(entryID, a.ID())
	return nil
}

// Get resolves an attachment id
func (s *Store) Get(id uuid.UUID) (*model.Attachment, bool) {
	a, ok := s.arena[id]
	return a, ok
}

// Owner returns the entry owning an attachment. Anything but exactly one
// owner for a stored attachment is a bug and panics.
func (s *Store) Owner(id uuid.UUID) (uuid.UUID, bool) {
	if _, ok := s.arena[id]; !ok {
		return uuid.Nil, false
	}
	owners := s.owners.Left(id)
	if len(owners) != 1 {
		panic(fmt.Sprintf("engine: attachment %s has %d owning entries", id, len(owners)))
	}
	return owners[0], true
}

// ForEntry returns the attachments of one entry in the order they were added
func (s *Store) ForEntry(entryID uuid.UUID) []*model.Attachment {
	ids := s.owners.Right(entryID)
	out := make([]*model.Attachment, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.arena[id])
	}
	return out
}

// Count returns how many attachments an entry owns
func (s *Store) Count(entryID uuid.UUID) int {
	return s.owners.CountRight(entryID)
}

// All returns every attachment in the logbook
func (s *Store) All() []*model.Attachment {
	out := make([]*model.Attachment, 0, len(s.arena))
	for _, entryID := range s.owners.Lefts() {
		out = append(out, s.ForEntry(entryID)...)
	}
	return out
}

// Remove drops an attachment and its ownership edge in one step
func (s *Store) Remove(id uuid.UUID) (*model.Attachment, bool) {
	a, ok := s.arena[id]
	if !ok {
		return nil, false
	}
	s.owners.RemoveRight(id)
	delete(s.arena, id)
	return a, true
}

// Check verifies the ownership graph: symmetric edges and one owner per attachment.
func (s *Store) Check() error {
	if err := s.owners.Check(); err != nil {
		return err
	}
	for id := range s.arena {
		if n := s.owners.CountLeft(id); n != 1 {
			return fmt.Errorf("attachment %s has %d owning entries", id, n)
		}
	}
	if n := s.owners.Len(); n != len(s.arena) {
		return fmt.Errorf("%d ownership edges for %d attachments", n, len(s.arena))
	}
	return nil
}
