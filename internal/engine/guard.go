package engine

import (
	"context"

	"logbook/internal/logging"
	"logbook/internal/model"
	"logbook/internal/storage"
)

// Guard decides whether deleting an attachment may also remove its managed
// file. A file stays on disk while any other attachment in the logbook
// refers to the same canonical path.
type Guard struct {
	remove func(path string) error
	log    logging.Logger
}

func NewGuard(log logging.Logger) *Guard {
	if log == nil {
		log = logging.Discard()
	}
	return &Guard{remove: storage.RemoveFile, log: log}
}

// CanDeleteFromDisk reports whether no other attachment in scope shares a's
// managed file. URL attachments have no file and always report false.
func (g *Guard) CanDeleteFromDisk(a *model.Attachment, scope Scope) bool {
	f, ok := a.File()
	if !ok {
		return false
	}
	target, err := storage.Canonical(f.Path)
	if err != nil {
		return false
	}
	for _, other := range scope.All() {
		if other.ID() == a.ID() {
			continue
		}
		of, ok := other.File()
		if !ok {
			continue
		}
		if c, err := storage.Canonical(of.Path); err == nil && c == target {
			return false
		}
	}
	return true
}

// Remove deletes a's managed file when fromDisk is set and the file is not
// shared. The returned error is always a warning: the caller has already
// removed the association and nothing is undone.
func (g *Guard) Remove(ctx context.Context, a *model.Attachment, fromDisk bool, scope Scope) error {
	f, ok := a.File()
	if !ok || !fromDisk {
		return nil
	}

	if !g.CanDeleteFromDisk(a, scope) {
		g.log.Info(ctx, "file kept, still referenced", "path", f.Path)
		return newError(FileKeptSharedReference, f.Path, nil)
	}

	writable, err := storage.Writable(f.Path)
	if err != nil {
		if !storage.Exists(f.Path) {
			g.log.Debug(ctx, "managed file already gone", "path", f.Path)
			return nil
		}
		return newError(DiskRemovalFailed, f.Path, err)
	}
	if !writable {
		g.log.Warn(ctx, "managed file is read-only", "path", f.Path)
		return newError(DiskRemovalFailed, f.Path, nil)
	}

	if err := g.remove(f.Path); err != nil {
		g.log.Warn(ctx, "remove managed file", "path", f.Path, "error", err)
		return newError(DiskRemovalFailed, f.Path, err)
	}
	g.log.Info(ctx, "managed file removed", "path", f.Path)
	return nil
}
