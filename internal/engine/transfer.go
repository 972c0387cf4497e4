package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"logbook/internal/model"
	"logbook/internal/storage"

	"github.com/google/uuid"
)

// Mode selects how a source file becomes a managed file
type Mode int

const (
	ModeCopy Mode = iota
	ModeLink
)

func (m Mode) String() string {
	if m == ModeLink {
		return "link"
	}
	return "copy"
}

// NewAttachmentRequest carries everything needed to attach a file or URL to an entry
type NewAttachmentRequest struct {
	EntryID   uuid.UUID
	Source    string
	Type      model.AttachmentType
	TargetDir string
	Mode      Mode
	Comments  string
}

// EditAttachmentRequest changes the type and comments of an attachment
type EditAttachmentRequest struct {
	AttachmentID uuid.UUID
	Type         model.AttachmentType
	Comments     string
}

// DeleteAttachmentRequest removes an attachment, and its file when FromDisk is
// set and no other attachment shares it.
type DeleteAttachmentRequest struct {
	AttachmentID uuid.UUID
	FromDisk     bool
}

// transferDone runs after a successful copy or link and before the
// cancellation check that follows it.
var transferDone = func(ctx context.Context, managed string) {}

// Create validates a request and performs its file-system side effect. The
// returned attachment is not associated with anything yet. On error no
// managed file created by this call is left behind.
func Create(ctx context.Context, req NewAttachmentRequest) (*model.Attachment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if req.Type.IsURL() {
		return model.NewURLAttachment(req.Type, req.Source, req.Comments), nil
	}

	source, err := storage.ExpandPath(req.Source)
	if err != nil {
		return nil, newError(SourceNotFound, req.Source, err)
	}
	info, err := os.Stat(source)
	if err != nil {
		return nil, newError(SourceNotFound, source, err)
	}
	if info.IsDir() {
		return nil, newError(SourceIsDirectory, source, nil)
	}

	dir, err := storage.ExpandPath(req.TargetDir)
	if err != nil || req.TargetDir == "" {
		return nil, newError(DestinationNotFound, req.TargetDir, err)
	}
	if !storage.IsDir(dir) {
		return nil, newError(DestinationNotFound, dir, nil)
	}

	managed := filepath.Join(dir, filepath.Base(source))

	// a file already inside the attachment directory is adopted as is
	if storage.SameFile(source, managed) {
		return attached(req, source, managed)
	}

	if storage.Exists(managed) {
		return nil, newError(DestinationAlreadyExists, managed, nil)
	}

	switch req.Mode {
	case ModeLink:
		err = storage.LinkFile(source, managed)
	default:
		err = storage.CopyFile(ctx, source, managed)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, ctx.Err()
		}
		return nil, newError(TransferFailed, managed, err)
	}

	transferDone(ctx, managed)
	if err := ctx.Err(); err != nil {
		_ = storage.RemoveFile(managed)
		return nil, err
	}

	att, err := attached(req, source, managed)
	if err != nil {
		_ = storage.RemoveFile(managed)
		return nil, err
	}
	return att, nil
}

func attached(req NewAttachmentRequest, source, managed string) (*model.Attachment, error) {
	stat, err := storage.StatFile(managed)
	if err != nil {
		return nil, newError(TransferFailed, managed, err)
	}
	return model.NewFileAttachment(req.Type, source, managed, req.Comments, stat), nil
}

// Refresh re-reads the managed file's size and modification time. It reports
// whether anything changed. A vanished file marks the attachment broken and
// returns ErrBroken; the attachment itself stays.
func Refresh(a *model.Attachment) (bool, error) {
	f, ok := a.File()
	if !ok {
		return false, nil
	}

	stat, err := storage.StatFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		changed := !a.Broken()
		a.MarkBroken()
		return changed, fmt.Errorf("%s: %w", f.Path, ErrBroken)
	}
	if err != nil {
		return false, err
	}

	old := a.Stat()
	changed := a.Broken() || old.Size != stat.Size || !old.Modified.Equal(stat.Modified)
	a.UpdateStat(stat)
	return changed, nil
}
