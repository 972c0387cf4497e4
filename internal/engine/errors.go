package engine

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the failures and warnings of attachment requests
type ErrorKind int

const (
	SourceNotFound ErrorKind = iota + 1
	SourceIsDirectory
	DestinationNotFound
	DestinationAlreadyExists
	TransferFailed

	// deletion warnings: the association is gone, the file is not
	FileKeptSharedReference
	DiskRemovalFailed
)

var (
	ErrSourceNotFound           = errors.New("source file does not exist")
	ErrSourceIsDirectory        = errors.New("source is a directory")
	ErrDestinationNotFound      = errors.New("destination directory does not exist")
	ErrDestinationAlreadyExists = errors.New("a file with this name already exists in the destination directory")
	ErrTransferFailed           = errors.New("file could not be copied or linked")
	ErrFileKeptSharedReference  = errors.New("file is still used by another attachment and was kept on disk")
	ErrDiskRemovalFailed        = errors.New("file could not be removed from disk")

	ErrNotFound = errors.New("attachment not found")
	ErrNoEntry  = errors.New("entry not found")
	ErrBroken   = errors.New("managed file is missing")
	ErrNoViewer = errors.New("no viewer configured for this attachment type")
)

var kindErrors = map[ErrorKind]error{
	SourceNotFound:           ErrSourceNotFound,
	SourceIsDirectory:        ErrSourceIsDirectory,
	DestinationNotFound:      ErrDestinationNotFound,
	DestinationAlreadyExists: ErrDestinationAlreadyExists,
	TransferFailed:           ErrTransferFailed,
	FileKeptSharedReference:  ErrFileKeptSharedReference,
	DiskRemovalFailed:        ErrDiskRemovalFailed,
}

// Sentinel returns the errors.Is target for k
func (k ErrorKind) Sentinel() error {
	return kindErrors[k]
}

// Warning reports whether k is a deletion warning rather than a rejection
func (k ErrorKind) Warning() bool {
	return k == FileKeptSharedReference || k == DiskRemovalFailed
}

func (k ErrorKind) String() string {
	switch k {
	case SourceNotFound:
		return "SourceNotFound"
	case SourceIsDirectory:
		return "SourceIsDirectory"
	case DestinationNotFound:
		return "DestinationNotFound"
	case DestinationAlreadyExists:
		return "DestinationAlreadyExists"
	case TransferFailed:
		return "TransferFailed"
	case FileKeptSharedReference:
		return "FileKeptSharedReference"
	case DiskRemovalFailed:
		return "DiskRemovalFailed"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is a rejected create or a deletion warning, naming the path involved.
// errors.Is matches both the kind's sentinel and the underlying cause.
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

func newError(kind ErrorKind, path string, cause error) *Error {
	return &Error{Kind: kind, Path: path, Err: cause}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Kind.Sentinel())
}

func (e *Error) Unwrap() []error {
	errs := []error{e.Kind.Sentinel()}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf extracts the ErrorKind of err, if it carries one
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsWarning reports whether err is a deletion warning
func IsWarning(err error) bool {
	k, ok := KindOf(err)
	return ok && k.Warning()
}
