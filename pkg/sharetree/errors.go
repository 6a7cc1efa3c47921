package sharetree

import "fmt"

// ErrorCode classifies a ShareException so callers can branch on failure
// kind without string-matching messages.
//
// Grounded on the teacher's pkg/metadata/errors.go StoreError/ErrorCode
// pattern: a small closed set of codes plus a single Error struct that
// carries a path. Extended here with ErrFileNotAvailable for the
// share-specific case of a result whose backing file went away between
// index lookup and use.
type ErrorCode int

const (
	// ErrNotFound indicates the requested virtual path, TTH, or CID has
	// no entry in the share index.
	ErrNotFound ErrorCode = iota
	// ErrAccessDenied indicates the caller's profile does not grant
	// visibility into the requested path.
	ErrAccessDenied
	// ErrMalformed indicates a structurally invalid input (bad TTH
	// encoding, empty path segment, invalid search query).
	ErrMalformed
	// ErrTransient indicates a retryable failure, e.g. a refresh already
	// in progress for the requested root.
	ErrTransient
	// ErrCancelled indicates an in-flight operation was cancelled via its
	// context before completing.
	ErrCancelled
	// ErrFileNotAvailable indicates the index held a stale entry whose
	// backing file is no longer present on disk.
	ErrFileNotAvailable
)

func (c ErrorCode) String() string {
	switch c {
	case ErrNotFound:
		return "not_found"
	case ErrAccessDenied:
		return "access_denied"
	case ErrMalformed:
		return "malformed"
	case ErrTransient:
		return "transient"
	case ErrCancelled:
		return "cancelled"
	case ErrFileNotAvailable:
		return "file_not_available"
	default:
		return "unknown"
	}
}

// ShareException is the error type returned by the share tree's
// operations in this package; pkg/search and pkg/filelist return plain
// wrapped errors instead.
type ShareException struct {
	Code    ErrorCode
	Message string
	Path    string
}

func (e *ShareException) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (path=%q)", e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewNotFound builds an ErrNotFound ShareException for path.
func NewNotFound(path string) *ShareException {
	return &ShareException{Code: ErrNotFound, Message: "no entry in share index", Path: path}
}

// NewAccessDenied builds an ErrAccessDenied ShareException for path.
func NewAccessDenied(path string) *ShareException {
	return &ShareException{Code: ErrAccessDenied, Message: "path not visible to requesting profile", Path: path}
}

// IsNotFound reports whether err is a ShareException with code ErrNotFound.
func IsNotFound(err error) bool {
	var se *ShareException
	return asShareException(err, &se) && se.Code == ErrNotFound
}

func asShareException(err error, target **ShareException) bool {
	se, ok := err.(*ShareException)
	if ok {
		*target = se
	}
	return ok
}
