package core

import (
	"errors"
	"fmt"
)

// Named error kinds. These are the wire contract callers branch on
// (errors.Is), e.g. "create if missing" patterns written against
// ErrNotFound. Host I/O failures outside this set propagate unwrapped
// beyond the Op/Path context added by Error.
var (
	// ErrNotFound indicates the named entry does not exist.
	ErrNotFound = errors.New("entry not found")

	// ErrTypeMismatch indicates the entry exists but is the wrong kind
	// (a directory where a file was requested, or vice versa).
	ErrTypeMismatch = errors.New("entry type mismatch")

	// ErrNotEmpty indicates a non-recursive removal of a populated
	// directory.
	ErrNotEmpty = errors.New("directory not empty")

	// ErrClosed indicates an operation on a stream or access handle
	// after it reached its terminal closed state.
	ErrClosed = errors.New("handle is closed")

	// ErrUnsupportedOperand indicates a malformed write operation: an
	// unknown tag, or a tag missing its required parameters.
	ErrUnsupportedOperand = errors.New("unsupported write operand")

	// ErrInvalidName indicates a child name that is not a single path
	// segment (empty, ".", "..", or containing a separator).
	ErrInvalidName = errors.New("invalid entry name")
)

// TypeMismatch returns ErrTypeMismatch annotated with the kind that
// was expected, e.g. "entry type mismatch: not a file".
func TypeMismatch(want EntryKind) error {
	return fmt.Errorf("%w: not a %s", ErrTypeMismatch, want)
}

// Error wraps a failure with the operation and path it occurred on.
// It preserves the underlying kind for errors.Is matching.
type Error struct {
	Op   string // Operation that failed (e.g. "lookup", "write")
	Path string // Affected path
	Err  error  // Underlying error
}

// NewError creates an Error for the given operation, path and cause.
func NewError(op, path string, err error) *Error {
	return &Error{Op: op, Path: path, Err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("opfs %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("opfs %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap supports errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Operation names used in wrapped errors and logs.
const (
	OpLookup   = "lookup"   // resolving a child entry by name
	OpCreate   = "create"   // creating a file or directory entry
	OpRemove   = "remove"   // removing an entry
	OpList     = "list"     // listing directory contents
	OpStat     = "stat"     // reading entry metadata
	OpOpen     = "open"     // opening a descriptor
	OpRead     = "read"     // reading file bytes
	OpWrite    = "write"    // writing file bytes
	OpSeek     = "seek"     // moving a stream cursor
	OpTruncate = "truncate" // changing a file's length
	OpFlush    = "flush"    // syncing to stable storage
	OpClose    = "close"    // releasing a descriptor
)
