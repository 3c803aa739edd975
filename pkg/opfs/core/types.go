// Package core holds the shared types and error kinds for the opfs
// handle API. It exists as its own package so both the public API and
// the CLI can match error kinds without import cycles.
package core

// EntryKind discriminates the two handle variants.
type EntryKind int

const (
	// KindFile marks a handle referring to a regular file.
	KindFile EntryKind = iota
	// KindDirectory marks a handle referring to a directory.
	KindDirectory
)

// String returns the kind name as used in error messages ("file" or
// "directory").
func (k EntryKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	default:
		return "unknown"
	}
}

// PermissionState is the result of a permission query or request.
// There is no "prompt" state: permission is a pure derived value
// based on a read-access probe of the underlying path.
type PermissionState string

const (
	// PermissionGranted means the path is readable by this process.
	PermissionGranted PermissionState = "granted"
	// PermissionDenied means the path could not be opened for reading.
	PermissionDenied PermissionState = "denied"
)
