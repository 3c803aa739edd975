// Package opfs emulates the browser origin-private file system API on
// top of a local directory tree. Handles are pure path references: a
// handle owns no open OS resource and is freely copyable. Stateful I/O
// happens through WritableStream and SyncAccessHandle objects spawned
// from a FileHandle, each of which exclusively owns one descriptor.
package opfs

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/opfs/pkg/opfs/core"
)

// Handle is the common surface of FileHandle and DirectoryHandle.
type Handle interface {
	// Kind reports whether this handle refers to a file or a directory.
	Kind() core.EntryKind
	// Name is the last path segment; the root directory handle has
	// name "".
	Name() string
	// Path is the absolute path of the entry, fixed at construction.
	Path() string
	// IsSameEntry reports whether both handles refer to the same
	// filesystem entry (same device and inode, or the platform
	// equivalent). Any failure to stat either path yields false.
	IsSameEntry(other Handle) bool
	// QueryPermission probes read access to the path and returns the
	// derived permission state.
	QueryPermission() core.PermissionState
	// RequestPermission is identical to QueryPermission: there is no
	// interactive prompt and no stored permission state.
	RequestPermission() core.PermissionState
}

// handle carries the identity shared by both handle variants.
type handle struct {
	kind core.EntryKind
	name string
	path string
	log  zerolog.Logger
}

func (h *handle) Kind() core.EntryKind { return h.kind }
func (h *handle) Name() string         { return h.name }
func (h *handle) Path() string         { return h.path }

func (h *handle) IsSameEntry(other Handle) bool {
	if other == nil || h.kind != other.Kind() {
		return false
	}
	a, err := os.Stat(h.path)
	if err != nil {
		return false
	}
	b, err := os.Stat(other.Path())
	if err != nil {
		return false
	}
	return os.SameFile(a, b)
}

func (h *handle) QueryPermission() core.PermissionState {
	f, err := os.Open(h.path)
	if err != nil {
		h.log.Trace().Str("path", h.path).Err(err).Msg("permission probe failed")
		return core.PermissionDenied
	}
	_ = f.Close()
	return core.PermissionGranted
}

func (h *handle) RequestPermission() core.PermissionState {
	return h.QueryPermission()
}
