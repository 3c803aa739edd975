package opfs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/arthur-debert/opfs/pkg/opfs/core"
)

// GetOptions controls child lookup on a DirectoryHandle.
type GetOptions struct {
	// Create makes the lookup create a missing entry instead of
	// failing with core.ErrNotFound.
	Create bool
}

// RemoveOptions controls RemoveEntry.
type RemoveOptions struct {
	// Recursive removes a directory together with its contents.
	// Without it, removing a populated directory fails with
	// core.ErrNotEmpty.
	Recursive bool
}

// DirectoryHandle is a path reference to a directory. All child
// handles are derived from it by name; the root handle comes from
// Storage.GetDirectory.
type DirectoryHandle struct {
	handle
}

// validName rejects names that are not a single path segment.
func validName(name string) error {
	if name == "" || name == "." || name == ".." {
		return core.ErrInvalidName
	}
	if strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator) {
		return core.ErrInvalidName
	}
	return nil
}

func (d *DirectoryHandle) childPath(name string) string {
	return filepath.Join(d.path, name)
}

func (d *DirectoryHandle) newFileHandle(name string) *FileHandle {
	return &FileHandle{handle{kind: core.KindFile, name: name, path: d.childPath(name), log: d.log}}
}

func (d *DirectoryHandle) newDirectoryHandle(name string) *DirectoryHandle {
	return &DirectoryHandle{handle{kind: core.KindDirectory, name: name, path: d.childPath(name), log: d.log}}
}

// GetFileHandle returns a handle for the child file named name. If the
// entry exists but is a directory the call fails with
// core.ErrTypeMismatch. A missing entry fails with core.ErrNotFound
// unless opts.Create is set, in which case an empty file is created
// (atomically if absent) and its handle returned.
func (d *DirectoryHandle) GetFileHandle(ctx context.Context, name string, opts GetOptions) (*FileHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validName(name); err != nil {
		return nil, core.NewError(core.OpLookup, d.path, err)
	}
	p := d.childPath(name)
	d.log.Debug().Str("path", p).Bool("create", opts.Create).Msg("get file handle")

	info, err := os.Stat(p)
	switch {
	case err == nil:
		if info.IsDir() {
			return nil, core.NewError(core.OpLookup, p, core.TypeMismatch(core.KindFile))
		}
		return d.newFileHandle(name), nil
	case errors.Is(err, fs.ErrNotExist):
		if !opts.Create {
			return nil, core.NewError(core.OpLookup, p, core.ErrNotFound)
		}
		f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE, 0o644)
		if err != nil {
			if errors.Is(err, syscall.EISDIR) {
				return nil, core.NewError(core.OpCreate, p, core.TypeMismatch(core.KindFile))
			}
			return nil, core.NewError(core.OpCreate, p, err)
		}
		if err := f.Close(); err != nil {
			return nil, core.NewError(core.OpCreate, p, err)
		}
		return d.newFileHandle(name), nil
	default:
		return nil, core.NewError(core.OpLookup, p, err)
	}
}

// GetDirectoryHandle is the directory counterpart of GetFileHandle.
// Creation tolerates a concurrent creator: losing the create race is
// success as long as the resulting entry is in fact a directory.
func (d *DirectoryHandle) GetDirectoryHandle(ctx context.Context, name string, opts GetOptions) (*DirectoryHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validName(name); err != nil {
		return nil, core.NewError(core.OpLookup, d.path, err)
	}
	p := d.childPath(name)
	d.log.Debug().Str("path", p).Bool("create", opts.Create).Msg("get directory handle")

	info, err := os.Stat(p)
	switch {
	case err == nil:
		if !info.IsDir() {
			return nil, core.NewError(core.OpLookup, p, core.TypeMismatch(core.KindDirectory))
		}
		return d.newDirectoryHandle(name), nil
	case errors.Is(err, fs.ErrNotExist):
		if !opts.Create {
			return nil, core.NewError(core.OpLookup, p, core.ErrNotFound)
		}
		if mkErr := os.Mkdir(p, 0o755); mkErr != nil {
			if !errors.Is(mkErr, fs.ErrExist) {
				return nil, core.NewError(core.OpCreate, p, mkErr)
			}
			// Lost a create race; accept it only if the winner made a
			// directory.
			info, err := os.Stat(p)
			if err != nil {
				return nil, core.NewError(core.OpCreate, p, err)
			}
			if !info.IsDir() {
				return nil, core.NewError(core.OpCreate, p, core.TypeMismatch(core.KindDirectory))
			}
		}
		return d.newDirectoryHandle(name), nil
	default:
		return nil, core.NewError(core.OpLookup, p, err)
	}
}

// RemoveEntry removes the child named name. Files are unlinked
// unconditionally. Directories must be empty unless opts.Recursive is
// set; a populated directory fails with core.ErrNotEmpty. A missing
// entry fails with core.ErrNotFound.
func (d *DirectoryHandle) RemoveEntry(ctx context.Context, name string, opts RemoveOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validName(name); err != nil {
		return core.NewError(core.OpRemove, d.path, err)
	}
	p := d.childPath(name)
	d.log.Debug().Str("path", p).Bool("recursive", opts.Recursive).Msg("remove entry")

	info, err := os.Lstat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return core.NewError(core.OpRemove, p, core.ErrNotFound)
		}
		return core.NewError(core.OpStat, p, err)
	}

	if info.IsDir() && opts.Recursive {
		if err := os.RemoveAll(p); err != nil {
			return core.NewError(core.OpRemove, p, err)
		}
		return nil
	}
	if err := os.Remove(p); err != nil {
		// BSDs report a populated directory as EEXIST rather than
		// ENOTEMPTY.
		if errors.Is(err, syscall.ENOTEMPTY) || errors.Is(err, syscall.EEXIST) {
			return core.NewError(core.OpRemove, p, core.ErrNotEmpty)
		}
		return core.NewError(core.OpRemove, p, err)
	}
	return nil
}

// Resolve computes the path relationship between this handle and
// candidate. It returns (nil, false) when candidate is not this entry
// or a descendant of it, an empty slice for the entry itself, and
// otherwise the ordered path segments separating the two, e.g.
// ["sub", "file.txt"].
func (d *DirectoryHandle) Resolve(candidate Handle) ([]string, bool) {
	if candidate == nil {
		return nil, false
	}
	base := filepath.Clean(d.path)
	target := filepath.Clean(candidate.Path())
	if target == base {
		return []string{}, true
	}
	prefix := base + string(filepath.Separator)
	if base == string(filepath.Separator) {
		prefix = base
	}
	if !strings.HasPrefix(target, prefix) {
		return nil, false
	}
	return strings.Split(strings.TrimPrefix(target, prefix), string(filepath.Separator)), true
}
