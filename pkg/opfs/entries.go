package opfs

import (
	"context"
	"iter"
	"os"

	"github.com/arthur-debert/opfs/pkg/opfs/core"
)

// Entry is one child of a directory: its name and a freshly
// constructed handle of the matching kind.
type Entry struct {
	Name   string
	Handle Handle
}

// Entries steps over the children of a directory. The underlying
// listing is taken once, on the first call to Next; a fresh call to
// DirectoryHandle.Entries re-lists and is independent. It is not a
// live view: entries added or removed after iteration starts are not
// reflected. Entries neither file nor directory (sockets, symlinks,
// devices) are silently skipped.
type Entries struct {
	ctx     context.Context
	dir     *DirectoryHandle
	list    []os.DirEntry
	idx     int
	cur     Entry
	err     error
	started bool
}

// Next advances to the next child, reporting false at the end of the
// listing or on error. When it returns false, Err distinguishes the
// two.
func (it *Entries) Next() bool {
	if it.err != nil {
		return false
	}
	if !it.started {
		it.started = true
		if err := it.ctx.Err(); err != nil {
			it.err = err
			return false
		}
		list, err := os.ReadDir(it.dir.path)
		if err != nil {
			it.err = core.NewError(core.OpList, it.dir.path, err)
			return false
		}
		it.list = list
		it.dir.log.Trace().Str("path", it.dir.path).Int("entries", len(list)).Msg("listed directory")
	}
	for it.idx < len(it.list) {
		de := it.list[it.idx]
		it.idx++
		switch {
		case de.IsDir():
			it.cur = Entry{Name: de.Name(), Handle: it.dir.newDirectoryHandle(de.Name())}
		case de.Type().IsRegular():
			it.cur = Entry{Name: de.Name(), Handle: it.dir.newFileHandle(de.Name())}
		default:
			continue
		}
		return true
	}
	return false
}

// Value returns the current entry. It is only valid after a call to
// Next that returned true.
func (it *Entries) Value() Entry { return it.cur }

// Err returns the error that stopped iteration, if any.
func (it *Entries) Err() error { return it.err }

// Entries returns an iterator over this directory's children. Each
// call produces an independent iterator backed by its own listing.
func (d *DirectoryHandle) Entries(ctx context.Context) *Entries {
	return &Entries{ctx: ctx, dir: d}
}

// Keys iterates the names of this directory's children. Listing
// errors end the sequence silently; use Entries when the error
// matters.
func (d *DirectoryHandle) Keys(ctx context.Context) iter.Seq[string] {
	return func(yield func(string) bool) {
		it := d.Entries(ctx)
		for it.Next() {
			if !yield(it.Value().Name) {
				return
			}
		}
	}
}

// Values iterates freshly constructed handles for this directory's
// children. Listing errors end the sequence silently; use Entries
// when the error matters.
func (d *DirectoryHandle) Values(ctx context.Context) iter.Seq[Handle] {
	return func(yield func(Handle) bool) {
		it := d.Entries(ctx)
		for it.Next() {
			if !yield(it.Value().Handle) {
				return
			}
		}
	}
}
