package opfs

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/arthur-debert/opfs/pkg/opfs/core"
)

// WritableOptions controls FileHandle.CreateWritable.
type WritableOptions struct {
	// KeepExistingData leaves the file's current bytes in place.
	// When false (the default), the file is truncated to zero length
	// before CreateWritable returns.
	KeepExistingData bool
}

// FileHandle is a path reference to a regular file. It spawns the two
// stateful I/O objects, WritableStream and SyncAccessHandle, each of
// which owns its own descriptor independently of this handle.
type FileHandle struct {
	handle
}

// File is an immutable in-memory snapshot of a file's content and
// last-modified time, taken at the moment of the GetFile call. It has
// no live binding to later mutations of the underlying file.
type File struct {
	name    string
	data    []byte
	modTime time.Time
}

// Name returns the file's name (last path segment).
func (f *File) Name() string { return f.name }

// Size returns the snapshot's length in bytes.
func (f *File) Size() int64 { return int64(len(f.data)) }

// LastModified returns the file's modification time as of the snapshot.
func (f *File) LastModified() time.Time { return f.modTime }

// Bytes returns the snapshot content. Callers must not modify it.
func (f *File) Bytes() []byte { return f.data }

// Text returns the snapshot content as a string.
func (f *File) Text() string { return string(f.data) }

// GetFile reads the whole file and returns an immutable snapshot of
// its bytes and last-modified time.
func (f *FileHandle) GetFile(ctx context.Context) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fd, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, core.NewError(core.OpRead, f.path, core.ErrNotFound)
		}
		return nil, core.NewError(core.OpRead, f.path, err)
	}
	defer fd.Close()

	info, err := fd.Stat()
	if err != nil {
		return nil, core.NewError(core.OpStat, f.path, err)
	}
	data, err := io.ReadAll(fd)
	if err != nil {
		return nil, core.NewError(core.OpRead, f.path, err)
	}
	f.log.Debug().Str("path", f.path).Int("size", len(data)).Msg("file snapshot")
	return &File{name: f.name, data: data, modTime: info.ModTime()}, nil
}

// CreateWritable returns a new WritableStream bound to this file's
// path. Unless opts.KeepExistingData is set, the file is truncated to
// zero length before this call returns; the stream itself then opens
// lazily in preserve mode on its first operation.
func (f *FileHandle) CreateWritable(ctx context.Context, opts WritableOptions) (*WritableStream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !opts.KeepExistingData {
		if err := os.Truncate(f.path, 0); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, core.NewError(core.OpTruncate, f.path, core.ErrNotFound)
			}
			return nil, core.NewError(core.OpTruncate, f.path, err)
		}
	}
	f.log.Debug().Str("path", f.path).Bool("keep", opts.KeepExistingData).Msg("create writable stream")
	return newWritableStream(f.path, f.log), nil
}

// CreateSyncAccessHandle opens the file in read-write mode and
// returns a new SyncAccessHandle owning that descriptor. The file
// must already exist. Exclusivity against other handles on the same
// path is not enforced; see the package concurrency notes.
func (f *FileHandle) CreateSyncAccessHandle(ctx context.Context) (*SyncAccessHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fd, err := os.OpenFile(f.path, os.O_RDWR, 0)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, core.NewError(core.OpOpen, f.path, core.ErrNotFound)
		}
		return nil, core.NewError(core.OpOpen, f.path, err)
	}
	f.log.Debug().Str("path", f.path).Msg("create sync access handle")
	return &SyncAccessHandle{path: f.path, file: fd, log: f.log}, nil
}
