package opfs

import (
	"errors"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/opfs/pkg/opfs/core"
)

// SyncAccessHandle is a random-access file resource over one
// exclusively owned read-write descriptor, opened eagerly by
// FileHandle.CreateSyncAccessHandle. Unlike the rest of the API its
// methods are plain blocking calls and take no context: they emulate
// a synchronous surface meant to run off the main scheduling thread.
//
// Position-omitted reads and writes use the descriptor's own file
// offset as the implicit cursor; ReadAt and WriteAt leave it
// untouched. After Close, every operation fails with core.ErrClosed;
// Close itself never fails once the handle is closed.
type SyncAccessHandle struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	closed bool
	log    zerolog.Logger
}

func (h *SyncAccessHandle) checkOpen(op string) error {
	if h.closed {
		return core.NewError(op, h.path, core.ErrClosed)
	}
	return nil
}

// Read reads up to len(buf) bytes at the implicit cursor, advancing
// it by the amount read. At or past end-of-file it returns 0 and no
// error; a short read near the end is not an error either.
func (h *SyncAccessHandle) Read(buf []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.checkOpen(core.OpRead); err != nil {
		return 0, err
	}
	n, err := h.file.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, core.NewError(core.OpRead, h.path, err)
	}
	return n, nil
}

// ReadAt reads up to len(buf) bytes from offset off. The implicit
// cursor is not moved. End-of-file is reported as a short (possibly
// zero-length) read, never as an error.
func (h *SyncAccessHandle) ReadAt(buf []byte, off int64) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.checkOpen(core.OpRead); err != nil {
		return 0, err
	}
	n, err := h.file.ReadAt(buf, off)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, core.NewError(core.OpRead, h.path, err)
	}
	return n, nil
}

// Write writes buf at the implicit cursor, advancing it by the number
// of bytes written.
func (h *SyncAccessHandle) Write(buf []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.checkOpen(core.OpWrite); err != nil {
		return 0, err
	}
	n, err := h.file.Write(buf)
	if err != nil {
		return n, core.NewError(core.OpWrite, h.path, err)
	}
	return n, nil
}

// WriteAt writes buf at offset off. The implicit cursor is not moved.
func (h *SyncAccessHandle) WriteAt(buf []byte, off int64) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.checkOpen(core.OpWrite); err != nil {
		return 0, err
	}
	n, err := h.file.WriteAt(buf, off)
	if err != nil {
		return n, core.NewError(core.OpWrite, h.path, err)
	}
	return n, nil
}

// Truncate sets the file length to size. Shrinking discards trailing
// bytes; growing zero-fills the new region. No cursor is moved.
func (h *SyncAccessHandle) Truncate(size int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.checkOpen(core.OpTruncate); err != nil {
		return err
	}
	if err := h.file.Truncate(size); err != nil {
		return core.NewError(core.OpTruncate, h.path, err)
	}
	return nil
}

// Size returns the file's current length.
func (h *SyncAccessHandle) Size() (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.checkOpen(core.OpStat); err != nil {
		return 0, err
	}
	info, err := h.file.Stat()
	if err != nil {
		return 0, core.NewError(core.OpStat, h.path, err)
	}
	return info.Size(), nil
}

// Flush forces pending writes to stable storage without closing.
func (h *SyncAccessHandle) Flush() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.checkOpen(core.OpFlush); err != nil {
		return err
	}
	if err := h.file.Sync(); err != nil {
		return core.NewError(core.OpFlush, h.path, err)
	}
	return nil
}

// Close releases the descriptor. Calls after the first are no-ops and
// never fail.
func (h *SyncAccessHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	if err := h.file.Close(); err != nil {
		return core.NewError(core.OpClose, h.path, err)
	}
	h.log.Trace().Str("path", h.path).Msg("sync access handle closed")
	return nil
}
