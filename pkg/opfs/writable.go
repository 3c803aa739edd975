package opfs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/opfs/pkg/opfs/core"
)

// WriteType tags the three accepted forms of a WriteParams operation.
type WriteType string

const (
	// WriteTypeWrite writes Data at Position if given, else at the
	// stream cursor (advancing it).
	WriteTypeWrite WriteType = "write"
	// WriteTypeSeek moves the stream cursor to Position with no I/O.
	WriteTypeSeek WriteType = "seek"
	// WriteTypeTruncate sets the file length to Size immediately,
	// independent of the cursor.
	WriteTypeTruncate WriteType = "truncate"
)

// WriteParams is the tagged write-operation shape accepted by
// WritableStream.Apply. Exactly the three WriteType forms are valid;
// anything else fails with core.ErrUnsupportedOperand.
type WriteParams struct {
	Type     WriteType
	Position *int64 // write: absolute offset; seek: new cursor
	Data     []byte // write payload; must be non-nil for write
	Size     *int64 // truncate: new file length
}

// WritableStream is a positional writer over one exclusively owned
// write descriptor. The descriptor opens lazily on the first
// operation; an open failure is sticky and every later operation
// fails with it identically. The cursor starts at 0 and only
// cursor-relative writes and Seek move it. Operations on one stream
// are serialized in call order; nothing orders two streams opened on
// the same path.
type WritableStream struct {
	mu      sync.Mutex
	path    string
	file    *os.File
	pos     int64
	opened  bool
	openErr error
	closed  bool
	log     zerolog.Logger
}

func newWritableStream(path string, log zerolog.Logger) *WritableStream {
	return &WritableStream{path: path, log: log}
}

// ensureOpen performs the deferred descriptor open. Callers hold mu.
func (w *WritableStream) ensureOpen() error {
	if w.openErr != nil {
		return w.openErr
	}
	if w.opened {
		return nil
	}
	f, err := os.OpenFile(w.path, os.O_WRONLY, 0)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = core.ErrNotFound
		}
		w.openErr = core.NewError(core.OpOpen, w.path, err)
		return w.openErr
	}
	w.file = f
	w.opened = true
	w.log.Trace().Str("path", w.path).Msg("writable stream opened")
	return nil
}

// enter is the common preamble: context, closed state, deferred open.
// Callers hold mu.
func (w *WritableStream) enter(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.closed {
		return core.NewError(op, w.path, core.ErrClosed)
	}
	return w.ensureOpen()
}

// Write writes data at the current cursor and advances it by the
// number of bytes written.
func (w *WritableStream) Write(ctx context.Context, data []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.enter(ctx, core.OpWrite); err != nil {
		return 0, err
	}
	n, err := w.file.WriteAt(data, w.pos)
	w.pos += int64(n)
	if err != nil {
		return n, core.NewError(core.OpWrite, w.path, err)
	}
	return n, nil
}

// WriteAt writes data at the given absolute offset without moving the
// cursor.
func (w *WritableStream) WriteAt(ctx context.Context, data []byte, pos int64) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.enter(ctx, core.OpWrite); err != nil {
		return 0, err
	}
	if pos < 0 {
		return 0, core.NewError(core.OpWrite, w.path, core.ErrUnsupportedOperand)
	}
	n, err := w.file.WriteAt(data, pos)
	if err != nil {
		return n, core.NewError(core.OpWrite, w.path, err)
	}
	return n, nil
}

// Seek sets the cursor to pos with no I/O.
func (w *WritableStream) Seek(ctx context.Context, pos int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.enter(ctx, core.OpSeek); err != nil {
		return err
	}
	if pos < 0 {
		return core.NewError(core.OpSeek, w.path, core.ErrUnsupportedOperand)
	}
	w.pos = pos
	return nil
}

// Truncate sets the file length to size immediately. The cursor is
// not moved.
func (w *WritableStream) Truncate(ctx context.Context, size int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.enter(ctx, core.OpTruncate); err != nil {
		return err
	}
	if size < 0 {
		return core.NewError(core.OpTruncate, w.path, core.ErrUnsupportedOperand)
	}
	if err := w.file.Truncate(size); err != nil {
		return core.NewError(core.OpTruncate, w.path, err)
	}
	return nil
}

// Apply dispatches one tagged write operation. Unknown tags and tags
// missing their required parameters fail with
// core.ErrUnsupportedOperand.
func (w *WritableStream) Apply(ctx context.Context, p WriteParams) error {
	switch p.Type {
	case WriteTypeWrite:
		if p.Data == nil {
			return core.NewError(core.OpWrite, w.path, core.ErrUnsupportedOperand)
		}
		if p.Position != nil {
			_, err := w.WriteAt(ctx, p.Data, *p.Position)
			return err
		}
		_, err := w.Write(ctx, p.Data)
		return err
	case WriteTypeSeek:
		if p.Position == nil {
			return core.NewError(core.OpSeek, w.path, core.ErrUnsupportedOperand)
		}
		return w.Seek(ctx, *p.Position)
	case WriteTypeTruncate:
		if p.Size == nil {
			return core.NewError(core.OpTruncate, w.path, core.ErrUnsupportedOperand)
		}
		return w.Truncate(ctx, *p.Size)
	default:
		return core.NewError(core.OpWrite, w.path, core.ErrUnsupportedOperand)
	}
}

// Close flushes pending data to stable storage, releases the
// descriptor and marks the stream closed. It is idempotent: calls
// after the first are no-ops.
func (w *WritableStream) Close(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.closed {
		return nil
	}
	w.closed = true
	if !w.opened {
		return nil
	}
	if err := w.file.Sync(); err != nil {
		_ = w.file.Close()
		return core.NewError(core.OpFlush, w.path, err)
	}
	if err := w.file.Close(); err != nil {
		return core.NewError(core.OpClose, w.path, err)
	}
	w.log.Trace().Str("path", w.path).Msg("writable stream closed")
	return nil
}
