package opfs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/opfs/pkg/opfs/core"
)

// defaultDirName is the directory created under the user cache dir
// when no base path is configured.
const defaultDirName = "opfs"

// Storage is the explicit storage context: it owns the configured
// base path and the logger threaded into every handle derived from
// its root. Create one per independent root; there is no process-wide
// singleton.
type Storage struct {
	base string
	log  zerolog.Logger
}

// Option configures a Storage.
type Option func(*Storage)

// WithBasePath overrides the default root location. The path is made
// absolute; it is created on the first GetDirectory call if absent.
func WithBasePath(path string) Option {
	return func(s *Storage) { s.base = path }
}

// WithLogger replaces the default warn-level stderr logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Storage) { s.log = log }
}

// New creates a storage context. Without WithBasePath the root lives
// under the user cache directory.
func New(opts ...Option) (*Storage, error) {
	s := &Storage{log: DefaultLogger()}
	for _, opt := range opts {
		opt(s)
	}
	if s.base == "" {
		cache, err := os.UserCacheDir()
		if err != nil {
			return nil, core.NewError(core.OpOpen, "", err)
		}
		s.base = filepath.Join(cache, defaultDirName)
	}
	abs, err := filepath.Abs(s.base)
	if err != nil {
		return nil, core.NewError(core.OpOpen, s.base, err)
	}
	s.base = abs
	return s, nil
}

// BasePath returns the absolute root path of this storage context.
func (s *Storage) BasePath() string { return s.base }

// GetDirectory ensures the backing root path exists and returns the
// root directory handle. The root handle's name is "".
func (s *Storage) GetDirectory(ctx context.Context) (*DirectoryHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.base, 0o755); err != nil {
		return nil, core.NewError(core.OpCreate, s.base, err)
	}
	s.log.Debug().Str("path", s.base).Msg("storage root ready")
	return &DirectoryHandle{handle{kind: core.KindDirectory, name: "", path: s.base, log: s.log}}, nil
}
