package opfs_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/opfs/pkg/opfs"
	"github.com/arthur-debert/opfs/pkg/opfs/core"
)

func TestStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("base path is made absolute", func(t *testing.T) {
		st, err := opfs.New(opfs.WithBasePath("rel-root"))
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		if !filepath.IsAbs(st.BasePath()) {
			t.Errorf("expected absolute base path, got %q", st.BasePath())
		}
	})

	t.Run("GetDirectory creates the root", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "nested", "root")
		st, err := opfs.New(
			opfs.WithBasePath(base),
			opfs.WithLogger(opfs.NewTestLogger(io.Discard, 0)),
		)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		root, err := st.GetDirectory(ctx)
		if err != nil {
			t.Fatalf("GetDirectory failed: %v", err)
		}
		info, err := os.Stat(base)
		if err != nil || !info.IsDir() {
			t.Fatalf("root path was not created: %v", err)
		}
		if root.Name() != "" {
			t.Errorf("root name should be empty, got %q", root.Name())
		}
		if root.Kind() != core.KindDirectory {
			t.Errorf("root kind should be directory, got %v", root.Kind())
		}
		if root.Path() != base {
			t.Errorf("expected root path %q, got %q", base, root.Path())
		}
	})

	t.Run("independent roots do not interfere", func(t *testing.T) {
		a, err := opfs.New(opfs.WithBasePath(t.TempDir()), opfs.WithLogger(opfs.NewTestLogger(io.Discard, 0)))
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		b, err := opfs.New(opfs.WithBasePath(t.TempDir()), opfs.WithLogger(opfs.NewTestLogger(io.Discard, 0)))
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		rootA, err := a.GetDirectory(ctx)
		if err != nil {
			t.Fatalf("GetDirectory failed: %v", err)
		}
		rootB, err := b.GetDirectory(ctx)
		if err != nil {
			t.Fatalf("GetDirectory failed: %v", err)
		}
		mustFile(t, rootA, "only-in-a.txt", "x")
		it := rootB.Entries(ctx)
		if it.Next() {
			t.Errorf("root B should be empty, saw %q", it.Value().Name)
		}
		if segs, ok := rootA.Resolve(rootB); ok {
			t.Errorf("unrelated roots resolved to %v", segs)
		}
	})
}
