package opfs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arthur-debert/opfs/pkg/opfs"
	"github.com/arthur-debert/opfs/pkg/opfs/core"
)

func TestGetFileSnapshot(t *testing.T) {
	ctx := context.Background()
	root := testRoot(t)
	fh := mustFile(t, root, "snap.txt", "original")

	file, err := fh.GetFile(ctx)
	if err != nil {
		t.Fatalf("GetFile failed: %v", err)
	}
	if file.Name() != "snap.txt" {
		t.Errorf("expected name snap.txt, got %q", file.Name())
	}
	if file.Size() != int64(len("original")) {
		t.Errorf("expected size %d, got %d", len("original"), file.Size())
	}
	if file.Text() != "original" {
		t.Errorf("expected %q, got %q", "original", file.Text())
	}
	if file.LastModified().IsZero() {
		t.Error("expected a last-modified time")
	}
	if time.Since(file.LastModified()) > time.Minute {
		t.Errorf("last-modified looks stale: %v", file.LastModified())
	}

	t.Run("no live binding to later mutations", func(t *testing.T) {
		stream, err := fh.CreateWritable(ctx, opfs.WritableOptions{})
		if err != nil {
			t.Fatalf("CreateWritable failed: %v", err)
		}
		if _, err := stream.Write(ctx, []byte("changed")); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if err := stream.Close(ctx); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
		if file.Text() != "original" {
			t.Errorf("snapshot mutated: %q", file.Text())
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if err := root.RemoveEntry(ctx, "snap.txt", opfs.RemoveOptions{}); err != nil {
			t.Fatalf("remove failed: %v", err)
		}
		_, err := fh.GetFile(ctx)
		if !errors.Is(err, core.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestCreateWritableOnMissingFile(t *testing.T) {
	ctx := context.Background()
	root := testRoot(t)
	fh := mustFile(t, root, "gone.txt", "")
	if err := root.RemoveEntry(ctx, "gone.txt", opfs.RemoveOptions{}); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	// The default mode truncates eagerly, so the missing file is
	// noticed at factory time.
	_, err := fh.CreateWritable(ctx, opfs.WritableOptions{})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
