package opfs_test

import (
	"context"
	"io"
	"testing"

	"github.com/arthur-debert/opfs/pkg/opfs"
)

// testRoot returns a root directory handle over a fresh temp dir.
func testRoot(t *testing.T) *opfs.DirectoryHandle {
	t.Helper()
	st, err := opfs.New(
		opfs.WithBasePath(t.TempDir()),
		opfs.WithLogger(opfs.NewTestLogger(io.Discard, 0)),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	root, err := st.GetDirectory(context.Background())
	if err != nil {
		t.Fatalf("GetDirectory failed: %v", err)
	}
	return root
}

// mustFile creates (or opens) a child file and writes content through
// a writable stream.
func mustFile(t *testing.T, dir *opfs.DirectoryHandle, name, content string) *opfs.FileHandle {
	t.Helper()
	ctx := context.Background()
	fh, err := dir.GetFileHandle(ctx, name, opfs.GetOptions{Create: true})
	if err != nil {
		t.Fatalf("GetFileHandle(%q) failed: %v", name, err)
	}
	if content != "" {
		stream, err := fh.CreateWritable(ctx, opfs.WritableOptions{})
		if err != nil {
			t.Fatalf("CreateWritable failed: %v", err)
		}
		if _, err := stream.Write(ctx, []byte(content)); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if err := stream.Close(ctx); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}
	return fh
}

// readBack returns the file's current content via GetFile.
func readBack(t *testing.T, fh *opfs.FileHandle) string {
	t.Helper()
	file, err := fh.GetFile(context.Background())
	if err != nil {
		t.Fatalf("GetFile failed: %v", err)
	}
	return file.Text()
}
