package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCmdSetup(t *testing.T) {
	if rootCmd == nil {
		t.Fatal("rootCmd is nil after init")
	}
	if rootCmd.Use != "opfs" {
		t.Errorf("expected command Use %q, got %q", "opfs", rootCmd.Use)
	}

	expected := []string{"version", "ls", "cat", "write", "mkdir", "rm", "resolve"}
	for _, name := range expected {
		found := false
		for _, cmd := range rootCmd.Commands() {
			if strings.HasPrefix(cmd.Use, name) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not found", name)
		}
	}
}

// run executes the CLI against the given storage root and returns its
// combined output.
func run(t *testing.T, root string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--root", root}, args...))
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("command %v failed: %v\noutput: %s", args, err, out.String())
	}
	return out.String()
}

func TestWriteCatLsRoundTrip(t *testing.T) {
	root := t.TempDir()

	run(t, root, "mkdir", "docs")
	run(t, root, "write", "docs/hello.txt", "hello world")

	if got := run(t, root, "cat", "docs/hello.txt"); got != "hello world" {
		t.Errorf("cat: expected %q, got %q", "hello world", got)
	}

	ls := run(t, root, "ls", "docs")
	if !strings.Contains(ls, "hello.txt") || !strings.Contains(ls, "file") {
		t.Errorf("ls output missing entry: %q", ls)
	}

	if got := run(t, root, "resolve", "/", "docs/hello.txt"); !strings.Contains(got, "docs hello.txt") {
		t.Errorf("resolve: unexpected output %q", got)
	}

	run(t, root, "rm", "-r", "docs")
	if ls := run(t, root, "ls"); strings.Contains(ls, "docs") {
		t.Errorf("docs should be gone, ls output: %q", ls)
	}
}

func TestWriteAtOffset(t *testing.T) {
	root := t.TempDir()

	run(t, root, "write", "a.txt", "0123456789")
	run(t, root, "write", "--keep", "--at", "5", "a.txt", "XXXXX")

	if got := run(t, root, "cat", "a.txt"); got != "01234XXXXX" {
		t.Errorf("expected %q, got %q", "01234XXXXX", got)
	}
}
