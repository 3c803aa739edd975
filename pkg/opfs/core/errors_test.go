package core_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/arthur-debert/opfs/pkg/opfs/core"
)

func TestErrorWrapping(t *testing.T) {
	err := core.NewError(core.OpLookup, "/tmp/x", core.ErrNotFound)

	if !errors.Is(err, core.ErrNotFound) {
		t.Error("wrapped error should match its kind with errors.Is")
	}
	if errors.Is(err, core.ErrTypeMismatch) {
		t.Error("wrapped error must not match a different kind")
	}

	var e *core.Error
	if !errors.As(err, &e) {
		t.Fatal("errors.As should find *core.Error")
	}
	if e.Op != core.OpLookup || e.Path != "/tmp/x" {
		t.Errorf("unexpected fields: op=%q path=%q", e.Op, e.Path)
	}
}

func TestErrorMessage(t *testing.T) {
	err := core.NewError(core.OpRemove, "/data/dir", core.ErrNotEmpty)
	msg := err.Error()
	for _, part := range []string{"remove", "/data/dir", "directory not empty"} {
		if !strings.Contains(msg, part) {
			t.Errorf("message %q missing %q", msg, part)
		}
	}

	// Path-less errors still format.
	msg = core.NewError(core.OpOpen, "", core.ErrClosed).Error()
	if !strings.Contains(msg, "open") {
		t.Errorf("message %q missing op", msg)
	}
}

func TestTypeMismatch(t *testing.T) {
	err := core.TypeMismatch(core.KindFile)
	if !errors.Is(err, core.ErrTypeMismatch) {
		t.Error("TypeMismatch should match ErrTypeMismatch")
	}
	if !strings.Contains(err.Error(), "not a file") {
		t.Errorf("expected 'not a file' in %q", err)
	}
	if got := core.TypeMismatch(core.KindDirectory).Error(); !strings.Contains(got, "not a directory") {
		t.Errorf("expected 'not a directory' in %q", got)
	}
}

func TestKindsAreDistinct(t *testing.T) {
	kinds := []error{
		core.ErrNotFound,
		core.ErrTypeMismatch,
		core.ErrNotEmpty,
		core.ErrClosed,
		core.ErrUnsupportedOperand,
		core.ErrInvalidName,
	}
	for i, a := range kinds {
		for j, b := range kinds {
			if i == j {
				continue
			}
			if errors.Is(fmt.Errorf("wrap: %w", a), b) {
				t.Errorf("kind %v unexpectedly matches %v", a, b)
			}
		}
	}
}
