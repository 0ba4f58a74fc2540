package server

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFramerReassemblesSplitLines(t *testing.T) {
	var f lineFramer

	lines, overflow := f.Feed("he")
	if overflow {
		t.Fatalf("Feed: unexpected overflow")
	}
	if len(lines) != 0 {
		t.Fatalf("Feed: expected no lines, got %v", lines)
	}
	if f.Pending() != "he" {
		t.Fatalf("Pending: want %q got %q", "he", f.Pending())
	}

	lines, overflow = f.Feed("llo\nworld\n")
	if overflow {
		t.Fatalf("Feed: unexpected overflow")
	}
	if diff := cmp.Diff([]string{"hello", "world"}, lines); diff != "" {
		t.Fatalf("Feed mismatch (-want +got):\n%s", diff)
	}
	if f.Pending() != "" {
		t.Fatalf("Pending: want empty, got %q", f.Pending())
	}
}

func TestFramerTerminatorVariants(t *testing.T) {
	var f lineFramer
	lines, _ := f.Feed("a\r\nb\rc\n")
	if diff := cmp.Diff([]string{"a", "b", "c"}, lines); diff != "" {
		t.Fatalf("Feed mismatch (-want +got):\n%s", diff)
	}
}

func TestFramerDropsEmptyLines(t *testing.T) {
	var f lineFramer
	lines, _ := f.Feed("\n\nhi\n\n")
	if diff := cmp.Diff([]string{"hi"}, lines); diff != "" {
		t.Fatalf("Feed mismatch (-want +got):\n%s", diff)
	}
}

func TestFramerOverflow(t *testing.T) {
	var f lineFramer

	// A chunk that completes a line never overflows, whatever its size.
	big := strings.Repeat("x", MaxPendingLine+10)
	lines, overflow := f.Feed(big + "\n")
	if overflow {
		t.Fatalf("Feed: terminated line must not overflow")
	}
	if len(lines) != 1 || len(lines[0]) != MaxPendingLine+10 {
		t.Fatalf("Feed: expected the oversized line back")
	}

	_, overflow = f.Feed(big)
	if !overflow {
		t.Fatalf("Feed: unterminated fragment over the ceiling must overflow")
	}
	if f.Pending() != "" {
		t.Fatalf("Pending: overflow must reset the fragment")
	}
}
