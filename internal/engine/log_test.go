package engine

import (
	"fmt"
	"testing"
)

func TestActivityLogAppendAndOrder(t *testing.T) {
	l := NewActivityLog()
	l.Append("a", LevelInfo)
	l.Append("b", LevelWarn)
	l.Append("c", LevelError)

	entries := l.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i, want := range []string{"a", "b", "c"} {
		if entries[i].Message != want {
			t.Errorf("entries[%d] = %q, want %q", i, entries[i].Message, want)
		}
	}
	if entries[1].Level != LevelWarn {
		t.Errorf("entries[1] level = %v, want warn", entries[1].Level)
	}
}

func TestActivityLogEviction(t *testing.T) {
	l := NewActivityLog()
	const n = LogCapacity + 15
	for i := 1; i <= n; i++ {
		l.Append(fmt.Sprintf("event %d", i), LevelInfo)
	}

	if l.Len() != LogCapacity {
		t.Fatalf("Len = %d, want %d", l.Len(), LogCapacity)
	}

	entries := l.Entries()
	for i, e := range entries {
		want := fmt.Sprintf("event %d", n-LogCapacity+1+i)
		if e.Message != want {
			t.Errorf("entries[%d] = %q, want %q", i, e.Message, want)
		}
	}
}

func TestActivityLogEntriesIsACopy(t *testing.T) {
	l := NewActivityLog()
	l.Append("original", LevelInfo)

	entries := l.Entries()
	entries[0].Message = "mutated"

	if l.Entries()[0].Message != "original" {
		t.Error("Entries exposed the internal buffer")
	}
}

func TestLevelString(t *testing.T) {
	cases := map[Level]string{
		LevelInfo:  "info",
		LevelWarn:  "warn",
		LevelError: "error",
		Level(42):  "unknown",
	}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", level, got, want)
		}
	}
}
