package logs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestTailReturnsLastLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	if err := os.WriteFile(path, []byte("one\ntwo\nthree\nfour\n"), 0o644); err != nil {
		t.Fatalf("seed log: %v", err)
	}

	lines, err := Tail(path, 2)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(lines) != 2 || lines[0] != "three" || lines[1] != "four" {
		t.Fatalf("unexpected lines: %v", lines)
	}

	lines, err = Tail(path, 0)
	if err != nil {
		t.Fatalf("Tail all: %v", err)
	}
	if len(lines) != 4 {
		t.Fatalf("expected full file, got %v", lines)
	}
}

func TestTailMissingFile(t *testing.T) {
	lines, err := Tail(filepath.Join(t.TempDir(), "nope.txt"), 10)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if lines != nil {
		t.Fatalf("expected no lines, got %v", lines)
	}
}

func TestFollowStreamsAppendedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	if err := os.WriteFile(path, []byte("old\n"), 0o644); err != nil {
		t.Fatalf("seed log: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan string, 16)
	done := make(chan error, 1)
	go func() {
		done <- Follow(ctx, path, func(line string) { received <- line })
	}()

	// Give Follow a moment to record the starting offset, then append.
	time.Sleep(50 * time.Millisecond)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	if _, err := f.WriteString("fresh line\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	f.Close()

	select {
	case line := <-received:
		if line != "fresh line" {
			t.Fatalf("unexpected line %q", line)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for appended line")
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
