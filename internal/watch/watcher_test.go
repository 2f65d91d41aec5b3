package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewRequiresCallback(t *testing.T) {
	if _, err := New([]string{"x"}, 0, nil, nil); err == nil {
		t.Fatal("expected error without callback")
	}
}

func TestNewDeduplicatesAndSkipsEmpty(t *testing.T) {
	w, err := New([]string{"a.txt", "", "a.txt", "b.txt"}, 0, func() {}, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if got := len(w.Files()); got != 2 {
		t.Errorf("expected 2 watched files, got %d (%v)", got, w.Files())
	}
}

func TestStartWithoutFilesIsNoop(t *testing.T) {
	w, err := New(nil, 0, func() {}, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	w.Stop()
}

func TestWatcherFiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "prompt.md")
	if err := os.WriteFile(file, []byte("v1"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	var calls atomic.Int32
	w, err := New([]string{file}, 20*time.Millisecond, func() { calls.Add(1) }, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(file, []byte("v2"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if calls.Load() == 0 {
		t.Fatal("expected onChange to be called after write")
	}
}
