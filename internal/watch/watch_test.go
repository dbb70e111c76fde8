package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRunReportsFileChange(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	if err := os.WriteFile(path, []byte("start"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	changed := make(chan string, 8)
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, path, 50*time.Millisecond, func(name string) {
			select {
			case changed <- name:
			default:
			}
		})
	}()

	// Give the watcher a moment to arm before mutating the file.
	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(path, []byte("more"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case name := <-changed:
		if filepath.Base(name) != "app.log" {
			t.Fatalf("changed name = %q", name)
		}
	case <-ctx.Done():
		t.Fatal("no change reported before timeout")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRunIgnoresSiblingFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "watched.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan string, 8)
	go func() {
		_ = Run(ctx, path, 50*time.Millisecond, func(name string) {
			select {
			case changed <- name:
			default:
			}
		})
	}()

	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("y"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case name := <-changed:
		t.Fatalf("unexpected change for %q", name)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestRunMissingPath(t *testing.T) {
	t.Parallel()
	err := Run(context.Background(), filepath.Join(t.TempDir(), "nope"), 0, func(string) {})
	if err == nil {
		t.Fatal("expected error for missing path")
	}
}
