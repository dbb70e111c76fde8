package tgnotify

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSourceFromPath(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "report.pdf")
	if err := os.WriteFile(path, []byte("pdf"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, name, err := FromPath(path).file()
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	if f.FileLocal != path {
		t.Fatalf("FileLocal = %q, want %q", f.FileLocal, path)
	}
	if name != "report.pdf" {
		t.Fatalf("name = %q, want report.pdf", name)
	}
}

func TestSourceFromPathMissing(t *testing.T) {
	t.Parallel()
	_, _, err := FromPath(filepath.Join(t.TempDir(), "nope.png")).file()
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSourceFromBytes(t *testing.T) {
	t.Parallel()
	f, name, err := FromBytes([]byte{0x89, 0x50}, "pic.png").file()
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	if f.FileReader == nil {
		t.Fatal("FileReader not set")
	}
	if name != "pic.png" {
		t.Fatalf("name = %q", name)
	}

	_, name, err = FromBytes([]byte("x"), "").file()
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	if name != "file" {
		t.Fatalf("default name = %q, want file", name)
	}
}

func TestSourceFromURL(t *testing.T) {
	t.Parallel()
	f, _, err := FromURL("https://example.com/pic.png").file()
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	if f.FileURL != "https://example.com/pic.png" {
		t.Fatalf("FileURL = %q", f.FileURL)
	}

	if _, _, err := FromURL("ftp://example.com/pic.png").file(); err == nil {
		t.Fatal("expected error for non-http url")
	}
}

func TestSourceZeroValue(t *testing.T) {
	t.Parallel()
	if _, _, err := (Source{}).file(); err == nil {
		t.Fatal("expected error for zero source")
	}
}
