package home

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDirLayout(t *testing.T) {
	root := filepath.Join(t.TempDir(), "bf")
	d, err := New(root)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if d.Path() != root {
		t.Fatalf("Path() = %s, want %s", d.Path(), root)
	}
	if got := d.BookDir("Tinsel_and_Tension"); got != filepath.Join(root, "books", "Tinsel_and_Tension") {
		t.Fatalf("BookDir() = %s", got)
	}
	if got := d.ConfigPath(); got != filepath.Join(root, "config.yaml") {
		t.Fatalf("ConfigPath() = %s", got)
	}
}

func TestEnsureExists(t *testing.T) {
	root := filepath.Join(t.TempDir(), "bf")
	d, err := New(root)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if d.Exists() {
		t.Fatal("Exists() should be false before EnsureExists")
	}
	if err := d.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists() error = %v", err)
	}

	for _, dir := range []string{d.BooksDir(), d.CoversDir(), d.OutputDir(), d.ScreenshotsDir()} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("missing directory %s: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("%s is not a directory", dir)
		}
	}
	if !d.Exists() {
		t.Fatal("Exists() should be true after EnsureExists")
	}
	if d.ConfigExists() {
		t.Fatal("ConfigExists() should be false with no config file")
	}
}
