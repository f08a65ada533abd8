package ioutils

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const snapshotURL = "https://web.archive.org/web/20200101000000/http://example.com/a"

func TestStore_Persist(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	name, err := store.Persist(context.Background(), snapshotURL, []byte("<html>a</html>"))
	if err != nil {
		t.Fatalf("Persist() error = %v", err)
	}
	if name != "20200101000000_a.html" {
		t.Errorf("name = %q, want %q", name, "20200101000000_a.html")
	}

	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("reading persisted file: %v", err)
	}
	if string(data) != "<html>a</html>" {
		t.Errorf("content = %q", data)
	}
}

func TestStore_PersistOverwrites(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	ctx := context.Background()

	if _, err := store.Persist(ctx, snapshotURL, []byte("first version, longer")); err != nil {
		t.Fatal(err)
	}
	name, err := store.Persist(ctx, snapshotURL, []byte("second"))
	if err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(filepath.Join(dir, name))
	if string(data) != "second" {
		t.Errorf("content = %q, want %q", data, "second")
	}
}

func TestStore_PersistMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "does-not-exist")
	store := NewStore(dir)

	_, err := store.Persist(context.Background(), snapshotURL, []byte("x"))
	var persistErr *PersistError
	if !errors.As(err, &persistErr) {
		t.Fatalf("error = %v, want *PersistError", err)
	}
	if persistErr.URL != snapshotURL {
		t.Errorf("URL = %q", persistErr.URL)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error should wrap os.ErrNotExist, got %v", err)
	}
	if _, statErr := os.Stat(dir); !os.IsNotExist(statErr) {
		t.Error("Persist must not create the output directory")
	}
}

func TestStore_PersistCancelled(t *testing.T) {
	store := NewStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.Persist(ctx, snapshotURL, []byte("x")); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir() on existing dir error = %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("directory not created: %v", err)
	}
}

func TestEnsureDir_Failure(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	err := EnsureDir(filepath.Join(blocker, "child"))
	var setupErr *SetupError
	if !errors.As(err, &setupErr) {
		t.Fatalf("error = %v, want *SetupError", err)
	}
}
