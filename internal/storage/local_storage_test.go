package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/campushire/platform/internal/config"
)

func TestLocalStorageSave(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	if err != nil {
		t.Fatalf("NewLocalStorage error: %v", err)
	}

	key, err := store.Save(context.Background(), []byte("resume body"), SaveOptions{
		Category:  "resumes",
		BaseName:  "acc-1",
		Extension: "pdf",
	})
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if !strings.HasPrefix(key, "resumes/") {
		t.Fatalf("key should start with category: %q", key)
	}
	if !strings.HasSuffix(key, ".pdf") {
		t.Fatalf("key should carry extension: %q", key)
	}

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "resume body" {
		t.Fatalf("stored content mismatch: %q", data)
	}
}

func TestLocalStorageSave_RepeatedOptionsKeepBothObjects(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	if err != nil {
		t.Fatalf("NewLocalStorage error: %v", err)
	}

	opts := SaveOptions{Category: "resumes", BaseName: "acc-1", Extension: "pdf"}
	first, err := store.Save(context.Background(), []byte("resume for job A"), opts)
	if err != nil {
		t.Fatalf("first Save error: %v", err)
	}
	second, err := store.Save(context.Background(), []byte("resume for job B"), opts)
	if err != nil {
		t.Fatalf("second Save error: %v", err)
	}
	if first == second {
		t.Fatalf("identical options produced the same key %q", first)
	}

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(first)))
	if err != nil {
		t.Fatalf("read first object: %v", err)
	}
	if string(data) != "resume for job A" {
		t.Fatalf("first object overwritten: %q", data)
	}
	data, err = os.ReadFile(filepath.Join(dir, filepath.FromSlash(second)))
	if err != nil {
		t.Fatalf("read second object: %v", err)
	}
	if string(data) != "resume for job B" {
		t.Fatalf("second object mismatch: %q", data)
	}
}

func TestLocalStorageSave_EmptyPayload(t *testing.T) {
	t.Parallel()

	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage error: %v", err)
	}
	if _, err := store.Save(context.Background(), nil, SaveOptions{Category: "resumes"}); err == nil {
		t.Fatalf("expected error for empty payload")
	}
}

func TestLocalStorageSave_CancelledContext(t *testing.T) {
	t.Parallel()

	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Save(ctx, []byte("x"), SaveOptions{Category: "resumes"}); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}

func TestNewStorageSelectsBackend(t *testing.T) {
	t.Parallel()

	store, err := NewStorage(config.StorageConfig{Type: "local", LocalDir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewStorage error: %v", err)
	}
	if _, ok := store.(*LocalStorage); !ok {
		t.Fatalf("expected LocalStorage, got %T", store)
	}

	if _, err := NewStorage(config.StorageConfig{Type: "ftp"}); err == nil {
		t.Fatalf("expected error for unsupported backend")
	}
}

func TestBuildObjectPath(t *testing.T) {
	t.Parallel()

	key := buildObjectPath("resumes", "Weird Name!.pdf", ".pdf")
	parts := strings.Split(key, "/")
	if len(parts) != 4 {
		t.Fatalf("expected category/year/month/name, got %q", key)
	}
	if parts[0] != "resumes" {
		t.Fatalf("category mismatch: %q", key)
	}
	if !strings.HasSuffix(parts[3], ".pdf") {
		t.Fatalf("extension mismatch: %q", key)
	}
	if strings.ContainsAny(parts[3], " !") {
		t.Fatalf("name not sanitized: %q", key)
	}

	// Every key carries a random suffix, so the same base never repeats.
	if again := buildObjectPath("resumes", "Weird Name!.pdf", ".pdf"); again == key {
		t.Fatalf("expected distinct keys for repeated base name, got %q twice", key)
	}

	// Empty base names never collide on an empty string.
	a := buildObjectPath("misc", "", "")
	b := buildObjectPath("misc", "", "")
	if a == b {
		t.Fatalf("expected random names for empty base, got %q twice", a)
	}
}
