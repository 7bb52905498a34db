package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Smallest valid PNG: signature + empty IHDR is enough for sniffing.
var pngHeader = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x02, 0x00, 0x00, 0x00,
}

func newTestStore(t *testing.T) *ImageStore {
	t.Helper()
	store, err := NewImageStore(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	return store
}

func TestUpload_StoresPNGAndReturnsPublicURL(t *testing.T) {
	store := newTestStore(t)

	storedPath, url, err := store.Upload("properties", bytes.NewReader(pngHeader))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if !strings.HasPrefix(storedPath, "properties/") || !strings.HasSuffix(storedPath, ".png") {
		t.Fatalf("unexpected stored path %q", storedPath)
	}
	if url != "/uploads/"+storedPath {
		t.Fatalf("unexpected public URL %q", url)
	}

	onDisk := filepath.Join(store.Dir(), filepath.FromSlash(storedPath))
	data, err := os.ReadFile(onDisk)
	if err != nil {
		t.Fatalf("stored file unreadable: %v", err)
	}
	if !bytes.Equal(data, pngHeader) {
		t.Fatal("stored bytes differ from upload")
	}
}

func TestUpload_RejectsNonImagePayload(t *testing.T) {
	store := newTestStore(t)

	_, _, err := store.Upload("properties", strings.NewReader("#!/bin/sh\nrm -rf /\n"))
	if !errors.Is(err, ErrUnsupportedImage) {
		t.Fatalf("expected ErrUnsupportedImage, got %v", err)
	}
}

func TestUpload_GeneratesUniqueNames(t *testing.T) {
	store := newTestStore(t)

	first, _, err := store.Upload("properties", bytes.NewReader(pngHeader))
	if err != nil {
		t.Fatalf("first upload failed: %v", err)
	}
	second, _, err := store.Upload("properties", bytes.NewReader(pngHeader))
	if err != nil {
		t.Fatalf("second upload failed: %v", err)
	}
	if first == second {
		t.Fatalf("uploads must not collide, both got %q", first)
	}
}

func TestDelete_RemovesStoredFile(t *testing.T) {
	store := newTestStore(t)

	storedPath, _, err := store.Upload("properties", bytes.NewReader(pngHeader))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if err := store.Delete(storedPath); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), filepath.FromSlash(storedPath))); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("file should be gone after delete")
	}

	// Deleting again is a no-op.
	if err := store.Delete(storedPath); err != nil {
		t.Fatalf("second delete should be silent: %v", err)
	}
}

func TestDelete_RefusesPathEscape(t *testing.T) {
	store := newTestStore(t)

	if err := store.Delete("../../etc/passwd"); err == nil {
		t.Fatal("expected traversal to be refused")
	}
}
