package digest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileMatchesKnownDigest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.txt")
	if err := os.WriteFile(path, []byte("hello world"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	got, err := File(path)
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	// Precomputed MD5 of "hello world".
	const want = "5eb63bbbe01eeed093cb22bb8f5acdc3"
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestFileMissingReturnsError(t *testing.T) {
	if _, err := File(filepath.Join(t.TempDir(), "missing.bin")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
