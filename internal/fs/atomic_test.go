package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/substantialcattle5/findup/testutil"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := testutil.TempDir(t, "atomic")
	path := filepath.Join(dir, "nested", "config.yaml")

	if err := WriteFileAtomic(path, []byte("first"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}
	testutil.AssertFileContains(t, path, "first")

	if err := WriteFileAtomic(path, []byte("second"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic replace failed: %v", err)
	}
	testutil.AssertFileContains(t, path, "second")
	testutil.AssertFileSize(t, path, int64(len("second")))

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("staged files should not be left behind, found %d entries", len(entries))
	}
}

func TestWriteFileAtomicIntoFile(t *testing.T) {
	dir := testutil.TempDir(t, "atomic-fail")
	blocker := testutil.CreateTestFile(t, dir, "blocker", "x")

	if err := WriteFileAtomic(filepath.Join(blocker, "config.yaml"), []byte("data"), 0o644); err == nil {
		t.Fatal("expected error when the parent is a file")
	}
	testutil.AssertFileContains(t, blocker, "x")
}
