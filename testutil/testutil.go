// Package testutil provides common testing utilities for findup
package testutil

import (
	"bytes"
	"crypto/rand"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TempDir creates a scan root that is removed when the test completes
func TempDir(t *testing.T, prefix string) string {
	t.Helper()
	dir, err := os.MkdirTemp("", prefix)
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.RemoveAll(dir); err != nil {
			t.Errorf("Failed to clean up temp dir %s: %v", dir, err)
		}
	})
	return dir
}

// createParent makes the directory that will hold name under dir
func createParent(t *testing.T, dir, name string) string {
	t.Helper()
	filePath := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", filePath, err)
	}
	return filePath
}

// CreateTestFile writes content to dir/filename, creating parent directories
func CreateTestFile(t *testing.T, dir, filename, content string) string {
	t.Helper()
	filePath := createParent(t, dir, filename)
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", filePath, err)
	}
	return filePath
}

// CreateTestFileWithSize writes size random bytes, so two such files are
// never duplicates of each other
func CreateTestFileWithSize(t *testing.T, dir, filename string, size int64) string {
	t.Helper()
	filePath := createParent(t, dir, filename)

	file, err := os.Create(filePath)
	if err != nil {
		t.Fatalf("Failed to create test file %s: %v", filePath, err)
	}
	defer file.Close()

	if _, err := io.CopyN(file, rand.Reader, size); err != nil {
		t.Fatalf("Failed to write %d random bytes to %s: %v", size, filePath, err)
	}
	return filePath
}

// CreateDuplicateFiles writes the same content to every name under dir and
// returns the created paths in the given order
func CreateDuplicateFiles(t *testing.T, dir, content string, names ...string) []string {
	t.Helper()
	paths := make([]string, 0, len(names))
	for _, name := range names {
		paths = append(paths, CreateTestFile(t, dir, name, content))
	}
	return paths
}

// CreatePatternFile writes size bytes of the repeating pattern, with the byte at
// offset flip inverted when flip is within range. Files sharing pattern and size
// differ at exactly one offset.
func CreatePatternFile(t *testing.T, dir, filename string, pattern []byte, size int64, flip int64) string {
	t.Helper()
	if len(pattern) == 0 {
		t.Fatalf("empty pattern for %s", filename)
	}
	data := bytes.Repeat(pattern, int(size)/len(pattern)+1)[:size]
	if flip >= 0 && flip < size {
		data[flip] ^= 0xff
	}
	return CreateTestFile(t, dir, filename, string(data))
}

// AssertDirExists fails the test unless path is a directory
func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Expected directory %s: %v", path, err)
	}
	if !info.IsDir() {
		t.Fatalf("Expected %s to be a directory", path)
	}
}

// AssertFileContains fails the test unless the file at path contains want
func AssertFileContains(t *testing.T, path, want string) {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	if !strings.Contains(string(content), want) {
		t.Fatalf("File %s does not contain %q", path, want)
	}
}

// AssertFileSize fails the test unless the file at path is want bytes long
func AssertFileSize(t *testing.T, path string, want int64) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat file %s: %v", path, err)
	}
	if info.Size() != want {
		t.Fatalf("File %s has size %d, want %d", path, info.Size(), want)
	}
}

// redirect points *target at a pipe and returns a function that restores it
// and yields everything written in between
func redirect(t *testing.T, target **os.File) func() string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}

	saved := *target
	*target = w

	done := make(chan string)
	go func() {
		output, _ := io.ReadAll(r)
		done <- string(output)
	}()

	return func() string {
		w.Close()
		*target = saved
		output := <-done
		r.Close()
		return output
	}
}

// CaptureOutput runs fn and returns what it wrote to os.Stdout and os.Stderr.
// Commands that write through cobra's OutOrStdout default to os.Stdout.
func CaptureOutput(t *testing.T, fn func()) (stdout, stderr string) {
	t.Helper()
	restoreStdout := redirect(t, &os.Stdout)
	restoreStderr := redirect(t, &os.Stderr)

	fn()

	return restoreStdout(), restoreStderr()
}

// SkipIfShort skips tests that walk or hash large trees in short mode
func SkipIfShort(t *testing.T, reason string) {
	t.Helper()
	if testing.Short() {
		t.Skipf("Skipping test in short mode: %s", reason)
	}
}
