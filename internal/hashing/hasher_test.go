package hashing

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/substantialcattle5/findup/testutil"
)

// Small fixed buffers so multi-chunk paths are exercised on tiny files.
const testBufferSize = 7

func TestHashDeterministic(t *testing.T) {
	dir := testutil.TempDir(t, "hash-determinism")
	path := testutil.CreateTestFileWithSize(t, dir, "random.bin", 4096)

	h := New(Options{BufferSize: testBufferSize})
	first, err := h.Full(context.Background(), path)
	if err != nil {
		t.Fatalf("Full() unexpected error: %v", err)
	}
	second, err := h.Full(context.Background(), path)
	if err != nil {
		t.Fatalf("Full() unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("hashing twice gave %s and %s", first, second)
	}
}

func TestHashIndependentOfBufferSize(t *testing.T) {
	dir := testutil.TempDir(t, "hash-buffers")
	path := testutil.CreateTestFileWithSize(t, dir, "random.bin", 10_000)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read test file: %v", err)
	}
	want := SumBytes(data)

	for _, size := range []int64{1, 7, 512, 4096, 9_999, 10_000, 1 << 20} {
		got, err := New(Options{BufferSize: size}).Full(context.Background(), path)
		if err != nil {
			t.Fatalf("Full() with buffer %d unexpected error: %v", size, err)
		}
		if got != want {
			t.Errorf("buffer %d: got %s, want %s", size, got, want)
		}
	}
}

func TestPrefixHash(t *testing.T) {
	dir := testutil.TempDir(t, "hash-prefix")
	a := testutil.CreateTestFile(t, dir, "a.txt", "same-prefix-AAAA")
	b := testutil.CreateTestFile(t, dir, "b.txt", "same-prefix-BBBB")

	h := New(Options{BufferSize: testBufferSize})
	ctx := context.Background()

	tests := []struct {
		name      string
		n         int64
		wantEqual bool
		want      Key
	}{
		{"shared prefix", 12, true, SumBytes([]byte("same-prefix-"))},
		{"diverging prefix", 13, false, SumBytes([]byte("same-prefix-A"))},
		{"limit beyond size", 1024, false, SumBytes([]byte("same-prefix-AAAA"))},
		{"zero bytes", 0, true, SumBytes(nil)},
		{"negative limit", -5, true, SumBytes(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ka, err := h.Prefix(ctx, a, tt.n)
			if err != nil {
				t.Fatalf("Prefix(a) unexpected error: %v", err)
			}
			kb, err := h.Prefix(ctx, b, tt.n)
			if err != nil {
				t.Fatalf("Prefix(b) unexpected error: %v", err)
			}
			if (ka == kb) != tt.wantEqual {
				t.Errorf("Prefix(%d): a=%s b=%s, wantEqual=%t", tt.n, ka, kb, tt.wantEqual)
			}
			if ka != tt.want {
				t.Errorf("Prefix(a, %d) = %s, want %s", tt.n, ka, tt.want)
			}
		})
	}
}

func TestPrefixCoveringWholeFileMatchesFull(t *testing.T) {
	dir := testutil.TempDir(t, "hash-prefix-full")
	path := testutil.CreateTestFile(t, dir, "f.txt", "AAAA")

	h := New(Options{BufferSize: testBufferSize})
	prefix, err := h.Prefix(context.Background(), path, 4)
	if err != nil {
		t.Fatalf("Prefix() unexpected error: %v", err)
	}
	full, err := h.Full(context.Background(), path)
	if err != nil {
		t.Fatalf("Full() unexpected error: %v", err)
	}
	if prefix != full {
		t.Errorf("prefix over the entire file %s differs from full hash %s", prefix, full)
	}
}

func TestKnownDigest(t *testing.T) {
	// CRC-32 of "hello" is 907060870; MurmurHash3 x86_32 with seed 0 is 613153351.
	if got := SumBytes([]byte("hello")); got != "907060870_613153351" {
		t.Errorf("SumBytes(hello) = %s", got)
	}
	if got := SumBytes(nil); got != "0_0" {
		t.Errorf("SumBytes(nil) = %s, want 0_0", got)
	}
}

func TestMockOverrides(t *testing.T) {
	h := New(Options{MockPrefix: "prefix-mock", MockFull: "full-mock"})
	ctx := context.Background()

	// Mocks bypass reading entirely, so a missing file is fine.
	missing := filepath.Join(os.TempDir(), "findup-does-not-exist")

	if k, err := h.Prefix(ctx, missing, 10); err != nil || k != "prefix-mock" {
		t.Errorf("Prefix() = (%s, %v), want prefix-mock", k, err)
	}
	if k, err := h.Full(ctx, missing); err != nil || k != "full-mock" {
		t.Errorf("Full() = (%s, %v), want full-mock", k, err)
	}

	onlyFull := New(Options{MockFull: "full-mock"})
	if _, err := onlyFull.Prefix(ctx, missing, 10); err == nil {
		t.Error("Prefix() should read the file when only the full mock is set")
	}
}

func TestMissingFileIsFileError(t *testing.T) {
	dir := testutil.TempDir(t, "hash-missing")
	path := filepath.Join(dir, "gone.txt")

	_, err := New(Options{}).Full(context.Background(), path)
	var fileErr *FileError
	if !errors.As(err, &fileErr) {
		t.Fatalf("expected *FileError, got %T: %v", err, err)
	}
	if fileErr.Path != path || fileErr.Op != "open" {
		t.Errorf("unexpected FileError %+v", fileErr)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("FileError should unwrap to os.ErrNotExist, got %v", err)
	}
}

func TestOnReadAndCancellation(t *testing.T) {
	dir := testutil.TempDir(t, "hash-progress")
	path := testutil.CreateTestFile(t, dir, "f.txt", string(bytes.Repeat([]byte("x"), 100)))

	var read atomic.Int64
	h := New(Options{BufferSize: 16, OnRead: func(n int64) { read.Add(n) }})
	if _, err := h.Full(context.Background(), path); err != nil {
		t.Fatalf("Full() unexpected error: %v", err)
	}
	if read.Load() != 100 {
		t.Errorf("OnRead reported %d bytes, want 100", read.Load())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := h.Full(ctx, path); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestBufferSizeUsesClusterSize(t *testing.T) {
	h := New(Options{
		BufferSize: 1024,
		ClusterSize: func(path string) (int64, bool) {
			if path == "big" {
				return 65536, true
			}
			return 0, false
		},
	})

	if got := h.BufferSize("small"); got != 1024 {
		t.Errorf("BufferSize(small) = %d, want 1024", got)
	}
	if got := h.BufferSize("small", "big"); got != 65536 {
		t.Errorf("BufferSize(small, big) = %d, want 65536", got)
	}
	if got := New(Options{}).BufferSize(); got != 8*1024*1024 {
		t.Errorf("default BufferSize = %d, want 8 MiB", got)
	}
}
