package deduplication

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/substantialcattle5/findup/internal/hashing"
	"github.com/substantialcattle5/findup/testutil"
)

func TestCompareFiles(t *testing.T) {
	dir := testutil.TempDir(t, "compare-files")
	a := testutil.CreateTestFile(t, dir, "a.txt", "0123456789abcdef")
	b := testutil.CreateTestFile(t, dir, "b.txt", "0123456789abcdef")
	c := testutil.CreateTestFile(t, dir, "c.txt", "0123456789abcdeX")
	d := testutil.CreateTestFile(t, dir, "d.txt", "0123456789abcdef-longer")
	empty1 := testutil.CreateTestFile(t, dir, "e1", "")
	empty2 := testutil.CreateTestFile(t, dir, "e2", "")

	tests := []struct {
		name       string
		path1      string
		path2      string
		bufSize    int64
		identical  bool
		wantOffset int64
	}{
		{"identical single read", a, b, 1024, true, -1},
		{"identical multiple reads", a, b, 3, true, -1},
		{"last byte differs", a, c, 4, false, 15},
		{"last byte differs one read", a, c, 1024, false, 15},
		{"second file longer", a, d, 5, false, 16},
		{"first file longer", d, a, 5, false, 16},
		{"both empty", empty1, empty2, 8, true, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := CompareFiles(context.Background(), tt.path1, tt.path2, tt.bufSize)
			if err != nil {
				t.Fatalf("CompareFiles() unexpected error: %v", err)
			}
			if res.Identical != tt.identical || res.Offset != tt.wantOffset {
				t.Errorf("CompareFiles() = %+v, want identical=%t offset=%d", res, tt.identical, tt.wantOffset)
			}
		})
	}
}

func TestCompareFilesMissing(t *testing.T) {
	dir := testutil.TempDir(t, "compare-missing")
	a := testutil.CreateTestFile(t, dir, "a.txt", "content")
	missing := filepath.Join(dir, "missing.txt")

	_, err := CompareFiles(context.Background(), a, missing, 16)
	var fileErr *hashing.FileError
	if !errors.As(err, &fileErr) {
		t.Fatalf("expected *hashing.FileError, got %v", err)
	}
	if fileErr.Path != missing {
		t.Errorf("error names %s, want %s", fileErr.Path, missing)
	}
}

// contentComparer compares by an in-memory content table.
type contentComparer struct {
	contents map[string]string
	pairs    [][2]string
}

func (c *contentComparer) Equal(_ context.Context, a, b CandidateFile) (bool, error) {
	c.pairs = append(c.pairs, [2]string{a.Path, b.Path})
	return c.contents[a.Path] == c.contents[b.Path], nil
}

func TestCluster(t *testing.T) {
	cmp := &contentComparer{contents: map[string]string{
		"d": "X", "a": "X", "c": "Y", "b": "Y", "e": "Z",
	}}
	files := []CandidateFile{{"d", 1}, {"c", 1}, {"e", 1}, {"a", 1}, {"b", 1}}

	clusters, err := Cluster(context.Background(), files, cmp)
	if err != nil {
		t.Fatalf("Cluster() unexpected error: %v", err)
	}

	want := [][]string{{"a", "d"}, {"b", "c"}, {"e"}}
	if len(clusters) != len(want) {
		t.Fatalf("expected %d clusters, got %d: %+v", len(want), len(clusters), clusters)
	}
	for i, cluster := range clusters {
		if len(cluster) != len(want[i]) {
			t.Fatalf("cluster %d: got %+v, want %v", i, cluster, want[i])
		}
		for j, f := range cluster {
			if f.Path != want[i][j] {
				t.Errorf("cluster %d position %d: got %s, want %s", i, j, f.Path, want[i][j])
			}
		}
	}

	// Every comparison is against a cluster's first member.
	for _, pair := range cmp.pairs {
		if pair[1] != "a" && pair[1] != "b" && pair[1] != "e" {
			t.Errorf("compared %s against non-representative %s", pair[0], pair[1])
		}
	}
}

func TestByteComparerEqual(t *testing.T) {
	dir := testutil.TempDir(t, "byte-comparer")
	a := testutil.CreateTestFile(t, dir, "a", "same")
	b := testutil.CreateTestFile(t, dir, "b", "same")
	c := testutil.CreateTestFile(t, dir, "c", "diff")

	cmp := NewByteComparer(func(...string) int64 { return 2 })
	ctx := context.Background()

	if eq, err := cmp.Equal(ctx, CandidateFile{a, 4}, CandidateFile{b, 4}); err != nil || !eq {
		t.Errorf("Equal(a, b) = (%t, %v), want true", eq, err)
	}
	if eq, err := cmp.Equal(ctx, CandidateFile{a, 4}, CandidateFile{c, 4}); err != nil || eq {
		t.Errorf("Equal(a, c) = (%t, %v), want false", eq, err)
	}
}

func TestCompareFilesLarge(t *testing.T) {
	testutil.SkipIfShort(t, "writes several megabytes")

	dir := testutil.TempDir(t, "compare-large")
	pattern := []byte("findup-large-file-pattern:")
	const size = 3*1024*1024 + 17
	a := testutil.CreatePatternFile(t, dir, "a.bin", pattern, size, -1)
	b := testutil.CreatePatternFile(t, dir, "b.bin", pattern, size, -1)
	c := testutil.CreatePatternFile(t, dir, "c.bin", pattern, size, 2_500_001)
	d := testutil.CreatePatternFile(t, dir, "d.bin", pattern, size, size-1)

	tests := []struct {
		name       string
		path1      string
		path2      string
		identical  bool
		wantOffset int64
	}{
		{"identical", a, b, true, -1},
		{"differs in the middle", a, c, false, 2_500_001},
		{"differs at the last byte", b, d, false, size - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := CompareFiles(context.Background(), tt.path1, tt.path2, 64*1024)
			if err != nil {
				t.Fatalf("CompareFiles() unexpected error: %v", err)
			}
			if res.Identical != tt.identical || res.Offset != tt.wantOffset {
				t.Errorf("CompareFiles() = %+v, want identical=%t offset=%d", res, tt.identical, tt.wantOffset)
			}
		})
	}
}
