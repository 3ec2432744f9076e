package deduplication

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"sort"

	"github.com/substantialcattle5/findup/internal/hashing"
)

// Comparer decides whether two files have identical content
type Comparer interface {
	Equal(ctx context.Context, a, b CandidateFile) (bool, error)
}

// Comparison is the outcome of a byte-for-byte comparison
type Comparison struct {
	Identical bool
	// Offset is the absolute position of the first differing byte, or -1 when identical.
	Offset int64
}

// ByteComparer compares files byte for byte using synchronized bounded reads
type ByteComparer struct {
	bufferSize  func(paths ...string) int64
	progressMgr ProgressManager
}

// NewByteComparer creates a comparer whose read size for a pair of files is
// given by bufferSize
func NewByteComparer(bufferSize func(paths ...string) int64) *ByteComparer {
	return &ByteComparer{bufferSize: bufferSize}
}

// SetProgressManager sets the progress manager for verbose output
func (c *ByteComparer) SetProgressManager(pm ProgressManager) {
	c.progressMgr = pm
}

// Equal reports whether a and b are byte-identical
func (c *ByteComparer) Equal(ctx context.Context, a, b CandidateFile) (bool, error) {
	res, err := CompareFiles(ctx, a.Path, b.Path, c.bufferSize(a.Path, b.Path))
	if err != nil {
		return false, err
	}

	if c.progressMgr != nil {
		if res.Identical {
			c.progressMgr.PrintVerbose(1, "Binary comparing %s vs %s: identical\n", a.Path, b.Path)
		} else {
			c.progressMgr.PrintVerbose(1, "Binary comparing %s vs %s: difference found at offset %d\n", a.Path, b.Path, res.Offset)
		}
	}
	return res.Identical, nil
}

// CompareFiles reads both files in lockstep with bufSize reads. They are
// identical only if every read returns equal-length, equal bytes through
// end of file on both sides.
func CompareFiles(ctx context.Context, path1, path2 string, bufSize int64) (Comparison, error) {
	f1, err := os.Open(path1)
	if err != nil {
		return Comparison{}, &hashing.FileError{Op: "open", Path: path1, Err: err}
	}
	defer f1.Close()

	f2, err := os.Open(path2)
	if err != nil {
		return Comparison{}, &hashing.FileError{Op: "open", Path: path2, Err: err}
	}
	defer f2.Close()

	// No need for buffers larger than the first file; one extra byte still detects a longer second file.
	if info, err := f1.Stat(); err == nil && info.Size()+1 < bufSize {
		bufSize = info.Size() + 1
	}
	if bufSize < 1 {
		bufSize = 1
	}
	buf1 := make([]byte, bufSize)
	buf2 := make([]byte, bufSize)

	var offset int64
	for {
		if err := ctx.Err(); err != nil {
			return Comparison{}, err
		}

		n1, err := readChunk(f1, buf1)
		if err != nil {
			return Comparison{}, &hashing.FileError{Op: "read", Path: path1, Err: err}
		}
		n2, err := readChunk(f2, buf2)
		if err != nil {
			return Comparison{}, &hashing.FileError{Op: "read", Path: path2, Err: err}
		}

		if n1 == 0 && n2 == 0 {
			return Comparison{Identical: true, Offset: -1}, nil
		}
		if n1 != n2 || !bytes.Equal(buf1[:n1], buf2[:n2]) {
			return Comparison{Offset: offset + int64(firstDifference(buf1[:n1], buf2[:n2]))}, nil
		}
		offset += int64(n1)
	}
}

// readChunk fills buf as far as the file allows; end of file is not an error.
func readChunk(r io.Reader, buf []byte) (int, error) {
	n, err := io.ReadFull(r, buf)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return n, nil
	}
	return n, err
}

// firstDifference returns the index of the first differing byte, or the
// length of the shorter slice when one is a prefix of the other.
func firstDifference(a, b []byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// Cluster partitions files into sets of equal content. Files are visited in
// path order and each is compared against the first member of every set
// formed so far, joining the first match or starting a new set.
// Singleton sets are included in the result.
func Cluster(ctx context.Context, files []CandidateFile, cmp Comparer) ([][]CandidateFile, error) {
	sorted := sortedByPath(files)

	var clusters [][]CandidateFile
	for _, file := range sorted {
		placed := false
		for i := range clusters {
			equal, err := cmp.Equal(ctx, file, clusters[i][0])
			if err != nil {
				return nil, err
			}
			if equal {
				clusters[i] = append(clusters[i], file)
				placed = true
				break
			}
		}
		if !placed {
			clusters = append(clusters, []CandidateFile{file})
		}
	}
	return clusters, nil
}

func sortedByPath(files []CandidateFile) []CandidateFile {
	sorted := append([]CandidateFile(nil), files...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})
	return sorted
}
