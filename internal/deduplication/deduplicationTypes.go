package deduplication

import (
	"context"

	"github.com/substantialcattle5/findup/internal/hashing"
)

// CandidateFile is a discovered regular file eligible for duplicate analysis
type CandidateFile struct {
	Path string
	Size int64
}

// Bucket holds candidate files sharing one byte length, in insertion order
type Bucket struct {
	Size  int64
	Files []CandidateFile
}

// HashGroup holds files of one size whose hashed byte range produced the same Key
type HashGroup struct {
	Key   hashing.Key
	Size  int64
	Files []CandidateFile
}

// Group is a final set of duplicate files, sorted by path.
// The first path is the retained original; the rest are reclaimable.
type Group struct {
	Key    hashing.Key `json:"key" yaml:"key"`
	Size   int64       `json:"size" yaml:"size"`
	Files  []string    `json:"files" yaml:"files"`
	Wasted int64       `json:"wasted" yaml:"wasted"`
}

// Original returns the path kept when the group is deduplicated
func (g Group) Original() string {
	return g.Files[0]
}

// Duplicates returns the reclaimable paths of the group
func (g Group) Duplicates() []string {
	return g.Files[1:]
}

// Stats contains run-wide totals about the duplicates found
type Stats struct {
	Groups      int   `json:"groups"`
	Duplicates  int   `json:"duplicates"`
	WastedBytes int64 `json:"wasted_bytes"`
}

// Result is the outcome of a Finder run
type Result struct {
	Groups []Group
	Stats  Stats
}

// ProgressManager is an interface for verbosity-gated diagnostics
type ProgressManager interface {
	PrintVerbose(level int, format string, args ...interface{})
}

// ClusterSizeResolver reports the allocation unit size of the filesystem holding root
type ClusterSizeResolver interface {
	Resolve(root string) (int64, error)
}

// ContentHasher digests a prefix or the whole of a file
type ContentHasher interface {
	Prefix(ctx context.Context, path string, n int64) (hashing.Key, error)
	Full(ctx context.Context, path string) (hashing.Key, error)
}
