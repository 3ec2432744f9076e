package deduplication

import (
	"sort"
	"sync"
)

// SizeIndex partitions candidate files by byte length.
// A path is indexed at most once no matter how many roots reach it.
type SizeIndex struct {
	buckets map[int64][]CandidateFile
	seen    map[string]struct{}
	mutex   sync.RWMutex
}

// NewSizeIndex creates an empty size index
func NewSizeIndex() *SizeIndex {
	return &SizeIndex{
		buckets: make(map[int64][]CandidateFile),
		seen:    make(map[string]struct{}),
	}
}

// Add indexes a file. It returns false if the path was already indexed.
func (idx *SizeIndex) Add(file CandidateFile) bool {
	idx.mutex.Lock()
	defer idx.mutex.Unlock()

	if _, exists := idx.seen[file.Path]; exists {
		return false
	}
	idx.seen[file.Path] = struct{}{}
	idx.buckets[file.Size] = append(idx.buckets[file.Size], file)
	return true
}

// Len returns the number of indexed files
func (idx *SizeIndex) Len() int {
	idx.mutex.RLock()
	defer idx.mutex.RUnlock()
	return len(idx.seen)
}

// Buckets returns every size bucket with at least two files, smallest size first.
// Files keep their insertion order.
func (idx *SizeIndex) Buckets() []Bucket {
	idx.mutex.RLock()
	defer idx.mutex.RUnlock()

	var buckets []Bucket
	for size, files := range idx.buckets {
		if len(files) < 2 {
			continue
		}
		buckets = append(buckets, Bucket{
			Size:  size,
			Files: append([]CandidateFile(nil), files...),
		})
	}

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Size < buckets[j].Size
	})
	return buckets
}
