package clustersize

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Table maps scanned roots to their cluster size. Absent roots mean "unknown".
type Table struct {
	mutex sync.RWMutex
	sizes map[string]int64
}

// NewTable creates an empty cluster size table
func NewTable() *Table {
	return &Table{sizes: make(map[string]int64)}
}

// Set records the cluster size for a root
func (t *Table) Set(root string, size int64) {
	if size <= 0 {
		return
	}
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.sizes[root] = size
}

// Len returns the number of roots with a known cluster size
func (t *Table) Len() int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return len(t.sizes)
}

// Lookup returns the cluster size of the longest recorded root that is a
// path prefix of path. ok is false when no root matches.
func (t *Table) Lookup(path string) (size int64, ok bool) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	best := -1
	for root, s := range t.sizes {
		if len(root) > best && hasPathPrefix(path, root) {
			best = len(root)
			size = s
		}
	}
	return size, best >= 0
}

// RoundUp rounds size up to the cluster size recorded for path.
func (t *Table) RoundUp(path string, size int64) int64 {
	cluster, ok := t.Lookup(path)
	if !ok {
		return size
	}
	return RoundUp(size, cluster)
}

// RoundUp returns size rounded up to a multiple of cluster.
// A non-positive cluster means unknown and size is returned unchanged.
func RoundUp(size, cluster int64) int64 {
	if cluster <= 0 || size <= 0 {
		return size
	}
	return (size + cluster - 1) / cluster * cluster
}

func hasPathPrefix(path, root string) bool {
	root = filepath.Clean(root)
	if root == "." {
		return !filepath.IsAbs(path)
	}
	path = filepath.Clean(path)
	if !strings.HasPrefix(path, root) {
		return false
	}
	if len(path) == len(root) || strings.HasSuffix(root, string(os.PathSeparator)) {
		return true
	}
	return os.IsPathSeparator(path[len(root)])
}
