// Package clustersize resolves filesystem allocation unit sizes and rounds
// file sizes up to them for wasted space accounting.
package clustersize

import (
	"errors"
	"sync"
)

// ErrUnavailable is returned when the platform cannot report a cluster size.
var ErrUnavailable = errors.New("cluster size unavailable")

// Resolver looks up the allocation unit size of the filesystem a root lives on.
// Results, including failures, are cached per root for the lifetime of the Resolver.
type Resolver struct {
	stat  func(path string) (int64, error)
	mutex sync.Mutex
	cache map[string]result
}

type result struct {
	size int64
	err  error
}

// NewResolver creates a resolver backed by the native filesystem statistics call
func NewResolver() *Resolver {
	return newResolver(fsClusterSize)
}

func newResolver(stat func(string) (int64, error)) *Resolver {
	return &Resolver{
		stat:  stat,
		cache: make(map[string]result),
	}
}

// Resolve returns the cluster size for root in bytes
func (r *Resolver) Resolve(root string) (int64, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if res, ok := r.cache[root]; ok {
		return res.size, res.err
	}

	size, err := r.stat(root)
	if err == nil && size <= 0 {
		err = ErrUnavailable
	}
	if err != nil {
		size = 0
	}
	r.cache[root] = result{size: size, err: err}
	return size, err
}
