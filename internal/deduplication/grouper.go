package deduplication

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/substantialcattle5/findup/internal/hashing"
)

// Grouper refines size buckets into hash groups in two stages: a hash of a
// bounded prefix, then a hash of the whole file for prefix groups that survive.
type Grouper struct {
	hasher      ContentHasher
	prefixSize  int64
	workers     int
	progressMgr ProgressManager
}

// NewGrouper creates a staged grouper hashing with up to workers files at once
func NewGrouper(hasher ContentHasher, prefixSize int64, workers int) *Grouper {
	if workers < 1 {
		workers = 1
	}
	return &Grouper{
		hasher:     hasher,
		prefixSize: prefixSize,
		workers:    workers,
	}
}

// SetProgressManager sets the progress manager for verbose output
func (g *Grouper) SetProgressManager(pm ProgressManager) {
	g.progressMgr = pm
}

// Group runs both stages and returns the full-file hash groups of two or more files.
func (g *Grouper) Group(ctx context.Context, buckets []Bucket) ([]HashGroup, error) {
	prefixGroups, err := g.PrefixStage(ctx, buckets)
	if err != nil {
		return nil, err
	}
	return g.FullStage(ctx, prefixGroups)
}

// PrefixStage hashes the first min(size, prefix size) bytes of every file and
// groups each bucket by that key, discarding singletons.
func (g *Grouper) PrefixStage(ctx context.Context, buckets []Bucket) ([]HashGroup, error) {
	var files []CandidateFile
	for _, b := range buckets {
		files = append(files, b.Files...)
	}

	keys, err := g.hashAll(ctx, files, func(ctx context.Context, file CandidateFile) (hashing.Key, error) {
		n := min(file.Size, g.prefixSize)
		key, err := g.hasher.Prefix(ctx, file.Path, n)
		if err == nil {
			g.verbose(3, "Calculating hash for first %d bytes of %s: %s\n", n, file.Path, key)
		}
		return key, err
	})
	if err != nil {
		return nil, err
	}

	var groups []HashGroup
	offset := 0
	for _, b := range buckets {
		n := len(b.Files)
		groups = append(groups, groupByKey(b.Size, b.Files, keys[offset:offset+n])...)
		offset += n
	}
	return groups, nil
}

// FullStage rehashes every member of each prefix group over the whole file
// and regroups within that prefix group, so each result is a subset of its input.
func (g *Grouper) FullStage(ctx context.Context, prefixGroups []HashGroup) ([]HashGroup, error) {
	var files []CandidateFile
	for _, pg := range prefixGroups {
		files = append(files, pg.Files...)
	}

	keys, err := g.hashAll(ctx, files, func(ctx context.Context, file CandidateFile) (hashing.Key, error) {
		key, err := g.hasher.Full(ctx, file.Path)
		if err == nil {
			g.verbose(3, "Calculating hash for %s: %s\n", file.Path, key)
		}
		return key, err
	})
	if err != nil {
		return nil, err
	}

	var groups []HashGroup
	offset := 0
	for _, pg := range prefixGroups {
		n := len(pg.Files)
		groups = append(groups, groupByKey(pg.Size, pg.Files, keys[offset:offset+n])...)
		offset += n
	}
	return groups, nil
}

// hashAll computes one key per file on the worker pool. Keys land in their
// own slot, so no locking is needed; the first error cancels the rest.
func (g *Grouper) hashAll(ctx context.Context, files []CandidateFile, hash func(context.Context, CandidateFile) (hashing.Key, error)) ([]hashing.Key, error) {
	keys := make([]hashing.Key, len(files))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for i, file := range files {
		eg.Go(func() error {
			key, err := hash(ctx, file)
			if err != nil {
				return err
			}
			keys[i] = key
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return keys, nil
}

func (g *Grouper) verbose(level int, format string, args ...interface{}) {
	if g.progressMgr != nil {
		g.progressMgr.PrintVerbose(level, format, args...)
	}
}

// groupByKey partitions files by their key, dropping keys held by a single file.
// Groups come out in order of first appearance.
func groupByKey(size int64, files []CandidateFile, keys []hashing.Key) []HashGroup {
	byKey := make(map[hashing.Key][]CandidateFile, len(files))
	var order []hashing.Key
	for i, file := range files {
		if _, ok := byKey[keys[i]]; !ok {
			order = append(order, keys[i])
		}
		byKey[keys[i]] = append(byKey[keys[i]], file)
	}

	var groups []HashGroup
	for _, key := range order {
		if len(byKey[key]) < 2 {
			continue
		}
		groups = append(groups, HashGroup{Key: key, Size: size, Files: byKey[key]})
	}
	return groups
}
