// Package deduplication finds groups of byte-identical files.
//
// Candidates flow through progressively more expensive filters: equal size,
// equal prefix hash, equal whole-file hash and, optionally, byte-for-byte
// comparison. Wasted space is the size of every non-original member rounded
// up to its filesystem's cluster size.
package deduplication

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/substantialcattle5/findup/internal/clustersize"
	"github.com/substantialcattle5/findup/internal/constants"
	"github.com/substantialcattle5/findup/internal/hashing"
	"github.com/substantialcattle5/findup/util"
)

// Options configures a Finder
type Options struct {
	MinFileSize int64
	PrefixSize  int64
	// Paranoid enables byte-for-byte verification of hash-identical files.
	Paranoid bool
	// Workers bounds concurrent hashing and comparison. Zero means GOMAXPROCS.
	Workers int
	SortBy  string
	// Hash configures the content hasher. ClusterSize is filled in by the Finder.
	Hash hashing.Options
	// Resolver looks up cluster sizes of roots. Nil means the native lookup.
	Resolver ClusterSizeResolver
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		MinFileSize: constants.DefaultMinFileSize,
		PrefixSize:  constants.DefaultPrefixSize,
		Workers:     runtime.GOMAXPROCS(0),
		SortBy:      constants.SortByWasted,
		Hash:        hashing.Options{BufferSize: constants.HashBufferSize},
	}
}

// Finder owns the state of one duplicate search: the size index and the
// cluster size table. Totals are computed per Run.
type Finder struct {
	opts        Options
	index       *SizeIndex
	clusters    *clustersize.Table
	resolver    ClusterSizeResolver
	hasher      *hashing.Hasher
	grouper     *Grouper
	comparer    Comparer
	progressMgr ProgressManager
}

// NewFinder creates a Finder
func NewFinder(opts Options) *Finder {
	if opts.Workers < 1 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.SortBy == "" {
		opts.SortBy = constants.SortByWasted
	}

	clusters := clustersize.NewTable()
	resolver := opts.Resolver
	if resolver == nil {
		resolver = clustersize.NewResolver()
	}

	hashOpts := opts.Hash
	hashOpts.ClusterSize = clusters.Lookup
	hasher := hashing.New(hashOpts)

	return &Finder{
		opts:       opts,
		index:      NewSizeIndex(),
		clusters:   clusters,
		resolver:   resolver,
		hasher:     hasher,
		grouper:    NewGrouper(hasher, opts.PrefixSize, opts.Workers),
		comparer:   NewByteComparer(hasher.BufferSize),
	}
}

// SetProgressManager sets the progress manager for verbose output
func (f *Finder) SetProgressManager(pm ProgressManager) {
	f.progressMgr = pm
	f.grouper.SetProgressManager(pm)
	if bc, ok := f.comparer.(*ByteComparer); ok {
		bc.SetProgressManager(pm)
	}
}

// SetComparer replaces the byte-for-byte comparer used in paranoid mode
func (f *Finder) SetComparer(cmp Comparer) {
	f.comparer = cmp
}

// Clusters returns the cluster size table of this run
func (f *Finder) Clusters() *clustersize.Table {
	return f.clusters
}

// AddRoot records the cluster size of a root before it is scanned.
// Lookup failures only disable rounding for files under that root.
func (f *Finder) AddRoot(root string) {
	size, err := f.resolver.Resolve(root)
	if err != nil {
		f.verbose(3, "Error obtaining cluster size for %s: %v\n", root, err)
		return
	}
	f.clusters.Set(root, size)
	f.verbose(2, "Cluster size: %s\n", util.HumanReadableSize(size))
}

// AddFile indexes a discovered file. Files below the minimum size and paths
// already indexed are skipped.
func (f *Finder) AddFile(file CandidateFile) bool {
	if file.Size < f.opts.MinFileSize {
		f.verbose(2, "    SKIPPED: %s: %d bytes (too small)\n", file.Path, file.Size)
		return false
	}
	if !f.index.Add(file) {
		return false
	}
	f.verbose(2, "    %s: %d bytes\n", file.Path, file.Size)
	return true
}

// Run searches the indexed files for duplicates. Any read failure aborts the
// run; no partial result is returned.
func (f *Finder) Run(ctx context.Context) (*Result, error) {
	f.verbose(1, "Finding duplicates...\n")

	hashGroups, err := f.grouper.Group(ctx, f.index.Buckets())
	if err != nil {
		return nil, fmt.Errorf("failed to group files by hash: %w", err)
	}

	sets, err := f.contentSets(ctx, hashGroups)
	if err != nil {
		return nil, fmt.Errorf("failed to compare files: %w", err)
	}

	accountant := NewAccountant(f.clusters.RoundUp)
	groups := make([]Group, 0, len(sets))
	for _, set := range sets {
		group := Group{Key: set.Key, Size: set.Size, Files: make([]string, len(set.Files))}
		for i, file := range set.Files {
			group.Files[i] = file.Path
		}
		accountant.Account(&group)
		groups = append(groups, group)
	}
	SortGroups(groups, f.opts.SortBy)

	return &Result{Groups: groups, Stats: accountant.GetStats()}, nil
}

// contentSets turns full-hash groups into final sets sorted by path. In
// paranoid mode each group is split by byte comparison; groups are compared
// concurrently, members of one group sequentially.
func (f *Finder) contentSets(ctx context.Context, hashGroups []HashGroup) ([]HashGroup, error) {
	if !f.opts.Paranoid {
		sets := make([]HashGroup, 0, len(hashGroups))
		for _, hg := range hashGroups {
			f.verbose(2, "Processing identical hash group: %d files of %d bytes\n", len(hg.Files), hg.Size)
			sets = append(sets, HashGroup{Key: hg.Key, Size: hg.Size, Files: sortedByPath(hg.Files)})
		}
		return sets, nil
	}

	clustered := make([][][]CandidateFile, len(hashGroups))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(f.opts.Workers)
	for i, hg := range hashGroups {
		eg.Go(func() error {
			clusters, err := Cluster(egCtx, hg.Files, f.comparer)
			if err != nil {
				return err
			}
			clustered[i] = clusters
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var sets []HashGroup
	for i, hg := range hashGroups {
		for _, cluster := range clustered[i] {
			if len(cluster) < 2 {
				continue
			}
			sets = append(sets, HashGroup{Key: hg.Key, Size: hg.Size, Files: cluster})
		}
	}
	return sets, nil
}

func (f *Finder) verbose(level int, format string, args ...interface{}) {
	if f.progressMgr != nil {
		f.progressMgr.PrintVerbose(level, format, args...)
	}
}
