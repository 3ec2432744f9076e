package deduplication

import (
	"sort"
	"sync"

	"github.com/substantialcattle5/findup/internal/constants"
)

// Accountant computes wasted space per group and keeps run-wide totals
type Accountant struct {
	roundUp func(path string, size int64) int64
	stats   Stats
	mutex   sync.Mutex
}

// NewAccountant creates an accountant that rounds each reclaimable file's
// size with roundUp. A nil roundUp counts raw sizes.
func NewAccountant(roundUp func(path string, size int64) int64) *Accountant {
	if roundUp == nil {
		roundUp = func(_ string, size int64) int64 { return size }
	}
	return &Accountant{roundUp: roundUp}
}

// Account sets group.Wasted and adds the group to the totals.
// The first (lexicographically smallest) path is the original and is never counted.
func (a *Accountant) Account(group *Group) int64 {
	var wasted int64
	for _, path := range group.Duplicates() {
		wasted += a.roundUp(path, group.Size)
	}
	group.Wasted = wasted

	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.stats.Groups++
	a.stats.Duplicates += len(group.Files) - 1
	a.stats.WastedBytes += wasted
	return wasted
}

// GetStats returns the totals accumulated so far
func (a *Accountant) GetStats() Stats {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.stats
}

// SortGroups orders groups for reporting. Ties, and unknown orderings,
// fall back to the original path, which is unique per group.
func SortGroups(groups []Group, by string) {
	sort.Slice(groups, func(i, j int) bool {
		gi, gj := groups[i], groups[j]
		switch by {
		case constants.SortByWasted:
			if gi.Wasted != gj.Wasted {
				return gi.Wasted > gj.Wasted
			}
		case constants.SortBySize:
			if gi.Size != gj.Size {
				return gi.Size > gj.Size
			}
		}
		return gi.Original() < gj.Original()
	})
}
