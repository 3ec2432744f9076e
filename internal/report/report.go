// Package report renders duplicate groups and run totals.
package report

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/substantialcattle5/findup/internal/deduplication"
	"github.com/substantialcattle5/findup/util"
)

// Output is where reports are written. Normal lines are suppressed in quiet
// mode; summaries also honor the no-summary setting.
type Output interface {
	PrintInfo(format string, args ...interface{})
	PrintSummary(format string, args ...interface{})
}

var (
	heading = color.New(color.Bold)
	total   = color.New(color.FgGreen, color.Bold)
)

// Reporter prints duplicate groups as they are handed to it
type Reporter struct {
	out Output
}

// NewReporter creates a Reporter
func NewReporter(out Output) *Reporter {
	return &Reporter{out: out}
}

// Group prints one duplicate group
func (r *Reporter) Group(group *deduplication.Group) {
	r.out.PrintInfo("%s\n", FormatGroup(group))
}

// Summary prints the run totals
func (r *Reporter) Summary(stats deduplication.Stats) {
	r.out.PrintSummary("%s\n", FormatSummary(stats))
}

// FormatGroup renders a group heading followed by its paths, original first
func FormatGroup(group *deduplication.Group) string {
	var b strings.Builder
	b.WriteString(heading.Sprintf("Duplicates (wasted %s):", util.HumanReadableSize(group.Wasted)))
	for _, path := range group.Files {
		b.WriteString("\n    ")
		b.WriteString(path)
	}
	return b.String()
}

// FormatSummary renders the total line
func FormatSummary(stats deduplication.Stats) string {
	return total.Sprint(fmt.Sprintf("Total wasted disk space in %d files: %s",
		stats.Duplicates, util.HumanReadableSize(stats.WastedBytes)))
}
