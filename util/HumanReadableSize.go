package util

import "github.com/dustin/go-humanize"

// HumanReadableSize formats a byte count with SI units, e.g. "4.1 kB"
func HumanReadableSize(size int64) string {
	if size < 0 {
		return "-" + humanize.Bytes(uint64(-size))
	}
	return humanize.Bytes(uint64(size))
}
