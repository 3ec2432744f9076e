package util

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// ParseSize parses a byte count such as "1024", "4 kB" or "8MiB"
func ParseSize(size string) (int64, error) {
	n, err := humanize.ParseBytes(size)
	if err != nil {
		return 0, fmt.Errorf("invalid size format: %s", size)
	}
	if n > math.MaxInt64 {
		return 0, fmt.Errorf("size too large: %s", size)
	}
	return int64(n), nil
}
