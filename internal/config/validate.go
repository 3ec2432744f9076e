package config

import (
	"fmt"

	"github.com/substantialcattle5/findup/internal/constants"
	"github.com/substantialcattle5/findup/util"
)

// Validate returns warnings for settings that are accepted but probably not intended.
// Scanning proceeds regardless; an error is returned only for settings that cannot be used.
func (c *Config) Validate() ([]string, error) {
	var warnings []string

	if c.MinFileSize <= 0 {
		warnings = append(warnings, fmt.Sprintf("min file size %d does not make much sense, empty files will be grouped as duplicates", c.MinFileSize))
	}
	if c.PrefixSize <= 0 {
		warnings = append(warnings, "prefix size is not positive, every file will be hashed in full")
	}
	if c.ExecHashArg && c.Exec == "" {
		warnings = append(warnings, "exec hash argument has no effect without an exec command")
	}
	if c.Workers < 1 {
		warnings = append(warnings, fmt.Sprintf("workers %d is below 1, using 1", c.Workers))
		c.Workers = 1
	}

	switch c.Sort {
	case constants.SortByWasted, constants.SortByPath, constants.SortBySize:
	default:
		return warnings, fmt.Errorf("invalid sort order %q (want %s, %s or %s)",
			c.Sort, constants.SortByWasted, constants.SortByPath, constants.SortBySize)
	}

	if _, err := c.BufferBytes(); err != nil {
		return warnings, err
	}

	return warnings, nil
}

// BufferBytes parses BufferSize. An empty value means the default.
func (c *Config) BufferBytes() (int64, error) {
	if c.BufferSize == "" {
		return constants.HashBufferSize, nil
	}
	size, err := util.ParseSize(c.BufferSize)
	if err != nil {
		return 0, fmt.Errorf("invalid buffer size: %w", err)
	}
	if size <= 0 {
		return 0, fmt.Errorf("buffer size must be positive, got %q", c.BufferSize)
	}
	return size, nil
}
