package constants

// Program identity
const (
	ProgName    = "findup"
	ProgVersion = "1.0"
)

// Scan defaults
const (
	// HashBufferSize is the minimum read buffer used for hashing and byte comparison.
	// Digests do not depend on it; it only bounds memory per worker.
	HashBufferSize = 8 * 1024 * 1024

	// DefaultBufferSize is HashBufferSize as written in config files.
	DefaultBufferSize = "8MiB"

	DefaultMinFileSize = 4
	DefaultPrefixSize  = 1024
)

// ConfigFileName is the file looked up under the user config directory
const ConfigFileName = "config.yaml"

// Group ordering
const (
	SortByWasted = "wasted"
	SortByPath   = "path"
	SortBySize   = "size"
)

// File permissions
const (
	StandardDirPerms  = 0o755 // Standard directory permissions
	StandardFilePerms = 0o644 // Standard file permissions
)
