// Package hashing computes the composite content digest used to group
// candidate duplicates.
//
// A Key combines CRC-32 (IEEE) and MurmurHash3 x86_32 over the same byte
// range. Both accumulators are truly incremental, so a Key depends only on
// the bytes hashed and never on the read buffer size.
package hashing

import (
	"context"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"github.com/spaolacci/murmur3"

	"github.com/substantialcattle5/findup/internal/constants"
)

// Key is the composite digest of a byte range: "<crc32>_<murmur3>".
type Key string

// Options configures a Hasher
type Options struct {
	// BufferSize is the minimum read chunk. Zero means constants.HashBufferSize.
	BufferSize int64
	// ClusterSize optionally reports the cluster size for a path; chunks are
	// never smaller than it.
	ClusterSize func(path string) (int64, bool)
	// MockPrefix, when set, is returned for every prefix call without reading.
	MockPrefix Key
	// MockFull, when set, is returned for every whole-file call without reading.
	MockFull Key
	// OnRead is called with the number of bytes consumed after each chunk.
	OnRead func(n int64)
}

// Hasher computes Keys over file contents. It is safe for concurrent use.
type Hasher struct {
	opts Options
}

// FileError identifies the file and operation behind an I/O failure
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// New creates a Hasher
func New(opts Options) *Hasher {
	if opts.BufferSize <= 0 {
		opts.BufferSize = constants.HashBufferSize
	}
	return &Hasher{opts: opts}
}

// BufferSize returns the read chunk size to use for the given files:
// the configured minimum or the largest known cluster size, whichever is bigger.
func (h *Hasher) BufferSize(paths ...string) int64 {
	size := h.opts.BufferSize
	if h.opts.ClusterSize == nil {
		return size
	}
	for _, p := range paths {
		if c, ok := h.opts.ClusterSize(p); ok && c > size {
			size = c
		}
	}
	return size
}

// Prefix hashes the first min(n, file size) bytes of path.
// A non-positive n hashes zero bytes.
func (h *Hasher) Prefix(ctx context.Context, path string, n int64) (Key, error) {
	if h.opts.MockPrefix != "" {
		return h.opts.MockPrefix, nil
	}
	if n < 0 {
		n = 0
	}
	return h.hash(ctx, path, n)
}

// Full hashes the entire contents of path.
func (h *Hasher) Full(ctx context.Context, path string) (Key, error) {
	if h.opts.MockFull != "" {
		return h.opts.MockFull, nil
	}
	return h.hash(ctx, path, -1)
}

// hash reads up to limit bytes (all when limit < 0) and returns their Key.
func (h *Hasher) hash(ctx context.Context, path string, limit int64) (Key, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &FileError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	if limit < 0 {
		info, err := f.Stat()
		if err != nil {
			return "", &FileError{Op: "stat", Path: path, Err: err}
		}
		limit = info.Size()
	}

	bufSize := h.BufferSize(path)
	if limit < bufSize {
		bufSize = limit
	}

	var crc uint32
	mmh := murmur3.New32WithSeed(0)

	if bufSize > 0 {
		// Bytes appended after the size was read are not hashed.
		r := io.LimitReader(f, limit)
		buf := make([]byte, bufSize)
		for {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			n, err := io.ReadFull(r, buf)
			if n > 0 {
				crc = crc32.Update(crc, crc32.IEEETable, buf[:n])
				// hash.Hash writes never fail
				_, _ = mmh.Write(buf[:n])
				if h.opts.OnRead != nil {
					h.opts.OnRead(int64(n))
				}
			}
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			if err != nil {
				return "", &FileError{Op: "read", Path: path, Err: err}
			}
		}
	}

	return Sum(crc, mmh.Sum32()), nil
}

// Sum formats the two accumulator values as a Key. The murmur value is
// rendered signed to stay compatible with digests produced by earlier tools.
func Sum(crc, murmur uint32) Key {
	return Key(fmt.Sprintf("%d_%d", crc, int32(murmur)))
}

// SumBytes returns the Key of an in-memory byte slice
func SumBytes(data []byte) Key {
	return Sum(crc32.ChecksumIEEE(data), murmur3.Sum32WithSeed(data, 0))
}
