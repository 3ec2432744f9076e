//go:build linux || darwin || freebsd

package clustersize

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func fsClusterSize(path string) (int64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, fmt.Errorf("statfs %s: %w", path, err)
	}
	return int64(st.Bsize), nil
}
