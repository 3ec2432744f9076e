//go:build !linux && !darwin && !freebsd && !windows

package clustersize

func fsClusterSize(string) (int64, error) {
	return 0, ErrUnavailable
}
