//go:build windows

package clustersize

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var procGetDiskFreeSpaceW = windows.NewLazySystemDLL("kernel32.dll").NewProc("GetDiskFreeSpaceW")

func fsClusterSize(path string) (int64, error) {
	root, err := windows.UTF16PtrFromString(volumeRoot(path))
	if err != nil {
		return 0, err
	}

	var sectorsPerCluster, bytesPerSector, freeClusters, totalClusters uint32
	r1, _, callErr := procGetDiskFreeSpaceW.Call(
		uintptr(unsafe.Pointer(root)),
		uintptr(unsafe.Pointer(&sectorsPerCluster)),
		uintptr(unsafe.Pointer(&bytesPerSector)),
		uintptr(unsafe.Pointer(&freeClusters)),
		uintptr(unsafe.Pointer(&totalClusters)),
	)
	if r1 == 0 {
		return 0, fmt.Errorf("GetDiskFreeSpaceW %s: %w", path, callErr)
	}
	return int64(sectorsPerCluster) * int64(bytesPerSector), nil
}

// volumeRoot returns the path of the volume containing path, with a trailing separator.
func volumeRoot(path string) string {
	var buf [windows.MAX_PATH + 1]uint16
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return path
	}
	if err := windows.GetVolumePathName(p, &buf[0], uint32(len(buf))); err != nil {
		return path
	}
	return windows.UTF16ToString(buf[:])
}
