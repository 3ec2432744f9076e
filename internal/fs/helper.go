package fs

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/substantialcattle5/findup/internal/constants"
)

// EnsureDirectory ensures a directory exists, creating it if necessary
func EnsureDirectory(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, constants.StandardDirPerms)
	} else if err != nil {
		return err
	}
	return nil
}

// VerifyFileAndReturnFileInfo checks that filePath names an existing regular file
func VerifyFileAndReturnFileInfo(filePath string) (os.FileInfo, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file does not exist: %s", filePath)
		}
		return nil, fmt.Errorf("error accessing file: %v", err)
	}

	if !fileInfo.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", filePath)
	}
	return fileInfo, nil
}

// ReadPathList reads one root path per line. Surrounding whitespace is trimmed
// and blank lines are ignored.
func ReadPathList(r io.Reader) ([]string, error) {
	var paths []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		paths = append(paths, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading path list: %w", err)
	}

	return paths, nil
}

// OpenPathList opens a path list file. "-" means standard input.
func OpenPathList(name string) (io.ReadCloser, error) {
	if name == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	file, err := os.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("path list not found at %s", name)
		}
		return nil, fmt.Errorf("error opening path list: %w", err)
	}
	return file, nil
}
