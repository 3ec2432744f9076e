package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/karrick/godirwalk"
)

// FileFunc receives every regular file found under a root
type FileFunc func(path string, size int64) error

// ErrorFunc receives entries that could not be read. The walk continues past them.
type ErrorFunc func(path string, err error)

// stopError carries an error from FileFunc through godirwalk's error callback
type stopError struct {
	err error
}

func (e stopError) Error() string { return e.err.Error() }

// Walk visits every regular file under root in lexical order.
//
// Symbolic links below the root are neither followed nor reported. A root that
// is itself a link is walked through the link and paths keep the link name.
// A root that does not exist yields nothing; a root naming a regular file
// yields that file. An error returned by fn stops the walk and is returned
// unchanged.
func Walk(root string, fn FileFunc, onError ErrorFunc) error {
	info, err := os.Lstat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("error accessing %s: %w", root, err)
	}

	walkRoot := root
	if info.Mode()&os.ModeSymlink != 0 {
		target, err := filepath.EvalSymlinks(root)
		if err != nil {
			// Dangling link
			if os.IsNotExist(err) {
				return nil
			}
			return fmt.Errorf("error resolving %s: %w", root, err)
		}
		if info, err = os.Stat(target); err != nil {
			return fmt.Errorf("error accessing %s: %w", target, err)
		}
		if !info.IsDir() {
			if info.Mode().IsRegular() {
				return fn(root, info.Size())
			}
			return nil
		}
		walkRoot = target
	}

	if info.Mode().IsRegular() {
		return fn(root, info.Size())
	}
	if !info.IsDir() {
		return nil
	}

	err = godirwalk.Walk(walkRoot, &godirwalk.Options{
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if !de.IsRegular() {
				return nil
			}
			fi, err := os.Lstat(osPathname)
			if err != nil {
				if onError != nil {
					onError(osPathname, err)
				}
				return nil
			}
			path := osPathname
			if walkRoot != root {
				path = filepath.Join(root, strings.TrimPrefix(osPathname, walkRoot))
			}
			if err := fn(path, fi.Size()); err != nil {
				return stopError{err: err}
			}
			return nil
		},
		ErrorCallback: func(osPathname string, err error) godirwalk.ErrorAction {
			var stop stopError
			if errors.As(err, &stop) {
				return godirwalk.Halt
			}
			if onError != nil {
				onError(osPathname, err)
			}
			return godirwalk.SkipNode
		},
	})

	var stop stopError
	if errors.As(err, &stop) {
		return stop.err
	}
	return err
}
