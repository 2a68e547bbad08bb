// Package fsutil locates input files on disk.
package fsutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoExtension is returned when an empty extension is requested.
var ErrNoExtension = errors.New("extension must not be empty")

// FindFiles returns path itself when it names a regular file. When path is
// a directory it returns every file below it whose name ends in ext, sorted.
func FindFiles(path, ext string) ([]string, error) {
	if ext == "" {
		return nil, ErrNoExtension
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ext) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
