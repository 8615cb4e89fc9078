// Package discover lists the files under a directory tree that are eligible
// for upload.
package discover

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cravindra/hyperverge-cli/pkg/hyperverge"
)

// Discover recursively walks root and returns the absolute paths of all
// files with a supported extension. Plain files at each level come before the
// contents of that level's subdirectories, and siblings are visited in
// lexicographic order, so the result is deterministic for a given tree.
//
// A missing or unreadable root (or subdirectory) fails the whole call: a
// batch never starts from a partially-known file list.
func Discover(root string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", root, err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", absRoot)
	}

	all, err := collect(absRoot)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(all))

	for _, path := range all {
		if hyperverge.IsSupportedFile(path) {
			files = append(files, path)
		}
	}

	return files, nil
}

// collect returns every plain file under dir, files first, then the
// recursive contents of each subdirectory. os.ReadDir yields entries sorted
// by name.
func collect(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var files, subdirs []string

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			subdirs = append(subdirs, path)
		} else {
			files = append(files, path)
		}
	}

	for _, sub := range subdirs {
		nested, err := collect(sub)
		if err != nil {
			return nil, err
		}

		files = append(files, nested...)
	}

	return files, nil
}
