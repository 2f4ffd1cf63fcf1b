package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Scan walks root and returns the paths, relative to root, of every
// regular file whose name ends with suffix. filepath.Walk visits entries
// in lexical order, so the result is deterministic for a fixed tree.
func Scan(root, suffix string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("output directory %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("output directory %q: not a directory", root)
	}

	var files []string
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(info.Name(), suffix) {
			return nil
		}
		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, relPath)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}
