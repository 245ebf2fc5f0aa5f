// Package scan resolves the set of track files to analyze.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// Files collects every file under root whose extension matches ext
// (case-insensitive, leading dot included). A root that is itself a
// matching file is returned as-is. Directories that cannot be read are
// logged and skipped. The walk uses an explicit stack, deep trees cost
// no call depth. The returned list is sorted.
func Files(root, ext string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot access %q: %w", root, err)
	}

	if !info.IsDir() {
		if !matches(root, ext) {
			return nil, fmt.Errorf("%q is neither a directory nor a %s file", root, ext)
		}
		return []string{root}, nil
	}

	var files []string
	stack := []string{root}

	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("Cannot read directory, skipping")
			continue
		}

		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			switch {
			case entry.IsDir():
				stack = append(stack, path)
			case matches(path, ext):
				files = append(files, path)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

func matches(path, ext string) bool {
	return strings.EqualFold(filepath.Ext(path), ext)
}
