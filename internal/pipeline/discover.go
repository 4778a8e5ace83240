package pipeline

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Discover lists the recordings directly inside inputDir (the layout is
// flat; pulls never create subdirectories), filters by extension, skips
// dotfiles, and returns full paths sorted lexicographically for a
// deterministic processing order.
func Discover(inputDir string, exts []string) ([]string, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, err
	}

	match := make(map[string]bool, len(exts))
	for _, e := range exts {
		match[strings.ToLower(e)] = true
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if match[strings.ToLower(filepath.Ext(name))] {
			files = append(files, filepath.Join(inputDir, name))
		}
	}
	sort.Strings(files)
	return files, nil
}
