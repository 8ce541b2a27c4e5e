package banner

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// recognized image extensions, matched case-insensitively
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// IsImageName reports whether name carries a recognized image extension
func IsImageName(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}

// Candidates lists the image files in dir sorted by lowercased name.
// A missing path or a path that is not a directory yields no candidates and no error.
func Candidates(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !IsImageName(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}

	sort.Slice(names, func(i, j int) bool {
		a, b := strings.ToLower(names[i]), strings.ToLower(names[j])
		if a != b {
			return a < b
		}
		return names[i] < names[j]
	})

	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(dir, n)
	}
	return paths, nil
}

// Pick returns the candidate at index in dir. ok is false when dir has no
// candidates at all; an index outside the candidate list is an *IndexError.
func Pick(dir string, index int) (path string, ok bool, err error) {
	paths, err := Candidates(dir)
	if err != nil {
		return "", false, err
	}
	if len(paths) == 0 {
		return "", false, nil
	}
	if index < 0 || index >= len(paths) {
		return "", false, &IndexError{Dir: dir, Index: index, Count: len(paths)}
	}
	return paths[index], true, nil
}
