package fs

import (
	"fmt"
	"os"
	"path/filepath"
)

// ReadEntries lists dir and builds an Entry per child, unsorted. Children that
// vanish between the directory read and their lstat are skipped.
func ReadEntries(dir string, count ChildCounter) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory %s: %w", dir, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		info, err := de.Info()
		if err != nil {
			continue
		}
		if ShouldHideFromListing(filepath.Join(dir, de.Name()), de.Name()) {
			continue
		}
		entries = append(entries, NewEntry(dir, info, count))
	}
	return entries, nil
}

// CountChildren returns the number of names directly inside path. It does not
// recurse.
func CountChildren(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = f.Close()
	}()

	names, err := f.Readdirnames(-1)
	if err != nil {
		return 0, err
	}
	return len(names), nil
}

// Canonical resolves symlinks in path. When resolution fails (the path is gone
// or unreadable) the cleaned absolute path is returned instead.
func Canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
