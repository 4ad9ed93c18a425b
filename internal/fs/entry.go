package fs

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Entry is a single directory entry as captured when its directory was read.
// Everything except Marked is fixed at construction.
type Entry struct {
	Name         string
	LowerName    string
	Path         string // canonical, symlinks resolved
	IsDir        bool
	IsSymlink    bool
	IsExecutable bool
	IsHidden     bool
	Marked       bool
	Suffix       string // child count for directories, human size for files
	Size         int64
	Modified     time.Time
	Mode         os.FileMode
}

// ChildCounter reports how many entries the directory at path holds.
type ChildCounter func(path string) (int, error)

// NewEntry builds an Entry for name inside dir from its lstat info. Symlinks
// are followed for kind, size and canonical path; a dangling link keeps its
// own path and is listed as a file.
func NewEntry(dir string, info os.FileInfo, count ChildCounter) Entry {
	rawName := info.Name()
	fullPath := filepath.Join(dir, rawName)
	name := norm.NFC.String(rawName)

	entry := Entry{
		Name:      name,
		LowerName: strings.ToLower(name),
		Path:      fullPath,
		IsDir:     info.IsDir(),
		IsSymlink: info.Mode()&os.ModeSymlink != 0,
		IsHidden:  IsHidden(fullPath, rawName),
		Size:      info.Size(),
		Modified:  info.ModTime(),
		Mode:      info.Mode(),
	}

	if entry.IsSymlink {
		if target, err := os.Stat(fullPath); err == nil {
			entry.IsDir = target.IsDir()
			entry.Size = target.Size()
			entry.Mode = target.Mode()
		}
		if resolved, err := filepath.EvalSymlinks(fullPath); err == nil {
			entry.Path = resolved
		}
	}

	entry.IsExecutable = !entry.IsDir && isExecutable(rawName, entry.Mode)

	if entry.IsDir {
		entry.Suffix = "?"
		if count != nil {
			if n, err := count(entry.Path); err == nil {
				entry.Suffix = formatCount(n)
			}
		}
	} else {
		entry.Suffix = HumanSize(entry.Size)
	}

	return entry
}

// Less orders directories before files and names case-insensitively, falling
// back to the raw name so the order is total.
func Less(a, b Entry) bool {
	if a.IsDir != b.IsDir {
		return a.IsDir
	}
	if a.LowerName != b.LowerName {
		return a.LowerName < b.LowerName
	}
	return a.Name < b.Name
}

// SortEntries sorts entries in place using Less.
func SortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return Less(entries[i], entries[j])
	})
}

func isExecutable(name string, mode os.FileMode) bool {
	if runtime.GOOS == "windows" {
		switch strings.ToLower(filepath.Ext(name)) {
		case ".exe", ".bat", ".cmd", ".com", ".ps1":
			return true
		}
		return false
	}
	return mode.IsRegular() && mode.Perm()&0o111 != 0
}
