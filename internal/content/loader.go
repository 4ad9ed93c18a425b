package content

import (
	"os"

	fsutil "github.com/kk-code-lab/rpane/internal/fs"
	"golang.org/x/sync/singleflight"
)

// Loader performs the filesystem reads behind a request. Implementations
// must be safe for concurrent use; the manager calls them from its workers.
type Loader interface {
	Stat(path string) (os.FileInfo, error)
	ReadDirectory(path string, info os.FileInfo, showHidden bool) *DirSnapshot
	ReadPreview(path string, info os.FileInfo) *PreviewSnapshot
}

// OSLoader reads the local filesystem.
type OSLoader struct {
	counts singleflight.Group
}

// NewOSLoader returns a loader for the local filesystem.
func NewOSLoader() *OSLoader {
	return &OSLoader{}
}

func (l *OSLoader) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// ReadDirectory lists path. Failures produce an error snapshot rather than an
// error so the requester always hears back.
func (l *OSLoader) ReadDirectory(path string, info os.FileInfo, showHidden bool) *DirSnapshot {
	entries, err := fsutil.ReadEntries(path, l.countChildren)
	if err != nil {
		return ErrorDirSnapshot(path, err, showHidden)
	}
	return NewDirSnapshot(path, info.ModTime(), entries, showHidden)
}

func (l *OSLoader) ReadPreview(path string, info os.FileInfo) *PreviewSnapshot {
	if info.IsDir() {
		entries, err := fsutil.ReadEntries(path, nil)
		if err != nil {
			return ErrorPreview(path, err)
		}
		return BuildDirectoryPreview(path, info.ModTime(), entries)
	}
	head, err := fsutil.ReadFileHead(path, PreviewReadLimit)
	if err != nil {
		return ErrorPreview(path, err)
	}
	return BuildFilePreview(path, info.Size(), info.ModTime(), head)
}

// countChildren shares one Readdirnames per subdirectory between workers
// listing overlapping trees at the same time.
func (l *OSLoader) countChildren(path string) (int, error) {
	v, err, _ := l.counts.Do(path, func() (any, error) {
		return fsutil.CountChildren(path)
	})
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}
