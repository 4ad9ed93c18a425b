// Package content turns filesystem reads into immutable, cacheable snapshots
// and runs the background loader that produces them.
package content

import (
	"sort"
	"time"

	fsutil "github.com/kk-code-lab/rpane/internal/fs"
)

// Snapshot is what the cache stores: a loaded view of one filesystem path.
type Snapshot interface {
	SourcePath() string
	Modified() time.Time
	ContentHash() uint64
}

// DirSnapshot is one directory listing plus its selection state.
//
// Entries and NonHidden are built together and never patched: NonHidden holds
// the strictly increasing positions of non-hidden entries, so any change to
// Entries requires a new snapshot. Selected always indexes Entries (0 for an
// empty listing) and Cursor indexes NonHidden whenever it is non-empty.
type DirSnapshot struct {
	Entries    []fsutil.Entry
	NonHidden  []int
	Selected   int
	Cursor     int
	Path       string
	ModTime    time.Time
	Loading    bool
	ShowHidden bool
	Hash       uint64
	Err        error
}

// NewDirSnapshot sorts entries and builds the derived index, hash and default
// selection (first non-hidden entry). It takes ownership of entries.
func NewDirSnapshot(path string, modTime time.Time, entries []fsutil.Entry, showHidden bool) *DirSnapshot {
	fsutil.SortEntries(entries)

	nonHidden := make([]int, 0, len(entries))
	for i, entry := range entries {
		if !entry.IsHidden {
			nonHidden = append(nonHidden, i)
		}
	}

	snap := &DirSnapshot{
		Entries:    entries,
		NonHidden:  nonHidden,
		Path:       path,
		ModTime:    modTime,
		ShowHidden: showHidden,
		Hash:       hashEntries(entries),
	}
	snap.selectDefault()
	return snap
}

// LoadingDirSnapshot is the placeholder shown while path is being read.
func LoadingDirSnapshot(path string, showHidden bool) *DirSnapshot {
	return &DirSnapshot{Path: path, Loading: true, ShowHidden: showHidden}
}

// ErrorDirSnapshot is the empty listing published when path cannot be read.
func ErrorDirSnapshot(path string, err error, showHidden bool) *DirSnapshot {
	return &DirSnapshot{Path: path, ShowHidden: showHidden, Err: err, Hash: hashEntries(nil)}
}

func (s *DirSnapshot) SourcePath() string  { return s.Path }
func (s *DirSnapshot) Modified() time.Time { return s.ModTime }
func (s *DirSnapshot) ContentHash() uint64 { return s.Hash }

// Clone returns a copy whose entries (and therefore marks) are independent of
// s. NonHidden is shared since it is never written after construction.
func (s *DirSnapshot) Clone() *DirSnapshot {
	clone := *s
	if s.Entries != nil {
		clone.Entries = make([]fsutil.Entry, len(s.Entries))
		copy(clone.Entries, s.Entries)
	}
	return &clone
}

func (s *DirSnapshot) selectDefault() {
	s.Cursor = 0
	s.Selected = 0
	if len(s.NonHidden) > 0 {
		s.Selected = s.NonHidden[0]
	}
}

// VisibleLen is the number of rows the listing shows.
func (s *DirSnapshot) VisibleLen() int {
	if s.ShowHidden {
		return len(s.Entries)
	}
	return len(s.NonHidden)
}

// VisibleIndex maps a display row to an index into Entries, or -1.
func (s *DirSnapshot) VisibleIndex(row int) int {
	if row < 0 || row >= s.VisibleLen() {
		return -1
	}
	if s.ShowHidden {
		return row
	}
	return s.NonHidden[row]
}

// SelectedRow is the display row of the selection, or -1 when nothing
// visible is selected.
func (s *DirSnapshot) SelectedRow() int {
	if _, ok := s.SelectedEntry(); !ok {
		return -1
	}
	if s.ShowHidden {
		return s.Selected
	}
	return s.Cursor
}

// SelectedEntry returns the selected entry if it is currently visible.
func (s *DirSnapshot) SelectedEntry() (fsutil.Entry, bool) {
	if s.Selected < 0 || s.Selected >= len(s.Entries) {
		return fsutil.Entry{}, false
	}
	if !s.ShowHidden {
		if len(s.NonHidden) == 0 || s.NonHidden[s.Cursor] != s.Selected {
			return fsutil.Entry{}, false
		}
	}
	return s.Entries[s.Selected], true
}

// Up moves the selection step rows up and reports whether anything changed.
func (s *DirSnapshot) Up(step int) bool {
	if step <= 0 {
		return false
	}
	return s.move(-step)
}

// Down moves the selection step rows down and reports whether anything changed.
func (s *DirSnapshot) Down(step int) bool {
	if step <= 0 {
		return false
	}
	return s.move(step)
}

func (s *DirSnapshot) move(delta int) bool {
	if s.ShowHidden {
		if len(s.Entries) == 0 {
			return false
		}
		next := clampStep(s.Selected, delta, len(s.Entries))
		if next == s.Selected {
			return false
		}
		s.Selected = next
		return true
	}

	if len(s.NonHidden) == 0 {
		return false
	}
	next := clampStep(s.Cursor, delta, len(s.NonHidden))
	if next == s.Cursor && s.NonHidden[next] == s.Selected {
		return false
	}
	s.Cursor = next
	s.Selected = s.NonHidden[next]
	return true
}

// clampStep returns pos+delta limited to [0, n-1] without overflowing.
func clampStep(pos, delta, n int) int {
	switch {
	case delta > 0 && delta > n-1-pos:
		return n - 1
	case delta < 0 && -delta > pos:
		return 0
	}
	return pos + delta
}

// SetShowHidden switches between the full and the filtered view. Hiding
// moves the cursor to the first visible entry at or after the selection (or
// the last visible one) so the selection never jumps to an unrelated row.
func (s *DirSnapshot) SetShowHidden(show bool) bool {
	if s.ShowHidden == show {
		return false
	}
	s.ShowHidden = show
	if !show {
		s.resolveCursor()
	}
	return true
}

func (s *DirSnapshot) resolveCursor() {
	if len(s.NonHidden) == 0 {
		s.Cursor = 0
		return
	}
	cursor := sort.SearchInts(s.NonHidden, s.Selected)
	if cursor >= len(s.NonHidden) {
		cursor = len(s.NonHidden) - 1
	}
	s.Cursor = cursor
	s.Selected = s.NonHidden[cursor]
}

// SelectPath selects the visible entry whose path equals path.
func (s *DirSnapshot) SelectPath(path string) bool {
	for i, entry := range s.Entries {
		if entry.Path != path {
			continue
		}
		if !s.ShowHidden && entry.IsHidden {
			return false
		}
		s.Selected = i
		if !entry.IsHidden {
			s.Cursor = sort.SearchInts(s.NonHidden, i)
		}
		return true
	}
	return false
}

// ToggleMark flips the mark on the selected entry.
func (s *DirSnapshot) ToggleMark() bool {
	if _, ok := s.SelectedEntry(); !ok {
		return false
	}
	s.Entries[s.Selected].Marked = !s.Entries[s.Selected].Marked
	return true
}

// MarkedPaths returns the paths of all marked entries.
func (s *DirSnapshot) MarkedPaths() map[string]struct{} {
	var marked map[string]struct{}
	for _, entry := range s.Entries {
		if entry.Marked {
			if marked == nil {
				marked = make(map[string]struct{})
			}
			marked[entry.Path] = struct{}{}
		}
	}
	return marked
}

// ScrollOffset returns the first display row for a viewport of height rows,
// keeping the selection near the middle except at either end of the list.
func (s *DirSnapshot) ScrollOffset(height int) int {
	if height <= 0 {
		return 0
	}
	total, current, correction := len(s.Entries), s.Selected, 0
	if !s.ShowHidden {
		total, current, correction = len(s.NonHidden), s.Cursor, 1
	}
	half := (height + 1) / 2
	bottom := min(total, current+half+correction)
	return max(0, bottom-height)
}
