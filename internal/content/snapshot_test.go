package content

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	fsutil "github.com/kk-code-lab/rpane/internal/fs"
)

func testEntry(dir, name string, isDir bool) fsutil.Entry {
	return fsutil.Entry{
		Name:      name,
		LowerName: strings.ToLower(name),
		Path:      filepath.Join(dir, name),
		IsDir:     isDir,
		IsHidden:  strings.HasPrefix(name, "."),
	}
}

// testSnapshot builds a listing of /t from names; a trailing slash marks a
// directory.
func testSnapshot(showHidden bool, names ...string) *DirSnapshot {
	entries := make([]fsutil.Entry, 0, len(names))
	for _, name := range names {
		isDir := strings.HasSuffix(name, "/")
		entries = append(entries, testEntry("/t", strings.TrimSuffix(name, "/"), isDir))
	}
	return NewDirSnapshot("/t", time.Unix(1, 0), entries, showHidden)
}

func entryNames(snap *DirSnapshot) []string {
	names := make([]string, 0, snap.VisibleLen())
	for row := 0; row < snap.VisibleLen(); row++ {
		names = append(names, snap.Entries[snap.VisibleIndex(row)].Name)
	}
	return names
}

func TestNewDirSnapshotOrderAndIndex(t *testing.T) {
	snap := testSnapshot(true, "Z.txt", "a.txt", ".hidden", "sub/")

	if got, want := strings.Join(entryNames(snap), ","), "sub,.hidden,a.txt,Z.txt"; got != want {
		t.Fatalf("order with hidden = %q, want %q", got, want)
	}

	snap.SetShowHidden(false)
	if got, want := strings.Join(entryNames(snap), ","), "sub,a.txt,Z.txt"; got != want {
		t.Fatalf("order without hidden = %q, want %q", got, want)
	}
	if len(snap.Entries) != 4 {
		t.Fatalf("hidden entry must stay in Entries, got %d entries", len(snap.Entries))
	}

	for i := 1; i < len(snap.NonHidden); i++ {
		if snap.NonHidden[i] <= snap.NonHidden[i-1] {
			t.Fatalf("NonHidden not strictly increasing: %v", snap.NonHidden)
		}
	}
	for _, idx := range snap.NonHidden {
		if snap.Entries[idx].IsHidden {
			t.Fatalf("NonHidden points at hidden entry %q", snap.Entries[idx].Name)
		}
	}
}

func TestDefaultSelectionSkipsHidden(t *testing.T) {
	snap := testSnapshot(false, ".a", ".b", "c")
	entry, ok := snap.SelectedEntry()
	if !ok || entry.Name != "c" {
		t.Fatalf("default selection = %q (ok=%v), want c", entry.Name, ok)
	}

	allHidden := testSnapshot(false, ".a", ".b")
	if allHidden.Selected != 0 {
		t.Fatalf("all-hidden default Selected = %d, want 0", allHidden.Selected)
	}
	if _, ok := allHidden.SelectedEntry(); ok {
		t.Fatalf("expected no visible selection when every entry is hidden")
	}

	empty := testSnapshot(false)
	if _, ok := empty.SelectedEntry(); ok {
		t.Fatalf("expected no selection in empty snapshot")
	}
	if empty.Down(1) || empty.Up(1) {
		t.Fatalf("navigation in empty snapshot must not report a change")
	}
}

func TestNavigationIsBounded(t *testing.T) {
	tests := []struct {
		name       string
		showHidden bool
		moves      []int // positive is down
		want       string
	}{
		{name: "down one", moves: []int{1}, want: "b"},
		{name: "down past end", moves: []int{100}, want: "d"},
		{name: "huge step", moves: []int{int(^uint(0) >> 1)}, want: "d"},
		{name: "up past start", moves: []int{2, -100}, want: "a"},
		{name: "hidden shown", showHidden: true, moves: []int{-1}, want: ".h"},
		{name: "filtered", moves: []int{1, 1}, want: "c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := testSnapshot(tt.showHidden, "a", ".h", "b", "c", "d")
			for _, move := range tt.moves {
				if move > 0 {
					snap.Down(move)
				} else {
					snap.Up(-move)
				}
				assertSelectionValid(t, snap)
			}
			entry, ok := snap.SelectedEntry()
			if !ok || entry.Name != tt.want {
				t.Fatalf("selected %q (ok=%v), want %q", entry.Name, ok, tt.want)
			}
		})
	}
}

func TestNavigationReportsNoChangeAtEdges(t *testing.T) {
	snap := testSnapshot(false, "a", "b")
	if snap.Up(1) {
		t.Fatalf("Up at top reported a change")
	}
	if !snap.Down(5) {
		t.Fatalf("Down from top reported no change")
	}
	if snap.Down(1) {
		t.Fatalf("Down at bottom reported a change")
	}
	if snap.Down(0) {
		t.Fatalf("zero step reported a change")
	}
}

func TestToggleHiddenKeepsSelection(t *testing.T) {
	snap := testSnapshot(false, "a", ".b", "c", ".d", "e")
	snap.Down(1)
	before, _ := snap.SelectedEntry()

	snap.SetShowHidden(true)
	snap.SetShowHidden(false)

	after, ok := snap.SelectedEntry()
	if !ok || after.Path != before.Path {
		t.Fatalf("selection after round trip = %q, want %q", after.Name, before.Name)
	}
	assertSelectionValid(t, snap)
}

func TestHidingMovesCursorForward(t *testing.T) {
	snap := testSnapshot(true, "a", "c", ".b")
	// sorted: .b, a, c
	snap.SelectPath("/t/.b")
	snap.SetShowHidden(false)
	entry, _ := snap.SelectedEntry()
	if entry.Name != "a" {
		t.Fatalf("after hiding selected %q, want a", entry.Name)
	}

	entries := []fsutil.Entry{testEntry("/t", "a", false), testEntry("/t", "z~", false)}
	entries[1].IsHidden = true
	tail := NewDirSnapshot("/t", time.Time{}, entries, true)
	tail.SelectPath("/t/z~")
	tail.SetShowHidden(false)
	if entry, _ := tail.SelectedEntry(); entry.Name != "a" {
		t.Fatalf("selected %q, want a", entry.Name)
	}
}

func TestSelectPathRejectsInvisibleEntries(t *testing.T) {
	snap := testSnapshot(false, "a", ".b")
	if snap.SelectPath("/t/.b") {
		t.Fatalf("selected a hidden entry while hidden entries are filtered")
	}
	if snap.SelectPath("/t/missing") {
		t.Fatalf("selected a missing path")
	}
	snap.SetShowHidden(true)
	if !snap.SelectPath("/t/.b") {
		t.Fatalf("could not select hidden entry while shown")
	}
}

func TestCloneIsolatesMarks(t *testing.T) {
	snap := testSnapshot(false, "a", "b")
	clone := snap.Clone()
	clone.ToggleMark()

	if snap.Entries[snap.Selected].Marked {
		t.Fatalf("mark leaked into the original snapshot")
	}
	if !clone.Entries[clone.Selected].Marked {
		t.Fatalf("mark missing from the clone")
	}
	if clone.Hash != snap.Hash {
		t.Fatalf("marks must not change the content hash")
	}
	if got := clone.MarkedPaths(); len(got) != 1 {
		t.Fatalf("MarkedPaths = %v, want one path", got)
	}
}

func TestScrollOffset(t *testing.T) {
	names := make([]string, 20)
	for i := range names {
		names[i] = string(rune('a' + i))
	}

	tests := []struct {
		name       string
		showHidden bool
		down       int
		height     int
		want       int
	}{
		{name: "top", down: 0, height: 5, want: 0},
		{name: "still fits", down: 1, height: 5, want: 0},
		{name: "middle filtered", down: 10, height: 5, want: 9},
		{name: "middle shown", showHidden: true, down: 10, height: 5, want: 8},
		{name: "bottom", down: 19, height: 5, want: 15},
		{name: "bottom shown", showHidden: true, down: 19, height: 5, want: 15},
		{name: "near bottom filtered", down: 17, height: 5, want: 15},
		{name: "taller than list", down: 19, height: 40, want: 0},
		{name: "zero height", down: 3, height: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := testSnapshot(tt.showHidden, names...)
			snap.Down(tt.down)
			if got := snap.ScrollOffset(tt.height); got != tt.want {
				t.Fatalf("ScrollOffset(%d) = %d, want %d", tt.height, got, tt.want)
			}
		})
	}
}

func TestErrorAndLoadingSnapshots(t *testing.T) {
	loading := LoadingDirSnapshot("/t", false)
	if !loading.Loading || len(loading.Entries) != 0 {
		t.Fatalf("unexpected loading snapshot: %+v", loading)
	}
	failed := ErrorDirSnapshot("/t", errTest, false)
	if failed.Err == nil || failed.VisibleLen() != 0 {
		t.Fatalf("unexpected error snapshot: %+v", failed)
	}
	if failed.Down(1) || failed.ToggleMark() {
		t.Fatalf("error snapshot must be inert")
	}
}

func assertSelectionValid(t *testing.T, snap *DirSnapshot) {
	t.Helper()
	if len(snap.Entries) == 0 {
		if snap.Selected != 0 {
			t.Fatalf("empty snapshot Selected = %d", snap.Selected)
		}
		return
	}
	if snap.Selected < 0 || snap.Selected >= len(snap.Entries) {
		t.Fatalf("Selected %d out of range [0,%d)", snap.Selected, len(snap.Entries))
	}
	if !snap.ShowHidden && len(snap.NonHidden) > 0 {
		if snap.Cursor < 0 || snap.Cursor >= len(snap.NonHidden) {
			t.Fatalf("Cursor %d out of range [0,%d)", snap.Cursor, len(snap.NonHidden))
		}
		if snap.NonHidden[snap.Cursor] != snap.Selected {
			t.Fatalf("Selected %d does not match NonHidden[%d]=%d", snap.Selected, snap.Cursor, snap.NonHidden[snap.Cursor])
		}
	}
}
