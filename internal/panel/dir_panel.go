package panel

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rpane/internal/content"
	fsutil "github.com/kk-code-lab/rpane/internal/fs"
	"github.com/kk-code-lab/rpane/internal/textutil"
	"github.com/kk-code-lab/rpane/internal/ui/render"
)

// DirPanel shows a directory listing. Its snapshot is a private clone, so
// selection and marks never touch the cached copy.
type DirPanel struct {
	path       string
	snap       *content.DirSnapshot
	showHidden bool
	focus      string // entry to select once the listing arrives
	theme      render.ColorTheme
}

// NewDirPanel creates a panel for path in the loading state.
func NewDirPanel(path string, showHidden bool, theme render.ColorTheme) *DirPanel {
	return &DirPanel{
		path:       path,
		snap:       content.LoadingDirSnapshot(path, showHidden),
		showHidden: showHidden,
		theme:      theme,
	}
}

// adopt shows a cached listing straight away while it is revalidated.
func (p *DirPanel) adopt(snap *content.DirSnapshot) {
	p.snap = snap.Clone()
	p.snap.SetShowHidden(p.showHidden)
}

func (p *DirPanel) Path() string        { return p.path }
func (p *DirPanel) Loading() bool       { return p.snap.Loading }
func (p *DirPanel) ContentHash() uint64 { return p.snap.Hash }
func (p *DirPanel) ModTime() time.Time  { return p.snap.ModTime }

// Snapshot exposes the panel's listing for inspection.
func (p *DirPanel) Snapshot() *content.DirSnapshot { return p.snap }

func (p *DirPanel) SelectedEntry() (fsutil.Entry, bool) { return p.snap.SelectedEntry() }
func (p *DirPanel) Up(n int) bool                       { return p.snap.Up(n) }
func (p *DirPanel) Down(n int) bool                     { return p.snap.Down(n) }
func (p *DirPanel) ToggleMark() bool                    { return p.snap.ToggleMark() }

func (p *DirPanel) SetShowHidden(show bool) bool {
	p.showHidden = show
	return p.snap.SetShowHidden(show)
}

// Focus selects the entry at path, or remembers it until the listing loads.
func (p *DirPanel) Focus(path string) bool {
	if p.snap.Loading {
		p.focus = path
		return false
	}
	return p.snap.SelectPath(path)
}

// UpdateContent merges a directory notification for this panel's path. A
// refresh of the same directory keeps the selected entry (by path) and the
// marks; anything else starts from the new listing's default selection.
func (p *DirPanel) UpdateContent(n content.Notification) bool {
	if n.Kind != content.KindDirectory || n.Dir == nil || n.Path != p.path {
		return false
	}

	prev := p.snap
	samePath := !prev.Loading && prev.Path == n.Dir.Path
	if samePath && prev.Err == nil && n.Dir.Err == nil && prev.Hash == n.Dir.Hash {
		prev.ModTime = n.Dir.ModTime
		return false
	}

	next := n.Dir.Clone()
	next.SetShowHidden(p.showHidden)

	carried := false
	if samePath {
		if entry, ok := prev.SelectedEntry(); ok {
			carried = next.SelectPath(entry.Path)
		}
		if marked := prev.MarkedPaths(); len(marked) > 0 {
			for i := range next.Entries {
				if _, ok := marked[next.Entries[i].Path]; ok {
					next.Entries[i].Marked = true
				}
			}
		}
	}
	if !carried && p.focus != "" {
		next.SelectPath(p.focus)
	}
	p.focus = ""
	p.snap = next
	return true
}

// Draw renders the listing into r, filling every cell of r.
func (p *DirPanel) Draw(screen tcell.Screen, r render.Region) error {
	if r.Empty() {
		return nil
	}
	base := p.theme.Base()
	render.Fill(screen, r, base)

	snap := p.snap
	switch {
	case snap.Loading:
		drawMessage(screen, r, loadingText, base.Foreground(p.theme.MessageFg))
		return nil
	case snap.Err != nil:
		drawMessage(screen, r, describeError(snap.Err), base.Foreground(p.theme.ErrorFg))
		return nil
	case snap.VisibleLen() == 0:
		drawMessage(screen, r, emptyText, base.Foreground(p.theme.MessageFg))
		return nil
	}

	offset := snap.ScrollOffset(r.H)
	for row := 0; row < r.H; row++ {
		idx := snap.VisibleIndex(offset + row)
		if idx < 0 {
			break
		}
		entry := snap.Entries[idx]
		style := p.theme.EntryStyle(entry, idx == snap.Selected)
		render.DrawLine(screen, r.Row(row), formatEntryRow(entry, r.W), style)
	}
	return nil
}

// formatEntryRow lays out " name  suffix" in width columns, dropping the
// suffix when there is no room for it.
func formatEntryRow(entry fsutil.Entry, width int) string {
	inner := width - 2
	if inner <= 0 {
		return ""
	}
	name := textutil.Sanitize(entry.Name)
	suffix := entry.Suffix
	nameWidth := inner - textutil.DisplayWidth(suffix) - 1
	if suffix == "" || nameWidth < 4 {
		return " " + textutil.Truncate(name, inner)
	}
	return " " + textutil.PadRight(name, nameWidth) + " " + suffix
}
