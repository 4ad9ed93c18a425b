package panel

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rpane/internal/content"
	"github.com/kk-code-lab/rpane/internal/textutil"
	"github.com/kk-code-lab/rpane/internal/ui/render"
)

// PreviewPanel shows the head of a file.
type PreviewPanel struct {
	path       string
	snap       *content.PreviewSnapshot
	showHidden bool
	theme      render.ColorTheme
}

// NewPreviewPanel creates a panel for path in the loading state.
func NewPreviewPanel(path string, showHidden bool, theme render.ColorTheme) *PreviewPanel {
	return &PreviewPanel{
		path:       path,
		snap:       content.LoadingPreview(path),
		showHidden: showHidden,
		theme:      theme,
	}
}

func (p *PreviewPanel) Path() string        { return p.path }
func (p *PreviewPanel) Loading() bool       { return p.snap.Loading }
func (p *PreviewPanel) ContentHash() uint64 { return p.snap.Hash }
func (p *PreviewPanel) ModTime() time.Time  { return p.snap.ModTime }

// Snapshot exposes the panel's preview for inspection.
func (p *PreviewPanel) Snapshot() *content.PreviewSnapshot { return p.snap }

func (p *PreviewPanel) SetShowHidden(show bool) bool {
	if p.showHidden == show {
		return false
	}
	p.showHidden = show
	return p.snap.Kind == content.PreviewDirectory
}

// UpdateContent takes a preview notification for this panel's path. Preview
// snapshots are never mutated, so the shared copy is kept as is.
func (p *PreviewPanel) UpdateContent(n content.Notification) bool {
	if n.Kind != content.KindPreview || n.Preview == nil || n.Path != p.path {
		return false
	}
	prev := p.snap
	p.snap = n.Preview
	unchanged := !prev.Loading && prev.Err == nil && n.Preview.Err == nil &&
		prev.Kind == n.Preview.Kind && prev.Hash == n.Preview.Hash
	return !unchanged
}

// Draw renders the preview into r, filling every cell of r.
func (p *PreviewPanel) Draw(screen tcell.Screen, r render.Region) error {
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
	}

	switch snap.Kind {
	case content.PreviewDirectory:
		p.drawDirectory(screen, r)
	case content.PreviewBinary:
		p.drawLines(screen, r, base.Foreground(p.theme.BinaryFg))
	case content.PreviewText:
		p.drawLines(screen, r, base)
	default:
		drawMessage(screen, r, emptyText, base.Foreground(p.theme.MessageFg))
	}
	return nil
}

func (p *PreviewPanel) drawLines(screen tcell.Screen, r render.Region, style tcell.Style) {
	for row, line := range p.snap.Lines {
		if row >= r.H {
			break
		}
		text := textutil.Truncate(" "+textutil.Sanitize(line), r.W)
		render.DrawLine(screen, r.Row(row), text, style)
	}
}

func (p *PreviewPanel) drawDirectory(screen tcell.Screen, r render.Region) {
	row := 0
	for _, entry := range p.snap.Entries {
		if row >= r.H {
			break
		}
		if entry.IsHidden && !p.showHidden {
			continue
		}
		render.DrawLine(screen, r.Row(row), formatEntryRow(entry, r.W), p.theme.EntryStyle(entry, false))
		row++
	}
	if row == 0 {
		drawMessage(screen, r, emptyText, p.theme.Base().Foreground(p.theme.MessageFg))
	}
}
