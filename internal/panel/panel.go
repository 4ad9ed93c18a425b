// Package panel owns the three-column view: the parent, current and right
// panels, the navigation commands that move between them and the merge of
// freshly loaded content into what is on screen.
package panel

import (
	"errors"
	"io/fs"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rpane/internal/content"
	"github.com/kk-code-lab/rpane/internal/ui/render"
)

// Panel is one column of the view.
type Panel interface {
	Draw(screen tcell.Screen, r render.Region) error
	ContentHash() uint64
	ModTime() time.Time
	// UpdateContent merges n if it is meant for this panel and reports
	// whether anything visible changed.
	UpdateContent(n content.Notification) bool
	Path() string
	Loading() bool
}

const (
	loadingText = "loading…"
	emptyText   = "(empty)"
)

func describeError(err error) string {
	switch {
	case errors.Is(err, fs.ErrPermission):
		return "(permission denied)"
	case errors.Is(err, fs.ErrNotExist):
		return "(no longer exists)"
	default:
		return "(cannot read)"
	}
}

func drawMessage(screen tcell.Screen, r render.Region, text string, style tcell.Style) {
	render.DrawLine(screen, r.Row(0), " "+text, style)
}
