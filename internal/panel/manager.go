package panel

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rpane/internal/content"
	"github.com/kk-code-lab/rpane/internal/textutil"
	"github.com/kk-code-lab/rpane/internal/ui/render"
)

const (
	appTitle      = "rpane"
	narrowWidth   = 30
	separatorCols = 1
)

// Outcome reports what applying a command or notification did: whether the
// screen needs redrawing, whether to quit and what content to request.
type Outcome struct {
	Changed  bool
	Quit     bool
	Requests []content.Request
}

// Manager holds the panel set. It is not safe for concurrent use; the app
// loop owns it and forwards commands, notifications and watch events.
type Manager struct {
	cache      *content.Cache
	theme      render.ColorTheme
	showHidden bool

	parent  *DirPanel // nil at the filesystem root
	current *DirPanel
	right   Panel // nil when nothing is selected

	width, height int
}

// NewManager creates a panel set rooted at start, which must be canonical.
func NewManager(cache *content.Cache, start string, showHidden bool) *Manager {
	m := &Manager{
		cache:      cache,
		theme:      render.GetColorTheme(),
		showHidden: showHidden,
	}
	m.current = m.newDirPanel(start)
	return m
}

// Start returns the requests that populate the initial view.
func (m *Manager) Start() Outcome {
	out := Outcome{Changed: true}
	out.Requests = append(out.Requests, m.dirRequest(m.current.Path(), content.OriginCurrent, false))
	if up := filepath.Dir(m.current.Path()); up != m.current.Path() {
		m.parent = m.newDirPanel(up)
		m.parent.Focus(m.current.Path())
		out.Requests = append(out.Requests, m.dirRequest(up, content.OriginParent, false))
	}
	out.Requests = append(out.Requests, m.syncRight()...)
	return out
}

// Current returns the panel with the cursor.
func (m *Manager) Current() *DirPanel { return m.current }

// ParentPanel returns the left panel, or nil at the root.
func (m *Manager) ParentPanel() *DirPanel { return m.parent }

// Right returns the right panel, or nil when nothing is selected.
func (m *Manager) Right() Panel { return m.right }

// ShowHidden reports whether hidden entries are shown.
func (m *Manager) ShowHidden() bool { return m.showHidden }

func (m *Manager) panels() []Panel {
	panels := make([]Panel, 0, 3)
	if m.parent != nil {
		panels = append(panels, m.parent)
	}
	panels = append(panels, m.current)
	if m.right != nil {
		panels = append(panels, m.right)
	}
	return panels
}

func (m *Manager) newDirPanel(path string) *DirPanel {
	p := NewDirPanel(path, m.showHidden, m.theme)
	if cached, ok := m.cache.Directory(path); ok {
		p.adopt(cached)
	}
	return p
}

func (m *Manager) newPreviewPanel(path string) *PreviewPanel {
	p := NewPreviewPanel(path, m.showHidden, m.theme)
	if cached, ok := m.cache.Preview(path); ok {
		p.snap = cached
	}
	return p
}

func (m *Manager) dirRequest(path string, origin content.Origin, force bool) content.Request {
	return content.Request{
		Kind:       content.KindDirectory,
		Path:       path,
		WantHidden: m.showHidden,
		Force:      force,
		Origin:     origin,
	}
}

func (m *Manager) requestFor(p Panel, origin content.Origin, force bool) content.Request {
	if _, ok := p.(*PreviewPanel); ok {
		return content.Request{Kind: content.KindPreview, Path: p.Path(), Force: force, Origin: origin}
	}
	return m.dirRequest(p.Path(), origin, force)
}

// Apply executes cmd against the panel set.
func (m *Manager) Apply(cmd Command) Outcome {
	switch c := cmd.(type) {
	case MoveUp:
		return m.afterMove(m.current.Up(c.N))
	case MoveDown:
		return m.afterMove(m.current.Down(c.N))
	case Enter:
		return m.enter()
	case Parent:
		return m.leave()
	case ToggleHidden:
		return m.toggleHidden()
	case ToggleMark:
		return Outcome{Changed: m.current.ToggleMark()}
	case Reload:
		return m.reload()
	case Quit:
		return Outcome{Quit: true}
	}
	return Outcome{}
}

func (m *Manager) afterMove(changed bool) Outcome {
	if !changed {
		return Outcome{}
	}
	return Outcome{Changed: true, Requests: m.syncRight()}
}

// enter makes the selected directory current. The right panel already shows
// it, so it is promoted rather than reloaded; the old current panel becomes
// the parent when it really is the new directory's parent.
func (m *Manager) enter() Outcome {
	entry, ok := m.current.SelectedEntry()
	if !ok || !entry.IsDir {
		return Outcome{}
	}

	next, ok := m.right.(*DirPanel)
	if !ok || next.Path() != entry.Path {
		next = m.newDirPanel(entry.Path)
	}

	out := Outcome{Changed: true}
	up := filepath.Dir(entry.Path)
	switch {
	case up == entry.Path:
		m.parent = nil
	case m.current.Path() == up:
		m.parent = m.current
	default:
		// entered through a symlink: show the target's real parent
		m.parent = m.newDirPanel(up)
		m.parent.Focus(entry.Path)
		out.Requests = append(out.Requests, m.dirRequest(up, content.OriginParent, false))
	}
	m.current = next
	m.right = nil

	out.Requests = append(out.Requests, m.dirRequest(next.Path(), content.OriginCurrent, false))
	out.Requests = append(out.Requests, m.syncRight()...)
	return out
}

// leave makes the parent directory current with the directory just left
// selected, and shows the directory just left on the right.
func (m *Manager) leave() Outcome {
	from := m.current.Path()
	up := filepath.Dir(from)
	if up == from {
		return Outcome{}
	}

	next := m.parent
	if next == nil || next.Path() != up {
		next = m.newDirPanel(up)
	}
	next.Focus(from)

	out := Outcome{Changed: true}
	m.right = m.current
	m.current = next
	out.Requests = append(out.Requests, m.dirRequest(up, content.OriginCurrent, false))

	m.parent = nil
	if grand := filepath.Dir(up); grand != up {
		m.parent = m.newDirPanel(grand)
		m.parent.Focus(up)
		out.Requests = append(out.Requests, m.dirRequest(grand, content.OriginParent, false))
	}
	out.Requests = append(out.Requests, m.syncRight()...)
	return out
}

func (m *Manager) toggleHidden() Outcome {
	m.showHidden = !m.showHidden
	if m.parent != nil {
		m.parent.SetShowHidden(m.showHidden)
		m.parent.Focus(m.current.Path())
	}
	m.current.SetShowHidden(m.showHidden)
	switch right := m.right.(type) {
	case *DirPanel:
		right.SetShowHidden(m.showHidden)
	case *PreviewPanel:
		right.SetShowHidden(m.showHidden)
	}
	return Outcome{Changed: true, Requests: m.syncRight()}
}

func (m *Manager) reload() Outcome {
	out := Outcome{}
	if m.parent != nil {
		out.Requests = append(out.Requests, m.dirRequest(m.parent.Path(), content.OriginParent, true))
	}
	out.Requests = append(out.Requests, m.dirRequest(m.current.Path(), content.OriginCurrent, true))
	if m.right != nil {
		out.Requests = append(out.Requests, m.requestFor(m.right, content.OriginRight, true))
	}
	return out
}

// syncRight points the right panel at the current selection and returns the
// request that fills it, if a new panel was needed.
func (m *Manager) syncRight() []content.Request {
	entry, ok := m.current.SelectedEntry()
	if !ok {
		if !m.current.Loading() {
			m.right = nil
		}
		return nil
	}

	if m.right != nil && m.right.Path() == entry.Path {
		_, isDir := m.right.(*DirPanel)
		if isDir == entry.IsDir {
			return nil
		}
	}

	if entry.IsDir {
		m.right = m.newDirPanel(entry.Path)
	} else {
		m.right = m.newPreviewPanel(entry.Path)
	}
	return []content.Request{m.requestFor(m.right, content.OriginRight, false)}
}

// Receive merges a content notification into whichever panel still shows its
// path. Notifications for paths no panel shows any more are dropped.
func (m *Manager) Receive(n content.Notification) Outcome {
	changed := false
	for _, p := range m.panels() {
		if p.UpdateContent(n) {
			changed = true
		}
	}
	if !changed {
		return Outcome{}
	}
	if m.parent != nil {
		m.parent.Focus(m.current.Path())
	}
	return Outcome{Changed: true, Requests: m.syncRight()}
}

// Refresh re-reads the panels affected by an external change to path: a
// panel showing path itself, or a listing of the directory containing it.
func (m *Manager) Refresh(path string) Outcome {
	dir := filepath.Dir(path)
	out := Outcome{}
	add := func(p Panel, origin content.Origin) {
		if p == nil {
			return
		}
		_, isDir := p.(*DirPanel)
		if p.Path() == path || (isDir && p.Path() == dir) {
			out.Requests = append(out.Requests, m.requestFor(p, origin, true))
		}
	}
	if m.parent != nil {
		add(m.parent, content.OriginParent)
	}
	add(m.current, content.OriginCurrent)
	add(m.right, content.OriginRight)
	return out
}

// WatchTargets lists the directories whose changes affect the view.
func (m *Manager) WatchTargets() []string {
	var targets []string
	if m.parent != nil {
		targets = append(targets, m.parent.Path())
	}
	targets = append(targets, m.current.Path())
	if right, ok := m.right.(*DirPanel); ok {
		targets = append(targets, right.Path())
	}
	return targets
}

// Resize records the terminal size.
func (m *Manager) Resize(width, height int) {
	m.width, m.height = width, height
}

// PageSize is the number of listing rows on screen.
func (m *Manager) PageSize() int {
	return max(1, m.height-2)
}

type column struct {
	panel  Panel
	region render.Region
	name   string
}

// layout splits body into parent, current and right columns of roughly
// 1:2:2, collapsing to the current panel alone on narrow terminals.
func (m *Manager) layout(body render.Region) []column {
	if body.W < narrowWidth {
		return []column{{panel: m.current, region: body, name: "current"}}
	}
	usable := body.W - 2*separatorCols
	parentW := usable / 5
	currentW := usable * 2 / 5
	rightW := usable - parentW - currentW

	x := body.X
	parent := render.Region{X: x, Y: body.Y, W: parentW, H: body.H}
	x += parentW + separatorCols
	current := render.Region{X: x, Y: body.Y, W: currentW, H: body.H}
	x += currentW + separatorCols
	right := render.Region{X: x, Y: body.Y, W: rightW, H: body.H}

	var parentPanel, rightPanel Panel
	if m.parent != nil {
		parentPanel = m.parent
	}
	if m.right != nil {
		rightPanel = m.right
	}
	return []column{
		{panel: parentPanel, region: parent, name: "parent"},
		{panel: m.current, region: current, name: "current"},
		{panel: rightPanel, region: right, name: "right"},
	}
}

// Draw renders the header, the three panels and the status line, covering
// every cell of the screen.
func (m *Manager) Draw(screen tcell.Screen) error {
	w, h := m.width, m.height
	if w <= 0 || h <= 0 {
		return nil
	}
	base := m.theme.Base()
	render.Fill(screen, render.Region{W: w, H: h}, base)

	m.drawHeader(screen, w)
	if h > 2 {
		body := render.Region{X: 0, Y: 1, W: w, H: h - 2}
		for _, col := range m.layout(body) {
			if col.panel == nil {
				continue
			}
			if err := col.panel.Draw(screen, col.region); err != nil {
				return fmt.Errorf("draw %s panel: %w", col.name, err)
			}
		}
	}
	if h > 1 {
		m.drawStatus(screen, w, h-1)
	}
	return nil
}

func (m *Manager) drawHeader(screen tcell.Screen, w int) {
	style := tcell.StyleDefault.Background(m.theme.HeaderBg).Foreground(m.theme.HeaderFg)
	row := render.Region{X: 0, Y: 0, W: w, H: 1}
	render.DrawLine(screen, row, "", style)

	x := render.DrawText(screen, 0, 0, w, appTitle+" ", style)
	prefix, last := render.Breadcrumb(m.current.Path())
	prefix = textutil.Sanitize(prefix)
	last = textutil.Sanitize(last)

	available := w - x
	lastWidth := textutil.DisplayWidth(last)
	if lastWidth >= available {
		render.DrawText(screen, x, 0, available, render.TrimLeft(last, available), style.Bold(true))
		return
	}
	x = render.DrawText(screen, x, 0, available-lastWidth, render.TrimLeft(prefix, available-lastWidth), style)
	render.DrawText(screen, x, 0, w-x, last, style.Bold(true))
}

func (m *Manager) drawStatus(screen tcell.Screen, w, y int) {
	style := tcell.StyleDefault.Background(m.theme.FooterBg).Foreground(m.theme.FooterFg)
	row := render.Region{X: 0, Y: y, W: w, H: 1}

	left, right := m.statusText()
	rightWidth := textutil.DisplayWidth(right)
	leftWidth := max(0, w-rightWidth-1)
	line := textutil.PadRight(textutil.Sanitize(left), leftWidth)
	if rightWidth < w {
		line += " " + right
	}
	render.DrawLine(screen, row, line, style)
}

func (m *Manager) statusText() (left, right string) {
	snap := m.current.Snapshot()
	var flags []string
	if m.showHidden {
		flags = append(flags, "hidden")
	}
	if marked := len(snap.MarkedPaths()); marked > 0 {
		flags = append(flags, fmt.Sprintf("%d marked", marked))
	}

	switch {
	case snap.Loading:
		left = loadingText
	case snap.Err != nil:
		left = describeError(snap.Err)
	default:
		if entry, ok := snap.SelectedEntry(); ok {
			left = entry.Name
			if entry.IsSymlink {
				left += " → " + entry.Path
			}
			flags = append(flags, fmt.Sprintf("%d/%d", snap.SelectedRow()+1, snap.VisibleLen()))
		}
	}
	return " " + left, strings.Join(flags, "  ") + " "
}
