package input

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rpane/internal/panel"
)

// InputHandler converts tcell key events to panel commands.
type InputHandler struct {
	pageSize func() int
}

// NewInputHandler creates a new input handler. pageSize reports how many
// rows PgUp and PgDn move.
func NewInputHandler(pageSize func() int) *InputHandler {
	return &InputHandler{pageSize: pageSize}
}

// IsSuspend reports whether ev asks to suspend the process to the shell.
func IsSuspend(ev *tcell.EventKey) bool {
	return ev.Key() == tcell.KeyCtrlZ
}

// Command maps a key to its command. Keys without a binding report false.
func (ih *InputHandler) Command(ev *tcell.EventKey) (panel.Command, bool) {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return panel.Quit{}, true
	case tcell.KeyUp:
		return panel.MoveUp{N: 1}, true
	case tcell.KeyDown:
		return panel.MoveDown{N: 1}, true
	case tcell.KeyPgUp:
		return panel.MoveUp{N: ih.page()}, true
	case tcell.KeyPgDn:
		return panel.MoveDown{N: ih.page()}, true
	case tcell.KeyHome:
		return panel.MoveUp{N: math.MaxInt}, true
	case tcell.KeyEnd:
		return panel.MoveDown{N: math.MaxInt}, true
	case tcell.KeyRight, tcell.KeyEnter:
		return panel.Enter{}, true
	case tcell.KeyLeft, tcell.KeyBackspace, tcell.KeyBackspace2:
		return panel.Parent{}, true
	case tcell.KeyCtrlR:
		return panel.Reload{}, true
	case tcell.KeyRune:
		return ih.runeCommand(ev.Rune())
	}
	return nil, false
}

func (ih *InputHandler) runeCommand(r rune) (panel.Command, bool) {
	switch r {
	case 'k':
		return panel.MoveUp{N: 1}, true
	case 'j':
		return panel.MoveDown{N: 1}, true
	case 'g':
		return panel.MoveUp{N: math.MaxInt}, true
	case 'G':
		return panel.MoveDown{N: math.MaxInt}, true
	case 'l':
		return panel.Enter{}, true
	case 'h':
		return panel.Parent{}, true
	case '.':
		return panel.ToggleHidden{}, true
	case ' ':
		return panel.ToggleMark{}, true
	case 'r':
		return panel.Reload{}, true
	case 'q':
		return panel.Quit{}, true
	}
	return nil, false
}

func (ih *InputHandler) page() int {
	if ih.pageSize == nil {
		return 1
	}
	return max(1, ih.pageSize())
}
