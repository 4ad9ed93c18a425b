package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Region is a rectangle of screen cells.
type Region struct {
	X, Y int
	W, H int
}

// Empty reports whether the region has no cells.
func (r Region) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Row returns the single-row region at offset y inside r.
func (r Region) Row(y int) Region {
	return Region{X: r.X, Y: r.Y + y, W: r.W, H: 1}
}

// Fill paints every cell of r with a space in style.
func Fill(screen tcell.Screen, r Region, style tcell.Style) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

// DrawText draws text from (x, y) one grapheme cluster per cell group and
// stops before exceeding maxWidth columns. It returns the column after the
// last drawn cluster.
func DrawText(screen tcell.Screen, x, y, maxWidth int, text string, style tcell.Style) int {
	end := x + maxWidth
	state := -1
	for len(text) > 0 {
		var cluster string
		var width int
		cluster, text, width, state = uniseg.FirstGraphemeClusterInString(text, state)
		if width == 0 {
			continue
		}
		runes := []rune(cluster)
		// tcell sizes a cell by its first rune; never advance less than that.
		width = max(width, runewidth.RuneWidth(runes[0]))
		if x+width > end {
			break
		}
		screen.SetContent(x, y, runes[0], runes[1:], style)
		x += width
	}
	return x
}

// DrawLine draws text in the row and pads the rest of it with style.
func DrawLine(screen tcell.Screen, row Region, text string, style tcell.Style) {
	x := DrawText(screen, row.X, row.Y, row.W, text, style)
	for ; x < row.X+row.W; x++ {
		screen.SetContent(x, row.Y, ' ', nil, style)
	}
}
