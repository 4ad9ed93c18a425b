package textutil

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Ellipsis marks truncated text.
const Ellipsis = "…"

// Truncate shortens text to at most maxWidth terminal columns, appending
// Ellipsis when anything was cut. Cuts only happen between grapheme clusters,
// so combining marks and emoji sequences are never split.
func Truncate(text string, maxWidth int) string {
	if maxWidth <= 0 || text == "" {
		return ""
	}
	if DisplayWidth(text) <= maxWidth {
		return text
	}

	ellipsisWidth := DisplayWidth(Ellipsis)
	if maxWidth <= ellipsisWidth {
		return Ellipsis
	}
	budget := maxWidth - ellipsisWidth

	var builder strings.Builder
	used := 0
	state := -1
	rest := text
	for len(rest) > 0 {
		var cluster string
		var width int
		cluster, rest, width, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if used+width > budget {
			break
		}
		builder.WriteString(cluster)
		used += width
	}
	builder.WriteString(Ellipsis)
	return builder.String()
}

// PadRight truncates or pads text with spaces to exactly width columns.
func PadRight(text string, width int) string {
	if width <= 0 {
		return ""
	}
	text = Truncate(text, width)
	if gap := width - DisplayWidth(text); gap > 0 {
		return text + strings.Repeat(" ", gap)
	}
	return text
}
