package render

import (
	"path/filepath"
	"strings"

	"github.com/kk-code-lab/rpane/internal/textutil"
)

const breadcrumbSeparator = " › "

// Breadcrumb splits path into the parent part and the final segment, both
// formatted for the header.
func Breadcrumb(path string) (prefix, last string) {
	segments := breadcrumbSegments(path)
	last = segments[len(segments)-1]
	if len(segments) > 1 {
		prefix = strings.Join(segments[:len(segments)-1], breadcrumbSeparator) + breadcrumbSeparator
		prefix = strings.Replace(prefix, "/"+breadcrumbSeparator, "/", 1)
	}
	return prefix, last
}

func breadcrumbSegments(path string) []string {
	cleanPath := filepath.Clean(path)
	if path == "" || cleanPath == "." {
		return []string{"/"}
	}

	slashed := filepath.ToSlash(cleanPath)
	if slashed == "/" {
		return []string{"/"}
	}

	var segments []string
	if strings.HasPrefix(slashed, "/") {
		segments = append(segments, "/")
		slashed = strings.TrimPrefix(slashed, "/")
	}
	for _, part := range strings.Split(slashed, "/") {
		if part != "" {
			segments = append(segments, part)
		}
	}
	if len(segments) == 0 {
		return []string{cleanPath}
	}
	return segments
}

// TrimLeft keeps the end of text, the most useful part of a path, within
// width columns.
func TrimLeft(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if textutil.DisplayWidth(text) <= width {
		return text
	}
	if width <= 1 {
		return textutil.Ellipsis
	}

	runes := []rune(text)
	available := width - 1
	start := len(runes)
	used := 0
	for start > 0 {
		w := textutil.DisplayWidth(string(runes[start-1]))
		if used+w > available {
			break
		}
		used += w
		start--
	}
	return textutil.Ellipsis + string(runes[start:])
}
