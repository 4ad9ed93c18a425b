package content

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	fsutil "github.com/kk-code-lab/rpane/internal/fs"
	"github.com/kk-code-lab/rpane/internal/textutil"
)

const (
	// PreviewReadLimit is how much of a file is read for its preview.
	PreviewReadLimit      = 64 * 1024
	maxPreviewLines       = 500
	binaryPreviewMaxBytes = 512
	binaryLineWidth       = 16
)

// PreviewKind says how a preview's Lines should be read.
type PreviewKind int

const (
	PreviewEmpty PreviewKind = iota
	PreviewText
	PreviewBinary
	PreviewDirectory
)

func (k PreviewKind) String() string {
	switch k {
	case PreviewText:
		return "text"
	case PreviewBinary:
		return "binary"
	case PreviewDirectory:
		return "directory"
	default:
		return "empty"
	}
}

// PreviewSnapshot is the loaded preview of a single path. It is immutable
// once built.
type PreviewSnapshot struct {
	Path      string
	Name      string
	Kind      PreviewKind
	Lines     []string
	Entries   []fsutil.Entry // directory previews only
	Size      int64
	ModTime   time.Time
	Loading   bool
	Truncated bool
	Hash      uint64
	Err       error
}

func (p *PreviewSnapshot) SourcePath() string  { return p.Path }
func (p *PreviewSnapshot) Modified() time.Time { return p.ModTime }
func (p *PreviewSnapshot) ContentHash() uint64 { return p.Hash }

// LoadingPreview is the placeholder shown while path is being read.
func LoadingPreview(path string) *PreviewSnapshot {
	return &PreviewSnapshot{Path: path, Name: filepath.Base(path), Loading: true}
}

// ErrorPreview is published when path cannot be read.
func ErrorPreview(path string, err error) *PreviewSnapshot {
	return &PreviewSnapshot{Path: path, Name: filepath.Base(path), Err: err}
}

// BuildFilePreview classifies the head of a file as text or binary and
// formats it for display. size is the full file size; content may be shorter.
func BuildFilePreview(path string, size int64, modTime time.Time, content []byte) *PreviewSnapshot {
	snap := &PreviewSnapshot{
		Path:      path,
		Name:      filepath.Base(path),
		Size:      size,
		ModTime:   modTime,
		Truncated: size > int64(len(content)),
	}

	switch {
	case len(content) == 0:
		snap.Kind = PreviewEmpty
	case fsutil.IsTextFile(path, content):
		snap.Kind = PreviewText
		snap.Lines = textLines(fsutil.NormalizeTextContent(content), &snap.Truncated)
	default:
		snap.Kind = PreviewBinary
		snap.Lines = hexDump(content, size)
	}
	snap.Hash = hashLines(snap.Lines)
	return snap
}

// BuildDirectoryPreview lists a directory as a peek of its sorted children.
func BuildDirectoryPreview(path string, modTime time.Time, entries []fsutil.Entry) *PreviewSnapshot {
	fsutil.SortEntries(entries)
	lines := make([]string, len(entries))
	for i, entry := range entries {
		lines[i] = entry.Name
		if entry.IsDir {
			lines[i] += "/"
		}
	}
	return &PreviewSnapshot{
		Path:    path,
		Name:    filepath.Base(path),
		Kind:    PreviewDirectory,
		Lines:   lines,
		Entries: entries,
		ModTime: modTime,
		Hash:    hashEntries(entries),
	}
}

func textLines(text string, truncated *bool) []string {
	raw := strings.Split(text, "\n")
	if len(raw) > 0 && raw[len(raw)-1] == "" {
		raw = raw[:len(raw)-1]
	}
	if len(raw) > maxPreviewLines {
		raw = raw[:maxPreviewLines]
		*truncated = true
	}
	lines := make([]string, len(raw))
	for i, line := range raw {
		lines[i] = textutil.ExpandTabs(strings.TrimSuffix(line, "\r"), textutil.DefaultTabWidth)
	}
	return lines
}

func hexDump(content []byte, size int64) []string {
	shown := content
	if len(shown) > binaryPreviewMaxBytes {
		shown = shown[:binaryPreviewMaxBytes]
	}
	lines := make([]string, 0, len(shown)/binaryLineWidth+2)
	for offset := 0; offset < len(shown); offset += binaryLineWidth {
		end := min(offset+binaryLineWidth, len(shown))
		lines = append(lines, formatHexLine(offset, shown[offset:end]))
	}
	if rest := size - int64(len(shown)); rest > 0 {
		lines = append(lines, fmt.Sprintf("… %s bytes not shown", formatBytes(rest)))
	}
	return lines
}

func formatHexLine(offset int, chunk []byte) string {
	var b strings.Builder
	b.Grow(80)
	fmt.Fprintf(&b, "%08X  ", offset)
	for i := 0; i < binaryLineWidth; i++ {
		if i < len(chunk) {
			fmt.Fprintf(&b, "%02X ", chunk[i])
		} else {
			b.WriteString("   ")
		}
		if i == binaryLineWidth/2-1 {
			b.WriteByte(' ')
		}
	}
	b.WriteString(" |")
	for _, c := range chunk {
		if c >= 32 && c <= 126 {
			b.WriteByte(c)
		} else {
			b.WriteByte('.')
		}
	}
	b.WriteByte('|')
	return b.String()
}

func formatBytes(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d", n)
	}
	return fsutil.HumanSize(n)
}
