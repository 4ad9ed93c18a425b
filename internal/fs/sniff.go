package fs

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

const (
	sniffSampleSize        = 4096
	maxNonPrintablePercent = 30

	bomUTF8 = "\xEF\xBB\xBF"
	bomLE   = "\xFF\xFE"
	bomBE   = "\xFE\xFF"
)

var binaryExtensions = map[string]bool{
	".7z": true, ".a": true, ".bin": true, ".bmp": true, ".bz2": true,
	".class": true, ".dll": true, ".dylib": true, ".exe": true, ".gif": true,
	".gz": true, ".ico": true, ".iso": true, ".jar": true, ".jpeg": true,
	".jpg": true, ".mkv": true, ".mov": true, ".mp3": true, ".mp4": true,
	".o": true, ".pdf": true, ".png": true, ".so": true, ".tar": true,
	".tgz": true, ".ttf": true, ".wasm": true, ".webp": true, ".woff": true,
	".woff2": true, ".xz": true, ".zip": true, ".zst": true,
}

// IsTextFile guesses whether content (the head of the file at path) is text.
// Known binary extensions short-circuit; BOM-marked content is always text.
func IsTextFile(path string, content []byte) bool {
	if path != "" && binaryExtensions[strings.ToLower(filepath.Ext(path))] {
		return false
	}
	if len(content) == 0 {
		return true
	}

	sample := content
	if len(sample) > sniffSampleSize {
		sample = sample[:sniffSampleSize]
	}
	if hasBOM(sample) {
		return true
	}
	if bytes.IndexByte(sample, 0) >= 0 {
		return false
	}
	if utf8.Valid(sample) {
		return true
	}

	bad := 0
	for _, b := range sample {
		if (b < 0x20 && b != '\t' && b != '\n' && b != '\r' && b != 0x1B) || b == 0x7F {
			bad++
		}
	}
	return bad*100/len(sample) < maxNonPrintablePercent
}

// NormalizeTextContent decodes BOM-marked UTF-8/UTF-16 into a plain UTF-8
// string; anything else is returned as-is.
func NormalizeTextContent(content []byte) string {
	switch {
	case bytes.HasPrefix(content, []byte(bomUTF8)):
		return string(content[len(bomUTF8):])
	case bytes.HasPrefix(content, []byte(bomLE)):
		return decodeUTF16(content, unicode.LittleEndian)
	case bytes.HasPrefix(content, []byte(bomBE)):
		return decodeUTF16(content, unicode.BigEndian)
	}
	return string(content)
}

// ReadFileHead returns up to limit bytes from the start of path.
func ReadFileHead(path string, limit int64) ([]byte, error) {
	if limit <= 0 {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return io.ReadAll(io.LimitReader(f, limit))
}

func hasBOM(sample []byte) bool {
	return bytes.HasPrefix(sample, []byte(bomUTF8)) ||
		bytes.HasPrefix(sample, []byte(bomLE)) ||
		bytes.HasPrefix(sample, []byte(bomBE))
}

func decodeUTF16(content []byte, endian unicode.Endianness) string {
	out, err := unicode.UTF16(endian, unicode.ExpectBOM).NewDecoder().Bytes(content)
	if err != nil {
		return string(content)
	}
	return string(out)
}
