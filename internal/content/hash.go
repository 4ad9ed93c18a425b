package content

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	fsutil "github.com/kk-code-lab/rpane/internal/fs"
)

// hashEntries digests the display-relevant fields of entries. Marks are UI
// state and do not contribute.
func hashEntries(entries []fsutil.Entry) uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, entry := range entries {
		_, _ = d.WriteString(entry.Name)
		_, _ = d.Write([]byte{0, flagByte(entry)})
		_, _ = d.WriteString(entry.Suffix)
		binary.LittleEndian.PutUint64(buf[:], uint64(entry.Modified.UnixNano()))
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

func flagByte(entry fsutil.Entry) byte {
	var b byte
	if entry.IsDir {
		b |= 1
	}
	if entry.IsSymlink {
		b |= 2
	}
	if entry.IsExecutable {
		b |= 4
	}
	if entry.IsHidden {
		b |= 8
	}
	return b
}

func hashLines(lines []string) uint64 {
	d := xxhash.New()
	for _, line := range lines {
		_, _ = d.WriteString(line)
		_, _ = d.Write([]byte{'\n'})
	}
	return d.Sum64()
}
