package fs

import "strings"

var swapSuffixes = []string{".swp", ".swo", ".swx", "~"}

// hiddenByName applies the name-based hiding rule shared by all platforms:
// dot files, dunder files and editor swap/backup files.
func hiddenByName(name string) bool {
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "__") {
		return true
	}
	for _, suffix := range swapSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
