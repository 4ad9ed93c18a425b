//go:build windows

package fs

// IsHidden reports whether the entry is hidden either by name or by the
// Windows hidden attribute.
func IsHidden(fullPath string, name string) bool {
	if hiddenByName(name) {
		return true
	}
	attrs, err := getFileAttributes(fullPath, name)
	if err != nil {
		return false
	}
	return attrs&fileAttributeHidden != 0
}

// ShouldHideFromListing reports entries that never appear, even with hidden
// files shown (system reparse points such as the legacy profile junctions).
func ShouldHideFromListing(fullPath, name string) bool {
	attrs, err := getFileAttributes(fullPath, name)
	if err != nil {
		return false
	}
	const protected = fileAttributeSystem | fileAttributeReparsePoint
	return attrs&protected == protected
}
