//go:build !windows

package fs

// IsHidden reports whether name should be treated as hidden.
func IsHidden(_ string, name string) bool {
	return hiddenByName(name)
}

// ShouldHideFromListing reports entries that never appear, even with hidden
// files shown. Nothing qualifies outside Windows.
func ShouldHideFromListing(_, _ string) bool {
	return false
}
