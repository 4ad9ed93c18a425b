package panel

// Command is a navigation intent applied to the panel set.
type Command interface {
	command()
}

// MoveUp moves the selection N rows up.
type MoveUp struct{ N int }

// MoveDown moves the selection N rows down.
type MoveDown struct{ N int }

// Enter descends into the selected directory.
type Enter struct{}

// Parent ascends to the parent directory.
type Parent struct{}

// ToggleHidden shows or hides hidden entries in every panel.
type ToggleHidden struct{}

// ToggleMark flips the mark on the selected entry.
type ToggleMark struct{}

// Reload re-reads every visible panel, bypassing the cache.
type Reload struct{}

// Quit ends the session.
type Quit struct{}

func (MoveUp) command()       {}
func (MoveDown) command()     {}
func (Enter) command()        {}
func (Parent) command()       {}
func (ToggleHidden) command() {}
func (ToggleMark) command()   {}
func (Reload) command()       {}
func (Quit) command()         {}
