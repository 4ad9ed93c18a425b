package render

import (
	"github.com/gdamore/tcell/v2"
	fsutil "github.com/kk-code-lab/rpane/internal/fs"
)

// ColorTheme defines application colors.
type ColorTheme struct {
	Background   tcell.Color
	Foreground   tcell.Color
	HiddenFg     tcell.Color
	DirectoryFg  tcell.Color
	SymlinkFg    tcell.Color
	ExecutableFg tcell.Color
	MarkedFg     tcell.Color
	FileFg       tcell.Color
	HeaderBg     tcell.Color
	HeaderFg     tcell.Color
	FooterBg     tcell.Color
	FooterFg     tcell.Color
	MessageFg    tcell.Color
	ErrorFg      tcell.Color
	BinaryFg     tcell.Color
	SeparatorFg  tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		Background:   tcell.ColorDefault,
		Foreground:   tcell.ColorDefault,
		HiddenFg:     tcell.ColorLightSlateGray,
		DirectoryFg:  tcell.Color33,
		SymlinkFg:    tcell.Color51,
		ExecutableFg: tcell.ColorGreen,
		MarkedFg:     tcell.ColorYellow,
		FileFg:       tcell.ColorDefault,
		HeaderBg:     tcell.ColorDefault,
		HeaderFg:     tcell.ColorDefault,
		FooterBg:     tcell.ColorDefault,
		FooterFg:     tcell.ColorDefault,
		MessageFg:    tcell.ColorLightSlateGray,
		ErrorFg:      tcell.ColorRed,
		BinaryFg:     tcell.Color252,
		SeparatorFg:  tcell.Color240,
	}
}

// Base is the style of empty panel cells.
func (t ColorTheme) Base() tcell.Style {
	return tcell.StyleDefault.Background(t.Background).Foreground(t.Foreground)
}

// EntryStyle picks the style for one listing row.
func (t ColorTheme) EntryStyle(entry fsutil.Entry, selected bool) tcell.Style {
	style := t.Base().Foreground(t.FileFg)
	switch {
	case entry.IsDir:
		style = style.Foreground(t.DirectoryFg).Bold(true)
		if entry.IsSymlink {
			style = style.Foreground(t.SymlinkFg)
		}
	case entry.IsSymlink:
		style = style.Foreground(t.SymlinkFg)
	case entry.IsExecutable:
		style = style.Foreground(t.ExecutableFg)
	}
	if entry.IsHidden {
		style = style.Foreground(t.HiddenFg).Dim(true)
	}
	if entry.Marked {
		style = style.Foreground(t.MarkedFg).Bold(true)
	}
	if selected {
		style = style.Reverse(true)
	}
	return style
}
