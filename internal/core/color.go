package core

// Color is a terminal color specification for a screen cell.
// It holds either an ANSI 256-color code ("245") or a hex value ("#FF6384");
// the empty string means the terminal default.
type Color string

// Colors used for chrome around the playfield.
const (
	ColorDefault Color = ""
	ColorWhite   Color = "15"
	ColorGray    Color = "245"
	ColorDim     Color = "238"
)
