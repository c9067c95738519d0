package models

// Color is a display-only tag attached to a branch.
type Color string

const (
	ColorDefault Color = ""
	ColorViolet  Color = "violet"
	ColorGreen   Color = "green"
	ColorRed     Color = "red"
	ColorBlue    Color = "blue"
)

// CSS returns the stroke/fill value renderers should use for the color.
func (c Color) CSS() string {
	if c == ColorDefault {
		return "#888"
	}
	return string(c)
}
