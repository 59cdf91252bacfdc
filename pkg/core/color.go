package core

// Color is one of the fixed palette names.
type Color string

const (
	ColorDefault Color = "default"
	ColorYellow  Color = "yellow"
	ColorOrange  Color = "orange"
	ColorRed     Color = "red"
	ColorPurple  Color = "purple"
	ColorBlue    Color = "blue"
	ColorTeal    Color = "teal"
	ColorGreen   Color = "green"
	ColorBrown   Color = "brown"
	ColorGray    Color = "gray"
	ColorPink    Color = "pink"
)

// Palette lists the colors in picker order.
var Palette = []Color{
	ColorDefault,
	ColorYellow,
	ColorOrange,
	ColorRed,
	ColorPurple,
	ColorBlue,
	ColorTeal,
	ColorGreen,
	ColorBrown,
	ColorGray,
	ColorPink,
}

// IsPalette reports whether name is exactly one of the palette names.
func IsPalette(name string) bool {
	for _, c := range Palette {
		if string(c) == name {
			return true
		}
	}
	return false
}

// ResolveColor maps a stored color to a palette entry.
// Writes are never validated, so unknown or empty values land here and
// fall back to ColorDefault.
func ResolveColor(name string) Color {
	if IsPalette(name) {
		return Color(name)
	}
	return ColorDefault
}
