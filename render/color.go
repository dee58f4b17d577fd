package render

import "newsview/block"

const (
	LightText = "#020617"
	DarkText  = "#e5e7eb"

	accentColor    = "#3b82f6"
	highlightColor = "#fde047"
)

// ColorFor returns effective text color of the block. Custom color is used
// verbatim when flagged, otherwise theme default applies and anything but
// dark theme means light.
func ColorFor(b block.Block, theme block.Theme) string {
	if s := b.Base().Styles; s != nil && s.IsCustomColor {
		return s.Color.String()
	}
	if theme.IsDark() {
		return DarkText
	}
	return LightText
}
