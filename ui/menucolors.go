package ui

import "github.com/gdamore/tcell/v2"

// MenuColors defines the Nord-inspired color palette for the setup screen.
var MenuColors = struct {
	Hint       tcell.Color // Dim gray for hints
	Error      tcell.Color // Red for validation errors
	ButtonBG   tcell.Color // Button background
	ButtonText tcell.Color // Button text
}{
	Hint:       tcell.PaletteColor(245), // Dim gray
	Error:      tcell.PaletteColor(167), // Muted red
	ButtonBG:   tcell.PaletteColor(60),  // Nord blue
	ButtonText: tcell.PaletteColor(255), // White
}
