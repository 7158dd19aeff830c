package ui

import (
	"github.com/gdamore/tcell/v2"
)

// Cell is one light on the board. It knows whether it is lit and who to tell
// when it is clicked; everything else lives in the board.
type Cell struct {
	IsLit   bool
	OnClick func()
}

// Click forwards the click to the handler, if any.
func (c Cell) Click() {
	if c.OnClick != nil {
		c.OnClick()
	}
}

// Draw renders the cell as width copies of r starting at (x, y).
func (c Cell) Draw(screen tcell.Screen, x, y, width int, r rune, style tcell.Style) {
	for i := 0; i < width; i++ {
		screen.SetContent(x+i, y, r, nil, style)
	}
}
