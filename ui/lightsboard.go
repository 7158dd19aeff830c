// Package ui specifies custom controls for tview to play Lights Out in the terminal.
package ui

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/sirupsen/logrus"

	"lightsout/config"
	"lightsout/engine"
	"lightsout/sound"
	"lightsout/types"
)

const (
	labelWidth = 3 // row numbers on the left
	rowPitch   = 2 // one line of cells, one blank line
)

// style indexes into LightsBoardUI.styles
const (
	styleLit = iota
	styleUnlit
	styleGrid
	styleCursorFG
	styleCursorBG
	styleLastFlip
)

type LightsBoardUI struct {
	Box        *tview.Box
	BoardState *types.BoardState
	hint       *tview.TextView
	cfg        *config.Config
	selRow     int
	selCol     int
	originX    int
	originY    int
	game       engine.Game
	player     sound.Player
	styles     []tcell.Color
	infoPanel  *GameInfoPanel
	seed       uint64
	focusMode  bool
}

// ToggleFocusMode toggles focus mode and returns the new state.
func (g *LightsBoardUI) ToggleFocusMode() bool {
	g.focusMode = !g.focusMode
	g.refreshHint()
	return g.focusMode
}

// SetFocusMode sets focus mode to the given state.
func (g *LightsBoardUI) SetFocusMode(enabled bool) {
	g.focusMode = enabled
	g.refreshHint()
}

// IsFocusMode returns true if focus mode is enabled.
func (g *LightsBoardUI) IsFocusMode() bool {
	return g.focusMode
}

func (g *LightsBoardUI) SelectedTile() *types.BoardPos {
	if g.selRow == -1 && g.selCol == -1 {
		return nil
	}
	return &types.BoardPos{Row: g.selRow, Col: g.selCol}
}

// MoveSelection moves the cursor by the given number of rows and columns.
// The first move places the cursor on the last flipped cell, or the center.
func (g *LightsBoardUI) MoveSelection(dRow, dCol int) {
	if g.BoardState.Won() {
		g.ResetSelection()
		return
	}
	if g.SelectedTile() == nil {
		g.selRow = g.BoardState.LastFlip.Row
		g.selCol = g.BoardState.LastFlip.Col
		if !g.BoardState.LastFlip.Valid() {
			g.selRow = g.BoardState.Height() / 2
			g.selCol = g.BoardState.Width() / 2
		}
		return
	}
	if g.selRow+dRow < 0 || g.selRow+dRow >= g.BoardState.Height() {
		return
	}
	if g.selCol+dCol < 0 || g.selCol+dCol >= g.BoardState.Width() {
		return
	}
	g.selRow += dRow
	g.selCol += dCol
}

func (g *LightsBoardUI) ResetSelection() {
	g.selRow = -1
	g.selCol = -1
}

func NewLightsBoard(c *config.Config, hint *tview.TextView, player sound.Player) *LightsBoardUI {
	if player == nil {
		player = sound.Nop{}
	}
	lb := &LightsBoardUI{
		Box:        tview.NewBox(),
		BoardState: &types.BoardState{LastFlip: types.NoPos},
		hint:       hint,
		player:     player,
		selRow:     -1,
		selCol:     -1,
	}
	lb.SetConfig(c)
	lb.Box.SetDrawFunc(func(screen tcell.Screen, x int, y int, width int, height int) (int, int, int, int) {
		lb.originX, lb.originY = x, y
		if lb.BoardState == nil || lb.BoardState.Width() == 0 {
			return x, y, 1, 1
		}
		if lb.BoardState.Won() {
			drawWinMessage(screen, x+labelWidth, y, lb)
			return x, y, width, height
		}

		cw := lb.cfg.Theme.CellWidth
		for row, cells := range lb.Cells() {
			for col, cell := range cells {
				fg, bg := lb.styles[styleUnlit], tcell.ColorDefault
				drawRune := lb.cfg.Theme.Symbols.Unlit
				if cell.IsLit {
					fg = lb.styles[styleLit]
					drawRune = lb.cfg.Theme.Symbols.Lit
				}
				if row == lb.selRow && col == lb.selCol {
					if lb.cfg.Theme.DrawCursorBackground {
						bg = lb.styles[styleCursorBG]
					} else {
						drawRune = lb.cfg.Theme.Symbols.Cursor
					}
				} else if lb.cfg.Theme.DrawLastFlipBackground &&
					row == lb.BoardState.LastFlip.Row && col == lb.BoardState.LastFlip.Col {
					bg = lb.styles[styleLastFlip]
				}
				cx, cy := lb.cellOrigin(row, col)
				cell.Draw(screen, cx, cy, cw, drawRune, tcell.StyleDefault.Foreground(fg).Background(bg))
			}
		}
		drawCoordinates(screen, x, y, lb)
		w, h := lb.boardSize()
		return x, y, w, h
	})
	lb.Box.SetMouseCapture(func(action tview.MouseAction, event *tcell.EventMouse) (tview.MouseAction, *tcell.EventMouse) {
		if action != tview.MouseLeftClick {
			return action, event
		}
		mx, my := event.Position()
		if lb.HandleClick(mx, my) {
			return tview.MouseConsumed, nil
		}
		return action, event
	})
	return lb
}

// Cells builds the cell views for the current state. Each cell flips its
// own position when clicked.
func (g *LightsBoardUI) Cells() [][]Cell {
	cells := make([][]Cell, g.BoardState.Height())
	for row := range cells {
		cells[row] = make([]Cell, g.BoardState.Width())
		for col := range cells[row] {
			pos := types.BoardPos{Row: row, Col: col}
			cells[row][col] = Cell{
				IsLit:   g.BoardState.IsLit(pos),
				OnClick: func() { g.Flip(pos) },
			}
		}
	}
	return cells
}

// cellOrigin returns the screen position of the top-left character of a cell.
func (g *LightsBoardUI) cellOrigin(row, col int) (int, int) {
	return g.originX + labelWidth + col*(g.cfg.Theme.CellWidth+1), g.originY + row*rowPitch
}

// boardSize returns the drawn width and height including coordinates.
func (g *LightsBoardUI) boardSize() (int, int) {
	return labelWidth + g.BoardState.Width()*(g.cfg.Theme.CellWidth+1), g.BoardState.Height()*rowPitch + 1
}

// CellAt maps a screen position to the cell under it. Gaps between cells
// and the coordinate labels map to nothing.
func (g *LightsBoardUI) CellAt(x, y int) (types.BoardPos, bool) {
	pitch := g.cfg.Theme.CellWidth + 1
	rx := x - g.originX - labelWidth
	ry := y - g.originY
	if rx < 0 || ry < 0 || rx%pitch == pitch-1 || ry%rowPitch != 0 {
		return types.NoPos, false
	}
	pos := types.BoardPos{Row: ry / rowPitch, Col: rx / pitch}
	if pos.Row >= g.BoardState.Height() || pos.Col >= g.BoardState.Width() {
		return types.NoPos, false
	}
	return pos, true
}

// HandleClick clicks the cell at the screen position. Returns true if a cell was hit.
func (g *LightsBoardUI) HandleClick(x, y int) bool {
	if g.BoardState.Won() {
		return false
	}
	pos, ok := g.CellAt(x, y)
	if !ok {
		return false
	}
	g.selRow, g.selCol = pos.Row, pos.Col
	g.Cells()[pos.Row][pos.Col].Click()
	return true
}

// ConnectGame attaches the board to a game session.
func (g *LightsBoardUI) ConnectGame(game engine.Game) {
	g.game = game
	g.ResetSelection()

	game.OnFlip(func(pos types.BoardPos, state *types.BoardState) {
		brighter := state.Lit > g.BoardState.Lit
		g.BoardState = state
		g.player.Flip(brighter)
		g.refreshHint()
	})

	game.OnWin(func(state *types.BoardState) {
		g.BoardState = state
		g.ResetSelection()
		g.player.Win()
		g.refreshHint()
	})

	g.BoardState = game.GetBoardState()
	g.refreshHint()
}

// Flip flips the lights around pos.
func (g *LightsBoardUI) Flip(pos types.BoardPos) {
	if g.game == nil {
		return
	}
	if err := g.game.Flip(pos); err != nil && !errors.Is(err, engine.ErrGameOver) {
		logrus.WithError(err).Warn("flip failed")
	}
}

// FlipSelected flips around the cursor, placing the cursor first if needed.
func (g *LightsBoardUI) FlipSelected() {
	sel := g.SelectedTile()
	if sel == nil {
		g.MoveSelection(0, 0)
		return
	}
	g.Flip(*sel)
}

func (g *LightsBoardUI) SetConfig(c *config.Config) {
	g.styles = []tcell.Color{
		tcell.PaletteColor(c.Theme.Colors.LitColor),      // 0
		tcell.PaletteColor(c.Theme.Colors.UnlitColor),    // 1
		tcell.PaletteColor(c.Theme.Colors.GridColor),     // 2
		tcell.PaletteColor(c.Theme.Colors.CursorColorFG), // 3
		tcell.PaletteColor(c.Theme.Colors.CursorColorBG), // 4
		tcell.PaletteColor(c.Theme.Colors.LastFlipBG),    // 5
	}
	g.cfg = c
}

// SetSeed shows the seed on the info panel.
func (g *LightsBoardUI) SetSeed(seed uint64) {
	g.seed = seed
	if g.infoPanel != nil {
		g.infoPanel.SetSeed(seed)
	}
}

func (g *LightsBoardUI) refreshHint() {
	if g.infoPanel != nil {
		g.infoPanel.SetBoardState(g.BoardState)
	}
	if g.hint == nil {
		return
	}

	if g.focusMode {
		g.hint.SetText("  f to toggle")
		return
	}

	var statusLine, controlsLine string
	if g.BoardState.Won() {
		statusLine = fmt.Sprintf("  ★ Board cleared in %d moves\n", g.BoardState.Moves)
		controlsLine = "  n new game   q menu"
	} else {
		statusLine = fmt.Sprintf("  ● %d lit\n", g.BoardState.Lit)
		controlsLine = "  hjkl/↑↓←→ move   ⏎/space flip   n new   f focus   q menu"
	}
	g.hint.SetText(statusLine + controlsLine)
}

// IsWon returns true if the connected game is cleared.
func (g *LightsBoardUI) IsWon() bool {
	return g.BoardState.Won()
}

func drawWinMessage(s tcell.Screen, x, y int, ui *LightsBoardUI) {
	style := tcell.StyleDefault.Foreground(ui.styles[styleLit]).Bold(true)
	for i, ch := range "You WIN!" {
		s.SetContent(x+i, y, ch, nil, style)
	}
	sub := fmt.Sprintf("%d moves", ui.BoardState.Moves)
	for i, ch := range sub {
		s.SetContent(x+i, y+1, ch, nil, tcell.StyleDefault.Foreground(ui.styles[styleGrid]))
	}
}

func drawCoordinates(s tcell.Screen, x, y int, ui *LightsBoardUI) {
	w, h := ui.BoardState.Width(), ui.BoardState.Height()
	cw := ui.cfg.Theme.CellWidth

	style := tcell.StyleDefault.Foreground(ui.styles[styleGrid])
	highlight := tcell.StyleDefault.Foreground(ui.styles[styleCursorFG]).Background(ui.styles[styleCursorBG])

	for col := 0; col < w; col++ {
		_style := style
		if col == ui.selCol {
			_style = highlight
		}
		cx := x + labelWidth + col*(cw+1) + cw/2
		s.SetContent(cx, y+h*rowPitch, rune('A'+col%26), nil, _style)
	}

	for row := 0; row < h; row++ {
		_style := style
		if row == ui.selRow {
			_style = highlight
		}
		displayNum := row + 1
		tensRune := ' '
		if displayNum >= 10 {
			tensRune = rune('0' + (displayNum/10)%10)
		}
		s.SetContent(x, y+row*rowPitch, tensRune, nil, _style)
		s.SetContent(x+1, y+row*rowPitch, rune('0'+(displayNum%10)), nil, _style)
	}
}
