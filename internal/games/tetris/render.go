package tetris

import (
	"fmt"

	"github.com/vovakirdan/tetrus/internal/core"
)

// Layout constants, in screen cells.
const (
	cellWidth  = 2 // each board cell is drawn two characters wide
	panelGap   = 2
	panelWidth = 14
	previewH   = 6
)

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	e := g.engine
	board := e.Board()
	boxW := board.Width()*cellWidth + 2
	boxH := board.Height() + 2

	ox := max((dst.Width()-(boxW+panelGap+panelWidth))/2, 0)
	oy := max((dst.Height()-boxH)/2, 0)

	dst.DrawBox(core.NewRect(ox, oy, boxW, boxH))
	g.drawBoard(dst, ox+1, oy+1)
	g.drawPanel(dst, ox+boxW+panelGap, oy)

	if e.Over() {
		g.drawCenteredMessage(dst, "GAME OVER", fmt.Sprintf("Score: %d - R to restart", e.Score()))
	} else if g.paused {
		g.drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}
}

func drawCell(dst *core.Screen, x, y int, r rune, c core.Color) {
	for i := range cellWidth {
		dst.SetColor(x+i, y, r, c)
	}
}

func drawDimCell(dst *core.Screen, x, y int, r rune, c core.Color) {
	for i := range cellWidth {
		dst.SetDim(x+i, y, r, c)
	}
}

// drawBoard draws locked cells, then the ghost, then the falling piece.
func (g *Game) drawBoard(dst *core.Screen, x0, y0 int) {
	e := g.engine
	board := e.Board()

	for y := range board.Height() {
		for x := range board.Width() {
			sx := x0 + x*cellWidth
			if c, ok := board.ColorAt(x, y); ok {
				drawCell(dst, sx, y0+y, BlockChar, c)
			} else {
				dst.SetDim(sx, y0+y, EmptyChar, core.ColorGray)
			}
		}
	}

	if e.Over() {
		return
	}

	cur := e.Current()
	for _, b := range e.Ghost() {
		if board.inside(b.X, b.Y) {
			drawDimCell(dst, x0+b.X*cellWidth, y0+b.Y, GhostChar, cur.Color())
		}
	}
	for _, b := range cur.Blocks() {
		if board.inside(b.X, b.Y) {
			drawCell(dst, x0+b.X*cellWidth, y0+b.Y, BlockChar, cur.Color())
		}
	}
}

// drawPanel draws the next-piece preview and the HUD.
func (g *Game) drawPanel(dst *core.Screen, x0, y0 int) {
	e := g.engine

	dst.DrawBox(core.NewRect(x0, y0, panelWidth, previewH))
	dst.DrawText(x0+2, y0, " NEXT ")

	next := e.Next()
	blocks := next.Blocks()
	minX, minY := blocks[0].X, blocks[0].Y
	maxX, maxY := minX, minY
	for _, b := range blocks {
		minX, maxX = min(minX, b.X), max(maxX, b.X)
		minY, maxY = min(minY, b.Y), max(maxY, b.Y)
	}
	pw := (maxX - minX + 1) * cellWidth
	ph := maxY - minY + 1
	px := x0 + (panelWidth-pw)/2
	py := y0 + 1 + (previewH-2-ph)/2
	for _, b := range blocks {
		drawCell(dst, px+(b.X-minX)*cellWidth, py+b.Y-minY, BlockChar, next.Color())
	}

	y := y0 + previewH + 1
	dst.DrawText(x0, y, "SCORE")
	dst.DrawTextColor(x0, y+1, fmt.Sprintf("%d", e.Score()), core.ColorBrightYellow)
	dst.DrawText(x0, y+3, "LINES")
	dst.DrawTextColor(x0, y+4, fmt.Sprintf("%d", e.Lines()), core.ColorBrightCyan)
	dst.DrawText(x0, y+6, "LEVEL")
	dst.DrawTextColor(x0, y+7, fmt.Sprintf("%d", g.Level()), core.ColorBrightGreen)

	dst.DrawTextColor(x0, y+9, g.variant.Title, core.ColorGray)
}

// drawCenteredMessage draws a message box in the center of the screen.
func (g *Game) drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	// Calculate box dimensions
	boxW := max(len(title), len(subtitle)) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	// Draw box
	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	// Draw text
	titleX := boxX + (boxW-len(title))/2
	dst.DrawTextColor(titleX, boxY+1, title, core.ColorBrightWhite)

	subtitleX := boxX + (boxW-len(subtitle))/2
	dst.DrawText(subtitleX, boxY+3, subtitle)
}
