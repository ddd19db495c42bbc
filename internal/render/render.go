package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/NoahDarveau/MarkovMario/pkg/level"
	"github.com/NoahDarveau/MarkovMario/pkg/tiles"
)

var categoryStyles = map[tiles.Category]tcell.Style{
	tiles.CategoryBackground:  tcell.StyleDefault,
	tiles.CategoryMarker:      tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorRed).Bold(true),
	tiles.CategorySolid:       tcell.StyleDefault.Foreground(tcell.ColorOlive),
	tiles.CategoryPipe:        tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true),
	tiles.CategoryEnemy:       tcell.StyleDefault.Foreground(tcell.ColorRed),
	tiles.CategoryCollectible: tcell.StyleDefault.Foreground(tcell.ColorYellow),
	tiles.CategoryOther:       tcell.StyleDefault.Foreground(tcell.ColorPurple),
}

var statusStyle = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)

// Renderer draws level grids onto a tcell screen, one cell per tile.
type Renderer struct {
	screen tcell.Screen
}

func New(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen}
}

// StyleFor returns the style used for t.
func StyleFor(t tiles.Tile) tcell.Style {
	return categoryStyles[tiles.CategoryOf(t)]
}

// Glyph is the rune shown for t. Background is drawn blank.
func Glyph(t tiles.Tile) rune {
	if t == tiles.Empty {
		return ' '
	}
	return rune(t)
}

// ViewWidth is the number of level columns that fit on screen.
func (r *Renderer) ViewWidth() int {
	w, _ := r.screen.Size()
	return w
}

// ClampOffset keeps a horizontal scroll offset inside the level.
func ClampOffset(offset, levelWidth, viewWidth int) int {
	if last := levelWidth - viewWidth; offset > last {
		offset = last
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

// Draw paints columns offset.. of g from the top row and writes status on the last screen row.
func (r *Renderer) Draw(g level.Grid, offset int, status string) {
	r.screen.Clear()
	w, h := r.screen.Size()

	rows := g.Height()
	if rows > h-1 {
		rows = h - 1
	}
	for y := 0; y < rows; y++ {
		for sx := 0; sx < w; sx++ {
			x := offset + sx
			if x >= g.Width() {
				break
			}
			t := g.Cell(x, y)
			r.screen.SetContent(sx, y, Glyph(t), nil, StyleFor(t))
		}
	}

	if h > 0 {
		for sx := 0; sx < w; sx++ {
			r.screen.SetContent(sx, h-1, ' ', nil, statusStyle)
		}
		for sx, c := range []rune(status) {
			if sx >= w {
				break
			}
			r.screen.SetContent(sx, h-1, c, nil, statusStyle)
		}
	}
	r.screen.Show()
}
