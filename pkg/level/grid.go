package level

import (
	"errors"
	"fmt"
	"strings"

	"github.com/NoahDarveau/MarkovMario/pkg/tiles"
)

// Grid is the mutable 2-D level the generator writes into.
// Row 0 is the top of the screen.
type Grid interface {
	Width() int
	Height() int
	Cell(x, y int) tiles.Tile
	SetCell(x, y int, t tiles.Tile)
	Clear()
}

var ErrRaggedRows = errors.New("rows have different lengths")

// Map is the in-memory Grid implementation.
type Map struct {
	width  int
	height int
	cells  []tiles.Tile
}

// New creates a width x height map filled with tiles.Empty.
func New(width, height int) *Map {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	m := &Map{
		width:  width,
		height: height,
		cells:  make([]tiles.Tile, width*height),
	}
	m.Clear()
	return m
}

// Parse reads the row-per-line text format. A trailing newline is allowed, '\r' is dropped.
func Parse(text string) (*Map, error) {
	text = strings.ReplaceAll(text, "\r", "")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return New(0, 0), nil
	}

	rows := strings.Split(text, "\n")
	width := len(rows[0])
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("row %d: %w", i, ErrRaggedRows)
		}
	}

	m := New(width, len(rows))
	for y, row := range rows {
		for x := 0; x < width; x++ {
			m.SetCell(x, y, tiles.Tile(row[x]))
		}
	}
	return m, nil
}

func (m *Map) Width() int  { return m.width }
func (m *Map) Height() int { return m.height }

func (m *Map) inBounds(x, y int) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}

// Cell returns tiles.Empty outside the map.
func (m *Map) Cell(x, y int) tiles.Tile {
	if !m.inBounds(x, y) {
		return tiles.Empty
	}
	return m.cells[y*m.width+x]
}

// SetCell ignores writes outside the map.
func (m *Map) SetCell(x, y int, t tiles.Tile) {
	if !m.inBounds(x, y) {
		return
	}
	m.cells[y*m.width+x] = t
}

func (m *Map) Clear() {
	for i := range m.cells {
		m.cells[i] = tiles.Empty
	}
}

// Column returns column x top to bottom.
func (m *Map) Column(x int) string {
	var sb strings.Builder
	sb.Grow(m.height)
	for y := 0; y < m.height; y++ {
		sb.WriteByte(byte(m.Cell(x, y)))
	}
	return sb.String()
}

func (m *Map) Rows() []string {
	rows := make([]string, m.height)
	for y := 0; y < m.height; y++ {
		row := make([]byte, m.width)
		for x := 0; x < m.width; x++ {
			row[x] = byte(m.Cell(x, y))
		}
		rows[y] = string(row)
	}
	return rows
}

func (m *Map) Clone() *Map {
	c := &Map{width: m.width, height: m.height, cells: make([]tiles.Tile, len(m.cells))}
	copy(c.cells, m.cells)
	return c
}

// String renders the map in the corpus text format, one line per row.
func (m *Map) String() string {
	return strings.Join(m.Rows(), "\n")
}

// ColumnOf reads column x of any Grid.
func ColumnOf(g Grid, x int) string {
	buf := make([]byte, g.Height())
	for y := range buf {
		buf[y] = byte(g.Cell(x, y))
	}
	return string(buf)
}
