package corpus

import (
	"fmt"
	"io"

	"github.com/NoahDarveau/MarkovMario/pkg/tiles"
)

// ParseColumns reads one level in the text format (one line per row) and returns it
// column by column. '\r' and NUL bytes are ignored, trailing blank lines are allowed.
// The first row fixes the column count; every row must match it and the level must
// have exactly height rows.
func ParseColumns(r io.Reader, height int) ([][]tiles.Tile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Err: ErrMalformedLevel, Reason: err.Error()}
	}

	var rows [][]byte
	var row []byte
	for _, c := range data {
		switch c {
		case '\r', 0:
			continue
		case '\n':
			rows = append(rows, row)
			row = nil
		default:
			row = append(row, c)
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	for len(rows) > 0 && len(rows[len(rows)-1]) == 0 {
		rows = rows[:len(rows)-1]
	}

	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, &ParseError{Line: 1, Err: ErrEmptyLevel}
	}

	width := len(rows[0])
	for y, rw := range rows {
		if len(rw) != width {
			return nil, &ParseError{
				Line:   y + 1,
				Err:    ErrMalformedLevel,
				Reason: fmt.Sprintf("row has %d tiles, first row has %d", len(rw), width),
			}
		}
	}
	if len(rows) != height {
		return nil, &ParseError{
			Err:    ErrMalformedLevel,
			Reason: fmt.Sprintf("got %d rows, want %d", len(rows), height),
		}
	}

	columns := make([][]tiles.Tile, width)
	for x := range columns {
		col := make([]tiles.Tile, height)
		for y := 0; y < height; y++ {
			col[y] = tiles.Tile(rows[y][x])
		}
		columns[x] = col
	}
	return columns, nil
}
