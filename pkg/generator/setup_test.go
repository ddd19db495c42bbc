package generator

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/NoahDarveau/MarkovMario/pkg/corpus"
	"github.com/NoahDarveau/MarkovMario/pkg/logger"
	"github.com/NoahDarveau/MarkovMario/pkg/tiles"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

const testHeight = 16

// column builds a testHeight column that is solid from ground to the bottom
// (no floor for a negative ground), then applies overrides.
func column(ground int, overrides map[int]byte) string {
	b := []byte(strings.Repeat("-", testHeight))
	for y := ground; y >= 0 && y < testHeight; y++ {
		b[y] = 'X'
	}
	for y, c := range overrides {
		b[y] = c
	}
	return string(b)
}

var (
	colStart  = column(14, map[int]byte{13: 'M'})
	colEnd    = column(14, map[int]byte{13: 'F'})
	colFlat   = column(14, nil)
	colGoomba = column(14, map[int]byte{13: 'g'})
	colKoopa  = column(14, map[int]byte{12: 'K'})
	colPipe   = column(14, map[int]byte{11: 'T', 12: 't', 13: 't'})
	colGap    = column(-1, nil)
	colHigh   = column(5, nil)
	colBrick  = column(14, map[int]byte{9: 'S'})
)

func toColumns(columns ...string) [][]tiles.Tile {
	out := make([][]tiles.Tile, len(columns))
	for i, c := range columns {
		col := make([]tiles.Tile, len(c))
		for y := range c {
			col[y] = tiles.Tile(c[y])
		}
		out[i] = col
	}
	return out
}

// platformerIndex is a small corpus with pipes, enemies, gaps and a tall ledge.
func platformerIndex(t *testing.T) *corpus.Index {
	t.Helper()
	b := corpus.NewBuilder(testHeight)
	require.NoError(t, b.Add("1-1", toColumns(
		colStart, colFlat, colGoomba, colFlat, colPipe, colPipe, colFlat, colGap, colFlat,
		colHigh, colHigh, colFlat, colKoopa, colFlat, colEnd)))
	require.NoError(t, b.Add("1-2", toColumns(
		colStart, colFlat, colFlat, colBrick, colGoomba, colPipe, colPipe, colFlat, colKoopa,
		colFlat, colFlat, colEnd)))
	require.NoError(t, b.Add("1-3", toColumns(
		colStart, colGoomba, colFlat, colHigh, colFlat, colPipe, colPipe, colGap, colGap,
		colFlat, colEnd)))

	idx, err := b.Build()
	require.NoError(t, err)
	return idx
}

// tinyIndex is the three column example level "M--/#--/--F".
func tinyIndex(t *testing.T) *corpus.Index {
	t.Helper()
	b := corpus.NewBuilder(3)
	require.NoError(t, b.AddText("tiny", strings.NewReader("M--\n#--\n--F")))
	idx, err := b.Build()
	require.NoError(t, err)
	return idx
}

func newGenerator(t *testing.T, idx *corpus.Index, policy Policy) *Generator {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Policy = policy
	g, err := New(idx, cfg, nil)
	require.NoError(t, err)
	return g
}
