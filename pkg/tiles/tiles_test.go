package tiles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSolid(t *testing.T) {
	for _, c := range []Tile{'X', '#', '@', '!', 'B', 'C', 'Q', '<', '>', '[', ']', '?', 'S', 'U', 'D', '%', 't', 'T'} {
		assert.True(t, IsSolid(c), "expected %q to be solid", c)
	}
	for _, c := range []Tile{Empty, Start, End, Coin, Goomba, '|', '*'} {
		assert.False(t, IsSolid(c), "expected %q to be non-solid", c)
	}
}

func TestPipes(t *testing.T) {
	assert.True(t, IsContinuablePipe(PipeTop))
	assert.True(t, IsContinuablePipe(PipeBody))
	assert.False(t, IsContinuablePipe(PipeTopLeft))

	assert.True(t, IsPipe(PipeTopLeft))
	assert.True(t, IsPipe(PipeBodyRight))
	assert.False(t, IsPipe(Ground))
}

func TestEnemies(t *testing.T) {
	list := Enemies()
	assert.Len(t, list, 8)
	for _, e := range list {
		assert.True(t, IsEnemy(e))
	}
	assert.False(t, IsEnemy(Ground))

	// Mutating the returned slice must not leak into the legend.
	list[0] = Ground
	assert.True(t, IsEnemy(Goomba))
	assert.False(t, IsEnemy(Ground))
}

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		name string
		tile Tile
		want Category
	}{
		{"start marker", Start, CategoryMarker},
		{"end marker", End, CategoryMarker},
		{"background", Empty, CategoryBackground},
		{"pipe body", PipeBody, CategoryPipe},
		{"pipe edge", PipeBodyLeft, CategoryPipe},
		{"ground", Ground, CategorySolid},
		{"enemy", RedKoopaWinged, CategoryEnemy},
		{"coin", Coin, CategoryCollectible},
		{"unknown", '~', CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CategoryOf(tt.tile))
		})
	}
}

func TestTile_String(t *testing.T) {
	assert.Equal(t, "X", Ground.String())
	assert.Equal(t, "\\x00", Tile(0).String())
	assert.Equal(t, "\\x0A", Tile('\n').String())
	assert.Equal(t, "SOLID", CategorySolid.String())
	assert.Equal(t, "UNKNOWN", Category(200).String())
}
