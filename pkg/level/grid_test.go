package level

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NoahDarveau/MarkovMario/pkg/tiles"
)

func TestNew_FilledWithEmpty(t *testing.T) {
	m := New(4, 2)
	require.Equal(t, 4, m.Width())
	require.Equal(t, 2, m.Height())
	assert.Equal(t, "----\n----", m.String())
}

func TestMap_Bounds(t *testing.T) {
	m := New(2, 2)
	m.SetCell(-1, 0, tiles.Ground)
	m.SetCell(2, 0, tiles.Ground)
	m.SetCell(0, 5, tiles.Ground)

	assert.Equal(t, "--\n--", m.String(), "out of range writes must be ignored")
	assert.Equal(t, tiles.Empty, m.Cell(10, 10))
}

func TestParse(t *testing.T) {
	m, err := Parse("M--\r\n#--\r\n--F\n")
	require.NoError(t, err)

	assert.Equal(t, 3, m.Width())
	assert.Equal(t, 3, m.Height())
	assert.Equal(t, "M#-", m.Column(0))
	assert.Equal(t, "---", m.Column(1))
	assert.Equal(t, "--F", m.Column(2))
	assert.Equal(t, []string{"M--", "#--", "--F"}, m.Rows())
	assert.Equal(t, "--F", ColumnOf(m, 2))
}

func TestParse_Ragged(t *testing.T) {
	_, err := Parse("---\n--\n")
	require.ErrorIs(t, err, ErrRaggedRows)
}

func TestParse_Empty(t *testing.T) {
	m, err := Parse("")
	require.NoError(t, err)
	assert.Equal(t, 0, m.Width())
}

func TestMap_CloneAndClear(t *testing.T) {
	m := New(2, 1)
	m.SetCell(0, 0, tiles.Ground)

	c := m.Clone()
	m.Clear()

	assert.Equal(t, "--", m.String())
	assert.Equal(t, "X-", c.String())
}
