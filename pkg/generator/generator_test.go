package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NoahDarveau/MarkovMario/pkg/corpus"
	"github.com/NoahDarveau/MarkovMario/pkg/level"
	"github.com/NoahDarveau/MarkovMario/pkg/tiles"
)

func TestGenerate_ExampleLevel(t *testing.T) {
	g := newGenerator(t, tinyIndex(t), PolicyStrict)

	grid := level.New(3, 3)
	rep, err := g.GenerateSeed(grid, 42)
	require.NoError(t, err)

	assert.Equal(t, "M--\n#--\n--F", grid.String())
	assert.Equal(t, []int{0, 1, 2}, rep.Path)
	assert.Equal(t, 3, rep.Columns)
	assert.Equal(t, int64(42), rep.Seed)
	assert.Equal(t, "strict", rep.Policy)
}

func TestGenerate_Deterministic(t *testing.T) {
	idx := platformerIndex(t)

	for _, p := range []Policy{PolicyStrict, PolicyOrganic, PolicyGuarded, PolicyRaw} {
		t.Run(p.Name, func(t *testing.T) {
			g := newGenerator(t, idx, p)
			a, b := level.New(80, testHeight), level.New(80, testHeight)

			ra, err := g.GenerateSeed(a, 1234)
			require.NoError(t, err)
			rb, err := g.GenerateSeed(b, 1234)
			require.NoError(t, err)

			assert.Equal(t, a.String(), b.String())
			assert.Equal(t, ra, rb)
		})
	}
}

func TestGenerate_DifferentSeedsDiffer(t *testing.T) {
	g := newGenerator(t, platformerIndex(t), PolicyStrict)
	a, b := level.New(80, testHeight), level.New(80, testHeight)

	_, err := g.GenerateSeed(a, 1)
	require.NoError(t, err)
	_, err = g.GenerateSeed(b, 2)
	require.NoError(t, err)
	assert.NotEqual(t, a.String(), b.String())
}

// TestGenerate_Invariants checks the playability guarantees over many seeds.
func TestGenerate_Invariants(t *testing.T) {
	idx := platformerIndex(t)
	cfg := DefaultConfig()

	for _, p := range []Policy{PolicyStrict, PolicyOrganic, PolicyGuarded} {
		t.Run(p.Name, func(t *testing.T) {
			g := newGenerator(t, idx, p)

			for seed := int64(1); seed <= 150; seed++ {
				grid := level.New(60, testHeight)
				rep, err := g.GenerateSeed(grid, seed)
				require.NoError(t, err)

				requireMarkers(t, idx, grid, rep, seed)
				requireSpawnSafe(t, grid, cfg.SpawnZone, seed)

				// Pipe continuity: the parity rule finds nothing left to repair.
				require.Zero(t, NewRepairer(cfg, nil).FixPipes(grid.Clone(), rep.Columns), "seed %d", seed)

				requireReachable(t, grid, rep.Columns, cfg, seed)

				if p.Termination == TerminateForced {
					require.Equal(t, 60, rep.Columns)
				}
			}
		})
	}
}

func TestGenerate_OrganicLeavesTailEmpty(t *testing.T) {
	g := newGenerator(t, tinyIndex(t), PolicyOrganic)
	grid := level.New(8, 3)

	rep, err := g.GenerateSeed(grid, 5)
	require.NoError(t, err)
	assert.True(t, rep.Organic)
	assert.Equal(t, 3, rep.Columns)
	assert.Equal(t, []string{"M-------", "#-------", "--F-----"}, grid.Rows())
}

func TestGenerate_RawSkipsRepairs(t *testing.T) {
	idx := platformerIndex(t)
	raw := newGenerator(t, idx, PolicyRaw)
	strict := newGenerator(t, idx, PolicyStrict)

	removed := 0
	for seed := int64(1); seed <= 30; seed++ {
		a, b := level.New(40, testHeight), level.New(40, testHeight)
		ra, err := raw.GenerateSeed(a, seed)
		require.NoError(t, err)
		rs, err := strict.GenerateSeed(b, seed)
		require.NoError(t, err)

		assert.Zero(t, ra.RepairStats)
		// Same walk, only the repairs differ.
		assert.Equal(t, ra.Path, rs.Path)
		removed += rs.EnemiesRemoved
	}
	assert.Positive(t, removed, "the corpus puts enemies close to the start")
}

func TestGenerate_Errors(t *testing.T) {
	g := newGenerator(t, tinyIndex(t), PolicyStrict)

	grid := level.New(5, 4)
	grid.SetCell(0, 0, tiles.Ground)
	_, err := g.GenerateSeed(grid, 1)
	assert.ErrorIs(t, err, ErrHeightMismatch)
	assert.Equal(t, tiles.Ground, grid.Cell(0, 0), "grid must be untouched on error")

	_, err = g.GenerateSeed(level.New(1, 3), 1)
	assert.ErrorIs(t, err, ErrInvalidWidth)

	b := corpus.NewBuilder(3)
	require.NoError(t, b.AddText("no-filler", strings.NewReader("M-\n--\n-F")))
	idx, err := b.Build()
	require.NoError(t, err)

	grid = level.New(4, 3)
	grid.SetCell(1, 1, tiles.Ground)
	_, err = newGenerator(t, idx, PolicyStrict).GenerateSeed(grid, 1)
	assert.ErrorIs(t, err, ErrNoFillerSlice)
	assert.Equal(t, tiles.Ground, grid.Cell(1, 1))
}

func TestNew_ValidatesConfig(t *testing.T) {
	idx := tinyIndex(t)

	cfg := DefaultConfig()
	cfg.MaxRetries = 0
	_, err := New(idx, cfg, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.Policy = Policy{Name: "chaos"}
	_, err = New(idx, cfg, nil)
	assert.ErrorIs(t, err, ErrUnknownPolicy)

	_, err = New(nil, DefaultConfig(), nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestParsePolicy(t *testing.T) {
	for _, name := range PolicyNames() {
		p, err := ParsePolicy(strings.ToUpper(name))
		require.NoError(t, err)
		assert.Equal(t, name, p.Name)
	}

	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyStrict, p)

	_, err = ParsePolicy("nope")
	assert.ErrorIs(t, err, ErrUnknownPolicy)
}

func requireMarkers(t *testing.T, idx *corpus.Index, grid *level.Map, rep *Report, seed int64) {
	t.Helper()
	require.Len(t, rep.Path, rep.Columns)

	require.True(t, idx.Slice(rep.Path[0]).IsStart(), "seed %d", seed)
	require.True(t, idx.Slice(rep.Path[rep.Columns-1]).IsEnd(), "seed %d", seed)
	for x := 1; x < rep.Columns-1; x++ {
		s := idx.Slice(rep.Path[x])
		require.False(t, s.IsStart() || s.IsEnd(), "seed %d column %d", seed, x)
	}

	// Repairs never add or remove markers.
	require.Contains(t, grid.Column(0), tiles.Start.String())
	require.Contains(t, grid.Column(rep.Columns-1), tiles.End.String())
	for x := 1; x < rep.Columns-1; x++ {
		col := grid.Column(x)
		require.NotContains(t, col, tiles.Start.String(), "seed %d column %d", seed, x)
		require.NotContains(t, col, tiles.End.String(), "seed %d column %d", seed, x)
	}
}

func requireSpawnSafe(t *testing.T, grid *level.Map, zone int, seed int64) {
	t.Helper()
	for x := 0; x < zone && x < grid.Width(); x++ {
		for y := 0; y < grid.Height(); y++ {
			require.False(t, tiles.IsEnemy(grid.Cell(x, y)), "seed %d enemy at %d,%d", seed, x, y)
		}
	}
}

func requireReachable(t *testing.T, grid *level.Map, width int, cfg Config, seed int64) {
	t.Helper()
	for x := 1; x < width; x++ {
		prev := corpus.GroundHeight(grid.Column(x - 1))
		cur := corpus.GroundHeight(grid.Column(x))
		if prev == corpus.NoGround || cur == corpus.NoGround || prev-cur <= cfg.JumpThreshold {
			continue
		}
		off := cfg.Helper
		if strings.ContainsAny(grid.Column(x), "Tt<>[]") {
			off = cfg.PipeHelper
		}
		require.Equal(t, tiles.HelperPlatform, grid.Cell(x-off.Back, cur+off.Down),
			"seed %d: rise at column %d has no helper", seed, x)
	}
}
