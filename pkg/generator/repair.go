package generator

import (
	"github.com/sirupsen/logrus"

	"github.com/NoahDarveau/MarkovMario/pkg/corpus"
	"github.com/NoahDarveau/MarkovMario/pkg/level"
	"github.com/NoahDarveau/MarkovMario/pkg/logger"
	"github.com/NoahDarveau/MarkovMario/pkg/tiles"
)

// RepairStats counts the cells each pass changed.
type RepairStats struct {
	PipeCells      int `json:"pipeCells"`
	EnemiesRemoved int `json:"enemiesRemoved"`
	Helpers        int `json:"helpers"`
}

// Repairer applies the playability passes to a finished grid.
// Every pass only looks at the first `width` columns.
type Repairer struct {
	cfg Config
	log logrus.FieldLogger
}

func NewRepairer(cfg Config, log logrus.FieldLogger) *Repairer {
	return &Repairer{cfg: cfg, log: logger.Or(log)}
}

// Run applies FixPipes, ClearSpawnZone and InsertJumpAssists in that order.
func (r *Repairer) Run(g level.Grid, width int) RepairStats {
	width = clampWidth(g, width)
	return RepairStats{
		PipeCells:      r.FixPipes(g, width),
		EnemiesRemoved: r.ClearSpawnZone(g, width),
		Helpers:        r.InsertJumpAssists(g, width),
	}
}

// FixPipes closes one-column pipe gaps. Columns holding a pipe tile are counted; the first
// column without one after an odd count gets the pipe tiles of its left neighbour and the
// count starts over. Start and end markers are never overwritten.
func (r *Repairer) FixPipes(g level.Grid, width int) int {
	width = clampWidth(g, width)
	changed := 0
	open := 0

	for x := 1; x < width; x++ {
		if columnHas(g, x, tiles.IsContinuablePipe) {
			open++
			continue
		}
		if open%2 == 0 {
			continue
		}
		for y := 0; y < g.Height(); y++ {
			if t := g.Cell(x-1, y); tiles.IsContinuablePipe(t) && !tiles.IsMarker(g.Cell(x, y)) {
				g.SetCell(x, y, t)
				changed++
			}
		}
		r.log.WithField("x", x).Debug("Extended unmatched pipe")
		open = 0
	}
	return changed
}

// ClearSpawnZone replaces every enemy in the first SpawnZone columns with background.
func (r *Repairer) ClearSpawnZone(g level.Grid, width int) int {
	zone := min(r.cfg.SpawnZone, clampWidth(g, width))
	removed := 0

	for x := 0; x < zone; x++ {
		for y := 0; y < g.Height(); y++ {
			if tiles.IsEnemy(g.Cell(x, y)) {
				g.SetCell(x, y, tiles.Empty)
				removed++
				r.log.WithFields(logrus.Fields{"x": x, "y": y}).Debug("Deleted enemy in spawn zone")
			}
		}
	}
	return removed
}

// InsertJumpAssists places a helper platform wherever the ground rises by more than
// JumpThreshold rows from one column to the next. Ground heights are measured before
// any helper is placed.
func (r *Repairer) InsertJumpAssists(g level.Grid, width int) int {
	width = clampWidth(g, width)
	grounds := make([]int, width)
	for x := range grounds {
		grounds[x] = corpus.GroundHeight(level.ColumnOf(g, x))
	}

	placed := 0
	for x := 1; x < width; x++ {
		prev, cur := grounds[x-1], grounds[x]
		if prev == corpus.NoGround || cur == corpus.NoGround {
			continue
		}
		if prev-cur <= r.cfg.JumpThreshold {
			continue
		}

		off := r.cfg.Helper
		pipe := columnHas(g, x, tiles.IsPipe)
		if pipe {
			// Keep clear of the pipe silhouette.
			off = r.cfg.PipeHelper
		}
		hx, hy := x-off.Back, cur+off.Down
		if hx < 0 || hy < 0 || hy >= g.Height() {
			continue
		}
		if tiles.IsMarker(g.Cell(hx, hy)) {
			continue
		}

		g.SetCell(hx, hy, tiles.HelperPlatform)
		placed++
		r.log.WithFields(logrus.Fields{"x": hx, "y": hy, "pipe": pipe}).Debug("Placed helper block")
	}
	return placed
}

func columnHas(g level.Grid, x int, pred func(tiles.Tile) bool) bool {
	for y := 0; y < g.Height(); y++ {
		if pred(g.Cell(x, y)) {
			return true
		}
	}
	return false
}

func clampWidth(g level.Grid, width int) int {
	if width < 0 || width > g.Width() {
		return g.Width()
	}
	return width
}
