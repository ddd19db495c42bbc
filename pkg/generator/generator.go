package generator

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/NoahDarveau/MarkovMario/pkg/corpus"
	"github.com/NoahDarveau/MarkovMario/pkg/level"
	"github.com/NoahDarveau/MarkovMario/pkg/logger"
)

// Report describes one generated level.
type Report struct {
	Seed    int64  `json:"seed"`
	Policy  string `json:"policy"`
	Width   int    `json:"width"`
	Columns int    `json:"columns"`
	Path    []int  `json:"path"`
	Organic bool   `json:"organic"`

	Retries   int `json:"retries"`
	Fallbacks int `json:"fallbacks"`

	RepairStats
}

// Generator turns a corpus index into levels. It holds no per-call state, so one
// Generator can serve concurrent calls as long as each call has its own grid and rng.
type Generator struct {
	idx      *corpus.Index
	cfg      Config
	walker   *Walker
	repairer *Repairer
	log      logrus.FieldLogger
}

func New(idx *corpus.Index, cfg Config, log logrus.FieldLogger) (*Generator, error) {
	if idx == nil {
		return nil, fmt.Errorf("%w: nil corpus index", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log = logger.Or(log)
	return &Generator{
		idx:      idx,
		cfg:      cfg,
		walker:   NewWalker(idx, cfg),
		repairer: NewRepairer(cfg, log),
		log:      log,
	}, nil
}

func (g *Generator) Config() Config { return g.cfg }

func (g *Generator) Index() *corpus.Index { return g.idx }

// GenerateSeed runs Generate with a source seeded from seed. Equal seeds give equal grids.
func (g *Generator) GenerateSeed(grid level.Grid, seed int64) (*Report, error) {
	rep, err := g.Generate(grid, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}
	rep.Seed = seed
	return rep, nil
}

// Generate fills grid with a new level. The grid is only touched once the walk succeeded,
// so on error it is left as it was.
func (g *Generator) Generate(grid level.Grid, rng *rand.Rand) (*Report, error) {
	if grid.Height() != g.idx.Height() {
		return nil, fmt.Errorf("%w: grid %d, corpus %d", ErrHeightMismatch, grid.Height(), g.idx.Height())
	}
	width := grid.Width()
	if width < 2 {
		return nil, fmt.Errorf("%w: width %d", ErrInvalidWidth, width)
	}

	walk, err := g.walker.Walk(width, rng)
	if err != nil {
		return nil, fmt.Errorf("walk %d columns: %w", width, err)
	}

	grid.Clear()
	for x, s := range walk.Path {
		for y := 0; y < s.Height(); y++ {
			grid.SetCell(x, y, s.Cell(y))
		}
	}

	rep := &Report{
		Policy:    g.cfg.Policy.Name,
		Width:     width,
		Columns:   len(walk.Path),
		Path:      make([]int, len(walk.Path)),
		Organic:   walk.Organic,
		Retries:   walk.Retries,
		Fallbacks: walk.Fallbacks,
	}
	for i, s := range walk.Path {
		rep.Path[i] = s.ID()
	}

	if g.cfg.Policy.Repair {
		rep.RepairStats = g.repairer.Run(grid, rep.Columns)
	}

	g.log.WithFields(logrus.Fields{
		"policy":    rep.Policy,
		"columns":   rep.Columns,
		"retries":   rep.Retries,
		"fallbacks": rep.Fallbacks,
		"pipes":     rep.PipeCells,
		"enemies":   rep.EnemiesRemoved,
		"helpers":   rep.Helpers,
	}).Debug("Level generated")

	return rep, nil
}
