package agent

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/NoahDarveau/MarkovMario/internal/network"
	"github.com/NoahDarveau/MarkovMario/pkg/api"
	"github.com/NoahDarveau/MarkovMario/pkg/corpus"
	"github.com/NoahDarveau/MarkovMario/pkg/generator"
	"github.com/NoahDarveau/MarkovMario/pkg/level"
	"github.com/NoahDarveau/MarkovMario/pkg/logger"
	"github.com/NoahDarveau/MarkovMario/pkg/tiles"
)

const inspectorID = "inspector"

// Inspector is a headless feed subscriber. It re-checks every generated level
// from its rows alone, the way an external client would, and logs problems.
//
// Lifecycle:
//  1. NewInspector registers on the hub and gets its inbox.
//  2. Run consumes the inbox until the hub closes it (Stop).
type Inspector struct {
	hub   *network.Broadcaster
	inbox <-chan api.LevelResponse
	cfg   generator.Config
	log   logrus.FieldLogger

	checked atomic.Int64
	flagged atomic.Int64
}

func NewInspector(hub *network.Broadcaster, cfg generator.Config, log logrus.FieldLogger) *Inspector {
	return &Inspector{
		hub:   hub,
		inbox: hub.Register(inspectorID),
		cfg:   cfg,
		log:   logger.Or(log).WithField("agent", inspectorID),
	}
}

// Run blocks until Stop.
func (in *Inspector) Run() {
	in.log.Info("Inspector started")
	for msg := range in.inbox {
		problems := Inspect(msg, in.cfg)
		in.checked.Add(1)
		if len(problems) == 0 {
			continue
		}
		in.flagged.Add(1)
		in.log.WithFields(logrus.Fields{
			"seed":     msg.Seed,
			"policy":   msg.Policy,
			"problems": strings.Join(problems, "; "),
		}).Warn("Level failed inspection")
	}
	in.log.Info("Inspector stopped")
}

func (in *Inspector) Stop() { in.hub.Unregister(inspectorID) }

func (in *Inspector) Checked() int64 { return in.checked.Load() }

func (in *Inspector) Flagged() int64 { return in.flagged.Load() }

// Inspect lists the playability problems of a level. Repair guarantees are only
// checked for policies that repair.
func Inspect(msg api.LevelResponse, cfg generator.Config) []string {
	grid, err := level.Parse(strings.Join(msg.Rows, "\n"))
	if err != nil {
		return []string{err.Error()}
	}
	if msg.Columns < 2 || msg.Columns > grid.Width() {
		return []string{fmt.Sprintf("bad column count %d for width %d", msg.Columns, grid.Width())}
	}

	var problems []string
	if !strings.ContainsRune(grid.Column(0), rune(tiles.Start)) {
		problems = append(problems, "first column has no start marker")
	}
	if !strings.ContainsRune(grid.Column(msg.Columns-1), rune(tiles.End)) {
		problems = append(problems, "last column has no end marker")
	}

	policy, err := generator.ParsePolicy(msg.Policy)
	if err != nil || !policy.Repair {
		return problems
	}

	for x := 0; x < cfg.SpawnZone && x < msg.Columns; x++ {
		for y := 0; y < grid.Height(); y++ {
			if tiles.IsEnemy(grid.Cell(x, y)) {
				problems = append(problems, fmt.Sprintf("enemy %s in spawn zone at %d,%d", grid.Cell(x, y), x, y))
			}
		}
	}

	for x := 1; x < msg.Columns; x++ {
		prev := corpus.GroundHeight(grid.Column(x - 1))
		cur := corpus.GroundHeight(grid.Column(x))
		if prev == corpus.NoGround || cur == corpus.NoGround || prev-cur <= cfg.JumpThreshold {
			continue
		}
		off := cfg.Helper
		if strings.IndexFunc(grid.Column(x), func(r rune) bool { return tiles.IsPipe(tiles.Tile(r)) }) >= 0 {
			off = cfg.PipeHelper
		}
		hx, hy := x-off.Back, cur+off.Down
		if hx < 0 || hy < 0 || hy >= grid.Height() {
			continue
		}
		if grid.Cell(hx, hy) != tiles.HelperPlatform && !tiles.IsMarker(grid.Cell(hx, hy)) {
			problems = append(problems, fmt.Sprintf("rise of %d at column %d without helper", prev-cur, x))
		}
	}
	return problems
}
