package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/NoahDarveau/MarkovMario/internal/infrastructure/storage"
	"github.com/NoahDarveau/MarkovMario/internal/network"
	"github.com/NoahDarveau/MarkovMario/pkg/api"
	"github.com/NoahDarveau/MarkovMario/pkg/corpus"
	"github.com/NoahDarveau/MarkovMario/pkg/generator"
	"github.com/NoahDarveau/MarkovMario/pkg/level"
	"github.com/NoahDarveau/MarkovMario/pkg/logger"
)

// ErrInvalidRequest marks errors caused by the caller rather than the corpus.
var ErrInvalidRequest = errors.New("invalid request")

// Level is one generated level together with how it was made.
type Level struct {
	Number *int
	Grid   *level.Map
	Report *generator.Report
}

type counters struct {
	levels    atomic.Int64
	failures  atomic.Int64
	retries   atomic.Int64
	fallbacks atomic.Int64
	pipeCells atomic.Int64
	enemies   atomic.Int64
	helpers   atomic.Int64
	archived  atomic.Int64
}

// LevelService owns the corpus index and one generator per policy.
// It is safe for concurrent use.
type LevelService struct {
	// Hub receives every level generated, for the live feed.
	Hub *network.Broadcaster

	cfg     Config
	idx     *corpus.Index
	base    generator.Config
	gens    map[string]*generator.Generator
	archive *storage.ArchiveService
	log     logrus.FieldLogger

	seedMu sync.Mutex
	seeds  *rand.Rand

	stats counters
}

// LoadService reads the corpus from cfg.CorpusDir and builds the service.
func LoadService(cfg Config, log logrus.FieldLogger) (*LevelService, error) {
	idx, err := corpus.LoadDir(cfg.CorpusDir, cfg.Height, log)
	if err != nil {
		return nil, fmt.Errorf("load corpus %s: %w", cfg.CorpusDir, err)
	}
	return NewService(cfg, idx, log)
}

func NewService(cfg Config, idx *corpus.Index, log logrus.FieldLogger) (*LevelService, error) {
	log = logger.Or(log)
	if idx.Height() != cfg.Height {
		return nil, fmt.Errorf("%w: config height %d, corpus %d", generator.ErrHeightMismatch, cfg.Height, idx.Height())
	}

	base, err := cfg.GeneratorSettings()
	if err != nil {
		return nil, err
	}

	s := &LevelService{
		Hub:   network.NewBroadcaster(),
		cfg:   cfg,
		idx:   idx,
		base:  base,
		gens:  make(map[string]*generator.Generator),
		log:   log,
		seeds: rand.New(rand.NewSource(cfg.Seed)),
	}

	for _, name := range generator.PolicyNames() {
		gc := base
		gc.Policy, _ = generator.ParsePolicy(name)
		g, err := generator.New(idx, gc, log)
		if err != nil {
			return nil, err
		}
		s.gens[name] = g
	}

	if cfg.ArchiveDir != "" {
		s.archive, err = storage.NewArchiveService(cfg.ArchiveDir)
		if err != nil {
			return nil, err
		}
	}

	log.WithFields(logrus.Fields{
		"seed":    cfg.Seed,
		"policy":  base.Policy.Name,
		"width":   base.Width,
		"archive": cfg.ArchiveDir,
	}).Info("Level service ready")
	return s, nil
}

func (s *LevelService) Config() Config { return s.cfg }

func (s *LevelService) Index() *corpus.Index { return s.idx }

// LevelSeed derives the seed of level n from the master seed.
func (s *LevelService) LevelSeed(n int) int64 {
	return s.cfg.Seed + int64(n)
}

// GenerateLevel builds level n of the current master seed with the default policy and width.
func (s *LevelService) GenerateLevel(n int) (*Level, error) {
	return s.Generate(api.GenerateRequest{Level: &n})
}

// Generate serves one request. Missing fields take the configured defaults.
func (s *LevelService) Generate(req api.GenerateRequest) (*Level, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	var seed int64
	switch {
	case req.Seed != nil:
		seed = *req.Seed
	case req.Level != nil:
		seed = s.LevelSeed(*req.Level)
	default:
		seed = s.freshSeed()
	}

	policy := s.base.Policy.Name
	if req.Policy != "" {
		p, _ := generator.ParsePolicy(req.Policy)
		policy = p.Name
	}
	width := s.base.Width
	if req.Width != 0 {
		width = req.Width
	}

	grid := level.New(width, s.idx.Height())
	rep, err := s.gens[policy].GenerateSeed(grid, seed)
	if err != nil {
		s.stats.failures.Add(1)
		s.log.WithError(err).WithFields(logrus.Fields{
			"seed":   seed,
			"policy": policy,
			"width":  width,
		}).Warn("Generation failed")
		return nil, err
	}

	s.record(rep)
	lvl := &Level{Number: req.Level, Grid: grid, Report: rep}
	s.save(lvl)
	if s.Hub.Count() > 0 {
		s.Hub.Broadcast(lvl.Response())
	}
	return lvl, nil
}

func (s *LevelService) freshSeed() int64 {
	s.seedMu.Lock()
	defer s.seedMu.Unlock()
	return s.seeds.Int63()
}

func (s *LevelService) record(rep *generator.Report) {
	s.stats.levels.Add(1)
	s.stats.retries.Add(int64(rep.Retries))
	s.stats.fallbacks.Add(int64(rep.Fallbacks))
	s.stats.pipeCells.Add(int64(rep.PipeCells))
	s.stats.enemies.Add(int64(rep.EnemiesRemoved))
	s.stats.helpers.Add(int64(rep.Helpers))

	if rep.Fallbacks > 0 {
		s.log.WithFields(logrus.Fields{
			"seed":      rep.Seed,
			"fallbacks": rep.Fallbacks,
		}).Debug("Walk needed fallbacks")
	}
}

// save archives lvl when an archive dir is configured. Failures are logged, not returned.
func (s *LevelService) save(lvl *Level) {
	if s.archive == nil {
		return
	}
	rec := &storage.LevelRecord{
		Seed:      lvl.Report.Seed,
		Timestamp: time.Now().UnixMilli(),
		Policy:    lvl.Report.Policy,
		Columns:   lvl.Report.Columns,
		Organic:   lvl.Report.Organic,
		Repaired:  s.gens[lvl.Report.Policy].Config().Policy.Repair,
		Grid:      lvl.Grid,
	}
	path, err := s.archive.Save(rec)
	if err != nil {
		s.log.WithError(err).WithField("seed", rec.Seed).Warn("Failed to archive level")
		return
	}
	s.stats.archived.Add(1)
	s.log.WithField("path", path).Debug("Level archived")
}

// LoadArchived reads a level written by the archive.
func (s *LevelService) LoadArchived(path string) (*storage.LevelRecord, error) {
	if s.archive == nil {
		return nil, errors.New("archive disabled")
	}
	return s.archive.Load(path)
}

func (s *LevelService) Stats() api.StatsView {
	return api.StatsView{
		MasterSeed:     s.cfg.Seed,
		Levels:         s.stats.levels.Load(),
		Failures:       s.stats.failures.Load(),
		Retries:        s.stats.retries.Load(),
		Fallbacks:      s.stats.fallbacks.Load(),
		PipeCells:      s.stats.pipeCells.Load(),
		EnemiesRemoved: s.stats.enemies.Load(),
		Helpers:        s.stats.helpers.Load(),
		Archived:       s.stats.archived.Load(),
	}
}
