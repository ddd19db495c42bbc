package engine

import (
	"github.com/NoahDarveau/MarkovMario/pkg/api"
	"github.com/NoahDarveau/MarkovMario/pkg/generator"
)

// Response builds the client view of lvl.
func (l *Level) Response() api.LevelResponse {
	rep := l.Report
	return api.LevelResponse{
		Type:      api.TypeLevel,
		Level:     l.Number,
		Seed:      rep.Seed,
		Policy:    rep.Policy,
		Width:     l.Grid.Width(),
		Height:    l.Grid.Height(),
		Columns:   rep.Columns,
		Organic:   rep.Organic,
		Rows:      l.Grid.Rows(),
		Path:      rep.Path,
		Retries:   rep.Retries,
		Fallbacks: rep.Fallbacks,
		Repairs: api.RepairView{
			PipeCells:      rep.PipeCells,
			EnemiesRemoved: rep.EnemiesRemoved,
			Helpers:        rep.Helpers,
		},
	}
}

// CorpusView describes the loaded corpus for clients.
func (s *LevelService) CorpusView() api.CorpusView {
	return api.CorpusView{
		Stats:    s.idx.Stats(),
		Policies: generator.PolicyNames(),
	}
}
