package api

import "github.com/NoahDarveau/MarkovMario/pkg/corpus"

// Message types carried in the Type field.
const (
	TypeLevel = "LEVEL"
	TypeError = "ERROR"
)

// --- SERVER -> CLIENT ---

// LevelResponse is one generated level as sent to clients, over HTTP and over the websocket feed.
type LevelResponse struct {
	// Type is always TypeLevel.
	Type string `json:"type"`

	// Level is set when the seed was derived from the master seed.
	Level *int `json:"level,omitempty"`

	Seed    int64  `json:"seed"`
	Policy  string `json:"policy"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Columns int    `json:"columns"`
	Organic bool   `json:"organic"`

	// Rows is the level in the corpus text format, top row first.
	Rows []string `json:"rows"`

	// Path lists the slice ids used per column.
	Path []int `json:"path,omitempty"`

	Retries   int        `json:"retries"`
	Fallbacks int        `json:"fallbacks"`
	Repairs   RepairView `json:"repairs"`
}

// RepairView counts what the post-processing passes changed.
type RepairView struct {
	PipeCells      int `json:"pipeCells"`
	EnemiesRemoved int `json:"enemiesRemoved"`
	Helpers        int `json:"helpers"`
}

// CorpusView describes the loaded corpus.
type CorpusView struct {
	corpus.Stats
	Policies []string `json:"policies"`
}

// StatsView exposes the service counters.
type StatsView struct {
	MasterSeed     int64 `json:"masterSeed"`
	Levels         int64 `json:"levels"`
	Failures       int64 `json:"failures"`
	Retries        int64 `json:"retries"`
	Fallbacks      int64 `json:"fallbacks"`
	PipeCells      int64 `json:"pipeCells"`
	EnemiesRemoved int64 `json:"enemiesRemoved"`
	Helpers        int64 `json:"helpers"`
	Archived       int64 `json:"archived"`
}

type ErrorResponse struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func NewError(err error) ErrorResponse {
	return ErrorResponse{Type: TypeError, Error: err.Error()}
}

// --- CLIENT -> SERVER ---

// GenerateRequest asks for one level. Zero fields fall back to the server defaults.
// Seed and Level are mutually exclusive; with neither the server picks a fresh seed.
type GenerateRequest struct {
	Seed   *int64 `json:"seed,omitempty"`
	Level  *int   `json:"level,omitempty"`
	Width  int    `json:"width,omitempty"`
	Policy string `json:"policy,omitempty"`
}
