package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/NoahDarveau/MarkovMario/internal/engine"
	"github.com/NoahDarveau/MarkovMario/pkg/corpus"
)

// DebugHandler exposes the transition table.
type DebugHandler struct {
	Levels *engine.LevelService
}

func NewDebugHandler(levels *engine.LevelService) *DebugHandler {
	return &DebugHandler{Levels: levels}
}

func (h *DebugHandler) RegisterRoutes(r chi.Router) {
	r.Get("/debug/slices", h.handleListSlices)
	r.Get("/debug/slices/{id}", h.handleSlice)
}

// SliceView is one column of the corpus with its outgoing transitions.
type SliceView struct {
	ID          int                 `json:"id"`
	Cells       string              `json:"cells"`
	Ground      int                 `json:"ground"`
	Start       bool                `json:"start,omitempty"`
	End         bool                `json:"end,omitempty"`
	Total       int                 `json:"total"`
	Transitions []corpus.Transition `json:"transitions,omitempty"`
}

func newSliceView(s *corpus.Slice) SliceView {
	return SliceView{
		ID:          s.ID(),
		Cells:       s.Cells(),
		Ground:      s.GroundHeight(),
		Start:       s.IsStart(),
		End:         s.IsEnd(),
		Total:       s.TotalTransitions(),
		Transitions: s.Transitions(),
	}
}

// /debug/slices?offset=0&limit=100
func (h *DebugHandler) handleListSlices(w http.ResponseWriter, r *http.Request) {
	offset, limit := 0, 100
	q := r.URL.Query()
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, errors.New("bad offset"))
			return
		}
		offset = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, errors.New("bad limit"))
			return
		}
		limit = n
	}

	slices := h.Levels.Index().Slices()
	views := []SliceView{}
	for i := offset; i < len(slices) && len(views) < limit; i++ {
		views = append(views, newSliceView(slices[i]))
	}
	writeJSON(w, http.StatusOK, views)
}

// /debug/slices/{id}
func (h *DebugHandler) handleSlice(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("slice id must be an integer"))
		return
	}
	s := h.Levels.Index().Slice(id)
	if s == nil {
		writeError(w, http.StatusNotFound, errors.New("slice not found"))
		return
	}
	writeJSON(w, http.StatusOK, newSliceView(s))
}
