package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/NoahDarveau/MarkovMario/internal/engine"
	"github.com/NoahDarveau/MarkovMario/internal/version"
	"github.com/NoahDarveau/MarkovMario/pkg/api"
	"github.com/NoahDarveau/MarkovMario/pkg/logger"
	"github.com/NoahDarveau/MarkovMario/pkg/utils"
)

type Server struct {
	Levels *engine.LevelService
	Port   string

	httpServer *http.Server
}

func New(levels *engine.LevelService, port string) *Server {
	return &Server{
		Levels: levels,
		Port:   port,
	}
}

// Router wires every route. Run serves it; tests mount it on httptest.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(enableCORS)

	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Get("/ws", s.handleWS)
	r.Get("/ws/feed", s.handleFeed)

	r.Route("/api", func(r chi.Router) {
		r.Get("/corpus", s.handleCorpus)
		r.Get("/stats", s.handleStats)
		r.Get("/level", s.handleLevel)
		r.Get("/levels/{n}", s.handleLevelByNumber)
	})

	NewDebugHandler(s.Levels).RegisterRoutes(r)
	return r
}

// Run serves until Shutdown is called.
func (s *Server) Run() error {
	s.httpServer = &http.Server{
		Addr:              ":" + s.Port,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Log.Infof("Level server running on :%s", s.Port)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("HTTP request")
	})
}

// handleWS upgrades to the generation feed.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Warn("Upgrade error")
		return
	}

	client := NewClient(s.Levels, conn)

	go client.writePump()
	go client.readPump()
}

// handleFeed upgrades to the read-only stream of generated levels.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Warn("Upgrade error")
		return
	}

	id := utils.GenerateID()
	updates := s.Levels.Hub.Register(id)
	client := NewClient(s.Levels, conn)

	go client.writePump()
	go client.feedPump(id, updates)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, version.Info())
}

func (s *Server) handleCorpus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Levels.CorpusView())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Levels.Stats())
}

// /api/levels/{n} - level n of the master seed
func (s *Server) handleLevelByNumber(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("level number must be an integer"))
		return
	}
	req := api.GenerateRequest{Level: &n}
	if err := readQuery(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.serveLevel(w, r, req)
}

// /api/level?seed=&width=&policy=&format=
func (s *Server) handleLevel(w http.ResponseWriter, r *http.Request) {
	var req api.GenerateRequest
	if v := r.URL.Query().Get("seed"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("seed must be an integer"))
			return
		}
		req.Seed = &seed
	}
	if err := readQuery(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.serveLevel(w, r, req)
}

// readQuery fills the width and policy shared by both level routes.
func readQuery(r *http.Request, req *api.GenerateRequest) error {
	q := r.URL.Query()
	if v := q.Get("width"); v != "" {
		width, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("width must be an integer")
		}
		req.Width = width
	}
	req.Policy = q.Get("policy")
	return nil
}

func (s *Server) serveLevel(w http.ResponseWriter, r *http.Request, req api.GenerateRequest) {
	lvl, err := s.Levels.Generate(req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, engine.ErrInvalidRequest) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("X-Level-Seed", strconv.FormatInt(lvl.Report.Seed, 10))
		w.Write([]byte(lvl.Grid.String() + "\n"))
		return
	}
	writeJSON(w, http.StatusOK, lvl.Response())
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.WithError(err).Debug("write json response failed")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, api.NewError(err))
}
