package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NoahDarveau/MarkovMario/internal/agent"
	"github.com/NoahDarveau/MarkovMario/internal/engine"
	"github.com/NoahDarveau/MarkovMario/internal/server"
	"github.com/NoahDarveau/MarkovMario/internal/version"
	"github.com/NoahDarveau/MarkovMario/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Configuration: file first, flags and env on top.
	var (
		configPath string
		seed       int64
		corpusDir  string
		port       string
		archiveDir string
		policy     string
		inspect    bool
	)
	flag.StringVar(&configPath, "config", "", "Path to a YAML config file")
	flag.Int64Var(&seed, "seed", 0, "Master seed (0 keeps the config value or picks a random one)")
	flag.StringVar(&corpusDir, "corpus", "", "Directory of example levels")
	flag.StringVar(&port, "port", "", "HTTP port")
	flag.StringVar(&archiveDir, "archive", "", "Directory to archive generated levels in")
	flag.StringVar(&policy, "policy", "", "Default generation policy")
	flag.BoolVar(&inspect, "inspect", false, "Re-check every generated level and log failures")
	flag.Parse()

	logger.Log.Info("Starting Markov level server...")
	logger.Log.Info(version.String())

	cfg := engine.NewConfig()
	if configPath != "" {
		var err error
		cfg, err = engine.LoadConfigFile(configPath)
		if err != nil {
			logger.Log.WithError(err).Fatal("Failed to load config")
		}
	}
	if seed != 0 {
		cfg.Seed = seed
		logger.Log.Infof("Using explicit master seed: %d", seed)
	} else {
		logger.Log.Infof("Using master seed: %d", cfg.Seed)
	}
	if corpusDir != "" {
		cfg.CorpusDir = corpusDir
	}
	if archiveDir != "" {
		cfg.ArchiveDir = archiveDir
	}
	if policy != "" {
		cfg.Generator.Policy = policy
	}
	if env := os.Getenv("CD_PORT"); env != "" {
		cfg.Port = env
	}
	if port != "" {
		cfg.Port = port
	}

	// 2. Corpus and generators.
	levels, err := engine.LoadService(cfg, logger.Log)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to start level service")
	}

	var inspector *agent.Inspector
	if inspect {
		genCfg, err := cfg.GeneratorSettings()
		if err != nil {
			logger.Log.WithError(err).Fatal("Bad generator settings")
		}
		inspector = agent.NewInspector(levels.Hub, genCfg, logger.Log)
		go inspector.Run()
	}

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// 3. HTTP + websocket
	srv := server.New(levels, cfg.Port)
	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.WithError(err).Fatal("Server start error")
		}
	}()

	<-stop
	logger.Log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Warn("Shutdown incomplete")
	}

	if inspector != nil {
		inspector.Stop()
		logger.Log.WithField("checked", inspector.Checked()).WithField("flagged", inspector.Flagged()).Info("Inspector summary")
	}

	st := levels.Stats()
	logger.Log.WithField("levels", st.Levels).WithField("archived", st.Archived).Info("Done.")
}
