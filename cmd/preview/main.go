package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/NoahDarveau/MarkovMario/internal/engine"
	"github.com/NoahDarveau/MarkovMario/internal/render"
	"github.com/NoahDarveau/MarkovMario/pkg/logger"
)

func main() {
	var (
		configPath string
		seed       int64
		corpusDir  string
		policy     string
		width      int
		first      int
	)
	flag.StringVar(&configPath, "config", "", "Path to a YAML config file")
	flag.Int64Var(&seed, "seed", 0, "Master seed (0 for random)")
	flag.StringVar(&corpusDir, "corpus", "", "Directory of example levels")
	flag.StringVar(&policy, "policy", "", "Generation policy")
	flag.IntVar(&width, "width", 0, "Level width in columns")
	flag.IntVar(&first, "level", 0, "First level number to show")
	flag.Parse()

	// The terminal belongs to tcell, so only warnings and errors reach stderr.
	logger.Init()
	logger.Log.SetOutput(os.Stderr)
	if os.Getenv("LOG_LEVEL") == "" {
		logger.Log.SetLevel(logrus.WarnLevel)
	}

	cfg := engine.NewConfig()
	if configPath != "" {
		var err error
		if cfg, err = engine.LoadConfigFile(configPath); err != nil {
			fail(err)
		}
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if corpusDir != "" {
		cfg.CorpusDir = corpusDir
	}
	if policy != "" {
		cfg.Generator.Policy = policy
	}
	if width != 0 {
		cfg.Generator.Width = width
	}
	cfg.ArchiveDir = ""

	levels, err := engine.LoadService(cfg, logger.Log)
	if err != nil {
		fail(err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fail(err)
	}
	if err := screen.Init(); err != nil {
		fail(err)
	}
	defer screen.Fini()

	p := render.NewPreview(screen, levels, first)
	_ = p.Load()
	p.Run()
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "preview:", err)
	os.Exit(1)
}
