package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/NoahDarveau/MarkovMario/pkg/corpus"
	"github.com/NoahDarveau/MarkovMario/pkg/generator"
	"github.com/NoahDarveau/MarkovMario/pkg/level"
	"github.com/NoahDarveau/MarkovMario/pkg/logger"
)

func main() {
	if len(os.Args) < 3 {
		printHelp()
		return
	}
	logger.Init()

	height := corpus.DefaultHeight
	if v := os.Getenv("CORPUS_HEIGHT"); v != "" {
		h, err := strconv.Atoi(v)
		if err != nil {
			fmt.Printf("Invalid CORPUS_HEIGHT: %v\n", err)
			return
		}
		height = h
	}

	idx, err := corpus.LoadDir(os.Args[2], height, logger.Log)
	if err != nil {
		fmt.Printf("Cannot load corpus: %v\n", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "stats":
		st := idx.Stats()
		fmt.Printf("levels      %d (rejected %d)\n", st.Levels, st.Rejected)
		fmt.Printf("columns     %d\n", st.Columns)
		fmt.Printf("slices      %d\n", st.Slices)
		fmt.Printf("starts      %d\n", st.Starts)
		fmt.Printf("ends        %d\n", st.Ends)
		fmt.Printf("fillers     %d\n", st.Fillers)
		fmt.Printf("dead ends   %d\n", st.DeadEnds)
		fmt.Printf("transitions %d\n", st.Transitions)
	case "slices":
		for _, s := range idx.Slices() {
			mark := " "
			switch {
			case s.IsStart():
				mark = "M"
			case s.IsEnd():
				mark = "F"
			}
			fmt.Printf("%5d %s %s ground=%3d next=%d\n", s.ID(), mark, s.Cells(), s.GroundHeight(), s.TotalTransitions())
		}
	case "generate":
		if len(os.Args) < 4 {
			fmt.Println("Usage: corpusinfo generate <dir> <seed> [width] [policy]")
			return
		}
		generate(idx, os.Args[3:])
	default:
		printHelp()
	}
}

func generate(idx *corpus.Index, args []string) {
	seed, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Printf("Invalid seed: %v\n", err)
		return
	}
	cfg := generator.DefaultConfig()
	if len(args) > 1 {
		if cfg.Width, err = strconv.Atoi(args[1]); err != nil {
			fmt.Printf("Invalid width: %v\n", err)
			return
		}
	}
	if len(args) > 2 {
		if cfg.Policy, err = generator.ParsePolicy(args[2]); err != nil {
			fmt.Println(err)
			return
		}
	}

	g, err := generator.New(idx, cfg, logger.Log)
	if err != nil {
		fmt.Println(err)
		return
	}
	grid := level.New(cfg.Width, idx.Height())
	rep, err := g.GenerateSeed(grid, seed)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	fmt.Println(grid.String())
	fmt.Fprintf(os.Stderr, "seed=%d policy=%s columns=%d retries=%d fallbacks=%d pipes=%d enemies=%d helpers=%d\n",
		rep.Seed, rep.Policy, rep.Columns, rep.Retries, rep.Fallbacks, rep.PipeCells, rep.EnemiesRemoved, rep.Helpers)
}

func printHelp() {
	fmt.Println(`Corpus Utility - inspect example levels and try the generator
Commands:
  stats <dir>                              - corpus summary
  slices <dir>                             - every unique column with its ground height
  generate <dir> <seed> [width] [policy]   - print one level to stdout
Environment:
  CORPUS_HEIGHT   rows per level (default 16)`)
}
