package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/NoahDarveau/MarkovMario/internal/infrastructure/storage"
)

func main() {
	if len(os.Args) < 3 {
		printHelp()
		return
	}

	switch os.Args[1] {
	case "list":
		svc := &storage.ArchiveService{SaveDir: os.Args[2]}
		paths, err := svc.List()
		if err != nil {
			fmt.Printf("Cannot list archive: %v\n", err)
			os.Exit(1)
		}
		for _, p := range paths {
			rec, err := svc.Load(p)
			if err != nil {
				fmt.Printf("%s: %v\n", p, err)
				continue
			}
			fmt.Printf("%s seed=%d policy=%s columns=%d at %s\n",
				p, rec.Seed, rec.Policy, rec.Columns, formatMillis(rec.Timestamp))
		}
	case "show":
		rec, err := (&storage.ArchiveService{}).Load(os.Args[2])
		if err != nil {
			fmt.Printf("Cannot read level: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(rec.Grid.String())
		fmt.Fprintf(os.Stderr, "seed=%d policy=%s columns=%d organic=%t repaired=%t at %s\n",
			rec.Seed, rec.Policy, rec.Columns, rec.Organic, rec.Repaired, formatMillis(rec.Timestamp))
	case "time":
		ms, err := strconv.ParseInt(os.Args[2], 10, 64)
		if err != nil {
			fmt.Printf("Invalid timestamp: %v\n", err)
			return
		}
		fmt.Println(formatMillis(ms))
	default:
		printHelp()
	}
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).Format(time.RFC3339)
}

func printHelp() {
	fmt.Println(`Archive Utility - read levels saved by the server
Commands:
  list <dir>     - one line per archived level
  show <file>    - print the level to stdout, its header to stderr
  time <millis>  - format an archive timestamp`)
}
