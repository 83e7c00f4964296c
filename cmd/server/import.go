// CLAUDE:SUMMARY CLI subcommand that rebuilds the dataset JSON from published results sources.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hazyhaar/scrutin/pkg/importer"
)

func cmdImport(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	source := fs.String("source", "", "adapter ID to import (e.g. ec-2021-redistributed)")
	output := fs.String("output", "data/2021_riding_vote_redistributed.json", "output path for the dataset JSON")
	fs.Parse(args)

	outDir := filepath.Dir(*output)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create output dir: %v\n", err)
		os.Exit(1)
	}

	sdb, err := importer.OpenSourceDB(filepath.Join(outDir, "sources.db"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "open sources.db: %v\n", err)
		os.Exit(1)
	}
	defer sdb.Close()

	if err := sdb.Seed(importer.All()); err != nil {
		fmt.Fprintf(os.Stderr, "seed sources: %v\n", err)
		os.Exit(1)
	}

	if *source == "" {
		fmt.Println("Available sources:")
		fmt.Println()
		sources, _ := sdb.ListSources()
		for _, src := range sources {
			status := ""
			if src.LastStatus != nil {
				status = fmt.Sprintf("  [status %d]", *src.LastStatus)
			}
			fmt.Printf("  %-25s  %s%s\n", src.AdapterID, src.Description, status)
		}
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  scrutin import --source <id> [--output <path>]")
		return
	}

	a, err := importer.Get(*source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	url, err := sdb.GetURL(a.ID())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	fmt.Printf("Importing %s...\n", a.ID())
	ridings, err := a.Import(ctx, url, *output)
	if err != nil {
		sdb.RecordImport(a.ID(), 1, 0, err.Error())
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
	if err := sdb.RecordImport(a.ID(), 0, ridings, ""); err != nil {
		fmt.Fprintf(os.Stderr, "record import: %v\n", err)
	}
	fmt.Printf("Done: %d ridings written to %s\n", ridings, *output)
}
