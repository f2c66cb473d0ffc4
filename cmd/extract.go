package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pable/go-cs-gamestate/internal/source"
	"github.com/pable/go-cs-gamestate/internal/storage"
)

var extractSampleEvery int

var extractCmd = &cobra.Command{
	Use:   "extract <demo.dem> <frames.db>",
	Short: "Sample player frames from a CS2 demo into a SQLite frames table",
	Args:  cobra.ExactArgs(2),
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().IntVar(&extractSampleEvery, "sample-every", 0, "ticks between samples (default from config)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	demoPath, dbPath := args[0], args[1]

	every := extractSampleEvery
	if every <= 0 {
		every = cfg.SampleEvery
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	n, err := db.CountFrames()
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%s already holds %s frames; extract into a new file", dbPath, humanize.Comma(int64(n)))
	}

	log.Info().Str("demo", demoPath).Int("sample_every", every).Msg("parsing demo")
	demo := &source.Demo{Path: demoPath, SampleEvery: every}
	recs, err := demo.Load(cmd.Context())
	if err != nil {
		return err
	}
	if err := db.InsertFrames(recs); err != nil {
		return fmt.Errorf("insert frames: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Wrote %s frames to %s (table %s).\n",
		humanize.Comma(int64(len(recs))), dbPath, storage.FramesTable)
	return nil
}
