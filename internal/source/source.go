// Package source reads per-tick player frames from the formats a match can
// be exported to: CSV, JSON lines, Parquet, a SQLite frames file, or the CS2 demo
// itself. Every source implements gamestate.Source.
package source

import (
	"fmt"

	"github.com/pable/go-cs-gamestate/internal/gamestate"
	"github.com/pable/go-cs-gamestate/internal/storage"
)

// Options configures Open.
type Options struct {
	Columns Columns

	// Table is the SQLite table to read; defaults to storage.FramesTable.
	Table string

	// SampleEvery is the demo sampling interval in ticks; defaults to DefaultSampleEvery.
	SampleEvery int
}

// Open picks a source by file extension. CSV, JSON lines and demo files may
// carry a trailing .zst, .gz or .bz2.
func Open(path string, opts Options) (gamestate.Source, error) {
	ext := formatExt(path)
	if compressedExt(path) != "" && (ext == ".db" || ext == ".sqlite" || ext == ".sqlite3" || ext == ".parquet") {
		return nil, fmt.Errorf("compressed %s file %q: decompress it first", ext, path)
	}
	switch ext {
	case ".csv":
		return &CSV{Path: path, Columns: opts.Columns}, nil
	case ".jsonl", ".ndjson":
		return &JSONLines{Path: path, Columns: opts.Columns}, nil
	case ".db", ".sqlite", ".sqlite3":
		table := opts.Table
		if table == "" {
			table = storage.FramesTable
		}
		return &SQLite{Path: path, Table: table, Columns: opts.Columns}, nil
	case ".parquet":
		return &Parquet{Path: path, Columns: opts.Columns}, nil
	case ".dem":
		return &Demo{Path: path, SampleEvery: opts.SampleEvery}, nil
	default:
		return nil, fmt.Errorf("unsupported frames file %q (want .csv, .jsonl, .parquet, .db or .dem)", path)
	}
}

// checkEvery is how many rows are decoded between context checks.
const checkEvery = 4096
