package source

import (
	"context"
	"fmt"

	"github.com/pable/go-cs-gamestate/internal/model"
	"github.com/pable/go-cs-gamestate/internal/storage"
)

// SQLite reads frames from a table in a SQLite file, such as one written by
// the extract command.
type SQLite struct {
	Path    string
	Table   string
	Columns Columns
}

func (s *SQLite) String() string { return s.Path }

// Load reads every row of the table in rowid order.
func (s *SQLite) Load(ctx context.Context) ([]model.Record, error) {
	db, err := storage.OpenReadOnly(s.Path)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return ReadTable(ctx, db, s.Table, s.Columns)
}

// ReadTable decodes frames from an open database.
func ReadTable(ctx context.Context, db *storage.DB, table string, cols Columns) ([]model.Record, error) {
	cols = cols.withDefaults()
	if table == "" {
		table = storage.FramesTable
	}
	var out []model.Record
	line := 0
	err := db.ScanTable(ctx, table, func(row map[string]string) error {
		line++
		if line == 1 {
			for _, c := range cols.required() {
				if _, ok := row[c]; !ok {
					return fmt.Errorf("table %s: missing column %q", table, c)
				}
			}
		}
		if line%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		rec, err := cols.decodeRecord(line, func(col string) (string, bool) {
			v, ok := row[col]
			return v, ok
		})
		if err != nil {
			return err
		}
		out = append(out, rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	return out, nil
}
