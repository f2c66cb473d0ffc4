package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pable/go-cs-gamestate/internal/model"
)

// CSV reads frames from a CSV file with a header row.
type CSV struct {
	Path    string
	Columns Columns
}

func (s *CSV) String() string { return s.Path }

// Load reads every data row of the file.
func (s *CSV) Load(ctx context.Context) ([]model.Record, error) {
	f, err := openFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return ReadCSV(ctx, f, s.Columns)
}

// ReadCSV decodes frames from r. The first row must be a header.
func ReadCSV(ctx context.Context, r io.Reader, cols Columns) ([]model.Record, error) {
	cols = cols.withDefaults()
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv: missing header")
		}
		return nil, fmt.Errorf("csv header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, c := range cols.required() {
		if _, ok := index[c]; !ok {
			return nil, fmt.Errorf("csv: missing column %q", c)
		}
	}

	var out []model.Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: %w", err)
		}
		if line%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, err := cols.decodeRecord(line, func(col string) (string, bool) {
			i, ok := index[col]
			if !ok || i >= len(row) {
				return "", false
			}
			return row[i], true
		})
		if err != nil {
			return nil, fmt.Errorf("csv: %w", err)
		}
		out = append(out, rec)
	}
	return out, ctx.Err()
}
