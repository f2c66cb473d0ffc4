package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/pable/go-cs-gamestate/internal/model"
)

// JSONLines reads frames from a file holding one JSON object per line.
// Column names are gjson paths, so nested exports can be mapped directly.
type JSONLines struct {
	Path    string
	Columns Columns
}

func (s *JSONLines) String() string { return s.Path }

// Load reads every non-blank line of the file.
func (s *JSONLines) Load(ctx context.Context) ([]model.Record, error) {
	f, err := openFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open jsonl: %w", err)
	}
	defer f.Close()
	return ReadJSONLines(ctx, f, s.Columns)
}

// ReadJSONLines decodes frames from r.
func ReadJSONLines(ctx context.Context, r io.Reader, cols Columns) ([]model.Record, error) {
	cols = cols.withDefaults()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var out []model.Record
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if line%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if !gjson.Valid(text) {
			return nil, fmt.Errorf("jsonl: line %d is not valid JSON", line)
		}
		doc := gjson.Parse(text)
		rec, err := cols.decodeRecord(line, func(col string) (string, bool) {
			v := doc.Get(col)
			if !v.Exists() || v.Type == gjson.Null {
				return "", false
			}
			if v.IsArray() || v.IsObject() {
				return v.Raw, true
			}
			return v.String(), true
		})
		if err != nil {
			return nil, fmt.Errorf("jsonl: %w", err)
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("jsonl: %w", err)
	}
	return out, ctx.Err()
}
