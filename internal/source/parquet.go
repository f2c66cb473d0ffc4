package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/tidwall/sjson"

	"github.com/pable/go-cs-gamestate/internal/model"
)

// Parquet reads frames from a Parquet file such as awpy's game-state export.
//
// Scalar columns are addressed by name. Repeated columns (an inventory list)
// are handed to the column mapping as a JSON array: a list of strings stays
// a list of strings, a list of structs becomes a list of objects keyed by
// field name. Non-repeated nested fields are addressed by dotted path.
type Parquet struct {
	Path    string
	Columns Columns
}

func (s *Parquet) String() string { return s.Path }

// Load reads every row group of the file.
func (s *Parquet) Load(ctx context.Context) ([]model.Record, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat parquet: %w", err)
	}
	return ReadParquet(ctx, f, st.Size(), s.Columns)
}

// parquetLeaf describes how one leaf column contributes to a row's cells.
type parquetLeaf struct {
	cell     string // cell name the leaf feeds
	field    string // struct field name inside a repeated cell, "" for plain lists
	repeated bool
}

// ReadParquet decodes frames from a Parquet file of the given size.
func ReadParquet(ctx context.Context, r io.ReaderAt, size int64, cols Columns) ([]model.Record, error) {
	cols = cols.withDefaults()
	pf, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("parquet: %w", err)
	}

	leaves, err := parquetLeaves(pf.Schema())
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(leaves))
	for _, l := range leaves {
		present[l.cell] = true
	}
	for _, c := range cols.required() {
		if !present[c] {
			return nil, fmt.Errorf("parquet: missing column %q", c)
		}
	}

	var out []model.Record
	buf := make([]parquet.Row, 256)
	line := 0
	for _, rg := range pf.RowGroups() {
		rows := rg.Rows()
		for {
			n, err := rows.ReadRows(buf)
			for _, row := range buf[:n] {
				line++
				rec, derr := cols.decodeRecord(line, parquetCells(row, leaves))
				if derr != nil {
					rows.Close()
					return nil, fmt.Errorf("parquet: %w", derr)
				}
				out = append(out, rec)
			}
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				rows.Close()
				return nil, fmt.Errorf("parquet: %w", err)
			}
			if err := ctx.Err(); err != nil {
				rows.Close()
				return nil, err
			}
		}
		if err := rows.Close(); err != nil {
			return nil, fmt.Errorf("parquet: %w", err)
		}
	}
	return out, ctx.Err()
}

// parquetLeaves maps each leaf column, in column-index order, to the cell it
// feeds.
func parquetLeaves(schema *parquet.Schema) ([]parquetLeaf, error) {
	paths := schema.Columns()
	leaves := make([]parquetLeaf, len(paths))
	fields := make(map[string]int)
	for _, path := range paths {
		leaf, ok := schema.Lookup(path...)
		if !ok {
			return nil, fmt.Errorf("parquet: column %s not found in schema", strings.Join(path, "."))
		}
		l := parquetLeaf{cell: strings.Join(path, ".")}
		if leaf.MaxRepetitionLevel > 0 {
			l.repeated = true
			l.cell = path[0]
			fields[path[0]]++
		}
		leaves[leaf.ColumnIndex] = l
	}
	for _, path := range paths {
		leaf, _ := schema.Lookup(path...)
		l := &leaves[leaf.ColumnIndex]
		if l.repeated && fields[l.cell] > 1 {
			l.field = path[len(path)-1]
		}
	}
	return leaves, nil
}

// parquetCells renders a row as text cells for decodeRecord.
func parquetCells(row parquet.Row, leaves []parquetLeaf) cellFunc {
	cells := make(map[string]string, len(leaves))
	lists := make(map[string]string)
	index := make(map[int]int)
	for _, v := range row {
		col := v.Column()
		if col < 0 || col >= len(leaves) {
			continue
		}
		l := leaves[col]
		if !l.repeated {
			if !v.IsNull() {
				cells[l.cell] = parquetText(v)
			}
			continue
		}

		pos := index[col]
		index[col]++
		if v.IsNull() {
			continue
		}
		js, ok := lists[l.cell]
		if !ok {
			js = "[]"
		}
		key := strconv.Itoa(pos)
		if l.field != "" {
			key += "." + l.field
		}
		if set, err := sjson.Set(js, key, parquetText(v)); err == nil {
			js = set
		}
		lists[l.cell] = js
	}
	for name, js := range lists {
		cells[name] = js
	}
	return func(col string) (string, bool) {
		v, ok := cells[col]
		return v, ok
	}
}

func parquetText(v parquet.Value) string {
	switch v.Kind() {
	case parquet.Boolean:
		return strconv.FormatBool(v.Boolean())
	case parquet.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case parquet.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	case parquet.Float:
		return strconv.FormatFloat(float64(v.Float()), 'g', -1, 32)
	case parquet.Double:
		return strconv.FormatFloat(v.Double(), 'g', -1, 64)
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	default:
		return v.String()
	}
}
