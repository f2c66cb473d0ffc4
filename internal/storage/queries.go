package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/sjson"

	"github.com/pable/go-cs-gamestate/internal/model"
)

// InsertFrames bulk-inserts records into the frames table in a transaction.
// Inventories are stored as awpy-style JSON arrays.
func (db *DB) InsertFrames(recs []model.Record) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO frames(
			round_num, tick, round_start_tick, seconds,
			team, side, player, x, y, z,
			area_name, is_alive, inventory
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range recs {
		inv, err := encodeInventory(r.Inventory)
		if err != nil {
			return fmt.Errorf("encode inventory for %s tick %d: %w", r.Player, r.Tick, err)
		}
		_, err = stmt.Exec(
			r.Round, r.Tick, nullInt(r.RoundStartTick, r.HasRoundStart), nullFloat(r.Clock, r.HasClock),
			r.Team, r.Side.String(), r.Player, r.Position.X, r.Position.Y, r.Position.Z,
			r.Area, boolInt(r.Alive), inv,
		)
		if err != nil {
			return fmt.Errorf("insert frame for %s tick %d: %w", r.Player, r.Tick, err)
		}
	}
	return tx.Commit()
}

// CountFrames returns the number of stored frames.
func (db *DB) CountFrames() (int, error) {
	var n int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM frames").Scan(&n)
	return n, err
}

// ScanTable streams every row of table to fn as text cells keyed by column
// name. NULL cells are passed as empty strings.
func (db *DB) ScanTable(ctx context.Context, table string, fn func(row map[string]string) error) error {
	if !validIdent(table) {
		return fmt.Errorf("invalid table name %q", table)
	}
	rows, err := db.conn.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM "%s"`, table))
	if err != nil {
		return err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	vals := make([]sql.NullString, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return err
		}
		row := make(map[string]string, len(cols))
		for i, c := range cols {
			row[c] = vals[i].String
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	return rows.Err()
}

// QueryRaw runs an arbitrary query and returns column names and stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			if v.Valid {
				row[i] = v.String
			} else {
				row[i] = "NULL"
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func encodeInventory(items []model.Item) (any, error) {
	if len(items) == 0 {
		return nil, nil
	}
	js := "[]"
	var err error
	for i, it := range items {
		if js, err = sjson.Set(js, strconv.Itoa(i)+".weapon_name", it.Name); err != nil {
			return nil, err
		}
		if it.Class == "" {
			continue
		}
		if js, err = sjson.Set(js, strconv.Itoa(i)+".weapon_class", it.Class); err != nil {
			return nil, err
		}
	}
	return js, nil
}

func validIdent(s string) bool {
	if s == "" {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool {
		return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	}) < 0
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullInt(v int, ok bool) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(v), Valid: ok}
}

func nullFloat(v float64, ok bool) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: ok}
}
