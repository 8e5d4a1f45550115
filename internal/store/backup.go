package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/petar-djukic/cabplanner/internal/dbx"
)

// backupTable maps one table to its JSONL file. Tables are listed parents
// first so imports satisfy foreign keys.
type backupTable struct {
	table   string
	columns []string
	bools   []string
}

func (t backupTable) file() string {
	return t.table + ".jsonl"
}

var backupTables = []backupTable{
	{table: "projects", columns: []string{"id", "name", "kitchen_type", "order_number", "status", "client_name",
		"client_address", "client_phone", "client_email", "blaty", "cokoly", "uwagi", "flag_notes", "created_at",
		"updated_at"}, bools: []string{"blaty", "cokoly", "uwagi"}},
	{table: "cabinet_types", columns: []string{"id", "number", "kitchen_type", "name", "created_at", "updated_at"}},
	{table: "cabinet_parts", columns: []string{"id", "cabinet_type_id", "position", "part_name", "height_mm",
		"width_mm", "pieces", "wrapping", "material", "thickness_mm", "comments"}},
	{table: "cabinets", columns: []string{"id", "project_id", "type_id", "name", "sequence_number", "body_color",
		"front_color", "handle_type", "quantity", "width_mm", "height_mm", "depth_mm", "formula_offset_mm",
		"created_at", "updated_at"}},
	{table: "cabinet_part_snapshots", columns: []string{"id", "cabinet_id", "position", "part_name", "height_mm",
		"width_mm", "pieces", "wrapping", "material", "thickness_mm", "comments"}},
	{table: "accessories", columns: []string{"id", "name", "sku", "created_at", "updated_at"}},
	{table: "cabinet_accessories", columns: []string{"cabinet_id", "accessory_id", "count"}},
	{table: "formula_constants", columns: []string{"key", "value", "type", "group_name", "description"}},
	{table: "settings", columns: []string{"key", "value", "value_type"}},
	{table: "colors", columns: []string{"id", "name", "normalized_name", "hex_code", "source", "usage_count",
		"last_used_at", "is_active", "created_at", "updated_at"}, bools: []string{"is_active"}},
}

// Export writes one JSONL file per table into dir. Each file is replaced
// atomically.
func (s *Store) Export(ctx context.Context, dir string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating backup dir: %w", err)
	}

	for _, t := range backupTables {
		query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", strings.Join(t.columns, ", "), t.table, t.columns[0])
		rows, err := db.QueryxContext(ctx, query)
		if err != nil {
			return fmt.Errorf("reading %s: %w", t.table, err)
		}

		var records []json.RawMessage
		for rows.Next() {
			rec := make(map[string]any)
			if err := rows.MapScan(rec); err != nil {
				rows.Close()
				return fmt.Errorf("scanning %s: %w", t.table, err)
			}
			normalizeRecord(rec, t.bools)
			b, err := json.Marshal(rec)
			if err != nil {
				rows.Close()
				return fmt.Errorf("encoding %s record: %w", t.table, err)
			}
			records = append(records, b)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("iterating %s: %w", t.table, err)
		}
		rows.Close()

		if err := writeJSONL(filepath.Join(dir, t.file()), records); err != nil {
			return fmt.Errorf("writing %s: %w", t.file(), err)
		}
	}
	s.log.Info(ctx, "backup exported", "dir", dir)
	return nil
}

// Import replaces the database contents with the JSONL files in dir, in
// one transaction. Missing files leave their table empty. Malformed lines
// and unknown fields are ignored.
func (s *Store) Import(ctx context.Context, dir string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	loaded := make([][]map[string]any, len(backupTables))
	for i, t := range backupTables {
		raw, err := readJSONL(filepath.Join(dir, t.file()))
		if err != nil {
			return err
		}
		for _, r := range raw {
			rec, err := decodeRecord(r)
			if err != nil {
				continue
			}
			loaded[i] = append(loaded[i], rec)
		}
	}

	err = dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for i := len(backupTables) - 1; i >= 0; i-- {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+backupTables[i].table); err != nil {
				return fmt.Errorf("clearing %s: %w", backupTables[i].table, err)
			}
		}
		for i, t := range backupTables {
			if err := insertRecords(ctx, tx, t, loaded[i]); err != nil {
				return fmt.Errorf("loading %s: %w", t.file(), err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info(ctx, "backup imported", "dir", dir)
	return nil
}

// insertRecords inserts records using only the mapped columns. Missing
// fields are stored as NULL.
func insertRecords(ctx context.Context, tx dbx.DBTX, t backupTable, records []map[string]any) error {
	if len(records) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.columns)), ", ")
	query := tx.Rebind(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.table, strings.Join(t.columns, ", "), placeholders))

	for _, rec := range records {
		args := make([]any, len(t.columns))
		for i, col := range t.columns {
			args[i] = rec[col]
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return nil
}

// normalizeRecord converts driver values into JSON-friendly ones: text as
// string, and booleans stored as integers back to bool.
func normalizeRecord(rec map[string]any, bools []string) {
	for k, v := range rec {
		if b, ok := v.([]byte); ok {
			rec[k] = string(b)
		}
	}
	for _, col := range bools {
		switch v := rec[col].(type) {
		case int64:
			rec[col] = v != 0
		case int:
			rec[col] = v != 0
		}
	}
}

// decodeRecord parses a JSON object keeping integers as int64.
func decodeRecord(raw json.RawMessage) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var rec map[string]any
	if err := dec.Decode(&rec); err != nil {
		return nil, err
	}
	for k, v := range rec {
		n, ok := v.(json.Number)
		if !ok {
			continue
		}
		if i, err := n.Int64(); err == nil {
			rec[k] = i
		} else if f, err := n.Float64(); err == nil {
			rec[k] = f
		}
	}
	return rec, nil
}
