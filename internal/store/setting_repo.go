package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/petar-djukic/cabplanner/pkg/types"
)

type dbSetting struct {
	Key       string `db:"key"`
	Value     string `db:"value"`
	ValueType string `db:"value_type"`
}

// GetSetting returns the setting with the given key.
func (s *Store) GetSetting(ctx context.Context, key string) (*types.Setting, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	var row dbSetting
	query := db.Rebind(`SELECT key, value, value_type FROM settings WHERE key = ?`)
	if err := db.GetContext(ctx, &row, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("setting %s: %w", key, types.ErrNotFound)
		}
		return nil, fmt.Errorf("getting setting %s: %w", key, err)
	}
	return &types.Setting{Key: row.Key, Value: row.Value, ValueType: row.ValueType}, nil
}

// SetSetting inserts or replaces a setting.
func (s *Store) SetSetting(ctx context.Context, st *types.Setting) error {
	if st.Key == "" {
		return types.ErrEmptyName
	}
	if !types.IsValueType(st.ValueType) {
		return fmt.Errorf("setting %s: %w", st.Key, types.ErrInvalidValueType)
	}
	db, err := s.conn()
	if err != nil {
		return err
	}
	query := `INSERT INTO settings (key, value, value_type) VALUES (:key, :value, :value_type)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, value_type = excluded.value_type`
	if _, err := db.NamedExecContext(ctx, query, dbSetting{Key: st.Key, Value: st.Value, ValueType: st.ValueType}); err != nil {
		return fmt.Errorf("setting %s: %w", st.Key, err)
	}
	return nil
}

// DeleteSetting removes a setting. Deleting a missing key is not an error.
func (s *Store) DeleteSetting(ctx context.Context, key string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, db.Rebind(`DELETE FROM settings WHERE key = ?`), key); err != nil {
		return fmt.Errorf("deleting setting %s: %w", key, err)
	}
	return nil
}

// ListSettings returns all settings ordered by key.
func (s *Store) ListSettings(ctx context.Context) ([]*types.Setting, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	var rows []*dbSetting
	if err := db.SelectContext(ctx, &rows, `SELECT key, value, value_type FROM settings ORDER BY key`); err != nil {
		return nil, fmt.Errorf("listing settings: %w", err)
	}
	out := make([]*types.Setting, len(rows))
	for i, r := range rows {
		out[i] = &types.Setting{Key: r.Key, Value: r.Value, ValueType: r.ValueType}
	}
	return out, nil
}
