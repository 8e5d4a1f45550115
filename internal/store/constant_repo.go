package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/petar-djukic/cabplanner/internal/dbx"
	"github.com/petar-djukic/cabplanner/pkg/types"
)

// dbConstant is a formula constant as stored in the database.
type dbConstant struct {
	Key         string  `db:"key"`
	Value       float64 `db:"value"`
	Type        string  `db:"type"`
	Group       string  `db:"group_name"`
	Description string  `db:"description"`
}

func toDomainConstant(c *dbConstant) *types.FormulaConstant {
	return &types.FormulaConstant{
		Key:         c.Key,
		Value:       c.Value,
		Type:        c.Type,
		Group:       c.Group,
		Description: c.Description,
	}
}

const constantColumns = `key, value, type, group_name, description`

// ListConstants returns constants ordered by key, optionally of one group.
func (s *Store) ListConstants(ctx context.Context, group string) ([]*types.FormulaConstant, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + constantColumns + ` FROM formula_constants`
	var args []any
	if group != "" {
		query += ` WHERE group_name = ?`
		args = append(args, group)
	}
	query += ` ORDER BY key`

	var rows []*dbConstant
	if err := db.SelectContext(ctx, &rows, db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("listing constants: %w", err)
	}
	out := make([]*types.FormulaConstant, len(rows))
	for i, r := range rows {
		out[i] = toDomainConstant(r)
	}
	return out, nil
}

// GetConstant returns the constant with the given key.
func (s *Store) GetConstant(ctx context.Context, key string) (*types.FormulaConstant, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	var row dbConstant
	query := db.Rebind(`SELECT ` + constantColumns + ` FROM formula_constants WHERE key = ?`)
	if err := db.GetContext(ctx, &row, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("constant %s: %w", key, types.ErrNotFound)
		}
		return nil, fmt.Errorf("getting constant %s: %w", key, err)
	}
	return toDomainConstant(&row), nil
}

// SetConstant inserts the constant or replaces the stored one with the
// same key.
func (s *Store) SetConstant(ctx context.Context, c *types.FormulaConstant) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	return upsertConstant(ctx, db, c, true)
}

func upsertConstant(ctx context.Context, q dbx.DBTX, c *types.FormulaConstant, replace bool) error {
	if c.Key == "" {
		return types.ErrEmptyName
	}
	if c.Type == "" {
		c.Type = types.DefaultConstantType
	}
	conflict := `DO NOTHING`
	if replace {
		conflict = `DO UPDATE SET value = excluded.value, type = excluded.type,
			group_name = excluded.group_name, description = excluded.description`
	}
	query := `INSERT INTO formula_constants (` + constantColumns + `)
		VALUES (:key, :value, :type, :group_name, :description)
		ON CONFLICT (key) ` + conflict
	row := dbConstant{Key: c.Key, Value: c.Value, Type: c.Type, Group: c.Group, Description: c.Description}
	if _, err := q.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("setting constant %s: %w", c.Key, err)
	}
	return nil
}
