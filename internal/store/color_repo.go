package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/petar-djukic/cabplanner/internal/dbx"
	"github.com/petar-djukic/cabplanner/pkg/types"
)

// dbColor is a color dictionary entry as stored in the database.
type dbColor struct {
	ID             string     `db:"id"`
	Name           string     `db:"name"`
	NormalizedName string     `db:"normalized_name"`
	HexCode        string     `db:"hex_code"`
	Source         string     `db:"source"`
	UsageCount     int        `db:"usage_count"`
	LastUsedAt     dbNullTime `db:"last_used_at"`
	IsActive       bool       `db:"is_active"`
	CreatedAt      dbTime     `db:"created_at"`
	UpdatedAt      dbTime     `db:"updated_at"`
}

func toDomainColor(c *dbColor) *types.Color {
	return &types.Color{
		ID:             c.ID,
		Name:           c.Name,
		NormalizedName: c.NormalizedName,
		HexCode:        c.HexCode,
		Source:         c.Source,
		UsageCount:     c.UsageCount,
		LastUsedAt:     c.LastUsedAt.ptr(),
		IsActive:       c.IsActive,
	}
}

func fromDomainColor(c *types.Color) *dbColor {
	ts := now()
	return &dbColor{
		ID:             c.ID,
		Name:           c.Name,
		NormalizedName: c.NormalizedName,
		HexCode:        c.HexCode,
		Source:         c.Source,
		UsageCount:     c.UsageCount,
		LastUsedAt:     nullTimeFrom(c.LastUsedAt),
		IsActive:       c.IsActive,
		CreatedAt:      dbTime(ts),
		UpdatedAt:      dbTime(ts),
	}
}

const colorColumns = `id, name, normalized_name, hex_code, source, usage_count, last_used_at, is_active,
	created_at, updated_at`

// ListSystemColorNames returns the normalized names of system colors.
func (s *Store) ListSystemColorNames(ctx context.Context) ([]string, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	var names []string
	query := db.Rebind(`SELECT normalized_name FROM colors WHERE source = ? ORDER BY normalized_name`)
	if err := db.SelectContext(ctx, &names, query, types.ColorSourceSystem); err != nil {
		return nil, fmt.Errorf("listing system colors: %w", err)
	}
	return names, nil
}

// InsertColor stores a new color. A taken normalized name returns
// ErrColorExists.
func (s *Store) InsertColor(ctx context.Context, c *types.Color) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	return insertColor(ctx, db, c, false)
}

func insertColor(ctx context.Context, q dbx.DBTX, c *types.Color, ignoreExisting bool) error {
	if c.ID == "" {
		c.ID = newID()
	}
	var n int
	if err := q.GetContext(ctx, &n, q.Rebind(`SELECT COUNT(*) FROM colors WHERE normalized_name = ?`), c.NormalizedName); err != nil {
		return fmt.Errorf("checking color %q: %w", c.Name, err)
	}
	if n > 0 {
		if ignoreExisting {
			return nil
		}
		return fmt.Errorf("color %q: %w", c.Name, types.ErrColorExists)
	}
	query := `INSERT INTO colors (` + colorColumns + `) VALUES (:id, :name, :normalized_name, :hex_code,
		:source, :usage_count, :last_used_at, :is_active, :created_at, :updated_at)`
	if _, err := q.NamedExecContext(ctx, query, fromDomainColor(c)); err != nil {
		return fmt.Errorf("inserting color %q: %w", c.Name, err)
	}
	return nil
}

// FindColorByNormalized returns the color with the given normalized name.
func (s *Store) FindColorByNormalized(ctx context.Context, normalized string) (*types.Color, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	var row dbColor
	query := db.Rebind(`SELECT ` + colorColumns + ` FROM colors WHERE normalized_name = ?`)
	if err := db.GetContext(ctx, &row, query, normalized); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("color %q: %w", normalized, types.ErrNotFound)
		}
		return nil, fmt.Errorf("getting color %q: %w", normalized, err)
	}
	return toDomainColor(&row), nil
}

// UpdateColor writes the mutable fields of a color.
func (s *Store) UpdateColor(ctx context.Context, c *types.Color) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	query := db.Rebind(`UPDATE colors SET name = ?, hex_code = ?, usage_count = ?, last_used_at = ?,
		is_active = ?, updated_at = ? WHERE id = ?`)
	result, err := db.ExecContext(ctx, query, c.Name, c.HexCode, c.UsageCount, nullTimeFrom(c.LastUsedAt),
		c.IsActive, dbTime(now()), c.ID)
	if err != nil {
		return fmt.Errorf("updating color %s: %w", c.ID, err)
	}
	return expectOne(result, "color", c.ID)
}

// ListRecentColors returns active colors that were used at least once,
// most recent first.
func (s *Store) ListRecentColors(ctx context.Context, limit int) ([]*types.Color, error) {
	if limit <= 0 {
		return []*types.Color{}, nil
	}
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	var rows []*dbColor
	query := db.Rebind(`SELECT ` + colorColumns + ` FROM colors
		WHERE is_active = ? AND usage_count > 0
		ORDER BY last_used_at DESC, usage_count DESC, name ASC
		LIMIT ?`)
	if err := db.SelectContext(ctx, &rows, query, true, limit); err != nil {
		return nil, fmt.Errorf("listing recent colors: %w", err)
	}
	return colorsToDomain(rows), nil
}

// ListActiveColors returns active colors, system colors first, then by name.
func (s *Store) ListActiveColors(ctx context.Context) ([]*types.Color, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	var rows []*dbColor
	query := db.Rebind(`SELECT ` + colorColumns + ` FROM colors WHERE is_active = ? ORDER BY source ASC, name ASC`)
	if err := db.SelectContext(ctx, &rows, query, true); err != nil {
		return nil, fmt.Errorf("listing active colors: %w", err)
	}
	return colorsToDomain(rows), nil
}

func colorsToDomain(rows []*dbColor) []*types.Color {
	out := make([]*types.Color, len(rows))
	for i, r := range rows {
		out[i] = toDomainColor(r)
	}
	return out
}
