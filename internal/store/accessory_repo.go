package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/petar-djukic/cabplanner/pkg/types"
)

// dbAccessory is an accessory as stored in the database.
type dbAccessory struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	SKU       string `db:"sku"`
	CreatedAt dbTime `db:"created_at"`
	UpdatedAt dbTime `db:"updated_at"`
}

func toDomainAccessory(a *dbAccessory) *types.Accessory {
	return &types.Accessory{
		ID:        a.ID,
		Name:      a.Name,
		SKU:       a.SKU,
		CreatedAt: a.CreatedAt.Time(),
		UpdatedAt: a.UpdatedAt.Time(),
	}
}

// dbLinkedAccessory is an accessory joined with its cabinet link.
type dbLinkedAccessory struct {
	dbAccessory
	Count int `db:"count"`
}

const accessoryColumns = `id, name, sku, created_at, updated_at`

// CreateAccessory stores a new accessory. The SKU must be unique.
func (s *Store) CreateAccessory(ctx context.Context, a *types.Accessory) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	a.Name = strings.TrimSpace(a.Name)
	a.SKU = strings.TrimSpace(a.SKU)
	if a.Name == "" || a.SKU == "" {
		return types.ErrEmptyName
	}
	if _, err := s.FindAccessoryBySKU(ctx, a.SKU); err == nil {
		return fmt.Errorf("accessory %q: %w", a.SKU, types.ErrDuplicateName)
	}
	if a.ID == "" {
		a.ID = newID()
	}
	a.CreatedAt = now()
	a.UpdatedAt = a.CreatedAt
	row := dbAccessory{ID: a.ID, Name: a.Name, SKU: a.SKU, CreatedAt: dbTime(a.CreatedAt), UpdatedAt: dbTime(a.UpdatedAt)}
	query := `INSERT INTO accessories (` + accessoryColumns + `) VALUES (:id, :name, :sku, :created_at, :updated_at)`
	if _, err := db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("creating accessory %s: %w", a.SKU, err)
	}
	return nil
}

// GetAccessory returns the accessory with the given ID.
func (s *Store) GetAccessory(ctx context.Context, id string) (*types.Accessory, error) {
	return s.accessoryBy(ctx, "id", id)
}

// FindAccessoryBySKU returns the accessory with the given SKU.
func (s *Store) FindAccessoryBySKU(ctx context.Context, sku string) (*types.Accessory, error) {
	return s.accessoryBy(ctx, "sku", strings.TrimSpace(sku))
}

func (s *Store) accessoryBy(ctx context.Context, column, value string) (*types.Accessory, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	var row dbAccessory
	query := db.Rebind(`SELECT ` + accessoryColumns + ` FROM accessories WHERE ` + column + ` = ?`)
	if err := db.GetContext(ctx, &row, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("accessory %s: %w", value, types.ErrNotFound)
		}
		return nil, fmt.Errorf("getting accessory %s: %w", value, err)
	}
	return toDomainAccessory(&row), nil
}

// GetOrCreateAccessory returns the accessory with sku, creating it with
// name when missing.
func (s *Store) GetOrCreateAccessory(ctx context.Context, name, sku string) (*types.Accessory, error) {
	a, err := s.FindAccessoryBySKU(ctx, sku)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, types.ErrNotFound) {
		return nil, err
	}
	a = &types.Accessory{Name: name, SKU: sku}
	if err := s.CreateAccessory(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ListAccessories returns all accessories ordered by name.
func (s *Store) ListAccessories(ctx context.Context) ([]*types.Accessory, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	var rows []*dbAccessory
	if err := db.SelectContext(ctx, &rows, `SELECT `+accessoryColumns+` FROM accessories ORDER BY name, sku`); err != nil {
		return nil, fmt.Errorf("listing accessories: %w", err)
	}
	out := make([]*types.Accessory, len(rows))
	for i, r := range rows {
		out[i] = toDomainAccessory(r)
	}
	return out, nil
}

// UpdateAccessory writes the name and SKU.
func (s *Store) UpdateAccessory(ctx context.Context, a *types.Accessory) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	if existing, err := s.FindAccessoryBySKU(ctx, a.SKU); err == nil && existing.ID != a.ID {
		return fmt.Errorf("accessory %q: %w", a.SKU, types.ErrDuplicateName)
	}
	a.UpdatedAt = now()
	query := db.Rebind(`UPDATE accessories SET name = ?, sku = ?, updated_at = ? WHERE id = ?`)
	result, err := db.ExecContext(ctx, query, a.Name, a.SKU, dbTime(a.UpdatedAt), a.ID)
	if err != nil {
		return fmt.Errorf("updating accessory %s: %w", a.ID, err)
	}
	return expectOne(result, "accessory", a.ID)
}

// DeleteAccessory removes the accessory and its cabinet links.
func (s *Store) DeleteAccessory(ctx context.Context, id string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	result, err := db.ExecContext(ctx, db.Rebind(`DELETE FROM accessories WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("deleting accessory %s: %w", id, err)
	}
	return expectOne(result, "accessory", id)
}

// LinkAccessory sets the count of an accessory on a cabinet, replacing any
// previous count.
func (s *Store) LinkAccessory(ctx context.Context, cabinetID, accessoryID string, count int) error {
	if count < 1 {
		return types.ErrInvalidQuantity
	}
	db, err := s.conn()
	if err != nil {
		return err
	}
	query := db.Rebind(`INSERT INTO cabinet_accessories (cabinet_id, accessory_id, count) VALUES (?, ?, ?)
		ON CONFLICT (cabinet_id, accessory_id) DO UPDATE SET count = excluded.count`)
	if _, err := db.ExecContext(ctx, query, cabinetID, accessoryID, count); err != nil {
		return fmt.Errorf("linking accessory %s to cabinet %s: %w", accessoryID, cabinetID, err)
	}
	return nil
}

// UnlinkAccessory removes an accessory from a cabinet.
func (s *Store) UnlinkAccessory(ctx context.Context, cabinetID, accessoryID string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	query := db.Rebind(`DELETE FROM cabinet_accessories WHERE cabinet_id = ? AND accessory_id = ?`)
	result, err := db.ExecContext(ctx, query, cabinetID, accessoryID)
	if err != nil {
		return fmt.Errorf("unlinking accessory %s: %w", accessoryID, err)
	}
	return expectOne(result, "accessory link", accessoryID)
}

// ListCabinetAccessories returns the accessories linked to a cabinet.
func (s *Store) ListCabinetAccessories(ctx context.Context, cabinetID string) ([]*types.LinkedAccessory, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	var rows []*dbLinkedAccessory
	query := db.Rebind(`SELECT a.id, a.name, a.sku, a.created_at, a.updated_at, ca.count
		FROM accessories a
		JOIN cabinet_accessories ca ON a.id = ca.accessory_id
		WHERE ca.cabinet_id = ?
		ORDER BY a.name`)
	if err := db.SelectContext(ctx, &rows, query, cabinetID); err != nil {
		return nil, fmt.Errorf("listing accessories of cabinet %s: %w", cabinetID, err)
	}
	out := make([]*types.LinkedAccessory, len(rows))
	for i, r := range rows {
		out[i] = &types.LinkedAccessory{Accessory: *toDomainAccessory(&r.dbAccessory), Count: r.Count}
	}
	return out, nil
}
