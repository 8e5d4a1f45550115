package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/petar-djukic/cabplanner/internal/dbx"
	"github.com/petar-djukic/cabplanner/pkg/types"
)

// dbCabinetType is a catalog cabinet type as stored in the database.
type dbCabinetType struct {
	ID          string `db:"id"`
	Number      int    `db:"number"`
	KitchenType string `db:"kitchen_type"`
	Name        string `db:"name"`
	CreatedAt   dbTime `db:"created_at"`
	UpdatedAt   dbTime `db:"updated_at"`
}

func toDomainCabinetType(ct *dbCabinetType) *types.CabinetType {
	return &types.CabinetType{
		ID:          ct.ID,
		Number:      ct.Number,
		KitchenType: ct.KitchenType,
		Name:        ct.Name,
		CreatedAt:   ct.CreatedAt.Time(),
		UpdatedAt:   ct.UpdatedAt.Time(),
	}
}

// dbPart is a catalog part or a custom-cabinet snapshot part. OwnerID is
// cabinet_type_id or cabinet_id depending on the table.
type dbPart struct {
	ID          string `db:"id"`
	OwnerID     string `db:"owner_id"`
	Position    int    `db:"position"`
	PartName    string `db:"part_name"`
	HeightMM    int    `db:"height_mm"`
	WidthMM     int    `db:"width_mm"`
	Pieces      int    `db:"pieces"`
	Wrapping    string `db:"wrapping"`
	Material    string `db:"material"`
	ThicknessMM int    `db:"thickness_mm"`
	Comments    string `db:"comments"`
}

func toDomainPart(p *dbPart) *types.CabinetPart {
	return &types.CabinetPart{
		ID:            p.ID,
		CabinetTypeID: p.OwnerID,
		PartName:      p.PartName,
		HeightMM:      p.HeightMM,
		WidthMM:       p.WidthMM,
		Pieces:        p.Pieces,
		Wrapping:      p.Wrapping,
		Material:      p.Material,
		ThicknessMM:   p.ThicknessMM,
		Comments:      p.Comments,
	}
}

const cabinetTypeColumns = `id, number, kitchen_type, name, created_at, updated_at`

const partSelect = `SELECT id, cabinet_type_id AS owner_id, position, part_name, height_mm, width_mm,
	pieces, wrapping, material, thickness_mm, comments FROM cabinet_parts`

// CreateCabinetType stores a new catalog type with the next catalog ordinal.
func (s *Store) CreateCabinetType(ctx context.Context, ct *types.CabinetType) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	return insertCabinetType(ctx, db, ct)
}

// CreateCabinetTypeWithParts stores a new catalog type and its parts in one
// transaction. Either the type and every part are written or nothing is.
func (s *Store) CreateCabinetTypeWithParts(ctx context.Context, ct *types.CabinetType, parts []*types.CabinetPart) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := insertCabinetType(ctx, tx, ct); err != nil {
			return err
		}
		for _, p := range parts {
			p.CabinetTypeID = ct.ID
			if err := insertPart(ctx, tx, p); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertCabinetType(ctx context.Context, q dbx.DBTX, ct *types.CabinetType) error {
	if _, err := cabinetTypeByName(ctx, q, ct.Name); err == nil {
		return fmt.Errorf("cabinet type %q: %w", ct.Name, types.ErrDuplicateName)
	} else if !errors.Is(err, types.ErrNotFound) {
		return err
	}

	var maxNumber sql.NullInt64
	if err := q.GetContext(ctx, &maxNumber, `SELECT MAX(number) FROM cabinet_types`); err != nil {
		return fmt.Errorf("reading catalog ordinal: %w", err)
	}
	if ct.ID == "" {
		ct.ID = newID()
	}
	ct.Number = int(maxNumber.Int64) + 1
	ct.CreatedAt = now()
	ct.UpdatedAt = ct.CreatedAt

	row := dbCabinetType{
		ID:          ct.ID,
		Number:      ct.Number,
		KitchenType: ct.KitchenType,
		Name:        ct.Name,
		CreatedAt:   dbTime(ct.CreatedAt),
		UpdatedAt:   dbTime(ct.UpdatedAt),
	}
	query := `INSERT INTO cabinet_types (` + cabinetTypeColumns + `)
		VALUES (:id, :number, :kitchen_type, :name, :created_at, :updated_at)`
	if _, err := q.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("creating cabinet type %q: %w", ct.Name, err)
	}
	return nil
}

// GetCabinetType returns the catalog type with the given ID.
func (s *Store) GetCabinetType(ctx context.Context, id string) (*types.CabinetType, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	var row dbCabinetType
	query := db.Rebind(`SELECT ` + cabinetTypeColumns + ` FROM cabinet_types WHERE id = ?`)
	if err := db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("cabinet type %s: %w", id, types.ErrNotFound)
		}
		return nil, fmt.Errorf("getting cabinet type %s: %w", id, err)
	}
	return toDomainCabinetType(&row), nil
}

// GetCabinetTypeByName returns the catalog type with the exact name.
func (s *Store) GetCabinetTypeByName(ctx context.Context, name string) (*types.CabinetType, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	return cabinetTypeByName(ctx, db, name)
}

func cabinetTypeByName(ctx context.Context, q dbx.DBTX, name string) (*types.CabinetType, error) {
	var row dbCabinetType
	query := q.Rebind(`SELECT ` + cabinetTypeColumns + ` FROM cabinet_types WHERE name = ?`)
	if err := q.GetContext(ctx, &row, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("cabinet type %q: %w", name, types.ErrNotFound)
		}
		return nil, fmt.Errorf("getting cabinet type %q: %w", name, err)
	}
	return toDomainCabinetType(&row), nil
}

// ListCabinetTypes returns catalog types ordered by name.
func (s *Store) ListCabinetTypes(ctx context.Context, kitchenType string) ([]*types.CabinetType, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	var rows []*dbCabinetType
	query := `SELECT ` + cabinetTypeColumns + ` FROM cabinet_types`
	var args []any
	if kitchenType != "" {
		query += ` WHERE kitchen_type = ?`
		args = append(args, kitchenType)
	}
	query += ` ORDER BY name`
	if err := db.SelectContext(ctx, &rows, db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("listing cabinet types: %w", err)
	}
	out := make([]*types.CabinetType, len(rows))
	for i, r := range rows {
		out[i] = toDomainCabinetType(r)
	}
	return out, nil
}

// UpdateCabinetType writes the name and kitchen type. Renaming onto an
// existing name returns ErrDuplicateName.
func (s *Store) UpdateCabinetType(ctx context.Context, ct *types.CabinetType) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	if existing, err := cabinetTypeByName(ctx, db, ct.Name); err == nil && existing.ID != ct.ID {
		return fmt.Errorf("cabinet type %q: %w", ct.Name, types.ErrDuplicateName)
	}
	ct.UpdatedAt = now()
	query := db.Rebind(`UPDATE cabinet_types SET name = ?, kitchen_type = ?, updated_at = ? WHERE id = ?`)
	result, err := db.ExecContext(ctx, query, ct.Name, ct.KitchenType, dbTime(ct.UpdatedAt), ct.ID)
	if err != nil {
		return fmt.Errorf("updating cabinet type %s: %w", ct.ID, err)
	}
	return expectOne(result, "cabinet type", ct.ID)
}

// DeleteCabinetType removes the type and its parts. It returns ErrTypeInUse
// while project cabinets still reference the type.
func (s *Store) DeleteCabinetType(ctx context.Context, id string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var used int
		if err := tx.GetContext(ctx, &used, tx.Rebind(`SELECT COUNT(*) FROM cabinets WHERE type_id = ?`), id); err != nil {
			return fmt.Errorf("counting cabinets of type %s: %w", id, err)
		}
		if used > 0 {
			return fmt.Errorf("cabinet type %s has %d cabinets: %w", id, used, types.ErrTypeInUse)
		}
		result, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM cabinet_types WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("deleting cabinet type %s: %w", id, err)
		}
		return expectOne(result, "cabinet type", id)
	})
}

// AddPart appends a part to a catalog type.
func (s *Store) AddPart(ctx context.Context, part *types.CabinetPart) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	return insertPart(ctx, db, part)
}

func insertPart(ctx context.Context, q dbx.DBTX, part *types.CabinetPart) error {
	var maxPos sql.NullInt64
	if err := q.GetContext(ctx, &maxPos, q.Rebind(`SELECT MAX(position) FROM cabinet_parts WHERE cabinet_type_id = ?`), part.CabinetTypeID); err != nil {
		return fmt.Errorf("reading part position: %w", err)
	}
	if part.ID == "" {
		part.ID = newID()
	}
	row := dbPart{
		ID:          part.ID,
		OwnerID:     part.CabinetTypeID,
		Position:    int(maxPos.Int64) + 1,
		PartName:    part.PartName,
		HeightMM:    part.HeightMM,
		WidthMM:     part.WidthMM,
		Pieces:      part.Pieces,
		Wrapping:    part.Wrapping,
		Material:    part.Material,
		ThicknessMM: part.ThicknessMM,
		Comments:    part.Comments,
	}
	query := `INSERT INTO cabinet_parts (id, cabinet_type_id, position, part_name, height_mm, width_mm, pieces,
		wrapping, material, thickness_mm, comments) VALUES (:id, :owner_id, :position, :part_name, :height_mm,
		:width_mm, :pieces, :wrapping, :material, :thickness_mm, :comments)`
	if _, err := q.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("adding part %q: %w", part.PartName, err)
	}
	return nil
}

// ListParts returns the parts of a catalog type in insertion order.
func (s *Store) ListParts(ctx context.Context, typeID string) ([]*types.CabinetPart, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	var rows []*dbPart
	query := db.Rebind(partSelect + ` WHERE cabinet_type_id = ? ORDER BY position`)
	if err := db.SelectContext(ctx, &rows, query, typeID); err != nil {
		return nil, fmt.Errorf("listing parts of %s: %w", typeID, err)
	}
	out := make([]*types.CabinetPart, len(rows))
	for i, r := range rows {
		out[i] = toDomainPart(r)
	}
	return out, nil
}

// DeletePart removes one catalog part.
func (s *Store) DeletePart(ctx context.Context, id string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	result, err := db.ExecContext(ctx, db.Rebind(`DELETE FROM cabinet_parts WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("deleting part %s: %w", id, err)
	}
	return expectOne(result, "part", id)
}
