package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/petar-djukic/cabplanner/internal/dbx"
	"github.com/petar-djukic/cabplanner/pkg/types"
)

// dbCabinet is a project cabinet as stored in the database.
type dbCabinet struct {
	ID              string          `db:"id"`
	ProjectID       string          `db:"project_id"`
	TypeID          sql.NullString  `db:"type_id"`
	Name            string          `db:"name"`
	SequenceNumber  int             `db:"sequence_number"`
	BodyColor       string          `db:"body_color"`
	FrontColor      string          `db:"front_color"`
	HandleType      string          `db:"handle_type"`
	Quantity        int             `db:"quantity"`
	WidthMM         sql.NullFloat64 `db:"width_mm"`
	HeightMM        sql.NullFloat64 `db:"height_mm"`
	DepthMM         sql.NullFloat64 `db:"depth_mm"`
	FormulaOffsetMM sql.NullFloat64 `db:"formula_offset_mm"`
	CreatedAt       dbTime          `db:"created_at"`
	UpdatedAt       dbTime          `db:"updated_at"`
}

func toDomainCabinet(c *dbCabinet) *types.Cabinet {
	return &types.Cabinet{
		ID:              c.ID,
		ProjectID:       c.ProjectID,
		TypeID:          c.TypeID.String,
		Name:            c.Name,
		SequenceNumber:  c.SequenceNumber,
		BodyColor:       c.BodyColor,
		FrontColor:      c.FrontColor,
		HandleType:      c.HandleType,
		Quantity:        c.Quantity,
		WidthMM:         floatPtr(c.WidthMM),
		HeightMM:        floatPtr(c.HeightMM),
		DepthMM:         floatPtr(c.DepthMM),
		FormulaOffsetMM: floatPtr(c.FormulaOffsetMM),
		CreatedAt:       c.CreatedAt.Time(),
		UpdatedAt:       c.UpdatedAt.Time(),
	}
}

func fromDomainCabinet(c *types.Cabinet) *dbCabinet {
	return &dbCabinet{
		ID:              c.ID,
		ProjectID:       c.ProjectID,
		TypeID:          nullString(c.TypeID),
		Name:            c.Name,
		SequenceNumber:  c.SequenceNumber,
		BodyColor:       c.BodyColor,
		FrontColor:      c.FrontColor,
		HandleType:      c.HandleType,
		Quantity:        c.Quantity,
		WidthMM:         nullFloat(c.WidthMM),
		HeightMM:        nullFloat(c.HeightMM),
		DepthMM:         nullFloat(c.DepthMM),
		FormulaOffsetMM: nullFloat(c.FormulaOffsetMM),
		CreatedAt:       dbTime(c.CreatedAt),
		UpdatedAt:       dbTime(c.UpdatedAt),
	}
}

const cabinetColumns = `id, project_id, type_id, name, sequence_number, body_color, front_color, handle_type,
	quantity, width_mm, height_mm, depth_mm, formula_offset_mm, created_at, updated_at`

const snapshotSelect = `SELECT id, cabinet_id AS owner_id, position, part_name, height_mm, width_mm,
	pieces, wrapping, material, thickness_mm, comments FROM cabinet_part_snapshots`

// CreateCabinet stores the cabinet and its snapshot parts in one transaction.
func (s *Store) CreateCabinet(ctx context.Context, c *types.Cabinet, parts []types.CabinetPartSnapshot) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = newID()
	}
	if c.Quantity == 0 {
		c.Quantity = 1
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now()
	}
	c.UpdatedAt = c.CreatedAt

	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query := `INSERT INTO cabinets (` + cabinetColumns + `) VALUES (:id, :project_id, :type_id, :name,
			:sequence_number, :body_color, :front_color, :handle_type, :quantity, :width_mm, :height_mm,
			:depth_mm, :formula_offset_mm, :created_at, :updated_at)`
		if _, err := tx.NamedExecContext(ctx, query, fromDomainCabinet(c)); err != nil {
			return fmt.Errorf("creating cabinet: %w", err)
		}
		return insertSnapshots(ctx, tx, c.ID, parts)
	})
}

// GetCabinet returns the cabinet with the given ID.
func (s *Store) GetCabinet(ctx context.Context, id string) (*types.Cabinet, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	var row dbCabinet
	query := db.Rebind(`SELECT ` + cabinetColumns + ` FROM cabinets WHERE id = ?`)
	if err := db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("cabinet %s: %w", id, types.ErrNotFound)
		}
		return nil, fmt.Errorf("getting cabinet %s: %w", id, err)
	}
	return toDomainCabinet(&row), nil
}

// ListCabinets returns the cabinets of a project ordered by sequence.
func (s *Store) ListCabinets(ctx context.Context, projectID string) ([]*types.Cabinet, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	var rows []*dbCabinet
	query := db.Rebind(`SELECT ` + cabinetColumns + ` FROM cabinets WHERE project_id = ? ORDER BY sequence_number, id`)
	if err := db.SelectContext(ctx, &rows, query, projectID); err != nil {
		return nil, fmt.Errorf("listing cabinets of project %s: %w", projectID, err)
	}
	out := make([]*types.Cabinet, len(rows))
	for i, r := range rows {
		out[i] = toDomainCabinet(r)
	}
	return out, nil
}

// UpdateCabinet writes all mutable cabinet fields.
func (s *Store) UpdateCabinet(ctx context.Context, c *types.Cabinet) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	c.UpdatedAt = now()
	query := `UPDATE cabinets SET type_id = :type_id, name = :name, sequence_number = :sequence_number,
		body_color = :body_color, front_color = :front_color, handle_type = :handle_type,
		quantity = :quantity, width_mm = :width_mm, height_mm = :height_mm, depth_mm = :depth_mm,
		formula_offset_mm = :formula_offset_mm, updated_at = :updated_at WHERE id = :id`
	result, err := db.NamedExecContext(ctx, query, fromDomainCabinet(c))
	if err != nil {
		return fmt.Errorf("updating cabinet %s: %w", c.ID, err)
	}
	return expectOne(result, "cabinet", c.ID)
}

// DeleteCabinet removes a cabinet. Snapshots and accessory links cascade.
func (s *Store) DeleteCabinet(ctx context.Context, id string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	result, err := db.ExecContext(ctx, db.Rebind(`DELETE FROM cabinets WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("deleting cabinet %s: %w", id, err)
	}
	return expectOne(result, "cabinet", id)
}

// MaxSequence returns the highest sequence number in the project, or 0.
func (s *Store) MaxSequence(ctx context.Context, projectID string) (int, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}
	var maxSeq sql.NullInt64
	query := db.Rebind(`SELECT MAX(sequence_number) FROM cabinets WHERE project_id = ?`)
	if err := db.GetContext(ctx, &maxSeq, query, projectID); err != nil {
		return 0, fmt.Errorf("reading max sequence of project %s: %w", projectID, err)
	}
	return int(maxSeq.Int64), nil
}

// UpdateSequences writes the sequence numbers of the given cabinets in one
// transaction.
func (s *Store) UpdateSequences(ctx context.Context, cabinets []*types.Cabinet) error {
	if len(cabinets) == 0 {
		return nil
	}
	db, err := s.conn()
	if err != nil {
		return err
	}
	ts := now()
	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query := tx.Rebind(`UPDATE cabinets SET sequence_number = ?, updated_at = ? WHERE id = ?`)
		for _, c := range cabinets {
			result, err := tx.ExecContext(ctx, query, c.SequenceNumber, dbTime(ts), c.ID)
			if err != nil {
				return fmt.Errorf("updating sequence of cabinet %s: %w", c.ID, err)
			}
			if err := expectOne(result, "cabinet", c.ID); err != nil {
				return err
			}
			c.UpdatedAt = ts
		}
		return nil
	})
}

// ReplaceSnapshots swaps the snapshot parts of a cabinet.
func (s *Store) ReplaceSnapshots(ctx context.Context, cabinetID string, parts []types.CabinetPartSnapshot) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM cabinet_part_snapshots WHERE cabinet_id = ?`), cabinetID); err != nil {
			return fmt.Errorf("clearing snapshots of cabinet %s: %w", cabinetID, err)
		}
		return insertSnapshots(ctx, tx, cabinetID, parts)
	})
}

func insertSnapshots(ctx context.Context, tx dbx.DBTX, cabinetID string, parts []types.CabinetPartSnapshot) error {
	query := `INSERT INTO cabinet_part_snapshots (id, cabinet_id, position, part_name, height_mm, width_mm,
		pieces, wrapping, material, thickness_mm, comments) VALUES (:id, :owner_id, :position, :part_name,
		:height_mm, :width_mm, :pieces, :wrapping, :material, :thickness_mm, :comments)`
	for i, p := range parts {
		row := dbPart{
			ID:          newID(),
			OwnerID:     cabinetID,
			Position:    i + 1,
			PartName:    p.PartName,
			HeightMM:    p.HeightMM,
			WidthMM:     p.WidthMM,
			Pieces:      p.Pieces,
			Wrapping:    p.Wrapping,
			Material:    p.Material,
			ThicknessMM: p.ThicknessMM,
			Comments:    p.Comments,
		}
		if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
			return fmt.Errorf("storing snapshot part %q: %w", p.PartName, err)
		}
	}
	return nil
}

// ListSnapshots returns the snapshot parts of a custom cabinet in order.
func (s *Store) ListSnapshots(ctx context.Context, cabinetID string) ([]*types.CabinetPartSnapshot, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	var rows []*dbPart
	query := db.Rebind(snapshotSelect + ` WHERE cabinet_id = ? ORDER BY position`)
	if err := db.SelectContext(ctx, &rows, query, cabinetID); err != nil {
		return nil, fmt.Errorf("listing snapshots of cabinet %s: %w", cabinetID, err)
	}
	out := make([]*types.CabinetPartSnapshot, len(rows))
	for i, r := range rows {
		out[i] = &types.CabinetPartSnapshot{
			ID:          r.ID,
			CabinetID:   r.OwnerID,
			PartName:    r.PartName,
			HeightMM:    r.HeightMM,
			WidthMM:     r.WidthMM,
			Pieces:      r.Pieces,
			Wrapping:    r.Wrapping,
			Material:    r.Material,
			ThicknessMM: r.ThicknessMM,
			Comments:    r.Comments,
		}
	}
	return out, nil
}
