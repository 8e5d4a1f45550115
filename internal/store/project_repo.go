package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/petar-djukic/cabplanner/internal/dbx"
	"github.com/petar-djukic/cabplanner/pkg/types"
)

// dbProject is a project as stored in the database.
type dbProject struct {
	ID            string `db:"id"`
	Name          string `db:"name"`
	KitchenType   string `db:"kitchen_type"`
	OrderNumber   string `db:"order_number"`
	Status        string `db:"status"`
	ClientName    string `db:"client_name"`
	ClientAddress string `db:"client_address"`
	ClientPhone   string `db:"client_phone"`
	ClientEmail   string `db:"client_email"`
	Blaty         bool   `db:"blaty"`
	Cokoly        bool   `db:"cokoly"`
	Uwagi         bool   `db:"uwagi"`
	FlagNotes     string `db:"flag_notes"`
	CreatedAt     dbTime `db:"created_at"`
	UpdatedAt     dbTime `db:"updated_at"`
}

func toDomainProject(p *dbProject) *types.Project {
	return &types.Project{
		ID:            p.ID,
		Name:          p.Name,
		KitchenType:   p.KitchenType,
		OrderNumber:   p.OrderNumber,
		Status:        p.Status,
		ClientName:    p.ClientName,
		ClientAddress: p.ClientAddress,
		ClientPhone:   p.ClientPhone,
		ClientEmail:   p.ClientEmail,
		Blaty:         p.Blaty,
		Cokoly:        p.Cokoly,
		Uwagi:         p.Uwagi,
		FlagNotes:     p.FlagNotes,
		CreatedAt:     p.CreatedAt.Time(),
		UpdatedAt:     p.UpdatedAt.Time(),
	}
}

func fromDomainProject(p *types.Project) *dbProject {
	return &dbProject{
		ID:            p.ID,
		Name:          p.Name,
		KitchenType:   p.KitchenType,
		OrderNumber:   p.OrderNumber,
		Status:        p.Status,
		ClientName:    p.ClientName,
		ClientAddress: p.ClientAddress,
		ClientPhone:   p.ClientPhone,
		ClientEmail:   p.ClientEmail,
		Blaty:         p.Blaty,
		Cokoly:        p.Cokoly,
		Uwagi:         p.Uwagi,
		FlagNotes:     p.FlagNotes,
		CreatedAt:     dbTime(p.CreatedAt),
		UpdatedAt:     dbTime(p.UpdatedAt),
	}
}

const projectColumns = `id, name, kitchen_type, order_number, status, client_name, client_address,
	client_phone, client_email, blaty, cokoly, uwagi, flag_notes, created_at, updated_at`

// CreateProject stores a new project. ID, status and timestamps are filled
// when empty.
func (s *Store) CreateProject(ctx context.Context, p *types.Project) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = newID()
	}
	if p.Status == "" {
		p.Status = types.ProjectStatusDraft
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now()
	}
	p.UpdatedAt = p.CreatedAt

	query := `INSERT INTO projects (` + projectColumns + `) VALUES (:id, :name, :kitchen_type, :order_number,
		:status, :client_name, :client_address, :client_phone, :client_email, :blaty, :cokoly, :uwagi,
		:flag_notes, :created_at, :updated_at)`
	if _, err := db.NamedExecContext(ctx, query, fromDomainProject(p)); err != nil {
		return fmt.Errorf("creating project %s: %w", p.Name, err)
	}
	return nil
}

// GetProject returns the project with the given ID.
func (s *Store) GetProject(ctx context.Context, id string) (*types.Project, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	var row dbProject
	query := db.Rebind(`SELECT ` + projectColumns + ` FROM projects WHERE id = ?`)
	if err := db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project %s: %w", id, types.ErrNotFound)
		}
		return nil, fmt.Errorf("getting project %s: %w", id, err)
	}
	return toDomainProject(&row), nil
}

// ListProjects returns all projects, newest first.
func (s *Store) ListProjects(ctx context.Context) ([]*types.Project, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	var rows []*dbProject
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC, id DESC`
	if err := db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	out := make([]*types.Project, len(rows))
	for i, r := range rows {
		out[i] = toDomainProject(r)
	}
	return out, nil
}

// UpdateProject writes all mutable project fields.
func (s *Store) UpdateProject(ctx context.Context, p *types.Project) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	p.UpdatedAt = now()
	query := `UPDATE projects SET name = :name, kitchen_type = :kitchen_type, order_number = :order_number,
		status = :status, client_name = :client_name, client_address = :client_address,
		client_phone = :client_phone, client_email = :client_email, blaty = :blaty, cokoly = :cokoly,
		uwagi = :uwagi, flag_notes = :flag_notes, updated_at = :updated_at WHERE id = :id`
	result, err := db.NamedExecContext(ctx, query, fromDomainProject(p))
	if err != nil {
		return fmt.Errorf("updating project %s: %w", p.ID, err)
	}
	return expectOne(result, "project", p.ID)
}

// DeleteProject removes the project and, in the same transaction, its
// cabinets with their snapshots and accessory links.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM cabinets WHERE project_id = ?`), id); err != nil {
			return fmt.Errorf("deleting cabinets of project %s: %w", id, err)
		}
		result, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM projects WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("deleting project %s: %w", id, err)
		}
		return expectOne(result, "project", id)
	})
}

// expectOne maps a zero-row result to ErrNotFound.
func expectOne(result sql.Result, entity, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("fetching rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, types.ErrNotFound)
	}
	return nil
}
