// Package project implements the project and cabinet use cases: project
// CRUD with client data, placing catalog and custom cabinets, quantities,
// sequence ordering, duplication and accessory links.
package project

import (
	"context"
	"fmt"
	"strings"

	"github.com/petar-djukic/cabplanner/internal/colors"
	"github.com/petar-djukic/cabplanner/internal/formula"
	"github.com/petar-djukic/cabplanner/internal/logging"
	"github.com/petar-djukic/cabplanner/pkg/types"
)

// Repository is the storage the service needs. *store.Store satisfies it.
type Repository interface {
	types.ProjectRepository
	types.CabinetRepository
	types.CabinetTypeRepository
	types.AccessoryRepository
}

// Service is the project use-case layer.
type Service struct {
	repo    Repository
	planner *formula.Planner
	colors  *colors.Service
	log     logging.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithPlanner sets the planner used to compute custom cabinet parts.
func WithPlanner(p *formula.Planner) Option {
	return func(s *Service) { s.planner = p }
}

// WithColors records color usage when cabinets are placed.
func WithColors(c *colors.Service) Option {
	return func(s *Service) { s.colors = c }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Service) { s.log = l }
}

// NewService returns a project service over repo. Without WithPlanner the
// planner uses the built-in constants.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, log: logging.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.planner == nil {
		s.planner = formula.NewPlanner(nil)
	}
	return s
}

// CreateProject validates and stores a new project in draft status.
func (s *Service) CreateProject(ctx context.Context, p *types.Project) error {
	normalizeProject(p)
	p.Status = types.ProjectStatusDraft
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.repo.CreateProject(ctx, p); err != nil {
		return err
	}
	s.log.Info(ctx, "project created", "id", p.ID, "order", p.OrderNumber)
	return nil
}

// GetProject returns the project with the given ID.
func (s *Service) GetProject(ctx context.Context, id string) (*types.Project, error) {
	return s.repo.GetProject(ctx, id)
}

// ListProjects returns all projects, newest first.
func (s *Service) ListProjects(ctx context.Context) ([]*types.Project, error) {
	return s.repo.ListProjects(ctx)
}

// UpdateProject validates and writes all project fields.
func (s *Service) UpdateProject(ctx context.Context, p *types.Project) error {
	normalizeProject(p)
	if err := p.Validate(); err != nil {
		return err
	}
	return s.repo.UpdateProject(ctx, p)
}

// UpdateClient replaces the client data of a project.
func (s *Service) UpdateClient(ctx context.Context, id string, c types.Client) (*types.Project, error) {
	p, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	p.SetClient(c)
	if err := s.repo.UpdateProject(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SetStatus moves a project to status.
func (s *Service) SetStatus(ctx context.Context, id, status string) (*types.Project, error) {
	p, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.SetStatus(status); err != nil {
		return nil, fmt.Errorf("%w: %s", err, status)
	}
	if err := s.repo.UpdateProject(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "project status changed", "id", id, "status", status)
	return p, nil
}

// DeleteProject removes a project with its cabinets.
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	if err := s.repo.DeleteProject(ctx, id); err != nil {
		return err
	}
	s.log.Info(ctx, "project deleted", "id", id)
	return nil
}

func normalizeProject(p *types.Project) {
	p.Name = strings.TrimSpace(p.Name)
	p.OrderNumber = strings.TrimSpace(p.OrderNumber)
	p.KitchenType = strings.ToUpper(strings.TrimSpace(p.KitchenType))
}
