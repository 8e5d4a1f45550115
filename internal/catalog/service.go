// Package catalog manages the cabinet type catalog: browsing with a display
// view, editing types and their parts, and importing or exporting the
// catalog as preset text or YAML.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/petar-djukic/cabplanner/internal/logging"
	"github.com/petar-djukic/cabplanner/pkg/types"
)

// Display defaults for types without parts.
const (
	DefaultWidthMM  = 600
	DefaultHeightMM = 720

	kitchenDepthMM = 560
	otherDepthMM   = 320
)

// Item is a catalog type prepared for display.
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	SKU         string `json:"sku"`
	KitchenType string `json:"kitchen_type"`
	WidthMM     int    `json:"width_mm"`
	HeightMM    int    `json:"height_mm"`
	DepthMM     int    `json:"depth_mm"`
	Description string `json:"description"`
	PartCount   int    `json:"part_count"`
}

// NewItem builds the display view of ct. The width and height are the
// largest among the parts, or the defaults when there are none.
func NewItem(ct *types.CabinetType, parts []*types.CabinetPart) Item {
	item := Item{
		ID:          ct.ID,
		Name:        ct.Name,
		SKU:         fmt.Sprintf("%s-%03d", ct.KitchenType, ct.Number),
		KitchenType: ct.KitchenType,
		WidthMM:     DefaultWidthMM,
		HeightMM:    DefaultHeightMM,
		DepthMM:     otherDepthMM,
		Description: fmt.Sprintf("%s - %s series", ct.Name, ct.KitchenType),
		PartCount:   len(parts),
	}
	if types.IsKitchenType(ct.KitchenType) {
		item.DepthMM = kitchenDepthMM
	}
	if len(parts) > 0 {
		item.WidthMM, item.HeightMM = 0, 0
		for _, p := range parts {
			item.WidthMM = max(item.WidthMM, p.WidthMM)
			item.HeightMM = max(item.HeightMM, p.HeightMM)
		}
	}
	return item
}

// Service is the catalog use-case layer over a CabinetTypeRepository.
type Service struct {
	repo types.CabinetTypeRepository
	log  logging.Logger
}

// NewService returns a catalog service over repo.
func NewService(repo types.CabinetTypeRepository, log logging.Logger) *Service {
	if log == nil {
		log = logging.Nop()
	}
	return &Service{repo: repo, log: log}
}

// KitchenTypes returns the kitchen types in display order.
func (s *Service) KitchenTypes() []string {
	return types.KitchenTypes()
}

// List returns the types of kitchenType (all when empty) whose name or
// kitchen type contains query, ignoring case.
func (s *Service) List(ctx context.Context, query, kitchenType string) ([]Item, error) {
	if kitchenType != "" {
		kitchenType = strings.ToUpper(strings.TrimSpace(kitchenType))
	}
	all, err := s.repo.ListCabinetTypes(ctx, kitchenType)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	items := make([]Item, 0, len(all))
	for _, ct := range all {
		if q != "" && !strings.Contains(strings.ToLower(ct.Name), q) &&
			!strings.Contains(strings.ToLower(ct.KitchenType), q) {
			continue
		}
		parts, err := s.repo.ListParts(ctx, ct.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, NewItem(ct, parts))
	}
	return items, nil
}

// Get returns the display view of one type.
func (s *Service) Get(ctx context.Context, id string) (Item, error) {
	ct, parts, err := s.Type(ctx, id)
	if err != nil {
		return Item{}, err
	}
	return NewItem(ct, parts), nil
}

// Type returns a catalog type with its parts.
func (s *Service) Type(ctx context.Context, id string) (*types.CabinetType, []*types.CabinetPart, error) {
	ct, err := s.repo.GetCabinetType(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	parts, err := s.repo.ListParts(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return ct, parts, nil
}

// Create adds an empty type. The kitchen type is upper-cased and must be
// one of KitchenTypes.
func (s *Service) Create(ctx context.Context, name, kitchenType string) (*types.CabinetType, error) {
	ct := &types.CabinetType{
		Name:        strings.TrimSpace(name),
		KitchenType: strings.ToUpper(strings.TrimSpace(kitchenType)),
	}
	if err := validateType(ct); err != nil {
		return nil, err
	}
	if err := s.repo.CreateCabinetType(ctx, ct); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "cabinet type created", "id", ct.ID, "name", ct.Name, "kitchen", ct.KitchenType)
	return ct, nil
}

// Update changes the name and kitchen type of a type. Empty arguments keep
// the current value.
func (s *Service) Update(ctx context.Context, id, name, kitchenType string) (*types.CabinetType, error) {
	ct, err := s.repo.GetCabinetType(ctx, id)
	if err != nil {
		return nil, err
	}
	if n := strings.TrimSpace(name); n != "" {
		ct.Name = n
	}
	if k := strings.TrimSpace(kitchenType); k != "" {
		ct.KitchenType = strings.ToUpper(k)
	}
	if err := validateType(ct); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateCabinetType(ctx, ct); err != nil {
		return nil, err
	}
	return ct, nil
}

// Duplicate copies a type and its parts under the name "<name> (Copy)".
func (s *Service) Duplicate(ctx context.Context, id string) (*types.CabinetType, error) {
	src, parts, err := s.Type(ctx, id)
	if err != nil {
		return nil, err
	}
	copies := make([]*types.CabinetPart, len(parts))
	for i, p := range parts {
		cp := *p
		cp.ID = ""
		copies[i] = &cp
	}
	dup, err := s.createWithParts(ctx, src.Name+" (Copy)", src.KitchenType, copies)
	if err != nil {
		return nil, fmt.Errorf("duplicating %q: %w", src.Name, err)
	}
	return dup, nil
}

// createWithParts validates a new type and all its parts before storing
// them together. A failing part leaves no type behind.
func (s *Service) createWithParts(ctx context.Context, name, kitchenType string, parts []*types.CabinetPart) (*types.CabinetType, error) {
	ct := &types.CabinetType{
		Name:        strings.TrimSpace(name),
		KitchenType: strings.ToUpper(strings.TrimSpace(kitchenType)),
	}
	if err := validateType(ct); err != nil {
		return nil, err
	}
	for _, p := range parts {
		if err := preparePart(p); err != nil {
			return nil, err
		}
	}
	if err := s.repo.CreateCabinetTypeWithParts(ctx, ct, parts); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "cabinet type created", "id", ct.ID, "name", ct.Name, "kitchen", ct.KitchenType, "parts", len(parts))
	return ct, nil
}

// Delete removes a type and its parts.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteCabinetType(ctx, id); err != nil {
		return err
	}
	s.log.Info(ctx, "cabinet type deleted", "id", id)
	return nil
}

// AddPart appends a part to a type. Material and thickness are derived
// from the part name when not given.
func (s *Service) AddPart(ctx context.Context, part *types.CabinetPart) error {
	if _, err := s.repo.GetCabinetType(ctx, part.CabinetTypeID); err != nil {
		return err
	}
	if err := preparePart(part); err != nil {
		return err
	}
	return s.repo.AddPart(ctx, part)
}

func preparePart(part *types.CabinetPart) error {
	part.ApplyDefaults()
	if part.Pieces == 0 {
		part.Pieces = 1
	}
	if err := part.Validate(); err != nil {
		return fmt.Errorf("part %q: %w", part.PartName, err)
	}
	return nil
}

// DeletePart removes a part from its type.
func (s *Service) DeletePart(ctx context.Context, id string) error {
	return s.repo.DeletePart(ctx, id)
}

func validateType(ct *types.CabinetType) error {
	if ct.Name == "" {
		return types.ErrEmptyName
	}
	if !types.IsKitchenType(ct.KitchenType) {
		return fmt.Errorf("%w: %s", types.ErrInvalidKitchen, ct.KitchenType)
	}
	return nil
}
