package project

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/petar-djukic/cabplanner/internal/formula"
	"github.com/petar-djukic/cabplanner/internal/ordering"
	"github.com/petar-djukic/cabplanner/pkg/types"
)

// Finish is the appearance of a placed cabinet.
type Finish struct {
	BodyColor  string
	FrontColor string
	HandleType string
	// Quantity defaults to 1 when zero.
	Quantity int
}

// CustomCabinet describes a cabinet built from a template name instead of
// a catalog type.
type CustomCabinet struct {
	Finish
	// Name is the template name, e.g. "D60" or "G40S3".
	Name string
	// Nil dimensions are filled from the template and the constants.
	WidthMM, HeightMM, DepthMM *int
	FormulaOffsetMM            *float64
	// Parts are stored as given; when empty they are computed by the
	// planner.
	Parts []types.PartPlan
}

func (f Finish) quantity() (int, error) {
	switch {
	case f.Quantity == 0:
		return 1, nil
	case f.Quantity < 1:
		return 0, types.ErrInvalidQuantity
	}
	return f.Quantity, nil
}

// AddCatalogCabinet places a catalog type in a project with the next
// sequence number.
func (s *Service) AddCatalogCabinet(ctx context.Context, projectID, typeID string, f Finish) (*types.Cabinet, error) {
	qty, err := f.quantity()
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetCabinetType(ctx, typeID); err != nil {
		return nil, err
	}
	seq, err := s.nextSequence(ctx, projectID)
	if err != nil {
		return nil, err
	}

	c := &types.Cabinet{
		ProjectID:      projectID,
		TypeID:         typeID,
		SequenceNumber: seq,
		BodyColor:      strings.TrimSpace(f.BodyColor),
		FrontColor:     strings.TrimSpace(f.FrontColor),
		HandleType:     strings.TrimSpace(f.HandleType),
		Quantity:       qty,
	}
	if err := s.repo.CreateCabinet(ctx, c, nil); err != nil {
		return nil, err
	}
	s.markColors(ctx, c)
	s.log.Info(ctx, "catalog cabinet added", "project", projectID, "type", typeID, "seq", seq)
	return c, nil
}

// AddCustomCabinet places a custom cabinet and stores its parts as a
// snapshot. Parts are computed from the template when none are given.
func (s *Service) AddCustomCabinet(ctx context.Context, projectID string, cc CustomCabinet) (*types.Cabinet, []types.PartPlan, error) {
	name := strings.TrimSpace(cc.Name)
	if name == "" {
		return nil, nil, types.ErrEmptyName
	}
	qty, err := cc.quantity()
	if err != nil {
		return nil, nil, err
	}
	if _, err := s.repo.GetProject(ctx, projectID); err != nil {
		return nil, nil, err
	}

	consts, err := s.planner.Constants(ctx)
	if err != nil {
		return nil, nil, err
	}
	w, h, d := formula.FillDefaults(name, formula.DetectCategory(name), cc.WidthMM, cc.HeightMM, cc.DepthMM, consts)
	if w <= 0 || h <= 0 || d <= 0 {
		return nil, nil, fmt.Errorf("%w: %dx%dx%d", types.ErrInvalidDimension, w, h, d)
	}

	parts := cc.Parts
	if len(parts) == 0 {
		if parts, err = s.planner.ComputeParts(ctx, name, &w, &h, &d); err != nil {
			return nil, nil, err
		}
	}

	seq, err := s.nextSequence(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	c := &types.Cabinet{
		ProjectID:       projectID,
		Name:            name,
		SequenceNumber:  seq,
		BodyColor:       strings.TrimSpace(cc.BodyColor),
		FrontColor:      strings.TrimSpace(cc.FrontColor),
		HandleType:      strings.TrimSpace(cc.HandleType),
		Quantity:        qty,
		WidthMM:         types.Float(float64(w)),
		HeightMM:        types.Float(float64(h)),
		DepthMM:         types.Float(float64(d)),
		FormulaOffsetMM: cc.FormulaOffsetMM,
	}
	snaps := make([]types.CabinetPartSnapshot, len(parts))
	for i, p := range parts {
		snaps[i] = p.Snapshot("")
	}
	if err := s.repo.CreateCabinet(ctx, c, snaps); err != nil {
		return nil, nil, err
	}
	s.markColors(ctx, c)
	s.log.Info(ctx, "custom cabinet added", "project", projectID, "name", name, "seq", seq, "parts", len(parts))
	return c, parts, nil
}

// GetCabinet returns one cabinet.
func (s *Service) GetCabinet(ctx context.Context, id string) (*types.Cabinet, error) {
	return s.repo.GetCabinet(ctx, id)
}

// ListCabinets returns the cabinets of a project in sequence order.
func (s *Service) ListCabinets(ctx context.Context, projectID string) ([]*types.Cabinet, error) {
	list, err := s.repo.ListCabinets(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return ordering.Sort(list), nil
}

// FilterCabinets returns the cabinets of a project that pass f, in
// sequence order.
func (s *Service) FilterCabinets(ctx context.Context, projectID string, f ordering.Filter) ([]*types.Cabinet, error) {
	list, err := s.ListCabinets(ctx, projectID)
	if err != nil {
		return nil, err
	}
	names, err := s.TypeNames(ctx, list)
	if err != nil {
		return nil, err
	}
	out := make([]*types.Cabinet, 0, len(list))
	for _, c := range list {
		if f.Match(c, names[c.TypeID]) {
			out = append(out, c)
		}
	}
	return out, nil
}

// TypeNames returns the catalog name of every type referenced by the
// cabinets, keyed by type ID.
func (s *Service) TypeNames(ctx context.Context, cabinets []*types.Cabinet) (map[string]string, error) {
	names := make(map[string]string)
	for _, c := range cabinets {
		if c.IsCustom() {
			continue
		}
		if _, ok := names[c.TypeID]; ok {
			continue
		}
		ct, err := s.repo.GetCabinetType(ctx, c.TypeID)
		if err != nil {
			return nil, err
		}
		names[c.TypeID] = ct.Name
	}
	return names, nil
}

// UpdateCabinet validates and writes all cabinet fields.
func (s *Service) UpdateCabinet(ctx context.Context, c *types.Cabinet) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := s.repo.UpdateCabinet(ctx, c); err != nil {
		return err
	}
	s.markColors(ctx, c)
	return nil
}

// SetQuantity changes the number of identical cabinets.
func (s *Service) SetQuantity(ctx context.Context, id string, n int) (*types.Cabinet, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", types.ErrInvalidQuantity, n)
	}
	c, err := s.repo.GetCabinet(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.SetQuantity(n); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateCabinet(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// SetSequence gives a cabinet a new sequence number. The boolean is false
// when the number was already the cabinet's own. A number held by another
// cabinet of the project returns ErrDuplicateSequence.
func (s *Service) SetSequence(ctx context.Context, id string, seq int) (*types.Cabinet, bool, error) {
	if seq < 1 {
		return nil, false, fmt.Errorf("%w: %d", types.ErrInvalidSequence, seq)
	}
	c, err := s.repo.GetCabinet(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if c.SequenceNumber == seq {
		return c, false, nil
	}
	list, err := s.repo.ListCabinets(ctx, c.ProjectID)
	if err != nil {
		return nil, false, err
	}
	if ordering.IsTaken(list, seq, id) {
		return nil, false, fmt.Errorf("%w: "+ordering.DuplicateMessage, types.ErrDuplicateSequence, seq)
	}
	c.SequenceNumber = seq
	if err := s.repo.UpdateSequences(ctx, []*types.Cabinet{c}); err != nil {
		return nil, false, err
	}
	return c, true, nil
}

// Move moves count cabinets starting at row src so they land before row
// dst, renumbers the list 1..n and persists the changed numbers. Rows are
// positions in sequence order.
func (s *Service) Move(ctx context.Context, projectID string, src, count, dst int) ([]*types.Cabinet, error) {
	list, err := s.ListCabinets(ctx, projectID)
	if err != nil {
		return nil, err
	}
	moved, err := ordering.Move(list, src, count, dst)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateSequences(ctx, ordering.Renumber(moved)); err != nil {
		return nil, err
	}
	return moved, nil
}

// SortAndRenumber sorts the project's cabinets and makes their sequence
// numbers dense.
func (s *Service) SortAndRenumber(ctx context.Context, projectID string) ([]*types.Cabinet, error) {
	list, err := s.ListCabinets(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateSequences(ctx, ordering.Renumber(list)); err != nil {
		return nil, err
	}
	return list, nil
}

// DuplicateCabinet copies a cabinet with its snapshot parts and accessory
// links to the end of the project.
func (s *Service) DuplicateCabinet(ctx context.Context, id string) (*types.Cabinet, error) {
	src, err := s.repo.GetCabinet(ctx, id)
	if err != nil {
		return nil, err
	}
	var snaps []types.CabinetPartSnapshot
	if src.IsCustom() {
		list, err := s.repo.ListSnapshots(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, p := range list {
			cp := *p
			cp.ID = ""
			snaps = append(snaps, cp)
		}
	}
	seq, err := s.nextSequence(ctx, src.ProjectID)
	if err != nil {
		return nil, err
	}

	dup := *src
	dup.ID = ""
	dup.SequenceNumber = seq
	dup.CreatedAt = time.Time{}
	if err := s.repo.CreateCabinet(ctx, &dup, snaps); err != nil {
		return nil, err
	}

	links, err := s.repo.ListCabinetAccessories(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, l := range links {
		if err := s.repo.LinkAccessory(ctx, dup.ID, l.ID, l.Count); err != nil {
			return nil, err
		}
	}
	s.log.Info(ctx, "cabinet duplicated", "from", id, "to", dup.ID, "seq", seq)
	return &dup, nil
}

// DeleteCabinet removes a cabinet with its snapshot and accessory links.
func (s *Service) DeleteCabinet(ctx context.Context, id string) error {
	if err := s.repo.DeleteCabinet(ctx, id); err != nil {
		return err
	}
	s.log.Info(ctx, "cabinet deleted", "id", id)
	return nil
}

// CabinetParts returns the parts of one cabinet: the snapshot of a custom
// cabinet or the parts of its catalog type.
func (s *Service) CabinetParts(ctx context.Context, c *types.Cabinet) ([]types.PartPlan, error) {
	var out []types.PartPlan
	if c.IsCustom() {
		list, err := s.repo.ListSnapshots(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		for _, p := range list {
			out = append(out, types.PartPlan{
				PartName: p.PartName, HeightMM: p.HeightMM, WidthMM: p.WidthMM, Pieces: p.Pieces,
				Material: p.Material, ThicknessMM: p.ThicknessMM, Wrapping: p.Wrapping, Comments: p.Comments,
			})
		}
		return out, nil
	}
	list, err := s.repo.ListParts(ctx, c.TypeID)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		out = append(out, types.PartPlan{
			PartName: p.PartName, HeightMM: p.HeightMM, WidthMM: p.WidthMM, Pieces: p.Pieces,
			Material: p.Material, ThicknessMM: p.ThicknessMM, Wrapping: p.Wrapping, Comments: p.Comments,
		})
	}
	return out, nil
}

// LinkAccessory attaches count pieces of the accessory with sku to a
// cabinet, creating the accessory when it is new.
func (s *Service) LinkAccessory(ctx context.Context, cabinetID, name, sku string, count int) (*types.Accessory, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: %d", types.ErrInvalidQuantity, count)
	}
	if _, err := s.repo.GetCabinet(ctx, cabinetID); err != nil {
		return nil, err
	}
	a, err := s.repo.GetOrCreateAccessory(ctx, strings.TrimSpace(name), strings.TrimSpace(sku))
	if err != nil {
		return nil, err
	}
	if err := s.repo.LinkAccessory(ctx, cabinetID, a.ID, count); err != nil {
		return nil, err
	}
	return a, nil
}

// UnlinkAccessory detaches an accessory from a cabinet.
func (s *Service) UnlinkAccessory(ctx context.Context, cabinetID, accessoryID string) error {
	return s.repo.UnlinkAccessory(ctx, cabinetID, accessoryID)
}

// CabinetAccessories lists the accessories linked to a cabinet.
func (s *Service) CabinetAccessories(ctx context.Context, cabinetID string) ([]*types.LinkedAccessory, error) {
	return s.repo.ListCabinetAccessories(ctx, cabinetID)
}

func (s *Service) nextSequence(ctx context.Context, projectID string) (int, error) {
	highest, err := s.repo.MaxSequence(ctx, projectID)
	if err != nil {
		return 0, err
	}
	return highest + 1, nil
}

// markColors records color usage. Failures are logged and do not fail the
// cabinet operation.
func (s *Service) markColors(ctx context.Context, c *types.Cabinet) {
	if s.colors == nil {
		return
	}
	for _, name := range []string{c.BodyColor, c.FrontColor} {
		if _, err := s.colors.MarkUsed(ctx, name); err != nil {
			s.log.Warn(ctx, "recording color usage failed", "color", name, "error", err)
		}
	}
}
