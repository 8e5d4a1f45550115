package colors

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/petar-djukic/cabplanner/internal/logging"
	"github.com/petar-djukic/cabplanner/pkg/types"
)

// DefaultRecentLimit is the number of recent colors offered when the
// caller does not choose one.
const DefaultRecentLimit = 12

// Service manages the color dictionary: system colors, user colors and
// their usage statistics.
type Service struct {
	repo types.ColorRepository
	log  logging.Logger
	now  func() time.Time
}

// NewService returns a color service over repo.
func NewService(repo types.ColorRepository, log logging.Logger) *Service {
	if log == nil {
		log = logging.Nop()
	}
	return &Service{repo: repo, log: log, now: time.Now}
}

// EnsureSeeded inserts the system palette entries that are missing. It is
// safe to call on every start.
func (s *Service) EnsureSeeded(ctx context.Context) error {
	names, err := s.repo.ListSystemColorNames(ctx)
	if err != nil {
		return err
	}
	existing := make(map[string]bool, len(names))
	for _, n := range names {
		existing[n] = true
	}

	added := 0
	for _, e := range systemPalette {
		canonical := CanonicalName(e.Name)
		normalized := NormalizeName(canonical)
		if normalized == "" || existing[normalized] {
			continue
		}
		hex, err := NormalizeHex(e.Hex)
		if err != nil {
			return err
		}
		c := &types.Color{
			Name:           canonical,
			NormalizedName: normalized,
			HexCode:        hex,
			Source:         types.ColorSourceSystem,
			IsActive:       true,
		}
		if err := s.repo.InsertColor(ctx, c); err != nil && !errors.Is(err, types.ErrColorExists) {
			return err
		}
		existing[normalized] = true
		added++
	}
	if added > 0 {
		s.log.Info(ctx, "system colors seeded", "added", added)
	}
	return nil
}

// ListRecent returns the names of recently used colors, newest first.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		return []string{}, nil
	}
	list, err := s.repo.ListRecentColors(ctx, limit)
	if err != nil {
		return nil, err
	}
	return colorNames(list), nil
}

// ListSearchable returns the names of all active colors, system colors
// first.
func (s *Service) ListSearchable(ctx context.Context) ([]string, error) {
	list, err := s.repo.ListActiveColors(ctx)
	if err != nil {
		return nil, err
	}
	return colorNames(list), nil
}

// HexMap returns the hex code of every active color by name.
func (s *Service) HexMap(ctx context.Context) (map[string]string, error) {
	list, err := s.repo.ListActiveColors(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(list))
	for _, c := range list {
		out[c.Name] = c.HexCode
	}
	return out, nil
}

// ResolveHex turns a color name or hex code into #RRGGBB. Hex input is
// normalized, names are looked up in the dictionary and then in the
// built-in palette. The boolean is false when nothing matches.
func (s *Service) ResolveHex(ctx context.Context, name string) (string, bool, error) {
	value := CanonicalName(name)
	if value == "" {
		return "", false, nil
	}
	if IsHex(value) {
		hex, err := NormalizeHex(value)
		return hex, err == nil, err
	}

	c, err := s.active(ctx, NormalizeName(value))
	switch {
	case err == nil:
		return c.HexCode, true, nil
	case !errors.Is(err, types.ErrNotFound):
		return "", false, err
	}
	hex, ok := StaticHex(value)
	return hex, ok, nil
}

// AddUserColor stores a user-defined color. It rejects an empty name, an
// invalid hex code and a name that already exists in any letter case.
func (s *Service) AddUserColor(ctx context.Context, name, hex string) (*types.Color, error) {
	canonical := CanonicalName(name)
	if canonical == "" {
		return nil, types.ErrEmptyName
	}
	normalizedHex, err := NormalizeHex(hex)
	if err != nil {
		return nil, err
	}
	normalized := NormalizeName(canonical)
	if existing, err := s.repo.FindColorByNormalized(ctx, normalized); err == nil {
		return nil, fmt.Errorf("%q: %w", existing.Name, types.ErrColorExists)
	} else if !errors.Is(err, types.ErrNotFound) {
		return nil, err
	}

	c := &types.Color{
		Name:           canonical,
		NormalizedName: normalized,
		HexCode:        normalizedHex,
		Source:         types.ColorSourceUser,
		IsActive:       true,
	}
	if err := s.repo.InsertColor(ctx, c); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "user color added", "name", canonical, "hex", normalizedHex)
	return c, nil
}

// MarkUsed bumps the usage statistics of a color. A name missing from the
// dictionary but known to the built-in palette is added as a user color.
// Unknown names are ignored and return nil.
func (s *Service) MarkUsed(ctx context.Context, name string) (*types.Color, error) {
	canonical := RepairEncoding(name)
	if canonical == "" {
		return nil, nil
	}
	normalized := NormalizeName(canonical)
	ts := s.now().UTC()

	c, err := s.active(ctx, normalized)
	if err == nil {
		c.UsageCount++
		c.LastUsedAt = &ts
		if err := s.repo.UpdateColor(ctx, c); err != nil {
			return nil, err
		}
		return c, nil
	}
	if !errors.Is(err, types.ErrNotFound) {
		return nil, err
	}

	hex, ok := StaticHex(canonical)
	if !ok {
		return nil, nil
	}
	c = &types.Color{
		Name:           canonical,
		NormalizedName: normalized,
		HexCode:        hex,
		Source:         types.ColorSourceUser,
		UsageCount:     1,
		LastUsedAt:     &ts,
		IsActive:       true,
	}
	if err := s.repo.InsertColor(ctx, c); err != nil {
		if errors.Is(err, types.ErrColorExists) {
			// deactivated dictionary entry
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// active returns the active color with the normalized name.
func (s *Service) active(ctx context.Context, normalized string) (*types.Color, error) {
	c, err := s.repo.FindColorByNormalized(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if !c.IsActive {
		return nil, fmt.Errorf("color %q: %w", normalized, types.ErrNotFound)
	}
	return c, nil
}

func colorNames(list []*types.Color) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.Name
	}
	return out
}
