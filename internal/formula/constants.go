package formula

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/petar-djukic/cabplanner/pkg/types"
)

// ConstantSource reads formula constants by key.
// types.ConstantRepository satisfies it.
type ConstantSource interface {
	GetConstant(ctx context.Context, key string) (*types.FormulaConstant, error)
	ListConstants(ctx context.Context, group string) ([]*types.FormulaConstant, error)
}

// Constant groups.
const (
	GroupDefaults  = "defaults"
	GroupClearance = "clearance"
	GroupLower     = "lower"
	GroupUpper     = "upper"
	GroupDrawers   = "drawers"
	GroupTemplate  = "template"
)

// defaultConstants are seeded on first attach and used when a key is
// missing from storage.
var defaultConstants = []types.FormulaConstant{
	{Key: "defaults.board_mm", Value: 18, Group: GroupDefaults, Description: "board thickness"},
	{Key: "defaults.edge_mm", Value: 2, Group: GroupDefaults, Description: "front edge banding"},
	{Key: "defaults.edge_body_mm", Value: 0.8, Group: GroupDefaults, Description: "body edge banding"},
	{Key: "defaults.hdf_mm", Value: 3, Group: GroupDefaults, Description: "HDF back thickness"},
	{Key: "clearance.hdf_mm", Value: 5, Group: GroupClearance, Description: "HDF back clearance"},
	{Key: "lower.front_gap_mm", Value: 7, Group: GroupLower, Description: "lower cabinet front gap"},
	{Key: "upper.front_gap_mm", Value: 4, Group: GroupUpper, Description: "upper cabinet front gap"},
	{Key: "upper.groove_pos_mm", Value: 282, Group: GroupUpper, Description: "HDF groove position from the front"},
	{Key: "upper.groove_depth_mm", Value: 12, Group: GroupUpper, Description: "HDF groove depth"},
	{Key: "drawers.comfortbox.bottom_width_mm", Value: 495, Group: GroupDrawers, Description: "drawer bottom width"},
	{Key: "drawers.comfortbox.runner_offset_mm", Value: 75, Group: GroupDrawers, Description: "runner offset"},
	{Key: "drawers.comfortbox.back_width_offset_mm", Value: 89, Group: GroupDrawers, Description: "drawer back width offset"},
	{Key: "drawers.comfortbox.back_height_mm", Value: 70, Group: GroupDrawers, Description: "drawer back height"},
	{Key: "drawers.front_side_edge_mm", Value: 2, Group: GroupDrawers, Description: "drawer front side edge"},

	{Key: "base_height", Value: 720, Group: GroupTemplate, Description: "base cabinet height"},
	{Key: "base_depth", Value: 560, Group: GroupTemplate, Description: "base cabinet depth"},
	{Key: "upper_height", Value: 720, Group: GroupTemplate, Description: "upper cabinet height"},
	{Key: "upper_depth", Value: 300, Group: GroupTemplate, Description: "upper cabinet depth"},
	{Key: "tall_height", Value: 2020, Group: GroupTemplate, Description: "tall cabinet height"},
	{Key: "tall_depth", Value: 560, Group: GroupTemplate, Description: "tall cabinet depth"},
	{Key: "plyta_thickness", Value: 18, Group: GroupTemplate, Description: "board thickness"},
	{Key: "hdf_thickness", Value: 3, Group: GroupTemplate, Description: "HDF thickness"},
	{Key: "front_gap_top", Value: 2, Group: GroupTemplate, Description: "front gap at the top"},
	{Key: "front_gap_bottom", Value: 2, Group: GroupTemplate, Description: "front gap at the bottom"},
	{Key: "front_gap_side", Value: 2, Group: GroupTemplate, Description: "front gap at the sides"},
	{Key: "rail_height", Value: 100, Group: GroupTemplate, Description: "rail height"},
	{Key: "shelf_back_clear", Value: 10, Group: GroupTemplate, Description: "shelf clearance at the back"},
	{Key: "back_play_h", Value: 0, Group: GroupTemplate, Description: "back panel height play"},
	{Key: "back_play_w", Value: 0, Group: GroupTemplate, Description: "back panel width play"},
	{Key: "s1_drawer_h", Value: 572, Group: GroupTemplate, Description: "single drawer front height"},
	{Key: "s2_top_h", Value: 141, Group: GroupTemplate, Description: "two-drawer stack top front"},
	{Key: "s2_bottom_h", Value: 572, Group: GroupTemplate, Description: "two-drawer stack bottom front"},
	{Key: "s3_top_h", Value: 140, Group: GroupTemplate, Description: "three-drawer stack top front"},
	{Key: "s3_middle_h", Value: 283, Group: GroupTemplate, Description: "three-drawer stack middle front"},
	{Key: "s3_bottom_h", Value: 572, Group: GroupTemplate, Description: "three-drawer stack bottom front"},
	{Key: "min_cut_mm", Value: 10, Group: GroupTemplate, Description: "minimum cut size"},
}

// DefaultConstants returns the built-in constants with their type set.
func DefaultConstants() []types.FormulaConstant {
	out := make([]types.FormulaConstant, len(defaultConstants))
	for i, c := range defaultConstants {
		c.Type = types.DefaultConstantType
		out[i] = c
	}
	return out
}

// DefaultValue returns the built-in value of key.
func DefaultValue(key string) (float64, bool) {
	for _, c := range defaultConstants {
		if c.Key == key {
			return c.Value, true
		}
	}
	return 0, false
}

// GroupOf derives the group of a dotted key, e.g. "lower.front_gap_mm" is in
// "lower". Keys without a dot belong to the template group.
func GroupOf(key string) string {
	if i := strings.IndexByte(key, '.'); i > 0 {
		return key[:i]
	}
	return GroupTemplate
}

// cache memoizes constant lookups. A missing key resolves to its default
// and is cached too.
type cache struct {
	mu     sync.Mutex
	src    ConstantSource
	values map[string]float64
}

func newCache(src ConstantSource) *cache {
	return &cache{src: src, values: make(map[string]float64)}
}

func (c *cache) get(ctx context.Context, key string, def float64) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.values[key]; ok {
		return v, nil
	}
	v := def
	if c.src != nil {
		fc, err := c.src.GetConstant(ctx, key)
		switch {
		case err == nil:
			v = fc.Value
		case errors.Is(err, types.ErrNotFound):
		default:
			return 0, err
		}
	}
	c.values[key] = v
	return v, nil
}

func (c *cache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = make(map[string]float64)
}
