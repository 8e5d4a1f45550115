// Package formula derives cut parts for cabinets from their dimensions and
// the stored formula constants. Engine applies the category rules (lower,
// upper, drawer); Planner applies the template rules used for custom
// cabinets. Both read constants through a ConstantSource and cache them.
package formula

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/petar-djukic/cabplanner/pkg/types"
)

// Cabinet kinds accepted by Engine.
const (
	KindLower  = "lower"
	KindUpper  = "upper"
	KindDrawer = "drawer"
)

// kindAliases maps lower-cased user input to a cabinet kind.
var kindAliases = map[string]string{
	"lower":        KindLower,
	"dolna":        KindLower,
	"szafka dolna": KindLower,
	"upper":        KindUpper,
	"górna":        KindUpper,
	"szafka górna": KindUpper,
	"drawer":       KindDrawer,
	"szuflada":     KindDrawer,
}

// ResolveKind maps a kind name or one of its aliases to the canonical kind.
func ResolveKind(kind string) (string, error) {
	k, ok := kindAliases[strings.ToLower(strings.TrimSpace(kind))]
	if !ok {
		return "", fmt.Errorf("%w: %s", types.ErrUnknownCabinetKind, kind)
	}
	return k, nil
}

// Engine computes parts by cabinet category.
type Engine struct {
	consts *cache
}

// NewEngine returns an engine reading constants from src. A nil src uses
// the built-in defaults.
func NewEngine(src ConstantSource) *Engine {
	return &Engine{consts: newCache(src)}
}

// ClearCache drops cached constants so the next calculation rereads them.
func (e *Engine) ClearCache() {
	e.consts.clear()
}

// constants resolves keys in order, each falling back to its default.
func (e *Engine) constants(ctx context.Context, keys ...string) ([]float64, error) {
	out := make([]float64, len(keys))
	for i, k := range keys {
		def, _ := DefaultValue(k)
		v, err := e.consts.get(ctx, k, def)
		if err != nil {
			return nil, fmt.Errorf("reading constant %s: %w", k, err)
		}
		out[i] = v
	}
	return out, nil
}

// CalculateCabinetParts returns the parts of a cabinet of the given kind.
// Dimensions are in millimetres.
func (e *Engine) CalculateCabinetParts(ctx context.Context, kind string, width, height, depth int) ([]types.PartPlan, error) {
	k, err := ResolveKind(kind)
	if err != nil {
		return nil, err
	}
	w, h, d := float64(width), float64(height), float64(depth)
	switch k {
	case KindLower:
		return e.lowerParts(ctx, w, h, d)
	case KindUpper:
		return e.upperParts(ctx, w, h, d)
	default:
		return e.drawerParts(ctx, w, h, d)
	}
}

func (e *Engine) lowerParts(ctx context.Context, w, h, d float64) ([]types.PartPlan, error) {
	c, err := e.constants(ctx, "defaults.board_mm", "defaults.edge_mm", "defaults.hdf_mm",
		"clearance.hdf_mm", "lower.front_gap_mm")
	if err != nil {
		return nil, err
	}
	board, edge, hdf, clear, gap := c[0], c[1], c[2], c[3], c[4]

	return []types.PartPlan{
		part("wieniec dolny", board, w, 1, types.MaterialPlyta, board, "D", ""),
		part("boki", h-board, d, 2, types.MaterialPlyta, board, "DKK", ""),
		part("listwy", board, w-2*board, 2, types.MaterialPlyta, board, "D", ""),
		part("front", h-gap, w-2*edge, 1, types.MaterialFront, board, "DDKK", ""),
		part("HDF", h-board-clear, w-clear, 1, types.MaterialHDF, hdf, "", ""),
	}, nil
}

func (e *Engine) upperParts(ctx context.Context, w, h, d float64) ([]types.PartPlan, error) {
	c, err := e.constants(ctx, "defaults.board_mm", "defaults.edge_mm", "defaults.edge_body_mm",
		"defaults.hdf_mm", "clearance.hdf_mm", "upper.front_gap_mm", "upper.groove_pos_mm",
		"upper.groove_depth_mm")
	if err != nil {
		return nil, err
	}
	board, edge, edgeBody, hdf, clear, gap, groovePos, grooveDepth := c[0], c[1], c[2], c[3], c[4], c[5], c[6], c[7]

	groove := fmt.Sprintf("pcv %s frez na hdf %s od przodu gł.%s",
		formatMM(edgeBody), formatMM(groovePos), formatMM(grooveDepth))
	return []types.PartPlan{
		part("wieniec dolny i górny", board, w, 2, types.MaterialPlyta, board, "K", ""),
		part("boki", h-2*board, d, 2, types.MaterialPlyta, board, "DKK", groove),
		part("półka", board, w-2*board, 1, types.MaterialPlyta, board, "K", ""),
		part("front słoje poziomo", h-gap, w-2*edge, 1, types.MaterialFront, board, "DDKK", ""),
		part("HDF", h-2*board-clear, w-clear, 1, types.MaterialHDF, hdf, "", ""),
	}, nil
}

func (e *Engine) drawerParts(ctx context.Context, w, h, d float64) ([]types.PartPlan, error) {
	c, err := e.constants(ctx, "defaults.board_mm", "drawers.comfortbox.bottom_width_mm",
		"drawers.comfortbox.back_width_offset_mm", "drawers.comfortbox.back_height_mm",
		"drawers.front_side_edge_mm")
	if err != nil {
		return nil, err
	}
	board, bottomWidth, backOffset, backHeight, sideEdge := c[0], c[1], c[2], c[3], c[4]

	return []types.PartPlan{
		part("front", h, w-2*sideEdge, 1, types.MaterialFront, board, "DDKK", ""),
		part("boki", h-board, d, 2, types.MaterialPlyta, board, "DKK", ""),
		part("dno", board, math.Min(bottomWidth, w-2*board), 1, types.MaterialPlyta, board, "K", ""),
		part("tyl", backHeight, w-backOffset-2*board, 1, types.MaterialPlyta, board, "K", ""),
	}, nil
}

func part(name string, height, width float64, pieces int, material string, thickness float64, wrapping, comments string) types.PartPlan {
	return types.PartPlan{
		PartName:    name,
		HeightMM:    roundMM(height),
		WidthMM:     roundMM(width),
		Pieces:      pieces,
		Material:    material,
		ThicknessMM: roundMM(thickness),
		Wrapping:    wrapping,
		Comments:    comments,
	}
}

// formatMM prints a constant without trailing zeros, e.g. 0.8 or 282.
func formatMM(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
