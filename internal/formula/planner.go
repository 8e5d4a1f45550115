package formula

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/petar-djukic/cabplanner/pkg/types"
)

// Template categories derived from the template name prefix.
const (
	CategoryBase    = "D"
	CategoryUpper   = "G"
	CategoryTall    = "N"
	CategoryCorner  = "DNZ"
	CategoryUnknown = "UNKNOWN"
)

// DefaultWidthMM is used when neither the caller nor the template name
// gives a width.
const DefaultWidthMM = 600

var digitsRe = regexp.MustCompile(`\d+`)

// DetectCategory classifies a template name by its prefix.
func DetectCategory(template string) string {
	name := strings.ToUpper(strings.TrimSpace(template))
	switch {
	case strings.HasPrefix(name, "DNZ"):
		return CategoryCorner
	case strings.HasPrefix(name, "D"):
		return CategoryBase
	case strings.HasPrefix(name, "G"):
		return CategoryUpper
	case strings.HasPrefix(name, "N"):
		return CategoryTall
	default:
		return CategoryUnknown
	}
}

// ExtractWidth reads the width encoded in a template name: the first digit
// group in centimetres, e.g. D60 is 600 mm and G40S3 is 400 mm.
func ExtractWidth(template string) (int, bool) {
	m := digitsRe.FindString(template)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n * 10, true
}

// Constants is a snapshot of formula constants by key. Missing keys
// resolve to their built-in defaults.
type Constants map[string]float64

// Get returns the value of key or its default.
func (c Constants) Get(key string) float64 {
	if v, ok := c[key]; ok {
		return v
	}
	v, _ := DefaultValue(key)
	return v
}

// Int returns the value of key truncated to an integer.
func (c Constants) Int(key string) int {
	return int(c.Get(key))
}

// FillDefaults completes missing dimensions. The width comes from the
// template name, the height and depth from the category defaults.
func FillDefaults(template, category string, width, height, depth *int, c Constants) (w, h, d int) {
	switch {
	case width != nil:
		w = *width
	default:
		var ok bool
		if w, ok = ExtractWidth(template); !ok {
			w = DefaultWidthMM
		}
	}

	h, d = 720, 560
	switch category {
	case CategoryBase:
		h, d = c.Int("base_height"), c.Int("base_depth")
	case CategoryUpper:
		h, d = c.Int("upper_height"), c.Int("upper_depth")
	case CategoryTall, CategoryCorner:
		h, d = c.Int("tall_height"), c.Int("tall_depth")
	}
	if height != nil {
		h = *height
	}
	if depth != nil {
		d = *depth
	}
	return w, h, d
}

// Planner computes the parts of custom cabinets from template names.
type Planner struct {
	src ConstantSource

	mu        sync.Mutex
	constants Constants
	script    *Script
}

// NewPlanner returns a planner reading constants from src. A nil src uses
// the built-in defaults.
func NewPlanner(src ConstantSource) *Planner {
	return &Planner{src: src}
}

// SetScript installs a script whose adjust function post-processes every
// computed part. A nil script removes it.
func (p *Planner) SetScript(s *Script) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.script = s
}

// RefreshConstants drops the cached constants.
func (p *Planner) RefreshConstants() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.constants = nil
}

// Constants returns the cached constants, loading them on first use.
func (p *Planner) Constants(ctx context.Context) (Constants, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.constants != nil {
		return p.constants, nil
	}
	c := make(Constants)
	if p.src != nil {
		list, err := p.src.ListConstants(ctx, "")
		if err != nil {
			return nil, fmt.Errorf("loading constants: %w", err)
		}
		for _, fc := range list {
			c[fc.Key] = fc.Value
		}
	}
	p.constants = c
	return c, nil
}

// ComputeParts returns the normalized parts of a cabinet built from the
// named template. Nil dimensions are filled by FillDefaults.
func (p *Planner) ComputeParts(ctx context.Context, template string, width, height, depth *int) ([]types.PartPlan, error) {
	c, err := p.Constants(ctx)
	if err != nil {
		return nil, err
	}
	category := DetectCategory(template)
	w, h, d := FillDefaults(template, category, width, height, depth, c)

	t := c.Int("plyta_thickness")
	tHDF := c.Int("hdf_thickness")
	g := gaps{top: c.Int("front_gap_top"), bottom: c.Int("front_gap_bottom"), side: c.Int("front_gap_side")}

	var plan []types.PartPlan
	plan = append(plan, sideParts(h, d, t, tHDF)...)
	plan = append(plan, topBottomParts(w, d, t, tHDF)...)
	plan = append(plan, railParts(w, t, c)...)
	plan = append(plan, shelfParts(w, d, t, tHDF, c)...)
	plan = append(plan, backParts(w, h, tHDF, c)...)
	plan = append(plan, frontParts(template, w, h, g, c)...)
	plan = append(plan, specialParts(template, w, h)...)

	p.mu.Lock()
	script := p.script
	p.mu.Unlock()
	if script != nil {
		info := CabinetInfo{Template: template, Category: category, WidthMM: w, HeightMM: h, DepthMM: d}
		if plan, err = script.AdjustAll(plan, info); err != nil {
			return nil, err
		}
	}
	return normalize(plan, c.Int("min_cut_mm"))
}

// ValidateDimensions returns one message per dimension below the minimum
// cut size. An empty result means the dimensions are usable.
func (p *Planner) ValidateDimensions(ctx context.Context, width, height, depth int) ([]string, error) {
	c, err := p.Constants(ctx)
	if err != nil {
		return nil, err
	}
	minCut := c.Int("min_cut_mm")
	var msgs []string
	if width < minCut {
		msgs = append(msgs, fmt.Sprintf("Width too small: %dmm (minimum %dmm)", width, minCut))
	}
	if height < minCut {
		msgs = append(msgs, fmt.Sprintf("Height too small: %dmm (minimum %dmm)", height, minCut))
	}
	if depth < minCut {
		msgs = append(msgs, fmt.Sprintf("Depth too small: %dmm (minimum %dmm)", depth, minCut))
	}
	return msgs, nil
}

type gaps struct {
	top, bottom, side int
}

func board(name string, height, width, pieces, thickness int) types.PartPlan {
	return types.PartPlan{
		PartName:    name,
		HeightMM:    height,
		WidthMM:     width,
		Pieces:      pieces,
		Material:    types.MaterialPlyta,
		ThicknessMM: thickness,
	}
}

func front(name string, height, width int) types.PartPlan {
	return types.PartPlan{PartName: name, HeightMM: height, WidthMM: width, Pieces: 1, Material: types.MaterialFront}
}

func sideParts(h, d, t, tHDF int) []types.PartPlan {
	return []types.PartPlan{
		board("bok lewy", h, d-tHDF, 1, t),
		board("bok prawy", h, d-tHDF, 1, t),
	}
}

func topBottomParts(w, d, t, tHDF int) []types.PartPlan {
	return []types.PartPlan{
		board("wieniec dolny", w-2*t, d-tHDF, 1, t),
		board("wieniec górny", w-2*t, d-tHDF, 1, t),
	}
}

func railParts(w, t int, c Constants) []types.PartPlan {
	return []types.PartPlan{board("listwa", c.Int("rail_height"), w-2*t, 2, t)}
}

func shelfParts(w, d, t, tHDF int, c Constants) []types.PartPlan {
	return []types.PartPlan{board("półka", w-2*t, d-c.Int("shelf_back_clear")-tHDF, 1, t)}
}

func backParts(w, h, tHDF int, c Constants) []types.PartPlan {
	return []types.PartPlan{{
		PartName:    "HDF",
		HeightMM:    h - c.Int("back_play_h"),
		WidthMM:     w - c.Int("back_play_w"),
		Pieces:      1,
		Material:    types.MaterialHDF,
		ThicknessMM: tHDF,
	}}
}

// frontParts picks drawer stacks (S1, S2, S3), double doors ("2x" or
// "słoje pion") or a single door from the template name.
func frontParts(template string, w, h int, g gaps, c Constants) []types.PartPlan {
	drawerWidth := w - 2*g.side
	switch {
	case strings.Contains(template, "S1"):
		return []types.PartPlan{
			front("front szuflada", c.Int("s1_drawer_h"), drawerWidth),
		}
	case strings.Contains(template, "S2"):
		return []types.PartPlan{
			front("front szuflada górna", c.Int("s2_top_h"), drawerWidth),
			front("front szuflada dolna", c.Int("s2_bottom_h"), drawerWidth),
		}
	case strings.Contains(template, "S3"):
		return []types.PartPlan{
			front("front szuflada górna", c.Int("s3_top_h"), drawerWidth),
			front("front szuflada środkowa", c.Int("s3_middle_h"), drawerWidth),
			front("front szuflada dolna", c.Int("s3_bottom_h"), drawerWidth),
		}
	}

	doorHeight := h - g.top - g.bottom
	if strings.Contains(template, "2x") || strings.Contains(template, "słoje pion") {
		doorWidth := (w - 3*g.side) / 2
		return []types.PartPlan{
			front("front lewy", doorHeight, doorWidth),
			front("front prawy", doorHeight, doorWidth),
		}
	}
	return []types.PartPlan{front("front", doorHeight, drawerWidth)}
}

func specialParts(template string, w, h int) []types.PartPlan {
	if !strings.Contains(strings.ToLower(template), "witryna") {
		return nil
	}
	return []types.PartPlan{{
		PartName: "ramka alu",
		HeightMM: h,
		WidthMM:  w,
		Pieces:   1,
		Material: types.MaterialALU,
		Comments: "ramka alu",
	}}
}

// normalize rejects parts below the minimum cut size.
func normalize(plan []types.PartPlan, minCut int) ([]types.PartPlan, error) {
	for _, p := range plan {
		if p.HeightMM < minCut || p.WidthMM < minCut || p.HeightMM <= 0 || p.WidthMM <= 0 {
			return nil, fmt.Errorf("%w: Part '%s' too small: %dx%dmm (minimum %dmm)",
				types.ErrPartTooSmall, p.PartName, p.WidthMM, p.HeightMM, minCut)
		}
	}
	return plan, nil
}

// roundMM converts a computed dimension to whole millimetres.
func roundMM(v float64) int {
	return int(math.Round(v))
}
