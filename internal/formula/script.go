package formula

import (
	"fmt"
	"sync"

	"github.com/Shopify/go-lua"
	"github.com/Shopify/goluago/util"

	"github.com/petar-djukic/cabplanner/pkg/types"
)

// adjustFunc is the global a script defines to post-process parts.
const adjustFunc = "adjust"

// restrictedGlobals are removed from the script environment.
var restrictedGlobals = []string{
	"os",
	"io",
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"require",
	"package",
	"debug",
}

// CabinetInfo is what a script sees about the cabinet being planned.
type CabinetInfo struct {
	Template string
	Category string
	WidthMM  int
	HeightMM int
	DepthMM  int
}

func (c CabinetInfo) table() map[string]any {
	return map[string]any{
		"template":  c.Template,
		"category":  c.Category,
		"width_mm":  c.WidthMM,
		"height_mm": c.HeightMM,
		"depth_mm":  c.DepthMM,
	}
}

// Script is a compiled Lua formula script. It may define
//
//	function adjust(part, cabinet) ... return part end
//
// which receives every planned part as a table and returns the part to
// keep, or nil to drop it. A Lua state is not safe for concurrent use, so
// calls are serialized.
type Script struct {
	mu        sync.Mutex
	l         *lua.State
	hasAdjust bool
}

// CompileScript loads src into a sandboxed Lua state and runs its top
// level once.
func CompileScript(src string) (*Script, error) {
	l := lua.NewState()
	lua.OpenLibraries(l)
	for _, name := range restrictedGlobals {
		l.PushNil()
		l.SetGlobal(name)
	}

	if err := lua.LoadString(l, src); err != nil {
		return nil, fmt.Errorf("%w: compiling: %v", types.ErrScript, err)
	}
	if err := l.ProtectedCall(0, 0, 0); err != nil {
		return nil, fmt.Errorf("%w: running: %v", types.ErrScript, err)
	}

	l.Global(adjustFunc)
	hasAdjust := l.IsFunction(-1)
	l.Pop(1)
	return &Script{l: l, hasAdjust: hasAdjust}, nil
}

// HasAdjust reports whether the script defines adjust.
func (s *Script) HasAdjust() bool {
	return s.hasAdjust
}

// Adjust passes one part through the script. The boolean is false when
// the script dropped the part.
func (s *Script) Adjust(part types.PartPlan, cab CabinetInfo) (types.PartPlan, bool, error) {
	if !s.hasAdjust {
		return part, true, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.l
	top := l.Top()
	defer l.SetTop(top)

	l.Global(adjustFunc)
	util.DeepPush(l, partTable(part))
	util.DeepPush(l, cab.table())
	if err := l.ProtectedCall(2, 1, 0); err != nil {
		return part, false, fmt.Errorf("%w: adjusting %q: %v", types.ErrScript, part.PartName, err)
	}
	if l.IsNil(-1) {
		return part, false, nil
	}
	if !l.IsTable(-1) {
		return part, false, fmt.Errorf("%w: adjust returned %s for %q", types.ErrScript, lua.TypeNameOf(l, -1), part.PartName)
	}
	raw, err := util.PullTable(l, l.AbsIndex(-1))
	if err != nil {
		return part, false, fmt.Errorf("%w: reading part %q: %v", types.ErrScript, part.PartName, err)
	}
	fields, ok := raw.(map[string]interface{})
	if !ok {
		return part, false, fmt.Errorf("%w: adjust returned a list for %q", types.ErrScript, part.PartName)
	}
	return applyFields(part, fields), true, nil
}

// AdjustAll runs Adjust over plan and keeps the parts the script returns.
func (s *Script) AdjustAll(plan []types.PartPlan, cab CabinetInfo) ([]types.PartPlan, error) {
	if !s.hasAdjust {
		return plan, nil
	}
	out := make([]types.PartPlan, 0, len(plan))
	for _, p := range plan {
		adjusted, keep, err := s.Adjust(p, cab)
		if err != nil {
			return nil, err
		}
		if keep {
			out = append(out, adjusted)
		}
	}
	return out, nil
}

func partTable(p types.PartPlan) map[string]any {
	return map[string]any{
		"part_name":    p.PartName,
		"height_mm":    p.HeightMM,
		"width_mm":     p.WidthMM,
		"pieces":       p.Pieces,
		"material":     p.Material,
		"thickness_mm": p.ThicknessMM,
		"wrapping":     p.Wrapping,
		"comments":     p.Comments,
	}
}

// applyFields copies the recognized fields of a script result onto part.
// Fields of the wrong type are ignored.
func applyFields(part types.PartPlan, fields map[string]interface{}) types.PartPlan {
	str := func(key string, dst *string) {
		if v, ok := fields[key].(string); ok {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := fields[key].(float64); ok {
			*dst = roundMM(v)
		}
	}
	str("part_name", &part.PartName)
	str("material", &part.Material)
	str("wrapping", &part.Wrapping)
	str("comments", &part.Comments)
	num("height_mm", &part.HeightMM)
	num("width_mm", &part.WidthMM)
	num("pieces", &part.Pieces)
	num("thickness_mm", &part.ThicknessMM)
	return part
}
