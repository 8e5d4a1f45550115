package formula

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/cabplanner/pkg/types"
)

// mapSource is an in-memory ConstantSource.
type mapSource struct {
	values map[string]float64
	reads  int
	err    error
}

func (m *mapSource) GetConstant(_ context.Context, key string) (*types.FormulaConstant, error) {
	m.reads++
	if m.err != nil {
		return nil, m.err
	}
	v, ok := m.values[key]
	if !ok {
		return nil, types.ErrNotFound
	}
	return &types.FormulaConstant{Key: key, Value: v}, nil
}

func (m *mapSource) ListConstants(_ context.Context, _ string) ([]*types.FormulaConstant, error) {
	m.reads++
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*types.FormulaConstant, 0, len(m.values))
	for k, v := range m.values {
		out = append(out, &types.FormulaConstant{Key: k, Value: v})
	}
	return out, nil
}

func TestResolveKind(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"lower", KindLower},
		{"Dolna", KindLower},
		{"szafka dolna", KindLower},
		{"UPPER", KindUpper},
		{"górna", KindUpper},
		{"Szafka Górna", KindUpper},
		{"drawer", KindDrawer},
		{" szuflada ", KindDrawer},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ResolveKind(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ResolveKind("tall")
	assert.ErrorIs(t, err, types.ErrUnknownCabinetKind)
}

func TestEngineLowerParts(t *testing.T) {
	e := NewEngine(nil)
	parts, err := e.CalculateCabinetParts(context.Background(), "lower", 600, 720, 560)
	require.NoError(t, err)
	require.Len(t, parts, 5)

	want := []types.PartPlan{
		{PartName: "wieniec dolny", HeightMM: 18, WidthMM: 600, Pieces: 1, Material: types.MaterialPlyta, ThicknessMM: 18, Wrapping: "D"},
		{PartName: "boki", HeightMM: 702, WidthMM: 560, Pieces: 2, Material: types.MaterialPlyta, ThicknessMM: 18, Wrapping: "DKK"},
		{PartName: "listwy", HeightMM: 18, WidthMM: 564, Pieces: 2, Material: types.MaterialPlyta, ThicknessMM: 18, Wrapping: "D"},
		{PartName: "front", HeightMM: 713, WidthMM: 596, Pieces: 1, Material: types.MaterialFront, ThicknessMM: 18, Wrapping: "DDKK"},
		{PartName: "HDF", HeightMM: 697, WidthMM: 595, Pieces: 1, Material: types.MaterialHDF, ThicknessMM: 3},
	}
	assert.Equal(t, want, parts)
}

func TestEngineUpperParts(t *testing.T) {
	e := NewEngine(nil)
	parts, err := e.CalculateCabinetParts(context.Background(), "górna", 600, 720, 300)
	require.NoError(t, err)
	require.Len(t, parts, 5)

	assert.Equal(t, "wieniec dolny i górny", parts[0].PartName)
	assert.Equal(t, 2, parts[0].Pieces)
	assert.Equal(t, 684, parts[1].HeightMM)
	assert.Equal(t, 300, parts[1].WidthMM)
	assert.Equal(t, "pcv 0.8 frez na hdf 282 od przodu gł.12", parts[1].Comments)
	assert.Equal(t, 564, parts[2].WidthMM)
	assert.Equal(t, "front słoje poziomo", parts[3].PartName)
	assert.Equal(t, 716, parts[3].HeightMM)
	assert.Equal(t, 596, parts[3].WidthMM)
	assert.Equal(t, 679, parts[4].HeightMM)
	assert.Equal(t, 595, parts[4].WidthMM)
}

func TestEngineDrawerParts(t *testing.T) {
	e := NewEngine(nil)
	parts, err := e.CalculateCabinetParts(context.Background(), "szuflada", 600, 200, 500)
	require.NoError(t, err)
	require.Len(t, parts, 4)

	assert.Equal(t, [2]int{200, 596}, [2]int{parts[0].HeightMM, parts[0].WidthMM})
	assert.Equal(t, [2]int{182, 500}, [2]int{parts[1].HeightMM, parts[1].WidthMM})
	assert.Equal(t, [2]int{18, 495}, [2]int{parts[2].HeightMM, parts[2].WidthMM}, "bottom capped at the comfortbox width")
	assert.Equal(t, [2]int{70, 475}, [2]int{parts[3].HeightMM, parts[3].WidthMM})

	narrow, err := e.CalculateCabinetParts(context.Background(), "drawer", 400, 200, 500)
	require.NoError(t, err)
	assert.Equal(t, 364, narrow[2].WidthMM, "narrow drawer bottom follows the inner width")
}

func TestEngineUsesStoredConstants(t *testing.T) {
	src := &mapSource{values: map[string]float64{"defaults.board_mm": 16}}
	e := NewEngine(src)
	ctx := context.Background()

	parts, err := e.CalculateCabinetParts(ctx, "lower", 600, 720, 560)
	require.NoError(t, err)
	assert.Equal(t, 704, parts[1].HeightMM)
	assert.Equal(t, 16, parts[0].ThicknessMM)

	reads := src.reads
	_, err = e.CalculateCabinetParts(ctx, "lower", 600, 720, 560)
	require.NoError(t, err)
	assert.Equal(t, reads, src.reads, "second calculation is served from the cache")

	src.values["defaults.board_mm"] = 19
	parts, err = e.CalculateCabinetParts(ctx, "lower", 600, 720, 560)
	require.NoError(t, err)
	assert.Equal(t, 704, parts[1].HeightMM, "stale until the cache is cleared")

	e.ClearCache()
	parts, err = e.CalculateCabinetParts(ctx, "lower", 600, 720, 560)
	require.NoError(t, err)
	assert.Equal(t, 701, parts[1].HeightMM)
}

func TestEngineSourceError(t *testing.T) {
	boom := errors.New("db down")
	e := NewEngine(&mapSource{err: boom})
	_, err := e.CalculateCabinetParts(context.Background(), "lower", 600, 720, 560)
	assert.ErrorIs(t, err, boom)
}

func TestEngineUnknownKind(t *testing.T) {
	_, err := NewEngine(nil).CalculateCabinetParts(context.Background(), "narożna", 600, 720, 560)
	assert.ErrorIs(t, err, types.ErrUnknownCabinetKind)
}

func TestGroupOf(t *testing.T) {
	assert.Equal(t, GroupLower, GroupOf("lower.front_gap_mm"))
	assert.Equal(t, GroupDrawers, GroupOf("drawers.comfortbox.back_height_mm"))
	assert.Equal(t, GroupTemplate, GroupOf("rail_height"))
}

func TestDefaultConstants(t *testing.T) {
	all := DefaultConstants()
	seen := make(map[string]bool)
	for _, c := range all {
		assert.False(t, seen[c.Key], "duplicate key %s", c.Key)
		seen[c.Key] = true
		assert.Equal(t, types.DefaultConstantType, c.Type)
		assert.Equal(t, GroupOf(c.Key), c.Group, c.Key)
	}
	v, ok := DefaultValue("min_cut_mm")
	assert.True(t, ok)
	assert.Equal(t, 10.0, v)
	_, ok = DefaultValue("nope")
	assert.False(t, ok)
}
