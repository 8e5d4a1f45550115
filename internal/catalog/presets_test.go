package catalog_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/cabplanner/internal/catalog"
	"github.com/petar-djukic/cabplanner/pkg/types"
)

func TestParsePresetLine(t *testing.T) {
	tests := []struct {
		line string
		want catalog.PresetLine
		ok   bool
	}{
		{
			line: "D60 wieniec dolny 18 600 1 D",
			want: catalog.PresetLine{TypeName: "D60", PartName: "wieniec dolny", HeightMM: 18, WidthMM: 600, Pieces: 1, Wrapping: "D"},
			ok:   true,
		},
		{
			line: "G30 boki 720 300 2 DKK pcv 0,8 frez na hdf",
			want: catalog.PresetLine{TypeName: "G30", PartName: "boki", HeightMM: 720, WidthMM: 300, Pieces: 2, Wrapping: "DKK", Comments: "pcv 0,8 frez na hdf"},
			ok:   true,
		},
		{
			line: "D15 cargo HDF 697,5 145 x",
			want: catalog.PresetLine{TypeName: "D15 cargo", PartName: "HDF", HeightMM: 698, WidthMM: 145, Pieces: 1},
			ok:   true,
		},
		{
			line: "D15 cargo listwy 18 114",
			want: catalog.PresetLine{TypeName: "D15 cargo", PartName: "listwy", HeightMM: 18, WidthMM: 114, Pieces: 1},
			ok:   true,
		},
		{
			line: "G60 front 716 596 1 0",
			want: catalog.PresetLine{TypeName: "G60", PartName: "front", HeightMM: 716, WidthMM: 596, Pieces: 1},
			ok:   true,
		},
		{line: "", ok: false},
		{line: "SZAFKI DOLNE", ok: false},
		{line: "Nazwa partName height width pieces", ok: false},
		{line: "D60 boki 720", ok: false},
		{line: "boki 720 300 2", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := catalog.ParsePresetLine(tt.line)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestImportPresets(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	existing, err := svc.Create(ctx, "G30", types.KitchenParis)
	require.NoError(t, err)

	sheet := `SZAFKI GÓRNE
Nazwa partName height width pieces wrapping comments
G30 boki 720 300 2 DKK
G30 HDF 680 295 1

SZAFKI DOLNE
D60 wieniec dolny 18 600 1 D
D60 front 713 596 1 DDKK
garbage
`
	res, err := svc.ImportPresets(ctx, strings.NewReader(sheet), "wino")
	require.NoError(t, err)
	assert.Equal(t, 1, res.TypesCreated)
	assert.Equal(t, 4, res.PartsAdded)
	assert.Equal(t, 4, res.Skipped, "headers and the garbage line")

	_, g30Parts, err := svc.Type(ctx, existing.ID)
	require.NoError(t, err)
	require.Len(t, g30Parts, 2, "parts added to the existing type")
	assert.Equal(t, types.MaterialHDF, g30Parts[1].Material)

	items, err := svc.List(ctx, "D60", "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, types.KitchenWino, items[0].KitchenType)

	_, d60Parts, err := svc.Type(ctx, items[0].ID)
	require.NoError(t, err)
	require.Len(t, d60Parts, 2)
	assert.Equal(t, types.MaterialPlyta, d60Parts[0].Material)
	assert.Equal(t, 18, d60Parts[0].ThicknessMM)
	assert.Equal(t, types.MaterialFront, d60Parts[1].Material)

	_, err = svc.ImportPresets(ctx, strings.NewReader(sheet), "modern")
	assert.ErrorIs(t, err, types.ErrInvalidKitchen)
}
