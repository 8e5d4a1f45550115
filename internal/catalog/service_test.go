package catalog_test

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/cabplanner/internal/catalog"
	"github.com/petar-djukic/cabplanner/internal/store"
	"github.com/petar-djukic/cabplanner/pkg/types"
)

func newService(t *testing.T) *catalog.Service {
	t.Helper()
	s := store.New(nil)
	require.NoError(t, s.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir(), SkipSeed: true}))
	t.Cleanup(func() { _ = s.Detach() })
	return catalog.NewService(s, nil)
}

func addPart(t *testing.T, svc *catalog.Service, typeID, name string, h, w int) *types.CabinetPart {
	t.Helper()
	p := &types.CabinetPart{CabinetTypeID: typeID, PartName: name, HeightMM: h, WidthMM: w, Pieces: 1}
	require.NoError(t, svc.AddPart(context.Background(), p))
	return p
}

func TestNewItem(t *testing.T) {
	ct := &types.CabinetType{ID: "x", Number: 7, Name: "D60", KitchenType: types.KitchenParis}

	empty := catalog.NewItem(ct, nil)
	assert.Equal(t, "PARIS-007", empty.SKU)
	assert.Equal(t, 600, empty.WidthMM)
	assert.Equal(t, 720, empty.HeightMM)
	assert.Equal(t, 560, empty.DepthMM)
	assert.Equal(t, "D60 - PARIS series", empty.Description)

	withParts := catalog.NewItem(ct, []*types.CabinetPart{
		{HeightMM: 720, WidthMM: 557},
		{HeightMM: 564, WidthMM: 600},
	})
	assert.Equal(t, 600, withParts.WidthMM)
	assert.Equal(t, 720, withParts.HeightMM)
	assert.Equal(t, 2, withParts.PartCount)

	other := catalog.NewItem(&types.CabinetType{Name: "X", KitchenType: "MODERN", Number: 12}, nil)
	assert.Equal(t, 320, other.DepthMM)
	assert.Equal(t, "MODERN-012", other.SKU)
}

func TestCreateAndList(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.Create(ctx, "D60", "loft")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "G40", types.KitchenParis)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "D80 zlew", types.KitchenParis)
	require.NoError(t, err)

	_, err = svc.Create(ctx, "  ", types.KitchenLoft)
	assert.ErrorIs(t, err, types.ErrEmptyName)
	_, err = svc.Create(ctx, "N60", "MODERN")
	assert.ErrorIs(t, err, types.ErrInvalidKitchen)
	_, err = svc.Create(ctx, "D60", types.KitchenWino)
	assert.ErrorIs(t, err, types.ErrDuplicateName)

	names := func(items []catalog.Item) []string {
		out := make([]string, len(items))
		for i, it := range items {
			out[i] = it.Name
		}
		return out
	}

	all, err := svc.List(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"D60", "D80 zlew", "G40"}, names(all))

	byQuery, err := svc.List(ctx, "d", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"D60", "D80 zlew"}, names(byQuery))

	byKitchenText, err := svc.List(ctx, "paris", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"D80 zlew", "G40"}, names(byKitchenText))

	byKitchen, err := svc.List(ctx, "d", "paris")
	require.NoError(t, err)
	assert.Equal(t, []string{"D80 zlew"}, names(byKitchen))

	assert.Equal(t, []string{"LOFT", "PARIS", "WINO"}, svc.KitchenTypes())
}

func TestGetUsesParts(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	ct, err := svc.Create(ctx, "D60", types.KitchenLoft)
	require.NoError(t, err)
	item, err := svc.Get(ctx, ct.ID)
	require.NoError(t, err)
	assert.Equal(t, "LOFT-001", item.SKU)
	assert.Equal(t, 600, item.WidthMM)

	addPart(t, svc, ct.ID, "boki", 720, 510)
	addPart(t, svc, ct.ID, "wieniec dolny", 18, 564)
	item, err = svc.Get(ctx, ct.ID)
	require.NoError(t, err)
	assert.Equal(t, 564, item.WidthMM)
	assert.Equal(t, 720, item.HeightMM)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	ct, err := svc.Create(ctx, "D60", types.KitchenLoft)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "G40", types.KitchenLoft)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, ct.ID, "", "wino")
	require.NoError(t, err)
	assert.Equal(t, "D60", updated.Name)
	assert.Equal(t, types.KitchenWino, updated.KitchenType)

	updated, err = svc.Update(ctx, ct.ID, "D60 nowa", "")
	require.NoError(t, err)
	assert.Equal(t, "D60 nowa", updated.Name)

	_, err = svc.Update(ctx, ct.ID, "G40", "")
	assert.ErrorIs(t, err, types.ErrDuplicateName)
	_, err = svc.Update(ctx, ct.ID, "", "modern")
	assert.ErrorIs(t, err, types.ErrInvalidKitchen)
	_, err = svc.Update(ctx, "missing", "x", "")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	ct, err := svc.Create(ctx, "D60", types.KitchenLoft)
	require.NoError(t, err)
	addPart(t, svc, ct.ID, "boki", 720, 510)
	addPart(t, svc, ct.ID, "HDF", 715, 595)

	dup, err := svc.Duplicate(ctx, ct.ID)
	require.NoError(t, err)
	assert.Equal(t, "D60 (Copy)", dup.Name)
	assert.Equal(t, types.KitchenLoft, dup.KitchenType)
	assert.NotEqual(t, ct.ID, dup.ID)

	_, parts, err := svc.Type(ctx, dup.ID)
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Equal(t, "boki", parts[0].PartName)
	assert.Equal(t, "HDF", parts[1].PartName)
	assert.Equal(t, dup.ID, parts[1].CabinetTypeID)

	_, srcParts, err := svc.Type(ctx, ct.ID)
	require.NoError(t, err)
	assert.Len(t, srcParts, 2, "source keeps its parts")

	_, err = svc.Duplicate(ctx, ct.ID)
	assert.ErrorIs(t, err, types.ErrDuplicateName, "second copy collides with the first")
}

func TestAddPartAppliesDefaults(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	ct, err := svc.Create(ctx, "G60", types.KitchenLoft)
	require.NoError(t, err)

	hdf := addPart(t, svc, ct.ID, "HDF", 680, 595)
	assert.Equal(t, types.MaterialHDF, hdf.Material)
	assert.Equal(t, 3, hdf.ThicknessMM)

	front := addPart(t, svc, ct.ID, "front", 716, 596)
	assert.Equal(t, types.MaterialFront, front.Material)
	assert.Equal(t, 0, front.ThicknessMM)

	board := addPart(t, svc, ct.ID, "wieniec dolny i górny", 18, 600)
	assert.Equal(t, types.MaterialPlyta, board.Material)
	assert.Equal(t, 18, board.ThicknessMM)
	assert.Equal(t, 1, board.Pieces)

	err = svc.AddPart(ctx, &types.CabinetPart{CabinetTypeID: ct.ID, PartName: "boki", Material: "WOOD"})
	assert.ErrorIs(t, err, types.ErrInvalidMaterial)
	err = svc.AddPart(ctx, &types.CabinetPart{CabinetTypeID: "missing", PartName: "boki"})
	assert.ErrorIs(t, err, types.ErrNotFound)

	require.NoError(t, svc.DeletePart(ctx, hdf.ID))
	_, parts, err := svc.Type(ctx, ct.ID)
	require.NoError(t, err)
	assert.Len(t, parts, 2)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	ct, err := svc.Create(ctx, "D60", types.KitchenLoft)
	require.NoError(t, err)
	addPart(t, svc, ct.ID, "boki", 720, 510)

	require.NoError(t, svc.Delete(ctx, ct.ID))
	_, err = svc.Get(ctx, ct.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, ct.ID), types.ErrNotFound)
}

func TestYAMLRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newService(t)

	ct, err := src.Create(ctx, "D60", types.KitchenLoft)
	require.NoError(t, err)
	addPart(t, src, ct.ID, "boki", 720, 510)
	require.NoError(t, src.AddPart(ctx, &types.CabinetPart{
		CabinetTypeID: ct.ID, PartName: "listwy", HeightMM: 18, WidthMM: 564, Pieces: 2, Wrapping: "D", Comments: "na płask",
	}))
	_, err = src.Create(ctx, "G40", types.KitchenWino)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, src.Export(ctx, &buf))
	assert.Contains(t, buf.String(), "name: D60")
	assert.Contains(t, buf.String(), "kitchen_type: WINO")

	dst := newService(t)
	res, err := dst.Import(ctx, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, catalog.ImportResult{TypesCreated: 2, PartsAdded: 2}, res)

	items, err := dst.List(ctx, "D60", "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	_, parts, err := dst.Type(ctx, items[0].ID)
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Equal(t, "listwy", parts[1].PartName)
	assert.Equal(t, 2, parts[1].Pieces)
	assert.Equal(t, "D", parts[1].Wrapping)
	assert.Equal(t, "na płask", parts[1].Comments)

	again, err := dst.Import(ctx, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, catalog.ImportResult{Skipped: 2}, again, "existing names are skipped")

	_, err = dst.Import(ctx, strings.NewReader("types: [oops"))
	assert.Error(t, err)
}

func TestImportLeavesNoPartialType(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	doc := `types:
  - name: D80
    kitchen_type: LOFT
    parts:
      - name: boki
        height_mm: 720
        width_mm: 510
        pieces: 2
      - name: HDF
        height_mm: 715
        width_mm: 795
        pieces: 1
        material: %s
`
	_, err := svc.Import(ctx, strings.NewReader(fmt.Sprintf(doc, "WOOD")))
	assert.ErrorIs(t, err, types.ErrInvalidMaterial)
	items, err := svc.List(ctx, "D80", "")
	require.NoError(t, err)
	assert.Empty(t, items)

	res, err := svc.Import(ctx, strings.NewReader(fmt.Sprintf(doc, "HDF")))
	require.NoError(t, err)
	assert.Equal(t, catalog.ImportResult{TypesCreated: 1, PartsAdded: 2}, res)
	items, err = svc.List(ctx, "D80", "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].PartCount)
}
