package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/cabplanner/internal/colors"
	"github.com/petar-djukic/cabplanner/internal/formula"
	"github.com/petar-djukic/cabplanner/pkg/types"
)

// setupTestStore attaches a store to a fresh SQLite file. Seeding is
// skipped unless seed is true.
func setupTestStore(t *testing.T, seed bool) *Store {
	t.Helper()
	s := New(nil)
	require.NoError(t, s.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir(), SkipSeed: !seed}))
	t.Cleanup(func() { _ = s.Detach() })
	return s
}

func countRows(t *testing.T, s *Store, table string) int {
	t.Helper()
	db, err := s.conn()
	require.NoError(t, err)
	var n int
	require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}

func TestStoreLifecycle(t *testing.T) {
	dir := t.TempDir()
	s := New(nil)
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: dir, SkipSeed: true}

	require.NoError(t, s.Attach(cfg))
	assert.ErrorIs(t, s.Attach(cfg), types.ErrAlreadyAttached)
	assert.Equal(t, cfg, s.Config())

	require.NoError(t, s.Detach())
	require.NoError(t, s.Detach(), "detach is idempotent")

	_, err := s.ListProjects(context.Background())
	assert.ErrorIs(t, err, types.ErrDetached)
	assert.ErrorIs(t, s.CreateProject(context.Background(), &types.Project{}), types.ErrDetached)
}

func TestStoreAttachRejectsInvalidConfig(t *testing.T) {
	s := New(nil)
	assert.ErrorIs(t, s.Attach(types.Config{}), types.ErrBackendEmpty)
	assert.ErrorIs(t, s.Attach(types.Config{Backend: types.BackendPostgres}), types.ErrDSNRequired)

	_, err := s.ListProjects(context.Background())
	assert.ErrorIs(t, err, types.ErrDetached)
}

func TestStoreDataSurvivesReattach(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: dir, SkipSeed: true}

	s := New(nil)
	require.NoError(t, s.Attach(cfg))
	p := &types.Project{Name: "Nowak", KitchenType: types.KitchenParis, OrderNumber: "Z-7"}
	require.NoError(t, s.CreateProject(ctx, p))
	require.NoError(t, s.Detach())

	require.NoError(t, s.Attach(cfg))
	defer s.Detach()
	got, err := s.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nowak", got.Name)
}

func TestSeedPopulatesReferenceData(t *testing.T) {
	s := setupTestStore(t, true)

	assert.Equal(t, len(formula.DefaultConstants()), countRows(t, s, "formula_constants"))
	assert.Equal(t, len(colors.SystemPalette()), countRows(t, s, "colors"))
	assert.Equal(t, 83, countRows(t, s, "cabinet_types"))
	assert.Equal(t, 490, countRows(t, s, "cabinet_parts"))

	ctx := context.Background()
	g30, err := s.GetCabinetTypeByName(ctx, "G30")
	require.NoError(t, err)
	assert.Equal(t, types.KitchenLoft, g30.KitchenType)
	assert.Equal(t, 1, g30.Number)

	parts, err := s.ListParts(ctx, g30.ID)
	require.NoError(t, err)
	require.Len(t, parts, 5)
	assert.Equal(t, "wieniec dolny i górny", parts[0].PartName)
	assert.Equal(t, 264, parts[0].HeightMM)
	assert.Equal(t, 282, parts[0].WidthMM)
	assert.Equal(t, 2, parts[0].Pieces)
	assert.Equal(t, "K", parts[0].Wrapping)
	assert.Equal(t, 18, parts[0].ThicknessMM)
	assert.Equal(t, "pcv 0,8 frez na hdf 282 od przodu gł.12", parts[1].Comments)
	assert.Equal(t, types.MaterialFront, parts[3].Material)
	assert.Equal(t, types.MaterialHDF, parts[4].Material)
	assert.Equal(t, 3, parts[4].ThicknessMM)
	assert.Empty(t, parts[4].Wrapping)
}

func TestSeedIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: dir}

	s := New(nil)
	require.NoError(t, s.Attach(cfg))
	tables := []string{"formula_constants", "colors", "cabinet_types", "cabinet_parts"}
	before := make(map[string]int)
	for _, tbl := range tables {
		before[tbl] = countRows(t, s, tbl)
	}
	require.NoError(t, s.Detach())

	require.NoError(t, s.Attach(cfg))
	defer s.Detach()
	for _, tbl := range tables {
		assert.Equal(t, before[tbl], countRows(t, s, tbl), tbl)
	}
}

func TestSeedCatalogRunsOnce(t *testing.T) {
	ctx := context.Background()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}

	s := New(nil)
	require.NoError(t, s.Attach(cfg))
	g30, err := s.GetCabinetTypeByName(ctx, "G30")
	require.NoError(t, err)
	require.NoError(t, s.DeleteCabinetType(ctx, g30.ID))
	g40, err := s.GetCabinetTypeByName(ctx, "G40")
	require.NoError(t, err)
	g40.Name = "G40 moja"
	require.NoError(t, s.UpdateCabinetType(ctx, g40))
	before := countRows(t, s, "cabinet_types")
	require.NoError(t, s.Detach())

	require.NoError(t, s.Attach(cfg))
	defer s.Detach()
	_, err = s.GetCabinetTypeByName(ctx, "G30")
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = s.GetCabinetTypeByName(ctx, "G40")
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = s.GetCabinetTypeByName(ctx, "G40 moja")
	assert.NoError(t, err)
	assert.Equal(t, before, countRows(t, s, "cabinet_types"))

	marker, err := s.GetSetting(ctx, catalogSeedKey)
	require.NoError(t, err)
	assert.Equal(t, catalogSeedVersion, marker.Value)
}

func TestSeedMarksExistingCatalog(t *testing.T) {
	ctx := context.Background()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir(), SkipSeed: true}

	s := New(nil)
	require.NoError(t, s.Attach(cfg))
	require.NoError(t, s.CreateCabinetType(ctx, &types.CabinetType{Name: "Własna", KitchenType: types.KitchenLoft}))
	require.NoError(t, s.Detach())

	cfg.SkipSeed = false
	require.NoError(t, s.Attach(cfg))
	defer s.Detach()
	assert.Equal(t, 1, countRows(t, s, "cabinet_types"), "a populated catalog is not reseeded")
	_, err := s.GetSetting(ctx, catalogSeedKey)
	assert.NoError(t, err)
}

func TestSeedKeepsUserOverrides(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: dir}

	s := New(nil)
	require.NoError(t, s.Attach(cfg))
	require.NoError(t, s.SetConstant(ctx, &types.FormulaConstant{Key: "defaults.board_mm", Value: 16, Group: formula.GroupDefaults}))
	require.NoError(t, s.Detach())

	require.NoError(t, s.Attach(cfg))
	defer s.Detach()
	c, err := s.GetConstant(ctx, "defaults.board_mm")
	require.NoError(t, err)
	assert.Equal(t, 16.0, c.Value)
}

func TestParseCatalogSheet(t *testing.T) {
	rows, err := parseCatalogSheet("D60\tboki\t720\t510\t2\tD\t0\n\nD60\tHDF\t715,0\t595\t1\tnull\tuwaga\n")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "D60", rows[0].typeName)
	assert.Equal(t, 720, rows[0].part.HeightMM)
	assert.Equal(t, types.MaterialPlyta, rows[0].part.Material)
	assert.Empty(t, rows[0].part.Comments)

	assert.Equal(t, 715, rows[1].part.HeightMM)
	assert.Equal(t, types.MaterialHDF, rows[1].part.Material)
	assert.Empty(t, rows[1].part.Wrapping)
	assert.Equal(t, "uwaga", rows[1].part.Comments)

	_, err = parseCatalogSheet("D60\tboki\t720\n")
	assert.Error(t, err)
}
