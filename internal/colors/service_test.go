package colors_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/cabplanner/internal/colors"
	"github.com/petar-djukic/cabplanner/internal/store"
	"github.com/petar-djukic/cabplanner/pkg/types"
)

func newService(t *testing.T) (*colors.Service, *store.Store) {
	t.Helper()
	s := store.New(nil)
	require.NoError(t, s.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir(), SkipSeed: true}))
	t.Cleanup(func() { _ = s.Detach() })
	return colors.NewService(s, nil), s
}

func TestEnsureSeededIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	require.NoError(t, svc.EnsureSeeded(ctx))
	names, err := svc.ListSearchable(ctx)
	require.NoError(t, err)
	assert.Len(t, names, len(colors.SystemPalette()))

	require.NoError(t, svc.EnsureSeeded(ctx))
	again, err := svc.ListSearchable(ctx)
	require.NoError(t, err)
	assert.Equal(t, names, again)
}

func TestResolveHex(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	require.NoError(t, svc.EnsureSeeded(ctx))
	_, err := svc.AddUserColor(ctx, "Mięta", "#98ff98")
	require.NoError(t, err)

	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"#abc", "#AABBCC", true},
		{"  dąb  sonoma", "#D2B48C", true},
		{"MIĘTA", "#98FF98", true},
		{"Czerwona", "#B22222", true},
		{"Fiolet", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok, err := svc.ResolveHex(ctx, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddUserColor(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	require.NoError(t, svc.EnsureSeeded(ctx))

	c, err := svc.AddUserColor(ctx, "  Szałwia  Zielona ", "#9c9")
	require.NoError(t, err)
	assert.Equal(t, "Szałwia Zielona", c.Name)
	assert.Equal(t, "#99CC99", c.HexCode)
	assert.Equal(t, types.ColorSourceUser, c.Source)

	_, err = svc.AddUserColor(ctx, "", "#fff")
	assert.ErrorIs(t, err, types.ErrEmptyName)
	_, err = svc.AddUserColor(ctx, "Nowy", "red")
	assert.ErrorIs(t, err, types.ErrInvalidHex)
	_, err = svc.AddUserColor(ctx, "BIAŁY", "#fff")
	assert.ErrorIs(t, err, types.ErrColorExists)
	_, err = svc.AddUserColor(ctx, "szałwia zielona", "#fff")
	assert.ErrorIs(t, err, types.ErrColorExists)
}

func TestMarkUsedAndRecent(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t)
	require.NoError(t, svc.EnsureSeeded(ctx))

	recent, err := svc.ListRecent(ctx, colors.DefaultRecentLimit)
	require.NoError(t, err)
	assert.Empty(t, recent)

	_, err = svc.MarkUsed(ctx, "Biały")
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	c, err := svc.MarkUsed(ctx, "dąb")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, 1, c.UsageCount)
	time.Sleep(2 * time.Millisecond)
	c, err = svc.MarkUsed(ctx, "DĄB")
	require.NoError(t, err)
	assert.Equal(t, 2, c.UsageCount)

	recent, err = svc.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dąb", "Biały"}, recent)

	none, err := svc.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)

	ignored, err := svc.MarkUsed(ctx, "Fiolet")
	require.NoError(t, err)
	assert.Nil(t, ignored)

	stored, err := st.FindColorByNormalized(ctx, "dąb")
	require.NoError(t, err)
	assert.Equal(t, 2, stored.UsageCount)
}

func TestMarkUsedAddsKnownVariant(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	c, err := svc.MarkUsed(ctx, "Zielona")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, types.ColorSourceUser, c.Source)
	assert.Equal(t, "#228B22", c.HexCode)

	hexes, err := svc.HexMap(ctx)
	require.NoError(t, err)
	assert.Equal(t, "#228B22", hexes["Zielona"])
}

func TestMarkUsedRepairsEncoding(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t)
	require.NoError(t, svc.EnsureSeeded(ctx))

	c, err := svc.MarkUsed(ctx, "Bia³y")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Biały", c.Name)
	assert.Equal(t, types.ColorSourceSystem, c.Source)
	assert.Equal(t, 1, c.UsageCount)

	_, err = st.FindColorByNormalized(ctx, colors.NormalizeName("Bia³y"))
	assert.ErrorIs(t, err, types.ErrNotFound, "no color is stored under the garbled name")

	hex, ok, err := svc.ResolveHex(ctx, "Wêngê")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "#4B3621", hex)
}
