package settings_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/cabplanner/internal/settings"
	"github.com/petar-djukic/cabplanner/internal/store"
	"github.com/petar-djukic/cabplanner/pkg/types"
)

func newService(t *testing.T) *settings.Service {
	t.Helper()
	s := store.New(nil)
	require.NoError(t, s.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir(), SkipSeed: true}))
	t.Cleanup(func() { _ = s.Detach() })
	return settings.NewService(s, nil)
}

func TestEncode(t *testing.T) {
	tests := []struct {
		value     any
		wantValue string
		wantType  string
	}{
		{true, "true", types.ValueTypeBool},
		{42, "42", types.ValueTypeInt},
		{int64(-3), "-3", types.ValueTypeInt},
		{2.5, "2.5", types.ValueTypeFloat},
		{float32(0.8), "0.8", types.ValueTypeFloat},
		{"LOFT", "LOFT", types.ValueTypeStr},
		{[]int{1}, "[1]", types.ValueTypeStr},
	}
	for _, tt := range tests {
		st := settings.Encode("k", tt.value)
		assert.Equal(t, tt.wantValue, st.Value, "%v", tt.value)
		assert.Equal(t, tt.wantType, st.ValueType, "%v", tt.value)
	}
}

func TestDecode(t *testing.T) {
	v, err := settings.Decode(&types.Setting{Value: "True", ValueType: types.ValueTypeBool})
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = settings.Decode(&types.Setting{Value: "12", ValueType: types.ValueTypeInt})
	require.NoError(t, err)
	assert.Equal(t, 12, v)

	v, err = settings.Decode(&types.Setting{Value: "0.5", ValueType: types.ValueTypeFloat})
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)

	_, err = settings.Decode(&types.Setting{Value: "abc", ValueType: types.ValueTypeInt})
	assert.ErrorIs(t, err, types.ErrInvalidValueType)
	_, err = settings.Decode(&types.Setting{Value: "x", ValueType: "json"})
	assert.ErrorIs(t, err, types.ErrInvalidValueType)
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, true, settings.ParseValue("TRUE"))
	assert.Equal(t, false, settings.ParseValue("false"))
	assert.Equal(t, 7, settings.ParseValue(" 7 "))
	assert.Equal(t, 1.25, settings.ParseValue("1.25"))
	assert.Equal(t, "Inf", settings.ParseValue("Inf"))
	assert.Equal(t, "reports/out", settings.ParseValue("reports/out"))
}

func TestServiceTypedRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	v, err := svc.Get(ctx, "missing", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", v)

	_, err = svc.Set(ctx, "auto_backup", true)
	require.NoError(t, err)
	_, err = svc.Set(ctx, "backup_days", 7)
	require.NoError(t, err)
	_, err = svc.Set(ctx, "margin", 1.5)
	require.NoError(t, err)
	_, err = svc.Set(ctx, "company", "Meble Nowak")
	require.NoError(t, err)

	b, err := svc.Bool(ctx, "auto_backup", false)
	require.NoError(t, err)
	assert.True(t, b)

	n, err := svc.Int(ctx, "backup_days", 0)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	n, err = svc.Int(ctx, "company", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, n, "wrong type falls back to the default")

	v, err = svc.Get(ctx, "margin", nil)
	require.NoError(t, err)
	assert.Equal(t, 1.5, v)

	str, err := svc.String(ctx, "company", "")
	require.NoError(t, err)
	assert.Equal(t, "Meble Nowak", str)

	_, err = svc.Set(ctx, "backup_days", "weekly")
	require.NoError(t, err)
	v, err = svc.Get(ctx, "backup_days", nil)
	require.NoError(t, err)
	assert.Equal(t, "weekly", v, "set replaces the value type")

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 4)

	require.NoError(t, svc.Delete(ctx, "margin"))
	require.NoError(t, svc.Delete(ctx, "margin"))
	v, err = svc.Get(ctx, "margin", 0.0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestSetTyped(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	st, err := svc.SetTyped(ctx, "limit", "10", types.ValueTypeInt)
	require.NoError(t, err)
	assert.Equal(t, types.ValueTypeInt, st.ValueType)

	_, err = svc.SetTyped(ctx, "limit", "ten", types.ValueTypeInt)
	assert.ErrorIs(t, err, types.ErrInvalidValueType)

	n, err := svc.Int(ctx, "limit", 0)
	require.NoError(t, err)
	assert.Equal(t, 10, n, "rejected value leaves the old one")
}

func TestUIStateViewMode(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	ui := settings.NewUIState(svc)

	mode, err := ui.ViewMode(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.ViewModeCards, mode)

	require.NoError(t, ui.SetViewMode(ctx, settings.ViewModeTable))
	mode, err = ui.ViewMode(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.ViewModeTable, mode)

	raw, err := svc.Get(ctx, "project_details/view_mode", nil)
	require.NoError(t, err)
	assert.Equal(t, "table", raw)

	assert.ErrorIs(t, ui.SetViewMode(ctx, "grid"), types.ErrInvalidViewMode)

	_, err = svc.Set(ctx, ui.Key("view_mode"), "grid")
	require.NoError(t, err)
	mode, err = ui.ViewMode(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.ViewModeCards, mode, "unknown stored mode reads as cards")

	require.NoError(t, ui.SetSelectedTab(ctx, 2))
	tab, err := ui.SelectedTab(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, tab)
	assert.ErrorIs(t, ui.SetSelectedTab(ctx, -1), types.ErrInvalidTab)
}
