package colors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/cabplanner/pkg/types"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "dąb sonoma", NormalizeName("  DĄB   Sonoma "))
	assert.Equal(t, "Dąb Sonoma", CanonicalName("  Dąb   Sonoma "))
	assert.Equal(t, "", NormalizeName("   "))
}

func TestNormalizeHex(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#fff", "#FFFFFF"},
		{"#a1b2c3", "#A1B2C3"},
		{" #0A0 ", "#00AA00"},
	}
	for _, tt := range tests {
		got, err := NormalizeHex(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	for _, bad := range []string{"", "fff", "#ffff", "#GGGGGG", "#1234567"} {
		_, err := NormalizeHex(bad)
		assert.ErrorIs(t, err, types.ErrInvalidHex, bad)
	}
	assert.True(t, IsHex("#abc"))
	assert.False(t, IsHex("abc"))
}

func TestStaticHex(t *testing.T) {
	hex, ok := StaticHex("biały")
	assert.True(t, ok)
	assert.Equal(t, "#FFFFFF", hex)

	hex, ok = StaticHex("Zielona")
	assert.True(t, ok, "variant spelling")
	assert.Equal(t, "#228B22", hex)

	for garbled, want := range map[string]string{
		"Bia³y":       "#FFFFFF",
		"D¹b":         "#C2B280",
		"Wêngê":       "#4B3621",
		"d¹b  sonoma": "#D2B48C",
		"Jesio\uFFFD": "#D7B98E",
	} {
		hex, ok = StaticHex(garbled)
		assert.True(t, ok, garbled)
		assert.Equal(t, want, hex, garbled)
	}

	_, ok = StaticHex("Fiolet")
	assert.False(t, ok)
	_, ok = StaticHex("")
	assert.False(t, ok)
}

func TestSystemPaletteIsValid(t *testing.T) {
	seen := make(map[string]bool)
	for _, e := range SystemPalette() {
		key := NormalizeName(e.Name)
		assert.False(t, seen[key], "duplicate %s", e.Name)
		seen[key] = true
		assert.True(t, IsHex(e.Hex), e.Name)
	}
	for v, canonical := range variants {
		assert.True(t, seen[NormalizeName(canonical)], "variant %s points to %s", v, canonical)
	}
	for v, canonical := range encodingVariants {
		assert.True(t, seen[NormalizeName(canonical)], "encoding variant %s points to %s", v, canonical)
	}
}

func TestRepairEncoding(t *testing.T) {
	assert.Equal(t, "Dąb Craft", RepairEncoding(" D¹b  Craft "))
	assert.Equal(t, "Beżowy", RepairEncoding("Be¿owa"))
	assert.Equal(t, "Orzech", RepairEncoding("Orzech"))
}
