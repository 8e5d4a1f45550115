package colors

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"

	"github.com/petar-djukic/cabplanner/pkg/types"
)

// Entry is a named color of the built-in palette.
type Entry struct {
	Name string
	Hex  string
}

// systemPalette is the color dictionary seeded as system colors.
var systemPalette = []Entry{
	{"Biały", "#FFFFFF"},
	{"Czarny", "#000000"},
	{"Szary", "#808080"},
	{"Brązowy", "#8B4513"},
	{"Orzech", "#A0522D"},
	{"Niebieski", "#4169E1"},
	{"Dąb", "#C2B280"},
	{"Dąb Sonoma", "#D2B48C"},
	{"Dąb Artisan", "#A17C5B"},
	{"Dąb Craft", "#C49E70"},
	{"Dąb Bielony", "#E3D9C7"},
	{"Jesion", "#D7B98E"},
	{"Buk", "#DEB887"},
	{"Olcha", "#C08A4D"},
	{"Wenge", "#4B3621"},
	{"Antracyt", "#2F4F4F"},
	{"Grafit", "#3B3B3B"},
	{"Kremowy", "#FFFDD0"},
	{"Beżowy", "#F5F5DC"},
	{"Zielony", "#228B22"},
	{"Czerwony", "#B22222"},
	{"Granatowy", "#000080"},
}

// variants maps alternative spellings to a palette name.
var variants = map[string]string{
	"Zielona":  "Zielony",
	"Czerwona": "Czerwony",
	"Szara":    "Szary",
	"Czarna":   "Czarny",
	"Biała":    "Biały",
	"Beżowa":   "Beżowy",
}

// encodingVariants maps names garbled by legacy code pages in imported
// data to their palette name. \uFFFD is the decoder replacement character.
var encodingVariants = map[string]string{
	"Bia\uFFFDy":       "Biały",
	"Bia\uFFFDa":       "Biały",
	"Br\uFFFDzowy":     "Brązowy",
	"D\uFFFDb":         "Dąb",
	"D\uFFFDb Sonoma":  "Dąb Sonoma",
	"D\uFFFDb Artisan": "Dąb Artisan",
	"D\uFFFDb Craft":   "Dąb Craft",
	"D\uFFFDb Bielony": "Dąb Bielony",
	"Jesio\uFFFD":      "Jesion",
	"Be¿owy":           "Beżowy",
	"Be¿owa":           "Beżowy",
	"Wêngê":            "Wenge",
	"Wêngé":            "Wenge",
	"Bia³y":            "Biały",
	"Bia³a":            "Biały",
	"Br¹zowy":          "Brązowy",
	"D¹b":              "Dąb",
	"Be³owy":           "Beżowy",
	"D¹b Sonoma":       "Dąb Sonoma",
	"D¹b Artisan":      "Dąb Artisan",
	"D¹b Craft":        "Dąb Craft",
	"D¹b Bielony":      "Dąb Bielony",
	"Jesio¬":           "Jesion",
}

var hexRe = regexp.MustCompile(`^#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

// SystemPalette returns a copy of the built-in palette in display order.
func SystemPalette() []Entry {
	out := make([]Entry, len(systemPalette))
	copy(out, systemPalette)
	return out
}

// CanonicalName trims the name and collapses inner whitespace.
func CanonicalName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// NormalizeName returns the lookup key of a color name: canonical and case
// folded. A Caser is stateful, so each call builds its own.
func NormalizeName(name string) string {
	return cases.Fold().String(CanonicalName(name))
}

// IsHex reports whether v is a #RGB or #RRGGBB color.
func IsHex(v string) bool {
	return hexRe.MatchString(strings.TrimSpace(v))
}

// NormalizeHex returns v as upper-case #RRGGBB, expanding #RGB.
func NormalizeHex(v string) (string, error) {
	v = strings.ToUpper(strings.TrimSpace(v))
	if !hexRe.MatchString(v) {
		return "", fmt.Errorf("%q: %w", v, types.ErrInvalidHex)
	}
	if len(v) == 4 {
		v = string([]byte{'#', v[1], v[1], v[2], v[2], v[3], v[3]})
	}
	return v, nil
}

// RepairEncoding returns the palette name of a known mis-encoded color
// name. Any other name is returned canonicalized.
func RepairEncoding(name string) string {
	canonical := CanonicalName(name)
	if fixed, ok := encodingVariants[canonical]; ok {
		return fixed
	}
	return canonical
}

// StaticHex looks a name up in the built-in palette and its variants,
// ignoring case and extra whitespace.
func StaticHex(name string) (string, bool) {
	key := NormalizeName(RepairEncoding(name))
	if key == "" {
		return "", false
	}
	for _, e := range systemPalette {
		if NormalizeName(e.Name) == key {
			return e.Hex, true
		}
	}
	for v, canonical := range variants {
		if NormalizeName(v) == key {
			return StaticHex(canonical)
		}
	}
	return "", false
}
