package ordering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/cabplanner/pkg/types"
)

func cabs(seqs ...int) []*types.Cabinet {
	out := make([]*types.Cabinet, len(seqs))
	for i, s := range seqs {
		out[i] = &types.Cabinet{ID: string(rune('a' + i)), SequenceNumber: s, Quantity: 1}
	}
	return out
}

func ids(list []*types.Cabinet) string {
	s := ""
	for _, c := range list {
		s += c.ID
	}
	return s
}

func seqs(list []*types.Cabinet) []int {
	out := make([]int, len(list))
	for i, c := range list {
		out[i] = c.SequenceNumber
	}
	return out
}

func TestSort(t *testing.T) {
	list := cabs(3, 0, 1, 3, 2)
	sorted := Sort(list)

	assert.Equal(t, "ceadb", ids(sorted), "ties broken by ID, unset sequence last")
	assert.Equal(t, "abcde", ids(list), "input left unchanged")
}

func TestValidateUnique(t *testing.T) {
	assert.Empty(t, ValidateUnique(cabs(1, 2, 3)))
	assert.Empty(t, ValidateUnique(cabs(0, 0, 1)), "unset sequences are not duplicates")

	msgs := ValidateUnique(cabs(2, 1, 2, 2, 5, 5))
	assert.Equal(t, []string{
		"Sekwencja 2 jest używana przez więcej niż jedną szafę",
		"Sekwencja 5 jest używana przez więcej niż jedną szafę",
	}, msgs)
}

func TestNextSequence(t *testing.T) {
	assert.Equal(t, 1, NextSequence(nil))
	assert.Equal(t, 6, NextSequence(cabs(1, 5, 2)))
}

func TestNextAvailable(t *testing.T) {
	assert.Equal(t, 1, NextAvailable(nil))
	assert.Equal(t, 2, NextAvailable(cabs(1, 3, 4)))
	assert.Equal(t, 4, NextAvailable(cabs(3, 1, 2)))
}

func TestIsTaken(t *testing.T) {
	list := cabs(1, 2)
	assert.True(t, IsTaken(list, 2, "a"))
	assert.False(t, IsTaken(list, 2, "b"), "own sequence is not taken")
	assert.False(t, IsTaken(list, 3, ""))
}

func TestMove(t *testing.T) {
	tests := []struct {
		name            string
		src, count, dst int
		want            string
	}{
		{name: "down one", src: 0, count: 1, dst: 2, want: "bacde"},
		{name: "to end", src: 0, count: 1, dst: 5, want: "bcdea"},
		{name: "up", src: 3, count: 1, dst: 0, want: "dabce"},
		{name: "block down", src: 0, count: 2, dst: 4, want: "cdabe"},
		{name: "block up", src: 3, count: 2, dst: 1, want: "adebc"},
		{name: "just past block is a no-op", src: 1, count: 2, dst: 3, want: "abcde"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := cabs(1, 2, 3, 4, 5)
			got, err := Move(list, tt.src, tt.count, tt.dst)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
			assert.Equal(t, "abcde", ids(list), "input left unchanged")
		})
	}
}

func TestMoveRejects(t *testing.T) {
	list := cabs(1, 2, 3, 4)
	tests := []struct {
		name            string
		src, count, dst int
	}{
		{"negative source", -1, 1, 2},
		{"range past end", 3, 2, 0},
		{"zero count", 0, 0, 2},
		{"negative destination", 1, 1, -1},
		{"destination past end", 1, 1, 5},
		{"onto itself", 2, 1, 2},
		{"inside the block", 0, 3, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Move(list, tt.src, tt.count, tt.dst)
			assert.ErrorIs(t, err, types.ErrInvalidMove)
		})
	}
}

func TestRenumber(t *testing.T) {
	list := cabs(1, 5, 3, 7)
	changed := Renumber(list)

	assert.Equal(t, []int{1, 2, 3, 4}, seqs(list))
	assert.Equal(t, "bd", ids(changed), "only cabinets whose number changed")
	assert.Empty(t, Renumber(list), "dense list needs no changes")
}

func TestMoveThenRenumberIsDense(t *testing.T) {
	list := cabs(1, 2, 3, 4, 5)
	moved, err := Move(list, 4, 1, 0)
	require.NoError(t, err)

	changed := Renumber(moved)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, seqs(moved))
	assert.Equal(t, "eabcd", ids(moved))
	assert.Len(t, changed, 5)
}

func TestFilterMatch(t *testing.T) {
	standard := &types.Cabinet{TypeID: "t1", BodyColor: "Biały", FrontColor: "Dąb", HandleType: "Gola"}
	custom := &types.Cabinet{Name: "D60S3", BodyColor: "Szary", FrontColor: "Biały"}

	tests := []struct {
		name     string
		filter   Filter
		cabinet  *types.Cabinet
		typeName string
		want     bool
	}{
		{"empty filter", Filter{}, standard, "D60", true},
		{"all", Filter{Type: types.CabinetFilterAll}, custom, "", true},
		{"standard only rejects custom", Filter{Type: types.CabinetFilterStandard}, custom, "", false},
		{"custom only rejects standard", Filter{Type: types.CabinetFilterCustom}, standard, "D60", false},
		{"custom only keeps custom", Filter{Type: types.CabinetFilterCustom}, custom, "", true},
		{"search type name", Filter{Search: "d60"}, standard, "D60", true},
		{"search template name", Filter{Search: "s3"}, custom, "", true},
		{"search ignores type name of custom", Filter{Search: "G40"}, custom, "G40", false},
		{"search handle", Filter{Search: "gola"}, standard, "D60", true},
		{"search miss", Filter{Search: "witryna"}, standard, "D60", false},
		{"color front", Filter{Color: "dąb"}, standard, "", true},
		{"color body", Filter{Color: "SZARY"}, custom, "", true},
		{"color miss", Filter{Color: "Czarny"}, custom, "", false},
		{"color and search", Filter{Color: "Biały", Search: "gola"}, standard, "D60", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Match(tt.cabinet, tt.typeName))
		})
	}
}
