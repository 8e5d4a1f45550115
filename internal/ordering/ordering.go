// Package ordering keeps the cabinets of a project in sequence order. It
// sorts, validates and renumbers sequence numbers and implements the
// drag-and-drop move of table rows. Functions here are pure; persisting
// the result is up to the caller.
package ordering

import (
	"fmt"
	"slices"
	"strings"

	"github.com/petar-djukic/cabplanner/pkg/types"
)

// unsetSequence is the sort key of a cabinet without a sequence number,
// which places it after every numbered cabinet.
const unsetSequence = 999

// DuplicateMessage is reported once per sequence number held by more than
// one cabinet.
const DuplicateMessage = "Sekwencja %d jest używana przez więcej niż jedną szafę"

func sortKey(c *types.Cabinet) int {
	if c.SequenceNumber <= 0 {
		return unsetSequence
	}
	return c.SequenceNumber
}

// Sort returns the cabinets ordered by sequence number, then ID. Cabinets
// without a sequence go last. The input slice is not modified.
func Sort(cabinets []*types.Cabinet) []*types.Cabinet {
	out := slices.Clone(cabinets)
	slices.SortStableFunc(out, func(a, b *types.Cabinet) int {
		if ka, kb := sortKey(a), sortKey(b); ka != kb {
			return ka - kb
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// ValidateUnique returns one message per sequence number used by more
// than one cabinet, in ascending order. Unset sequences are ignored.
func ValidateUnique(cabinets []*types.Cabinet) []string {
	counts := make(map[int]int)
	for _, c := range cabinets {
		if c.SequenceNumber > 0 {
			counts[c.SequenceNumber]++
		}
	}
	var dups []int
	for seq, n := range counts {
		if n > 1 {
			dups = append(dups, seq)
		}
	}
	slices.Sort(dups)

	msgs := make([]string, len(dups))
	for i, seq := range dups {
		msgs[i] = fmt.Sprintf(DuplicateMessage, seq)
	}
	return msgs
}

// NextSequence returns one past the highest sequence number, or 1 for an
// empty project.
func NextSequence(cabinets []*types.Cabinet) int {
	highest := 0
	for _, c := range cabinets {
		highest = max(highest, c.SequenceNumber)
	}
	return highest + 1
}

// NextAvailable returns the lowest unused sequence number in 1..max+1.
func NextAvailable(cabinets []*types.Cabinet) int {
	used := make(map[int]bool, len(cabinets))
	for _, c := range cabinets {
		used[c.SequenceNumber] = true
	}
	for seq := 1; ; seq++ {
		if !used[seq] {
			return seq
		}
	}
}

// IsTaken reports whether another cabinet than exclude holds seq.
func IsTaken(cabinets []*types.Cabinet, seq int, exclude string) bool {
	for _, c := range cabinets {
		if c.ID != exclude && c.SequenceNumber == seq {
			return true
		}
	}
	return false
}

// Move moves count rows starting at src so that they land before row dst
// of the original list, the way a table drag-and-drop does. It returns a
// new slice and ErrInvalidMove when the range or destination is out of
// bounds, or when the move would leave the list unchanged.
func Move(cabinets []*types.Cabinet, src, count, dst int) ([]*types.Cabinet, error) {
	n := len(cabinets)
	if count < 1 || src < 0 || src+count > n {
		return nil, fmt.Errorf("%w: rows %d..%d of %d", types.ErrInvalidMove, src, src+count-1, n)
	}
	if dst < 0 || dst > n {
		return nil, fmt.Errorf("%w: destination %d of %d", types.ErrInvalidMove, dst, n)
	}
	if dst == src || (src < dst && dst < src+count) {
		return nil, fmt.Errorf("%w: rows %d..%d onto %d", types.ErrInvalidMove, src, src+count-1, dst)
	}

	at := dst
	if src < dst {
		at -= count
	}
	moving := slices.Clone(cabinets[src : src+count])
	rest := slices.Delete(slices.Clone(cabinets), src, src+count)
	return slices.Insert(rest, at, moving...), nil
}

// Renumber assigns 1..n in list order and returns the cabinets whose
// sequence changed.
func Renumber(cabinets []*types.Cabinet) []*types.Cabinet {
	var changed []*types.Cabinet
	for i, c := range cabinets {
		if c.SequenceNumber != i+1 {
			c.SequenceNumber = i + 1
			changed = append(changed, c)
		}
	}
	return changed
}

// Filter selects cabinets in the project table. Zero fields match
// everything.
type Filter struct {
	// Search matches the type or template name, either color or the
	// handle type, ignoring case.
	Search string
	// Type is one of types.CabinetFilterAll, CabinetFilterStandard or
	// CabinetFilterCustom.
	Type string
	// Color matches the body or front color exactly, ignoring case.
	Color string
}

// Match reports whether the cabinet passes the filter. typeName is the
// catalog name of a standard cabinet and is ignored for custom ones.
func (f Filter) Match(c *types.Cabinet, typeName string) bool {
	switch f.Type {
	case types.CabinetFilterStandard:
		if c.IsCustom() {
			return false
		}
	case types.CabinetFilterCustom:
		if !c.IsCustom() {
			return false
		}
	}

	if color := strings.TrimSpace(f.Color); color != "" {
		if !strings.EqualFold(c.BodyColor, color) && !strings.EqualFold(c.FrontColor, color) {
			return false
		}
	}

	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	name := typeName
	if c.IsCustom() {
		name = c.Name
	}
	for _, field := range []string{name, c.BodyColor, c.FrontColor, c.HandleType} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
