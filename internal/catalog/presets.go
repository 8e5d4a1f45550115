package catalog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/petar-djukic/cabplanner/pkg/types"
)

// partPrefixes mark the first token of a part name in a preset line.
var partPrefixes = []string{"wieniec", "boki", "bok", "półka", "polka", "front", "hdf"}

// PresetLine is one parsed part line of a preset sheet.
type PresetLine struct {
	TypeName string
	PartName string
	HeightMM int
	WidthMM  int
	Pieces   int
	Wrapping string
	Comments string
}

// ParsePresetLine parses a whitespace separated line of the form
//
//	<type name> <part name> <height> <width> [pieces] [wrapping] [comments...]
//
// The boolean is false for blank lines, group headers ("SZAFKI ..."),
// column headers and lines that do not carry a part.
func ParsePresetLine(line string) (PresetLine, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(strings.ToUpper(line), "SZAFKI ") {
		return PresetLine{}, false
	}
	if strings.Contains(line, "Nazwa") && strings.Contains(line, "partName") {
		return PresetLine{}, false
	}
	tokens := strings.Fields(line)
	if len(tokens) < 4 {
		return PresetLine{}, false
	}

	start := -1
	for i, tok := range tokens {
		if hasPartPrefix(tok) {
			start = i
			break
		}
	}
	if start < 0 {
		start = min(2, len(tokens))
	}
	end := start
	for end < len(tokens) {
		if _, ok := number(tokens[end]); ok {
			break
		}
		end++
	}

	name := strings.Join(tokens[:start], " ")
	partName := strings.Join(tokens[start:end], " ")
	rest := tokens[end:]
	if name == "" || partName == "" || len(rest) == 0 {
		return PresetLine{}, false
	}

	pl := PresetLine{TypeName: name, PartName: partName, Pieces: 1}
	if v, ok := number(rest[0]); ok {
		pl.HeightMM = int(math.Round(v))
	}
	if len(rest) > 1 {
		if v, ok := number(rest[1]); ok {
			pl.WidthMM = int(math.Round(v))
		}
	}
	if len(rest) > 2 {
		if n, err := strconv.Atoi(rest[2]); err == nil {
			pl.Pieces = n
		}
	}
	if len(rest) > 3 {
		pl.Wrapping = types.NormalizeWrapping(rest[3])
	}
	if len(rest) > 4 {
		pl.Comments = strings.Join(rest[4:], " ")
	}
	return pl, true
}

func hasPartPrefix(tok string) bool {
	lower := strings.ToLower(tok)
	for _, p := range partPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

// number parses a decimal token that may use a comma separator.
func number(tok string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(tok, ",", "."), 64)
	return v, err == nil
}

// ImportResult counts what an import added.
type ImportResult struct {
	TypesCreated int `json:"types_created"`
	PartsAdded   int `json:"parts_added"`
	Skipped      int `json:"skipped"`
}

// ImportPresets reads preset lines from r and adds their parts. Types are
// looked up by name and created under kitchenType when missing. A new type
// is stored together with all its parts.
func (s *Service) ImportPresets(ctx context.Context, r io.Reader, kitchenType string) (ImportResult, error) {
	var res ImportResult
	kitchenType = strings.ToUpper(strings.TrimSpace(kitchenType))
	if kitchenType == "" {
		kitchenType = types.KitchenLoft
	}
	if !types.IsKitchenType(kitchenType) {
		return res, fmt.Errorf("%w: %s", types.ErrInvalidKitchen, kitchenType)
	}

	var order []string
	byType := make(map[string][]*types.CabinetPart)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		pl, ok := ParsePresetLine(sc.Text())
		if !ok {
			if strings.TrimSpace(sc.Text()) != "" {
				res.Skipped++
			}
			continue
		}
		if _, seen := byType[pl.TypeName]; !seen {
			order = append(order, pl.TypeName)
		}
		byType[pl.TypeName] = append(byType[pl.TypeName], &types.CabinetPart{
			PartName: pl.PartName,
			HeightMM: pl.HeightMM,
			WidthMM:  pl.WidthMM,
			Pieces:   pl.Pieces,
			Wrapping: pl.Wrapping,
			Comments: pl.Comments,
		})
	}
	if err := sc.Err(); err != nil {
		return res, fmt.Errorf("reading presets: %w", err)
	}

	for _, name := range order {
		parts := byType[name]
		ct, err := s.repo.GetCabinetTypeByName(ctx, name)
		switch {
		case errors.Is(err, types.ErrNotFound):
			if _, err := s.createWithParts(ctx, name, kitchenType, parts); err != nil {
				return res, fmt.Errorf("importing %s: %w", name, err)
			}
			res.TypesCreated++
			res.PartsAdded += len(parts)
			continue
		case err != nil:
			return res, err
		}
		for _, part := range parts {
			part.CabinetTypeID = ct.ID
			if err := s.AddPart(ctx, part); err != nil {
				return res, fmt.Errorf("importing %s %s: %w", name, part.PartName, err)
			}
			res.PartsAdded++
		}
	}
	s.log.Info(ctx, "presets imported", "types", res.TypesCreated, "parts", res.PartsAdded, "skipped", res.Skipped)
	return res, nil
}
