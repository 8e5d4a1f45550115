package store

import (
	"bufio"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/petar-djukic/cabplanner/internal/colors"
	"github.com/petar-djukic/cabplanner/internal/dbx"
	"github.com/petar-djukic/cabplanner/internal/formula"
	"github.com/petar-djukic/cabplanner/pkg/types"
)

//go:embed seeddata/catalog.tsv
var catalogTSV string

// seedKitchenType is the kitchen type of the built-in catalog.
const seedKitchenType = types.KitchenLoft

// catalogSeedKey marks a database whose built-in catalog was installed.
// The catalog is seeded once so that deleted or renamed types stay that way.
const (
	catalogSeedKey     = "seed/catalog_version"
	catalogSeedVersion = "1"
)

// seedRow is one line of the built-in catalog sheet.
type seedRow struct {
	typeName string
	part     types.CabinetPart
}

// seed inserts formula constants, system colors and the built-in catalog.
// Existing constants and colors are left untouched, so seeding is
// idempotent. The catalog is installed only on the first attach.
func seed(ctx context.Context, db *sqlx.DB) error {
	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, c := range formula.DefaultConstants() {
			if err := upsertConstant(ctx, tx, &c, false); err != nil {
				return err
			}
		}

		for _, e := range colors.SystemPalette() {
			c := &types.Color{
				Name:           colors.CanonicalName(e.Name),
				NormalizedName: colors.NormalizeName(e.Name),
				HexCode:        e.Hex,
				Source:         types.ColorSourceSystem,
				IsActive:       true,
			}
			if err := insertColor(ctx, tx, c, true); err != nil {
				return err
			}
		}

		return seedCatalogOnce(ctx, tx)
	})
}

// seedCatalogOnce installs the built-in catalog unless the marker setting
// exists. A database that already holds cabinet types only gets the marker.
func seedCatalogOnce(ctx context.Context, tx dbx.DBTX) error {
	var marked int
	if err := tx.GetContext(ctx, &marked, tx.Rebind(`SELECT COUNT(*) FROM settings WHERE key = ?`), catalogSeedKey); err != nil {
		return fmt.Errorf("reading catalog seed marker: %w", err)
	}
	if marked > 0 {
		return nil
	}
	var existing int
	if err := tx.GetContext(ctx, &existing, `SELECT COUNT(*) FROM cabinet_types`); err != nil {
		return fmt.Errorf("counting cabinet types: %w", err)
	}
	if existing == 0 {
		rows, err := parseCatalogSheet(catalogTSV)
		if err != nil {
			return err
		}
		if err := seedCatalog(ctx, tx, rows); err != nil {
			return err
		}
	}
	query := tx.Rebind(`INSERT INTO settings (key, value, value_type) VALUES (?, ?, ?)`)
	if _, err := tx.ExecContext(ctx, query, catalogSeedKey, catalogSeedVersion, types.ValueTypeInt); err != nil {
		return fmt.Errorf("writing catalog seed marker: %w", err)
	}
	return nil
}

// seedCatalog creates every missing catalog type together with its parts.
// Types that already exist keep their current parts.
func seedCatalog(ctx context.Context, tx dbx.DBTX, rows []seedRow) error {
	created := make(map[string]string)
	skipped := make(map[string]bool)
	for _, r := range rows {
		if skipped[r.typeName] {
			continue
		}
		typeID, ok := created[r.typeName]
		if !ok {
			_, err := cabinetTypeByName(ctx, tx, r.typeName)
			switch {
			case err == nil:
				skipped[r.typeName] = true
				continue
			case !errors.Is(err, types.ErrNotFound):
				return err
			}
			ct := &types.CabinetType{Name: r.typeName, KitchenType: seedKitchenType}
			if err := insertCabinetType(ctx, tx, ct); err != nil {
				return err
			}
			typeID = ct.ID
			created[r.typeName] = typeID
		}
		part := r.part
		part.CabinetTypeID = typeID
		if err := insertPart(ctx, tx, &part); err != nil {
			return err
		}
	}
	return nil
}

// parseCatalogSheet reads tab-separated lines of
// type, part, height, width, pieces, wrapping, comments.
// Blank lines are skipped. Placeholder values "0" and "null" become empty.
func parseCatalogSheet(sheet string) ([]seedRow, error) {
	var rows []seedRow
	scanner := bufio.NewScanner(strings.NewReader(sheet))
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) != 7 {
			return nil, fmt.Errorf("catalog sheet line %d: expected 7 fields, got %d", line, len(fields))
		}
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		part := types.CabinetPart{
			PartName: fields[1],
			HeightMM: sheetInt(fields[2]),
			WidthMM:  sheetInt(fields[3]),
			Pieces:   sheetInt(fields[4]),
			Wrapping: types.NormalizeWrapping(fields[5]),
			Comments: sheetText(fields[6]),
		}
		part.ApplyDefaults()
		rows = append(rows, seedRow{typeName: fields[0], part: part})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning catalog sheet: %w", err)
	}
	return rows, nil
}

// sheetInt parses a whole or decimal number, returning 0 on bad input.
func sheetInt(s string) int {
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0
	}
	return int(f)
}

// sheetText maps the sheet's empty placeholders to "".
func sheetText(s string) string {
	switch strings.ToLower(s) {
	case "0", "null":
		return ""
	}
	return s
}
