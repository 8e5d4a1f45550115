package types

import (
	"regexp"
	"strings"
	"time"
)

// Part materials.
const (
	MaterialPlyta = "PLYTA"
	MaterialFront = "FRONT"
	MaterialHDF   = "HDF"
	MaterialALU   = "ALU"
)

// validMaterials is the set of recognized part materials.
var validMaterials = map[string]bool{
	MaterialPlyta: true,
	MaterialFront: true,
	MaterialHDF:   true,
	MaterialALU:   true,
}

// IsMaterial reports whether m is a recognized material.
func IsMaterial(m string) bool {
	return validMaterials[m]
}

// CabinetType is a catalog entry with its standard part geometry.
type CabinetType struct {
	ID          string    `json:"id"`
	Number      int       `json:"number"` // catalog ordinal, used for SKUs
	KitchenType string    `json:"kitchen_type"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CabinetPart is one cut part of a catalog cabinet type.
type CabinetPart struct {
	ID            string `json:"id"`
	CabinetTypeID string `json:"cabinet_type_id"`
	PartName      string `json:"part_name"`
	HeightMM      int    `json:"height_mm"`
	WidthMM       int    `json:"width_mm"`
	Pieces        int    `json:"pieces"`
	Wrapping      string `json:"wrapping,omitempty"`
	Material      string `json:"material"`
	ThicknessMM   int    `json:"thickness_mm,omitempty"` // 0 when unknown
	Comments      string `json:"comments,omitempty"`
}

var (
	thickness16Re = regexp.MustCompile(`(?i)(PŁYTA|TYŁY|SPODY) 16`)
	thickness18Re = regexp.MustCompile(`(?i)(PŁYTA|TYŁY|SPODY) 18`)
	boardPrefixRe = regexp.MustCompile(`^(boki|wieniec|listwy|półka|polka|spody|tyły|tyly)\b`)
)

// MaterialForPart derives the material of a part from its name.
func MaterialForPart(partName string) string {
	lower := strings.ToLower(partName)
	switch {
	case strings.Contains(lower, "hdf"):
		return MaterialHDF
	case strings.Contains(lower, "front"):
		return MaterialFront
	default:
		return MaterialPlyta
	}
}

// ThicknessForPart derives the board thickness in millimetres from a part
// name. It returns 0 when the name does not determine a thickness.
func ThicknessForPart(partName string) int {
	lower := strings.ToLower(strings.TrimSpace(partName))
	switch {
	case strings.Contains(lower, "hdf"):
		return 3
	case thickness16Re.MatchString(partName):
		return 16
	case thickness18Re.MatchString(partName):
		return 18
	case boardPrefixRe.MatchString(lower):
		return 18
	default:
		return 0
	}
}

// NormalizeWrapping maps the placeholder values used in part sheets to an
// empty wrapping code.
func NormalizeWrapping(w string) string {
	w = strings.TrimSpace(w)
	switch strings.ToLower(w) {
	case "", "0", "null":
		return ""
	}
	return w
}

// ApplyDefaults fills material and thickness from the part name when they
// are not set.
func (p *CabinetPart) ApplyDefaults() {
	p.PartName = strings.TrimSpace(p.PartName)
	p.Wrapping = NormalizeWrapping(p.Wrapping)
	if p.Material == "" {
		p.Material = MaterialForPart(p.PartName)
	}
	if p.ThicknessMM == 0 {
		p.ThicknessMM = ThicknessForPart(p.PartName)
	}
}

// Validate checks that the part has a name, a known material and
// non-negative dimensions.
func (p *CabinetPart) Validate() error {
	if p.PartName == "" {
		return ErrEmptyName
	}
	if !IsMaterial(p.Material) {
		return ErrInvalidMaterial
	}
	if p.HeightMM < 0 || p.WidthMM < 0 || p.Pieces < 0 {
		return ErrInvalidDimension
	}
	return nil
}
