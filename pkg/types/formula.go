package types

// FormulaConstant is a named numeric parameter used to derive part
// dimensions.
type FormulaConstant struct {
	Key         string  `json:"key"`
	Value       float64 `json:"value"`
	Type        string  `json:"type"`
	Group       string  `json:"group,omitempty"`
	Description string  `json:"description,omitempty"`
}

// DefaultConstantType is the type assigned when none is given.
const DefaultConstantType = "float"

// PartPlan is a computed cut part before it is stored or reported.
type PartPlan struct {
	PartName    string `json:"part_name"`
	HeightMM    int    `json:"height_mm"`
	WidthMM     int    `json:"width_mm"`
	Pieces      int    `json:"pieces"`
	Material    string `json:"material"`
	ThicknessMM int    `json:"thickness_mm,omitempty"`
	Wrapping    string `json:"wrapping,omitempty"`
	Comments    string `json:"comments,omitempty"`
}

// Snapshot converts the plan into a part stored with a custom cabinet.
func (p PartPlan) Snapshot(cabinetID string) CabinetPartSnapshot {
	return CabinetPartSnapshot{
		CabinetID:   cabinetID,
		PartName:    p.PartName,
		HeightMM:    p.HeightMM,
		WidthMM:     p.WidthMM,
		Pieces:      p.Pieces,
		Wrapping:    p.Wrapping,
		Material:    p.Material,
		ThicknessMM: p.ThicknessMM,
		Comments:    p.Comments,
	}
}
