package types

import "time"

// Cabinet is a cabinet instance placed in a project. A cabinet either
// references a catalog CabinetType or is custom, in which case TypeID is
// empty and its parts are kept as a snapshot.
type Cabinet struct {
	ID              string    `json:"id"`
	ProjectID       string    `json:"project_id"`
	TypeID          string    `json:"type_id,omitempty"`
	Name            string    `json:"name,omitempty"` // template name of a custom cabinet
	SequenceNumber  int       `json:"sequence_number"`
	BodyColor       string    `json:"body_color"`
	FrontColor      string    `json:"front_color"`
	HandleType      string    `json:"handle_type"`
	Quantity        int       `json:"quantity"`
	WidthMM         *float64  `json:"width_mm,omitempty"`
	HeightMM        *float64  `json:"height_mm,omitempty"`
	DepthMM         *float64  `json:"depth_mm,omitempty"`
	FormulaOffsetMM *float64  `json:"formula_offset_mm,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsCustom reports whether the cabinet has no catalog type.
func (c *Cabinet) IsCustom() bool {
	return c.TypeID == ""
}

// SetQuantity sets the number of identical cabinets.
// Returns ErrInvalidQuantity if n is below 1.
func (c *Cabinet) SetQuantity(n int) error {
	if n < 1 {
		return ErrInvalidQuantity
	}
	c.Quantity = n
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// Validate checks the cabinet invariants.
func (c *Cabinet) Validate() error {
	if c.ProjectID == "" {
		return ErrInvalidID
	}
	if c.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if c.SequenceNumber < 0 {
		return ErrInvalidSequence
	}
	for _, d := range []*float64{c.WidthMM, c.HeightMM, c.DepthMM} {
		if d != nil && *d <= 0 {
			return ErrInvalidDimension
		}
	}
	return nil
}

// CabinetPartSnapshot is a part stored with a custom cabinet. It has the
// same shape as a catalog part but belongs to the cabinet instance.
type CabinetPartSnapshot struct {
	ID          string `json:"id"`
	CabinetID   string `json:"cabinet_id"`
	PartName    string `json:"part_name"`
	HeightMM    int    `json:"height_mm"`
	WidthMM     int    `json:"width_mm"`
	Pieces      int    `json:"pieces"`
	Wrapping    string `json:"wrapping,omitempty"`
	Material    string `json:"material"`
	ThicknessMM int    `json:"thickness_mm,omitempty"`
	Comments    string `json:"comments,omitempty"`
}

// CabinetFilter selects cabinets in the project table.
const (
	CabinetFilterAll      = "all"
	CabinetFilterStandard = "standard"
	CabinetFilterCustom   = "custom"
)

// Float returns a pointer to v. It is a convenience for optional dimensions.
func Float(v float64) *float64 {
	return &v
}
