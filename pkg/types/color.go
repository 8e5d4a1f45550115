package types

import "time"

// Color sources.
const (
	ColorSourceSystem = "system"
	ColorSourceUser   = "user"
)

// Color is an entry of the cabinet color dictionary.
type Color struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	NormalizedName string     `json:"normalized_name"`
	HexCode        string     `json:"hex_code"`
	Source         string     `json:"source"`
	UsageCount     int        `json:"usage_count"`
	LastUsedAt     *time.Time `json:"last_used_at,omitempty"`
	IsActive       bool       `json:"is_active"`
}
