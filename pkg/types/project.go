package types

import (
	"strings"
	"time"
)

// Kitchen types offered by the catalog.
const (
	KitchenLoft  = "LOFT"
	KitchenParis = "PARIS"
	KitchenWino  = "WINO"
)

// KitchenTypes returns the kitchen types in display order.
func KitchenTypes() []string {
	return []string{KitchenLoft, KitchenParis, KitchenWino}
}

// IsKitchenType reports whether k names a known kitchen type.
// Comparison ignores case and surrounding whitespace.
func IsKitchenType(k string) bool {
	k = strings.ToUpper(strings.TrimSpace(k))
	for _, known := range KitchenTypes() {
		if k == known {
			return true
		}
	}
	return false
}

// Project states. A project moves through these while the order is prepared.
const (
	ProjectStatusDraft      = "draft"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusOrdered    = "ordered"
	ProjectStatusCompleted  = "completed"
	ProjectStatusArchived   = "archived"
)

// validProjectStatuses is the set of recognized project status values.
var validProjectStatuses = map[string]bool{
	ProjectStatusDraft:      true,
	ProjectStatusInProgress: true,
	ProjectStatusOrdered:    true,
	ProjectStatusCompleted:  true,
	ProjectStatusArchived:   true,
}

// Project is a kitchen order with its client data.
type Project struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	KitchenType   string    `json:"kitchen_type"`
	OrderNumber   string    `json:"order_number"`
	Status        string    `json:"status"`
	ClientName    string    `json:"client_name,omitempty"`
	ClientAddress string    `json:"client_address,omitempty"`
	ClientPhone   string    `json:"client_phone,omitempty"`
	ClientEmail   string    `json:"client_email,omitempty"`
	Blaty         bool      `json:"blaty"`  // countertops requested
	Cokoly        bool      `json:"cokoly"` // plinths requested
	Uwagi         bool      `json:"uwagi"`  // extra notes attached
	FlagNotes     string    `json:"flag_notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Client groups the contact fields of a project.
type Client struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// Client returns the contact fields of the project.
func (p *Project) Client() Client {
	return Client{
		Name:    p.ClientName,
		Address: p.ClientAddress,
		Phone:   p.ClientPhone,
		Email:   p.ClientEmail,
	}
}

// SetClient replaces the contact fields of the project.
func (p *Project) SetClient(c Client) {
	p.ClientName = strings.TrimSpace(c.Name)
	p.ClientAddress = strings.TrimSpace(c.Address)
	p.ClientPhone = strings.TrimSpace(c.Phone)
	p.ClientEmail = strings.TrimSpace(c.Email)
	p.UpdatedAt = time.Now().UTC()
}

// SetStatus sets the project status to the given value.
// Returns ErrInvalidStatus if the status is not recognized.
// Setting the current status succeeds without error.
func (p *Project) SetStatus(status string) error {
	if !validProjectStatuses[status] {
		return ErrInvalidStatus
	}
	p.Status = status
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// Validate checks the required project fields.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if !IsKitchenType(p.KitchenType) {
		return ErrInvalidKitchen
	}
	if strings.TrimSpace(p.OrderNumber) == "" {
		return ErrEmptyOrderNumber
	}
	if p.Status != "" && !validProjectStatuses[p.Status] {
		return ErrInvalidStatus
	}
	return nil
}
