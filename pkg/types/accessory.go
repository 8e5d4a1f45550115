package types

import "time"

// Accessory is hardware attached to cabinets, such as hinges or runners.
type Accessory struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SKU       string    `json:"sku"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CabinetAccessory links an accessory to a cabinet with a per-cabinet count.
type CabinetAccessory struct {
	CabinetID   string `json:"cabinet_id"`
	AccessoryID string `json:"accessory_id"`
	Count       int    `json:"count"`
}

// LinkedAccessory is an accessory together with its count on one cabinet.
type LinkedAccessory struct {
	Accessory
	Count int `json:"count"`
}
