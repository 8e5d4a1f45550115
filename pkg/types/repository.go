package types

import "context"

// Lifecycle defines how callers connect storage to a backend.
// Callers attach with a Config, use the repositories and detach when done.
type Lifecycle interface {
	// Attach connects to the backend described by config, applies
	// migrations and seeds reference data. Returns ErrAlreadyAttached if
	// called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Multiple calls succeed.
	// After Detach, repository operations return ErrDetached.
	Detach() error
}

// ProjectRepository persists projects.
type ProjectRepository interface {
	CreateProject(ctx context.Context, p *Project) error
	// GetProject returns ErrNotFound if no project has the given ID.
	GetProject(ctx context.Context, id string) (*Project, error)
	// ListProjects returns projects ordered by creation time, newest first.
	ListProjects(ctx context.Context) ([]*Project, error)
	UpdateProject(ctx context.Context, p *Project) error
	// DeleteProject removes the project together with its cabinets.
	DeleteProject(ctx context.Context, id string) error
}

// CabinetTypeRepository persists catalog cabinet types and their parts.
type CabinetTypeRepository interface {
	// CreateCabinetType assigns the ID and catalog ordinal. Returns
	// ErrDuplicateName if the name is taken.
	CreateCabinetType(ctx context.Context, ct *CabinetType) error
	// CreateCabinetTypeWithParts stores the type and its parts atomically.
	CreateCabinetTypeWithParts(ctx context.Context, ct *CabinetType, parts []*CabinetPart) error
	GetCabinetType(ctx context.Context, id string) (*CabinetType, error)
	GetCabinetTypeByName(ctx context.Context, name string) (*CabinetType, error)
	// ListCabinetTypes returns all types, or only those of kitchenType when
	// it is not empty.
	ListCabinetTypes(ctx context.Context, kitchenType string) ([]*CabinetType, error)
	UpdateCabinetType(ctx context.Context, ct *CabinetType) error
	// DeleteCabinetType returns ErrTypeInUse while cabinets reference the type.
	DeleteCabinetType(ctx context.Context, id string) error

	AddPart(ctx context.Context, part *CabinetPart) error
	ListParts(ctx context.Context, typeID string) ([]*CabinetPart, error)
	DeletePart(ctx context.Context, id string) error
}

// CabinetRepository persists cabinets placed in projects, including the
// part snapshots of custom cabinets.
type CabinetRepository interface {
	// CreateCabinet stores the cabinet and its snapshot parts in one
	// transaction. Parts may be empty for catalog cabinets.
	CreateCabinet(ctx context.Context, c *Cabinet, parts []CabinetPartSnapshot) error
	GetCabinet(ctx context.Context, id string) (*Cabinet, error)
	// ListCabinets returns the cabinets of a project ordered by sequence.
	ListCabinets(ctx context.Context, projectID string) ([]*Cabinet, error)
	UpdateCabinet(ctx context.Context, c *Cabinet) error
	DeleteCabinet(ctx context.Context, id string) error
	// MaxSequence returns the highest sequence number in the project, or 0.
	MaxSequence(ctx context.Context, projectID string) (int, error)
	// UpdateSequences writes the sequence numbers of the given cabinets in
	// one transaction.
	UpdateSequences(ctx context.Context, cabinets []*Cabinet) error

	ReplaceSnapshots(ctx context.Context, cabinetID string, parts []CabinetPartSnapshot) error
	ListSnapshots(ctx context.Context, cabinetID string) ([]*CabinetPartSnapshot, error)
}

// AccessoryRepository persists accessories and their links to cabinets.
type AccessoryRepository interface {
	CreateAccessory(ctx context.Context, a *Accessory) error
	GetAccessory(ctx context.Context, id string) (*Accessory, error)
	FindAccessoryBySKU(ctx context.Context, sku string) (*Accessory, error)
	// GetOrCreateAccessory returns the accessory with the given SKU,
	// creating it when missing.
	GetOrCreateAccessory(ctx context.Context, name, sku string) (*Accessory, error)
	ListAccessories(ctx context.Context) ([]*Accessory, error)
	UpdateAccessory(ctx context.Context, a *Accessory) error
	DeleteAccessory(ctx context.Context, id string) error

	// LinkAccessory sets the count of an accessory on a cabinet.
	LinkAccessory(ctx context.Context, cabinetID, accessoryID string, count int) error
	UnlinkAccessory(ctx context.Context, cabinetID, accessoryID string) error
	ListCabinetAccessories(ctx context.Context, cabinetID string) ([]*LinkedAccessory, error)
}

// ConstantRepository persists formula constants.
type ConstantRepository interface {
	// ListConstants returns all constants, or one group when group is not empty.
	ListConstants(ctx context.Context, group string) ([]*FormulaConstant, error)
	GetConstant(ctx context.Context, key string) (*FormulaConstant, error)
	// SetConstant inserts or updates the constant by key.
	SetConstant(ctx context.Context, c *FormulaConstant) error
}

// SettingRepository persists typed application settings.
type SettingRepository interface {
	GetSetting(ctx context.Context, key string) (*Setting, error)
	SetSetting(ctx context.Context, s *Setting) error
	DeleteSetting(ctx context.Context, key string) error
	ListSettings(ctx context.Context) ([]*Setting, error)
}

// ColorRepository persists the color dictionary.
type ColorRepository interface {
	ListSystemColorNames(ctx context.Context) ([]string, error)
	InsertColor(ctx context.Context, c *Color) error
	FindColorByNormalized(ctx context.Context, normalized string) (*Color, error)
	UpdateColor(ctx context.Context, c *Color) error
	// ListRecentColors returns used colors ordered by last use, then usage
	// count, then name.
	ListRecentColors(ctx context.Context, limit int) ([]*Color, error)
	ListActiveColors(ctx context.Context) ([]*Color, error)
}
