package types

import "errors"

// Store lifecycle errors.
var (
	ErrDetached        = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Entity errors.
var (
	ErrNotFound          = errors.New("entity not found")
	ErrInvalidID         = errors.New("invalid entity ID")
	ErrEmptyName         = errors.New("name must not be empty")
	ErrEmptyOrderNumber  = errors.New("order number must not be empty")
	ErrDuplicateName     = errors.New("name already exists")
	ErrTypeInUse         = errors.New("cabinet type is used by project cabinets")
	ErrInvalidKitchen    = errors.New("unknown kitchen type")
	ErrInvalidStatus     = errors.New("invalid project status")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrInvalidDimension  = errors.New("dimension must be positive")
	ErrDuplicateSequence = errors.New("sequence number already in use")
	ErrInvalidSequence   = errors.New("sequence number must be positive")
	ErrInvalidMove       = errors.New("invalid move")
	ErrInvalidMaterial   = errors.New("unknown material")
	ErrInvalidValueType  = errors.New("invalid setting value type")
	ErrInvalidViewMode   = errors.New("view mode must be cards or table")
	ErrInvalidTab        = errors.New("tab index must not be negative")
)

// Formula errors.
var (
	ErrUnknownCabinetKind = errors.New("unknown cabinet type")
	ErrPartTooSmall       = errors.New("part below minimum cut size")
	ErrScript             = errors.New("formula script failed")
)

// Color errors.
var (
	ErrInvalidHex   = errors.New("invalid hex color")
	ErrColorExists  = errors.New("color already exists")
	ErrUnknownColor = errors.New("unknown color")
)

// Report errors.
var (
	ErrUnknownFormat = errors.New("unknown report format")
	ErrInvalidLogo   = errors.New("logo is not an image")
)
