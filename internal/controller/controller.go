// Package controller runs project operations for a user interface and
// reports every outcome as a localized notice. Failures are logged before
// the notice is returned; nothing is retried.
package controller

import (
	"context"
	"errors"

	"github.com/petar-djukic/cabplanner/internal/logging"
	"github.com/petar-djukic/cabplanner/internal/notice"
	"github.com/petar-djukic/cabplanner/internal/project"
	"github.com/petar-djukic/cabplanner/internal/report"
	"github.com/petar-djukic/cabplanner/pkg/types"
)

// Controller wraps the project service and the report generator.
type Controller struct {
	svc     *project.Service
	reports *report.Generator
	tr      *notice.Translator
	log     logging.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithReports enables ExportReport.
func WithReports(g *report.Generator) Option {
	return func(c *Controller) { c.reports = g }
}

// WithLogger sets the logger failures are written to.
func WithLogger(l logging.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// New returns a controller over svc with notices in the language of tr.
// A nil tr uses Polish.
func New(svc *project.Service, tr *notice.Translator, opts ...Option) *Controller {
	if tr == nil {
		tr = notice.NewTranslator("")
	}
	c := &Controller{svc: svc, tr: tr, log: logging.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// View is the data of the project details view.
type View struct {
	Project   *types.Project
	Cabinets  []*types.Cabinet
	TypeNames map[string]string
}

// LoadProject returns the project with its cabinets in sequence order. The
// notice is empty on success.
func (c *Controller) LoadProject(ctx context.Context, projectID string) (*View, notice.Notice) {
	p, err := c.svc.GetProject(ctx, projectID)
	if err != nil {
		return nil, c.fail(ctx, "load project", err, c.tr.Error(err, notice.ProjectLoadError, err))
	}
	list, err := c.svc.ListCabinets(ctx, projectID)
	if err != nil {
		return nil, c.fail(ctx, "load project", err, c.tr.Error(err, notice.ProjectLoadError, err))
	}
	names, err := c.svc.TypeNames(ctx, list)
	if err != nil {
		return nil, c.fail(ctx, "load project", err, c.tr.Error(err, notice.ProjectLoadError, err))
	}
	return &View{Project: p, Cabinets: list, TypeNames: names}, notice.Notice{}
}

// SaveClient replaces the client data of a project.
func (c *Controller) SaveClient(ctx context.Context, projectID string, client types.Client) (*types.Project, notice.Notice) {
	p, err := c.svc.UpdateClient(ctx, projectID, client)
	switch {
	case errors.Is(err, types.ErrNotFound):
		return nil, c.fail(ctx, "save client", err, c.tr.Error(err, notice.ClientSaveFailed))
	case err != nil:
		return nil, c.fail(ctx, "save client", err, c.tr.Error(err, notice.ClientSaveError, err))
	}
	return p, c.tr.Success(notice.ClientSaved)
}

// AddCatalogCabinet places a catalog cabinet at the end of the project.
func (c *Controller) AddCatalogCabinet(ctx context.Context, projectID, typeID string, f project.Finish) (*types.Cabinet, notice.Notice) {
	cab, err := c.svc.AddCatalogCabinet(ctx, projectID, typeID, f)
	if err != nil {
		return nil, c.fail(ctx, "add catalog cabinet", err, c.userError(err, notice.CabinetAddError))
	}
	return cab, c.tr.Success(notice.CatalogCabinetAdded)
}

// AddCustomCabinet places a custom cabinet at the end of the project.
func (c *Controller) AddCustomCabinet(ctx context.Context, projectID string, cc project.CustomCabinet) (*types.Cabinet, []types.PartPlan, notice.Notice) {
	cab, parts, err := c.svc.AddCustomCabinet(ctx, projectID, cc)
	if err != nil {
		return nil, nil, c.fail(ctx, "add custom cabinet", err, c.userError(err, notice.CabinetAddError))
	}
	return cab, parts, c.tr.Success(notice.CustomCabinetAdded)
}

// UpdateCabinet writes the fields of a cabinet.
func (c *Controller) UpdateCabinet(ctx context.Context, cab *types.Cabinet) notice.Notice {
	err := c.svc.UpdateCabinet(ctx, cab)
	switch {
	case errors.Is(err, types.ErrNotFound):
		return c.fail(ctx, "update cabinet", err, c.tr.Error(err, notice.CabinetNotFound))
	case err != nil:
		return c.fail(ctx, "update cabinet", err, c.userError(err, notice.CabinetEditError))
	}
	return c.tr.Success(notice.CabinetUpdated)
}

// SetQuantity changes the quantity of a cabinet. A quantity below 1 is
// rejected with a warning.
func (c *Controller) SetQuantity(ctx context.Context, cabinetID string, n int) (*types.Cabinet, notice.Notice) {
	cab, err := c.svc.SetQuantity(ctx, cabinetID, n)
	switch {
	case errors.Is(err, types.ErrInvalidQuantity):
		return nil, c.fail(ctx, "set quantity", err, c.tr.Warning(err, notice.InvalidQuantityValue))
	case errors.Is(err, types.ErrNotFound):
		return nil, c.fail(ctx, "set quantity", err, c.tr.Error(err, notice.QuantityFailed))
	case err != nil:
		return nil, c.fail(ctx, "set quantity", err, c.tr.Error(err, notice.QuantityError, err))
	}
	return cab, c.tr.Success(notice.QuantityUpdated, n)
}

// SetSequence gives a cabinet a new sequence number. A number held by
// another cabinet is rejected with a warning and nothing changes.
func (c *Controller) SetSequence(ctx context.Context, cabinetID string, seq int) (*types.Cabinet, notice.Notice) {
	cab, changed, err := c.svc.SetSequence(ctx, cabinetID, seq)
	switch {
	case errors.Is(err, types.ErrDuplicateSequence):
		return nil, c.fail(ctx, "set sequence", err, c.tr.Warning(err, notice.SequenceDuplicate, seq))
	case errors.Is(err, types.ErrInvalidSequence):
		return nil, c.fail(ctx, "set sequence", err, c.tr.Warning(err, notice.SequenceFailed))
	case errors.Is(err, types.ErrNotFound):
		return nil, c.fail(ctx, "set sequence", err, c.tr.Error(err, notice.SequenceNotFound))
	case err != nil:
		return nil, c.fail(ctx, "set sequence", err, c.tr.Error(err, notice.SequenceError, err))
	}
	if !changed {
		return cab, c.tr.Info(notice.SequenceUnchanged)
	}
	return cab, c.tr.Success(notice.SequenceUpdated, seq)
}

// Move moves count cabinets from row src to before row dst and renumbers
// the project.
func (c *Controller) Move(ctx context.Context, projectID string, src, count, dst int) ([]*types.Cabinet, notice.Notice) {
	list, err := c.svc.Move(ctx, projectID, src, count, dst)
	switch {
	case errors.Is(err, types.ErrInvalidMove):
		return nil, c.fail(ctx, "move cabinets", err, c.tr.Warning(err, notice.OrderError, err))
	case err != nil:
		return nil, c.fail(ctx, "move cabinets", err, c.tr.Error(err, notice.OrderError, err))
	}
	return list, c.tr.Success(notice.OrderUpdated)
}

// SortAndRenumber makes the sequence numbers of a project dense.
func (c *Controller) SortAndRenumber(ctx context.Context, projectID string) ([]*types.Cabinet, notice.Notice) {
	list, err := c.svc.SortAndRenumber(ctx, projectID)
	if err != nil {
		return nil, c.fail(ctx, "sort cabinets", err, c.tr.Error(err, notice.SortError, err))
	}
	return list, c.tr.Success(notice.OrderUpdated)
}

// Duplicate copies a cabinet to the end of the project.
func (c *Controller) Duplicate(ctx context.Context, cabinetID string) (*types.Cabinet, notice.Notice) {
	cab, err := c.svc.DuplicateCabinet(ctx, cabinetID)
	switch {
	case errors.Is(err, types.ErrNotFound):
		return nil, c.fail(ctx, "duplicate cabinet", err, c.tr.Error(err, notice.DuplicateNotFound))
	case err != nil:
		return nil, c.fail(ctx, "duplicate cabinet", err, c.tr.Error(err, notice.CabinetDuplicateErr, err))
	}
	return cab, c.tr.Success(notice.CabinetDuplicated)
}

// Delete removes a cabinet.
func (c *Controller) Delete(ctx context.Context, cabinetID string) notice.Notice {
	err := c.svc.DeleteCabinet(ctx, cabinetID)
	switch {
	case errors.Is(err, types.ErrNotFound):
		return c.fail(ctx, "delete cabinet", err, c.tr.Error(err, notice.CabinetDeleteFailed))
	case err != nil:
		return c.fail(ctx, "delete cabinet", err, c.tr.Error(err, notice.CabinetDeleteError, err))
	}
	return c.tr.Success(notice.CabinetDeleted)
}

// LinkAccessory attaches count pieces of an accessory to a cabinet.
func (c *Controller) LinkAccessory(ctx context.Context, cabinetID, name, sku string, count int) (*types.Accessory, notice.Notice) {
	a, err := c.svc.LinkAccessory(ctx, cabinetID, name, sku, count)
	if err != nil {
		return nil, c.fail(ctx, "link accessory", err, c.userError(err, notice.AccessoryError))
	}
	return a, c.tr.Success(notice.AccessoryLinked)
}

// UnlinkAccessory detaches an accessory from a cabinet.
func (c *Controller) UnlinkAccessory(ctx context.Context, cabinetID, accessoryID string) notice.Notice {
	if err := c.svc.UnlinkAccessory(ctx, cabinetID, accessoryID); err != nil {
		return c.fail(ctx, "unlink accessory", err, c.userError(err, notice.AccessoryError))
	}
	return c.tr.Success(notice.AccessoryUnlinked)
}

// ExportReport writes the project report in format into dir.
func (c *Controller) ExportReport(ctx context.Context, projectID, format, dir string) (string, notice.Notice) {
	if c.reports == nil {
		err := errors.New("report generator not configured")
		return "", c.fail(ctx, "export report", err, c.tr.Error(err, notice.ReportFailed))
	}
	path, err := c.reports.Generate(ctx, projectID, format, dir)
	if err != nil {
		return "", c.fail(ctx, "export report", err, c.userError(err, notice.ReportError))
	}
	return path, c.tr.Success(notice.ReportGenerated, path)
}

// userError returns a warning for input errors the user can correct and a
// sticky error for everything else.
func (c *Controller) userError(err error, key string) notice.Notice {
	if IsUserError(err) {
		return c.tr.Warning(err, key, err)
	}
	return c.tr.Error(err, key, err)
}

// fail logs err and returns n.
func (c *Controller) fail(ctx context.Context, op string, err error, n notice.Notice) notice.Notice {
	if n.Level == notice.LevelWarning {
		c.log.Warn(ctx, op+" rejected", "error", err)
	} else {
		c.log.Error(ctx, op+" failed", "error", err)
	}
	return n
}

// userErrors are the errors caused by input the user can correct.
var userErrors = []error{
	types.ErrNotFound,
	types.ErrInvalidID,
	types.ErrEmptyName,
	types.ErrEmptyOrderNumber,
	types.ErrDuplicateName,
	types.ErrTypeInUse,
	types.ErrInvalidTab,
	types.ErrInvalidKitchen,
	types.ErrInvalidStatus,
	types.ErrInvalidQuantity,
	types.ErrInvalidDimension,
	types.ErrDuplicateSequence,
	types.ErrInvalidSequence,
	types.ErrInvalidMove,
	types.ErrInvalidMaterial,
	types.ErrInvalidValueType,
	types.ErrInvalidViewMode,
	types.ErrUnknownCabinetKind,
	types.ErrPartTooSmall,
	types.ErrScript,
	types.ErrInvalidHex,
	types.ErrColorExists,
	types.ErrUnknownColor,
	types.ErrUnknownFormat,
	types.ErrInvalidLogo,
}

// IsUserError reports whether err was caused by input the user can
// correct, as opposed to a storage or system failure.
func IsUserError(err error) bool {
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
