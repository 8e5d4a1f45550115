// Package report builds the cut list of a project and renders it as text,
// CSV, JSON, HTML or XML.
//
// A cut list has four sections. Formatki holds the body panels, Fronty the
// doors and drawer fronts, HDF the back panels and Akcesoria the hardware.
// Part quantities are multiplied by the cabinet quantity.
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/petar-djukic/cabplanner/internal/logging"
	"github.com/petar-djukic/cabplanner/pkg/types"
)

// Section titles.
const (
	SectionFormatki  = "FORMATKI"
	SectionFronty    = "FRONTY"
	SectionHDF       = "HDF"
	SectionAkcesoria = "AKCESORIA"
)

// Note labels.
const (
	NoteBlaty  = "Blaty"
	NoteCokoly = "Cokoły"
	NoteUwagi  = "Uwagi"
)

// Header is the project and client block printed above the sections.
type Header struct {
	ProjectName   string `json:"project_name"`
	OrderNumber   string `json:"order_number"`
	KitchenType   string `json:"kitchen_type"`
	ClientName    string `json:"client_name"`
	ClientAddress string `json:"client_address"`
	ClientPhone   string `json:"client_phone"`
	ClientEmail   string `json:"client_email"`
	Date          string `json:"date"`
}

// Row is one part line of a cut list section.
type Row struct {
	Cabinet  string `json:"cabinet"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	WidthMM  int    `json:"width_mm"`
	HeightMM int    `json:"height_mm"`
	Color    string `json:"color,omitempty"`
	Wrapping string `json:"wrapping,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// Dimensions returns the "W x H" text of the row.
func (r Row) Dimensions() string {
	return fmt.Sprintf("%d x %d", r.WidthMM, r.HeightMM)
}

// AccessoryRow is one hardware line of the cut list.
type AccessoryRow struct {
	Cabinet  string `json:"cabinet"`
	Name     string `json:"name"`
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes,omitempty"`
}

// Note is a labelled remark printed after the sections.
type Note struct {
	Label string `json:"label"`
	Text  string `json:"text,omitempty"`
}

// CutList is the complete report of one project.
type CutList struct {
	Header    Header         `json:"header"`
	Formatki  []Row          `json:"formatki"`
	Fronty    []Row          `json:"fronty"`
	HDF       []Row          `json:"hdf"`
	Akcesoria []AccessoryRow `json:"akcesoria"`
	Notes     []Note         `json:"notes,omitempty"`
}

// Empty reports whether the cut list has no part and no accessory.
func (cl *CutList) Empty() bool {
	return len(cl.Formatki)+len(cl.Fronty)+len(cl.HDF)+len(cl.Akcesoria) == 0
}

// CabinetEntry is one cabinet with everything the report needs about it.
type CabinetEntry struct {
	Cabinet     *types.Cabinet
	Label       string
	Parts       []types.PartPlan
	Accessories []*types.LinkedAccessory
}

// Input is the data a cut list is built from.
type Input struct {
	Project  *types.Project
	Cabinets []CabinetEntry
	Date     time.Time
}

// Build derives the cut list from in. Parts with FRONT material go to
// Fronty, HDF to HDF and everything else to Formatki.
func Build(in Input) *CutList {
	cl := &CutList{
		Formatki:  []Row{},
		Fronty:    []Row{},
		HDF:       []Row{},
		Akcesoria: []AccessoryRow{},
	}
	if in.Project != nil {
		cl.Header = newHeader(in.Project, in.Date)
		cl.Notes = notes(in.Project)
	}

	for _, e := range in.Cabinets {
		qty := e.Cabinet.Quantity
		if qty < 1 {
			qty = 1
		}
		for _, p := range e.Parts {
			pieces := p.Pieces
			if pieces < 1 {
				pieces = 1
			}
			row := Row{
				Cabinet:  e.Label,
				Name:     p.PartName,
				Quantity: pieces * qty,
				WidthMM:  p.WidthMM,
				HeightMM: p.HeightMM,
				Wrapping: p.Wrapping,
				Notes:    p.Comments,
			}
			switch p.Material {
			case types.MaterialFront:
				row.Color = e.Cabinet.FrontColor
				if e.Cabinet.HandleType != "" {
					row.Notes = joinNotes("Handle: "+e.Cabinet.HandleType, p.Comments)
				}
				cl.Fronty = append(cl.Fronty, row)
			case types.MaterialHDF:
				cl.HDF = append(cl.HDF, row)
			default:
				row.Color = e.Cabinet.BodyColor
				cl.Formatki = append(cl.Formatki, row)
			}
		}
		for _, a := range e.Accessories {
			cl.Akcesoria = append(cl.Akcesoria, AccessoryRow{
				Cabinet:  e.Label,
				Name:     a.Name,
				SKU:      a.SKU,
				Quantity: a.Count * qty,
			})
		}
	}
	return cl
}

func newHeader(p *types.Project, date time.Time) Header {
	if date.IsZero() {
		date = time.Now()
	}
	return Header{
		ProjectName:   p.Name,
		OrderNumber:   p.OrderNumber,
		KitchenType:   p.KitchenType,
		ClientName:    p.ClientName,
		ClientAddress: p.ClientAddress,
		ClientPhone:   p.ClientPhone,
		ClientEmail:   p.ClientEmail,
		Date:          date.Format(time.DateOnly),
	}
}

// notes emits one note per project flag. The free-text flag notes are
// attached to Uwagi.
func notes(p *types.Project) []Note {
	var out []Note
	if p.Blaty {
		out = append(out, Note{Label: NoteBlaty})
	}
	if p.Cokoly {
		out = append(out, Note{Label: NoteCokoly})
	}
	text := strings.TrimSpace(p.FlagNotes)
	if p.Uwagi || text != "" {
		out = append(out, Note{Label: NoteUwagi, Text: text})
	}
	return out
}

func joinNotes(parts ...string) string {
	var keep []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			keep = append(keep, p)
		}
	}
	return strings.Join(keep, "; ")
}

// Label returns the display label of a cabinet: its sequence number and
// catalog or custom name.
func Label(c *types.Cabinet, typeName string) string {
	name := typeName
	if c.IsCustom() || name == "" {
		name = c.Name
	}
	return fmt.Sprintf("#%d %s", c.SequenceNumber, name)
}

// Source provides the project data a report is collected from.
type Source interface {
	GetProject(ctx context.Context, id string) (*types.Project, error)
	ListCabinets(ctx context.Context, projectID string) ([]*types.Cabinet, error)
	TypeNames(ctx context.Context, cabinets []*types.Cabinet) (map[string]string, error)
	CabinetParts(ctx context.Context, c *types.Cabinet) ([]types.PartPlan, error)
	CabinetAccessories(ctx context.Context, cabinetID string) ([]*types.LinkedAccessory, error)
}

// Generator collects project data, builds the cut list and writes it.
type Generator struct {
	src  Source
	log  logging.Logger
	logo []byte
	now  func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogo embeds the company logo in HTML reports.
func WithLogo(data []byte) Option {
	return func(g *Generator) { g.logo = data }
}

// WithLogger sets the generator logger.
func WithLogger(l logging.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// WithClock sets the clock used for the report date.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// NewGenerator returns a generator reading from src.
func NewGenerator(src Source, opts ...Option) *Generator {
	g := &Generator{src: src, log: logging.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Collect loads the project with its cabinets in sequence order.
func (g *Generator) Collect(ctx context.Context, projectID string) (Input, error) {
	p, err := g.src.GetProject(ctx, projectID)
	if err != nil {
		return Input{}, err
	}
	cabinets, err := g.src.ListCabinets(ctx, projectID)
	if err != nil {
		return Input{}, err
	}
	names, err := g.src.TypeNames(ctx, cabinets)
	if err != nil {
		return Input{}, err
	}
	in := Input{Project: p, Date: g.now()}
	for _, c := range cabinets {
		parts, err := g.src.CabinetParts(ctx, c)
		if err != nil {
			return Input{}, fmt.Errorf("parts of cabinet %s: %w", c.ID, err)
		}
		acc, err := g.src.CabinetAccessories(ctx, c.ID)
		if err != nil {
			return Input{}, fmt.Errorf("accessories of cabinet %s: %w", c.ID, err)
		}
		in.Cabinets = append(in.Cabinets, CabinetEntry{
			Cabinet:     c,
			Label:       Label(c, names[c.TypeID]),
			Parts:       parts,
			Accessories: acc,
		})
	}
	return in, nil
}

// CutList collects and builds the cut list of a project.
func (g *Generator) CutList(ctx context.Context, projectID string) (*CutList, error) {
	in, err := g.Collect(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return Build(in), nil
}

// Renderer returns the renderer of format with the generator's logo.
func (g *Generator) Renderer(format string) (Renderer, error) {
	return RendererFor(format, g.logo)
}

// Generate writes the report of a project in format into dir and returns
// the file path.
func (g *Generator) Generate(ctx context.Context, projectID, format, dir string) (string, error) {
	r, err := g.Renderer(format)
	if err != nil {
		return "", err
	}
	cl, err := g.CutList(ctx, projectID)
	if err != nil {
		return "", err
	}
	path, err := WriteFile(dir, cl, r)
	if err != nil {
		return "", err
	}
	g.log.Info(ctx, "report written", "project", projectID, "format", format, "path", path)
	return path, nil
}

// FileName returns projekt_<order number>.<ext>. Path separators in the
// order number are replaced.
func FileName(orderNumber, ext string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", string(os.PathSeparator), "_").Replace(strings.TrimSpace(orderNumber))
	return fmt.Sprintf("projekt_%s.%s", safe, ext)
}

// WriteFile renders cl into dir, creating dir when needed.
func WriteFile(dir string, cl *CutList, r Renderer) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating report dir: %w", err)
	}
	path := filepath.Join(dir, FileName(cl.Header.OrderNumber, r.Extension()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating report: %w", err)
	}
	if err := r.Render(f, cl); err != nil {
		f.Close()
		return "", fmt.Errorf("rendering report: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing report: %w", err)
	}
	return path, nil
}
