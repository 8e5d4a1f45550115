package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/petar-djukic/cabplanner/pkg/types"
)

// Report formats.
const (
	FormatText = "text"
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatHTML = "html"
	FormatXML  = "xml"
)

// Formats returns the supported report formats.
func Formats() []string {
	return []string{FormatText, FormatCSV, FormatJSON, FormatHTML, FormatXML}
}

// Text printed by every format.
const (
	EmptySection = "Brak pozycji."
	Footer       = "Wygenerowano przez Cabplanner"
)

// Renderer writes a cut list in one format.
type Renderer interface {
	Extension() string
	Render(w io.Writer, cl *CutList) error
}

// RendererFor returns the renderer of format. The logo is used by the
// HTML renderer only.
func RendererFor(format string, logo []byte) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatText, "txt", "":
		return TextRenderer{}, nil
	case FormatCSV:
		return CSVRenderer{}, nil
	case FormatJSON:
		return JSONRenderer{}, nil
	case FormatHTML:
		return HTMLRenderer{Logo: logo}, nil
	case FormatXML:
		return XMLRenderer{}, nil
	}
	return nil, fmt.Errorf("%w: %s", types.ErrUnknownFormat, format)
}

var (
	partColumns      = []string{"Szafka", "Nazwa", "Ilość", "Wymiary (mm)", "Kolor/Materiał", "Okleina", "Uwagi"}
	accessoryColumns = []string{"Szafka", "Nazwa akcesorium", "SKU/Kod", "Ilość", "Uwagi"}
)

func partCells(r Row) []string {
	return []string{r.Cabinet, r.Name, strconv.Itoa(r.Quantity), r.Dimensions(), r.Color, r.Wrapping, r.Notes}
}

func accessoryCells(a AccessoryRow) []string {
	return []string{a.Cabinet, a.Name, a.SKU, strconv.Itoa(a.Quantity), a.Notes}
}

func headerLines(h Header) [][2]string {
	return [][2]string{
		{"Client Name", h.ClientName},
		{"Client Address", h.ClientAddress},
		{"Client Phone", h.ClientPhone},
		{"Client Email", h.ClientEmail},
		{"Order Number", h.OrderNumber},
		{"Kitchen Type", h.KitchenType},
		{"Report Date", h.Date},
	}
}

func noteText(n Note) string {
	if n.Text == "" {
		return n.Label
	}
	return n.Label + ": " + n.Text
}

// TextRenderer writes a plain text report with aligned columns.
type TextRenderer struct{}

// Extension implements Renderer.
func (TextRenderer) Extension() string { return "txt" }

// Render implements Renderer.
func (TextRenderer) Render(w io.Writer, cl *CutList) error {
	var b strings.Builder
	for _, l := range headerLines(cl.Header) {
		fmt.Fprintf(&b, "%s: %s\n", l[0], l[1])
	}

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	parts := []struct {
		title string
		rows  []Row
	}{
		{SectionFormatki, cl.Formatki},
		{SectionFronty, cl.Fronty},
		{SectionHDF, cl.HDF},
	}
	for _, s := range parts {
		fmt.Fprintf(tw, "\n%s\n", s.title)
		if len(s.rows) == 0 {
			fmt.Fprintln(tw, EmptySection)
			continue
		}
		fmt.Fprintln(tw, strings.Join(partColumns, "\t"))
		for _, r := range s.rows {
			fmt.Fprintln(tw, strings.Join(partCells(r), "\t"))
		}
	}
	fmt.Fprintf(tw, "\n%s\n", SectionAkcesoria)
	if len(cl.Akcesoria) == 0 {
		fmt.Fprintln(tw, EmptySection)
	} else {
		fmt.Fprintln(tw, strings.Join(accessoryColumns, "\t"))
		for _, a := range cl.Akcesoria {
			fmt.Fprintln(tw, strings.Join(accessoryCells(a), "\t"))
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(cl.Notes) > 0 {
		b.WriteString("\n")
		for _, n := range cl.Notes {
			b.WriteString(noteText(n) + "\n")
		}
	}
	b.WriteString("\n" + Footer + "\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// CSVRenderer writes one record per part or accessory with the section in
// the first column.
type CSVRenderer struct{}

// CSVColumns is the header record of the CSV report.
var CSVColumns = []string{"section", "cabinet", "name", "sku", "quantity", "width_mm", "height_mm", "color", "wrapping", "notes"}

// Extension implements Renderer.
func (CSVRenderer) Extension() string { return "csv" }

// Render implements Renderer.
func (CSVRenderer) Render(w io.Writer, cl *CutList) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVColumns); err != nil {
		return err
	}
	for _, s := range []struct {
		title string
		rows  []Row
	}{
		{SectionFormatki, cl.Formatki},
		{SectionFronty, cl.Fronty},
		{SectionHDF, cl.HDF},
	} {
		for _, r := range s.rows {
			rec := []string{
				s.title, r.Cabinet, r.Name, "", strconv.Itoa(r.Quantity),
				strconv.Itoa(r.WidthMM), strconv.Itoa(r.HeightMM), r.Color, r.Wrapping, r.Notes,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	for _, a := range cl.Akcesoria {
		rec := []string{SectionAkcesoria, a.Cabinet, a.Name, a.SKU, strconv.Itoa(a.Quantity), "", "", "", "", a.Notes}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// JSONRenderer writes the cut list as indented JSON.
type JSONRenderer struct{}

// Extension implements Renderer.
func (JSONRenderer) Extension() string { return "json" }

// Render implements Renderer.
func (JSONRenderer) Render(w io.Writer, cl *CutList) error {
	data, err := json.MarshalIndent(cl, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
