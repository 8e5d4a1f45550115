package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// XMLRenderer writes the cut list as an indented XML document.
type XMLRenderer struct{}

// Extension implements Renderer.
func (XMLRenderer) Extension() string { return "xml" }

// Render implements Renderer.
func (XMLRenderer) Render(w io.Writer, cl *CutList) error {
	_, err := Document(cl).WriteTo(w)
	return err
}

// Document builds the XML document of a cut list.
func Document(cl *CutList) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("cutlist")
	root.CreateAttr("order", cl.Header.OrderNumber)

	h := root.CreateElement("header")
	for _, kv := range [][2]string{
		{"project", cl.Header.ProjectName},
		{"kitchen", cl.Header.KitchenType},
		{"client", cl.Header.ClientName},
		{"address", cl.Header.ClientAddress},
		{"phone", cl.Header.ClientPhone},
		{"email", cl.Header.ClientEmail},
		{"date", cl.Header.Date},
	} {
		h.CreateElement(kv[0]).SetText(kv[1])
	}

	for _, s := range []struct {
		title string
		rows  []Row
	}{
		{SectionFormatki, cl.Formatki},
		{SectionFronty, cl.Fronty},
		{SectionHDF, cl.HDF},
	} {
		sec := root.CreateElement("section")
		sec.CreateAttr("name", s.title)
		for _, r := range s.rows {
			p := sec.CreateElement("part")
			p.CreateAttr("cabinet", r.Cabinet)
			p.CreateAttr("quantity", strconv.Itoa(r.Quantity))
			p.CreateAttr("width", strconv.Itoa(r.WidthMM))
			p.CreateAttr("height", strconv.Itoa(r.HeightMM))
			if r.Color != "" {
				p.CreateAttr("color", r.Color)
			}
			if r.Wrapping != "" {
				p.CreateAttr("wrapping", r.Wrapping)
			}
			p.CreateElement("name").SetText(r.Name)
			if r.Notes != "" {
				p.CreateElement("notes").SetText(r.Notes)
			}
		}
	}

	acc := root.CreateElement("section")
	acc.CreateAttr("name", SectionAkcesoria)
	for _, a := range cl.Akcesoria {
		e := acc.CreateElement("accessory")
		e.CreateAttr("cabinet", a.Cabinet)
		e.CreateAttr("sku", a.SKU)
		e.CreateAttr("quantity", strconv.Itoa(a.Quantity))
		e.CreateElement("name").SetText(a.Name)
	}

	if len(cl.Notes) > 0 {
		notes := root.CreateElement("notes")
		for _, n := range cl.Notes {
			e := notes.CreateElement("note")
			e.CreateAttr("label", n.Label)
			e.SetText(strings.TrimSpace(n.Text))
		}
	}
	root.CreateComment(" " + Footer + " ")
	doc.Indent(2)
	return doc
}
