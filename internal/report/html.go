package report

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/yosssi/gohtml"

	"github.com/petar-djukic/cabplanner/pkg/types"
)

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"cells": partCells,
	"acc":   accessoryCells,
	"note":  noteText,
}).Parse(`<!DOCTYPE html>
<html lang="pl">
<head><meta charset="utf-8"><title>Projekt {{.List.Header.OrderNumber}}</title></head>
<body>
<header>
{{if .Logo}}<img class="logo" alt="logo" src="{{.Logo}}">{{end}}
<table class="meta">
{{range .Header}}<tr><th>{{index . 0}}</th><td>{{index . 1}}</td></tr>
{{end}}</table>
</header>
{{range .Sections}}<h2>{{.Title}}</h2>
{{if .Rows}}<table>
<tr>{{range $.PartColumns}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr>{{range cells .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>
{{else}}<p>{{$.Empty}}</p>
{{end}}{{end}}<h2>AKCESORIA</h2>
{{if .List.Akcesoria}}<table>
<tr>{{range .AccessoryColumns}}<th>{{.}}</th>{{end}}</tr>
{{range .List.Akcesoria}}<tr>{{range acc .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>
{{else}}<p>{{.Empty}}</p>
{{end}}{{range .List.Notes}}<p class="note">{{note .}}</p>
{{end}}<footer><em>{{.Footer}}</em></footer>
</body>
</html>
`))

type htmlSection struct {
	Title string
	Rows  []Row
}

type htmlPage struct {
	List             *CutList
	Logo             template.URL
	Header           [][2]string
	Sections         []htmlSection
	PartColumns      []string
	AccessoryColumns []string
	Empty            string
	Footer           string
}

// HTMLRenderer writes a formatted HTML page. A non-empty Logo is embedded
// as a data URI and must be an image.
type HTMLRenderer struct {
	Logo []byte
}

// Extension implements Renderer.
func (HTMLRenderer) Extension() string { return "html" }

// Render implements Renderer.
func (r HTMLRenderer) Render(w io.Writer, cl *CutList) error {
	logo, err := LogoDataURI(r.Logo)
	if err != nil {
		return err
	}
	page := htmlPage{
		List:   cl,
		Logo:   template.URL(logo),
		Header: headerLines(cl.Header),
		Sections: []htmlSection{
			{SectionFormatki, cl.Formatki},
			{SectionFronty, cl.Fronty},
			{SectionHDF, cl.HDF},
		},
		PartColumns:      partColumns,
		AccessoryColumns: accessoryColumns,
		Empty:            EmptySection,
		Footer:           Footer,
	}
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, page); err != nil {
		return err
	}
	_, err = w.Write(gohtml.FormatBytes(buf.Bytes()))
	return err
}

// LogoDataURI returns data as a base64 data URI typed by its detected MIME
// type. Empty data returns an empty string.
func LogoDataURI(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%w: %s", types.ErrInvalidLogo, mt.String())
	}
	return "data:" + mt.String() + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
