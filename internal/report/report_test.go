package report_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/cabplanner/internal/formula"
	"github.com/petar-djukic/cabplanner/internal/project"
	"github.com/petar-djukic/cabplanner/internal/report"
	"github.com/petar-djukic/cabplanner/internal/store"
	"github.com/petar-djukic/cabplanner/pkg/types"
)

var reportDate = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func sampleInput() report.Input {
	catalog := &types.Cabinet{ID: "c1", TypeID: "t1", SequenceNumber: 1, Quantity: 2,
		BodyColor: "Biały", FrontColor: "Dąb", HandleType: "Gałka"}
	custom := &types.Cabinet{ID: "c2", Name: "D60", SequenceNumber: 2, Quantity: 1,
		BodyColor: "Szary", FrontColor: "Czarny"}
	return report.Input{
		Project: &types.Project{
			Name: "Kowalski", OrderNumber: "ZAM-7", KitchenType: types.KitchenLoft,
			ClientName: "Jan Kowalski", Blaty: true, Uwagi: true, FlagNotes: "blat dębowy 38mm",
		},
		Date: reportDate,
		Cabinets: []report.CabinetEntry{
			{
				Cabinet: catalog,
				Label:   report.Label(catalog, "G40"),
				Parts: []types.PartPlan{
					{PartName: "boki", WidthMM: 300, HeightMM: 720, Pieces: 2, Material: types.MaterialPlyta, Wrapping: "D"},
					{PartName: "front", WidthMM: 396, HeightMM: 713, Pieces: 1, Material: types.MaterialFront},
					{PartName: "hdf", WidthMM: 396, HeightMM: 716, Pieces: 1, Material: types.MaterialHDF},
				},
				Accessories: []*types.LinkedAccessory{
					{Accessory: types.Accessory{Name: "Zawias", SKU: "ZAW-1"}, Count: 2},
				},
			},
			{
				Cabinet: custom,
				Label:   report.Label(custom, ""),
				Parts: []types.PartPlan{
					{PartName: "wieniec", WidthMM: 564, HeightMM: 510, Pieces: 2, Material: types.MaterialPlyta},
					{PartName: "front", WidthMM: 596, HeightMM: 713, Pieces: 1, Material: types.MaterialFront, Comments: "frez"},
				},
			},
		},
	}
}

func TestBuild(t *testing.T) {
	cl := report.Build(sampleInput())

	assert.Equal(t, "ZAM-7", cl.Header.OrderNumber)
	assert.Equal(t, "2026-03-14", cl.Header.Date)
	assert.Equal(t, "Jan Kowalski", cl.Header.ClientName)

	require.Len(t, cl.Formatki, 2)
	assert.Equal(t, report.Row{Cabinet: "#1 G40", Name: "boki", Quantity: 4, WidthMM: 300, HeightMM: 720, Color: "Biały", Wrapping: "D"}, cl.Formatki[0])
	assert.Equal(t, "#2 D60", cl.Formatki[1].Cabinet)
	assert.Equal(t, "Szary", cl.Formatki[1].Color)

	require.Len(t, cl.Fronty, 2)
	assert.Equal(t, "Dąb", cl.Fronty[0].Color)
	assert.Equal(t, "Handle: Gałka", cl.Fronty[0].Notes)
	assert.Equal(t, 2, cl.Fronty[0].Quantity)
	assert.Equal(t, "frez", cl.Fronty[1].Notes, "no handle leaves the part comment")

	require.Len(t, cl.HDF, 1)
	assert.Empty(t, cl.HDF[0].Color)
	assert.Equal(t, 2, cl.HDF[0].Quantity)

	require.Len(t, cl.Akcesoria, 1)
	assert.Equal(t, 4, cl.Akcesoria[0].Quantity)

	assert.Equal(t, []report.Note{
		{Label: report.NoteBlaty},
		{Label: report.NoteUwagi, Text: "blat dębowy 38mm"},
	}, cl.Notes)
}

func TestBuildEmpty(t *testing.T) {
	cl := report.Build(report.Input{Project: &types.Project{OrderNumber: "1"}})
	assert.True(t, cl.Empty())
	assert.NotNil(t, cl.Formatki)
	assert.Nil(t, cl.Notes)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "projekt_ZAM-7.txt", report.FileName("ZAM-7", "txt"))
	assert.Equal(t, "projekt_2026_03_1.csv", report.FileName(" 2026/03/1 ", "csv"))
}

func TestRendererFor(t *testing.T) {
	for _, f := range report.Formats() {
		r, err := report.RendererFor(f, nil)
		require.NoError(t, err, f)
		assert.NotEmpty(t, r.Extension())
	}
	_, err := report.RendererFor("docx", nil)
	assert.ErrorIs(t, err, types.ErrUnknownFormat)
}

func render(t *testing.T, format string, cl *report.CutList, logo []byte) string {
	t.Helper()
	r, err := report.RendererFor(format, logo)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, cl))
	return buf.String()
}

func TestTextRenderer(t *testing.T) {
	out := render(t, report.FormatText, report.Build(sampleInput()), nil)
	for _, want := range []string{"Order Number: ZAM-7", "FORMATKI", "FRONTY", "HDF", "AKCESORIA", "300 x 720", "Handle: Gałka", "Blaty", "Uwagi: blat dębowy 38mm"} {
		assert.Contains(t, out, want)
	}
	assert.True(t, strings.HasSuffix(out, report.Footer+"\n"))
	assert.NotContains(t, out, report.EmptySection)

	empty := render(t, report.FormatText, report.Build(report.Input{Project: &types.Project{OrderNumber: "1"}}), nil)
	assert.Equal(t, 4, strings.Count(empty, report.EmptySection))
}

func TestCSVRenderer(t *testing.T) {
	out := render(t, report.FormatCSV, report.Build(sampleInput()), nil)
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 7)
	assert.Equal(t, report.CSVColumns, records[0])
	assert.Equal(t, []string{"FORMATKI", "#1 G40", "boki", "", "4", "300", "720", "Biały", "D", ""}, records[1])
	assert.Equal(t, []string{"AKCESORIA", "#1 G40", "Zawias", "ZAW-1", "4", "", "", "", "", ""}, records[6])
}

func TestJSONRenderer(t *testing.T) {
	out := render(t, report.FormatJSON, report.Build(sampleInput()), nil)
	var back report.CutList
	require.NoError(t, json.Unmarshal([]byte(out), &back))
	assert.Equal(t, "ZAM-7", back.Header.OrderNumber)
	assert.Len(t, back.Fronty, 2)
}

func TestXMLRenderer(t *testing.T) {
	out := render(t, report.FormatXML, report.Build(sampleInput()), nil)
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(out))
	root := doc.SelectElement("cutlist")
	require.NotNil(t, root)
	assert.Equal(t, "ZAM-7", root.SelectAttrValue("order", ""))

	sections := root.SelectElements("section")
	require.Len(t, sections, 4)
	assert.Equal(t, "FRONTY", sections[1].SelectAttrValue("name", ""))
	assert.Len(t, sections[1].SelectElements("part"), 2)
	acc := sections[3].SelectElement("accessory")
	require.NotNil(t, acc)
	assert.Equal(t, "4", acc.SelectAttrValue("quantity", ""))
}

// pngHeader is enough for MIME detection.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestHTMLRenderer(t *testing.T) {
	out := render(t, report.FormatHTML, report.Build(sampleInput()), pngHeader)
	assert.Contains(t, out, "data:image/png;base64,")
	assert.Contains(t, out, "<h2>")
	assert.Contains(t, out, "FORMATKI")
	assert.Contains(t, out, "Handle: Gałka")
	assert.Contains(t, out, report.Footer)

	r, err := report.RendererFor(report.FormatHTML, []byte("not an image"))
	require.NoError(t, err)
	err = r.Render(&bytes.Buffer{}, report.Build(sampleInput()))
	assert.ErrorIs(t, err, types.ErrInvalidLogo)
}

func TestLogoDataURI(t *testing.T) {
	uri, err := report.LogoDataURI(nil)
	require.NoError(t, err)
	assert.Empty(t, uri)

	uri, err = report.LogoDataURI(pngHeader)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))
}

func TestGenerateMixedCabinets(t *testing.T) {
	ctx := context.Background()
	s := store.New(nil)
	require.NoError(t, s.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir(), SkipSeed: true}))
	t.Cleanup(func() { _ = s.Detach() })
	svc := project.NewService(s, project.WithPlanner(formula.NewPlanner(s)))

	p := &types.Project{Name: "Nowak", KitchenType: types.KitchenLoft, OrderNumber: "ZAM-9", Cokoly: true}
	require.NoError(t, svc.CreateProject(ctx, p))

	ct := &types.CabinetType{Name: "D60", KitchenType: types.KitchenLoft}
	require.NoError(t, s.CreateCabinetType(ctx, ct))
	require.NoError(t, s.AddPart(ctx, &types.CabinetPart{
		CabinetTypeID: ct.ID, PartName: "boki", HeightMM: 720, WidthMM: 510, Pieces: 2, Material: types.MaterialPlyta,
	}))
	_, err := svc.AddCatalogCabinet(ctx, p.ID, ct.ID, project.Finish{BodyColor: "Biały", FrontColor: "Dąb", Quantity: 3})
	require.NoError(t, err)
	_, _, err = svc.AddCustomCabinet(ctx, p.ID, project.CustomCabinet{
		Finish: project.Finish{BodyColor: "Szary", FrontColor: "Czarny"},
		Name:   "D60",
	})
	require.NoError(t, err)

	g := report.NewGenerator(svc, report.WithClock(func() time.Time { return reportDate }))
	cl, err := g.CutList(ctx, p.ID)
	require.NoError(t, err)

	cabinets := map[string]bool{}
	for _, r := range cl.Formatki {
		cabinets[r.Cabinet] = true
	}
	assert.True(t, cabinets["#1 D60"])
	assert.True(t, cabinets["#2 D60"])
	assert.Equal(t, 6, cl.Formatki[0].Quantity)
	assert.NotEmpty(t, cl.Fronty, "custom cabinet parts are computed")
	assert.Equal(t, []report.Note{{Label: report.NoteCokoly}}, cl.Notes)

	dir := filepath.Join(t.TempDir(), "reports")
	path, err := g.Generate(ctx, p.ID, report.FormatText, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "projekt_ZAM-9.txt"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Report Date: 2026-03-14")

	_, err = g.Generate(ctx, "missing", report.FormatText, dir)
	assert.ErrorIs(t, err, types.ErrNotFound)
}
