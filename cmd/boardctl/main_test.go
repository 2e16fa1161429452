package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-board/components/board"
)

const sampleConfig = `gui:
  layouts:
    - id: layout-1
      rows:
        - id: row-1
          cells:
            - id: cell-1
              width: "1/2"
            - id: cell-2
components:
  - cell: cell-1
    type: HTML
    elements:
      - tagName: h1
        textContent: Sales
  - cell: cell-2
    type: DataGrid
    dataSource: fruit
`

const sampleCSV = `Food,Vitamin A
Beef Liver,6421
Lamb Liver,2122
Cod Liver Oil,1350
`

func writeFixtures(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "board.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(sampleConfig), 0o644))
	csv := filepath.Join(dir, "fruit.csv")
	require.NoError(t, os.WriteFile(csv, []byte(sampleCSV), 0o644))
	return cfg, csv
}

func newRunContext() (*runContext, *bytes.Buffer) {
	var out bytes.Buffer
	return &runContext{
		ctx:    context.Background(),
		logger: slog.New(slog.DiscardHandler),
		out:    &out,
	}, &out
}

func flagsFor(cfg, csv string) BoardFlags {
	return BoardFlags{Config: cfg, Source: []string{"fruit=" + csv}, Width: 800, Height: 400}
}

func TestValidateCommand(t *testing.T) {
	cfg, csv := writeFixtures(t)
	rc, out := newRunContext()
	cmd := &validateCmd{BoardFlags: flagsFor(cfg, csv)}
	require.NoError(t, cmd.Run(rc))
	assert.Contains(t, out.String(), "1 layouts, 2 cells, 2 components")
}

func TestValidateReportsMissingSource(t *testing.T) {
	cfg, _ := writeFixtures(t)
	rc, _ := newRunContext()
	cmd := &validateCmd{BoardFlags: BoardFlags{Config: cfg, Width: 800, Height: 400}}
	err := cmd.Run(rc)
	require.Error(t, err)
}

func TestValidateRejectsDuplicateIDs(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "dup.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(`gui:
  layouts:
    - id: same
      rows:
        - id: same
          cells:
            - id: a
`), 0o644))
	rc, _ := newRunContext()
	err := (&validateCmd{BoardFlags: BoardFlags{Config: cfg, Width: 800, Height: 400}}).Run(rc)
	assert.ErrorIs(t, err, board.ErrDuplicateID)
}

func TestTreeCommand(t *testing.T) {
	cfg, csv := writeFixtures(t)
	rc, out := newRunContext()
	require.NoError(t, (&treeCmd{BoardFlags: flagsFor(cfg, csv)}).Run(rc))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "board board 800x400", lines[0])
	assert.Contains(t, lines[1], "layout layout-1 800x400")
	assert.Contains(t, lines[3], "cell cell-1 400x400 [HTML")
	assert.Contains(t, lines[4], "[DataGrid")
	assert.Contains(t, lines[4], "mounted]")
}

func TestRenderCommandSelect(t *testing.T) {
	cfg, csv := writeFixtures(t)
	rc, out := newRunContext()
	cmd := &renderCmd{BoardFlags: flagsFor(cfg, csv), Select: ".board-grid td"}
	require.NoError(t, cmd.Run(rc))
	assert.Contains(t, out.String(), "Beef Liver")
}

func TestRenderCommandPage(t *testing.T) {
	cfg, csv := writeFixtures(t)
	rc, _ := newRunContext()
	target := filepath.Join(t.TempDir(), "board.html")
	cmd := &renderCmd{BoardFlags: flagsFor(cfg, csv), Page: true, Title: "Vitamins", Out: target}
	require.NoError(t, cmd.Run(rc))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Vitamins")
	assert.Contains(t, string(data), "board-component-html")
}

func TestExportAndImportCommand(t *testing.T) {
	cfg, csv := writeFixtures(t)
	db := filepath.Join(t.TempDir(), "layouts.db")

	rc, out := newRunContext()
	require.NoError(t, (&exportCmd{BoardFlags: flagsFor(cfg, csv), DB: db}).Run(rc))
	assert.Contains(t, out.String(), "exported 1 layouts")

	rc, out = newRunContext()
	require.NoError(t, (&exportCmd{BoardFlags: flagsFor(cfg, csv), DB: db, Import: true}).Run(rc))
	snapshot, err := board.ParseBoardJSON(out)
	require.NoError(t, err)
	require.Len(t, snapshot.Options.Layouts, 1)
	assert.Equal(t, "layout-1", snapshot.Options.Layouts[0].Options.ContainerID)
}

func TestScaffoldCommand(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "manifests", "components.yaml")
	stub := filepath.Join(dir, "widgets", "sales_funnel.go")
	rc, out := newRunContext()
	cmd := &scaffoldCmd{
		Type:         "SalesFunnel",
		Name:         "Sales Funnel",
		Description:  "Stage conversion funnel",
		Category:     "charts",
		ManifestPath: manifest,
		Package:      "github.com/acme/board/widgets",
		WidgetOut:    stub,
		Tag:          []string{"sales"},
	}
	require.NoError(t, cmd.Run(rc))
	assert.Contains(t, out.String(), "generated "+stub)

	doc, err := board.ReadManifest(manifest)
	require.NoError(t, err)
	require.Len(t, doc.Components, 1)
	assert.Equal(t, "SalesFunnel", doc.Components[0].Definition.Type)
	assert.Equal(t, "github.com/acme/board/widgets.NewSalesFunnel", doc.Components[0].Source.Entry)

	code, err := os.ReadFile(stub)
	require.NoError(t, err)
	assert.Contains(t, string(code), "package widgets")
	assert.Contains(t, string(code), `const SalesFunnelType = "SalesFunnel"`)
	assert.Contains(t, string(code), "board-sales-funnel")

	rc, _ = newRunContext()
	assert.Error(t, cmd.Run(rc), "second run without --overwrite must fail")

	cmd.Overwrite = true
	cmd.Description = "Updated"
	rc, _ = newRunContext()
	require.NoError(t, cmd.Run(rc))
	doc, err = board.ReadManifest(manifest)
	require.NoError(t, err)
	require.Len(t, doc.Components, 1)
	assert.Equal(t, "Updated", doc.Components[0].Definition.Description)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger("debug", "json", &buf)
	require.NoError(t, err)
	logger.Debug("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	_, err = newLogger("loud", "text", &buf)
	assert.Error(t, err)
}
