package board

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
gui:
  layoutOptions:
    rowClassName: row
  layouts:
    - id: layout-1
      rows:
        - id: row-1
          height: 120
          cells:
            - id: cell-1
              width: 1/3
            - id: cell-2
              layout:
                id: nested
                rows:
                  - id: nested-row
                    cells:
                      - id: nested-cell
componentOptions:
  title: Untitled
components:
  - cell: cell-1
    type: Recorder
    id: recorder
    isResizable: false
    color: red
editMode:
  enabled: true
  sidebar: [Recorder]
`

func TestDecodeConfig(t *testing.T) {
	cfg, err := DecodeConfig(strings.NewReader(sampleConfig))
	require.NoError(t, err)

	require.Len(t, cfg.GUI.Layouts, 1)
	assert.True(t, cfg.GUI.IsEnabled())
	assert.Equal(t, "row", cfg.GUI.LayoutOptions.RowClassName)
	row := cfg.GUI.Layouts[0].Rows[0]
	assert.Equal(t, Px(120), row.Height)
	assert.Equal(t, "1/3", row.Cells[0].Width)
	require.NotNil(t, row.Cells[1].Layout)
	assert.Equal(t, "nested-cell", row.Cells[1].Layout.Rows[0].Cells[0].ID)

	assert.Equal(t, "Untitled", cfg.ComponentOptions.Title)
	require.Len(t, cfg.Components, 1)
	comp := cfg.Components[0]
	assert.Equal(t, "cell-1", comp.CellID())
	assert.False(t, comp.IsResizable())
	assert.Equal(t, "red", comp.Settings["color"])
	assert.True(t, cfg.EditMode.Enabled)
	assert.Equal(t, []string{"Recorder"}, cfg.EditMode.Sidebar)
}

func TestDecodedConfigMounts(t *testing.T) {
	cfg, err := DecodeConfig(strings.NewReader(sampleConfig))
	require.NoError(t, err)
	f := newFixture(t, cfg, nil)

	inst := f.board.Cell("cell-1").Component()
	require.NotNil(t, inst)
	assert.Equal(t, "Untitled", inst.Options().Title)
	assert.Equal(t, Size{Width: 200, Height: 120}, inst.Size())
	assert.Equal(t, Size{Width: 400, Height: 120}, f.board.Cell("nested-cell").Size())
	assert.True(t, f.board.Row("row-1").Element().HasClass("row"))
	assert.True(t, f.board.EditMode().Enabled())
}

func TestConfigValidate(t *testing.T) {
	cases := map[string]Config{
		"duplicate id": {GUI: GUIOptions{Layouts: []LayoutOptions{{ID: "x", Rows: []RowOptions{{ID: "x"}}}}}},
		"bad width": {GUI: GUIOptions{Layouts: []LayoutOptions{{Rows: []RowOptions{{Cells: []CellOptions{
			{ID: "c", Width: "wide"},
		}}}}}}},
		"missing type":   {Components: []ComponentOptions{{Cell: "c"}}},
		"missing cell":   {Components: []ComponentOptions{{Type: "Recorder"}}},
		"bad json class": {Layouts: []LayoutJSON{{Class: ClassCell}}},
	}
	for name, cfg := range cases {
		assert.Error(t, cfg.Validate(), name)
	}
	assert.ErrorIs(t, cases["duplicate id"].Validate(), ErrDuplicateID)
	assert.NoError(t, Config{GUI: GUIOptions{Layouts: twoCells()}}.Validate())
}

func TestDecodeConfigErrors(t *testing.T) {
	_, err := DecodeConfig(strings.NewReader(""))
	assert.ErrorContains(t, err, "empty")
	_, err = DecodeConfig(strings.NewReader("gui:\n  unknown: 1\n"))
	assert.Error(t, err)
	_, err = LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEncodeConfigRoundTrip(t *testing.T) {
	cfg, err := DecodeConfig(strings.NewReader(sampleConfig))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeConfig(&buf, cfg))
	path := filepath.Join(t.TempDir(), "board.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	again, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.GUI.Layouts, again.GUI.Layouts)
	assert.Equal(t, cfg.Components, again.Components)
	assert.Equal(t, cfg.EditMode, again.EditMode)
}

func TestConfigAcceptsJSON(t *testing.T) {
	raw := `{"gui":{"layouts":[{"id":"l","rows":[{"id":"r","height":"auto","cells":[{"id":"c","width":"250px"}]}]}]},
"components":[{"cell":"c","type":"Recorder","color":"red"}]}`
	cfg, err := DecodeConfig(strings.NewReader(raw))
	require.NoError(t, err)
	assert.True(t, cfg.GUI.Layouts[0].Rows[0].Height.IsAuto())
	assert.Equal(t, "red", cfg.Components[0].Settings["color"])
}

func TestComponentOptionsFlattenSettings(t *testing.T) {
	opts := ComponentOptions{
		Cell:      "c",
		Type:      "Recorder",
		Resizable: BoolPtr(true),
		Settings:  map[string]any{"color": "red", "nested": map[string]any{"a": 1.0}},
	}
	raw, err := json.Marshal(opts)
	require.NoError(t, err)
	assert.JSONEq(t, `{"cell":"c","type":"Recorder","isResizable":true,"color":"red","nested":{"a":1}}`, string(raw))

	var back ComponentOptions
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, opts, back)

	clone := opts.Clone()
	clone.Settings["nested"].(map[string]any)["a"] = 2.0
	*clone.Resizable = false
	assert.Equal(t, 1.0, opts.Settings["nested"].(map[string]any)["a"])
	assert.True(t, opts.IsResizable())

	_, err = ComponentOptionsFromMap(map[string]any{"type": 3})
	assert.Error(t, err)
	_, err = ComponentOptionsFromMap(map[string]any{"isResizable": "yes"})
	assert.Error(t, err)

	v, ok := opts.Setting("color")
	assert.True(t, ok)
	assert.Equal(t, "red", v)
}
