package board

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"

	"github.com/google/uuid"
)

// ComponentOptions configures one component binding. Type-specific fields
// live in Settings and are flattened alongside the known keys when encoded.
type ComponentOptions struct {
	Cell      string         `yaml:"cell,omitempty"`
	RenderTo  string         `yaml:"renderTo,omitempty"`
	Type      string         `yaml:"type,omitempty"`
	ID        string         `yaml:"id,omitempty"`
	Title     string         `yaml:"title,omitempty"`
	Resizable *bool          `yaml:"isResizable,omitempty"`
	Settings  map[string]any `yaml:",inline"`
}

var componentOptionKeys = []string{"cell", "renderTo", "type", "id", "title", "isResizable"}

// CellID returns the target cell, preferring Cell over RenderTo.
func (o ComponentOptions) CellID() string {
	if o.Cell != "" {
		return o.Cell
	}
	return o.RenderTo
}

// IsResizable defaults to true.
func (o ComponentOptions) IsResizable() bool {
	return o.Resizable == nil || *o.Resizable
}

// Setting returns a type-specific field.
func (o ComponentOptions) Setting(key string) (any, bool) {
	v, ok := o.Settings[key]
	return v, ok
}

// Clone copies the options so callers can mutate the result.
func (o ComponentOptions) Clone() ComponentOptions {
	out := o
	if o.Resizable != nil {
		v := *o.Resizable
		out.Resizable = &v
	}
	out.Settings = cloneSettings(o.Settings)
	return out
}

// WithDefaults overlays o onto defaults field by field. Identity fields
// (cell, type, id) never come from defaults; settings merge per key with o winning.
func (o ComponentOptions) WithDefaults(defaults ComponentOptions) ComponentOptions {
	out := o.Clone()
	if out.Title == "" {
		out.Title = defaults.Title
	}
	if out.Resizable == nil && defaults.Resizable != nil {
		v := *defaults.Resizable
		out.Resizable = &v
	}
	if len(defaults.Settings) > 0 {
		merged := cloneSettings(defaults.Settings)
		maps.Copy(merged, out.Settings)
		out.Settings = merged
	}
	return out
}

// Map flattens the options into a single record.
func (o ComponentOptions) Map() map[string]any {
	out := cloneSettings(o.Settings)
	if out == nil {
		out = map[string]any{}
	}
	set := func(key, value string) {
		if value != "" {
			out[key] = value
		}
	}
	set("cell", o.Cell)
	set("renderTo", o.RenderTo)
	set("type", o.Type)
	set("id", o.ID)
	set("title", o.Title)
	if o.Resizable != nil {
		out["isResizable"] = *o.Resizable
	}
	return out
}

// ComponentOptionsFromMap is the inverse of Map.
func ComponentOptionsFromMap(raw map[string]any) (ComponentOptions, error) {
	var out ComponentOptions
	str := func(key string, dst *string) error {
		v, ok := raw[key]
		if !ok || v == nil {
			return nil
		}
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("board: component option %q must be a string", key)
		}
		*dst = s
		return nil
	}
	for key, dst := range map[string]*string{
		"cell":     &out.Cell,
		"renderTo": &out.RenderTo,
		"type":     &out.Type,
		"id":       &out.ID,
		"title":    &out.Title,
	} {
		if err := str(key, dst); err != nil {
			return ComponentOptions{}, err
		}
	}
	if v, ok := raw["isResizable"]; ok && v != nil {
		b, ok := v.(bool)
		if !ok {
			return ComponentOptions{}, fmt.Errorf("board: component option %q must be a boolean", "isResizable")
		}
		out.Resizable = &b
	}
	for key, value := range raw {
		if containsString(componentOptionKeys, key) {
			continue
		}
		if out.Settings == nil {
			out.Settings = map[string]any{}
		}
		out.Settings[key] = value
	}
	return out, nil
}

func (o ComponentOptions) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Map())
}

func (o *ComponentOptions) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ComponentOptionsFromMap(raw)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

func cloneSettings(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		return cloneSettings(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// BoolPtr is a convenience for optional flags.
func BoolPtr(v bool) *bool { return &v }

// LayoutDefaults carries class names applied to every row and cell of a layout.
type LayoutDefaults struct {
	RowClassName  string `json:"rowClassName,omitempty" yaml:"rowClassName,omitempty"`
	CellClassName string `json:"cellClassName,omitempty" yaml:"cellClassName,omitempty"`
}

// LayoutOptions declares a layout and its rows.
type LayoutOptions struct {
	ID            string       `json:"id,omitempty" yaml:"id,omitempty"`
	RowClassName  string       `json:"rowClassName,omitempty" yaml:"rowClassName,omitempty"`
	CellClassName string       `json:"cellClassName,omitempty" yaml:"cellClassName,omitempty"`
	Height        Dimension    `json:"height,omitzero" yaml:"height,omitempty"`
	Rows          []RowOptions `json:"rows" yaml:"rows"`
}

// RowOptions declares a row. A fixed Height pins the row; other rows share the rest.
type RowOptions struct {
	ID        string        `json:"id,omitempty" yaml:"id,omitempty"`
	ClassName string        `json:"className,omitempty" yaml:"className,omitempty"`
	Height    Dimension     `json:"height,omitzero" yaml:"height,omitempty"`
	Cells     []CellOptions `json:"cells" yaml:"cells"`
}

// CellOptions declares a cell. Width is a share of the row ("1/3", "50%") or
// a pixel pin ("250px"); a nested Layout is mounted inside the cell.
type CellOptions struct {
	ID        string         `json:"id,omitempty" yaml:"id,omitempty"`
	ClassName string         `json:"className,omitempty" yaml:"className,omitempty"`
	Width     string         `json:"width,omitempty" yaml:"width,omitempty"`
	Height    Dimension      `json:"height,omitzero" yaml:"height,omitempty"`
	Layout    *LayoutOptions `json:"layout,omitempty" yaml:"layout,omitempty"`
}

// GUIOptions controls the declarative layouts of a board.
type GUIOptions struct {
	Enabled       *bool           `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	LayoutOptions LayoutDefaults  `json:"layoutOptions,omitzero" yaml:"layoutOptions,omitempty"`
	Layouts       []LayoutOptions `json:"layouts,omitempty" yaml:"layouts,omitempty"`
}

// IsEnabled defaults to true.
func (g GUIOptions) IsEnabled() bool { return g.Enabled == nil || *g.Enabled }

// EditModeOptions configures the editing surface.
type EditModeOptions struct {
	Enabled bool     `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Sidebar []string `json:"sidebar,omitempty" yaml:"sidebar,omitempty"`
}

// Config is the declarative part of board options, decodable from YAML or JSON.
type Config struct {
	GUI              GUIOptions         `json:"gui" yaml:"gui"`
	ComponentOptions ComponentOptions   `json:"componentOptions" yaml:"componentOptions,omitempty"`
	Components       []ComponentOptions `json:"components,omitempty" yaml:"components,omitempty"`
	EditMode         EditModeOptions    `json:"editMode,omitzero" yaml:"editMode,omitempty"`
	Layouts          []LayoutJSON       `json:"layoutsJSON,omitempty" yaml:"layoutsJSON,omitempty"`
}

// IDGenerator returns a fresh identifier for nodes created without one.
type IDGenerator func() string

// Options configures a Board. Every collaborator may be left nil.
type Options struct {
	Config

	Registry    *ComponentRegistry
	Scheduler   *Scheduler
	Clock       Clock
	Logger      *slog.Logger
	Telemetry   Telemetry
	EventHook   EventHook
	Validator   ConfigValidator
	Store       LayoutStore
	IDGenerator IDGenerator
}

func (o Options) normalize() Options {
	if o.Registry == nil {
		o.Registry = NewComponentRegistry()
	}
	if o.Scheduler == nil {
		o.Scheduler = NewScheduler(o.Clock)
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	o.Telemetry = normalizeTelemetry(o.Telemetry)
	if o.EventHook == nil {
		o.EventHook = noopEventHook{}
	}
	if o.Validator == nil {
		o.Validator = NewJSONSchemaValidator()
	}
	if o.Store == nil {
		o.Store = NewMemoryLayoutStore()
	}
	if o.IDGenerator == nil {
		o.IDGenerator = uuid.NewString
	}
	return o
}

// SidebarContext is what a component sees when the editor asks for drop defaults.
type SidebarContext struct {
	Cell      string
	Available []string
}
