package widgets

import (
	"errors"

	"github.com/goliatone/go-board/components/board"
	"github.com/goliatone/go-board/pkg/datasource"
)

// Config carries the collaborators shared by every widget factory.
type Config struct {
	// Sources resolves dataSource settings for charts and grids.
	Sources *datasource.Registry
	// Cache memoizes rendered chart markup. Nil disables caching.
	Cache      RenderCache
	Theme      string
	AssetsHost string
}

// Definitions returns the metadata published for the built-in widgets.
func Definitions() []board.ComponentDefinition {
	return []board.ComponentDefinition{
		{
			Type:        ChartType,
			Name:        "Chart",
			Description: "Bar, line, pie or scatter chart rendered with ECharts",
			Category:    "charts",
			Schema:      chartSchema(),
		},
		{
			Type:        HighchartsType,
			Name:        "Chart (Highcharts options)",
			Description: "Chart configured with chartOptions",
			Category:    "charts",
			Schema:      chartSchema(),
		},
		{
			Type:        DataGridType,
			Name:        "Data Grid",
			Description: "Tabular rows paged to the component height",
			Category:    "data",
			Schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"dataSource": map[string]any{"type": "string"},
					"csv":        map[string]any{"type": "string"},
					"table": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"columns": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
							"rows":    map[string]any{"type": "array", "items": map[string]any{"type": "array"}},
						},
					},
				},
			},
		},
		{
			Type:        HTMLType,
			Name:        "HTML",
			Description: "Static HTML elements",
			Category:    "content",
			Schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"html": map[string]any{"type": "string"},
					"elements": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type":     "object",
							"required": []string{"tagName"},
							"properties": map[string]any{
								"tagName":     map[string]any{"type": "string", "minLength": 1},
								"textContent": map[string]any{"type": "string"},
								"attributes":  map[string]any{"type": "object"},
							},
						},
					},
				},
			},
		},
		{
			Type:        IFrameType,
			Name:        "Embedded Page",
			Description: "External page in an iframe",
			Category:    "content",
			Schema: map[string]any{
				"type":     "object",
				"required": []string{"src"},
				"properties": map[string]any{
					"src":        map[string]any{"type": "string", "minLength": 1},
					"frameTitle": map[string]any{"type": "string"},
				},
			},
		},
		{
			Type:         YouTubeType,
			Name:         "YouTube",
			Description:  "Embedded YouTube video",
			Category:     "content",
			DropDefaults: map[string]any{"videoId": defaultYouTubeVideo},
			Schema: map[string]any{
				"type":     "object",
				"required": []string{"videoId"},
				"properties": map[string]any{
					"videoId":    map[string]any{"type": "string", "minLength": 1},
					"frameTitle": map[string]any{"type": "string"},
				},
			},
		},
	}
}

func chartSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"chartType": map[string]any{
				"type": "string",
				"enum": []string{"bar", "column", "line", "spline", "area", "pie", "scatter"},
			},
			"chartOptions": map[string]any{"type": "object"},
			"series":       map[string]any{"type": "array", "items": map[string]any{"type": "object"}},
			"xAxis":        map[string]any{"type": "array"},
			"theme":        map[string]any{"type": "string"},
			"dataSource":   map[string]any{"type": "string"},
			"tableAxisMap": map[string]any{
				"type":                 "object",
				"additionalProperties": map[string]any{"type": []string{"string", "null"}},
			},
		},
	}
}

// Register adds the built-in widgets and their definitions to reg.
func Register(reg *board.ComponentRegistry, cfg Config) error {
	return register(reg, cfg, false)
}

// Hook returns a component hook that registers the built-in widgets on every
// new registry. Types already registered are left alone.
func Hook(cfg Config) board.ComponentHook {
	return func(reg *board.ComponentRegistry) error {
		return register(reg, cfg, true)
	}
}

func register(reg *board.ComponentRegistry, cfg Config, skipExisting bool) error {
	factories := map[string]board.Factory{
		ChartType: func(o board.ComponentOptions) (board.Widget, error) {
			return NewChart(o, cfg)
		},
		HighchartsType: func(o board.ComponentOptions) (board.Widget, error) {
			return NewChart(o, cfg)
		},
		DataGridType: func(o board.ComponentOptions) (board.Widget, error) {
			return NewDataGrid(o, cfg)
		},
		HTMLType: func(o board.ComponentOptions) (board.Widget, error) {
			return NewHTML(o)
		},
		IFrameType: func(o board.ComponentOptions) (board.Widget, error) {
			return NewIFrame(o)
		},
		YouTubeType: func(o board.ComponentOptions) (board.Widget, error) {
			return NewIFrame(o)
		},
	}
	var errs []error
	for _, def := range Definitions() {
		if _, err := reg.Resolve(def.Type); err == nil && skipExisting {
			continue
		}
		factory := factories[def.Type]
		if err := reg.RegisterComponent(def.Type, factory); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := reg.RegisterDefinition(def); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
