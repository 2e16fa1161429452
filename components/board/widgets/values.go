package widgets

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ChartSeries is one legend entry and its points.
type ChartSeries struct {
	Name   string
	Points []ChartPoint
}

// ChartPoint is a plotted value. Pair holds x/y for scatter data.
type ChartPoint struct {
	Label string
	Value float64
	Pair  []float64
}

// parseChartSeries reads chartOptions.series: a list of {name, data}
// objects. Series without usable points are dropped.
func parseChartSeries(v any) []ChartSeries {
	var out []ChartSeries
	for i, item := range listValue(v) {
		m := mapValue(item)
		if m == nil {
			continue
		}
		var points []ChartPoint
		for _, raw := range listValue(m["data"]) {
			if point, ok := chartPoint(raw); ok {
				points = append(points, point)
			}
		}
		if len(points) == 0 {
			continue
		}
		out = append(out, ChartSeries{
			Name:   stringValue(m["name"], fmt.Sprintf("Series %d", i+1)),
			Points: points,
		})
	}
	return out
}

// chartPoint accepts a bare number, an [x, y] pair or a {name, y|value, x}
// object.
func chartPoint(raw any) (ChartPoint, bool) {
	if v, ok := numberValue(raw); ok {
		return ChartPoint{Value: v}, true
	}
	if pair := listValue(raw); len(pair) >= 2 {
		x, xok := numberValue(pair[0])
		y, yok := numberValue(pair[1])
		if !xok || !yok {
			return ChartPoint{}, false
		}
		return ChartPoint{Value: y, Pair: []float64{x, y}}, true
	}
	m := mapValue(raw)
	if m == nil {
		return ChartPoint{}, false
	}
	point := ChartPoint{Label: stringValue(m["name"], "")}
	y, ok := numberValue(m["y"])
	if !ok {
		y, _ = numberValue(m["value"])
	}
	point.Value = y
	if x, ok := numberValue(m["x"]); ok {
		if _, hasY := m["y"]; hasY {
			point.Pair = []float64{x, y}
		}
	}
	return point, true
}

// inferredAxisLabels labels the x axis from the longest series, using
// point names where present.
func inferredAxisLabels(series []ChartSeries) []string {
	var longest []ChartPoint
	for _, s := range series {
		if len(s.Points) > len(longest) {
			longest = s.Points
		}
	}
	if longest == nil {
		return nil
	}
	labels := make([]string, len(longest))
	for i, point := range longest {
		labels[i] = firstNonEmpty(point.Label, fmt.Sprintf("Item %d", i+1))
	}
	return labels
}

// listValue normalizes the slice shapes that arrive from YAML, JSON or Go
// literals.
func listValue(v any) []any {
	switch val := v.(type) {
	case []any:
		return val
	case []map[string]any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = item
		}
		return out
	case []float64:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = item
		}
		return out
	case []int:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = item
		}
		return out
	case []string:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = item
		}
		return out
	}
	return nil
}

func stringSliceValue(v any) []string {
	items := listValue(v)
	if items == nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch s := item.(type) {
		case string:
			out = append(out, s)
		default:
			if n, ok := numberValue(s); ok {
				out = append(out, strconv.FormatFloat(n, 'f', -1, 64))
			}
		}
	}
	return out
}

func stringValue(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

// numberValue converts numeric option values. Strings are not numbers here;
// CSV cells are already converted by the data source.
func numberValue(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	}
	return 0, false
}

func mapValue(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}

// nested walks keys through option maps: nested(cfg, "chart", "type").
func nested(m map[string]any, keys ...string) any {
	var cur any = m
	for _, k := range keys {
		mm := mapValue(cur)
		if mm == nil {
			return nil
		}
		cur = mm[k]
	}
	return cur
}
