package board

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultWidth is used when a container reports no measurable width.
	DefaultWidth = 600
	// DefaultHeight is used when a container reports no measurable height.
	DefaultHeight = 400
)

type dimensionMode uint8

const (
	dimensionKeep dimensionMode = iota
	dimensionFixed
	dimensionAuto
)

// Dimension is one axis of a size request. The zero value keeps the current
// setting, Px pins an explicit value and Auto reverts to container-driven sizing.
type Dimension struct {
	mode  dimensionMode
	value float64
}

var (
	// Keep preserves the explicit setting, or the container-derived value when none was pinned.
	Keep = Dimension{}
	// Auto discards any pinned value and follows the container.
	Auto = Dimension{mode: dimensionAuto}
)

// Px pins an explicit extent.
func Px(v float64) Dimension {
	if v < 0 || math.IsNaN(v) {
		v = 0
	}
	return Dimension{mode: dimensionFixed, value: v}
}

func (d Dimension) IsKeep() bool  { return d.mode == dimensionKeep }
func (d Dimension) IsAuto() bool  { return d.mode == dimensionAuto }
func (d Dimension) IsFixed() bool { return d.mode == dimensionFixed }

// Value returns the pinned extent, zero unless IsFixed.
func (d Dimension) Value() float64 { return d.value }

// IsZero lets `omitzero` drop Keep dimensions from encoded payloads.
func (d Dimension) IsZero() bool { return d.mode == dimensionKeep }

func (d Dimension) String() string {
	switch d.mode {
	case dimensionFixed:
		return strconv.FormatFloat(d.value, 'f', -1, 64) + "px"
	case dimensionAuto:
		return "auto"
	default:
		return "keep"
	}
}

// ParseDimension accepts "", "keep", "auto", "null", "320" and "320px".
func ParseDimension(raw string) (Dimension, error) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	switch raw {
	case "", "keep", "undefined":
		return Keep, nil
	case "auto", "null":
		return Auto, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(raw, "px"), 64)
	if err != nil {
		return Keep, fmt.Errorf("board: invalid dimension %q", raw)
	}
	return Px(v), nil
}

func (d Dimension) MarshalJSON() ([]byte, error) {
	switch d.mode {
	case dimensionFixed:
		return json.Marshal(d.value)
	case dimensionAuto:
		return []byte(`"auto"`), nil
	default:
		return []byte(`"keep"`), nil
	}
}

// UnmarshalJSON maps null to Auto, matching setSize(null) semantics.
func (d *Dimension) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = Auto
		return nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*d = Px(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("board: invalid dimension %s", string(data))
	}
	parsed, err := ParseDimension(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Dimension) MarshalYAML() (any, error) {
	switch d.mode {
	case dimensionFixed:
		return d.value, nil
	case dimensionAuto:
		return "auto", nil
	default:
		return "keep", nil
	}
}

func (d *Dimension) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		*d = Auto
		return nil
	}
	parsed, err := ParseDimension(node.Value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Size is a resolved width/height pair.
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

func (s Size) String() string {
	return fmt.Sprintf("%gx%g", s.Width, s.Height)
}

func lerpSize(from, to Size, p float64) Size {
	if p >= 1 {
		return to
	}
	if p <= 0 {
		return from
	}
	return Size{
		Width:  from.Width + (to.Width-from.Width)*p,
		Height: from.Height + (to.Height-from.Height)*p,
	}
}

func clampSize(s Size) Size {
	return Size{Width: math.Max(0, s.Width), Height: math.Max(0, s.Height)}
}
