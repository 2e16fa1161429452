package board

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// BoardJSON is the persisted form of a board.
type BoardJSON struct {
	Class   string           `json:"$class"`
	Options BoardJSONOptions `json:"options"`
}

type BoardJSONOptions struct {
	ContainerID      string             `json:"containerId"`
	GUIEnabled       bool               `json:"guiEnabled"`
	LayoutOptions    LayoutDefaults     `json:"layoutOptions,omitzero"`
	Layouts          []LayoutJSON       `json:"layouts"`
	ComponentOptions ComponentOptions   `json:"componentOptions"`
	Components       []ComponentOptions `json:"components,omitempty"`
	EditMode         bool               `json:"editMode,omitempty"`
	Sidebar          []string           `json:"sidebar,omitempty"`
}

// ToJSON snapshots the live tree and the bound component options.
func (b *Board) ToJSON() BoardJSON {
	out := BoardJSON{
		Class: ClassBoard,
		Options: BoardJSONOptions{
			ContainerID:      b.ID(),
			GUIEnabled:       b.opts.GUI.IsEnabled(),
			LayoutOptions:    b.opts.GUI.LayoutOptions,
			Layouts:          make([]LayoutJSON, 0, len(b.layouts)),
			ComponentOptions: b.opts.ComponentOptions.Clone(),
			Components:       b.bindings.options(),
			EditMode:         b.editMode.Enabled(),
			Sidebar:          append([]string(nil), b.opts.EditMode.Sidebar...),
		},
	}
	for _, l := range b.layouts {
		out.Options.Layouts = append(out.Options.Layouts, l.ToJSON())
	}
	return out
}

// MarshalJSON encodes the board snapshot.
func (b *Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.ToJSON())
}

// ParseBoardJSON decodes a snapshot and checks its $class.
func ParseBoardJSON(r io.Reader) (BoardJSON, error) {
	var doc BoardJSON
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return BoardJSON{}, fmt.Errorf("board: decode board json: %w", err)
	}
	if doc.Class != ClassBoard {
		return BoardJSON{}, &ClassError{Want: ClassBoard, Got: doc.Class}
	}
	return doc, nil
}

// Config converts the snapshot back into declarative configuration. Layouts
// travel through Config.Layouts so the JSON construction path is used.
func (j BoardJSON) Config() Config {
	return Config{
		GUI: GUIOptions{
			Enabled:       BoolPtr(j.Options.GUIEnabled),
			LayoutOptions: j.Options.LayoutOptions,
		},
		ComponentOptions: j.Options.ComponentOptions.Clone(),
		Components:       append([]ComponentOptions(nil), j.Options.Components...),
		EditMode: EditModeOptions{
			Enabled: j.Options.EditMode,
			Sidebar: append([]string(nil), j.Options.Sidebar...),
		},
		Layouts: append([]LayoutJSON(nil), j.Options.Layouts...),
	}
}

// FromJSON rebuilds a board from a snapshot inside the container it names.
// Collaborators come from opts; its declarative fields are replaced.
func FromJSON(ctx context.Context, doc *Document, snapshot BoardJSON, opts Options) (*Board, error) {
	if snapshot.Class != ClassBoard {
		return nil, &ClassError{Want: ClassBoard, Got: snapshot.Class}
	}
	opts.Config = snapshot.Config()
	return Mount(ctx, doc, snapshot.Options.ContainerID, opts)
}
