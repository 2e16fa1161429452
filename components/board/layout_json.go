package board

// $class markers written into persisted snapshots.
const (
	ClassBoard  = "Dashboard"
	ClassLayout = "Dashboard.Layout"
	ClassRow    = "Dashboard.Row"
	ClassCell   = "Dashboard.Cell"
)

// LayoutJSON is the persisted form of a layout. Component bindings are not
// embedded; cells are joined to component options by id.
type LayoutJSON struct {
	Class   string            `json:"$class" yaml:"$class"`
	Options LayoutJSONOptions `json:"options" yaml:"options"`
}

type LayoutJSONOptions struct {
	ContainerID       string    `json:"containerId" yaml:"containerId"`
	ParentContainerID string    `json:"parentContainerId,omitempty" yaml:"parentContainerId,omitempty"`
	RowClassName      string    `json:"rowClassName,omitempty" yaml:"rowClassName,omitempty"`
	CellClassName     string    `json:"cellClassName,omitempty" yaml:"cellClassName,omitempty"`
	Height            Dimension `json:"height,omitzero" yaml:"height,omitempty"`
	Rows              []RowJSON `json:"rows" yaml:"rows"`
}

type RowJSON struct {
	Class   string         `json:"$class" yaml:"$class"`
	Options RowJSONOptions `json:"options" yaml:"options"`
}

type RowJSONOptions struct {
	ContainerID       string     `json:"containerId" yaml:"containerId"`
	ParentContainerID string     `json:"parentContainerId,omitempty" yaml:"parentContainerId,omitempty"`
	ClassName         string     `json:"className,omitempty" yaml:"className,omitempty"`
	Height            Dimension  `json:"height,omitzero" yaml:"height,omitempty"`
	Cells             []CellJSON `json:"cells" yaml:"cells"`
}

type CellJSON struct {
	Class   string          `json:"$class" yaml:"$class"`
	Options CellJSONOptions `json:"options" yaml:"options"`
}

type CellJSONOptions struct {
	ContainerID       string      `json:"containerId" yaml:"containerId"`
	ParentContainerID string      `json:"parentContainerId,omitempty" yaml:"parentContainerId,omitempty"`
	ClassName         string      `json:"className,omitempty" yaml:"className,omitempty"`
	Width             string      `json:"width,omitempty" yaml:"width,omitempty"`
	Height            Dimension   `json:"height,omitzero" yaml:"height,omitempty"`
	Layout            *LayoutJSON `json:"layout,omitempty" yaml:"layout,omitempty"`
}

// ToJSON serializes the layout tree in row and cell order.
func (l *Layout) ToJSON() LayoutJSON {
	parent := ""
	if l.parent != nil {
		parent = l.parent.id
	} else if l.board != nil && l.board.container != nil {
		parent = l.board.container.ID()
	}
	return LayoutOptionsToJSON(l.Options(), parent)
}

// LayoutOptionsToJSON converts declarative options into the persisted form.
func LayoutOptionsToJSON(opts LayoutOptions, parentID string) LayoutJSON {
	out := LayoutJSON{
		Class: ClassLayout,
		Options: LayoutJSONOptions{
			ContainerID:       opts.ID,
			ParentContainerID: parentID,
			RowClassName:      opts.RowClassName,
			CellClassName:     opts.CellClassName,
			Height:            opts.Height,
			Rows:              make([]RowJSON, 0, len(opts.Rows)),
		},
	}
	for _, row := range opts.Rows {
		rj := RowJSON{
			Class: ClassRow,
			Options: RowJSONOptions{
				ContainerID:       row.ID,
				ParentContainerID: opts.ID,
				ClassName:         row.ClassName,
				Height:            row.Height,
				Cells:             make([]CellJSON, 0, len(row.Cells)),
			},
		}
		for _, cell := range row.Cells {
			cj := CellJSON{
				Class: ClassCell,
				Options: CellJSONOptions{
					ContainerID:       cell.ID,
					ParentContainerID: row.ID,
					ClassName:         cell.ClassName,
					Width:             cell.Width,
					Height:            cell.Height,
				},
			}
			if cell.Layout != nil {
				nested := LayoutOptionsToJSON(*cell.Layout, cell.ID)
				cj.Options.Layout = &nested
			}
			rj.Options.Cells = append(rj.Options.Cells, cj)
		}
		out.Options.Rows = append(out.Options.Rows, rj)
	}
	return out
}

// LayoutOptions converts the persisted form back into declarative options so
// both construction paths share one builder.
func (j LayoutJSON) LayoutOptions() (LayoutOptions, error) {
	if j.Class != "" && j.Class != ClassLayout {
		return LayoutOptions{}, &ClassError{Want: ClassLayout, Got: j.Class}
	}
	out := LayoutOptions{
		ID:            j.Options.ContainerID,
		RowClassName:  j.Options.RowClassName,
		CellClassName: j.Options.CellClassName,
		Height:        j.Options.Height,
		Rows:          make([]RowOptions, 0, len(j.Options.Rows)),
	}
	for _, rj := range j.Options.Rows {
		if rj.Class != "" && rj.Class != ClassRow {
			return LayoutOptions{}, &ClassError{Want: ClassRow, Got: rj.Class}
		}
		row := RowOptions{
			ID:        rj.Options.ContainerID,
			ClassName: rj.Options.ClassName,
			Height:    rj.Options.Height,
			Cells:     make([]CellOptions, 0, len(rj.Options.Cells)),
		}
		for _, cj := range rj.Options.Cells {
			if cj.Class != "" && cj.Class != ClassCell {
				return LayoutOptions{}, &ClassError{Want: ClassCell, Got: cj.Class}
			}
			cell := CellOptions{
				ID:        cj.Options.ContainerID,
				ClassName: cj.Options.ClassName,
				Width:     cj.Options.Width,
				Height:    cj.Options.Height,
			}
			if cj.Options.Layout != nil {
				nested, err := cj.Options.Layout.LayoutOptions()
				if err != nil {
					return LayoutOptions{}, err
				}
				cell.Layout = &nested
			}
			row.Cells = append(row.Cells, cell)
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}
