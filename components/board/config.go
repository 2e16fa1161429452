package board

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DecodeConfig reads board configuration from YAML or JSON.
func DecodeConfig(r io.Reader) (Config, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var cfg Config
	if err := decoder.Decode(&cfg); err != nil {
		if err == io.EOF {
			return Config{}, fmt.Errorf("board: config is empty")
		}
		return Config{}, fmt.Errorf("board: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads board configuration from a file.
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return Config{}, fmt.Errorf("board: read config %s: %w", path, err)
	}
	cfg, err := DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return Config{}, fmt.Errorf("board: load config %s: %w", path, err)
	}
	return cfg, nil
}

// EncodeConfig writes cfg as YAML.
func EncodeConfig(w io.Writer, cfg Config) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("board: encode config: %w", err)
	}
	return encoder.Close()
}

// Validate checks structural rules that can be verified without building:
// unique node ids and parseable cell widths.
func (c Config) Validate() error {
	seen := map[string]struct{}{}
	claim := func(id string) error {
		if id == "" {
			return nil
		}
		if _, ok := seen[id]; ok {
			return &DuplicateIDError{ID: id}
		}
		seen[id] = struct{}{}
		return nil
	}
	var walk func(l LayoutOptions) error
	walk = func(l LayoutOptions) error {
		if err := claim(l.ID); err != nil {
			return err
		}
		for _, r := range l.Rows {
			if err := claim(r.ID); err != nil {
				return err
			}
			for _, cell := range r.Cells {
				if err := claim(cell.ID); err != nil {
					return err
				}
				if _, ok := parseExtent(cell.Width); !ok {
					return fmt.Errorf("board: cell %s: invalid width %q", cell.ID, cell.Width)
				}
				if cell.Layout != nil {
					if err := walk(*cell.Layout); err != nil {
						return err
					}
				}
			}
		}
		return nil
	}
	for _, l := range c.GUI.Layouts {
		if err := walk(l); err != nil {
			return err
		}
	}
	for _, doc := range c.Layouts {
		l, err := doc.LayoutOptions()
		if err != nil {
			return err
		}
		if err := walk(l); err != nil {
			return err
		}
	}
	for idx, comp := range c.Components {
		if comp.Type == "" {
			return fmt.Errorf("board: component #%d is missing type", idx)
		}
		if comp.CellID() == "" {
			return fmt.Errorf("board: component #%d is missing cell", idx)
		}
	}
	return nil
}
