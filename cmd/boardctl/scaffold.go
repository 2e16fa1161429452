package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ettle/strcase"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-board/components/board"
)

type scaffoldCmd struct {
	Type         string   `required:"" help:"Component type name registered with the board (e.g. SalesFunnel)."`
	Name         string   `required:"" help:"Display name for the component."`
	Description  string   `required:"" help:"One-line description used in manifests."`
	Category     string   `default:"custom" help:"Component category (charts, data, embeds, ...)."`
	ManifestPath string   `required:"" name:"manifest" type:"path" help:"Path to the component manifest YAML file to update."`
	SchemaPath   string   `name:"schema" type:"path" help:"Optional path to a JSON schema file for the component options."`
	Tag          []string `help:"Optional tags to include in the manifest (use multiple --tag flags)."`
	DocsURL      string   `help:"Link to component documentation."`
	Package      string   `default:"github.com/goliatone/go-board/components/board/widgets" help:"Go package where the widget factory lives."`
	Entry        string   `help:"Factory identifier recorded in the manifest (defaults to New<Type>)."`
	WidgetOut    string   `help:"File path for the generated widget stub (defaults to components/board/widgets/<type>.go)."`
	Overwrite    bool     `help:"Overwrite existing widget stub / manifest entry if present."`
	SkipWidget   bool     `name:"skip-widget" help:"Skip widget stub generation."`
}

func (cmd *scaffoldCmd) Run(rc *runContext) error {
	if err := cmd.validate(); err != nil {
		return err
	}
	manifestPath, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("boardctl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(manifestPath)
	if err != nil {
		return err
	}
	if !cmd.Overwrite {
		for _, component := range doc.Components {
			if component.Definition.Type == cmd.Type {
				return fmt.Errorf("boardctl: manifest already defines component %s (use --overwrite to replace)", cmd.Type)
			}
		}
	}

	schema, err := cmd.loadSchema()
	if err != nil {
		return err
	}

	typeName := strcase.ToPascal(cmd.Type)
	entry := cmd.Entry
	if entry == "" {
		entry = fmt.Sprintf("%s.New%s", cmd.Package, typeName)
	}

	component := board.ManifestComponent{
		Definition: board.ComponentDefinition{
			Type:        cmd.Type,
			Name:        cmd.Name,
			Description: cmd.Description,
			Category:    cmd.Category,
			Schema:      schema,
		},
		Source: board.ManifestSource{
			Package: cmd.Package,
			Entry:   entry,
			DocsURL: cmd.DocsURL,
		},
		Tags: cmd.Tag,
	}

	replaced := false
	if cmd.Overwrite {
		for idx := range doc.Components {
			if doc.Components[idx].Definition.Type == cmd.Type {
				doc.Components[idx] = component
				replaced = true
				break
			}
		}
	}
	if !replaced {
		doc.Components = append(doc.Components, component)
	}

	sort.Slice(doc.Components, func(i, j int) bool {
		return doc.Components[i].Definition.Type < doc.Components[j].Definition.Type
	})

	if err := doc.Validate(); err != nil {
		return err
	}
	if err := writeManifest(manifestPath, doc); err != nil {
		return err
	}

	if cmd.SkipWidget {
		fmt.Fprintf(rc.out, "✓ Added %s to %s (factory recorded as %s)\n", cmd.Type, manifestPath, entry)
		return nil
	}

	widgetPath := cmd.WidgetOut
	if widgetPath == "" {
		widgetPath = filepath.Join("components", "board", "widgets", strcase.ToSnake(cmd.Type)+".go")
	}
	if err := writeWidgetStub(widgetPath, filepath.Base(cmd.Package), typeName, cmd.Type, cmd.Overwrite); err != nil {
		return err
	}
	fmt.Fprintf(rc.out, "✓ Added %s to %s and generated %s\n", cmd.Type, manifestPath, widgetPath)
	return nil
}

func (cmd *scaffoldCmd) validate() error {
	if strings.TrimSpace(cmd.Type) == "" || strings.ContainsAny(cmd.Type, " ./") {
		return fmt.Errorf("boardctl: component type %q must be a single identifier", cmd.Type)
	}
	return nil
}

func (cmd *scaffoldCmd) loadSchema() (map[string]any, error) {
	if cmd.SchemaPath == "" {
		return map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		}, nil
	}
	data, err := os.ReadFile(cmd.SchemaPath)
	if err != nil {
		return nil, fmt.Errorf("boardctl: read schema file: %w", err)
	}
	var schema map[string]any
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("boardctl: parse schema JSON: %w", err)
	}
	return schema, nil
}

func loadOrInitManifest(path string) (*board.ComponentManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &board.ComponentManifestDocument{
				Version:    board.ManifestVersion,
				Components: []board.ManifestComponent{},
				Source:     path,
			}, nil
		}
		return nil, fmt.Errorf("boardctl: stat manifest: %w", err)
	}
	return board.ReadManifest(path)
}

func writeManifest(path string, doc *board.ComponentManifestDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("boardctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("boardctl: create manifest %s: %w", path, err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("boardctl: write manifest: %w", err)
	}
	return nil
}

func writeWidgetStub(path, pkg, typeName, componentType string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("boardctl: widget stub %s already exists (use --overwrite or --widget-out)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("boardctl: mkdir widget dir: %w", err)
	}
	content := fmt.Sprintf(`package %[1]s

import (
	"context"

	"github.com/goliatone/go-board/components/board"
)

// %[2]sType is the registry key for %[2]s components.
const %[2]sType = %[3]q

// %[2]s renders %[3]s components.
type %[2]s struct {
	options board.ComponentOptions
}

// New%[2]s is the component factory. Register it with
// reg.RegisterComponent(%[2]sType, New%[2]s).
func New%[2]s(o board.ComponentOptions) (board.Widget, error) {
	return &%[2]s{options: o}, nil
}

func (w *%[2]s) Type() string { return %[2]sType }

// Load builds the component markup under root.
func (w *%[2]s) Load(ctx context.Context, root *board.Element) error {
	el := root.Document().CreateElement("div")
	el.AddClass("board-%[4]s")
	el.SetText(w.options.Title)
	root.AppendChild(el)
	return nil
}

// Render redraws for the frame size.
func (w *%[2]s) Render(root *board.Element, frame board.Frame) error {
	return nil
}

func (w *%[2]s) Destroy() {}

// OptionsOnDrop returns the defaults used when the component is dropped on a cell.
func (w *%[2]s) OptionsOnDrop(board.SidebarContext) board.ComponentOptions {
	return board.ComponentOptions{Type: %[2]sType}
}
`, pkg, typeName, componentType, strcase.ToKebab(componentType))

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("boardctl: write widget stub: %w", err)
	}
	return nil
}
