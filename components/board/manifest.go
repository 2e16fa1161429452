package board

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// ComponentManifestDocument models a YAML/JSON manifest describing component types.
type ComponentManifestDocument struct {
	Version    string              `json:"version" yaml:"version"`
	Name       string              `json:"name,omitempty" yaml:"name,omitempty"`
	Package    string              `json:"package,omitempty" yaml:"package,omitempty"`
	Components []ManifestComponent `json:"components" yaml:"components"`
	Source     string              `json:"-" yaml:"-"`
}

// ManifestComponent is a single entry within a manifest.
type ManifestComponent struct {
	Definition ComponentDefinition `json:"definition" yaml:"definition"`
	Source     ManifestSource      `json:"source,omitempty" yaml:"source,omitempty"`
	Tags       []string            `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// ManifestSource records where a component implementation lives.
type ManifestSource struct {
	Package string `json:"package,omitempty" yaml:"package,omitempty"`
	Entry   string `json:"entry,omitempty" yaml:"entry,omitempty"`
	DocsURL string `json:"docs_url,omitempty" yaml:"docs_url,omitempty"`
}

func (m ManifestSource) isZero() bool {
	return m.Package == "" && m.Entry == "" && m.DocsURL == ""
}

// LoadManifestFile reads a manifest from disk and registers its definitions.
func (r *ComponentRegistry) LoadManifestFile(path string) (*ComponentManifestDocument, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	if err := r.LoadManifestDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadManifestDocument registers definitions from a decoded manifest. It
// does not register factories; those come from code.
func (r *ComponentRegistry) LoadManifestDocument(doc *ComponentManifestDocument) error {
	if doc == nil {
		return fmt.Errorf("board: manifest document is nil")
	}
	for _, component := range doc.Components {
		if err := r.RegisterDefinition(component.Definition); err != nil {
			return fmt.Errorf("board: register component %s from %s: %w", component.Definition.Type, doc.Source, err)
		}
		r.recordManifestSource(component.Definition.Type, component.Source)
	}
	return nil
}

// ReadManifest loads a manifest file without registering it.
func ReadManifest(path string) (*ComponentManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("board: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("board: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader.
func DecodeManifest(r io.Reader) (*ComponentManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc ComponentManifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("board: manifest is empty")
		}
		return nil, fmt.Errorf("board: parse manifest: %w", err)
	}
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate ensures the manifest satisfies required fields.
func (doc *ComponentManifestDocument) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("board: unsupported manifest version %q", doc.Version)
	}
	seen := make(map[string]struct{}, len(doc.Components))
	for idx, component := range doc.Components {
		if component.Definition.Type == "" {
			return fmt.Errorf("board: manifest component at index %d is missing definition.type", idx)
		}
		if component.Definition.Name == "" {
			return fmt.Errorf("board: manifest component %s missing definition.name", component.Definition.Type)
		}
		if _, exists := seen[component.Definition.Type]; exists {
			return fmt.Errorf("board: manifest duplicates component type %s", component.Definition.Type)
		}
		seen[component.Definition.Type] = struct{}{}
	}
	return nil
}
