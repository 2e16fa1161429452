package board

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ConfigValidator validates flattened component options against a definition.
type ConfigValidator interface {
	Validate(def ComponentDefinition, options map[string]any) error
}

// JSONSchemaValidator compiles definition schemas and validates option maps.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate ensures options satisfy the definition schema. Definitions without
// a schema accept anything.
func (v *JSONSchemaValidator) Validate(def ComponentDefinition, options map[string]any) error {
	if len(def.Schema) == 0 {
		return nil
	}
	schema, err := v.schemaFor(def)
	if err != nil {
		return err
	}
	payload := map[string]any{}
	if options != nil {
		data, err := json.Marshal(options)
		if err != nil {
			return fmt.Errorf("board: marshal options for %s: %w", def.Type, err)
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("board: normalize options for %s: %w", def.Type, err)
		}
	}
	if err := schema.Validate(payload); err != nil {
		return &InvalidOptionsError{Type: def.Type, Name: def.Name, Fields: rejectedFields(err), Err: err}
	}
	return nil
}

// rejectedFields collects the option paths of the innermost schema failures,
// "chartOptions.series" for "/chartOptions/series". A failure on the whole
// object is reported as "$".
func rejectedFields(err error) []string {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil
	}
	seen := map[string]bool{}
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) > 0 {
			for _, cause := range e.Causes {
				walk(cause)
			}
			return
		}
		path := strings.ReplaceAll(strings.TrimPrefix(e.InstanceLocation, "/"), "/", ".")
		if path == "" {
			path = "$"
		}
		seen[path] = true
	}
	walk(verr)
	fields := make([]string, 0, len(seen))
	for path := range seen {
		fields = append(fields, path)
	}
	sort.Strings(fields)
	return fields
}

func (v *JSONSchemaValidator) schemaFor(def ComponentDefinition) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[def.Type]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	data, err := json.Marshal(def.Schema)
	if err != nil {
		return nil, fmt.Errorf("board: marshal schema %s: %w", def.Type, err)
	}
	compiler := jsonschema.NewCompiler()
	name := def.Type + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("board: load schema %s: %w", def.Type, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("board: compile schema %s: %w", def.Type, err)
	}
	v.mu.Lock()
	v.compiled[def.Type] = compiled
	v.mu.Unlock()
	return compiled, nil
}

// NoopValidator accepts every payload.
type NoopValidator struct{}

func (NoopValidator) Validate(ComponentDefinition, map[string]any) error { return nil }
