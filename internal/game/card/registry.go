package card

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Registry holds all known card templates keyed by ID.
type Registry struct {
	defs map[string]*Template
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Template)}
}

// Register adds tmpl to the registry, overwriting any existing entry with
// the same ID.
// Precondition: tmpl must not be nil and tmpl.ID must not be empty.
func (r *Registry) Register(tmpl *Template) {
	r.defs[tmpl.ID] = tmpl
}

// Get returns the template for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Template, bool) {
	t, ok := r.defs[id]
	return t, ok
}

// Len returns the number of registered templates.
func (r *Registry) Len() int { return len(r.defs) }

// All returns a snapshot slice of all registered templates.
func (r *Registry) All() []*Template {
	out := make([]*Template, 0, len(r.defs))
	for _, t := range r.defs {
		out = append(out, t)
	}
	return out
}

// LoadDirectory reads every *.yaml file in dir, parses each as a Template,
// validates it, and returns a populated Registry.
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails
// to parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading card dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		reg.Register(tmpl)
	}
	return reg, nil
}

// LoadTemplateFromBytes parses and validates a single card template from raw
// YAML bytes. Unknown fields are rejected.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&tmpl); err != nil {
		return nil, fmt.Errorf("parsing card YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}
