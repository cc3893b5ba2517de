// Package enemy provides enemy templates with declarative move tables, live
// enemy instances, and the move-selection AI (weighted random with
// anti-repeat and one-move-ahead intents).
package enemy

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tfaulds/emberdeck/internal/game/effect"
	"github.com/tfaulds/emberdeck/internal/game/vocab"
)

// Intent classifies what a committed move will do, for display ahead of the
// enemy acting.
type Intent string

const (
	IntentAttack  Intent = "ATTACK"
	IntentDefend  Intent = "DEFEND"
	IntentBuff    Intent = "BUFF"
	IntentDebuff  Intent = "DEBUFF"
	IntentUnknown Intent = "UNKNOWN"
)

// Valid reports whether i is a member of the closed intent vocabulary.
func (i Intent) Valid() bool {
	switch i {
	case IntentAttack, IntentDefend, IntentBuff, IntentDebuff, IntentUnknown:
		return true
	}
	return false
}

// UnmarshalYAML validates the tag against the closed vocabulary at load time.
func (i *Intent) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	ii := Intent(s)
	if !ii.Valid() {
		return fmt.Errorf("unknown intent %q", s)
	}
	*i = ii
	return nil
}

// MoveDef is one entry in an enemy's move table.
type MoveDef struct {
	Name    string       `yaml:"name"`
	Intent  Intent       `yaml:"intent"`
	Weight  float64      `yaml:"weight"`
	Effects []effect.Def `yaml:"effects"`
}

// Template defines a reusable enemy archetype loaded from YAML.
type Template struct {
	ID    string          `yaml:"id"`
	Name  string          `yaml:"name"`
	Type  vocab.EnemyType `yaml:"type"`
	MaxHP int             `yaml:"max_hp"`
	Moves []MoveDef       `yaml:"moves"`
}

// Validate checks that the template satisfies basic invariants.
//
// Postcondition: Returns nil iff ID and Name are non-empty, MaxHP >= 1, the
// type tag is known, there is at least one move, and every move has a
// positive weight and valid effects.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("enemy template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("enemy template %q: name must not be empty", t.ID)
	}
	if !t.Type.Valid() {
		return fmt.Errorf("enemy template %q: unknown type %q", t.ID, string(t.Type))
	}
	if t.MaxHP < 1 {
		return fmt.Errorf("enemy template %q: max_hp must be >= 1", t.ID)
	}
	if len(t.Moves) == 0 {
		return fmt.Errorf("enemy template %q: must have at least one move", t.ID)
	}
	for i, m := range t.Moves {
		if m.Name == "" {
			return fmt.Errorf("enemy template %q: move[%d] must have a name", t.ID, i)
		}
		if !m.Intent.Valid() {
			return fmt.Errorf("enemy template %q: move %q: unknown intent %q", t.ID, m.Name, string(m.Intent))
		}
		if m.Weight <= 0 {
			return fmt.Errorf("enemy template %q: move %q: weight must be > 0, got %v", t.ID, m.Name, m.Weight)
		}
		if len(m.Effects) == 0 {
			return fmt.Errorf("enemy template %q: move %q: must have at least one effect", t.ID, m.Name)
		}
		for j, e := range m.Effects {
			if err := e.Validate(); err != nil {
				return fmt.Errorf("enemy template %q: move %q: effect[%d]: %w", t.ID, m.Name, j, err)
			}
		}
	}
	return nil
}

// Registry holds all known enemy templates keyed by ID.
type Registry struct {
	defs map[string]*Template
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Template)}
}

// Register adds tmpl, overwriting any existing entry with the same ID.
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

// LoadTemplateFromBytes parses and validates a single enemy template.
// Unknown fields are rejected.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&tmpl); err != nil {
		return nil, fmt.Errorf("parsing enemy YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadDirectory reads every *.yaml file in dir and returns a populated
// Registry, or an error on the first parse or validation failure.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading enemy dir %q: %w", dir, err)
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
