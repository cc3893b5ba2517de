// Package potion implements single-use consumable records. A potion is an
// effect list with a targeting mode; drinking one resolves the list through
// the effect engine and consumes the slot. Potions cost no energy and are
// usable only on the player's turn.
package potion

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

// Def is one potion template. Templates are immutable after load.
type Def struct {
	ID         string       `yaml:"id"`
	Name       string       `yaml:"name"`
	Rarity     vocab.Rarity `yaml:"rarity"`
	TargetType vocab.Target `yaml:"target_type"`
	Effects    []effect.Def `yaml:"effects"`
}

// Validate checks the def against the closed vocabularies.
func (d *Def) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("potion: missing id")
	}
	if d.Name == "" {
		return fmt.Errorf("potion %s: missing name", d.ID)
	}
	if !d.Rarity.Valid() {
		return fmt.Errorf("potion %s: unknown rarity %q", d.ID, string(d.Rarity))
	}
	if !d.TargetType.Valid() {
		return fmt.Errorf("potion %s: unknown target type %q", d.ID, string(d.TargetType))
	}
	if len(d.Effects) == 0 {
		return fmt.Errorf("potion %s: no effects", d.ID)
	}
	for i, e := range d.Effects {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("potion %s: effect %d: %w", d.ID, i, err)
		}
	}
	return nil
}

// Registry holds all known potion defs keyed by ID.
type Registry struct {
	defs map[string]*Def
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Def)}
}

// Register adds def to the registry, overwriting any existing entry with the
// same ID.
func (r *Registry) Register(def *Def) {
	r.defs[def.ID] = def
}

// Get returns the def for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Def, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// Len returns the number of registered defs.
func (r *Registry) Len() int { return len(r.defs) }

// All returns a snapshot slice of all registered defs.
func (r *Registry) All() []*Def {
	out := make([]*Def, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	return out
}

// LoadDirectory reads every *.yaml file in dir, parses each as a Def,
// validates it, and returns a populated Registry.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading potion dir %q: %w", dir, err)
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
		def, err := LoadDefFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		reg.Register(def)
	}
	return reg, nil
}

// LoadDefFromBytes parses and validates a single potion def from raw YAML
// bytes. Unknown fields are rejected.
func LoadDefFromBytes(data []byte) (*Def, error) {
	var def Def
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("parsing potion YAML: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}
