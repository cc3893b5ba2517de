package relic

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/tfaulds/emberdeck/internal/game/vocab"
)

// defYAML is the on-disk shape. Triggers are kept raw here because older
// third-party relic packs use lower-camel spellings; NormalizeTrigger maps
// them to the canonical vocabulary at load time.
type defYAML struct {
	ID           string       `yaml:"id"`
	Name         string       `yaml:"name"`
	Description  string       `yaml:"description,omitempty"`
	Rarity       vocab.Rarity `yaml:"rarity"`
	Effects      []effectYAML `yaml:"effects"`
	ResetCounter bool         `yaml:"reset_counter_on_combat_start,omitempty"`
}

type effectYAML struct {
	Trigger string       `yaml:"trigger"`
	Action  vocab.Action `yaml:"action"`
	Value   int          `yaml:"value,omitempty"`
	Every   int          `yaml:"every,omitempty"`
}

// Registry holds all known relic defs keyed by ID.
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
// validates it, and returns a populated Registry. Unrecognised trigger names
// are normalized or passed through with a warning, never a hard failure.
//
// Precondition: dir must be a readable directory; logger must not be nil.
func LoadDirectory(dir string, logger *zap.Logger) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading relic dir %q: %w", dir, err)
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
		def, err := LoadDefFromBytes(data, logger)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		reg.Register(def)
	}
	return reg, nil
}

// LoadDefFromBytes parses and validates a single relic def from raw YAML
// bytes. Unknown fields are rejected; unknown trigger names are normalized
// per vocab.NormalizeTrigger.
func LoadDefFromBytes(data []byte, logger *zap.Logger) (*Def, error) {
	var raw defYAML
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing relic YAML: %w", err)
	}

	def := &Def{
		ID:                        raw.ID,
		Name:                      raw.Name,
		Description:               raw.Description,
		Rarity:                    raw.Rarity,
		Effects:                   make([]EffectDef, len(raw.Effects)),
		ResetCounterOnCombatStart: raw.ResetCounter,
	}
	for i, e := range raw.Effects {
		def.Effects[i] = EffectDef{
			Trigger: vocab.NormalizeTrigger(e.Trigger, logger),
			Action:  e.Action,
			Value:   e.Value,
			Every:   e.Every,
		}
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}
