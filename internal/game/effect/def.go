// Package effect defines the declarative effect record shared by cards,
// potions, enemy moves and relic-independent content, and the resolution
// engine that interprets ordered effect lists against a combat context.
package effect

import (
	"fmt"

	"github.com/tfaulds/emberdeck/internal/game/vocab"
)

// Def is one declarative effect in a card, potion or enemy move. Templates
// are immutable after load.
type Def struct {
	Kind  vocab.EffectKind `yaml:"kind"`
	Value int              `yaml:"value"`
	// Target overrides the owning card's target mode for this effect.
	// Empty means "inherit". Enemy move effects aimed at the player use SELF
	// from the enemy's perspective for buffs and SINGLE_ENEMY for hits; the
	// resolver maps perspective, see Context.
	Target vocab.Target `yaml:"target,omitempty"`
	// ValueScript is an optional sandboxed Lua expression that recomputes
	// Value from the live combat context (e.g. poison stacks on the target,
	// discard pile size). An empty script means the static Value is used.
	ValueScript string `yaml:"value_script,omitempty"`
}

// Validate checks the def against the closed vocabularies.
//
// Postcondition: Returns nil iff Kind is known and Target, when set, is known.
func (d Def) Validate() error {
	if !d.Kind.Valid() {
		return fmt.Errorf("effect: unknown kind %q", string(d.Kind))
	}
	if d.Target != "" && !d.Target.Valid() {
		return fmt.Errorf("effect %s: unknown target %q", d.Kind, string(d.Target))
	}
	return nil
}
