// Package relic implements passive relic records and the trigger system that
// matches them against the combat event stream. Relics are pure data: a list
// of (trigger, action, value) effects, optionally counter-gated ("every N
// firings"). The Belt owns held relics in pickup order and processes events
// against them.
package relic

import (
	"fmt"

	"github.com/tfaulds/emberdeck/internal/game/vocab"
)

// EffectDef is one trigger/action pair on a relic.
type EffectDef struct {
	Trigger vocab.Trigger
	Action  vocab.Action
	Value   int
	// Every gates the action behind a counter: the trigger must fire Every
	// times before the action runs once and the counter resets. Zero means
	// the action runs on every firing.
	Every int
}

// Def is one relic template. Templates are immutable after load.
type Def struct {
	ID          string
	Name        string
	Description string
	Rarity      vocab.Rarity
	Effects     []EffectDef
	// ResetCounterOnCombatStart clears the Every counter when a new combat
	// begins, so partial progress does not carry across fights.
	ResetCounterOnCombatStart bool
}

// Validate checks the def against the closed vocabularies.
func (d *Def) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("relic: missing id")
	}
	if d.Name == "" {
		return fmt.Errorf("relic %s: missing name", d.ID)
	}
	if !d.Rarity.Valid() {
		return fmt.Errorf("relic %s: unknown rarity %q", d.ID, string(d.Rarity))
	}
	if len(d.Effects) == 0 {
		return fmt.Errorf("relic %s: no effects", d.ID)
	}
	for i, e := range d.Effects {
		if !e.Action.Valid() {
			return fmt.Errorf("relic %s: effect %d: unknown action %q", d.ID, i, string(e.Action))
		}
		if e.Every < 0 {
			return fmt.Errorf("relic %s: effect %d: negative every", d.ID, i)
		}
	}
	return nil
}

// State is one held relic: the immutable def plus the per-effect counters.
type State struct {
	Def *Def
	// counters is indexed by effect position; only Every-gated effects use
	// their slot.
	counters []int
}

// NewState creates a held relic with all counters at zero.
func NewState(def *Def) *State {
	return &State{Def: def, counters: make([]int, len(def.Effects))}
}

// Counter returns the current counter for the effect at index i.
func (s *State) Counter(i int) int { return s.counters[i] }

// resetCounters clears all Every counters.
func (s *State) resetCounters() {
	for i := range s.counters {
		s.counters[i] = 0
	}
}
