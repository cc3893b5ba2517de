// Package event defines the combat lifecycle event record. Every mutating
// engine call returns the ordered list of events it produced; the relic
// trigger system consumes the same list. Explicit event values keep the
// trigger flow inspectable and testable, with no callback registration.
package event

import "github.com/tfaulds/emberdeck/internal/game/vocab"

// Event is one entry in the combat event stream.
type Event struct {
	// Trigger names the lifecycle moment; relics match on it.
	Trigger vocab.Trigger
	// Value carries the trigger's magnitude where one applies: damage dealt,
	// block gained, cards drawn. Zero for pure lifecycle markers.
	Value int
	// ActorID identifies the combatant the event is about, when any.
	ActorID string
	// CardID identifies the card involved, when any.
	CardID string
}

// New is shorthand for a bare lifecycle marker with no value or subjects.
func New(trigger vocab.Trigger) Event {
	return Event{Trigger: trigger}
}
