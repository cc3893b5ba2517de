package enemy

import (
	"github.com/google/uuid"

	"github.com/tfaulds/emberdeck/internal/game/calc"
	"github.com/tfaulds/emberdeck/internal/game/combatant"
	"github.com/tfaulds/emberdeck/internal/game/rng"
	"github.com/tfaulds/emberdeck/internal/game/vocab"
)

// historySize is the length of the anti-repeat ring buffer.
const historySize = 3

// Instance is one live enemy in a combat.
type Instance struct {
	*combatant.Combatant

	Template *Template

	// history holds the names of the last moves rolled, most recent last,
	// trimmed to historySize.
	history []string
	// committed is the index into Template.Moves of the move the enemy will
	// execute on its next turn, or -1 before the first roll.
	committed int
}

// NewInstance creates a live enemy from tmpl at full HP with no committed
// move. RollMove must be called before the first ExecuteMove.
//
// Precondition: tmpl must have passed Validate.
func NewInstance(tmpl *Template) *Instance {
	return &Instance{
		Combatant: combatant.New(uuid.New().String(), tmpl.Name, tmpl.MaxHP),
		Template:  tmpl,
		committed: -1,
	}
}

// CommittedMove returns the move the enemy will execute next, or nil before
// the first roll.
func (e *Instance) CommittedMove() *MoveDef {
	if e.committed < 0 {
		return nil
	}
	return &e.Template.Moves[e.committed]
}

// Intent returns the display intent of the committed move, or IntentUnknown
// before the first roll.
func (e *Instance) Intent() Intent {
	m := e.CommittedMove()
	if m == nil {
		return IntentUnknown
	}
	return m.Intent
}

// IntentValue recomputes the displayed number for an attack intent live:
// the committed move's base damage folded through the enemy's current
// strength and weak, so player debuffs applied mid-turn are reflected before
// the enemy acts. Returns (0, false) for non-attack intents.
func (e *Instance) IntentValue() (int, bool) {
	m := e.CommittedMove()
	if m == nil || m.Intent != IntentAttack {
		return 0, false
	}
	for _, ef := range m.Effects {
		if ef.Kind.IsDamage() {
			v := calc.OutgoingDamage(ef.Value,
				e.Status(vocab.StatusStrength), e.Status(vocab.StatusWeak))
			return v, true
		}
	}
	return 0, false
}

// RollMove selects and commits the enemy's next move by weighted random
// draw over the move table. If the tentative pick repeats the most recent
// history entry and another move exists, one redraw is made uniformly by
// weight over the remaining moves; a single-move table accepts the repeat.
//
// Precondition: src must not be nil.
// Postcondition: CommittedMove() is non-nil; the move name is pushed onto
// the history, trimmed to the last 3.
func (e *Instance) RollMove(src rng.Source) {
	moves := e.Template.Moves
	pick := weightedPick(moves, src, -1)

	if len(moves) > 1 && len(e.history) > 0 && moves[pick].Name == e.history[len(e.history)-1] {
		pick = weightedPick(moves, src, pick)
	}

	e.committed = pick
	e.history = append(e.history, moves[pick].Name)
	if len(e.history) > historySize {
		e.history = e.history[len(e.history)-historySize:]
	}
}

// weightedPick draws an index by weight over moves, skipping the excluded
// index (-1 excludes nothing).
func weightedPick(moves []MoveDef, src rng.Source, exclude int) int {
	total := 0.0
	for i, m := range moves {
		if i == exclude {
			continue
		}
		total += m.Weight
	}
	r := src.Float64() * total
	for i, m := range moves {
		if i == exclude {
			continue
		}
		r -= m.Weight
		if r <= 0 {
			return i
		}
	}
	// Floating point slack: fall back to the last eligible move.
	for i := len(moves) - 1; i >= 0; i-- {
		if i != exclude {
			return i
		}
	}
	return 0
}

// ExecuteMove returns the committed move for the resolver to apply against
// the player and immediately rolls the next intent, so the displayed intent
// always reflects the upcoming move rather than the one just executed.
//
// Precondition: RollMove must have been called at least once; src must not
// be nil. Panics if no move is committed.
func (e *Instance) ExecuteMove(src rng.Source) MoveDef {
	m := e.CommittedMove()
	if m == nil {
		panic("enemy: ExecuteMove called before RollMove")
	}
	executed := *m
	e.RollMove(src)
	return executed
}

// History returns a copy of the recent move-name ring buffer, oldest first.
func (e *Instance) History() []string {
	out := make([]string, len(e.history))
	copy(out, e.history)
	return out
}
