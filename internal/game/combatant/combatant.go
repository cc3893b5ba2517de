// Package combatant provides the mutable state and primitive mutators shared
// by the player and every enemy: HP, block, and the status bag with its
// per-key tick and re-application rules.
package combatant

import (
	"fmt"

	"github.com/tfaulds/emberdeck/internal/game/calc"
	"github.com/tfaulds/emberdeck/internal/game/vocab"
)

// AttackerView is the attacker-side state the damage pipeline needs:
// strength and weak stacks at the moment of the hit.
type AttackerView struct {
	Strength   int
	WeakStacks int
}

// DamageReport describes the outcome of one TakeDamage call.
type DamageReport struct {
	// HPLost is the HP actually removed (capped by current HP).
	HPLost int
	// Blocked is the damage absorbed by block.
	Blocked int
	// Final is the post-modifier damage that was applied against block+HP.
	Final int
	// Died is true when this hit reduced the combatant to 0 HP.
	Died bool
}

// Combatant is the shared mutable shape for the player and every enemy.
//
// Invariant: 0 <= CurrentHP <= MaxHP; Block >= 0.
type Combatant struct {
	ID   string
	Name string

	MaxHP     int
	CurrentHP int
	Block     int

	statuses map[vocab.Status]int

	// tookUnblockedDamage records whether any hit got through block since the
	// last end-of-turn tick; plated armor erodes on it.
	tookUnblockedDamage bool

	// retainBlockNextTurn suppresses the block reset on the next own-turn
	// start. Set by relics/cards; consumed by TickStartOfTurn.
	retainBlockNextTurn bool
}

// New creates a combatant at full HP with an empty status bag.
//
// Precondition: maxHP >= 1. Panics otherwise.
func New(id, name string, maxHP int) *Combatant {
	if maxHP < 1 {
		panic(fmt.Sprintf("combatant: maxHP must be >= 1, got %d", maxHP))
	}
	return &Combatant{
		ID:        id,
		Name:      name,
		MaxHP:     maxHP,
		CurrentHP: maxHP,
		statuses:  make(map[vocab.Status]int),
	}
}

// IsDead reports whether the combatant is at 0 HP. Dead combatants are
// excluded from all subsequent targeting.
func (c *Combatant) IsDead() bool { return c.CurrentHP <= 0 }

// Status returns the current value for key, or 0 if absent.
func (c *Combatant) Status(key vocab.Status) int { return c.statuses[key] }

// setStatus stores v, dropping zero entries so the bag stays sparse.
func (c *Combatant) setStatus(key vocab.Status, v int) {
	if v == 0 {
		delete(c.statuses, key)
		return
	}
	c.statuses[key] = v
}

// ApplyStatus applies amount of key following the per-class combination rule:
// duration counters (weak, vulnerable, frail, intangible) take the max of
// existing and applied; magnitude counters (strength, poison, ...) add.
// Debuff-class applications are voided by an artifact stack on the target;
// the return value reports whether that happened so the caller can emit
// DEBUFF_PREVENTED.
//
// Unsigned statuses floor at zero after application.
func (c *Combatant) ApplyStatus(key vocab.Status, amount int) (prevented bool) {
	debuff := key.Debuff() || (key.Signed() && amount < 0)
	if debuff && c.TryConsumeArtifact() {
		return true
	}

	cur := c.statuses[key]
	var next int
	if key.Class() == vocab.ClassDuration {
		next = cur
		if amount > next {
			next = amount
		}
	} else {
		next = cur + amount
	}
	if !key.Signed() && next < 0 {
		next = 0
	}
	c.setStatus(key, next)
	return false
}

// TryConsumeArtifact consumes one artifact stack if any is present.
// Returns true when a stack was consumed, meaning the caller must void the
// debuff application that prompted the call.
func (c *Combatant) TryConsumeArtifact() bool {
	if c.statuses[vocab.StatusArtifact] > 0 {
		c.setStatus(vocab.StatusArtifact, c.statuses[vocab.StatusArtifact]-1)
		return true
	}
	return false
}

// TakeDamage runs the full outgoing -> incoming -> block pipeline for one hit
// against this combatant and commits the result. The attacker's strength and
// weak are folded in first, then this combatant's vulnerable and intangible,
// then block absorbs.
//
// Postcondition: CurrentHP >= 0; Block >= 0; report.HPLost is the HP actually
// removed.
func (c *Combatant) TakeDamage(base int, attacker AttackerView) DamageReport {
	out := calc.OutgoingDamage(base, attacker.Strength, attacker.WeakStacks)
	in := calc.IncomingDamage(out, c.Status(vocab.StatusVulnerable), c.Status(vocab.StatusIntangible))
	return c.commitDamage(in)
}

// TakeRawDamage applies damage with no attacker-side modifiers while still
// honouring the target-side pipeline (vulnerable, intangible, block). Relic
// damage actions use this; poison and thorns bypass even the target side and
// go through LoseHP.
func (c *Combatant) TakeRawDamage(d int) DamageReport {
	in := calc.IncomingDamage(d, c.Status(vocab.StatusVulnerable), c.Status(vocab.StatusIntangible))
	return c.commitDamage(in)
}

func (c *Combatant) commitDamage(final int) DamageReport {
	out := calc.ApplyDamage(final, c.CurrentHP, c.Block)
	c.Block = out.RemainingBlock

	hpLost := out.HPLost
	if hpLost > c.CurrentHP {
		hpLost = c.CurrentHP
	}
	c.CurrentHP -= hpLost
	if hpLost > 0 {
		c.tookUnblockedDamage = true
	}
	return DamageReport{
		HPLost:  hpLost,
		Blocked: out.Blocked,
		Final:   final,
		Died:    c.CurrentHP == 0,
	}
}

// LoseHP removes HP directly, ignoring block and all modifiers. Used by
// poison ticks, thorns reflection, and self-damage costs.
//
// Precondition: amount >= 0.
// Postcondition: CurrentHP >= 0.
func (c *Combatant) LoseHP(amount int) int {
	if amount < 0 {
		panic(fmt.Sprintf("combatant: LoseHP amount must be >= 0, got %d", amount))
	}
	if amount > c.CurrentHP {
		amount = c.CurrentHP
	}
	c.CurrentHP -= amount
	if amount > 0 {
		c.tookUnblockedDamage = true
	}
	return amount
}

// GainBlock adds to the block pool, applying dexterity and frail through the
// calculator. Returns the block actually gained.
//
// Postcondition: Block >= 0.
func (c *Combatant) GainBlock(base int) int {
	out := calc.CalculateBlock(base, c.Status(vocab.StatusDexterity), c.Status(vocab.StatusFrail))
	c.Block += out.BlockGained
	return out.BlockGained
}

// GainBlockFlat adds block without dexterity or frail, for plated armor and
// relic grants, which are not "block gained from a card" in the modifier
// sense.
func (c *Combatant) GainBlockFlat(amount int) int {
	if amount < 0 {
		amount = 0
	}
	c.Block += amount
	return amount
}

// Heal restores HP, clamped at MaxHP. Returns the HP actually restored.
func (c *Combatant) Heal(amount int) int {
	if amount < 0 {
		amount = 0
	}
	if c.CurrentHP+amount > c.MaxHP {
		amount = c.MaxHP - c.CurrentHP
	}
	c.CurrentHP += amount
	return amount
}

// RetainBlockNextTurn suppresses the block reset at the next own-turn start.
func (c *Combatant) RetainBlockNextTurn() { c.retainBlockNextTurn = true }

// StartOfTurnReport describes the automatic effects of a start-of-turn tick.
type StartOfTurnReport struct {
	PoisonDamage int
	StrengthGain int // from ritual
	Died         bool
}

// TickStartOfTurn resets block (unless retention was granted), ticks poison
// before anything else, and converts ritual stacks into strength.
//
// Postcondition: Block == 0 unless retention was pending; poison decremented
// by 1 (floor 0).
func (c *Combatant) TickStartOfTurn() StartOfTurnReport {
	var rep StartOfTurnReport

	if c.retainBlockNextTurn {
		c.retainBlockNextTurn = false
	} else {
		c.Block = 0
	}

	if poison := c.Status(vocab.StatusPoison); poison > 0 {
		tick := calc.PoisonStartOfTurn(poison)
		rep.PoisonDamage = c.LoseHP(tick.Damage)
		c.setStatus(vocab.StatusPoison, tick.Remaining)
		rep.Died = c.IsDead()
		if rep.Died {
			return rep
		}
	}

	if ritual := c.Status(vocab.StatusRitual); ritual > 0 {
		c.ApplyStatus(vocab.StatusStrength, ritual)
		rep.StrengthGain = ritual
	}

	return rep
}

// EndOfTurnReport describes the automatic effects of an end-of-turn tick.
type EndOfTurnReport struct {
	PlatedArmorBlock int
}

// TickEndOfTurn decrements the duration debuffs (weak, vulnerable, frail) by
// one each, decrements intangible, and grants plated armor block (eroding a
// stack if unblocked damage was taken this turn). Poison, strength,
// dexterity, artifact, thorns and ritual are untouched here; each decays or
// persists under its own rule.
//
// Postcondition: weak/vulnerable/frail/intangible are each reduced by at most
// 1 and never below 0.
func (c *Combatant) TickEndOfTurn() EndOfTurnReport {
	var rep EndOfTurnReport

	for _, key := range []vocab.Status{
		vocab.StatusWeak, vocab.StatusVulnerable, vocab.StatusFrail, vocab.StatusIntangible,
	} {
		if v := c.Status(key); v > 0 {
			c.setStatus(key, v-1)
		}
	}

	if plated := c.Status(vocab.StatusPlatedArmor); plated > 0 {
		tick := calc.PlatedArmorEndOfTurn(plated, c.tookUnblockedDamage)
		rep.PlatedArmorBlock = c.GainBlockFlat(tick.BlockGranted)
		c.setStatus(vocab.StatusPlatedArmor, tick.Remaining)
	}

	c.tookUnblockedDamage = false
	return rep
}

// Statuses returns a snapshot copy of the status bag for display.
func (c *Combatant) Statuses() map[vocab.Status]int {
	out := make(map[vocab.Status]int, len(c.statuses))
	for k, v := range c.statuses {
		out[k] = v
	}
	return out
}
