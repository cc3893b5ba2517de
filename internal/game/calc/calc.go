// Package calc holds the pure damage and block arithmetic of the combat
// engine. Every function here is side-effect-free: identical inputs always
// yield identical outputs.
//
// All fractional multipliers truncate toward zero (floor for non-negative
// values); nothing here rounds or ceils.
package calc

// DamageOutcome is the result of applying a final damage value against a
// combatant's block and HP.
type DamageOutcome struct {
	// Blocked is the portion of damage absorbed by block.
	Blocked int
	// HPLost is the portion of damage that got through block. It is not
	// capped by current HP; flooring HP at zero is the caller's job.
	HPLost int
	// RemainingBlock is the block left after absorption.
	RemainingBlock int
	// Lethal is true when hp - HPLost <= 0.
	Lethal bool
}

// BlockOutcome is the result of computing a block gain.
type BlockOutcome struct {
	BlockGained  int
	FrailApplied bool
}

// PoisonTick is the result of one start-of-turn poison tick.
type PoisonTick struct {
	Damage    int
	Remaining int
}

// PlatedArmorTick is the result of one end-of-turn plated armor grant.
type PlatedArmorTick struct {
	BlockGranted int
	Remaining    int
}

// OutgoingDamage computes attacker-side damage: base plus strength, reduced
// by 25% when the attacker is weak, clamped at zero.
//
// Postcondition: Returns >= 0.
func OutgoingDamage(base, strength, weakStacks int) int {
	d := base + strength
	if weakStacks > 0 {
		d = d * 3 / 4
	}
	if d < 0 {
		d = 0
	}
	return d
}

// IncomingDamage computes target-side damage. Intangible overrides
// everything else and caps the hit to exactly 1; otherwise vulnerable
// increases damage by 50%. Clamped at zero.
//
// Postcondition: Returns >= 0; returns exactly 1 when intangibleStacks > 0.
func IncomingDamage(d, vulnerableStacks, intangibleStacks int) int {
	if intangibleStacks > 0 {
		return 1
	}
	if vulnerableStacks > 0 {
		d = d * 3 / 2
	}
	if d < 0 {
		d = 0
	}
	return d
}

// ApplyDamage resolves a final damage value against block and HP.
// Attacker-side modifiers must already be folded in via OutgoingDamage, then
// target-side via IncomingDamage, strictly in that order, before block.
//
// Postcondition: Blocked + HPLost == d; RemainingBlock >= 0.
func ApplyDamage(d, hp, block int) DamageOutcome {
	blocked := d
	if block < blocked {
		blocked = block
	}
	hpLost := d - block
	if hpLost < 0 {
		hpLost = 0
	}
	remaining := block - d
	if remaining < 0 {
		remaining = 0
	}
	return DamageOutcome{
		Blocked:        blocked,
		HPLost:         hpLost,
		RemainingBlock: remaining,
		Lethal:         hp-hpLost <= 0,
	}
}

// CalculateBlock computes a block gain: base plus dexterity, reduced by 25%
// when frail, clamped at zero.
//
// Postcondition: BlockGained >= 0; FrailApplied iff frailStacks > 0.
func CalculateBlock(base, dexterity, frailStacks int) BlockOutcome {
	b := base + dexterity
	frail := frailStacks > 0
	if frail {
		b = b * 3 / 4
	}
	if b < 0 {
		b = 0
	}
	return BlockOutcome{BlockGained: b, FrailApplied: frail}
}

// PoisonStartOfTurn computes the poison tick fired at the start of the
// poisoned combatant's own turn: damage equal to current stacks, then one
// stack falls off.
//
// Postcondition: Damage == stacks; Remaining == max(0, stacks-1).
func PoisonStartOfTurn(stacks int) PoisonTick {
	remaining := stacks - 1
	if remaining < 0 {
		remaining = 0
	}
	return PoisonTick{Damage: stacks, Remaining: remaining}
}

// PlatedArmorEndOfTurn computes the end-of-turn plated armor grant: block
// equal to current stacks; one stack erodes only if the owner took unblocked
// damage this turn.
//
// Postcondition: BlockGranted == stacks; Remaining >= 0.
func PlatedArmorEndOfTurn(stacks int, tookUnblockedDamage bool) PlatedArmorTick {
	remaining := stacks
	if tookUnblockedDamage {
		remaining--
		if remaining < 0 {
			remaining = 0
		}
	}
	return PlatedArmorTick{BlockGranted: stacks, Remaining: remaining}
}

// ThornsDamage is the flat reflected damage dealt to an attacker whenever
// the thorns holder is the target of a direct-damage effect.
func ThornsDamage(stacks int) int { return stacks }
