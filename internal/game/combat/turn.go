package combat

import (
	"github.com/tfaulds/emberdeck/internal/game/card"
	"github.com/tfaulds/emberdeck/internal/game/combatant"
	"github.com/tfaulds/emberdeck/internal/game/effect"
	"github.com/tfaulds/emberdeck/internal/game/event"
	"github.com/tfaulds/emberdeck/internal/game/vocab"
)

// beginPlayerTurn advances the turn counter, runs the player's start-of-turn
// tick (block reset, poison, ritual), refills energy and draws the hand.
func (c *Combat) beginPlayerTurn() []event.Event {
	c.turn++
	c.phase = PhasePlayerTurn

	events := []event.Event{{Trigger: vocab.TriggerTurnStart, ActorID: c.player.ID}}
	if c.turn == 1 {
		events = append(events, event.Event{Trigger: vocab.TriggerFirstTurn})
	}

	rep := c.player.TickStartOfTurn()
	if rep.PoisonDamage > 0 {
		events = append(events, event.Event{
			Trigger: vocab.TriggerPlayerDamaged, Value: rep.PoisonDamage, ActorID: c.player.ID,
		})
	}
	if rep.Died {
		return append(events, c.markDefeat()...)
	}

	c.player.Energy = c.cfg.EnergyPerTurn
	events = append(events, c.drawCards(c.cfg.HandSize)...)
	return events
}

// PlayCard plays the hand card at handIndex against the enemy at target
// (roster index; pass -1 for untargeted cards). All validation happens before
// any mutation: a rejection leaves the combat untouched.
func (c *Combat) PlayCard(handIndex, target int) ([]event.Event, error) {
	if c.phase.Over() {
		return reject(ReasonCombatOver)
	}
	if c.phase != PhasePlayerTurn {
		return reject(ReasonNotPlayerTurn)
	}
	if handIndex < 0 || handIndex >= len(c.hand) {
		return reject(ReasonEmptySlot)
	}
	in := c.hand[handIndex]
	if !in.Template.Playable() {
		return reject(ReasonUnplayable)
	}

	xcost := in.Template.XCost
	spend := in.Cost()
	if xcost {
		spend = c.player.Energy
	} else if spend > c.player.Energy {
		return reject(ReasonNoEnergy)
	}

	var chosen *combatant.Combatant
	if in.Template.Target.NeedsChosenTarget() {
		if target < 0 {
			return reject(ReasonNeedsTarget)
		}
		if target >= len(c.enemies) || c.enemies[target].IsDead() {
			return reject(ReasonInvalidTarget)
		}
		chosen = c.enemies[target].Combatant
	}

	c.player.Energy -= spend
	c.removeFromHand(handIndex)

	events := []event.Event{{Trigger: vocab.TriggerCardPlayed, CardID: in.Template.ID}}
	switch in.Template.Type {
	case vocab.CardAttack:
		events = append(events, event.Event{Trigger: vocab.TriggerAttackPlayed, CardID: in.Template.ID})
	case vocab.CardSkill:
		events = append(events, event.Event{Trigger: vocab.TriggerSkillPlayed, CardID: in.Template.ID})
	case vocab.CardPower:
		events = append(events, event.Event{Trigger: vocab.TriggerPowerPlayed, CardID: in.Template.ID})
	}

	ctx := c.playerContext(chosen, in.Template.Target, in.Template.ID, spend, xcost)
	ctx.Hooks.AddCopyToDiscard = func(n int) []event.Event {
		for i := 0; i < n; i++ {
			c.discard = append(c.discard, card.NewInstance(in.Template))
		}
		return nil
	}
	_, evs := effect.Resolve(in.Effects(), ctx)
	events = append(events, evs...)

	if in.Template.Exhaust {
		c.exhaust = append(c.exhaust, in)
		events = append(events, event.Event{Trigger: vocab.TriggerCardExhausted, CardID: in.Template.ID})
	} else {
		c.discard = append(c.discard, in)
	}

	if !c.phase.Over() {
		if c.player.IsDead() {
			events = append(events, c.markDefeat()...)
		} else {
			events = append(events, c.checkVictory()...)
		}
	}
	return c.finish(events), nil
}

// UsePotion drinks the potion in slot against the enemy at target (roster
// index; -1 for untargeted potions) and frees the slot. Potions cost no
// energy and are usable only on the player's turn.
func (c *Combat) UsePotion(slot, target int) ([]event.Event, error) {
	if c.phase.Over() {
		return reject(ReasonCombatOver)
	}
	if c.phase != PhasePlayerTurn {
		return reject(ReasonNotPlayerTurn)
	}
	if slot < 0 || slot >= len(c.player.Potions) || c.player.Potions[slot] == nil {
		return reject(ReasonEmptySlot)
	}
	def := c.player.Potions[slot]

	var chosen *combatant.Combatant
	if def.TargetType.NeedsChosenTarget() {
		if target < 0 {
			return reject(ReasonNeedsTarget)
		}
		if target >= len(c.enemies) || c.enemies[target].IsDead() {
			return reject(ReasonInvalidTarget)
		}
		chosen = c.enemies[target].Combatant
	}

	c.player.Potions[slot] = nil

	events := []event.Event{{Trigger: vocab.TriggerPotionUsed}}
	ctx := c.playerContext(chosen, def.TargetType, "", 0, false)
	_, evs := effect.Resolve(def.Effects, ctx)
	events = append(events, evs...)

	if !c.phase.Over() {
		if c.player.IsDead() {
			events = append(events, c.markDefeat()...)
		} else {
			events = append(events, c.checkVictory()...)
		}
	}
	return c.finish(events), nil
}

// EndTurn closes the player's turn (ethereal exhausts, retain stays, the rest
// discards), runs every living enemy's turn in roster order, and begins the
// next player turn unless the combat ended.
func (c *Combat) EndTurn() ([]event.Event, error) {
	if c.phase.Over() {
		return reject(ReasonCombatOver)
	}
	if c.phase != PhasePlayerTurn {
		return reject(ReasonNotPlayerTurn)
	}

	var events []event.Event
	for i := len(c.hand) - 1; i >= 0; i-- {
		t := c.hand[i].Template
		switch {
		case t.Ethereal:
			events = append(events, c.exhaustFromHand(i))
		case t.Retain:
			// stays in hand
		default:
			events = append(events, c.discardFromHand(i))
		}
	}

	rep := c.player.TickEndOfTurn()
	if rep.PlatedArmorBlock > 0 {
		events = append(events, event.Event{
			Trigger: vocab.TriggerBlockGained, Value: rep.PlatedArmorBlock, ActorID: c.player.ID,
		})
	}
	events = append(events, event.Event{Trigger: vocab.TriggerTurnEnd, ActorID: c.player.ID})

	c.phase = PhaseEnemyTurn
	events = append(events, c.enemyTurn()...)

	if !c.phase.Over() {
		events = append(events, c.beginPlayerTurn()...)
	}
	return c.finish(events), nil
}

// enemyTurn runs each living enemy in roster order: start-of-turn tick,
// committed move execution, end-of-turn tick. Returns early on victory or
// defeat.
func (c *Combat) enemyTurn() []event.Event {
	var events []event.Event
	for _, e := range c.enemies {
		if e.IsDead() {
			continue
		}

		rep := e.TickStartOfTurn()
		if rep.PoisonDamage > 0 {
			events = append(events, event.Event{
				Trigger: vocab.TriggerDamageDealt, Value: rep.PoisonDamage, ActorID: e.ID,
			})
		}
		if rep.Died {
			events = append(events, event.Event{Trigger: vocab.TriggerEnemyKilled, ActorID: e.ID})
			if evs := c.checkVictory(); len(evs) > 0 {
				return append(events, evs...)
			}
			continue
		}

		move := e.ExecuteMove(c.src)
		ctx := &effect.Context{
			Player:        c.player.Combatant,
			Source:        e.Combatant,
			Foes:          []*combatant.Combatant{c.player.Combatant},
			Target:        c.player.Combatant,
			DefaultTarget: vocab.TargetSingleEnemy,
			Src:           c.src,
			Log:           c.log,
			Scripts:       c.scripts,
		}
		_, evs := effect.Resolve(move.Effects, ctx)
		events = append(events, evs...)

		if c.player.IsDead() {
			return append(events, c.markDefeat()...)
		}
		// Player thorns can finish the attacker, or the roster.
		if evs := c.checkVictory(); len(evs) > 0 {
			return append(events, evs...)
		}

		if !e.IsDead() {
			e.TickEndOfTurn()
		}
	}
	return events
}

// playerContext builds the effect resolution context for a player-sourced
// action (card or potion).
func (c *Combat) playerContext(target *combatant.Combatant, defaultTarget vocab.Target, cardID string, energySpent int, xcost bool) *effect.Context {
	return &effect.Context{
		Player:        c.player.Combatant,
		Source:        c.player.Combatant,
		Foes:          c.foes(),
		Target:        target,
		DefaultTarget: defaultTarget,
		CardID:        cardID,
		EnergySpent:   energySpent,
		XCost:         xcost,
		Src:           c.src,
		Log:           c.log,
		Scripts:       c.scripts,
		Hooks: effect.Hooks{
			Draw:                c.drawCards,
			DiscardRandom:       c.discardRandom,
			ExhaustRandom:       c.exhaustRandom,
			GainEnergy:          c.gainEnergy,
			LoseEnergy:          c.loseEnergy,
			UpgradeRandomInHand: c.upgradeRandomInHand,
			PileCounts: func() (hand, draw, discard, exhaust int) {
				return len(c.hand), len(c.draw), len(c.discard), len(c.exhaust)
			},
		},
	}
}
