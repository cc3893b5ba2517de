package relic

import (
	"go.uber.org/zap"

	"github.com/tfaulds/emberdeck/internal/game/combatant"
	"github.com/tfaulds/emberdeck/internal/game/event"
	"github.com/tfaulds/emberdeck/internal/game/rng"
	"github.com/tfaulds/emberdeck/internal/game/vocab"
)

// Hooks are the operations relic actions need from the combat state machine.
// A nil hook skips the action with a warn log.
type Hooks struct {
	Draw       func(n int) []event.Event
	GainEnergy func(n int)
	GainGold   func(n int)
	GainMaxHP  func(n int)
}

// Context carries the combat state a Process call acts against.
type Context struct {
	Player *combatant.Combatant
	Foes   []*combatant.Combatant
	Src    rng.Source
	Log    *zap.Logger
	Hooks  Hooks
}

// Belt is the ordered set of held relics. Order is pickup order and is the
// processing order, so relic interactions are deterministic.
type Belt struct {
	held []*State
}

// NewBelt creates a belt holding the given defs in order.
func NewBelt(defs ...*Def) *Belt {
	b := &Belt{}
	for _, d := range defs {
		b.Add(d)
	}
	return b
}

// Add appends a relic to the end of the belt.
func (b *Belt) Add(def *Def) { b.held = append(b.held, NewState(def)) }

// Held returns the held relics in processing order.
func (b *Belt) Held() []*State { return b.held }

// OnCombatStart resets the Every counters of relics that opt into per-combat
// counters. Call before emitting COMBAT_START into Process.
func (b *Belt) OnCombatStart() {
	for _, s := range b.held {
		if s.Def.ResetCounterOnCombatStart {
			s.resetCounters()
		}
	}
}

// Process scans the event list in order; for each event, every held relic is
// checked in belt order and matching effects run. Direct effects run on every
// matching event; Every-gated effects increment their counter and run once
// each time it reaches Every, then reset. Events produced by relic actions
// are returned but not re-scanned, so relics cannot cascade into each other.
//
// Postcondition: counters of fired Every-gated effects are reset to 0.
func (b *Belt) Process(events []event.Event, ctx *Context) []event.Event {
	var produced []event.Event
	for _, ev := range events {
		for _, s := range b.held {
			for i, eff := range s.Def.Effects {
				if eff.Trigger != ev.Trigger {
					continue
				}
				if eff.Every > 0 {
					s.counters[i]++
					if s.counters[i] < eff.Every {
						continue
					}
					s.counters[i] = 0
				}
				produced = append(produced, runAction(s.Def, eff, ctx)...)
			}
		}
	}
	return produced
}

// runAction applies one relic effect against ctx and returns the events it
// produced.
func runAction(def *Def, eff EffectDef, ctx *Context) []event.Event {
	p := ctx.Player
	switch eff.Action {
	case vocab.ActionHeal:
		p.Heal(eff.Value)

	case vocab.ActionGainBlock:
		gained := p.GainBlockFlat(eff.Value)
		return []event.Event{{Trigger: vocab.TriggerBlockGained, Value: gained, ActorID: p.ID}}

	case vocab.ActionDrawCards:
		if ctx.Hooks.Draw == nil {
			ctx.Log.Warn("relic draw action has no hook, skipping", zap.String("relic", def.ID))
			return nil
		}
		return ctx.Hooks.Draw(eff.Value)

	case vocab.ActionGainEnergy:
		if ctx.Hooks.GainEnergy == nil {
			ctx.Log.Warn("relic energy action has no hook, skipping", zap.String("relic", def.ID))
			return nil
		}
		ctx.Hooks.GainEnergy(eff.Value)

	case vocab.ActionGainStrength:
		p.ApplyStatus(vocab.StatusStrength, eff.Value)

	case vocab.ActionGainDexterity:
		p.ApplyStatus(vocab.StatusDexterity, eff.Value)

	case vocab.ActionGainArtifact:
		p.ApplyStatus(vocab.StatusArtifact, eff.Value)

	case vocab.ActionGainThorns:
		p.ApplyStatus(vocab.StatusThorns, eff.Value)

	case vocab.ActionGainPlatedArmor:
		p.ApplyStatus(vocab.StatusPlatedArmor, eff.Value)

	case vocab.ActionGainGold:
		if ctx.Hooks.GainGold == nil {
			ctx.Log.Warn("relic gold action has no hook, skipping", zap.String("relic", def.ID))
			return nil
		}
		ctx.Hooks.GainGold(eff.Value)
		return []event.Event{{Trigger: vocab.TriggerGoldGained, Value: eff.Value, ActorID: p.ID}}

	case vocab.ActionGainMaxHP:
		if ctx.Hooks.GainMaxHP == nil {
			ctx.Log.Warn("relic max hp action has no hook, skipping", zap.String("relic", def.ID))
			return nil
		}
		ctx.Hooks.GainMaxHP(eff.Value)

	case vocab.ActionDamageRandom:
		living := livingFoes(ctx.Foes)
		if len(living) == 0 {
			return nil
		}
		t := living[ctx.Src.Intn(len(living))]
		return damageFoe(t, eff.Value)

	case vocab.ActionDamageAllEnemies:
		var out []event.Event
		for _, t := range livingFoes(ctx.Foes) {
			out = append(out, damageFoe(t, eff.Value)...)
		}
		return out

	case vocab.ActionRetainBlock:
		p.RetainBlockNextTurn()
	}
	return nil
}

// damageFoe applies relic damage, which carries no attacker-side modifiers
// but still respects the target's vulnerable, intangible and block.
func damageFoe(t *combatant.Combatant, value int) []event.Event {
	rep := t.TakeRawDamage(value)
	out := []event.Event{{Trigger: vocab.TriggerDamageDealt, Value: rep.HPLost, ActorID: t.ID}}
	if rep.Died {
		out = append(out, event.Event{Trigger: vocab.TriggerEnemyKilled, ActorID: t.ID})
	}
	return out
}

func livingFoes(foes []*combatant.Combatant) []*combatant.Combatant {
	living := make([]*combatant.Combatant, 0, len(foes))
	for _, f := range foes {
		if !f.IsDead() {
			living = append(living, f)
		}
	}
	return living
}
