package effect

import (
	"go.uber.org/zap"

	"github.com/tfaulds/emberdeck/internal/game/combatant"
	"github.com/tfaulds/emberdeck/internal/game/event"
	"github.com/tfaulds/emberdeck/internal/game/rng"
	"github.com/tfaulds/emberdeck/internal/game/vocab"
	"github.com/tfaulds/emberdeck/internal/scripting"
)

// Hooks are the pile and energy operations the resolver cannot perform
// itself because piles live in the combat state machine. Each hook performs
// the mutation and returns the events it produced. A nil hook means the
// operation is unavailable in this context (enemy moves have no piles); the
// effect is skipped with a warn log.
type Hooks struct {
	Draw                func(n int) []event.Event
	DiscardRandom       func(n int) []event.Event
	ExhaustRandom       func(n int) []event.Event
	GainEnergy          func(n int)
	LoseEnergy          func(n int)
	AddCopyToDiscard    func(n int) []event.Event
	UpgradeRandomInHand func(n int)
	// PileCounts feeds the value-script environment. Nil reports all zeros.
	PileCounts func() (hand, draw, discard, exhaust int)
}

// Context carries everything one Resolve call needs. The resolver sees only
// combatants; which side is "foe" is the caller's perspective mapping, so the
// same code serves player cards, potions and enemy moves.
type Context struct {
	// Player is the player's combatant, used for player-relative script
	// variables and PLAYER_DAMAGED attribution. It is the Source for cards
	// and potions and a foe target for enemy moves.
	Player *combatant.Combatant
	// Source is the combatant performing the effects.
	Source *combatant.Combatant
	// Foes are the living opponents of Source, in roster order.
	Foes []*combatant.Combatant
	// Target is the chosen foe for SINGLE_ENEMY effects, nil when the action
	// is untargeted.
	Target *combatant.Combatant
	// DefaultTarget is the owning card's targeting mode, inherited by effects
	// that do not override it. Empty inherits as SELF.
	DefaultTarget vocab.Target
	// CardID names the owning card in emitted events, empty for potions and
	// enemy moves.
	CardID string

	// EnergySpent is the energy paid for the action. XCost scales effect
	// magnitudes by it.
	EnergySpent int
	XCost       bool

	Src     rng.Source
	Log     *zap.Logger
	Scripts *scripting.Evaluator
	Hooks   Hooks
}

// Result reports the outcome of one effect in the list.
type Result struct {
	Kind    vocab.EffectKind
	Success bool
	// Value is the realised magnitude: HP actually lost, block actually
	// gained, cards actually drawn.
	Value int
	// Continue is false when the remaining effects in the list must not run,
	// e.g. the chosen target died mid-sequence.
	Continue bool
}

// Resolve executes an ordered effect list against ctx and returns one Result
// per attempted effect plus the events produced. A Continue=false result
// halts the rest of the list without erroring; data problems (failing value
// script, missing hook) skip the single effect with a warn log.
//
// Precondition: ctx.Source, ctx.Src and ctx.Log must not be nil.
func Resolve(effects []Def, ctx *Context) ([]Result, []event.Event) {
	results := make([]Result, 0, len(effects))
	var events []event.Event

	for _, def := range effects {
		res, evs := resolveOne(def, ctx)
		results = append(results, res)
		events = append(events, evs...)
		if !res.Continue {
			break
		}
	}
	return results, events
}

func resolveOne(def Def, ctx *Context) (Result, []event.Event) {
	res := Result{Kind: def.Kind, Continue: true}

	targets, ok := ctx.resolveTargets(def)
	if !ok {
		res.Continue = false
		return res, nil
	}

	value, ok := ctx.effectValue(def, targets)
	if !ok {
		return res, nil
	}

	var events []event.Event
	switch def.Kind {
	case vocab.EffectDamage, vocab.EffectDamageAll:
		for _, t := range targets {
			events = append(events, ctx.dealDamage(t, value, &res)...)
		}
		res.Success = true

	case vocab.EffectBlock:
		for _, t := range targets {
			gained := t.GainBlock(value)
			res.Value += gained
			events = append(events, event.Event{
				Trigger: vocab.TriggerBlockGained, Value: gained, ActorID: t.ID,
			})
		}
		res.Success = true

	case vocab.EffectDraw:
		evs, ok := ctx.runPileHook(ctx.Hooks.Draw, def.Kind, value)
		if ok {
			events = append(events, evs...)
			res.Value = countTrigger(evs, vocab.TriggerCardDrawn)
			res.Success = true
		}

	case vocab.EffectDiscardRandom:
		evs, ok := ctx.runPileHook(ctx.Hooks.DiscardRandom, def.Kind, value)
		if ok {
			events = append(events, evs...)
			res.Value = countTrigger(evs, vocab.TriggerCardDiscarded)
			res.Success = true
		}

	case vocab.EffectExhaustRandom:
		evs, ok := ctx.runPileHook(ctx.Hooks.ExhaustRandom, def.Kind, value)
		if ok {
			events = append(events, evs...)
			res.Value = countTrigger(evs, vocab.TriggerCardExhausted)
			res.Success = true
		}

	case vocab.EffectEnergyGain:
		if ctx.Hooks.GainEnergy == nil {
			ctx.warnNoHook(def.Kind)
			break
		}
		ctx.Hooks.GainEnergy(value)
		res.Value = value
		res.Success = true

	case vocab.EffectEnergyLose:
		if ctx.Hooks.LoseEnergy == nil {
			ctx.warnNoHook(def.Kind)
			break
		}
		ctx.Hooks.LoseEnergy(value)
		res.Value = value
		res.Success = true

	case vocab.EffectHeal:
		for _, t := range targets {
			res.Value += t.Heal(value)
		}
		res.Success = true

	case vocab.EffectLoseHP:
		for _, t := range targets {
			lost := t.LoseHP(value)
			res.Value += lost
			if t == ctx.Player {
				events = append(events, event.Event{
					Trigger: vocab.TriggerPlayerDamaged, Value: lost, ActorID: t.ID,
				})
			}
			if t.IsDead() && t != ctx.Player {
				events = append(events, event.Event{
					Trigger: vocab.TriggerEnemyKilled, ActorID: t.ID,
				})
			}
		}
		res.Success = true

	case vocab.EffectAddCopyToDiscard:
		evs, ok := ctx.runPileHook(ctx.Hooks.AddCopyToDiscard, def.Kind, value)
		if ok {
			events = append(events, evs...)
			res.Value = value
			res.Success = true
		}

	case vocab.EffectUpgradeInHand:
		if ctx.Hooks.UpgradeRandomInHand == nil {
			ctx.warnNoHook(def.Kind)
			break
		}
		ctx.Hooks.UpgradeRandomInHand(value)
		res.Value = value
		res.Success = true

	case vocab.EffectRetainBlock:
		for _, t := range targets {
			t.RetainBlockNextTurn()
		}
		res.Success = true

	default:
		if status, isStatus := def.Kind.AppliedStatus(); isStatus {
			for _, t := range targets {
				if t.ApplyStatus(status, value) {
					events = append(events, event.Event{
						Trigger: vocab.TriggerDebuffPrevented, ActorID: t.ID,
					})
					continue
				}
				res.Value += value
			}
			res.Success = true
			break
		}
		// Validate rejects unknown kinds at load time; reaching here means a
		// def bypassed loading. Skip it rather than corrupt state.
		ctx.Log.Warn("skipping effect with unknown kind",
			zap.String("kind", string(def.Kind)))
	}

	return res, events
}

// dealDamage runs the full attack pipeline from Source against t, including
// thorns reflection, and accumulates HP lost into res.Value.
func (ctx *Context) dealDamage(t *combatant.Combatant, base int, res *Result) []event.Event {
	var events []event.Event

	rep := t.TakeDamage(base, combatant.AttackerView{
		Strength:   ctx.Source.Status(vocab.StatusStrength),
		WeakStacks: ctx.Source.Status(vocab.StatusWeak),
	})
	res.Value += rep.HPLost

	events = append(events, event.Event{
		Trigger: vocab.TriggerDamageDealt, Value: rep.HPLost,
		ActorID: t.ID, CardID: ctx.CardID,
	})
	if t == ctx.Player {
		events = append(events, event.Event{
			Trigger: vocab.TriggerPlayerDamaged, Value: rep.HPLost, ActorID: t.ID,
		})
	}
	if rep.Died && t != ctx.Player {
		events = append(events, event.Event{
			Trigger: vocab.TriggerEnemyKilled, ActorID: t.ID,
		})
	}

	if thorns := t.Status(vocab.StatusThorns); thorns > 0 && !rep.Died {
		lost := ctx.Source.LoseHP(thorns)
		if ctx.Source == ctx.Player {
			events = append(events, event.Event{
				Trigger: vocab.TriggerPlayerDamaged, Value: lost, ActorID: ctx.Source.ID,
			})
		} else if ctx.Source.IsDead() {
			events = append(events, event.Event{
				Trigger: vocab.TriggerEnemyKilled, ActorID: ctx.Source.ID,
			})
		}
	}
	return events
}

// resolveTargets maps the effect's targeting mode to concrete combatants.
// The second return is false when the mode needs foes and none qualify,
// which halts the remaining effect list.
func (ctx *Context) resolveTargets(def Def) ([]*combatant.Combatant, bool) {
	mode := def.Target
	if mode == "" {
		mode = ctx.DefaultTarget
	}
	if mode == "" {
		mode = vocab.TargetSelf
	}

	switch mode {
	case vocab.TargetSelf:
		return []*combatant.Combatant{ctx.Source}, true

	case vocab.TargetSingleEnemy:
		if ctx.Target == nil || ctx.Target.IsDead() {
			return nil, false
		}
		return []*combatant.Combatant{ctx.Target}, true

	case vocab.TargetAllEnemies:
		living := ctx.livingFoes()
		if len(living) == 0 {
			return nil, false
		}
		return living, true

	case vocab.TargetRandomEnemy:
		living := ctx.livingFoes()
		if len(living) == 0 {
			return nil, false
		}
		return []*combatant.Combatant{living[ctx.Src.Intn(len(living))]}, true
	}
	return nil, false
}

func (ctx *Context) livingFoes() []*combatant.Combatant {
	living := make([]*combatant.Combatant, 0, len(ctx.Foes))
	for _, f := range ctx.Foes {
		if !f.IsDead() {
			living = append(living, f)
		}
	}
	return living
}

// effectValue computes the magnitude for def: static value, optionally
// recomputed by a value script, then scaled by energy spent for X-cost
// actions. A failing script skips the effect (second return false) with a
// warn log rather than aborting the action.
func (ctx *Context) effectValue(def Def, targets []*combatant.Combatant) (int, bool) {
	value := def.Value

	if def.ValueScript != "" {
		if ctx.Scripts == nil {
			ctx.Log.Warn("effect has a value script but no evaluator is wired, skipping",
				zap.String("kind", string(def.Kind)))
			return 0, false
		}
		v, err := ctx.Scripts.Value(def.ValueScript, ctx.scriptEnv(value, targets))
		if err != nil {
			ctx.Log.Warn("value script failed, skipping effect",
				zap.String("kind", string(def.Kind)), zap.Error(err))
			return 0, false
		}
		value = v
	}

	if ctx.XCost {
		value *= ctx.EnergySpent
	}

	if _, isStatus := def.Kind.AppliedStatus(); !isStatus && value < 0 {
		value = 0
	}
	return value, true
}

func (ctx *Context) scriptEnv(base int, targets []*combatant.Combatant) scripting.ValueEnv {
	env := scripting.ValueEnv{
		BaseValue:   base,
		EnergySpent: ctx.EnergySpent,
	}
	if ctx.Hooks.PileCounts != nil {
		env.HandCount, env.DrawCount, env.DiscardCount, env.ExhaustCount = ctx.Hooks.PileCounts()
	}
	if p := ctx.Player; p != nil {
		env.PlayerHP = p.CurrentHP
		env.PlayerMaxHP = p.MaxHP
		env.PlayerBlock = p.Block
	}
	if len(targets) > 0 {
		t := targets[0]
		env.TargetHP = t.CurrentHP
		env.TargetMaxHP = t.MaxHP
		env.TargetBlock = t.Block
		env.TargetPoison = t.Status(vocab.StatusPoison)
	}
	return env
}

func (ctx *Context) runPileHook(hook func(int) []event.Event, kind vocab.EffectKind, n int) ([]event.Event, bool) {
	if hook == nil {
		ctx.warnNoHook(kind)
		return nil, false
	}
	return hook(n), true
}

func (ctx *Context) warnNoHook(kind vocab.EffectKind) {
	ctx.Log.Warn("effect kind is unavailable in this context, skipping",
		zap.String("kind", string(kind)))
}

func countTrigger(events []event.Event, trigger vocab.Trigger) int {
	n := 0
	for _, e := range events {
		if e.Trigger == trigger {
			n++
		}
	}
	return n
}
