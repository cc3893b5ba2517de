package effect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tfaulds/emberdeck/internal/game/combatant"
	"github.com/tfaulds/emberdeck/internal/game/effect"
	"github.com/tfaulds/emberdeck/internal/game/event"
	"github.com/tfaulds/emberdeck/internal/game/rng"
	"github.com/tfaulds/emberdeck/internal/game/vocab"
	"github.com/tfaulds/emberdeck/internal/scripting"
)

func newCtx(t *testing.T) (*effect.Context, *combatant.Combatant, *combatant.Combatant) {
	t.Helper()
	player := combatant.New("player", "Player", 70)
	foe := combatant.New("foe-1", "Cultist", 48)
	ctx := &effect.Context{
		Player:        player,
		Source:        player,
		Foes:          []*combatant.Combatant{foe},
		Target:        foe,
		DefaultTarget: vocab.TargetSingleEnemy,
		Src:           rng.NewSeededSource(1),
		Log:           zap.NewNop(),
	}
	return ctx, player, foe
}

func TestResolve_DamagePipeline(t *testing.T) {
	ctx, player, foe := newCtx(t)
	player.ApplyStatus(vocab.StatusStrength, 2)
	foe.ApplyStatus(vocab.StatusVulnerable, 1)
	foe.GainBlockFlat(10)

	results, events := effect.Resolve([]effect.Def{
		{Kind: vocab.EffectDamage, Value: 6},
	}, ctx)

	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
	// (6+2)*1.5 = 12; 10 blocked, 2 to HP.
	assert.Equal(t, 2, results[0].Value)
	assert.Equal(t, 46, foe.CurrentHP)
	assert.Equal(t, 0, foe.Block)

	require.Len(t, events, 1)
	assert.Equal(t, vocab.TriggerDamageDealt, events[0].Trigger)
	assert.Equal(t, 2, events[0].Value)
	assert.Equal(t, "foe-1", events[0].ActorID)
}

func TestResolve_KillEmitsEnemyKilled(t *testing.T) {
	ctx, _, foe := newCtx(t)
	foe.CurrentHP = 3

	_, events := effect.Resolve([]effect.Def{
		{Kind: vocab.EffectDamage, Value: 6},
	}, ctx)

	triggers := triggerList(events)
	assert.Contains(t, triggers, vocab.TriggerDamageDealt)
	assert.Contains(t, triggers, vocab.TriggerEnemyKilled)
	assert.True(t, foe.IsDead())
}

func TestResolve_DeadTargetHaltsList(t *testing.T) {
	ctx, _, foe := newCtx(t)
	foe.CurrentHP = 3

	results, _ := effect.Resolve([]effect.Def{
		{Kind: vocab.EffectDamage, Value: 6},
		{Kind: vocab.EffectApplyWeak, Value: 2},
		{Kind: vocab.EffectApplyVulnerable, Value: 2},
	}, ctx)

	// The kill succeeds; the second effect finds a dead target and halts; the
	// third never runs.
	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.False(t, results[1].Continue)
}

func TestResolve_AllEnemiesSkipsDead(t *testing.T) {
	ctx, _, foe := newCtx(t)
	second := combatant.New("foe-2", "Cultist", 48)
	dead := combatant.New("foe-3", "Cultist", 48)
	dead.CurrentHP = 0
	ctx.Foes = []*combatant.Combatant{foe, second, dead}

	results, _ := effect.Resolve([]effect.Def{
		{Kind: vocab.EffectDamageAll, Value: 5, Target: vocab.TargetAllEnemies},
	}, ctx)

	require.Len(t, results, 1)
	assert.Equal(t, 10, results[0].Value)
	assert.Equal(t, 43, foe.CurrentHP)
	assert.Equal(t, 43, second.CurrentHP)
	assert.Equal(t, 0, dead.CurrentHP)
}

func TestResolve_RandomEnemyUsesSource(t *testing.T) {
	ctx, _, foe := newCtx(t)
	second := combatant.New("foe-2", "Cultist", 48)
	ctx.Foes = []*combatant.Combatant{foe, second}

	for i := 0; i < 50; i++ {
		effect.Resolve([]effect.Def{
			{Kind: vocab.EffectDamage, Value: 1, Target: vocab.TargetRandomEnemy},
		}, ctx)
	}
	// Both foes get hit over 50 uniform draws.
	assert.Less(t, foe.CurrentHP, 48)
	assert.Less(t, second.CurrentHP, 48)
}

func TestResolve_ArtifactPreventsDebuff(t *testing.T) {
	ctx, _, foe := newCtx(t)
	foe.ApplyStatus(vocab.StatusArtifact, 1)

	results, events := effect.Resolve([]effect.Def{
		{Kind: vocab.EffectApplyWeak, Value: 2},
		{Kind: vocab.EffectApplyVulnerable, Value: 2},
	}, ctx)

	require.Len(t, results, 2)
	assert.Equal(t, 0, foe.Status(vocab.StatusWeak))
	assert.Equal(t, 2, foe.Status(vocab.StatusVulnerable))

	require.Len(t, events, 1)
	assert.Equal(t, vocab.TriggerDebuffPrevented, events[0].Trigger)
}

func TestResolve_ThornsReflect(t *testing.T) {
	ctx, player, foe := newCtx(t)
	foe.ApplyStatus(vocab.StatusThorns, 3)

	_, events := effect.Resolve([]effect.Def{
		{Kind: vocab.EffectDamage, Value: 6},
	}, ctx)

	assert.Equal(t, 67, player.CurrentHP)
	assert.Contains(t, triggerList(events), vocab.TriggerPlayerDamaged)
}

func TestResolve_SelfBlockWithDexterity(t *testing.T) {
	ctx, player, _ := newCtx(t)
	player.ApplyStatus(vocab.StatusDexterity, 2)

	results, events := effect.Resolve([]effect.Def{
		{Kind: vocab.EffectBlock, Value: 5, Target: vocab.TargetSelf},
	}, ctx)

	require.Len(t, results, 1)
	assert.Equal(t, 7, results[0].Value)
	assert.Equal(t, 7, player.Block)
	require.Len(t, events, 1)
	assert.Equal(t, vocab.TriggerBlockGained, events[0].Trigger)
}

func TestResolve_DrawHook(t *testing.T) {
	ctx, _, _ := newCtx(t)
	var requested int
	ctx.Hooks.Draw = func(n int) []event.Event {
		requested = n
		out := make([]event.Event, n)
		for i := range out {
			out[i] = event.Event{Trigger: vocab.TriggerCardDrawn}
		}
		return out
	}

	results, events := effect.Resolve([]effect.Def{
		{Kind: vocab.EffectDraw, Value: 3, Target: vocab.TargetSelf},
	}, ctx)

	assert.Equal(t, 3, requested)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
	assert.Equal(t, 3, results[0].Value)
	assert.Len(t, events, 3)
}

func TestResolve_MissingHookSkipsWithoutHalting(t *testing.T) {
	ctx, _, foe := newCtx(t)

	results, _ := effect.Resolve([]effect.Def{
		{Kind: vocab.EffectDraw, Value: 2, Target: vocab.TargetSelf},
		{Kind: vocab.EffectDamage, Value: 6},
	}, ctx)

	require.Len(t, results, 2)
	assert.False(t, results[0].Success)
	assert.True(t, results[0].Continue)
	assert.True(t, results[1].Success)
	assert.Equal(t, 42, foe.CurrentHP)
}

func TestResolve_ValueScript(t *testing.T) {
	ctx, _, foe := newCtx(t)
	ctx.Scripts = scripting.NewEvaluator(0, zap.NewNop())
	foe.ApplyStatus(vocab.StatusPoison, 4)

	results, _ := effect.Resolve([]effect.Def{
		{Kind: vocab.EffectDamage, ValueScript: "target_poison * 2"},
	}, ctx)

	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
	assert.Equal(t, 8, results[0].Value)
	assert.Equal(t, 40, foe.CurrentHP)
}

func TestResolve_FailingScriptSkipsEffect(t *testing.T) {
	ctx, _, foe := newCtx(t)
	ctx.Scripts = scripting.NewEvaluator(0, zap.NewNop())

	results, _ := effect.Resolve([]effect.Def{
		{Kind: vocab.EffectDamage, ValueScript: "nonsense +"},
		{Kind: vocab.EffectDamage, Value: 6},
	}, ctx)

	require.Len(t, results, 2)
	assert.False(t, results[0].Success)
	assert.True(t, results[0].Continue)
	assert.True(t, results[1].Success)
	assert.Equal(t, 42, foe.CurrentHP)
}

func TestResolve_XCostScaling(t *testing.T) {
	ctx, _, foe := newCtx(t)
	ctx.XCost = true
	ctx.EnergySpent = 3

	results, _ := effect.Resolve([]effect.Def{
		{Kind: vocab.EffectDamage, Value: 2},
	}, ctx)

	require.Len(t, results, 1)
	assert.Equal(t, 6, results[0].Value)
	assert.Equal(t, 42, foe.CurrentHP)
}

func TestResolve_XCostZeroEnergyIsNoop(t *testing.T) {
	ctx, _, foe := newCtx(t)
	ctx.XCost = true
	ctx.EnergySpent = 0

	results, _ := effect.Resolve([]effect.Def{
		{Kind: vocab.EffectDamage, Value: 2},
	}, ctx)

	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].Value)
	assert.Equal(t, 48, foe.CurrentHP)
}

func TestResolve_EnemyPerspective(t *testing.T) {
	player := combatant.New("player", "Player", 70)
	foe := combatant.New("foe-1", "Cultist", 48)
	foe.ApplyStatus(vocab.StatusStrength, 3)
	ctx := &effect.Context{
		Player:        player,
		Source:        foe,
		Foes:          []*combatant.Combatant{player},
		Target:        player,
		DefaultTarget: vocab.TargetSingleEnemy,
		Src:           rng.NewSeededSource(1),
		Log:           zap.NewNop(),
	}

	_, events := effect.Resolve([]effect.Def{
		{Kind: vocab.EffectDamage, Value: 6},
		{Kind: vocab.EffectApplyRitual, Value: 3, Target: vocab.TargetSelf},
	}, ctx)

	assert.Equal(t, 61, player.CurrentHP)
	assert.Equal(t, 3, foe.Status(vocab.StatusRitual))
	assert.Contains(t, triggerList(events), vocab.TriggerPlayerDamaged)
}

func TestResolve_IntangibleCapsToOne(t *testing.T) {
	ctx, _, foe := newCtx(t)
	foe.ApplyStatus(vocab.StatusIntangible, 1)

	results, _ := effect.Resolve([]effect.Def{
		{Kind: vocab.EffectDamage, Value: 40},
	}, ctx)

	assert.Equal(t, 1, results[0].Value)
	assert.Equal(t, 47, foe.CurrentHP)
}

func triggerList(events []event.Event) []vocab.Trigger {
	out := make([]vocab.Trigger, len(events))
	for i, e := range events {
		out[i] = e.Trigger
	}
	return out
}
