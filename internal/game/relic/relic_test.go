package relic_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tfaulds/emberdeck/internal/game/combatant"
	"github.com/tfaulds/emberdeck/internal/game/event"
	"github.com/tfaulds/emberdeck/internal/game/relic"
	"github.com/tfaulds/emberdeck/internal/game/rng"
	"github.com/tfaulds/emberdeck/internal/game/vocab"
)

func newCtx() (*relic.Context, *combatant.Combatant, *combatant.Combatant) {
	player := combatant.New("player", "Player", 70)
	foe := combatant.New("foe-1", "Cultist", 48)
	return &relic.Context{
		Player: player,
		Foes:   []*combatant.Combatant{foe},
		Src:    rng.NewSeededSource(1),
		Log:    zap.NewNop(),
	}, player, foe
}

func anchorDef() *relic.Def {
	return &relic.Def{
		ID:     "anchor",
		Name:   "Anchor",
		Rarity: vocab.RarityCommon,
		Effects: []relic.EffectDef{
			{Trigger: vocab.TriggerFirstTurn, Action: vocab.ActionGainBlock, Value: 10},
		},
	}
}

func TestDef_Validate(t *testing.T) {
	require.NoError(t, anchorDef().Validate())

	bad := anchorDef()
	bad.Effects = nil
	assert.Error(t, bad.Validate())

	bad = anchorDef()
	bad.Effects[0].Action = "EXPLODE"
	assert.Error(t, bad.Validate())

	bad = anchorDef()
	bad.Effects[0].Every = -1
	assert.Error(t, bad.Validate())
}

func TestProcess_DirectAction(t *testing.T) {
	ctx, player, _ := newCtx()
	belt := relic.NewBelt(anchorDef())

	produced := belt.Process([]event.Event{
		{Trigger: vocab.TriggerCombatStart},
		{Trigger: vocab.TriggerFirstTurn},
	}, ctx)

	assert.Equal(t, 10, player.Block)
	require.Len(t, produced, 1)
	assert.Equal(t, vocab.TriggerBlockGained, produced[0].Trigger)
	assert.Equal(t, 10, produced[0].Value)
}

func TestProcess_NonMatchingEventIsIgnored(t *testing.T) {
	ctx, player, _ := newCtx()
	belt := relic.NewBelt(anchorDef())

	produced := belt.Process([]event.Event{
		{Trigger: vocab.TriggerTurnStart},
	}, ctx)

	assert.Zero(t, player.Block)
	assert.Empty(t, produced)
}

// An Every-gated effect fires once per N matching events and resets its
// counter each time it fires.
func TestProcess_CounterGatedAction(t *testing.T) {
	ctx, _, _ := newCtx()
	var drawn int
	ctx.Hooks.Draw = func(n int) []event.Event {
		drawn += n
		return []event.Event{{Trigger: vocab.TriggerCardDrawn}}
	}

	def := &relic.Def{
		ID:     "nunchaku",
		Name:   "Nunchaku",
		Rarity: vocab.RarityUncommon,
		Effects: []relic.EffectDef{
			{Trigger: vocab.TriggerAttackPlayed, Action: vocab.ActionDrawCards, Value: 1, Every: 3},
		},
	}
	belt := relic.NewBelt(def)

	attack := event.Event{Trigger: vocab.TriggerAttackPlayed}
	belt.Process([]event.Event{attack, attack}, ctx)
	assert.Zero(t, drawn)
	assert.Equal(t, 2, belt.Held()[0].Counter(0))

	belt.Process([]event.Event{attack}, ctx)
	assert.Equal(t, 1, drawn)
	assert.Equal(t, 0, belt.Held()[0].Counter(0))

	// A second cycle fires again at exactly three.
	belt.Process([]event.Event{attack, attack, attack}, ctx)
	assert.Equal(t, 2, drawn)
}

func TestProcess_CounterResetOnCombatStart(t *testing.T) {
	ctx, _, _ := newCtx()
	ctx.Hooks.GainEnergy = func(int) {}

	def := &relic.Def{
		ID:                        "happy_flower",
		Name:                      "Happy Flower",
		Rarity:                    vocab.RarityCommon,
		ResetCounterOnCombatStart: true,
		Effects: []relic.EffectDef{
			{Trigger: vocab.TriggerTurnStart, Action: vocab.ActionGainEnergy, Value: 1, Every: 3},
		},
	}
	belt := relic.NewBelt(def)

	turn := event.Event{Trigger: vocab.TriggerTurnStart}
	belt.Process([]event.Event{turn, turn}, ctx)
	assert.Equal(t, 2, belt.Held()[0].Counter(0))

	belt.OnCombatStart()
	assert.Equal(t, 0, belt.Held()[0].Counter(0))
}

func TestProcess_BeltOrderIsDeterministic(t *testing.T) {
	ctx, player, _ := newCtx()
	first := &relic.Def{
		ID: "a", Name: "A", Rarity: vocab.RarityCommon,
		Effects: []relic.EffectDef{
			{Trigger: vocab.TriggerCombatStart, Action: vocab.ActionGainStrength, Value: 1},
		},
	}
	second := &relic.Def{
		ID: "b", Name: "B", Rarity: vocab.RarityCommon,
		Effects: []relic.EffectDef{
			{Trigger: vocab.TriggerCombatStart, Action: vocab.ActionGainStrength, Value: 2},
		},
	}
	belt := relic.NewBelt(first, second)

	belt.Process([]event.Event{{Trigger: vocab.TriggerCombatStart}}, ctx)
	assert.Equal(t, 3, player.Status(vocab.StatusStrength))
}

func TestProcess_DamageAllEnemies(t *testing.T) {
	ctx, _, foe := newCtx()
	second := combatant.New("foe-2", "Cultist", 3)
	ctx.Foes = append(ctx.Foes, second)

	def := &relic.Def{
		ID: "bird_urn", Name: "Bird-Faced Urn", Rarity: vocab.RarityRare,
		Effects: []relic.EffectDef{
			{Trigger: vocab.TriggerPowerPlayed, Action: vocab.ActionDamageAllEnemies, Value: 5},
		},
	}
	belt := relic.NewBelt(def)

	produced := belt.Process([]event.Event{{Trigger: vocab.TriggerPowerPlayed}}, ctx)

	assert.Equal(t, 43, foe.CurrentHP)
	assert.True(t, second.IsDead())

	triggers := make([]vocab.Trigger, 0, len(produced))
	for _, e := range produced {
		triggers = append(triggers, e.Trigger)
	}
	assert.Contains(t, triggers, vocab.TriggerEnemyKilled)
}

func TestProcess_RelicDamageIgnoresAttackerModifiers(t *testing.T) {
	ctx, player, foe := newCtx()
	player.ApplyStatus(vocab.StatusStrength, 5)
	foe.ApplyStatus(vocab.StatusVulnerable, 1)

	def := &relic.Def{
		ID: "letter_opener", Name: "Letter Opener", Rarity: vocab.RarityUncommon,
		Effects: []relic.EffectDef{
			{Trigger: vocab.TriggerSkillPlayed, Action: vocab.ActionDamageRandom, Value: 4},
		},
	}
	belt := relic.NewBelt(def)
	belt.Process([]event.Event{{Trigger: vocab.TriggerSkillPlayed}}, ctx)

	// Strength is ignored; vulnerable still applies: floor(4*1.5) = 6.
	assert.Equal(t, 42, foe.CurrentHP)
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	data := `
id: anchor
name: Anchor
description: Start each combat with 10 Block.
rarity: COMMON
effects:
  - trigger: FIRST_TURN
    action: GAIN_BLOCK
    value: 10
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "anchor.yaml"), []byte(data), 0o644))

	reg, err := relic.LoadDirectory(dir, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Len())

	def, ok := reg.Get("anchor")
	require.True(t, ok)
	assert.Equal(t, vocab.TriggerFirstTurn, def.Effects[0].Trigger)
}

func TestLoadDefFromBytes_LegacyTriggerSpelling(t *testing.T) {
	data := []byte(`
id: old_pack
name: Old Pack Relic
rarity: COMMON
effects:
  - trigger: combatStart
    action: GAIN_ARTIFACT
    value: 1
`)
	def, err := relic.LoadDefFromBytes(data, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, vocab.TriggerCombatStart, def.Effects[0].Trigger)
}

func TestLoadDefFromBytes_UnknownTriggerPassesThrough(t *testing.T) {
	data := []byte(`
id: weird
name: Weird
rarity: COMMON
effects:
  - trigger: FULL_MOON
    action: HEAL
    value: 5
`)
	def, err := relic.LoadDefFromBytes(data, zap.NewNop())
	require.NoError(t, err)
	// Unknown triggers load as never-firing rather than failing the pack.
	assert.Equal(t, vocab.Trigger("FULL_MOON"), def.Effects[0].Trigger)
}

func TestLoadDefFromBytes_RejectsUnknownAction(t *testing.T) {
	data := []byte(`
id: bad
name: Bad
rarity: COMMON
effects:
  - trigger: COMBAT_START
    action: EXPLODE
    value: 1
`)
	_, err := relic.LoadDefFromBytes(data, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown relic action")
}

func TestLoadDefFromBytes_RejectsUnknownField(t *testing.T) {
	data := []byte(`
id: bad
name: Bad
rarity: COMMON
colour: red
effects:
  - trigger: COMBAT_START
    action: HEAL
    value: 1
`)
	_, err := relic.LoadDefFromBytes(data, zap.NewNop())
	assert.Error(t, err)
}
