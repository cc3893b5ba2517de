package combat_test

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tfaulds/emberdeck/internal/game/card"
	"github.com/tfaulds/emberdeck/internal/game/combat"
	"github.com/tfaulds/emberdeck/internal/game/effect"
	"github.com/tfaulds/emberdeck/internal/game/enemy"
	"github.com/tfaulds/emberdeck/internal/game/event"
	"github.com/tfaulds/emberdeck/internal/game/potion"
	"github.com/tfaulds/emberdeck/internal/game/relic"
	"github.com/tfaulds/emberdeck/internal/game/rng"
	"github.com/tfaulds/emberdeck/internal/game/vocab"
)

var (
	strikeTmpl = &card.Template{
		ID: "strike", Name: "Strike", Description: "Deal {0} damage.",
		Type: vocab.CardAttack, Rarity: vocab.RarityStarter,
		Cost: 1, Target: vocab.TargetSingleEnemy,
		Effects: []effect.Def{{Kind: vocab.EffectDamage, Value: 6}},
	}
	defendTmpl = &card.Template{
		ID: "defend", Name: "Defend", Description: "Gain {0} Block.",
		Type: vocab.CardSkill, Rarity: vocab.RarityStarter,
		Cost: 1, Target: vocab.TargetSelf,
		Effects: []effect.Def{{Kind: vocab.EffectBlock, Value: 5}},
	}
	woundTmpl = &card.Template{
		ID: "wound", Name: "Wound", Description: "Unplayable.",
		Type: vocab.CardStatus, Rarity: vocab.RaritySpecial,
		Cost: card.CostUnplayable, Target: vocab.TargetSelf,
	}
)

func starterDeck() []*card.Instance {
	deck := make([]*card.Instance, 0, 10)
	for i := 0; i < 6; i++ {
		deck = append(deck, card.NewInstance(strikeTmpl))
	}
	for i := 0; i < 4; i++ {
		deck = append(deck, card.NewInstance(defendTmpl))
	}
	return deck
}

func punchBag() *enemy.Instance {
	return enemy.NewInstance(&enemy.Template{
		ID: "bag", Name: "Punching Bag", Type: vocab.EnemyNormal, MaxHP: 100,
		Moves: []enemy.MoveDef{
			{Name: "Glare", Intent: enemy.IntentDebuff, Weight: 1,
				Effects: []effect.Def{{Kind: vocab.EffectApplyWeak, Value: 1}}},
		},
	})
}

func biter() *enemy.Instance {
	return enemy.NewInstance(&enemy.Template{
		ID: "biter", Name: "Biter", Type: vocab.EnemyNormal, MaxHP: 20,
		Moves: []enemy.MoveDef{
			{Name: "Bite", Intent: enemy.IntentAttack, Weight: 1,
				Effects: []effect.Def{{Kind: vocab.EffectDamage, Value: 7}}},
		},
	})
}

func newCombat(t *testing.T, deck []*card.Instance, enemies []*enemy.Instance, belt *relic.Belt) *combat.Combat {
	t.Helper()
	c, err := combat.New(combat.DefaultConfig(), deck, enemies, belt, combat.Deps{
		Src: rng.NewSeededSource(42),
		Log: zap.NewNop(),
	})
	require.NoError(t, err)
	return c
}

func TestStart_OpeningTurn(t *testing.T) {
	c := newCombat(t, starterDeck(), []*enemy.Instance{punchBag()}, nil)

	events, err := c.Start()
	require.NoError(t, err)

	assert.Equal(t, combat.PhasePlayerTurn, c.Phase())
	assert.Equal(t, 1, c.Turn())
	assert.Len(t, c.Hand(), 5)
	assert.Equal(t, 3, c.PlayerState().Energy)
	require.NotNil(t, c.Enemies()[0].CommittedMove())

	triggers := triggerList(events)
	assert.Contains(t, triggers, vocab.TriggerCombatStart)
	assert.Contains(t, triggers, vocab.TriggerTurnStart)
	assert.Contains(t, triggers, vocab.TriggerFirstTurn)
}

func TestStart_Twice(t *testing.T) {
	c := newCombat(t, starterDeck(), []*enemy.Instance{punchBag()}, nil)
	_, err := c.Start()
	require.NoError(t, err)
	_, err = c.Start()
	assertRejection(t, err, combat.ReasonCombatOver)
}

// Starting with a 10-card deck and hand size 5 leaves exactly 5 in draw,
// none in discard or exhaust, and the union of piles is a permutation of the
// original deck.
func TestStart_DeckPermutation(t *testing.T) {
	deck := starterDeck()
	c := newCombat(t, deck, []*enemy.Instance{punchBag()}, nil)
	_, err := c.Start()
	require.NoError(t, err)

	assert.Len(t, c.Hand(), 5)
	assert.Len(t, c.DrawPile(), 5)
	assert.Empty(t, c.DiscardPile())
	assert.Empty(t, c.ExhaustPile())

	want := uids(deck)
	got := uids(append(append(append(c.Hand(), c.DrawPile()...), c.DiscardPile()...), c.ExhaustPile()...))
	sort.Strings(want)
	sort.Strings(got)
	assert.Equal(t, want, got)
}

func TestStart_InnateDrawnFirst(t *testing.T) {
	innateTmpl := &card.Template{
		ID: "opener", Name: "Opener", Description: "Gain {0} Block.",
		Type: vocab.CardSkill, Rarity: vocab.RarityCommon,
		Cost: 0, Target: vocab.TargetSelf, Innate: true,
		Effects: []effect.Def{{Kind: vocab.EffectBlock, Value: 3}},
	}
	deck := starterDeck()
	deck = append(deck, card.NewInstance(innateTmpl))

	c := newCombat(t, deck, []*enemy.Instance{punchBag()}, nil)
	_, err := c.Start()
	require.NoError(t, err)

	found := false
	for _, in := range c.Hand() {
		if in.Template.ID == "opener" {
			found = true
		}
	}
	assert.True(t, found, "innate card must be in the opening hand")
}

func TestPlayCard_DamageAndVictory(t *testing.T) {
	foe := biter()
	c := newCombat(t, starterDeck(), []*enemy.Instance{foe}, nil)
	_, err := c.Start()
	require.NoError(t, err)

	played := 0
	for c.Phase() == combat.PhasePlayerTurn {
		idx := handIndex(c, "strike")
		if idx < 0 || c.PlayerState().Energy < 1 {
			_, err := c.EndTurn()
			require.NoError(t, err)
			continue
		}
		events, err := c.PlayCard(idx, 0)
		require.NoError(t, err)
		played++
		assert.Contains(t, triggerList(events), vocab.TriggerCardPlayed)
		assert.Contains(t, triggerList(events), vocab.TriggerAttackPlayed)
		if c.Phase() == combat.PhaseVictory {
			break
		}
	}

	assert.Equal(t, combat.PhaseVictory, c.Phase())
	assert.True(t, foe.IsDead())
	// 20 HP at 6 damage per strike needs 4 hits.
	assert.GreaterOrEqual(t, played, 4)

	triggers := triggerList(c.Events())
	assert.Contains(t, triggers, vocab.TriggerEnemyKilled)
	assert.Contains(t, triggers, vocab.TriggerCombatVictory)
	assert.Contains(t, triggers, vocab.TriggerCombatEnd)
}

// An illegal play is rejected before any mutation: energy, hand and piles are
// unchanged.
func TestPlayCard_RejectionLeavesStateUntouched(t *testing.T) {
	c := newCombat(t, starterDeck(), []*enemy.Instance{punchBag()}, nil)
	_, err := c.Start()
	require.NoError(t, err)

	// Burn energy down to zero.
	for c.PlayerState().Energy > 0 {
		idx := 0
		var target int
		if c.Hand()[idx].Template.Target.NeedsChosenTarget() {
			target = 0
		} else {
			target = -1
		}
		_, err := c.PlayCard(idx, target)
		require.NoError(t, err)
	}

	handBefore := uids(c.Hand())
	drawBefore := uids(c.DrawPile())
	discardBefore := uids(c.DiscardPile())
	energyBefore := c.PlayerState().Energy
	eventsBefore := len(c.Events())

	var target int
	if c.Hand()[0].Template.Target.NeedsChosenTarget() {
		target = 0
	} else {
		target = -1
	}
	_, err = c.PlayCard(0, target)
	assertRejection(t, err, combat.ReasonNoEnergy)

	assert.Equal(t, handBefore, uids(c.Hand()))
	assert.Equal(t, drawBefore, uids(c.DrawPile()))
	assert.Equal(t, discardBefore, uids(c.DiscardPile()))
	assert.Equal(t, energyBefore, c.PlayerState().Energy)
	assert.Equal(t, eventsBefore, len(c.Events()))
}

func TestPlayCard_TargetValidation(t *testing.T) {
	c := newCombat(t, starterDeck(), []*enemy.Instance{punchBag()}, nil)
	_, err := c.Start()
	require.NoError(t, err)

	idx := handIndex(c, "strike")
	require.GreaterOrEqual(t, idx, 0)

	_, err = c.PlayCard(idx, -1)
	assertRejection(t, err, combat.ReasonNeedsTarget)

	_, err = c.PlayCard(idx, 5)
	assertRejection(t, err, combat.ReasonInvalidTarget)

	_, err = c.PlayCard(42, 0)
	assertRejection(t, err, combat.ReasonEmptySlot)
}

func TestPlayCard_UnplayableStatus(t *testing.T) {
	wound := *woundTmpl
	wound.Innate = true
	deck := starterDeck()
	deck[0] = card.NewInstance(&wound)
	c := newCombat(t, deck, []*enemy.Instance{punchBag()}, nil)
	_, err := c.Start()
	require.NoError(t, err)

	idx := handIndex(c, "wound")
	require.GreaterOrEqual(t, idx, 0)
	_, err = c.PlayCard(idx, -1)
	assertRejection(t, err, combat.ReasonUnplayable)
}

func TestEndTurn_EnemyActsAndNextTurnBegins(t *testing.T) {
	c := newCombat(t, starterDeck(), []*enemy.Instance{biter()}, nil)
	_, err := c.Start()
	require.NoError(t, err)

	events, err := c.EndTurn()
	require.NoError(t, err)

	assert.Equal(t, combat.PhasePlayerTurn, c.Phase())
	assert.Equal(t, 2, c.Turn())
	assert.Len(t, c.Hand(), 5)
	// Biter always bites for 7.
	assert.Equal(t, 63, c.PlayerState().CurrentHP)

	triggers := triggerList(events)
	assert.Contains(t, triggers, vocab.TriggerTurnEnd)
	assert.Contains(t, triggers, vocab.TriggerPlayerDamaged)
	assert.Contains(t, triggers, vocab.TriggerTurnStart)
	assert.NotContains(t, triggers, vocab.TriggerFirstTurn)
}

func TestEndTurn_ReshufflesOnExhaustion(t *testing.T) {
	c := newCombat(t, starterDeck(), []*enemy.Instance{punchBag()}, nil)
	_, err := c.Start()
	require.NoError(t, err)

	// Turn 2 drains the draw pile; turn 3 must reshuffle the discard.
	_, err = c.EndTurn()
	require.NoError(t, err)
	assert.Empty(t, c.DrawPile())

	events, err := c.EndTurn()
	require.NoError(t, err)
	assert.Contains(t, triggerList(events), vocab.TriggerShuffle)
	assert.Len(t, c.Hand(), 5)
}

func TestEndTurn_EtherealAndRetain(t *testing.T) {
	etherealTmpl := &card.Template{
		ID: "phantom", Name: "Phantom", Description: "Gain {0} Block.",
		Type: vocab.CardSkill, Rarity: vocab.RarityCommon,
		Cost: 1, Target: vocab.TargetSelf, Ethereal: true, Innate: true,
		Effects: []effect.Def{{Kind: vocab.EffectBlock, Value: 8}},
	}
	retainTmpl := &card.Template{
		ID: "keepsake", Name: "Keepsake", Description: "Gain {0} Block.",
		Type: vocab.CardSkill, Rarity: vocab.RarityCommon,
		Cost: 1, Target: vocab.TargetSelf, Retain: true, Innate: true,
		Effects: []effect.Def{{Kind: vocab.EffectBlock, Value: 4}},
	}
	deck := starterDeck()
	deck = append(deck, card.NewInstance(etherealTmpl), card.NewInstance(retainTmpl))

	c := newCombat(t, deck, []*enemy.Instance{punchBag()}, nil)
	_, err := c.Start()
	require.NoError(t, err)
	require.GreaterOrEqual(t, handIndex(c, "phantom"), 0)
	require.GreaterOrEqual(t, handIndex(c, "keepsake"), 0)

	events, err := c.EndTurn()
	require.NoError(t, err)

	assert.Contains(t, triggerList(events), vocab.TriggerCardExhausted)
	require.Len(t, c.ExhaustPile(), 1)
	assert.Equal(t, "phantom", c.ExhaustPile()[0].Template.ID)
	assert.GreaterOrEqual(t, handIndex(c, "keepsake"), 0, "retain card stays in hand")
}

func TestEndTurn_DefeatStopsCombat(t *testing.T) {
	bruiser := enemy.NewInstance(&enemy.Template{
		ID: "bruiser", Name: "Bruiser", Type: vocab.EnemyNormal, MaxHP: 100,
		Moves: []enemy.MoveDef{
			{Name: "Crush", Intent: enemy.IntentAttack, Weight: 1,
				Effects: []effect.Def{{Kind: vocab.EffectDamage, Value: 40}}},
		},
	})
	c := newCombat(t, starterDeck(), []*enemy.Instance{bruiser}, nil)
	_, err := c.Start()
	require.NoError(t, err)

	for c.Phase() == combat.PhasePlayerTurn {
		_, err := c.EndTurn()
		require.NoError(t, err)
	}

	assert.Equal(t, combat.PhaseDefeat, c.Phase())
	assert.True(t, c.PlayerState().IsDead())
	assert.Contains(t, triggerList(c.Events()), vocab.TriggerCombatEnd)

	_, err = c.EndTurn()
	assertRejection(t, err, combat.ReasonCombatOver)
	_, err = c.PlayCard(0, 0)
	assertRejection(t, err, combat.ReasonCombatOver)
}

func TestUsePotion(t *testing.T) {
	foe := biter()
	c := newCombat(t, starterDeck(), []*enemy.Instance{foe}, nil)
	_, err := c.Start()
	require.NoError(t, err)

	fire := &potion.Def{
		ID: "fire_potion", Name: "Fire Potion", Rarity: vocab.RarityCommon,
		TargetType: vocab.TargetSingleEnemy,
		Effects:    []effect.Def{{Kind: vocab.EffectDamage, Value: 20}},
	}
	require.True(t, c.GivePotion(fire))

	energyBefore := c.PlayerState().Energy
	events, err := c.UsePotion(0, 0)
	require.NoError(t, err)

	assert.Equal(t, energyBefore, c.PlayerState().Energy, "potions cost no energy")
	assert.True(t, foe.IsDead())
	assert.Equal(t, combat.PhaseVictory, c.Phase())
	assert.Contains(t, triggerList(events), vocab.TriggerPotionUsed)
	assert.Nil(t, c.PlayerState().Potions[0])

	_, err = c.UsePotion(0, 0)
	assertRejection(t, err, combat.ReasonCombatOver)
}

func TestUsePotion_EmptySlot(t *testing.T) {
	c := newCombat(t, starterDeck(), []*enemy.Instance{punchBag()}, nil)
	_, err := c.Start()
	require.NoError(t, err)

	_, err = c.UsePotion(0, -1)
	assertRejection(t, err, combat.ReasonEmptySlot)
	_, err = c.UsePotion(9, -1)
	assertRejection(t, err, combat.ReasonEmptySlot)
}

func TestRelicBelt_FirstTurnBlock(t *testing.T) {
	anchor := &relic.Def{
		ID: "anchor", Name: "Anchor", Rarity: vocab.RarityCommon,
		Effects: []relic.EffectDef{
			{Trigger: vocab.TriggerFirstTurn, Action: vocab.ActionGainBlock, Value: 10},
		},
	}
	c := newCombat(t, starterDeck(), []*enemy.Instance{punchBag()}, relic.NewBelt(anchor))
	events, err := c.Start()
	require.NoError(t, err)

	assert.Equal(t, 10, c.PlayerState().Block)
	assert.Contains(t, triggerList(events), vocab.TriggerBlockGained)
}

// A draw-per-attacks relic fires exactly once per three attacks played and
// its counter returns to zero.
func TestRelicBelt_CounterAcrossPlays(t *testing.T) {
	nunchaku := &relic.Def{
		ID: "nunchaku", Name: "Nunchaku", Rarity: vocab.RarityUncommon,
		Effects: []relic.EffectDef{
			{Trigger: vocab.TriggerAttackPlayed, Action: vocab.ActionDrawCards, Value: 1, Every: 3},
		},
	}
	deck := make([]*card.Instance, 0, 12)
	for i := 0; i < 12; i++ {
		deck = append(deck, card.NewInstance(strikeTmpl))
	}
	c, err := combat.New(combat.Config{
		PlayerMaxHP: 70, HandSize: 5, MaxHandSize: 10, EnergyPerTurn: 5, PotionSlots: 3,
	}, deck, []*enemy.Instance{punchBag()}, relic.NewBelt(nunchaku), combat.Deps{
		Src: rng.NewSeededSource(7),
		Log: zap.NewNop(),
	})
	require.NoError(t, err)
	_, err = c.Start()
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := c.PlayCard(0, 0)
		require.NoError(t, err)
	}
	assert.Len(t, c.Hand(), 3)
	assert.Equal(t, 2, c.PlayerState().Belt.Held()[0].Counter(0))

	events, err := c.PlayCard(0, 0)
	require.NoError(t, err)
	assert.Contains(t, triggerList(events), vocab.TriggerCardDrawn)
	assert.Len(t, c.Hand(), 3) // played one, drew one
	assert.Equal(t, 0, c.PlayerState().Belt.Held()[0].Counter(0))
}

func TestPlayCard_ExhaustCardLeavesPlayPermanently(t *testing.T) {
	purgeTmpl := &card.Template{
		ID: "purge", Name: "Purge", Description: "Gain {0} Block. Exhaust.",
		Type: vocab.CardSkill, Rarity: vocab.RarityCommon,
		Cost: 1, Target: vocab.TargetSelf, Exhaust: true, Innate: true,
		Effects: []effect.Def{{Kind: vocab.EffectBlock, Value: 6}},
	}
	deck := starterDeck()
	deck = append(deck, card.NewInstance(purgeTmpl))
	c := newCombat(t, deck, []*enemy.Instance{punchBag()}, nil)
	_, err := c.Start()
	require.NoError(t, err)

	idx := handIndex(c, "purge")
	require.GreaterOrEqual(t, idx, 0)
	events, err := c.PlayCard(idx, -1)
	require.NoError(t, err)

	assert.Contains(t, triggerList(events), vocab.TriggerCardExhausted)
	require.Len(t, c.ExhaustPile(), 1)
	assert.Equal(t, "purge", c.ExhaustPile()[0].Template.ID)
	assert.Empty(t, c.DiscardPile())
}

func TestPlayCard_XCostSpendsAllEnergy(t *testing.T) {
	whirlTmpl := &card.Template{
		ID: "whirl", Name: "Whirlwind", Description: "Deal {0} damage to all enemies X times.",
		Type: vocab.CardAttack, Rarity: vocab.RarityUncommon,
		Cost: card.CostUnplayable, XCost: true, Target: vocab.TargetAllEnemies, Innate: true,
		Effects: []effect.Def{{Kind: vocab.EffectDamageAll, Value: 5}},
	}
	deck := starterDeck()
	deck = append(deck, card.NewInstance(whirlTmpl))
	foe := punchBag()
	c := newCombat(t, deck, []*enemy.Instance{foe}, nil)
	_, err := c.Start()
	require.NoError(t, err)

	idx := handIndex(c, "whirl")
	require.GreaterOrEqual(t, idx, 0, "innate card must be in the opening hand")
	require.Equal(t, 3, c.PlayerState().Energy)
	_, err = c.PlayCard(idx, -1)
	require.NoError(t, err)

	assert.Zero(t, c.PlayerState().Energy)
	// 5 damage scaled by 3 energy spent.
	assert.Equal(t, 85, foe.CurrentHP)
}

func handIndex(c *combat.Combat, id string) int {
	for i, in := range c.Hand() {
		if in.Template.ID == id {
			return i
		}
	}
	return -1
}

func uids(pile []*card.Instance) []string {
	out := make([]string, len(pile))
	for i, in := range pile {
		out[i] = in.UID
	}
	return out
}

func triggerList(events []event.Event) []vocab.Trigger {
	out := make([]vocab.Trigger, len(events))
	for i, e := range events {
		out[i] = e.Trigger
	}
	return out
}

func assertRejection(t *testing.T, err error, want combat.Reason) {
	t.Helper()
	var rej *combat.RejectionError
	require.True(t, errors.As(err, &rej), "want RejectionError, got %v", err)
	assert.Equal(t, want, rej.Reason)
}
