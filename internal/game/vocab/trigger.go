package vocab

import (
	"fmt"

	"go.uber.org/zap"
)

// Trigger identifies one lifecycle event in the combat event stream. The
// state machine and the effect resolver emit these; relics match on them.
type Trigger string

const (
	TriggerCombatStart   Trigger = "COMBAT_START"
	TriggerCombatEnd     Trigger = "COMBAT_END"
	TriggerCombatVictory Trigger = "COMBAT_VICTORY"
	TriggerFirstTurn     Trigger = "FIRST_TURN"
	TriggerTurnStart     Trigger = "TURN_START"
	TriggerTurnEnd       Trigger = "TURN_END"

	TriggerCardPlayed   Trigger = "CARD_PLAYED"
	TriggerAttackPlayed Trigger = "ATTACK_PLAYED"
	TriggerSkillPlayed  Trigger = "SKILL_PLAYED"
	TriggerPowerPlayed  Trigger = "POWER_PLAYED"

	TriggerCardDrawn     Trigger = "CARD_DRAWN"
	TriggerCardDiscarded Trigger = "CARD_DISCARDED"
	TriggerCardExhausted Trigger = "CARD_EXHAUSTED"
	TriggerShuffle       Trigger = "SHUFFLE"

	TriggerPlayerDamaged   Trigger = "PLAYER_DAMAGED"
	TriggerDamageDealt     Trigger = "DAMAGE_DEALT"
	TriggerEnemyKilled     Trigger = "ENEMY_KILLED"
	TriggerBlockGained     Trigger = "BLOCK_GAINED"
	TriggerDebuffPrevented Trigger = "DEBUFF_PREVENTED"

	TriggerGoldGained   Trigger = "GOLD_GAINED"
	TriggerGoldSpent    Trigger = "GOLD_SPENT"
	TriggerPotionGained Trigger = "POTION_GAINED"
	TriggerPotionUsed   Trigger = "POTION_USED"

	TriggerRoomEntered Trigger = "ROOM_ENTERED"
	TriggerShopEntered Trigger = "SHOP_ENTERED"
	TriggerRestEntered Trigger = "REST_ENTERED"
)

var triggers = map[Trigger]bool{
	TriggerCombatStart: true, TriggerCombatEnd: true, TriggerCombatVictory: true,
	TriggerFirstTurn: true, TriggerTurnStart: true, TriggerTurnEnd: true,
	TriggerCardPlayed: true, TriggerAttackPlayed: true, TriggerSkillPlayed: true,
	TriggerPowerPlayed: true,
	TriggerCardDrawn: true, TriggerCardDiscarded: true, TriggerCardExhausted: true,
	TriggerShuffle: true,
	TriggerPlayerDamaged: true, TriggerDamageDealt: true, TriggerEnemyKilled: true,
	TriggerBlockGained: true, TriggerDebuffPrevented: true,
	TriggerGoldGained: true, TriggerGoldSpent: true, TriggerPotionGained: true,
	TriggerPotionUsed: true,
	TriggerRoomEntered: true, TriggerShopEntered: true, TriggerRestEntered: true,
}

// Valid reports whether t is a member of the closed trigger vocabulary.
func (t Trigger) Valid() bool { return triggers[t] }

// legacyTriggers translates the lower-camel-case spellings found in older
// third-party content files to the canonical vocabulary.
var legacyTriggers = map[string]Trigger{
	"combatStart":     TriggerCombatStart,
	"combatEnd":       TriggerCombatEnd,
	"combatVictory":   TriggerCombatVictory,
	"firstTurn":       TriggerFirstTurn,
	"turnStart":       TriggerTurnStart,
	"turnEnd":         TriggerTurnEnd,
	"cardPlayed":      TriggerCardPlayed,
	"attackPlayed":    TriggerAttackPlayed,
	"skillPlayed":     TriggerSkillPlayed,
	"powerPlayed":     TriggerPowerPlayed,
	"cardDrawn":       TriggerCardDrawn,
	"cardDiscarded":   TriggerCardDiscarded,
	"cardExhausted":   TriggerCardExhausted,
	"shuffle":         TriggerShuffle,
	"playerDamaged":   TriggerPlayerDamaged,
	"damageDealt":     TriggerDamageDealt,
	"enemyKilled":     TriggerEnemyKilled,
	"blockGained":     TriggerBlockGained,
	"debuffPrevented": TriggerDebuffPrevented,
	"goldGained":      TriggerGoldGained,
	"goldSpent":       TriggerGoldSpent,
	"potionGained":    TriggerPotionGained,
	"potionUsed":      TriggerPotionUsed,
	"roomEntered":     TriggerRoomEntered,
	"shopEntered":     TriggerShopEntered,
	"restEntered":     TriggerRestEntered,
}

// NormalizeTrigger maps a raw trigger spelling to the canonical vocabulary.
// Canonical spellings pass through untouched; legacy lower-camel spellings are
// translated. Unknown names are logged at warn level and passed through as-is
// so unrecognised third-party data degrades to a never-firing trigger instead
// of failing the whole load.
func NormalizeTrigger(raw string, logger *zap.Logger) Trigger {
	t := Trigger(raw)
	if t.Valid() {
		return t
	}
	if canonical, ok := legacyTriggers[raw]; ok {
		return canonical
	}
	if logger != nil {
		logger.Warn("unrecognised relic trigger, passing through",
			zap.String("trigger", raw))
	}
	return t
}

// Action identifies one relic action executed when its trigger fires.
type Action string

const (
	ActionHeal             Action = "HEAL"
	ActionGainBlock        Action = "GAIN_BLOCK"
	ActionDrawCards        Action = "DRAW_CARDS"
	ActionGainEnergy       Action = "GAIN_ENERGY"
	ActionGainStrength     Action = "GAIN_STRENGTH"
	ActionGainDexterity    Action = "GAIN_DEXTERITY"
	ActionGainArtifact     Action = "GAIN_ARTIFACT"
	ActionGainThorns       Action = "GAIN_THORNS"
	ActionGainPlatedArmor  Action = "GAIN_PLATED_ARMOR"
	ActionGainGold         Action = "GAIN_GOLD"
	ActionGainMaxHP        Action = "GAIN_MAX_HP"
	ActionDamageRandom     Action = "DAMAGE_RANDOM_ENEMY"
	ActionDamageAllEnemies Action = "DAMAGE_ALL_ENEMIES"
	ActionRetainBlock      Action = "RETAIN_BLOCK"
)

var actions = map[Action]bool{
	ActionHeal: true, ActionGainBlock: true, ActionDrawCards: true,
	ActionGainEnergy: true, ActionGainStrength: true, ActionGainDexterity: true,
	ActionGainArtifact: true, ActionGainThorns: true, ActionGainPlatedArmor: true,
	ActionGainGold: true, ActionGainMaxHP: true, ActionDamageRandom: true,
	ActionDamageAllEnemies: true, ActionRetainBlock: true,
}

// Valid reports whether a is a member of the closed action vocabulary.
func (a Action) Valid() bool { return actions[a] }

// UnmarshalYAML validates the tag against the closed vocabulary at load time.
func (a *Action) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	aa := Action(s)
	if !aa.Valid() {
		return fmt.Errorf("unknown relic action %q", s)
	}
	*a = aa
	return nil
}
