// Package vocab defines the closed vocabularies of the Emberdeck engine:
// effect kinds, targeting modes, card types, rarities, status keys, relic
// triggers and relic actions. Every declarative content record references
// these by tag; an unrecognised tag is a load-time error, never a silent
// string mismatch.
package vocab

import "fmt"

// EffectKind identifies one kind of card or potion effect.
type EffectKind string

const (
	EffectDamage           EffectKind = "DAMAGE"
	EffectDamageAll        EffectKind = "DAMAGE_ALL"
	EffectBlock            EffectKind = "BLOCK"
	EffectDraw             EffectKind = "DRAW"
	EffectDiscardRandom    EffectKind = "DISCARD_RANDOM"
	EffectExhaustRandom    EffectKind = "EXHAUST_RANDOM"
	EffectEnergyGain       EffectKind = "ENERGY_GAIN"
	EffectEnergyLose       EffectKind = "ENERGY_LOSE"
	EffectHeal             EffectKind = "HEAL"
	EffectLoseHP           EffectKind = "LOSE_HP"
	EffectAddCopyToDiscard EffectKind = "ADD_COPY_TO_DISCARD"
	EffectUpgradeInHand    EffectKind = "UPGRADE_RANDOM_IN_HAND"
	EffectRetainBlock      EffectKind = "RETAIN_BLOCK"

	EffectApplyStrength    EffectKind = "APPLY_STRENGTH"
	EffectApplyDexterity   EffectKind = "APPLY_DEXTERITY"
	EffectApplyWeak        EffectKind = "APPLY_WEAK"
	EffectApplyVulnerable  EffectKind = "APPLY_VULNERABLE"
	EffectApplyFrail       EffectKind = "APPLY_FRAIL"
	EffectApplyPoison      EffectKind = "APPLY_POISON"
	EffectApplyArtifact    EffectKind = "APPLY_ARTIFACT"
	EffectApplyPlatedArmor EffectKind = "APPLY_PLATED_ARMOR"
	EffectApplyThorns      EffectKind = "APPLY_THORNS"
	EffectApplyRitual      EffectKind = "APPLY_RITUAL"
	EffectApplyIntangible  EffectKind = "APPLY_INTANGIBLE"
)

var effectKinds = map[EffectKind]bool{
	EffectDamage: true, EffectDamageAll: true, EffectBlock: true,
	EffectDraw: true, EffectDiscardRandom: true, EffectExhaustRandom: true,
	EffectEnergyGain: true, EffectEnergyLose: true, EffectHeal: true,
	EffectLoseHP: true, EffectAddCopyToDiscard: true, EffectUpgradeInHand: true,
	EffectRetainBlock: true,
	EffectApplyStrength: true, EffectApplyDexterity: true, EffectApplyWeak: true,
	EffectApplyVulnerable: true, EffectApplyFrail: true, EffectApplyPoison: true,
	EffectApplyArtifact: true, EffectApplyPlatedArmor: true, EffectApplyThorns: true,
	EffectApplyRitual: true, EffectApplyIntangible: true,
}

// Valid reports whether k is a member of the closed effect-kind vocabulary.
func (k EffectKind) Valid() bool { return effectKinds[k] }

// IsDamage reports whether k deals direct damage to one or more enemies.
func (k EffectKind) IsDamage() bool {
	return k == EffectDamage || k == EffectDamageAll
}

// IsBlock reports whether k grants block.
func (k EffectKind) IsBlock() bool { return k == EffectBlock }

// IsBuff reports whether k applies a beneficial status.
func (k EffectKind) IsBuff() bool {
	switch k {
	case EffectApplyStrength, EffectApplyDexterity, EffectApplyArtifact,
		EffectApplyPlatedArmor, EffectApplyThorns, EffectApplyRitual,
		EffectApplyIntangible:
		return true
	}
	return false
}

// IsDebuff reports whether k applies a detrimental status. Debuff-class
// effects are subject to artifact negation on the target and are what
// DEBUFF_PREVENTED relic triggers key on.
func (k EffectKind) IsDebuff() bool {
	switch k {
	case EffectApplyWeak, EffectApplyVulnerable, EffectApplyFrail, EffectApplyPoison:
		return true
	}
	return false
}

// AppliedStatus returns the status a buff/debuff effect kind applies, or
// ("", false) for non-status effect kinds.
func (k EffectKind) AppliedStatus() (Status, bool) {
	switch k {
	case EffectApplyStrength:
		return StatusStrength, true
	case EffectApplyDexterity:
		return StatusDexterity, true
	case EffectApplyWeak:
		return StatusWeak, true
	case EffectApplyVulnerable:
		return StatusVulnerable, true
	case EffectApplyFrail:
		return StatusFrail, true
	case EffectApplyPoison:
		return StatusPoison, true
	case EffectApplyArtifact:
		return StatusArtifact, true
	case EffectApplyPlatedArmor:
		return StatusPlatedArmor, true
	case EffectApplyThorns:
		return StatusThorns, true
	case EffectApplyRitual:
		return StatusRitual, true
	case EffectApplyIntangible:
		return StatusIntangible, true
	}
	return "", false
}

// UnmarshalYAML validates the tag against the closed vocabulary at load time.
func (k *EffectKind) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	ek := EffectKind(s)
	if !ek.Valid() {
		return fmt.Errorf("unknown effect kind %q", s)
	}
	*k = ek
	return nil
}

// Target identifies how an effect or card selects its targets.
type Target string

const (
	TargetSelf        Target = "SELF"
	TargetSingleEnemy Target = "SINGLE_ENEMY"
	TargetAllEnemies  Target = "ALL_ENEMIES"
	TargetRandomEnemy Target = "RANDOM_ENEMY"
)

// Valid reports whether t is a member of the closed target vocabulary.
func (t Target) Valid() bool {
	switch t {
	case TargetSelf, TargetSingleEnemy, TargetAllEnemies, TargetRandomEnemy:
		return true
	}
	return false
}

// NeedsChosenTarget reports whether playing a card with this targeting mode
// requires the caller to supply an enemy index.
func (t Target) NeedsChosenTarget() bool { return t == TargetSingleEnemy }

// UnmarshalYAML validates the tag against the closed vocabulary at load time.
func (t *Target) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	tt := Target(s)
	if !tt.Valid() {
		return fmt.Errorf("unknown target type %q", s)
	}
	*t = tt
	return nil
}

// CardType classifies a card.
type CardType string

const (
	CardAttack CardType = "ATTACK"
	CardSkill  CardType = "SKILL"
	CardPower  CardType = "POWER"
	CardStatus CardType = "STATUS"
	CardCurse  CardType = "CURSE"
)

// Valid reports whether c is a member of the closed card-type vocabulary.
func (c CardType) Valid() bool {
	switch c {
	case CardAttack, CardSkill, CardPower, CardStatus, CardCurse:
		return true
	}
	return false
}

// UnmarshalYAML validates the tag against the closed vocabulary at load time.
func (c *CardType) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	ct := CardType(s)
	if !ct.Valid() {
		return fmt.Errorf("unknown card type %q", s)
	}
	*c = ct
	return nil
}

// Rarity classifies how a card or relic enters the pool.
type Rarity string

const (
	RarityStarter  Rarity = "STARTER"
	RarityCommon   Rarity = "COMMON"
	RarityUncommon Rarity = "UNCOMMON"
	RarityRare     Rarity = "RARE"
	RaritySpecial  Rarity = "SPECIAL"
)

// Valid reports whether r is a member of the closed rarity vocabulary.
func (r Rarity) Valid() bool {
	switch r {
	case RarityStarter, RarityCommon, RarityUncommon, RarityRare, RaritySpecial:
		return true
	}
	return false
}

// UnmarshalYAML validates the tag against the closed vocabulary at load time.
func (r *Rarity) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	rr := Rarity(s)
	if !rr.Valid() {
		return fmt.Errorf("unknown rarity %q", s)
	}
	*r = rr
	return nil
}

// EnemyType classifies an enemy for encounter building and relic triggers.
type EnemyType string

const (
	EnemyNormal EnemyType = "normal"
	EnemyElite  EnemyType = "elite"
	EnemyBoss   EnemyType = "boss"
)

// Valid reports whether e is a member of the closed enemy-type vocabulary.
func (e EnemyType) Valid() bool {
	switch e {
	case EnemyNormal, EnemyElite, EnemyBoss:
		return true
	}
	return false
}

// UnmarshalYAML validates the tag against the closed vocabulary at load time.
func (e *EnemyType) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	et := EnemyType(s)
	if !et.Valid() {
		return fmt.Errorf("unknown enemy type %q", s)
	}
	*e = et
	return nil
}
