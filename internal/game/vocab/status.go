package vocab

// Status identifies one entry in a combatant's status bag.
type Status string

const (
	StatusStrength    Status = "strength"
	StatusDexterity   Status = "dexterity"
	StatusWeak        Status = "weak"
	StatusVulnerable  Status = "vulnerable"
	StatusFrail       Status = "frail"
	StatusPoison      Status = "poison"
	StatusArtifact    Status = "artifact"
	StatusPlatedArmor Status = "plated_armor"
	StatusThorns      Status = "thorns"
	StatusRitual      Status = "ritual"
	StatusIntangible  Status = "intangible"
)

// StatusClass distinguishes how re-application combines with an existing
// value. This distinction is load-bearing: reapplying 2 turns of weak onto 3
// existing turns yields max(3,2)=3, while reapplying 2 poison onto 3 yields 5.
type StatusClass int

const (
	// ClassDuration counters represent turns remaining; re-apply takes the max.
	ClassDuration StatusClass = iota
	// ClassMagnitude counters represent stacks; re-apply is additive.
	ClassMagnitude
)

// Class returns the combination rule for s.
func (s Status) Class() StatusClass {
	switch s {
	case StatusWeak, StatusVulnerable, StatusFrail, StatusIntangible:
		return ClassDuration
	}
	return ClassMagnitude
}

// Signed reports whether s may hold negative values (strength and dexterity
// can be lowered below zero; every other status floors at zero).
func (s Status) Signed() bool {
	return s == StatusStrength || s == StatusDexterity
}

// Debuff reports whether applying s counts as a debuff for artifact negation
// and relic trigger purposes. Strength and dexterity count only when the
// applied amount is negative, which the applier decides; this predicate covers
// the always-detrimental keys.
func (s Status) Debuff() bool {
	switch s {
	case StatusWeak, StatusVulnerable, StatusFrail, StatusPoison:
		return true
	}
	return false
}

// AllStatuses lists every status key in stable display order.
func AllStatuses() []Status {
	return []Status{
		StatusStrength, StatusDexterity, StatusWeak, StatusVulnerable,
		StatusFrail, StatusPoison, StatusArtifact, StatusPlatedArmor,
		StatusThorns, StatusRitual, StatusIntangible,
	}
}
