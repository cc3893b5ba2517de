// Package card provides immutable card templates loaded from YAML, the
// template registry, and runtime card instances with upgrade support.
package card

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/tfaulds/emberdeck/internal/game/effect"
	"github.com/tfaulds/emberdeck/internal/game/vocab"
)

// CostUnplayable is the cost sentinel for cards that can never be played
// (curses, statuses). X-cost cards carry the same sentinel plus the x_cost
// flag and spend all remaining energy instead.
const CostUnplayable = -1

// Upgrade is the delta applied to a template when the card is upgraded.
type Upgrade struct {
	// CostDelta is added to the cost (negative makes the card cheaper).
	CostDelta int `yaml:"cost_delta"`
	// ValueDeltas are added index-wise to the effect values. Shorter lists
	// leave trailing effects unchanged.
	ValueDeltas []int `yaml:"value_deltas"`
}

// Template is the immutable definition of a card, loaded from YAML.
type Template struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Type        vocab.CardType `yaml:"type"`
	Rarity      vocab.Rarity   `yaml:"rarity"`
	Cost        int            `yaml:"cost"`
	Target      vocab.Target   `yaml:"target"`
	Effects     []effect.Def   `yaml:"effects"`

	Exhaust  bool `yaml:"exhaust"`
	Retain   bool `yaml:"retain"`
	Innate   bool `yaml:"innate"`
	Ethereal bool `yaml:"ethereal"`
	XCost    bool `yaml:"x_cost"`

	Upgrade *Upgrade `yaml:"upgrade,omitempty"`
}

// Validate checks the template invariants.
//
// Postcondition: Returns nil iff id, name and type/rarity/target tags are
// valid, cost is >= -1, and every effect passes its own Validate.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("card template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("card template %q: name must not be empty", t.ID)
	}
	if !t.Type.Valid() {
		return fmt.Errorf("card template %q: unknown type %q", t.ID, string(t.Type))
	}
	if !t.Rarity.Valid() {
		return fmt.Errorf("card template %q: unknown rarity %q", t.ID, string(t.Rarity))
	}
	if t.Cost < CostUnplayable {
		return fmt.Errorf("card template %q: cost must be >= -1, got %d", t.ID, t.Cost)
	}
	if t.XCost && t.Cost != CostUnplayable {
		return fmt.Errorf("card template %q: x_cost cards must use cost -1", t.ID)
	}
	if !t.Target.Valid() {
		return fmt.Errorf("card template %q: unknown target %q", t.ID, string(t.Target))
	}
	if len(t.Effects) == 0 && t.Type != vocab.CardStatus && t.Type != vocab.CardCurse {
		return fmt.Errorf("card template %q: must have at least one effect", t.ID)
	}
	for i, e := range t.Effects {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("card template %q: effect[%d]: %w", t.ID, i, err)
		}
	}
	if t.Upgrade != nil && len(t.Upgrade.ValueDeltas) > len(t.Effects) {
		return fmt.Errorf("card template %q: upgrade has %d value deltas for %d effects",
			t.ID, len(t.Upgrade.ValueDeltas), len(t.Effects))
	}
	return nil
}

// Playable reports whether the card can ever be played by the player.
func (t *Template) Playable() bool {
	return t.XCost || t.Cost != CostUnplayable
}

// Instance is one runtime copy of a card template. Instances live in exactly
// one pile at a time; the state machine owns pile membership.
type Instance struct {
	// UID distinguishes copies of the same template within one deck.
	UID      string
	Template *Template
	Upgraded bool
}

// NewInstance creates a fresh runtime copy of tmpl with its own UID.
//
// Precondition: tmpl must not be nil.
func NewInstance(tmpl *Template) *Instance {
	if tmpl == nil {
		panic("card: NewInstance called with nil template")
	}
	return &Instance{UID: uuid.New().String(), Template: tmpl}
}

// Name returns the display name, "+"-suffixed when upgraded.
func (c *Instance) Name() string {
	if c.Upgraded {
		return c.Template.Name + "+"
	}
	return c.Template.Name
}

// Cost returns the effective energy cost after any upgrade delta. Unplayable
// and X-cost sentinels are never modified by upgrades.
func (c *Instance) Cost() int {
	cost := c.Template.Cost
	if cost == CostUnplayable {
		return cost
	}
	if c.Upgraded && c.Template.Upgrade != nil {
		cost += c.Template.Upgrade.CostDelta
		if cost < 0 {
			cost = 0
		}
	}
	return cost
}

// Effects returns the effective effect list after any upgrade deltas. The
// returned slice is a fresh copy; templates are never mutated.
func (c *Instance) Effects() []effect.Def {
	out := make([]effect.Def, len(c.Template.Effects))
	copy(out, c.Template.Effects)
	if c.Upgraded && c.Template.Upgrade != nil {
		for i, delta := range c.Template.Upgrade.ValueDeltas {
			if i < len(out) {
				out[i].Value += delta
			}
		}
	}
	return out
}

// Description substitutes the effective effect values into the template's
// {n} placeholders, where n indexes the effect list.
func (c *Instance) Description() string {
	desc := c.Template.Description
	for i, e := range c.Effects() {
		placeholder := "{" + strconv.Itoa(i) + "}"
		desc = strings.ReplaceAll(desc, placeholder, strconv.Itoa(e.Value))
	}
	return desc
}

// UpgradeCard marks the instance as upgraded. Upgrading twice is a no-op;
// cards hold at most one upgrade.
func (c *Instance) UpgradeCard() { c.Upgraded = true }
