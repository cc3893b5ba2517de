// Package combat implements the turn-based combat state machine: pile
// management, the player/enemy turn cycle, card play validation, potion use,
// and the victory/defeat transitions. All mutating calls return the ordered
// event list they produced; the relic belt is processed against that list
// before the call returns.
package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tfaulds/emberdeck/internal/game/card"
	"github.com/tfaulds/emberdeck/internal/game/combatant"
	"github.com/tfaulds/emberdeck/internal/game/enemy"
	"github.com/tfaulds/emberdeck/internal/game/event"
	"github.com/tfaulds/emberdeck/internal/game/potion"
	"github.com/tfaulds/emberdeck/internal/game/relic"
	"github.com/tfaulds/emberdeck/internal/game/rng"
	"github.com/tfaulds/emberdeck/internal/game/vocab"
	"github.com/tfaulds/emberdeck/internal/scripting"
)

// Phase is the combat lifecycle state.
type Phase string

const (
	PhaseNotStarted Phase = "NOT_STARTED"
	PhasePlayerTurn Phase = "PLAYER_TURN"
	PhaseEnemyTurn  Phase = "ENEMY_TURN"
	PhaseVictory    Phase = "VICTORY"
	PhaseDefeat     Phase = "DEFEAT"
)

// Over reports whether the combat has reached a terminal phase.
func (p Phase) Over() bool { return p == PhaseVictory || p == PhaseDefeat }

// Config are the tunable combat parameters, normally sourced from the game
// section of the application config.
type Config struct {
	PlayerMaxHP   int
	HandSize      int
	MaxHandSize   int
	EnergyPerTurn int
	PotionSlots   int
	Gold          int
}

// DefaultConfig returns the standard ruleset parameters.
func DefaultConfig() Config {
	return Config{
		PlayerMaxHP:   70,
		HandSize:      5,
		MaxHandSize:   10,
		EnergyPerTurn: 3,
		PotionSlots:   3,
	}
}

// Player is the player's combat-scoped state.
type Player struct {
	*combatant.Combatant

	Energy int
	Gold   int
	Belt   *relic.Belt
	// Potions are the belt slots; nil entries are empty.
	Potions []*potion.Def
}

// Deps are the injected collaborators.
type Deps struct {
	Src     rng.Source
	Log     *zap.Logger
	Scripts *scripting.Evaluator
}

// Combat owns one fight from Start to victory or defeat.
type Combat struct {
	cfg   Config
	phase Phase
	turn  int

	player  *Player
	enemies []*enemy.Instance

	hand    []*card.Instance
	draw    []*card.Instance
	discard []*card.Instance
	exhaust []*card.Instance

	src     rng.Source
	log     *zap.Logger
	scripts *scripting.Evaluator

	events []event.Event
}

// New creates a combat over the given deck and enemy roster. The deck is the
// player's full deck; Start shuffles it into the draw pile.
//
// Precondition: deck and enemies must be non-empty; deps.Src and deps.Log
// must not be nil; belt may be nil for a relicless player.
func New(cfg Config, deck []*card.Instance, enemies []*enemy.Instance, belt *relic.Belt, deps Deps) (*Combat, error) {
	if len(deck) == 0 {
		return nil, fmt.Errorf("combat: deck must not be empty")
	}
	if len(enemies) == 0 {
		return nil, fmt.Errorf("combat: enemy roster must not be empty")
	}
	if belt == nil {
		belt = relic.NewBelt()
	}
	c := &Combat{
		cfg:   cfg,
		phase: PhaseNotStarted,
		player: &Player{
			Combatant: combatant.New("player", "Player", cfg.PlayerMaxHP),
			Gold:      cfg.Gold,
			Belt:      belt,
			Potions:   make([]*potion.Def, cfg.PotionSlots),
		},
		enemies: enemies,
		draw:    make([]*card.Instance, len(deck)),
		src:     deps.Src,
		log:     deps.Log,
		scripts: deps.Scripts,
	}
	copy(c.draw, deck)
	return c, nil
}

// Start shuffles the deck, rolls every enemy's opening intent, fires
// COMBAT_START, and begins the first player turn (TURN_START plus
// FIRST_TURN, innate cards drawn first).
//
// Precondition: the combat must not have been started already.
func (c *Combat) Start() ([]event.Event, error) {
	if c.phase != PhaseNotStarted {
		return nil, &RejectionError{Reason: ReasonCombatOver}
	}

	c.shufflePile(c.draw)
	c.liftInnateCards()

	for _, e := range c.enemies {
		e.RollMove(c.src)
	}

	c.player.Belt.OnCombatStart()

	events := []event.Event{{Trigger: vocab.TriggerCombatStart}}
	events = append(events, c.beginPlayerTurn()...)
	return c.finish(events), nil
}

// GivePotion places def in the first empty slot. Returns false when the belt
// is full. Fires POTION_GAINED through the relic belt on success.
func (c *Combat) GivePotion(def *potion.Def) bool {
	for i, slot := range c.player.Potions {
		if slot == nil {
			c.player.Potions[i] = def
			c.finish([]event.Event{{Trigger: vocab.TriggerPotionGained}})
			return true
		}
	}
	return false
}

// finish appends events to the full log, runs the relic belt over them, and
// returns the combined list for the caller. Events produced by relic actions
// are logged but not re-scanned.
func (c *Combat) finish(events []event.Event) []event.Event {
	if len(events) == 0 {
		return nil
	}
	produced := c.player.Belt.Process(events, c.relicContext())
	all := append(events, produced...)
	c.events = append(c.events, all...)

	// Relic damage can finish off the roster.
	if !c.phase.Over() {
		if evs := c.checkVictory(); len(evs) > 0 {
			c.events = append(c.events, evs...)
			all = append(all, evs...)
		}
	}
	return all
}

func (c *Combat) relicContext() *relic.Context {
	return &relic.Context{
		Player: c.player.Combatant,
		Foes:   c.foes(),
		Src:    c.src,
		Log:    c.log,
		Hooks: relic.Hooks{
			Draw:       c.drawCards,
			GainEnergy: c.gainEnergy,
			GainGold:   func(n int) { c.player.Gold += n },
			GainMaxHP: func(n int) {
				c.player.MaxHP += n
				c.player.CurrentHP += n
			},
		},
	}
}

func (c *Combat) foes() []*combatant.Combatant {
	out := make([]*combatant.Combatant, len(c.enemies))
	for i, e := range c.enemies {
		out[i] = e.Combatant
	}
	return out
}

// checkVictory transitions to VICTORY when no enemy is left alive. Returns
// the transition events, or nil when the fight goes on.
func (c *Combat) checkVictory() []event.Event {
	for _, e := range c.enemies {
		if !e.IsDead() {
			return nil
		}
	}
	c.phase = PhaseVictory
	return []event.Event{
		{Trigger: vocab.TriggerCombatVictory},
		{Trigger: vocab.TriggerCombatEnd},
	}
}

// markDefeat transitions to DEFEAT. Returns the transition events.
func (c *Combat) markDefeat() []event.Event {
	c.phase = PhaseDefeat
	return []event.Event{{Trigger: vocab.TriggerCombatEnd}}
}

// Phase returns the current lifecycle phase.
func (c *Combat) Phase() Phase { return c.phase }

// Turn returns the current turn number, 1-based. Zero before Start.
func (c *Combat) Turn() int { return c.turn }

// PlayerState returns the player's combat-scoped state.
func (c *Combat) PlayerState() *Player { return c.player }

// Enemies returns the enemy roster, dead members included, in roster order.
func (c *Combat) Enemies() []*enemy.Instance { return c.enemies }

// Hand returns a snapshot copy of the hand.
func (c *Combat) Hand() []*card.Instance { return snapshot(c.hand) }

// DrawPile returns a snapshot copy of the draw pile, top of pile last.
func (c *Combat) DrawPile() []*card.Instance { return snapshot(c.draw) }

// DiscardPile returns a snapshot copy of the discard pile.
func (c *Combat) DiscardPile() []*card.Instance { return snapshot(c.discard) }

// ExhaustPile returns a snapshot copy of the exhaust pile.
func (c *Combat) ExhaustPile() []*card.Instance { return snapshot(c.exhaust) }

// Events returns the full ordered event log since Start.
func (c *Combat) Events() []event.Event {
	out := make([]event.Event, len(c.events))
	copy(out, c.events)
	return out
}

func snapshot(pile []*card.Instance) []*card.Instance {
	out := make([]*card.Instance, len(pile))
	copy(out, pile)
	return out
}
