// Package main provides the combat simulator: it assembles a deck, a relic
// belt and an encounter from the content catalog, runs one combat to
// completion under a greedy policy, and optionally persists the outcome.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/tfaulds/emberdeck/internal/catalog"
	"github.com/tfaulds/emberdeck/internal/config"
	"github.com/tfaulds/emberdeck/internal/game/card"
	"github.com/tfaulds/emberdeck/internal/game/combat"
	"github.com/tfaulds/emberdeck/internal/game/enemy"
	"github.com/tfaulds/emberdeck/internal/game/event"
	"github.com/tfaulds/emberdeck/internal/game/relic"
	"github.com/tfaulds/emberdeck/internal/game/rng"
	"github.com/tfaulds/emberdeck/internal/observability"
	"github.com/tfaulds/emberdeck/internal/scripting"
	"github.com/tfaulds/emberdeck/internal/storage/postgres"
)

// maxTurns caps runaway fights (e.g. a deck that cannot break a defensive
// enemy) so the simulator always terminates.
const maxTurns = 200

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	seed := flag.Int64("seed", 0, "RNG seed (0 uses the config value)")
	encounter := flag.String("encounter", "", "enemy template id (empty uses the config value)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.Sim.Seed = *seed
	}
	if *encounter != "" {
		cfg.Sim.Encounter = *encounter
	}
	if cfg.Sim.Seed == 0 {
		cfg.Sim.Seed = int64(rng.NewCryptoSource().Intn(1 << 31))
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("simulation failed", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	cat, err := catalog.Load(cfg.Game.ContentDir, logger)
	if err != nil {
		return err
	}

	tmpl, ok := cat.Enemies.Get(cfg.Sim.Encounter)
	if !ok {
		return fmt.Errorf("unknown encounter %q", cfg.Sim.Encounter)
	}

	deck, err := starterDeck(cat)
	if err != nil {
		return err
	}
	belt, err := starterBelt(cat)
	if err != nil {
		return err
	}

	c, err := combat.New(combat.Config{
		PlayerMaxHP:   cfg.Game.PlayerMaxHP,
		HandSize:      cfg.Game.HandSize,
		MaxHandSize:   cfg.Game.MaxHandSize,
		EnergyPerTurn: cfg.Game.EnergyPerTurn,
		PotionSlots:   cfg.Game.PotionSlots,
	}, deck, []*enemy.Instance{enemy.NewInstance(tmpl)}, belt, combat.Deps{
		Src:     rng.NewSeededSource(cfg.Sim.Seed),
		Log:     logger,
		Scripts: scripting.NewEvaluator(cfg.Game.ScriptInstructionLimit, logger),
	})
	if err != nil {
		return err
	}

	logger.Info("combat starting",
		zap.Int64("seed", cfg.Sim.Seed),
		zap.String("encounter", cfg.Sim.Encounter),
		zap.Int("deck_size", len(deck)))

	events, err := c.Start()
	if err != nil {
		return err
	}
	logEvents(logger, events)

	for !c.Phase().Over() && c.Turn() < maxTurns {
		events, err := playGreedyTurn(c)
		if err != nil {
			return err
		}
		logEvents(logger, events)
	}

	victory := c.Phase() == combat.PhaseVictory
	logger.Info("combat finished",
		zap.String("phase", string(c.Phase())),
		zap.Int("turns", c.Turn()),
		zap.Int("player_hp", c.PlayerState().CurrentHP))

	if cfg.Sim.Persist {
		if err := persist(cfg, c, victory); err != nil {
			return err
		}
		logger.Info("result persisted")
	}
	return nil
}

// playGreedyTurn plays the leftmost playable, affordable card (targeting the
// first living enemy) until none remains, then ends the turn.
func playGreedyTurn(c *combat.Combat) ([]event.Event, error) {
	var all []event.Event
	for {
		idx, target := pickPlay(c)
		if idx < 0 {
			events, err := c.EndTurn()
			if err != nil {
				return nil, err
			}
			return append(all, events...), nil
		}
		events, err := c.PlayCard(idx, target)
		if err != nil {
			var rej *combat.RejectionError
			if errors.As(err, &rej) {
				events, err := c.EndTurn()
				if err != nil {
					return nil, err
				}
				return append(all, events...), nil
			}
			return nil, err
		}
		all = append(all, events...)
		if c.Phase().Over() {
			return all, nil
		}
	}
}

func pickPlay(c *combat.Combat) (handIndex, target int) {
	energy := c.PlayerState().Energy
	for i, in := range c.Hand() {
		if !in.Template.Playable() {
			continue
		}
		cost := in.Cost()
		if in.Template.XCost {
			if energy == 0 {
				continue
			}
		} else if cost > energy {
			continue
		}
		if in.Template.Target.NeedsChosenTarget() {
			if t := firstLivingEnemy(c); t >= 0 {
				return i, t
			}
			continue
		}
		return i, -1
	}
	return -1, -1
}

func firstLivingEnemy(c *combat.Combat) int {
	for i, e := range c.Enemies() {
		if !e.IsDead() {
			return i
		}
	}
	return -1
}

// starterDeck builds the simulator's fixed deck: 5 Strikes, 4 Defends and a
// Bash.
func starterDeck(cat *catalog.Catalog) ([]*card.Instance, error) {
	deck := make([]*card.Instance, 0, 10)
	for _, pick := range []struct {
		id    string
		count int
	}{
		{"strike", 5},
		{"defend", 4},
		{"bash", 1},
	} {
		tmpl, ok := cat.Cards.Get(pick.id)
		if !ok {
			return nil, fmt.Errorf("starter deck: unknown card %q", pick.id)
		}
		for i := 0; i < pick.count; i++ {
			deck = append(deck, card.NewInstance(tmpl))
		}
	}
	return deck, nil
}

func starterBelt(cat *catalog.Catalog) (*relic.Belt, error) {
	burning, ok := cat.Relics.Get("burning_blood")
	if !ok {
		return nil, fmt.Errorf("starter belt: unknown relic %q", "burning_blood")
	}
	return relic.NewBelt(burning), nil
}

func logEvents(logger *zap.Logger, events []event.Event) {
	for _, ev := range events {
		logger.Debug("event",
			zap.String("trigger", string(ev.Trigger)),
			zap.Int("value", ev.Value),
			zap.String("actor", ev.ActorID),
			zap.String("card", ev.CardID))
	}
}

func persist(cfg config.Config, c *combat.Combat, victory bool) error {
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	repo := postgres.NewCombatResultRepository(pool.DB())
	_, err = repo.Create(ctx, cfg.Sim.Seed, cfg.Sim.Encounter, c.Turn(), victory, c.PlayerState().CurrentHP)
	return err
}
