// Package catalog aggregates the content registries into one immutable
// object constructed at process start and injected into the engine. There is
// no lazy loading and no global state; a test can hand the engine a
// synthetic catalog built in memory.
package catalog

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/tfaulds/emberdeck/internal/game/card"
	"github.com/tfaulds/emberdeck/internal/game/enemy"
	"github.com/tfaulds/emberdeck/internal/game/potion"
	"github.com/tfaulds/emberdeck/internal/game/relic"
)

// Catalog holds every loaded content registry.
type Catalog struct {
	Cards   *card.Registry
	Enemies *enemy.Registry
	Relics  *relic.Registry
	Potions *potion.Registry
}

// Load reads the content tree rooted at dir. The expected layout is
// dir/cards, dir/enemies, dir/relics and dir/potions, each holding one YAML
// file per record.
//
// Precondition: logger must not be nil.
// Postcondition: Returns a fully validated catalog, or the first load error.
func Load(dir string, logger *zap.Logger) (*Catalog, error) {
	cards, err := card.LoadDirectory(filepath.Join(dir, "cards"))
	if err != nil {
		return nil, fmt.Errorf("loading cards: %w", err)
	}
	enemies, err := enemy.LoadDirectory(filepath.Join(dir, "enemies"))
	if err != nil {
		return nil, fmt.Errorf("loading enemies: %w", err)
	}
	relics, err := relic.LoadDirectory(filepath.Join(dir, "relics"), logger)
	if err != nil {
		return nil, fmt.Errorf("loading relics: %w", err)
	}
	potions, err := potion.LoadDirectory(filepath.Join(dir, "potions"))
	if err != nil {
		return nil, fmt.Errorf("loading potions: %w", err)
	}

	logger.Info("content catalog loaded",
		zap.Int("cards", cards.Len()),
		zap.Int("enemies", enemies.Len()),
		zap.Int("relics", relics.Len()),
		zap.Int("potions", potions.Len()))

	return &Catalog{
		Cards:   cards,
		Enemies: enemies,
		Relics:  relics,
		Potions: potions,
	}, nil
}
