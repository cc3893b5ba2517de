// Package main provides a content validation tool. It loads a YAML content
// tree through the same loaders the engine uses, so a content edit that
// breaks a closed vocabulary fails here instead of at engine start.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/tfaulds/emberdeck/internal/catalog"
)

func main() {
	contentDir := flag.String("content", "content", "path to the content tree root")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	start := time.Now()
	cat, err := catalog.Load(*contentDir, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "content validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("content ok: %d cards, %d enemies, %d relics, %d potions [%s]\n",
		cat.Cards.Len(), cat.Enemies.Len(), cat.Relics.Len(), cat.Potions.Len(),
		time.Since(start).Round(time.Millisecond))
}
