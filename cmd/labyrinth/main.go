// Package main is the entry point for Labyrinth.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/avenkatesh/labyrinth/internal/config"
	"github.com/avenkatesh/labyrinth/internal/entity"
	"github.com/avenkatesh/labyrinth/internal/game"
	"github.com/avenkatesh/labyrinth/internal/gamedata"
	"github.com/avenkatesh/labyrinth/internal/persist"
	"github.com/avenkatesh/labyrinth/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "labyrinth.yaml", "path to the YAML settings file")
	seed := flag.Int64("seed", 0, "world seed override (0 uses the configured or time-based seed)")
	arcade := flag.Bool("arcade", false, "play the real-time maze mode instead of the text session")
	flag.Parse()

	// A .env file supplies HONEYCOMB_LABYRINTH_API_KEY during local
	// development. A missing file is not an error; the variables may
	// be set directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}
	setupOTelEnv()

	ctx := context.Background()

	shutdown, err := telemetry.Setup(ctx)
	if err != nil {
		// The game runs fine without observability.
		log.Printf("Telemetry disabled: %v", err)
	} else {
		defer func() {
			if err := shutdown(ctx); err != nil {
				log.Printf("Telemetry shutdown: %v", err)
			}
		}()
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	monsters := gamedata.MustLoadMonsterRegistry()
	items := gamedata.MustLoadItemRegistry()
	factory := entity.NewFactory(monsters, rng)
	store := persist.NewCSVStore(cfg.SaveDir)

	if *arcade {
		g, err := game.NewArcade(monsters, factory, items, store, rng)
		if err != nil {
			log.Fatalf("Failed to initialize game: %v", err)
		}
		if err := g.Run(ctx); err != nil {
			log.Fatalf("Game error: %v", err)
		}
		return
	}

	session := game.NewSession(factory, items, store, cfg, rng, os.Stdin, os.Stdout)
	if err := session.Run(ctx); err != nil {
		log.Fatalf("Game error: %v", err)
	}
}

// setupOTelEnv translates the Honeycomb env vars into the OTEL_* form
// the exporter reads.
func setupOTelEnv() {
	os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")

	// The headers are built here rather than in .env, where an
	// unexpanded ${VAR} reference would pass through literally.
	apiKey := os.Getenv("HONEYCOMB_LABYRINTH_API_KEY")
	dataset := os.Getenv("HONEYCOMB_LABYRINTH_DATASET")
	if dataset == "" {
		dataset = "labyrinth"
	}
	if apiKey != "" {
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
			fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
	}
}
