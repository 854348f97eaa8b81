package main

import (
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/SanderSepp/omicron-app/internal/config"
	"github.com/SanderSepp/omicron-app/internal/hazards"
	"github.com/SanderSepp/omicron-app/internal/logging"
)

// datacheck loads the static datasets and reports what it finds, so bad
// data files surface before a deploy.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	set, err := hazards.Load(
		cfg.Data.FloodedAreaPath,
		cfg.Data.PotentialFloodPath,
		cfg.Data.FloodResourcesPath,
		cfg.Data.GeneralAreaPath,
	)
	if err != nil {
		logging.Fatalf("Failed to load datasets: %v", err)
	}

	slog.Info("datasets loaded",
		"flooded_areas", len(set.Flooded),
		"potential_flood_areas", len(set.PotentialFlood),
		"general_areas", len(set.General),
		"flood_resources", len(set.FloodResources),
	)
}
