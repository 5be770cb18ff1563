package main

import (
	"log"

	"causaledge/adapters/ingest"
	"causaledge/adapters/matching"
	"causaledge/adapters/postgres"
	"causaledge/adapters/sampler"
	"causaledge/app"
	"causaledge/internal/analysis"
	"causaledge/internal/api"
	"causaledge/internal/config"
	"causaledge/ports"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[API] failed to load config: %v", err)
	}

	samplerCfg := sampler.DefaultConfig()
	samplerCfg.Chains = cfg.Sampler.Chains
	samplerCfg.WarmupDraws = cfg.Sampler.WarmupDraws
	samplerCfg.RetainedDraws = cfg.Sampler.RetainedDraws
	samplerCfg.TargetAccept = cfg.Sampler.TargetAccept
	samplerCfg.Seed = cfg.Sampler.Seed

	var runs ports.RunRepository
	if cfg.Storage.DatabaseURL != "" {
		runs, err = postgres.NewRunRepository(cfg.Storage.DatabaseURL)
		if err != nil {
			log.Fatalf("[API] failed to connect to database: %v", err)
		}
		log.Printf("[API] Run persistence enabled")
	} else {
		log.Printf("[API] DATABASE_URL not set, runs will not be persisted")
	}

	matcher := matching.NewHeuristicMatcher(cfg.Sampler.Verbose)
	pipeline := analysis.NewPipeline(matcher, sampler.New(samplerCfg))
	service := app.NewAnalysisService(ingest.NewIngester(), pipeline, runs)

	server := api.NewApp(service)
	if err := server.Start(api.Config{Port: cfg.Server.Port}); err != nil {
		log.Fatalf("[API] server failed: %v", err)
	}
}
