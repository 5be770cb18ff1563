package testkit

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"time"

	"causaledge/domain/dag"
)

// MarketingGeneratorConfig configures the marketing data generator
type MarketingGeneratorConfig struct {
	Periods       int       `json:"periods"`
	Channels      []string  `json:"channels"`
	Outcome       string    `json:"outcome"`
	BaseSpend     float64   `json:"base_spend"`
	BaselineValue float64   `json:"baseline_value"`
	NoiseScale    float64   `json:"noise_scale"`
	StartDate     time.Time `json:"start_date"`
	Seed          int64     `json:"seed"`
}

// DefaultMarketingConfig returns sensible defaults for marketing data generation
func DefaultMarketingConfig() MarketingGeneratorConfig {
	return MarketingGeneratorConfig{
		Periods:       52,
		Channels:      []string{"search_spend", "social_spend", "video_spend"},
		Outcome:       "revenue",
		BaseSpend:     1000,
		BaselineValue: 5000,
		NoiseScale:    0.05,
		StartDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Seed:          42,
	}
}

// MarketingDataGenerator generates synthetic channel-spend observations
// with a known causal structure, so pipeline tests can check recovered
// effects against planted ones.
type MarketingDataGenerator struct {
	config MarketingGeneratorConfig
	rng    *rand.Rand
}

// NewMarketingDataGenerator creates a new marketing data generator
func NewMarketingDataGenerator(config MarketingGeneratorConfig) *MarketingDataGenerator {
	return &MarketingDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// PlantedEffect returns the true per-unit effect used for a channel.
// Effects decay by channel position so each channel is distinguishable.
func (g *MarketingDataGenerator) PlantedEffect(channelIdx int) float64 {
	return 2.0 / float64(channelIdx+1)
}

// GenerateRows produces the tabular data: a header row followed by one
// row per period with a date, one spend column per channel, and the
// outcome column last.
func (g *MarketingDataGenerator) GenerateRows() [][]string {
	header := []string{"date"}
	header = append(header, g.config.Channels...)
	header = append(header, g.config.Outcome)

	rows := [][]string{header}
	for p := 0; p < g.config.Periods; p++ {
		date := g.config.StartDate.AddDate(0, 0, 7*p)
		row := []string{date.Format("2006-01-02")}

		outcome := g.config.BaselineValue
		for c := range g.config.Channels {
			// Seasonal spend with per-channel phase so columns are
			// not collinear.
			phase := float64(c) * math.Pi / 3
			spend := g.config.BaseSpend * (1 + 0.4*math.Sin(2*math.Pi*float64(p)/26+phase))
			spend += g.rng.NormFloat64() * g.config.BaseSpend * 0.05
			if spend < 0 {
				spend = 0
			}
			row = append(row, fmt.Sprintf("%.2f", spend))
			outcome += g.PlantedEffect(c) * spend
		}
		outcome += g.rng.NormFloat64() * g.config.BaselineValue * g.config.NoiseScale
		row = append(row, fmt.Sprintf("%.2f", outcome))
		rows = append(rows, row)
	}
	return rows
}

// GenerateDAG produces the matching structure: one edge from every
// channel node into the outcome node.
func (g *MarketingDataGenerator) GenerateDAG() dag.Structure {
	structure := dag.Structure{}
	for _, ch := range g.config.Channels {
		structure.Nodes = append(structure.Nodes, dag.Node{ID: ch, Label: ch, Type: "driver"})
		structure.Edges = append(structure.Edges, dag.Edge{Source: ch, Target: g.config.Outcome})
	}
	structure.Nodes = append(structure.Nodes, dag.Node{ID: g.config.Outcome, Label: g.config.Outcome, Type: "outcome"})
	return structure
}

// GeneratePayload assembles the full request payload as the analyze
// endpoints accept it.
func (g *MarketingDataGenerator) GeneratePayload() ([]byte, error) {
	payload := map[string]any{
		"data":         g.GenerateRows(),
		"config":       map[string]any{"hasHeaders": true},
		"dagStructure": g.GenerateDAG(),
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return raw, nil
}
