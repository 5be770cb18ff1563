package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"causaledge/adapters/ingest"
	"causaledge/adapters/matching"
	"causaledge/adapters/sampler"
	"causaledge/app"
	"causaledge/domain/dag"
	"causaledge/internal/analysis"
	"causaledge/internal/config"
	"causaledge/internal/report"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Output markers let callers extract the JSON envelope from a stream
// that also carries log noise.
const (
	jsonStartMarker = "===JSON_START==="
	jsonEndMarker   = "===JSON_END==="
)

func main() {
	// All logging goes to stderr so stdout stays parseable.
	log.SetOutput(os.Stderr)
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "causaledge",
		Short: "Per-edge causal effect estimation over tabular observations",
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newReportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newAnalyzeCmd() *cobra.Command {
	var dataPath, dagPath string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the analysis and print the JSON envelope between markers",
		Long: `Run the full causal analysis.

Reads a JSON payload (data, config, dagStructure) from stdin, or loads
tabular data from --data (xlsx or csv) combined with a --dag JSON file.
The result envelope is printed to stdout between ` + jsonStartMarker + ` and
` + jsonEndMarker + ` markers; all logging goes to stderr.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := loadPayload(dataPath, dagPath)
			if err != nil {
				return err
			}
			run := buildService(verbose).Analyze(cmd.Context(), payload)

			out, err := json.Marshal(run.Result)
			if err != nil {
				return fmt.Errorf("failed to marshal result: %w", err)
			}
			fmt.Println(jsonStartMarker)
			fmt.Println(string(out))
			fmt.Println(jsonEndMarker)

			if !run.Success {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "Path to an xlsx or csv data file (reads stdin payload when omitted)")
	cmd.Flags().StringVar(&dagPath, "dag", "", "Path to a DAG structure JSON file (required with --data)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Log column matching decisions")

	return cmd
}

func newReportCmd() *cobra.Command {
	var dataPath, dagPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run the analysis and print a markdown report",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := loadPayload(dataPath, dagPath)
			if err != nil {
				return err
			}
			run := buildService(false).Analyze(cmd.Context(), payload)
			fmt.Print(report.Markdown(run))
			if !run.Success {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "Path to an xlsx or csv data file (reads stdin payload when omitted)")
	cmd.Flags().StringVar(&dagPath, "dag", "", "Path to a DAG structure JSON file (required with --data)")

	return cmd
}

func buildService(verbose bool) *app.AnalysisService {
	cfg, _ := config.Load()

	samplerCfg := sampler.DefaultConfig()
	samplerCfg.Chains = cfg.Sampler.Chains
	samplerCfg.WarmupDraws = cfg.Sampler.WarmupDraws
	samplerCfg.RetainedDraws = cfg.Sampler.RetainedDraws
	samplerCfg.TargetAccept = cfg.Sampler.TargetAccept
	samplerCfg.Seed = cfg.Sampler.Seed

	matcher := matching.NewHeuristicMatcher(verbose || cfg.Sampler.Verbose)
	pipeline := analysis.NewPipeline(matcher, sampler.New(samplerCfg))
	return app.NewAnalysisService(ingest.NewIngester(), pipeline, nil)
}

// loadPayload assembles the raw request: either the stdin JSON payload
// or a file-backed table plus a DAG file stitched into the same shape.
func loadPayload(dataPath, dagPath string) ([]byte, error) {
	if dataPath == "" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return raw, nil
	}
	if dagPath == "" {
		return nil, fmt.Errorf("--dag is required with --data")
	}

	reader := ingest.NewDataReader(dataPath)
	cells, err := reader.ReadRows()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dataPath, err)
	}

	dagRaw, err := os.ReadFile(dagPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dagPath, err)
	}
	var structure dag.Structure
	if err := json.Unmarshal(dagRaw, &structure); err != nil {
		return nil, fmt.Errorf("invalid DAG file %s: %w", dagPath, err)
	}

	data := make([][]any, len(cells))
	for i, row := range cells {
		out := make([]any, len(row))
		for j, c := range row {
			if c.Missing {
				out[j] = nil
			} else {
				out[j] = c.Text
			}
		}
		data[i] = out
	}

	payload := map[string]any{
		"data":         data,
		"config":       map[string]any{"hasHeaders": true},
		"dagStructure": structure,
	}
	return json.Marshal(payload)
}
