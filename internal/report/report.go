// Package report renders a human-readable summary of an analysis run,
// as markdown for CLI output and HTML for the API.
package report

import (
	"fmt"
	"strings"
	"time"

	"causaledge/domain/causal"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Markdown builds a markdown report for a completed run.
func Markdown(run *causal.AnalysisRun) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Causal Analysis Report\n\n")
	fmt.Fprintf(&b, "- **Run:** %s\n", run.ID)
	fmt.Fprintf(&b, "- **Method:** %s\n", run.Method)
	fmt.Fprintf(&b, "- **Created:** %s\n", run.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- **Success:** %t\n\n", run.Success)

	result := run.Result
	if result == nil {
		b.WriteString("No result recorded.\n")
		return b.String()
	}
	if !result.Success {
		fmt.Fprintf(&b, "## Failure\n\n%s\n", result.Error)
		return b.String()
	}

	b.WriteString("## Edge Effects\n\n")
	if len(result.Parameters.Edges) == 0 {
		b.WriteString("No edges estimated.\n\n")
	} else {
		b.WriteString("| Source | Target | Coefficient | Std. Error | p-value | Confidence | Strength |\n")
		b.WriteString("|--------|--------|-------------|------------|---------|------------|----------|\n")
		for _, eff := range result.Parameters.Edges {
			fmt.Fprintf(&b, "| %s | %s | %.4f | %.4f | %.4f | %.1f%% | %s |\n",
				eff.Source, eff.Target, eff.Coefficient, eff.StandardError,
				eff.PValue, eff.Confidence*100, eff.Strength)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Model Performance\n\n")
	p := result.Performance
	fmt.Fprintf(&b, "- **R²:** %.4f\n", p.RSquared)
	fmt.Fprintf(&b, "- **RMSE:** %.4f\n", p.RMSE)
	fmt.Fprintf(&b, "- **AIC:** %.2f\n", p.AIC)
	fmt.Fprintf(&b, "- **BIC:** %.2f\n\n", p.BIC)

	inc := result.Incrementality
	b.WriteString("## Incrementality\n\n")
	fmt.Fprintf(&b, "- **Outcome:** %s\n", inc.Outcome)
	fmt.Fprintf(&b, "- **Baseline effect:** %.1f%%\n", inc.BaselineEffect*100)
	fmt.Fprintf(&b, "- **Total incremental impact:** %.1f%%\n\n", inc.TotalIncrementalImpact*100)
	if len(inc.ChannelContributions) > 0 {
		b.WriteString("| Channel | Contribution | Share |\n")
		b.WriteString("|---------|--------------|-------|\n")
		for _, c := range inc.ChannelContributions {
			fmt.Fprintf(&b, "| %s | %.2f | %.1f%% |\n", c.Channel, c.TotalContribution, c.PercentageContribution)
		}
		b.WriteString("\n")
	}

	if n := len(result.Predictions.ActualVsPredicted); n > 0 {
		fmt.Fprintf(&b, "## Predictions\n\n%d fitted periods", n)
		first := result.Predictions.ActualVsPredicted[0]
		last := result.Predictions.ActualVsPredicted[n-1]
		fmt.Fprintf(&b, " (%s through %s).\n", first.Date, last.Date)
	}

	return b.String()
}

// RenderHTML converts a markdown report to an HTML fragment.
func RenderHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	doc := p.Parse([]byte(md))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(doc, renderer)
}
