package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/models"
)

// ANSI color codes (used when Colored=true).
const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[0;31m"
	ansiYellow = "\033[0;33m"
	ansiGreen  = "\033[0;32m"
	ansiBlue   = "\033[0;34m"
)

// TableOptions controls table rendering.
type TableOptions struct {
	// Colored wraps confidence and health status labels with ANSI codes.
	// Default false (CI-safe).
	Colored bool
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// ShortenMessage truncates msg to at most max runes, appending "..." when truncated.
// max is treated as at least 4 to guarantee space for the ellipsis.
func ShortenMessage(msg string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(msg)
	if len(runes) <= max {
		return msg
	}
	return string(runes[:max-3]) + "..."
}

// truncateField shortens s to at most max runes for name and label columns.
func truncateField(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

func confidenceColor(c models.ConfidenceLevel) string {
	switch c {
	case models.ConfidenceHigh:
		return ansiRed
	case models.ConfidenceMedium:
		return ansiYellow
	case models.ConfidenceLow:
		return ansiBlue
	}
	return ""
}

func healthColor(s models.HealthStatus) string {
	switch s {
	case models.HealthOptimal:
		return ansiGreen
	case models.HealthOverProvisioned:
		return ansiYellow
	case models.HealthUnderProvisioned:
		return ansiRed
	}
	return ""
}

// coloredCell pads text to width. ANSI codes wrap only the text so the
// trailing padding keeps later columns aligned.
func coloredCell(text, code string, width int, colored bool) string {
	if !colored || code == "" {
		return fmt.Sprintf("%-*s", width, text)
	}
	spaces := width - len(text)
	if spaces < 0 {
		spaces = 0
	}
	return code + text + ansiReset + strings.Repeat(" ", spaces)
}

// RenderRecommendations writes the recommendations of summary followed by a
// totals footer.
//
// Column order:
//
//	RESOURCE  RULE  CONFIDENCE  ACTION  SAVINGS/MO
func RenderRecommendations(w io.Writer, summary models.OptimizationSummary, opts TableOptions) {
	if len(summary.Recommendations) == 0 {
		fmt.Fprintln(w, "No recommendations.")
	} else {
		const (
			wResource   = 24
			wRule       = 22
			wConfidence = 10
			wAction     = 50
		)

		header := fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  SAVINGS/MO",
			wResource, "RESOURCE", wRule, "RULE", wConfidence, "CONFIDENCE", wAction, "ACTION")
		fmt.Fprintln(w, header)
		fmt.Fprintln(w, strings.Repeat("-", len(header)))

		for _, r := range summary.Recommendations {
			fmt.Fprintf(w, "%-*s  %-*s  %s  %-*s  $%.2f\n",
				wResource, truncateField(r.ResourceName, wResource),
				wRule, truncateField(r.RuleID, wRule),
				coloredCell(string(r.ConfidenceLevel), confidenceColor(r.ConfidenceLevel), wConfidence, opts.Colored),
				wAction, ShortenMessage(r.RecommendedAction, wAction),
				r.EstimatedSavings,
			)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Resources analyzed:  %d\n", summary.TotalResources)
	fmt.Fprintf(w, "Total monthly cost:  $%.2f\n", summary.TotalMonthlyCost)
	fmt.Fprintf(w, "Potential savings:   $%.2f (%.2f%%)\n", summary.TotalPotentialSavings, summary.SavingsPercentage)
}

// RenderResources writes the resource inventory. Unmeasured utilization is
// shown as "-".
func RenderResources(w io.Writer, resources []models.Resource) {
	if len(resources) == 0 {
		fmt.Fprintln(w, "No resources.")
		return
	}

	const (
		wID       = 5
		wName     = 24
		wType     = 9
		wProvider = 8
		wInstance = 18
		wRegion   = 14
		wPct      = 6
	)

	header := fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %-*s  %-*s  %*s  %*s  %*s  COST/MO",
		wID, "ID", wName, "NAME", wType, "TYPE", wProvider, "PROVIDER",
		wInstance, "INSTANCE TYPE", wRegion, "REGION", wPct, "CPU%", wPct, "MEM%", wPct+3, "STORAGE")
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", len(header)))

	for _, r := range resources {
		fmt.Fprintf(w, "%-*d  %-*s  %-*s  %-*s  %-*s  %-*s  %*s  %*s  %*s  $%.2f\n",
			wID, r.ID,
			wName, truncateField(r.Name, wName),
			wType, r.ResourceType,
			wProvider, r.Provider,
			wInstance, truncateField(r.InstanceType, wInstance),
			wRegion, truncateField(r.Region, wRegion),
			wPct, optional(r.CPUUtilization, "%.1f"),
			wPct, optional(r.MemoryUtilization, "%.1f"),
			wPct+3, optional(r.StorageUsage, "%.0fGB"),
			r.MonthlyCost,
		)
	}
}

func optional(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}

// RenderHealth writes a single resource health report.
func RenderHealth(w io.Writer, h models.ResourceHealth, opts TableOptions) {
	fmt.Fprintf(w, "Resource:      %s (id %d)\n", h.ResourceName, h.ResourceID)
	fmt.Fprintf(w, "Health score:  %d/100\n", h.HealthScore)
	fmt.Fprintf(w, "Status:        %s\n", strings.TrimSpace(coloredCell(string(h.Status), healthColor(h.Status), 0, opts.Colored)))
	fmt.Fprintf(w, "Monthly cost:  $%.2f\n", h.MonthlyCost)
	if len(h.Issues) == 0 {
		fmt.Fprintln(w, "Issues:        none")
		return
	}
	fmt.Fprintln(w, "Issues:")
	for _, issue := range h.Issues {
		fmt.Fprintf(w, "  - %s\n", issue)
	}
}

// RenderCostAnalytics writes the cost breakdown by resource type and by
// provider, most expensive group first.
func RenderCostAnalytics(w io.Writer, ca models.CostAnalytics) {
	fmt.Fprintf(w, "Total resources:     %d\n", ca.TotalResources)
	fmt.Fprintf(w, "Total monthly cost:  $%.2f\n", ca.TotalMonthlyCost)

	byType := make(map[string]models.CostBreakdown, len(ca.CostByType))
	for k, v := range ca.CostByType {
		byType[string(k)] = v
	}
	byProvider := make(map[string]models.CostBreakdown, len(ca.CostByProvider))
	for k, v := range ca.CostByProvider {
		byProvider[string(k)] = v
	}

	renderBreakdown(w, "TYPE", byType)
	renderBreakdown(w, "PROVIDER", byProvider)

	p := ca.OptimizationPotential
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Recommendations:     %d\n", p.RecommendationsCount)
	fmt.Fprintf(w, "Potential savings:   $%.2f (%.2f%%)\n", p.PotentialSavings, p.SavingsPercentage)
}

func renderBreakdown(w io.Writer, label string, groups map[string]models.CostBreakdown) {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ci, cj := groups[keys[i]].Cost, groups[keys[j]].Cost
		if ci != cj {
			return ci > cj
		}
		return keys[i] < keys[j]
	})

	fmt.Fprintln(w)
	header := fmt.Sprintf("%-12s  %5s  %12s", label, "COUNT", "COST/MO")
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", len(header)))
	for _, k := range keys {
		g := groups[k]
		fmt.Fprintf(w, "%-12s  %5d  %12s\n", k, g.Count, fmt.Sprintf("$%.2f", g.Cost))
	}
}
