package policy

import (
	"fmt"
	"strings"

	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/models"
)

// confidenceRank orders confidence levels for threshold comparisons.
var confidenceRank = map[models.ConfidenceLevel]int{
	models.ConfidenceHigh:   3,
	models.ConfidenceMedium: 2,
	models.ConfidenceLow:    1,
}

// ShouldFail reports whether summary violates the enforcement block of cfg,
// together with a human-readable reason.
//
// It returns false when cfg is nil, no enforcement block is configured, or
// neither threshold is crossed. An unrecognised fail_on_confidence value is
// ignored; Validate reports it.
func ShouldFail(summary models.OptimizationSummary, cfg *PolicyConfig) (bool, string) {
	if cfg == nil || cfg.Enforcement == nil {
		return false, ""
	}
	enf := cfg.Enforcement

	if limit := enf.MaxSavingsPercentage; limit != nil && summary.SavingsPercentage > *limit {
		return true, fmt.Sprintf("savings percentage %.2f%% exceeds %.2f%%", summary.SavingsPercentage, *limit)
	}

	if enf.FailOnConfidence == "" {
		return false, ""
	}
	threshold, ok := confidenceRank[models.ConfidenceLevel(strings.ToLower(enf.FailOnConfidence))]
	if !ok {
		return false, ""
	}
	for _, r := range summary.Recommendations {
		if rank, ok := confidenceRank[r.ConfidenceLevel]; ok && rank >= threshold {
			return true, fmt.Sprintf("%s recommendation for %s has %s confidence", r.RecommendationType, r.ResourceName, r.ConfidenceLevel)
		}
	}
	return false, ""
}
