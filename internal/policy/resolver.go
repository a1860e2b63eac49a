package policy

import (
	"strings"

	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/models"
)

// ApplyPolicy drops recommendations of disabled rules and applies confidence
// overrides. Order of the surviving recommendations is preserved.
func ApplyPolicy(recs []models.Recommendation, cfg *PolicyConfig) []models.Recommendation {
	if cfg == nil {
		return recs
	}

	result := make([]models.Recommendation, 0, len(recs))

	for _, r := range recs {
		if !RuleEnabled(r.RuleID, cfg) {
			continue
		}

		if ruleCfg, ok := cfg.Rules[r.RuleID]; ok && ruleCfg.Confidence != "" {
			r.ConfidenceLevel = models.ConfidenceLevel(strings.ToLower(ruleCfg.Confidence))
		}

		result = append(result, r)
	}

	return result
}

// RuleEnabled reports whether ruleID is enabled. Rules are enabled unless a
// policy explicitly disables them.
func RuleEnabled(ruleID string, cfg *PolicyConfig) bool {
	if cfg == nil {
		return true
	}
	rc, ok := cfg.Rules[ruleID]
	if !ok || rc.Enabled == nil {
		return true
	}
	return *rc.Enabled
}
