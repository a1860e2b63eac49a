package rules

import (
	"fmt"

	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/models"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/policy"
)

const (
	terminateRuleID = "TERMINATE_IDLE"

	terminateCPUThresholdPercent    = 10.0
	terminateMemoryThresholdPercent = 20.0
	terminateSavingsRate            = 0.8
)

// TerminateRule flags resources of any type that are close to idle on both
// CPU and memory. It is independent of DownsizeRule; a resource may receive
// both recommendations.
//
// Savings are not rounded.
type TerminateRule struct{}

func (r TerminateRule) ID() string   { return terminateRuleID }
func (r TerminateRule) Name() string { return "Idle Resource" }

func (r TerminateRule) Evaluate(ctx RuleContext) []models.Recommendation {
	res := ctx.Resource
	if res == nil || res.CPUUtilization == nil || res.MemoryUtilization == nil {
		return nil
	}

	cpuThreshold := policy.GetThreshold(terminateRuleID, "cpu_threshold", terminateCPUThresholdPercent, ctx.Policy)
	memThreshold := policy.GetThreshold(terminateRuleID, "memory_threshold", terminateMemoryThresholdPercent, ctx.Policy)

	if *res.CPUUtilization >= cpuThreshold || *res.MemoryUtilization >= memThreshold {
		return nil
	}
	rate := policy.GetThreshold(terminateRuleID, "savings_rate", terminateSavingsRate, ctx.Policy)

	return []models.Recommendation{{
		RuleID:             terminateRuleID,
		ResourceID:         res.ID,
		ResourceName:       res.Name,
		CurrentCost:        res.MonthlyCost,
		RecommendationType: models.RecommendationTerminate,
		Description:        fmt.Sprintf("Severely underutilized resource with %s CPU usage", percent(*res.CPUUtilization)),
		RecommendedAction:  "Consider terminating this resource if it is no longer needed",
		EstimatedSavings:   res.MonthlyCost * rate,
		ConfidenceLevel:    models.ConfidenceMedium,
	}}
}
