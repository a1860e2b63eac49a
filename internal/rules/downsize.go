package rules

import (
	"fmt"

	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/models"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/policy"
)

const (
	downsizeRuleID = "DOWNSIZE_UNDERUTILIZED"

	downsizeCPUThresholdPercent    = 30.0
	downsizeMemoryThresholdPercent = 50.0

	// downsizeDefaultSavingsRate is applied to the monthly cost when the
	// instance type has no downsizing table entry.
	downsizeDefaultSavingsRate = 0.35
)

// downsizeTypes are the resource types that have an instance size to shrink.
var downsizeTypes = map[models.ResourceType]struct{}{
	models.ResourceCompute:  {},
	models.ResourceDatabase: {},
	models.ResourceCache:    {},
}

// DownsizeRule flags compute, database and cache resources whose CPU and
// memory utilization are both below threshold.
//
// Both measurements must be present. Savings come from the downsizing table
// when the instance type has an entry, otherwise from a fixed share of the
// monthly cost.
type DownsizeRule struct{}

func (r DownsizeRule) ID() string   { return downsizeRuleID }
func (r DownsizeRule) Name() string { return "Over-provisioned Instance" }

func (r DownsizeRule) Evaluate(ctx RuleContext) []models.Recommendation {
	res := ctx.Resource
	if res == nil {
		return nil
	}
	if _, ok := downsizeTypes[res.ResourceType]; !ok {
		return nil
	}
	if res.CPUUtilization == nil || res.MemoryUtilization == nil {
		return nil
	}

	cpuThreshold := policy.GetThreshold(downsizeRuleID, "cpu_threshold", downsizeCPUThresholdPercent, ctx.Policy)
	memThreshold := policy.GetThreshold(downsizeRuleID, "memory_threshold", downsizeMemoryThresholdPercent, ctx.Policy)

	cpu, mem := *res.CPUUtilization, *res.MemoryUtilization
	if cpu >= cpuThreshold || mem >= memThreshold {
		return nil
	}

	rec := models.Recommendation{
		RuleID:             downsizeRuleID,
		ResourceID:         res.ID,
		ResourceName:       res.Name,
		CurrentCost:        res.MonthlyCost,
		RecommendationType: models.RecommendationDownsize,
		Description: fmt.Sprintf("Over-provisioned instance with %s CPU and %s memory utilization",
			percent(cpu), percent(mem)),
		ConfidenceLevel: models.ConfidenceHigh,
	}

	if target, ok := policy.LookupDownsize(res.InstanceType, ctx.Policy); ok {
		rec.EstimatedSavings = target.Savings
		rec.TargetInstanceType = target.To
		rec.RecommendedAction = fmt.Sprintf("Downsize from %s to %s", res.InstanceType, target.To)
	} else {
		rate := policy.GetThreshold(downsizeRuleID, "default_savings_rate", downsizeDefaultSavingsRate, ctx.Policy)
		rec.EstimatedSavings = res.MonthlyCost * rate
		rec.RecommendedAction = fmt.Sprintf("Downsize from %s to a smaller instance type", res.InstanceType)
	}

	return []models.Recommendation{rec}
}
