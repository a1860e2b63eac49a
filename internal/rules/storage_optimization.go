package rules

import (
	"fmt"

	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/models"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/policy"
)

const (
	storageOptimizationRuleID = "STORAGE_LARGE_VOLUME"

	// storageSizeThresholdGB is the usage above which a volume is considered
	// a candidate for archiving or a cheaper tier. Equal to the threshold
	// does not fire.
	storageSizeThresholdGB = 500.0

	storageSavingsRate = 0.3
)

// StorageOptimizationRule flags storage resources holding more data than the
// size threshold. Savings are a fixed share of monthly cost, rounded to cents.
type StorageOptimizationRule struct{}

func (r StorageOptimizationRule) ID() string   { return storageOptimizationRuleID }
func (r StorageOptimizationRule) Name() string { return "Large Storage Volume" }

func (r StorageOptimizationRule) Evaluate(ctx RuleContext) []models.Recommendation {
	res := ctx.Resource
	if res == nil || res.ResourceType != models.ResourceStorage {
		return nil
	}
	if res.StorageUsage == nil {
		return nil
	}

	threshold := policy.GetThreshold(storageOptimizationRuleID, "size_threshold_gb", storageSizeThresholdGB, ctx.Policy)
	if *res.StorageUsage <= threshold {
		return nil
	}
	rate := policy.GetThreshold(storageOptimizationRuleID, "savings_rate", storageSavingsRate, ctx.Policy)

	return []models.Recommendation{{
		RuleID:             storageOptimizationRuleID,
		ResourceID:         res.ID,
		ResourceName:       res.Name,
		CurrentCost:        res.MonthlyCost,
		RecommendationType: models.RecommendationStorageOptimization,
		Description:        fmt.Sprintf("Large storage volume of %sGB detected", number(*res.StorageUsage)),
		RecommendedAction:  "Consider archiving old data or moving it to a cheaper storage tier",
		EstimatedSavings:   Round2(res.MonthlyCost * rate),
		ConfidenceLevel:    models.ConfidenceMedium,
	}}
}
