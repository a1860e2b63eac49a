package engine

import (
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/models"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/rules"
)

// computeCostAnalytics groups resource spend by type and provider and folds
// in the optimization potential from summary.
func computeCostAnalytics(resources []models.Resource, summary models.OptimizationSummary) models.CostAnalytics {
	a := models.CostAnalytics{
		TotalResources: len(resources),
		CostByType:     make(map[models.ResourceType]models.CostBreakdown),
		CostByProvider: make(map[models.CloudProvider]models.CostBreakdown),
		OptimizationPotential: models.OptimizationPotential{
			PotentialSavings:     summary.TotalPotentialSavings,
			SavingsPercentage:    summary.SavingsPercentage,
			RecommendationsCount: len(summary.Recommendations),
		},
	}

	var total float64
	for _, r := range resources {
		total += r.MonthlyCost

		bt := a.CostByType[r.ResourceType]
		bt.Count++
		bt.Cost += r.MonthlyCost
		a.CostByType[r.ResourceType] = bt

		bp := a.CostByProvider[r.Provider]
		bp.Count++
		bp.Cost += r.MonthlyCost
		a.CostByProvider[r.Provider] = bp
	}
	a.TotalMonthlyCost = rules.Round2(total)

	return a
}
