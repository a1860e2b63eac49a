package engine

import (
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/models"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/rules"
)

// computeSummary aggregates resources and the recommendations produced for
// them. Totals are summed unrounded; only the percentage is rounded.
func computeSummary(resources []models.Resource, recs []models.Recommendation) models.OptimizationSummary {
	s := models.OptimizationSummary{
		TotalResources:  len(resources),
		Recommendations: recs,
	}
	if s.Recommendations == nil {
		s.Recommendations = []models.Recommendation{}
	}
	for _, r := range resources {
		s.TotalMonthlyCost += r.MonthlyCost
	}
	for _, rec := range recs {
		s.TotalPotentialSavings += rec.EstimatedSavings
	}
	s.SavingsPercentage = savingsPercentage(s.TotalPotentialSavings, s.TotalMonthlyCost)
	return s
}

// savingsPercentage returns savings as a percentage of cost rounded to two
// decimals, or 0 when cost is not positive.
func savingsPercentage(savings, cost float64) float64 {
	if cost <= 0 {
		return 0
	}
	return rules.Round2(savings / cost * 100)
}
