package models

// CostBreakdown is the resource count and summed monthly cost of one group.
type CostBreakdown struct {
	Count int     `json:"count"`
	Cost  float64 `json:"cost"`
}

// OptimizationPotential condenses an OptimizationSummary for analytics output.
type OptimizationPotential struct {
	PotentialSavings     float64 `json:"potential_savings"`
	SavingsPercentage    float64 `json:"savings_percentage"`
	RecommendationsCount int     `json:"recommendations_count"`
}

// CostAnalytics groups the monthly spend of a resource set by type and by
// provider, together with its optimization potential.
type CostAnalytics struct {
	TotalMonthlyCost      float64                         `json:"total_monthly_cost"`
	TotalResources        int                             `json:"total_resources"`
	CostByType            map[ResourceType]CostBreakdown  `json:"cost_by_type"`
	CostByProvider        map[CloudProvider]CostBreakdown `json:"cost_by_provider"`
	OptimizationPotential OptimizationPotential           `json:"optimization_potential"`
}
