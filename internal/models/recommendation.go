package models

import "time"

// RecommendationType names the optimization action proposed for a resource.
type RecommendationType string

const (
	RecommendationDownsize            RecommendationType = "downsize"
	RecommendationStorageOptimization RecommendationType = "storage_optimization"
	RecommendationTerminate           RecommendationType = "terminate"
)

// ConfidenceLevel expresses how reliable a recommendation is.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// Recommendation is a single proposed optimization for a single resource.
// It is the atomic output unit of the rule engine.
type Recommendation struct {
	RuleID             string             `json:"rule_id"`
	ResourceID         int64              `json:"resource_id"`
	ResourceName       string             `json:"resource_name"`
	CurrentCost        float64            `json:"current_cost"`
	RecommendationType RecommendationType `json:"recommendation_type"`
	Description        string             `json:"description"`
	RecommendedAction  string             `json:"recommended_action"`
	EstimatedSavings   float64            `json:"estimated_savings"`
	ConfidenceLevel    ConfidenceLevel    `json:"confidence_level"`
	// TargetInstanceType is set by downsize recommendations when the
	// downsizing table names a concrete target.
	TargetInstanceType string `json:"target_instance_type,omitempty"`
}

// OptimizationSummary aggregates an analysis run over a resource set.
type OptimizationSummary struct {
	TotalResources        int              `json:"total_resources"`
	TotalMonthlyCost      float64          `json:"total_monthly_cost"`
	TotalPotentialSavings float64          `json:"total_potential_savings"`
	SavingsPercentage     float64          `json:"savings_percentage"`
	Recommendations       []Recommendation `json:"recommendations"`
}

// AnalysisReport is the top-level output of a recommend run.
type AnalysisReport struct {
	ReportID    string              `json:"report_id"`
	GeneratedAt time.Time           `json:"generated_at"`
	Source      string              `json:"source"`
	Summary     OptimizationSummary `json:"summary"`
}
