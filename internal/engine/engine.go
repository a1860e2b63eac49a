package engine

import (
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/models"
)

// ReportFormat controls the CLI output format.
type ReportFormat string

const (
	ReportFormatJSON  ReportFormat = "json"
	ReportFormatTable ReportFormat = "table"
)

// Engine is the central analysis interface.
// It turns a resource set into recommendations, health scores and cost
// analytics. Implementations are pure: they perform no I/O, never mutate
// their input, and return identical output for identical input.
type Engine interface {
	Analyze(resources []models.Resource) models.OptimizationSummary
	Health(resource models.Resource) models.HealthScore
	CostAnalytics(resources []models.Resource) models.CostAnalytics
}
