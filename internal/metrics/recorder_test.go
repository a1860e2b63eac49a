package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/models"
)

func fixtures() ([]models.Resource, models.OptimizationSummary) {
	resources := []models.Resource{
		{Name: "web", ResourceType: models.ResourceCompute, Provider: models.ProviderAWS, MonthlyCost: 150},
		{Name: "api", ResourceType: models.ResourceCompute, Provider: models.ProviderAWS, MonthlyCost: 90},
		{Name: "vol", ResourceType: models.ResourceStorage, Provider: models.ProviderAWS, MonthlyCost: 100},
	}
	summary := models.OptimizationSummary{
		TotalResources:        3,
		TotalMonthlyCost:      340,
		TotalPotentialSavings: 125,
		SavingsPercentage:     36.76,
		Recommendations: []models.Recommendation{
			{RecommendationType: models.RecommendationDownsize, ConfidenceLevel: models.ConfidenceHigh, EstimatedSavings: 50},
			{RecommendationType: models.RecommendationDownsize, ConfidenceLevel: models.ConfidenceHigh, EstimatedSavings: 45},
			{RecommendationType: models.RecommendationStorageOptimization, ConfidenceLevel: models.ConfidenceMedium, EstimatedSavings: 30},
		},
	}
	return resources, summary
}

func TestRecordAnalysis(t *testing.T) {
	r := NewRecorder()
	resources, summary := fixtures()
	r.RecordAnalysis(resources, summary, time.Unix(1700000000, 0))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.resources.WithLabelValues("compute", "aws")))
	assert.Equal(t, 240.0, testutil.ToFloat64(r.monthlyCost.WithLabelValues("compute", "aws")))
	assert.Equal(t, 125.0, testutil.ToFloat64(r.potentialSavings))
	assert.Equal(t, 36.76, testutil.ToFloat64(r.savingsPercent))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.recommendations.WithLabelValues("downsize", "high")))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(r.lastRun))
}

func TestRecordAnalysis_ResetsPreviousRun(t *testing.T) {
	r := NewRecorder()
	resources, summary := fixtures()
	r.RecordAnalysis(resources, summary, time.Now())
	r.RecordAnalysis(resources[:1], models.OptimizationSummary{Recommendations: []models.Recommendation{}}, time.Now())

	assert.Equal(t, 1, testutil.CollectAndCount(r.resources))
	assert.Equal(t, 0, testutil.CollectAndCount(r.recommendations))
}

func TestRecordHealth(t *testing.T) {
	r := NewRecorder()
	r.RecordHealth([]models.ResourceHealth{
		{ResourceName: "web", HealthScore: 45, Status: models.HealthOverProvisioned},
		{ResourceName: "db", HealthScore: 100, Status: models.HealthOptimal},
	})
	assert.Equal(t, 45.0, testutil.ToFloat64(r.healthScore.WithLabelValues("web", "over-provisioned")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.healthScore))
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	resources, summary := fixtures()
	r.RecordAnalysis(resources, summary, time.Now())

	path := filepath.Join(t.TempDir(), "copt.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.Contains(out, "copt_potential_savings_dollars 125"), out)
	assert.Contains(t, out, `copt_resources{provider="aws",resource_type="storage"} 1`)
}
