// Package metrics exposes analysis results as Prometheus gauges. A CLI run
// is short-lived, so the gauges are written to a node_exporter textfile
// rather than served.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/models"
)

// Recorder holds the gauges for one analysis run on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	resources        *prometheus.GaugeVec
	monthlyCost      *prometheus.GaugeVec
	potentialSavings prometheus.Gauge
	savingsPercent   prometheus.Gauge
	recommendations  *prometheus.GaugeVec
	healthScore      *prometheus.GaugeVec
	lastRun          prometheus.Gauge
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,
		resources: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "copt_resources",
			Help: "Tracked resources by type and provider",
		}, []string{"resource_type", "provider"}),
		monthlyCost: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "copt_monthly_cost_dollars",
			Help: "Monthly cost of tracked resources by type and provider",
		}, []string{"resource_type", "provider"}),
		potentialSavings: f.NewGauge(prometheus.GaugeOpts{
			Name: "copt_potential_savings_dollars",
			Help: "Total estimated monthly savings across all recommendations",
		}),
		savingsPercent: f.NewGauge(prometheus.GaugeOpts{
			Name: "copt_savings_percentage",
			Help: "Potential savings as a percentage of total monthly cost",
		}),
		recommendations: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "copt_recommendations",
			Help: "Recommendations by type and confidence level",
		}, []string{"recommendation_type", "confidence"}),
		healthScore: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "copt_resource_health_score",
			Help: "Health score (0-100) per resource",
		}, []string{"resource", "status"}),
		lastRun: f.NewGauge(prometheus.GaugeOpts{
			Name: "copt_last_analysis_timestamp_seconds",
			Help: "Unix time of the last analysis",
		}),
	}
}

// RecordAnalysis sets every gauge from one analysis. Previous values are reset.
func (r *Recorder) RecordAnalysis(resources []models.Resource, summary models.OptimizationSummary, at time.Time) {
	r.resources.Reset()
	r.monthlyCost.Reset()
	r.recommendations.Reset()

	for _, res := range resources {
		labels := prometheus.Labels{"resource_type": string(res.ResourceType), "provider": string(res.Provider)}
		r.resources.With(labels).Inc()
		r.monthlyCost.With(labels).Add(res.MonthlyCost)
	}

	r.potentialSavings.Set(summary.TotalPotentialSavings)
	r.savingsPercent.Set(summary.SavingsPercentage)

	for _, rec := range summary.Recommendations {
		r.recommendations.WithLabelValues(string(rec.RecommendationType), string(rec.ConfidenceLevel)).Inc()
	}

	r.lastRun.Set(float64(at.Unix()))
}

// RecordHealth sets the health gauges, one series per resource.
func (r *Recorder) RecordHealth(health []models.ResourceHealth) {
	r.healthScore.Reset()
	for _, h := range health {
		r.healthScore.WithLabelValues(h.ResourceName, string(h.Status)).Set(float64(h.HealthScore))
	}
}

// Registry returns the gatherer holding the recorded gauges.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// WriteTextfile atomically writes the gauges in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
