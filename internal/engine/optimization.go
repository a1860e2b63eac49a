package engine

import (
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/health"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/models"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/policy"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/rules"
)

// OptimizationEngine is the production implementation of Engine.
// It evaluates every registered rule against every resource, applies the
// active policy and aggregates the result. It holds no per-call state, so a
// single instance may serve concurrent callers.
type OptimizationEngine struct {
	registry rules.RuleRegistry
	policy   *policy.PolicyConfig
}

// NewOptimizationEngine constructs an OptimizationEngine wired to the supplied
// rule registry and optional policy.
func NewOptimizationEngine(registry rules.RuleRegistry, policyCfg *policy.PolicyConfig) *OptimizationEngine {
	return &OptimizationEngine{
		registry: registry,
		policy:   policyCfg,
	}
}

// Analyze implements Engine. Resources are evaluated in input order and
// rules in registration order; recommendations keep that order.
func (e *OptimizationEngine) Analyze(resources []models.Resource) models.OptimizationSummary {
	recs := e.evaluateAll(resources)
	recs = policy.ApplyPolicy(recs, e.policy)
	return computeSummary(resources, recs)
}

// Health implements Engine.
func (e *OptimizationEngine) Health(resource models.Resource) models.HealthScore {
	return health.Score(resource, e.policy)
}

// CostAnalytics implements Engine.
func (e *OptimizationEngine) CostAnalytics(resources []models.Resource) models.CostAnalytics {
	return computeCostAnalytics(resources, e.Analyze(resources))
}

// evaluateAll runs the registry against each resource in turn. Rules receive
// a copy of the resource, never the caller's slice element.
func (e *OptimizationEngine) evaluateAll(resources []models.Resource) []models.Recommendation {
	recs := make([]models.Recommendation, 0)
	for i := range resources {
		res := resources[i]
		recs = append(recs, e.registry.EvaluateAll(rules.RuleContext{
			Resource: &res,
			Policy:   e.policy,
		})...)
	}
	return recs
}
