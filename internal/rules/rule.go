package rules

import (
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/models"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/policy"
)

// RuleContext carries the single resource under evaluation.
// It is the sole input to Rule.Evaluate and must contain everything a rule
// needs; rules must never make network calls or read external state.
type RuleContext struct {
	// Resource is the resource being evaluated. Rules must not modify it.
	Resource *models.Resource

	// Policy holds the active PolicyConfig for threshold and downsizing
	// overrides. May be nil when no policy file is loaded; rules must treat
	// nil as "use defaults".
	Policy *policy.PolicyConfig
}

// Rule is a single deterministic optimization rule.
// Rules must be stateless and safe to call concurrently.
type Rule interface {
	// ID returns the unique, stable identifier for this rule (e.g. "TERMINATE_IDLE").
	ID() string

	// Name returns a short human-readable rule name.
	Name() string

	// Evaluate inspects the resource in ctx and returns zero or more
	// recommendations. An empty slice means the rule did not fire.
	Evaluate(ctx RuleContext) []models.Recommendation
}

// RuleRegistry manages the set of active rules and drives evaluation.
type RuleRegistry interface {
	// Register adds a rule to the registry. Panics on duplicate ID.
	Register(rule Rule)

	// All returns all registered rules in registration order.
	All() []Rule

	// EvaluateAll runs every registered rule against ctx and merges results
	// in registration order.
	EvaluateAll(ctx RuleContext) []models.Recommendation
}
