// Package optimization provides the cost-optimization rule pack.
// New returns every optimization rule in evaluation order; callers register
// them into a RuleRegistry via a loop rather than listing each rule explicitly.
//
// The order is part of the output contract: recommendations for a single
// resource appear in the order their rules are listed here.
//
// Adding a new optimization rule:
//  1. Implement the rule in internal/rules/ following the Rule interface.
//  2. Append it to the slice returned by New().
package optimization

import "github.com/pankaj-dahiya-devops/cloud-optimizer/internal/rules"

// New returns all optimization rules in the order they should be evaluated.
func New() []rules.Rule {
	return []rules.Rule{
		rules.DownsizeRule{},
		rules.StorageOptimizationRule{},
		rules.TerminateRule{},
	}
}

// NewRegistry returns a registry with every optimization rule registered.
func NewRegistry() *rules.DefaultRuleRegistry {
	reg := rules.NewDefaultRuleRegistry()
	for _, r := range New() {
		reg.Register(r)
	}
	return reg
}
