package policy

import (
	"fmt"
	"math"
	"strings"
)

// validConfidences is the set of allowed confidence strings (lower-case canonical form).
var validConfidences = map[string]struct{}{
	"high":   {},
	"medium": {},
	"low":    {},
}

// percentParams are rule parameters expressed as a utilization percentage.
var percentParams = map[string]struct{}{
	"cpu_threshold":    {},
	"memory_threshold": {},
	"cpu_low":          {},
	"cpu_high":         {},
	"memory_low":       {},
	"memory_high":      {},
}

// rateParams are rule parameters expressed as a fraction of monthly cost.
var rateParams = map[string]struct{}{
	"savings_rate":         {},
	"default_savings_rate": {},
}

// Validate checks cfg for semantic correctness and returns all validation errors
// found. An empty slice means the config is valid.
//
// Checks performed:
//   - version must be 1
//   - rule IDs must appear in availableRuleIDs
//   - confidence overrides must be high, medium or low
//   - percentage params must lie in [0,100], rate params in [0,1], all others >= 0
//   - downsizing entries need a target and non-negative savings
//   - pricing entries must be positive
//   - enforcement values must be valid
//
// All errors are collected before returning; Validate never stops at the first error.
func Validate(cfg *PolicyConfig, availableRuleIDs []string) []error {
	if cfg == nil {
		return []error{fmt.Errorf("policy config is nil")}
	}

	knownIDs := make(map[string]struct{}, len(availableRuleIDs))
	for _, id := range availableRuleIDs {
		knownIDs[id] = struct{}{}
	}

	var errs []error

	if cfg.Version != 1 {
		errs = append(errs, fmt.Errorf("version: unsupported value %d; must be 1", cfg.Version))
	}

	for ruleID, rcfg := range cfg.Rules {
		if _, ok := knownIDs[ruleID]; !ok {
			errs = append(errs, fmt.Errorf("rules.%s: unknown rule ID", ruleID))
		}
		if rcfg.Confidence != "" {
			if _, ok := validConfidences[strings.ToLower(rcfg.Confidence)]; !ok {
				errs = append(errs, fmt.Errorf("rules.%s.confidence: invalid value %q; valid values: high, medium, low", ruleID, rcfg.Confidence))
			}
		}
		for key, v := range rcfg.Params {
			if err := validateParam(key, v); err != nil {
				errs = append(errs, fmt.Errorf("rules.%s.params.%s: %w", ruleID, key, err))
			}
		}
	}

	for instanceType, t := range cfg.Downsizing {
		if t.To == "" {
			errs = append(errs, fmt.Errorf("downsizing.%s.to: target instance type is required", instanceType))
		}
		if t.Savings < 0 || math.IsNaN(t.Savings) || math.IsInf(t.Savings, 0) {
			errs = append(errs, fmt.Errorf("downsizing.%s.savings: must be a non-negative number, got %v", instanceType, t.Savings))
		}
	}

	for instanceType, p := range cfg.Pricing {
		if !(p > 0) || math.IsInf(p, 0) {
			errs = append(errs, fmt.Errorf("pricing.%s: must be positive, got %v", instanceType, p))
		}
	}

	if enf := cfg.Enforcement; enf != nil {
		if enf.FailOnConfidence != "" {
			if _, ok := validConfidences[strings.ToLower(enf.FailOnConfidence)]; !ok {
				errs = append(errs, fmt.Errorf("enforcement.fail_on_confidence: invalid value %q; valid values: high, medium, low", enf.FailOnConfidence))
			}
		}
		if m := enf.MaxSavingsPercentage; m != nil && (*m < 0 || *m > 100) {
			errs = append(errs, fmt.Errorf("enforcement.max_savings_percentage: must lie in [0,100], got %v", *m))
		}
	}

	return errs
}

func validateParam(key string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("must be finite")
	}
	if _, ok := percentParams[key]; ok {
		if v < 0 || v > 100 {
			return fmt.Errorf("percentage must lie in [0,100], got %v", v)
		}
		return nil
	}
	if _, ok := rateParams[key]; ok {
		if v < 0 || v > 1 {
			return fmt.Errorf("rate must lie in [0,1], got %v", v)
		}
		return nil
	}
	if v < 0 {
		return fmt.Errorf("must be non-negative, got %v", v)
	}
	return nil
}
