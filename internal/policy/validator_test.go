package policy_test

import (
	"strings"
	"testing"

	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/policy"
)

// knownRules is a fixed rule ID set used by all validator tests.
// These are made-up IDs; they are not tied to any specific rule pack.
var knownRules = []string{"RULE_A", "RULE_B", "RULE_C"}

func boolPtr(b bool) *bool        { return &b }
func floatPtr(v float64) *float64 { return &v }

// ── happy path ────────────────────────────────────────────────────────────────

func TestValidate_ValidMinimalConfig(t *testing.T) {
	cfg := &policy.PolicyConfig{Version: 1}
	errs := policy.Validate(cfg, knownRules)
	if len(errs) != 0 {
		t.Errorf("expected no errors; got %d: %v", len(errs), errs)
	}
}

func TestValidate_ValidFullConfig(t *testing.T) {
	cfg := &policy.PolicyConfig{
		Version: 1,
		Rules: map[string]policy.RuleConfig{
			"RULE_A": {Enabled: boolPtr(false)},
			"RULE_B": {Confidence: "LOW", Params: map[string]float64{"cpu_threshold": 25, "savings_rate": 0.5}},
			"RULE_C": {Params: map[string]float64{"size_threshold_gb": 1000}},
		},
		Downsizing: map[string]policy.DownsizeTarget{
			"m5.xlarge": {To: "m5.large", Savings: 70},
		},
		Pricing: map[string]float64{"m5.large": 70.08},
		Enforcement: &policy.EnforcementConfig{
			FailOnConfidence:     "Medium",
			MaxSavingsPercentage: floatPtr(40),
		},
	}
	errs := policy.Validate(cfg, knownRules)
	if len(errs) != 0 {
		t.Errorf("expected no errors; got %d: %v", len(errs), errs)
	}
}

// ── individual failures ──────────────────────────────────────────────────────

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name string
		cfg  *policy.PolicyConfig
		want string
	}{
		{"nil config", nil, "nil"},
		{"bad version", &policy.PolicyConfig{Version: 3}, "version"},
		{
			"unknown rule",
			&policy.PolicyConfig{Version: 1, Rules: map[string]policy.RuleConfig{"RULE_Z": {}}},
			"rules.RULE_Z",
		},
		{
			"invalid confidence",
			&policy.PolicyConfig{Version: 1, Rules: map[string]policy.RuleConfig{"RULE_A": {Confidence: "certain"}}},
			"rules.RULE_A.confidence",
		},
		{
			"percentage out of range",
			&policy.PolicyConfig{Version: 1, Rules: map[string]policy.RuleConfig{"RULE_A": {Params: map[string]float64{"memory_threshold": 120}}}},
			"rules.RULE_A.params.memory_threshold",
		},
		{
			"rate above one",
			&policy.PolicyConfig{Version: 1, Rules: map[string]policy.RuleConfig{"RULE_A": {Params: map[string]float64{"savings_rate": 1.5}}}},
			"rules.RULE_A.params.savings_rate",
		},
		{
			"negative size",
			&policy.PolicyConfig{Version: 1, Rules: map[string]policy.RuleConfig{"RULE_A": {Params: map[string]float64{"size_threshold_gb": -1}}}},
			"size_threshold_gb",
		},
		{
			"downsizing without target",
			&policy.PolicyConfig{Version: 1, Downsizing: map[string]policy.DownsizeTarget{"m5.xlarge": {Savings: 10}}},
			"downsizing.m5.xlarge.to",
		},
		{
			"downsizing negative savings",
			&policy.PolicyConfig{Version: 1, Downsizing: map[string]policy.DownsizeTarget{"m5.xlarge": {To: "m5.large", Savings: -10}}},
			"downsizing.m5.xlarge.savings",
		},
		{
			"zero price",
			&policy.PolicyConfig{Version: 1, Pricing: map[string]float64{"m5.large": 0}},
			"pricing.m5.large",
		},
		{
			"bad enforcement confidence",
			&policy.PolicyConfig{Version: 1, Enforcement: &policy.EnforcementConfig{FailOnConfidence: "urgent"}},
			"enforcement.fail_on_confidence",
		},
		{
			"enforcement percentage out of range",
			&policy.PolicyConfig{Version: 1, Enforcement: &policy.EnforcementConfig{MaxSavingsPercentage: floatPtr(150)}},
			"enforcement.max_savings_percentage",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := policy.Validate(tt.cfg, knownRules)
			if len(errs) != 1 {
				t.Fatalf("expected exactly 1 error; got %d: %v", len(errs), errs)
			}
			if !strings.Contains(errs[0].Error(), tt.want) {
				t.Errorf("error %q does not mention %q", errs[0], tt.want)
			}
		})
	}
}

// ── aggregation ──────────────────────────────────────────────────────────────

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := &policy.PolicyConfig{
		Version: 2,
		Rules: map[string]policy.RuleConfig{
			"RULE_Z": {Confidence: "certain"},
		},
		Pricing: map[string]float64{"m5.large": -3},
	}
	errs := policy.Validate(cfg, knownRules)
	if len(errs) != 4 {
		t.Errorf("expected 4 errors; got %d: %v", len(errs), errs)
	}
}
