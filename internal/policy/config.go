package policy

// PolicyConfig is the parsed form of a copt policy file.
//
// Example:
//
//	version: 1
//	rules:
//	  DOWNSIZE_UNDERUTILIZED:
//	    params:
//	      cpu_threshold: 25
//	  TERMINATE_IDLE:
//	    enabled: false
//	downsizing:
//	  m5.xlarge: {to: m5.large, savings: 70}
//	pricing:
//	  m5.large: 70.08
//	enforcement:
//	  fail_on_confidence: high
type PolicyConfig struct {
	Version int `yaml:"version"`

	// Rules holds per-rule overrides keyed by rule ID.
	Rules map[string]RuleConfig `yaml:"rules"`

	// Downsizing maps a current instance type to its smaller target. Entries
	// are merged over the built-in table; a policy entry wins on conflict.
	Downsizing map[string]DownsizeTarget `yaml:"downsizing"`

	// Pricing maps an instance type to its on-demand monthly cost. Used by
	// collectors that see instances but no billing data (Kubernetes nodes).
	Pricing map[string]float64 `yaml:"pricing"`

	Enforcement *EnforcementConfig `yaml:"enforcement,omitempty"`
}

type RuleConfig struct {
	Enabled    *bool              `yaml:"enabled,omitempty"`
	Confidence string             `yaml:"confidence,omitempty"`
	Params     map[string]float64 `yaml:"params,omitempty"`
}

// DownsizeTarget is one downsizing table entry.
type DownsizeTarget struct {
	To      string  `yaml:"to"`
	Savings float64 `yaml:"savings"`
}

// EnforcementConfig turns an analysis into a pass/fail gate.
type EnforcementConfig struct {
	// FailOnConfidence fails the run when any recommendation has this
	// confidence level or higher.
	FailOnConfidence string `yaml:"fail_on_confidence,omitempty"`

	// MaxSavingsPercentage fails the run when the summary's savings
	// percentage exceeds this value.
	MaxSavingsPercentage *float64 `yaml:"max_savings_percentage,omitempty"`
}
