package policy

// defaultDownsizing is the built-in downsizing table.
var defaultDownsizing = map[string]DownsizeTarget{
	"t3.xlarge":       {To: "t3.large", Savings: 50},
	"m5.large":        {To: "m5.medium", Savings: 45},
	"Standard_D2s_v3": {To: "Standard_D2s_v2", Savings: 35},
}

// LookupDownsize returns the downsizing target for instanceType. Entries in
// cfg.Downsizing take precedence over the built-in table. Safe with cfg == nil.
func LookupDownsize(instanceType string, cfg *PolicyConfig) (DownsizeTarget, bool) {
	if cfg != nil {
		if t, ok := cfg.Downsizing[instanceType]; ok {
			return t, true
		}
	}
	t, ok := defaultDownsizing[instanceType]
	return t, ok
}

// LookupPrice returns the configured monthly price for instanceType.
func LookupPrice(instanceType string, cfg *PolicyConfig) (float64, bool) {
	if cfg == nil {
		return 0, false
	}
	p, ok := cfg.Pricing[instanceType]
	return p, ok
}
