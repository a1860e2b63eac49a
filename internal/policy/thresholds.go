package policy

// GetThreshold returns rules.<ruleID>.params.<key> from cfg, or defaultValue
// when the policy, the rule entry or the parameter is missing. Rules and the
// health scorer read every tunable number through it.
func GetThreshold(ruleID, key string, defaultValue float64, cfg *PolicyConfig) float64 {
	if cfg == nil {
		return defaultValue
	}
	if v, ok := cfg.Rules[ruleID].Params[key]; ok {
		return v
	}
	return defaultValue
}
