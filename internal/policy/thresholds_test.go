package policy

import "testing"

func TestGetThreshold(t *testing.T) {
	withParams := func(ruleID string, params map[string]float64) *PolicyConfig {
		return &PolicyConfig{Rules: map[string]RuleConfig{ruleID: {Params: params}}}
	}

	tests := []struct {
		name string
		cfg  *PolicyConfig
		want float64
	}{
		{"nil policy → default", nil, 30},
		{"no rule entry → default", &PolicyConfig{}, 30},
		{"nil params → default", withParams("DOWNSIZE_UNDERUTILIZED", nil), 30},
		{"other key only → default", withParams("DOWNSIZE_UNDERUTILIZED", map[string]float64{"memory_threshold": 40}), 30},
		{"other rule only → default", withParams("TERMINATE_IDLE", map[string]float64{"cpu_threshold": 5}), 30},
		{"override → configured value", withParams("DOWNSIZE_UNDERUTILIZED", map[string]float64{"cpu_threshold": 25}), 25},
		{"zero override is honoured", withParams("DOWNSIZE_UNDERUTILIZED", map[string]float64{"cpu_threshold": 0}), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetThreshold("DOWNSIZE_UNDERUTILIZED", "cpu_threshold", 30, tt.cfg); got != tt.want {
				t.Errorf("GetThreshold = %v; want %v", got, tt.want)
			}
		})
	}
}
