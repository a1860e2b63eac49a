package rules

import (
	"testing"

	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/models"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/policy"
)

func volume(usage *float64, cost float64) *models.Resource {
	return &models.Resource{
		ID:           3,
		Name:         "backup-storage",
		ResourceType: models.ResourceStorage,
		Provider:     models.ProviderAWS,
		InstanceType: "EBS gp3",
		Size:         "1000GB",
		StorageUsage: usage,
		MonthlyCost:  cost,
	}
}

func TestStorageOptimizationRule_IDAndName(t *testing.T) {
	r := StorageOptimizationRule{}
	if r.ID() != "STORAGE_LARGE_VOLUME" {
		t.Errorf("ID = %q; want STORAGE_LARGE_VOLUME", r.ID())
	}
	if r.Name() == "" {
		t.Error("Name must not be empty")
	}
}

func TestStorageOptimizationRule_Evaluate(t *testing.T) {
	f := models.Float

	tests := []struct {
		name        string
		res         *models.Resource
		wantCount   int
		wantSavings float64
	}{
		{"1000 GB cost 100 → savings 30", volume(f(1000), 100), 1, 30},
		{"savings rounded to cents", volume(f(750), 33.33), 1, 10},
		{"exactly 500 GB → no recommendation", volume(f(500), 75), 0, 0},
		{"200 GB → no recommendation", volume(f(200), 25), 0, 0},
		{"usage absent → skipped", volume(nil, 100), 0, 0},
		{"nil resource", nil, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := (StorageOptimizationRule{}).Evaluate(RuleContext{Resource: tt.res})
			if len(got) != tt.wantCount {
				t.Fatalf("expected %d recommendations, got %d", tt.wantCount, len(got))
			}
			if tt.wantCount == 0 {
				return
			}
			if got[0].EstimatedSavings != tt.wantSavings {
				t.Errorf("EstimatedSavings = %v; want %v", got[0].EstimatedSavings, tt.wantSavings)
			}
			if got[0].ConfidenceLevel != models.ConfidenceMedium {
				t.Errorf("ConfidenceLevel = %q; want medium", got[0].ConfidenceLevel)
			}
			if got[0].RecommendationType != models.RecommendationStorageOptimization {
				t.Errorf("RecommendationType = %q", got[0].RecommendationType)
			}
		})
	}
}

func TestStorageOptimizationRule_NonStorageIgnored(t *testing.T) {
	res := volume(models.Float(2000), 100)
	res.ResourceType = models.ResourceDatabase
	if got := (StorageOptimizationRule{}).Evaluate(RuleContext{Resource: res}); len(got) != 0 {
		t.Errorf("expected 0 recommendations for database, got %d", len(got))
	}
}

func TestStorageOptimizationRule_PolicyThreshold(t *testing.T) {
	cfg := &policy.PolicyConfig{
		Rules: map[string]policy.RuleConfig{
			"STORAGE_LARGE_VOLUME": {Params: map[string]float64{"size_threshold_gb": 1500}},
		},
	}
	if got := (StorageOptimizationRule{}).Evaluate(RuleContext{Resource: volume(models.Float(1000), 100), Policy: cfg}); len(got) != 0 {
		t.Errorf("expected 0 recommendations below raised threshold, got %d", len(got))
	}
}
