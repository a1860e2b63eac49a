// Package health scores how well a resource's provisioned capacity matches
// its measured load.
package health

import (
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/models"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/policy"
)

// PolicyKey is the rules entry under which health thresholds are tuned.
const PolicyKey = "HEALTH_SCORE"

const (
	maxScore = 100

	cpuLowPercent     = 20.0
	cpuHighPercent    = 80.0
	memoryLowPercent  = 30.0
	memoryHighPercent = 85.0

	cpuLowPenalty     = 30
	cpuHighPenalty    = 20
	memoryLowPenalty  = 25
	memoryHighPenalty = 15
)

const (
	IssueLowCPU     = "Low CPU utilization"
	IssueHighCPU    = "High CPU utilization"
	IssueLowMemory  = "Low memory utilization"
	IssueHighMemory = "High memory utilization"
)

// Score computes the health of res. Absent measurements are not penalised.
//
// Under-provisioning takes precedence over over-provisioning: a low memory
// reading never downgrades a status already set by high CPU, while a high
// memory reading always marks the resource under-provisioned.
func Score(res models.Resource, cfg *policy.PolicyConfig) models.HealthScore {
	hs := models.HealthScore{
		Score:  maxScore,
		Status: models.HealthOptimal,
		Issues: []string{},
	}

	if res.CPUUtilization != nil {
		cpu := *res.CPUUtilization
		switch {
		case cpu < policy.GetThreshold(PolicyKey, "cpu_low", cpuLowPercent, cfg):
			hs.Score -= cpuLowPenalty
			hs.Issues = append(hs.Issues, IssueLowCPU)
			hs.Status = models.HealthOverProvisioned
		case cpu > policy.GetThreshold(PolicyKey, "cpu_high", cpuHighPercent, cfg):
			hs.Score -= cpuHighPenalty
			hs.Issues = append(hs.Issues, IssueHighCPU)
			hs.Status = models.HealthUnderProvisioned
		}
	}

	if res.MemoryUtilization != nil {
		mem := *res.MemoryUtilization
		switch {
		case mem < policy.GetThreshold(PolicyKey, "memory_low", memoryLowPercent, cfg):
			hs.Score -= memoryLowPenalty
			hs.Issues = append(hs.Issues, IssueLowMemory)
			if hs.Status != models.HealthUnderProvisioned {
				hs.Status = models.HealthOverProvisioned
			}
		case mem > policy.GetThreshold(PolicyKey, "memory_high", memoryHighPercent, cfg):
			hs.Score -= memoryHighPenalty
			hs.Issues = append(hs.Issues, IssueHighMemory)
			hs.Status = models.HealthUnderProvisioned
		}
	}

	if hs.Score < 0 {
		hs.Score = 0
	}
	return hs
}

// ForResource labels the score of res with its identity.
func ForResource(res models.Resource, cfg *policy.PolicyConfig) models.ResourceHealth {
	hs := Score(res, cfg)
	return models.ResourceHealth{
		ResourceID:   res.ID,
		ResourceName: res.Name,
		HealthScore:  hs.Score,
		Status:       hs.Status,
		Issues:       hs.Issues,
		MonthlyCost:  res.MonthlyCost,
	}
}
