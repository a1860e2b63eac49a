package models

// HealthStatus classifies how well a resource's capacity matches its load.
type HealthStatus string

const (
	HealthOptimal          HealthStatus = "optimal"
	HealthOverProvisioned  HealthStatus = "over-provisioned"
	HealthUnderProvisioned HealthStatus = "under-provisioned"
)

// HealthScore is the 0-100 health assessment of a single resource.
type HealthScore struct {
	Score  int          `json:"score"`
	Status HealthStatus `json:"status"`
	Issues []string     `json:"issues"`
}

// ResourceHealth is a HealthScore labelled with the resource it belongs to.
type ResourceHealth struct {
	ResourceID   int64        `json:"resource_id"`
	ResourceName string       `json:"resource_name"`
	HealthScore  int          `json:"health_score"`
	Status       HealthStatus `json:"status"`
	Issues       []string     `json:"issues"`
	MonthlyCost  float64      `json:"monthly_cost"`
}
