package inventory

import (
	"context"

	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/ingest"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/models"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/providers/aws/common"
)

// CollectOptions carries the parameters of one collection run.
type CollectOptions struct {
	// Regions to collect from. Empty means every active region of the account.
	Regions []string

	// DaysBack is the CloudWatch and Cost Explorer lookback window.
	// Defaults to 30 when zero.
	DaysBack int
}

// Inventory is the outcome of a collection run. Resources are ready for
// ingest.Import; Skipped lists discovered resources that could not be
// turned into a valid Resource (typically because no cost was billed).
type Inventory struct {
	AccountID string
	Regions   []string
	Resources []models.Resource
	Skipped   []ingest.Skipped
}

// Collector gathers AWS resources and their utilization and cost, converting
// them to models.Resource. It applies no recommendation logic.
type Collector interface {
	Collect(
		ctx context.Context,
		profile *common.ProfileConfig,
		provider common.AWSClientProvider,
		opts CollectOptions,
	) (*Inventory, error)
}
