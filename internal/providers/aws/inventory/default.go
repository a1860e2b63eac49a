package inventory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/ingest"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/models"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/providers/aws/common"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/rules"
)

// maxConcurrentRegions bounds how many regions are collected in parallel.
const maxConcurrentRegions = 5

const defaultDaysBack = 30

// reasonNoCost is reported for resources Cost Explorer billed nothing for.
const reasonNoCost = "no billed cost in the lookback window"

// discovered is a resource before its cost is known. costKeys are the
// Cost Explorer RESOURCE_ID values that may carry its spend.
type discovered struct {
	resource models.Resource
	costKeys []string
}

// DefaultCollector is the production Collector backed by the AWS SDK v2.
type DefaultCollector struct {
	factory clientFactory
	logger  zerolog.Logger
	now     func() time.Time
}

// NewDefaultCollector returns a collector backed by the real AWS SDK.
func NewDefaultCollector(logger zerolog.Logger) *DefaultCollector {
	return &DefaultCollector{factory: newDefaultClients, logger: logger, now: time.Now}
}

// NewDefaultCollectorWithFactory returns a collector that uses f to create
// its service clients. Pass a stub factory in tests.
func NewDefaultCollectorWithFactory(f clientFactory, logger zerolog.Logger) *DefaultCollector {
	return &DefaultCollector{factory: f, logger: logger, now: time.Now}
}

// Collect implements Collector.
//
// Per-resource costs are fetched once from Cost Explorer and normalised to a
// 30-day month. Without them no resource could satisfy the positive cost
// invariant, so a Cost Explorer failure fails the run. Regions are then
// collected in parallel; any region failure fails the run too.
func (d *DefaultCollector) Collect(
	ctx context.Context,
	profile *common.ProfileConfig,
	provider common.AWSClientProvider,
	opts CollectOptions,
) (*Inventory, error) {
	days := opts.DaysBack
	if days <= 0 {
		days = defaultDaysBack
	}

	regions := opts.Regions
	if len(regions) == 0 {
		var err error
		regions, err = provider.GetActiveRegions(ctx, profile)
		if err != nil {
			return nil, err
		}
	}

	costDays := days
	if costDays > maxResourceCostDays {
		costDays = maxResourceCostDays
	}
	start, end := billingDateRange(d.now(), costDays)
	ceCfg := provider.ConfigForRegion(profile, "us-east-1")
	costs, err := collectResourceCosts(ctx, d.factory(ceCfg).CE, start, end)
	if err != nil {
		return nil, fmt.Errorf("collect resource costs: %w", err)
	}
	d.logger.Debug().Int("priced_resources", len(costs)).Str("start", start).Str("end", end).Msg("cost explorer data loaded")

	w := newWindow(d.now(), days)
	sem := make(chan struct{}, maxConcurrentRegions)

	var (
		mu    sync.Mutex
		found []discovered
	)

	g, gctx := errgroup.WithContext(ctx)

REGIONS:
	for _, region := range regions {
		select {
		case sem <- struct{}{}:
		case <-gctx.Done():
			break REGIONS
		}

		regionalCfg := provider.ConfigForRegion(profile, region)
		g.Go(func() error {
			defer func() { <-sem }()

			rd, err := d.collectRegion(gctx, regionalCfg, region, w)
			if err != nil {
				return fmt.Errorf("collect region %s: %w", region, err)
			}
			d.logger.Debug().Str("region", region).Int("resources", len(rd)).Msg("region collected")

			mu.Lock()
			found = append(found, rd...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	inv := price(found, costs, 30/float64(costDays))
	inv.AccountID = profile.AccountID
	inv.Regions = regions
	return inv, nil
}

// collectRegion gathers EC2 instances, EBS volumes, RDS instances and S3
// buckets from a single region.
func (d *DefaultCollector) collectRegion(ctx context.Context, cfg aws.Config, region string, w window) ([]discovered, error) {
	c := d.factory(cfg)

	instances, err := collectEC2Instances(ctx, c.EC2, c.CW, region, w)
	if err != nil {
		return nil, fmt.Errorf("collect EC2 instances: %w", err)
	}
	volumes, err := collectEBSVolumes(ctx, c.EC2, region)
	if err != nil {
		return nil, fmt.Errorf("collect EBS volumes: %w", err)
	}
	databases, err := collectRDSInstances(ctx, c.RDS, c.CW, region, w)
	if err != nil {
		return nil, fmt.Errorf("collect RDS instances: %w", err)
	}
	buckets, err := collectS3Buckets(ctx, c.S3, c.CW, region, w)
	if err != nil {
		return nil, fmt.Errorf("collect S3 buckets: %w", err)
	}

	out := make([]discovered, 0, len(instances)+len(volumes)+len(databases)+len(buckets))
	out = append(out, instances...)
	out = append(out, volumes...)
	out = append(out, databases...)
	return append(out, buckets...), nil
}

// price attaches monthly cost to every discovered resource. Resources with
// no positive cost cannot be ingested and are reported as skipped. Output is
// sorted by region then name, since regions complete in any order.
func price(found []discovered, costs map[string]float64, monthly float64) *Inventory {
	sort.Slice(found, func(i, j int) bool {
		if found[i].resource.Region != found[j].resource.Region {
			return found[i].resource.Region < found[j].resource.Region
		}
		return found[i].resource.Name < found[j].resource.Name
	})

	inv := &Inventory{}
	for _, f := range found {
		var spend float64
		for _, key := range f.costKeys {
			spend += costs[key]
		}
		cost := rules.Round2(spend * monthly)
		if cost <= 0 {
			inv.Skipped = append(inv.Skipped, ingest.Skipped{Name: f.resource.Name, Reason: reasonNoCost})
			continue
		}
		res := f.resource
		res.MonthlyCost = cost
		inv.Resources = append(inv.Resources, res)
	}
	return inv
}

// billingDateRange returns the Cost Explorer date range ending today (UTC).
func billingDateRange(now time.Time, daysBack int) (start, end string) {
	now = now.UTC()
	end = now.Format("2006-01-02")
	start = now.AddDate(0, 0, -daysBack).Format("2006-01-02")
	return
}
