package inventory

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	ce "github.com/aws/aws-sdk-go-v2/service/costexplorer"
	cetypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
)

// Cost Explorer only keeps resource-level data for the last 14 days.
const maxResourceCostDays = 14

// billedServices are the Cost Explorer SERVICE values whose resources the
// collector understands. EBS volumes are billed under "EC2 - Other".
var billedServices = []string{
	"Amazon Elastic Compute Cloud - Compute",
	"EC2 - Other",
	"Amazon Relational Database Service",
	"Amazon Simple Storage Service",
}

// collectResourceCosts returns the unblended cost per RESOURCE_ID summed over
// [start, end). The caller normalises the totals to a monthly figure.
func collectResourceCosts(ctx context.Context, client ceClient, start, end string) (map[string]float64, error) {
	costs := make(map[string]float64)

	var nextToken *string
	for {
		out, err := client.GetCostAndUsageWithResources(ctx, &ce.GetCostAndUsageWithResourcesInput{
			TimePeriod: &cetypes.DateInterval{
				Start: aws.String(start),
				End:   aws.String(end),
			},
			Granularity: cetypes.GranularityDaily,
			Metrics:     []string{"UnblendedCost"},
			Filter: &cetypes.Expression{
				Dimensions: &cetypes.DimensionValues{
					Key:    cetypes.DimensionService,
					Values: billedServices,
				},
			},
			GroupBy: []cetypes.GroupDefinition{
				{
					Key:  aws.String("RESOURCE_ID"),
					Type: cetypes.GroupDefinitionTypeDimension,
				},
			},
			NextPageToken: nextToken,
		})
		if err != nil {
			return costs, fmt.Errorf("GetCostAndUsageWithResources: %w", err)
		}

		for _, result := range out.ResultsByTime {
			for _, group := range result.Groups {
				if len(group.Keys) == 0 {
					continue
				}
				metric, ok := group.Metrics["UnblendedCost"]
				if !ok {
					continue
				}
				costs[group.Keys[0]] += parseCost(metric.Amount)
			}
		}

		if out.NextPageToken == nil {
			break
		}
		nextToken = out.NextPageToken
	}
	return costs, nil
}

// parseCost returns 0 for a nil or malformed amount.
func parseCost(s *string) float64 {
	if s == nil {
		return 0
	}
	v, _ := strconv.ParseFloat(*s, 64)
	return v
}
