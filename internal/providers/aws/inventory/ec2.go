package inventory

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	ec2svc "github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/models"
)

// collectEC2Instances pages through the running instances of region, enriched
// with CPU from AWS/EC2 and memory from the CloudWatch agent (CWAgent
// mem_used_percent) when the agent is installed.
func collectEC2Instances(ctx context.Context, client ec2Client, cw cwClient, region string, w window) ([]discovered, error) {
	paginator := ec2svc.NewDescribeInstancesPaginator(client, &ec2svc.DescribeInstancesInput{
		Filters: []ec2types.Filter{
			{
				Name:   aws.String("instance-state-name"),
				Values: []string{"running"},
			},
		},
	})

	var out []discovered
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("DescribeInstances page: %w", err)
		}
		for _, reservation := range page.Reservations {
			for _, inst := range reservation.Instances {
				out = append(out, toComputeResource(ctx, inst, cw, region, w))
			}
		}
	}
	return out, nil
}

func toComputeResource(ctx context.Context, inst ec2types.Instance, cw cwClient, region string, w window) discovered {
	id := aws.ToString(inst.InstanceId)
	res := models.Resource{
		Name:         id,
		ResourceType: models.ResourceCompute,
		Provider:     models.ProviderAWS,
		InstanceType: string(inst.InstanceType),
		Region:       region,
	}

	dims := []cwtypes.Dimension{dimension("InstanceId", id)}
	res.CPUUtilization = percent(averageMetric(ctx, cw, "AWS/EC2", "CPUUtilization", dims, w))
	res.MemoryUtilization = percent(averageMetric(ctx, cw, "CWAgent", "mem_used_percent", dims, w))

	return discovered{resource: res, costKeys: []string{id}}
}
