package inventory

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2svc "github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/models"
)

// collectEBSVolumes pages through the volumes of region. Provisioned size is
// reported as storage usage since EBS bills for the full allocation.
func collectEBSVolumes(ctx context.Context, client ec2Client, region string) ([]discovered, error) {
	paginator := ec2svc.NewDescribeVolumesPaginator(client, &ec2svc.DescribeVolumesInput{
		Filters: []ec2types.Filter{
			{
				Name:   aws.String("status"),
				Values: []string{"available", "in-use"},
			},
		},
	})

	var out []discovered
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("DescribeVolumes page: %w", err)
		}
		for _, v := range page.Volumes {
			out = append(out, toStorageResource(v, region))
		}
	}
	return out, nil
}

func toStorageResource(v ec2types.Volume, region string) discovered {
	id := aws.ToString(v.VolumeId)
	size := aws.ToInt32(v.Size)
	return discovered{
		resource: models.Resource{
			Name:         id,
			ResourceType: models.ResourceStorage,
			Provider:     models.ProviderAWS,
			InstanceType: "EBS " + string(v.VolumeType),
			Region:       region,
			Size:         fmt.Sprintf("%dGB", size),
			StorageUsage: models.Float(float64(size)),
		},
		costKeys: []string{id},
	}
}
