package inventory

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	s3svc "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/models"
)

const bytesPerGB = 1e9

// collectS3Buckets lists the buckets located in region and reads their
// Standard-tier size from the daily AWS/S3 BucketSizeBytes metric.
func collectS3Buckets(ctx context.Context, client s3Client, cw cwClient, region string, w window) ([]discovered, error) {
	paginator := s3svc.NewListBucketsPaginator(client, &s3svc.ListBucketsInput{
		BucketRegion: aws.String(region),
	})

	var out []discovered
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("ListBuckets page: %w", err)
		}
		for _, b := range page.Buckets {
			out = append(out, toBucketResource(ctx, b, cw, region, w))
		}
	}
	return out, nil
}

func toBucketResource(ctx context.Context, b s3types.Bucket, cw cwClient, region string, w window) discovered {
	name := aws.ToString(b.Name)
	res := models.Resource{
		Name:         name,
		ResourceType: models.ResourceStorage,
		Provider:     models.ProviderAWS,
		InstanceType: "S3 Standard",
		Region:       region,
	}

	dims := []cwtypes.Dimension{
		dimension("BucketName", name),
		dimension("StorageType", "StandardStorage"),
	}
	if size := averageMetric(ctx, cw, "AWS/S3", "BucketSizeBytes", dims, w); size != nil {
		gb := *size / bytesPerGB
		res.StorageUsage = &gb
		res.Size = fmt.Sprintf("%.0fGB", gb)
	}
	return discovered{resource: res, costKeys: []string{name}}
}
