package inventory

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	rdssvc "github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"

	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/models"
)

// collectRDSInstances pages through the database instances of region. Only
// available instances carry a CPU reading; RDS exposes no memory percentage.
func collectRDSInstances(ctx context.Context, client rdsClient, cw cwClient, region string, w window) ([]discovered, error) {
	paginator := rdssvc.NewDescribeDBInstancesPaginator(client, &rdssvc.DescribeDBInstancesInput{})

	var out []discovered
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("DescribeDBInstances page: %w", err)
		}
		for _, db := range page.DBInstances {
			out = append(out, toDatabaseResource(ctx, db, cw, region, w))
		}
	}
	return out, nil
}

func toDatabaseResource(ctx context.Context, db rdstypes.DBInstance, cw cwClient, region string, w window) discovered {
	id := aws.ToString(db.DBInstanceIdentifier)
	res := models.Resource{
		Name:         id,
		ResourceType: models.ResourceDatabase,
		Provider:     models.ProviderAWS,
		InstanceType: aws.ToString(db.DBInstanceClass),
		Region:       region,
	}
	if db.AllocatedStorage != nil {
		res.Size = fmt.Sprintf("%dGB", *db.AllocatedStorage)
	}
	if aws.ToString(db.DBInstanceStatus) == "available" {
		dims := []cwtypes.Dimension{dimension("DBInstanceIdentifier", id)}
		res.CPUUtilization = percent(averageMetric(ctx, cw, "AWS/RDS", "CPUUtilization", dims, w))
	}

	// Cost Explorer keys RDS line items by instance ARN.
	keys := []string{id}
	if arn := aws.ToString(db.DBInstanceArn); arn != "" {
		keys = append(keys, arn)
	}
	return discovered{resource: res, costKeys: keys}
}
