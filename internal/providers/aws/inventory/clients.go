package inventory

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	ce "github.com/aws/aws-sdk-go-v2/service/costexplorer"
	ec2svc "github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	s3svc "github.com/aws/aws-sdk-go-v2/service/s3"
)

// ec2Client satisfies the SDK paginator interfaces for instances and volumes.
type ec2Client interface {
	DescribeInstances(
		ctx context.Context,
		params *ec2svc.DescribeInstancesInput,
		optFns ...func(*ec2svc.Options),
	) (*ec2svc.DescribeInstancesOutput, error)

	DescribeVolumes(
		ctx context.Context,
		params *ec2svc.DescribeVolumesInput,
		optFns ...func(*ec2svc.Options),
	) (*ec2svc.DescribeVolumesOutput, error)
}

type rdsClient interface {
	DescribeDBInstances(
		ctx context.Context,
		params *rds.DescribeDBInstancesInput,
		optFns ...func(*rds.Options),
	) (*rds.DescribeDBInstancesOutput, error)
}

type s3Client interface {
	ListBuckets(
		ctx context.Context,
		params *s3svc.ListBucketsInput,
		optFns ...func(*s3svc.Options),
	) (*s3svc.ListBucketsOutput, error)
}

// cwClient must be regional: metrics are queried where the resource lives.
type cwClient interface {
	GetMetricStatistics(
		ctx context.Context,
		params *cloudwatch.GetMetricStatisticsInput,
		optFns ...func(*cloudwatch.Options),
	) (*cloudwatch.GetMetricStatisticsOutput, error)
}

// ceClient is always pointed at us-east-1.
type ceClient interface {
	GetCostAndUsageWithResources(
		ctx context.Context,
		params *ce.GetCostAndUsageWithResourcesInput,
		optFns ...func(*ce.Options),
	) (*ce.GetCostAndUsageWithResourcesOutput, error)
}

// clients holds every service client needed for one region.
type clients struct {
	EC2 ec2Client
	RDS rdsClient
	S3  s3Client
	CW  cwClient
	CE  ceClient
}

type clientFactory func(cfg aws.Config) *clients

func newDefaultClients(cfg aws.Config) *clients {
	ceCfg := cfg
	ceCfg.Region = "us-east-1"
	return &clients{
		EC2: ec2svc.NewFromConfig(cfg),
		RDS: rds.NewFromConfig(cfg),
		S3:  s3svc.NewFromConfig(cfg),
		CW:  cloudwatch.NewFromConfig(cfg),
		CE:  ce.NewFromConfig(ceCfg),
	}
}
