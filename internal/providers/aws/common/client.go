package common

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// ProfileConfig is a resolved AWS profile with its SDK configuration and the
// clients needed for account and region discovery.
type ProfileConfig struct {
	// ProfileName is the name from ~/.aws/config or "default".
	ProfileName string

	// AccountID is the AWS account the credentials belong to, resolved via STS.
	AccountID string

	// Region is the home region of the profile.
	Region string

	Config  aws.Config
	Clients *ClientSet
}

// AWSClientProvider loads AWS configurations and resolves collection regions.
// Implementations must use the AWS SDK v2 only.
type AWSClientProvider interface {
	// LoadProfile returns a ProfileConfig for the named profile. An empty
	// profile selects the SDK default chain; an empty region falls back to
	// the profile region and then to us-east-1.
	LoadProfile(ctx context.Context, profile, region string) (*ProfileConfig, error)

	// GetActiveRegions returns the regions enabled for the account.
	GetActiveRegions(ctx context.Context, cfg *ProfileConfig) ([]string, error)

	// ConfigForRegion clones cfg with the target region set.
	ConfigForRegion(cfg *ProfileConfig, region string) aws.Config
}
