// Package mainconfig holds AWS client wiring shared by the API binary.
package mainconfig

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	appconfig "github.com/gridlight-solar/site-api/internal/config"
)

// LoadAWSConfig builds an AWS SDK config from the application config.
// Static credentials take precedence when both env keys are set; otherwise
// the default credential chain applies.
func LoadAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	loaders := []func(*config.LoadOptions) error{config.WithRegion(cfg.AWSRegion)}
	if strings.TrimSpace(cfg.AWSAccessKeyID) != "" && strings.TrimSpace(cfg.AWSSecretAccessKey) != "" {
		loaders = append(loaders, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return aws.Config{}, err
	}

	return awsCfg, nil
}

// NewSESClient creates an SESv2 client, honouring a local endpoint
// override for testing against localstack.
func NewSESClient(awsCfg aws.Config, cfg *appconfig.Config) *sesv2.Client {
	var opts []func(*sesv2.Options)
	if endpoint := strings.TrimSpace(cfg.AWSEndpointOverride); endpoint != "" {
		opts = append(opts, func(o *sesv2.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}
	return sesv2.NewFromConfig(awsCfg, opts...)
}
