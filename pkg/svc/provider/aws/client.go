package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
)

// EC2API is the subset of the EC2 client the provider calls.
type EC2API interface {
	RunInstances(ctx context.Context, params *ec2.RunInstancesInput, optFns ...func(*ec2.Options)) (
		*ec2.RunInstancesOutput, error)
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (
		*ec2.DescribeInstancesOutput, error)
	CreateTags(ctx context.Context, params *ec2.CreateTagsInput, optFns ...func(*ec2.Options)) (
		*ec2.CreateTagsOutput, error)
	TerminateInstances(ctx context.Context, params *ec2.TerminateInstancesInput, optFns ...func(*ec2.Options)) (
		*ec2.TerminateInstancesOutput, error)
}

// ClientOptions select the region and credentials for the EC2 client.
type ClientOptions struct {
	Region string
	// AccessKeyID and SecretAccessKey are used as static credentials when
	// both are set. Otherwise the SDK's default credential chain applies
	// (environment, shared config, instance role).
	AccessKeyID     string
	SecretAccessKey string
}

// NewClient builds an EC2 client.
func NewClient(ctx context.Context, opts ClientOptions) (*ec2.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
	}

	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS configuration: %w", err)
	}

	return ec2.NewFromConfig(cfg), nil
}

// compile-time check that the SDK client satisfies EC2API.
var _ EC2API = (*ec2.Client)(nil)

// str is awssdk.ToString, kept short for the many optional fields.
func str(p *string) string {
	return awssdk.ToString(p)
}
