package aws_test

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/stretchr/testify/mock"
)

type mockEC2 struct {
	mock.Mock
}

func (m *mockEC2) RunInstances(
	ctx context.Context, params *ec2.RunInstancesInput, _ ...func(*ec2.Options),
) (*ec2.RunInstancesOutput, error) {
	args := m.Called(ctx, params)

	out, _ := args.Get(0).(*ec2.RunInstancesOutput)

	return out, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

func (m *mockEC2) DescribeInstances(
	ctx context.Context, params *ec2.DescribeInstancesInput, _ ...func(*ec2.Options),
) (*ec2.DescribeInstancesOutput, error) {
	args := m.Called(ctx, params)

	out, _ := args.Get(0).(*ec2.DescribeInstancesOutput)

	return out, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

func (m *mockEC2) CreateTags(
	ctx context.Context, params *ec2.CreateTagsInput, _ ...func(*ec2.Options),
) (*ec2.CreateTagsOutput, error) {
	args := m.Called(ctx, params)

	out, _ := args.Get(0).(*ec2.CreateTagsOutput)

	return out, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

func (m *mockEC2) TerminateInstances(
	ctx context.Context, params *ec2.TerminateInstancesInput, _ ...func(*ec2.Options),
) (*ec2.TerminateInstancesOutput, error) {
	args := m.Called(ctx, params)

	out, _ := args.Get(0).(*ec2.TerminateInstancesOutput)

	return out, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}
