package aws

import (
	"context"
	"errors"
	"fmt"
	"slices"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
	"github.com/geostack-dev/geostack/pkg/svc/provider"
	log "github.com/sirupsen/logrus"
)

// Tag keys written to instances.
const (
	// TagName is the console-visible name of the instance.
	TagName = "Name"
	// TagNode records the logical node name at creation time, before Tag runs.
	TagNode = "geostack:node"
)

// errCodeInstanceNotFound is the EC2 error code for unknown instance IDs.
const errCodeInstanceNotFound = "InvalidInstanceID.NotFound"

// terminateBatchSize caps instance IDs per TerminateInstances call.
const terminateBatchSize = 100

// Provider implements provider.Provider for Amazon EC2.
type Provider struct {
	client   EC2API
	defaults provider.CreateOpts
	wait     provider.WaitPolicy
}

// NewProvider creates an EC2 provider. defaults supplies the image, key pair
// and instance type for CreateInstance calls that leave them empty.
func NewProvider(client EC2API, defaults provider.CreateOpts, wait provider.WaitPolicy) *Provider {
	return &Provider{
		client:   client,
		defaults: defaults,
		wait:     wait,
	}
}

// CreateInstance runs a single instance.
func (p *Provider) CreateInstance(ctx context.Context, opts provider.CreateOpts) (*provider.Instance, error) {
	if p.client == nil {
		return nil, provider.ErrProviderUnavailable
	}

	opts = p.withDefaults(opts)

	input := &ec2.RunInstancesInput{
		ImageId:      awssdk.String(opts.ImageID),
		InstanceType: types.InstanceType(opts.InstanceType),
		MinCount:     awssdk.Int32(1),
		MaxCount:     awssdk.Int32(1),
	}

	if opts.KeyName != "" {
		input.KeyName = awssdk.String(opts.KeyName)
	}

	if opts.Name != "" {
		input.TagSpecifications = []types.TagSpecification{{
			ResourceType: types.ResourceTypeInstance,
			Tags:         []types.Tag{{Key: awssdk.String(TagNode), Value: awssdk.String(opts.Name)}},
		}}
	}

	log.Debugf("RunInstances image=%s type=%s key=%s", opts.ImageID, opts.InstanceType, opts.KeyName)

	out, err := p.client.RunInstances(ctx, input)
	if err != nil {
		return nil, provider.Wrap("RunInstances", "", err)
	}

	if len(out.Instances) == 0 {
		return nil, provider.ErrNoInstance
	}

	instance := toInstance(out.Instances[0])

	log.Debugf("RunInstances returned %s (%s)", instance.ID, instance.State)

	return &instance, nil
}

// AwaitRunning polls DescribeInstances until the instance runs with a public address.
func (p *Provider) AwaitRunning(ctx context.Context, id string) (*provider.Instance, error) {
	return provider.WaitForRunning(ctx, p.wait, id, func(ctx context.Context) (*provider.Instance, error) {
		return p.Describe(ctx, id)
	})
}

// Tag sets the Name tag.
func (p *Provider) Tag(ctx context.Context, id, name string) error {
	if p.client == nil {
		return provider.ErrProviderUnavailable
	}

	_, err := p.client.CreateTags(ctx, &ec2.CreateTagsInput{
		Resources: []string{id},
		Tags:      []types.Tag{{Key: awssdk.String(TagName), Value: awssdk.String(name)}},
	})
	if err != nil {
		return provider.Wrap("CreateTags", id, err)
	}

	return nil
}

// Describe returns the current state of one instance.
func (p *Provider) Describe(ctx context.Context, id string) (*provider.Instance, error) {
	if p.client == nil {
		return nil, provider.ErrProviderUnavailable
	}

	out, err := p.client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{InstanceIds: []string{id}})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", provider.ErrInstanceNotFound, id)
		}

		return nil, provider.Wrap("DescribeInstances", id, err)
	}

	for _, reservation := range out.Reservations {
		for _, raw := range reservation.Instances {
			if str(raw.InstanceId) == id {
				instance := toInstance(raw)

				return &instance, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: %s", provider.ErrInstanceNotFound, id)
}

// Terminate requests termination. Unknown IDs count as already terminated.
func (p *Provider) Terminate(ctx context.Context, id string) error {
	if p.client == nil {
		return provider.ErrProviderUnavailable
	}

	log.Debugf("TerminateInstances %s", id)

	_, err := p.client.TerminateInstances(ctx, &ec2.TerminateInstancesInput{InstanceIds: []string{id}})
	if err != nil {
		if isNotFound(err) {
			log.Debugf("instance %s is already gone", id)

			return nil
		}

		return provider.Wrap("TerminateInstances", id, err)
	}

	return nil
}

// ListInstances pages through every reservation visible to the credentials.
func (p *Provider) ListInstances(ctx context.Context) ([]provider.Instance, error) {
	if p.client == nil {
		return nil, provider.ErrProviderUnavailable
	}

	var instances []provider.Instance

	paginator := ec2.NewDescribeInstancesPaginator(p.client, &ec2.DescribeInstancesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, provider.Wrap("DescribeInstances", "", err)
		}

		for _, reservation := range page.Reservations {
			for _, raw := range reservation.Instances {
				instances = append(instances, toInstance(raw))
			}
		}
	}

	return instances, nil
}

// TerminateAll terminates every instance that is not already gone.
func (p *Provider) TerminateAll(ctx context.Context) ([]string, error) {
	instances, err := p.ListInstances(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(instances))

	for _, instance := range instances {
		if !instance.State.Gone() {
			ids = append(ids, instance.ID)
		}
	}

	terminated := make([]string, 0, len(ids))

	for batch := range slices.Chunk(ids, terminateBatchSize) {
		log.Debugf("TerminateInstances %v", batch)

		_, err := p.client.TerminateInstances(ctx, &ec2.TerminateInstancesInput{InstanceIds: batch})
		if err != nil {
			return terminated, provider.Wrap("TerminateInstances", "", err)
		}

		terminated = append(terminated, batch...)
	}

	return terminated, nil
}

func (p *Provider) withDefaults(opts provider.CreateOpts) provider.CreateOpts {
	if opts.ImageID == "" {
		opts.ImageID = p.defaults.ImageID
	}

	if opts.KeyName == "" {
		opts.KeyName = p.defaults.KeyName
	}

	if opts.InstanceType == "" {
		opts.InstanceType = p.defaults.InstanceType
	}

	return opts
}

func toInstance(raw types.Instance) provider.Instance {
	instance := provider.Instance{
		ID:      str(raw.InstanceId),
		State:   provider.StateUnknown,
		Address: str(raw.PublicDnsName),
	}

	if instance.Address == "" {
		instance.Address = str(raw.PublicIpAddress)
	}

	if raw.State != nil {
		instance.State = toState(raw.State.Name)
	}

	for _, tag := range raw.Tags {
		switch str(tag.Key) {
		case TagName:
			instance.Name = str(tag.Value)
		case TagNode:
			if instance.Name == "" {
				instance.Name = str(tag.Value)
			}
		}
	}

	return instance
}

func toState(name types.InstanceStateName) provider.State {
	switch name {
	case types.InstanceStateNamePending:
		return provider.StatePending
	case types.InstanceStateNameRunning:
		return provider.StateRunning
	case types.InstanceStateNameStopping:
		return provider.StateStopping
	case types.InstanceStateNameStopped:
		return provider.StateStopped
	case types.InstanceStateNameShuttingDown:
		return provider.StateShuttingDown
	case types.InstanceStateNameTerminated:
		return provider.StateTerminated
	default:
		return provider.StateUnknown
	}
}

func isNotFound(err error) bool {
	var apiErr smithy.APIError

	return errors.As(err, &apiErr) && apiErr.ErrorCode() == errCodeInstanceNotFound
}
