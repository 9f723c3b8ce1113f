package hetzner

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/geostack-dev/geostack/pkg/svc/provider"
	"github.com/geostack-dev/geostack/pkg/utils/parallel"
	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	log "github.com/sirupsen/logrus"
)

// Provider implements provider.Provider for Hetzner Cloud servers.
//
// CreateOpts map as follows: ImageID is the image name (e.g. "ubuntu-24.04"),
// InstanceType the server type (e.g. "cx22") and KeyName the name of an SSH
// key uploaded to the project.
type Provider struct {
	client   *hcloud.Client
	location string
	defaults provider.CreateOpts
	wait     provider.WaitPolicy
}

// Options configure a Provider.
type Options struct {
	Location string
	Defaults provider.CreateOpts
	Wait     provider.WaitPolicy
}

// NewProvider creates a new Hetzner Cloud provider with the given client.
func NewProvider(client *hcloud.Client, opts Options) *Provider {
	return &Provider{
		client:   client,
		location: opts.Location,
		defaults: opts.Defaults,
		wait:     opts.Wait,
	}
}

// NewProviderFromToken creates a new Hetzner Cloud provider using an API token.
func NewProviderFromToken(token, version string, opts Options) *Provider {
	client := hcloud.NewClient(
		hcloud.WithToken(token),
		hcloud.WithApplication("geostack", version),
	)

	return NewProvider(client, opts)
}

// IsAvailable reports whether the provider has an API client.
func (p *Provider) IsAvailable() bool {
	return p.client != nil
}

// CreateInstance creates and starts a server named after the node.
func (p *Provider) CreateInstance(ctx context.Context, opts provider.CreateOpts) (*provider.Instance, error) {
	if p.client == nil {
		return nil, provider.ErrProviderUnavailable
	}

	opts = p.withDefaults(opts)

	createOpts, err := p.buildServerCreateOpts(ctx, opts)
	if err != nil {
		return nil, err
	}

	log.Debugf("creating server %s type=%s image=%s location=%s", createOpts.Name, opts.InstanceType, opts.ImageID, p.location)

	result, _, err := p.client.Server.Create(ctx, createOpts)
	if err != nil {
		return nil, provider.Wrap("CreateServer", "", err)
	}

	if result.Server == nil {
		return nil, provider.ErrNoInstance
	}

	instance := toInstance(result.Server)

	return &instance, nil
}

// AwaitRunning polls the server until it runs with a public IPv4 address.
//
// A new server reports "off" between its create and start actions, so off
// counts as pending here. A server that never starts ends in
// provider.ErrProvisioningTimeout.
func (p *Provider) AwaitRunning(ctx context.Context, id string) (*provider.Instance, error) {
	return provider.WaitForRunning(ctx, p.wait, id, func(ctx context.Context) (*provider.Instance, error) {
		instance, err := p.Describe(ctx, id)
		if err != nil {
			if IsRetryableHetznerError(err) {
				return nil, provider.Transient(err)
			}

			return nil, err
		}

		if instance.State == provider.StateStopped {
			log.Debugf("server %s is off, waiting for it to start", id)

			instance.State = provider.StatePending
		}

		return instance, nil
	})
}

// Tag labels the server with the node name. Existing labels are kept.
func (p *Provider) Tag(ctx context.Context, id, name string) error {
	server, err := p.getServer(ctx, id)
	if err != nil {
		return err
	}

	_, _, err = p.client.Server.Update(ctx, server, hcloud.ServerUpdateOpts{
		Labels: NodeLabels(server.Labels, name),
	})
	if err != nil {
		return provider.Wrap("UpdateServer", id, err)
	}

	return nil
}

// Describe returns the current state of the server.
func (p *Provider) Describe(ctx context.Context, id string) (*provider.Instance, error) {
	server, err := p.getServer(ctx, id)
	if err != nil {
		return nil, err
	}

	instance := toInstance(server)

	return &instance, nil
}

// Terminate deletes the server. A server that no longer exists counts as deleted.
func (p *Provider) Terminate(ctx context.Context, id string) error {
	if p.client == nil {
		return provider.ErrProviderUnavailable
	}

	serverID, err := parseID(id)
	if err != nil {
		return err
	}

	log.Debugf("deleting server %d", serverID)

	_, _, err = p.client.Server.DeleteWithResult(ctx, &hcloud.Server{ID: serverID})
	if err != nil {
		if hcloud.IsError(err, hcloud.ErrorCodeNotFound) {
			log.Debugf("server %d is already gone", serverID)

			return nil
		}

		return provider.Wrap("DeleteServer", id, err)
	}

	return nil
}

// ListInstances returns every server in the project.
func (p *Provider) ListInstances(ctx context.Context) ([]provider.Instance, error) {
	if p.client == nil {
		return nil, provider.ErrProviderUnavailable
	}

	servers, err := p.client.Server.All(ctx)
	if err != nil {
		return nil, provider.Wrap("ListServers", "", err)
	}

	instances := make([]provider.Instance, 0, len(servers))
	for _, server := range servers {
		instances = append(instances, toInstance(server))
	}

	return instances, nil
}

// TerminateAll deletes every server in the project that is not already
// being deleted. Deletes run concurrently; a failed delete does not stop the
// others, and the IDs of the servers that were deleted are returned sorted.
func (p *Provider) TerminateAll(ctx context.Context) ([]string, error) {
	instances, err := p.ListInstances(ctx)
	if err != nil {
		return nil, err
	}

	results := parallel.NewResults[string]()
	tasks := make([]parallel.Task, 0, len(instances))

	for _, instance := range instances {
		if instance.State.Gone() {
			continue
		}

		tasks = append(tasks, func(taskCtx context.Context) error {
			terminateErr := p.Terminate(taskCtx, instance.ID)
			if terminateErr != nil {
				results.AddError(terminateErr)

				return nil
			}

			results.Add(instance.ID)

			return nil
		})
	}

	err = parallel.NewExecutor(parallel.DefaultMaxConcurrency).Execute(ctx, tasks...)
	if err != nil {
		return nil, err
	}

	terminated := results.Values()
	slices.Sort(terminated)

	return terminated, results.Err()
}

func (p *Provider) getServer(ctx context.Context, id string) (*hcloud.Server, error) {
	if p.client == nil {
		return nil, provider.ErrProviderUnavailable
	}

	serverID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	server, _, err := p.client.Server.GetByID(ctx, serverID)
	if err != nil {
		return nil, provider.Wrap("GetServer", id, err)
	}

	if server == nil {
		return nil, fmt.Errorf("%w: %s", provider.ErrInstanceNotFound, id)
	}

	return server, nil
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

// buildServerCreateOpts builds the hcloud.ServerCreateOpts for a node.
func (p *Provider) buildServerCreateOpts(ctx context.Context, opts provider.CreateOpts) (hcloud.ServerCreateOpts, error) {
	name := opts.Name
	if name == "" {
		name = "geostack-" + strconv.FormatInt(time.Now().Unix(), 10)
	}

	createOpts := hcloud.ServerCreateOpts{
		Name:             name,
		Labels:           NodeLabels(nil, opts.Name),
		ServerType:       &hcloud.ServerType{Name: opts.InstanceType},
		Image:            &hcloud.Image{Name: opts.ImageID},
		StartAfterCreate: hcloud.Ptr(true),
	}

	if p.location != "" {
		createOpts.Location = &hcloud.Location{Name: p.location}
	}

	if opts.KeyName != "" {
		sshKey, _, err := p.client.SSHKey.GetByName(ctx, opts.KeyName)
		if err != nil {
			return hcloud.ServerCreateOpts{}, provider.Wrap("GetSSHKey", "", err)
		}

		if sshKey == nil {
			return hcloud.ServerCreateOpts{}, fmt.Errorf("%w: %s", ErrSSHKeyNotFound, opts.KeyName)
		}

		createOpts.SSHKeys = []*hcloud.SSHKey{sshKey}
	}

	return createOpts, nil
}

func parseID(id string) (int64, error) {
	serverID, err := strconv.ParseInt(id, 10, 64)
	if err != nil || serverID <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidServerID, id)
	}

	return serverID, nil
}

func toInstance(server *hcloud.Server) provider.Instance {
	instance := provider.Instance{
		ID:    strconv.FormatInt(server.ID, 10),
		Name:  server.Name,
		State: toState(server.Status),
	}

	if ip := server.PublicNet.IPv4.IP; ip != nil && !ip.IsUnspecified() {
		instance.Address = ip.String()
	}

	if node := server.Labels[LabelNode]; node != "" {
		instance.Name = node
	}

	return instance
}

func toState(status hcloud.ServerStatus) provider.State {
	switch status {
	case hcloud.ServerStatusInitializing, hcloud.ServerStatusStarting,
		hcloud.ServerStatusMigrating, hcloud.ServerStatusRebuilding:
		return provider.StatePending
	case hcloud.ServerStatusRunning:
		return provider.StateRunning
	case hcloud.ServerStatusStopping:
		return provider.StateStopping
	case hcloud.ServerStatusOff:
		return provider.StateStopped
	case hcloud.ServerStatusDeleting:
		return provider.StateShuttingDown
	default:
		return provider.StateUnknown
	}
}
