package target

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/geostack-dev/geostack/pkg/apis/deploy/v1alpha1"
	"github.com/geostack-dev/geostack/pkg/svc/provisioner"
	log "github.com/sirupsen/logrus"
)

// Repository locates the application checkout on a target.
type Repository struct {
	Origin string `json:"origin"`
	Repo   string `json:"repo"`
	Remote string `json:"remote"`
	Branch string `json:"branch"`
}

// Target is everything a recipe needs to run against one environment.
type Target struct {
	Environment string                   `json:"environment"`
	Kind        v1alpha1.EnvironmentKind `json:"kind"`
	Node        string                   `json:"node,omitempty"`
	InstanceID  string                   `json:"instanceID,omitempty"`
	Host        string                   `json:"host"`
	Port        int                      `json:"port"`
	User        string                   `json:"user"`
	KeyPath     string                   `json:"keyPath,omitempty"`
	Repository  Repository               `json:"repository"`
	BaseDir     string                   `json:"baseDir"`
	Virtualenv  string                   `json:"virtualenv,omitempty"`
	DevMode     bool                     `json:"devMode"`
}

// Address returns host:port.
func (t *Target) Address() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// NodeProvisioner provisions or reuses the node behind a remote environment.
type NodeProvisioner interface {
	Provision(ctx context.Context, name string) (*provisioner.Node, error)
}

// NodeProvisionerFunc adapts a function to NodeProvisioner.
type NodeProvisionerFunc func(ctx context.Context, name string) (*provisioner.Node, error)

// Provision calls f.
func (f NodeProvisionerFunc) Provision(ctx context.Context, name string) (*provisioner.Node, error) {
	return f(ctx, name)
}

// Resolver maps environment names to targets.
type Resolver struct {
	config *v1alpha1.Config
	local  LocalQuerier
	nodes  NodeProvisioner
}

// NewResolver creates a Resolver. nodes may be nil when only local
// environments are resolved.
func NewResolver(config *v1alpha1.Config, local LocalQuerier, nodes NodeProvisioner) *Resolver {
	return &Resolver{config: config, local: local, nodes: nodes}
}

// Resolve returns the target for the environment named by selector. Unknown
// selectors fail before anything is queried or provisioned.
func (r *Resolver) Resolve(ctx context.Context, selector string) (*Target, error) {
	env, ok := r.config.Environment(selector)
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %v)", ErrUnknownEnvironment, selector, r.config.EnvironmentNames())
	}

	target := &Target{
		Environment: selector,
		Kind:        env.Kind,
		Repository: Repository{
			Origin: r.config.Repository.Origin,
			Repo:   r.config.Repository.Repo,
			Remote: env.Remote,
			Branch: env.Branch,
		},
		BaseDir:    env.BaseDir,
		Virtualenv: env.Virtualenv,
		DevMode:    env.DevMode,
	}

	switch env.Kind {
	case v1alpha1.EnvironmentLocal:
		return r.resolveLocal(ctx, target)
	case v1alpha1.EnvironmentRemote:
		return r.resolveRemote(ctx, target, env.Node)
	default:
		return nil, fmt.Errorf("%w: %q for environment %s", v1alpha1.ErrInvalidEnvironmentKind, env.Kind, selector)
	}
}

func (r *Resolver) resolveLocal(ctx context.Context, target *Target) (*Target, error) {
	if r.local == nil {
		return nil, fmt.Errorf("%w: no local querier configured", ErrLocalQuery)
	}

	sshConfig, err := r.local.Query(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", target.Environment, err)
	}

	log.Debugf("local target %s at %s:%d", target.Environment, sshConfig.Host, sshConfig.Port)

	target.Host = sshConfig.Host
	target.Port = sshConfig.Port
	target.User = sshConfig.User
	target.KeyPath = sshConfig.IdentityFile

	return target, nil
}

func (r *Resolver) resolveRemote(ctx context.Context, target *Target, nodeName string) (*Target, error) {
	if r.nodes == nil {
		return nil, fmt.Errorf("resolve %s: no node provisioner configured", target.Environment)
	}

	node, err := r.nodes.Provision(ctx, nodeName)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", target.Environment, err)
	}

	target.Node = node.Name
	target.InstanceID = node.InstanceID
	target.Host = node.Address
	target.Port = DefaultSSHPort
	target.User = r.config.SSH.User
	target.KeyPath = r.config.SSH.KeyPath

	return target, nil
}
