package provisioner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/geostack-dev/geostack/pkg/svc/provider"
	"github.com/geostack-dev/geostack/pkg/svc/registry"
	"github.com/geostack-dev/geostack/pkg/utils/notify"
	log "github.com/sirupsen/logrus"
)

// Store is the registry persistence the provisioner needs.
type Store interface {
	Load() (*registry.Registry, error)
	Save(reg *registry.Registry) error
	Clear() error
}

// Node is a provisioned node ready for use.
type Node struct {
	Name       string `json:"name"`
	InstanceID string `json:"instanceID"`
	Address    string `json:"address"`
	// Reused is true when the node came from the registry rather than a new instance.
	Reused bool `json:"reused"`
}

// Options configure a Provisioner.
type Options struct {
	// VerifyCached makes Provision describe a recorded instance before
	// reusing it, and forget records whose instance is gone.
	VerifyCached bool
	// Output receives progress messages. Nil discards them.
	Output io.Writer
}

// ProviderFunc builds the provider backend.
type ProviderFunc func() (provider.Provider, error)

// Provisioner provisions and tears down nodes.
type Provisioner struct {
	providerFn   func() (provider.Provider, error)
	store        Store
	verifyCached bool
	out          io.Writer
}

// New creates a Provisioner on top of prov.
func New(prov provider.Provider, store Store, opts Options) *Provisioner {
	return NewLazy(func() (provider.Provider, error) { return prov, nil }, store, opts)
}

// NewLazy creates a Provisioner that calls build the first time an operation
// needs the provider. Operations that only touch the registry, such as the
// teardown of an unrecorded name, never call it.
func NewLazy(build ProviderFunc, store Store, opts Options) *Provisioner {
	out := opts.Output
	if out == nil {
		out = io.Discard
	}

	return &Provisioner{
		providerFn:   sync.OnceValues(build),
		store:        store,
		verifyCached: opts.VerifyCached,
		out:          out,
	}
}

// ValidateNodeName reports whether name can be used as a node name.
func ValidateNodeName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidNodeName)
	}

	if strings.ContainsAny(name, "[]\r\n") {
		return fmt.Errorf("%w: %q contains '[', ']' or a line break", ErrInvalidNodeName, name)
	}

	if name == registry.ReservedName {
		return fmt.Errorf("%w: %q is reserved", ErrInvalidNodeName, name)
	}

	return nil
}

// Provision returns the node recorded for name, or provisions a new one.
// At most one instance is created per name as long as the registry persists
// between calls and calls do not run concurrently.
func (p *Provisioner) Provision(ctx context.Context, name string) (*Node, error) {
	err := ValidateNodeName(name)
	if err != nil {
		return nil, err
	}

	reg, err := p.store.Load()
	if err != nil {
		return nil, err
	}

	if record, ok := reg.Get(name); ok {
		node, reuseErr := p.reuse(ctx, reg, record)
		if reuseErr != nil || node != nil {
			return node, reuseErr
		}
	}

	return p.create(ctx, name)
}

// reuse returns the node for a recorded instance. With VerifyCached it
// returns nil, nil when the instance is gone and the record was dropped.
func (p *Provisioner) reuse(ctx context.Context, reg *registry.Registry, record registry.Record) (*Node, error) {
	node := &Node{Name: record.Name, InstanceID: record.InstanceID, Address: record.Address, Reused: true}

	if !p.verifyCached {
		log.Debugf("reusing %s (%s) from the registry", record.Name, record.InstanceID)

		return node, nil
	}

	prov, err := p.providerFn()
	if err != nil {
		return nil, err
	}

	instance, err := prov.Describe(ctx, record.InstanceID)

	switch {
	case errors.Is(err, provider.ErrInstanceNotFound) || (err == nil && instance.State.Gone()):
		notify.Warningf(p.out, "instance %s recorded for %s is gone, provisioning a new one",
			record.InstanceID, record.Name)

		reg.Remove(record.Name)

		saveErr := p.store.Save(reg)
		if saveErr != nil {
			return nil, saveErr
		}

		return nil, nil //nolint:nilnil // nil node means "provision a new one"
	case err != nil:
		return nil, fmt.Errorf("verify instance %s of %s: %w", record.InstanceID, record.Name, err)
	}

	if instance.State != provider.StateRunning {
		notify.Warningf(p.out, "instance %s recorded for %s is %s", record.InstanceID, record.Name, instance.State)
	}

	if instance.Address != "" && instance.Address != record.Address {
		log.Debugf("address of %s changed from %s to %s", record.Name, record.Address, instance.Address)

		node.Address = instance.Address

		err = reg.Put(registry.Record{Name: record.Name, InstanceID: record.InstanceID, Address: instance.Address})
		if err != nil {
			return nil, err
		}

		err = p.store.Save(reg)
		if err != nil {
			return nil, err
		}
	}

	return node, nil
}

func (p *Provisioner) create(ctx context.Context, name string) (*Node, error) {
	prov, err := p.providerFn()
	if err != nil {
		return nil, err
	}

	notify.Activityf(p.out, "creating instance for %s", name)

	created, err := prov.CreateInstance(ctx, provider.CreateOpts{Name: name})
	if err != nil {
		return nil, fmt.Errorf("create instance for %s: %w", name, err)
	}

	notify.Activityf(p.out, "waiting for %s to run", created.ID)

	ready, err := prov.AwaitRunning(ctx, created.ID)
	if err != nil {
		notify.Warningf(p.out, "instance %s was created but is not recorded; terminate it if it is not needed",
			created.ID)

		return nil, fmt.Errorf("instance %s for %s did not become ready: %w", created.ID, name, err)
	}

	err = prov.Tag(ctx, ready.ID, name)
	if err != nil {
		notify.Warningf(p.out, "failed to tag %s with %s: %v", ready.ID, name, err)
	}

	// Reload: the registry may have been edited while we waited.
	reg, err := p.store.Load()
	if err != nil {
		return nil, fmt.Errorf("record instance %s for %s: %w", ready.ID, name, err)
	}

	err = reg.Put(registry.Record{Name: name, InstanceID: ready.ID, Address: ready.Address})
	if err != nil {
		return nil, fmt.Errorf("record instance %s for %s: %w", ready.ID, name, err)
	}

	err = p.store.Save(reg)
	if err != nil {
		return nil, fmt.Errorf("record instance %s for %s: %w", ready.ID, name, err)
	}

	return &Node{Name: name, InstanceID: ready.ID, Address: ready.Address}, nil
}

// Teardown terminates the instance recorded for name and removes the
// record. It reports whether a record existed; an unknown name is a no-op.
// When termination fails the record is kept.
func (p *Provisioner) Teardown(ctx context.Context, name string) (bool, error) {
	reg, err := p.store.Load()
	if err != nil {
		return false, err
	}

	record, ok := reg.Get(name)
	if !ok {
		log.Debugf("no node named %s in the registry", name)

		return false, nil
	}

	return true, p.teardown(ctx, reg, record)
}

// TeardownKnown tears down every node in the registry. It continues past
// failures and returns the records it removed along with the joined errors.
func (p *Provisioner) TeardownKnown(ctx context.Context) ([]registry.Record, error) {
	reg, err := p.store.Load()
	if err != nil {
		return nil, err
	}

	var (
		removed []registry.Record
		errs    []error
	)

	for _, record := range reg.Records() {
		err := p.teardown(ctx, reg, record)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		removed = append(removed, record)
	}

	return removed, errors.Join(errs...)
}

// TeardownAll terminates every instance visible to the provider credentials
// and deletes the registry, whatever it contains. If termination fails the
// registry is kept so the operation can be retried.
func (p *Provisioner) TeardownAll(ctx context.Context) ([]string, error) {
	prov, err := p.providerFn()
	if err != nil {
		return nil, err
	}

	ids, err := prov.TerminateAll(ctx)
	if err != nil {
		return ids, fmt.Errorf("terminate all instances: %w", err)
	}

	err = p.store.Clear()
	if err != nil {
		return ids, err
	}

	return ids, nil
}

// Nodes returns every node in the registry.
func (p *Provisioner) Nodes() ([]registry.Record, error) {
	reg, err := p.store.Load()
	if err != nil {
		return nil, err
	}

	return reg.Records(), nil
}

func (p *Provisioner) teardown(ctx context.Context, reg *registry.Registry, record registry.Record) error {
	prov, err := p.providerFn()
	if err != nil {
		return err
	}

	notify.Activityf(p.out, "terminating %s (%s)", record.Name, record.InstanceID)

	err = prov.Terminate(ctx, record.InstanceID)
	if err != nil {
		return fmt.Errorf("terminate %s (%s): %w", record.Name, record.InstanceID, err)
	}

	reg.Remove(record.Name)

	return p.store.Save(reg)
}
