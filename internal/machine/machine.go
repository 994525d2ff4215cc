// Package machine defines the virtualization backend interface the command
// dispatcher drives. Concrete drivers live in subpackages.
package machine

import (
	"context"

	"github.com/kubelab/playground/internal/spec"
)

// State is the normalized lifecycle state of a playground machine.
type State string

const (
	StateRunning    State = "running"
	StateStopped    State = "stopped"
	StateNotCreated State = "not created"
	StateUnknown    State = "unknown"
)

type Status struct {
	Name    string
	Role    spec.Role
	State   State
	Address string
}

// Driver creates, inspects and tears down the machines of one cluster.
// Operations are sequential; drivers do not keep state between calls beyond
// what the backing tool itself persists.
type Driver interface {
	Name() string

	// Probe verifies the backing tool is usable on this host.
	Probe(ctx context.Context) error

	Create(ctx context.Context, c *spec.Cluster) error
	Halt(ctx context.Context, c *spec.Cluster) error
	Destroy(ctx context.Context, c *spec.Cluster) error
	Status(ctx context.Context, c *spec.Cluster) ([]Status, error)

	// SSHConfig returns an OpenSSH client configuration with one Host block
	// per machine, suitable for `ssh -F` and for ansible's ssh_args.
	SSHConfig(ctx context.Context, c *spec.Cluster) ([]byte, error)
}

// NoopDriver is used by tests.
type NoopDriver struct{}

func NewNoopDriver() *NoopDriver { return &NoopDriver{} }

func (d *NoopDriver) Name() string                                 { return "noop" }
func (d *NoopDriver) Probe(context.Context) error                  { return nil }
func (d *NoopDriver) Create(context.Context, *spec.Cluster) error  { return nil }
func (d *NoopDriver) Halt(context.Context, *spec.Cluster) error    { return nil }
func (d *NoopDriver) Destroy(context.Context, *spec.Cluster) error { return nil }
func (d *NoopDriver) SSHConfig(context.Context, *spec.Cluster) ([]byte, error) {
	return nil, nil
}

func (d *NoopDriver) Status(_ context.Context, c *spec.Cluster) ([]Status, error) {
	out := make([]Status, 0, len(c.Spec.Machines))
	for _, m := range c.Spec.Machines {
		out = append(out, Status{Name: m.Name, Role: m.Role, State: StateNotCreated, Address: m.Address})
	}
	return out, nil
}
