// Package vagrant drives the vagrant CLI against a generated Vagrantfile in
// the cluster workdir.
package vagrant

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/kubelab/playground/internal/assets"
	"github.com/kubelab/playground/internal/machine"
	"github.com/kubelab/playground/internal/render"
	"github.com/kubelab/playground/internal/spec"
	"github.com/kubelab/playground/internal/workdir"
)

type Driver struct {
	dir    workdir.Dir
	engine *render.Engine
	out    io.Writer
}

func NewDriver(dir workdir.Dir, out io.Writer) *Driver {
	return &Driver{dir: dir, engine: render.NewEngine(), out: out}
}

func (d *Driver) Name() string { return "vagrant" }

func (d *Driver) Probe(ctx context.Context) error {
	if _, err := exec.LookPath("vagrant"); err != nil {
		return fmt.Errorf("vagrant not found on PATH: %w", err)
	}
	return d.run(ctx, io.Discard, "--version")
}

func (d *Driver) Create(ctx context.Context, c *spec.Cluster) error {
	if err := d.writeVagrantfile(c); err != nil {
		return err
	}
	return d.run(ctx, d.out, "up")
}

func (d *Driver) Halt(ctx context.Context, _ *spec.Cluster) error {
	return d.run(ctx, d.out, "halt")
}

func (d *Driver) Destroy(ctx context.Context, _ *spec.Cluster) error {
	return d.run(ctx, d.out, "destroy", "-f")
}

func (d *Driver) Status(ctx context.Context, c *spec.Cluster) ([]machine.Status, error) {
	out := make([]machine.Status, 0, len(c.Spec.Machines))
	if _, err := os.Stat(d.dir.Path(workdir.Vagrantfile)); errors.Is(err, os.ErrNotExist) {
		for _, m := range c.Spec.Machines {
			out = append(out, machine.Status{Name: m.Name, Role: m.Role, State: machine.StateNotCreated, Address: m.Address})
		}
		return out, nil
	}
	raw, err := d.output(ctx, "status", "--machine-readable")
	if err != nil {
		return nil, err
	}
	states := parseStates(string(raw))
	for _, m := range c.Spec.Machines {
		st, ok := states[m.Name]
		if !ok {
			st = machine.StateNotCreated
		}
		out = append(out, machine.Status{Name: m.Name, Role: m.Role, State: st, Address: m.Address})
	}
	return out, nil
}

func (d *Driver) SSHConfig(ctx context.Context, _ *spec.Cluster) ([]byte, error) {
	raw, err := d.output(ctx, "ssh-config")
	if err != nil {
		return nil, err
	}
	return normalizeSSHConfig(raw)
}

func (d *Driver) writeVagrantfile(c *spec.Cluster) error {
	out, err := d.engine.RenderAsset(c.Dir, assets.Vagrantfile, render.ClusterData(c))
	if err != nil {
		return err
	}
	return d.dir.WriteFile(workdir.Vagrantfile, out)
}

func (d *Driver) run(ctx context.Context, out io.Writer, args ...string) error {
	cmd := exec.CommandContext(ctx, "vagrant", args...)
	cmd.Dir = d.dir.Path()
	cmd.Stdout = out
	cmd.Stderr = out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("vagrant %s: %w", args[0], err)
	}
	return nil
}

func (d *Driver) output(ctx context.Context, args ...string) ([]byte, error) {
	var buf, errbuf bytes.Buffer
	cmd := exec.CommandContext(ctx, "vagrant", args...)
	cmd.Dir = d.dir.Path()
	cmd.Stdout = &buf
	cmd.Stderr = &errbuf
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("vagrant %s: %w: %s", args[0], err, bytes.TrimSpace(errbuf.Bytes()))
	}
	return buf.Bytes(), nil
}
