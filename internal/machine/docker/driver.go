// Package docker backs playground machines with privileged containers for
// hosts without a hypervisor. The spec's box is interpreted as a container
// image and must run an SSH daemon.
package docker

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/docker/cli/cli/connhelper"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	dclient "github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"

	"github.com/kubelab/playground/internal/assets"
	"github.com/kubelab/playground/internal/machine"
	"github.com/kubelab/playground/internal/render"
	"github.com/kubelab/playground/internal/spec"
)

const sshPort = nat.Port("22/tcp")

type Driver struct {
	cli    *dclient.Client
	engine *render.Engine
	out    io.Writer
}

func NewDriver(out io.Writer) (*Driver, error) {
	cli, err := newClient()
	if err != nil {
		return nil, err
	}
	return &Driver{cli: cli, engine: render.NewEngine(), out: out}, nil
}

// newClient honors DOCKER_HOST, including ssh:// endpoints through the
// docker CLI connection helper.
func newClient() (*dclient.Client, error) {
	opts := []dclient.Opt{dclient.FromEnv, dclient.WithAPIVersionNegotiation()}
	if host := os.Getenv("DOCKER_HOST"); strings.HasPrefix(host, "ssh://") {
		helper, err := connhelper.GetConnectionHelper(host)
		if err != nil {
			return nil, err
		}
		opts = append(opts,
			dclient.WithHost(helper.Host),
			dclient.WithDialContext(helper.Dialer),
		)
	}
	return dclient.NewClientWithOpts(opts...)
}

func (d *Driver) Name() string { return "docker" }

func (d *Driver) Probe(ctx context.Context) error {
	if _, err := d.cli.Ping(ctx); err != nil {
		return fmt.Errorf("docker daemon unreachable: %w", err)
	}
	return nil
}

func (d *Driver) Create(ctx context.Context, c *spec.Cluster) error {
	img, err := machineImage(c)
	if err != nil {
		return err
	}
	if err := d.ensureImage(ctx, img); err != nil {
		return err
	}
	for _, m := range c.Spec.Machines {
		ctr, err := d.find(ctx, c.Metadata.Name, m.Name)
		if err != nil {
			return err
		}
		if ctr != nil {
			if ctr.State == "running" {
				continue
			}
			if err := d.cli.ContainerStart(ctx, ctr.ID, container.StartOptions{}); err != nil {
				return fmt.Errorf("start %s: %w", m.Name, err)
			}
			continue
		}
		if err := d.create(ctx, c, m, img); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) create(ctx context.Context, c *spec.Cluster, m spec.Machine, img string) error {
	cfg := &container.Config{
		Image:        img,
		Hostname:     m.Name,
		Labels:       labelsFor(c.Metadata.Name, m),
		ExposedPorts: nat.PortSet{sshPort: struct{}{}},
	}
	hostCfg := &container.HostConfig{
		Privileged: true,
		PortBindings: nat.PortMap{
			// Ephemeral host port, loopback only.
			sshPort: []nat.PortBinding{{HostIP: "127.0.0.1", HostPort: ""}},
		},
		Resources: container.Resources{
			NanoCPUs: int64(m.CPUs) * 1e9,
			Memory:   int64(m.MemoryMB) << 20,
		},
	}
	resp, err := d.cli.ContainerCreate(ctx, cfg, hostCfg, nil, nil, m.Name)
	if err != nil {
		return fmt.Errorf("create %s: %w", m.Name, err)
	}
	if err := d.cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return fmt.Errorf("start %s: %w", m.Name, err)
	}
	return nil
}

func (d *Driver) ensureImage(ctx context.Context, img string) error {
	if _, err := d.cli.ImageInspect(ctx, img); err == nil {
		return nil
	}
	rc, err := d.cli.ImagePull(ctx, img, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("pull %s: %w", img, err)
	}
	defer rc.Close()
	_, err = io.Copy(d.out, rc)
	return err
}

func (d *Driver) Halt(ctx context.Context, c *spec.Cluster) error {
	return d.each(ctx, c, func(ctx context.Context, ctr *container.Summary) error {
		return d.cli.ContainerStop(ctx, ctr.ID, container.StopOptions{})
	})
}

func (d *Driver) Destroy(ctx context.Context, c *spec.Cluster) error {
	return d.each(ctx, c, func(ctx context.Context, ctr *container.Summary) error {
		return d.cli.ContainerRemove(ctx, ctr.ID, container.RemoveOptions{Force: true})
	})
}

func (d *Driver) Status(ctx context.Context, c *spec.Cluster) ([]machine.Status, error) {
	out := make([]machine.Status, 0, len(c.Spec.Machines))
	for _, m := range c.Spec.Machines {
		st := machine.Status{Name: m.Name, Role: m.Role, State: machine.StateNotCreated, Address: m.Address}
		ctr, err := d.find(ctx, c.Metadata.Name, m.Name)
		if err != nil {
			return nil, err
		}
		if ctr != nil {
			st.State = mapState(string(ctr.State))
		}
		out = append(out, st)
	}
	return out, nil
}

func (d *Driver) SSHConfig(ctx context.Context, c *spec.Cluster) ([]byte, error) {
	hosts := make([]map[string]any, 0, len(c.Spec.Machines))
	for _, m := range c.Spec.Machines {
		ctr, err := d.find(ctx, c.Metadata.Name, m.Name)
		if err != nil {
			return nil, err
		}
		if ctr == nil {
			continue
		}
		port, err := publishedSSHPort(ctr)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", m.Name, err)
		}
		hosts = append(hosts, map[string]any{
			"name":         m.Name,
			"hostName":     "127.0.0.1",
			"user":         "root",
			"port":         port,
			"identityFile": "",
		})
	}
	data := render.ClusterData(c)
	data["hosts"] = hosts
	return d.engine.RenderAsset(c.Dir, assets.SSHConfig, data)
}

func (d *Driver) find(ctx context.Context, cluster, name string) (*container.Summary, error) {
	f := filters.NewArgs()
	f.Add("label", labelCluster+"="+cluster)
	f.Add("label", labelMachine+"="+name)
	ctrs, err := d.cli.ContainerList(ctx, container.ListOptions{All: true, Filters: f})
	if err != nil {
		return nil, err
	}
	if len(ctrs) == 0 {
		return nil, nil
	}
	return &ctrs[0], nil
}

func (d *Driver) each(ctx context.Context, c *spec.Cluster, fn func(context.Context, *container.Summary) error) error {
	for _, m := range c.Spec.Machines {
		ctr, err := d.find(ctx, c.Metadata.Name, m.Name)
		if err != nil {
			return err
		}
		if ctr == nil {
			continue
		}
		if err := fn(ctx, ctr); err != nil {
			return fmt.Errorf("%s: %w", m.Name, err)
		}
	}
	return nil
}

func publishedSSHPort(ctr *container.Summary) (int, error) {
	for _, p := range ctr.Ports {
		if p.PrivatePort == 22 && p.PublicPort != 0 {
			return int(p.PublicPort), nil
		}
	}
	return 0, fmt.Errorf("no published ssh port")
}

func mapState(s string) machine.State {
	switch s {
	case "running":
		return machine.StateRunning
	case "exited", "created", "paused":
		return machine.StateStopped
	default:
		return machine.StateUnknown
	}
}
