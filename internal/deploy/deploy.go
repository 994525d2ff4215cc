// Package deploy pushes locally built kubeadm/kubelet/kubectl binaries onto
// the playground machines over SSH.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kubelab/playground/internal/spec"
	"github.com/kubelab/playground/internal/sshutil"
)

type Target string

const (
	TargetKubeadm Target = "kubeadm"
	TargetKubelet Target = "kubelet"
	TargetKubectl Target = "kubectl"
	TargetAll     Target = "all"
)

var targets = []Target{TargetKubeadm, TargetKubelet, TargetKubectl, TargetAll}

// ErrUnknownTarget is wrapped by whitelist violations.
var ErrUnknownTarget = errors.New("unknown deploy target")

// ValidateTargets checks deploy's positional args. No args defaults to
// kubeadm; "all" expands to every binary.
func ValidateTargets(args []string) ([]Target, error) {
	if len(args) == 0 {
		return []Target{TargetKubeadm}, nil
	}
	set := map[Target]struct{}{}
	for _, t := range targets {
		set[t] = struct{}{}
	}
	var out []Target
	for _, a := range args {
		tgt := Target(strings.ToLower(a))
		if _, ok := set[tgt]; !ok {
			return nil, fmt.Errorf("%w %q: valid targets are %s", ErrUnknownTarget, a, names())
		}
		if tgt == TargetAll {
			return []Target{TargetKubeadm, TargetKubelet, TargetKubectl}, nil
		}
		out = append(out, tgt)
	}
	return out, nil
}

func names() string {
	s := make([]string, 0, len(targets))
	for _, t := range targets {
		s = append(s, string(t))
	}
	sort.Strings(s)
	return strings.Join(s, ", ")
}

type Deployer struct {
	Cluster   *spec.Cluster
	SSHConfig string // path to the generated ssh_config
	Source    string // source checkout, for the revision stamp
	Artifacts string // directory holding the built binaries
	Out       io.Writer
}

// Deploy pushes each target binary to the machines that run it, one machine
// at a time.
func (d *Deployer) Deploy(ctx context.Context, tgts []Target) error {
	rev := Revision(d.Source)
	for _, tgt := range tgts {
		local, err := d.artifact(tgt)
		if err != nil {
			return err
		}
		for _, m := range machinesFor(d.Cluster, tgt) {
			if err := ctx.Err(); err != nil {
				return err
			}
			if rev != "" {
				fmt.Fprintf(d.Out, "deploying %s (%s) to %s\n", tgt, rev, m.Name)
			} else {
				fmt.Fprintf(d.Out, "deploying %s to %s\n", tgt, m.Name)
			}
			if err := d.push(tgt, local, m); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Deployer) artifact(tgt Target) (string, error) {
	local := filepath.Join(d.Artifacts, string(tgt))
	if _, err := os.Stat(local); err != nil {
		return "", fmt.Errorf("no %s artifact under %s: %w", tgt, d.Artifacts, err)
	}
	return local, nil
}

func (d *Deployer) push(tgt Target, local string, m spec.Machine) error {
	host, err := sshutil.ResolveHost(d.SSHConfig, m.Name)
	if err != nil {
		return err
	}
	client, err := sshutil.Dial(host)
	if err != nil {
		return err
	}
	defer client.Close()

	f, err := os.Open(local)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := sshutil.Push(client, f, "/usr/bin/"+string(tgt), 0o755); err != nil {
		return fmt.Errorf("%s: %w", m.Name, err)
	}
	if tgt == TargetKubelet {
		// A replaced kubelet binary only takes effect on unit restart.
		if err := sshutil.Run(client, "sudo systemctl restart kubelet", d.Out); err != nil {
			return fmt.Errorf("%s: %w", m.Name, err)
		}
	}
	return nil
}

// machinesFor scopes a binary to the machines that run it: kubeadm and
// kubectl to the control planes, kubelet to every kubernetes node.
func machinesFor(c *spec.Cluster, tgt Target) []spec.Machine {
	switch tgt {
	case TargetKubelet:
		return append(c.ControlPlanes(), c.Workers()...)
	default:
		return c.ControlPlanes()
	}
}
