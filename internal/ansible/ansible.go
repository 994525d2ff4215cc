// Package ansible writes the inventory the playbooks consume and shells out
// to ansible-playbook. When the tool is missing from the host, the playground
// runs in fallback mode and only the machine lifecycle commands remain.
package ansible

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kubelab/playground/internal/assets"
	"github.com/kubelab/playground/internal/playbook"
	"github.com/kubelab/playground/internal/render"
	"github.com/kubelab/playground/internal/spec"
	"github.com/kubelab/playground/internal/workdir"
)

const tool = "ansible-playbook"

// ErrUnavailable marks fallback mode.
var ErrUnavailable = errors.New(tool + " not found on PATH")

// Available reports whether ansible-playbook can be invoked on this host.
func Available() bool {
	_, err := exec.LookPath(tool)
	return err == nil
}

type Runner struct {
	dir          workdir.Dir
	playbooksDir string
	engine       *render.Engine
	out          io.Writer
}

// NewRunner returns a runner resolving playbook files under playbooksDir.
func NewRunner(dir workdir.Dir, playbooksDir string, out io.Writer) *Runner {
	return &Runner{dir: dir, playbooksDir: playbooksDir, engine: render.NewEngine(), out: out}
}

// WriteAssets renders the inventory and ansible.cfg into the workdir.
func (r *Runner) WriteAssets(c *spec.Cluster) error {
	data := render.ClusterData(c)
	data["workdir"] = r.dir.Path()
	for _, name := range []string{assets.Inventory, assets.AnsibleCfg} {
		out, err := r.engine.RenderAsset(c.Dir, name, data)
		if err != nil {
			return err
		}
		if err := r.dir.WriteFile(name, out); err != nil {
			return err
		}
	}
	return nil
}

// Run invokes one playbook against the cluster inventory, streaming the
// tool's own output through. Extra vars, when present, are written to the
// workdir and passed by reference.
func (r *Runner) Run(ctx context.Context, pb playbook.Playbook, extra map[string]any) error {
	if !Available() {
		return ErrUnavailable
	}
	file := filepath.Join(r.playbooksDir, pb.File())
	if _, err := os.Stat(file); err != nil {
		return fmt.Errorf("playbook %s: %w", pb, err)
	}
	args := []string{"-i", r.dir.Path(workdir.Inventory), file}
	if len(extra) > 0 {
		b, err := yaml.Marshal(extra)
		if err != nil {
			return fmt.Errorf("playbook %s extra vars: %w", pb, err)
		}
		name := "extravars-" + string(pb) + ".yaml"
		if err := r.dir.WriteFile(name, b); err != nil {
			return err
		}
		args = append(args, "--extra-vars", "@"+r.dir.Path(name))
	}
	cmd := exec.CommandContext(ctx, tool, args...)
	cmd.Dir = r.dir.Path()
	cmd.Env = append(os.Environ(), "ANSIBLE_CONFIG="+r.dir.Path(workdir.AnsibleCfg))
	cmd.Stdout = r.out
	cmd.Stderr = r.out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("playbook %s: %w", pb, err)
	}
	return nil
}
