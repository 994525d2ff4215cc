package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kubelab/playground/internal/ansible"
	"github.com/kubelab/playground/internal/machine"
	"github.com/kubelab/playground/internal/machine/docker"
	"github.com/kubelab/playground/internal/machine/vagrant"
	"github.com/kubelab/playground/internal/spec"
	"github.com/kubelab/playground/internal/workdir"
)

// rootCmd represents the base command when called without any subcommands
var (
	specPath     string
	driverName   string
	playbooksDir string
	rootCmd      = &cobra.Command{
		Use:          "playground",
		Short:        "manage a local multi-machine cluster for exercising kubeadm",
		SilenceUsage: true,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&specPath, "spec", "s", "playground.yaml", "Path to the cluster specification")
	rootCmd.PersistentFlags().StringVar(&driverName, "driver", "vagrant", "Machine driver: vagrant|docker")
	rootCmd.PersistentFlags().StringVar(&playbooksDir, "playbooks", "playbooks", "Playbooks directory, relative to the spec unless absolute")
}

func loadCluster() (*spec.Cluster, workdir.Dir, error) {
	c, err := spec.Load(specPath)
	if err != nil {
		return nil, workdir.Dir{}, err
	}
	wd, err := workdir.For(c)
	if err != nil {
		return nil, workdir.Dir{}, err
	}
	return c, wd, nil
}

func newDriver(wd workdir.Dir, out io.Writer) (machine.Driver, error) {
	switch driverName {
	case "vagrant":
		return vagrant.NewDriver(wd, out), nil
	case "docker":
		return docker.NewDriver(out)
	case "noop":
		// kept for tests and dry wiring
		return machine.NewNoopDriver(), nil
	default:
		return nil, fmt.Errorf("unknown driver %q: valid drivers are docker, vagrant", driverName)
	}
}

func resolvePlaybooksDir(c *spec.Cluster) string {
	if filepath.IsAbs(playbooksDir) {
		return playbooksDir
	}
	return filepath.Join(c.Dir, playbooksDir)
}

// requireAnsible gates the commands that are unavailable in fallback mode.
func requireAnsible(command string) error {
	if ansible.Available() {
		return nil
	}
	return fmt.Errorf("%w: %s is unavailable in fallback mode (still available: status, start --vms-only, ssh, stop, delete)",
		ansible.ErrUnavailable, command)
}

var (
	stepColor = color.New(color.FgCyan, color.Bold)
	warnColor = color.New(color.FgYellow)
)

func step(w io.Writer, format string, args ...any) {
	_, _ = stepColor.Fprintf(w, format+"\n", args...)
}

// warnOnDrift tells the operator when the loaded spec no longer matches the
// machines created from it.
func warnOnDrift(w io.Writer, c *spec.Cluster, wd workdir.Dir) {
	drifted, err := wd.Drifted(c)
	if err == nil && drifted {
		_, _ = warnColor.Fprintln(w, "warning: the cluster spec changed since the machines were created; delete and start again to apply it")
	}
}
