package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/kubelab/playground/internal/deploy"
	"github.com/kubelab/playground/internal/workdir"
)

func init() {
	var source, artifacts string
	cmd := &cobra.Command{
		Use:   "deploy [TARGET ...]",
		Short: "Push locally built binaries onto the machines",
		Long: `Push locally built kubeadm, kubelet or kubectl binaries from a source
checkout onto the playground machines. Defaults to kubeadm; "all" deploys
every binary.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAnsible("deploy"); err != nil {
				return err
			}
			tgts, err := deploy.ValidateTargets(args)
			if err != nil {
				return err
			}
			c, wd, err := loadCluster()
			if err != nil {
				return err
			}
			sshCfg := wd.Path(workdir.SSHConfig)
			if _, err := os.Stat(sshCfg); err != nil {
				return fmt.Errorf("no ssh configuration for cluster %s; run start first", c.Metadata.Name)
			}
			warnOnDrift(cmd.OutOrStdout(), c, wd)
			if artifacts == "" {
				artifacts = filepath.Join(source, "_output", "local", "bin", "linux", runtime.GOARCH)
			}
			d := &deploy.Deployer{
				Cluster:   c,
				SSHConfig: sshCfg,
				Source:    source,
				Artifacts: artifacts,
				Out:       cmd.OutOrStdout(),
			}
			return d.Deploy(cmd.Context(), tgts)
		},
	}
	cmd.Flags().StringVar(&source, "source", ".", "Source checkout the binaries were built from")
	cmd.Flags().StringVar(&artifacts, "artifacts", "", "Directory holding the built binaries (default <source>/_output/local/bin/linux/<arch>)")
	rootCmd.AddCommand(cmd)
}
