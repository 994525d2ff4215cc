package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/kubelab/playground/internal/workdir"
)

func init() {
	cmd := &cobra.Command{
		Use:   "ssh MACHINE",
		Short: "Open an interactive shell on a playground machine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, wd, err := loadCluster()
			if err != nil {
				return err
			}
			name := args[0]
			if _, ok := c.Machine(name); !ok {
				return fmt.Errorf("no machine %q in cluster %s", name, c.Metadata.Name)
			}
			cfg := wd.Path(workdir.SSHConfig)
			if _, err := os.Stat(cfg); err != nil {
				return fmt.Errorf("no ssh configuration for cluster %s; run start first", c.Metadata.Name)
			}
			sshBin, err := exec.LookPath("ssh")
			if err != nil {
				return fmt.Errorf("ssh not found on PATH: %w", err)
			}
			sh := exec.CommandContext(cmd.Context(), sshBin, "-F", cfg, name)
			sh.Stdin = os.Stdin
			sh.Stdout = os.Stdout
			sh.Stderr = os.Stderr
			return sh.Run()
		},
	}
	rootCmd.AddCommand(cmd)
}
