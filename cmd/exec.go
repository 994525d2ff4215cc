package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kubelab/playground/internal/ansible"
	"github.com/kubelab/playground/internal/playbook"
)

func init() {
	cmd := &cobra.Command{
		Use:   "exec PLAYBOOK [PLAYBOOK ...]",
		Short: "Run playbooks against the running playground",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pbs, err := playbook.ValidateExec(args)
			if err != nil {
				return err
			}
			return runPlaybooks(cmd, "exec", pbs)
		},
	}
	rootCmd.AddCommand(cmd)
}

// runPlaybooks is shared by exec and e2e: both only differ in their
// whitelists.
func runPlaybooks(cmd *cobra.Command, command string, pbs []playbook.Playbook) error {
	if err := requireAnsible(command); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	c, wd, err := loadCluster()
	if err != nil {
		return err
	}
	warnOnDrift(out, c, wd)
	runner := ansible.NewRunner(wd, resolvePlaybooksDir(c), out)
	if err := runner.WriteAssets(c); err != nil {
		return err
	}
	for _, pb := range pbs {
		step(out, "running playbook %s", pb)
		if err := runner.Run(cmd.Context(), pb, nil); err != nil {
			return err
		}
	}
	return nil
}
