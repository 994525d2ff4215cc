package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kubelab/playground/internal/ansible"
	"github.com/kubelab/playground/internal/playbook"
	"github.com/kubelab/playground/internal/workdir"
)

func init() {
	var vmsOnly bool
	cmd := &cobra.Command{
		Use:   "start [playbook ...]",
		Short: "Create the machines and run the bootstrap playbooks",
		Long: `Create the playground machines and bootstrap the cluster.

Without arguments the playbook sequence is derived from the cluster spec:
external etcd and external CA steps only when declared, the join steps only
when there are machines to join. Naming playbooks restricts the run to them.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			c, wd, err := loadCluster()
			if err != nil {
				return err
			}
			pbs, err := playbook.ValidateStart(args)
			if err != nil {
				return err
			}
			if len(pbs) == 0 {
				pbs = playbook.ForStart(c)
			}
			drv, err := newDriver(wd, out)
			if err != nil {
				return err
			}
			if err := drv.Probe(ctx); err != nil {
				return err
			}

			step(out, "creating machines (%s)", drv.Name())
			if err := drv.Create(ctx, c); err != nil {
				return err
			}
			sshCfg, err := drv.SSHConfig(ctx, c)
			if err != nil {
				return err
			}
			if err := wd.WriteFile(workdir.SSHConfig, sshCfg); err != nil {
				return err
			}
			// Recorded only once the machines exist, so a failed create does
			// not mask drift against machines built from an older spec.
			if err := wd.RecordFingerprint(c); err != nil {
				return err
			}

			if vmsOnly {
				return nil
			}
			if !ansible.Available() {
				_, _ = warnColor.Fprintln(out, "ansible-playbook not found on PATH: machines created, bootstrap skipped (fallback mode)")
				return nil
			}
			runner := ansible.NewRunner(wd, resolvePlaybooksDir(c), out)
			if err := runner.WriteAssets(c); err != nil {
				return err
			}
			for _, pb := range pbs {
				step(out, "running playbook %s", pb)
				if err := runner.Run(ctx, pb, nil); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&vmsOnly, "vms-only", false, "Create the machines without running any playbook")
	rootCmd.AddCommand(cmd)
}
