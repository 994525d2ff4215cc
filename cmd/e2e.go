package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kubelab/playground/internal/playbook"
)

func init() {
	cmd := &cobra.Command{
		Use:   "e2e [SUITE ...]",
		Short: "Run an end-to-end test suite against the playground",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pbs, err := playbook.ValidateE2E(args)
			if err != nil {
				return err
			}
			return runPlaybooks(cmd, "e2e", pbs)
		},
	}
	rootCmd.AddCommand(cmd)
}
