package cmd

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the playground machines, keeping their disks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, wd, err := loadCluster()
			if err != nil {
				return err
			}
			drv, err := newDriver(wd, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			step(cmd.OutOrStdout(), "stopping machines (%s)", drv.Name())
			return drv.Halt(cmd.Context(), c)
		},
	}
	rootCmd.AddCommand(cmd)
}
