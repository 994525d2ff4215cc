package cmd

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Destroy the playground machines and the cluster state",
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
			step(cmd.OutOrStdout(), "destroying machines (%s)", drv.Name())
			if err := drv.Destroy(cmd.Context(), c); err != nil {
				return err
			}
			return wd.Remove()
		},
	}
	rootCmd.AddCommand(cmd)
}
