package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kubelab/playground/internal/machine"
)

func init() {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the state of the playground machines",
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
			statuses, err := drv.Status(cmd.Context(), c)
			if err != nil {
				return err
			}
			warnOnDrift(cmd.OutOrStdout(), c, wd)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "MACHINE\tROLE\tADDRESS\tSTATE")
			for _, st := range statuses {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", st.Name, st.Role, st.Address, colorState(st.State))
			}
			return tw.Flush()
		},
	}
	rootCmd.AddCommand(cmd)
}

func colorState(s machine.State) string {
	switch s {
	case machine.StateRunning:
		return color.GreenString(string(s))
	case machine.StateStopped:
		return color.YellowString(string(s))
	case machine.StateUnknown:
		return color.RedString(string(s))
	default:
		return string(s)
	}
}
