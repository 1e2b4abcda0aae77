package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var awardSweepCmd = &cobra.Command{
	Use:   "award-sweep",
	Short: "Award every open task whose bidding window has elapsed",
	Long:  "Runs a single auto-award pass and exits. Intended for an external cron when the server's scheduler is not used.",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := bootstrap()
		defer app.Close()

		awarded, err := app.scheduler.Sweep(context.Background())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "awarded %d task(s)\n", awarded)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(awardSweepCmd)
}
