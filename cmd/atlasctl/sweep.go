package main

import (
	"context"
	"fmt"
	"strings"

	"atlas/internal/orchestrator"
	"atlas/internal/queue"

	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep <name>",
	Short: "Trigger a maintenance sweeper",
	Long:  "Sweepers: " + strings.Join(orchestrator.SweeperJobs, ", "),
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !orchestrator.IsSweeper(args[0]) {
			return fmt.Errorf("unknown sweeper %q", args[0])
		}
		return withClient(func(ctx context.Context, client queue.Client) error {
			id, err := client.Submit(ctx, args[0], struct{}{})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
