package main

import (
	"context"
	"fmt"

	"atlas/internal/orchestrator"
	"atlas/internal/queue"

	"github.com/spf13/cobra"
)

var importEnv string

var importCodeCmd = &cobra.Command{
	Use:   "import-code",
	Short: "Import code definitions from another environment",
	RunE: func(cmd *cobra.Command, args []string) error {
		if conf.GetString("platform.peers."+importEnv+".url") == "" {
			return fmt.Errorf("no peer configured for env %q", importEnv)
		}
		return withClient(func(ctx context.Context, client queue.Client) error {
			id, err := client.Submit(ctx, orchestrator.JobImportCode, orchestrator.ImportCodeArgs{Env: importEnv})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		})
	},
}

func init() {
	importCodeCmd.Flags().StringVar(&importEnv, "env", "", "source environment, e.g. prod")
	_ = importCodeCmd.MarkFlagRequired("env")
	rootCmd.AddCommand(importCodeCmd)
}
