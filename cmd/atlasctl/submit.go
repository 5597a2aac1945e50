package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"atlas/internal/orchestrator"
	"atlas/internal/queue"

	"github.com/spf13/cobra"
)

var (
	submitArgs  string
	submitDelay time.Duration
	submitQueue string
)

var submitCmd = &cobra.Command{
	Use:   "submit <job>",
	Short: "Submit a job with JSON arguments",
	Example: `  atlasctl submit instance_heal --args '{"instance_id": 42}'
  atlasctl submit cron --args '{"status":"launched","type":"express"}' --delay 10m`,
	Args: cobra.ExactArgs(1),
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().StringVar(&submitArgs, "args", "{}", "job arguments as a JSON object")
	submitCmd.Flags().DurationVar(&submitDelay, "delay", 0, "delay before the job becomes runnable")
	submitCmd.Flags().StringVar(&submitQueue, "queue", "", "queue name, defaults to the job's queue")
	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, args []string) error {
	var payload json.RawMessage
	if err := json.Unmarshal([]byte(submitArgs), &payload); err != nil {
		return fmt.Errorf("invalid --args: %w", err)
	}
	opts := []queue.Option{}
	if submitDelay > 0 {
		opts = append(opts, queue.WithDelay(submitDelay))
	}
	if submitQueue != "" {
		opts = append(opts, queue.WithQueue(submitQueue))
	}
	if args[0] == orchestrator.JobImportBackup {
		opts = append(opts, queue.WithTimeLimit(orchestrator.ImportBackupTimeLimit))
	}
	return withClient(func(ctx context.Context, client queue.Client) error {
		id, err := client.Submit(ctx, args[0], payload, opts...)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	})
}
