package main

import (
	"context"
	"encoding/json"
	"fmt"

	"atlas/pkg/atlasclient"

	"github.com/spf13/cobra"
)

var apiURL string

var jobCmd = &cobra.Command{
	Use:   "job <job_id>",
	Short: "Show the recorded result of a finished job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := apiURL
		if url == "" {
			url = conf.GetString("platform.api_url")
		}
		client, err := atlasclient.NewClient(url, conf.GetString("platform.api_token"), actor, false)
		if err != nil {
			return err
		}
		var result json.RawMessage
		if err := client.Get(context.Background(), "/jobs/"+args[0], nil, &result); err != nil {
			return err
		}
		out, _ := json.MarshalIndent(result, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	jobCmd.Flags().StringVar(&apiURL, "api", "", "Atlas API base URL, defaults to platform.api_url")
	rootCmd.AddCommand(jobCmd)
}
