package main

import (
	"context"
	"fmt"
	"os"

	"atlas/internal/queue"
	"atlas/pkg/config"
	"atlas/pkg/log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	confPath string
	actor    string

	conf   *viper.Viper
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:           "atlasctl",
	Short:         "Atlas operator CLI",
	Long:          `Submit jobs and trigger sweepers on the Atlas task queue.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		conf = config.NewConfig(confPath)
		logger = log.NewLog(conf)
		if conf.GetString("queue.driver") == "local" {
			return fmt.Errorf("queue.driver=local is not reachable from another process")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&confPath, "conf", "c", "config/local.yml", "config path")
	rootCmd.PersistentFlags().StringVarP(&actor, "user", "u", os.Getenv("USER"), "actor recorded on submitted jobs")
}

// withClient 连接与 worker 相同的 broker
func withClient(fn func(ctx context.Context, client queue.Client) error) error {
	broker, cleanup, err := queue.NewBroker(conf)
	if err != nil {
		return err
	}
	defer cleanup()
	ctx := queue.ContextWithActor(context.Background(), actor)
	return fn(ctx, queue.NewClient(broker, logger))
}
