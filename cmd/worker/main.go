package main

import (
	"context"
	"flag"

	"atlas/cmd/worker/wire"
	"atlas/pkg/config"
	"atlas/pkg/log"

	"go.uber.org/zap"
)

func main() {
	var envConf = flag.String("conf", "config/local.yml", "config path, eg: -conf ./config/local.yml")
	flag.Parse()
	conf := config.NewConfig(*envConf)

	logger := log.NewLog(conf)
	if conf.GetString("queue.driver") == "local" {
		logger.Warn("queue.driver=local is only visible in-process, use cmd/server instead")
	}

	app, cleanup, err := wire.NewWire(conf, logger)
	if err != nil {
		panic(err)
	}
	defer cleanup()
	logger.Info("worker start", zap.String("env", conf.GetString("env")))
	if err = app.Run(context.Background()); err != nil {
		panic(err)
	}
}
