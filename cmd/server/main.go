package main

import (
	"context"
	"flag"
	"fmt"

	"atlas/cmd/server/wire"
	"atlas/pkg/config"
	"atlas/pkg/log"

	"go.uber.org/zap"
)

// @title           Atlas API
// @version         1.0.0
// @description     Atlas orchestrates code, instances and routes across a hosting fleet.
// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html
// @host      localhost:8000
func main() {
	var envConf = flag.String("conf", "config/local.yml", "config path, eg: -conf ./config/local.yml")
	flag.Parse()
	conf := config.NewConfig(*envConf)

	logger := log.NewLog(conf)

	newWire := wire.NewWire
	if conf.GetString("queue.driver") == "local" {
		// 本地队列只在进程内可见，worker 和 scheduler 一起跑
		logger.Info("queue.driver=local, running workers in-process")
		newWire = wire.NewLocalWire
	}
	app, cleanup, err := newWire(conf, logger)
	if err != nil {
		panic(err)
	}
	defer cleanup()
	logger.Info("server start", zap.String("host", fmt.Sprintf("http://%s:%d", conf.GetString("http.host"), conf.GetInt("http.port"))))
	logger.Info("docs addr", zap.String("addr", fmt.Sprintf("http://%s:%d/swagger/index.html", conf.GetString("http.host"), conf.GetInt("http.port"))))
	if err = app.Run(context.Background()); err != nil {
		panic(err)
	}
}
