package server

import (
	"context"

	"atlas/internal/notify"
	"atlas/pkg/log"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// OutcomeRelay worker 独立部署时，把 NATS 上的 outcome 转发给本进程的 websocket 客户端
type OutcomeRelay struct {
	url    string
	logger *log.Logger
	hub    *notify.Hub
	stop   func()
}

func NewOutcomeRelay(conf *viper.Viper, logger *log.Logger, hub *notify.Hub) *OutcomeRelay {
	return &OutcomeRelay{
		url:    conf.GetString("notify.nats.url"),
		logger: logger,
		hub:    hub,
	}
}

func (r *OutcomeRelay) Start(ctx context.Context) error {
	if r.url == "" {
		r.logger.Info("outcome relay disabled, notify.nats.url not set")
		<-ctx.Done()
		return nil
	}
	stop, err := notify.RelayToHub(r.url, r.logger, r.hub)
	if err != nil {
		// 只影响 /outcomes/ws 推送，不阻止 API 启动
		r.logger.Warn("outcome relay unavailable", zap.Error(err))
		<-ctx.Done()
		return nil
	}
	r.stop = stop
	<-ctx.Done()
	return nil
}

func (r *OutcomeRelay) Stop(ctx context.Context) error {
	if r.stop != nil {
		r.stop()
	}
	return nil
}
