package router

import (
	"atlas/internal/handler"
	"atlas/internal/metrics"
	"atlas/pkg/log"

	"github.com/spf13/viper"
)

type RouterDeps struct {
	Logger            *log.Logger
	Config            *viper.Viper
	Metrics           *metrics.Metrics
	CodeHandler       *handler.CodeHandler
	InstanceHandler   *handler.InstanceHandler
	RouteHandler      *handler.RouteHandler
	SiteHandler       *handler.SiteHandler
	StatisticsHandler *handler.StatisticsHandler
	BackupHandler     *handler.BackupHandler
	CommandHandler    *handler.CommandHandler
	OpsHandler        *handler.OpsHandler
}
