//go:build wireinject
// +build wireinject

package wire

import (
	"atlas/internal/fleet"
	"atlas/internal/handler"
	"atlas/internal/job"
	"atlas/internal/metrics"
	"atlas/internal/notify"
	"atlas/internal/orchestrator"
	"atlas/internal/provision"
	"atlas/internal/queue"
	"atlas/internal/repository"
	"atlas/internal/router"
	"atlas/internal/server"
	"atlas/internal/service"
	"atlas/pkg/app"
	"atlas/pkg/log"
	"atlas/pkg/remote"
	"atlas/pkg/server/http"
	"atlas/pkg/sid"

	"github.com/google/wire"
	"github.com/spf13/viper"
)

var repositorySet = wire.NewSet(
	repository.NewDB,
	repository.NewRepository,
	repository.NewTransaction,
	repository.NewCodeRepository,
	repository.NewInstanceRepository,
	repository.NewRouteRepository,
	repository.NewSiteRepository,
	repository.NewStatisticsRepository,
	repository.NewBackupRepository,
	repository.NewCommandRepository,
	repository.NewJobResultRepository,
)

var queueSet = wire.NewSet(
	queue.NewBroker,
	queue.NewClient,
)

var orchestratorSet = wire.NewSet(
	sid.NewSid,
	orchestrator.NewOrchestrator,
)

var serviceSet = wire.NewSet(
	service.NewService,
	service.NewCodeService,
	service.NewInstanceService,
	service.NewRouteService,
	service.NewSiteService,
	service.NewStatisticsService,
	service.NewBackupService,
	service.NewCommandService,
	service.NewOpsService,
)

var handlerSet = wire.NewSet(
	handler.NewHandler,
	handler.NewCodeHandler,
	handler.NewInstanceHandler,
	handler.NewRouteHandler,
	handler.NewSiteHandler,
	handler.NewStatisticsHandler,
	handler.NewBackupHandler,
	handler.NewCommandHandler,
	handler.NewOpsHandler,
)

// workerSet queue.driver=local 时 worker 和 API 在同一进程
var workerSet = wire.NewSet(
	remote.NewRunner,
	fleet.NewInventory,
	fleet.NewLayout,
	fleet.NewExecutor,
	provision.NewCrypterFromConfig,
	provision.NewDatabase,
	notify.NewNotifierFromConfig,
	job.NewPeers,
	job.NewJobs,
	queue.NewServer,
	server.NewWorkerServer,
	server.NewScheduler,
)

// build App
func newApp(
	httpServer *http.Server,
	relay *server.OutcomeRelay,
) *app.App {
	return app.NewApp(
		app.WithServer(httpServer, relay),
		app.WithName("atlas-server"),
	)
}

func newLocalApp(
	httpServer *http.Server,
	worker *server.WorkerServer,
	scheduler *server.Scheduler,
) *app.App {
	return app.NewApp(
		app.WithServer(httpServer, worker, scheduler),
		app.WithName("atlas-server-local"),
	)
}

func NewWire(*viper.Viper, *log.Logger) (*app.App, func(), error) {
	panic(wire.Build(
		repositorySet,
		queueSet,
		orchestratorSet,
		serviceSet,
		handlerSet,
		metrics.NewMetrics,
		notify.NewHub,
		server.NewOutcomeRelay,
		server.NewHTTPServer,
		wire.Struct(new(router.RouterDeps), "*"),
		newApp,
	))
}

func NewLocalWire(*viper.Viper, *log.Logger) (*app.App, func(), error) {
	panic(wire.Build(
		repositorySet,
		queueSet,
		orchestratorSet,
		serviceSet,
		handlerSet,
		workerSet,
		metrics.NewMetrics,
		notify.NewHub,
		server.NewHTTPServer,
		wire.Struct(new(router.RouterDeps), "*"),
		newLocalApp,
	))
}
