//go:build wireinject
// +build wireinject

package wire

import (
	"atlas/internal/fleet"
	"atlas/internal/job"
	"atlas/internal/metrics"
	"atlas/internal/notify"
	"atlas/internal/orchestrator"
	"atlas/internal/provision"
	"atlas/internal/queue"
	"atlas/internal/repository"
	"atlas/internal/server"
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

var fleetSet = wire.NewSet(
	remote.NewRunner,
	fleet.NewInventory,
	fleet.NewLayout,
	fleet.NewExecutor,
)

var jobSet = wire.NewSet(
	provision.NewCrypterFromConfig,
	provision.NewDatabase,
	notify.NewHub,
	notify.NewNotifierFromConfig,
	job.NewPeers,
	job.NewJobs,
)

var serverSet = wire.NewSet(
	queue.NewServer,
	server.NewWorkerServer,
	server.NewScheduler,
	server.NewWorkerHTTPServer,
)

// build App
func newApp(
	worker *server.WorkerServer,
	scheduler *server.Scheduler,
	httpServer *http.Server,
) *app.App {
	return app.NewApp(
		app.WithServer(worker, scheduler, httpServer),
		app.WithName("atlas-worker"),
	)
}

func NewWire(*viper.Viper, *log.Logger) (*app.App, func(), error) {
	panic(wire.Build(
		repositorySet,
		queue.NewBroker,
		queue.NewClient,
		sid.NewSid,
		orchestrator.NewOrchestrator,
		metrics.NewMetrics,
		fleetSet,
		jobSet,
		serverSet,
		newApp,
	))
}
