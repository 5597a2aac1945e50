//go:build wireinject
// +build wireinject

package wire

import (
	"atlas/internal/repository"
	"atlas/internal/server"
	"atlas/pkg/app"
	"atlas/pkg/log"

	"github.com/google/wire"
	"github.com/spf13/viper"
)

var serverSet = wire.NewSet(
	server.NewMigrateServer,
)

// build App
func newApp(
	migrateServer *server.MigrateServer,
) *app.App {
	return app.NewApp(
		app.WithServer(migrateServer),
		app.WithName("atlas-migrate"),
	)
}

func NewWire(*viper.Viper, *log.Logger) (*app.App, func(), error) {
	panic(wire.Build(
		repository.NewDB,
		serverSet,
		newApp,
	))
}
