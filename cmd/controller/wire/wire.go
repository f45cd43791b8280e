//go:build wireinject
// +build wireinject

package wire

import (
	"time"

	"vmxsphere/internal/controller"
	"vmxsphere/internal/repository"
	"vmxsphere/internal/server"
	"vmxsphere/pkg/app"
	"vmxsphere/pkg/log"

	"github.com/google/wire"
	"github.com/spf13/viper"
)

var repositorySet = wire.NewSet(
	repository.NewDB,
	repository.NewRedis,
	repository.NewRepository,
	repository.NewTransaction,
	repository.NewVMRepository,
)

var controllerSet = wire.NewSet(
	controller.NewHostController,
)

var serverSet = wire.NewSet(
	server.NewControllerServer,
)

func newApp(
	controllerServer *server.ControllerServer,
) *app.App {
	return app.NewApp(
		app.WithServer(controllerServer),
		app.WithName("vmxsphere-controller"),
	)
}

func NewWire(*viper.Viper, *log.Logger) (*app.App, func(), error) {
	panic(wire.Build(
		repositorySet,
		controllerSet,
		serverSet,
		newApp,
		wire.Value(time.Minute*5), // resyncPeriod
	))
}
