//go:build wireinject
// +build wireinject

package wire

import (
	"vmxsphere/internal/handler"
	"vmxsphere/internal/job"
	"vmxsphere/internal/metrics"
	"vmxsphere/internal/repository"
	"vmxsphere/internal/router"
	"vmxsphere/internal/server"
	"vmxsphere/internal/service"
	"vmxsphere/pkg/app"
	"vmxsphere/pkg/jwt"
	"vmxsphere/pkg/log"
	"vmxsphere/pkg/server/http"
	"vmxsphere/pkg/sid"

	"github.com/google/wire"
	"github.com/spf13/viper"
)

var repositorySet = wire.NewSet(
	repository.NewDB,
	repository.NewRedis,
	repository.NewMongo,
	repository.NewRepository,
	repository.NewTransaction,
	repository.NewUserRepository,
	repository.NewVMRepository,
	repository.NewPortMappingRepository,
	repository.NewAuditLogRepository,
	repository.NewTaskEventRepository,
)

var serviceSet = wire.NewSet(
	service.NewService,
	service.NewHostControl,
	service.NewNetworkReserver,
	service.NewNotifier,
	service.NewUserService,
	service.NewVMService,
	service.NewReinstallService,
	service.NewNotificationService,
	service.NewAuditService,
	service.NewPortMappingService,
	service.NewDashboardService,
)

var handlerSet = wire.NewSet(
	handler.NewHandler,
	handler.NewUserHandler,
	handler.NewVMHandler,
	handler.NewPortMappingHandler,
	handler.NewAuditHandler,
	handler.NewDashboardHandler,
)

var jobSet = wire.NewSet(
	job.NewJob,
	job.NewLeaseJob,
	job.NewTaskRecoveryJob,
)
var serverSet = wire.NewSet(
	server.NewHTTPServer,
	server.NewJobServer,
)

// build App
func newApp(
	httpServer *http.Server,
	jobServer *server.JobServer,
) *app.App {
	return app.NewApp(
		app.WithServer(httpServer, jobServer),
		app.WithName("vmxsphere-server"),
	)
}

func NewWire(*viper.Viper, *log.Logger) (*app.App, func(), error) {
	panic(wire.Build(
		repositorySet,
		serviceSet,
		handlerSet,
		jobSet,
		serverSet,
		metrics.NewMetrics,
		wire.Struct(new(router.RouterDeps), "*"),
		sid.NewSid,
		jwt.NewJwt,
		newApp,
	))
}
