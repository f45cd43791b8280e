package router

import (
	"vmxsphere/internal/handler"
	"vmxsphere/pkg/jwt"
	"vmxsphere/pkg/log"

	"github.com/spf13/viper"
)

type RouterDeps struct {
	Logger             *log.Logger
	Config             *viper.Viper
	JWT                *jwt.JWT
	UserHandler        *handler.UserHandler
	VMHandler          *handler.VMHandler
	PortMappingHandler *handler.PortMappingHandler
	AuditHandler       *handler.AuditHandler
	DashboardHandler   *handler.DashboardHandler
}
