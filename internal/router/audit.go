package router

import (
	"vmxsphere/internal/middleware"

	"github.com/gin-gonic/gin"
)

func InitAuditRouter(
	deps RouterDeps,
	r *gin.RouterGroup,
) {
	strictAuthRouter := r.Group("/audit-logs").Use(middleware.StrictAuth(deps.JWT, deps.Logger))
	{
		strictAuthRouter.GET("", deps.AuditHandler.ListAuditLogs)
	}
}
