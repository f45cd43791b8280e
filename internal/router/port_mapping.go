package router

import (
	"vmxsphere/internal/middleware"

	"github.com/gin-gonic/gin"
)

func InitPortMappingRouter(
	deps RouterDeps,
	r *gin.RouterGroup,
) {
	strictAuthRouter := r.Group("/port-mappings").Use(middleware.StrictAuth(deps.JWT, deps.Logger))
	{
		strictAuthRouter.GET("", deps.PortMappingHandler.ListPortMappings)
		strictAuthRouter.POST("", deps.PortMappingHandler.CreatePortMapping)
		strictAuthRouter.DELETE("/:id", deps.PortMappingHandler.DeletePortMapping)
	}
}
