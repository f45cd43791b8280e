package router

import (
	"vmxsphere/internal/middleware"

	"github.com/gin-gonic/gin"
)

// InitDashboardRouter 配置 Dashboard 路由
func InitDashboardRouter(
	deps RouterDeps,
	r *gin.RouterGroup,
) {
	// Dashboard 路由组，使用严格鉴权
	dashboardRouter := r.Group("/dashboard").Use(middleware.StrictAuth(deps.JWT, deps.Logger))
	{
		// 获取全局概览
		dashboardRouter.GET("/overview", deps.DashboardHandler.GetOverview)

		// 获取最近重装任务
		dashboardRouter.GET("/tasks", deps.DashboardHandler.GetRecentTasks)
	}
}
