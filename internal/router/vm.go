package router

import (
	"vmxsphere/internal/middleware"

	"github.com/gin-gonic/gin"
)

func InitVMRouter(
	deps RouterDeps,
	r *gin.RouterGroup,
) {
	// 任务进度 WebSocket 需要同域连接，浏览器 WebSocket 无法方便地携带 Authorization header，
	// 因此这里采用 /vms/:id/task/stream 返回的短期 ws_token 鉴权，不走 StrictAuth。
	r.Group("/vms").GET("/task/ws", deps.VMHandler.TaskStreamWS)

	// Strict permission routing group
	strictAuthRouter := r.Group("/vms").Use(middleware.StrictAuth(deps.JWT, deps.Logger))
	{
		strictAuthRouter.GET("", deps.VMHandler.ListVMs)
		strictAuthRouter.POST("", deps.VMHandler.CreateVM)
		strictAuthRouter.GET("/:id", deps.VMHandler.GetVM)
		strictAuthRouter.PUT("/:id", deps.VMHandler.UpdateVM)
		strictAuthRouter.DELETE("/:id", deps.VMHandler.DeleteVM)
		// 电源操作
		strictAuthRouter.POST("/:id/start", deps.VMHandler.StartVM)
		strictAuthRouter.POST("/:id/stop", deps.VMHandler.StopVM)
		strictAuthRouter.POST("/:id/reset", deps.VMHandler.ResetVM)
		// 重装任务
		strictAuthRouter.POST("/:id/reinstall", deps.VMHandler.ReinstallVM)
		strictAuthRouter.GET("/:id/task", deps.VMHandler.GetVMTask)
		strictAuthRouter.GET("/:id/task/events", deps.VMHandler.ListTaskEvents)
		strictAuthRouter.POST("/:id/task/stream", deps.VMHandler.CreateTaskStreamToken)
		// 远程访问
		strictAuthRouter.GET("/:id/screenshot", deps.VMHandler.Screenshot)
		strictAuthRouter.GET("/:id/rdp-file", deps.VMHandler.DownloadRdpFile)
		strictAuthRouter.PUT("/:id/static-ip", deps.VMHandler.SetStaticIP)
		strictAuthRouter.PUT("/:id/vnc", deps.VMHandler.SetVNC)
		// 快照与租期
		strictAuthRouter.GET("/:id/snapshots", deps.VMHandler.ListSnapshots)
		strictAuthRouter.POST("/:id/snapshots", deps.VMHandler.CreateSnapshot)
		strictAuthRouter.POST("/:id/snapshots/revert", deps.VMHandler.RevertSnapshot)
		strictAuthRouter.DELETE("/:id/snapshots/:name", deps.VMHandler.DeleteSnapshot)
		strictAuthRouter.POST("/:id/lease/renew", deps.VMHandler.RenewLease)
	}
}
