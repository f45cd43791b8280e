package handler

import (
	"net/http"
	"strconv"

	v1 "vmxsphere/api/v1"
	"vmxsphere/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	*Handler
	dashboardService service.DashboardService
}

func NewDashboardHandler(handler *Handler, dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		Handler:          handler,
		dashboardService: dashboardService,
	}
}

// GetOverview godoc
// @Summary 全局概览（仅管理员）
// @Description 虚拟机/租户/端口映射计数、租期预警、宿主机可达性及脱管虚拟机数量
// @Tags Dashboard模块
// @Accept json
// @Produce json
// @Security Bearer
// @Success 200 {object} v1.DashboardOverviewResponse
// @Router /api/v1/dashboard/overview [get]
func (h *DashboardHandler) GetOverview(ctx *gin.Context) {
	data, err := h.dashboardService.GetOverview(ctx, GetUserIdFromCtx(ctx))
	if err != nil {
		h.logger.WithContext(ctx).Error("dashboardService.GetOverview error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}

	v1.HandleSuccess(ctx, data)
}

// GetRecentTasks godoc
// @Summary 最近重装任务（仅管理员）
// @Tags Dashboard模块
// @Accept json
// @Produce json
// @Security Bearer
// @Param limit query int false "最近 N 条，默认 10，最大 50"
// @Success 200 {object} v1.DashboardTasksResponse
// @Router /api/v1/dashboard/tasks [get]
func (h *DashboardHandler) GetRecentTasks(ctx *gin.Context) {
	limit := int64(0)
	if limitStr := ctx.Query("limit"); limitStr != "" {
		n, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil {
			v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
			return
		}
		limit = n
	}

	data, err := h.dashboardService.GetRecentTasks(ctx, GetUserIdFromCtx(ctx), limit)
	if err != nil {
		h.logger.WithContext(ctx).Error("dashboardService.GetRecentTasks error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}

	v1.HandleSuccess(ctx, data)
}
