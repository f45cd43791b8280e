package handler

import (
	"net/http"

	v1 "vmxsphere/api/v1"
	"vmxsphere/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuditHandler struct {
	*Handler
	auditService service.AuditService
}

func NewAuditHandler(handler *Handler, auditService service.AuditService) *AuditHandler {
	return &AuditHandler{
		Handler:      handler,
		auditService: auditService,
	}
}

// ListAuditLogs godoc
// @Summary 操作审计日志（仅管理员）
// @Tags 审计模块
// @Accept json
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param user_id query string false "按操作人过滤"
// @Param action query string false "按动作过滤，如 vm.reinstall"
// @Param target query string false "按目标过滤，如虚拟机名"
// @Success 200 {object} v1.ListAuditLogResponse
// @Router /api/v1/audit-logs [get]
func (h *AuditHandler) ListAuditLogs(ctx *gin.Context) {
	req := new(v1.ListAuditLogRequest)
	if err := ctx.ShouldBindQuery(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	data, err := h.auditService.ListAuditLogs(ctx, GetUserIdFromCtx(ctx), req)
	if err != nil {
		h.logger.WithContext(ctx).Error("auditService.ListAuditLogs error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}

	v1.HandleSuccess(ctx, data)
}
