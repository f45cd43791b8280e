package handler

import (
	"net/http"
	"strconv"

	v1 "vmxsphere/api/v1"
	"vmxsphere/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PortMappingHandler struct {
	*Handler
	portMappingService service.PortMappingService
}

func NewPortMappingHandler(handler *Handler, portMappingService service.PortMappingService) *PortMappingHandler {
	return &PortMappingHandler{
		Handler:            handler,
		portMappingService: portMappingService,
	}
}

// CreatePortMapping godoc
// @Summary 新建端口映射（仅管理员）
// @Description 在宿主机 NAT 上加一条 宿主机端口→客户机IP:端口 的转发，要求虚拟机已有固定内网 IP
// @Tags 端口映射模块
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body v1.CreatePortMappingRequest true "params"
// @Success 200 {object} v1.Response
// @Router /api/v1/port-mappings [post]
func (h *PortMappingHandler) CreatePortMapping(ctx *gin.Context) {
	req := new(v1.CreatePortMappingRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	if err := h.portMappingService.CreatePortMapping(ctx, GetUserIdFromCtx(ctx), req); err != nil {
		h.logger.WithContext(ctx).Error("portMappingService.CreatePortMapping error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}

	v1.HandleSuccess(ctx, nil)
}

// DeletePortMapping godoc
// @Summary 删除端口映射（仅管理员）
// @Tags 端口映射模块
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "映射ID"
// @Success 200 {object} v1.Response
// @Router /api/v1/port-mappings/{id} [delete]
func (h *PortMappingHandler) DeletePortMapping(ctx *gin.Context) {
	idStr := ctx.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	if err := h.portMappingService.DeletePortMapping(ctx, GetUserIdFromCtx(ctx), id); err != nil {
		h.logger.WithContext(ctx).Error("portMappingService.DeletePortMapping error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}

	v1.HandleSuccess(ctx, nil)
}

// ListPortMappings godoc
// @Summary 端口映射列表
// @Description vm_id 不传时列出全部（仅管理员）；传 vm_id 时租户可以查自己的虚拟机
// @Tags 端口映射模块
// @Accept json
// @Produce json
// @Security Bearer
// @Param vm_id query int false "虚拟机ID"
// @Success 200 {object} v1.ListPortMappingResponse
// @Router /api/v1/port-mappings [get]
func (h *PortMappingHandler) ListPortMappings(ctx *gin.Context) {
	req := new(v1.ListPortMappingRequest)
	if err := ctx.ShouldBindQuery(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	data, err := h.portMappingService.ListPortMappings(ctx, GetUserIdFromCtx(ctx), req)
	if err != nil {
		h.logger.WithContext(ctx).Error("portMappingService.ListPortMappings error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}

	v1.HandleSuccess(ctx, data)
}
