package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	v1 "vmxsphere/api/v1"
	"vmxsphere/internal/model"
	"vmxsphere/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type VMHandler struct {
	*Handler
	vmService        service.VMService
	reinstallService service.ReinstallService
}

func NewVMHandler(handler *Handler, vmService service.VMService, reinstallService service.ReinstallService) *VMHandler {
	return &VMHandler{
		Handler:          handler,
		vmService:        vmService,
		reinstallService: reinstallService,
	}
}

// CreateVM godoc
// @Summary 登记虚拟机（仅管理员）
// @Description 虚拟机本体必须已存在于宿主机上，这里登记 .vmx 路径并绑定租户
// @Tags 虚拟机模块
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body v1.CreateVMRequest true "params"
// @Success 200 {object} v1.Response
// @Router /api/v1/vms [post]
func (h *VMHandler) CreateVM(ctx *gin.Context) {
	req := new(v1.CreateVMRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	if err := h.vmService.CreateVM(ctx, GetUserIdFromCtx(ctx), req); err != nil {
		h.logger.WithContext(ctx).Error("vmService.CreateVM error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}

	v1.HandleSuccess(ctx, nil)
}

// ListVMs godoc
// @Summary 虚拟机列表
// @Description 租户只能看到自己名下的虚拟机，管理员可见全部并可按租户过滤
// @Tags 虚拟机模块
// @Accept json
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param owner_id query string false "按租户过滤（仅管理员）"
// @Param power_state query string false "running / stopped / unknown"
// @Param task_state query string false "idle / running"
// @Param keyword query string false "名称模糊匹配"
// @Success 200 {object} v1.ListVMResponse
// @Router /api/v1/vms [get]
func (h *VMHandler) ListVMs(ctx *gin.Context) {
	req := new(v1.ListVMRequest)
	if err := ctx.ShouldBindQuery(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	data, err := h.vmService.ListVMs(ctx, GetUserIdFromCtx(ctx), req)
	if err != nil {
		h.logger.WithContext(ctx).Error("vmService.ListVMs error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}

	v1.HandleSuccess(ctx, data)
}

// GetVM godoc
// @Summary 虚拟机详情
// @Tags 虚拟机模块
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "虚拟机ID"
// @Success 200 {object} v1.GetVMResponse
// @Router /api/v1/vms/{id} [get]
func (h *VMHandler) GetVM(ctx *gin.Context) {
	idStr := ctx.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	vm, err := h.vmService.GetVM(ctx, GetUserIdFromCtx(ctx), id)
	if err != nil {
		h.logger.WithContext(ctx).Error("vmService.GetVM error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}

	v1.HandleSuccess(ctx, vm)
}

// UpdateVM godoc
// @Summary 更新虚拟机（仅管理员）
// @Description 修改 CPU/内存需要虚拟机处于关机状态
// @Tags 虚拟机模块
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "虚拟机ID"
// @Param request body v1.UpdateVMRequest true "params"
// @Success 200 {object} v1.Response
// @Router /api/v1/vms/{id} [put]
func (h *VMHandler) UpdateVM(ctx *gin.Context) {
	idStr := ctx.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	req := new(v1.UpdateVMRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	if err := h.vmService.UpdateVM(ctx, GetUserIdFromCtx(ctx), id, req); err != nil {
		h.logger.WithContext(ctx).Error("vmService.UpdateVM error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}

	v1.HandleSuccess(ctx, nil)
}

// DeleteVM godoc
// @Summary 注销虚拟机（仅管理员）
// @Description 只删除登记记录和端口映射，不动宿主机上的虚拟机文件
// @Tags 虚拟机模块
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "虚拟机ID"
// @Success 200 {object} v1.Response
// @Router /api/v1/vms/{id} [delete]
func (h *VMHandler) DeleteVM(ctx *gin.Context) {
	idStr := ctx.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	if err := h.vmService.DeleteVM(ctx, GetUserIdFromCtx(ctx), id); err != nil {
		h.logger.WithContext(ctx).Error("vmService.DeleteVM error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}

	v1.HandleSuccess(ctx, nil)
}

// StartVM godoc
// @Summary 开机
// @Tags 虚拟机模块
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "虚拟机ID"
// @Success 200 {object} v1.Response
// @Router /api/v1/vms/{id}/start [post]
func (h *VMHandler) StartVM(ctx *gin.Context) {
	idStr := ctx.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	if err := h.vmService.StartVM(ctx, GetUserIdFromCtx(ctx), id); err != nil {
		h.logger.WithContext(ctx).Error("vmService.StartVM error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}

	v1.HandleSuccess(ctx, nil)
}

// StopVM godoc
// @Summary 关机
// @Description hard=true 强制断电，否则请求客户机软关机
// @Tags 虚拟机模块
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "虚拟机ID"
// @Param request body v1.StopVMRequest false "params"
// @Success 200 {object} v1.Response
// @Router /api/v1/vms/{id}/stop [post]
func (h *VMHandler) StopVM(ctx *gin.Context) {
	idStr := ctx.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	// body 可以为空，等价于软关机
	req := new(v1.StopVMRequest)
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(req); err != nil {
			v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
			return
		}
	}

	if err := h.vmService.StopVM(ctx, GetUserIdFromCtx(ctx), id, req.Hard); err != nil {
		h.logger.WithContext(ctx).Error("vmService.StopVM error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}

	v1.HandleSuccess(ctx, nil)
}

// ResetVM godoc
// @Summary 重启
// @Tags 虚拟机模块
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "虚拟机ID"
// @Param request body v1.ResetVMRequest false "params"
// @Success 200 {object} v1.Response
// @Router /api/v1/vms/{id}/reset [post]
func (h *VMHandler) ResetVM(ctx *gin.Context) {
	idStr := ctx.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	req := new(v1.ResetVMRequest)
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(req); err != nil {
			v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
			return
		}
	}

	if err := h.vmService.ResetVM(ctx, GetUserIdFromCtx(ctx), id, req.Hard); err != nil {
		h.logger.WithContext(ctx).Error("vmService.ResetVM error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}

	v1.HandleSuccess(ctx, nil)
}

// ReinstallVM godoc
// @Summary 触发重装
// @Description 异步任务：回滚基线快照（快照丢失时从模板重建），然后重新配置远程访问。调用方轮询 /task 或走 WebSocket 订阅进度
// @Tags 虚拟机模块
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "虚拟机ID"
// @Success 200 {object} v1.ReinstallVMResponse
// @Router /api/v1/vms/{id}/reinstall [post]
func (h *VMHandler) ReinstallVM(ctx *gin.Context) {
	idStr := ctx.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	data, err := h.reinstallService.Begin(ctx, GetUserIdFromCtx(ctx), id)
	if err != nil {
		h.logger.WithContext(ctx).Error("reinstallService.Begin error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}

	v1.HandleSuccess(ctx, data)
}

// GetVMTask godoc
// @Summary 任务状态轮询
// @Tags 虚拟机模块
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "虚拟机ID"
// @Success 200 {object} v1.GetVMTaskResponse
// @Router /api/v1/vms/{id}/task [get]
func (h *VMHandler) GetVMTask(ctx *gin.Context) {
	idStr := ctx.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	data, err := h.vmService.GetVMTask(ctx, GetUserIdFromCtx(ctx), id)
	if err != nil {
		h.logger.WithContext(ctx).Error("vmService.GetVMTask error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}

	v1.HandleSuccess(ctx, data)
}

// ListTaskEvents godoc
// @Summary 任务事件流水
// @Description 最近一次（或历史）重装的阶段事件，倒序
// @Tags 虚拟机模块
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "虚拟机ID"
// @Param limit query int false "最近 N 条，默认 50"
// @Success 200 {object} v1.ListTaskEventsResponse
// @Router /api/v1/vms/{id}/task/events [get]
func (h *VMHandler) ListTaskEvents(ctx *gin.Context) {
	idStr := ctx.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	req := new(v1.ListTaskEventsRequest)
	if err := ctx.ShouldBindQuery(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	data, err := h.vmService.ListTaskEvents(ctx, GetUserIdFromCtx(ctx), id, req.Limit)
	if err != nil {
		h.logger.WithContext(ctx).Error("vmService.ListTaskEvents error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}

	v1.HandleSuccess(ctx, data)
}

// CreateTaskStreamToken godoc
// @Summary 获取任务进度 WebSocket 一次性令牌
// @Description 浏览器 WebSocket 无法携带 Authorization header，先在这里换一个短期令牌再连 /vms/task/ws
// @Tags 虚拟机模块
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "虚拟机ID"
// @Success 200 {object} v1.GetTaskStreamTokenResponse
// @Router /api/v1/vms/{id}/task/stream [post]
func (h *VMHandler) CreateTaskStreamToken(ctx *gin.Context) {
	idStr := ctx.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	data, err := h.vmService.CreateTaskStreamToken(ctx, GetUserIdFromCtx(ctx), id)
	if err != nil {
		h.logger.WithContext(ctx).Error("vmService.CreateTaskStreamToken error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}

	v1.HandleSuccess(ctx, data)
}

// TaskStreamWS godoc
// @Summary 任务进度 WebSocket 推送
// @Description 使用 /task/stream 返回的一次性令牌鉴权，按秒推送任务状态，任务回到 idle 后推最后一帧并关闭
// @Tags 虚拟机模块
// @Param token query string true "一次性令牌"
// @Router /api/v1/vms/task/ws [get]
func (h *VMHandler) TaskStreamWS(ctx *gin.Context) {
	token := ctx.Query("token")
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	vmID, err := h.vmService.ResolveTaskStreamToken(token)
	if err != nil {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "invalid stream token"))
		return
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		status, err := h.vmService.WatchTask(ctx, vmID)
		if err != nil {
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "task status unavailable"))
			return
		}
		if err := conn.WriteJSON(status); err != nil {
			return
		}
		// 任务结束后推完最后一帧即收尾
		if status.TaskState == model.VMTaskStateIdle {
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "task finished"))
			return
		}

		select {
		case <-ticker.C:
		case <-ctx.Request.Context().Done():
			return
		}
	}
}

// Screenshot godoc
// @Summary 屏幕截图
// @Description 抓取当前客户机画面，要求虚拟机在运行
// @Tags 虚拟机模块
// @Produce png
// @Security Bearer
// @Param id path int true "虚拟机ID"
// @Success 200 {file} binary
// @Router /api/v1/vms/{id}/screenshot [get]
func (h *VMHandler) Screenshot(ctx *gin.Context) {
	idStr := ctx.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	png, err := h.vmService.CaptureScreen(ctx, GetUserIdFromCtx(ctx), id)
	if err != nil {
		h.logger.WithContext(ctx).Error("vmService.CaptureScreen error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}

	ctx.Data(http.StatusOK, "image/png", png)
}

// DownloadRdpFile godoc
// @Summary 下载 .rdp 连接文件
// @Description 按虚拟机当前的访问地址（端口映射优先）生成 mstsc 可直接打开的 .rdp 文件
// @Tags 虚拟机模块
// @Produce octet-stream
// @Security Bearer
// @Param id path int true "虚拟机ID"
// @Success 200 {file} binary
// @Router /api/v1/vms/{id}/rdp-file [get]
func (h *VMHandler) DownloadRdpFile(ctx *gin.Context) {
	idStr := ctx.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	filename, content, err := h.vmService.BuildRdpFile(ctx, GetUserIdFromCtx(ctx), id)
	if err != nil {
		h.logger.WithContext(ctx).Error("vmService.BuildRdpFile error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Data(http.StatusOK, "application/octet-stream", content)
}

// SetStaticIP godoc
// @Summary 设置固定内网 IP
// @Description 在 NAT 服务上登记 MAC→IP 保留；虚拟机在运行时同步把客户机网卡切到静态地址
// @Tags 虚拟机模块
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "虚拟机ID"
// @Param request body v1.SetStaticIPRequest true "params"
// @Success 200 {object} v1.Response
// @Router /api/v1/vms/{id}/static-ip [put]
func (h *VMHandler) SetStaticIP(ctx *gin.Context) {
	idStr := ctx.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	req := new(v1.SetStaticIPRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	if err := h.vmService.SetStaticIP(ctx, GetUserIdFromCtx(ctx), id, req); err != nil {
		h.logger.WithContext(ctx).Error("vmService.SetStaticIP error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}

	v1.HandleSuccess(ctx, nil)
}

// SetVNC godoc
// @Summary 配置内建 VNC
// @Description 改写 .vmx 的 RemoteDisplay 配置，要求虚拟机处于关机状态
// @Tags 虚拟机模块
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "虚拟机ID"
// @Param request body v1.SetVNCRequest true "params"
// @Success 200 {object} v1.Response
// @Router /api/v1/vms/{id}/vnc [put]
func (h *VMHandler) SetVNC(ctx *gin.Context) {
	idStr := ctx.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	req := new(v1.SetVNCRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	if err := h.vmService.SetVNC(ctx, GetUserIdFromCtx(ctx), id, req); err != nil {
		h.logger.WithContext(ctx).Error("vmService.SetVNC error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}

	v1.HandleSuccess(ctx, nil)
}

// ListSnapshots godoc
// @Summary 快照列表
// @Tags 虚拟机模块
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "虚拟机ID"
// @Success 200 {object} v1.ListSnapshotsResponse
// @Router /api/v1/vms/{id}/snapshots [get]
func (h *VMHandler) ListSnapshots(ctx *gin.Context) {
	idStr := ctx.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	data, err := h.vmService.ListVMSnapshots(ctx, GetUserIdFromCtx(ctx), id)
	if err != nil {
		h.logger.WithContext(ctx).Error("vmService.ListVMSnapshots error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}

	v1.HandleSuccess(ctx, data)
}

// CreateSnapshot godoc
// @Summary 创建快照
// @Tags 虚拟机模块
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "虚拟机ID"
// @Param request body v1.CreateSnapshotRequest true "params"
// @Success 200 {object} v1.Response
// @Router /api/v1/vms/{id}/snapshots [post]
func (h *VMHandler) CreateSnapshot(ctx *gin.Context) {
	idStr := ctx.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	req := new(v1.CreateSnapshotRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	if err := h.vmService.CreateVMSnapshot(ctx, GetUserIdFromCtx(ctx), id, req); err != nil {
		h.logger.WithContext(ctx).Error("vmService.CreateVMSnapshot error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}

	v1.HandleSuccess(ctx, nil)
}

// RevertSnapshot godoc
// @Summary 回滚到快照
// @Description 回滚会丢弃快照之后的所有磁盘变更
// @Tags 虚拟机模块
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "虚拟机ID"
// @Param request body v1.RevertSnapshotRequest true "params"
// @Success 200 {object} v1.Response
// @Router /api/v1/vms/{id}/snapshots/revert [post]
func (h *VMHandler) RevertSnapshot(ctx *gin.Context) {
	idStr := ctx.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	req := new(v1.RevertSnapshotRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	if err := h.vmService.RevertVMSnapshot(ctx, GetUserIdFromCtx(ctx), id, req); err != nil {
		h.logger.WithContext(ctx).Error("vmService.RevertVMSnapshot error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}

	v1.HandleSuccess(ctx, nil)
}

// DeleteSnapshot godoc
// @Summary 删除快照
// @Description 基线快照不允许删除
// @Tags 虚拟机模块
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "虚拟机ID"
// @Param name path string true "快照名"
// @Success 200 {object} v1.Response
// @Router /api/v1/vms/{id}/snapshots/{name} [delete]
func (h *VMHandler) DeleteSnapshot(ctx *gin.Context) {
	idStr := ctx.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}
	name := ctx.Param("name")
	if name == "" {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	if err := h.vmService.DeleteVMSnapshot(ctx, GetUserIdFromCtx(ctx), id, name); err != nil {
		h.logger.WithContext(ctx).Error("vmService.DeleteVMSnapshot error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}

	v1.HandleSuccess(ctx, nil)
}

// RenewLease godoc
// @Summary 续租（仅管理员）
// @Description 直接指定到期时间，或在当前基础上顺延天数
// @Tags 虚拟机模块
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "虚拟机ID"
// @Param request body v1.RenewLeaseRequest true "params"
// @Success 200 {object} v1.Response
// @Router /api/v1/vms/{id}/lease/renew [post]
func (h *VMHandler) RenewLease(ctx *gin.Context) {
	idStr := ctx.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	req := new(v1.RenewLeaseRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	if err := h.vmService.RenewLease(ctx, GetUserIdFromCtx(ctx), id, req); err != nil {
		h.logger.WithContext(ctx).Error("vmService.RenewLease error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}

	v1.HandleSuccess(ctx, nil)
}
