package v1

import "time"

// 操作审计相关 API 定义

// ListAuditLogRequest 审计日志查询请求（仅管理员）
type ListAuditLogRequest struct {
	Page     int    `form:"page" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,max=100" example:"20"`
	UserID   string `form:"user_id" example:"usr-9f2kQ"`
	Action   string `form:"action" example:"vm.reinstall"`
	Target   string `form:"target" example:"ws-0042"`
}

// ListAuditLogResponse 审计日志查询响应
type ListAuditLogResponse struct {
	Response
	Data ListAuditLogData
}

type ListAuditLogData struct {
	Total int64          `json:"total"`
	List  []AuditLogItem `json:"list"`
}

type AuditLogItem struct {
	Id         int64     `json:"id"`
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"` // 冗余字段，用于显示
	Action     string    `json:"action" example:"vm.stop"`
	Target     string    `json:"target" example:"ws-0042"`
	Detail     string    `json:"detail"`
	ClientIP   string    `json:"client_ip"`
	CreateTime time.Time `json:"create_time"`
}
