package service

import (
	"context"

	v1 "vmxsphere/api/v1"
	"vmxsphere/internal/model"
	"vmxsphere/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuditService 面板操作审计。Record 只追加、尽力而为，
// 审计写入失败绝不影响业务操作本身。
type AuditService interface {
	Record(ctx context.Context, userId, action, target, detail string)
	ListAuditLogs(ctx context.Context, userId string, req *v1.ListAuditLogRequest) (*v1.ListAuditLogData, error)
}

func NewAuditService(
	service *Service,
	auditRepo repository.AuditLogRepository,
	userRepo repository.UserRepository,
) AuditService {
	return &auditService{
		Service:   service,
		auditRepo: auditRepo,
		userRepo:  userRepo,
	}
}

type auditService struct {
	*Service
	auditRepo repository.AuditLogRepository
	userRepo  repository.UserRepository
}

func (s *auditService) Record(ctx context.Context, userId, action, target, detail string) {
	entry := &model.AuditLog{
		UserID:   userId,
		Action:   action,
		Target:   target,
		Detail:   detail,
		ClientIP: clientIP(ctx),
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.logger.WithContext(ctx).Warn("audit: write entry failed",
			zap.String("action", action),
			zap.String("target", target),
			zap.Error(err),
		)
	}
}

func (s *auditService) ListAuditLogs(ctx context.Context, userId string, req *v1.ListAuditLogRequest) (*v1.ListAuditLogData, error) {
	// 审计日志只对管理员开放
	caller, err := s.userRepo.GetByID(ctx, userId)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to get user", zap.Error(err), zap.String("user_id", userId))
		return nil, v1.ErrInternalServerError
	}
	if caller == nil {
		return nil, v1.ErrUnauthorized
	}
	if !caller.IsAdmin {
		return nil, v1.ErrForbidden
	}

	page := req.Page
	if page <= 0 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	entries, total, err := s.auditRepo.ListWithPagination(ctx, page, pageSize, req.UserID, req.Action, req.Target)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to list audit logs", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}

	// 补充操作人用户名用于显示
	userIds := make([]string, 0, len(entries))
	seen := make(map[string]struct{})
	for _, e := range entries {
		if e.UserID == "" {
			continue
		}
		if _, ok := seen[e.UserID]; ok {
			continue
		}
		seen[e.UserID] = struct{}{}
		userIds = append(userIds, e.UserID)
	}
	names := make(map[string]string)
	if len(userIds) > 0 {
		users, err := s.userRepo.GetByIDs(ctx, userIds)
		if err != nil {
			s.logger.WithContext(ctx).Warn("audit: load usernames failed", zap.Error(err))
		}
		for _, u := range users {
			names[u.UserId] = u.Username
		}
	}

	items := make([]v1.AuditLogItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, v1.AuditLogItem{
			Id:         e.Id,
			UserID:     e.UserID,
			Username:   names[e.UserID],
			Action:     e.Action,
			Target:     e.Target,
			Detail:     e.Detail,
			ClientIP:   e.ClientIP,
			CreateTime: e.CreateTime,
		})
	}

	return &v1.ListAuditLogData{
		Total: total,
		List:  items,
	}, nil
}

// clientIP 从 gin 请求上下文提取来源地址；后台任务等非 HTTP 上下文返回空串
func clientIP(ctx context.Context) string {
	if gctx, ok := ctx.(*gin.Context); ok {
		return gctx.ClientIP()
	}
	return ""
}
