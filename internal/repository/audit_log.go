package repository

import (
	"context"

	"vmxsphere/internal/model"
)

type AuditLogRepository interface {
	Create(ctx context.Context, entry *model.AuditLog) error
	ListWithPagination(ctx context.Context, page, pageSize int, userID, action, target string) ([]*model.AuditLog, int64, error)
}

func NewAuditLogRepository(r *Repository) AuditLogRepository {
	return &auditLogRepository{Repository: r}
}

type auditLogRepository struct {
	*Repository
}

func (r *auditLogRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	return r.DB(ctx).Create(entry).Error
}

func (r *auditLogRepository) ListWithPagination(ctx context.Context, page, pageSize int, userID, action, target string) ([]*model.AuditLog, int64, error) {
	var entries []*model.AuditLog
	var total int64

	query := r.DB(ctx).Model(&model.AuditLog{})

	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if action != "" {
		query = query.Where("action = ?", action)
	}
	if target != "" {
		query = query.Where("target LIKE ?", "%"+target+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Offset(offset).Limit(pageSize).Order("id DESC").Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
