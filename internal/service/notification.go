package service

import (
	"context"

	"vmxsphere/internal/repository"
	"vmxsphere/pkg/notify"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// NotificationService 负责把任务和租约事件推送到 webhook。
// 公开频道走生命周期通知，私有频道走含凭据/错误的敏感通知。
type NotificationService interface {
	NotifyPublic(ctx context.Context, ownerID string, event notify.Event)
	NotifyPrivate(ctx context.Context, ownerID string, event notify.Event)
}

func NewNotificationService(
	service *Service,
	conf *viper.Viper,
	notifier Notifier,
	userRepo repository.UserRepository,
) NotificationService {
	return &notificationService{
		Service:  service,
		conf:     conf,
		notifier: notifier,
		userRepo: userRepo,
	}
}

type notificationService struct {
	*Service
	conf     *viper.Viper
	notifier Notifier
	userRepo repository.UserRepository
}

func (s *notificationService) NotifyPublic(ctx context.Context, ownerID string, event notify.Event) {
	urls := s.resolveWebhooks(ctx, ownerID, false)
	s.post(ctx, urls, event)
}

func (s *notificationService) NotifyPrivate(ctx context.Context, ownerID string, event notify.Event) {
	urls := s.resolveWebhooks(ctx, ownerID, true)
	s.post(ctx, urls, event)
}

// resolveWebhooks 汇总全局配置和 VM 归属用户各自的 webhook 地址，自动去重。
func (s *notificationService) resolveWebhooks(ctx context.Context, ownerID string, private bool) []string {
	var urls []string
	seen := make(map[string]struct{})
	add := func(url string) {
		if url == "" {
			return
		}
		if _, ok := seen[url]; ok {
			return
		}
		seen[url] = struct{}{}
		urls = append(urls, url)
	}

	if private {
		add(s.conf.GetString("notify.private_webhook"))
	} else {
		add(s.conf.GetString("notify.public_webhook"))
	}

	if ownerID != "" {
		owner, err := s.userRepo.GetByID(ctx, ownerID)
		if err != nil {
			s.logger.WithContext(ctx).Warn("notify: load owner failed", zap.String("owner_id", ownerID), zap.Error(err))
		} else if owner != nil {
			if private {
				add(owner.PrivateWebhookURL)
			} else {
				add(owner.PublicWebhookURL)
			}
		}
	}
	return urls
}

// post 尽力投递，失败只记日志，绝不把通知错误冒泡给任务流程。
func (s *notificationService) post(ctx context.Context, urls []string, event notify.Event) {
	for _, url := range urls {
		if err := s.notifier.Post(ctx, url, event); err != nil {
			s.logger.WithContext(ctx).Warn("notify: post webhook failed",
				zap.String("title", event.Title),
				zap.Error(err),
			)
		}
	}
}
