package service

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	v1 "vmxsphere/api/v1"
	"vmxsphere/internal/model"
	"vmxsphere/internal/repository"

	"go.uber.org/zap"
)

type DashboardService interface {
	GetOverview(ctx context.Context, userId string) (*v1.DashboardOverviewData, error)
	GetRecentTasks(ctx context.Context, userId string, limit int64) (*v1.DashboardTasksData, error)
}

func NewDashboardService(
	service *Service,
	vmRepo repository.VMRepository,
	userRepo repository.UserRepository,
	portRepo repository.PortMappingRepository,
	taskEventRepo repository.TaskEventRepository,
	host HostControl,
) DashboardService {
	return &dashboardService{
		Service:       service,
		vmRepo:        vmRepo,
		userRepo:      userRepo,
		portRepo:      portRepo,
		taskEventRepo: taskEventRepo,
		host:          host,
	}
}

type dashboardService struct {
	*Service
	vmRepo        repository.VMRepository
	userRepo      repository.UserRepository
	portRepo      repository.PortMappingRepository
	taskEventRepo repository.TaskEventRepository
	host          HostControl
}

// GetOverview 全局概览（仅管理员）：库内统计 + 宿主机实时状态
func (s *dashboardService) GetOverview(ctx context.Context, userId string) (*v1.DashboardOverviewData, error) {
	if err := s.ensureAdmin(ctx, userId); err != nil {
		return nil, err
	}

	data := &v1.DashboardOverviewData{}

	var err error
	if data.Summary.VMCount, err = s.vmRepo.Count(ctx); err != nil {
		s.logger.WithContext(ctx).Error("failed to count vms", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	if data.Summary.RunningCount, err = s.vmRepo.CountByPowerState(ctx, model.VMPowerStateRunning); err != nil {
		s.logger.WithContext(ctx).Error("failed to count running vms", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	if data.Summary.StoppedCount, err = s.vmRepo.CountByPowerState(ctx, model.VMPowerStateStopped); err != nil {
		s.logger.WithContext(ctx).Error("failed to count stopped vms", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	if data.Summary.TaskRunningCount, err = s.vmRepo.CountByTaskState(ctx, model.VMTaskStateRunning); err != nil {
		s.logger.WithContext(ctx).Error("failed to count running tasks", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	if data.Summary.UserCount, err = s.userRepo.Count(ctx); err != nil {
		s.logger.WithContext(ctx).Error("failed to count users", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	if data.Summary.PortMappingCount, err = s.portRepo.Count(ctx); err != nil {
		s.logger.WithContext(ctx).Error("failed to count port mappings", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}

	now := time.Now()
	if data.Leases.ExpiringIn7d, err = s.vmRepo.CountLeaseExpiringWithin(ctx, now, 7*24*time.Hour); err != nil {
		s.logger.WithContext(ctx).Error("failed to count expiring leases", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	if data.Leases.Expired, err = s.vmRepo.CountLeaseExpired(ctx, now); err != nil {
		s.logger.WithContext(ctx).Error("failed to count expired leases", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}

	// 宿主机实时视角：vmrun list 失败只说明不可达，不让概览整体报错
	runningPaths, herr := s.host.List(ctx)
	if herr != nil {
		s.logger.WithContext(ctx).Warn("dashboard: host unreachable", zap.Error(herr))
		data.Host.Reachable = false
		return data, nil
	}
	data.Host.Reachable = true
	data.Host.RunningVMs = int64(len(runningPaths))

	vms, verr := s.vmRepo.ListAll(ctx)
	if verr != nil {
		s.logger.WithContext(ctx).Warn("dashboard: list vms failed", zap.Error(verr))
		return data, nil
	}
	tracked := make(map[string]struct{}, len(vms))
	for _, vm := range vms {
		tracked[normalizeVmxPath(vm.VmxPath)] = struct{}{}
	}
	for _, p := range runningPaths {
		if _, ok := tracked[normalizeVmxPath(p)]; !ok {
			data.Host.UntrackedVMs++
		}
	}
	return data, nil
}

// GetRecentTasks 最近的重装收尾事件（仅管理员）
func (s *dashboardService) GetRecentTasks(ctx context.Context, userId string, limit int64) (*v1.DashboardTasksData, error) {
	if err := s.ensureAdmin(ctx, userId); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	terminal, err := s.taskEventRepo.ListTerminal(ctx, limit)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to list terminal events", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}

	items := make([]v1.RecentTaskItem, 0, len(terminal))
	for _, ev := range terminal {
		item := v1.RecentTaskItem{
			VmID:       ev.VmID,
			VmName:     ev.VmName,
			RunID:      ev.RunID,
			Outcome:    taskOutcomeOf(ev),
			Message:    ev.Message,
			FinishedAt: ev.CreatedAt.UTC().Format(time.RFC3339),
		}
		// 开始时间取同一 run 的首条事件
		if runEvents, rerr := s.taskEventRepo.ListByRunID(ctx, ev.RunID); rerr == nil && len(runEvents) > 0 {
			item.StartedAt = runEvents[0].CreatedAt.UTC().Format(time.RFC3339)
		}
		items = append(items, item)
	}
	return &v1.DashboardTasksData{Items: items}, nil
}

func (s *dashboardService) ensureAdmin(ctx context.Context, userId string) error {
	caller, err := s.userRepo.GetByID(ctx, userId)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to get user", zap.Error(err), zap.String("user_id", userId))
		return v1.ErrInternalServerError
	}
	if caller == nil {
		return v1.ErrUnauthorized
	}
	if !caller.IsAdmin {
		return v1.ErrForbidden
	}
	return nil
}

func taskOutcomeOf(ev *model.TaskEvent) string {
	if ev.Stage == model.TaskStageFailed {
		return "failure"
	}
	if ev.Level == model.TaskEventLevelWarning {
		return "warning"
	}
	return "success"
}

// normalizeVmxPath Workstation 宿主机多为 Windows，比较路径时统一分隔符和大小写
func normalizeVmxPath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	return strings.ToLower(filepath.Clean(p))
}
