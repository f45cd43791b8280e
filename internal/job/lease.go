package job

import (
	"context"
	"fmt"
	"time"

	"vmxsphere/internal/model"
	"vmxsphere/internal/repository"
	"vmxsphere/internal/service"
	"vmxsphere/pkg/notify"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// LeaseJob 周期巡检租期：
//   - 即将到期 → 私有路由发一条预警；
//   - 已到期   → 尽力关机并私有路由通知。
//
// 两类动作都用 Redis SETNX 标记去重，窗口内不重复打扰。
type LeaseJob interface {
	CheckLeases(ctx context.Context) error
}

func NewLeaseJob(
	job *Job,
	conf *viper.Viper,
	vmRepo repository.VMRepository,
	host service.HostControl,
	notification service.NotificationService,
) LeaseJob {
	warnDays := conf.GetInt("lease.warn_days")
	if warnDays <= 0 {
		warnDays = 7
	}
	markerTTL := conf.GetDuration("lease.marker_ttl")
	if markerTTL <= 0 {
		markerTTL = 24 * time.Hour
	}
	return &leaseJob{
		Job:          job,
		vmRepo:       vmRepo,
		host:         host,
		notification: notification,
		warnWindow:   time.Duration(warnDays) * 24 * time.Hour,
		markerTTL:    markerTTL,
	}
}

type leaseJob struct {
	*Job
	vmRepo       repository.VMRepository
	host         service.HostControl
	notification service.NotificationService
	warnWindow   time.Duration
	markerTTL    time.Duration
}

func (j *leaseJob) CheckLeases(ctx context.Context) error {
	now := time.Now()

	// 1. 即将到期的预警
	expiring, err := j.vmRepo.ListLeaseExpiringWithin(ctx, now, j.warnWindow)
	if err != nil {
		return fmt.Errorf("list expiring leases: %w", err)
	}
	for _, vm := range expiring {
		first, err := j.vmRepo.MarkLeaseNotified(ctx, vm.Id, "warn", j.markerTTL)
		if err != nil {
			j.logger.Warn("lease: mark warn failed", zap.Error(err), zap.Int64("vm_id", vm.Id))
			continue
		}
		if !first {
			continue
		}
		j.notification.NotifyPrivate(ctx, vm.OwnerID, notify.Event{
			Title:       "VM Lease Expiring",
			Description: fmt.Sprintf("Lease for **%s** expires at %s.", vm.VmName, vm.LeaseExpiresAt.UTC().Format(time.RFC3339)),
			Outcome:     notify.OutcomeWarning,
			Fields: []notify.Field{
				{Name: "VM", Value: vm.VmName, Inline: true},
				{Name: "Expires At", Value: vm.LeaseExpiresAt.UTC().Format(time.RFC3339), Inline: true},
			},
		})
		j.logger.Info("lease: expiring soon, owner notified",
			zap.Int64("vm_id", vm.Id),
			zap.String("vm_name", vm.VmName))
	}

	// 2. 已到期的强制处理
	expired, err := j.vmRepo.ListLeaseExpired(ctx, now)
	if err != nil {
		return fmt.Errorf("list expired leases: %w", err)
	}
	for _, vm := range expired {
		first, err := j.vmRepo.MarkLeaseNotified(ctx, vm.Id, "expired", j.markerTTL)
		if err != nil {
			j.logger.Warn("lease: mark expired failed", zap.Error(err), zap.Int64("vm_id", vm.Id))
			continue
		}
		if !first {
			continue
		}

		stopped := j.stopExpired(ctx, vm)

		detail := "The lease has expired."
		if stopped {
			detail = "The lease has expired and the VM was powered off."
		}
		j.notification.NotifyPrivate(ctx, vm.OwnerID, notify.Event{
			Title:       "VM Lease Expired",
			Description: fmt.Sprintf("Lease for **%s** has run out. %s", vm.VmName, detail),
			Outcome:     notify.OutcomeFailure,
			Fields: []notify.Field{
				{Name: "VM", Value: vm.VmName, Inline: true},
				{Name: "Expired At", Value: vm.LeaseExpiresAt.UTC().Format(time.RFC3339), Inline: true},
			},
		})
		j.logger.Warn("lease: expired",
			zap.Int64("vm_id", vm.Id),
			zap.String("vm_name", vm.VmName),
			zap.Bool("stopped", stopped))
	}

	return nil
}

// stopExpired 尽力关停到期虚拟机。重装进行中不动它，关不掉只记日志。
func (j *leaseJob) stopExpired(ctx context.Context, vm *model.VM) bool {
	if vm.TaskState == model.VMTaskStateRunning {
		j.logger.Info("lease: reinstall in flight, skip stop", zap.Int64("vm_id", vm.Id))
		return false
	}
	running, err := j.host.IsRunning(ctx, vm.VmxPath)
	if err != nil {
		j.logger.Warn("lease: probe power state failed", zap.Error(err), zap.Int64("vm_id", vm.Id))
		return false
	}
	if !running {
		return false
	}
	if err := j.host.Stop(ctx, vm.VmxPath, true); err != nil {
		j.logger.Warn("lease: stop expired vm failed", zap.Error(err), zap.Int64("vm_id", vm.Id))
		return false
	}
	if err := j.vmRepo.UpdatePowerState(ctx, vm.Id, model.VMPowerStateStopped); err != nil {
		j.logger.Warn("lease: persist power state failed", zap.Error(err), zap.Int64("vm_id", vm.Id))
	}
	return true
}
