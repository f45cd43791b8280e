package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vmxsphere/internal/model"

	"gorm.io/gorm"
)

type VMRepository interface {
	Create(ctx context.Context, vm *model.VM) error
	Update(ctx context.Context, vm *model.VM) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*model.VM, error)
	GetByName(ctx context.Context, vmName string) (*model.VM, error)
	GetByVmxPath(ctx context.Context, vmxPath string) (*model.VM, error)
	ListWithPagination(ctx context.Context, page, pageSize int, ownerID, powerState, taskState, keyword string) ([]*model.VM, int64, error)
	ListAll(ctx context.Context) ([]*model.VM, error)

	// 任务三元组操作。ClaimTask 是唯一的任务入口：
	// 原子地把 idle 翻成 running，翻不动说明有任务在跑。
	ClaimTask(ctx context.Context, id int64, message string) (bool, error)
	UpdateTaskState(ctx context.Context, id int64, progress int, message string) error
	ReleaseTask(ctx context.Context, id int64, message string) error
	ResetRunningTasks(ctx context.Context, message string) (int64, error)

	UpdatePowerState(ctx context.Context, id int64, state string) error
	UpdateNetworkIdentity(ctx context.Context, id int64, mac, ip string) error
	UpdateGuestCredentials(ctx context.Context, id int64, username, password string) error
	UpdateSyncTimeOnly(ctx context.Context, id int64) error
	ApplyInventory(ctx context.Context, id int64, cpu, mem int, mac, state, resourceHash string) error

	// 租期
	ListLeaseExpired(ctx context.Context, now time.Time) ([]*model.VM, error)
	ListLeaseExpiringWithin(ctx context.Context, now time.Time, d time.Duration) ([]*model.VM, error)
	MarkLeaseNotified(ctx context.Context, id int64, kind string, ttl time.Duration) (bool, error)

	// 统计
	Count(ctx context.Context) (int64, error)
	CountByPowerState(ctx context.Context, state string) (int64, error)
	CountByTaskState(ctx context.Context, state string) (int64, error)
	CountLeaseExpiringWithin(ctx context.Context, now time.Time, d time.Duration) (int64, error)
	CountLeaseExpired(ctx context.Context, now time.Time) (int64, error)
}

func NewVMRepository(r *Repository) VMRepository {
	return &vmRepository{Repository: r}
}

type vmRepository struct {
	*Repository
}

func (r *vmRepository) Create(ctx context.Context, vm *model.VM) error {
	return r.DB(ctx).Create(vm).Error
}

func (r *vmRepository) Update(ctx context.Context, vm *model.VM) error {
	return r.DB(ctx).Save(vm).Error
}

func (r *vmRepository) Delete(ctx context.Context, id int64) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&model.VM{}).Error
}

func (r *vmRepository) GetByID(ctx context.Context, id int64) (*model.VM, error) {
	var vm model.VM
	if err := r.DB(ctx).Where("id = ?", id).First(&vm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vm, nil
}

func (r *vmRepository) GetByName(ctx context.Context, vmName string) (*model.VM, error) {
	var vm model.VM
	if err := r.DB(ctx).Where("vm_name = ?", vmName).First(&vm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vm, nil
}

func (r *vmRepository) GetByVmxPath(ctx context.Context, vmxPath string) (*model.VM, error) {
	var vm model.VM
	if err := r.DB(ctx).Where("vmx_path = ?", vmxPath).First(&vm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vm, nil
}

func (r *vmRepository) ListWithPagination(ctx context.Context, page, pageSize int, ownerID, powerState, taskState, keyword string) ([]*model.VM, int64, error) {
	var vms []*model.VM
	var total int64

	query := r.DB(ctx).Model(&model.VM{})

	if ownerID != "" {
		query = query.Where("owner_id = ?", ownerID)
	}
	if powerState != "" {
		query = query.Where("power_state = ?", powerState)
	}
	if taskState != "" {
		query = query.Where("task_state = ?", taskState)
	}
	if keyword != "" {
		query = query.Where("vm_name LIKE ?", "%"+keyword+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Offset(offset).Limit(pageSize).Order("id DESC").Find(&vms).Error; err != nil {
		return nil, 0, err
	}

	return vms, total, nil
}

func (r *vmRepository) ListAll(ctx context.Context) ([]*model.VM, error) {
	var vms []*model.VM
	if err := r.DB(ctx).Find(&vms).Error; err != nil {
		return nil, err
	}
	return vms, nil
}

// ClaimTask 条件更新充当任务锁：WHERE task_state = 'idle' 保证
// 并发触发时只有一个请求能把状态翻成 running。
func (r *vmRepository) ClaimTask(ctx context.Context, id int64, message string) (bool, error) {
	res := r.DB(ctx).Model(&model.VM{}).
		Where("id = ? AND task_state = ?", id, model.VMTaskStateIdle).
		Updates(map[string]interface{}{
			"task_state":    model.VMTaskStateRunning,
			"task_progress": 0,
			"task_message":  message,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *vmRepository) UpdateTaskState(ctx context.Context, id int64, progress int, message string) error {
	return r.DB(ctx).Model(&model.VM{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"task_progress": progress,
			"task_message":  message,
		}).Error
}

// ReleaseTask 任务终态：回到 idle、进度归零。
// message 传空串表示成功收尾，传错误文本则把失败原因留给轮询方。
func (r *vmRepository) ReleaseTask(ctx context.Context, id int64, message string) error {
	return r.DB(ctx).Model(&model.VM{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"task_state":    model.VMTaskStateIdle,
			"task_progress": 0,
			"task_message":  message,
		}).Error
}

// ResetRunningTasks 服务启动时回收上次进程留下的 running 任务
func (r *vmRepository) ResetRunningTasks(ctx context.Context, message string) (int64, error) {
	res := r.DB(ctx).Model(&model.VM{}).
		Where("task_state = ?", model.VMTaskStateRunning).
		Updates(map[string]interface{}{
			"task_state":    model.VMTaskStateIdle,
			"task_progress": 0,
			"task_message":  message,
		})
	return res.RowsAffected, res.Error
}

func (r *vmRepository) UpdatePowerState(ctx context.Context, id int64, state string) error {
	return r.DB(ctx).Model(&model.VM{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"power_state":    state,
			"last_sync_time": time.Now(),
		}).Error
}

func (r *vmRepository) UpdateNetworkIdentity(ctx context.Context, id int64, mac, ip string) error {
	return r.DB(ctx).Model(&model.VM{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"mac_address": mac,
			"ip_address":  ip,
		}).Error
}

// UpdateGuestCredentials 重装会把客户机账号重置回基线，这里同步落库
func (r *vmRepository) UpdateGuestCredentials(ctx context.Context, id int64, username, password string) error {
	return r.DB(ctx).Model(&model.VM{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"guest_user":     username,
			"guest_password": password,
		}).Error
}

func (r *vmRepository) UpdateSyncTimeOnly(ctx context.Context, id int64) error {
	return r.DB(ctx).
		Model(&model.VM{}).
		Where("id = ?", id).
		Update("last_sync_time", time.Now()).Error
}

// ApplyInventory 巡检回写：电源状态和资源哈希必写，
// 规格与 MAC 只有巡检真正读到时（非零值）才覆盖，避免把读失败写成 0。
func (r *vmRepository) ApplyInventory(ctx context.Context, id int64, cpu, mem int, mac, state, resourceHash string) error {
	updates := map[string]interface{}{
		"power_state":    state,
		"resource_hash":  resourceHash,
		"last_sync_time": time.Now(),
	}
	if cpu > 0 {
		updates["cpu_num"] = cpu
	}
	if mem > 0 {
		updates["memory_size"] = mem
	}
	if mac != "" {
		updates["mac_address"] = mac
	}
	return r.DB(ctx).Model(&model.VM{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *vmRepository) ListLeaseExpired(ctx context.Context, now time.Time) ([]*model.VM, error) {
	var vms []*model.VM
	if err := r.DB(ctx).
		Where("lease_expires_at IS NOT NULL AND lease_expires_at <= ?", now).
		Find(&vms).Error; err != nil {
		return nil, err
	}
	return vms, nil
}

// ListLeaseExpiringWithin 查出 now 之后 d 时间内即将到期、但还没到期的虚拟机
func (r *vmRepository) ListLeaseExpiringWithin(ctx context.Context, now time.Time, d time.Duration) ([]*model.VM, error) {
	var vms []*model.VM
	if err := r.DB(ctx).
		Where("lease_expires_at IS NOT NULL AND lease_expires_at > ? AND lease_expires_at <= ?", now, now.Add(d)).
		Find(&vms).Error; err != nil {
		return nil, err
	}
	return vms, nil
}

// MarkLeaseNotified 用 Redis SETNX 去重到期通知：
// key 带 TTL，窗口内重复触发直接跳过，进程重启也不会重发。
// kind 区分 warn / expired 两类标记。
func (r *vmRepository) MarkLeaseNotified(ctx context.Context, id int64, kind string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("vmxsphere:lease:%s:%d", kind, id)
	return r.rdb.SetNX(ctx, key, time.Now().Unix(), ttl).Result()
}

func (r *vmRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.DB(ctx).Model(&model.VM{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *vmRepository) CountByPowerState(ctx context.Context, state string) (int64, error) {
	var total int64
	if err := r.DB(ctx).Model(&model.VM{}).Where("power_state = ?", state).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *vmRepository) CountByTaskState(ctx context.Context, state string) (int64, error) {
	var total int64
	if err := r.DB(ctx).Model(&model.VM{}).Where("task_state = ?", state).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *vmRepository) CountLeaseExpiringWithin(ctx context.Context, now time.Time, d time.Duration) (int64, error) {
	var total int64
	if err := r.DB(ctx).Model(&model.VM{}).
		Where("lease_expires_at IS NOT NULL AND lease_expires_at > ? AND lease_expires_at <= ?", now, now.Add(d)).
		Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *vmRepository) CountLeaseExpired(ctx context.Context, now time.Time) (int64, error) {
	var total int64
	if err := r.DB(ctx).Model(&model.VM{}).
		Where("lease_expires_at IS NOT NULL AND lease_expires_at <= ?", now).
		Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
