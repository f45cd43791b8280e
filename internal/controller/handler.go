package controller

import (
	"context"

	"vmxsphere/internal/controller/informer"
	"vmxsphere/internal/model"
	"vmxsphere/internal/repository"
	"vmxsphere/pkg/hash"
	"vmxsphere/pkg/log"

	"go.uber.org/zap"
)

// InventoryEventHandler 宿主机运行集事件处理器。
// 运行集里出现即 running，消失即 stopped；数据库里没登记的 .vmx 不归我们管。
type InventoryEventHandler struct {
	vmRepo repository.VMRepository
	logger *log.Logger
}

func NewInventoryEventHandler(vmRepo repository.VMRepository, logger *log.Logger) *InventoryEventHandler {
	return &InventoryEventHandler{
		vmRepo: vmRepo,
		logger: logger,
	}
}

func (h *InventoryEventHandler) OnAdd(entry *informer.InventoryVM) error {
	return h.applyRunning(entry)
}

func (h *InventoryEventHandler) OnUpdate(oldEntry, newEntry *informer.InventoryVM) error {
	return h.applyRunning(newEntry)
}

func (h *InventoryEventHandler) OnDelete(entry *informer.InventoryVM) error {
	ctx := context.Background()
	vm, err := h.vmRepo.GetByVmxPath(ctx, entry.VmxPath)
	if err != nil {
		h.logger.Error("failed to get vm by vmx path", zap.Error(err), zap.String("vmx_path", entry.VmxPath))
		return err
	}
	if vm == nil {
		// 没登记过的虚拟机从运行集消失，不关我们的事
		return nil
	}

	if vm.PowerState == model.VMPowerStateStopped {
		return nil
	}

	if err := h.vmRepo.UpdatePowerState(ctx, vm.Id, model.VMPowerStateStopped); err != nil {
		h.logger.Error("failed to mark vm stopped", zap.Error(err), zap.Int64("id", vm.Id), zap.String("vm", vm.VmName))
		return err
	}

	h.logger.Info("vm left running set", zap.String("vm", vm.VmName), zap.String("vmx_path", vm.VmxPath))
	return nil
}

// applyRunning 把一条巡检记录落到数据库：
// 内容没变时只刷新 last_sync_time，变了才整行回写，避免每轮全量 UPDATE。
func (h *InventoryEventHandler) applyRunning(entry *informer.InventoryVM) error {
	ctx := context.Background()
	vm, err := h.vmRepo.GetByVmxPath(ctx, entry.VmxPath)
	if err != nil {
		h.logger.Error("failed to get vm by vmx path", zap.Error(err), zap.String("vmx_path", entry.VmxPath))
		return err
	}
	if vm == nil {
		// 宿主机上有人手工开了台没登记的虚拟机，记一笔就好
		h.logger.Debug("untracked vm running", zap.String("vmx_path", entry.VmxPath))
		return nil
	}

	// 在副本上套用巡检值再算哈希，口径与 ApplyInventory 落库后的行一致
	updated := *vm
	updated.PowerState = model.VMPowerStateRunning
	if entry.CPUNum > 0 {
		updated.CPUNum = entry.CPUNum
	}
	if entry.MemorySize > 0 {
		updated.MemorySize = entry.MemorySize
	}
	if entry.MacAddress != "" {
		updated.MacAddress = entry.MacAddress
	}

	newHash, err := hash.CalculateResourceHash(&updated)
	if err != nil {
		h.logger.Error("failed to calculate resource hash", zap.Error(err), zap.String("vm", vm.VmName))
		return err
	}

	if vm.PowerState == model.VMPowerStateRunning && vm.ResourceHash == newHash {
		// 内容没变，只推进巡检水位
		if err := h.vmRepo.UpdateSyncTimeOnly(ctx, vm.Id); err != nil {
			h.logger.Error("failed to update sync time", zap.Error(err), zap.Int64("id", vm.Id))
			return err
		}
		return nil
	}

	if err := h.vmRepo.ApplyInventory(ctx, vm.Id, entry.CPUNum, entry.MemorySize, entry.MacAddress, model.VMPowerStateRunning, newHash); err != nil {
		h.logger.Error("failed to apply inventory", zap.Error(err), zap.Int64("id", vm.Id), zap.String("vm", vm.VmName))
		return err
	}

	h.logger.Info("vm running", zap.String("vm", vm.VmName), zap.String("vmx_path", vm.VmxPath),
		zap.Int("cpu_num", entry.CPUNum), zap.Int("memory_size", entry.MemorySize))
	return nil
}
