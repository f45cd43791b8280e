package controller

import (
	"context"
	"time"

	"vmxsphere/internal/controller/informer"
	"vmxsphere/internal/model"
	"vmxsphere/internal/repository"
	"vmxsphere/pkg/log"
	"vmxsphere/pkg/vmrun"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// HostController 宿主机巡检控制器。
// 用 informer 监听 vmrun list 的运行集，把电源状态和规格回填进库；
// 另起一个对账循环兜底：库里标 running / unknown 但运行集里没有的行改回 stopped，
// 覆盖控制器停机期间关掉的虚拟机（informer 启动时缓存为空，产生不了删除事件）。
type HostController struct {
	client *vmrun.Client
	vmRepo repository.VMRepository
	logger *log.Logger

	inventoryInformer informer.Informer
	resyncPeriod      time.Duration
}

func NewHostController(
	conf *viper.Viper,
	vmRepo repository.VMRepository,
	logger *log.Logger,
	resyncPeriod time.Duration,
) *HostController {
	return &HostController{
		client: vmrun.NewClient(
			conf.GetString("host.vmrun_bin"),
			conf.GetString("host.type"),
			logger,
		),
		vmRepo:       vmRepo,
		logger:       logger,
		resyncPeriod: resyncPeriod,
	}
}

func (c *HostController) Start(ctx context.Context) error {
	c.logger.Info("starting host controller")

	watcher := informer.NewHostListWatcher(c.client)
	inf := informer.NewInformer(
		"host-inventory",
		watcher,
		c.logger,
		c.resyncPeriod,
	)

	inf.AddEventHandler(NewInventoryEventHandler(c.vmRepo, c.logger))

	c.inventoryInformer = inf
	inf.Run(ctx)

	// 定期对账兜底
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.reconcileAbsent(ctx)
		}
	}
}

func (c *HostController) Stop(ctx context.Context) error {
	c.logger.Info("stopping host controller")

	if c.inventoryInformer != nil {
		c.inventoryInformer.Stop()
	}
	return nil
}

// reconcileAbsent 把运行集之外仍标着 running / unknown 的行改成 stopped。
// 必须等 informer 完成首次全量同步，否则空缓存会把所有机器都判成停机。
func (c *HostController) reconcileAbsent(ctx context.Context) {
	if c.inventoryInformer == nil || !c.inventoryInformer.HasSynced() {
		return
	}

	vms, err := c.vmRepo.ListAll(ctx)
	if err != nil {
		c.logger.Error("failed to list vms for reconcile", zap.Error(err))
		return
	}

	store := c.inventoryInformer.GetStore()
	for _, vm := range vms {
		if vm.PowerState == model.VMPowerStateStopped {
			continue
		}
		if _, running := store.Get(vm.VmxPath); running {
			continue
		}
		// 重装中的虚拟机会经历合法的关机窗口，电源状态由任务流程自己维护
		if vm.TaskState == model.VMTaskStateRunning {
			continue
		}

		if err := c.vmRepo.UpdatePowerState(ctx, vm.Id, model.VMPowerStateStopped); err != nil {
			c.logger.Error("failed to mark vm stopped", zap.Error(err), zap.Int64("id", vm.Id), zap.String("vm", vm.VmName))
			continue
		}
		c.logger.Info("vm absent from running set, marked stopped",
			zap.String("vm", vm.VmName), zap.String("vmx_path", vm.VmxPath),
			zap.String("previous_state", vm.PowerState))
	}
}
