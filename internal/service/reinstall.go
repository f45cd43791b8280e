package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"text/template"
	"time"

	v1 "vmxsphere/api/v1"
	"vmxsphere/internal/metrics"
	"vmxsphere/internal/model"
	"vmxsphere/internal/repository"
	"vmxsphere/pkg/notify"
	"vmxsphere/pkg/vmrun"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// 客户机内的固定路径（Windows 镜像）
const (
	guestScriptPath = `C:\Windows\Temp\vmxsphere-bootstrap.bat`
	guestCmdExe     = `C:\Windows\System32\cmd.exe`
	guestNetshExe   = `C:\Windows\System32\netsh.exe`
)

// bootstrapScriptTmpl 重装收尾时推进客户机执行的脚本：
// 打开远程桌面、改监听端口、放行防火墙、重启服务。
// 必须可重复执行——每次重装都会对干净的基线镜像跑一遍。
var bootstrapScriptTmpl = template.Must(template.New("bootstrap").Parse(`@echo off
reg add "HKLM\System\CurrentControlSet\Control\Terminal Server" /v fDenyTSConnections /t REG_DWORD /d 0 /f
reg add "HKLM\System\CurrentControlSet\Control\Terminal Server\WinStations\RDP-Tcp" /v PortNumber /t REG_DWORD /d {{.RdpPort}} /f
netsh advfirewall firewall delete rule name="Remote Desktop {{.RdpPort}}" >nul 2>&1
netsh advfirewall firewall add rule name="Remote Desktop {{.RdpPort}}" dir=in action=allow protocol=TCP localport={{.RdpPort}}
net stop TermService /y >nul 2>&1
net start TermService
exit /b 0
`))

type bootstrapParams struct {
	RdpPort int
}

// ReinstallService 重装编排。Begin 只负责抢占任务位并入队，
// 真正的状态机在后台 worker 里跑完，调用方轮询任务三元组看进度。
type ReinstallService interface {
	Begin(ctx context.Context, userId string, vmID int64) (*v1.ReinstallVMResponseData, error)
}

func NewReinstallService(
	service *Service,
	conf *viper.Viper,
	m *metrics.Metrics,
	vmRepo repository.VMRepository,
	userRepo repository.UserRepository,
	portRepo repository.PortMappingRepository,
	taskEventRepo repository.TaskEventRepository,
	host HostControl,
	network NetworkReserver,
	notification NotificationService,
	audit AuditService,
) ReinstallService {
	s := &reinstallService{
		Service:       service,
		conf:          conf,
		metrics:       m,
		vmRepo:        vmRepo,
		userRepo:      userRepo,
		portRepo:      portRepo,
		taskEventRepo: taskEventRepo,
		host:          host,
		network:       network,
		notification:  notification,
		audit:         audit,
		taskQueue:     make(chan int64, 100), // 缓冲队列，最多100个待执行任务
	}

	s.baselineSnapshot = conf.GetString("task.baseline_snapshot")
	if s.baselineSnapshot == "" {
		s.baselineSnapshot = "Base-v2"
	}
	s.guestIPAttempts = conf.GetInt("task.guest_ip_attempts")
	if s.guestIPAttempts <= 0 {
		s.guestIPAttempts = 60
	}
	s.guestIPInterval = conf.GetDuration("task.guest_ip_interval")
	if s.guestIPInterval <= 0 {
		s.guestIPInterval = 5 * time.Second
	}
	s.stopSettle = conf.GetDuration("task.stop_settle")
	if s.stopSettle <= 0 {
		s.stopSettle = 3 * time.Second
	}

	// 启动任务 worker；不同虚拟机的重装可以并行，同一台靠任务位互斥
	workers := conf.GetInt("task.workers")
	if workers <= 0 {
		workers = 2
	}
	for i := 0; i < workers; i++ {
		go s.processQueue()
	}

	return s
}

type reinstallService struct {
	*Service
	conf          *viper.Viper
	metrics       *metrics.Metrics
	vmRepo        repository.VMRepository
	userRepo      repository.UserRepository
	portRepo      repository.PortMappingRepository
	taskEventRepo repository.TaskEventRepository
	host          HostControl
	network       NetworkReserver
	notification  NotificationService
	audit         AuditService

	taskQueue chan int64
	// 虚拟机级别的锁：极端情况下（进程重启后任务被回收又重新触发）
	// 防止同一台虚拟机的两次执行交叠
	vmLocks sync.Map // map[int64]*sync.Mutex

	baselineSnapshot string
	guestIPAttempts  int
	guestIPInterval  time.Duration
	stopSettle       time.Duration
}

func (s *reinstallService) processQueue() {
	for vmID := range s.taskQueue {
		s.runReinstall(vmID)
	}
}

// Begin 触发一次重装。task_state 的条件更新就是互斥锁：
// 只有从 idle 翻到 running 成功的那一次请求能入队，其余返回“任务进行中”。
func (s *reinstallService) Begin(ctx context.Context, userId string, vmID int64) (*v1.ReinstallVMResponseData, error) {
	vm, err := s.vmRepo.GetByID(ctx, vmID)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to get vm", zap.Error(err), zap.Int64("vm_id", vmID))
		return nil, v1.ErrInternalServerError
	}
	if vm == nil {
		return nil, v1.ErrNotFound
	}

	caller, err := s.userRepo.GetByID(ctx, userId)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to get user", zap.Error(err), zap.String("user_id", userId))
		return nil, v1.ErrInternalServerError
	}
	if caller == nil {
		return nil, v1.ErrUnauthorized
	}
	if !caller.IsAdmin {
		if vm.OwnerID != userId {
			return nil, v1.ErrForbidden
		}
		if vm.LeaseExpiresAt != nil && vm.LeaseExpiresAt.Before(time.Now()) {
			return nil, v1.ErrLeaseExpired
		}
	}

	claimed, err := s.vmRepo.ClaimTask(ctx, vmID, "reinstall queued")
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to claim task", zap.Error(err), zap.Int64("vm_id", vmID))
		return nil, v1.ErrInternalServerError
	}
	if !claimed {
		return nil, v1.ErrTaskAlreadyRunning
	}

	select {
	case s.taskQueue <- vmID:
	default:
		// 队列满：把刚抢到的任务位还回去，调用方稍后重试
		if rerr := s.vmRepo.ReleaseTask(ctx, vmID, ""); rerr != nil {
			s.logger.WithContext(ctx).Error("failed to release task after full queue", zap.Error(rerr), zap.Int64("vm_id", vmID))
		}
		return nil, v1.ErrTaskQueueFull
	}

	s.audit.Record(ctx, userId, model.AuditActionVMReinstall, vm.VmName, "reinstall triggered")

	return &v1.ReinstallVMResponseData{
		VmID:      vmID,
		TaskState: model.VMTaskStateRunning,
	}, nil
}

// runReinstall 状态机本体。每进一个阶段先把进度落库再做副作用，
// 轮询方随时能看到“至少走到了哪”。除 waiting_for_guest 外不做重试。
func (s *reinstallService) runReinstall(vmID int64) {
	// 后台执行，不能复用已结束的请求 context
	ctx := context.Background()

	vm, err := s.vmRepo.GetByID(ctx, vmID)
	if err != nil || vm == nil {
		s.logger.Error("reinstall: vm lookup failed", zap.Error(err), zap.Int64("vm_id", vmID))
		return
	}

	lockAny, _ := s.vmLocks.LoadOrStore(vmID, &sync.Mutex{})
	vmLock := lockAny.(*sync.Mutex)
	vmLock.Lock()
	defer vmLock.Unlock()

	// 拿到锁后再查一次：排队期间任务位可能被启动回收清掉
	vm, err = s.vmRepo.GetByID(ctx, vmID)
	if err != nil || vm == nil {
		s.logger.Error("reinstall: vm lookup failed after lock", zap.Error(err), zap.Int64("vm_id", vmID))
		return
	}
	if vm.TaskState != model.VMTaskStateRunning {
		s.logger.Info("reinstall: task no longer claimed, skip",
			zap.Int64("vm_id", vmID),
			zap.String("task_state", vm.TaskState))
		return
	}

	runID, err := s.sid.GenString()
	if err != nil {
		runID = fmt.Sprintf("run-%d-%d", vmID, time.Now().Unix())
	}
	started := time.Now()

	s.metrics.ReinstallRunning.Inc()
	defer s.metrics.ReinstallRunning.Dec()

	s.logger.Info("reinstall started",
		zap.Int64("vm_id", vm.Id),
		zap.String("vm_name", vm.VmName),
		zap.String("run_id", runID))

	s.notification.NotifyPublic(ctx, vm.OwnerID, notify.Event{
		Title:       "VM Reinstall Started",
		Description: fmt.Sprintf("Reinstallation of %s has started.", vm.VmName),
		Outcome:     notify.OutcomeStarted,
		Fields:      []notify.Field{{Name: "VM", Value: vm.VmName, Inline: true}},
	})

	// 1. init：机会式学习网络身份，这里的任何失败都不拦流程
	s.step(ctx, vm, runID, model.TaskStageInit, 5, "preparing reinstall")
	if vm.IPAddress == "" {
		if running, rerr := s.host.IsRunning(ctx, vm.VmxPath); rerr == nil && running {
			if ip, ierr := s.host.GuestIP(ctx, vm.VmxPath, false); ierr == nil && ip != "" {
				s.learnNetworkIdentity(ctx, vm, ip)
			}
		}
	}

	// 2. stopping：在跑就强制关机，关不掉没法继续
	s.step(ctx, vm, runID, model.TaskStageStopping, 10, "stopping virtual machine")
	running, err := s.host.IsRunning(ctx, vm.VmxPath)
	if err != nil {
		s.finishFailure(ctx, vm, runID, model.TaskStageStopping, started, err)
		return
	}
	if running {
		if err = s.host.Stop(ctx, vm.VmxPath, true); err != nil {
			s.finishFailure(ctx, vm, runID, model.TaskStageStopping, started, err)
			return
		}
		// 给 hypervisor 一点时间释放文件锁
		time.Sleep(s.stopSettle)
	}

	// 3. restoring：有基线快照就秒级回滚，丢了就从模板整体重建
	s.step(ctx, vm, runID, model.TaskStageRestoring, 20, "restoring baseline image")
	snapshots, err := s.host.ListSnapshots(ctx, vm.VmxPath)
	if err != nil {
		s.finishFailure(ctx, vm, runID, model.TaskStageRestoring, started, err)
		return
	}
	if containsString(snapshots, s.baselineSnapshot) {
		if err = s.host.RevertToSnapshot(ctx, vm.VmxPath, s.baselineSnapshot); err != nil {
			s.finishFailure(ctx, vm, runID, model.TaskStageRestoring, started, err)
			return
		}
		s.step(ctx, vm, runID, model.TaskStageRestoring, 40, "baseline snapshot restored")
	} else if err = s.rebuildFromTemplate(ctx, vm, runID, started); err != nil {
		// rebuildFromTemplate 内部已经收尾
		return
	}

	// 4. networking：已知网络身份就把宿主侧地址保留推下去，失败只记日志
	s.step(ctx, vm, runID, model.TaskStageNetworking, 45, "restoring network identity")
	if vm.MacAddress != "" && vm.IPAddress != "" {
		if err = s.network.Reserve(ctx, vm.VmName, vm.MacAddress, vm.IPAddress); err != nil {
			s.logger.Warn("reinstall: address reservation failed",
				zap.Int64("vm_id", vm.Id),
				zap.String("mac", vm.MacAddress),
				zap.String("ip", vm.IPAddress),
				zap.Error(err))
			s.journal(ctx, vm, runID, model.TaskStageNetworking, 45, model.TaskEventLevelWarning,
				fmt.Sprintf("address reservation failed: %v", err))
		}
	}

	// 5. booting：开机失败没有退路
	s.step(ctx, vm, runID, model.TaskStageBooting, 50, "starting virtual machine")
	if err = s.host.Start(ctx, vm.VmxPath); err != nil {
		s.finishFailure(ctx, vm, runID, model.TaskStageBooting, started, err)
		return
	}

	// 6. waiting_for_guest：固定间隔轮询客户机地址，上限即放弃。
	// 拿不到地址算软失败：告警收尾，不再进 bootstrapping。
	s.step(ctx, vm, runID, model.TaskStageWaitingForGuest, 60, "waiting for guest address")
	guestIP, attempts := s.waitForGuestIP(ctx, vm)
	s.metrics.GuestIPAttempts.Observe(float64(attempts))
	if guestIP == "" {
		warnMsg := fmt.Sprintf("guest never reported an address after %d attempts; remote access was not reconfigured", attempts)
		s.finishWarning(ctx, vm, runID, started, warnMsg, nil)
		return
	}
	if vm.IPAddress == "" {
		s.learnNetworkIdentity(ctx, vm, guestIP)
	}
	// 复装后的客户机回到 DHCP，既有的静态地址配置要机会式补回去
	if err = s.applyStaticAddressing(ctx, vm); err != nil {
		s.logger.Warn("reinstall: static addressing re-apply failed",
			zap.Int64("vm_id", vm.Id),
			zap.Error(err))
		s.journal(ctx, vm, runID, model.TaskStageWaitingForGuest, 80, model.TaskEventLevelWarning,
			fmt.Sprintf("static addressing re-apply failed: %s", describeGuestFailure(err)))
	}

	// 7. bootstrapping：账号重置回基线并落库，推脚本配远程桌面。
	// 脚本失败降级为告警——基线监听还在，虚拟机仍然可用。
	s.step(ctx, vm, runID, model.TaskStageBootstrapping, 85, "configuring remote access")
	bootstrapWarn := ""
	if err = s.bootstrapGuest(ctx, vm); err != nil {
		s.countVmrunError(err)
		bootstrapWarn = fmt.Sprintf("remote access bootstrap failed: %s", describeGuestFailure(err))
		s.logger.Warn("reinstall: bootstrap failed",
			zap.Int64("vm_id", vm.Id),
			zap.Error(err))
		s.journal(ctx, vm, runID, model.TaskStageBootstrapping, 85, model.TaskEventLevelWarning, bootstrapWarn)
	} else {
		s.step(ctx, vm, runID, model.TaskStageBootstrapping, 90, "remote access configured")
	}

	// 8. finalizing：回 idle、发最终通知
	s.step(ctx, vm, runID, model.TaskStageFinalizing, 100, "reinstall complete")

	endpoint := s.resolveEndpoint(ctx, vm)
	creds := s.baselineCredentials()
	credFields := []notify.Field{
		{Name: "Endpoint", Value: endpoint, Inline: true},
		{Name: "Username", Value: creds.Username, Inline: true},
		{Name: "Password", Value: creds.Password, Inline: true},
	}

	if bootstrapWarn != "" {
		s.finishWarning(ctx, vm, runID, started, bootstrapWarn, credFields)
		return
	}

	if err = s.vmRepo.ReleaseTask(ctx, vm.Id, ""); err != nil {
		s.logger.Error("reinstall: release task failed", zap.Int64("vm_id", vm.Id), zap.Error(err))
	}
	s.journal(ctx, vm, runID, model.TaskStageDone, 0, model.TaskEventLevelInfo, "reinstall complete")
	s.metrics.ReinstallTotal.WithLabelValues("success").Inc()
	s.metrics.ReinstallDuration.Observe(time.Since(started).Seconds())

	s.logger.Info("reinstall complete",
		zap.Int64("vm_id", vm.Id),
		zap.String("run_id", runID),
		zap.Duration("took", time.Since(started)))

	s.notification.NotifyPublic(ctx, vm.OwnerID, notify.Event{
		Title:       "VM Reinstall Complete",
		Description: fmt.Sprintf("Reinstallation of %s has completed successfully.", vm.VmName),
		Outcome:     notify.OutcomeSuccess,
		Fields:      []notify.Field{{Name: "VM", Value: vm.VmName, Inline: true}},
	})
	// 接入凭据只走私有路由
	s.notification.NotifyPrivate(ctx, vm.OwnerID, notify.Event{
		Title:       "VM Reinstall Complete",
		Description: fmt.Sprintf("%s is ready. Connect with the credentials below.", vm.VmName),
		Outcome:     notify.OutcomeSuccess,
		Fields:      credFields,
	})
}

// rebuildFromTemplate 基线快照丢失时的整体重建：
// 记录现有规格 → 删除 → 清目录（尽力）→ 从模板链接克隆 → 回写规格 → 重打基线快照。
// 返回非 nil 表示流程已经失败收尾，调用方直接退出。
func (s *reinstallService) rebuildFromTemplate(ctx context.Context, vm *model.VM, runID string, started time.Time) error {
	if vm.TemplatePath == "" {
		err := fmt.Errorf("baseline snapshot %q missing and no template configured", s.baselineSnapshot)
		s.finishFailure(ctx, vm, runID, model.TaskStageRestoring, started, err)
		return err
	}

	specs, err := s.host.ReadSpecs(vm.VmxPath)
	if err != nil {
		s.finishFailure(ctx, vm, runID, model.TaskStageRestoring, started, err)
		return err
	}

	s.step(ctx, vm, runID, model.TaskStageRestoring, 25, "deleting stale virtual machine")
	if err = s.host.DeleteVM(ctx, vm.VmxPath); err != nil {
		s.finishFailure(ctx, vm, runID, model.TaskStageRestoring, started, err)
		return err
	}
	if err = s.host.PurgeVMDirectory(vm.VmxPath); err != nil {
		s.logger.Warn("reinstall: purge vm directory failed",
			zap.Int64("vm_id", vm.Id),
			zap.String("vmx_path", vm.VmxPath),
			zap.Error(err))
		s.journal(ctx, vm, runID, model.TaskStageRestoring, 25, model.TaskEventLevelWarning,
			fmt.Sprintf("directory purge failed: %v", err))
	}

	s.step(ctx, vm, runID, model.TaskStageRestoring, 30, "cloning from template")
	if err = s.host.Clone(ctx, vm.TemplatePath, vm.VmxPath, vm.VmName, true, s.baselineSnapshot); err != nil {
		s.finishFailure(ctx, vm, runID, model.TaskStageRestoring, started, err)
		return err
	}

	if err = s.host.ApplySpecs(vm.VmxPath, specs); err != nil {
		s.finishFailure(ctx, vm, runID, model.TaskStageRestoring, started, err)
		return err
	}
	s.step(ctx, vm, runID, model.TaskStageRestoring, 35, "hardware specs reapplied")

	if err = s.host.CreateSnapshot(ctx, vm.VmxPath, s.baselineSnapshot); err != nil {
		s.finishFailure(ctx, vm, runID, model.TaskStageRestoring, started, err)
		return err
	}
	s.step(ctx, vm, runID, model.TaskStageRestoring, 40, "baseline snapshot created")

	// 克隆出来的虚拟机 MAC 会变，能读到就跟着更新网络身份
	if mac, merr := s.host.ReadMACAddress(vm.VmxPath); merr == nil && mac != "" && mac != vm.MacAddress {
		if uerr := s.vmRepo.UpdateNetworkIdentity(ctx, vm.Id, mac, vm.IPAddress); uerr != nil {
			s.logger.Warn("reinstall: persist new mac failed", zap.Int64("vm_id", vm.Id), zap.Error(uerr))
		} else {
			vm.MacAddress = mac
		}
	}
	return nil
}

// waitForGuestIP 有界轮询：固定间隔、固定上限、拿到地址立即返回。
// 进度在 60→80 之间随尝试次数线性推进。
func (s *reinstallService) waitForGuestIP(ctx context.Context, vm *model.VM) (string, int) {
	for attempt := 1; attempt <= s.guestIPAttempts; attempt++ {
		ip, err := s.host.GuestIP(ctx, vm.VmxPath, false)
		if err == nil && ip != "" {
			return ip, attempt
		}
		progress := 60 + attempt*20/s.guestIPAttempts
		msg := fmt.Sprintf("waiting for guest address (attempt %d/%d)", attempt, s.guestIPAttempts)
		if uerr := s.vmRepo.UpdateTaskState(ctx, vm.Id, progress, msg); uerr != nil {
			s.logger.Warn("reinstall: persist progress failed", zap.Int64("vm_id", vm.Id), zap.Error(uerr))
		}
		if attempt < s.guestIPAttempts {
			time.Sleep(s.guestIPInterval)
		}
	}
	return "", s.guestIPAttempts
}

// learnNetworkIdentity 把发现的客户机地址连同 MAC 一起落库
func (s *reinstallService) learnNetworkIdentity(ctx context.Context, vm *model.VM, ip string) {
	mac := vm.MacAddress
	if mac == "" {
		if m, err := s.host.ReadMACAddress(vm.VmxPath); err == nil {
			mac = m
		}
	}
	if err := s.vmRepo.UpdateNetworkIdentity(ctx, vm.Id, mac, ip); err != nil {
		s.logger.Warn("reinstall: persist network identity failed",
			zap.Int64("vm_id", vm.Id),
			zap.Error(err))
		return
	}
	vm.MacAddress = mac
	vm.IPAddress = ip
	s.logger.Info("reinstall: learned network identity",
		zap.Int64("vm_id", vm.Id),
		zap.String("mac", mac),
		zap.String("ip", ip))
}

// applyStaticAddressing 通过 netsh 把记录的静态地址写回客户机。
// 没配静态地址或网关时直接跳过。
func (s *reinstallService) applyStaticAddressing(ctx context.Context, vm *model.VM) error {
	return applyGuestStaticAddressing(ctx, s.host, s.conf, vm, s.baselineCredentials())
}

// applyGuestStaticAddressing 在客户机内执行 netsh，把固定地址与 DNS 配置成静态。
// 重装流程和固定 IP 设置接口共用这段逻辑。
func applyGuestStaticAddressing(ctx context.Context, host HostControl, conf *viper.Viper, vm *model.VM, creds vmrun.GuestCredentials) error {
	gateway := vm.Gateway
	if gateway == "" {
		gateway = conf.GetString("network.gateway")
	}
	if vm.IPAddress == "" || gateway == "" {
		return nil
	}
	netmask := conf.GetString("network.netmask")
	if netmask == "" {
		netmask = "255.255.255.0"
	}
	iface := conf.GetString("network.guest_interface")
	if iface == "" {
		iface = "Ethernet0"
	}

	if err := host.RunInGuest(ctx, vm.VmxPath, creds, false, guestNetshExe,
		"interface", "ip", "set", "address", "name="+iface, "static", vm.IPAddress, netmask, gateway); err != nil {
		return err
	}

	dns := vm.DNS
	if dns == "" {
		dns = conf.GetString("network.dns")
	}
	servers := splitDNS(dns)
	for i, server := range servers {
		var err error
		if i == 0 {
			err = host.RunInGuest(ctx, vm.VmxPath, creds, false, guestNetshExe,
				"interface", "ip", "set", "dns", "name="+iface, "static", server, "primary")
		} else {
			err = host.RunInGuest(ctx, vm.VmxPath, creds, false, guestNetshExe,
				"interface", "ip", "add", "dns", "name="+iface, server, fmt.Sprintf("index=%d", i+1))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// bootstrapGuest 把客户机账号重置回基线并落库，然后推送引导脚本执行
func (s *reinstallService) bootstrapGuest(ctx context.Context, vm *model.VM) error {
	creds := s.baselineCredentials()
	if err := s.vmRepo.UpdateGuestCredentials(ctx, vm.Id, creds.Username, creds.Password); err != nil {
		return fmt.Errorf("persist baseline credentials: %w", err)
	}
	vm.GuestUser = creds.Username
	vm.GuestPassword = creds.Password

	rdpPort := vm.RdpPort
	if rdpPort <= 0 {
		rdpPort = 3389
	}
	var buf bytes.Buffer
	if err := bootstrapScriptTmpl.Execute(&buf, bootstrapParams{RdpPort: rdpPort}); err != nil {
		return fmt.Errorf("render bootstrap script: %w", err)
	}

	// 批处理要求 CRLF
	script := strings.ReplaceAll(buf.String(), "\n", "\r\n")
	tmp, err := os.CreateTemp("", "vmxsphere-bootstrap-*.bat")
	if err != nil {
		return fmt.Errorf("create script file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err = tmp.WriteString(script); err != nil {
		tmp.Close()
		return fmt.Errorf("write script file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close script file: %w", err)
	}

	if err = s.host.CopyToGuest(ctx, vm.VmxPath, creds, tmp.Name(), guestScriptPath); err != nil {
		return err
	}
	return s.host.RunInGuest(ctx, vm.VmxPath, creds, false, guestCmdExe, "/C", guestScriptPath)
}

// step 进入新阶段：先落库进度再做副作用，同时写一条事件流水
func (s *reinstallService) step(ctx context.Context, vm *model.VM, runID, stage string, progress int, message string) {
	if err := s.vmRepo.UpdateTaskState(ctx, vm.Id, progress, message); err != nil {
		s.logger.Warn("reinstall: persist progress failed",
			zap.Int64("vm_id", vm.Id),
			zap.String("stage", stage),
			zap.Error(err))
	}
	s.journal(ctx, vm, runID, stage, progress, model.TaskEventLevelInfo, message)
}

// journal 事件流水写 MongoDB，失败只记日志
func (s *reinstallService) journal(ctx context.Context, vm *model.VM, runID, stage string, progress int, level, message string) {
	ev := &model.TaskEvent{
		RunID:    runID,
		VmID:     vm.Id,
		VmName:   vm.VmName,
		Stage:    stage,
		Progress: progress,
		Level:    level,
		Message:  message,
	}
	if err := s.taskEventRepo.Insert(ctx, ev); err != nil {
		s.logger.Warn("reinstall: journal event failed",
			zap.Int64("vm_id", vm.Id),
			zap.String("stage", stage),
			zap.Error(err))
	}
}

// finishFailure 致命收尾：任务位回 idle，失败原因留在 task_message 给轮询方
func (s *reinstallService) finishFailure(ctx context.Context, vm *model.VM, runID, stage string, started time.Time, cause error) {
	s.countVmrunError(cause)
	msg := fmt.Sprintf("%s failed: %v", stage, cause)
	s.logger.Error("reinstall failed",
		zap.Int64("vm_id", vm.Id),
		zap.String("vm_name", vm.VmName),
		zap.String("stage", stage),
		zap.String("run_id", runID),
		zap.Error(cause))

	if err := s.vmRepo.ReleaseTask(ctx, vm.Id, msg); err != nil {
		s.logger.Error("reinstall: release task failed", zap.Int64("vm_id", vm.Id), zap.Error(err))
	}
	s.journal(ctx, vm, runID, model.TaskStageFailed, 0, model.TaskEventLevelError, msg)
	s.metrics.ReinstallTotal.WithLabelValues("failure").Inc()
	s.metrics.ReinstallDuration.Observe(time.Since(started).Seconds())

	s.notification.NotifyPrivate(ctx, vm.OwnerID, notify.Event{
		Title:       "VM Reinstall Failed",
		Description: fmt.Sprintf("Reinstallation of %s did not complete.", vm.VmName),
		Outcome:     notify.OutcomeFailure,
		Fields: []notify.Field{
			{Name: "VM", Value: vm.VmName, Inline: true},
			{Name: "Stage", Value: stage, Inline: true},
			{Name: "Error", Value: cause.Error()},
		},
	})
}

// finishWarning 软失败收尾：流程结束、任务位回 idle，但告警原因留在 task_message
func (s *reinstallService) finishWarning(ctx context.Context, vm *model.VM, runID string, started time.Time, warnMsg string, extraFields []notify.Field) {
	s.logger.Warn("reinstall completed with warnings",
		zap.Int64("vm_id", vm.Id),
		zap.String("vm_name", vm.VmName),
		zap.String("run_id", runID),
		zap.String("warning", warnMsg))

	if err := s.vmRepo.ReleaseTask(ctx, vm.Id, warnMsg); err != nil {
		s.logger.Error("reinstall: release task failed", zap.Int64("vm_id", vm.Id), zap.Error(err))
	}
	s.journal(ctx, vm, runID, model.TaskStageDone, 0, model.TaskEventLevelWarning, warnMsg)
	s.metrics.ReinstallTotal.WithLabelValues("warning").Inc()
	s.metrics.ReinstallDuration.Observe(time.Since(started).Seconds())

	fields := []notify.Field{
		{Name: "VM", Value: vm.VmName, Inline: true},
		{Name: "Warning", Value: warnMsg},
	}
	fields = append(fields, extraFields...)
	s.notification.NotifyPrivate(ctx, vm.OwnerID, notify.Event{
		Title:       "VM Reinstall Completed With Warnings",
		Description: fmt.Sprintf("Reinstallation of %s finished, but needs attention.", vm.VmName),
		Outcome:     notify.OutcomeWarning,
		Fields:      fields,
	})
}

func (s *reinstallService) resolveEndpoint(ctx context.Context, vm *model.VM) string {
	endpoint, err := resolveRemoteEndpoint(ctx, s.portRepo, s.conf, vm)
	if err != nil {
		s.logger.Warn("reinstall: list port mappings failed", zap.Int64("vm_id", vm.Id), zap.Error(err))
	}
	return endpoint
}

// resolveRemoteEndpoint 对外接入点：有指向 RDP 端口的转发规则就报宿主端口，
// 否则直连记录的 RDP 端口。查转发失败时退回直连地址并返回该错误。
func resolveRemoteEndpoint(ctx context.Context, portRepo repository.PortMappingRepository, conf *viper.Viper, vm *model.VM) (string, error) {
	host := vm.RdpHost
	if host == "" {
		host = conf.GetString("rdp.public_host")
	}
	port := vm.RdpPort
	if port <= 0 {
		port = 3389
	}
	mappings, err := portRepo.ListByVmID(ctx, vm.Id)
	if err != nil {
		return fmt.Sprintf("%s:%d", host, port), err
	}
	for _, m := range mappings {
		if m.Protocol == "tcp" && m.GuestPort == port {
			return fmt.Sprintf("%s:%d", host, m.HostPort), nil
		}
	}
	return fmt.Sprintf("%s:%d", host, port), nil
}

func (s *reinstallService) baselineCredentials() vmrun.GuestCredentials {
	return vmrun.GuestCredentials{
		Username: s.conf.GetString("guest.username"),
		Password: s.conf.GetString("guest.password"),
	}
}

func (s *reinstallService) countVmrunError(err error) {
	var oe *vmrun.OpError
	if errors.As(err, &oe) {
		s.metrics.VmrunErrorsTotal.WithLabelValues(oe.Op, oe.Kind.String()).Inc()
	}
}

// describeGuestFailure 按结构化错误类别给出可读原因，不再匹配错误文本
func describeGuestFailure(err error) string {
	switch vmrun.KindOf(err) {
	case vmrun.AuthRejected:
		return "guest rejected the baseline credentials"
	case vmrun.NotReady:
		return "guest tools were not ready"
	case vmrun.Unavailable:
		return "hypervisor was unavailable"
	}
	return err.Error()
}

func containsString(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}

func splitDNS(dns string) []string {
	var servers []string
	for _, part := range strings.Split(dns, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			servers = append(servers, part)
		}
	}
	return servers
}
