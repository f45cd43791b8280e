package service

import (
	"context"
	crand "crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	v1 "vmxsphere/api/v1"
	"vmxsphere/internal/model"
	"vmxsphere/internal/repository"
	"vmxsphere/pkg/vmrun"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type VMService interface {
	CreateVM(ctx context.Context, userId string, req *v1.CreateVMRequest) error
	UpdateVM(ctx context.Context, userId string, id int64, req *v1.UpdateVMRequest) error
	DeleteVM(ctx context.Context, userId string, id int64) error
	GetVM(ctx context.Context, userId string, id int64) (*v1.VMDetail, error)
	ListVMs(ctx context.Context, userId string, req *v1.ListVMRequest) (*v1.ListVMResponseData, error)

	StartVM(ctx context.Context, userId string, id int64) error
	StopVM(ctx context.Context, userId string, id int64, hard bool) error
	ResetVM(ctx context.Context, userId string, id int64, hard bool) error

	GetVMTask(ctx context.Context, userId string, id int64) (*v1.VMTaskStatus, error)
	ListTaskEvents(ctx context.Context, userId string, id int64, limit int) (*v1.ListTaskEventsData, error)
	CreateTaskStreamToken(ctx context.Context, userId string, id int64) (*v1.TaskStreamTokenData, error)
	ResolveTaskStreamToken(token string) (int64, error)
	WatchTask(ctx context.Context, vmID int64) (*v1.VMTaskStatus, error)

	CaptureScreen(ctx context.Context, userId string, id int64) ([]byte, error)
	BuildRdpFile(ctx context.Context, userId string, id int64) (string, []byte, error)

	SetStaticIP(ctx context.Context, userId string, id int64, req *v1.SetStaticIPRequest) error
	SetVNC(ctx context.Context, userId string, id int64, req *v1.SetVNCRequest) error
	ListVMSnapshots(ctx context.Context, userId string, id int64) (*v1.ListSnapshotsData, error)
	CreateVMSnapshot(ctx context.Context, userId string, id int64, req *v1.CreateSnapshotRequest) error
	RevertVMSnapshot(ctx context.Context, userId string, id int64, req *v1.RevertSnapshotRequest) error
	DeleteVMSnapshot(ctx context.Context, userId string, id int64, name string) error
	RenewLease(ctx context.Context, userId string, id int64, req *v1.RenewLeaseRequest) error
}

func NewVMService(
	service *Service,
	conf *viper.Viper,
	vmRepo repository.VMRepository,
	userRepo repository.UserRepository,
	portRepo repository.PortMappingRepository,
	taskEventRepo repository.TaskEventRepository,
	host HostControl,
	network NetworkReserver,
	audit AuditService,
) VMService {
	return &vmService{
		Service:       service,
		conf:          conf,
		vmRepo:        vmRepo,
		userRepo:      userRepo,
		portRepo:      portRepo,
		taskEventRepo: taskEventRepo,
		host:          host,
		network:       network,
		audit:         audit,
	}
}

type vmService struct {
	*Service
	conf          *viper.Viper
	vmRepo        repository.VMRepository
	userRepo      repository.UserRepository
	portRepo      repository.PortMappingRepository
	taskEventRepo repository.TaskEventRepository
	host          HostControl
	network       NetworkReserver
	audit         AuditService

	// streamSessions 任务进度 WebSocket 的一次性令牌（token -> taskStreamSession）。
	// 浏览器的 WebSocket 带不了 Authorization 头，先用 REST 换短期令牌再连。
	streamSessions sync.Map
}

type taskStreamSession struct {
	VmID      int64
	ExpiresAt time.Time
}

func newStreamToken() (string, error) {
	b := make([]byte, 24)
	if _, err := crand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// requireVM 加载虚拟机并做归属校验。管理员可见全部；
// 租户只可见自己名下的，其余一律按不存在处理。
func (s *vmService) requireVM(ctx context.Context, userId string, id int64) (*model.VM, *model.User, error) {
	vm, err := s.vmRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to get vm", zap.Error(err), zap.Int64("vm_id", id))
		return nil, nil, v1.ErrInternalServerError
	}
	if vm == nil {
		return nil, nil, v1.ErrNotFound
	}
	caller, err := s.userRepo.GetByID(ctx, userId)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to get user", zap.Error(err), zap.String("user_id", userId))
		return nil, nil, v1.ErrInternalServerError
	}
	if caller == nil {
		return nil, nil, v1.ErrUnauthorized
	}
	if !caller.IsAdmin && vm.OwnerID != userId {
		return nil, nil, v1.ErrNotFound
	}
	return vm, caller, nil
}

func (s *vmService) requireAdmin(ctx context.Context, userId string) (*model.User, error) {
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
	return caller, nil
}

func leaseExpired(vm *model.VM) bool {
	return vm.LeaseExpiresAt != nil && vm.LeaseExpiresAt.Before(time.Now())
}

// guestCredsOf 客户机账号：记录里有就用记录的，否则退回全局基线账号
func guestCredsOf(vm *model.VM, conf *viper.Viper) vmrun.GuestCredentials {
	if vm.GuestUser != "" {
		return vmrun.GuestCredentials{Username: vm.GuestUser, Password: vm.GuestPassword}
	}
	return vmrun.GuestCredentials{
		Username: conf.GetString("guest.username"),
		Password: conf.GetString("guest.password"),
	}
}

// CreateVM 登记一台已存在于宿主机的虚拟机（仅管理员）。
// 硬件规格和 MAC 尽力从 .vmx 读取，读不到不阻塞登记。
func (s *vmService) CreateVM(ctx context.Context, userId string, req *v1.CreateVMRequest) error {
	caller, err := s.requireAdmin(ctx, userId)
	if err != nil {
		return err
	}

	if existing, err := s.vmRepo.GetByName(ctx, req.VmName); err != nil {
		s.logger.WithContext(ctx).Error("failed to check vm name", zap.Error(err))
		return v1.ErrInternalServerError
	} else if existing != nil {
		return v1.ErrVMNameAlreadyUse
	}
	if existing, err := s.vmRepo.GetByVmxPath(ctx, req.VmxPath); err != nil {
		s.logger.WithContext(ctx).Error("failed to check vmx path", zap.Error(err))
		return v1.ErrInternalServerError
	} else if existing != nil {
		return v1.ErrVmxPathAlreadyUse
	}

	if req.OwnerID != "" {
		owner, err := s.userRepo.GetByID(ctx, req.OwnerID)
		if err != nil {
			s.logger.WithContext(ctx).Error("failed to check owner", zap.Error(err))
			return v1.ErrInternalServerError
		}
		if owner == nil {
			return v1.ErrNotFound
		}
	}

	vm := &model.VM{
		VmName:       req.VmName,
		VmxPath:      req.VmxPath,
		TemplatePath: req.TemplatePath,
		OwnerID:      req.OwnerID,
		IPAddress:    req.IPAddress,
		Gateway:      s.conf.GetString("network.gateway"),
		DNS:          s.conf.GetString("network.dns"),
		GuestUser:    req.GuestUser,
		RdpHost:      s.conf.GetString("rdp.public_host"),
		RdpPort:      3389,
		PowerState:   model.VMPowerStateUnknown,
		TaskState:    model.VMTaskStateIdle,
		Creator:      caller.Username,
		Modifier:     caller.Username,
		Description:  req.Description,
	}
	vm.GuestPassword = req.GuestPassword
	if vm.GuestUser == "" {
		vm.GuestUser = s.conf.GetString("guest.username")
		vm.GuestPassword = s.conf.GetString("guest.password")
	}
	if req.RdpPort != nil && *req.RdpPort > 0 {
		vm.RdpPort = *req.RdpPort
	}
	if req.LeaseDays != nil && *req.LeaseDays > 0 {
		exp := time.Now().AddDate(0, 0, *req.LeaseDays)
		vm.LeaseExpiresAt = &exp
	}

	// 硬件规格：请求里给了用请求的，否则读 .vmx
	if specs, serr := s.host.ReadSpecs(req.VmxPath); serr == nil {
		vm.CPUNum = specs.NumCPUs
		vm.MemorySize = specs.MemoryMB
	} else {
		s.logger.WithContext(ctx).Warn("create vm: read specs failed", zap.String("vmx", req.VmxPath), zap.Error(serr))
	}
	if req.CPUNum != nil && *req.CPUNum > 0 {
		vm.CPUNum = *req.CPUNum
	}
	if req.MemorySize != nil && *req.MemorySize > 0 {
		vm.MemorySize = *req.MemorySize
	}
	if mac, merr := s.host.ReadMACAddress(req.VmxPath); merr == nil {
		vm.MacAddress = mac
	}
	if running, rerr := s.host.IsRunning(ctx, req.VmxPath); rerr == nil {
		if running {
			vm.PowerState = model.VMPowerStateRunning
		} else {
			vm.PowerState = model.VMPowerStateStopped
		}
	}

	if err = s.vmRepo.Create(ctx, vm); err != nil {
		s.logger.WithContext(ctx).Error("failed to create vm", zap.Error(err))
		return v1.ErrInternalServerError
	}

	// 有固定 IP 且知道 MAC 的话顺手把地址保留推下去，失败不影响登记
	if vm.IPAddress != "" && vm.MacAddress != "" {
		if rerr := s.network.Reserve(ctx, vm.VmName, vm.MacAddress, vm.IPAddress); rerr != nil {
			s.logger.WithContext(ctx).Warn("create vm: address reservation failed", zap.Error(rerr))
		}
	}

	s.audit.Record(ctx, userId, model.AuditActionVMCreate, vm.VmName, fmt.Sprintf("registered %s", vm.VmxPath))
	return nil
}

func (s *vmService) UpdateVM(ctx context.Context, userId string, id int64, req *v1.UpdateVMRequest) error {
	caller, err := s.requireAdmin(ctx, userId)
	if err != nil {
		return err
	}
	vm, err := s.vmRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to get vm", zap.Error(err), zap.Int64("vm_id", id))
		return v1.ErrInternalServerError
	}
	if vm == nil {
		return v1.ErrNotFound
	}
	if vm.TaskState == model.VMTaskStateRunning {
		return v1.ErrVMBusy
	}

	if req.VmName != nil && *req.VmName != vm.VmName {
		existing, err := s.vmRepo.GetByName(ctx, *req.VmName)
		if err != nil {
			s.logger.WithContext(ctx).Error("failed to check vm name", zap.Error(err))
			return v1.ErrInternalServerError
		}
		if existing != nil {
			return v1.ErrVMNameAlreadyUse
		}
		vm.VmName = *req.VmName
	}
	if req.TemplatePath != nil {
		vm.TemplatePath = *req.TemplatePath
	}
	if req.OwnerID != nil {
		if *req.OwnerID != "" {
			owner, err := s.userRepo.GetByID(ctx, *req.OwnerID)
			if err != nil {
				s.logger.WithContext(ctx).Error("failed to check owner", zap.Error(err))
				return v1.ErrInternalServerError
			}
			if owner == nil {
				return v1.ErrNotFound
			}
		}
		vm.OwnerID = *req.OwnerID
	}
	if req.GuestUser != nil {
		vm.GuestUser = *req.GuestUser
	}
	if req.GuestPassword != nil {
		vm.GuestPassword = *req.GuestPassword
	}
	if req.RdpPort != nil && *req.RdpPort > 0 {
		vm.RdpPort = *req.RdpPort
	}
	if req.Description != nil {
		vm.Description = *req.Description
	}

	// 改硬件规格要写 .vmx，必须关机
	specChanged := (req.CPUNum != nil && *req.CPUNum > 0 && *req.CPUNum != vm.CPUNum) ||
		(req.MemorySize != nil && *req.MemorySize > 0 && *req.MemorySize != vm.MemorySize)
	if specChanged {
		running, rerr := s.host.IsRunning(ctx, vm.VmxPath)
		if rerr != nil {
			s.logger.WithContext(ctx).Error("failed to check power state", zap.Error(rerr))
			return v1.ErrInternalServerError
		}
		if running {
			return v1.ErrVMNotStopped
		}
		if req.CPUNum != nil && *req.CPUNum > 0 {
			vm.CPUNum = *req.CPUNum
		}
		if req.MemorySize != nil && *req.MemorySize > 0 {
			vm.MemorySize = *req.MemorySize
		}
		if err = s.host.ApplySpecs(vm.VmxPath, vmrun.Specs{NumCPUs: vm.CPUNum, MemoryMB: vm.MemorySize}); err != nil {
			s.logger.WithContext(ctx).Error("failed to apply specs", zap.Error(err))
			return v1.ErrInternalServerError
		}
	}

	vm.Modifier = caller.Username
	if err = s.vmRepo.Update(ctx, vm); err != nil {
		s.logger.WithContext(ctx).Error("failed to update vm", zap.Error(err))
		return v1.ErrInternalServerError
	}

	s.audit.Record(ctx, userId, model.AuditActionVMUpdate, vm.VmName, "")
	return nil
}

// DeleteVM 注销登记（仅管理员）。宿主机上的虚拟机本体不动，
// 只清掉数据库记录和它名下的端口转发。
func (s *vmService) DeleteVM(ctx context.Context, userId string, id int64) error {
	if _, err := s.requireAdmin(ctx, userId); err != nil {
		return err
	}
	vm, err := s.vmRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to get vm", zap.Error(err), zap.Int64("vm_id", id))
		return v1.ErrInternalServerError
	}
	if vm == nil {
		return v1.ErrNotFound
	}
	if vm.TaskState == model.VMTaskStateRunning {
		return v1.ErrVMBusy
	}

	mappings, err := s.portRepo.ListByVmID(ctx, id)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to list port mappings", zap.Error(err))
		return v1.ErrInternalServerError
	}

	err = s.tm.Transaction(ctx, func(ctx context.Context) error {
		if err := s.portRepo.DeleteByVmID(ctx, id); err != nil {
			return err
		}
		return s.vmRepo.Delete(ctx, id)
	})
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to delete vm", zap.Error(err), zap.Int64("vm_id", id))
		return v1.ErrInternalServerError
	}

	// 宿主侧的转发规则尽力清理，失败只记日志
	for _, m := range mappings {
		if derr := s.network.DeleteForward(ctx, m.Protocol, m.HostPort); derr != nil {
			s.logger.WithContext(ctx).Warn("delete vm: remove forward failed",
				zap.String("protocol", m.Protocol),
				zap.Int("host_port", m.HostPort),
				zap.Error(derr))
		}
	}

	s.audit.Record(ctx, userId, model.AuditActionVMDelete, vm.VmName, "")
	return nil
}

func (s *vmService) GetVM(ctx context.Context, userId string, id int64) (*v1.VMDetail, error) {
	vm, caller, err := s.requireVM(ctx, userId, id)
	if err != nil {
		return nil, err
	}

	// 详情页顺手校一次电源状态，宿主机不可达就用库里的旧值
	if running, rerr := s.host.IsRunning(ctx, vm.VmxPath); rerr == nil {
		state := model.VMPowerStateStopped
		if running {
			state = model.VMPowerStateRunning
		}
		if state != vm.PowerState {
			if uerr := s.vmRepo.UpdatePowerState(ctx, vm.Id, state); uerr == nil {
				vm.PowerState = state
			}
		}
	}

	detail := &v1.VMDetail{
		Id:             vm.Id,
		VmName:         vm.VmName,
		OwnerID:        vm.OwnerID,
		CPUNum:         vm.CPUNum,
		MemorySize:     vm.MemorySize,
		MacAddress:     vm.MacAddress,
		IPAddress:      vm.IPAddress,
		Gateway:        vm.Gateway,
		DNS:            vm.DNS,
		GuestUser:      vm.GuestUser,
		RdpHost:        vm.RdpHost,
		RdpPort:        vm.RdpPort,
		VNCEnabled:     vm.VNCEnabled,
		VNCPort:        vm.VNCPort,
		PowerState:     vm.PowerState,
		TaskState:      vm.TaskState,
		TaskProgress:   vm.TaskProgress,
		TaskMessage:    vm.TaskMessage,
		LeaseExpiresAt: vm.LeaseExpiresAt,
		Description:    vm.Description,
		CreateTime:     vm.CreateTime,
		UpdateTime:     vm.UpdateTime,
	}
	// 宿主机路径只给管理员看
	if caller.IsAdmin {
		detail.VmxPath = vm.VmxPath
		detail.TemplatePath = vm.TemplatePath
	}
	if vm.OwnerID != "" {
		if owner, oerr := s.userRepo.GetByID(ctx, vm.OwnerID); oerr == nil && owner != nil {
			detail.OwnerName = owner.Username
		}
	}
	return detail, nil
}

func (s *vmService) ListVMs(ctx context.Context, userId string, req *v1.ListVMRequest) (*v1.ListVMResponseData, error) {
	caller, err := s.userRepo.GetByID(ctx, userId)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to get user", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	if caller == nil {
		return nil, v1.ErrUnauthorized
	}

	ownerID := req.OwnerID
	if !caller.IsAdmin {
		// 租户只能看自己的
		ownerID = userId
	}

	page := req.Page
	if page <= 0 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}

	vms, total, err := s.vmRepo.ListWithPagination(ctx, page, pageSize, ownerID, req.PowerState, req.TaskState, req.Keyword)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to list vms", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}

	// 批量补充租户名用于显示
	ownerIds := make([]string, 0, len(vms))
	seen := make(map[string]struct{})
	for _, vm := range vms {
		if vm.OwnerID == "" {
			continue
		}
		if _, ok := seen[vm.OwnerID]; ok {
			continue
		}
		seen[vm.OwnerID] = struct{}{}
		ownerIds = append(ownerIds, vm.OwnerID)
	}
	names := make(map[string]string)
	if len(ownerIds) > 0 {
		owners, oerr := s.userRepo.GetByIDs(ctx, ownerIds)
		if oerr != nil {
			s.logger.WithContext(ctx).Warn("list vms: load owners failed", zap.Error(oerr))
		}
		for _, o := range owners {
			names[o.UserId] = o.Username
		}
	}

	items := make([]v1.VMItem, 0, len(vms))
	for _, vm := range vms {
		items = append(items, v1.VMItem{
			Id:             vm.Id,
			VmName:         vm.VmName,
			OwnerID:        vm.OwnerID,
			OwnerName:      names[vm.OwnerID],
			CPUNum:         vm.CPUNum,
			MemorySize:     vm.MemorySize,
			IPAddress:      vm.IPAddress,
			PowerState:     vm.PowerState,
			TaskState:      vm.TaskState,
			TaskProgress:   vm.TaskProgress,
			TaskMessage:    vm.TaskMessage,
			LeaseExpiresAt: vm.LeaseExpiresAt,
		})
	}

	return &v1.ListVMResponseData{Total: total, List: items}, nil
}

func (s *vmService) StartVM(ctx context.Context, userId string, id int64) error {
	vm, caller, err := s.requireVM(ctx, userId, id)
	if err != nil {
		return err
	}
	if vm.TaskState == model.VMTaskStateRunning {
		return v1.ErrVMBusy
	}
	if !caller.IsAdmin && leaseExpired(vm) {
		return v1.ErrLeaseExpired
	}

	if err = s.host.Start(ctx, vm.VmxPath); err != nil {
		s.logger.WithContext(ctx).Error("failed to start vm", zap.Error(err), zap.Int64("vm_id", id))
		return v1.ErrInternalServerError
	}
	if err = s.vmRepo.UpdatePowerState(ctx, id, model.VMPowerStateRunning); err != nil {
		s.logger.WithContext(ctx).Warn("start vm: persist power state failed", zap.Error(err))
	}

	s.audit.Record(ctx, userId, model.AuditActionVMStart, vm.VmName, "")
	return nil
}

func (s *vmService) StopVM(ctx context.Context, userId string, id int64, hard bool) error {
	vm, _, err := s.requireVM(ctx, userId, id)
	if err != nil {
		return err
	}
	if vm.TaskState == model.VMTaskStateRunning {
		return v1.ErrVMBusy
	}

	if err = s.host.Stop(ctx, vm.VmxPath, hard); err != nil {
		s.logger.WithContext(ctx).Error("failed to stop vm", zap.Error(err), zap.Int64("vm_id", id))
		return v1.ErrInternalServerError
	}
	if err = s.vmRepo.UpdatePowerState(ctx, id, model.VMPowerStateStopped); err != nil {
		s.logger.WithContext(ctx).Warn("stop vm: persist power state failed", zap.Error(err))
	}

	detail := "soft"
	if hard {
		detail = "hard"
	}
	s.audit.Record(ctx, userId, model.AuditActionVMStop, vm.VmName, detail)
	return nil
}

func (s *vmService) ResetVM(ctx context.Context, userId string, id int64, hard bool) error {
	vm, caller, err := s.requireVM(ctx, userId, id)
	if err != nil {
		return err
	}
	if vm.TaskState == model.VMTaskStateRunning {
		return v1.ErrVMBusy
	}
	if !caller.IsAdmin && leaseExpired(vm) {
		return v1.ErrLeaseExpired
	}

	if err = s.host.Reset(ctx, vm.VmxPath, hard); err != nil {
		s.logger.WithContext(ctx).Error("failed to reset vm", zap.Error(err), zap.Int64("vm_id", id))
		return v1.ErrInternalServerError
	}
	if err = s.vmRepo.UpdatePowerState(ctx, id, model.VMPowerStateRunning); err != nil {
		s.logger.WithContext(ctx).Warn("reset vm: persist power state failed", zap.Error(err))
	}

	detail := "soft"
	if hard {
		detail = "hard"
	}
	s.audit.Record(ctx, userId, model.AuditActionVMReset, vm.VmName, detail)
	return nil
}

func (s *vmService) GetVMTask(ctx context.Context, userId string, id int64) (*v1.VMTaskStatus, error) {
	vm, _, err := s.requireVM(ctx, userId, id)
	if err != nil {
		return nil, err
	}
	return &v1.VMTaskStatus{
		TaskState:    vm.TaskState,
		TaskProgress: vm.TaskProgress,
		TaskMessage:  vm.TaskMessage,
	}, nil
}

func (s *vmService) ListTaskEvents(ctx context.Context, userId string, id int64, limit int) (*v1.ListTaskEventsData, error) {
	if _, _, err := s.requireVM(ctx, userId, id); err != nil {
		return nil, err
	}
	events, err := s.taskEventRepo.ListByVmID(ctx, id, int64(limit))
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to list task events", zap.Error(err), zap.Int64("vm_id", id))
		return nil, v1.ErrInternalServerError
	}
	items := make([]v1.TaskEventItem, 0, len(events))
	for _, ev := range events {
		items = append(items, v1.TaskEventItem{
			RunID:     ev.RunID,
			Stage:     ev.Stage,
			Progress:  ev.Progress,
			Level:     ev.Level,
			Message:   ev.Message,
			CreatedAt: ev.CreatedAt,
		})
	}
	return &v1.ListTaskEventsData{Items: items}, nil
}

func (s *vmService) CreateTaskStreamToken(ctx context.Context, userId string, id int64) (*v1.TaskStreamTokenData, error) {
	if _, _, err := s.requireVM(ctx, userId, id); err != nil {
		return nil, err
	}
	token, err := newStreamToken()
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to generate stream token", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	const ttl = 2 * time.Minute
	s.streamSessions.Store(token, taskStreamSession{
		VmID:      id,
		ExpiresAt: time.Now().Add(ttl),
	})
	return &v1.TaskStreamTokenData{
		WsToken:   token,
		ExpiresIn: int(ttl.Seconds()),
	}, nil
}

// WatchTask 供 WebSocket 推流轮询任务状态，鉴权已由一次性令牌完成
func (s *vmService) WatchTask(ctx context.Context, vmID int64) (*v1.VMTaskStatus, error) {
	vm, err := s.vmRepo.GetByID(ctx, vmID)
	if err != nil {
		return nil, err
	}
	if vm == nil {
		return nil, v1.ErrNotFound
	}
	return &v1.VMTaskStatus{
		TaskState:    vm.TaskState,
		TaskProgress: vm.TaskProgress,
		TaskMessage:  vm.TaskMessage,
	}, nil
}

// ResolveTaskStreamToken 兑换一次性令牌，用过即焚
func (s *vmService) ResolveTaskStreamToken(token string) (int64, error) {
	if strings.TrimSpace(token) == "" {
		return 0, v1.ErrBadRequest
	}
	val, ok := s.streamSessions.LoadAndDelete(token)
	if !ok {
		return 0, v1.ErrNotFound
	}
	session, ok := val.(taskStreamSession)
	if !ok {
		return 0, v1.ErrInternalServerError
	}
	if time.Now().After(session.ExpiresAt) {
		return 0, v1.ErrUnauthorized
	}
	return session.VmID, nil
}

// CaptureScreen 抓当前屏幕，返回 PNG 字节。要求虚拟机在运行。
func (s *vmService) CaptureScreen(ctx context.Context, userId string, id int64) ([]byte, error) {
	vm, _, err := s.requireVM(ctx, userId, id)
	if err != nil {
		return nil, err
	}
	running, err := s.host.IsRunning(ctx, vm.VmxPath)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to check power state", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	if !running {
		return nil, v1.ErrVMNotRunning
	}

	tmp, err := os.CreateTemp("", "vmxsphere-screen-*.png")
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to create temp file", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err = s.host.CaptureScreen(ctx, vm.VmxPath, tmpPath); err != nil {
		s.logger.WithContext(ctx).Error("failed to capture screen", zap.Error(err), zap.Int64("vm_id", id))
		return nil, v1.ErrInternalServerError
	}
	data, err := os.ReadFile(tmpPath)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to read screenshot", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	return data, nil
}

// BuildRdpFile 生成可直接双击连接的 .rdp 文件
func (s *vmService) BuildRdpFile(ctx context.Context, userId string, id int64) (string, []byte, error) {
	vm, _, err := s.requireVM(ctx, userId, id)
	if err != nil {
		return "", nil, err
	}

	endpoint, eerr := resolveRemoteEndpoint(ctx, s.portRepo, s.conf, vm)
	if eerr != nil {
		s.logger.WithContext(ctx).Warn("rdp file: list port mappings failed", zap.Error(eerr))
	}
	username := vm.GuestUser
	if username == "" {
		username = "Administrator"
	}

	lines := []string{
		"full address:s:" + endpoint,
		"username:s:" + username,
		"screen mode id:i:2",
		"session bpp:i:32",
		"compression:i:1",
		"keyboardhook:i:2",
		"audiomode:i:0",
		"redirectclipboard:i:1",
		"redirectprinters:i:0",
		"redirectcomports:i:0",
		"redirectsmartcards:i:0",
		"displayconnectionbar:i:1",
		"autoreconnection enabled:i:1",
		"authentication level:i:2",
		"prompt for credentials:i:1",
		"negotiate security layer:i:1",
		"remoteapplicationmode:i:0",
		"alternate shell:s:",
		"shell working directory:s:",
		"disable wallpaper:i:0",
		"disable full window drag:i:0",
		"allow desktop composition:i:0",
		"allow font smoothing:i:0",
		"disable menu anims:i:0",
		"disable themes:i:0",
		"disable cursor setting:i:0",
		"bitmapcachepersistenable:i:1",
		"winposstr:s:0,1,0,0,800,600",
	}
	content := strings.Join(lines, "\r\n") + "\r\n"
	return vm.VmName + ".rdp", []byte(content), nil
}

// SetStaticIP 绑定固定内网 IP：推宿主侧地址保留，在跑的话顺手把客户机也改成静态
func (s *vmService) SetStaticIP(ctx context.Context, userId string, id int64, req *v1.SetStaticIPRequest) error {
	vm, _, err := s.requireVM(ctx, userId, id)
	if err != nil {
		return err
	}
	if vm.TaskState == model.VMTaskStateRunning {
		return v1.ErrVMBusy
	}

	mac := vm.MacAddress
	if mac == "" {
		if m, merr := s.host.ReadMACAddress(vm.VmxPath); merr == nil && m != "" {
			mac = m
		}
	}
	if mac == "" {
		// 没有 MAC 没法做地址保留，一般是虚拟机从未启动过
		return v1.ErrMacUnknown
	}

	if err = s.network.Reserve(ctx, vm.VmName, mac, req.IPAddress); err != nil {
		s.logger.WithContext(ctx).Error("failed to reserve address",
			zap.String("mac", mac),
			zap.String("ip", req.IPAddress),
			zap.Error(err))
		return v1.ErrInternalServerError
	}
	if err = s.vmRepo.UpdateNetworkIdentity(ctx, id, mac, req.IPAddress); err != nil {
		s.logger.WithContext(ctx).Error("failed to persist network identity", zap.Error(err))
		return v1.ErrInternalServerError
	}
	vm.MacAddress = mac
	vm.IPAddress = req.IPAddress

	if running, rerr := s.host.IsRunning(ctx, vm.VmxPath); rerr == nil && running {
		if aerr := applyGuestStaticAddressing(ctx, s.host, s.conf, vm, guestCredsOf(vm, s.conf)); aerr != nil {
			s.logger.WithContext(ctx).Warn("static ip: guest addressing failed", zap.Error(aerr))
		}
	}

	s.audit.Record(ctx, userId, model.AuditActionVMStaticIP, vm.VmName, req.IPAddress)
	return nil
}

// SetVNC 配置 hypervisor 内建的 VNC 服务端（写 .vmx，要求关机）
func (s *vmService) SetVNC(ctx context.Context, userId string, id int64, req *v1.SetVNCRequest) error {
	vm, _, err := s.requireVM(ctx, userId, id)
	if err != nil {
		return err
	}
	if vm.TaskState == model.VMTaskStateRunning {
		return v1.ErrVMBusy
	}
	if req.Enabled && req.Port <= 0 {
		return v1.ErrBadRequest
	}

	running, err := s.host.IsRunning(ctx, vm.VmxPath)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to check power state", zap.Error(err))
		return v1.ErrInternalServerError
	}
	if running {
		return v1.ErrVMNotStopped
	}

	if err = s.host.SetRemoteDisplay(vm.VmxPath, req.Enabled, req.Port, req.Password); err != nil {
		s.logger.WithContext(ctx).Error("failed to set remote display", zap.Error(err))
		return v1.ErrInternalServerError
	}

	vm.VNCEnabled = req.Enabled
	vm.VNCPort = req.Port
	vm.VNCPassword = req.Password
	if err = s.vmRepo.Update(ctx, vm); err != nil {
		s.logger.WithContext(ctx).Error("failed to persist vnc settings", zap.Error(err))
		return v1.ErrInternalServerError
	}

	detail := "disabled"
	if req.Enabled {
		detail = fmt.Sprintf("enabled on port %d", req.Port)
	}
	s.audit.Record(ctx, userId, model.AuditActionVMVNC, vm.VmName, detail)
	return nil
}

// ListVMSnapshots 快照名列表，归属校验同其他虚拟机操作
func (s *vmService) ListVMSnapshots(ctx context.Context, userId string, id int64) (*v1.ListSnapshotsData, error) {
	vm, _, err := s.requireVM(ctx, userId, id)
	if err != nil {
		return nil, err
	}
	names, err := s.host.ListSnapshots(ctx, vm.VmxPath)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to list snapshots", zap.Error(err), zap.Int64("vm_id", id))
		return nil, v1.ErrInternalServerError
	}
	return &v1.ListSnapshotsData{Items: names}, nil
}

// guardSnapshotOp 快照增删改共用的前置检查：
// 归属、任务位空闲、租约有效（管理员不受租约限制）
func (s *vmService) guardSnapshotOp(ctx context.Context, userId string, id int64) (*model.VM, error) {
	vm, caller, err := s.requireVM(ctx, userId, id)
	if err != nil {
		return nil, err
	}
	if vm.TaskState == model.VMTaskStateRunning {
		return nil, v1.ErrVMBusy
	}
	if !caller.IsAdmin && leaseExpired(vm) {
		return nil, v1.ErrLeaseExpired
	}
	return vm, nil
}

func (s *vmService) CreateVMSnapshot(ctx context.Context, userId string, id int64, req *v1.CreateSnapshotRequest) error {
	vm, err := s.guardSnapshotOp(ctx, userId, id)
	if err != nil {
		return err
	}

	if err = s.host.CreateSnapshot(ctx, vm.VmxPath, req.Name); err != nil {
		s.logger.WithContext(ctx).Error("failed to create snapshot",
			zap.Error(err), zap.Int64("vm_id", id), zap.String("snapshot", req.Name))
		return v1.ErrInternalServerError
	}

	s.audit.Record(ctx, userId, model.AuditActionVMSnapCreate, vm.VmName, req.Name)
	return nil
}

func (s *vmService) RevertVMSnapshot(ctx context.Context, userId string, id int64, req *v1.RevertSnapshotRequest) error {
	vm, err := s.guardSnapshotOp(ctx, userId, id)
	if err != nil {
		return err
	}

	if err = s.host.RevertToSnapshot(ctx, vm.VmxPath, req.Name); err != nil {
		s.logger.WithContext(ctx).Error("failed to revert snapshot",
			zap.Error(err), zap.Int64("vm_id", id), zap.String("snapshot", req.Name))
		return v1.ErrInternalServerError
	}

	// vmrun 回滚后虚拟机停在快照时刻的关机态，电源状态交给巡检纠正
	if err = s.vmRepo.UpdatePowerState(ctx, id, model.VMPowerStateUnknown); err != nil {
		s.logger.WithContext(ctx).Warn("failed to reset power state after revert",
			zap.Error(err), zap.Int64("vm_id", id))
	}

	s.audit.Record(ctx, userId, model.AuditActionVMSnapRevert, vm.VmName, req.Name)
	return nil
}

func (s *vmService) DeleteVMSnapshot(ctx context.Context, userId string, id int64, name string) error {
	vm, err := s.guardSnapshotOp(ctx, userId, id)
	if err != nil {
		return err
	}
	// 基线快照是重装流程的还原点，不允许从接口删掉
	baseline := s.conf.GetString("task.baseline_snapshot")
	if baseline == "" {
		baseline = "Base-v2"
	}
	if name == baseline {
		return v1.ErrBadRequest
	}

	if err = s.host.DeleteSnapshot(ctx, vm.VmxPath, name); err != nil {
		s.logger.WithContext(ctx).Error("failed to delete snapshot",
			zap.Error(err), zap.Int64("vm_id", id), zap.String("snapshot", name))
		return v1.ErrInternalServerError
	}

	s.audit.Record(ctx, userId, model.AuditActionVMSnapDelete, vm.VmName, name)
	return nil
}

// RenewLease 续租（仅管理员）。顺延模式从「当前到期时间与现在的较晚者」起算。
func (s *vmService) RenewLease(ctx context.Context, userId string, id int64, req *v1.RenewLeaseRequest) error {
	caller, err := s.requireAdmin(ctx, userId)
	if err != nil {
		return err
	}
	vm, err := s.vmRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to get vm", zap.Error(err), zap.Int64("vm_id", id))
		return v1.ErrInternalServerError
	}
	if vm == nil {
		return v1.ErrNotFound
	}

	var newExpiry time.Time
	switch {
	case req.LeaseExpiresAt != nil:
		newExpiry = *req.LeaseExpiresAt
	case req.ExtendDays != nil && *req.ExtendDays > 0:
		base := time.Now()
		if vm.LeaseExpiresAt != nil && vm.LeaseExpiresAt.After(base) {
			base = *vm.LeaseExpiresAt
		}
		newExpiry = base.AddDate(0, 0, *req.ExtendDays)
	default:
		return v1.ErrBadRequest
	}

	vm.LeaseExpiresAt = &newExpiry
	vm.Modifier = caller.Username
	if err = s.vmRepo.Update(ctx, vm); err != nil {
		s.logger.WithContext(ctx).Error("failed to renew lease", zap.Error(err))
		return v1.ErrInternalServerError
	}

	s.audit.Record(ctx, userId, model.AuditActionVMLease, vm.VmName, fmt.Sprintf("lease until %s", newExpiry.Format("2006-01-02")))
	return nil
}
