package service

import (
	"context"
	"fmt"

	v1 "vmxsphere/api/v1"
	"vmxsphere/internal/model"
	"vmxsphere/internal/repository"
	"vmxsphere/pkg/vmnet"

	"go.uber.org/zap"
)

// PortMappingService 端口转发管理。规则的增删要动宿主机 NAT 配置，
// 只放给管理员；租户只能查看自己虚拟机名下的规则。
type PortMappingService interface {
	CreatePortMapping(ctx context.Context, userId string, req *v1.CreatePortMappingRequest) error
	DeletePortMapping(ctx context.Context, userId string, id int64) error
	ListPortMappings(ctx context.Context, userId string, req *v1.ListPortMappingRequest) (*v1.ListPortMappingData, error)
}

func NewPortMappingService(
	service *Service,
	portRepo repository.PortMappingRepository,
	vmRepo repository.VMRepository,
	userRepo repository.UserRepository,
	network NetworkReserver,
	audit AuditService,
) PortMappingService {
	return &portMappingService{
		Service:  service,
		portRepo: portRepo,
		vmRepo:   vmRepo,
		userRepo: userRepo,
		network:  network,
		audit:    audit,
	}
}

type portMappingService struct {
	*Service
	portRepo repository.PortMappingRepository
	vmRepo   repository.VMRepository
	userRepo repository.UserRepository
	network  NetworkReserver
	audit    AuditService
}

func (s *portMappingService) CreatePortMapping(ctx context.Context, userId string, req *v1.CreatePortMappingRequest) error {
	caller, err := s.userRepo.GetByID(ctx, userId)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to get user", zap.Error(err))
		return v1.ErrInternalServerError
	}
	if caller == nil {
		return v1.ErrUnauthorized
	}
	if !caller.IsAdmin {
		return v1.ErrForbidden
	}

	vm, err := s.vmRepo.GetByID(ctx, req.VmID)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to get vm", zap.Error(err), zap.Int64("vm_id", req.VmID))
		return v1.ErrInternalServerError
	}
	if vm == nil {
		return v1.ErrNotFound
	}
	// 转发目标是客户机的固定 IP，没有就先去绑定
	if vm.IPAddress == "" {
		return v1.ErrNoGuestIP
	}

	existing, err := s.portRepo.GetByHostPort(ctx, req.Protocol, req.HostPort)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to check host port", zap.Error(err))
		return v1.ErrInternalServerError
	}
	if existing != nil {
		return v1.ErrHostPortInUse
	}

	// 先落宿主机再落库：宿主侧失败时库里不会留下无效规则
	rule := vmnet.PortForward{
		Protocol:    req.Protocol,
		HostPort:    req.HostPort,
		GuestIP:     vm.IPAddress,
		GuestPort:   req.GuestPort,
		Description: req.Description,
	}
	if err = s.network.AddForward(ctx, rule); err != nil {
		s.logger.WithContext(ctx).Error("failed to add forward",
			zap.String("protocol", req.Protocol),
			zap.Int("host_port", req.HostPort),
			zap.Error(err))
		return v1.ErrInternalServerError
	}

	pm := &model.PortMapping{
		VmID:        req.VmID,
		Protocol:    req.Protocol,
		HostPort:    req.HostPort,
		GuestPort:   req.GuestPort,
		Description: req.Description,
		Creator:     caller.Username,
	}
	if err = s.portRepo.Create(ctx, pm); err != nil {
		s.logger.WithContext(ctx).Error("failed to create port mapping", zap.Error(err))
		// 落库失败回滚宿主侧规则，尽力而为
		if derr := s.network.DeleteForward(ctx, req.Protocol, req.HostPort); derr != nil {
			s.logger.WithContext(ctx).Warn("rollback forward failed", zap.Error(derr))
		}
		return v1.ErrInternalServerError
	}

	s.audit.Record(ctx, userId, model.AuditActionPortCreate, vm.VmName,
		fmt.Sprintf("%s %d -> %s:%d", req.Protocol, req.HostPort, vm.IPAddress, req.GuestPort))
	return nil
}

func (s *portMappingService) DeletePortMapping(ctx context.Context, userId string, id int64) error {
	caller, err := s.userRepo.GetByID(ctx, userId)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to get user", zap.Error(err))
		return v1.ErrInternalServerError
	}
	if caller == nil {
		return v1.ErrUnauthorized
	}
	if !caller.IsAdmin {
		return v1.ErrForbidden
	}

	pm, err := s.portRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to get port mapping", zap.Error(err), zap.Int64("id", id))
		return v1.ErrInternalServerError
	}
	if pm == nil {
		return v1.ErrNotFound
	}

	if err = s.network.DeleteForward(ctx, pm.Protocol, pm.HostPort); err != nil {
		s.logger.WithContext(ctx).Error("failed to delete forward",
			zap.String("protocol", pm.Protocol),
			zap.Int("host_port", pm.HostPort),
			zap.Error(err))
		return v1.ErrInternalServerError
	}
	if err = s.portRepo.Delete(ctx, id); err != nil {
		s.logger.WithContext(ctx).Error("failed to delete port mapping", zap.Error(err))
		return v1.ErrInternalServerError
	}

	target := fmt.Sprintf("%s:%d", pm.Protocol, pm.HostPort)
	s.audit.Record(ctx, userId, model.AuditActionPortDelete, target, "")
	return nil
}

func (s *portMappingService) ListPortMappings(ctx context.Context, userId string, req *v1.ListPortMappingRequest) (*v1.ListPortMappingData, error) {
	caller, err := s.userRepo.GetByID(ctx, userId)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to get user", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	if caller == nil {
		return nil, v1.ErrUnauthorized
	}

	var mappings []*model.PortMapping
	vmNames := make(map[int64]string)
	vmIPs := make(map[int64]string)

	if req.VmID > 0 {
		vm, verr := s.vmRepo.GetByID(ctx, req.VmID)
		if verr != nil {
			s.logger.WithContext(ctx).Error("failed to get vm", zap.Error(verr), zap.Int64("vm_id", req.VmID))
			return nil, v1.ErrInternalServerError
		}
		if vm == nil {
			return nil, v1.ErrNotFound
		}
		if !caller.IsAdmin && vm.OwnerID != userId {
			return nil, v1.ErrNotFound
		}
		mappings, err = s.portRepo.ListByVmID(ctx, req.VmID)
		if err != nil {
			s.logger.WithContext(ctx).Error("failed to list port mappings", zap.Error(err))
			return nil, v1.ErrInternalServerError
		}
		vmNames[vm.Id] = vm.VmName
		vmIPs[vm.Id] = vm.IPAddress
	} else {
		if !caller.IsAdmin {
			// 租户必须指定自己的虚拟机
			return nil, v1.ErrBadRequest
		}
		mappings, err = s.portRepo.ListAll(ctx)
		if err != nil {
			s.logger.WithContext(ctx).Error("failed to list port mappings", zap.Error(err))
			return nil, v1.ErrInternalServerError
		}
		vms, verr := s.vmRepo.ListAll(ctx)
		if verr != nil {
			s.logger.WithContext(ctx).Warn("list mappings: load vms failed", zap.Error(verr))
		}
		for _, vm := range vms {
			vmNames[vm.Id] = vm.VmName
			vmIPs[vm.Id] = vm.IPAddress
		}
	}

	items := make([]v1.PortMappingItem, 0, len(mappings))
	for _, m := range mappings {
		items = append(items, v1.PortMappingItem{
			Id:          m.Id,
			VmID:        m.VmID,
			VmName:      vmNames[m.VmID],
			Protocol:    m.Protocol,
			HostPort:    m.HostPort,
			GuestIP:     vmIPs[m.VmID],
			GuestPort:   m.GuestPort,
			Description: m.Description,
			CreateTime:  m.CreateTime,
		})
	}
	return &v1.ListPortMappingData{Items: items}, nil
}
