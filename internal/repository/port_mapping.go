package repository

import (
	"context"
	"errors"

	"vmxsphere/internal/model"

	"gorm.io/gorm"
)

type PortMappingRepository interface {
	Create(ctx context.Context, pm *model.PortMapping) error
	Delete(ctx context.Context, id int64) error
	DeleteByVmID(ctx context.Context, vmID int64) error
	GetByID(ctx context.Context, id int64) (*model.PortMapping, error)
	GetByHostPort(ctx context.Context, protocol string, hostPort int) (*model.PortMapping, error)
	ListByVmID(ctx context.Context, vmID int64) ([]*model.PortMapping, error)
	ListAll(ctx context.Context) ([]*model.PortMapping, error)
	Count(ctx context.Context) (int64, error)
}

func NewPortMappingRepository(r *Repository) PortMappingRepository {
	return &portMappingRepository{Repository: r}
}

type portMappingRepository struct {
	*Repository
}

func (r *portMappingRepository) Create(ctx context.Context, pm *model.PortMapping) error {
	return r.DB(ctx).Create(pm).Error
}

func (r *portMappingRepository) Delete(ctx context.Context, id int64) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&model.PortMapping{}).Error
}

func (r *portMappingRepository) DeleteByVmID(ctx context.Context, vmID int64) error {
	return r.DB(ctx).Where("vm_id = ?", vmID).Delete(&model.PortMapping{}).Error
}

func (r *portMappingRepository) GetByID(ctx context.Context, id int64) (*model.PortMapping, error) {
	var pm model.PortMapping
	if err := r.DB(ctx).Where("id = ?", id).First(&pm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pm, nil
}

func (r *portMappingRepository) GetByHostPort(ctx context.Context, protocol string, hostPort int) (*model.PortMapping, error) {
	var pm model.PortMapping
	if err := r.DB(ctx).Where("protocol = ? AND host_port = ?", protocol, hostPort).First(&pm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pm, nil
}

func (r *portMappingRepository) ListByVmID(ctx context.Context, vmID int64) ([]*model.PortMapping, error) {
	var pms []*model.PortMapping
	if err := r.DB(ctx).Where("vm_id = ?", vmID).Order("host_port ASC").Find(&pms).Error; err != nil {
		return nil, err
	}
	return pms, nil
}

func (r *portMappingRepository) ListAll(ctx context.Context) ([]*model.PortMapping, error) {
	var pms []*model.PortMapping
	if err := r.DB(ctx).Order("host_port ASC").Find(&pms).Error; err != nil {
		return nil, err
	}
	return pms, nil
}

func (r *portMappingRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.DB(ctx).Model(&model.PortMapping{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
