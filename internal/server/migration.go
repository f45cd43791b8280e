package server

import (
	"context"
	"os"

	"vmxsphere/internal/model"
	"vmxsphere/internal/repository"
	"vmxsphere/pkg/log"
	"vmxsphere/pkg/sid"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type MigrateServer struct {
	db       *gorm.DB
	log      *log.Logger
	userRepo repository.UserRepository
	sid      *sid.Sid
}

func NewMigrateServer(db *gorm.DB, log *log.Logger, userRepo repository.UserRepository, sid *sid.Sid) *MigrateServer {
	return &MigrateServer{
		db:       db,
		log:      log,
		userRepo: userRepo,
		sid:      sid,
	}
}
func (m *MigrateServer) Start(ctx context.Context) error {
	if err := m.db.AutoMigrate(
		&model.User{},
		&model.VM{},
		&model.PortMapping{},
		&model.AuditLog{},
	); err != nil {
		m.log.Error("migrate error", zap.Error(err))
		return err
	}
	m.log.Info("AutoMigrate success")

	// 创建默认管理员
	if err := m.createDefaultAdmin(ctx); err != nil {
		m.log.Error("create default admin error", zap.Error(err))
		return err
	}

	os.Exit(0)
	return nil
}

// createDefaultAdmin 首次部署时种一个管理员账号，已存在则跳过
func (m *MigrateServer) createDefaultAdmin(ctx context.Context) error {
	defaultUsername := "admin"
	defaultEmail := "vmxsphere@gmail.com"
	defaultPassword := "Ab123456"
	defaultNickname := "VmxSphere Admin"

	existingUser, err := m.userRepo.GetByEmail(ctx, defaultEmail)
	if err != nil {
		m.log.Error("check default admin error", zap.Error(err))
		return err
	}
	if existingUser != nil {
		m.log.Info("default admin already exists", zap.String("email", defaultEmail))
		return nil
	}

	existingUser, err = m.userRepo.GetByUsername(ctx, defaultUsername)
	if err != nil {
		m.log.Error("check default username error", zap.Error(err))
		return err
	}
	if existingUser != nil {
		m.log.Info("default username already exists", zap.String("username", defaultUsername))
		return nil
	}

	userId, err := m.sid.GenString()
	if err != nil {
		m.log.Error("generate user id error", zap.Error(err))
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		m.log.Error("hash password error", zap.Error(err))
		return err
	}

	user := &model.User{
		UserId:   userId,
		Username: defaultUsername,
		Email:    defaultEmail,
		Password: string(hashedPassword),
		Nickname: defaultNickname,
		IsAdmin:  true,
	}

	if err := m.userRepo.Create(ctx, user); err != nil {
		m.log.Error("create default admin error", zap.Error(err))
		return err
	}

	m.log.Info("default admin created successfully",
		zap.String("username", defaultUsername),
		zap.String("email", defaultEmail),
		zap.String("userId", userId))
	return nil
}
func (m *MigrateServer) Stop(ctx context.Context) error {
	m.log.Info("AutoMigrate stop")
	return nil
}
