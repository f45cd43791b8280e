package service

import (
	"context"
	"time"

	v1 "vmxsphere/api/v1"
	"vmxsphere/internal/model"
	"vmxsphere/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	Register(ctx context.Context, req *v1.RegisterRequest) error
	Login(ctx context.Context, req *v1.LoginRequest) (string, error)
	GetProfile(ctx context.Context, userId string) (*v1.GetProfileResponseData, error)
	UpdateProfile(ctx context.Context, userId string, req *v1.UpdateProfileRequest) error

	// 管理员接口
	ListUsers(ctx context.Context, callerId string, req *v1.ListUsersRequest) (*v1.ListUsersData, error)
	AdminUpdateUser(ctx context.Context, callerId, userId string, req *v1.AdminUpdateUserRequest) error
	DeleteUser(ctx context.Context, callerId, userId string) error
}

func NewUserService(service *Service, userRepo repository.UserRepository) UserService {
	return &userService{
		userRepo: userRepo,
		Service:  service,
	}
}

type userService struct {
	userRepo repository.UserRepository
	*Service
}

func (s *userService) Register(ctx context.Context, req *v1.RegisterRequest) error {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return v1.ErrInternalServerError
	}
	if user != nil {
		return v1.ErrEmailAlreadyUse
	}
	user, err = s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return v1.ErrInternalServerError
	}
	if user != nil {
		return v1.ErrUsernameAlreadyUse
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	userId, err := s.sid.GenString()
	if err != nil {
		return err
	}
	user = &model.User{
		UserId:   userId,
		Username: req.Username,
		Nickname: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
	}
	err = s.tm.Transaction(ctx, func(ctx context.Context) error {
		if err = s.userRepo.Create(ctx, user); err != nil {
			return err
		}
		return nil
	})
	return err
}

func (s *userService) Login(ctx context.Context, req *v1.LoginRequest) (string, error) {
	user, err := s.userRepo.GetByAccount(ctx, req.Account)
	if err != nil {
		return "", v1.ErrInternalServerError
	}
	if user == nil {
		return "", v1.ErrUnauthorized
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password))
	if err != nil {
		return "", v1.ErrUnauthorized
	}
	token, err := s.jwt.GenToken(user.UserId, time.Now().Add(time.Hour*24*90))
	if err != nil {
		return "", err
	}

	return token, nil
}

func (s *userService) GetProfile(ctx context.Context, userId string) (*v1.GetProfileResponseData, error) {
	user, err := s.userRepo.GetByID(ctx, userId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, v1.ErrNotFound
	}

	return &v1.GetProfileResponseData{
		UserId:            user.UserId,
		Username:          user.Username,
		Email:             user.Email,
		Nickname:          user.Nickname,
		IsAdmin:           user.IsAdmin,
		PublicWebhookURL:  user.PublicWebhookURL,
		PrivateWebhookURL: user.PrivateWebhookURL,
	}, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userId string, req *v1.UpdateProfileRequest) error {
	user, err := s.userRepo.GetByID(ctx, userId)
	if err != nil {
		return err
	}
	if user == nil {
		return v1.ErrUnauthorized
	}

	if req.Nickname != "" {
		user.Nickname = req.Nickname
	}

	// 修改密码：旧密码校验通过才换新
	if req.OldPassword != "" && req.NewPassword != "" {
		if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
			return v1.ErrUnauthorized
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user.Password = string(hashedPassword)
	}

	if req.PublicWebhookURL != nil {
		user.PublicWebhookURL = *req.PublicWebhookURL
	}
	if req.PrivateWebhookURL != nil {
		user.PrivateWebhookURL = *req.PrivateWebhookURL
	}

	if err = s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	return nil
}

func (s *userService) requireAdmin(ctx context.Context, userId string) (*model.User, error) {
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

func (s *userService) ListUsers(ctx context.Context, callerId string, req *v1.ListUsersRequest) (*v1.ListUsersData, error) {
	if _, err := s.requireAdmin(ctx, callerId); err != nil {
		return nil, err
	}

	page := req.Page
	if page <= 0 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	users, total, err := s.userRepo.ListWithPagination(ctx, page, pageSize, req.Keyword)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to list users", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}

	items := make([]v1.UserItem, 0, len(users))
	for _, u := range users {
		items = append(items, v1.UserItem{
			UserId:    u.UserId,
			Username:  u.Username,
			Nickname:  u.Nickname,
			Email:     u.Email,
			IsAdmin:   u.IsAdmin,
			CreatedAt: u.CreatedAt,
		})
	}
	return &v1.ListUsersData{Total: total, Users: items}, nil
}

func (s *userService) AdminUpdateUser(ctx context.Context, callerId, userId string, req *v1.AdminUpdateUserRequest) error {
	if _, err := s.requireAdmin(ctx, callerId); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, userId)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to get user", zap.Error(err), zap.String("user_id", userId))
		return v1.ErrInternalServerError
	}
	if user == nil {
		return v1.ErrNotFound
	}

	if req.Nickname != "" {
		user.Nickname = req.Nickname
	}
	// 管理员重置密码不需要旧密码
	if req.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user.Password = string(hashedPassword)
	}
	if req.IsAdmin != nil {
		// 不允许摘掉自己的管理员身份，避免把最后一个管理员锁在门外
		if userId == callerId && !*req.IsAdmin {
			return v1.ErrBadRequest
		}
		user.IsAdmin = *req.IsAdmin
	}

	if err = s.userRepo.Update(ctx, user); err != nil {
		s.logger.WithContext(ctx).Error("failed to update user", zap.Error(err), zap.String("user_id", userId))
		return v1.ErrInternalServerError
	}
	return nil
}

func (s *userService) DeleteUser(ctx context.Context, callerId, userId string) error {
	if _, err := s.requireAdmin(ctx, callerId); err != nil {
		return err
	}
	if userId == callerId {
		return v1.ErrBadRequest
	}

	user, err := s.userRepo.GetByID(ctx, userId)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to get user", zap.Error(err), zap.String("user_id", userId))
		return v1.ErrInternalServerError
	}
	if user == nil {
		return v1.ErrNotFound
	}

	if err = s.userRepo.Delete(ctx, userId); err != nil {
		s.logger.WithContext(ctx).Error("failed to delete user", zap.Error(err), zap.String("user_id", userId))
		return v1.ErrInternalServerError
	}
	return nil
}
