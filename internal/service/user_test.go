package service

import (
	"context"
	"path/filepath"
	"testing"

	v1 "vmxsphere/api/v1"
	"vmxsphere/internal/model"
	"vmxsphere/pkg/jwt"
	"vmxsphere/pkg/log"
	"vmxsphere/pkg/sid"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserServiceFixture(t *testing.T, users ...*model.User) UserService {
	t.Helper()

	conf := viper.New()
	conf.Set("security.jwt.key", "test-key")
	conf.Set("log.log_file_name", filepath.Join(t.TempDir(), "test.log"))
	logger := log.NewLog(conf)

	base := NewService(fakeTx{}, logger, sid.NewSid(), jwt.NewJwt(conf))
	return NewUserService(base, newFakeUserRepo(users...))
}

func TestListUsersRequiresAdmin(t *testing.T) {
	svc := newUserServiceFixture(t,
		&model.User{UserId: "u-tenant", Username: "tenant"},
	)

	_, err := svc.ListUsers(context.Background(), "u-tenant", &v1.ListUsersRequest{})
	assert.ErrorIs(t, err, v1.ErrForbidden)

	_, err = svc.ListUsers(context.Background(), "u-ghost", &v1.ListUsersRequest{})
	assert.ErrorIs(t, err, v1.ErrUnauthorized)
}

func TestAdminUpdateUserSelfDemotionRejected(t *testing.T) {
	svc := newUserServiceFixture(t,
		&model.User{UserId: "u-admin", Username: "admin", IsAdmin: true},
	)

	demote := false
	err := svc.AdminUpdateUser(context.Background(), "u-admin", "u-admin",
		&v1.AdminUpdateUserRequest{IsAdmin: &demote})
	assert.ErrorIs(t, err, v1.ErrBadRequest)
}

func TestAdminUpdateUserTargetNotFound(t *testing.T) {
	svc := newUserServiceFixture(t,
		&model.User{UserId: "u-admin", Username: "admin", IsAdmin: true},
	)

	err := svc.AdminUpdateUser(context.Background(), "u-admin", "u-missing",
		&v1.AdminUpdateUserRequest{Nickname: "X"})
	assert.ErrorIs(t, err, v1.ErrNotFound)
}

func TestDeleteUserGuards(t *testing.T) {
	svc := newUserServiceFixture(t,
		&model.User{UserId: "u-admin", Username: "admin", IsAdmin: true},
		&model.User{UserId: "u-tenant", Username: "tenant"},
	)
	ctx := context.Background()

	// 不允许删除自己
	assert.ErrorIs(t, svc.DeleteUser(ctx, "u-admin", "u-admin"), v1.ErrBadRequest)

	// 非管理员不允许删人
	assert.ErrorIs(t, svc.DeleteUser(ctx, "u-tenant", "u-admin"), v1.ErrForbidden)

	assert.ErrorIs(t, svc.DeleteUser(ctx, "u-admin", "u-missing"), v1.ErrNotFound)

	require.NoError(t, svc.DeleteUser(ctx, "u-admin", "u-tenant"))
}
