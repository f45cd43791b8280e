package handler

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	v1 "vmxsphere/api/v1"
	"vmxsphere/internal/middleware"
	mock_service "vmxsphere/internal/service/mocks"
	"vmxsphere/pkg/jwt"
	"vmxsphere/pkg/log"

	"github.com/gavv/httpexpect/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

type userHandlerFixture struct {
	mock *mock_service.MockUserService
	jwt  *jwt.JWT
	e    *httpexpect.Expect
}

func newUserHandlerFixture(t *testing.T) *userHandlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conf := viper.New()
	conf.Set("security.jwt.key", "test-signing-key")
	conf.Set("log.log_file_name", filepath.Join(t.TempDir(), "test.log"))
	logger := log.NewLog(conf)
	j := jwt.NewJwt(conf)

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockSvc := mock_service.NewMockUserService(ctrl)

	userHandler := NewUserHandler(NewHandler(logger), mockSvc)

	r := gin.New()
	api := r.Group("/api/v1")
	api.POST("/register", userHandler.Register)
	api.POST("/login", userHandler.Login)
	authed := api.Group("/").Use(middleware.StrictAuth(j, logger))
	authed.GET("/user", userHandler.GetProfile)
	authed.PUT("/user", userHandler.UpdateProfile)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &userHandlerFixture{
		mock: mockSvc,
		jwt:  j,
		e:    httpexpect.Default(t, srv.URL),
	}
}

func (f *userHandlerFixture) token(t *testing.T, userId string) string {
	t.Helper()
	token, err := f.jwt.GenToken(userId, time.Now().Add(time.Hour))
	require.NoError(t, err)
	return "Bearer " + token
}

func TestUserHandler_Register(t *testing.T) {
	f := newUserHandlerFixture(t)
	f.mock.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil)

	obj := f.e.POST("/api/v1/register").
		WithJSON(v1.RegisterRequest{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "secret1",
		}).
		Expect().Status(http.StatusOK).JSON().Object()
	obj.Value("code").IsEqual(0)
}

func TestUserHandler_RegisterBadPayload(t *testing.T) {
	f := newUserHandlerFixture(t)
	// 缺 email，binding 直接拦下，service 不应被调用

	f.e.POST("/api/v1/register").
		WithJSON(map[string]string{"username": "alice", "password": "secret1"}).
		Expect().Status(http.StatusBadRequest)
}

func TestUserHandler_Login(t *testing.T) {
	f := newUserHandlerFixture(t)
	f.mock.EXPECT().Login(gomock.Any(), gomock.Any()).Return("signed-token", nil)

	obj := f.e.POST("/api/v1/login").
		WithJSON(v1.LoginRequest{Account: "alice", Password: "secret1"}).
		Expect().Status(http.StatusOK).JSON().Object()
	obj.Path("$.data.accessToken").IsEqual("signed-token")
}

func TestUserHandler_LoginRejected(t *testing.T) {
	f := newUserHandlerFixture(t)
	f.mock.EXPECT().Login(gomock.Any(), gomock.Any()).Return("", v1.ErrUnauthorized)

	obj := f.e.POST("/api/v1/login").
		WithJSON(v1.LoginRequest{Account: "alice", Password: "wrong"}).
		Expect().Status(http.StatusUnauthorized).JSON().Object()
	obj.Value("code").IsEqual(401)
}

func TestUserHandler_GetProfile(t *testing.T) {
	f := newUserHandlerFixture(t)
	f.mock.EXPECT().GetProfile(gomock.Any(), "u-1001").Return(&v1.GetProfileResponseData{
		UserId:   "u-1001",
		Username: "alice",
		Email:    "alice@example.com",
		Nickname: "Alice",
	}, nil)

	obj := f.e.GET("/api/v1/user").
		WithHeader("Authorization", f.token(t, "u-1001")).
		Expect().Status(http.StatusOK).JSON().Object()
	obj.Path("$.data.username").IsEqual("alice")
	obj.Path("$.data.userId").IsEqual("u-1001")
}

func TestUserHandler_GetProfileNoToken(t *testing.T) {
	f := newUserHandlerFixture(t)

	f.e.GET("/api/v1/user").
		Expect().Status(http.StatusUnauthorized)
}

func TestUserHandler_GetProfileBadToken(t *testing.T) {
	f := newUserHandlerFixture(t)

	f.e.GET("/api/v1/user").
		WithHeader("Authorization", "Bearer not-a-jwt").
		Expect().Status(http.StatusUnauthorized)
}

func TestUserHandler_UpdateProfile(t *testing.T) {
	f := newUserHandlerFixture(t)
	pub := "https://hooks.example.com/pub"
	f.mock.EXPECT().UpdateProfile(gomock.Any(), "u-1001", gomock.Any()).Return(nil)

	f.e.PUT("/api/v1/user").
		WithHeader("Authorization", f.token(t, "u-1001")).
		WithJSON(v1.UpdateProfileRequest{Nickname: "Alan", PublicWebhookURL: &pub}).
		Expect().Status(http.StatusOK)
}

func TestUserHandler_UpdateProfilePasswordPairRequired(t *testing.T) {
	f := newUserHandlerFixture(t)
	// 只给新密码不给旧密码，应当在 handler 层被拒绝

	f.e.PUT("/api/v1/user").
		WithHeader("Authorization", f.token(t, "u-1001")).
		WithJSON(v1.UpdateProfileRequest{NewPassword: "newpass1"}).
		Expect().Status(http.StatusBadRequest)
}
