package handler

import (
	"net/http"

	v1 "vmxsphere/api/v1"
	"vmxsphere/pkg/jwt"
	"vmxsphere/pkg/log"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	logger *log.Logger
}

func NewHandler(
	logger *log.Logger,
) *Handler {
	return &Handler{
		logger: logger,
	}
}

func GetUserIdFromCtx(ctx *gin.Context) string {
	v, exists := ctx.Get("claims")
	if !exists {
		return ""
	}
	return v.(*jwt.MyCustomClaims).UserId
}

// statusOf 把业务错误映射为 HTTP 状态码，未识别的一律 500
func statusOf(err error) int {
	switch err {
	case v1.ErrBadRequest:
		return http.StatusBadRequest
	case v1.ErrUnauthorized:
		return http.StatusUnauthorized
	case v1.ErrForbidden:
		return http.StatusForbidden
	case v1.ErrNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
