package v1

import "time"

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=20" example:"alice"`
	Email    string `json:"email" binding:"required,email" example:"1234@gmail.com"`
	Password string `json:"password" binding:"required,min=6" example:"123456"`
}

type LoginRequest struct {
	Account  string `json:"account" binding:"required" example:"alice"` // 支持用户名或邮箱登录
	Password string `json:"password" binding:"required" example:"123456"`
}
type LoginResponseData struct {
	AccessToken string `json:"accessToken"`
}
type LoginResponse struct {
	Response
	Data LoginResponseData
}

type UpdateProfileRequest struct {
	Nickname    string `json:"nickname" example:"alan"`
	OldPassword string `json:"oldPassword" example:"oldpassword"`
	NewPassword string `json:"newPassword" example:"newpassword"`
	// 通知 webhook：public 接收生命周期事件，private 接收含凭据/错误详情的事件
	PublicWebhookURL  *string `json:"public_webhook_url,omitempty" example:"https://discord.com/api/webhooks/..."`
	PrivateWebhookURL *string `json:"private_webhook_url,omitempty" example:"https://discord.com/api/webhooks/..."`
}
type GetProfileResponseData struct {
	UserId            string `json:"userId"`
	Username          string `json:"username" example:"alice"`
	Email             string `json:"email" example:"vmxsphere@gmail.com"`
	Nickname          string `json:"nickname" example:"alan"`
	IsAdmin           bool   `json:"is_admin"`
	PublicWebhookURL  string `json:"public_webhook_url"`
	PrivateWebhookURL string `json:"private_webhook_url"`
}
type GetProfileResponse struct {
	Response
	Data GetProfileResponseData
}

type ListUsersRequest struct {
	Page     int    `form:"page" example:"1"`
	PageSize int    `form:"page_size" example:"20"`
	Keyword  string `form:"keyword" example:"alice"` // 匹配用户名/邮箱/昵称
}
type UserItem struct {
	UserId    string    `json:"userId"`
	Username  string    `json:"username"`
	Nickname  string    `json:"nickname"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}
type ListUsersData struct {
	Total int64      `json:"total"`
	Users []UserItem `json:"users"`
}
type ListUsersResponse struct {
	Response
	Data ListUsersData
}

type AdminUpdateUserRequest struct {
	Nickname string `json:"nickname" example:"alan"`
	Password string `json:"password" example:"newpassword"` // 管理员重置，无需旧密码
	IsAdmin  *bool  `json:"is_admin,omitempty"`
}
