package model

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	Id       uint   `gorm:"primarykey"`
	UserId   string `gorm:"unique;not null"`
	Username string `gorm:"unique;not null"`
	Nickname string `gorm:"not null"`
	Password string `gorm:"not null"`
	Email    string `gorm:"not null"`
	IsAdmin  bool   `gorm:"column:is_admin;default:false"`

	// 通知路由：public 接收生命周期事件，private 接收含凭据/错误详情的事件。
	// 两者都为空时该租户不接收通知。
	PublicWebhookURL  string `gorm:"column:public_webhook_url;size:500"`
	PrivateWebhookURL string `gorm:"column:private_webhook_url;size:500"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (u *User) TableName() string {
	return "users"
}
