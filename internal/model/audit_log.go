package model

import "time"

// AuditLog 面板操作审计（只增不改）
type AuditLog struct {
	Id         int64     `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	UserID     string    `json:"user_id" gorm:"column:user_id;index;size:50"`
	Action     string    `json:"action" gorm:"column:action;index;size:50"` // 形如 vm.start / vm.reinstall / port.create
	Target     string    `json:"target" gorm:"column:target;size:200"`      // 操作对象（虚拟机名等）
	Detail     string    `json:"detail" gorm:"column:detail;type:text"`
	ClientIP   string    `json:"client_ip" gorm:"column:client_ip;size:50"`
	CreateTime time.Time `json:"create_time" gorm:"column:gmt_create;autoCreateTime"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}

// 审计动作常量
const (
	AuditActionVMCreate     = "vm.create"
	AuditActionVMUpdate     = "vm.update"
	AuditActionVMDelete     = "vm.delete"
	AuditActionVMStart      = "vm.start"
	AuditActionVMStop       = "vm.stop"
	AuditActionVMReset      = "vm.reset"
	AuditActionVMReinstall  = "vm.reinstall"
	AuditActionVMStaticIP   = "vm.static_ip"
	AuditActionVMVNC        = "vm.vnc"
	AuditActionVMLease      = "vm.lease"
	AuditActionVMSnapCreate = "vm.snapshot_create"
	AuditActionVMSnapRevert = "vm.snapshot_revert"
	AuditActionVMSnapDelete = "vm.snapshot_delete"
	AuditActionPortCreate   = "port.create"
	AuditActionPortDelete   = "port.delete"
)
