package v1

import "time"

// 端口映射相关 API 定义

// CreatePortMappingRequest 新建端口映射请求
type CreatePortMappingRequest struct {
	VmID        int64  `json:"vm_id" binding:"required" example:"1"`
	Protocol    string `json:"protocol" binding:"required,oneof=tcp udp" example:"tcp"`
	HostPort    int    `json:"host_port" binding:"required,min=1024,max=65535" example:"40042"` // 宿主机对外端口
	GuestPort   int    `json:"guest_port" binding:"required,min=1,max=65535" example:"3389"`    // 客户机内部端口
	Description string `json:"description,omitempty" example:"rdp"`
}

// ListPortMappingRequest 端口映射列表请求
type ListPortMappingRequest struct {
	VmID int64 `form:"vm_id" example:"1"` // 0 表示全部（仅管理员）
}

// ListPortMappingResponse 端口映射列表响应
type ListPortMappingResponse struct {
	Response
	Data ListPortMappingData
}

type ListPortMappingData struct {
	Items []PortMappingItem `json:"items"`
}

type PortMappingItem struct {
	Id          int64     `json:"id"`
	VmID        int64     `json:"vm_id"`
	VmName      string    `json:"vm_name"` // 冗余字段，用于显示
	Protocol    string    `json:"protocol"`
	HostPort    int       `json:"host_port"`
	GuestIP     string    `json:"guest_ip"`
	GuestPort   int       `json:"guest_port"`
	Description string    `json:"description"`
	CreateTime  time.Time `json:"create_time"`
}
