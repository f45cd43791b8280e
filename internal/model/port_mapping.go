package model

import "time"

// PortMapping 宿主机 NAT 端口到客户机端口的转发规则。
// (protocol, host_port) 全局唯一，实际生效由 vmnet 代理落地。
type PortMapping struct {
	Id          int64     `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	VmID        int64     `json:"vm_id" gorm:"column:vm_id;index;not null"`
	Protocol    string    `json:"protocol" gorm:"column:protocol;size:10;not null;uniqueIndex:uk_proto_host_port"`
	HostPort    int       `json:"host_port" gorm:"column:host_port;not null;uniqueIndex:uk_proto_host_port"`
	GuestPort   int       `json:"guest_port" gorm:"column:guest_port;not null"`
	Description string    `json:"description" gorm:"column:description;size:200"`
	Creator     string    `json:"creator" gorm:"column:creator;size:100"`
	CreateTime  time.Time `json:"create_time" gorm:"column:gmt_create;autoCreateTime"`
	UpdateTime  time.Time `json:"update_time" gorm:"column:gmt_modified;autoUpdateTime"`
}

func (PortMapping) TableName() string {
	return "port_mapping"
}
