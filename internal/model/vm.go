package model

import (
	"time"
)

// VM 一台托管在 VMware Workstation 宿主机上、租给单个租户的虚拟机。
// 虚拟机由 .vmx 路径唯一定位，电源状态由宿主机巡检回填。
type VM struct {
	Id           int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	VmName       string `json:"vm_name" gorm:"column:vm_name;uniqueIndex;size:100"`
	VmxPath      string `json:"vmx_path" gorm:"column:vmx_path;uniqueIndex;size:500"`
	TemplatePath string `json:"template_path" gorm:"column:template_path;size:500"` // 重装时的克隆源模板
	OwnerID      string `json:"owner_id" gorm:"column:owner_id;index;size:50"`      // 租户 user_id

	CPUNum     int `json:"cpu_num" gorm:"column:cpu_num"`
	MemorySize int `json:"memory_size" gorm:"column:memory_size"` // MB

	MacAddress string `json:"mac_address" gorm:"column:mac_address;size:20"`
	IPAddress  string `json:"ip_address" gorm:"column:ip_address;size:40"` // NAT 网段内的固定 IP
	Gateway    string `json:"gateway" gorm:"column:gateway;size:40"`
	DNS        string `json:"dns" gorm:"column:dns;size:100"` // 逗号分隔

	GuestUser     string `json:"guest_user" gorm:"column:guest_user;size:100"`
	GuestPassword string `json:"-" gorm:"column:guest_password;size:100"`

	RdpHost string `json:"rdp_host" gorm:"column:rdp_host;size:200"` // 对外 RDP 接入点（域名或IP）
	RdpPort int    `json:"rdp_port" gorm:"column:rdp_port"`

	VNCEnabled  bool   `json:"vnc_enabled" gorm:"column:vnc_enabled;default:false"`
	VNCPort     int    `json:"vnc_port" gorm:"column:vnc_port"`
	VNCPassword string `json:"-" gorm:"column:vnc_password;size:20"`

	PowerState string `json:"power_state" gorm:"column:power_state;size:20;default:'unknown';index"`

	// 任务三元组：task_state 只有 idle / running 两个持久值，
	// 失败原因留在 task_message 里，进度回到 0。
	TaskState    string `json:"task_state" gorm:"column:task_state;size:20;default:'idle';index"`
	TaskProgress int    `json:"task_progress" gorm:"column:task_progress;default:0"`
	TaskMessage  string `json:"task_message" gorm:"column:task_message;type:text"`

	LeaseExpiresAt *time.Time `json:"lease_expires_at" gorm:"column:lease_expires_at;index"`

	Creator     string    `json:"creator" gorm:"column:creator;size:100"`
	Modifier    string    `json:"modifier" gorm:"column:modifier;size:100"`
	Description string    `json:"description" gorm:"column:description;size:500"`
	CreateTime  time.Time `json:"create_time" gorm:"column:gmt_create;autoCreateTime"`
	UpdateTime  time.Time `json:"update_time" gorm:"column:gmt_modified;autoUpdateTime"`

	ResourceHash string    `json:"resource_hash" gorm:"column:resource_hash;index"`
	LastSyncTime time.Time `json:"last_sync_time" gorm:"column:last_sync_time"` // 宿主机巡检最近一次看到它的时间

	// 以下字段仅用于查询时的 JOIN 填充，不存储在数据库中
	OwnerName string `json:"owner_name,omitempty" gorm:"-"` // 从 users 表查询填充
}

func (VM) TableName() string {
	return "vm"
}

// VMPowerState 电源状态常量
const (
	VMPowerStateRunning = "running"
	VMPowerStateStopped = "stopped"
	VMPowerStateUnknown = "unknown"
)

// VMTaskState 任务状态常量（持久化只用这两个值）
const (
	VMTaskStateIdle    = "idle"
	VMTaskStateRunning = "running"
)
