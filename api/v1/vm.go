package v1

import "time"

// VM 相关 API 定义

// CreateVMRequest 登记虚拟机请求
// 虚拟机本体必须已存在于宿主机上（由模板克隆或人工导入），
// 这里只登记它的 .vmx 路径并绑定租户。
type CreateVMRequest struct {
	VmName       string `json:"vm_name" binding:"required" example:"ws-0042"`                          // 虚拟机名称（唯一）
	VmxPath      string `json:"vmx_path" binding:"required" example:"D:\\VMs\\ws-0042\\ws-0042.vmx"`   // 宿主机上的 .vmx 路径
	TemplatePath string `json:"template_path,omitempty" example:"D:\\Templates\\win10\\win10.vmx"`     // 重装时的克隆源模板
	OwnerID      string `json:"owner_id,omitempty" example:"usr-9f2kQ"`                                // 租户用户ID（可选，未绑定则仅管理员可见）
	CPUNum       *int   `json:"cpu_num,omitempty" example:"2"`                                         // CPU核心数（可选，不设置则读取 .vmx）
	MemorySize   *int   `json:"memory_size,omitempty" example:"4096"`                                  // 内存大小MB（可选，不设置则读取 .vmx）
	IPAddress    string `json:"ip_address,omitempty" example:"192.168.119.130"`                        // 期望的固定内网IP（可选）
	GuestUser    string `json:"guest_user,omitempty" example:"Administrator"`                          // 客户机账号（可选，默认取全局配置）
	GuestPassword string `json:"guest_password,omitempty" example:"secret"`                            // 客户机口令（可选，默认取全局配置）
	RdpPort      *int   `json:"rdp_port,omitempty" example:"3389"`                                     // 对外 RDP 端口（可选）
	LeaseDays    *int   `json:"lease_days,omitempty" example:"30"`                                     // 租期天数（可选，不传则不限期）
	Description  string `json:"description,omitempty" example:"游戏挂机机"`                                 // 描述（可选）
}

// UpdateVMRequest 更新虚拟机请求
type UpdateVMRequest struct {
	VmName        *string `json:"vm_name,omitempty"`
	TemplatePath  *string `json:"template_path,omitempty"`
	OwnerID       *string `json:"owner_id,omitempty"`
	CPUNum        *int    `json:"cpu_num,omitempty"`
	MemorySize    *int    `json:"memory_size,omitempty"`
	GuestUser     *string `json:"guest_user,omitempty"`
	GuestPassword *string `json:"guest_password,omitempty"`
	RdpPort       *int    `json:"rdp_port,omitempty"`
	Description   *string `json:"description,omitempty"`
}

// ListVMRequest 列表查询请求
type ListVMRequest struct {
	Page       int    `form:"page" example:"1"`
	PageSize   int    `form:"page_size" binding:"omitempty,max=100" example:"10"`
	OwnerID    string `form:"owner_id" example:"usr-9f2kQ"`    // 按租户过滤（仅管理员）
	PowerState string `form:"power_state" example:"running"`   // running / stopped / unknown
	TaskState  string `form:"task_state" example:"running"`    // idle / running
	Keyword    string `form:"keyword" example:"ws-00"`         // 名称模糊匹配
}

// ListVMResponse 列表查询响应
type ListVMResponse struct {
	Response
	Data ListVMResponseData
}

type ListVMResponseData struct {
	Total int64    `json:"total"`
	List  []VMItem `json:"list"`
}

type VMItem struct {
	Id             int64      `json:"id"`
	VmName         string     `json:"vm_name"`
	OwnerID        string     `json:"owner_id"`
	OwnerName      string     `json:"owner_name"` // 冗余字段，用于显示
	CPUNum         int        `json:"cpu_num"`
	MemorySize     int        `json:"memory_size"`
	IPAddress      string     `json:"ip_address"`
	PowerState     string     `json:"power_state"`
	TaskState      string     `json:"task_state"`
	TaskProgress   int        `json:"task_progress"`
	TaskMessage    string     `json:"task_message"`
	LeaseExpiresAt *time.Time `json:"lease_expires_at,omitempty"`
}

// GetVMResponse 详情查询响应
type GetVMResponse struct {
	Response
	Data VMDetail
}

type VMDetail struct {
	Id             int64      `json:"id"`
	VmName         string     `json:"vm_name"`
	VmxPath        string     `json:"vmx_path"`      // 仅管理员可见
	TemplatePath   string     `json:"template_path"` // 仅管理员可见
	OwnerID        string     `json:"owner_id"`
	OwnerName      string     `json:"owner_name"`
	CPUNum         int        `json:"cpu_num"`
	MemorySize     int        `json:"memory_size"`
	MacAddress     string     `json:"mac_address"`
	IPAddress      string     `json:"ip_address"`
	Gateway        string     `json:"gateway"`
	DNS            string     `json:"dns"`
	GuestUser      string     `json:"guest_user"`
	RdpHost        string     `json:"rdp_host"`
	RdpPort        int        `json:"rdp_port"`
	VNCEnabled     bool       `json:"vnc_enabled"`
	VNCPort        int        `json:"vnc_port"`
	PowerState     string     `json:"power_state"`
	TaskState      string     `json:"task_state"`
	TaskProgress   int        `json:"task_progress"`
	TaskMessage    string     `json:"task_message"`
	LeaseExpiresAt *time.Time `json:"lease_expires_at,omitempty"`
	Description    string     `json:"description"`
	CreateTime     time.Time  `json:"create_time"`
	UpdateTime     time.Time  `json:"update_time"`
}

// ========================
// 电源操作
// ========================

// StopVMRequest 关机请求
type StopVMRequest struct {
	Hard bool `json:"hard" example:"false"` // true=强制断电，false=请求客户机软关机
}

// ResetVMRequest 重启请求
type ResetVMRequest struct {
	Hard bool `json:"hard" example:"false"`
}

// ========================
// 重装任务
// ========================

// ReinstallVMResponse 触发重装响应（任务异步执行，调用方轮询任务状态）
type ReinstallVMResponse struct {
	Response
	Data ReinstallVMResponseData
}

type ReinstallVMResponseData struct {
	VmID      int64  `json:"vm_id"`
	TaskState string `json:"task_state" example:"running"`
}

// GetVMTaskResponse 任务状态轮询响应
type GetVMTaskResponse struct {
	Response
	Data VMTaskStatus
}

type VMTaskStatus struct {
	TaskState    string `json:"task_state" example:"running"` // idle / running
	TaskProgress int    `json:"task_progress" example:"45"`   // 0-100
	TaskMessage  string `json:"task_message" example:"waiting for guest ip"`
}

// ListTaskEventsRequest 任务事件流水查询请求
type ListTaskEventsRequest struct {
	Limit int `form:"limit" example:"50"` // 最近 N 条，默认 50
}

// ListTaskEventsResponse 任务事件流水响应
type ListTaskEventsResponse struct {
	Response
	Data ListTaskEventsData
}

type ListTaskEventsData struct {
	Items []TaskEventItem `json:"items"`
}

type TaskEventItem struct {
	RunID     string    `json:"run_id"`                          // 一次重装的唯一标识
	Stage     string    `json:"stage" example:"restoring"`       // 阶段名
	Progress  int       `json:"progress" example:"20"`           // 阶段完成后的进度
	Level     string    `json:"level" example:"info"`            // info / warning / error
	Message   string    `json:"message"`                         // 详情
	CreatedAt time.Time `json:"created_at"`
}

// GetTaskStreamTokenResponse 任务进度 WebSocket 一次性令牌响应
type GetTaskStreamTokenResponse struct {
	Response
	Data TaskStreamTokenData
}

type TaskStreamTokenData struct {
	WsToken   string `json:"ws_token"`
	ExpiresIn int    `json:"expires_in" example:"60"` // 秒
}

// ========================
// 网络与访问
// ========================

// SetStaticIPRequest 设置固定内网 IP 请求
type SetStaticIPRequest struct {
	IPAddress string `json:"ip_address" binding:"required,ip" example:"192.168.119.130"`
}

// SetVNCRequest 配置内建 VNC 请求（需要关机状态）
type SetVNCRequest struct {
	Enabled  bool   `json:"enabled" example:"true"`
	Port     int    `json:"port" binding:"omitempty,min=5900,max=5999" example:"5901"`
	Password string `json:"password" binding:"omitempty,max=8" example:"s3cret"` // VMware 限制 8 字符
}

// ListSnapshotsResponse 快照列表响应
type ListSnapshotsResponse struct {
	Response
	Data ListSnapshotsData
}

type ListSnapshotsData struct {
	Items []string `json:"items"`
}

// CreateSnapshotRequest 名字长度限制对齐 vmrun 的实际容忍度
type CreateSnapshotRequest struct {
	Name string `json:"name" binding:"required,max=50" example:"before-update"`
}

type RevertSnapshotRequest struct {
	Name string `json:"name" binding:"required,max=50" example:"before-update"`
}

// RenewLeaseRequest 续租请求（仅管理员）
type RenewLeaseRequest struct {
	// 二选一：直接指定到期时间，或在当前基础上顺延天数
	LeaseExpiresAt *time.Time `json:"lease_expires_at,omitempty" example:"2026-01-31T00:00:00Z"`
	ExtendDays     *int       `json:"extend_days,omitempty" example:"30"`
}
