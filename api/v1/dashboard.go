package v1

// Dashboard 相关 API 定义

// DashboardOverviewResponse 全局概览响应
type DashboardOverviewResponse struct {
	Response
	Data DashboardOverviewData `json:"data"`
}

type DashboardOverviewData struct {
	Summary DashboardSummary `json:"summary"` // 概览统计
	Leases  DashboardLeases  `json:"leases"`  // 租期状态
	Host    DashboardHost    `json:"host"`    // 宿主机状态
}

type DashboardSummary struct {
	VMCount          int64 `json:"vm_count" example:"32"`           // 虚拟机总数
	RunningCount     int64 `json:"running_count" example:"27"`      // 运行中数量
	StoppedCount     int64 `json:"stopped_count" example:"5"`       // 已关机数量
	TaskRunningCount int64 `json:"task_running_count" example:"2"`  // 重装进行中数量
	UserCount        int64 `json:"user_count" example:"18"`         // 租户数量
	PortMappingCount int64 `json:"port_mapping_count" example:"64"` // 端口映射数量
}

type DashboardLeases struct {
	ExpiringIn7d int64 `json:"expiring_in_7d" example:"3"` // 7 天内到期
	Expired      int64 `json:"expired" example:"1"`        // 已到期
}

type DashboardHost struct {
	Reachable    bool  `json:"reachable" example:"true"`    // vmrun 是否可用
	RunningVMs   int64 `json:"running_vms" example:"27"`    // vmrun list 统计
	UntrackedVMs int64 `json:"untracked_vms" example:"0"`   // 在宿主机运行但未登记的数量
}

// DashboardTasksResponse 最近重装任务响应
type DashboardTasksResponse struct {
	Response
	Data DashboardTasksData `json:"data"`
}

type DashboardTasksData struct {
	Items []RecentTaskItem `json:"items"`
}

type RecentTaskItem struct {
	VmID       int64  `json:"vm_id" example:"1"`
	VmName     string `json:"vm_name" example:"ws-0042"`
	RunID      string `json:"run_id"`
	Outcome    string `json:"outcome" example:"success"` // success / warning / failure / running
	Message    string `json:"message"`
	StartedAt  string `json:"started_at" example:"2026-01-12T08:01:00Z"`
	FinishedAt string `json:"finished_at,omitempty" example:"2026-01-12T08:06:30Z"`
}
