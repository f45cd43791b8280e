package informer

import (
	"context"
)

// InventoryVM 宿主机巡检看到的一台运行中的虚拟机。
// 规格和 MAC 就地从 .vmx 读取，读不到留零值。
// 资源以 .vmx 路径为键，同一台虚拟机在运行集里只会出现一次。
type InventoryVM struct {
	VmxPath    string `json:"vmx_path"`
	CPUNum     int    `json:"cpu_num"`
	MemorySize int    `json:"memory_size"`
	MacAddress string `json:"mac_address"`
}

// DeltaType 表示运行集条目的变化类型
type DeltaType string

const (
	DeltaAdded   DeltaType = "Added"
	DeltaUpdated DeltaType = "Updated"
	DeltaDeleted DeltaType = "Deleted"
)

// Delta 运行集的一次变化。Updated 时 Prev 是入队时缓存里的旧条目。
type Delta struct {
	Type DeltaType
	VM   *InventoryVM
	Prev *InventoryVM
}

// EventHandler 处理运行集变化事件
type EventHandler interface {
	OnAdd(vm *InventoryVM) error
	OnUpdate(oldVM, newVM *InventoryVM) error
	OnDelete(vm *InventoryVM) error
}

// Store 以 .vmx 路径为键的本地缓存
type Store interface {
	Upsert(vm *InventoryVM)
	Delete(vmxPath string)
	Get(vmxPath string) (*InventoryVM, bool)
	List() []*InventoryVM
	Keys() []string
}

// ListWatcher 运行集数据源。Watch 用轮询模拟：
// 版本没变时返回原版本和空集，变了返回新版本和全量条目。
type ListWatcher interface {
	List(ctx context.Context) ([]*InventoryVM, error)
	Watch(ctx context.Context, version string) (string, []*InventoryVM, error)
	Version(items []*InventoryVM) string
}
