package informer

import (
	"context"
	"fmt"
	"time"

	"vmxsphere/pkg/hash"
	"vmxsphere/pkg/vmrun"
)

// HostListWatcher 宿主机运行集监听器。
// vmrun list 的输出就是被监听的资源，集合内容的哈希充当资源版本。
type HostListWatcher struct {
	client       *vmrun.Client
	pollInterval time.Duration
}

func NewHostListWatcher(client *vmrun.Client) ListWatcher {
	return &HostListWatcher{
		client:       client,
		pollInterval: 5 * time.Second,
	}
}

func (w *HostListWatcher) List(ctx context.Context) ([]*InventoryVM, error) {
	paths, err := w.client.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*InventoryVM, 0, len(paths))
	for _, p := range paths {
		entry := &InventoryVM{VmxPath: p}
		// .vmx 是宿主机本地文件，顺手带上规格与 MAC，读失败不拦路
		if specs, err := vmrun.ReadSpecs(p); err == nil {
			entry.CPUNum = specs.NumCPUs
			entry.MemorySize = specs.MemoryMB
		}
		if mac, err := vmrun.ReadMACAddress(p); err == nil {
			entry.MacAddress = mac
		}
		result = append(result, entry)
	}

	return result, nil
}

func (w *HostListWatcher) Watch(ctx context.Context, version string) (string, []*InventoryVM, error) {
	items, err := w.List(ctx)
	if err != nil {
		return version, nil, err
	}

	newVersion := w.Version(items)
	if newVersion == version {
		// 没有变化，等待后返回空
		time.Sleep(w.pollInterval)
		return version, nil, nil
	}

	return newVersion, items, nil
}

func (w *HostListWatcher) Version(items []*InventoryVM) string {
	lines := make([]string, 0, len(items))
	for _, entry := range items {
		lines = append(lines, fmt.Sprintf("%s|%d|%d|%s", entry.VmxPath, entry.CPUNum, entry.MemorySize, entry.MacAddress))
	}
	return hash.CalculateSetVersion(lines)
}
