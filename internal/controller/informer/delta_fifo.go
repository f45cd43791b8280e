package informer

import (
	"sync"
)

// DeltaFIFO 运行集变化队列。入队时同步维护缓存，
// 因此 Updated 事件在入队一刻就把旧条目捕获进 Delta.Prev。
type DeltaFIFO struct {
	lock  sync.RWMutex
	items []Delta
	store Store
}

func NewDeltaFIFO(store Store) *DeltaFIFO {
	return &DeltaFIFO{
		items: make([]Delta, 0),
		store: store,
	}
}

func (f *DeltaFIFO) Add(vm *InventoryVM) {
	f.lock.Lock()
	defer f.lock.Unlock()

	prev, exists := f.store.Get(vm.VmxPath)
	if exists {
		f.items = append(f.items, Delta{Type: DeltaUpdated, VM: vm, Prev: prev})
	} else {
		f.items = append(f.items, Delta{Type: DeltaAdded, VM: vm})
	}
	f.store.Upsert(vm)
}

func (f *DeltaFIFO) Delete(vm *InventoryVM) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if _, exists := f.store.Get(vm.VmxPath); exists {
		f.items = append(f.items, Delta{Type: DeltaDeleted, VM: vm})
		f.store.Delete(vm.VmxPath)
	}
}

// Pop 取出队首交给 handler 处理，队列空时什么都不做
func (f *DeltaFIFO) Pop(handler func(delta Delta) error) error {
	f.lock.Lock()
	if len(f.items) == 0 {
		f.lock.Unlock()
		return nil
	}

	delta := f.items[0]
	f.items = f.items[1:]
	f.lock.Unlock()

	return handler(delta)
}

// Replace 用全量列表对账：新出现的记 Added，仍在的记 Updated，
// 消失的记 Deleted，缓存同步改写。
func (f *DeltaFIFO) Replace(items []*InventoryVM) {
	f.lock.Lock()
	defer f.lock.Unlock()

	current := make(map[string]*InventoryVM, len(items))
	for _, vm := range items {
		current[vm.VmxPath] = vm

		prev, exists := f.store.Get(vm.VmxPath)
		if exists {
			f.items = append(f.items, Delta{Type: DeltaUpdated, VM: vm, Prev: prev})
		} else {
			f.items = append(f.items, Delta{Type: DeltaAdded, VM: vm})
		}
		f.store.Upsert(vm)
	}

	for _, old := range f.store.List() {
		if _, exists := current[old.VmxPath]; !exists {
			f.items = append(f.items, Delta{Type: DeltaDeleted, VM: old})
			f.store.Delete(old.VmxPath)
		}
	}
}

// HasSynced 队列排空即认为与宿主机运行集达成一致
func (f *DeltaFIFO) HasSynced() bool {
	f.lock.RLock()
	defer f.lock.RUnlock()
	return len(f.items) == 0
}
