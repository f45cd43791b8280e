package informer

import (
	"sync"
)

// threadSafeStore 线程安全的运行集缓存，键为 .vmx 路径
type threadSafeStore struct {
	lock  sync.RWMutex
	items map[string]*InventoryVM
}

func NewThreadSafeStore() Store {
	return &threadSafeStore{
		items: make(map[string]*InventoryVM),
	}
}

func (s *threadSafeStore) Upsert(vm *InventoryVM) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.items[vm.VmxPath] = vm
}

func (s *threadSafeStore) Delete(vmxPath string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	delete(s.items, vmxPath)
}

func (s *threadSafeStore) Get(vmxPath string) (*InventoryVM, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	item, exists := s.items[vmxPath]
	return item, exists
}

func (s *threadSafeStore) List() []*InventoryVM {
	s.lock.RLock()
	defer s.lock.RUnlock()
	list := make([]*InventoryVM, 0, len(s.items))
	for _, item := range s.items {
		list = append(list, item)
	}
	return list
}

func (s *threadSafeStore) Keys() []string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	keys := make([]string, 0, len(s.items))
	for k := range s.items {
		keys = append(keys, k)
	}
	return keys
}
