package informer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func popAll(t *testing.T, f *DeltaFIFO) []Delta {
	t.Helper()
	var deltas []Delta
	for !f.HasSynced() {
		require.NoError(t, f.Pop(func(d Delta) error {
			deltas = append(deltas, d)
			return nil
		}))
	}
	return deltas
}

func TestDeltaFIFOAddAndUpdate(t *testing.T) {
	store := NewThreadSafeStore()
	fifo := NewDeltaFIFO(store)

	first := &InventoryVM{VmxPath: "a.vmx", CPUNum: 2}
	fifo.Add(first)
	changed := &InventoryVM{VmxPath: "a.vmx", CPUNum: 4}
	fifo.Add(changed)

	deltas := popAll(t, fifo)
	require.Len(t, deltas, 2)

	assert.Equal(t, DeltaAdded, deltas[0].Type)
	assert.Equal(t, DeltaUpdated, deltas[1].Type)
	// Prev 是入队那一刻的旧条目，不是处理时缓存里的新条目
	require.NotNil(t, deltas[1].Prev)
	assert.Equal(t, 2, deltas[1].Prev.CPUNum)
	assert.Equal(t, 4, deltas[1].VM.CPUNum)

	got, ok := store.Get("a.vmx")
	require.True(t, ok)
	assert.Equal(t, 4, got.CPUNum)
}

func TestDeltaFIFOReplaceDetectsDeletes(t *testing.T) {
	store := NewThreadSafeStore()
	fifo := NewDeltaFIFO(store)

	fifo.Replace([]*InventoryVM{
		{VmxPath: "a.vmx"},
		{VmxPath: "b.vmx"},
	})
	_ = popAll(t, fifo)

	// b 从运行集消失，c 新出现
	fifo.Replace([]*InventoryVM{
		{VmxPath: "a.vmx"},
		{VmxPath: "c.vmx"},
	})
	deltas := popAll(t, fifo)

	byType := map[DeltaType][]string{}
	for _, d := range deltas {
		byType[d.Type] = append(byType[d.Type], d.VM.VmxPath)
	}
	assert.Equal(t, []string{"a.vmx"}, byType[DeltaUpdated])
	assert.Equal(t, []string{"c.vmx"}, byType[DeltaAdded])
	assert.Equal(t, []string{"b.vmx"}, byType[DeltaDeleted])

	_, ok := store.Get("b.vmx")
	assert.False(t, ok)
	assert.ElementsMatch(t, []string{"a.vmx", "c.vmx"}, store.Keys())
}

func TestDeltaFIFODeleteUnknownIsNoop(t *testing.T) {
	fifo := NewDeltaFIFO(NewThreadSafeStore())
	fifo.Delete(&InventoryVM{VmxPath: "ghost.vmx"})
	assert.True(t, fifo.HasSynced())
}
