package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleVM struct {
	Id           int64  `json:"id"`
	VmName       string `json:"vm_name"`
	CPUNum       int    `json:"cpu_num"`
	TaskState    string `json:"task_state"`
	TaskProgress int    `json:"task_progress"`
}

func TestCalculateResourceHashIgnoresTaskMetadata(t *testing.T) {
	a := &sampleVM{Id: 1, VmName: "ws-0001", CPUNum: 4, TaskState: "idle", TaskProgress: 0}
	b := &sampleVM{Id: 2, VmName: "ws-0001", CPUNum: 4, TaskState: "running", TaskProgress: 45}

	ha, err := CalculateResourceHash(a)
	require.NoError(t, err)
	hb, err := CalculateResourceHash(b)
	require.NoError(t, err)

	// id 和任务三元组都是元数据，不参与哈希
	assert.Equal(t, ha, hb)
}

func TestCalculateResourceHashDetectsBusinessChange(t *testing.T) {
	a := &sampleVM{VmName: "ws-0001", CPUNum: 4}
	b := &sampleVM{VmName: "ws-0001", CPUNum: 8}

	ha, err := CalculateResourceHash(a)
	require.NoError(t, err)
	hb, err := CalculateResourceHash(b)
	require.NoError(t, err)

	assert.NotEqual(t, ha, hb)
}

func TestCalculateSetVersionOrderIndependent(t *testing.T) {
	a := CalculateSetVersion([]string{"x.vmx", "y.vmx", "z.vmx"})
	b := CalculateSetVersion([]string{"z.vmx", "x.vmx", "y.vmx"})
	c := CalculateSetVersion([]string{"x.vmx", "y.vmx"})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
