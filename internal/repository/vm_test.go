package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"vmxsphere/internal/model"
	"vmxsphere/pkg/log"

	"github.com/glebarez/sqlite"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestVMRepo(t *testing.T) VMRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.VM{}))

	conf := viper.New()
	conf.Set("log.log_file_name", filepath.Join(t.TempDir(), "test.log"))
	logger := log.NewLog(conf)

	return NewVMRepository(NewRepository(logger, db, nil))
}

func seedVM(t *testing.T, repo VMRepository, vm *model.VM) *model.VM {
	t.Helper()
	if vm.TaskState == "" {
		vm.TaskState = model.VMTaskStateIdle
	}
	require.NoError(t, repo.Create(context.Background(), vm))
	return vm
}

func TestClaimTaskIsExclusive(t *testing.T) {
	repo := newTestVMRepo(t)
	ctx := context.Background()
	vm := seedVM(t, repo, &model.VM{VmName: "ws-0001", VmxPath: "a.vmx"})

	claimed, err := repo.ClaimTask(ctx, vm.Id, "reinstall queued")
	require.NoError(t, err)
	assert.True(t, claimed)

	got, err := repo.GetByID(ctx, vm.Id)
	require.NoError(t, err)
	assert.Equal(t, model.VMTaskStateRunning, got.TaskState)
	assert.Equal(t, 0, got.TaskProgress)
	assert.Equal(t, "reinstall queued", got.TaskMessage)

	// 任务位被占着，第二次抢占必须失败
	claimed, err = repo.ClaimTask(ctx, vm.Id, "second")
	require.NoError(t, err)
	assert.False(t, claimed)

	// 回到 idle 之后才能再次抢占
	require.NoError(t, repo.ReleaseTask(ctx, vm.Id, ""))
	claimed, err = repo.ClaimTask(ctx, vm.Id, "third")
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestClaimTaskUnknownVM(t *testing.T) {
	repo := newTestVMRepo(t)

	claimed, err := repo.ClaimTask(context.Background(), 42, "msg")
	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestReleaseTaskKeepsFailureMessage(t *testing.T) {
	repo := newTestVMRepo(t)
	ctx := context.Background()
	vm := seedVM(t, repo, &model.VM{VmName: "ws-0001", VmxPath: "a.vmx"})

	_, err := repo.ClaimTask(ctx, vm.Id, "queued")
	require.NoError(t, err)
	require.NoError(t, repo.UpdateTaskState(ctx, vm.Id, 45, "restoring network identity"))

	require.NoError(t, repo.ReleaseTask(ctx, vm.Id, "stopping failed: timed out"))

	got, err := repo.GetByID(ctx, vm.Id)
	require.NoError(t, err)
	assert.Equal(t, model.VMTaskStateIdle, got.TaskState)
	assert.Equal(t, 0, got.TaskProgress)
	assert.Equal(t, "stopping failed: timed out", got.TaskMessage)
}

func TestResetRunningTasks(t *testing.T) {
	repo := newTestVMRepo(t)
	ctx := context.Background()

	a := seedVM(t, repo, &model.VM{VmName: "a", VmxPath: "a.vmx"})
	b := seedVM(t, repo, &model.VM{VmName: "b", VmxPath: "b.vmx"})
	seedVM(t, repo, &model.VM{VmName: "c", VmxPath: "c.vmx"})

	_, err := repo.ClaimTask(ctx, a.Id, "queued")
	require.NoError(t, err)
	_, err = repo.ClaimTask(ctx, b.Id, "queued")
	require.NoError(t, err)

	n, err := repo.ResetRunningTasks(ctx, "reinstall interrupted by service restart")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	for _, id := range []int64{a.Id, b.Id} {
		got, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, model.VMTaskStateIdle, got.TaskState)
		assert.Equal(t, "reinstall interrupted by service restart", got.TaskMessage)
	}

	// 没有 running 的任务时是个空操作
	n, err = repo.ResetRunningTasks(ctx, "again")
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestGetByIDNotFound(t *testing.T) {
	repo := newTestVMRepo(t)

	got, err := repo.GetByID(context.Background(), 404)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestApplyInventorySkipsZeroValues(t *testing.T) {
	repo := newTestVMRepo(t)
	ctx := context.Background()
	vm := seedVM(t, repo, &model.VM{
		VmName: "ws-0001", VmxPath: "a.vmx",
		CPUNum: 4, MemorySize: 8192, MacAddress: "00:0c:29:aa:bb:cc",
	})

	// 巡检没读到规格（零值）时不能把已有记录清掉
	require.NoError(t, repo.ApplyInventory(ctx, vm.Id, 0, 0, "", model.VMPowerStateRunning, "h1"))

	got, err := repo.GetByID(ctx, vm.Id)
	require.NoError(t, err)
	assert.Equal(t, 4, got.CPUNum)
	assert.Equal(t, 8192, got.MemorySize)
	assert.Equal(t, "00:0c:29:aa:bb:cc", got.MacAddress)
	assert.Equal(t, model.VMPowerStateRunning, got.PowerState)
	assert.Equal(t, "h1", got.ResourceHash)

	// 真正读到的值要覆盖
	require.NoError(t, repo.ApplyInventory(ctx, vm.Id, 8, 16384, "00:0c:29:dd:ee:ff", model.VMPowerStateRunning, "h2"))
	got, err = repo.GetByID(ctx, vm.Id)
	require.NoError(t, err)
	assert.Equal(t, 8, got.CPUNum)
	assert.Equal(t, 16384, got.MemorySize)
	assert.Equal(t, "00:0c:29:dd:ee:ff", got.MacAddress)
}

func TestListLeaseWindows(t *testing.T) {
	repo := newTestVMRepo(t)
	ctx := context.Background()
	now := time.Now()

	expired := now.Add(-time.Hour)
	soon := now.Add(24 * time.Hour)
	far := now.Add(30 * 24 * time.Hour)

	seedVM(t, repo, &model.VM{VmName: "expired", VmxPath: "e.vmx", LeaseExpiresAt: &expired})
	seedVM(t, repo, &model.VM{VmName: "soon", VmxPath: "s.vmx", LeaseExpiresAt: &soon})
	seedVM(t, repo, &model.VM{VmName: "far", VmxPath: "f.vmx", LeaseExpiresAt: &far})
	seedVM(t, repo, &model.VM{VmName: "unlimited", VmxPath: "u.vmx"})

	gone, err := repo.ListLeaseExpired(ctx, now)
	require.NoError(t, err)
	require.Len(t, gone, 1)
	assert.Equal(t, "expired", gone[0].VmName)

	expiring, err := repo.ListLeaseExpiringWithin(ctx, now, 7*24*time.Hour)
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	assert.Equal(t, "soon", expiring[0].VmName)
}
