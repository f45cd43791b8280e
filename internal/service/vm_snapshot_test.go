package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	v1 "vmxsphere/api/v1"
	"vmxsphere/internal/model"
	"vmxsphere/pkg/jwt"
	"vmxsphere/pkg/log"
	"vmxsphere/pkg/sid"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTenantID = "usr-tenant"

func newVMServiceFixture(t *testing.T, vm *model.VM, host *fakeHost, users ...*model.User) VMService {
	t.Helper()

	conf := viper.New()
	conf.Set("security.jwt.key", "test-key")
	conf.Set("log.log_file_name", filepath.Join(t.TempDir(), "test.log"))
	conf.Set("task.baseline_snapshot", "Base-v2")

	logger := log.NewLog(conf)
	base := NewService(fakeTx{}, logger, sid.NewSid(), jwt.NewJwt(conf))

	if len(users) == 0 {
		users = []*model.User{
			{UserId: testAdminID, Username: "admin", IsAdmin: true},
			{UserId: testTenantID, Username: "tenant"},
		}
	}
	return NewVMService(base, conf, newFakeVMRepo(vm), newFakeUserRepo(users...),
		&fakePortRepo{}, &fakeTaskEventRepo{}, host, &fakeReserver{}, fakeAudit{})
}

func tenantVM() *model.VM {
	vm := testVM()
	vm.OwnerID = testTenantID
	return vm
}

func TestSnapshotLifecycle(t *testing.T) {
	host := &fakeHost{snapshots: []string{"Base-v2"}}
	svc := newVMServiceFixture(t, tenantVM(), host)
	ctx := context.Background()

	// 租户对自己的机器走完整个生命周期
	require.NoError(t, svc.CreateVMSnapshot(ctx, testTenantID, testVmID,
		&v1.CreateSnapshotRequest{Name: "before-update"}))
	assert.Equal(t, 1, host.countCalls("snapshot:before-update"))

	data, err := svc.ListVMSnapshots(ctx, testTenantID, testVmID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Base-v2", "before-update"}, data.Items)

	require.NoError(t, svc.RevertVMSnapshot(ctx, testTenantID, testVmID,
		&v1.RevertSnapshotRequest{Name: "before-update"}))
	assert.Equal(t, 1, host.countCalls("revert:before-update"))

	require.NoError(t, svc.DeleteVMSnapshot(ctx, testTenantID, testVmID, "before-update"))
	assert.Equal(t, 1, host.countCalls("deleteSnapshot:before-update"))
}

func TestSnapshotOpsRejectedWhileTaskRunning(t *testing.T) {
	vm := tenantVM()
	vm.TaskState = model.VMTaskStateRunning
	host := &fakeHost{snapshots: []string{"Base-v2"}}
	svc := newVMServiceFixture(t, vm, host)
	ctx := context.Background()

	assert.ErrorIs(t, svc.CreateVMSnapshot(ctx, testTenantID, testVmID,
		&v1.CreateSnapshotRequest{Name: "x"}), v1.ErrVMBusy)
	assert.ErrorIs(t, svc.RevertVMSnapshot(ctx, testTenantID, testVmID,
		&v1.RevertSnapshotRequest{Name: "x"}), v1.ErrVMBusy)
	assert.ErrorIs(t, svc.DeleteVMSnapshot(ctx, testTenantID, testVmID, "x"), v1.ErrVMBusy)

	// 任务占位期间宿主机不能被碰
	assert.Empty(t, host.Calls())
}

func TestDeleteSnapshotProtectsBaseline(t *testing.T) {
	host := &fakeHost{snapshots: []string{"Base-v2"}}
	svc := newVMServiceFixture(t, tenantVM(), host)

	err := svc.DeleteVMSnapshot(context.Background(), testTenantID, testVmID, "Base-v2")
	assert.ErrorIs(t, err, v1.ErrBadRequest)
	assert.Zero(t, host.countCalls("deleteSnapshot:Base-v2"))
}

func TestSnapshotOpsLeaseGuard(t *testing.T) {
	expired := time.Now().Add(-time.Hour)
	vm := tenantVM()
	vm.LeaseExpiresAt = &expired
	host := &fakeHost{snapshots: []string{"Base-v2"}}
	svc := newVMServiceFixture(t, vm, host)
	ctx := context.Background()

	// 租约过期的租户被拒，管理员不受租约限制
	assert.ErrorIs(t, svc.CreateVMSnapshot(ctx, testTenantID, testVmID,
		&v1.CreateSnapshotRequest{Name: "x"}), v1.ErrLeaseExpired)

	require.NoError(t, svc.CreateVMSnapshot(ctx, testAdminID, testVmID,
		&v1.CreateSnapshotRequest{Name: "x"}))
}

func TestSnapshotOpsOwnership(t *testing.T) {
	host := &fakeHost{snapshots: []string{"Base-v2"}}
	svc := newVMServiceFixture(t, tenantVM(), host,
		&model.User{UserId: testTenantID, Username: "tenant"},
		&model.User{UserId: "usr-other", Username: "other"},
	)

	// 别人的机器按不存在处理
	err := svc.CreateVMSnapshot(context.Background(), "usr-other", testVmID,
		&v1.CreateSnapshotRequest{Name: "x"})
	assert.ErrorIs(t, err, v1.ErrNotFound)
}
