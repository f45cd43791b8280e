package service

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	v1 "vmxsphere/api/v1"
	"vmxsphere/internal/metrics"
	"vmxsphere/internal/model"
	"vmxsphere/pkg/jwt"
	"vmxsphere/pkg/log"
	"vmxsphere/pkg/notify"
	"vmxsphere/pkg/sid"
	"vmxsphere/pkg/vmnet"
	"vmxsphere/pkg/vmrun"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// 手写假对象：宿主机能力面、网络保留、通知、仓储
// ---------------------------------------------------------------------------

type fakeHost struct {
	mu    sync.Mutex
	calls []string

	running   bool
	snapshots []string
	specs     vmrun.Specs
	mac       string

	// guestIPResults 按调用次数依次消费，空串表示该次 NotReady
	guestIPResults []string
	guestIPCalls   int

	// gate 非 nil 时 ListSnapshots 阻塞到通道关闭，用于卡住一次进行中的编排
	gate chan struct{}

	stopErr     error
	startErr    error
	listSnapErr error
	revertErr   error
	deleteErr   error
	purgeErr    error
	cloneErr    error
	createErr   error
	copyErr     error
	runErr      error
}

func (h *fakeHost) record(call string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, call)
}

func (h *fakeHost) Calls() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.calls))
	copy(out, h.calls)
	return out
}

func (h *fakeHost) countCalls(name string) int {
	n := 0
	for _, c := range h.Calls() {
		if c == name {
			n++
		}
	}
	return n
}

func (h *fakeHost) List(ctx context.Context) ([]string, error) { return nil, nil }

func (h *fakeHost) IsRunning(ctx context.Context, vmxPath string) (bool, error) {
	h.record("isRunning")
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.running, nil
}

func (h *fakeHost) Start(ctx context.Context, vmxPath string) error {
	h.record("start")
	if h.startErr != nil {
		return h.startErr
	}
	h.mu.Lock()
	h.running = true
	h.mu.Unlock()
	return nil
}

func (h *fakeHost) Stop(ctx context.Context, vmxPath string, hard bool) error {
	h.record(fmt.Sprintf("stop:hard=%t", hard))
	if h.stopErr != nil {
		return h.stopErr
	}
	h.mu.Lock()
	h.running = false
	h.mu.Unlock()
	return nil
}

func (h *fakeHost) Reset(ctx context.Context, vmxPath string, hard bool) error {
	h.record("reset")
	return nil
}

func (h *fakeHost) ListSnapshots(ctx context.Context, vmxPath string) ([]string, error) {
	h.record("listSnapshots")
	if h.gate != nil {
		<-h.gate
	}
	if h.listSnapErr != nil {
		return nil, h.listSnapErr
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.snapshots))
	copy(out, h.snapshots)
	return out, nil
}

func (h *fakeHost) CreateSnapshot(ctx context.Context, vmxPath, name string) error {
	h.record("snapshot:" + name)
	if h.createErr != nil {
		return h.createErr
	}
	h.mu.Lock()
	h.snapshots = append(h.snapshots, name)
	h.mu.Unlock()
	return nil
}

func (h *fakeHost) RevertToSnapshot(ctx context.Context, vmxPath, name string) error {
	h.record("revert:" + name)
	return h.revertErr
}

func (h *fakeHost) DeleteSnapshot(ctx context.Context, vmxPath, name string) error {
	h.record("deleteSnapshot:" + name)
	return nil
}

func (h *fakeHost) DeleteVM(ctx context.Context, vmxPath string) error {
	h.record("deleteVM")
	return h.deleteErr
}

func (h *fakeHost) Clone(ctx context.Context, srcVmx, dstVmx, cloneName string, linked bool, snapshot string) error {
	mode := "full"
	if linked {
		mode = "linked"
	}
	h.record(fmt.Sprintf("clone:%s:%s", mode, snapshot))
	return h.cloneErr
}

func (h *fakeHost) GuestIP(ctx context.Context, vmxPath string, wait bool) (string, error) {
	h.record("guestIP")
	h.mu.Lock()
	idx := h.guestIPCalls
	h.guestIPCalls++
	var ip string
	if idx < len(h.guestIPResults) {
		ip = h.guestIPResults[idx]
	}
	h.mu.Unlock()
	if ip == "" {
		return "", &vmrun.OpError{Op: "getGuestIPAddress", Kind: vmrun.NotReady, Detail: "tools not running"}
	}
	return ip, nil
}

func (h *fakeHost) CopyToGuest(ctx context.Context, vmxPath string, creds vmrun.GuestCredentials, hostPath, guestPath string) error {
	h.record("copyToGuest")
	return h.copyErr
}

func (h *fakeHost) RunInGuest(ctx context.Context, vmxPath string, creds vmrun.GuestCredentials, interactive bool, program string, args ...string) error {
	// 客户机程序路径是 Windows 风格的，先统一分隔符再取文件名，
	// 不然在非 Windows 上跑测试时 filepath.Base 会原样返回整个路径
	h.record("runInGuest:" + path.Base(strings.ReplaceAll(program, `\`, "/")))
	return h.runErr
}

func (h *fakeHost) CaptureScreen(ctx context.Context, vmxPath, hostPath string) error {
	h.record("captureScreen")
	return nil
}

func (h *fakeHost) ReadSpecs(vmxPath string) (vmrun.Specs, error) {
	h.record("readSpecs")
	return h.specs, nil
}

func (h *fakeHost) ApplySpecs(vmxPath string, specs vmrun.Specs) error {
	h.record(fmt.Sprintf("applySpecs:%d:%d", specs.NumCPUs, specs.MemoryMB))
	return nil
}

func (h *fakeHost) SetRemoteDisplay(vmxPath string, enabled bool, port int, password string) error {
	h.record("setRemoteDisplay")
	return nil
}

func (h *fakeHost) ReadMACAddress(vmxPath string) (string, error) {
	h.record("readMAC")
	if h.mac == "" {
		return "", fmt.Errorf("no mac in %s", vmxPath)
	}
	return h.mac, nil
}

func (h *fakeHost) PurgeVMDirectory(vmxPath string) error {
	h.record("purge")
	return h.purgeErr
}

type fakeReserver struct {
	mu       sync.Mutex
	reserved []string
	err      error
}

func (f *fakeReserver) Ping(ctx context.Context) error { return nil }

func (f *fakeReserver) Reserve(ctx context.Context, vmName, mac, ip string) error {
	f.mu.Lock()
	f.reserved = append(f.reserved, fmt.Sprintf("%s|%s|%s", vmName, mac, ip))
	f.mu.Unlock()
	return f.err
}

func (f *fakeReserver) AddForward(ctx context.Context, rule vmnet.PortForward) error { return nil }

func (f *fakeReserver) DeleteForward(ctx context.Context, protocol string, hostPort int) error {
	return nil
}

type fakeNotification struct {
	mu      sync.Mutex
	public  []notify.Event
	private []notify.Event
}

func (f *fakeNotification) NotifyPublic(ctx context.Context, ownerID string, event notify.Event) {
	f.mu.Lock()
	f.public = append(f.public, event)
	f.mu.Unlock()
}

func (f *fakeNotification) NotifyPrivate(ctx context.Context, ownerID string, event notify.Event) {
	f.mu.Lock()
	f.private = append(f.private, event)
	f.mu.Unlock()
}

// terminal 返回第一条非 started 的私有事件；没有则 nil。
// 成功、告警、失败三条收尾路径最后发的都是私有事件，
// 把终态判定锚在私有流上，等到它时本轮的公有事件也一定都落盘了。
func (f *fakeNotification) terminal() *notify.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ev := range f.private {
		if ev.Outcome != notify.OutcomeStarted {
			e := ev
			return &e
		}
	}
	return nil
}

func (f *fakeNotification) privateEvents() []notify.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]notify.Event, len(f.private))
	copy(out, f.private)
	return out
}

type fakeAudit struct{}

func (fakeAudit) Record(ctx context.Context, userId, action, target, detail string) {}

func (fakeAudit) ListAuditLogs(ctx context.Context, userId string, req *v1.ListAuditLogRequest) (*v1.ListAuditLogData, error) {
	return &v1.ListAuditLogData{}, nil
}

type fakeTx struct{}

func (fakeTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeVMRepo 内存版 VMRepository，任务三元组语义与真实实现一致
type fakeVMRepo struct {
	mu          sync.Mutex
	vms         map[int64]*model.VM
	progressLog []int
	claims      int
}

func newFakeVMRepo(vms ...*model.VM) *fakeVMRepo {
	r := &fakeVMRepo{vms: make(map[int64]*model.VM)}
	for _, vm := range vms {
		cp := *vm
		r.vms[vm.Id] = &cp
	}
	return r
}

func (r *fakeVMRepo) get(id int64) model.VM {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.vms[id]
}

func (r *fakeVMRepo) progress() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.progressLog))
	copy(out, r.progressLog)
	return out
}

func (r *fakeVMRepo) Create(ctx context.Context, vm *model.VM) error { return nil }
func (r *fakeVMRepo) Update(ctx context.Context, vm *model.VM) error { return nil }
func (r *fakeVMRepo) Delete(ctx context.Context, id int64) error     { return nil }

func (r *fakeVMRepo) GetByID(ctx context.Context, id int64) (*model.VM, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	vm, ok := r.vms[id]
	if !ok {
		return nil, nil
	}
	cp := *vm
	return &cp, nil
}

func (r *fakeVMRepo) GetByName(ctx context.Context, vmName string) (*model.VM, error) {
	return nil, nil
}

func (r *fakeVMRepo) GetByVmxPath(ctx context.Context, vmxPath string) (*model.VM, error) {
	return nil, nil
}

func (r *fakeVMRepo) ListWithPagination(ctx context.Context, page, pageSize int, ownerID, powerState, taskState, keyword string) ([]*model.VM, int64, error) {
	return nil, 0, nil
}

func (r *fakeVMRepo) ListAll(ctx context.Context) ([]*model.VM, error) { return nil, nil }

func (r *fakeVMRepo) ClaimTask(ctx context.Context, id int64, message string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.claims++
	vm, ok := r.vms[id]
	if !ok || vm.TaskState != model.VMTaskStateIdle {
		return false, nil
	}
	vm.TaskState = model.VMTaskStateRunning
	vm.TaskProgress = 0
	vm.TaskMessage = message
	return true, nil
}

func (r *fakeVMRepo) UpdateTaskState(ctx context.Context, id int64, progress int, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	vm := r.vms[id]
	vm.TaskProgress = progress
	vm.TaskMessage = message
	r.progressLog = append(r.progressLog, progress)
	return nil
}

func (r *fakeVMRepo) ReleaseTask(ctx context.Context, id int64, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	vm := r.vms[id]
	vm.TaskState = model.VMTaskStateIdle
	vm.TaskProgress = 0
	vm.TaskMessage = message
	return nil
}

func (r *fakeVMRepo) ResetRunningTasks(ctx context.Context, message string) (int64, error) {
	return 0, nil
}

func (r *fakeVMRepo) UpdatePowerState(ctx context.Context, id int64, state string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vms[id].PowerState = state
	return nil
}

func (r *fakeVMRepo) UpdateNetworkIdentity(ctx context.Context, id int64, mac, ip string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	vm := r.vms[id]
	vm.MacAddress = mac
	vm.IPAddress = ip
	return nil
}

func (r *fakeVMRepo) UpdateGuestCredentials(ctx context.Context, id int64, username, password string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	vm := r.vms[id]
	vm.GuestUser = username
	vm.GuestPassword = password
	return nil
}

func (r *fakeVMRepo) UpdateSyncTimeOnly(ctx context.Context, id int64) error { return nil }

func (r *fakeVMRepo) ApplyInventory(ctx context.Context, id int64, cpu, mem int, mac, state, resourceHash string) error {
	return nil
}

func (r *fakeVMRepo) ListLeaseExpired(ctx context.Context, now time.Time) ([]*model.VM, error) {
	return nil, nil
}

func (r *fakeVMRepo) ListLeaseExpiringWithin(ctx context.Context, now time.Time, d time.Duration) ([]*model.VM, error) {
	return nil, nil
}

func (r *fakeVMRepo) MarkLeaseNotified(ctx context.Context, id int64, kind string, ttl time.Duration) (bool, error) {
	return true, nil
}

func (r *fakeVMRepo) Count(ctx context.Context) (int64, error) { return 0, nil }

func (r *fakeVMRepo) CountByPowerState(ctx context.Context, state string) (int64, error) {
	return 0, nil
}

func (r *fakeVMRepo) CountByTaskState(ctx context.Context, state string) (int64, error) {
	return 0, nil
}

func (r *fakeVMRepo) CountLeaseExpiringWithin(ctx context.Context, now time.Time, d time.Duration) (int64, error) {
	return 0, nil
}

func (r *fakeVMRepo) CountLeaseExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*model.User)}
	for _, u := range users {
		r.users[u.UserId] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error { return nil }
func (r *fakeUserRepo) Update(ctx context.Context, user *model.User) error { return nil }

func (r *fakeUserRepo) GetByID(ctx context.Context, userId string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[userId], nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) GetByAccount(ctx context.Context, account string) (*model.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) GetByIDs(ctx context.Context, userIds []string) ([]*model.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) ListWithPagination(ctx context.Context, page, pageSize int, keyword string) ([]*model.User, int64, error) {
	return nil, 0, nil
}
func (r *fakeUserRepo) Delete(ctx context.Context, userId string) error { return nil }
func (r *fakeUserRepo) Count(ctx context.Context) (int64, error)        { return 0, nil }

type fakePortRepo struct {
	mappings []*model.PortMapping
}

func (r *fakePortRepo) Create(ctx context.Context, pm *model.PortMapping) error { return nil }
func (r *fakePortRepo) Delete(ctx context.Context, id int64) error              { return nil }
func (r *fakePortRepo) DeleteByVmID(ctx context.Context, vmID int64) error      { return nil }

func (r *fakePortRepo) GetByID(ctx context.Context, id int64) (*model.PortMapping, error) {
	return nil, nil
}

func (r *fakePortRepo) GetByHostPort(ctx context.Context, protocol string, hostPort int) (*model.PortMapping, error) {
	return nil, nil
}

func (r *fakePortRepo) ListByVmID(ctx context.Context, vmID int64) ([]*model.PortMapping, error) {
	return r.mappings, nil
}

func (r *fakePortRepo) ListAll(ctx context.Context) ([]*model.PortMapping, error) { return nil, nil }
func (r *fakePortRepo) Count(ctx context.Context) (int64, error)                  { return 0, nil }

type fakeTaskEventRepo struct {
	mu     sync.Mutex
	events []*model.TaskEvent
}

func (r *fakeTaskEventRepo) Insert(ctx context.Context, ev *model.TaskEvent) error {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
	return nil
}

func (r *fakeTaskEventRepo) ListByVmID(ctx context.Context, vmID int64, limit int64) ([]*model.TaskEvent, error) {
	return nil, nil
}

func (r *fakeTaskEventRepo) ListByRunID(ctx context.Context, runID string) ([]*model.TaskEvent, error) {
	return nil, nil
}

func (r *fakeTaskEventRepo) ListTerminal(ctx context.Context, limit int64) ([]*model.TaskEvent, error) {
	return nil, nil
}

func (r *fakeTaskEventRepo) byLevel(level string) []*model.TaskEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.TaskEvent
	for _, ev := range r.events {
		if ev.Level == level {
			out = append(out, ev)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// 脚手架
// ---------------------------------------------------------------------------

type reinstallFixture struct {
	conf    *viper.Viper
	vmRepo  *fakeVMRepo
	userRepo *fakeUserRepo
	portRepo *fakePortRepo
	events  *fakeTaskEventRepo
	host    *fakeHost
	network *fakeReserver
	notifs  *fakeNotification
	svc     ReinstallService
}

const (
	testAdminID = "usr-admin"
	testVmID    = int64(1)
)

func testVM() *model.VM {
	return &model.VM{
		Id:           testVmID,
		VmName:       "ws-0001",
		VmxPath:      `D:\VMs\ws-0001\ws-0001.vmx`,
		TemplatePath: `D:\Templates\win10\win10.vmx`,
		OwnerID:      testAdminID,
		RdpPort:      3389,
		TaskState:    model.VMTaskStateIdle,
	}
}

func newReinstallFixture(t *testing.T, vm *model.VM, host *fakeHost) *reinstallFixture {
	t.Helper()

	conf := viper.New()
	conf.Set("security.jwt.key", "test-key")
	conf.Set("log.log_file_name", filepath.Join(t.TempDir(), "test.log"))
	conf.Set("task.workers", 1)
	conf.Set("task.guest_ip_attempts", 3)
	conf.Set("task.guest_ip_interval", time.Millisecond)
	conf.Set("task.stop_settle", time.Millisecond)
	conf.Set("guest.username", "Administrator")
	conf.Set("guest.password", "Kossa123")
	conf.Set("rdp.public_host", "vms.example.net")

	logger := log.NewLog(conf)
	base := NewService(fakeTx{}, logger, sid.NewSid(), jwt.NewJwt(conf))

	f := &reinstallFixture{
		conf:    conf,
		vmRepo:  newFakeVMRepo(vm),
		userRepo: newFakeUserRepo(&model.User{UserId: testAdminID, Username: "admin", IsAdmin: true}),
		portRepo: &fakePortRepo{},
		events:  &fakeTaskEventRepo{},
		host:    host,
		network: &fakeReserver{},
		notifs:  &fakeNotification{},
	}
	f.svc = NewReinstallService(base, conf, metrics.NewMetrics(), f.vmRepo, f.userRepo, f.portRepo,
		f.events, f.host, f.network, f.notifs, fakeAudit{})
	return f
}

// waitTerminal 等一次重装走到终态：出现非 started 的通知且任务位回到 idle
func (f *reinstallFixture) waitTerminal(t *testing.T) notify.Event {
	t.Helper()
	require.Eventually(t, func() bool {
		return f.notifs.terminal() != nil && f.vmRepo.get(testVmID).TaskState == model.VMTaskStateIdle
	}, 5*time.Second, 2*time.Millisecond, "reinstall never reached a terminal state")
	return *f.notifs.terminal()
}

func assertNonDecreasing(t *testing.T, progress []int) {
	t.Helper()
	for i := 1; i < len(progress); i++ {
		assert.GreaterOrEqual(t, progress[i], progress[i-1],
			"progress went backwards at index %d: %v", i, progress)
	}
}

func indexOf(calls []string, call string) int {
	for i, c := range calls {
		if c == call {
			return i
		}
	}
	return -1
}

func fieldValue(fields []notify.Field, name string) string {
	for _, f := range fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

// ---------------------------------------------------------------------------
// 用例
// ---------------------------------------------------------------------------

// 有基线快照：stop → revert → start → 第三次轮询拿到地址 → 引导脚本 → 成功收尾
func TestReinstall_RevertBranch_Success(t *testing.T) {
	host := &fakeHost{
		running:   true,
		snapshots: []string{"Base-v2"},
		mac:       "00:0c:29:aa:bb:cc",
		// 第一次消费发生在 init 的机会式探测，之后轮询三次、第三次成功
		guestIPResults: []string{"", "", "", "192.168.119.130"},
	}
	f := newReinstallFixture(t, testVM(), host)

	resp, err := f.svc.Begin(context.Background(), testAdminID, testVmID)
	require.NoError(t, err)
	assert.Equal(t, model.VMTaskStateRunning, resp.TaskState)

	terminal := f.waitTerminal(t)
	assert.Equal(t, notify.OutcomeSuccess, terminal.Outcome)

	calls := f.host.Calls()
	stopIdx := indexOf(calls, "stop:hard=true")
	revertIdx := indexOf(calls, "revert:Base-v2")
	startIdx := indexOf(calls, "start")
	require.GreaterOrEqual(t, stopIdx, 0)
	require.GreaterOrEqual(t, revertIdx, 0)
	require.GreaterOrEqual(t, startIdx, 0)
	assert.Less(t, stopIdx, revertIdx)
	assert.Less(t, revertIdx, startIdx)

	// 基线快照在，重建分支一步都不能走
	assert.Equal(t, -1, indexOf(calls, "deleteVM"))
	assert.Equal(t, -1, indexOf(calls, "clone:linked:Base-v2"))
	assert.Equal(t, 1, f.host.countCalls("copyToGuest"))
	assert.Equal(t, 1, f.host.countCalls("runInGuest:cmd.exe"))

	vm := f.vmRepo.get(testVmID)
	assert.Equal(t, model.VMTaskStateIdle, vm.TaskState)
	assert.Equal(t, 0, vm.TaskProgress)
	assert.Empty(t, vm.TaskMessage)
	assert.Equal(t, "192.168.119.130", vm.IPAddress)
	assert.Equal(t, "Administrator", vm.GuestUser)
	assert.Equal(t, "Kossa123", vm.GuestPassword)

	assertNonDecreasing(t, f.vmRepo.progress())

	// 凭据只出现在私有通知里
	private := f.notifs.privateEvents()
	require.NotEmpty(t, private)
	final := private[len(private)-1]
	assert.Equal(t, "vms.example.net:3389", fieldValue(final.Fields, "Endpoint"))
	assert.Equal(t, "Administrator", fieldValue(final.Fields, "Username"))
	assert.Equal(t, "Kossa123", fieldValue(final.Fields, "Password"))
}

// 基线快照丢失：delete → purge → clone → applySpecs → 重打快照，严格按此顺序
func TestReinstall_RebuildBranch_Order(t *testing.T) {
	host := &fakeHost{
		running:        false,
		snapshots:      []string{"before-upgrade"}, // 有快照但不是基线
		specs:          vmrun.Specs{NumCPUs: 4, MemoryMB: 8192},
		mac:            "00:0c:29:dd:ee:ff",
		guestIPResults: []string{"192.168.119.131"},
	}
	f := newReinstallFixture(t, testVM(), host)

	_, err := f.svc.Begin(context.Background(), testAdminID, testVmID)
	require.NoError(t, err)

	terminal := f.waitTerminal(t)
	assert.Equal(t, notify.OutcomeSuccess, terminal.Outcome)

	calls := f.host.Calls()
	sequence := []string{"deleteVM", "purge", "clone:linked:Base-v2", "applySpecs:4:8192", "snapshot:Base-v2", "start"}
	prev := -1
	for _, step := range sequence {
		idx := indexOf(calls, step)
		require.GreaterOrEqual(t, idx, 0, "missing call %q in %v", step, calls)
		assert.Greater(t, idx, prev, "call %q out of order in %v", step, calls)
		prev = idx
	}
	assert.Equal(t, -1, indexOf(calls, "revert:Base-v2"))

	// 重建之后基线快照必须重新存在
	assert.Contains(t, f.host.snapshots, "Base-v2")
	// 克隆出的新 MAC 要落库
	assert.Equal(t, "00:0c:29:dd:ee:ff", f.vmRepo.get(testVmID).MacAddress)
}

// 连续触发两次：只有一次编排真正执行，第二次拿到“任务进行中”
func TestReinstall_SecondBeginRejected(t *testing.T) {
	host := &fakeHost{
		running:        false,
		snapshots:      []string{"Base-v2"},
		guestIPResults: []string{"192.168.119.130"},
		gate:           make(chan struct{}),
	}
	f := newReinstallFixture(t, testVM(), host)

	_, err := f.svc.Begin(context.Background(), testAdminID, testVmID)
	require.NoError(t, err)

	// 第一次编排被卡在 restoring，任务位必然还被占着
	_, err = f.svc.Begin(context.Background(), testAdminID, testVmID)
	assert.ErrorIs(t, err, v1.ErrTaskAlreadyRunning)

	close(host.gate)
	f.waitTerminal(t)
	assert.Equal(t, 1, f.host.countCalls("start"))
}

// 轮询打满仍没有地址：软失败，不进 bootstrapping，告警收尾且任务位回 idle
func TestReinstall_GuestIPExhausted_Warning(t *testing.T) {
	host := &fakeHost{
		running:   false,
		snapshots: []string{"Base-v2"},
	}
	f := newReinstallFixture(t, testVM(), host)

	_, err := f.svc.Begin(context.Background(), testAdminID, testVmID)
	require.NoError(t, err)

	terminal := f.waitTerminal(t)
	assert.Equal(t, notify.OutcomeWarning, terminal.Outcome)

	// 恰好打满配置的轮询上限
	assert.Equal(t, 3, f.host.guestIPCalls)
	assert.Equal(t, 0, f.host.countCalls("copyToGuest"))
	assert.Equal(t, 0, f.host.countCalls("runInGuest:cmd.exe"))

	vm := f.vmRepo.get(testVmID)
	assert.Equal(t, model.VMTaskStateIdle, vm.TaskState)
	assert.Equal(t, 0, vm.TaskProgress)
	assert.Contains(t, vm.TaskMessage, "never reported an address")

	assertNonDecreasing(t, f.vmRepo.progress())
}

// 关机失败：立即终止，后续阶段一个都不执行，失败详情进 task_message 和失败通知
func TestReinstall_StopFailure_Fatal(t *testing.T) {
	host := &fakeHost{
		running:   true,
		snapshots: []string{"Base-v2"},
		stopErr:   &vmrun.OpError{Op: "stop", Kind: vmrun.Unknown, Detail: "The virtual machine is busy"},
	}
	f := newReinstallFixture(t, testVM(), host)

	_, err := f.svc.Begin(context.Background(), testAdminID, testVmID)
	require.NoError(t, err)

	terminal := f.waitTerminal(t)
	assert.Equal(t, notify.OutcomeFailure, terminal.Outcome)
	assert.Contains(t, fieldValue(terminal.Fields, "Error"), "The virtual machine is busy")

	calls := f.host.Calls()
	assert.Equal(t, -1, indexOf(calls, "listSnapshots"))
	assert.Equal(t, -1, indexOf(calls, "start"))

	vm := f.vmRepo.get(testVmID)
	assert.Equal(t, model.VMTaskStateIdle, vm.TaskState)
	assert.Contains(t, vm.TaskMessage, "stopping failed")
	assert.Contains(t, vm.TaskMessage, "The virtual machine is busy")
}

// 引导脚本失败：流程不终止，按告警收尾，凭据字段照常给出
func TestReinstall_BootstrapFailure_Warning(t *testing.T) {
	host := &fakeHost{
		running:        true,
		snapshots:      []string{"Base-v2"},
		guestIPResults: []string{"", "192.168.119.132"},
		runErr:         &vmrun.OpError{Op: "runProgramInGuest", Kind: vmrun.AuthRejected, Detail: "Invalid user name or password"},
	}
	f := newReinstallFixture(t, testVM(), host)

	_, err := f.svc.Begin(context.Background(), testAdminID, testVmID)
	require.NoError(t, err)

	terminal := f.waitTerminal(t)
	assert.Equal(t, notify.OutcomeWarning, terminal.Outcome)

	vm := f.vmRepo.get(testVmID)
	assert.Equal(t, model.VMTaskStateIdle, vm.TaskState)
	assert.Contains(t, vm.TaskMessage, "bootstrap failed")
	// 结构化错误类别给出的原因，而非原始错误文本
	assert.Contains(t, vm.TaskMessage, "guest rejected the baseline credentials")

	assert.Equal(t, "vms.example.net:3389", fieldValue(terminal.Fields, "Endpoint"))
}

// 宿主侧地址保留失败只告警，不影响成功收尾
func TestReinstall_ReservationFailure_NonFatal(t *testing.T) {
	vm := testVM()
	vm.MacAddress = "00:0c:29:aa:bb:cc"
	vm.IPAddress = "192.168.119.130"

	host := &fakeHost{
		running:        true,
		snapshots:      []string{"Base-v2"},
		guestIPResults: []string{"192.168.119.130"},
	}
	f := newReinstallFixture(t, vm, host)
	f.network.err = fmt.Errorf("dhcp config locked")

	_, err := f.svc.Begin(context.Background(), testAdminID, testVmID)
	require.NoError(t, err)

	terminal := f.waitTerminal(t)
	assert.Equal(t, notify.OutcomeSuccess, terminal.Outcome)

	require.Len(t, f.network.reserved, 1)
	assert.Equal(t, "ws-0001|00:0c:29:aa:bb:cc|192.168.119.130", f.network.reserved[0])

	// 保留失败要留下一条告警事件
	warnings := f.events.byLevel(model.TaskEventLevelWarning)
	require.NotEmpty(t, warnings)
	assert.Contains(t, warnings[0].Message, "address reservation failed")
}

// 转发规则命中 RDP 端口时，对外接入点报宿主机端口
func TestReinstall_EndpointUsesPortForward(t *testing.T) {
	// 第一条结果喂给 init 的机会式探测，第二条留给开机后的等待阶段
	host := &fakeHost{
		running:        true,
		snapshots:      []string{"Base-v2"},
		guestIPResults: []string{"192.168.119.130", "192.168.119.130"},
	}
	f := newReinstallFixture(t, testVM(), host)
	f.portRepo.mappings = []*model.PortMapping{
		{VmID: testVmID, Protocol: "tcp", HostPort: 40001, GuestPort: 3389},
	}

	_, err := f.svc.Begin(context.Background(), testAdminID, testVmID)
	require.NoError(t, err)

	f.waitTerminal(t)

	private := f.notifs.privateEvents()
	require.NotEmpty(t, private)
	final := private[len(private)-1]
	assert.Equal(t, "vms.example.net:40001", fieldValue(final.Fields, "Endpoint"))
}

func TestBegin_Authorization(t *testing.T) {
	host := &fakeHost{}
	f := newReinstallFixture(t, testVM(), host)

	// 未知虚拟机
	_, err := f.svc.Begin(context.Background(), testAdminID, 999)
	assert.ErrorIs(t, err, v1.ErrNotFound)

	// 非属主的普通租户
	f.userRepo.users["usr-other"] = &model.User{UserId: "usr-other", Username: "other"}
	_, err = f.svc.Begin(context.Background(), "usr-other", testVmID)
	assert.ErrorIs(t, err, v1.ErrForbidden)

	// 属主但租期已过
	expired := time.Now().Add(-time.Hour)
	f.vmRepo.mu.Lock()
	f.vmRepo.vms[testVmID].OwnerID = "usr-other"
	f.vmRepo.vms[testVmID].LeaseExpiresAt = &expired
	f.vmRepo.mu.Unlock()
	_, err = f.svc.Begin(context.Background(), "usr-other", testVmID)
	assert.ErrorIs(t, err, v1.ErrLeaseExpired)

	// 没有任何一次触发成功，宿主机不应被碰过
	assert.Empty(t, f.host.Calls())
}
