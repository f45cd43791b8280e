package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"vmxsphere/pkg/log"
	"vmxsphere/pkg/notify"
	"vmxsphere/pkg/vmnet"
	"vmxsphere/pkg/vmrun"

	"github.com/spf13/viper"
)

// HostControl 宿主机能力面。服务层只依赖这个接口，
// 生产实现包着 vmrun 客户端与 .vmx 文件操作，测试里用假对象替换。
type HostControl interface {
	List(ctx context.Context) ([]string, error)
	IsRunning(ctx context.Context, vmxPath string) (bool, error)
	Start(ctx context.Context, vmxPath string) error
	Stop(ctx context.Context, vmxPath string, hard bool) error
	Reset(ctx context.Context, vmxPath string, hard bool) error
	ListSnapshots(ctx context.Context, vmxPath string) ([]string, error)
	CreateSnapshot(ctx context.Context, vmxPath, name string) error
	RevertToSnapshot(ctx context.Context, vmxPath, name string) error
	DeleteSnapshot(ctx context.Context, vmxPath, name string) error
	DeleteVM(ctx context.Context, vmxPath string) error
	Clone(ctx context.Context, srcVmx, dstVmx, cloneName string, linked bool, snapshot string) error
	GuestIP(ctx context.Context, vmxPath string, wait bool) (string, error)
	CopyToGuest(ctx context.Context, vmxPath string, creds vmrun.GuestCredentials, hostPath, guestPath string) error
	RunInGuest(ctx context.Context, vmxPath string, creds vmrun.GuestCredentials, interactive bool, program string, args ...string) error
	CaptureScreen(ctx context.Context, vmxPath, hostPath string) error

	// .vmx 文件层面的操作，要求虚拟机已关机
	ReadSpecs(vmxPath string) (vmrun.Specs, error)
	ApplySpecs(vmxPath string, specs vmrun.Specs) error
	SetRemoteDisplay(vmxPath string, enabled bool, port int, password string) error
	ReadMACAddress(vmxPath string) (string, error)

	// PurgeVMDirectory 删除虚拟机所在目录（deleteVM 之后的残留清理）
	PurgeVMDirectory(vmxPath string) error
}

type hostControl struct {
	*vmrun.Client
}

func (h *hostControl) ReadSpecs(vmxPath string) (vmrun.Specs, error) {
	return vmrun.ReadSpecs(vmxPath)
}

func (h *hostControl) ApplySpecs(vmxPath string, specs vmrun.Specs) error {
	return vmrun.ApplySpecs(vmxPath, specs)
}

func (h *hostControl) SetRemoteDisplay(vmxPath string, enabled bool, port int, password string) error {
	return vmrun.SetRemoteDisplay(vmxPath, enabled, port, password)
}

func (h *hostControl) ReadMACAddress(vmxPath string) (string, error) {
	return vmrun.ReadMACAddress(vmxPath)
}

func (h *hostControl) PurgeVMDirectory(vmxPath string) error {
	dir := filepath.Dir(vmxPath)
	// 不允许清到盘根上去
	if dir == "" || dir == "." || dir == string(filepath.Separator) || filepath.Dir(dir) == dir {
		return fmt.Errorf("refusing to purge %q", dir)
	}
	return os.RemoveAll(dir)
}

func NewHostControl(conf *viper.Viper, logger *log.Logger) HostControl {
	return &hostControl{
		Client: vmrun.NewClient(
			conf.GetString("host.vmrun_bin"),
			conf.GetString("host.type"),
			logger,
		),
	}
}

// NetworkReserver 网络身份能力面：固定 IP 绑定与端口转发，由 vmnet 代理实现
type NetworkReserver interface {
	Ping(ctx context.Context) error
	Reserve(ctx context.Context, vmName, mac, ip string) error
	AddForward(ctx context.Context, rule vmnet.PortForward) error
	DeleteForward(ctx context.Context, protocol string, hostPort int) error
}

func NewNetworkReserver(conf *viper.Viper) NetworkReserver {
	client, err := vmnet.NewClient(
		conf.GetString("vmnet.api_url"),
		conf.GetString("vmnet.token"),
	)
	if err != nil {
		panic(err)
	}
	return client
}

// Notifier 通知投递能力面
type Notifier interface {
	Post(ctx context.Context, webhookURL string, event notify.Event) error
}

func NewNotifier() Notifier {
	return notify.NewClient()
}
