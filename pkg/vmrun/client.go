package vmrun

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"vmxsphere/pkg/log"

	"go.uber.org/zap"
)

// Client 封装 VMware Workstation 的 vmrun 命令行工具。
// 所有虚拟机由其 .vmx 文件路径标识。
type Client struct {
	bin      string        // vmrun 可执行文件路径
	hostType string        // -T 参数，Workstation 为 "ws"
	timeout  time.Duration // 单次调用的超时上限
	logger   *log.Logger
}

// GuestCredentials 客户机操作（-gu/-gp）所需的账号
type GuestCredentials struct {
	Username string
	Password string
}

// Specs 虚拟机硬件规格（读写 .vmx 文件）
type Specs struct {
	NumCPUs  int
	MemoryMB int
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func NewClient(bin, hostType string, logger *log.Logger, opts ...Option) *Client {
	c := &Client{
		bin:      bin,
		hostType: hostType,
		timeout:  5 * time.Minute,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// run 执行一次 vmrun 调用并返回标准输出。
// vmrun 的错误信息打印在标准输出上（"Error: ..."），退出码非零。
func (c *Client) run(ctx context.Context, guest *GuestCredentials, command string, args ...string) (string, error) {
	argv := []string{"-T", c.hostType}
	if guest != nil {
		argv = append(argv, "-gu", guest.Username, "-gp", guest.Password)
	}
	argv = append(argv, command)
	argv = append(argv, args...)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.bin, argv...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger.Debug("vmrun exec", zap.Strings("args", redactArgs(argv)))

	err := cmd.Run()
	if err != nil {
		detail := strings.TrimSpace(stdout.String())
		if detail == "" {
			detail = strings.TrimSpace(stderr.String())
		}
		kind := classify(detail)
		if errors.Is(err, exec.ErrNotFound) {
			kind = Unavailable
			detail = fmt.Sprintf("executable %q not found", c.bin)
		} else if ctx.Err() == context.DeadlineExceeded {
			kind = Unavailable
			detail = fmt.Sprintf("timed out after %s", c.timeout)
		}
		return "", &OpError{Op: command, Kind: kind, Detail: detail, Err: err}
	}
	return stdout.String(), nil
}

// redactArgs 在日志中抹掉 -gp 后面的口令
func redactArgs(argv []string) []string {
	out := make([]string, len(argv))
	copy(out, argv)
	for i := 0; i < len(out)-1; i++ {
		if out[i] == "-gp" {
			out[i+1] = "******"
		}
	}
	return out
}

// List vmrun list，返回当前运行中虚拟机的 .vmx 路径列表
func (c *Client) List(ctx context.Context) ([]string, error) {
	out, err := c.run(ctx, nil, "list")
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "Total running VMs") {
			continue
		}
		paths = append(paths, line)
	}
	return paths, nil
}

// IsRunning 判断虚拟机是否在运行（基于 vmrun list）
func (c *Client) IsRunning(ctx context.Context, vmxPath string) (bool, error) {
	paths, err := c.List(ctx)
	if err != nil {
		return false, err
	}
	target := filepath.Clean(vmxPath)
	for _, p := range paths {
		// Workstation 宿主机多为 Windows，路径比较不区分大小写
		if strings.EqualFold(filepath.Clean(p), target) {
			return true, nil
		}
	}
	return false, nil
}

// Start vmrun start <vmx> nogui
func (c *Client) Start(ctx context.Context, vmxPath string) error {
	_, err := c.run(ctx, nil, "start", vmxPath, "nogui")
	return err
}

// Stop vmrun stop <vmx> hard|soft
func (c *Client) Stop(ctx context.Context, vmxPath string, hard bool) error {
	mode := "soft"
	if hard {
		mode = "hard"
	}
	_, err := c.run(ctx, nil, "stop", vmxPath, mode)
	return err
}

// Reset vmrun reset <vmx> hard|soft
func (c *Client) Reset(ctx context.Context, vmxPath string, hard bool) error {
	mode := "soft"
	if hard {
		mode = "hard"
	}
	_, err := c.run(ctx, nil, "reset", vmxPath, mode)
	return err
}

// ListSnapshots vmrun listSnapshots <vmx>，顺序与 vmrun 输出一致
func (c *Client) ListSnapshots(ctx context.Context, vmxPath string) ([]string, error) {
	out, err := c.run(ctx, nil, "listSnapshots", vmxPath)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "Total snapshots") {
			continue
		}
		names = append(names, line)
	}
	return names, nil
}

// CreateSnapshot vmrun snapshot <vmx> <name>
func (c *Client) CreateSnapshot(ctx context.Context, vmxPath, name string) error {
	_, err := c.run(ctx, nil, "snapshot", vmxPath, name)
	return err
}

// RevertToSnapshot vmrun revertToSnapshot <vmx> <name>
func (c *Client) RevertToSnapshot(ctx context.Context, vmxPath, name string) error {
	_, err := c.run(ctx, nil, "revertToSnapshot", vmxPath, name)
	return err
}

// DeleteSnapshot vmrun deleteSnapshot <vmx> <name>
func (c *Client) DeleteSnapshot(ctx context.Context, vmxPath, name string) error {
	_, err := c.run(ctx, nil, "deleteSnapshot", vmxPath, name)
	return err
}

// DeleteVM vmrun deleteVM <vmx>，删除虚拟机及其磁盘
func (c *Client) DeleteVM(ctx context.Context, vmxPath string) error {
	_, err := c.run(ctx, nil, "deleteVM", vmxPath)
	return err
}

// Clone vmrun clone <src> <dst> linked|full [-snapshot=...] [-cloneName=...]
func (c *Client) Clone(ctx context.Context, srcVmx, dstVmx, cloneName string, linked bool, snapshot string) error {
	mode := "full"
	if linked {
		mode = "linked"
	}
	args := []string{srcVmx, dstVmx, mode}
	if snapshot != "" {
		args = append(args, "-snapshot="+snapshot)
	}
	if cloneName != "" {
		args = append(args, "-cloneName="+cloneName)
	}
	_, err := c.run(ctx, nil, "clone", args...)
	return err
}

// GuestIP vmrun getGuestIPAddress <vmx> [-wait]
// 客户机未就绪时以 NotReady 失败；wait 为 true 时由 vmrun 自行阻塞等待
func (c *Client) GuestIP(ctx context.Context, vmxPath string, wait bool) (string, error) {
	args := []string{vmxPath}
	if wait {
		args = append(args, "-wait")
	}
	out, err := c.run(ctx, nil, "getGuestIPAddress", args...)
	if err != nil {
		return "", err
	}
	ip := strings.TrimSpace(out)
	if ip == "" {
		return "", &OpError{Op: "getGuestIPAddress", Kind: NotReady, Detail: "empty address returned"}
	}
	return ip, nil
}

// CopyToGuest vmrun CopyFileFromHostToGuest <vmx> <host path> <guest path>
func (c *Client) CopyToGuest(ctx context.Context, vmxPath string, creds GuestCredentials, hostPath, guestPath string) error {
	_, err := c.run(ctx, &creds, "CopyFileFromHostToGuest", vmxPath, hostPath, guestPath)
	return err
}

// RunInGuest vmrun runProgramInGuest <vmx> [-interactive] <program> [args...]
func (c *Client) RunInGuest(ctx context.Context, vmxPath string, creds GuestCredentials, interactive bool, program string, args ...string) error {
	argv := []string{vmxPath}
	if interactive {
		argv = append(argv, "-interactive")
	}
	argv = append(argv, program)
	argv = append(argv, args...)
	_, err := c.run(ctx, &creds, "runProgramInGuest", argv...)
	return err
}

// CaptureScreen vmrun captureScreen <vmx> <host path>，输出 PNG
func (c *Client) CaptureScreen(ctx context.Context, vmxPath, hostPath string) error {
	_, err := c.run(ctx, nil, "captureScreen", vmxPath, hostPath)
	return err
}
