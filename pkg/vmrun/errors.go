package vmrun

import (
	"errors"
	"fmt"
	"strings"
)

// Kind 对 vmrun 失败原因的结构化分类。
// 上层只依赖 Kind 做判断，不允许再对错误文本做子串匹配。
type Kind uint8

const (
	// Unknown 未能识别的失败，Detail 中保留原始输出
	Unknown Kind = iota
	// AuthRejected 客户机拒绝了提供的凭据
	AuthRejected
	// NotReady 客户机尚未就绪（VMware Tools 未运行、IP 尚不可得等）
	NotReady
	// Unavailable vmrun 本身不可用（可执行文件缺失、超时、无法打开虚拟机）
	Unavailable
)

func (k Kind) String() string {
	switch k {
	case AuthRejected:
		return "auth_rejected"
	case NotReady:
		return "not_ready"
	case Unavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// OpError vmrun 操作失败
type OpError struct {
	Op     string // vmrun 子命令，如 "revertToSnapshot"
	Kind   Kind
	Detail string // vmrun 输出（已脱敏）
	Err    error  // 底层 exec 错误，可能为 nil
}

func (e *OpError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("vmrun %s: %s (%s)", e.Op, e.Detail, e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("vmrun %s: %v (%s)", e.Op, e.Err, e.Kind)
	}
	return fmt.Sprintf("vmrun %s failed (%s)", e.Op, e.Kind)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// KindOf 提取错误的分类；非 *OpError 一律视为 Unknown
func KindOf(err error) Kind {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return Unknown
}

// vmrun 将错误写到标准输出，形如 "Error: The VMware Tools are not running..."。
// 这里是整个代码库里唯一允许按文本识别原因的地方。
func classify(detail string) Kind {
	d := strings.ToLower(detail)
	switch {
	case strings.Contains(d, "invalid user name or password"):
		return AuthRejected
	case strings.Contains(d, "vmware tools are not running"),
		strings.Contains(d, "unable to get the guest"),
		strings.Contains(d, "guest operations agent"),
		strings.Contains(d, "is not powered on"):
		return NotReady
	case strings.Contains(d, "cannot open the virtual machine"),
		strings.Contains(d, "cannot connect"),
		strings.Contains(d, "file not found"):
		return Unavailable
	default:
		return Unknown
	}
}
