package vmrun

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		detail string
		want   Kind
	}{
		{
			name:   "credentials rejected",
			detail: "Error: Invalid user name or password for the guest OS",
			want:   AuthRejected,
		},
		{
			name:   "tools not running",
			detail: "Error: The VMware Tools are not running in the virtual machine",
			want:   NotReady,
		},
		{
			name:   "no guest ip yet",
			detail: "Error: Unable to get the guest's IP address",
			want:   NotReady,
		},
		{
			name:   "powered off",
			detail: "Error: The virtual machine is not powered on",
			want:   NotReady,
		},
		{
			name:   "vmx missing",
			detail: "Error: Cannot open the virtual machine",
			want:   Unavailable,
		},
		{
			name:   "anything else",
			detail: "Error: The snapshot already exists",
			want:   Unknown,
		},
		{
			name:   "empty",
			detail: "",
			want:   Unknown,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.detail))
		})
	}
}

func TestKindOf(t *testing.T) {
	opErr := &OpError{Op: "stop", Kind: Unavailable, Detail: "cannot connect"}

	assert.Equal(t, Unavailable, KindOf(opErr))
	// 包装一层也要能提取出来
	assert.Equal(t, Unavailable, KindOf(fmt.Errorf("reinstall: %w", opErr)))
	// 非 OpError 一律 Unknown
	assert.Equal(t, Unknown, KindOf(errors.New("plain error")))
	assert.Equal(t, Unknown, KindOf(nil))
}

func TestOpErrorMessage(t *testing.T) {
	err := &OpError{Op: "revertToSnapshot", Kind: Unknown, Detail: "Error: The snapshot does not exist"}
	assert.Contains(t, err.Error(), "revertToSnapshot")
	assert.Contains(t, err.Error(), "The snapshot does not exist")

	wrapped := &OpError{Op: "start", Kind: Unavailable, Err: errors.New("exit status 255")}
	assert.Contains(t, wrapped.Error(), "exit status 255")
	assert.Equal(t, "exit status 255", errors.Unwrap(wrapped).Error())
}

func TestRedactArgs(t *testing.T) {
	argv := []string{"-T", "ws", "-gu", "Administrator", "-gp", "Kossa123", "runProgramInGuest"}
	redacted := redactArgs(argv)

	assert.Equal(t, "******", redacted[5])
	assert.Equal(t, "Administrator", redacted[3])
	// 原始参数不能被改动
	assert.Equal(t, "Kossa123", argv[5])
}
