package vmrun

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// .vmx 文件是 key = "value" 形式的文本，修改规格时在文件层面改写。
// 改写必须在虚拟机关机状态下进行，运行中的修改会被 VMware 覆盖。

const (
	vmxKeyNumCPUs  = "numvcpus"
	vmxKeyMemoryMB = "memsize"

	vmxKeyVNCEnabled  = "RemoteDisplay.vnc.enabled"
	vmxKeyVNCPort     = "RemoteDisplay.vnc.port"
	vmxKeyVNCPassword = "RemoteDisplay.vnc.password"

	vmxKeyGeneratedMAC = "ethernet0.generatedAddress"
	vmxKeyStaticMAC    = "ethernet0.address"
)

// ReadSpecs 从 .vmx 文件读取 CPU 与内存规格
func ReadSpecs(vmxPath string) (Specs, error) {
	values, err := readVmx(vmxPath)
	if err != nil {
		return Specs{}, err
	}
	specs := Specs{NumCPUs: 1} // 缺省 numvcpus 时 VMware 按 1 处理
	if v, ok := values[strings.ToLower(vmxKeyNumCPUs)]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			specs.NumCPUs = n
		}
	}
	if v, ok := values[strings.ToLower(vmxKeyMemoryMB)]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			specs.MemoryMB = n
		}
	}
	return specs, nil
}

// ApplySpecs 将 CPU 与内存规格写入 .vmx 文件
func ApplySpecs(vmxPath string, specs Specs) error {
	return updateVmx(vmxPath, map[string]string{
		vmxKeyNumCPUs:  strconv.Itoa(specs.NumCPUs),
		vmxKeyMemoryMB: strconv.Itoa(specs.MemoryMB),
	})
}

// SetRemoteDisplay 配置内建 VNC 服务（RemoteDisplay.vnc.*）
func SetRemoteDisplay(vmxPath string, enabled bool, port int, password string) error {
	return updateVmx(vmxPath, map[string]string{
		vmxKeyVNCEnabled:  strconv.FormatBool(enabled),
		vmxKeyVNCPort:     strconv.Itoa(port),
		vmxKeyVNCPassword: password,
	})
}

// ReadMACAddress 读取第一块网卡的 MAC 地址，
// 自动生成的地址优先，其次是静态配置
func ReadMACAddress(vmxPath string) (string, error) {
	values, err := readVmx(vmxPath)
	if err != nil {
		return "", err
	}
	if mac, ok := values[strings.ToLower(vmxKeyGeneratedMAC)]; ok && mac != "" {
		return strings.ToLower(mac), nil
	}
	if mac, ok := values[strings.ToLower(vmxKeyStaticMAC)]; ok && mac != "" {
		return strings.ToLower(mac), nil
	}
	return "", fmt.Errorf("no ethernet0 mac address in %s", vmxPath)
}

// readVmx 解析 .vmx 为小写 key 到 value 的映射
func readVmx(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	values := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := parseVmxLine(line)
		if !ok {
			continue
		}
		values[strings.ToLower(key)] = value
	}
	return values, nil
}

// updateVmx 原地更新若干键，保留其余行的顺序；缺失的键追加到末尾
func updateVmx(path string, updates map[string]string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	pending := make(map[string]string, len(updates))
	for k, v := range updates {
		pending[strings.ToLower(k)] = v
	}
	display := make(map[string]string, len(updates))
	for k := range updates {
		display[strings.ToLower(k)] = k
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	out := make([]string, 0, len(lines)+len(updates))
	for _, line := range lines {
		key, _, ok := parseVmxLine(line)
		if ok {
			lower := strings.ToLower(key)
			if value, hit := pending[lower]; hit {
				out = append(out, fmt.Sprintf("%s = %q", key, value))
				delete(pending, lower)
				continue
			}
		}
		out = append(out, line)
	}
	for lower, value := range pending {
		out = append(out, fmt.Sprintf("%s = %q", display[lower], value))
	}

	return os.WriteFile(path, []byte(strings.Join(out, "\n")+"\n"), 0644)
}

func parseVmxLine(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	i := strings.Index(line, "=")
	if i < 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:i])
	value = strings.TrimSpace(line[i+1:])
	value = strings.Trim(value, `"`)
	if key == "" {
		return "", "", false
	}
	return key, value, true
}
