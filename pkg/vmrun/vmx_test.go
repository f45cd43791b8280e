package vmrun

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleVmx = `.encoding = "windows-1252"
config.version = "8"
virtualHW.version = "18"
displayName = "ws-0001"
numvcpus = "4"
memsize = "8192"
ethernet0.present = "TRUE"
ethernet0.generatedAddress = "00:0C:29:AA:BB:CC"
# a comment line
scsi0.present = "TRUE"
`

func writeVmx(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ws-0001.vmx")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadSpecs(t *testing.T) {
	path := writeVmx(t, sampleVmx)

	specs, err := ReadSpecs(path)
	require.NoError(t, err)
	assert.Equal(t, 4, specs.NumCPUs)
	assert.Equal(t, 8192, specs.MemoryMB)
}

func TestReadSpecsDefaultsToOneCPU(t *testing.T) {
	path := writeVmx(t, "memsize = \"2048\"\n")

	specs, err := ReadSpecs(path)
	require.NoError(t, err)
	assert.Equal(t, 1, specs.NumCPUs)
	assert.Equal(t, 2048, specs.MemoryMB)
}

func TestApplySpecsRewritesInPlace(t *testing.T) {
	path := writeVmx(t, sampleVmx)

	require.NoError(t, ApplySpecs(path, Specs{NumCPUs: 2, MemoryMB: 4096}))

	specs, err := ReadSpecs(path)
	require.NoError(t, err)
	assert.Equal(t, 2, specs.NumCPUs)
	assert.Equal(t, 4096, specs.MemoryMB)

	// 其余行要原样保留，注释也不能丢
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, `displayName = "ws-0001"`)
	assert.Contains(t, content, "# a comment line")
	assert.Equal(t, 1, strings.Count(content, "numvcpus"))
}

func TestSetRemoteDisplayAppendsMissingKeys(t *testing.T) {
	path := writeVmx(t, sampleVmx)

	require.NoError(t, SetRemoteDisplay(path, true, 5901, "secret"))

	values, err := readVmx(path)
	require.NoError(t, err)
	assert.Equal(t, "true", values["remotedisplay.vnc.enabled"])
	assert.Equal(t, "5901", values["remotedisplay.vnc.port"])
	assert.Equal(t, "secret", values["remotedisplay.vnc.password"])
}

func TestReadMACAddress(t *testing.T) {
	path := writeVmx(t, sampleVmx)

	mac, err := ReadMACAddress(path)
	require.NoError(t, err)
	assert.Equal(t, "00:0c:29:aa:bb:cc", mac)
}

func TestReadMACAddressFallsBackToStatic(t *testing.T) {
	path := writeVmx(t, "ethernet0.address = \"00:50:56:01:02:03\"\n")

	mac, err := ReadMACAddress(path)
	require.NoError(t, err)
	assert.Equal(t, "00:50:56:01:02:03", mac)
}

func TestReadMACAddressMissing(t *testing.T) {
	path := writeVmx(t, "displayName = \"bare\"\n")

	_, err := ReadMACAddress(path)
	assert.Error(t, err)
}

func TestParseVmxLine(t *testing.T) {
	tests := []struct {
		line      string
		wantKey   string
		wantValue string
		wantOk    bool
	}{
		{`numvcpus = "4"`, "numvcpus", "4", true},
		{`displayName = "a = b"`, "displayName", "a = b", true},
		{"# comment", "", "", false},
		{"", "", "", false},
		{"no equals sign", "", "", false},
	}
	for _, tt := range tests {
		key, value, ok := parseVmxLine(tt.line)
		assert.Equal(t, tt.wantOk, ok, "line %q", tt.line)
		assert.Equal(t, tt.wantKey, key, "line %q", tt.line)
		assert.Equal(t, tt.wantValue, value, "line %q", tt.line)
	}
}
