package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yllada/lanparty-client/common"
)

const sampleConfig = `
Name: Friday LAN
Host: vpn.example.net
TcpPort: 443
UdpPort: 1194
UseTcp: false
Username: player1
Password: hunter2
`

func TestDecode(t *testing.T) {
	cfg, err := Decode(strings.NewReader(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "Friday LAN", cfg.Name)
	assert.Equal(t, "vpn.example.net", cfg.Host)
	assert.Equal(t, uint16(443), cfg.TcpPort)
	assert.Equal(t, uint16(1194), cfg.UdpPort)
	assert.False(t, cfg.UseTcp)
	assert.Equal(t, "player1", cfg.Username)
	assert.Equal(t, "hunter2", cfg.Password)
	assert.False(t, cfg.HasInterface())
	assert.Equal(t, common.DefaultInterfaceDescription, cfg.InterfaceDescription())
	assert.Equal(t, common.ProbeTimeout, cfg.ProbeTimeout())
	assert.Zero(t, cfg.ProbeDelay())
}

func TestDecode_LegacyAddress(t *testing.T) {
	doc := `
Name: Old
Address: 198.51.100.7
TcpPort: 443
UdpPort: 1194
Username: u
Password: p
`
	cfg, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "198.51.100.7", cfg.Host)
	assert.Empty(t, cfg.Address)
}

func TestDecode_HostWinsOverAddress(t *testing.T) {
	doc := sampleConfig + "Address: 198.51.100.7\n"
	cfg, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "vpn.example.net", cfg.Host)
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"unknown field", sampleConfig + "Colour: blue\n"},
		{"port overflow", strings.Replace(sampleConfig, "UdpPort: 1194", "UdpPort: 70000", 1)},
		{"negative port", strings.Replace(sampleConfig, "UdpPort: 1194", "UdpPort: -1", 1)},
		{"missing host", strings.Replace(sampleConfig, "Host: vpn.example.net", "", 1)},
		{"missing udp port", strings.Replace(sampleConfig, "UdpPort: 1194", "", 1)},
		{"missing tcp port", strings.Replace(strings.Replace(sampleConfig, "TcpPort: 443", "", 1), "UseTcp: false", "UseTcp: true", 1)},
		{"missing username", strings.Replace(sampleConfig, "Username: player1", "", 1)},
		{"negative delay", sampleConfig + "PingDelay: -5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestRunConfig_ProtocolAndPort(t *testing.T) {
	cfg := RunConfig{TcpPort: 443, UdpPort: 1194}
	assert.Equal(t, "udp", cfg.Protocol())
	assert.Equal(t, uint16(1194), cfg.Port())

	cfg.UseTcp = true
	assert.Equal(t, "tcp", cfg.Protocol())
	assert.Equal(t, uint16(443), cfg.Port())
}

func TestRunConfig_ProbeTiming(t *testing.T) {
	cfg := RunConfig{PingDelay: 1500, PingTimeout: 2000}
	assert.Equal(t, 1500*time.Millisecond, cfg.ProbeDelay())
	assert.Equal(t, 2*time.Second, cfg.ProbeTimeout())
}

func TestRunConfig_ValidateCredentials(t *testing.T) {
	cfg := RunConfig{Username: "u"}
	err := cfg.ValidateCredentials()
	assert.True(t, errors.Is(err, common.ErrCredentialsNotFound))

	cfg.Password = "p"
	assert.NoError(t, cfg.ValidateCredentials())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, common.ConfigFileName)

	_, err := Load(path)
	assert.True(t, errors.Is(err, common.ErrConfigMissing), "got %v", err)

	require.NoError(t, os.WriteFile(path, []byte(sampleConfig+"Interface: TAP-Windows Adapter V9 #2\n"), 0600))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.HasInterface())
	assert.Equal(t, "TAP-Windows Adapter V9 #2", cfg.InterfaceDescription())
}
