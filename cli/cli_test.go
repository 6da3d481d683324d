package cli

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yllada/lanparty-client/config"
	"github.com/yllada/lanparty-client/netif"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{0, "0s"},
		{42 * time.Second, "42s"},
		{3*time.Minute + 5*time.Second, "3m 5s"},
		{2*time.Hour + 7*time.Minute + 9*time.Second, "2h 7m 9s"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDuration(tt.d))
		})
	}
}

func TestPrintVersion(t *testing.T) {
	var buf bytes.Buffer
	PrintVersion(&buf, BuildInfo{Version: "dev", BuildTime: "unknown", CommitSHA: "unknown"})
	assert.Equal(t, "LAN Party Client vdev\n", buf.String())

	buf.Reset()
	PrintVersion(&buf, BuildInfo{Version: "1.4.0", BuildTime: "2026-09-01", CommitSHA: "abc123"})
	assert.Contains(t, buf.String(), "Build:  2026-09-01")
	assert.Contains(t, buf.String(), "Commit: abc123")
}

func TestPrintSettings(t *testing.T) {
	var buf bytes.Buffer
	PrintSettings(&buf, &config.RunConfig{
		Host:     "vpn.example.net",
		TcpPort:  443,
		UdpPort:  1194,
		Username: "player1",
		Password: "hunter2",
	})

	out := buf.String()
	assert.NotContains(t, out, "hunter2")
	assert.Contains(t, out, "udp/1194")
	assert.Contains(t, out, "TAP-Windows Adapter V9 (default)")
	assert.Contains(t, out, "Password       set")
	assert.Contains(t, out, "Name           -")
}

func TestPrintAdapters(t *testing.T) {
	var buf bytes.Buffer
	PrintAdapters(&buf, []netif.Adapter{
		{ID: "eth0", Description: "Onboard", Kind: netif.KindEthernet},
		{ID: "tap0", Description: "TAP-Windows Adapter V9", Kind: netif.KindEthernet},
		{ID: "tun0", Description: "TAP-Windows Adapter V9", Kind: netif.KindTunnel},
	}, "TAP-Windows Adapter V9")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasSuffix(lines[3], "yes"), lines[3])
	assert.False(t, strings.HasSuffix(lines[2], "yes"), lines[2])
	assert.False(t, strings.HasSuffix(lines[4], "yes"), lines[4])

	buf.Reset()
	PrintAdapters(&buf, nil, "x")
	assert.Equal(t, "No network adapters found.\n", buf.String())
}

func TestPause_NotATerminal(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	var out bytes.Buffer
	assert.False(t, Pause(r, &out))
	assert.Empty(t, out.String())
}

func TestPrintHelp(t *testing.T) {
	var buf bytes.Buffer
	PrintHelp(&buf)
	for _, flag := range []string{"-config", "-dir", "-openvpn", "-check", "-save-password", "-notify", "-no-pause", "-privileged-icmp", "-forget-password"} {
		assert.Contains(t, buf.String(), flag)
	}
}
