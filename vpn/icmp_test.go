package vpn

import (
	"context"
	"net"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProbePayload(t *testing.T) {
	payload := probePayload(32)
	assert.Len(t, payload, 32)
	assert.Equal(t, "abcdefghijklmnopqrstuvwabcdefghi", string(payload))
}

func TestICMPProber_QuotesEcho(t *testing.T) {
	p := NewICMPProber(true)
	p.id = 0x1234

	// Minimal IPv4 header (IHL 5) followed by the first 8 bytes of an echo request.
	ipv4Quote := func(id, seq int) []byte {
		data := make([]byte, 20, 28)
		data[0] = 0x45
		return append(data, 8, 0, 0, 0, byte(id>>8), byte(id), byte(seq>>8), byte(seq))
	}

	v4 := p.family(netip.MustParseAddr("203.0.113.5"))
	assert.True(t, p.quotesEcho(v4, ipv4Quote(0x1234, 7), 7))
	assert.False(t, p.quotesEcho(v4, ipv4Quote(0x1234, 8), 7))
	assert.False(t, p.quotesEcho(v4, ipv4Quote(0x4321, 7), 7))
	assert.False(t, p.quotesEcho(v4, []byte{0x45, 0, 0}, 7))
	assert.False(t, p.quotesEcho(v4, nil, 7))

	v6 := p.family(netip.MustParseAddr("2001:db8::1"))
	data := make([]byte, 40, 48)
	data = append(data, 128, 0, 0, 0, 0x12, 0x34, 0, 9)
	assert.True(t, p.quotesEcho(v6, data, 9))

	// Datagram sockets do not preserve the identifier.
	unprivileged := NewICMPProber(false)
	assert.True(t, unprivileged.quotesEcho(v4, ipv4Quote(0x9999, 7), 7))
}

func TestICMPProber_Family(t *testing.T) {
	tests := []struct {
		name       string
		privileged bool
		target     string
		network    string
	}{
		{"v4 datagram", false, "203.0.113.5", "udp4"},
		{"v4 raw", true, "203.0.113.5", "ip4:icmp"},
		{"v6 datagram", false, "2001:db8::1", "udp6"},
		{"v6 raw", true, "2001:db8::1", "ip6:ipv6-icmp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewICMPProber(tt.privileged)
			assert.Equal(t, tt.network, p.family(netip.MustParseAddr(tt.target)).network)
		})
	}
}

func TestPeerAddr(t *testing.T) {
	assert.Equal(t, netip.MustParseAddr("203.0.113.5"), peerAddr(&net.IPAddr{IP: net.ParseIP("203.0.113.5")}))
	assert.Equal(t, netip.MustParseAddr("203.0.113.5"), peerAddr(&net.UDPAddr{IP: net.IPv4(203, 0, 113, 5)}))
	assert.False(t, peerAddr(&net.TCPAddr{}).IsValid())
}

func TestICMPProber_Failure(t *testing.T) {
	p := NewICMPProber(false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := p.failure(ctx, &net.OpError{Op: "read", Err: context.Canceled})
	assert.Equal(t, ProbeError, result.Status)
	assert.ErrorIs(t, result.Err, context.Canceled)

	result = p.failure(context.Background(), timeoutError{})
	assert.Equal(t, ProbeTimeout, result.Status)
}

func TestICMPProber_CancelledContext(t *testing.T) {
	p := NewICMPProber(DefaultPrivileged())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	result := p.Probe(ctx, netip.MustParseAddr("192.0.2.1"), 5*time.Second)
	assert.False(t, result.OK())
	assert.Less(t, time.Since(start), 5*time.Second)
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }
