package netif

import (
	"context"
	"errors"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yllada/lanparty-client/common"
)

type fakeLookuper struct {
	calls int
	addrs []netip.Addr
	err   error
}

func (f *fakeLookuper) LookupNetIP(_ context.Context, _, _ string) ([]netip.Addr, error) {
	f.calls++
	return f.addrs, f.err
}

func TestResolve_LiteralSkipsLookup(t *testing.T) {
	tests := []string{
		"203.0.113.5",
		"10.0.0.1",
		"::1",
		"2001:db8::5",
		"::ffff:198.51.100.9",
	}

	for _, host := range tests {
		t.Run(host, func(t *testing.T) {
			lookup := &fakeLookuper{err: errors.New("must not be called")}
			r := NewAddressResolver(lookup)

			addr, err := r.Resolve(context.Background(), host)
			require.NoError(t, err)
			assert.Equal(t, netip.MustParseAddr(host).Unmap(), addr)
			assert.Zero(t, lookup.calls)
			assert.True(t, IsLiteral(host))
		})
	}
}

func TestResolve_FirstIPv4Wins(t *testing.T) {
	lookup := &fakeLookuper{addrs: []netip.Addr{
		netip.MustParseAddr("2001:db8::1"),
		netip.MustParseAddr("::ffff:192.0.2.10"),
		netip.MustParseAddr("192.0.2.20"),
	}}
	r := NewAddressResolver(lookup)

	addr, err := r.Resolve(context.Background(), "vpn.example.net")
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddr("192.0.2.10"), addr)
	assert.Equal(t, 1, lookup.calls)
	assert.False(t, IsLiteral("vpn.example.net"))
}

func TestResolve_Failures(t *testing.T) {
	tests := []struct {
		name   string
		lookup *fakeLookuper
	}{
		{"lookup error", &fakeLookuper{err: errors.New("no such host")}},
		{"ipv6 only", &fakeLookuper{addrs: []netip.Addr{netip.MustParseAddr("2001:db8::1")}}},
		{"empty answer", &fakeLookuper{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewAddressResolver(tt.lookup)
			_, err := r.Resolve(context.Background(), "vpn.example.net")
			assert.True(t, errors.Is(err, common.ErrAddressResolution), "got %v", err)
			assert.Equal(t, 1, tt.lookup.calls)
		})
	}
}
