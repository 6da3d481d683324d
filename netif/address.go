package netif

import (
	"context"
	"fmt"
	"net"
	"net/netip"

	"github.com/yllada/lanparty-client/common"
)

// Lookuper performs name lookups. *net.Resolver satisfies it.
type Lookuper interface {
	LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error)
}

// AddressResolver turns the configured host into a concrete address.
type AddressResolver struct {
	lookup Lookuper
}

// NewAddressResolver creates a resolver. A nil lookup uses net.DefaultResolver.
func NewAddressResolver(lookup Lookuper) *AddressResolver {
	if lookup == nil {
		lookup = net.DefaultResolver
	}
	return &AddressResolver{lookup: lookup}
}

// IsLiteral reports whether host is already an IP address.
func IsLiteral(host string) bool {
	_, err := netip.ParseAddr(host)
	return err == nil
}

// Resolve returns host unchanged when it is an IP literal. Otherwise it
// performs one lookup and returns the first IPv4 address in the answer.
func (r *AddressResolver) Resolve(ctx context.Context, host string) (netip.Addr, error) {
	if addr, err := netip.ParseAddr(host); err == nil {
		return addr.Unmap(), nil
	}

	addrs, err := r.lookup.LookupNetIP(ctx, "ip", host)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%w: %s: %v", common.ErrAddressResolution, host, err)
	}

	for _, addr := range addrs {
		if addr = addr.Unmap(); addr.Is4() {
			return addr, nil
		}
	}
	return netip.Addr{}, fmt.Errorf("%w: %s: no IPv4 address", common.ErrAddressResolution, host)
}
