package netif

import (
	"fmt"

	"github.com/yllada/lanparty-client/common"
)

// Kind classifies an adapter by link type.
type Kind int

const (
	KindOther Kind = iota
	KindEthernet
	KindWireless
	KindLoopback
	KindTunnel
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindEthernet:
		return "Ethernet"
	case KindWireless:
		return "Wireless"
	case KindLoopback:
		return "Loopback"
	case KindTunnel:
		return "Tunnel"
	default:
		return "Other"
	}
}

// Adapter is a host network interface.
type Adapter struct {
	// ID is what OpenVPN expects after --dev-node: the adapter GUID on
	// Windows, the interface name elsewhere.
	ID string
	// Description is the human-readable adapter description.
	Description string
	Kind        Kind
}

// Enumerator lists host network adapters.
type Enumerator interface {
	Adapters() ([]Adapter, error)
}

// EnumeratorFunc adapts a function to the Enumerator interface.
type EnumeratorFunc func() ([]Adapter, error)

// Adapters calls f.
func (f EnumeratorFunc) Adapters() ([]Adapter, error) {
	return f()
}

// FindInterface returns the first Ethernet adapter whose description
// equals description exactly. Matching is case-sensitive.
func FindInterface(e Enumerator, description string) (Adapter, error) {
	adapters, err := e.Adapters()
	if err != nil {
		return Adapter{}, fmt.Errorf("%w: %s: enumerating adapters: %v", common.ErrInterfaceNotFound, description, err)
	}

	for _, a := range adapters {
		if a.Kind == KindEthernet && a.Description == description {
			return a, nil
		}
	}
	return Adapter{}, fmt.Errorf("%w: %s", common.ErrInterfaceNotFound, description)
}
