//go:build windows

package netif

import (
	"errors"
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

// IANA ifType values reported by GetAdaptersAddresses.
const (
	ifTypeEthernetCSMACD   = 6
	ifTypeSoftwareLoopback = 24
	ifTypeIEEE80211        = 71
	ifTypeTunnel           = 131
)

// SystemEnumerator lists adapters with GetAdaptersAddresses.
type SystemEnumerator struct{}

// NewSystemEnumerator returns an enumerator for the running host.
func NewSystemEnumerator() *SystemEnumerator {
	return &SystemEnumerator{}
}

// Adapters lists every adapter, including disconnected ones. The TAP
// adapter reports as Ethernet and is only "up" while OpenVPN holds it.
func (e *SystemEnumerator) Adapters() ([]Adapter, error) {
	buf, err := adapterAddresses()
	if err != nil {
		return nil, err
	}

	var adapters []Adapter
	for aa := buf; aa != nil; aa = aa.Next {
		adapters = append(adapters, Adapter{
			ID:          windows.BytePtrToString(aa.AdapterName),
			Description: windows.UTF16PtrToString(aa.Description),
			Kind:        kindFromIfType(aa.IfType),
		})
	}
	return adapters, nil
}

func kindFromIfType(ifType uint32) Kind {
	switch ifType {
	case ifTypeEthernetCSMACD:
		return KindEthernet
	case ifTypeIEEE80211:
		return KindWireless
	case ifTypeSoftwareLoopback:
		return KindLoopback
	case ifTypeTunnel:
		return KindTunnel
	default:
		return KindOther
	}
}

// adapterAddresses grows the buffer until the adapter list fits.
func adapterAddresses() (*windows.IpAdapterAddresses, error) {
	size := uint32(15000)
	for {
		buf := make([]byte, size)
		aa := (*windows.IpAdapterAddresses)(unsafe.Pointer(&buf[0]))
		err := windows.GetAdaptersAddresses(windows.AF_UNSPEC, windows.GAA_FLAG_INCLUDE_PREFIX, 0, aa, &size)
		if err == nil {
			if size == 0 {
				return nil, nil
			}
			return aa, nil
		}
		if !errors.Is(err, windows.ERROR_BUFFER_OVERFLOW) {
			return nil, os.NewSyscallError("getadaptersaddresses", err)
		}
		if size <= uint32(len(buf)) {
			return nil, os.NewSyscallError("getadaptersaddresses", err)
		}
	}
}
