//go:build !windows

package netif

import (
	"net"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const sysfsNetRoot = "/sys/class/net"

// ARPHRD values found in /sys/class/net/<if>/type.
const (
	arphrdEther    = "1"
	arphrdLoopback = "772"
	arphrdNone     = "65534"
)

// SystemEnumerator lists adapters with net.Interfaces and classifies
// them using sysfs attributes when available.
type SystemEnumerator struct {
	fs   afero.Fs
	root string
	list func() ([]net.Interface, error)
}

// NewSystemEnumerator returns an enumerator for the running host.
func NewSystemEnumerator() *SystemEnumerator {
	return &SystemEnumerator{
		fs:   afero.NewReadOnlyFs(afero.NewOsFs()),
		root: sysfsNetRoot,
		list: net.Interfaces,
	}
}

// Adapters lists every interface on the host.
func (e *SystemEnumerator) Adapters() ([]Adapter, error) {
	ifaces, err := e.list()
	if err != nil {
		return nil, err
	}

	adapters := make([]Adapter, 0, len(ifaces))
	for _, ifi := range ifaces {
		adapters = append(adapters, Adapter{
			ID:          ifi.Name,
			Description: e.description(ifi.Name),
			Kind:        e.kind(ifi),
		})
	}
	return adapters, nil
}

// description prefers the administrator-set alias over the kernel name.
func (e *SystemEnumerator) description(name string) string {
	data, err := afero.ReadFile(e.fs, filepath.Join(e.root, name, "ifalias"))
	if err == nil {
		if alias := strings.TrimSpace(string(data)); alias != "" {
			return alias
		}
	}
	return name
}

func (e *SystemEnumerator) kind(ifi net.Interface) Kind {
	if ifi.Flags&net.FlagLoopback != 0 {
		return KindLoopback
	}

	dir := filepath.Join(e.root, ifi.Name)
	for _, marker := range []string{"wireless", "phy80211"} {
		if ok, _ := afero.Exists(e.fs, filepath.Join(dir, marker)); ok {
			return KindWireless
		}
	}

	data, err := afero.ReadFile(e.fs, filepath.Join(dir, "type"))
	if err != nil {
		// No sysfs (BSD, macOS): fall back to interface flags.
		switch {
		case ifi.Flags&net.FlagPointToPoint != 0:
			return KindTunnel
		case len(ifi.HardwareAddr) == 6:
			return KindEthernet
		default:
			return KindOther
		}
	}

	switch strings.TrimSpace(string(data)) {
	case arphrdEther:
		return KindEthernet
	case arphrdLoopback:
		return KindLoopback
	case arphrdNone:
		return KindTunnel
	default:
		return KindOther
	}
}
