// Package netif resolves the two network facts the supervisor needs
// before OpenVPN can start: the TAP adapter to bind with --dev-node and
// the concrete address of the VPN server.
//
// Both are resolved once at startup. Adapter enumeration is platform
// specific (GetAdaptersAddresses on Windows, net.Interfaces plus sysfs
// elsewhere) and sits behind the Enumerator interface so selection logic
// can be tested against a fixed adapter list.
package netif
