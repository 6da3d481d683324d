// Package common provides shared constants, types, and utilities
// used across the LAN party client.
package common

import "time"

// Application metadata.
const (
	// AppName is the display name of the application.
	AppName = "LAN Party Client"
	// AppID is used as the keyring service name and notification source.
	AppID = "lanparty-client"
)

// File names used in the working directory.
const (
	ConfigFileName        = "config.yaml"
	OpenVPNConfigFileName = "config.ovpn"
	PasswordFileName      = "pass.txt"
	OpenVPNLogFileName    = "openvpn-log.log"
	LogFileName           = "lanparty-client.log"
)

// OpenVPN integration.
const (
	// DefaultInterfaceDescription is the TAP adapter used when the
	// configuration does not name one.
	DefaultInterfaceDescription = "TAP-Windows Adapter V9"
	// OpenVPNBinaryWindows is looked up in the working directory.
	OpenVPNBinaryWindows = "openvpn.exe"
	// OpenVPNBinary is looked up in PATH on other platforms.
	OpenVPNBinary = "openvpn"
	// ManagementHost and ManagementPort bind the OpenVPN management interface.
	ManagementHost = "localhost"
	ManagementPort = 7506
	// TunnelMTU, FragmentSize and MSSFix tune the tunnel for LAN games.
	TunnelMTU    = 1500
	FragmentSize = 1356
	MSSFix       = 1356
)

// Default timeouts and intervals.
const (
	// ProbeTimeout bounds a single ICMP echo.
	ProbeTimeout = 10 * time.Second
	// ProbePayloadSize is the echo payload length in bytes.
	ProbePayloadSize = 32
	// ChildTerminationTimeout bounds the wait after killing the OpenVPN process.
	ChildTerminationTimeout = 10 * time.Second
)
