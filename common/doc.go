// Package common provides shared constants, types, utilities, and interfaces
// used throughout the LAN party client.
//
// This package serves as the foundation for cross-cutting concerns:
//
//   - Constants: file names, OpenVPN tuning values, timeouts
//   - Errors: sentinel errors for the startup phases and the run loop
//   - Interfaces: LogSink and Notifier abstractions
//   - Logger: console output with INFO, ERROR and OpenVPN classes, plus an
//     optional rotated log file
//   - Utils: executable directory lookup and session identifiers
//
// # Usage
//
//	common.LogWarn("Failed to kill OpenVPN (pid %d): %v", pid, err)
//
//	if errors.Is(err, common.ErrInterfaceNotFound) {
//	    // fatal: OpenVPN needs an explicit device
//	}
package common
