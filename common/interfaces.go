// Package common provides shared constants, types, and utilities
// used across the LAN party client.
package common

// LogSink receives the three console message classes.
// The supervisor only talks to this interface so tests can capture output.
type LogSink interface {
	// Info logs an informational message.
	Info(msg string, args ...interface{})
	// Error logs an error message.
	Error(msg string, args ...interface{})
	// Relay logs one line of OpenVPN output verbatim.
	Relay(line string)
}

// Notifier defines the interface for sending desktop notifications.
type Notifier interface {
	// Notify sends an informational notification.
	Notify(title, message string) error
	// NotifyError sends a notification flagged as critical.
	NotifyError(title, message string) error
}
