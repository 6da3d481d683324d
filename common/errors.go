// Package common provides shared constants, types, and utilities
// used across the LAN party client.
package common

import "errors"

// Sentinel errors for the supervisor.
// These can be checked with errors.Is() for proper error handling.
var (
	// Startup errors. All of these are fatal.
	ErrConfigMissing       = errors.New("configuration file not found")
	ErrInvalidConfig       = errors.New("invalid configuration")
	ErrCredentialsNotFound = errors.New("credentials not found")
	ErrInterfaceNotFound   = errors.New("network interface not found")
	ErrAddressResolution   = errors.New("address resolution failed")
	ErrLaunchFailed        = errors.New("failed to launch openvpn")

	// Runtime errors.
	ErrProbeFailed             = errors.New("probe failed")
	ErrChildTerminationTimeout = errors.New("openvpn did not exit in time")
)

// WrapError wraps an error with additional context.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg: message,
		err: err,
	}
}

type wrappedError struct {
	msg string
	err error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.err.Error()
}

func (e *wrappedError) Unwrap() error {
	return e.err
}
