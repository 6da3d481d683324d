// Package common provides shared constants, types, and utilities
// used across the LAN party client.
package common

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
)

// NewSessionID returns a random identifier for one supervisor run.
// It is written to the log so separate runs can be told apart.
func NewSessionID() string {
	return uuid.NewString()
}

// ExecutableDir returns the directory containing the running binary.
// The working files (config.yaml, config.ovpn, pass.txt) live next to it.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", WrapError(err, "failed to locate executable")
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// DefaultOpenVPNPath returns the OpenVPN binary to run. On Windows it is
// shipped next to the client in dir; elsewhere it is looked up in PATH.
func DefaultOpenVPNPath(dir string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(dir, OpenVPNBinaryWindows)
	}
	return OpenVPNBinary
}
