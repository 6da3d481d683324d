// Package config provides the run configuration for the LAN party client.
// It handles loading and validating config.yaml from the working directory.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yllada/lanparty-client/common"
)

// RunConfig represents the user settings for one run.
// Keys use the field names as written by earlier releases of the client,
// so existing config.yaml files keep loading.
type RunConfig struct {
	// Name is a display name for the server.
	Name string `yaml:"Name"`
	// Host is the VPN server, either an IP literal or a host name.
	Host string `yaml:"Host"`
	// Address is the legacy spelling of Host.
	Address string `yaml:"Address,omitempty"`
	// TcpPort is used when UseTcp is set.
	TcpPort uint16 `yaml:"TcpPort"`
	// UdpPort is used otherwise.
	UdpPort uint16 `yaml:"UdpPort"`
	// UseTcp selects TCP transport instead of UDP.
	UseTcp bool `yaml:"UseTcp"`
	// Username and Password are written verbatim to the credentials file.
	Username string `yaml:"Username"`
	Password string `yaml:"Password"`
	// Interface is the description of the TAP adapter to bind to.
	Interface string `yaml:"Interface,omitempty"`
	// PingDelay is the minimum gap in milliseconds between two probes.
	PingDelay int `yaml:"PingDelay,omitempty"`
	// PingTimeout bounds a single probe in milliseconds.
	PingTimeout int `yaml:"PingTimeout,omitempty"`
}

// Load reads and validates the configuration file at path.
// A missing file yields an error wrapping common.ErrConfigMissing.
func Load(path string) (*RunConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", common.ErrConfigMissing, path)
		}
		return nil, fmt.Errorf("error opening configuration: %w", err)
	}
	defer file.Close()

	return Decode(file)
}

// Decode parses a configuration document. Unknown keys are rejected.
func Decode(r io.Reader) (*RunConfig, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var config RunConfig
	if err := decoder.Decode(&config); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty configuration", common.ErrInvalidConfig)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}

	config.applyDefaults()
	if err := config.validateEndpoint(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}

	return &config, nil
}

// applyDefaults fills optional fields and folds the legacy Address key into Host.
func (c *RunConfig) applyDefaults() {
	c.Host = strings.TrimSpace(c.Host)
	if c.Host == "" {
		c.Host = strings.TrimSpace(c.Address)
	}
	c.Address = ""
}

// HasInterface reports whether the file named an adapter explicitly.
func (c *RunConfig) HasInterface() bool {
	return c.Interface != ""
}

// InterfaceDescription returns the adapter to bind to.
func (c *RunConfig) InterfaceDescription() string {
	if c.Interface == "" {
		return common.DefaultInterfaceDescription
	}
	return c.Interface
}

// Protocol returns "tcp" or "udp".
func (c *RunConfig) Protocol() string {
	if c.UseTcp {
		return "tcp"
	}
	return "udp"
}

// Port returns the port matching the selected protocol.
func (c *RunConfig) Port() uint16 {
	if c.UseTcp {
		return c.TcpPort
	}
	return c.UdpPort
}

// ProbeDelay returns the minimum gap between probes.
func (c *RunConfig) ProbeDelay() time.Duration {
	return time.Duration(c.PingDelay) * time.Millisecond
}

// ProbeTimeout returns the per-probe timeout.
func (c *RunConfig) ProbeTimeout() time.Duration {
	if c.PingTimeout <= 0 {
		return common.ProbeTimeout
	}
	return time.Duration(c.PingTimeout) * time.Millisecond
}

// validateEndpoint checks the fields that cannot be recovered later.
func (c *RunConfig) validateEndpoint() error {
	if c.Host == "" {
		return errors.New("Host is required")
	}
	if c.Port() == 0 {
		if c.UseTcp {
			return errors.New("TcpPort is required when UseTcp is set")
		}
		return errors.New("UdpPort is required")
	}
	if c.PingDelay < 0 {
		return errors.New("PingDelay must not be negative")
	}
	if c.PingTimeout < 0 {
		return errors.New("PingTimeout must not be negative")
	}
	if c.Username == "" {
		return errors.New("Username is required")
	}
	return nil
}

// ValidateCredentials checks that both credentials are present.
// Called after the keyring fallback had a chance to fill the password.
func (c *RunConfig) ValidateCredentials() error {
	if c.Username == "" || c.Password == "" {
		return fmt.Errorf("%w: Username and Password are required", common.ErrCredentialsNotFound)
	}
	return nil
}
