// Package main provides the entry point for the LAN party client.
// The client launches OpenVPN bound to a TAP adapter, relays its output to
// the console, and keeps probing the server so the operator can see the
// link latency while playing.
//
// Usage:
//
//	lanparty-client [options]
//
// Environment:
//
//	config.yaml is read from the working directory, which defaults to the
//	directory of the executable. On Windows openvpn.exe is expected there
//	too; elsewhere openvpn is taken from PATH.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/afero"

	"github.com/yllada/lanparty-client/cli"
	"github.com/yllada/lanparty-client/common"
	"github.com/yllada/lanparty-client/config"
	"github.com/yllada/lanparty-client/keyring"
	"github.com/yllada/lanparty-client/netif"
	"github.com/yllada/lanparty-client/notify"
	"github.com/yllada/lanparty-client/vpn"
)

// Build-time variables injected via ldflags (-X main.appVersion=x.y.z)
// Default values are used for local development builds
var (
	appVersion = "dev"
	buildTime  = "unknown"
	commitSHA  = "unknown"
)

var (
	showVersion = flag.Bool("version", false, "Show version and exit")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	showHelp    = flag.Bool("help", false, "Show help message")

	configPath     = flag.String("config", "", "Configuration file (default: config.yaml in the working directory)")
	workDir        = flag.String("dir", "", "Working directory (default: the executable's directory)")
	openvpnPath    = flag.String("openvpn", "", "OpenVPN binary")
	checkOnly      = flag.Bool("check", false, "Validate the configuration, list adapters and exit")
	savePassword   = flag.Bool("save-password", false, "Store the configured password in the system keyring")
	forgetPassword = flag.Bool("forget-password", false, "Remove the stored password from the system keyring")
	desktopNotify  = flag.Bool("notify", false, "Show desktop notifications on link changes")
	noPause        = flag.Bool("no-pause", false, "Exit on fatal errors without waiting for a keypress")
	privilegedICMP = flag.Bool("privileged-icmp", vpn.DefaultPrivileged(), "Use raw ICMP sockets for probes")
)

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	if *showHelp {
		cli.PrintHelp(os.Stdout)
		return 0
	}

	if *showVersion {
		cli.PrintVersion(os.Stdout, cli.BuildInfo{Version: appVersion, BuildTime: buildTime, CommitSHA: commitSHA})
		return 0
	}

	logLevel := common.LevelInfo
	if *verbose {
		logLevel = common.LevelDebug
	}
	if err := common.InitLogger(common.LogConfig{
		Level:      logLevel,
		EnableFile: true,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not initialize file logging: %v\n", err)
	}
	defer common.CloseLogger()
	logger := common.GetLogger()

	dir, err := resolveWorkDir()
	if err != nil {
		return fatal(logger, err)
	}

	logger.Info("Starting %s v%s", common.AppName, appVersion)
	logger.Debug("Session %s, working directory %s", common.NewSessionID(), dir)

	// Handle shutdown signals (SIGINT, SIGTERM)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path := *configPath
	if path == "" {
		path = filepath.Join(dir, common.ConfigFileName)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fatal(logger, err)
	}

	if err := applyKeyring(logger, cfg); err != nil {
		return fatal(logger, err)
	}

	interfaces := netif.NewSystemEnumerator()
	if *checkOnly {
		return check(cfg, interfaces)
	}

	notifier, closeNotifier, err := notify.New(*desktopNotify)
	if err != nil {
		logger.Warn("Desktop notifications disabled: %v", err)
	}
	defer closeNotifier()

	binary := *openvpnPath
	if binary == "" {
		binary = common.DefaultOpenVPNPath(dir)
	}

	supervisor := vpn.NewSupervisor(vpn.Options{
		Config:     cfg,
		Interfaces: interfaces,
		Resolver:   netif.NewAddressResolver(nil),
		Prober:     vpn.NewICMPProber(*privilegedICMP),
		Fs:         afero.NewOsFs(),
		WorkDir:    dir,
		Binary:     binary,
		Sink:       logger,
		Notifier:   notifier,
	})

	started := time.Now()
	if err := supervisor.Run(ctx); err != nil {
		if errors.Is(err, common.ErrChildTerminationTimeout) {
			logger.Error("%v", err)
			return 1
		}
		return fatal(logger, err)
	}

	logger.Info("Session lasted %s", cli.FormatDuration(time.Since(started)))
	return 0
}

// resolveWorkDir picks the working directory and makes it current, so
// relative paths in config.ovpn resolve next to the runtime files.
func resolveWorkDir() (string, error) {
	dir := *workDir
	if dir == "" {
		exeDir, err := common.ExecutableDir()
		if err != nil {
			return "", err
		}
		dir = exeDir
	}

	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", common.WrapError(err, "invalid working directory")
	}
	if err := os.Chdir(dir); err != nil {
		return "", common.WrapError(err, "failed to change working directory")
	}
	return dir, nil
}

// applyKeyring stores, removes or looks up the password, then checks both
// credentials are present.
func applyKeyring(logger *common.AppLogger, cfg *config.RunConfig) error {
	if *forgetPassword {
		if err := keyring.Delete(cfg.Username); err != nil {
			logger.Warn("Could not remove password from keyring: %v", err)
		} else {
			logger.Info("Password for %s removed from the system keyring", cfg.Username)
		}
		return cfg.ValidateCredentials()
	}

	if *savePassword {
		if err := keyring.Store(cfg.Username, cfg.Password); err != nil {
			logger.Warn("Could not save password to keyring: %v", err)
		} else {
			logger.Info("Password for %s saved to the system keyring", cfg.Username)
		}
	}

	filled, err := keyring.FillPassword(cfg.Username, &cfg.Password)
	switch {
	case filled:
		logger.Info("Using password for %s from the system keyring", cfg.Username)
	case err != nil && !errors.Is(err, keyring.ErrNotFound):
		logger.Warn("Keyring lookup failed: %v", err)
	}

	return cfg.ValidateCredentials()
}

// check prints the effective settings and the adapter list.
func check(cfg *config.RunConfig, interfaces netif.Enumerator) int {
	cli.PrintSettings(os.Stdout, cfg)
	fmt.Println()

	adapters, err := interfaces.Adapters()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	cli.PrintAdapters(os.Stdout, adapters, cfg.InterfaceDescription())

	if _, err := netif.FindInterface(interfaces, cfg.InterfaceDescription()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// fatal logs err and waits for an acknowledgment unless -no-pause is set.
func fatal(logger *common.AppLogger, err error) int {
	logger.Error("%v", err)
	if !*noPause {
		cli.Pause(os.Stdin, os.Stdout)
	}
	return 1
}
