// Package cli provides the console side of the LAN party client: help and
// version output, the adapter and settings listing used by -check, and the
// acknowledgment prompt shown before exiting on a fatal error.
package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	"github.com/yllada/lanparty-client/common"
	"github.com/yllada/lanparty-client/config"
	"github.com/yllada/lanparty-client/netif"
)

// BuildInfo is injected at build time.
type BuildInfo struct {
	Version   string
	BuildTime string
	CommitSHA string
}

// PrintVersion prints the version banner.
func PrintVersion(w io.Writer, info BuildInfo) {
	fmt.Fprintf(w, "%s v%s\n", common.AppName, info.Version)
	if info.BuildTime != "unknown" && info.BuildTime != "" {
		fmt.Fprintf(w, "  Build:  %s\n", info.BuildTime)
		fmt.Fprintf(w, "  Commit: %s\n", info.CommitSHA)
	}
}

// PrintSettings prints the effective run configuration. The password is
// never shown.
func PrintSettings(w io.Writer, cfg *config.RunConfig) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SETTING\tVALUE")
	fmt.Fprintln(tw, "-------\t-----")

	interfaceName := cfg.InterfaceDescription()
	if !cfg.HasInterface() {
		interfaceName += " (default)"
	}
	password := "-"
	if cfg.Password != "" {
		password = "set"
	}

	fmt.Fprintf(tw, "Name\t%s\n", orDash(cfg.Name))
	fmt.Fprintf(tw, "Host\t%s\n", cfg.Host)
	fmt.Fprintf(tw, "Transport\t%s/%d\n", cfg.Protocol(), cfg.Port())
	fmt.Fprintf(tw, "Interface\t%s\n", interfaceName)
	fmt.Fprintf(tw, "Username\t%s\n", cfg.Username)
	fmt.Fprintf(tw, "Password\t%s\n", password)
	fmt.Fprintf(tw, "Probe delay\t%s\n", cfg.ProbeDelay())
	fmt.Fprintf(tw, "Probe timeout\t%s\n", cfg.ProbeTimeout())
	tw.Flush()
}

// PrintAdapters lists host adapters and marks the ones OpenVPN could bind
// to for description.
func PrintAdapters(w io.Writer, adapters []netif.Adapter, description string) {
	if len(adapters) == 0 {
		fmt.Fprintln(w, "No network adapters found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDESCRIPTION\tKIND\tMATCH")
	fmt.Fprintln(tw, "--\t-----------\t----\t-----")
	for _, a := range adapters {
		match := ""
		if a.Kind == netif.KindEthernet && a.Description == description {
			match = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.ID, a.Description, a.Kind, match)
	}
	tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// FormatDuration formats a duration in a human-readable format.
func FormatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

// Pause waits for a single keypress on in. It returns false without
// waiting when in is not a terminal, so scripted runs exit right away.
func Pause(in *os.File, out io.Writer) bool {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return false
	}

	fmt.Fprint(out, "Press any key to exit...")
	if state, err := term.MakeRaw(fd); err == nil {
		defer func() {
			term.Restore(fd, state)
			fmt.Fprintln(out)
		}()
	}

	buf := make([]byte, 1)
	in.Read(buf)
	return true
}

// PrintHelp prints usage help.
func PrintHelp(w io.Writer) {
	fmt.Fprintf(w, `%s - OpenVPN supervisor for LAN gaming

Usage:
  %s [OPTIONS]

Options:
  -config PATH      Configuration file (default: %s in the working directory)
  -dir PATH         Working directory (default: the executable's directory)
  -openvpn PATH     OpenVPN binary (default: %s)
  -check            Validate the configuration, list adapters and exit
  -save-password    Store the configured password in the system keyring
  -forget-password  Remove the stored password from the system keyring
  -notify           Show desktop notifications when the link goes up or down
  -no-pause         Exit on fatal errors without waiting for a keypress
  -privileged-icmp  Probe with raw ICMP sockets (default on Windows)
  -verbose          Enable verbose logging
  -version          Show version and exit
  -help             Show this help message

Notes:
  - config.ovpn and pass.txt are rewritten in the working directory on every run
  - When Password is missing from the configuration, the keyring is consulted
  - Press Ctrl+C to stop OpenVPN and exit
`, common.AppName, common.AppID, common.ConfigFileName, common.DefaultOpenVPNPath("<dir>"))
}
