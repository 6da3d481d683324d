package vpn

import (
	"context"
	"fmt"
	"net/netip"
	"sync/atomic"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/yllada/lanparty-client/common"
	"github.com/yllada/lanparty-client/config"
	"github.com/yllada/lanparty-client/netif"
)

// State is the supervisor lifecycle phase.
type State int32

const (
	StateInitializing State = iota
	StateLaunching
	StateRunning
	StateTerminating
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateInitializing:
		return "Initializing"
	case StateLaunching:
		return "Launching"
	case StateRunning:
		return "Running"
	case StateTerminating:
		return "Terminating"
	default:
		return "Unknown"
	}
}

// AddressResolver turns the configured host into an address.
type AddressResolver interface {
	Resolve(ctx context.Context, host string) (netip.Addr, error)
}

// Options wires a Supervisor to its collaborators.
type Options struct {
	Config     *config.RunConfig
	Interfaces netif.Enumerator
	Resolver   AddressResolver
	Prober     Prober
	Launch     Launcher
	// Fs receives the runtime files, in WorkDir.
	Fs      afero.Fs
	WorkDir string
	// Binary is the OpenVPN executable.
	Binary string
	Sink   common.LogSink
	// Notifier is optional.
	Notifier common.Notifier
	// TerminationTimeout bounds the wait for OpenVPN to exit on shutdown.
	TerminationTimeout time.Duration
}

// Supervisor launches OpenVPN, relays its output and keeps probing the
// server until the context is cancelled.
type Supervisor struct {
	opts    Options
	state   atomic.Int32
	queue   *OutputQueue
	health  *HealthTracker
	adapter netif.Adapter

	notifyFailed bool
	// lastError and repeats collapse identical consecutive probe errors.
	lastError string
	repeats   int
}

// NewSupervisor creates a supervisor. Fs, Launch and TerminationTimeout
// default to the OS filesystem, LaunchProcess and
// common.ChildTerminationTimeout.
func NewSupervisor(opts Options) *Supervisor {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Launch == nil {
		opts.Launch = LaunchProcess
	}
	if opts.TerminationTimeout <= 0 {
		opts.TerminationTimeout = common.ChildTerminationTimeout
	}
	return &Supervisor{
		opts:   opts,
		queue:  NewOutputQueue(),
		health: NewHealthTracker(DefaultFailureThreshold),
	}
}

// State returns the current lifecycle phase.
func (s *Supervisor) State() State {
	return State(s.state.Load())
}

// Adapter returns the adapter OpenVPN was bound to.
// Only valid once the supervisor has left StateInitializing.
func (s *Supervisor) Adapter() netif.Adapter {
	return s.adapter
}

func (s *Supervisor) setState(state State) {
	s.state.Store(int32(state))
}

// Run performs startup and then supervises OpenVPN until ctx is cancelled.
// A startup failure is returned without launching anything. Once OpenVPN
// is running, Run only returns after the child has been terminated; the
// result is nil unless termination timed out.
func (s *Supervisor) Run(ctx context.Context) (err error) {
	s.setState(StateInitializing)

	target, files, err := s.prepare(ctx)
	if err != nil {
		return err
	}

	s.setState(StateLaunching)
	spec := LaunchSpec{
		Path: s.opts.Binary,
		Args: OpenVPNArgs(files.ConfigPath, s.adapter.ID),
		Dir:  s.opts.WorkDir,
	}
	proc, err := s.opts.Launch(spec, s.queue)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.shutdown(proc); err == nil {
			err = cerr
		}
	}()
	s.opts.Sink.Info("OpenVPN started (pid %d)", proc.Pid())

	s.setState(StateRunning)
	s.loop(ctx, proc, target)
	return nil
}

// prepare resolves the adapter and the server address, then writes the
// runtime files.
func (s *Supervisor) prepare(ctx context.Context) (netip.Addr, RuntimeFiles, error) {
	cfg := s.opts.Config
	sink := s.opts.Sink

	description := cfg.InterfaceDescription()
	if !cfg.HasInterface() {
		sink.Info("No interface configured, using %s", description)
	}
	if !netif.IsLiteral(cfg.Host) {
		sink.Info("Resolving %s...", cfg.Host)
	}

	var (
		adapter netif.Adapter
		target  netip.Addr
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := netif.FindInterface(s.opts.Interfaces, description)
		if err != nil {
			return err
		}
		adapter = a
		return nil
	})
	g.Go(func() error {
		addr, err := s.opts.Resolver.Resolve(gctx, cfg.Host)
		if err != nil {
			return err
		}
		target = addr
		return nil
	})
	if err := g.Wait(); err != nil {
		return netip.Addr{}, RuntimeFiles{}, err
	}

	s.adapter = adapter
	sink.Info("Using interface %s (%s)", adapter.Description, adapter.ID)
	sink.Info("Server %s is %s, %s port %d", cfg.Host, target, cfg.Protocol(), cfg.Port())

	rendered, err := RenderConfig(cfg, target)
	if err != nil {
		return netip.Addr{}, RuntimeFiles{}, err
	}
	files, err := WriteRuntimeFiles(s.opts.Fs, s.opts.WorkDir, rendered, cfg)
	if err != nil {
		return netip.Addr{}, RuntimeFiles{}, err
	}

	return target, files, nil
}

// loop relays output and keeps exactly one probe in flight until ctx is
// done. It never blocks on I/O; it sleeps only in the select, which wakes
// on new output, a resolved probe, the probe delay, or child exit.
//
// Probes are issued at least PingDelay apart. After a probe that failed
// with ProbeError the next one waits at least the probe timeout, so a
// socket that cannot be opened does not turn into a busy loop.
func (s *Supervisor) loop(ctx context.Context, proc Handle, target netip.Addr) {
	cfg := s.opts.Config
	timeout := cfg.ProbeTimeout()

	var (
		pending *PendingProbe
		last    *PendingProbe
		gap     = cfg.ProbeDelay()
		delay   <-chan time.Time
		exited  = proc.Exited()
	)

	for {
		if pending != nil {
			if result, ok := pending.Result(); ok {
				s.report(result)
				gap = cfg.ProbeDelay()
				if result.Status == ProbeError {
					gap = max(gap, timeout)
				}
				last, pending = pending, nil
			}
		}
		if pending == nil && ctx.Err() == nil {
			var wait time.Duration
			if last != nil {
				wait = gap - time.Since(last.Issued())
			}
			if wait <= 0 {
				pending = StartProbe(ctx, s.opts.Prober, target, timeout)
				delay = nil
			} else if delay == nil {
				delay = time.After(wait)
			}
		}

		s.queue.Drain(s.opts.Sink.Relay)

		var probeDone <-chan struct{}
		if pending != nil {
			probeDone = pending.Done()
		}

		select {
		case <-ctx.Done():
			return
		case <-s.queue.Ready():
		case <-probeDone:
		case <-delay:
			delay = nil
		case <-exited:
			exited = nil
			s.queue.Drain(s.opts.Sink.Relay)
			if err := proc.ExitErr(); err != nil {
				s.opts.Sink.Error("OpenVPN exited: %v", err)
			} else {
				s.opts.Sink.Error("OpenVPN exited")
			}
		}
	}
}

// report logs a probe outcome and tracks link health. Consecutive
// ProbeError results with the same reason are logged once, followed by a
// count when the outcome changes.
func (s *Supervisor) report(result ProbeResult) {
	sink := s.opts.Sink
	reason := result.Reason()
	if result.Status == ProbeError && reason == s.lastError {
		s.repeats++
	} else {
		if s.repeats > 0 {
			sink.Info("Previous failure repeated %d more times", s.repeats)
		}
		s.lastError, s.repeats = "", 0
		if result.Status == ProbeError {
			s.lastError = reason
		}

		if err := result.AsError(); err != nil {
			sink.Info("%v", err)
		} else {
			sink.Info("Current latency %dms", result.RTT.Milliseconds())
		}
	}

	old := s.health.Observe(result)
	state := s.health.State()
	if old == state {
		return
	}
	if state == HealthHealthy {
		sink.Info("Link state changed: %s -> %s (latency %dms)", old, state, s.health.Latency().Milliseconds())
	} else {
		sink.Info("Link state changed: %s -> %s (%d consecutive failures)", old, state, s.health.ConsecutiveFails())
	}

	if s.opts.Notifier == nil {
		return
	}
	var err error
	switch state {
	case HealthHealthy:
		err = s.opts.Notifier.Notify("Connected", fmt.Sprintf("%s is reachable", s.opts.Config.Host))
	case HealthUnhealthy:
		err = s.opts.Notifier.NotifyError("Connection lost", fmt.Sprintf("%s stopped answering", s.opts.Config.Host))
	}
	if err != nil && !s.notifyFailed {
		s.notifyFailed = true
		s.opts.Sink.Error("Desktop notification failed: %v", err)
	}
}

// shutdown terminates the child and relays whatever output is left.
// The child is closed before anything is written to the sink.
func (s *Supervisor) shutdown(proc Handle) error {
	s.setState(StateTerminating)

	err := proc.Close(s.opts.TerminationTimeout)
	s.queue.Drain(s.opts.Sink.Relay)
	if err != nil {
		return err
	}

	s.opts.Sink.Info("OpenVPN stopped")
	return nil
}
