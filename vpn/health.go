package vpn

import (
	"context"
	"fmt"
	"net/netip"
	"time"

	"github.com/yllada/lanparty-client/common"
)

// ProbeStatus is the outcome class of one echo probe.
type ProbeStatus int

const (
	ProbeSuccess ProbeStatus = iota
	ProbeTimeout
	ProbeDestinationUnreachable
	ProbeTimeExceeded
	ProbeError
)

// String returns the status name as it appears in the console.
func (s ProbeStatus) String() string {
	switch s {
	case ProbeSuccess:
		return "Success"
	case ProbeTimeout:
		return "Timeout"
	case ProbeDestinationUnreachable:
		return "DestinationUnreachable"
	case ProbeTimeExceeded:
		return "TimeExceeded"
	default:
		return "Error"
	}
}

// ProbeResult is the resolved value of one probe.
type ProbeResult struct {
	Status ProbeStatus
	// RTT is only meaningful on success.
	RTT time.Duration
	// Err carries the cause when Status is ProbeError.
	Err error
}

// OK reports whether the probe got a reply.
func (r ProbeResult) OK() bool {
	return r.Status == ProbeSuccess
}

// Reason describes a failed probe.
func (r ProbeResult) Reason() string {
	if r.Status == ProbeError && r.Err != nil {
		return fmt.Sprintf("%s (%v)", r.Status, r.Err)
	}
	return r.Status.String()
}

// AsError returns nil on success and an error wrapping
// common.ErrProbeFailed otherwise.
func (r ProbeResult) AsError() error {
	if r.OK() {
		return nil
	}
	return fmt.Errorf("%w: %s", common.ErrProbeFailed, r.Reason())
}

// Prober sends one echo request and waits for its outcome.
// Probe must return by the time timeout elapses or ctx is done.
type Prober interface {
	Probe(ctx context.Context, target netip.Addr, timeout time.Duration) ProbeResult
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(ctx context.Context, target netip.Addr, timeout time.Duration) ProbeResult

// Probe calls f.
func (f ProberFunc) Probe(ctx context.Context, target netip.Addr, timeout time.Duration) ProbeResult {
	return f(ctx, target, timeout)
}

// PendingProbe is a probe in flight. Its result can be polled without
// blocking, or awaited through Done.
type PendingProbe struct {
	done   chan struct{}
	result ProbeResult
	issued time.Time
}

// StartProbe issues a probe on its own goroutine and returns immediately.
func StartProbe(ctx context.Context, p Prober, target netip.Addr, timeout time.Duration) *PendingProbe {
	pending := &PendingProbe{
		done:   make(chan struct{}),
		issued: time.Now(),
	}
	go func() {
		pending.result = p.Probe(ctx, target, timeout)
		close(pending.done)
	}()
	return pending
}

// Done is closed once the result is available.
func (p *PendingProbe) Done() <-chan struct{} {
	return p.done
}

// Issued returns when the probe was started.
func (p *PendingProbe) Issued() time.Time {
	return p.issued
}

// Result returns the outcome and true once the probe has resolved.
func (p *PendingProbe) Result() (ProbeResult, bool) {
	select {
	case <-p.done:
		return p.result, true
	default:
		return ProbeResult{}, false
	}
}

// HealthState represents the tunnel health derived from recent probes.
type HealthState int

const (
	HealthUnknown HealthState = iota
	HealthHealthy
	HealthDegraded
	HealthUnhealthy
)

// String returns a human-readable representation of the health state.
func (h HealthState) String() string {
	switch h {
	case HealthHealthy:
		return "Healthy"
	case HealthDegraded:
		return "Degraded"
	case HealthUnhealthy:
		return "Unhealthy"
	default:
		return "Unknown"
	}
}

// DefaultFailureThreshold is how many consecutive failed probes mark the
// tunnel unhealthy.
const DefaultFailureThreshold = 3

// HealthTracker folds probe results into a HealthState.
// It is not safe for concurrent use; the supervision loop owns it.
type HealthTracker struct {
	state            HealthState
	consecutiveFails int
	failureThreshold int
	latency          time.Duration
}

// NewHealthTracker creates a tracker. A threshold below one uses
// DefaultFailureThreshold.
func NewHealthTracker(failureThreshold int) *HealthTracker {
	if failureThreshold < 1 {
		failureThreshold = DefaultFailureThreshold
	}
	return &HealthTracker{failureThreshold: failureThreshold}
}

// State returns the current health state.
func (t *HealthTracker) State() HealthState {
	return t.state
}

// Latency returns the round-trip time of the last successful probe.
func (t *HealthTracker) Latency() time.Duration {
	return t.latency
}

// ConsecutiveFails returns the number of failed probes since the last success.
func (t *HealthTracker) ConsecutiveFails() int {
	return t.consecutiveFails
}

// Observe records a probe result and returns the previous state.
func (t *HealthTracker) Observe(r ProbeResult) (old HealthState) {
	old = t.state
	if r.OK() {
		t.consecutiveFails = 0
		t.latency = r.RTT
		t.state = HealthHealthy
		return old
	}

	t.consecutiveFails++
	t.latency = 0
	if t.consecutiveFails >= t.failureThreshold {
		t.state = HealthUnhealthy
	} else if t.state != HealthUnknown {
		t.state = HealthDegraded
	}
	return old
}
