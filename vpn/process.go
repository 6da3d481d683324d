package vpn

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/yllada/lanparty-client/common"
)

// pipeDrainDelay bounds how long Wait keeps reading output after the
// process itself has exited.
const pipeDrainDelay = 2 * time.Second

// maxLineLength caps a single relayed line.
const maxLineLength = 64 * 1024

// LaunchSpec describes how to start OpenVPN.
type LaunchSpec struct {
	Path string
	Args []string
	Dir  string
	// Env is appended to the inherited environment.
	Env []string
}

// OpenVPNArgs builds the command line for a rendered config bound to the
// given adapter.
func OpenVPNArgs(configPath, devNode string) []string {
	return []string{"--config", configPath, "--dev-node", devNode}
}

// Handle is a running child process as seen by the supervision loop.
type Handle interface {
	Pid() int
	// Exited is closed once the process has been reaped.
	Exited() <-chan struct{}
	// ExitErr is the result of waiting on the process. Only valid after Exited.
	ExitErr() error
	// Close terminates the process and waits up to timeout for it to exit.
	Close(timeout time.Duration) error
}

// Launcher starts a process whose output lines are pushed onto q.
type Launcher func(spec LaunchSpec, q *OutputQueue) (Handle, error)

// Process is an OpenVPN child with both output streams relayed into an
// OutputQueue.
type Process struct {
	cmd     *exec.Cmd
	exited  chan struct{}
	exitErr error
	release func()

	closeOnce sync.Once
	closeErr  error
}

// StartProcess launches spec. Lines written to stdout and stderr are pushed
// onto q as they arrive, each stream in its own order.
func StartProcess(spec LaunchSpec, q *OutputQueue) (*Process, error) {
	cmd := exec.Command(spec.Path, spec.Args...)
	cmd.Dir = spec.Dir
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}
	cmd.SysProcAttr = sysProcAttr()

	stdout := newLineWriter(q)
	stderr := newLineWriter(q)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = pipeDrainDelay

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", common.ErrLaunchFailed, spec.Path, err)
	}

	release, err := attachProcess(cmd.Process)
	if err != nil {
		common.LogWarn("Could not tie OpenVPN lifetime to this process: %v", err)
	}

	p := &Process{
		cmd:     cmd,
		exited:  make(chan struct{}),
		release: release,
	}

	go func() {
		err := cmd.Wait()
		stdout.Flush()
		stderr.Flush()
		p.exitErr = err
		close(p.exited)
	}()

	return p, nil
}

// LaunchProcess is the Launcher backed by StartProcess.
func LaunchProcess(spec LaunchSpec, q *OutputQueue) (Handle, error) {
	p, err := StartProcess(spec, q)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Pid returns the operating system process id.
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// Exited is closed once the process has been reaped.
func (p *Process) Exited() <-chan struct{} {
	return p.exited
}

// ExitErr returns the wait result. It is nil before Exited is closed.
func (p *Process) ExitErr() error {
	select {
	case <-p.exited:
		return p.exitErr
	default:
		return nil
	}
}

// Close kills the process if it is still running and waits up to timeout
// for it to be reaped. Repeated calls return the first result.
func (p *Process) Close(timeout time.Duration) error {
	p.closeOnce.Do(func() {
		p.closeErr = p.terminate(timeout)
	})
	return p.closeErr
}

func (p *Process) terminate(timeout time.Duration) error {
	defer p.release()

	select {
	case <-p.exited:
		return nil
	default:
	}

	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		common.LogWarn("Failed to kill OpenVPN (pid %d): %v", p.Pid(), err)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-p.exited:
		return nil
	case <-timer.C:
		return fmt.Errorf("%w: pid %d after %v", common.ErrChildTerminationTimeout, p.Pid(), timeout)
	}
}

// lineWriter splits a byte stream into lines and pushes them onto a queue.
// exec.Cmd copies each stream from its own goroutine, so one writer is
// only ever written from one goroutine at a time.
type lineWriter struct {
	q   *OutputQueue
	buf []byte
}

func newLineWriter(q *OutputQueue) *lineWriter {
	return &lineWriter{q: q}
}

func (w *lineWriter) Write(b []byte) (int, error) {
	w.buf = append(w.buf, b...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.push(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	if len(w.buf) >= maxLineLength {
		w.push(w.buf)
		w.buf = w.buf[:0]
	}
	if len(w.buf) == 0 {
		w.buf = nil
	}
	return len(b), nil
}

// Flush pushes a trailing line that had no newline.
func (w *lineWriter) Flush() {
	if len(w.buf) > 0 {
		w.push(w.buf)
	}
	w.buf = nil
}

func (w *lineWriter) push(line []byte) {
	w.q.Push(string(bytes.TrimSuffix(line, []byte{'\r'})))
}
