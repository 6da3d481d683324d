package vpn

import (
	"os"
	"syscall"
)

// sysProcAttr asks the kernel to kill OpenVPN if this process dies first.
// Pdeathsig is tied to the OS thread that forked the child, not the
// process; the runtime only retires a thread when a goroutine locked to it
// exits, and StartProcess is never called from a locked goroutine.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Pdeathsig: syscall.SIGKILL}
}

func attachProcess(*os.Process) (func(), error) {
	return func() {}, nil
}
