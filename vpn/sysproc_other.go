//go:build !linux && !windows

package vpn

import (
	"os"
	"syscall"
)

func sysProcAttr() *syscall.SysProcAttr {
	return nil
}

func attachProcess(*os.Process) (func(), error) {
	return func() {}, nil
}
