//go:build !linux

package dispatch

import (
	"os"
	"syscall"
)

func sysProcAttr() *syscall.SysProcAttr {
	return nil
}

// killProcessTree kills only the direct child on platforms without
// process-group support; descendants spawned by the shell may survive.
func killProcessTree(pid int) {
	if pid <= 0 {
		return
	}
	if proc, err := os.FindProcess(pid); err == nil {
		_ = proc.Kill()
	}
}
