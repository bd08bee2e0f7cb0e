//go:build linux

package dispatch

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// sysProcAttr puts the shell in its own process group so the whole tree
// can be killed at once.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

// killProcessTree kills the process group rooted at pid.
func killProcessTree(pid int) {
	if pid <= 0 {
		return
	}
	_ = unix.Kill(-pid, unix.SIGKILL)
}
