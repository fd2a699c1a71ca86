// SPDX-License-Identifier: MPL-2.0

//go:build unix

package invoke

import (
	"errors"
	"os"
	"syscall"
)

// sysProcAttr places the child in its own process group so cancellation
// reaches grandchildren too.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

// gracefulStop asks the child's process group to terminate; the hard kill
// happens via the command's WaitDelay if the group ignores the signal.
func gracefulStop(p *os.Process) error {
	err := syscall.Kill(-p.Pid, syscall.SIGTERM)
	if errors.Is(err, syscall.ESRCH) {
		return os.ErrProcessDone
	}
	return err
}
