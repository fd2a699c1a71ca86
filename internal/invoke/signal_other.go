// SPDX-License-Identifier: MPL-2.0

//go:build !unix

package invoke

import (
	"os"
	"syscall"
)

func sysProcAttr() *syscall.SysProcAttr { return nil }

// gracefulStop hard-kills the process: there is no portable termination
// signal outside unix.
func gracefulStop(p *os.Process) error {
	return p.Kill()
}
