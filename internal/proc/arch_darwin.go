//go:build darwin

package proc

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// pTranslated is P_TRANSLATED from <sys/proc.h>: the process runs under
// Rosetta.
const pTranslated = 0x20000

// archOf reports the instruction set a process executes.
func archOf(pid int32) string {
	kp, err := unix.SysctlKinfoProc("kern.proc.pid", int(pid))
	if err != nil {
		return ""
	}
	if kp.Proc.P_flag&pTranslated != 0 {
		return "x86_64"
	}
	if runtime.GOARCH == "arm64" {
		return "arm64"
	}
	return "x86_64"
}
