//go:build unix

package process

import (
	"errors"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// setSysProcAttr puts the child in its own process group so termination can
// take down any workers the server forks (Flask's reloader, for one).
func setSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func terminate(cmd *exec.Cmd) error {
	if pgid, err := unix.Getpgid(cmd.Process.Pid); err == nil {
		return unix.Kill(-pgid, unix.SIGKILL)
	}
	return cmd.Process.Kill()
}

// KillByTitle is the Windows-only fallback; there is no window title to
// match against on unix.
func KillByTitle(string) error {
	return errors.New("kill by title is not supported on this platform")
}
