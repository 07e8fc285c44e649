//go:build windows

package process

import (
	"fmt"
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

func setSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: windows.CREATE_NEW_PROCESS_GROUP,
	}
}

func terminate(cmd *exec.Cmd) error {
	return cmd.Process.Kill()
}

// KillByTitle terminates whatever process owns the given console window
// title. Compatibility shim for sessions where the spawn handle is gone;
// prefer Handle.Stop.
func KillByTitle(title string) error {
	out, err := exec.Command("taskkill", "/F", "/FI", fmt.Sprintf("WINDOWTITLE eq %s", title)).CombinedOutput()
	if err != nil {
		return fmt.Errorf("taskkill %q: %w\n%s", title, err, out)
	}
	return nil
}
