// Package process starts the chatbot server as a background child and
// terminates it at the end of the session. The spawn call's own handle is
// the primary way to stop the server; matching by window title survives only
// as a Windows compatibility shim for when the handle is gone.
package process

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// Title is the human-readable label for the server process, used by the
// Windows title-based fallback kill.
const Title = "Chatbot API Server"

// Spec describes the server process to start.
type Spec struct {
	// Interpreter is the resolved Python interpreter path.
	Interpreter string
	// Script is the server entry point, relative to Dir.
	Script string
	// Dir is the working directory for the child.
	Dir string
	// Env is appended to the inherited environment.
	Env []string
	// LogPath receives the child's stdout+stderr; empty means discard.
	LogPath string
}

// Handle is a running server process.
type Handle struct {
	cmd      *exec.Cmd
	waitDone chan struct{}
}

// Start launches the server in the background and returns its handle.
// Whether the server actually comes up is for the health probe to decide.
func Start(spec Spec) (*Handle, error) {
	cmd := exec.Command(spec.Interpreter, spec.Script)
	cmd.Dir = spec.Dir
	cmd.Env = append(os.Environ(), spec.Env...)
	setSysProcAttr(cmd)

	var logf *os.File
	if spec.LogPath != "" {
		var err error
		logf, err = os.OpenFile(spec.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open server log %s: %w", spec.LogPath, err)
		}
		cmd.Stdout = logf
		cmd.Stderr = logf
	}

	if err := cmd.Start(); err != nil {
		if logf != nil {
			logf.Close()
		}
		return nil, fmt.Errorf("start %s %s: %w", spec.Interpreter, spec.Script, err)
	}
	slog.Debug("server started", "pid", cmd.Process.Pid, "script", spec.Script)

	h := &Handle{cmd: cmd, waitDone: make(chan struct{})}
	go func() {
		// Reap the child so a crashed server doesn't linger as a zombie.
		err := cmd.Wait()
		if logf != nil {
			logf.Close()
		}
		slog.Debug("server exited", "pid", cmd.Process.Pid, "error", err)
		close(h.waitDone)
	}()
	return h, nil
}

// PID returns the child's process id.
func (h *Handle) PID() int {
	return h.cmd.Process.Pid
}

// Stop forcibly terminates the server and waits briefly for it to be reaped.
func (h *Handle) Stop() error {
	if err := terminate(h.cmd); err != nil {
		return fmt.Errorf("terminate pid %d: %w", h.PID(), err)
	}
	select {
	case <-h.waitDone:
	case <-time.After(5 * time.Second):
		slog.Warn("server did not exit after kill", "pid", h.PID())
	}
	return nil
}
