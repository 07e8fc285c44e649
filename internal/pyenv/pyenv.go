// Package pyenv probes for a Python interpreter and checks the server's
// Python dependencies, installing them from requirements.txt when needed.
package pyenv

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Runner executes external commands. The default implementation shells out;
// tests substitute a fake so no interpreter is required.
type Runner interface {
	// LookPath resolves name against PATH.
	LookPath(name string) (string, error)
	// Run executes path with args and returns its combined output.
	Run(ctx context.Context, path string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (execRunner) Run(ctx context.Context, path string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, path, args...).CombinedOutput()
}

// Env locates interpreters and runs Python commands through a Runner.
type Env struct {
	run Runner
}

// New returns an Env backed by run, or by the real exec runner when run is nil.
func New(run Runner) *Env {
	if run == nil {
		run = execRunner{}
	}
	return &Env{run: run}
}

// Interpreter is a resolved Python interpreter.
type Interpreter struct {
	env *Env

	// Path is the absolute interpreter path.
	Path string
	// Version is the reported version string, e.g. "Python 3.12.1".
	Version string
}

// candidates are probed in order when no explicit interpreter is given.
var candidates = []string{"python3", "python"}

// Find resolves a working Python interpreter. When explicit is non-empty only
// that name is tried; otherwise python3 then python. The interpreter must
// both resolve on PATH and successfully report its version.
func (e *Env) Find(ctx context.Context, explicit string) (*Interpreter, error) {
	names := candidates
	if explicit != "" {
		names = []string{explicit}
	}

	for _, name := range names {
		path, err := e.run.LookPath(name)
		if err != nil {
			continue
		}
		out, err := e.run.Run(ctx, path, "--version")
		if err != nil {
			slog.Debug("interpreter probe failed", "path", path, "error", err)
			continue
		}
		version := strings.TrimSpace(string(out))
		slog.Debug("interpreter found", "path", path, "version", version)
		return &Interpreter{env: e, Path: path, Version: version}, nil
	}
	return nil, fmt.Errorf("no python interpreter found (tried %s)", strings.Join(names, ", "))
}

// HasModule reports whether the interpreter can import the named module.
func (i *Interpreter) HasModule(ctx context.Context, name string) bool {
	_, err := i.env.run.Run(ctx, i.Path, "-c", "import "+name)
	return err == nil
}

// InstallRequirements invokes pip against the given manifest. The install's
// effect is not verified afterwards; the next dependency check will tell.
func (i *Interpreter) InstallRequirements(ctx context.Context, manifest string) error {
	slog.Info("installing dependencies", "manifest", manifest)
	out, err := i.env.run.Run(ctx, i.Path, "-m", "pip", "install", "-r", manifest)
	if err != nil {
		return fmt.Errorf("pip install -r %s: %w\n%s", manifest, err, out)
	}
	return nil
}
