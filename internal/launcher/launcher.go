// Package launcher runs the interactive session: prepare the environment,
// start the chatbot server, wait for the operator, tear the server down.
//
// Every step either completes or ends the whole run; there are no retries
// and no rollback of configuration or directories already created.
package launcher

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/perrydahl/skipper/internal/chatapi"
	"github.com/perrydahl/skipper/internal/config"
	"github.com/perrydahl/skipper/internal/envfile"
	"github.com/perrydahl/skipper/internal/process"
	"github.com/perrydahl/skipper/internal/pyenv"
	"github.com/perrydahl/skipper/internal/workspace"
	"github.com/perrydahl/skipper/web"
)

const (
	// ServerScript is the server entry point inside the working directory.
	ServerScript = "api_server.py"
	// ManifestName is the pip requirements manifest.
	ManifestName = "requirements.txt"
	// ServerLogName receives the server's stdout and stderr.
	ServerLogName = "server.log"
	// webFramework is the import the dependency check probes for.
	webFramework = "flask"
	// probeInterval is the health poll spacing during the readiness wait.
	probeInterval = 500 * time.Millisecond
)

// Fatal preconditions, surfaced so callers and tests can tell them apart.
var (
	ErrPlaceholderKey  = errors.New("GOOGLE_API_KEY still has the placeholder value")
	ErrManifestMissing = errors.New("dependency missing and no " + ManifestName + " to install from")
	ErrInstallDisabled = errors.New("dependency missing and auto-install is disabled")
)

// Options are the knobs exposed on the command line.
type Options struct {
	// Dir is the working directory holding the server and its data.
	Dir string
	// Python optionally pins the interpreter name or path.
	Python string
	// Port is where the server will listen.
	Port int
	// Grace bounds the readiness wait after launch.
	Grace time.Duration
	// AutoInstall allows running pip when the web framework is missing.
	AutoInstall bool
}

// ServerProcess is the part of a spawned server the launcher drives.
type ServerProcess interface {
	PID() int
	Stop() error
}

// Launcher executes the session sequence. Zero-value fields are filled with
// real implementations by New; tests override them.
type Launcher struct {
	Opts  Options
	Out   io.Writer
	In    io.Reader
	Clock clockwork.Clock

	reader *bufio.Reader

	// Runner executes external commands (interpreter probe, pip).
	Runner pyenv.Runner
	// Spawn starts the server process.
	Spawn func(process.Spec) (ServerProcess, error)
	// Probe waits for the server at baseURL to answer its health endpoint.
	Probe func(ctx context.Context, baseURL string) error
}

// New returns a Launcher wired to the real OS, clock, and network.
func New(opts Options) *Launcher {
	l := &Launcher{
		Opts:  opts,
		Out:   os.Stdout,
		In:    os.Stdin,
		Clock: clockwork.NewRealClock(),
	}
	l.Spawn = func(spec process.Spec) (ServerProcess, error) {
		h, err := process.Start(spec)
		if err != nil {
			return nil, err
		}
		return h, nil
	}
	l.Probe = func(ctx context.Context, baseURL string) error {
		return chatapi.NewClient(baseURL).WaitReady(ctx, l.Clock, l.Opts.Grace, probeInterval)
	}
	return l
}

// Run executes the full session. A non-nil error means a fatal precondition
// failed; the operator has already seen a message and acknowledged it.
func (l *Launcher) Run(ctx context.Context) error {
	// ── 1. Python interpreter ─────────────────────────────────────────────
	py, err := pyenv.New(l.Runner).Find(ctx, l.Opts.Python)
	if err != nil {
		l.printf("Error: Python is not installed or not in PATH.\n")
		l.printf("Install Python 3 and try again.\n")
		l.pause("Press Enter to exit...")
		return err
	}
	l.printf("Found %s (%s)\n", py.Version, py.Path)

	// ── 2. Configuration bootstrap ────────────────────────────────────────
	created, err := envfile.WriteTemplate(l.Opts.Dir)
	if err != nil {
		l.pause("Press Enter to exit...")
		return err
	}
	if created {
		l.printf("\nCreated %s with default settings.\n", envfile.Name)
		l.printf("Edit it and set GOOGLE_API_KEY to your real Gemini API key.\n")
		l.pause("Press Enter when you are done editing...")
	}

	// ── 3. Configuration validation ───────────────────────────────────────
	cfg, err := config.Load(l.Opts.Dir)
	if err != nil {
		l.pause("Press Enter to exit...")
		return err
	}
	if !cfg.APIKeyConfigured() {
		l.printf("\nError: GOOGLE_API_KEY in %s is still the placeholder.\n", envfile.Name)
		l.printf("Get a key from Google AI Studio and put it in %s.\n", envfile.Name)
		l.pause("Press Enter to exit...")
		return ErrPlaceholderKey
	}
	l.printf("Configuration OK (model: %s)\n", cfg.GeminiModel)

	// ── 4. Dependencies ───────────────────────────────────────────────────
	if !py.HasModule(ctx, webFramework) {
		manifest := filepath.Join(l.Opts.Dir, ManifestName)
		if _, statErr := os.Stat(manifest); statErr != nil {
			l.printf("\nError: the %s module is missing and %s was not found.\n", webFramework, ManifestName)
			l.pause("Press Enter to exit...")
			return ErrManifestMissing
		}
		if !l.Opts.AutoInstall {
			l.printf("\nError: the %s module is missing (auto-install disabled).\n", webFramework)
			l.printf("Run: %s -m pip install -r %s\n", py.Path, ManifestName)
			l.pause("Press Enter to exit...")
			return ErrInstallDisabled
		}
		l.printf("Installing dependencies from %s...\n", ManifestName)
		if err := py.InstallRequirements(ctx, manifest); err != nil {
			// Install output is not verified further; the server launch will
			// reveal whether it worked.
			slog.Warn("dependency install reported an error", "error", err)
		}
	}

	// ── 5. Workspace ──────────────────────────────────────────────────────
	if err := workspace.EnsureDirs(l.Opts.Dir); err != nil {
		l.pause("Press Enter to exit...")
		return err
	}
	if created, err := workspace.EnsureTestPage(l.Opts.Dir); err != nil {
		slog.Warn("could not provision test page", "error", err)
	} else if created {
		l.printf("Created test page %s\n", web.TestPageName)
	}

	// ── 6. Launch ─────────────────────────────────────────────────────────
	l.printf("\nStarting the chatbot API server...\n")
	proc, err := l.Spawn(process.Spec{
		Interpreter: py.Path,
		Script:      ServerScript,
		Dir:         l.Opts.Dir,
		Env:         cfg.Environ(),
		LogPath:     filepath.Join(l.Opts.Dir, ServerLogName),
	})
	if err != nil {
		// Launch failure was never fatal here: report and carry on so the
		// operator still sees the summary and can investigate.
		proc = nil
		l.printf("Warning: could not start the server: %v\n", err)
		slog.Warn("server launch failed", "error", err)
	} else {
		slog.Info("server launched", "pid", proc.PID())
	}

	// ── 7. Readiness ──────────────────────────────────────────────────────
	baseURL := fmt.Sprintf("http://localhost:%d", l.Opts.Port)
	if proc != nil {
		if err := l.Probe(ctx, baseURL); err != nil {
			l.printf("Warning: no answer from %s/api/health yet (%v). Continuing anyway.\n", baseURL, err)
		} else {
			l.printf("Server is up.\n")
		}
	}

	// ── 8. Summary, then wait for the operator ────────────────────────────
	l.printSummary(baseURL)
	l.pause("Press Enter to stop the server...")

	// ── 9. Shutdown ───────────────────────────────────────────────────────
	if proc != nil {
		if err := proc.Stop(); err != nil {
			slog.Warn("stop via process handle failed, trying title match", "error", err)
			if kerr := process.KillByTitle(process.Title); kerr != nil {
				slog.Warn("title-based kill failed", "error", kerr)
			}
		}
	}
	l.printf("\nServer stopped.\n")
	l.pause("Press Enter to exit...")
	return nil
}

// Doctor runs the environment checks (steps 1–5) without launching anything.
func (l *Launcher) Doctor(ctx context.Context) error {
	var failed []string

	py, err := pyenv.New(l.Runner).Find(ctx, l.Opts.Python)
	if err != nil {
		l.printf("✗ python interpreter: %v\n", err)
		return fmt.Errorf("doctor: %w", err)
	}
	l.printf("✓ interpreter: %s (%s)\n", py.Version, py.Path)

	if envfile.Exists(l.Opts.Dir) {
		cfg, err := config.Load(l.Opts.Dir)
		switch {
		case err != nil:
			l.printf("✗ %s: %v\n", envfile.Name, err)
			failed = append(failed, envfile.Name)
		case !cfg.APIKeyConfigured():
			l.printf("✗ %s: GOOGLE_API_KEY is still the placeholder\n", envfile.Name)
			failed = append(failed, "GOOGLE_API_KEY")
		default:
			l.printf("✓ configuration (model: %s)\n", cfg.GeminiModel)
		}
	} else {
		l.printf("✗ %s: not found (run \"skipper up\" to create a template)\n", envfile.Name)
		failed = append(failed, envfile.Name)
	}

	if py.HasModule(ctx, webFramework) {
		l.printf("✓ %s is importable\n", webFramework)
	} else {
		l.printf("✗ %s is not importable\n", webFramework)
		failed = append(failed, webFramework)
	}

	if err := workspace.EnsureDirs(l.Opts.Dir); err != nil {
		l.printf("✗ data directories: %v\n", err)
		failed = append(failed, "directories")
	} else {
		l.printf("✓ data directories: %v\n", workspace.Dirs())
	}

	if len(failed) > 0 {
		return fmt.Errorf("doctor: %d check(s) failed: %v", len(failed), failed)
	}
	l.printf("\nAll checks passed.\n")
	return nil
}

// printSummary shows the operator everything needed to talk to the server.
func (l *Launcher) printSummary(baseURL string) {
	l.printf("\n========================================\n")
	l.printf("  Chatbot API server session\n")
	l.printf("========================================\n")
	l.printf("Base URL:  %s\n", baseURL)
	l.printf("Test page: %s (open it in a browser)\n", web.TestPageName)
	l.printf("Endpoints:\n")
	for _, r := range chatapi.Routes {
		l.printf("  %s\n", r)
	}
	l.printf("\nIntegration notes:\n")
	l.printf("  - Create a session, upload PDFs against it, then POST queries.\n")
	l.printf("  - Server output is in %s.\n", ServerLogName)
}

func (l *Launcher) printf(format string, args ...any) {
	fmt.Fprintf(l.Out, format, args...)
}

// pause prints a prompt and blocks until the operator presses Enter.
// EOF on the input (non-interactive runs) just continues.
func (l *Launcher) pause(prompt string) {
	l.printf("%s\n", prompt)
	if l.reader == nil {
		l.reader = bufio.NewReader(l.In)
	}
	_, _ = l.reader.ReadString('\n')
}
