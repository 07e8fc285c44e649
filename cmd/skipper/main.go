// Skipper — launcher and session supervisor for the local chatbot web API
//
// Usage:
//
//	skipper up
//	skipper up --dir ./unimate --port 5000 --grace 15s
//	skipper doctor
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/perrydahl/skipper/internal/launcher"
)

const banner = `
 ███████╗██╗  ██╗██╗██████╗ ██████╗ ███████╗██████╗
 ██╔════╝██║ ██╔╝██║██╔══██╗██╔══██╗██╔════╝██╔══██╗
 ███████╗█████╔╝ ██║██████╔╝██████╔╝█████╗  ██████╔╝
 ╚════██║██╔═██╗ ██║██╔═══╝ ██╔═══╝ ██╔══╝  ██╔══██╗
 ███████║██║  ██╗██║██║     ██║     ███████╗██║  ██║
 ╚══════╝╚═╝  ╚═╝╚═╝╚═╝     ╚═╝     ╚══════╝╚═╝  ╚═╝

  Chatbot API launcher · github.com/perrydahl/skipper
`

func main() {
	setupLogging()

	var opts launcher.Options

	root := &cobra.Command{
		Use:           "skipper",
		Short:         "skipper — launch and supervise the chatbot API server",
		Long:          banner,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Prepare the environment, start the server, stop it on keypress",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Print(banner)
			return launcher.New(opts).Run(context.Background())
		},
	}

	doctor := &cobra.Command{
		Use:   "doctor",
		Short: "Check the environment without starting the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return launcher.New(opts).Doctor(context.Background())
		},
	}

	for _, c := range []*cobra.Command{up, doctor} {
		f := c.Flags()
		f.StringVar(&opts.Dir, "dir", envOrDefault("SKIPPER_DIR", "."),
			"Working directory holding api_server.py and its data")
		f.StringVar(&opts.Python, "python", envOrDefault("SKIPPER_PYTHON", ""),
			"Python interpreter to use (empty = probe python3, then python)")
		f.IntVarP(&opts.Port, "port", "p", 5000, "Port the server listens on")
		f.DurationVar(&opts.Grace, "grace", 15*time.Second,
			"How long to wait for the server's health endpoint after launch")
		f.BoolVar(&opts.AutoInstall, "install", true,
			"Run pip install -r requirements.txt when the web framework is missing")
	}

	root.AddCommand(up, doctor)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogging routes diagnostics to stderr; operator-facing text goes to
// stdout via the launcher itself.
func setupLogging() {
	level := slog.LevelWarn
	switch strings.ToLower(os.Getenv("SKIPPER_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// envOrDefault returns the value of an env var, or fallback if unset.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
