package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JaimeStill/jurispanel/internal/api"
	"github.com/JaimeStill/jurispanel/internal/config"
	"github.com/JaimeStill/jurispanel/internal/infrastructure"
)

var (
	verbose bool
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "jurispanel",
	Short: "Inspect and extract judgment session agendas",
	Long: `jurispanel works against the same configuration and stores as the server.

It reads config.toml, the JURISPANEL_ENV overlay, and JURISPANEL_* variables
(a .env file in the working directory is loaded first).

Quick Start:
  jurispanel hash pauta.pdf              # Print the content hash
  jurispanel extract pauta.pdf --save    # Extract cases and store a session
  jurispanel sessions list               # List saved sessions
  jurispanel sessions export L-001 -f yaml`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			fmt.Fprintln(os.Stderr, "warning: .env not loaded:", err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	rootCmd.AddCommand(hashCmd, extractCmd, sessionsCmd, logsCmd)
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// app is the started infrastructure and domain shared by the commands.
type app struct {
	infra  *infrastructure.Infrastructure
	domain *api.Domain
}

func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}

	infra, err := infrastructure.NewWithLogger(cfg, newLogger(os.Stderr))
	if err != nil {
		return nil, err
	}
	if err := infra.Start(); err != nil {
		return nil, err
	}
	infra.Lifecycle.WaitForStartup()

	return &app{
		infra:  infra,
		domain: api.NewDomain(api.NewRuntime(cfg, infra)),
	}, nil
}

func (a *app) Close() {
	if err := a.infra.Lifecycle.Shutdown(5 * time.Second); err != nil {
		a.infra.Logger.Warn("shutdown incomplete", "error", err)
	}
}
