package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalogcli/internal/app"
	"catalogcli/internal/config"
	"catalogcli/internal/infrastructure"
	"catalogcli/pkg/contracts"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one catalog run and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("catalog", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configFile := fs.String("config", "", "path to a YAML configuration file (defaults to catalog.yaml or configs/catalog.yaml)")
	input := fs.String("input", "", "catalog source file (.csv, .tsv or .xlsx); overrides input.path")
	outDir := fs.String("out", "", "output directory for charts and exports; overrides output.dir")
	showVersion := fs.Bool("version", false, "print version information and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return 0
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return 1
	}
	if *input != "" {
		cfg.Input.Path = *input
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "failed to initialize logger: %v\n", err)
		return 1
	}
	defer infrastructure.CloseLogFile()

	ctx = infrastructure.EnsureRunID(ctx)

	application, err := app.NewApplication(ctx, cfg, app.Options{Stdout: stdout, Logger: logger})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize application", slog.String("error", err.Error()))
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	_, runErr := application.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := application.Shutdown(shutdownCtx); err != nil {
		logger.WarnContext(ctx, "Shutdown incomplete", slog.String("error", err.Error()))
	}

	if runErr != nil {
		logger.ErrorContext(ctx, "Catalog run failed", slog.String("error", runErr.Error()))
		fmt.Fprintf(stderr, "error: %v\n", runErr)
		return 1
	}
	return 0
}
