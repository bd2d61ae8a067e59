// Package main implements the entry point for the agentkit extension
// daemon: it loads configuration, assembles the check registry with its
// providers, and serves the HTTP gateway until shut down.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/c360/agentkit/config"
	"github.com/c360/agentkit/service"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "agentkit"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to the YAML configuration file")
	validateOnly := flag.Bool("validate", false, "validate the configuration and exit")
	showVersion := flag.Bool("version", false, "print version information and exit")
	logFormat := flag.String("log-format", "text", "local log format: text or json")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s version %s (built %s)\n", appName, Version, BuildTime)
		return nil
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if *validateOnly {
		fmt.Println("configuration is valid")
		return nil
	}

	logger, err := setupLogger(cfg, *logFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	slog.Info("Starting agentkit",
		"version", Version,
		"build_time", BuildTime,
		"config_path", *configPath)

	svc, err := service.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("assemble service: %w", err)
	}

	return runWithSignalHandling(svc)
}

// loadConfig loads configuration from the given path, falling back to the
// built-in defaults when no path was supplied.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// setupLogger builds the local structured logger from configuration.
func setupLogger(cfg *config.Config, format string) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	}
	return nil, fmt.Errorf("unknown log format %q", format)
}

// runWithSignalHandling runs the service until SIGINT or SIGTERM.
func runWithSignalHandling(svc *service.Service) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil {
		return fmt.Errorf("run service: %w", err)
	}

	slog.Info("agentkit shutdown complete")
	return nil
}
