package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/sglre6355/sgrtune/internal/modules/health"
	_ "github.com/sglre6355/sgrtune/internal/modules/playback"
	"github.com/sglre6355/sgrtune/internal/server"
	"github.com/urfave/cli/v3"
)

// version is set at build time via ldflags:
// go build -ldflags "-X main.version=1.0.0" ./cmd/sgrtune
var version = "dev"

func main() {
	app := &cli.Command{
		Name:    "sgrtune",
		Usage:   "Serve playback sessions for the sgrtune web player and Discord",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-file",
				Aliases: []string{"e"},
				Usage:   "Path to a .env file loaded before reading the environment",
				Value:   ".env",
			},
		},
		Action: run,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	if err := server.LoadEnvFiles(cmd.String("env-file")); err != nil {
		return err
	}

	// Load configuration
	cfg, err := server.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	slog.SetDefault(server.NewLogger(os.Stdout, cfg))
	slog.Info("starting sgrtune", "version", version)

	s := server.NewServer(cfg)
	s.LoadModules()

	if err := s.Start(ctx); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	// Wait for shutdown signal or a fatal serve error
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var serveErr error
	select {
	case <-ctx.Done():
		slog.Info("received termination signal, shutting down")
	case serveErr = <-s.Errors():
		slog.Error("http server stopped unexpectedly", "error", serveErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := s.Stop(shutdownCtx); err != nil {
		slog.Error("failed to shutdown", "error", err)
	}

	slog.Info("completed server shutdown")
	return serveErr
}
