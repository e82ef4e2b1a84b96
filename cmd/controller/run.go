package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"fleetcron.dev/fleetcron/internal/applog"
	"fleetcron.dev/fleetcron/internal/config"
	"fleetcron.dev/fleetcron/internal/controllerd"
	"fleetcron.dev/fleetcron/internal/metrics"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the controller in the foreground",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runController(cmd.Context())
	},
}

func runController(parentCtx context.Context) error {
	cfg, err := config.LoadController(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := applog.Init(cfg.Log); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	slog.Info("fleetcron controller starting",
		"ctl_addr", cfg.CtlAddr, "api_addr", cfg.APIAddr, "config", configFile)

	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	var metricsSrv *metrics.Server
	if cfg.Metrics.Enabled {
		metricsSrv = metrics.NewServer(cfg.Metrics.Listen, cfg.Metrics.Path)
		if err := metricsSrv.Start(ctx); err != nil {
			return fmt.Errorf("start metrics server: %w", err)
		}
	}

	ctl := controllerd.New(cfg.CtlAddr, cfg.APIAddr, cfg.PresharedKey, cfg.AgentDBPath, cfg.LogsDir)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigCh
		slog.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	runErr := ctl.Run(ctx)

	if metricsSrv != nil {
		shutdownCtx, shutdownCancel := context.WithCancel(context.Background())
		_ = metricsSrv.Stop(shutdownCtx)
		shutdownCancel()
	}

	if runErr != nil && ctx.Err() == nil {
		return fmt.Errorf("controller stopped: %w", runErr)
	}

	slog.Info("fleetcron controller stopped")
	return nil
}
