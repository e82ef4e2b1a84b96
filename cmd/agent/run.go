package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"fleetcron.dev/fleetcron/internal/agentrt"
	"fleetcron.dev/fleetcron/internal/applog"
	"fleetcron.dev/fleetcron/internal/config"
	"fleetcron.dev/fleetcron/internal/metrics"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the agent in the foreground",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAgent(cmd.Context())
	},
}

func runAgent(parentCtx context.Context) error {
	cfg, err := config.LoadAgent(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := applog.Init(cfg.Log); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	slog.Info("fleetcron agent starting", "agent_id", cfg.AgentID, "server", cfg.Server, "config", configFile)

	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	var metricsSrv *metrics.Server
	if cfg.Metrics.Enabled {
		metricsSrv = metrics.NewServer(cfg.Metrics.Listen, cfg.Metrics.Path)
		if err := metricsSrv.Start(ctx); err != nil {
			return fmt.Errorf("start metrics server: %w", err)
		}
	}

	agent, err := agentrt.New(agentrt.Config{
		AgentID:        cfg.AgentID,
		Server:         cfg.Server,
		Key:            cfg.PresharedKey,
		Pull:           cfg.Pull.Enabled,
		PullInterval:   cfg.Pull.Interval,
		Report:         cfg.Report.Enabled,
		ReportInterval: cfg.Report.Interval,
		TaskCachePath:  cfg.TaskCachePath,
	})
	if err != nil {
		return fmt.Errorf("construct agent: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigCh
		slog.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	runErr := agent.Start(ctx)

	if metricsSrv != nil {
		shutdownCtx, shutdownCancel := context.WithCancel(context.Background())
		_ = metricsSrv.Stop(shutdownCtx)
		shutdownCancel()
	}

	if runErr != nil && ctx.Err() == nil {
		return fmt.Errorf("agent stopped: %w", runErr)
	}

	slog.Info("fleetcron agent stopped")
	return nil
}
