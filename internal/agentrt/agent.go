// Package agentrt implements the agent's top-level runtime loop: offline
// bootstrap from a local task cache, the scheduler tick driver, and the
// periodic pull/report loops over the codec-framed TCP control channel.
package agentrt

import (
	"context"
	"log/slog"

	"fleetcron.dev/fleetcron/internal/codec"
	"fleetcron.dev/fleetcron/internal/ids"
	"fleetcron.dev/fleetcron/internal/taskmgr"
)

// Agent drives one managed host's task set: pulling specs from the
// controller, running them, and reporting execution events back.
type Agent struct {
	cfg     Config
	agentID ids.AgentID
	aesKey  codec.Key
	mgr     *taskmgr.Manager
	log     *slog.Logger
}

// New constructs an Agent from cfg. cfg.AgentID must parse as a UUID.
func New(cfg Config) (*Agent, error) {
	agentID, err := ids.ParseAgentID(cfg.AgentID)
	if err != nil {
		return nil, err
	}
	return &Agent{
		cfg:     cfg,
		agentID: agentID,
		aesKey:  codec.DeriveKey(cfg.Key),
		mgr:     taskmgr.New(),
		log:     slog.With("agent_id", agentID),
	}, nil
}

// logger returns a's bound logger, falling back to the global default for
// an Agent built without New (as some tests do).
func (a *Agent) logger() *slog.Logger {
	if a.log != nil {
		return a.log
	}
	return slog.Default()
}

// Start bootstraps from the local task cache if present, starts the
// scheduler tick driver, and spawns the pull/report loops as configured.
// It returns once ctx is cancelled (the caller wires this to SIGINT, see
// cmd/agent).
func (a *Agent) Start(ctx context.Context) error {
	if specs, err := loadCache(a.cfg.TaskCachePath); err == nil {
		a.logger().Info("loaded task cache", "path", a.cfg.TaskCachePath, "count", len(specs))
		a.mgr.Reload(specs)
	} else {
		a.logger().Debug("no usable task cache at startup", "path", a.cfg.TaskCachePath, "error", err)
	}

	a.mgr.StartTick(ctx)

	if a.cfg.Pull {
		go a.pullLoop(ctx)
	}
	if a.cfg.Report {
		go a.reportLoop(ctx)
	}

	<-ctx.Done()
	a.mgr.StopTick()
	return ctx.Err()
}
