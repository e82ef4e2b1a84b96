package controllerd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"fleetcron.dev/fleetcron/internal/codec"
	"fleetcron.dev/fleetcron/internal/controllerd/agentdb"
	"fleetcron.dev/fleetcron/internal/controllerd/httpapi"
)

// Controller wires together the TCP control channel, the HTTP admin API,
// the agent database, and the event log store into one runnable process.
type Controller struct {
	ctlServer *Server
	httpSrv   *http.Server
	db        *agentdb.DB
}

// New constructs a Controller. presharedSecret is the raw text secret the
// codec key is derived from; agentDBPath and logsDir are local file paths.
func New(ctlAddr, apiAddr, presharedSecret, agentDBPath, logsDir string) *Controller {
	key := codec.DeriveKey(presharedSecret)
	db := agentdb.New(agentDBPath)
	logs := NewEventLogStore(logsDir)

	ctl := NewServer(ctlAddr, key, db, logs)

	httpSrv := &http.Server{
		Addr:         apiAddr,
		Handler:      httpapi.NewMux(db),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Controller{ctlServer: ctl, httpSrv: httpSrv, db: db}
}

// Run starts both the control channel and the admin API, blocking until
// ctx is cancelled or either server fails.
func (c *Controller) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	go func() {
		errCh <- c.ctlServer.Start(ctx)
	}()

	go func() {
		slog.Info("admin API listening", "addr", c.httpSrv.Addr)
		if err := c.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("admin API: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("admin API shutdown failed", "error", err)
	}

	return ctx.Err()
}
