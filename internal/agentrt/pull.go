package agentrt

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"time"

	"fleetcron.dev/fleetcron/internal/codec"
	"fleetcron.dev/fleetcron/internal/ids"
	"fleetcron.dev/fleetcron/internal/metrics"
	"fleetcron.dev/fleetcron/internal/model"
	"fleetcron.dev/fleetcron/internal/wire"
)

// pullLoop periodically asks the controller for this agent's current spec
// set. The first pull happens immediately at startup — the ticker body
// calls pull before waiting on the ticker, not after — and every subsequent
// pull is gated by cfg.PullInterval. This exact ordering (pull-before-wait)
// is a testable property distinguishing it from reportLoop's
// wait-before-report ordering.
func (a *Agent) pullLoop(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.PullInterval)
	defer ticker.Stop()

	for {
		a.pull(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (a *Agent) pull(ctx context.Context) {
	outcome := metrics.OutcomeErr
	defer func() { metrics.PullTotal.WithLabelValues(outcome).Inc() }()

	conn, err := a.dial(ctx)
	if err != nil {
		a.logger().Error("pull: dial failed", "error", err)
		return
	}
	defer conn.Close()

	req := wire.Request{Kind: wire.ReqPullTask, AgentID: a.agentID}
	var out bytes.Buffer
	if err := codec.Encode(req, &out, a.aesKey); err != nil {
		a.logger().Error("pull: encode request failed", "error", err)
		return
	}
	if _, err := conn.Write(out.Bytes()); err != nil {
		a.logger().Error("pull: write failed", "error", err)
		return
	}

	resp, err := readResponse(conn, a.aesKey)
	if err != nil {
		a.logger().Error("pull: read response failed", "error", err)
		return
	}
	if resp.Kind != wire.RespObject {
		a.logger().Error("pull: unexpected response kind", "kind", resp.Kind, "message", resp.Message)
		return
	}

	var specs map[ids.TaskID]model.TaskSpec
	if err := wire.Into(resp, &specs); err != nil {
		a.logger().Error("pull: decode object payload failed", "error", err)
		return
	}

	if err := saveCache(a.cfg.TaskCachePath, specs); err != nil {
		a.logger().Error("pull: persist task cache failed", "error", err)
	}

	a.mgr.Reload(specs)
	outcome = metrics.OutcomeOK
}

func (a *Agent) dial(ctx context.Context) (net.Conn, error) {
	d := net.Dialer{}
	conn, err := d.DialContext(ctx, "tcp", a.cfg.Server)
	if err != nil {
		return nil, err
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(true)
	}
	return conn, nil
}

// readResponse reads off conn, accumulating bytes until one frame decodes.
func readResponse(conn net.Conn, key codec.Key) (wire.Response, error) {
	var buf bytes.Buffer
	chunk := make([]byte, 4096)

	for {
		var resp wire.Response
		err := codec.Decode(&buf, key, &resp)
		if err == nil {
			return resp, nil
		}
		if err != codec.ErrNotEnoughData {
			return wire.Response{}, err
		}

		n, rerr := conn.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
		}
		if rerr != nil {
			return wire.Response{}, rerr
		}
	}
}
