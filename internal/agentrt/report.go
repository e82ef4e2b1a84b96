package agentrt

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"fleetcron.dev/fleetcron/internal/codec"
	"fleetcron.dev/fleetcron/internal/metrics"
	"fleetcron.dev/fleetcron/internal/wire"
)

// reportLoop periodically pushes the accumulated event log to the
// controller. Unlike pullLoop, the first action here is a wait, not a
// report — the ticker fires once before the first report is sent, so the
// first push is delayed by one full interval. This inverse ordering
// relative to pullLoop is deliberate and testable.
func (a *Agent) reportLoop(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.ReportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		a.report(ctx)
	}
}

func (a *Agent) report(ctx context.Context) {
	outcome := metrics.OutcomeErr
	defer func() { metrics.ReportTotal.WithLabelValues(outcome).Inc() }()

	log := a.mgr.ExportLog()

	conn, err := a.dial(ctx)
	if err != nil {
		a.logger().Error("report: dial failed", "error", err)
		return
	}
	defer conn.Close()

	req := wire.Request{Kind: wire.ReqReportStatus, AgentID: a.agentID, Log: log}
	var out bytes.Buffer
	if err := codec.Encode(req, &out, a.aesKey); err != nil {
		a.logger().Error("report: encode request failed", "error", err)
		return
	}
	if _, err := conn.Write(out.Bytes()); err != nil {
		a.logger().Error("report: write failed", "error", err)
		return
	}

	resp, err := readResponse(conn, a.aesKey)
	if err != nil {
		a.logger().Error("report: read response failed", "error", err)
		return
	}
	if resp.Kind != wire.RespOk {
		a.logger().Error("report: unexpected response kind", "kind", resp.Kind, "message", resp.Message)
		return
	}

	// Drained events for a failed report are lost: there is no resend
	// queue. This is a known, documented risk, not mitigated here.
	outcome = metrics.OutcomeOK
}
