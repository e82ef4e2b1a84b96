package controllerd

import (
	"fmt"
	"log/slog"

	"fleetcron.dev/fleetcron/internal/ids"
	"fleetcron.dev/fleetcron/internal/metrics"
	"fleetcron.dev/fleetcron/internal/model"
	"fleetcron.dev/fleetcron/internal/wire"
)

// handleRequest dispatches one decoded Request to exactly one Response.
// Only PullTask and ReportStatus are meaningfully handled; everything else
// is rejected, matching the agent's own emission surface. log is the
// connection-scoped logger from handleConn, already bound with "remote".
func (s *Server) handleRequest(log *slog.Logger, req wire.Request) wire.Response {
	log = log.With("agent_id", req.AgentID)

	var resp wire.Response
	switch req.Kind {
	case wire.ReqPullTask:
		resp = s.handlePullTask(log, req.AgentID)
	case wire.ReqReportStatus:
		resp = s.handleReportStatus(log, req.AgentID, req.Log)
	default:
		log.Error("unhandled request kind", "kind", req.Kind)
		resp = wire.Err("unhandled request")
	}

	outcome := metrics.OutcomeOK
	if resp.Kind == wire.RespError {
		outcome = metrics.OutcomeErr
	}
	metrics.ControllerRequestsTotal.WithLabelValues(requestKindLabel(req.Kind), outcome).Inc()
	return resp
}

func requestKindLabel(kind wire.RequestKind) string {
	switch kind {
	case wire.ReqAddTask:
		return "add_task"
	case wire.ReqRemoveTask:
		return "remove_task"
	case wire.ReqListTask:
		return "list_task"
	case wire.ReqReload:
		return "reload"
	case wire.ReqPullTask:
		return "pull_task"
	case wire.ReqReportStatus:
		return "report_status"
	default:
		return fmt.Sprintf("unknown(%d)", kind)
	}
}

func (s *Server) handlePullTask(log *slog.Logger, agentID ids.AgentID) wire.Response {
	data, ok := s.db.GetAgent(agentID)
	if !ok {
		log.Warn("agent not found")
		return wire.Err("agent not found")
	}

	resp, err := wire.Object(data.Tasks)
	if err != nil {
		log.Error("encode pull response failed", "error", err)
		return wire.Err(err.Error())
	}
	return resp
}

func (s *Server) handleReportStatus(log *slog.Logger, agentID ids.AgentID, events map[ids.TaskID][]model.Event) wire.Response {
	if err := s.logs.Persist(agentID, events); err != nil {
		log.Error("persist event log failed", "error", err)
	}
	return wire.Ok()
}
