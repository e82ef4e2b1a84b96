// Package metrics implements Prometheus metrics for the agent and controller.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TaskRunsTotal counts task body executions by task and outcome.
	TaskRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetcron_task_runs_total",
			Help: "Total number of task body executions",
		},
		[]string{"task", "outcome"},
	)

	// TaskRunDurationSeconds measures task body execution latency.
	TaskRunDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fleetcron_task_run_duration_seconds",
			Help:    "Duration of task body executions in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 16),
		},
		[]string{"task"},
	)

	// TaskState tracks each task's current activation state (0=deactivated, 1=activated).
	TaskState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fleetcron_task_state",
			Help: "Current activation state of a task (0=deactivated, 1=activated)",
		},
		[]string{"task"},
	)

	// SchedulerJobsGauge tracks the number of jobs registered with the cron scheduler.
	SchedulerJobsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fleetcron_scheduler_jobs",
			Help: "Current number of jobs registered with the cron scheduler",
		},
	)

	// PullTotal counts agent pull-loop attempts by outcome.
	PullTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetcron_agent_pull_total",
			Help: "Total number of task-pull attempts made by the agent",
		},
		[]string{"outcome"},
	)

	// ReportTotal counts agent report-loop attempts by outcome.
	ReportTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetcron_agent_report_total",
			Help: "Total number of status-report attempts made by the agent",
		},
		[]string{"outcome"},
	)

	// ControllerConnectionsActive tracks open TCP connections on the control channel.
	ControllerConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fleetcron_controller_connections_active",
			Help: "Current number of active agent connections on the control channel",
		},
	)

	// ControllerRequestsTotal counts handled requests by kind and outcome.
	ControllerRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetcron_controller_requests_total",
			Help: "Total number of requests handled by the controller's control channel",
		},
		[]string{"kind", "outcome"},
	)
)

// Outcome labels shared across counters.
const (
	OutcomeOK  = "ok"
	OutcomeErr = "error"
)

// Numeric TaskState gauge values for a task's activation state.
const (
	TaskStateDeactivated = 0
	TaskStateActivated   = 1
)
