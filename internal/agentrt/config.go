package agentrt

import "time"

// Config holds one agent's runtime parameters: where to reach the
// controller, which identity to present, and the pull/report cadence.
type Config struct {
	AgentID         string        `json:"agent_id" mapstructure:"agent_id"`
	Server          string        `json:"server" mapstructure:"server"`
	Key             string        `json:"key" mapstructure:"key"`
	Pull            bool          `json:"pull" mapstructure:"pull"`
	PullInterval    time.Duration `json:"pull_interval" mapstructure:"pull_interval"`
	Report          bool          `json:"report" mapstructure:"report"`
	ReportInterval  time.Duration `json:"report_interval" mapstructure:"report_interval"`
	TaskCachePath   string        `json:"-" mapstructure:"-"`
}
