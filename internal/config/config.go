// Package config loads the agent and controller process configurations
// from a YAML file via viper, with environment variable overrides and
// validated defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"fleetcron.dev/fleetcron/internal/applog"
)

// AgentConfig is the top-level configuration for the agent process.
// Maps to the `fleetcron:` root key in YAML.
type AgentConfig struct {
	AgentID       string          `mapstructure:"agent_id"`
	Server        string          `mapstructure:"server"`
	PresharedKey  string          `mapstructure:"preshared_key"`
	Pull          PullConfig      `mapstructure:"pull"`
	Report        ReportConfig    `mapstructure:"report"`
	TaskCachePath string          `mapstructure:"task_cache_path"`
	Log           applog.Config   `mapstructure:"log"`
	Metrics       MetricsConfig   `mapstructure:"metrics"`
}

// PullConfig controls the agent's task-pull loop.
type PullConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

// ReportConfig controls the agent's status-report loop.
type ReportConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

// MetricsConfig contains Prometheus metrics server settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
	Path    string `mapstructure:"path"`
}

// ControllerConfig is the top-level configuration for the controller process.
type ControllerConfig struct {
	CtlAddr      string        `mapstructure:"ctl_addr"`
	APIAddr      string        `mapstructure:"api_addr"`
	PresharedKey string        `mapstructure:"preshared_key"`
	AgentDBPath  string        `mapstructure:"agent_db_path"`
	LogsDir      string        `mapstructure:"logs_dir"`
	Log          applog.Config `mapstructure:"log"`
	Metrics      MetricsConfig `mapstructure:"metrics"`
}

type agentRoot struct {
	Fleetcron AgentConfig `mapstructure:"fleetcron"`
}

type controllerRoot struct {
	Fleetcron ControllerConfig `mapstructure:"fleetcron"`
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadAgent reads the agent configuration from path.
func LoadAgent(path string) (*AgentConfig, error) {
	v := newViper(path)
	setAgentDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read agent config: %w", err)
	}

	var root agentRoot
	if err := v.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("config: unmarshal agent config: %w", err)
	}
	cfg := root.Fleetcron

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: validate agent config: %w", err)
	}
	return &cfg, nil
}

// LoadController reads the controller configuration from path.
func LoadController(path string) (*ControllerConfig, error) {
	v := newViper(path)
	setControllerDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read controller config: %w", err)
	}

	var root controllerRoot
	if err := v.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("config: unmarshal controller config: %w", err)
	}
	cfg := root.Fleetcron

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: validate controller config: %w", err)
	}
	return &cfg, nil
}

func setAgentDefaults(v *viper.Viper) {
	v.SetDefault("fleetcron.pull.enabled", true)
	v.SetDefault("fleetcron.pull.interval", "30s")
	v.SetDefault("fleetcron.report.enabled", true)
	v.SetDefault("fleetcron.report.interval", "30s")
	v.SetDefault("fleetcron.task_cache_path", "/var/lib/fleetcron/tasks.json")

	v.SetDefault("fleetcron.log.level", "info")
	v.SetDefault("fleetcron.log.format", "json")

	v.SetDefault("fleetcron.metrics.enabled", true)
	v.SetDefault("fleetcron.metrics.listen", ":9120")
	v.SetDefault("fleetcron.metrics.path", "/metrics")
}

func setControllerDefaults(v *viper.Viper) {
	v.SetDefault("fleetcron.ctl_addr", ":7070")
	v.SetDefault("fleetcron.api_addr", ":8080")
	v.SetDefault("fleetcron.agent_db_path", "/var/lib/fleetcron/agentdb.json")
	v.SetDefault("fleetcron.logs_dir", "/var/log/fleetcron/logs")

	v.SetDefault("fleetcron.log.level", "info")
	v.SetDefault("fleetcron.log.format", "json")

	v.SetDefault("fleetcron.metrics.enabled", true)
	v.SetDefault("fleetcron.metrics.listen", ":9121")
	v.SetDefault("fleetcron.metrics.path", "/metrics")
}

func (cfg *AgentConfig) validate() error {
	if cfg.AgentID == "" {
		return fmt.Errorf("agent_id must be set")
	}
	if cfg.Server == "" {
		return fmt.Errorf("server must be set")
	}
	if cfg.PresharedKey == "" {
		return fmt.Errorf("preshared_key must be set")
	}
	return validateLog(cfg.Log)
}

func (cfg *ControllerConfig) validate() error {
	if cfg.PresharedKey == "" {
		return fmt.Errorf("preshared_key must be set")
	}
	if cfg.CtlAddr == "" {
		return fmt.Errorf("ctl_addr must be set")
	}
	if cfg.APIAddr == "" {
		return fmt.Errorf("api_addr must be set")
	}
	return validateLog(cfg.Log)
}

func validateLog(log applog.Config) error {
	switch log.Level {
	case "debug", "info", "warn", "error", "":
	default:
		return fmt.Errorf("invalid log level: %s", log.Level)
	}
	switch log.Format {
	case "json", "text", "":
	default:
		return fmt.Errorf("invalid log format: %s", log.Format)
	}
	return nil
}
