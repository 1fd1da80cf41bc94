package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Defaults applied when a field is left empty
const (
	DefaultListenAddr     = ":8501"
	DefaultCostPerKWh     = 5.0
	DefaultEmissionFactor = 0.82
	DefaultLogLevel       = "info"
	DefaultTopicPrefix    = "energycalc"
	DefaultSnapshotWidth  = 1280
	DefaultSnapshotHeight = 2000
)

// Config holds the application configuration
type Config struct {
	Server         ServerConfig   `yaml:"server"`
	Policy         string         `yaml:"policy,omitempty" env:"ENERGYCALC_POLICY"`                   // Coefficient preset (differentiated or uniform)
	CostPerKWh     float64        `yaml:"cost_per_kwh,omitempty" env:"ENERGYCALC_COST_PER_KWH"`       // Currency units per kWh
	EmissionFactor float64        `yaml:"emission_factor,omitempty" env:"ENERGYCALC_EMISSION_FACTOR"` // kg CO2 per kWh
	LogLevel       string         `yaml:"log_level,omitempty" env:"LOG_LEVEL"`
	History        HistoryConfig  `yaml:"history"`
	HomeAssistant  HAConfig       `yaml:"home_assistant,omitempty"`
	MQTT           MQTTConfig     `yaml:"mqtt,omitempty"`
	Snapshot       SnapshotConfig `yaml:"snapshot,omitempty"`
}

// ServerConfig holds the web server settings
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr,omitempty" env:"ENERGYCALC_LISTEN_ADDR"` // e.g., ":8501"
	Metrics    bool   `yaml:"metrics" env:"ENERGYCALC_METRICS"`                   // Expose /metrics
}

// HistoryConfig controls whether submissions are recorded in the local database
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" env:"ENERGYCALC_HISTORY"`
	DBPath  string `yaml:"db_path,omitempty" env:"ENERGYCALC_DB"`
}

// HAConfig holds Home Assistant HTTP API configuration
type HAConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URL      string `yaml:"url"`       // e.g., "http://yourdomain.local:5050"
	Token    string `yaml:"token"`     // Long-lived access token
	EntityID string `yaml:"entity_id"` // e.g., "sensor.household_estimated_daily_energy"
}

// MQTTConfig holds MQTT broker configuration
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"` // host:port
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
	TopicPrefix string `yaml:"topic_prefix,omitempty"`
}

// SnapshotConfig holds headless browser settings for report snapshots
type SnapshotConfig struct {
	Width  int `yaml:"width,omitempty"`
	Height int `yaml:"height,omitempty"`
}

// Load reads the config file and applies environment overrides
func Load(configPath string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		// Missing file means defaults
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// DefaultDBPath returns the default history database path (local directory)
func DefaultDBPath() string {
	return "history.db"
}

// GetListenAddr returns the server listen address, default ":8501"
func (c *Config) GetListenAddr() string {
	if c.Server.ListenAddr == "" {
		return DefaultListenAddr
	}
	return c.Server.ListenAddr
}

// GetPolicy returns the configured coefficient preset name, empty for the default
func (c *Config) GetPolicy() string {
	return c.Policy
}

// GetCostPerKWh returns the electricity price, default 5 per kWh
func (c *Config) GetCostPerKWh() float64 {
	if c.CostPerKWh <= 0 {
		return DefaultCostPerKWh
	}
	return c.CostPerKWh
}

// GetEmissionFactor returns the grid emission factor, default 0.82 kg CO2/kWh
func (c *Config) GetEmissionFactor() float64 {
	if c.EmissionFactor <= 0 {
		return DefaultEmissionFactor
	}
	return c.EmissionFactor
}

// GetLogLevel returns the log level, default "info"
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return DefaultLogLevel
	}
	return c.LogLevel
}

// GetDBPath returns the history database path
func (c *Config) GetDBPath() string {
	if c.History.DBPath == "" {
		return DefaultDBPath()
	}
	return c.History.DBPath
}

// GetTopicPrefix returns the MQTT topic prefix, default "energycalc"
func (c *Config) GetTopicPrefix() string {
	if c.MQTT.TopicPrefix == "" {
		return DefaultTopicPrefix
	}
	return c.MQTT.TopicPrefix
}

// GetSnapshotSize returns the browser viewport used for snapshots
func (c *Config) GetSnapshotSize() (int, int) {
	w, h := c.Snapshot.Width, c.Snapshot.Height
	if w <= 0 {
		w = DefaultSnapshotWidth
	}
	if h <= 0 {
		h = DefaultSnapshotHeight
	}
	return w, h
}
