package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Workout   WorkoutConfig   `yaml:"workout"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type WorkoutConfig struct {
	// PrivilegedArea gets an extra slot in computed quotas. Default "Abs".
	PrivilegedArea string `yaml:"privileged_area"`
	// Tolerance is the default allowed deviation from the target mean
	// difficulty. Default 0.5.
	Tolerance float64 `yaml:"tolerance"`
	// DataDir, when set, receives a CSV dump of every generated plan.
	DataDir string `yaml:"data_dir"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. Env vars use the prefix CONEGLIANO_ and
// underscore-separated paths:
//
//	CONEGLIANO_SERVER_HOST, CONEGLIANO_SERVER_PORT,
//	CONEGLIANO_DB_HOST, CONEGLIANO_DB_PORT, CONEGLIANO_DB_NAME,
//	CONEGLIANO_DB_USER, CONEGLIANO_DB_PASSWORD, CONEGLIANO_DB_SSLMODE,
//	CONEGLIANO_AUTH_API_KEY, CONEGLIANO_WORKOUT_DATA_DIR
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CONEGLIANO_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("CONEGLIANO_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("CONEGLIANO_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("CONEGLIANO_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("CONEGLIANO_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("CONEGLIANO_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("CONEGLIANO_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("CONEGLIANO_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("CONEGLIANO_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("CONEGLIANO_WORKOUT_DATA_DIR"); v != "" {
		cfg.Workout.DataDir = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Workout.PrivilegedArea == "" {
		cfg.Workout.PrivilegedArea = "Abs"
	}
	if cfg.Workout.Tolerance == 0 {
		cfg.Workout.Tolerance = 0.5
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	if c.Workout.Tolerance < 0 {
		return fmt.Errorf("workout.tolerance must not be negative")
	}
	return nil
}
