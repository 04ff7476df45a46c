// Package config loads service configuration from an optional YAML file and
// the process environment, with the environment taking precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures the runtime settings of the study planner service.
type Config struct {
	HTTPPort        int    `yaml:"http_port"`
	SQLiteDSN       string `yaml:"sqlite_dsn"`
	Timezone        string `yaml:"timezone"`
	MaintenanceCron string `yaml:"maintenance_cron"`
	RetentionDays   int    `yaml:"retention_days"`
}

// Load resolves configuration in three layers: built-in defaults, then the
// YAML file named by STUDYPLAN_CONFIG (when set), then individual
// environment variables.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:        8080,
		SQLiteDSN:       "file:studyplanner.db?_foreign_keys=on",
		Timezone:        "Local",
		MaintenanceCron: "0 3 * * *",
		RetentionDays:   90,
	}

	if path := strings.TrimSpace(os.Getenv("STUDYPLAN_CONFIG")); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("STUDYPLAN_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "STUDYPLAN_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("STUDYPLAN_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if tz := strings.TrimSpace(os.Getenv("STUDYPLAN_TIMEZONE")); tz != "" {
		cfg.Timezone = tz
	}

	if spec := strings.TrimSpace(os.Getenv("STUDYPLAN_MAINTENANCE_CRON")); spec != "" {
		cfg.MaintenanceCron = spec
	}

	if daysValue := strings.TrimSpace(os.Getenv("STUDYPLAN_RETENTION_DAYS")); daysValue != "" {
		days, err := strconv.Atoi(daysValue)
		if err != nil || days < 0 {
			invalid = append(invalid, "STUDYPLAN_RETENTION_DAYS")
		} else {
			cfg.RetentionDays = days
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment values: %s", strings.Join(invalid, ", "))
	}

	if _, err := cfg.Location(); err != nil {
		return Config{}, fmt.Errorf("unknown timezone %q: %w", cfg.Timezone, err)
	}

	return cfg, nil
}

// Location resolves the configured timezone name.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "Local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}
