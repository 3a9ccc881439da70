// Package config loads checkclock settings from a YAML file and CHECKCLOCK_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/sadopc/checkclock/internal/calendar"
	"github.com/sadopc/checkclock/internal/idle"
	"github.com/sadopc/checkclock/internal/store"
)

// Config holds every setting of the tracker. Durations are in seconds.
type Config struct {
	DBPath             string `mapstructure:"db_path" yaml:"db_path"`
	TickLength         int64  `mapstructure:"tick_length" yaml:"tick_length"`
	AvgWorkingTime     int64  `mapstructure:"avg_working_time" yaml:"avg_working_time"`
	WorkingDays        string `mapstructure:"working_days" yaml:"working_days"`
	MergeGap           int64  `mapstructure:"merge_gap" yaml:"merge_gap"`
	MinDuration        int64  `mapstructure:"min_duration" yaml:"min_duration"`
	BalanceMinDuration int64  `mapstructure:"balance_min_duration" yaml:"balance_min_duration"`
	ResyncInterval     int64  `mapstructure:"resync_interval" yaml:"resync_interval"`
	BackupDir          string `mapstructure:"backup_dir" yaml:"backup_dir"`
	ReportDays         int    `mapstructure:"report_days" yaml:"report_days"`
	TotalDays          int    `mapstructure:"total_days" yaml:"total_days"`

	Idle IdleConfig `mapstructure:"idle" yaml:"idle"`
	Log  LogConfig  `mapstructure:"log" yaml:"log"`
}

type IdleConfig struct {
	Enabled  bool     `mapstructure:"enabled" yaml:"enabled"`
	Services []string `mapstructure:"services" yaml:"services"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	File   string `mapstructure:"file" yaml:"file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	dbPath, err := store.DefaultDBPath()
	if err != nil {
		dbPath = "checkclock.sqlite"
	}
	return &Config{
		DBPath:             dbPath,
		TickLength:         60,
		AvgWorkingTime:     8 * 60 * 60,
		WorkingDays:        "Mon-Fri",
		MergeGap:           5 * 60,
		MinDuration:        60,
		BalanceMinDuration: 0,
		ResyncInterval:     600,
		ReportDays:         5,
		TotalDays:          30,
		Idle: IdleConfig{
			Enabled:  true,
			Services: append([]string(nil), idle.DefaultServices...),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultPath returns ~/.config/checkclock/config.yaml
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "checkclock", "config.yaml")
}

// Load reads path on top of the defaults and applies CHECKCLOCK_* overrides
// (CHECKCLOCK_TICK_LENGTH, CHECKCLOCK_IDLE_ENABLED, ...). A missing file is
// not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()
	setDefaults(v, cfg)

	v.SetEnvPrefix("CHECKCLOCK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.DBPath = expandHome(cfg.DBPath)
	cfg.BackupDir = expandHome(cfg.BackupDir)
	cfg.Log.File = expandHome(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("db_path", cfg.DBPath)
	v.SetDefault("tick_length", cfg.TickLength)
	v.SetDefault("avg_working_time", cfg.AvgWorkingTime)
	v.SetDefault("working_days", cfg.WorkingDays)
	v.SetDefault("merge_gap", cfg.MergeGap)
	v.SetDefault("min_duration", cfg.MinDuration)
	v.SetDefault("balance_min_duration", cfg.BalanceMinDuration)
	v.SetDefault("resync_interval", cfg.ResyncInterval)
	v.SetDefault("backup_dir", cfg.BackupDir)
	v.SetDefault("report_days", cfg.ReportDays)
	v.SetDefault("total_days", cfg.TotalDays)
	v.SetDefault("idle.enabled", cfg.Idle.Enabled)
	v.SetDefault("idle.services", cfg.Idle.Services)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.file", cfg.Log.File)
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("db_path must be set")
	}
	if c.TickLength <= 0 {
		return fmt.Errorf("tick_length must be positive, got %d", c.TickLength)
	}
	for name, v := range map[string]int64{
		"avg_working_time":     c.AvgWorkingTime,
		"merge_gap":            c.MergeGap,
		"min_duration":         c.MinDuration,
		"balance_min_duration": c.BalanceMinDuration,
		"resync_interval":      c.ResyncInterval,
	} {
		if v < 0 {
			return fmt.Errorf("%s must not be negative, got %d", name, v)
		}
	}
	if c.ReportDays < 0 || c.TotalDays < 0 {
		return errors.New("report_days and total_days must not be negative")
	}
	if _, err := c.Schedule(); err != nil {
		return err
	}
	return nil
}

// Schedule parses WorkingDays.
func (c *Config) Schedule() (calendar.Weekdays, error) {
	return calendar.Parse(c.WorkingDays)
}

// Save writes cfg as YAML to path, creating parent directories.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	content := "# checkclock configuration, durations in seconds\n" + string(data)
	return os.WriteFile(path, []byte(content), 0o644)
}

// WriteDefault writes the default configuration to path unless a file is
// already there.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	return Save(path, DefaultConfig())
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
