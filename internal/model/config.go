package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ServerConfig describes the MailNest backend the client talks to.
type ServerConfig struct {
	// BaseURL is the root URL of the backend (e.g., http://localhost:5000).
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec bounds each HTTP request. Zero means no client-side
	// timeout; long operations run asynchronously on the backend anyway.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// LogConfig controls the diagnostic log file.
type LogConfig struct {
	File       string `mapstructure:"file" yaml:"file"`
	Level      string `mapstructure:"level" yaml:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
}

// StoreConfig locates the local run journal.
type StoreConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// MonitorConfig tunes the live operation monitor.
type MonitorConfig struct {
	Markers Markers `mapstructure:"markers" yaml:"markers"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
	Monitor MonitorConfig `mapstructure:"monitor" yaml:"monitor"`
}

// ConfigDir returns ~/.config/mailnest, or the working directory when the
// home directory cannot be resolved.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "mailnest")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/mailnest/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	dir := ConfigDir()
	return &AppConfig{
		Server: ServerConfig{
			BaseURL: "http://localhost:5000",
		},
		Display: DisplayConfig{
			Theme: "default",
		},
		Log: LogConfig{
			File:       filepath.Join(dir, "logs", "mailnest.log"),
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Store: StoreConfig{
			Path: filepath.Join(dir, "runs.db"),
		},
		Monitor: MonitorConfig{
			Markers: DefaultMarkers(),
		},
	}
}

// SetDefaults registers the default values on v so missing keys resolve
// to sensible values.
func SetDefaults(v *viper.Viper) {
	def := DefaultAppConfig()
	v.SetDefault("server.base_url", def.Server.BaseURL)
	v.SetDefault("server.timeout_sec", def.Server.TimeoutSec)
	v.SetDefault("display.theme", def.Display.Theme)
	v.SetDefault("log.file", def.Log.File)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.max_size_mb", def.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", def.Log.MaxBackups)
	v.SetDefault("store.path", def.Store.Path)
	v.SetDefault("monitor.markers.error", def.Monitor.Markers.Error)
	v.SetDefault("monitor.markers.success", def.Monitor.Markers.Success)
	v.SetDefault("monitor.markers.warning", def.Monitor.Markers.Warning)
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	return LoadConfigFrom(v)
}

// LoadConfigFrom unmarshals an already-prepared Viper instance (flags and
// environment may be bound to it) into an AppConfig.
func LoadConfigFrom(v *viper.Viper) (*AppConfig, error) {
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil && !isMissingConfig(err) {
		return nil, fmt.Errorf("reading config %s: %w", v.ConfigFileUsed(), err)
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", v.ConfigFileUsed(), err)
	}

	if cfg.Server.BaseURL == "" {
		return nil, fmt.Errorf("server.base_url must not be empty")
	}
	if cfg.Server.TimeoutSec < 0 {
		return nil, fmt.Errorf("server.timeout_sec must not be negative")
	}

	return cfg, nil
}

// isMissingConfig reports whether err only means there is no config file,
// in which case defaults (plus bound flags) apply.
func isMissingConfig(err error) bool {
	if _, ok := err.(*os.PathError); ok {
		return true
	}
	_, ok := err.(viper.ConfigFileNotFoundError)
	return ok
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("server", cfg.Server)
	v.Set("display", cfg.Display)
	v.Set("log", cfg.Log)
	v.Set("store", cfg.Store)
	v.Set("monitor", cfg.Monitor)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
