package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"testservice/internal/logger"
)

// FileName is the configuration file looked up next to the executable.
const FileName = "TestService.json"

// rawConfig mirrors Config with duration strings and optional booleans.
type rawConfig struct {
	Service ServiceConfig    `json:"Service"`
	Task    rawTaskConfig    `json:"Task"`
	Logging rawLoggingConfig `json:"Logging"`
}

type rawTaskConfig struct {
	OutputPath string `json:"OutputPath"`
	Steps      int    `json:"Steps"`
	Interval   string `json:"Interval"`
}

type rawLoggingConfig struct {
	Level      string `json:"Level"`
	FilePath   string `json:"FilePath"`
	Format     string `json:"Format"`
	MaxSizeMB  int    `json:"MaxSizeMB"`
	MaxBackups int    `json:"MaxBackups"`
	MaxAgeDays int    `json:"MaxAgeDays"`
	Compress   *bool  `json:"Compress"`
	Console    *bool  `json:"Console"`
}

// DefaultPath returns FileName in the directory of the running executable.
// The service control manager starts services with the working directory
// set to System32, so relative lookups are not useful.
func DefaultPath() string {
	exe, err := os.Executable()
	if err != nil {
		return FileName
	}
	return filepath.Join(filepath.Dir(exe), FileName)
}

// Load reads configuration from path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses configuration from JSON bytes on top of the defaults.
func Parse(data []byte) (*Config, error) {
	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	parsed, err := convertRawConfig(&raw)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	cfg.Merge(parsed)
	if raw.Logging.Compress != nil {
		cfg.Logging.Compress = *raw.Logging.Compress
	}
	if raw.Logging.Console != nil {
		cfg.Logging.Console = *raw.Logging.Console
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadLogging reads only the Logging section of the file at path.
func LoadLogging(path string) (*logger.Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &cfg.Logging, nil
}

func convertRawConfig(raw *rawConfig) (*Config, error) {
	if raw.Task.Steps < 0 {
		return nil, fmt.Errorf("Task.Steps must not be negative, got %d", raw.Task.Steps)
	}

	cfg := &Config{
		Service: raw.Service,
		Task: TaskConfig{
			OutputPath: raw.Task.OutputPath,
			Steps:      raw.Task.Steps,
		},
		Logging: logger.Config{
			Level:      raw.Logging.Level,
			FilePath:   raw.Logging.FilePath,
			Format:     raw.Logging.Format,
			MaxSizeMB:  raw.Logging.MaxSizeMB,
			MaxBackups: raw.Logging.MaxBackups,
			MaxAgeDays: raw.Logging.MaxAgeDays,
		},
	}

	if raw.Task.Interval != "" {
		d, err := time.ParseDuration(raw.Task.Interval)
		if err != nil {
			return nil, fmt.Errorf("invalid Task.Interval duration: %w", err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("Task.Interval must be positive, got %s", d)
		}
		cfg.Task.Interval = d
	}

	return cfg, nil
}

// Validate reports settings the service cannot run with.
func (c *Config) Validate() error {
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unsupported Logging.Format %q: must be \"json\" or \"text\"", c.Logging.Format)
	}
	return nil
}

// ResolvePaths makes relative output and log paths relative to baseDir.
func (c *Config) ResolvePaths(baseDir string) {
	c.Task.OutputPath = ResolvePath(baseDir, c.Task.OutputPath)
	c.Logging.FilePath = ResolvePath(baseDir, c.Logging.FilePath)
}

// ResolvePath joins a relative path onto baseDir. Empty and absolute paths
// are returned unchanged.
func ResolvePath(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
