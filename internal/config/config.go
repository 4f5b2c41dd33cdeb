// Package config provides configuration for TestService.
//
// Every setting has a built-in default; the JSON file only overrides.
package config

import (
	"time"

	"testservice/internal/logger"
)

// Config is the root configuration structure.
type Config struct {
	Service ServiceConfig `json:"Service"`
	Task    TaskConfig    `json:"Task"`
	Logging logger.Config `json:"Logging"`
}

// ServiceConfig identifies the service to the service control manager.
type ServiceConfig struct {
	Name        string `json:"Name"`
	DisplayName string `json:"DisplayName"`
	BinaryPath  string `json:"BinaryPath"` // empty means the running executable
}

// TaskConfig controls the step writer run while the service is up.
type TaskConfig struct {
	OutputPath string        `json:"OutputPath"`
	Steps      int           `json:"Steps"`
	Interval   time.Duration `json:"Interval"`
}

const (
	DefaultServiceName = "TestService"
	DefaultDisplayName = "Test Service"
	DefaultSteps       = 60
	DefaultInterval    = time.Second
)

// DefaultConfig returns a configuration with the built-in values.
func DefaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:        DefaultServiceName,
			DisplayName: DefaultDisplayName,
		},
		Task: TaskConfig{
			OutputPath: defaultOutputPath,
			Steps:      DefaultSteps,
			Interval:   DefaultInterval,
		},
		Logging: logger.DefaultConfig(),
	}
}

// Merge applies non-zero values from other onto c.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.Service.Name != "" {
		c.Service.Name = other.Service.Name
	}
	if other.Service.DisplayName != "" {
		c.Service.DisplayName = other.Service.DisplayName
	}
	if other.Service.BinaryPath != "" {
		c.Service.BinaryPath = other.Service.BinaryPath
	}
	if other.Task.OutputPath != "" {
		c.Task.OutputPath = other.Task.OutputPath
	}
	if other.Task.Steps > 0 {
		c.Task.Steps = other.Task.Steps
	}
	if other.Task.Interval > 0 {
		c.Task.Interval = other.Task.Interval
	}
	c.Logging = mergeLogging(c.Logging, other.Logging)
}

func mergeLogging(base, over logger.Config) logger.Config {
	if over.Level != "" {
		base.Level = over.Level
	}
	if over.FilePath != "" {
		base.FilePath = over.FilePath
	}
	if over.Format != "" {
		base.Format = over.Format
	}
	if over.MaxSizeMB != 0 {
		base.MaxSizeMB = over.MaxSizeMB
	}
	if over.MaxBackups != 0 {
		base.MaxBackups = over.MaxBackups
	}
	if over.MaxAgeDays != 0 {
		base.MaxAgeDays = over.MaxAgeDays
	}
	return base
}
