package config

import "time"

// Config represents the complete application settings structure
type Config struct {
	Instances  InstancesConfig  `mapstructure:"instances"`
	Connection ConnectionConfig `mapstructure:"connection"`
	Filter     FilterConfig     `mapstructure:"filter"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// InstancesConfig locates the instance document
type InstancesConfig struct {
	Path string `mapstructure:"path"`
}

// ConnectionConfig controls how configured instances are contacted
type ConnectionConfig struct {
	Timeout     time.Duration `mapstructure:"timeout"`
	Concurrency int           `mapstructure:"concurrency"`
}

// FilterConfig contains instance filter expressions
type FilterConfig struct {
	DefaultExpression string            `mapstructure:"default"`
	Presets           map[string]string `mapstructure:"presets"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
