package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v2"

	"github.com/wippyai/reql/transcoder"
)

type loggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

type encodeConfig struct {
	RawJSON    bool `yaml:"raw_json"`
	MaxNesting int  `yaml:"max_nesting"`
}

type config struct {
	Logging loggingConfig `yaml:"logging"`
	Encode  encodeConfig  `yaml:"encode"`
}

func defaultConfig() config {
	return config{
		Logging: loggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Encode: encodeConfig{MaxNesting: transcoder.DefaultMaxNesting},
	}
}

// loadConfig reads a YAML config file over the defaults. An empty path
// returns the defaults.
func loadConfig(path string) (config, error) {
	conf := defaultConfig()
	if path == "" {
		return conf, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return conf, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, &conf); err != nil {
		return conf, fmt.Errorf("parse config: %w", err)
	}
	return conf, nil
}

func (c config) encodeOptions() []transcoder.EncodeOption {
	return []transcoder.EncodeOption{
		transcoder.WithRawJSON(c.Encode.RawJSON),
		transcoder.WithMaxNesting(c.Encode.MaxNesting),
	}
}

// newLogger writes console-encoded logs to stderr, or to a rotated file when
// Logging.File is set.
func newLogger(c loggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	var sink zapcore.WriteSyncer
	if c.File != "" {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   c.File,
			MaxSize:    c.MaxSizeMB, // megabytes
			MaxAge:     c.MaxAgeDays,
			MaxBackups: c.MaxBackups,
			Compress:   c.Compress,
		})
	} else {
		sink = zapcore.Lock(os.Stderr)
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), sink, level)
	return zap.New(core), nil
}
