// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the settings of the pyrite command from a YAML
// file. Command-line flags override what the file sets.
package config // import "go.pyrite.dev/internal/config"

import (
	"fmt"
	"os"
	"strings"

	"github.com/oarkflow/log"
	"gopkg.in/yaml.v3"
)

// Config holds the interpreter settings.
type Config struct {
	// Recover keeps running top-level statements after an error.
	Recover bool `yaml:"recover" json:"recover"`

	Prompt string `yaml:"prompt,omitempty" json:"prompt,omitempty"`
	Banner string `yaml:"banner,omitempty" json:"banner,omitempty"`

	// ShowEnv prints the final globals; EnvFormat is one of
	// "text", "json" or "prototext".
	ShowEnv   bool   `yaml:"show_env" json:"show_env"`
	EnvFormat string `yaml:"env_format,omitempty" json:"env_format,omitempty"`

	LogLevel string `yaml:"log_level,omitempty" json:"log_level,omitempty"`
	MaxDepth int    `yaml:"max_depth,omitempty" json:"max_depth,omitempty"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Prompt:    ">>> ",
		Banner:    "Welcome to Pyrite (go.pyrite.dev)",
		EnvFormat: "text",
		LogLevel:  "warn",
	}
}

// Load reads the YAML file at path over the defaults.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	switch cfg.EnvFormat {
	case "text", "json", "prototext":
	default:
		return fmt.Errorf("unknown env_format %q", cfg.EnvFormat)
	}
	if _, err := cfg.Level(); err != nil {
		return err
	}
	if cfg.MaxDepth < 0 {
		return fmt.Errorf("negative max_depth %d", cfg.MaxDepth)
	}
	return nil
}

// Level returns the logger level named by LogLevel.
func (cfg *Config) Level() (log.Level, error) {
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		return log.DebugLevel, nil
	case "info":
		return log.InfoLevel, nil
	case "", "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	}
	return 0, fmt.Errorf("unknown log_level %q", cfg.LogLevel)
}
