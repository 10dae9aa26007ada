// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads layered agentgraph configuration.
//
// Sources, lowest precedence first:
//
//  1. built-in defaults (DefaultConfig)
//  2. a YAML file: --config, else ./.agentgraph.yaml when present
//  3. AGENTGRAPH_* environment variables (AGENTGRAPH_LOG_LEVEL -> log.level)
//  4. command-line flags the user set explicitly (applied by the caller)
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// DefaultFile is read from the working directory when no --config is given.
const DefaultFile = ".agentgraph.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "AGENTGRAPH_"

// ErrInvalid wraps configuration validation failures.
var ErrInvalid = errors.New("invalid configuration")

// sections are the nested key groups; the first "_" after one becomes ".".
var sections = []string{"log", "backend", "watch"}

var configValidate = validator.New()

// Load builds the configuration from defaults, the file at path and the
// environment.
//
// An empty path falls back to DefaultFile if it exists; an explicit path
// that does not exist is an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	d := DefaultConfig()
	defaults := map[string]any{
		"agents_dir":      d.AgentsDir,
		"output":          d.Output,
		"format":          d.Format,
		"metrics_file":    d.MetricsFile,
		"trace":           d.Trace,
		"log.level":       d.Log.Level,
		"log.json":        d.Log.JSON,
		"log.dir":         d.Log.Dir,
		"backend.command": d.Backend.Command,
		"backend.timeout": d.Backend.Timeout.String(),
		"watch.debounce":  d.Watch.Debounce.String(),
	}
	for key, v := range defaults {
		if err := k.Set(key, v); err != nil {
			return nil, err
		}
	}

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps AGENTGRAPH_BACKEND_TIMEOUT to backend.timeout and
// AGENTGRAPH_AGENTS_DIR to agents_dir.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, sec := range sections {
		if strings.HasPrefix(key, sec+"_") {
			return sec + "." + strings.TrimPrefix(key, sec+"_")
		}
	}
	return key
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// WriteDefault writes DefaultConfig as YAML to path, creating parent
// directories. An existing file is only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists", path)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create the config directory: %w", err)
		}
	}
	data, err := Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Marshal renders cfg as YAML with durations in Go notation.
func Marshal(cfg Config) ([]byte, error) {
	// yaml.v3 encodes time.Duration as an integer; koanf reads strings.
	out := map[string]any{
		"agents_dir":   cfg.AgentsDir,
		"output":       cfg.Output,
		"format":       cfg.Format,
		"metrics_file": cfg.MetricsFile,
		"trace":        cfg.Trace,
		"log": map[string]any{
			"level": cfg.Log.Level,
			"json":  cfg.Log.JSON,
			"dir":   cfg.Log.Dir,
		},
		"backend": map[string]any{
			"command": cfg.Backend.Command,
			"timeout": cfg.Backend.Timeout.String(),
		},
		"watch": map[string]any{
			"debounce": cfg.Watch.Debounce.String(),
		},
	}
	data, err := yamlv3.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}
