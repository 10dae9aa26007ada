// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import "time"

// Config is the effective agentgraph configuration.
type Config struct {
	// AgentsDir holds the agent descriptor files.
	AgentsDir string `koanf:"agents_dir" validate:"required"`

	// Output is the output path prefix; the extension is per format.
	Output string `koanf:"output" validate:"required"`

	// Format is a comma-separated list of format selectors.
	Format string `koanf:"format" validate:"required"`

	// MetricsFile, when set, receives a Prometheus textfile after each run.
	MetricsFile string `koanf:"metrics_file"`

	// Trace enables span and metric export to stderr.
	Trace bool `koanf:"trace"`

	Log     LogConfig     `koanf:"log"`
	Backend BackendConfig `koanf:"backend"`
	Watch   WatchConfig   `koanf:"watch"`
}

// LogConfig configures pkg/logging.
type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn warning error"`
	JSON  bool   `koanf:"json"`
	Dir   string `koanf:"dir"`
}

// BackendConfig configures the Graphviz image backend.
type BackendConfig struct {
	Command string        `koanf:"command" validate:"required"`
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
}

// WatchConfig configures generate --watch.
type WatchConfig struct {
	Debounce time.Duration `koanf:"debounce" validate:"gt=0"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		AgentsDir: "agents",
		Output:    "docs/agent-dependency-graph",
		Format:    "mermaid",
		Log: LogConfig{
			Level: "info",
		},
		Backend: BackendConfig{
			Command: "dot",
			Timeout: 30 * time.Second,
		},
		Watch: WatchConfig{
			Debounce: 250 * time.Millisecond,
		},
	}
}
