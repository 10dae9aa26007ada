// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/AgentGraph/cmd/agentgraph/config"
	"github.com/AleutianAI/AgentGraph/pkg/logging"
	"github.com/AleutianAI/AgentGraph/pkg/ux"
)

// app is the state shared by all subcommands of one invocation.
type app struct {
	// Global flags
	configPath string
	logLevel   string
	logJSON    bool

	// Set in PersistentPreRunE
	cfg     *config.Config
	logger  *logging.Logger
	printer *ux.Printer
	runID   string

	// Set by generate
	watch bool

	stdout io.Writer
	stderr io.Writer
}

// newRootCmd builds the command tree writing to stdout and stderr.
func newRootCmd(stdout, stderr io.Writer) (*cobra.Command, *app) {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "agentgraph",
		Short: "Map delegation between AI agents",
		Long: `agentgraph reads agent descriptor files and maps which agents delegate to
which, based on the wording of each agent's custom instructions.

Configuration is layered: built-in defaults, then the YAML file given by
--config (or ./.agentgraph.yaml), then AGENTGRAPH_* environment variables,
then flags given on the command line.

Examples:
  agentgraph generate
  agentgraph generate -f all -o docs/agent-dependency-graph
  agentgraph generate --watch
  agentgraph validate -v`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&a.configPath, "config", "",
		"Config file (default: ./"+config.DefaultFile+" if present)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "",
		"Log level: debug, info, warn, error (overrides log.level)")
	root.PersistentFlags().BoolVar(&a.logJSON, "log-json", false,
		"Write logs as JSON (overrides log.json)")

	root.AddCommand(
		newGenerateCmd(a),
		newValidateCmd(a),
		newConfigCmd(a),
		newVersionCmd(a),
	)
	return root, a
}

// closeLogger closes the run logger, if setup created one.
func (a *app) closeLogger() error {
	if a.logger == nil {
		return nil
	}
	return a.logger.Close()
}

// setup loads configuration and creates the run logger and printer.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("log-json") {
		cfg.Log.JSON = a.logJSON
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.runID = uuid.NewString()
	a.logger = logging.New(logging.Config{
		Level:   level,
		JSON:    cfg.Log.JSON,
		LogDir:  cfg.Log.Dir,
		Service: "agentgraph",
		Output:  a.stderr,
	}).With("run_id", a.runID)

	style := ux.PersonalityMachine
	if f, ok := a.stdout.(*os.File); ok {
		style = ux.DetectPersonality(f)
	}
	a.printer = ux.NewPrinter(a.stdout, a.stderr, style)
	return nil
}
