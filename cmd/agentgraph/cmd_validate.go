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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AgentGraph/cmd/agentgraph/internal/descriptor"
	"github.com/AleutianAI/AgentGraph/pkg/ux"
)

func newValidateCmd(a *app) *cobra.Command {
	var (
		agentFile string
		agentsDir string
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check agent descriptor files",
		Long: `Parse and schema-check agent descriptor files without building the graph.

Each file is reported as PASS or FAIL. Files that pass may still produce
advisory warnings (missing communication protocol, overlong single-line
instructions).

Exit codes:
  0  every file passed
  1  at least one file failed
  2  the agents directory could not be read

Examples:
  agentgraph validate
  agentgraph validate --agent agents/uber-orchestrator.yaml -v`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("agents-dir") {
				a.cfg.AgentsDir = agentsDir
			}

			var files []string
			if agentFile != "" {
				files = []string{agentFile}
			} else {
				var err error
				files, err = descriptor.ListFiles(a.cfg.AgentsDir)
				if err != nil {
					return err
				}
			}
			return runValidate(a, files, verbose)
		},
	}

	cmd.Flags().StringVar(&agentFile, "agent", "", "Validate a single file instead of the agents directory")
	cmd.Flags().StringVar(&agentsDir, "agents-dir", "", "Directory of agent descriptor files (overrides agents_dir)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "List the agents found in each file")
	return cmd
}

// runValidate checks files and reports findings through the exit code.
func runValidate(a *app, files []string, verbose bool) error {
	p := a.printer
	p.Title("Agent descriptor validation")

	var passed, failed, warnings int
	for _, path := range files {
		descs, lerr := descriptor.LoadFile(path)
		if lerr != nil {
			failed++
			p.FileStatus(path, ux.IconError, lerr.Error())
			a.logger.Debug("descriptor rejected", "path", path, "error", lerr)
			continue
		}

		passed++
		p.FileStatus(path, ux.IconSuccess, fmt.Sprintf("%d agent(s)", len(descs)))

		if verbose {
			for _, d := range descs {
				p.Muted(fmt.Sprintf("    %s %s: %s", ux.IconArrow.Render(), d.Slug, d.RoleSummary()))
			}
		}

		for _, w := range descriptor.Lint(path, descs) {
			warnings++
			p.Warning(w)
		}
	}

	p.Summary("Validation", []ux.Count{
		{Label: "Files", Value: len(files)},
		{Label: "Passed", Value: passed},
		{Label: "Failed", Value: failed},
		{Label: "Warnings", Value: warnings},
	})

	if failed > 0 {
		return findings("%d of %d file(s) failed validation", failed, len(files))
	}
	return nil
}
