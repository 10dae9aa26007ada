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
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AgentGraph/cmd/agentgraph/internal/graph"
	"github.com/AleutianAI/AgentGraph/cmd/agentgraph/internal/metrics"
	"github.com/AleutianAI/AgentGraph/cmd/agentgraph/internal/pipeline"
	"github.com/AleutianAI/AgentGraph/cmd/agentgraph/internal/render"
	"github.com/AleutianAI/AgentGraph/cmd/agentgraph/internal/telemetry"
	"github.com/AleutianAI/AgentGraph/pkg/ux"
)

// generateFlags holds the generate command's flags.
type generateFlags struct {
	agentsDir   string
	format      string
	output      string
	metricsFile string
	watch       bool
	trace       bool
	jsonOutput  bool
}

func newGenerateCmd(a *app) *cobra.Command {
	f := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build the delegation graph and write it to disk",
		Long: `Load every agent descriptor under the agents directory, extract delegation
mentions from each agent's custom instructions and write the graph.

Formats (comma-separated):
  mermaid   Markdown with a Mermaid flowchart (.md), always written
  dot       Graphviz source (.dot)
  png       Raster image (.png), needs Graphviz 'dot' on PATH
  svg       Vector image (.svg), needs Graphviz 'dot' on PATH
  all       Every format above

Image formats are skipped with a notice when Graphviz is not installed;
the run still succeeds.

Examples:
  agentgraph generate
  agentgraph generate -f all
  agentgraph generate -f png,svg -o build/agents
  agentgraph generate --watch --log-level debug
  agentgraph generate --json | jq '.data.edges'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f.applyTo(cmd, a)
			return runGenerate(cmd.Context(), a, f.jsonOutput)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.agentsDir, "agents-dir", "", "Directory of agent descriptor files (overrides agents_dir)")
	flags.StringVarP(&f.format, "format", "f", "", "Output formats: mermaid, dot, png, svg, all (overrides format)")
	flags.StringVarP(&f.output, "output", "o", "", "Output path prefix without extension (overrides output)")
	flags.StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus metrics for the run to this file")
	flags.BoolVar(&f.watch, "watch", false, "Regenerate when descriptor files change")
	flags.BoolVar(&f.trace, "trace", false, "Print OpenTelemetry spans and metrics to stderr")
	flags.BoolVar(&f.jsonOutput, "json", false, "Print the run result and graph as JSON")
	return cmd
}

// applyTo copies explicitly set flags over the loaded configuration.
func (f *generateFlags) applyTo(cmd *cobra.Command, a *app) {
	flags := cmd.Flags()
	if flags.Changed("agents-dir") {
		a.cfg.AgentsDir = f.agentsDir
	}
	if flags.Changed("format") {
		a.cfg.Format = f.format
	}
	if flags.Changed("output") {
		a.cfg.Output = f.output
	}
	if flags.Changed("metrics-file") {
		a.cfg.MetricsFile = f.metricsFile
	}
	if flags.Changed("trace") {
		a.cfg.Trace = f.trace
	}
	a.watch = f.watch
}

// parseFormats parses a comma-separated selector list.
func parseFormats(s string) ([]render.Format, error) {
	var out []render.Format
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		f, err := render.ParseFormat(part)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty format list", render.ErrUnknownFormat)
	}
	return out, nil
}

// runGenerate runs one batch, or loops on file changes with --watch.
func runGenerate(ctx context.Context, a *app, jsonOutput bool) error {
	cfg := a.cfg

	formats, err := parseFormats(cfg.Format)
	if err != nil {
		return err
	}

	exporter := telemetry.ExporterNone
	if cfg.Trace {
		exporter = telemetry.ExporterStdout
	}
	shutdown, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    "agentgraph",
		ServiceVersion: Version,
		Exporter:       exporter,
		Writer:         a.stderr,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			a.logger.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	opts := pipeline.Options{
		AgentsDir:    cfg.AgentsDir,
		OutputPrefix: cfg.Output,
		Formats:      formats,
		Backend:      render.NewGraphvizBackend(cfg.Backend.Command, cfg.Backend.Timeout),
		Logger:       a.logger,
	}

	once := func(ctx context.Context) error {
		start := time.Now()
		var report *pipeline.Report
		var err error
		if jsonOutput {
			report, err = pipeline.Run(ctx, opts)
		} else {
			err = a.printer.Spin("Building agent graph", func(s *ux.Spinner) error {
				o := opts
				o.Progress = s.UpdateMessage
				report, err = pipeline.Run(ctx, o)
				return err
			})
		}
		if err != nil {
			return err
		}
		if cfg.MetricsFile != "" {
			if err := metrics.WriteTextfile(cfg.MetricsFile, report); err != nil {
				a.logger.Warn("metrics not written", "path", cfg.MetricsFile, "error", err)
			}
		}
		if jsonOutput {
			return OutputJSON(a.stdout, CommandResult{
				APIVersion: "1.0",
				Command:    "generate",
				RunID:      a.runID,
				Timestamp:  start,
				DurationMs: time.Since(start).Milliseconds(),
				Success:    true,
				Data:       newReportJSON(report),
			})
		}
		printReport(a.printer, report)
		return nil
	}

	if !a.watch {
		return once(ctx)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	a.printer.Info(fmt.Sprintf("watching %s (Ctrl+C to stop)", cfg.AgentsDir))
	return watchAndRun(ctx, cfg.AgentsDir, cfg.Watch.Debounce, a.logger, once)
}

// printReport prints per-file, per-format and summary lines.
func printReport(p *ux.Printer, report *pipeline.Report) {
	for _, le := range report.LoadErrors {
		p.FileStatus(le.Path, ux.IconWarning, "skipped: "+le.Error())
	}

	var notWritten []string
	for _, o := range report.Outcomes {
		switch o.Status {
		case pipeline.StatusWritten:
			p.FileStatus(o.Path, ux.IconSuccess, string(o.Format))
		case pipeline.StatusSkipped, pipeline.StatusFailed:
			notWritten = append(notWritten, fmt.Sprintf("%s %s: %s", o.Format, o.Status, o.Reason))
		}
	}
	if len(notWritten) > 0 {
		p.WarningBox("Formats not written", strings.Join(notWritten, "\n"))
	}

	g := report.Graph
	counts := []ux.Count{
		{Label: "Agents", Value: g.NodeCount()},
		{Label: "Delegations", Value: g.EdgeCount()},
	}
	byCategory := g.CategoryCounts()
	for _, c := range graph.Categories {
		counts = append(counts, ux.Count{Label: string(c), Value: byCategory[c]})
	}
	p.Summary("Agent delegation graph", counts)
}

// reportJSON is the --json view of a run.
type reportJSON struct {
	AgentsDir  string                 `json:"agents_dir"`
	Files      int                    `json:"files"`
	Skipped    []skippedFileJSON      `json:"skipped_files"`
	Nodes      []graph.AgentNode      `json:"nodes"`
	Edges      []graph.DelegationEdge `json:"edges"`
	Categories map[string]int         `json:"categories"`
	Outputs    []outputJSON           `json:"outputs"`
}

type skippedFileJSON struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

type outputJSON struct {
	Format string `json:"format"`
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func newReportJSON(report *pipeline.Report) reportJSON {
	g := report.Graph
	out := reportJSON{
		AgentsDir:  report.AgentsDir,
		Files:      report.Files,
		Skipped:    []skippedFileJSON{},
		Nodes:      g.Nodes(),
		Edges:      g.Edges(),
		Categories: make(map[string]int, len(graph.Categories)),
		Outputs:    make([]outputJSON, 0, len(report.Outcomes)),
	}
	for _, le := range report.LoadErrors {
		out.Skipped = append(out.Skipped, skippedFileJSON{Path: le.Path, Error: le.Error()})
	}
	counts := g.CategoryCounts()
	for _, c := range graph.Categories {
		out.Categories[string(c)] = counts[c]
	}
	for _, o := range report.Outcomes {
		out.Outputs = append(out.Outputs, outputJSON{
			Format: string(o.Format),
			Status: string(o.Status),
			Path:   o.Path,
			Reason: o.Reason,
		})
	}
	if out.Nodes == nil {
		out.Nodes = []graph.AgentNode{}
	}
	if out.Edges == nil {
		out.Edges = []graph.DelegationEdge{}
	}
	return out
}
