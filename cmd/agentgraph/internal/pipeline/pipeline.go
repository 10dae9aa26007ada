// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package pipeline runs one load → build → render batch.
//
// # Description
//
// Run loads every descriptor file under a directory, builds the delegation
// graph and writes each requested format. Only a missing agents directory
// or a cancelled context stops a run; every other problem is recorded in
// the Report:
//
//   - unreadable, unparseable or invalid files are skipped (Report.LoadErrors)
//   - image formats without an available backend are skipped (StatusSkipped)
//   - formats whose renderer fails are recorded as StatusFailed
//
// The Mermaid document is always produced, even when only image formats
// were requested.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/AgentGraph/cmd/agentgraph/internal/delegation"
	"github.com/AleutianAI/AgentGraph/cmd/agentgraph/internal/descriptor"
	"github.com/AleutianAI/AgentGraph/cmd/agentgraph/internal/graph"
	"github.com/AleutianAI/AgentGraph/cmd/agentgraph/internal/render"
	"github.com/AleutianAI/AgentGraph/cmd/agentgraph/internal/telemetry"
	"github.com/AleutianAI/AgentGraph/pkg/logging"
)

// Status is the result of one format.
type Status string

const (
	StatusWritten Status = "written"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Outcome records what happened to one format.
type Outcome struct {
	Format render.Format
	Status Status

	// Path is the file written (StatusWritten only).
	Path string

	// Reason explains a skip or failure in one line.
	Reason string

	// Err is the render error (StatusFailed only).
	Err error
}

// Options configures a Run.
type Options struct {
	// AgentsDir is the descriptor directory. Required.
	AgentsDir string

	// OutputPrefix is the output path without extension. Required.
	OutputPrefix string

	// Formats are the concrete formats to write. FormatAll is expanded.
	// Empty means Mermaid only.
	Formats []render.Format

	// Backend renders image formats. Nil means images are unavailable.
	Backend render.Backend

	// Logger receives structured records. Nil discards them.
	Logger *logging.Logger

	// Extract overrides delegation extraction; nil uses delegation.Extract.
	Extract graph.ExtractFunc

	// Progress, if set, is called with a short label as each stage starts.
	Progress func(stage string)
}

// Report is the result of a Run.
type Report struct {
	AgentsDir string

	// Files is the number of descriptor files found.
	Files int

	// LoadErrors lists the skipped files.
	LoadErrors []*descriptor.LoadError

	// Graph is the built graph; never nil after a successful Run.
	Graph *graph.Graph

	// Outcomes holds one entry per rendered format, in render order.
	Outcomes []Outcome

	// Duration is the wall time of the run.
	Duration time.Duration
}

// Written returns the paths written, in render order.
func (r *Report) Written() []string {
	var paths []string
	for _, o := range r.Outcomes {
		if o.Status == StatusWritten {
			paths = append(paths, o.Path)
		}
	}
	return paths
}

// Count returns the number of outcomes with status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Plan returns the formats a run will render for the requested selectors:
// FormatAll is expanded, duplicates are dropped and Mermaid is always first.
func Plan(requested []render.Format) []render.Format {
	plan := []render.Format{render.FormatMermaid}
	seen := map[render.Format]bool{render.FormatMermaid: true}
	for _, sel := range requested {
		for _, f := range render.Expand(sel) {
			if !seen[f] {
				seen[f] = true
				plan = append(plan, f)
			}
		}
	}
	return plan
}

// Run executes one batch.
//
// # Outputs
//
// A non-nil error is returned only when the agents directory is missing,
// the options are incomplete, or ctx is cancelled. Per-file and per-format
// problems are reported in the Report.
func Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.AgentsDir == "" {
		return nil, errors.New("agents directory is required")
	}
	if opts.OutputPrefix == "" {
		return nil, errors.New("output prefix is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "pipeline.Run",
		trace.WithAttributes(attribute.String("agents_dir", opts.AgentsDir)),
	)
	defer span.End()
	if id := telemetry.TraceID(ctx); id != "" {
		logger = logger.With("trace_id", id)
	}

	progress := opts.Progress
	if progress == nil {
		progress = func(string) {}
	}

	report := &Report{AgentsDir: opts.AgentsDir}

	progress("Loading descriptors")
	descs, err := load(ctx, opts.AgentsDir, report, logger)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	progress("Building graph")
	report.Graph = build(ctx, descs, opts.Extract, logger)

	for _, f := range Plan(opts.Formats) {
		if err := ctx.Err(); err != nil {
			telemetry.RecordError(span, err)
			return report, err
		}
		progress("Rendering " + string(f))
		o := renderFormat(ctx, report.Graph, f, opts, logger)
		telemetry.CountRender(ctx, string(o.Format), string(o.Status))
		report.Outcomes = append(report.Outcomes, o)
	}

	report.Duration = time.Since(start)
	span.SetAttributes(
		attribute.Int("nodes", report.Graph.NodeCount()),
		attribute.Int("edges", report.Graph.EdgeCount()),
	)
	telemetry.SetSpanOK(span)

	logger.Info("run complete",
		"nodes", report.Graph.NodeCount(),
		"edges", report.Graph.EdgeCount(),
		"written", report.Count(StatusWritten),
		"skipped", report.Count(StatusSkipped),
		"failed", report.Count(StatusFailed),
		"duration_ms", report.Duration.Milliseconds(),
	)
	return report, nil
}

// load reads the descriptor directory, logging one warning per skipped file.
func load(ctx context.Context, dir string, report *Report, logger *logging.Logger) ([]descriptor.Descriptor, error) {
	_, span := telemetry.StartSpan(ctx, "pipeline.Load")
	defer span.End()

	res, err := descriptor.LoadDir(dir)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	report.Files = len(res.Files)
	report.LoadErrors = res.Errors
	for _, le := range res.Errors {
		logger.Warn("skipping descriptor file", "path", le.Path, "error", le.Err)
	}

	span.SetAttributes(
		attribute.Int("files", len(res.Files)),
		attribute.Int("descriptors", len(res.Descriptors)),
		attribute.Int("skipped", len(res.Errors)),
	)
	logger.Info("descriptors loaded",
		"dir", dir,
		"files", len(res.Files),
		"agents", len(res.Descriptors),
		"skipped", len(res.Errors),
	)
	return res.Descriptors, nil
}

// build constructs the graph and logs per-source delegation detail.
func build(ctx context.Context, descs []descriptor.Descriptor, extract graph.ExtractFunc, logger *logging.Logger) *graph.Graph {
	ctx, span := telemetry.StartSpan(ctx, "pipeline.Build")
	defer span.End()

	b := graph.NewBuilder()
	if extract != nil {
		b = graph.NewBuilderWithExtractor(extract)
	}
	g := b.Build(descs)

	// Per-rule detail only describes the built-in extractor.
	if extract == nil {
		countCandidates(ctx, g, descs, logger)
	}

	for _, n := range g.Nodes() {
		if targets := g.EdgesFrom(n.ID); len(targets) > 0 {
			logger.Debug(fmt.Sprintf("%s → %s", n.ID, strings.Join(targets, ", ")))
		}
	}

	counts := g.CategoryCounts()
	args := []any{"nodes", g.NodeCount(), "edges", g.EdgeCount()}
	for _, c := range graph.Categories {
		args = append(args, string(c), counts[c])
	}
	logger.Info("graph built", args...)

	span.SetAttributes(
		attribute.Int("nodes", g.NodeCount()),
		attribute.Int("edges", g.EdgeCount()),
	)
	return g
}

// countCandidates records per-rule candidates for each node, using the
// script of the descriptor that won the node's slug.
func countCandidates(ctx context.Context, g *graph.Graph, descs []descriptor.Descriptor, logger *logging.Logger) {
	scripts := make(map[string]string, len(descs))
	for _, d := range descs {
		scripts[d.Slug] = d.CustomInstructions.Text
	}

	for _, n := range g.Nodes() {
		text := scripts[n.ID]
		if text == "" {
			continue
		}
		detail := delegation.ExtractDetailed(text)
		for _, rule := range delegation.Rules {
			ids, ok := detail[rule]
			if !ok {
				continue
			}
			telemetry.CountDelegations(ctx, string(rule), len(ids))
			if logger.Enabled(logging.LevelDebug) {
				logger.Debug("delegation candidates", "agent", n.ID, "rule", string(rule), "candidates", ids)
			}
		}
	}
}

// renderFormat writes one format, branching on the renderer's capability.
func renderFormat(ctx context.Context, g *graph.Graph, f render.Format, opts Options, logger *logging.Logger) Outcome {
	ctx, span := telemetry.StartSpan(ctx, "pipeline.Render",
		trace.WithAttributes(attribute.String("format", string(f))),
	)
	defer span.End()

	out := Outcome{Format: f}

	if f.Requires() == render.CapabilityImage {
		if opts.Backend == nil {
			out.Status = StatusSkipped
			out.Reason = "no image backend configured"
			logger.Warn("format skipped", "format", string(f), "reason", out.Reason)
			return out
		}
		if avail := opts.Backend.Check(); !avail.Available {
			out.Status = StatusSkipped
			out.Reason = avail.Reason
			logger.Warn("format skipped", "format", string(f), "backend", opts.Backend.Name(), "reason", avail.Reason)
			return out
		}
	}

	r, err := render.NewRenderer(f, opts.Backend)
	if err != nil {
		return failed(out, err, span, logger)
	}

	path, err := r.Render(ctx, g, opts.OutputPrefix)
	if err != nil {
		return failed(out, err, span, logger)
	}

	out.Status = StatusWritten
	out.Path = path
	logger.Info("format written", "format", string(f), "path", path)
	telemetry.SetSpanOK(span)
	return out
}

func failed(out Outcome, err error, span trace.Span, logger *logging.Logger) Outcome {
	out.Status = StatusFailed
	out.Err = err
	out.Reason = err.Error()
	telemetry.RecordError(span, err)
	logger.Error("format failed", "format", string(out.Format), "error", err)
	return out
}
