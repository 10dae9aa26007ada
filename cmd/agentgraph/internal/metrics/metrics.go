// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package metrics exports run results as Prometheus metrics.
//
// # Description
//
// agentgraph is a batch tool, so there is no /metrics endpoint. Instead a
// run's Report is recorded into a private registry and written in the text
// exposition format, suitable for the node_exporter textfile collector:
//
//	agentgraph_graph_nodes 12
//	agentgraph_graph_edges 30
//	agentgraph_graph_category_nodes{category="worker"} 5
//	agentgraph_render_outcomes{format="png",status="skipped"} 1
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AleutianAI/AgentGraph/cmd/agentgraph/internal/graph"
	"github.com/AleutianAI/AgentGraph/cmd/agentgraph/internal/pipeline"
	"github.com/AleutianAI/AgentGraph/cmd/agentgraph/internal/render"
)

// Namespace for all metrics
const metricsNamespace = "agentgraph"

// RunMetrics holds the gauges describing one run.
type RunMetrics struct {
	registry *prometheus.Registry

	// Nodes is the number of agents in the graph.
	Nodes prometheus.Gauge

	// Edges is the number of delegation edges.
	Edges prometheus.Gauge

	// CategoryNodes counts agents per category.
	// Labels: category (orchestrator, worker, validator, quality, other)
	CategoryNodes *prometheus.GaugeVec

	// DescriptorFiles is the number of descriptor files found.
	DescriptorFiles prometheus.Gauge

	// LoadErrors is the number of files skipped.
	LoadErrors prometheus.Gauge

	// RenderOutcomes is 1 for the status each format ended in.
	// Labels: format, status (written, skipped, failed)
	RenderOutcomes *prometheus.GaugeVec

	// DurationSeconds is the run wall time.
	DurationSeconds prometheus.Gauge

	// LastRunTimestamp is the Unix time the metrics were recorded.
	LastRunTimestamp prometheus.Gauge
}

// New creates RunMetrics on a fresh registry.
func New() *RunMetrics {
	reg := prometheus.NewRegistry()

	m := &RunMetrics{
		registry: reg,
		Nodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "graph",
			Name:      "nodes",
			Help:      "Number of agents in the delegation graph",
		}),
		Edges: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "graph",
			Name:      "edges",
			Help:      "Number of delegation edges",
		}),
		CategoryNodes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "graph",
			Name:      "category_nodes",
			Help:      "Number of agents per category",
		}, []string{"category"}),
		DescriptorFiles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "load",
			Name:      "files",
			Help:      "Number of descriptor files found",
		}),
		LoadErrors: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "load",
			Name:      "errors",
			Help:      "Number of descriptor files skipped",
		}),
		RenderOutcomes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "render",
			Name:      "outcomes",
			Help:      "Render result per format and status",
		}, []string{"format", "status"}),
		DurationSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run in seconds",
		}),
		LastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last run",
		}),
	}

	reg.MustRegister(
		m.Nodes,
		m.Edges,
		m.CategoryNodes,
		m.DescriptorFiles,
		m.LoadErrors,
		m.RenderOutcomes,
		m.DurationSeconds,
		m.LastRunTimestamp,
	)
	return m
}

// Registry returns the registry the metrics are registered on.
func (m *RunMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Record sets every gauge from report. Every category and every
// format/status pair is set, zero included, so series never disappear
// between runs.
func (m *RunMetrics) Record(report *pipeline.Report) {
	m.DescriptorFiles.Set(float64(report.Files))
	m.LoadErrors.Set(float64(len(report.LoadErrors)))
	m.DurationSeconds.Set(report.Duration.Seconds())
	m.LastRunTimestamp.SetToCurrentTime()

	if report.Graph != nil {
		m.Nodes.Set(float64(report.Graph.NodeCount()))
		m.Edges.Set(float64(report.Graph.EdgeCount()))
		counts := report.Graph.CategoryCounts()
		for _, c := range graph.Categories {
			m.CategoryNodes.WithLabelValues(string(c)).Set(float64(counts[c]))
		}
	}

	statuses := []pipeline.Status{pipeline.StatusWritten, pipeline.StatusSkipped, pipeline.StatusFailed}
	for _, f := range render.AllFormats {
		for _, s := range statuses {
			m.RenderOutcomes.WithLabelValues(string(f), string(s)).Set(0)
		}
	}
	for _, o := range report.Outcomes {
		m.RenderOutcomes.WithLabelValues(string(o.Format), string(o.Status)).Set(1)
	}
}

// WriteTextfile records report and writes the registry to path atomically.
func WriteTextfile(path string, report *pipeline.Report) error {
	m := New()
	m.Record(report)
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
