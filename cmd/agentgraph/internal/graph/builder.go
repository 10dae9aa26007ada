// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package graph

import (
	"github.com/AleutianAI/AgentGraph/cmd/agentgraph/internal/delegation"
	"github.com/AleutianAI/AgentGraph/cmd/agentgraph/internal/descriptor"
)

// ExtractFunc infers candidate targets from a behavior script.
type ExtractFunc func(text string) delegation.Set

// Builder assembles a Graph from descriptors.
//
// # Description
//
// Runs the two-pass build: every descriptor is registered as a node before
// any delegation is extracted, so references resolve regardless of input
// order. Candidates that do not name a registered node are dropped.
//
// # Thread Safety
//
// A Builder holds no state between calls and is safe for concurrent use.
type Builder struct {
	extract ExtractFunc
}

// NewBuilder creates a builder using the standard extractor.
func NewBuilder() *Builder {
	return &Builder{extract: delegation.Extract}
}

// NewBuilderWithExtractor creates a builder with a custom extractor.
func NewBuilderWithExtractor(fn ExtractFunc) *Builder {
	if fn == nil {
		fn = delegation.Extract
	}
	return &Builder{extract: fn}
}

// Build returns the delegation graph for descs.
//
// # Inputs
//
//   - descs: Validated descriptors. May be empty. Duplicate slugs are
//     resolved last-write-wins.
//
// # Outputs
//
//   - *Graph: Never nil. Every edge references registered nodes; each
//     source's targets are sorted and unique.
func (b *Builder) Build(descs []descriptor.Descriptor) *Graph {
	g := newGraph()

	// Pass 1: register. Scripts are keyed by slug so a duplicate slug uses
	// the script of its last definition.
	scripts := make(map[string]string, len(descs))
	for _, d := range descs {
		g.register(AgentNode{
			ID:     d.Slug,
			Name:   d.Name,
			Role:   d.RoleSummary(),
			Groups: append([]string(nil), d.Groups...),
		})
		scripts[d.Slug] = d.CustomInstructions.Text
	}
	g.indexCategories()

	// Pass 2: link.
	for _, n := range g.nodes {
		targets := b.extract(scripts[n.ID]).Intersect(g.HasNode)
		for _, target := range targets {
			g.edges = append(g.edges, DelegationEdge{
				Source: n.ID,
				Target: target,
				Kind:   EdgeKindDelegates,
			})
		}
	}
	return g
}

// Build is a convenience wrapper around NewBuilder().Build.
func Build(descs []descriptor.Descriptor) *Graph {
	return NewBuilder().Build(descs)
}
