// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/AleutianAI/AgentGraph/cmd/agentgraph/internal/graph"
)

// DOTDocument returns the Graphviz source for g.
//
// Nodes are rounded boxes filled by category with a contrasting font
// colour. The same document feeds both the .dot output and image backends.
func DOTDocument(g *graph.Graph) string {
	var sb strings.Builder

	sb.WriteString("// AI Agent Dependency Graph\n")
	sb.WriteString("digraph AgentDelegation {\n")
	sb.WriteString("    rankdir=TB;\n")
	sb.WriteString("    splines=ortho;\n")
	sb.WriteString("    nodesep=0.5;\n")
	sb.WriteString("    ranksep=0.8;\n")
	sb.WriteString("    node [shape=box, style=\"rounded,filled\", fontname=\"Arial\", fontsize=10];\n")
	sb.WriteString("    edge [fontname=\"Arial\", fontsize=8];\n")
	sb.WriteString("\n")

	for _, n := range g.Nodes() {
		c := g.CategoryOf(n.ID)
		label := shortLabel(n.Name, "\n", dotTextBudget, dotPlainBudget)
		sb.WriteString(fmt.Sprintf("    %s [label=\"%s\", fillcolor=\"%s\", fontcolor=\"%s\"];\n",
			quoteDOTID(n.ID), escapeDOTLabel(label), StyleFor(c).Fill, dotFontColor(c)))
	}

	sb.WriteString("\n")

	for _, e := range g.Edges() {
		sb.WriteString(fmt.Sprintf("    %s -> %s;\n", quoteDOTID(e.Source), quoteDOTID(e.Target)))
	}

	sb.WriteString("}\n")
	return sb.String()
}

// DOTRenderer writes the Graphviz source as a .dot file. It needs no backend.
type DOTRenderer struct{}

// NewDOTRenderer returns a DOT renderer.
func NewDOTRenderer() *DOTRenderer {
	return &DOTRenderer{}
}

// Format implements Renderer.
func (r *DOTRenderer) Format() Format { return FormatDOT }

// Requires implements Renderer.
func (r *DOTRenderer) Requires() Capability { return CapabilityText }

// Render implements Renderer.
func (r *DOTRenderer) Render(ctx context.Context, g *graph.Graph, prefix string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := OutputPath(prefix, FormatDOT)
	if err := writeOutput(path, []byte(DOTDocument(g))); err != nil {
		return "", err
	}
	return path, nil
}
