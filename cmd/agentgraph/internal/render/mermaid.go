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

// MermaidRenderer writes a fenced Mermaid flowchart as Markdown.
type MermaidRenderer struct {
	// Direction is the flowchart direction (TD, LR, BT, RL). Default: "TD".
	Direction string
}

// NewMermaidRenderer returns a top-down Mermaid renderer.
func NewMermaidRenderer() *MermaidRenderer {
	return &MermaidRenderer{Direction: "TD"}
}

// Format implements Renderer.
func (r *MermaidRenderer) Format() Format { return FormatMermaid }

// Requires implements Renderer.
func (r *MermaidRenderer) Requires() Capability { return CapabilityText }

// Render implements Renderer.
func (r *MermaidRenderer) Render(ctx context.Context, g *graph.Graph, prefix string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := OutputPath(prefix, FormatMermaid)
	if err := writeOutput(path, []byte(r.Document(g))); err != nil {
		return "", err
	}
	return path, nil
}

// Document returns the Markdown document for g.
//
// # Description
//
// Emits one labeled box per node in registration order, one connector per
// edge, a fixed classDef block and one class line per non-empty category
// other than CategoryOther. An empty graph yields a valid flowchart with
// only the style block.
func (r *MermaidRenderer) Document(g *graph.Graph) string {
	direction := r.Direction
	if direction == "" {
		direction = "TD"
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString(fmt.Sprintf("flowchart %s\n", direction))
	sb.WriteString("\n")

	for _, n := range g.Nodes() {
		label := shortLabel(n.Name, " ", mermaidTextBudget, mermaidPlainBudget)
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", sanitizeMermaidID(n.ID), escapeMermaidLabel(label)))
	}
	sb.WriteString("\n")

	for _, e := range g.Edges() {
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", sanitizeMermaidID(e.Source), sanitizeMermaidID(e.Target)))
	}
	sb.WriteString("\n")

	for _, c := range graph.Categories {
		if c == graph.CategoryOther {
			continue
		}
		s := StyleFor(c)
		sb.WriteString(fmt.Sprintf("    classDef %s fill:%s,stroke:%s,color:%s\n", c, s.Fill, s.Stroke, s.Font))
	}
	sb.WriteString("\n")

	for _, c := range graph.Categories {
		if c == graph.CategoryOther {
			continue
		}
		ids := g.InCategory(c)
		if len(ids) == 0 {
			continue
		}
		for i, id := range ids {
			ids[i] = sanitizeMermaidID(id)
		}
		sb.WriteString(fmt.Sprintf("    class %s %s\n", strings.Join(ids, ","), c))
	}

	sb.WriteString("```\n")
	return sb.String()
}
