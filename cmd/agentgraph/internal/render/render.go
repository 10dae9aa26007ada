// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package render writes the delegation graph as Mermaid, DOT, PNG or SVG.
//
// Text formats (Mermaid, DOT) are produced locally and always succeed given a
// writable output path. Image formats pipe the DOT document through an
// external Graphviz backend. Whether that backend exists is a runtime
// capability, queried with Backend.Check before any image renderer runs.
package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AleutianAI/AgentGraph/cmd/agentgraph/internal/graph"
)

// Format is an output format selector.
type Format string

const (
	FormatMermaid Format = "mermaid"
	FormatDOT     Format = "dot"
	FormatPNG     Format = "png"
	FormatSVG     Format = "svg"
	FormatAll     Format = "all"
)

// AllFormats is what FormatAll expands to, in generation order.
var AllFormats = []Format{FormatMermaid, FormatDOT, FormatPNG, FormatSVG}

// formatAliases maps descriptive selector names to formats.
var formatAliases = map[string]Format{
	"mermaid":           FormatMermaid,
	"textual-diagram":   FormatMermaid,
	"dot":               FormatDOT,
	"graph-description": FormatDOT,
	"png":               FormatPNG,
	"raster-image":      FormatPNG,
	"svg":               FormatSVG,
	"vector-image":      FormatSVG,
	"all":               FormatAll,
}

// ParseFormat resolves a selector (short name or alias) to a Format.
func ParseFormat(s string) (Format, error) {
	f, ok := formatAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q (want mermaid, dot, png, svg or all)", ErrUnknownFormat, s)
	}
	return f, nil
}

// Expand returns the concrete formats a selector stands for.
func Expand(f Format) []Format {
	if f == FormatAll {
		out := make([]Format, len(AllFormats))
		copy(out, AllFormats)
		return out
	}
	return []Format{f}
}

// Extension returns the file extension written for f.
func (f Format) Extension() string {
	switch f {
	case FormatMermaid:
		return ".md"
	case FormatDOT:
		return ".dot"
	case FormatPNG:
		return ".png"
	case FormatSVG:
		return ".svg"
	default:
		return ""
	}
}

// OutputPath returns prefix with the extension for f. Any extension already
// on prefix is replaced.
func OutputPath(prefix string, f Format) string {
	prefix = strings.TrimSuffix(prefix, filepath.Ext(prefix))
	return prefix + f.Extension()
}

// Capability is what a renderer needs from the environment.
type Capability string

const (
	// CapabilityText needs nothing beyond a writable output path.
	CapabilityText Capability = "textual-diagram"

	// CapabilityImage needs an available image backend.
	CapabilityImage Capability = "rasterized-image"
)

// Requires returns the capability needed to produce f.
func (f Format) Requires() Capability {
	if f == FormatPNG || f == FormatSVG {
		return CapabilityImage
	}
	return CapabilityText
}

// Renderer writes one output format.
type Renderer interface {
	// Format is the format this renderer produces.
	Format() Format

	// Requires is the capability that must be available before Render.
	Requires() Capability

	// Render writes g under prefix and returns the file written.
	Render(ctx context.Context, g *graph.Graph, prefix string) (string, error)
}

// NewRenderer returns the renderer for a concrete format.
//
// backend is used only by image formats and may be nil for text formats.
func NewRenderer(f Format, backend Backend) (Renderer, error) {
	switch f {
	case FormatMermaid:
		return NewMermaidRenderer(), nil
	case FormatDOT:
		return NewDOTRenderer(), nil
	case FormatPNG, FormatSVG:
		if backend == nil {
			return nil, fmt.Errorf("%w: %s needs an image backend", ErrBackendUnavailable, f)
		}
		return NewImageRenderer(f, backend), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
