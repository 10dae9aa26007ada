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

	"github.com/AleutianAI/AgentGraph/cmd/agentgraph/internal/graph"
)

// ImageRenderer renders the DOT document through a Backend.
type ImageRenderer struct {
	format  Format
	backend Backend
}

// NewImageRenderer returns an image renderer for FormatPNG or FormatSVG.
func NewImageRenderer(f Format, backend Backend) *ImageRenderer {
	return &ImageRenderer{format: f, backend: backend}
}

// Format implements Renderer.
func (r *ImageRenderer) Format() Format { return r.format }

// Requires implements Renderer.
func (r *ImageRenderer) Requires() Capability { return CapabilityImage }

// Render implements Renderer.
//
// Callers are expected to have checked Backend.Check; Render still returns
// ErrBackendUnavailable rather than invoking a missing backend.
func (r *ImageRenderer) Render(ctx context.Context, g *graph.Graph, prefix string) (string, error) {
	if avail := r.backend.Check(); !avail.Available {
		return "", fmt.Errorf("%w: %s", ErrBackendUnavailable, avail.Reason)
	}

	data, err := r.backend.Render(ctx, []byte(DOTDocument(g)), r.format)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", r.format, err)
	}

	path := OutputPath(prefix, r.format)
	if err := writeOutput(path, data); err != nil {
		return "", err
	}
	return path, nil
}
