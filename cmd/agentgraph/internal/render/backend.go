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
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultBackendCommand is the Graphviz layout binary.
const DefaultBackendCommand = "dot"

// DefaultBackendTimeout bounds a single image render.
const DefaultBackendTimeout = 30 * time.Second

// Availability is the result of a backend capability check.
type Availability struct {
	// Available is true when the backend can be invoked.
	Available bool

	// Path is the resolved executable, when available.
	Path string

	// Reason explains why the backend is unavailable.
	Reason string
}

// Backend converts a DOT document into an image.
type Backend interface {
	// Name identifies the backend in logs and notices.
	Name() string

	// Check reports whether the backend can be used. It never fails; an
	// unusable backend is reported through Availability.
	Check() Availability

	// Render converts dot to the given image format ("png" or "svg").
	Render(ctx context.Context, dot []byte, format Format) ([]byte, error)
}

// GraphvizBackend runs the Graphviz dot binary.
//
// # Thread Safety
//
// Safe for concurrent use; each Render starts its own process.
type GraphvizBackend struct {
	// Command is the executable name or path. Default: "dot".
	Command string

	// Timeout bounds one render. Zero means DefaultBackendTimeout.
	Timeout time.Duration

	// lookPath resolves Command; replaced in tests.
	lookPath func(string) (string, error)
}

// NewGraphvizBackend creates a backend for command. An empty command uses
// DefaultBackendCommand.
func NewGraphvizBackend(command string, timeout time.Duration) *GraphvizBackend {
	if command == "" {
		command = DefaultBackendCommand
	}
	if timeout <= 0 {
		timeout = DefaultBackendTimeout
	}
	return &GraphvizBackend{Command: command, Timeout: timeout, lookPath: exec.LookPath}
}

// Name implements Backend.
func (b *GraphvizBackend) Name() string { return "graphviz" }

// Check implements Backend.
func (b *GraphvizBackend) Check() Availability {
	lookPath := b.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	path, err := lookPath(b.Command)
	if err != nil {
		return Availability{
			Reason: fmt.Sprintf("%s not found on PATH; install Graphviz to render images", b.Command),
		}
	}
	return Availability{Available: true, Path: path}
}

// Render implements Backend.
//
// # Description
//
// Pipes dot into "<command> -T<format>" and returns stdout. A missing binary
// yields ErrBackendUnavailable; a non-zero exit yields a *BackendError
// carrying stderr.
func (b *GraphvizBackend) Render(ctx context.Context, dot []byte, format Format) ([]byte, error) {
	if format != FormatPNG && format != FormatSVG {
		return nil, fmt.Errorf("%w: %q is not an image format", ErrUnknownFormat, format)
	}

	avail := b.Check()
	if !avail.Available {
		return nil, fmt.Errorf("%w: %s", ErrBackendUnavailable, avail.Reason)
	}

	timeout := b.Timeout
	if timeout <= 0 {
		timeout = DefaultBackendTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{"-T" + string(format)}
	cmd := exec.CommandContext(ctx, avail.Path, args...)
	cmd.Stdin = bytes.NewReader(dot)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		cmdline := strings.Join(append([]string{b.Command}, args...), " ")
		return nil, NewBackendError(cmdline, exitCode, stderr.String(), err)
	}
	return stdout.Bytes(), nil
}
