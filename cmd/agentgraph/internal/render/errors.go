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
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for rendering.
var (
	ErrUnknownFormat      = errors.New("unknown output format")
	ErrBackendUnavailable = errors.New("image backend not available")
	ErrBackendFailed      = errors.New("image backend failed")
)

// BackendError wraps a failed backend invocation with its stderr.
//
// # Example
//
//	err := &BackendError{Command: "dot -Tpng", ExitCode: 1, Stderr: "syntax error in line 3"}
//	fmt.Println(err.Error()) // "dot -Tpng (exit 1): syntax error in line 3"
//
//	var be *BackendError
//	if errors.As(err, &be) {
//	    fmt.Println(be.Stderr)
//	}
type BackendError struct {
	// Command is the command line that was executed.
	Command string

	// ExitCode is the process exit code (-1 if unknown).
	ExitCode int

	// Stderr is the trimmed standard error output.
	Stderr string

	// Wrapped is the underlying error.
	Wrapped error
}

// NewBackendError creates a BackendError; stderr is trimmed.
func NewBackendError(command string, exitCode int, stderr string, wrapped error) *BackendError {
	return &BackendError{
		Command:  command,
		ExitCode: exitCode,
		Stderr:   strings.TrimSpace(stderr),
		Wrapped:  wrapped,
	}
}

// Error returns a formatted error message.
func (e *BackendError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s (exit %d): %s", e.Command, e.ExitCode, e.Stderr)
	}
	if e.Wrapped != nil {
		return fmt.Sprintf("%s (exit %d): %v", e.Command, e.ExitCode, e.Wrapped)
	}
	return fmt.Sprintf("%s (exit %d)", e.Command, e.ExitCode)
}

// Unwrap exposes ErrBackendFailed and the underlying error.
func (e *BackendError) Unwrap() []error {
	if e.Wrapped == nil {
		return []error{ErrBackendFailed}
	}
	return []error{ErrBackendFailed, e.Wrapped}
}
