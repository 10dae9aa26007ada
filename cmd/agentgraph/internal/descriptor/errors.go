// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package descriptor

import (
	"errors"
	"fmt"
)

// Sentinel errors for descriptor loading.
var (
	ErrDirNotFound = errors.New("agents directory not found")
	ErrRead        = errors.New("file unreadable")
	ErrParse       = errors.New("invalid YAML")
	ErrSchema      = errors.New("schema validation failed")
)

// LoadError records why a single file was skipped.
type LoadError struct {
	Path string
	Kind error
	Err  error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if errors.Is(e.Err, e.Kind) {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v: %v", e.Path, e.Kind, e.Err)
}

// Unwrap exposes both the sentinel kind and the underlying cause.
func (e *LoadError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
