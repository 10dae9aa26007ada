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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		id   string
		want Category
	}{
		{"uber-orchestrator", CategoryOrchestrator},
		{"orchestrator-state-scribe", CategoryOrchestrator},
		{"code-reviewer-validator", CategoryValidator},
		{"security-auditor", CategoryValidator},
		{"spec-guardian", CategoryValidator},
		{"coder-output-validator", CategoryValidator},
		{"orchestrator-validator", CategoryOrchestrator},
		{"tdd-tester", CategoryWorker},
		{"docs-writer", CategoryWorker},
		{"system-architect", CategoryWorker},
		{"coder", CategoryWorker},
		{"bmo-checker", CategoryQuality},
		{"golden-ruler", CategoryQuality},
		{"devils-advocate", CategoryQuality},
		{"devil-writer", CategoryWorker},
		{"librarian", CategoryOther},
		{"", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.id))
		})
	}
}

func TestClassify_ExactlyOneCategory(t *testing.T) {
	ids := []string{"a", "orchestrator", "validator-coder", "bmo", "ruler-tester", "x-y-z"}
	for _, id := range ids {
		got := Classify(id)
		assert.Contains(t, Categories, got, id)
		assert.Equal(t, got, Classify(id), "classification must be stable for %s", id)
	}
}
