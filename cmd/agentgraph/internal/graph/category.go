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

import "strings"

// Category is a presentation bucket derived from an agent's slug.
type Category string

const (
	CategoryOrchestrator Category = "orchestrator"
	CategoryWorker       Category = "worker"
	CategoryValidator    Category = "validator"
	CategoryQuality      Category = "quality"
	CategoryOther        Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryOrchestrator,
	CategoryWorker,
	CategoryValidator,
	CategoryQuality,
	CategoryOther,
}

// classifyRule maps slug fragments to a category.
type classifyRule struct {
	category  Category
	fragments []string
}

// classifyRules are evaluated in order; the first match wins. Validator
// fragments are checked before worker fragments so "coder-output-validator"
// is a validator even though it also contains "coder".
var classifyRules = []classifyRule{
	{CategoryOrchestrator, []string{"orchestrator"}},
	{CategoryValidator, []string{"validator", "auditor", "guardian"}},
	{CategoryWorker, []string{"coder", "tester", "writer", "architect"}},
	{CategoryQuality, []string{"bmo", "ruler", "devil"}},
}

// Classify returns the single category for an agent slug.
//
// Total and pure: every input, including the empty string, maps to exactly
// one category, CategoryOther when no rule matches.
func Classify(id string) Category {
	for _, rule := range classifyRules {
		for _, frag := range rule.fragments {
			if strings.Contains(id, frag) {
				return rule.category
			}
		}
	}
	return CategoryOther
}
