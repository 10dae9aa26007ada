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
	"fmt"
	"strings"
	"unicode/utf8"
)

// StateScribeSlug is the agent that must carry the signal framework.
const StateScribeSlug = "orchestrator-state-scribe"

// MaxSingleLineInstructions is the length in characters above which an
// instruction block without a newline is flagged.
const MaxSingleLineInstructions = 1000

// protocolPhrases are the phrasings accepted as a communication protocol
// requirement. Any one is enough.
var protocolPhrases = []string{
	"To: [recipient agent's slug], From: [your agent's slug]",
	"mandatory routing header",
	"communication protocol",
}

// signalFrameworkParts must all appear in the state scribe's instructions.
var signalFrameworkParts = []string{
	"Signal Interpretation Framework",
	"signalCategories",
	"signalTypes",
	"interpretationLogic",
	"keywordsToSignalType",
}

// Lint returns non-fatal warnings for the descriptors of one file.
//
// Warnings never cause a file to be skipped; they are advisory output for the
// validate command.
func Lint(path string, descs []Descriptor) []string {
	var warnings []string
	for _, d := range descs {
		text := d.CustomInstructions.Text

		if d.CustomInstructions.Malformed {
			warnings = append(warnings,
				fmt.Sprintf("agent %q has non-text customInstructions; it will have no delegations", d.Slug))
		}

		if !containsAny(text, protocolPhrases) {
			warnings = append(warnings,
				fmt.Sprintf("agent %q may be missing communication protocol requirement", d.Slug))
		}

		if strings.Contains(path, StateScribeSlug) {
			var missing []string
			for _, part := range signalFrameworkParts {
				if !strings.Contains(text, part) {
					missing = append(missing, part)
				}
			}
			if len(missing) > 0 {
				warnings = append(warnings,
					"state scribe may be missing Signal Framework components: "+strings.Join(missing, ", "))
			}
		}

		if utf8.RuneCountInString(text) > MaxSingleLineInstructions && !strings.Contains(text, "\n") {
			warnings = append(warnings,
				fmt.Sprintf("agent %q has very long single-line customInstructions (>%d chars)", d.Slug, MaxSingleLineInstructions))
		}
	}
	return warnings
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
