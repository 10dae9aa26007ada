// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package delegation infers delegation targets from an agent's free-text
// behavior script.
//
// Extraction is pattern matching only. Three independent rules run over the
// text and their results are unioned into a Set:
//
//   - RuleExplicit:  "delegate to planner", "delegates to code-writer"
//   - RuleTask:      "new_task to tester", "task debugger"
//   - RuleHeuristic: any hyphenated lowercase token containing a role keyword
//
// The heuristic rule trades precision for recall. It fires on any token such
// as "spec-writer" or "red-team-auditor" whether or not the text actually
// hands work to that agent. Callers are expected to intersect the result with
// the set of identifiers that really exist.
//
// Word boundaries follow RE2, where only ASCII letters, digits and '_' are
// word characters. A token glued to a non-ASCII letter still matches from
// the first ASCII letter: "über-coder" yields "ber-coder". The intersection
// with known identifiers discards such fragments unless a slug happens to
// equal one.
package delegation

import (
	"regexp"
	"sort"
	"strings"
)

// Rule names one extraction rule.
type Rule string

const (
	RuleExplicit  Rule = "explicit"
	RuleTask      Rule = "task"
	RuleHeuristic Rule = "heuristic"
)

// Rules lists every rule in evaluation order.
var Rules = []Rule{RuleExplicit, RuleTask, RuleHeuristic}

// identPattern matches a lowercase token or hyphen-joined token sequence.
const identPattern = `[a-z0-9]+(?:-[a-z0-9]+)*`

var (
	explicitRe  = regexp.MustCompile(`(?i)delegates?\s+to\s+(` + identPattern + `)`)
	taskRe      = regexp.MustCompile(`(?i)(?:new_task|task)\s+(?:to\s+)?(` + identPattern + `)`)
	heuristicRe = regexp.MustCompile(`\b([a-z]+-[a-z]+(?:-[a-z]+)*)\b`)
)

// Keywords is the fragment vocabulary used by RuleHeuristic.
var Keywords = []string{
	"orchestrator", "writer", "coder", "tester", "architect",
	"validator", "auditor", "guardian", "planner", "researcher",
	"debugger", "optimizer", "advocate", "ruler", "bmo",
}

// Set is an unordered collection of candidate identifiers.
type Set map[string]struct{}

// Add inserts id into the set.
func (s Set) Add(id string) {
	s[id] = struct{}{}
}

// Has reports whether id is in the set.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the members in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Intersect returns the members of s for which known returns true, sorted.
func (s Set) Intersect(known func(string) bool) []string {
	out := make([]string, 0, len(s))
	for _, id := range s.Sorted() {
		if known(id) {
			out = append(out, id)
		}
	}
	return out
}

// Extract returns every identifier the text appears to delegate to.
//
// # Description
//
// Applies all three rules and unions their matches. Duplicates within or
// across rules collapse. Case is preserved as written in the text; since
// agent identifiers are lowercase, a capitalised mention such as
// "Delegate to Coder" yields "Coder" and is filtered later as unknown.
//
// # Inputs
//
//   - text: The behavior script. May be empty.
//
// # Outputs
//
//   - Set: Candidate identifiers. Never nil.
func Extract(text string) Set {
	out := make(Set)
	for _, ids := range ExtractDetailed(text) {
		for _, id := range ids {
			out.Add(id)
		}
	}
	return out
}

// ExtractDetailed returns the matches of each rule separately.
//
// Each rule's slice is deduplicated and sorted. Rules with no matches are
// omitted from the map.
func ExtractDetailed(text string) map[Rule][]string {
	result := make(map[Rule][]string, len(Rules))
	if strings.TrimSpace(text) == "" {
		return result
	}

	for _, rule := range Rules {
		matches := make(Set)
		switch rule {
		case RuleExplicit:
			collect(explicitRe, text, matches)
		case RuleTask:
			collect(taskRe, text, matches)
		case RuleHeuristic:
			for _, m := range heuristicRe.FindAllStringSubmatch(text, -1) {
				if containsKeyword(m[1]) {
					matches.Add(m[1])
				}
			}
		}
		if len(matches) > 0 {
			result[rule] = matches.Sorted()
		}
	}
	return result
}

func collect(re *regexp.Regexp, text string, into Set) {
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		into.Add(m[1])
	}
}

func containsKeyword(token string) bool {
	for _, kw := range Keywords {
		if strings.Contains(token, kw) {
			return true
		}
	}
	return false
}
