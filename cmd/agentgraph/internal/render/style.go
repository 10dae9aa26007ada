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
	"regexp"
	"strings"

	"github.com/AleutianAI/AgentGraph/cmd/agentgraph/internal/graph"
)

// Style is the presentation of one category.
type Style struct {
	Fill   string
	Stroke string
	Font   string
}

// categoryStyles is the fixed palette. CategoryOther has no Mermaid class
// and renders with the default theme there; DOT uses its gray fill.
var categoryStyles = map[graph.Category]Style{
	graph.CategoryOrchestrator: {Fill: "#4A90E2", Stroke: "#2E5C8A", Font: "#fff"},
	graph.CategoryWorker:       {Fill: "#7ED321", Stroke: "#5A9B18", Font: "#000"},
	graph.CategoryValidator:    {Fill: "#F5A623", Stroke: "#B87A1A", Font: "#000"},
	graph.CategoryQuality:      {Fill: "#BD10E0", Stroke: "#8A0BA8", Font: "#fff"},
	graph.CategoryOther:        {Fill: "#9B9B9B", Stroke: "#6B6B6B", Font: "#000"},
}

// StyleFor returns the style of a category. Unknown categories get the
// CategoryOther style.
func StyleFor(c graph.Category) Style {
	if s, ok := categoryStyles[c]; ok {
		return s
	}
	return categoryStyles[graph.CategoryOther]
}

// dotFontColor names the text colour for a fill in DOT output.
func dotFontColor(c graph.Category) string {
	if StyleFor(c).Font == "#fff" {
		return "white"
	}
	return "black"
}

// leadingSymbolRe splits a display name into a leading symbol run (emoji,
// punctuation) and the rest of its first line.
var leadingSymbolRe = regexp.MustCompile(`^([^\p{L}\p{N}_\s]+)\s*(.*)`)

// Label budgets, in runes.
const (
	mermaidTextBudget  = 30
	mermaidPlainBudget = 35
	dotTextBudget      = 25
	dotPlainBudget     = 30
)

// shortLabel shortens a display name to a single line. A leading symbol
// run is kept whole and joined to the truncated remainder with sep; names
// without one are truncated to plainBudget.
func shortLabel(name, sep string, textBudget, plainBudget int) string {
	if m := leadingSymbolRe.FindStringSubmatch(name); m != nil {
		rest, _, _ := strings.Cut(m[2], "\r")
		return m[1] + sep + truncateRunes(rest, textBudget)
	}
	if i := strings.IndexAny(name, "\r\n"); i >= 0 {
		name = name[:i]
	}
	return truncateRunes(name, plainBudget)
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// sanitizeMermaidID turns a slug into a Mermaid node ID.
func sanitizeMermaidID(s string) string {
	replacer := strings.NewReplacer(
		"-", "_",
		".", "_",
		" ", "_",
		":", "_",
		"/", "_",
	)
	result := replacer.Replace(s)
	// Slugs never start with '-', so a leading '_' cannot collide.
	if len(result) > 0 && result[0] >= '0' && result[0] <= '9' {
		result = "_" + result
	}
	// "end" closes a subgraph in Mermaid and cannot be a node ID.
	if strings.EqualFold(result, "end") {
		result += "_"
	}
	return result
}

func escapeMermaidLabel(s string) string {
	replacer := strings.NewReplacer(
		"\"", "#quot;",
		"<", "&lt;",
		">", "&gt;",
	)
	return replacer.Replace(s)
}

func quoteDOTID(s string) string {
	return "\"" + strings.ReplaceAll(s, "\"", "\\\"") + "\""
}

func escapeDOTLabel(s string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		"\"", "\\\"",
		"\n", "\\n",
	)
	return replacer.Replace(s)
}
