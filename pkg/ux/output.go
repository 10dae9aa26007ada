// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux provides terminal output styling for the agentgraph CLI.
package ux

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// agentgraph palette, matching the category fills of the rendered graph
var (
	ColorBlue   = lipgloss.Color("#4A90E2") // Orchestrators, titles
	ColorGreen  = lipgloss.Color("#7ED321") // Workers, success
	ColorAmber  = lipgloss.Color("#F5A623") // Validators, warnings
	ColorPurple = lipgloss.Color("#BD10E0") // Quality reviewers
	ColorGray   = lipgloss.Color("#9B9B9B") // Other, muted text

	ColorSuccess = ColorGreen
	ColorWarning = ColorAmber
	ColorError   = lipgloss.Color("#E74C3C")
	ColorMuted   = ColorGray
)

// Styles provides pre-configured lipgloss styles
var Styles = struct {
	Title   lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	Box        lipgloss.Style
	WarningBox lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(ColorBlue),
	Bold:    lipgloss.NewStyle().Bold(true),
	Muted:   lipgloss.NewStyle().Foreground(ColorMuted),
	Success: lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning: lipgloss.NewStyle().Foreground(ColorWarning),
	Error:   lipgloss.NewStyle().Foreground(ColorError),

	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBlue).
		Padding(0, 1),
	WarningBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorWarning).
		Padding(0, 1),
}

// Icon provides themed status icons
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconSkipped Icon = "○"
	IconArrow   Icon = "→"
	IconBullet  Icon = "•"
)

// Render returns the icon with appropriate styling
func (i Icon) Render() string {
	switch i {
	case IconSuccess:
		return Styles.Success.Render(string(i))
	case IconWarning:
		return Styles.Warning.Render(string(i))
	case IconError:
		return Styles.Error.Render(string(i))
	case IconSkipped:
		return Styles.Muted.Render(string(i))
	default:
		return string(i)
	}
}

// Label is the machine-mode word for the icon.
func (i Icon) Label() string {
	switch i {
	case IconSuccess:
		return "OK"
	case IconWarning:
		return "WARN"
	case IconError:
		return "FAIL"
	case IconSkipped:
		return "SKIP"
	default:
		return string(i)
	}
}

// Printer writes user-facing output at a personality level.
//
// Results go to Out; warnings and errors in machine mode go to Err so that
// scripted consumers can parse Out cleanly.
type Printer struct {
	Out   io.Writer
	Err   io.Writer
	Level PersonalityLevel
}

// NewPrinter returns a Printer for out and errOut at level.
func NewPrinter(out, errOut io.Writer, level PersonalityLevel) *Printer {
	return &Printer{Out: out, Err: errOut, Level: level}
}

// Title prints a styled title
func (p *Printer) Title(text string) {
	if p.Level == PersonalityMachine {
		return
	}
	fmt.Fprintln(p.Out, Styles.Title.Render(text))
}

// Success prints a success message with checkmark
func (p *Printer) Success(text string) {
	switch p.Level {
	case PersonalityMachine:
		fmt.Fprintf(p.Out, "OK: %s\n", text)
	case PersonalityMinimal:
		fmt.Fprintf(p.Out, "%s %s\n", IconSuccess.Render(), text)
	default:
		fmt.Fprintf(p.Out, "%s %s\n", IconSuccess.Render(), Styles.Success.Render(text))
	}
}

// Warning prints a warning message
func (p *Printer) Warning(text string) {
	switch p.Level {
	case PersonalityMachine:
		fmt.Fprintf(p.Err, "WARN: %s\n", text)
	case PersonalityMinimal:
		fmt.Fprintf(p.Out, "%s %s\n", IconWarning.Render(), text)
	default:
		fmt.Fprintf(p.Out, "%s %s\n", IconWarning.Render(), Styles.Warning.Render(text))
	}
}

// Error prints an error message
func (p *Printer) Error(text string) {
	switch p.Level {
	case PersonalityMachine:
		fmt.Fprintf(p.Err, "ERROR: %s\n", text)
	case PersonalityMinimal:
		fmt.Fprintf(p.Out, "%s %s\n", IconError.Render(), text)
	default:
		fmt.Fprintf(p.Out, "%s %s\n", IconError.Render(), Styles.Error.Render(text))
	}
}

// Info prints an informational message
func (p *Printer) Info(text string) {
	switch p.Level {
	case PersonalityMachine:
		fmt.Fprintln(p.Out, text)
	default:
		fmt.Fprintf(p.Out, "%s %s\n", Styles.Muted.Render("│"), text)
	}
}

// Muted prints secondary text; nothing in machine mode.
func (p *Printer) Muted(text string) {
	if p.Level == PersonalityMachine {
		return
	}
	fmt.Fprintln(p.Out, Styles.Muted.Render(text))
}

// Box prints text in a rounded box
func (p *Printer) Box(title, content string) {
	if p.Level == PersonalityMachine {
		fmt.Fprintf(p.Out, "%s: %s\n", title, strings.ReplaceAll(content, "\n", "; "))
		return
	}
	if p.Level == PersonalityMinimal {
		fmt.Fprintf(p.Out, "%s\n%s\n", title, content)
		return
	}
	fmt.Fprintln(p.Out, Styles.Box.Width(60).Render(Styles.Title.Render(title)+"\n"+content))
}

// WarningBox prints text in a warning-styled box
func (p *Printer) WarningBox(title, content string) {
	if p.Level == PersonalityMachine {
		fmt.Fprintf(p.Err, "WARN %s: %s\n", title, strings.ReplaceAll(content, "\n", "; "))
		return
	}
	if p.Level == PersonalityMinimal {
		fmt.Fprintf(p.Out, "%s %s\n%s\n", IconWarning.Render(), title, content)
		return
	}
	fmt.Fprintln(p.Out, Styles.WarningBox.Width(60).Render(Styles.Warning.Bold(true).Render(title)+"\n"+content))
}

// FileStatus prints a path with its status and an optional reason
func (p *Printer) FileStatus(path string, status Icon, reason string) {
	switch p.Level {
	case PersonalityMachine:
		fmt.Fprintf(p.Out, "%s\t%s\t%s\n", status.Label(), path, reason)
	case PersonalityMinimal:
		fmt.Fprintf(p.Out, "%s %s\n", status.Render(), path)
	default:
		if reason != "" {
			fmt.Fprintf(p.Out, "%s %s %s\n", status.Render(), path, Styles.Muted.Render("("+reason+")"))
		} else {
			fmt.Fprintf(p.Out, "%s %s\n", status.Render(), path)
		}
	}
}

// Count is one labelled number in a summary.
type Count struct {
	Label string
	Value int
}

// Summary prints a titled block of counts.
//
// Machine mode prints a single "SUMMARY: a=1 b=2" line with labels
// lower-cased and spaces replaced by underscores.
func (p *Printer) Summary(title string, counts []Count) {
	if p.Level == PersonalityMachine {
		parts := make([]string, 0, len(counts))
		for _, c := range counts {
			parts = append(parts, fmt.Sprintf("%s=%d", machineKey(c.Label), c.Value))
		}
		fmt.Fprintf(p.Out, "SUMMARY: %s\n", strings.Join(parts, " "))
		return
	}

	width := 0
	for _, c := range counts {
		if len(c.Label) > width {
			width = len(c.Label)
		}
	}
	lines := make([]string, 0, len(counts))
	for _, c := range counts {
		lines = append(lines, fmt.Sprintf("%-*s  %s", width, c.Label, Styles.Bold.Render(fmt.Sprintf("%d", c.Value))))
	}
	p.Box(title, strings.Join(lines, "\n"))
}

func machineKey(label string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(label)), " ", "_")
}
