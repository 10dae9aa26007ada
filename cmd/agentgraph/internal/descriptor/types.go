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
	"gopkg.in/yaml.v3"
)

// RoleSummaryLength is the number of runes kept from roleDefinition.
const RoleSummaryLength = 100

// File is the on-disk layout of one agent definition file.
//
// Each file holds a customModes list; in practice most files carry exactly
// one mode.
type File struct {
	CustomModes []Descriptor `yaml:"customModes" validate:"required,dive"`
}

// Descriptor describes one agent: its identity and its behavior script.
type Descriptor struct {
	// Slug is the agent identifier and the only join key in the graph.
	Slug string `yaml:"slug" validate:"required,slug"`

	// Name is the display name, often prefixed with an emoji.
	Name string `yaml:"name" validate:"required"`

	// RoleDefinition is the full role text.
	RoleDefinition string `yaml:"roleDefinition" validate:"required"`

	// Groups are the capability groups, in declaration order.
	Groups Groups `yaml:"groups" validate:"required,min=1"`

	// CustomInstructions is the behavior script delegation is inferred from.
	CustomInstructions Script `yaml:"customInstructions"`

	// Source is the file the descriptor was loaded from. Not serialized.
	Source string `yaml:"-"`
}

// RoleSummary returns the first RoleSummaryLength runes of the role followed
// by an ellipsis.
func (d Descriptor) RoleSummary() string {
	r := []rune(d.RoleDefinition)
	if len(r) > RoleSummaryLength {
		r = r[:RoleSummaryLength]
	}
	return string(r) + "..."
}

// Groups is an ordered list of capability group names.
//
// Entries are either plain strings ("read") or tuples whose first element is
// the group name and whose second element restricts it:
//
//	groups:
//	  - read
//	  - - edit
//	    - fileRegex: \.md$
//	      description: Markdown files only
type Groups []string

// UnmarshalYAML accepts both plain and tuple entries.
func (g *Groups) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return &yaml.TypeError{Errors: []string{"groups must be a sequence"}}
	}
	out := make(Groups, 0, len(node.Content))
	for _, item := range node.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			out = append(out, item.Value)
		case yaml.SequenceNode:
			if len(item.Content) > 0 && item.Content[0].Kind == yaml.ScalarNode {
				out = append(out, item.Content[0].Value)
			}
		}
	}
	*g = out
	return nil
}

// Script is a behavior script.
//
// A script that is not a scalar string (a map or list written by mistake) is
// not a load error: it decodes to the empty script and Malformed is set, so
// the agent simply has no delegations.
type Script struct {
	Text      string
	Malformed bool
}

// UnmarshalYAML decodes a scalar script and tolerates anything else.
func (s *Script) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag != "!!null" {
		s.Text = node.Value
		return nil
	}
	s.Text = ""
	s.Malformed = node.Tag != "!!null"
	return nil
}

// String returns the script text.
func (s Script) String() string {
	return s.Text
}
