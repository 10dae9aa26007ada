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

// EdgeKindDelegates is the kind of every inferred edge.
const EdgeKindDelegates = "delegates"

// AgentNode is one registered agent.
type AgentNode struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Role   string   `json:"role"`
	Groups []string `json:"groups"`
}

// DelegationEdge is a directed "Source hands work to Target" relationship.
type DelegationEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Kind   string `json:"kind"`
}

// Graph is the delegation graph produced by Build.
//
// Nodes live in an arena indexed by registration order; byID maps a slug to
// its arena slot. Edges reference nodes by slug.
type Graph struct {
	nodes      []AgentNode
	byID       map[string]int
	edges      []DelegationEdge
	categories map[Category][]string
}

// newGraph returns an empty graph ready for registration.
func newGraph() *Graph {
	return &Graph{
		nodes:      make([]AgentNode, 0),
		byID:       make(map[string]int),
		edges:      make([]DelegationEdge, 0),
		categories: make(map[Category][]string),
	}
}

// register inserts or replaces a node. A replaced node keeps its original
// position.
func (g *Graph) register(n AgentNode) {
	if idx, ok := g.byID[n.ID]; ok {
		g.nodes[idx] = n
		return
	}
	g.byID[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, n)
}

// indexCategories derives the category partition from the final node set.
func (g *Graph) indexCategories() {
	g.categories = make(map[Category][]string, len(Categories))
	for _, n := range g.nodes {
		c := Classify(n.ID)
		g.categories[c] = append(g.categories[c], n.ID)
	}
}

// Nodes returns the nodes in registration order.
func (g *Graph) Nodes() []AgentNode {
	out := make([]AgentNode, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Node returns the node for id.
func (g *Graph) Node(id string) (AgentNode, bool) {
	idx, ok := g.byID[id]
	if !ok {
		return AgentNode{}, false
	}
	return g.nodes[idx], true
}

// HasNode reports whether id is a registered agent.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.byID[id]
	return ok
}

// Edges returns the edges in build order.
func (g *Graph) Edges() []DelegationEdge {
	out := make([]DelegationEdge, len(g.edges))
	copy(out, g.edges)
	return out
}

// EdgesFrom returns the targets source delegates to, in edge order.
func (g *Graph) EdgesFrom(source string) []string {
	var out []string
	for _, e := range g.edges {
		if e.Source == source {
			out = append(out, e.Target)
		}
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// CategoryOf returns the category of a registered node.
func (g *Graph) CategoryOf(id string) Category {
	return Classify(id)
}

// InCategory returns the node IDs of category c in registration order.
func (g *Graph) InCategory(c Category) []string {
	ids := g.categories[c]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// CategoryCounts returns the size of every category, including empty ones.
func (g *Graph) CategoryCounts() map[Category]int {
	out := make(map[Category]int, len(Categories))
	for _, c := range Categories {
		out[c] = len(g.categories[c])
	}
	return out
}
