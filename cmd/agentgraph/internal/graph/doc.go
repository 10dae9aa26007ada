// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package graph builds the agent delegation graph.
//
// Nodes are keyed by agent slug. Edges are inferred from each agent's
// behavior script and kept only when both endpoints are registered agents.
//
// # Architecture
//
//	┌─────────────────────────────────────────────────────────────────────────┐
//	│                        Two-Pass Build                                    │
//	├─────────────────────────────────────────────────────────────────────────┤
//	│                                                                          │
//	│  ┌─────────────┐    ┌─────────────┐    ┌─────────────┐                  │
//	│  │ Descriptors │───▶│   Pass 1    │───▶│  Node arena │                  │
//	│  │             │    │  register   │    │  + category │                  │
//	│  └─────────────┘    └─────────────┘    └─────────────┘                  │
//	│                                               │                          │
//	│                                               ▼                          │
//	│  ┌─────────────┐    ┌─────────────┐    ┌─────────────┐                  │
//	│  │   Graph     │◀───│  Intersect  │◀───│   Pass 2    │                  │
//	│  │  (frozen)   │    │  known IDs  │    │  extract    │                  │
//	│  └─────────────┘    └─────────────┘    └─────────────┘                  │
//	│                                                                          │
//	└─────────────────────────────────────────────────────────────────────────┘
//
// Pass 2 only starts after every node is registered, so an agent may
// delegate to one defined later in the input.
//
// # Thread Safety
//
// A built Graph is never mutated and is safe for concurrent reads.
package graph
