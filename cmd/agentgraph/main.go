// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command agentgraph maps which AI agents delegate to which.
//
// It reads agent descriptor files (YAML with a customModes list), finds
// delegation mentions in each agent's instructions and writes the resulting
// graph as Mermaid, DOT, PNG or SVG.
//
// Usage:
//
//	agentgraph generate --agents-dir agents -f all -o docs/agent-dependency-graph
//	agentgraph validate
//	agentgraph validate --agent agents/uber-orchestrator.yaml -v
package main

import (
	"context"
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(execute(context.Background(), os.Args[1:]))
}

// execute runs the CLI with args and returns the process exit code.
func execute(ctx context.Context, args []string) int {
	code, _ := run(ctx, args, os.Stdout, os.Stderr)
	return code
}

// run executes the command tree and closes the run logger whether or not
// the command succeeded. The app is returned for inspection.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) (int, *app) {
	root, a := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if cerr := a.closeLogger(); err == nil {
		err = cerr
	}
	if err != nil {
		if _, ok := err.(*exitError); !ok {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
	}
	return exitCode(err), a
}
