// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AgentGraph/pkg/logging"
)

const testAgentsYAML = `customModes:
  - slug: uber-orchestrator
    name: "🎯 Uber Orchestrator"
    roleDefinition: Coordinates everything.
    groups: [read]
    customInstructions: |
      To: [recipient agent's slug], From: [your agent's slug]
      Delegate to coder for code. Use new_task to tdd-tester for tests.
  - slug: coder
    name: "💻 Coder"
    roleDefinition: Writes code.
    groups: [read, edit]
    customInstructions: implement the change
  - slug: tdd-tester
    name: "🧪 TDD Tester"
    roleDefinition: Writes tests.
    groups: [read, edit]
    customInstructions: Report back to uber-orchestrator when done.
`

// cliResult captures one CLI invocation.
type cliResult struct {
	exit   int
	stdout string
	stderr string
}

// runCLI runs the command tree in-process with captured output.
func runCLI(t *testing.T, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code, _ := run(context.Background(), args, &stdout, &stderr)
	return cliResult{exit: code, stdout: stdout.String(), stderr: stderr.String()}
}

// writeAgents writes files into a fresh agents directory.
func writeAgents(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

// writeConfig writes a config file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agentgraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGenerate_WritesMermaid(t *testing.T) {
	dir := writeAgents(t, map[string]string{"agents.yaml": testAgentsYAML})
	prefix := filepath.Join(t.TempDir(), "docs", "agent-dependency-graph")

	res := runCLI(t, "generate", "--agents-dir", dir, "-o", prefix)
	require.Equal(t, CLIExitSuccess, res.exit, res.stderr)

	assert.Contains(t, res.stdout, "OK\t"+prefix+".md\tmermaid")
	assert.Contains(t, res.stdout, "SUMMARY: agents=3 delegations=3 orchestrator=1 worker=2 validator=0 quality=0 other=0")

	data, err := os.ReadFile(prefix + ".md")
	require.NoError(t, err)
	assert.Contains(t, string(data), "uber_orchestrator --> coder")
	assert.Contains(t, string(data), "tdd_tester --> uber_orchestrator")
}

func TestGenerate_DotFormat(t *testing.T) {
	dir := writeAgents(t, map[string]string{"agents.yaml": testAgentsYAML})
	prefix := filepath.Join(t.TempDir(), "graph")

	res := runCLI(t, "generate", "--agents-dir", dir, "-o", prefix, "-f", "dot")
	require.Equal(t, CLIExitSuccess, res.exit, res.stderr)

	assert.FileExists(t, prefix+".md")
	data, err := os.ReadFile(prefix + ".dot")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"uber-orchestrator" -> "coder"`)
}

func TestGenerate_MissingGraphviz_SkipsImages(t *testing.T) {
	dir := writeAgents(t, map[string]string{"agents.yaml": testAgentsYAML})
	prefix := filepath.Join(t.TempDir(), "graph")
	cfg := writeConfig(t, "backend:\n  command: /nonexistent/bin/dot\n")

	res := runCLI(t, "--config", cfg, "generate", "--agents-dir", dir, "-o", prefix, "-f", "png")
	require.Equal(t, CLIExitSuccess, res.exit, res.stderr)

	assert.FileExists(t, prefix+".md")
	assert.NoFileExists(t, prefix+".png")
	assert.Contains(t, res.stderr, "WARN Formats not written: png skipped: ")
	assert.Contains(t, res.stderr, "install Graphviz")
}

func TestGenerate_UnknownFormat(t *testing.T) {
	dir := writeAgents(t, map[string]string{"agents.yaml": testAgentsYAML})

	res := runCLI(t, "generate", "--agents-dir", dir, "-o", filepath.Join(t.TempDir(), "g"), "-f", "pdf")
	assert.Equal(t, CLIExitError, res.exit)
	assert.Contains(t, res.stderr, "pdf")
}

func TestGenerate_MissingAgentsDir(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	res := runCLI(t, "generate", "--agents-dir", missing)
	assert.Equal(t, CLIExitError, res.exit)
	assert.Contains(t, res.stderr, "agents directory not found")
}

func TestGenerate_FailedRunClosesLogFile(t *testing.T) {
	logDir := t.TempDir()
	cfg := writeConfig(t, "log:\n  dir: "+logDir+"\n")
	missing := filepath.Join(t.TempDir(), "nope")

	var stdout, stderr bytes.Buffer
	code, a := run(context.Background(), []string{"--config", cfg, "generate", "--agents-dir", missing}, &stdout, &stderr)
	require.Equal(t, CLIExitError, code, stderr.String())
	require.NotNil(t, a.logger)

	a.logger.Info("record after exit")

	logs, err := filepath.Glob(filepath.Join(logDir, "*.log"))
	require.NoError(t, err)
	require.Len(t, logs, 1)
	data, err := os.ReadFile(logs[0])
	require.NoError(t, err)
	assert.NotContains(t, string(data), "record after exit")
}

func TestGenerate_BadFileSkipped(t *testing.T) {
	dir := writeAgents(t, map[string]string{
		"agents.yaml": testAgentsYAML,
		"broken.yaml": "customModes: [\n",
	})
	prefix := filepath.Join(t.TempDir(), "graph")

	res := runCLI(t, "generate", "--agents-dir", dir, "-o", prefix)
	require.Equal(t, CLIExitSuccess, res.exit, res.stderr)
	assert.Contains(t, res.stdout, "WARN\t"+filepath.Join(dir, "broken.yaml"))
	assert.Contains(t, res.stdout, "agents=3")
}

func TestGenerate_JSON(t *testing.T) {
	dir := writeAgents(t, map[string]string{"agents.yaml": testAgentsYAML})
	prefix := filepath.Join(t.TempDir(), "graph")

	res := runCLI(t, "generate", "--agents-dir", dir, "-o", prefix, "--json")
	require.Equal(t, CLIExitSuccess, res.exit, res.stderr)

	var out struct {
		Command string `json:"command"`
		RunID   string `json:"run_id"`
		Success bool   `json:"success"`
		Data    struct {
			Nodes []struct {
				ID string `json:"id"`
			} `json:"nodes"`
			Edges []struct {
				Source string `json:"source"`
				Target string `json:"target"`
			} `json:"edges"`
			Categories map[string]int `json:"categories"`
			Outputs    []struct {
				Format string `json:"format"`
				Status string `json:"status"`
			} `json:"outputs"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))

	assert.Equal(t, "generate", out.Command)
	assert.True(t, out.Success)
	assert.NotEmpty(t, out.RunID)
	assert.Len(t, out.Data.Nodes, 3)
	assert.Len(t, out.Data.Edges, 3)
	assert.Equal(t, 2, out.Data.Categories["worker"])
	require.Len(t, out.Data.Outputs, 1)
	assert.Equal(t, "mermaid", out.Data.Outputs[0].Format)
	assert.Equal(t, "written", out.Data.Outputs[0].Status)
}

func TestGenerate_MetricsFile(t *testing.T) {
	dir := writeAgents(t, map[string]string{"agents.yaml": testAgentsYAML})
	tmp := t.TempDir()
	metricsPath := filepath.Join(tmp, "agentgraph.prom")

	res := runCLI(t, "generate", "--agents-dir", dir, "-o", filepath.Join(tmp, "graph"), "--metrics-file", metricsPath)
	require.Equal(t, CLIExitSuccess, res.exit, res.stderr)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "agentgraph_graph_nodes 3")
	assert.Contains(t, string(data), "agentgraph_graph_edges 3")
}

func TestGenerate_ConfigFileSetsDefaults(t *testing.T) {
	dir := writeAgents(t, map[string]string{"agents.yaml": testAgentsYAML})
	prefix := filepath.Join(t.TempDir(), "from-config")
	cfg := writeConfig(t, "agents_dir: "+dir+"\noutput: "+prefix+"\nformat: mermaid,dot\n")

	res := runCLI(t, "--config", cfg, "generate")
	require.Equal(t, CLIExitSuccess, res.exit, res.stderr)

	assert.FileExists(t, prefix+".md")
	assert.FileExists(t, prefix+".dot")
}

func TestInvalidConfig(t *testing.T) {
	cfg := writeConfig(t, "log:\n  level: loud\n")

	res := runCLI(t, "--config", cfg, "generate")
	assert.Equal(t, CLIExitError, res.exit)
	assert.Contains(t, res.stderr, "invalid configuration")
}

func TestValidate_AllPass(t *testing.T) {
	dir := writeAgents(t, map[string]string{"agents.yaml": testAgentsYAML})

	res := runCLI(t, "validate", "--agents-dir", dir, "-v")
	require.Equal(t, CLIExitSuccess, res.exit, res.stderr)

	assert.Contains(t, res.stdout, "OK\t"+filepath.Join(dir, "agents.yaml")+"\t3 agent(s)")
	assert.Contains(t, res.stdout, "SUMMARY: files=1 passed=1 failed=0")
}

func TestValidate_Failure(t *testing.T) {
	dir := writeAgents(t, map[string]string{
		"good.yaml":    testAgentsYAML,
		"no-slug.yaml": "customModes:\n  - name: Nameless\n    roleDefinition: x\n    groups: [read]\n",
	})

	res := runCLI(t, "validate", "--agents-dir", dir)
	assert.Equal(t, CLIExitFindings, res.exit)
	assert.Contains(t, res.stdout, "FAIL\t"+filepath.Join(dir, "no-slug.yaml"))
	assert.Contains(t, res.stdout, "SUMMARY: files=2 passed=1 failed=1")
}

func TestValidate_SingleFile(t *testing.T) {
	dir := writeAgents(t, map[string]string{"agents.yaml": testAgentsYAML})

	res := runCLI(t, "validate", "--agent", filepath.Join(dir, "agents.yaml"))
	require.Equal(t, CLIExitSuccess, res.exit, res.stderr)
	assert.Contains(t, res.stdout, "files=1")
}

func TestValidate_LintWarnings(t *testing.T) {
	dir := writeAgents(t, map[string]string{"agents.yaml": testAgentsYAML})

	res := runCLI(t, "validate", "--agents-dir", dir)
	require.Equal(t, CLIExitSuccess, res.exit)
	assert.Contains(t, res.stderr, `agent "coder" may be missing communication protocol requirement`)
	assert.NotContains(t, res.stderr, `agent "uber-orchestrator" may be missing`)
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "agentgraph.yaml")

	res := runCLI(t, "config", "init", path)
	require.Equal(t, CLIExitSuccess, res.exit, res.stderr)
	assert.FileExists(t, path)

	res = runCLI(t, "config", "init", path)
	assert.Equal(t, CLIExitError, res.exit)
	assert.Contains(t, res.stderr, "already exists")

	res = runCLI(t, "config", "init", path, "--force")
	assert.Equal(t, CLIExitSuccess, res.exit, res.stderr)

	res = runCLI(t, "--config", path, "config", "show")
	require.Equal(t, CLIExitSuccess, res.exit, res.stderr)
	assert.Contains(t, res.stdout, "agents_dir: agents")
	assert.Contains(t, res.stdout, "timeout: 30s")
}

func TestConfigShow_EnvOverride(t *testing.T) {
	t.Setenv("AGENTGRAPH_BACKEND_COMMAND", "/opt/graphviz/bin/dot")

	res := runCLI(t, "config", "show")
	require.Equal(t, CLIExitSuccess, res.exit, res.stderr)
	assert.Contains(t, res.stdout, "command: /opt/graphviz/bin/dot")
}

func TestVersion(t *testing.T) {
	res := runCLI(t, "version")
	require.Equal(t, CLIExitSuccess, res.exit, res.stderr)
	assert.True(t, strings.HasPrefix(res.stdout, "agentgraph dev"))
}

func TestParseFormats(t *testing.T) {
	got, err := parseFormats("mermaid, PNG,svg")
	require.NoError(t, err)
	assert.Len(t, got, 3)

	_, err = parseFormats(" , ")
	assert.Error(t, err)

	_, err = parseFormats("mermaid,bmp")
	assert.Error(t, err)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, CLIExitSuccess, exitCode(nil))
	assert.Equal(t, CLIExitFindings, exitCode(findings("%d failed", 1)))
	assert.Equal(t, CLIExitError, exitCode(os.ErrNotExist))
}

func TestWatchAndRun_DebouncesChanges(t *testing.T) {
	dir := writeAgents(t, map[string]string{"agents.yaml": testAgentsYAML})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watchAndRun(ctx, dir, 50*time.Millisecond, logging.Nop(), func(context.Context) error {
			runs.Add(1)
			return nil
		})
	}()

	require.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	path := filepath.Join(dir, "extra.yaml")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte(testAgentsYAML), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	require.Eventually(t, func() bool { return runs.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(2), runs.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watchAndRun did not stop after cancel")
	}
}

func TestWatchAndRun_MissingDir(t *testing.T) {
	err := watchAndRun(context.Background(), filepath.Join(t.TempDir(), "nope"), time.Second, logging.Nop(),
		func(context.Context) error { return nil })
	assert.Error(t, err)
}
