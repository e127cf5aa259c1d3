package main

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubDetection(t *testing.T, lookPath func(string) (string, error), stat func(string) (os.FileInfo, error)) {
	t.Helper()
	origLookPath, origStat := lookPathFunc, statFunc
	t.Cleanup(func() {
		lookPathFunc = origLookPath
		statFunc = origStat
	})
	lookPathFunc = lookPath
	statFunc = stat
}

func notFound(string) (string, error)    { return "", exec.ErrNotFound }
func noFiles(string) (os.FileInfo, error) { return nil, os.ErrNotExist }

// --- JSON merge tests ---

func TestMergeServerEntry_EmptyFile(t *testing.T) {
	out, err := mergeServerEntry(nil, "mcpServers", serverEntry("", nil))
	require.NoError(t, err)
	require.NotNil(t, out)

	var config map[string]any
	require.NoError(t, json.Unmarshal(out, &config))

	servers := config["mcpServers"].(map[string]any)
	entry := servers["twgen"].(map[string]any)
	assert.Equal(t, "twgen", entry["command"])
	assert.Equal(t, []any{"serve"}, entry["args"])
}

func TestMergeServerEntry_ExistingServers(t *testing.T) {
	existing := []byte(`{
  "mcpServers": {
    "other-server": {
      "command": "other",
      "args": ["start"]
    }
  }
}`)
	out, err := mergeServerEntry(existing, "mcpServers", serverEntry("", nil))
	require.NoError(t, err)
	require.NotNil(t, out)

	var config map[string]any
	require.NoError(t, json.Unmarshal(out, &config))

	servers := config["mcpServers"].(map[string]any)
	assert.Contains(t, servers, "other-server")
	assert.Contains(t, servers, "twgen")
}

func TestMergeServerEntry_AlreadyConfigured(t *testing.T) {
	existing := []byte(`{"mcpServers": {"twgen": {"command": "twgen", "args": ["serve"]}}}`)
	out, err := mergeServerEntry(existing, "mcpServers", serverEntry("", nil))
	assert.NoError(t, err)
	assert.Nil(t, out, "should return nil when already configured")
}

func TestMergeServerEntry_VSCodeFormat(t *testing.T) {
	out, err := mergeServerEntry(nil, "servers", serverEntry("", map[string]string{"type": "stdio"}))
	require.NoError(t, err)

	var config map[string]any
	require.NoError(t, json.Unmarshal(out, &config))

	entry := config["servers"].(map[string]any)["twgen"].(map[string]any)
	assert.Equal(t, "twgen", entry["command"])
	assert.Equal(t, "stdio", entry["type"])
}

func TestMergeServerEntry_InvalidJSON(t *testing.T) {
	_, err := mergeServerEntry([]byte("not json"), "mcpServers", serverEntry("", nil))
	assert.ErrorContains(t, err, "invalid JSON")
}

func TestMergeServerEntry_TrailingNewline(t *testing.T) {
	out, err := mergeServerEntry(nil, "mcpServers", serverEntry("", nil))
	require.NoError(t, err)
	assert.Equal(t, byte('\n'), out[len(out)-1], "output should end with newline")
}

func TestServerEntry_WithRoot(t *testing.T) {
	entry := serverEntry("/work/site", nil)
	assert.Equal(t, []any{"serve", "--root", "/work/site"}, entry["args"])
}

// --- Prompt tests ---

func TestPromptYesNo(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"\n", true},
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"", true}, // EOF
	}
	for _, tc := range tests {
		t.Run(strings.TrimSpace(tc.input), func(t *testing.T) {
			assert.Equal(t, tc.want, promptYesNo(strings.NewReader(tc.input), &bytes.Buffer{}, "Continue?"))
		})
	}
}

func TestPromptScope(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1\n", "project"},
		{"2\n", "user"},
		{"3\n", ""},
		{"\n", "project"},
		{"", "project"},
	}
	for _, tc := range tests {
		t.Run(strings.TrimSpace(tc.input), func(t *testing.T) {
			assert.Equal(t, tc.want, promptScope(strings.NewReader(tc.input), &bytes.Buffer{}, "Claude Code"))
		})
	}
}

// --- Detection tests ---

func TestDetectAgents_CLIOnPath(t *testing.T) {
	stubDetection(t, func(name string) (string, error) {
		if name == "claude" {
			return "/usr/bin/claude", nil
		}
		return "", exec.ErrNotFound
	}, noFiles)

	detected := detectAgents(t.TempDir())
	require.Len(t, detected, 1)
	assert.Equal(t, "claude_code", detected[0].Def.ID)
	assert.False(t, detected[0].AlreadySetup)
}

func TestDetectAgents_CLIAlreadyConfigured(t *testing.T) {
	project := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(project, ".mcp.json"),
		[]byte(`{"mcpServers": {"twgen": {"command": "twgen"}}}`), 0o644))
	stubDetection(t, func(name string) (string, error) {
		if name == "codex" {
			return "/usr/bin/codex", nil
		}
		return "", exec.ErrNotFound
	}, noFiles)

	detected := detectAgents(project)
	require.Len(t, detected, 1)
	assert.True(t, detected[0].AlreadySetup)
}

func TestDetectAgents_NoneDetected(t *testing.T) {
	stubDetection(t, notFound, noFiles)
	assert.Empty(t, detectAgents(t.TempDir()))
}

func TestDetectAgents_FileBasedAgent(t *testing.T) {
	project := t.TempDir()
	stubDetection(t, notFound, func(name string) (os.FileInfo, error) {
		if name == filepath.Join(project, ".vscode") {
			return nil, nil
		}
		return nil, os.ErrNotExist
	})

	detected := detectAgents(project)
	require.Len(t, detected, 1)
	assert.Equal(t, "vscode_copilot", detected[0].Def.ID)
	assert.Equal(t, filepath.Join(project, ".vscode", "mcp.json"), detected[0].ResolvedConfig)
}

// --- Orchestration tests ---

func TestExecuteSetup_NoAgents(t *testing.T) {
	stubDetection(t, notFound, noFiles)

	w := &bytes.Buffer{}
	executeSetup(strings.NewReader(""), w, setupOptions{project: t.TempDir()})
	assert.Contains(t, w.String(), "No supported AI agents detected.")
}

func TestExecuteSetup_AutoModeFileAgent(t *testing.T) {
	project := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(project, ".vscode"), 0o755))
	stubDetection(t, notFound, func(name string) (os.FileInfo, error) {
		if strings.HasPrefix(name, project) {
			return os.Stat(name)
		}
		return nil, os.ErrNotExist
	})

	w := &bytes.Buffer{}
	executeSetup(strings.NewReader(""), w, setupOptions{auto: true, project: project})

	data, err := os.ReadFile(filepath.Join(project, ".vscode", "mcp.json"))
	require.NoError(t, err)

	var config map[string]any
	require.NoError(t, json.Unmarshal(data, &config))
	entry := config["servers"].(map[string]any)["twgen"].(map[string]any)
	assert.Equal(t, "twgen", entry["command"])
	assert.Equal(t, "stdio", entry["type"])
	assert.Equal(t, []any{"serve"}, entry["args"], "project-scoped agents start in the project dir")

	assert.Contains(t, w.String(), "VS Code Copilot configured")
}

func TestExecuteSetup_Declined(t *testing.T) {
	project := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(project, ".cursor"), 0o755))
	stubDetection(t, notFound, func(name string) (os.FileInfo, error) {
		if strings.HasPrefix(name, project) {
			return os.Stat(name)
		}
		return nil, os.ErrNotExist
	})

	executeSetup(strings.NewReader("n\n"), &bytes.Buffer{}, setupOptions{project: project})
	_, err := os.Stat(filepath.Join(project, ".cursor", "mcp.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestConfigureFileAgent_GlobalPassesRoot(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "sub", "claude_desktop_config.json")

	def := AgentDef{ServersKey: "mcpServers", Global: true}
	require.NoError(t, configureFileAgent(def, configPath, "/work/site"))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)

	var config map[string]any
	require.NoError(t, json.Unmarshal(data, &config))
	entry := config["mcpServers"].(map[string]any)["twgen"].(map[string]any)
	assert.Equal(t, []any{"serve", "--root", "/work/site"}, entry["args"])
}

func TestConfigureFileAgent_MergesExisting(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "mcp.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{"mcpServers": {"other": {"command": "other"}}}`), 0o644))

	def := AgentDef{ServersKey: "mcpServers"}
	require.NoError(t, configureFileAgent(def, configPath, dir))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)

	var config map[string]any
	require.NoError(t, json.Unmarshal(data, &config))
	servers := config["mcpServers"].(map[string]any)
	assert.Contains(t, servers, "other", "original server should be preserved")
	assert.Contains(t, servers, "twgen")
}
