package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

// serverName is the key twgen is registered under in agent MCP configs.
const serverName = "twgen"

// AgentDef defines how to detect and configure one AI agent.
type AgentDef struct {
	ID          string
	DisplayName string
	Method      string            // "cli" or "file"
	Binary      string            // for CLI agents: binary name on PATH
	DirMarkers  []string          // for file-based: project dirs that indicate presence
	ConfigPath  func(project string) string
	ServersKey  string            // "servers" (VS Code) or "mcpServers" (others)
	NeedsScope  bool              // whether to prompt for project/user scope
	Global      bool              // config is not per project; pass --root explicitly
	ExtraFields map[string]string // extra JSON fields (e.g. "type": "stdio" for VS Code)
}

// DetectedAgent is an agent found on the system.
type DetectedAgent struct {
	Def            AgentDef
	AlreadySetup   bool
	ResolvedConfig string // resolved config path for file-based agents
}

type setupOptions struct {
	auto    bool
	project string
}

// Replaceable for testing.
var lookPathFunc = exec.LookPath
var statFunc = os.Stat

// agentRegistry lists all supported agents in display order.
var agentRegistry = []AgentDef{
	{
		ID: "claude_code", DisplayName: "Claude Code",
		Method: "cli", Binary: "claude", NeedsScope: true,
	},
	{
		ID: "openai_codex", DisplayName: "OpenAI Codex",
		Method: "cli", Binary: "codex", NeedsScope: true,
	},
	{
		ID: "vscode_copilot", DisplayName: "VS Code Copilot",
		Method: "file", DirMarkers: []string{".vscode"},
		ConfigPath:  func(p string) string { return filepath.Join(p, ".vscode", "mcp.json") },
		ServersKey:  "servers",
		ExtraFields: map[string]string{"type": "stdio"},
	},
	{
		ID: "cursor", DisplayName: "Cursor",
		Method: "file", DirMarkers: []string{".cursor"},
		ConfigPath: func(p string) string { return filepath.Join(p, ".cursor", "mcp.json") },
		ServersKey: "mcpServers",
	},
	{
		ID: "claude_desktop", DisplayName: "Claude Desktop",
		Method:     "file",
		ConfigPath: func(string) string { return claudeDesktopConfigPath() },
		ServersKey: "mcpServers",
		Global:     true,
	},
}

// claudeDesktopConfigPath returns the OS-specific Claude Desktop config path.
func claudeDesktopConfigPath() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Claude", "claude_desktop_config.json")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Claude", "claude_desktop_config.json")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "Claude", "claude_desktop_config.json")
	}
}

func newSetupCmd() *cobra.Command {
	opts := setupOptions{}
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Register the twgen MCP server with detected AI agents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			project, err := filepath.Abs(opts.project)
			if err != nil {
				return err
			}
			opts.project = project
			executeSetup(cmd.InOrStdin(), cmd.OutOrStdout(), opts)
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.auto, "auto", false, "configure every detected agent without prompting")
	cmd.Flags().StringVar(&opts.project, "project", ".", "project directory to register")
	return cmd
}

// detectAgents scans the system and project for accessible AI agents.
func detectAgents(project string) []DetectedAgent {
	var detected []DetectedAgent

	for _, def := range agentRegistry {
		switch def.Method {
		case "cli":
			if _, err := lookPathFunc(def.Binary); err == nil {
				detected = append(detected, DetectedAgent{
					Def:          def,
					AlreadySetup: hasServerEntry(filepath.Join(project, ".mcp.json"), "mcpServers"),
				})
			}

		case "file":
			found := false
			configPath := ""

			for _, marker := range def.DirMarkers {
				if _, err := statFunc(filepath.Join(project, marker)); err == nil {
					found = true
					configPath = def.ConfigPath(project)
					break
				}
			}

			// Agents without dir markers are present when their config dir exists.
			if !found && len(def.DirMarkers) == 0 && def.ConfigPath != nil {
				configPath = def.ConfigPath(project)
				if _, err := statFunc(filepath.Dir(configPath)); err == nil {
					found = true
				}
			}

			if found {
				detected = append(detected, DetectedAgent{
					Def:            def,
					ResolvedConfig: configPath,
					AlreadySetup:   hasServerEntry(configPath, def.ServersKey),
				})
			}
		}
	}

	return detected
}

// hasServerEntry reports whether the JSON file at path registers twgen
// under serversKey.
func hasServerEntry(path, serversKey string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var config map[string]any
	if err := json.Unmarshal(data, &config); err != nil {
		return false
	}
	servers, ok := config[serversKey].(map[string]any)
	if !ok {
		return false
	}
	_, exists := servers[serverName]
	return exists
}

// serverEntry returns the MCP server config object. root is passed to
// serve when the agent does not start servers in the project directory.
func serverEntry(root string, extra map[string]string) map[string]any {
	args := []any{"serve"}
	if root != "" {
		args = append(args, "--root", root)
	}
	entry := map[string]any{
		"command": serverName,
		"args":    args,
	}
	for k, v := range extra {
		entry[k] = v
	}
	return entry
}

// mergeServerEntry adds entry under serversKey in existing JSON (or a new
// document) and returns the merged bytes. Returns nil, nil if twgen is
// already configured.
func mergeServerEntry(existing []byte, serversKey string, entry map[string]any) ([]byte, error) {
	config := make(map[string]any)
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &config); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}

	servers, ok := config[serversKey].(map[string]any)
	if !ok {
		servers = make(map[string]any)
	}
	if _, exists := servers[serverName]; exists {
		return nil, nil
	}

	servers[serverName] = entry
	config[serversKey] = servers

	out, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// configureCLIAgent runs `<binary> mcp add` with the chosen scope.
func configureCLIAgent(def AgentDef, scope, project string) error {
	args := []string{"mcp", "add"}
	if scope != "" {
		args = append(args, "--scope", scope)
	}
	args = append(args, serverName, "--", serverName, "serve")
	if scope == "user" {
		args = append(args, "--root", project)
	}
	cmd := exec.Command(def.Binary, args...)
	cmd.Dir = project
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// configureFileAgent reads, merges, and writes the JSON config file.
func configureFileAgent(def AgentDef, configPath, project string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	var existing []byte
	if data, err := os.ReadFile(configPath); err == nil {
		existing = data
	}

	root := ""
	if def.Global {
		root = project
	}
	merged, err := mergeServerEntry(existing, def.ServersKey, serverEntry(root, def.ExtraFields))
	if err != nil {
		return err
	}
	if merged == nil {
		return nil
	}
	return os.WriteFile(configPath, merged, 0644)
}

// --- Interactive prompts ---

// promptYesNo prints a question and reads Y/n. Returns true for yes (default).
func promptYesNo(r io.Reader, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s ", question)
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return true
	}
	answer := strings.TrimSpace(strings.ToLower(scanner.Text()))
	return answer == "" || answer == "y" || answer == "yes"
}

// promptScope prints scope options and reads 1/2/3.
// Returns "project", "user", or "" (skip).
func promptScope(r io.Reader, w io.Writer, agentName string) string {
	fmt.Fprintf(w, "\n%s: add the twgen MCP server?\n", titleStyle.Render(agentName))
	fmt.Fprintln(w, "  [1] Project scope (shared with team)")
	fmt.Fprintln(w, "  [2] User scope (personal, global)")
	fmt.Fprintln(w, "  [3] Skip")
	fmt.Fprintf(w, "  > ")

	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return "project"
	}
	switch strings.TrimSpace(scanner.Text()) {
	case "1", "":
		return "project"
	case "2":
		return "user"
	default:
		return ""
	}
}

// --- Orchestration ---

// executeSetup contains the testable core logic, parameterized on I/O.
func executeSetup(r io.Reader, w io.Writer, opts setupOptions) {
	detected := detectAgents(opts.project)
	if len(detected) == 0 {
		fmt.Fprintln(w, "No supported AI agents detected.")
		return
	}

	fmt.Fprintln(w, titleStyle.Render("Detected AI agents:"))
	for _, d := range detected {
		if d.AlreadySetup {
			fmt.Fprintf(w, "  * %s %s\n", d.Def.DisplayName, dimStyle.Render("(already configured)"))
		} else {
			fmt.Fprintf(w, "  * %s\n", d.Def.DisplayName)
		}
	}
	fmt.Fprintln(w)

	if !opts.auto && !promptYesNo(r, w, "Configure agents? [Y/n]") {
		return
	}

	for _, d := range detected {
		if d.AlreadySetup {
			fmt.Fprintf(w, "\n%s: already configured, skipping\n", d.Def.DisplayName)
			continue
		}
		configureOneAgent(r, w, d, opts)
	}
}

func configureOneAgent(r io.Reader, w io.Writer, d DetectedAgent, opts setupOptions) {
	switch d.Def.Method {
	case "cli":
		scope := "project"
		if !opts.auto && d.Def.NeedsScope {
			scope = promptScope(r, w, d.Def.DisplayName)
			if scope == "" {
				fmt.Fprintln(w, "  skipped")
				return
			}
		}
		if err := configureCLIAgent(d.Def, scope, opts.project); err != nil {
			fmt.Fprintf(w, "  %s %s: %v\n", errStyle.Render("!"), d.Def.DisplayName, err)
			return
		}
		fmt.Fprintf(w, "  %s %s configured (scope: %s)\n", okStyle.Render("+"), d.Def.DisplayName, scope)

	case "file":
		if !opts.auto && !promptYesNo(r, w, fmt.Sprintf("\n%s: add to %s? [Y/n]", d.Def.DisplayName, d.ResolvedConfig)) {
			fmt.Fprintln(w, "  skipped")
			return
		}
		if err := configureFileAgent(d.Def, d.ResolvedConfig, opts.project); err != nil {
			fmt.Fprintf(w, "  %s %s: %v\n", errStyle.Render("!"), d.Def.DisplayName, err)
			return
		}
		fmt.Fprintf(w, "  %s %s configured (%s)\n", okStyle.Render("+"), d.Def.DisplayName, d.ResolvedConfig)
	}
}
