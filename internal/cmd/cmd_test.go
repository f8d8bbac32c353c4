package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// executeCommand runs a cobra command with args and returns captured output
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err = root.Execute()
	return buf.String(), err
}

func TestRootCommand(t *testing.T) {
	if rootCmd == nil {
		t.Fatal("rootCmd is nil")
	}
	if rootCmd.Use != "planwright" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "planwright")
	}

	expectedCmds := []string{"run", "plan", "version"}
	cmdMap := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		cmdMap[cmd.Name()] = true
	}
	for _, name := range expectedCmds {
		if !cmdMap[name] {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(rootCmd, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "planwright ") {
		t.Errorf("version output = %q", out)
	}
}

func TestResolvePrompt(t *testing.T) {
	t.Run("inline", func(t *testing.T) {
		runFlags.promptFile = ""
		got, err := resolvePrompt([]string{"build a task tracker"})
		if err != nil {
			t.Fatal(err)
		}
		if got != "build a task tracker" {
			t.Errorf("prompt = %q", got)
		}
	})

	t.Run("from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prompt.txt")
		if err := os.WriteFile(path, []byte("  build a cli  \n"), 0o644); err != nil {
			t.Fatal(err)
		}
		runFlags.promptFile = path
		defer func() { runFlags.promptFile = "" }()

		got, err := resolvePrompt(nil)
		if err != nil {
			t.Fatal(err)
		}
		if got != "build a cli" {
			t.Errorf("prompt = %q", got)
		}
	})

	t.Run("missing", func(t *testing.T) {
		runFlags.promptFile = ""
		if _, err := resolvePrompt(nil); err == nil {
			t.Error("expected an error with no prompt")
		}
	})
}

func TestPlanCheckCommand(t *testing.T) {
	snapshot := filepath.Join(t.TempDir(), "plan.json")
	data := `{
		"project_info": {"name": "taskcli", "type": "cli", "description": "task tracker", "language": "go"},
		"phases": [{"phase_id": 1, "name": "Core", "description": "core types", "files_to_create": ["task.go"]}],
		"overall_structure": "flat package"
	}`
	if err := os.WriteFile(snapshot, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(rootCmd, "plan", "check", snapshot)
	if err != nil {
		t.Fatalf("check failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "is valid") {
		t.Errorf("output = %q", out)
	}
}

func TestPlanCheckRejectsInvalid(t *testing.T) {
	snapshot := filepath.Join(t.TempDir(), "plan.json")
	data := `{
		"project_info": {"name": "", "type": "cli", "description": "", "language": "go"},
		"phases": []
	}`
	if err := os.WriteFile(snapshot, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(rootCmd, "plan", "check", snapshot)
	if err == nil {
		t.Fatalf("expected validation failure, output:\n%s", out)
	}
}
