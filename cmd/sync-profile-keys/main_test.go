package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var stdout, stderr bytes.Buffer
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{"sync-profile-keys"}, args...))
	return stdout.String(), err
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

func writeInputs(t *testing.T, local, profiles string) (string, string) {
	t.Helper()
	tmpDir := t.TempDir()
	localPath := filepath.Join(tmpDir, "local.yaml")
	profilesPath := filepath.Join(tmpDir, "profiles.yaml")
	if local != "" {
		os.WriteFile(localPath, []byte(local), 0600)
	}
	if profiles != "" {
		os.WriteFile(profilesPath, []byte(profiles), 0600)
	}
	return localPath, profilesPath
}

const local = "openai:\n  api_key_unused: x\n  openai-key: sk-o\nclaude_api_key: sk-cl\n"

func TestSync_AppendMissing(t *testing.T) {
	localPath, profilesPath := writeInputs(t, local, "default: {}\n")

	out, err := runApp(t, "--local", localPath, "--profiles", profilesPath, "--append-missing-profiles", "--no-backup")
	if code := exitCode(err); code != 0 {
		t.Fatalf("exit code = %d (%v), want 0", code, err)
	}
	if !strings.HasPrefix(out, "Updated profiles: o4-mini, sonnet-4.5\n") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "openai_key_len=4 anthropic_key_len=5\n") {
		t.Errorf("output is missing key lengths:\n%s", out)
	}
	if strings.Contains(out, "backup=") {
		t.Errorf("--no-backup still reported a backup:\n%s", out)
	}

	data, _ := os.ReadFile(profilesPath)
	if !strings.Contains(string(data), "openai-api-key: sk-o") || !strings.Contains(string(data), "claude-api-key: sk-cl") {
		t.Errorf("keys were not written:\n%s", data)
	}
}

func TestSync_NothingToDo(t *testing.T) {
	localPath, profilesPath := writeInputs(t, local, "default: {}\n")

	out, err := runApp(t, "--local", localPath, "--profiles", profilesPath)
	if code := exitCode(err); code != 0 {
		t.Fatalf("exit code = %d (%v), want 0", code, err)
	}
	if !strings.HasPrefix(out, "No matching profiles updated") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestSync_Failures(t *testing.T) {
	tests := []struct {
		name     string
		local    string
		profiles string
		message  string
	}{
		{name: "missing local", profiles: "o4-mini: {}\n", message: "missing local config"},
		{name: "missing profiles", local: local, message: "missing profiles file"},
		{name: "missing key", local: "openai_key: sk-o\n", profiles: "o4-mini: {}\n", message: "could not find Anthropic/Claude API key"},
		{name: "profiles not a mapping", local: local, profiles: "[1, 2]\n", message: "did not parse as a mapping"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			localPath, profilesPath := writeInputs(t, tt.local, tt.profiles)
			_, err := runApp(t, "--local", localPath, "--profiles", profilesPath)
			if code := exitCode(err); code != 1 {
				t.Fatalf("exit code = %d (%v), want 1", code, err)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.message)
			}
		})
	}
}

func TestSync_LocalRequired(t *testing.T) {
	_, profilesPath := writeInputs(t, "", "o4-mini: {}\n")
	_, err := runApp(t, "--local", "", "--profiles", profilesPath)
	if code := exitCode(err); code != 1 {
		t.Errorf("exit code = %d (%v), want 1", code, err)
	}
}
