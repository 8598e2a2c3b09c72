package ui

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestIsInteractive(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if IsInteractive(f) {
		t.Error("regular file reported as terminal")
	}
	if IsInteractive(&bytes.Buffer{}) {
		t.Error("buffer reported as terminal")
	}
}

func TestStartProgress_NotATerminal(t *testing.T) {
	var buf bytes.Buffer
	p := StartProgress(&buf, "writing profiles")
	p.Stop()
	p.Stop()
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestNewLogger_JSONWhenPiped(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)
	logger.Debug("hidden")
	logger.Info("saved", "path", "/tmp/profiles.yaml")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected one JSON record, got %q: %v", buf.String(), err)
	}
	if record["msg"] != "saved" || record["path"] != "/tmp/profiles.yaml" {
		t.Errorf("unexpected record: %v", record)
	}
}
