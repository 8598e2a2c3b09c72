package conf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestMissingKeysInDropin checks that keys a drop-in file leaves out keep the
// value from the main config.
func TestMissingKeysInDropin(t *testing.T) {
	tmpDir := t.TempDir()
	mainConfigPath := filepath.Join(tmpDir, "config.toml")
	dropinDir := filepath.Join(tmpDir, "config.toml.d")
	os.Mkdir(dropinDir, 0755)

	mainConfig := `
profiles-file = "/srv/profiles.yaml"
legacy-config-file = "/srv/config.yaml"
backup = false
lock = true
`
	os.WriteFile(mainConfigPath, []byte(mainConfig), 0644)
	os.WriteFile(filepath.Join(dropinDir, "10-profile.toml"), []byte(`profile-name = "ci"`), 0644)

	cs := &ConfigSource{Path: mainConfigPath, DropInDir: dropinDir}
	config, err := cs.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.ProfilesFile != "/srv/profiles.yaml" {
		t.Errorf("expected ProfilesFile=/srv/profiles.yaml (preserved), got %s", config.ProfilesFile)
	}
	if config.LegacyConfigFile != "/srv/config.yaml" {
		t.Errorf("expected LegacyConfigFile=/srv/config.yaml (preserved), got %s", config.LegacyConfigFile)
	}
	if config.Backup {
		t.Errorf("expected Backup=false (preserved), got true")
	}
	if !config.Lock {
		t.Errorf("expected Lock=true (preserved), got false")
	}
	if config.ProfileName != "ci" {
		t.Errorf("expected ProfileName=ci (overridden), got %s", config.ProfileName)
	}
}

// TestEmptyStringOverwrite checks that a drop-in can clear a path.
func TestEmptyStringOverwrite(t *testing.T) {
	tmpDir := t.TempDir()
	mainConfigPath := filepath.Join(tmpDir, "config.toml")
	dropinDir := filepath.Join(tmpDir, "config.toml.d")
	os.Mkdir(dropinDir, 0755)

	os.WriteFile(mainConfigPath, []byte(`credentials-file = "/srv/secrets.yaml"`), 0644)
	os.WriteFile(filepath.Join(dropinDir, "10-override.toml"), []byte(`credentials-file = ""`), 0644)

	cs := &ConfigSource{Path: mainConfigPath, DropInDir: dropinDir}
	config, err := cs.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.CredentialsFile != "" {
		t.Errorf("credentials-file was not overridden to empty: got %s", config.CredentialsFile)
	}
}

// TestLoad_MalformedDropin checks that a broken drop-in is reported instead
// of being skipped, and that only the embedded defaults are kept.
func TestLoad_MalformedDropin(t *testing.T) {
	tmpDir := t.TempDir()
	mainConfigPath := filepath.Join(tmpDir, "config.toml")
	dropinDir := filepath.Join(tmpDir, "config.toml.d")
	os.Mkdir(dropinDir, 0755)

	os.WriteFile(mainConfigPath, []byte("lock = true\nbackup = false\n"), 0644)
	os.WriteFile(filepath.Join(dropinDir, "10-broken.toml"), []byte("lock = yes please"), 0644)

	config, err := load(&ConfigSource{Path: mainConfigPath, DropInDir: dropinDir})
	if err == nil {
		t.Fatal("expected error but got none")
	}
	if !strings.Contains(err.Error(), "10-broken.toml") {
		t.Errorf("error does not name the drop-in: %v", err)
	}
	if diff := cmp.Diff(defaults(), config); diff != "" {
		t.Errorf("load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Valid(t *testing.T) {
	tmpDir := t.TempDir()
	mainConfigPath := filepath.Join(tmpDir, "config.toml")
	os.WriteFile(mainConfigPath, []byte("lock = true\n"), 0644)

	config, err := load(&ConfigSource{Path: mainConfigPath, DropInDir: filepath.Join(tmpDir, "none")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !config.Lock {
		t.Error("expected Lock=true from the main file")
	}
}
