package conf

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

func init() {
	Configuration, LoadError = load(&ConfigSource{
		Path:      "/etc/profilesync/config.toml",
		DropInDir: "/etc/profilesync/config.toml.d/",
	})
}

// load reads sources. On failure it returns the embedded defaults together
// with the error, so callers can still print usage before refusing to run.
func load(sources *ConfigSource) (Config, error) {
	config, err := sources.Read()
	if err == nil {
		return config, nil
	}
	config = Config{}
	dto, parseErr := parseConfigDTO(defaultConfig)
	if parseErr != nil {
		panic(fmt.Sprintf("failed to parse embedded defaults: %v", parseErr))
	}
	config.Update(dto)
	return config, err
}

// defaultConfig contains the embedded default configuration file. It is the
// base layer under /etc/profilesync/config.toml and its drop-in files.
//
//go:embed default.toml
var defaultConfig string

// Configuration is the global immutable state.
var Configuration Config

// LoadError is set when the main file or a drop-in could not be read or
// parsed. Configuration then holds only the embedded defaults and the
// commands refuse to run.
var LoadError error

// Config holds the defaults the profilesync tools start from. Command-line
// flags override each of them.
type Config struct {
	LogLevel slog.Level
	// ProfilesFile is the profiles document the tools write to.
	ProfilesFile string
	// LegacyConfigFile is the flat config migrated into a profile.
	LegacyConfigFile string
	// CredentialsFile is the document API keys are read from.
	CredentialsFile string
	// ProfileName is the profile receiving migrated layers.
	ProfileName string
	// Backup copies the profiles file aside before it is replaced.
	Backup bool
	// Lock takes an advisory lock on the profiles file while it is updated.
	Lock bool
}

// Update applies non-nil values from a configDTO.
func (c *Config) Update(dto configDTO) {
	if dto.LogLevel != nil {
		switch strings.ToUpper(*dto.LogLevel) {
		case "DEBUG":
			c.LogLevel = slog.LevelDebug
		case "INFO":
			c.LogLevel = slog.LevelInfo
		case "WARN":
			c.LogLevel = slog.LevelWarn
		case "ERROR":
			c.LogLevel = slog.LevelError
		}
	}
	if dto.ProfilesFile != nil {
		c.ProfilesFile = *dto.ProfilesFile
	}
	if dto.LegacyConfigFile != nil {
		c.LegacyConfigFile = *dto.LegacyConfigFile
	}
	if dto.CredentialsFile != nil {
		c.CredentialsFile = *dto.CredentialsFile
	}
	if dto.ProfileName != nil {
		c.ProfileName = *dto.ProfileName
	}
	if dto.Backup != nil {
		c.Backup = *dto.Backup
	}
	if dto.Lock != nil {
		c.Lock = *dto.Lock
	}
}

// ConfigSource orchestrates loading configuration from multiple sources.
// See the Read method.
type ConfigSource struct {
	Path      string
	DropInDir string
}

// Read loads and returns the complete Config by merging all layers:
// 1. Embedded defaults
// 2. Main configuration file
// 3. Drop-in files
func (cs *ConfigSource) Read() (Config, error) {
	resolved := Config{}

	dto, err := parseConfigDTO(defaultConfig)
	if err != nil {
		slog.Error("failed to parse embedded defaults", "error", err)
		return resolved, fmt.Errorf("failed to parse embedded defaults: %w", err)
	}
	resolved.Update(dto)

	data, err := os.ReadFile(cs.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			// An unreadable file is an error, not a reason to silently use
			// defaults.
			return resolved, fmt.Errorf("failed to load %s: %w", cs.Path, err)
		}
	} else {
		mainDTO, err := parseConfigDTO(string(data))
		if err != nil {
			return resolved, fmt.Errorf("failed to parse %s: %w", cs.Path, err)
		}
		resolved.Update(mainDTO)
	}

	dropInDTOs, err := cs.parseDropInFiles()
	if err != nil {
		slog.Error("failed to load drop-in files", "error", err, "dir", cs.DropInDir)
		return resolved, err
	}
	for _, dropInDTO := range dropInDTOs {
		resolved.Update(dropInDTO)
	}

	return resolved, nil
}

type configDTO struct {
	LogLevel         *string `toml:"log-level"`
	ProfilesFile     *string `toml:"profiles-file"`
	LegacyConfigFile *string `toml:"legacy-config-file"`
	CredentialsFile  *string `toml:"credentials-file"`
	ProfileName      *string `toml:"profile-name"`
	Backup           *bool   `toml:"backup"`
	Lock             *bool   `toml:"lock"`
}

// parseConfigDTO parses a TOML string into a configDTO.
func parseConfigDTO(data string) (configDTO, error) {
	var dto configDTO

	if err := toml.Unmarshal([]byte(data), &dto); err != nil {
		return dto, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return dto, nil
}

// findDropInFiles returns sorted paths to drop-in configuration files, or nil
// if the drop-in directory doesn't exist.
func (cs *ConfigSource) findDropInFiles() ([]string, error) {
	if _, err := os.Stat(cs.DropInDir); os.IsNotExist(err) {
		return nil, nil
	}

	entries, err := os.ReadDir(cs.DropInDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read drop-in directory %s: %w", cs.DropInDir, err)
	}

	var filenames []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".toml") {
			filenames = append(filenames, filepath.Join(cs.DropInDir, entry.Name()))
		}
	}

	sort.Strings(filenames)

	return filenames, nil
}

// parseDropInFiles loads .toml files.
func (cs *ConfigSource) parseDropInFiles() ([]configDTO, error) {
	paths, err := cs.findDropInFiles()
	if err != nil {
		return nil, err
	}

	var dtos []configDTO
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		dto, err := parseConfigDTO(string(data))
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}

		dtos = append(dtos, dto)
	}

	return dtos, nil
}

// ExpandHome replaces a leading "~" in path with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to expand %s: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
