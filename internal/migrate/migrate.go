// Package migrate moves the layers of a legacy flat config into a named
// profile of a profiles document.
package migrate

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/redhatinsights/profilesync/internal/document"
	"github.com/redhatinsights/profilesync/internal/l10n"
	"github.com/redhatinsights/profilesync/internal/profiles"
)

// Options configure a migration run.
type Options struct {
	ConfigPath   string
	ProfilesPath string
	ProfileName  string
	// DryRun computes the result and reports it without writing.
	DryRun bool
	// NoBackup skips the timestamped copy of the profiles file.
	NoBackup bool
	Lock     bool
	// Now names the backup; defaults to time.Now.
	Now func() time.Time
	// BeforeWrite, when set, is called right before the profiles file is
	// replaced. The returned function is called once the write finished.
	BeforeWrite func() func()
}

// Report summarizes a migration. It never carries parameter values.
type Report struct {
	ConfigPath   string
	ProfilesPath string
	Profile      string
	Layers       []profiles.Layer
	Skipped      []profiles.SkippedKey
	DryRun       bool
	// BackupPath is empty when no backup was written.
	BackupPath string
	Written    bool
}

// Run loads both documents, merges the legacy layers into the profile and,
// unless DryRun is set, writes the profiles file back. Missing input files
// are treated as empty documents.
func Run(opts Options) (Report, error) {
	store := &profiles.Store{
		Path:   opts.ProfilesPath,
		Backup: !opts.NoBackup,
		Lock:   opts.Lock && !opts.DryRun,
		Now:    opts.Now,
	}
	release, err := store.Acquire()
	if err != nil {
		return Report{}, err
	}
	defer release()

	configRaw, err := profiles.LoadDocument(opts.ConfigPath, true)
	if err != nil {
		return Report{}, err
	}
	profilesRaw, err := profiles.LoadDocument(opts.ProfilesPath, true)
	if err != nil {
		return Report{}, err
	}

	config, err := document.AsMapping(configRaw, fmt.Sprintf("config file %s", opts.ConfigPath))
	if err != nil {
		return Report{}, err
	}
	doc, err := document.AsMapping(profilesRaw, fmt.Sprintf("profiles file %s", opts.ProfilesPath))
	if err != nil {
		return Report{}, err
	}

	migration, err := profiles.MigrateLayers(doc, config, opts.ProfileName)
	if err != nil {
		return Report{}, err
	}
	slog.Debug("layers merged",
		"profile", migration.Profile,
		"layers", len(migration.Layers),
		"skipped", len(migration.Skipped))

	report := Report{
		ConfigPath:   opts.ConfigPath,
		ProfilesPath: opts.ProfilesPath,
		Profile:      migration.Profile,
		Layers:       migration.Layers,
		Skipped:      migration.Skipped,
		DryRun:       opts.DryRun,
	}
	if opts.DryRun {
		return report, nil
	}

	if opts.BeforeWrite != nil {
		done := opts.BeforeWrite()
		defer done()
	}
	result, err := store.Save(migration.Profiles)
	if err != nil {
		return report, err
	}
	report.BackupPath = result.BackupPath
	report.Written = true
	slog.Info("profiles written", "path", opts.ProfilesPath, "backup", result.BackupPath)

	return report, nil
}

// Render prints the human summary of r to w.
func (r Report) Render(w io.Writer) error {
	lines := []string{
		l10n.T("=== migrate pinocchio config -> profiles %s ===", r.Profile),
		l10n.T("config:   %s", r.ConfigPath),
		l10n.T("profiles: %s", r.ProfilesPath),
		l10n.T("profile:  %s", r.Profile),
		l10n.T("layers_to_merge: %d", len(r.Layers)),
	}
	if len(r.Skipped) == 0 {
		lines = append(lines, l10n.T("skipped_top_level_keys (non-mapping): none"))
	} else {
		lines = append(lines, l10n.T("skipped_top_level_keys (non-mapping):"))
		for _, s := range r.Skipped {
			lines = append(lines, fmt.Sprintf("  - %s: %s", s.Key, s.Type))
		}
	}

	if r.DryRun {
		lines = append(lines, "", l10n.T("DRY RUN: not writing anything"))
		for _, layer := range r.Layers {
			lines = append(lines, l10n.T("- layer %s: %d keys", layer.Name, layer.Parameters.Len()))
		}
	} else {
		if r.BackupPath != "" {
			lines = append(lines, l10n.T("backup_written: %s", r.BackupPath))
		}
		if r.Written {
			lines = append(lines,
				l10n.T("write: ok"),
				l10n.T("note: values were not printed (may contain secrets)"))
		}
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
