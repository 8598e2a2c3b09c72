// Package keysync copies API keys found in a local settings document into
// the matching profiles of a profiles document.
package keysync

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/redhatinsights/profilesync/internal/credentials"
	"github.com/redhatinsights/profilesync/internal/document"
	"github.com/redhatinsights/profilesync/internal/l10n"
	"github.com/redhatinsights/profilesync/internal/profiles"
)

// ErrNotMapping is returned when the profiles file does not hold a mapping.
var ErrNotMapping = errors.New("profiles file did not parse as a mapping")

// Options configure a sync run.
type Options struct {
	LocalPath    string
	ProfilesPath string
	// Providers default to credentials.DefaultProviders.
	Providers []credentials.Provider
	// AppendMissing creates target profiles that do not exist yet.
	AppendMissing bool
	NoBackup      bool
	Lock          bool
	Now           func() time.Time
	// BeforeWrite, when set, is called right before the profiles file is
	// replaced. The returned function is called once the write finished.
	BeforeWrite func() func()
}

// KeyLength records how long a synced key was. The key itself is never kept.
type KeyLength struct {
	Provider string
	Length   int
}

// Report summarizes a sync run.
type Report struct {
	ProfilesPath string
	// Targets are the profile names that could have been updated.
	Targets []string
	// Updated is sorted and empty when nothing was written.
	Updated    []string
	BackupPath string
	KeyLengths []KeyLength
}

func requireFile(path, what string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("missing %s: %s: %w", what, path, profiles.ErrMissingFile)
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return nil
}

// Run resolves every provider's key from the local document and applies them
// to the profiles document. The profiles file is only written when at least
// one profile was updated.
func Run(opts Options) (Report, error) {
	providers := opts.Providers
	if len(providers) == 0 {
		providers = credentials.DefaultProviders()
	}
	report := Report{ProfilesPath: opts.ProfilesPath}
	for _, p := range providers {
		report.Targets = append(report.Targets, p.Profile)
	}

	if err := requireFile(opts.LocalPath, "local config"); err != nil {
		return report, err
	}
	if err := requireFile(opts.ProfilesPath, "profiles file"); err != nil {
		return report, err
	}

	local, err := profiles.LoadDocument(opts.LocalPath, false)
	if err != nil {
		return report, err
	}
	creds, err := credentials.Resolve(local, providers)
	if err != nil {
		return report, err
	}

	store := &profiles.Store{
		Path:   opts.ProfilesPath,
		Backup: !opts.NoBackup,
		Lock:   opts.Lock,
		Now:    opts.Now,
	}
	release, err := store.Acquire()
	if err != nil {
		return report, err
	}
	defer release()

	raw, err := profiles.LoadDocument(opts.ProfilesPath, false)
	if err != nil {
		return report, err
	}
	doc, ok := raw.(*document.Mapping)
	if !ok || doc == nil {
		return report, fmt.Errorf("%w: %s is %s", ErrNotMapping, opts.ProfilesPath, document.TypeName(raw))
	}

	report.Updated = profiles.SyncCredentials(doc, creds, opts.AppendMissing)
	if len(report.Updated) == 0 {
		slog.Info("no matching profiles", "path", opts.ProfilesPath)
		return report, nil
	}

	if opts.BeforeWrite != nil {
		done := opts.BeforeWrite()
		defer done()
	}
	result, err := store.Save(doc)
	if err != nil {
		return report, err
	}
	report.BackupPath = result.BackupPath
	for _, c := range creds {
		report.KeyLengths = append(report.KeyLengths, KeyLength{Provider: c.Provider.Name, Length: len(c.Value)})
	}
	slog.Info("profiles written", "path", opts.ProfilesPath, "updated", report.Updated)

	return report, nil
}

// Render prints the human summary of r to w.
func (r Report) Render(w io.Writer) error {
	var lines []string
	if len(r.Updated) == 0 {
		lines = append(lines, l10n.T(
			"No matching profiles updated (use --append-missing-profiles if you want to add %s).",
			strings.Join(r.Targets, "/")))
	} else {
		lines = append(lines,
			l10n.T("Updated profiles: %s", strings.Join(r.Updated, ", ")),
			fmt.Sprintf("profiles_path=%s", r.ProfilesPath))
		if r.BackupPath != "" {
			lines = append(lines, fmt.Sprintf("backup=%s", r.BackupPath))
		}
		var lengths []string
		for _, k := range r.KeyLengths {
			lengths = append(lengths, fmt.Sprintf("%s_key_len=%d", k.Provider, k.Length))
		}
		lines = append(lines, strings.Join(lengths, " "))
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
