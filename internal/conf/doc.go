// Package conf holds the site-wide defaults of the profilesync tools.
//
// Every setting is a default for a command-line flag; a flag given on the
// command line always wins. The settings are:
//
//   - profiles-file: the profiles document both migrate-profile and
//     sync-profile-keys rewrite (--profiles).
//   - legacy-config-file: the flat config migrate-profile reads (--config).
//   - credentials-file: the document sync-profile-keys takes API keys from
//     (--local). Empty by default, so the flag is then required.
//   - profile-name: the profile legacy layers are merged into
//     (--profile-name).
//   - backup: copy the profiles file to <file>.bak-YYYYMMDD-HHMMSS before it
//     is replaced. Turned off per run with --no-backup.
//   - lock: hold an advisory lock on <file>.lock while the profiles file is
//     read and rewritten, so two runs cannot interleave (--lock).
//   - log-level: DEBUG, INFO, WARN or ERROR (--log-level).
//
// Paths may start with "~/"; the commands expand them with ExpandHome.
//
// # Sources
//
// The embedded default.toml is read first, then /etc/profilesync/config.toml,
// then every *.toml file in /etc/profilesync/config.toml.d/ in lexicographic
// order. A later source only overrides the keys it sets, so a drop-in holding
// just "lock = true" leaves the profiles path alone. Pointer fields in the
// internal DTO tell an absent key from an explicit false or "".
//
// A source that exists but cannot be read or parsed is never skipped:
// Configuration falls back to the embedded defaults and LoadError is set,
// and the commands refuse to run until the file is fixed.
//
// Tests load their own files through ConfigSource:
//
//	cs := &conf.ConfigSource{Path: path, DropInDir: dir}
//	config, err := cs.Read()
package conf
