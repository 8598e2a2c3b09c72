// Package command holds the flag and logging setup shared by the profilesync
// executables.
package command

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"git.sr.ht/~spc/go-log"
	"github.com/urfave/cli/v2"

	"github.com/redhatinsights/profilesync/internal/conf"
	"github.com/redhatinsights/profilesync/internal/l10n"
	"github.com/redhatinsights/profilesync/internal/ui"
)

// Version is set at link time.
var Version = "dev"

// Flag names shared by more than one executable.
const (
	FlagLogLevel = "log-level"
	FlagProfiles = "profiles"
	FlagNoBackup = "no-backup"
	FlagLock     = "lock"
)

// LogLevelFlag returns the --log-level flag, defaulting to the configured
// level.
func LogLevelFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    FlagLogLevel,
		Usage:   "set log `LEVEL` (error, warn, info, debug, trace)",
		Value:   levelName(conf.Configuration.LogLevel),
		EnvVars: []string{"PROFILESYNC_LOG_LEVEL"},
	}
}

// ProfilesFlag returns the --profiles flag, defaulting to the configured
// profiles file.
func ProfilesFlag() cli.Flag {
	return &cli.StringFlag{
		Name:      FlagProfiles,
		Usage:     "read and write profiles from `FILE`",
		Value:     conf.Configuration.ProfilesFile,
		TakesFile: true,
	}
}

// WriteFlags returns --no-backup and --lock.
func WriteFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  FlagNoBackup,
			Usage: "do not copy the profiles file aside before replacing it",
			Value: !conf.Configuration.Backup,
		},
		&cli.BoolFlag{
			Name:  FlagLock,
			Usage: "hold an advisory lock on the profiles file while updating it",
			Value: conf.Configuration.Lock,
		},
	}
}

func levelName(level slog.Level) string {
	switch {
	case level <= slog.LevelDebug:
		return "debug"
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warn"
	}
	return "info"
}

// SlogLevel maps a go-log level onto the closest slog level.
func SlogLevel(level log.Level) slog.Level {
	switch level {
	case log.LevelError:
		return slog.LevelError
	case log.LevelWarn:
		return slog.LevelWarn
	case log.LevelInfo:
		return slog.LevelInfo
	}
	return slog.LevelDebug
}

// SetupLogging is a cli.BeforeFunc. It applies --log-level to go-log and
// installs a slog default logger on the app's error writer. It fails when
// the configuration files could not be loaded.
func SetupLogging(c *cli.Context) error {
	level, err := log.ParseLevel(c.String(FlagLogLevel))
	if err != nil {
		return cli.Exit(l10n.T("invalid log level %q: %v", c.String(FlagLogLevel), err), 1)
	}
	log.SetFlags(0)
	log.SetLevel(level)

	var w io.Writer = os.Stderr
	if c.App.ErrWriter != nil {
		w = c.App.ErrWriter
	}
	log.SetOutput(w)
	slog.SetDefault(ui.NewLogger(w, SlogLevel(level)))

	log.Debugf("log level set to %v", level)

	if conf.LoadError != nil {
		return cli.Exit(l10n.T("ERROR: invalid configuration: %v", conf.LoadError), 1)
	}
	return nil
}

// ExpandPath expands a leading "~" in the value of flag name.
func ExpandPath(c *cli.Context, name string) (string, error) {
	path, err := conf.ExpandHome(c.String(name))
	if err != nil {
		return "", cli.Exit(err, 1)
	}
	return path, nil
}

// Progress returns a hook that shows a spinner on the app's writer while
// path is written.
func Progress(c *cli.Context, path string) func() func() {
	return func() func() {
		p := ui.StartProgress(c.App.Writer, l10n.T("writing %s", path))
		return p.Stop
	}
}

// Fail wraps err in an exit error carrying code. The message is localized
// with the "ERROR: " prefix used by every executable.
func Fail(code int, err error) cli.ExitCoder {
	return cli.Exit(fmt.Sprintf("%s%v", l10n.T("ERROR: "), err), code)
}
