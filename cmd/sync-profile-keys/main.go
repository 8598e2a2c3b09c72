package main

import (
	"os"

	"git.sr.ht/~spc/go-log"
	"github.com/urfave/cli/v2"

	"github.com/redhatinsights/profilesync/internal/command"
	"github.com/redhatinsights/profilesync/internal/conf"
	"github.com/redhatinsights/profilesync/internal/keysync"
	"github.com/redhatinsights/profilesync/internal/l10n"
)

const (
	flagLocal         = "local"
	flagAppendMissing = "append-missing-profiles"
)

func newApp() *cli.App {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:      flagLocal,
			Usage:     "read API keys from `FILE`",
			Value:     conf.Configuration.CredentialsFile,
			TakesFile: true,
		},
		command.ProfilesFlag(),
		&cli.BoolFlag{
			Name:  flagAppendMissing,
			Usage: "add the o4-mini and sonnet-4.5 profiles if they are missing",
		},
	}
	flags = append(flags, command.WriteFlags()...)
	flags = append(flags, command.LogLevelFlag())

	return &cli.App{
		Name:    "sync-profile-keys",
		Usage:   "copy OpenAI and Anthropic API keys into pinocchio profiles",
		Version: command.Version,
		Flags:   flags,
		Before:  command.SetupLogging,
		Action:  syncAction,
	}
}

func syncAction(c *cli.Context) error {
	if c.String(flagLocal) == "" {
		return cli.Exit(l10n.T("ERROR: --%s is required (or set credentials-file in the configuration)", flagLocal), 1)
	}
	localPath, err := command.ExpandPath(c, flagLocal)
	if err != nil {
		return err
	}
	profilesPath, err := command.ExpandPath(c, command.FlagProfiles)
	if err != nil {
		return err
	}
	log.Debugf("syncing keys from %v into %v", localPath, profilesPath)

	report, err := keysync.Run(keysync.Options{
		LocalPath:     localPath,
		ProfilesPath:  profilesPath,
		AppendMissing: c.Bool(flagAppendMissing),
		NoBackup:      c.Bool(command.FlagNoBackup),
		Lock:          c.Bool(command.FlagLock),
		BeforeWrite:   command.Progress(c, profilesPath),
	})
	if err != nil {
		return command.Fail(1, err)
	}
	if err := report.Render(c.App.Writer); err != nil {
		return command.Fail(1, err)
	}
	return nil
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
