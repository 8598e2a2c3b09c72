package main

import (
	"os"

	"git.sr.ht/~spc/go-log"
	"github.com/urfave/cli/v2"

	"github.com/redhatinsights/profilesync/internal/command"
	"github.com/redhatinsights/profilesync/internal/conf"
	"github.com/redhatinsights/profilesync/internal/migrate"
)

const (
	flagConfig      = "config"
	flagProfileName = "profile-name"
	flagDryRun      = "dry-run"
)

func newApp() *cli.App {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:      flagConfig,
			Usage:     "migrate layers from the legacy config `FILE`",
			Value:     conf.Configuration.LegacyConfigFile,
			TakesFile: true,
		},
		command.ProfilesFlag(),
		&cli.StringFlag{
			Name:  flagProfileName,
			Usage: "merge the layers into profile `NAME`",
			Value: conf.Configuration.ProfileName,
		},
		&cli.BoolFlag{
			Name:  flagDryRun,
			Usage: "show what would change, but do not write",
		},
	}
	flags = append(flags, command.WriteFlags()...)
	flags = append(flags, command.LogLevelFlag())

	return &cli.App{
		Name:    "migrate-profile",
		Usage:   "merge a legacy pinocchio config into a profile",
		Version: command.Version,
		Flags:   flags,
		Before:  command.SetupLogging,
		Action:  migrateAction,
	}
}

func migrateAction(c *cli.Context) error {
	configPath, err := command.ExpandPath(c, flagConfig)
	if err != nil {
		return err
	}
	profilesPath, err := command.ExpandPath(c, command.FlagProfiles)
	if err != nil {
		return err
	}
	log.Debugf("migrating %v into %v", configPath, profilesPath)

	report, err := migrate.Run(migrate.Options{
		ConfigPath:   configPath,
		ProfilesPath: profilesPath,
		ProfileName:  c.String(flagProfileName),
		DryRun:       c.Bool(flagDryRun),
		NoBackup:     c.Bool(command.FlagNoBackup),
		Lock:         c.Bool(command.FlagLock),
		BeforeWrite:  command.Progress(c, profilesPath),
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
