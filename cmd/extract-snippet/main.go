package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"git.sr.ht/~spc/go-log"
	"github.com/urfave/cli/v2"

	"github.com/redhatinsights/profilesync/internal/command"
	"github.com/redhatinsights/profilesync/internal/l10n"
	"github.com/redhatinsights/profilesync/internal/snippet"
)

const (
	flagFile          = "file"
	flagParam         = "param"
	flagContext       = "context"
	flagRequireSource = "require-source"
)

func newApp() *cli.App {
	return &cli.App{
		Name:    "extract-snippet",
		Usage:   "print the lines around a parameter in --print-parsed-parameters output",
		Version: command.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:      flagFile,
				Usage:     "read parsed parameters from `FILE`",
				Required:  true,
				TakesFile: true,
			},
			&cli.StringFlag{
				Name:     flagParam,
				Usage:    "find the line `KEY`:",
				Required: true,
			},
			&cli.IntFlag{
				Name:  flagContext,
				Usage: "show `N` lines before and after the match",
				Value: snippet.DefaultContext,
			},
			&cli.StringFlag{
				Name:  flagRequireSource,
				Usage: "fail unless \"source: `VALUE`\" appears inside the parameter block",
			},
			command.LogLevelFlag(),
		},
		Before: command.SetupLogging,
		Action: extractAction,
	}
}

func extractAction(c *cli.Context) error {
	path := c.String(flagFile)
	key := c.String(flagParam)
	source := c.String(flagRequireSource)

	if c.Int(flagContext) < 0 {
		return cli.Exit(l10n.T("ERROR: --%s must not be negative", flagContext), 2)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cli.Exit(l10n.T("ERROR: file not found: %s", path), 2)
		}
		return command.Fail(2, err)
	}
	lines := snippet.SplitLines(data)
	log.Debugf("read %v lines from %v", len(lines), path)

	result, err := snippet.Extract(lines, snippet.Options{
		Key:           key,
		Context:       c.Int(flagContext),
		RequireSource: source,
	})
	if errors.Is(err, snippet.ErrKeyNotFound) {
		return cli.Exit(l10n.T("ERROR: could not find param '%s' (line '%s:') in %s", key, key, path), 1)
	}

	fmt.Fprintln(c.App.Writer, strings.Join(result.Lines, "\n"))

	switch {
	case errors.Is(err, snippet.ErrMarkerNotFound):
		return cli.Exit(l10n.T("\nERROR: did not find required source '%s' inside '%s' block", source, key), 1)
	case err != nil:
		return command.Fail(1, err)
	}
	return nil
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
