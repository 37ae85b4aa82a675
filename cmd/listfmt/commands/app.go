package commands

import (
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"listfmt/internal/clipboard"
)

// Clipboard is what the commands need from a clipboard.
type Clipboard interface {
	clipboard.Writer
	clipboard.Reader
}

// Env carries the process surroundings so commands can run under test.
type Env struct {
	Stdin        io.Reader
	Stdout       io.Writer
	Stderr       io.Writer
	Color        bool
	Interactive  bool
	NewClipboard func() Clipboard
}

func DefaultEnv() *Env {
	return &Env{
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Color:       term.IsTerminal(int(os.Stderr.Fd())),
		Interactive: term.IsTerminal(int(os.Stdin.Fd())),
		NewClipboard: func() Clipboard {
			return clipboard.NewSystem()
		},
	}
}

func NewApp(env *Env) *cli.App {
	return &cli.App{
		Name:                 "listfmt",
		Usage:                "Quote, join and copy lists of strings",
		Version:              Version,
		Reader:               env.Stdin,
		Writer:               env.Stdout,
		ErrWriter:            env.Stderr,
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Config file path",
				EnvVars: []string{"LISTFMT_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "Directory holding the history store",
				EnvVars: []string{"LISTFMT_DATA_DIR"},
			},
			&cli.StringFlag{
				Name:  "backend",
				Usage: "History backend: sqlite, file or memory",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn or error",
			},
			&cli.BoolFlag{
				Name:  "ephemeral",
				Usage: "Keep history in memory for this run only",
			},
		},
		Commands: []*cli.Command{
			FormatCommand(env),
			HistoryCommand(env),
			WatchCommand(env),
			StatusCommand(env),
			InitCommand(env),
			ConfigCommand(),
			VersionCommand(),
		},
	}
}
