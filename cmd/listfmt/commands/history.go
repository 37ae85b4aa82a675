package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"listfmt/internal/history"
	"listfmt/internal/presentation"
)

func HistoryCommand(env *Env) *cli.Command {
	return &cli.Command{
		Name:    "history",
		Aliases: []string{"h"},
		Usage:   "Show and reuse past conversions",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List conversions, newest first",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print entries as JSON",
					},
					&cli.IntFlag{
						Name:    "number",
						Aliases: []string{"n"},
						Value:   history.MaxHistory,
						Usage:   "Number of entries to display",
					},
					&cli.BoolFlag{
						Name:  "utc",
						Usage: "Show timestamps in UTC instead of local time",
					},
				},
				Action: func(c *cli.Context) error {
					rt, err := openRuntime(c, env, false)
					if err != nil {
						return err
					}
					defer rt.Close()

					entries := rt.session.History()
					if n := c.Int("number"); n >= 0 && n < len(entries) {
						entries = entries[:n]
					}

					format := presentation.FormatTable
					if c.Bool("json") {
						format = presentation.FormatJSON
					}
					presenter := presentation.NewHistoryPresenter(c.App.Writer, format)
					if c.Bool("utc") {
						presenter.In(time.UTC)
					}
					return presenter.Present(entries)
				},
			},
			{
				Name:      "copy",
				Usage:     "Copy the output of a past conversion",
				ArgsUsage: "<n>  (1 is the newest, as shown by 'history list')",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "hold",
						Usage: "Stay running until another program takes the clipboard",
					},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return fmt.Errorf("expected exactly one entry number")
					}
					n, err := strconv.Atoi(c.Args().First())
					if err != nil || n < 1 {
						return fmt.Errorf("invalid entry number %q", c.Args().First())
					}

					rt, err := openRuntime(c, env, true)
					if err != nil {
						return err
					}
					defer rt.Close()

					pending, err := rt.session.CopyEntry(c.Context, n-1)
					if err != nil {
						return err
					}

					entry, _ := rt.session.Store().Get(n - 1)
					fmt.Fprintln(c.App.Writer, entry.Output)

					return finishCopy(c.Context, env, pending, c.Bool("hold") || rt.cfg.Clipboard.Hold)
				},
			},
			{
				Name:  "clear",
				Usage: "Delete all stored conversions",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Confirm deletion",
					},
				},
				Action: func(c *cli.Context) error {
					if !c.Bool("yes") {
						return fmt.Errorf("refusing to clear history without --yes")
					}

					rt, err := openRuntime(c, env, false)
					if err != nil {
						return err
					}
					defer rt.Close()

					count := rt.session.Store().Len()
					if err := rt.session.Store().Clear(c.Context); err != nil {
						return err
					}

					fmt.Fprintf(c.App.Writer, "Cleared %d conversion(s)\n", count)
					return nil
				},
			},
		},
	}
}
