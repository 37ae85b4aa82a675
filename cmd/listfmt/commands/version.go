package commands

import (
	"fmt"
	goruntime "runtime"

	"github.com/urfave/cli/v2"
)

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "short",
				Aliases: []string{"s"},
				Usage:   "Show only the version",
			},
		},
		Action: func(c *cli.Context) error {
			w := c.App.Writer
			if c.Bool("short") {
				fmt.Fprintln(w, Version)
				return nil
			}

			fmt.Fprintf(w, "listfmt version: %s\n", Version)
			fmt.Fprintf(w, "git commit:      %s\n", GitCommit)
			fmt.Fprintf(w, "build time:      %s\n", BuildTime)
			fmt.Fprintf(w, "go version:      %s\n", goruntime.Version())
			fmt.Fprintf(w, "platform:        %s/%s\n", goruntime.GOOS, goruntime.GOARCH)
			return nil
		},
	}
}
