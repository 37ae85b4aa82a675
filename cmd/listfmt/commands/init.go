package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"listfmt/internal/config"
)

func InitCommand(env *Env) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create the config file and history store",
		Action: func(c *cli.Context) error {
			path, err := resolveConfigPath(c)
			if err != nil {
				return err
			}

			if err := config.InitConfig(path); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Created config file at %s\n", path)

			rt, err := openRuntime(c, env, false)
			if err != nil {
				return err
			}
			defer rt.Close()

			fmt.Fprintf(c.App.Writer, "History store (%s) ready in %s\n", rt.kv.Backend(), rt.dataDir)
			fmt.Fprintln(c.App.Writer)
			fmt.Fprintln(c.App.Writer, "Try it:")
			fmt.Fprintln(c.App.Writer, "  echo 'a, b, c' | listfmt format")
			return nil
		},
	}
}
