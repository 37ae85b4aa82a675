package commands

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"listfmt/internal/config"
)

func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect listfmt configuration",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write a default config file",
				Action: func(c *cli.Context) error {
					path, err := resolveConfigPath(c)
					if err != nil {
						return err
					}

					if err := config.InitConfig(path); err != nil {
						return err
					}

					fmt.Fprintf(c.App.Writer, "Created config file at %s\n", path)
					return nil
				},
			},
			{
				Name:  "show",
				Usage: "Display the effective configuration",
				Action: func(c *cli.Context) error {
					cfg, path, err := loadConfig(c)
					if err != nil {
						return err
					}

					if _, err := os.Stat(path); os.IsNotExist(err) {
						fmt.Fprintf(c.App.Writer, "# %s not found, showing defaults\n", path)
					}

					data, err := yaml.Marshal(cfg)
					if err != nil {
						return fmt.Errorf("marshal config: %w", err)
					}
					fmt.Fprint(c.App.Writer, string(data))
					return nil
				},
			},
			{
				Name:  "path",
				Usage: "Show config file path",
				Action: func(c *cli.Context) error {
					path, err := resolveConfigPath(c)
					if err != nil {
						return fmt.Errorf("get config path: %w", err)
					}

					fmt.Fprintln(c.App.Writer, path)
					return nil
				},
			},
		},
	}
}
