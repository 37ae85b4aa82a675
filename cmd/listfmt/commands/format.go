package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"listfmt/internal/clipboard"
	"listfmt/internal/formatting"
)

func formatFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "delimiter",
			Aliases: []string{"d"},
			Usage:   "Split input on this string (default from config)",
		},
		&cli.StringFlag{
			Name:    "start",
			Aliases: []string{"s"},
			Usage:   "String placed before every item",
		},
		&cli.StringFlag{
			Name:    "end",
			Aliases: []string{"e"},
			Usage:   "String placed after every item",
		},
		&cli.BoolFlag{
			Name:    "newline",
			Aliases: []string{"n"},
			Usage:   "Split on new lines and ignore --delimiter",
		},
	}
}

// optionsFromFlags overrides base with every formatting flag the user set.
func optionsFromFlags(c *cli.Context, base formatting.Options) formatting.Options {
	opts := base
	if c.IsSet("delimiter") {
		opts.Delimiter = c.String("delimiter")
	}
	if c.IsSet("start") {
		opts.StartChar = c.String("start")
	}
	if c.IsSet("end") {
		opts.EndChar = c.String("end")
	}
	if c.IsSet("newline") {
		opts.UseNewlineDelimiter = c.Bool("newline")
	}
	return opts
}

func FormatCommand(env *Env) *cli.Command {
	flags := append(formatFlags(),
		&cli.BoolFlag{
			Name:  "no-copy",
			Usage: "Print the result without copying it",
		},
		&cli.BoolFlag{
			Name:    "paste",
			Aliases: []string{"p"},
			Usage:   "Read input from the clipboard",
		},
		&cli.BoolFlag{
			Name:  "hold",
			Usage: "Stay running until another program takes the clipboard",
		},
	)

	return &cli.Command{
		Name:      "format",
		Aliases:   []string{"f"},
		Usage:     "Format a list, copy it and add it to history",
		ArgsUsage: "[text...]  (reads stdin when no text is given)",
		Flags:     flags,
		Action: func(c *cli.Context) error {
			rt, err := openRuntime(c, env, !c.Bool("no-copy"))
			if err != nil {
				return err
			}
			defer rt.Close()

			input, err := readInput(c, env)
			if err != nil {
				return err
			}

			rt.session.SetOptions(optionsFromFlags(c, rt.cfg.Defaults))

			conv, pending, err := rt.session.Convert(c.Context, input)
			fmt.Fprintln(c.App.Writer, conv.Output)
			if err != nil {
				return err
			}

			return finishCopy(c.Context, env, pending, c.Bool("hold") || rt.cfg.Clipboard.Hold)
		},
	}
}

func readInput(c *cli.Context, env *Env) (string, error) {
	if c.Bool("paste") {
		if c.NArg() > 0 {
			return "", fmt.Errorf("--paste cannot be combined with text arguments")
		}
		text, err := env.NewClipboard().ReadText(c.Context)
		if err != nil {
			return "", err
		}
		return text, nil
	}

	if c.NArg() > 0 {
		return strings.Join(c.Args().Slice(), " "), nil
	}

	data, err := io.ReadAll(c.App.Reader)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return trimFinalNewline(string(data)), nil
}

// trimFinalNewline drops the single line break shells and editors append.
// A carriage return is only removed as part of a trailing CRLF.
func trimFinalNewline(s string) string {
	if !strings.HasSuffix(s, "\n") {
		return s
	}
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

// finishCopy waits for a pending clipboard write so its notification is
// shown before the process exits. History is already committed.
func finishCopy(ctx context.Context, env *Env, pending *clipboard.Pending, hold bool) error {
	if pending == nil {
		return nil
	}

	if err := pending.Wait(ctx); err != nil || !hold {
		return nil
	}

	fmt.Fprintln(env.Stderr, "Holding clipboard until it changes (Ctrl+C to stop)")
	select {
	case <-pending.Changed():
	case <-ctx.Done():
	}
	return nil
}
