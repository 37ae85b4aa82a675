package commands

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"listfmt/internal/clipboard"
	"listfmt/internal/config"
	"listfmt/internal/formatting"
	"listfmt/internal/notify"
)

const watchPrompt = "> "

func WatchCommand(env *Env) *cli.Command {
	return &cli.Command{
		Name:    "watch",
		Aliases: []string{"w"},
		Usage:   "Format lists interactively, reloading defaults when the config changes",
		Description: `Each line of input is formatted as one list. With --newline (or
use_newline in the config) lines are collected until a blank line and the
whole block is formatted with one item per line.`,
		Flags: append(formatFlags(),
			&cli.BoolFlag{
				Name:  "no-copy",
				Usage: "Print results without copying them",
			},
		),
		Action: func(c *cli.Context) error {
			queue := notify.NewQueue()
			rt, err := openRuntimeNotifying(c, env, !c.Bool("no-copy"), queue)
			if err != nil {
				return err
			}
			defer rt.Close()

			rt.session.SetOptions(optionsFromFlags(c, rt.cfg.Defaults))

			ctx, cancel := context.WithCancel(c.Context)
			defer cancel()

			watcher, err := config.NewWatcher(rt.configPath, func(cfg *config.Config) {
				rt.session.SetOptions(optionsFromFlags(c, cfg.Defaults))
			}, rt.log.Logger)
			if err != nil {
				rt.log.Warn("config hot reload disabled", slog.String("error", err.Error()))
			} else {
				defer watcher.Close()
				go func() {
					if err := watcher.Start(ctx); err != nil {
						rt.log.Error("config watcher error", slog.String("error", err.Error()))
					}
				}()
			}

			err = runWatchLoop(ctx, c, env, rt, queue)
			rt.log.Debug("watch finished",
				slog.Int("history", rt.session.Store().Len()),
				slog.Duration("elapsed", time.Since(rt.session.StartTime)))
			return err
		},
	}
}

func runWatchLoop(ctx context.Context, c *cli.Context, env *Env, rt *runtime, queue *notify.Queue) error {
	scanner := bufio.NewScanner(c.App.Reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var block []string
	prompt := func() {
		queue.FlushTo(rt.printer)
		if env.Interactive {
			fmt.Fprint(env.Stderr, watchPrompt)
		}
	}

	convert := func(input string) error {
		conv, pending, err := rt.session.Convert(ctx, input)
		fmt.Fprintln(c.App.Writer, conv.Output)
		if err != nil {
			return err
		}
		waitPending(ctx, pending)
		return nil
	}

	prompt()
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")

		if !rt.session.Options().UseNewlineDelimiter {
			if strings.TrimSpace(line) != "" {
				if err := convert(line); err != nil {
					return err
				}
			}
			prompt()
			continue
		}

		if strings.TrimSpace(line) != "" {
			block = append(block, line)
			continue
		}
		if len(block) > 0 {
			if err := convert(strings.Join(block, formatting.NewlineDelimiter)); err != nil {
				return err
			}
			block = nil
		}
		prompt()
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	if len(block) > 0 {
		if err := convert(strings.Join(block, formatting.NewlineDelimiter)); err != nil {
			return err
		}
	}
	queue.FlushTo(rt.printer)
	return nil
}

// waitPending lets the copy finish so its notification lands before the
// next prompt.
func waitPending(ctx context.Context, pending *clipboard.Pending) {
	if pending == nil {
		return
	}
	_ = pending.Wait(ctx)
}
