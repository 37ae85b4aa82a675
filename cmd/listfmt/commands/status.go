package commands

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"listfmt/internal/formatting"
	"listfmt/internal/history"
	"listfmt/internal/storage"
)

func StatusCommand(env *Env) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show configuration and history store details",
		Action: func(c *cli.Context) error {
			rt, err := openRuntime(c, env, false)
			if err != nil {
				return err
			}
			defer rt.Close()

			w := c.App.Writer
			opts := rt.cfg.Defaults

			fmt.Fprintln(w, "listfmt status")
			fmt.Fprintln(w, "==============")
			fmt.Fprintln(w)
			fmt.Fprintf(w, "Config file:    %s\n", rt.configPath)
			fmt.Fprintf(w, "Data directory: %s\n", rt.dataDir)
			fmt.Fprintf(w, "Backend:        %s\n", rt.kv.Backend())
			if versioned, ok := rt.kv.(schemaVersioner); ok {
				version, err := versioned.SchemaVersion()
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "Schema version: %d\n", version)
			}
			fmt.Fprintf(w, "History key:    %s\n", rt.session.Store().Key())
			fmt.Fprintf(w, "Clipboard:      %s\n", enabledString(rt.cfg.Clipboard.Enabled))
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Defaults:")
			fmt.Fprintf(w, "  delimiter:  %q\n", formatting.EffectiveDelimiter(opts))
			fmt.Fprintf(w, "  start char: %q\n", opts.StartChar)
			fmt.Fprintf(w, "  end char:   %q\n", opts.EndChar)
			fmt.Fprintln(w)
			fmt.Fprintf(w, "History: %d of %d entries\n", rt.session.Store().Len(), history.MaxHistory)
			if latest, err := rt.session.Store().Get(0); err == nil {
				fmt.Fprintf(w, "Latest:  %s\n", formatting.TruncateToFirstLine(latest.Output, 60))
			}

			meta, err := rt.kv.Stat(c.Context, rt.session.Store().Key())
			switch {
			case errors.Is(err, storage.ErrNotFound):
				fmt.Fprintln(w, "Snapshot: none")
			case errors.Is(err, storage.ErrCorrupt):
				fmt.Fprintln(w, "Snapshot: unreadable, replaced on the next conversion")
			case err != nil:
				return err
			default:
				fmt.Fprintf(w, "Snapshot: %d bytes, written %s", meta.Size, meta.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
				if meta.Writer != "" {
					fmt.Fprintf(w, " by session %s", shortID(meta.Writer))
				}
				fmt.Fprintln(w)
			}

			return nil
		},
	}
}

type schemaVersioner interface {
	SchemaVersion() (int, error)
}

func enabledString(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
