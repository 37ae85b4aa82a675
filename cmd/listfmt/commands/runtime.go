package commands

import (
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"

	"listfmt/internal/config"
	"listfmt/internal/history"
	"listfmt/internal/logger"
	"listfmt/internal/notify"
	"listfmt/internal/session"
	"listfmt/internal/storage"
)

// runtime is everything a command needs once config is resolved.
type runtime struct {
	cfg        *config.Config
	configPath string
	dataDir    string
	log        *logger.Logger
	kv         storage.KV
	printer    *notify.Printer
	session    *session.Session
}

func resolveConfigPath(c *cli.Context) (string, error) {
	if path := c.String("config"); path != "" {
		return path, nil
	}
	return config.ConfigPath()
}

func loadConfig(c *cli.Context) (*config.Config, string, error) {
	path, err := resolveConfigPath(c)
	if err != nil {
		return nil, "", err
	}

	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, "", err
	}

	if dir := c.String("data-dir"); dir != "" {
		cfg.DataDir = dir
	}
	if backend := c.String("backend"); backend != "" {
		cfg.Storage.Backend = backend
	}
	if c.Bool("ephemeral") {
		cfg.Storage.Backend = storage.BackendMemory
	}
	if level := c.String("log-level"); level != "" {
		cfg.Log.Level = level
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func newLogger(cfg *config.Config, dataDir string) (*logger.Logger, error) {
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if cfg.Log.File {
		return logger.NewFileLogger(dataDir, level, false)
	}
	return logger.New(level), nil
}

// openRuntime loads config, opens the history backend and starts a
// session. withClipboard is false for commands that never copy.
func openRuntime(c *cli.Context, env *Env, withClipboard bool) (*runtime, error) {
	return openRuntimeNotifying(c, env, withClipboard, nil)
}

// openRuntimeNotifying is openRuntime with copy notifications sent to
// notifier instead of straight to stderr.
func openRuntimeNotifying(c *cli.Context, env *Env, withClipboard bool, notifier notify.Notifier) (*runtime, error) {
	cfg, path, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return nil, err
	}

	log, err := newLogger(cfg, dataDir)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	id := session.NewID()
	kv, err := storage.Open(storage.Options{
		Backend: cfg.Storage.Backend,
		DataDir: dataDir,
		Writer:  id,
		Logger:  log,
	})
	if err != nil {
		log.Close()
		return nil, err
	}

	rt := &runtime{
		cfg:        cfg,
		configPath: path,
		dataDir:    dataDir,
		log:        log,
		kv:         kv,
		printer:    notify.NewPrinter(env.Stderr, env.Color),
	}

	if notifier == nil {
		notifier = rt.printer
	}

	sessCfg := session.Config{
		ID:       id,
		Defaults: cfg.Defaults,
		History:  history.NewStore(kv, cfg.Storage.Key, log),
		Notifier: notifier,
		Logger:   log,
	}
	if withClipboard && cfg.Clipboard.Enabled {
		sessCfg.Clipboard = env.NewClipboard()
	}

	rt.session = session.New(sessCfg)
	if err := rt.session.Start(c.Context); err != nil {
		rt.Close()
		return nil, err
	}

	log.Debug("runtime ready",
		slog.String("backend", kv.Backend()),
		slog.String("data_dir", dataDir),
		slog.String("session", id))
	return rt, nil
}

func (r *runtime) Close() {
	if err := r.kv.Close(); err != nil {
		r.log.Warn("close storage", slog.String("error", err.Error()))
	}
	r.log.Close()
}
