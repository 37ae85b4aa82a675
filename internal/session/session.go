// Package session holds the state of one formatting session: the current
// options, the last output, and the conversion history.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"listfmt/internal/clipboard"
	"listfmt/internal/formatting"
	"listfmt/internal/history"
	"listfmt/internal/logger"
	"listfmt/internal/notify"
)

// NewID returns a fresh session identifier.
func NewID() string {
	return uuid.New().String()
}

type Config struct {
	ID       string
	Defaults formatting.Options
	History  *history.Store
	// Clipboard may be nil, in which case nothing is copied.
	Clipboard clipboard.Writer
	Notifier  notify.Notifier
	Logger    *logger.Logger
}

// Session is owned by a single caller; its methods are safe to call from
// the clipboard continuations.
type Session struct {
	ID        string
	StartTime time.Time

	mu      sync.Mutex
	options formatting.Options
	output  string

	history   *history.Store
	clipboard clipboard.Writer
	notifier  notify.Notifier
	logger    *logger.Logger
	now       func() time.Time
}

func New(cfg Config) *Session {
	id := cfg.ID
	if id == "" {
		id = NewID()
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	notifier := cfg.Notifier
	if notifier == nil {
		notifier = notify.NewQueue()
	}

	return &Session{
		ID:        id,
		StartTime: time.Now().UTC(),
		options:   cfg.Defaults,
		history:   cfg.History,
		clipboard: cfg.Clipboard,
		notifier:  notifier,
		logger:    log.With(slog.String("session", id)),
		now:       time.Now,
	}
}

// Start loads the persisted history. It must run before Convert.
func (s *Session) Start(ctx context.Context) error {
	if err := s.history.Load(ctx); err != nil {
		return err
	}
	s.logger.Debug("session started", slog.Int("history", s.history.Len()))
	return nil
}

// Convert formats input with the current options, records the result and
// starts copying it to the clipboard without waiting for the copy. The
// returned Pending is nil when no clipboard is configured or the record
// could not be persisted.
func (s *Session) Convert(ctx context.Context, input string) (history.Conversion, *clipboard.Pending, error) {
	s.mu.Lock()
	opts := s.options
	output := formatting.Format(input, opts)
	s.output = output
	s.mu.Unlock()

	conv := history.NewConversion(input, output, s.now())

	if err := s.history.Record(ctx, conv); err != nil {
		s.logger.Error("failed to record conversion", slog.String("error", err.Error()))
		return conv, nil, err
	}

	s.logger.Debug("converted",
		slog.Int("input_bytes", len(input)),
		slog.Int("output_bytes", len(output)),
		slog.Bool("newline", opts.UseNewlineDelimiter))

	return conv, s.copy(output, notify.MsgOutputCopied, notify.ConvertDuration), nil
}

// CopyEntry copies the output of history entry i (0 is the newest).
func (s *Session) CopyEntry(ctx context.Context, i int) (*clipboard.Pending, error) {
	entry, err := s.history.Get(i)
	if err != nil {
		return nil, err
	}
	if s.clipboard == nil {
		return nil, fmt.Errorf("copy entry %d: %w", i, clipboard.ErrDisabled)
	}
	return s.copy(entry.Output, notify.MsgEntryCopied, notify.CopyDuration), nil
}

func (s *Session) copy(text, successMsg string, d time.Duration) *clipboard.Pending {
	if s.clipboard == nil {
		return nil
	}

	return clipboard.CopyAsync(s.clipboard, text,
		func() {
			s.notifier.Notify(notify.Success(successMsg, d))
		},
		func(err error) {
			s.logger.Error("could not copy text", slog.String("error", err.Error()))
			s.notifier.Notify(notify.Error(notify.MsgCopyFailed, d))
		},
	)
}

func (s *Session) SetOptions(opts formatting.Options) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options = opts
}

func (s *Session) Options() formatting.Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.options
}

func (s *Session) Output() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.output
}

func (s *Session) History() []history.Conversion {
	return s.history.Entries()
}

func (s *Session) Store() *history.Store {
	return s.history
}
