package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	DefaultLogFile = "listfmt.log"
)

type Logger struct {
	*slog.Logger
	file   *os.File
	logDir string
}

// New logs compact lines to stderr so stdout stays free for output.
func New(level slog.Level) *Logger {
	return NewWithWriter(os.Stderr, level)
}

func NewWithWriter(w io.Writer, level slog.Level) *Logger {
	handler := newCompactHandler(w, level)
	return &Logger{Logger: slog.New(handler)}
}

func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// NewFileLogger appends JSON records to listfmt.log in logDir. Unless
// fileOnly is set, compact lines are also written to stderr.
func NewFileLogger(logDir string, level slog.Level, fileOnly bool) (*Logger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, err
	}

	logPath := filepath.Join(logDir, DefaultLogFile)
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{
		Level:     level,
		AddSource: false,
	})

	if fileOnly {
		return &Logger{
			Logger: slog.New(fileHandler),
			file:   file,
			logDir: logDir,
		}, nil
	}

	handler := &multiHandler{
		handlers: []slog.Handler{newCompactHandler(os.Stderr, level), fileHandler},
	}

	return &Logger{
		Logger: slog.New(handler),
		file:   file,
		logDir: logDir,
	}, nil
}

func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// Printf lets the logger report storage migrations.
func (l *Logger) Printf(format string, v ...interface{}) {
	l.Debug(fmt.Sprintf(format, v...))
}

// With returns a logger carrying attrs on every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger: l.Logger.With(args...),
		file:   l.file,
		logDir: l.logDir,
	}
}

type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, record.Level) {
			if err := handler.Handle(ctx, record.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}

func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func Default() *Logger {
	return New(slog.LevelInfo)
}

type compactHandler struct {
	writer io.Writer
	level  slog.Level
	attrs  []slog.Attr
	mu     *sync.Mutex
}

func newCompactHandler(w io.Writer, level slog.Level) *compactHandler {
	return &compactHandler{
		writer: w,
		level:  level,
		mu:     &sync.Mutex{},
	}
}

func (h *compactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *compactHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	timeStr := r.Time.Format("15:04:05")

	fmt.Fprintf(h.writer, "%s [%s] %s", timeStr, r.Level.String(), r.Message)

	for _, a := range h.attrs {
		fmt.Fprintf(h.writer, " %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(h.writer, " %s=%v", a.Key, a.Value)
		return true
	})

	fmt.Fprintln(h.writer)
	return nil
}

func (h *compactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &compactHandler{
		writer: h.writer,
		level:  h.level,
		attrs:  merged,
		mu:     h.mu,
	}
}

// Groups are flattened in compact output.
func (h *compactHandler) WithGroup(name string) slog.Handler {
	return h
}
