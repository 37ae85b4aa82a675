// Package notify shows short-lived, non-blocking status messages.
package notify

import (
	"fmt"
	"io"
	"sync"
	"time"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

const (
	ConvertDuration = 3 * time.Second
	CopyDuration    = 2 * time.Second

	MsgOutputCopied = "Output copied to clipboard!"
	MsgEntryCopied  = "Copied to clipboard!"
	MsgCopyFailed   = "Failed to copy clipboard"
)

type Notification struct {
	Level    Level
	Message  string
	Duration time.Duration
	At       time.Time
}

// Notifier receives notifications from any goroutine.
type Notifier interface {
	Notify(n Notification)
}

// Printer writes each notification as one line.
type Printer struct {
	mu    sync.Mutex
	w     io.Writer
	color bool
}

func NewPrinter(w io.Writer, color bool) *Printer {
	return &Printer{w: w, color: color}
}

func (p *Printer) Notify(n Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()

	symbol := "✓"
	code := "32"
	if n.Level == LevelError {
		symbol = "✗"
		code = "31"
	}

	if p.color {
		fmt.Fprintf(p.w, "\033[%sm%s %s\033[0m\n", code, symbol, n.Message)
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", symbol, n.Message)
}

// Queue keeps notifications that have not yet expired.
type Queue struct {
	mu    sync.Mutex
	items []Notification
	now   func() time.Time
}

func NewQueue() *Queue {
	return &Queue{now: time.Now}
}

func (q *Queue) Notify(n Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if n.At.IsZero() {
		n.At = q.now()
	}
	q.items = append(q.items, n)
}

// Drain empties the queue and returns the notifications that have not
// expired yet, oldest first. A zero Duration never expires.
func (q *Queue) Drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	var active []Notification
	for _, n := range q.items {
		if n.Duration <= 0 || now.Before(n.At.Add(n.Duration)) {
			active = append(active, n)
		}
	}
	q.items = nil
	return active
}

// FlushTo drains the queue into n.
func (q *Queue) FlushTo(n Notifier) {
	for _, item := range q.Drain() {
		n.Notify(item)
	}
}

func Success(message string, d time.Duration) Notification {
	return Notification{Level: LevelSuccess, Message: message, Duration: d}
}

func Error(message string, d time.Duration) Notification {
	return Notification{Level: LevelError, Message: message, Duration: d}
}
