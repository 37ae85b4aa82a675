package notify

import (
	"bytes"
	"testing"
	"time"
)

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false)

	p.Notify(Success(MsgOutputCopied, ConvertDuration))
	p.Notify(Error(MsgCopyFailed, ConvertDuration))

	want := "✓ Output copied to clipboard!\n✗ Failed to copy clipboard\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestPrinterColor(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, true).Notify(Error(MsgCopyFailed, CopyDuration))

	want := "\033[31m✗ Failed to copy clipboard\033[0m\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestQueueExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	q := NewQueue()
	q.now = func() time.Time { return now }

	q.Notify(Success(MsgEntryCopied, CopyDuration))
	q.Notify(Success(MsgOutputCopied, ConvertDuration))
	q.Notify(Notification{Level: LevelError, Message: "sticky"})

	now = now.Add(2500 * time.Millisecond)
	active := q.Drain()
	if len(active) != 2 || active[0].Message != MsgOutputCopied || active[1].Message != "sticky" {
		t.Fatalf("after 2.5s Drain() = %+v", active)
	}

	if got := q.Drain(); len(got) != 0 {
		t.Errorf("second Drain() = %+v, want empty", got)
	}
}

func TestQueueFlushTo(t *testing.T) {
	q := NewQueue()
	q.Notify(Success(MsgOutputCopied, ConvertDuration))

	var buf bytes.Buffer
	q.FlushTo(NewPrinter(&buf, false))

	if buf.String() != "✓ Output copied to clipboard!\n" {
		t.Errorf("got %q", buf.String())
	}
	if len(q.Drain()) != 0 {
		t.Error("FlushTo should empty the queue")
	}
}
