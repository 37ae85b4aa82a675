// Package clipboard writes plain text to the system clipboard.
package clipboard

import (
	"context"
	"errors"
	"sync"

	"golang.design/x/clipboard"

	apperrors "listfmt/internal/errors"
)

var (
	ErrWriteRejected = errors.New("clipboard rejected the write")
	// ErrDisabled is returned when copying is turned off.
	ErrDisabled = errors.New("clipboard disabled")
)

// Writer places text on a clipboard. The returned channel is closed once
// another program replaces the content.
type Writer interface {
	WriteText(ctx context.Context, text string) (<-chan struct{}, error)
}

// Reader returns the current clipboard text.
type Reader interface {
	ReadText(ctx context.Context) (string, error)
}

// System is backed by the OS clipboard.
type System struct {
	once    sync.Once
	initErr error
}

func NewSystem() *System {
	return &System{}
}

func (s *System) init() error {
	s.once.Do(func() {
		s.initErr = clipboard.Init()
	})
	return apperrors.WrapClipboard("init", s.initErr)
}

func (s *System) WriteText(ctx context.Context, text string) (<-chan struct{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.WrapClipboard("write", err)
	}
	if err := s.init(); err != nil {
		return nil, err
	}

	changed := clipboard.Write(clipboard.FmtText, []byte(text))
	if changed == nil {
		return nil, apperrors.WrapClipboard("write", ErrWriteRejected)
	}
	return changed, nil
}

func (s *System) ReadText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", apperrors.WrapClipboard("read", err)
	}
	if err := s.init(); err != nil {
		return "", err
	}
	return string(clipboard.Read(clipboard.FmtText)), nil
}

var (
	_ Writer = (*System)(nil)
	_ Reader = (*System)(nil)
)
