package clipboard

import "context"

// Pending tracks a clipboard write issued by CopyAsync.
type Pending struct {
	done    chan struct{}
	changed <-chan struct{}
	err     error
}

// Done is closed after the write finished and its continuation ran.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Err reports the write result. Only meaningful after Done is closed.
func (p *Pending) Err() error {
	return p.err
}

// Changed is closed when another program takes over the clipboard. It is
// nil if the write failed or has not finished.
func (p *Pending) Changed() <-chan struct{} {
	return p.changed
}

// Wait blocks until the write finished or ctx is done.
func (p *Pending) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CopyAsync issues the write on its own goroutine and returns at once.
// Exactly one of onSuccess or onFailure runs when it completes; either may
// be nil. A write in flight is never canceled.
func CopyAsync(w Writer, text string, onSuccess func(), onFailure func(error)) *Pending {
	p := &Pending{done: make(chan struct{})}

	go func() {
		defer close(p.done)

		changed, err := w.WriteText(context.Background(), text)
		if err != nil {
			p.err = err
			if onFailure != nil {
				onFailure(err)
			}
			return
		}

		p.changed = changed
		if onSuccess != nil {
			onSuccess()
		}
	}()

	return p
}
