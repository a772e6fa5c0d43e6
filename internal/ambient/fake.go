package ambient

import (
	"context"
	"sync"
)

// Fake is a test double that replays scripted samples.
type Fake struct {
	// Samples are sent in order, then the stream is closed.
	Samples []Sample

	// StartErr, if set, is returned by Start.
	StartErr error

	// Hold keeps the stream open after the last sample until Stop.
	Hold bool

	mu      sync.Mutex
	stopped bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewFake creates a Fake with the given samples.
func NewFake(samples ...Sample) *Fake {
	return &Fake{Samples: samples}
}

// Start replays the samples on a new channel.
func (f *Fake) Start(ctx context.Context) (<-chan Sample, error) {
	if f.StartErr != nil {
		return nil, f.StartErr
	}

	ctx, cancel := context.WithCancel(ctx)
	out := make(chan Sample)
	done := make(chan struct{})

	f.mu.Lock()
	f.cancel = cancel
	f.done = done
	f.mu.Unlock()

	go func() {
		defer close(done)
		defer close(out)
		for _, s := range f.Samples {
			select {
			case out <- s:
			case <-ctx.Done():
				return
			}
		}
		if f.Hold {
			<-ctx.Done()
		}
	}()
	return out, nil
}

// Stop cancels the replay and waits for it to end.
func (f *Fake) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stopped = true
	if f.cancel != nil {
		f.cancel()
		<-f.done
		f.cancel = nil
	}
	return nil
}

// Stopped reports whether Stop was called.
func (f *Fake) Stopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}
