package sensor

import "context"

// DefaultExecutorSlots caps concurrent remote calls in the poll loop.
const DefaultExecutorSlots = 4

// Executor bounds the number of blocking calls running at once, standing in
// for the host platform's worker-pool offload.
type Executor struct {
	slots chan struct{}
}

// NewExecutor creates an executor with n slots; n < 1 uses the default.
func NewExecutor(n int) *Executor {
	if n < 1 {
		n = DefaultExecutorSlots
	}
	return &Executor{slots: make(chan struct{}, n)}
}

// Do runs fn once a slot is free. It returns the context error if the
// context ends while waiting, otherwise fn's error.
func (e *Executor) Do(ctx context.Context, fn func() error) error {
	select {
	case e.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-e.slots }()
	return fn()
}
