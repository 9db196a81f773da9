package sensor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutorBoundsConcurrency(t *testing.T) {
	exec := NewExecutor(2)

	var running, peak atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = exec.Do(context.Background(), func() error {
				n := running.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				running.Add(-1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestExecutorReturnsFnError(t *testing.T) {
	exec := NewExecutor(1)
	boom := errors.New("boom")
	require.ErrorIs(t, exec.Do(context.Background(), func() error { return boom }), boom)
}

func TestExecutorCancelledWhileWaiting(t *testing.T) {
	exec := NewExecutor(1)

	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = exec.Do(context.Background(), func() error {
			close(done)
			<-release
			return nil
		})
	}()
	<-done

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := exec.Do(ctx, func() error { return nil })
	require.ErrorIs(t, err, context.Canceled)
	close(release)
}
