package ipfs

import (
	"context"
	"sync"
	"sync/atomic"
)

// fakeTransport scripts upload outcomes per call and records concurrency so
// tests can assert the in-flight ceiling.
type fakeTransport struct {
	mu    sync.Mutex
	calls int

	inFlight    int32
	maxInFlight int32

	// fn receives the 1-based call number and the payload.
	fn func(call int, ctx context.Context, data []byte) (string, error)
}

func (t *fakeTransport) Upload(ctx context.Context, data []byte, pin bool) (string, error) {
	current := atomic.AddInt32(&t.inFlight, 1)
	defer atomic.AddInt32(&t.inFlight, -1)
	for {
		max := atomic.LoadInt32(&t.maxInFlight)
		if current <= max || atomic.CompareAndSwapInt32(&t.maxInFlight, max, current) {
			break
		}
	}

	t.mu.Lock()
	t.calls++
	call := t.calls
	fn := t.fn
	t.mu.Unlock()

	return fn(call, ctx, data)
}

func (t *fakeTransport) callCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

func (t *fakeTransport) observedMaxInFlight() int {
	return int(atomic.LoadInt32(&t.maxInFlight))
}
