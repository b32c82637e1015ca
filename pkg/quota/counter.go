package quota

import (
	"context"
	"sync/atomic"
	"time"
)

// Counter is the shared budget state behind a Governor.
type Counter interface {
	// Add adds n if the result stays within ceiling and reports the new
	// value. When it would not, the counter is left alone and the current
	// value is returned with ok=false. Check and add are one atomic step.
	Add(ctx context.Context, n, ceiling int64) (used int64, ok bool, err error)
	// Load returns the current value.
	Load(ctx context.Context) (int64, error)
	// Reset sets the value to zero.
	Reset(ctx context.Context) error
}

// ExpiringCounter is a Counter whose value expires by itself a fixed time
// after the first charge of each window. A Governor over one with a positive
// Expiry runs no reset task of its own.
type ExpiringCounter interface {
	Counter
	Expiry() time.Duration
	// TTL returns the time left in the running window, zero when idle.
	TTL(ctx context.Context) (time.Duration, error)
}

// MemoryCounter is an in-process Counter.
type MemoryCounter struct {
	n atomic.Int64
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{}
}

func (c *MemoryCounter) Add(_ context.Context, n, ceiling int64) (int64, bool, error) {
	for {
		cur := c.n.Load()
		if n > ceiling-cur {
			return cur, false, nil
		}
		if c.n.CompareAndSwap(cur, cur+n) {
			return cur + n, true, nil
		}
	}
}

func (c *MemoryCounter) Load(context.Context) (int64, error) {
	return c.n.Load(), nil
}

func (c *MemoryCounter) Reset(context.Context) error {
	c.n.Store(0)
	return nil
}
