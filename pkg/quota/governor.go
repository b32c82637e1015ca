// Package quota gates outgoing requests against a fixed-window budget.
//
// A Governor counts authorized requests and refuses authorization once the
// ceiling is reached. A background task resets the count every window. The
// task shares only the counter with the Governor, so it stops on Close or
// once the Governor itself is garbage collected. An ExpiringCounter keeps
// its own window and gets no reset task.
package quota

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/pario-ai/oars/pkg/metrics"
)

var (
	// ErrQuotaExceeded is returned when an authorization would pass the ceiling.
	ErrQuotaExceeded = errors.New("quota exceeded")
	// ErrInvalidAmount is returned for negative authorization amounts.
	ErrInvalidAmount = errors.New("invalid authorization amount")
)

// TickerFunc starts a periodic tick source and returns its channel and a
// stop function.
type TickerFunc func(d time.Duration) (<-chan time.Time, func())

func realTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Status is a snapshot of the budget.
type Status struct {
	Ceiling   int64         `json:"ceiling"`
	Used      int64         `json:"used"`
	Remaining int64         `json:"remaining"`
	Window    time.Duration `json:"window"`
	LastReset time.Time     `json:"last_reset"`
	NextReset time.Time     `json:"next_reset"`
}

// Governor authorizes requests against a ceiling per window.
type Governor struct {
	shared  *shared
	ceiling int64
	window  time.Duration

	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

// shared is everything the reset task may touch. It must never point back
// at the Governor.
type shared struct {
	counter   Counter
	logger    *zap.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
	lastReset atomic.Int64
}

type options struct {
	ctx     context.Context
	counter Counter
	logger  *zap.Logger
	metrics *metrics.Metrics
	ticker  TickerFunc
	now     func() time.Time
}

// Option configures a Governor.
type Option func(*options)

// WithCounter replaces the in-memory counter.
func WithCounter(c Counter) Option {
	return func(o *options) { o.counter = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTicker replaces the wall-clock ticker driving the reset task.
func WithTicker(t TickerFunc) Option {
	return func(o *options) { o.ticker = t }
}

// WithClock replaces time.Now for status reporting.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithContext ties the reset task to ctx in addition to Close.
func WithContext(ctx context.Context) Option {
	return func(o *options) { o.ctx = ctx }
}

// New creates a Governor with a zero count and starts its reset task.
// Call Close to stop the task deterministically.
func New(ceiling int64, window time.Duration, opts ...Option) *Governor {
	o := options{
		ctx:    context.Background(),
		ticker: realTicker,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.counter == nil {
		o.counter = NewMemoryCounter()
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	s := &shared{
		counter: o.counter,
		logger:  o.logger,
		metrics: o.metrics,
		now:     o.now,
	}
	s.lastReset.Store(o.now().UnixNano())

	ctx, cancel := context.WithCancel(o.ctx)
	g := &Governor{
		shared:  s,
		ceiling: ceiling,
		window:  window,
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	// A non-positive window disables the scheduled reset; Reset still works.
	var tick <-chan time.Time
	stop := func() {}
	if window > 0 && !serverWindow(o.counter) {
		tick, stop = o.ticker(window)
	}
	go s.run(ctx, tick, stop, g.done)

	runtime.AddCleanup(g, func(cancel context.CancelFunc) { cancel() }, cancel)
	return g
}

func serverWindow(c Counter) bool {
	ec, ok := c.(ExpiringCounter)
	return ok && ec.Expiry() > 0
}

// Ceiling returns the maximum count per window.
func (g *Governor) Ceiling() int64 { return g.ceiling }

// Window returns the reset period.
func (g *Governor) Window() time.Duration { return g.window }

// Authorize charges one request.
func (g *Governor) Authorize(ctx context.Context) error {
	return g.AuthorizeN(ctx, 1)
}

// AuthorizeN charges n requests, or returns ErrQuotaExceeded and charges
// nothing if that would pass the ceiling.
func (g *Governor) AuthorizeN(ctx context.Context, n int64) error {
	if n < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidAmount, n)
	}
	used, ok, err := g.shared.counter.Add(ctx, n, g.ceiling)
	if err != nil {
		return fmt.Errorf("authorize: %w", err)
	}
	if !ok {
		g.shared.metrics.Reject()
		g.shared.logger.Info("query limit reached",
			zap.Int64("count", used), zap.Int64("requested", n), zap.Int64("ceiling", g.ceiling))
		return ErrQuotaExceeded
	}
	g.shared.metrics.Authorize(used)
	g.shared.logger.Info("query count", zap.Int64("count", used), zap.Int64("increment", n))
	return nil
}

// Current returns the count charged in the current window.
func (g *Governor) Current(ctx context.Context) (int64, error) {
	n, err := g.shared.counter.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("current: %w", err)
	}
	g.shared.logger.Info("query count", zap.Int64("count", n))
	return n, nil
}

// Reset sets the count to zero.
func (g *Governor) Reset(ctx context.Context) error {
	return g.shared.reset(ctx)
}

// Status reports usage against the ceiling.
func (g *Governor) Status(ctx context.Context) (Status, error) {
	used, err := g.shared.counter.Load(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("quota status: %w", err)
	}
	last := time.Unix(0, g.shared.lastReset.Load())
	next := last.Add(g.window)
	if ec, ok := g.shared.counter.(ExpiringCounter); ok && ec.Expiry() > 0 {
		ttl, err := ec.TTL(ctx)
		if err != nil {
			return Status{}, fmt.Errorf("quota status: %w", err)
		}
		if ttl > 0 {
			next = g.shared.now().Add(ttl)
			last = next.Add(-ec.Expiry())
		}
	}
	remaining := g.ceiling - used
	if remaining < 0 {
		remaining = 0
	}
	return Status{
		Ceiling:   g.ceiling,
		Used:      used,
		Remaining: remaining,
		Window:    g.window,
		LastReset: last,
		NextReset: next,
	}, nil
}

// Close stops the reset task and waits for it to exit.
func (g *Governor) Close() error {
	g.closeOnce.Do(func() {
		g.cancel()
		<-g.done
	})
	return nil
}

func (s *shared) reset(ctx context.Context) error {
	if err := s.counter.Reset(ctx); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	s.lastReset.Store(s.now().UnixNano())
	s.metrics.Reset()
	s.logger.Info("query count reset to 0")
	return nil
}

func (s *shared) run(ctx context.Context, tick <-chan time.Time, stop func(), done chan<- struct{}) {
	defer close(done)
	defer stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			if err := s.reset(ctx); err != nil {
				s.logger.Warn("scheduled reset failed", zap.Error(err))
			}
		}
	}
}
