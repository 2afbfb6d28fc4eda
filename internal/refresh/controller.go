package refresh

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"tarediiran-industries.com/side-services/internal/common"
	"tarediiran-industries.com/side-services/internal/datasource"
)

type envelope struct {
	event Event
	done  chan State
}

type (
	// Controller runs the reducer on a single goroutine that owns the state.
	// Fetches run concurrently and post their results back to that goroutine.
	Controller struct {
		source  datasource.Source
		reducer Reducer
		logger  *zap.Logger
		metrics *common.Metrics
		repoll  time.Duration
		now     func() time.Time

		events chan envelope
		state  atomic.Pointer[State]
	}
	Option func(*Controller)
)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

func WithMetrics(metrics *common.Metrics) Option {
	return func(c *Controller) {
		c.metrics = metrics
	}
}

func WithReducer(reducer Reducer) Option {
	return func(c *Controller) {
		c.reducer = reducer
	}
}

// WithRepollInterval enables a periodic Tick; zero or negative keeps refreshes
// strictly selection-driven.
func WithRepollInterval(d time.Duration) Option {
	return func(c *Controller) {
		c.repoll = d
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

func NewController(source datasource.Source, initial Key, opts ...Option) *Controller {
	c := &Controller{
		source: source,
		logger: zap.NewNop(),
		now:    time.Now,
		events: make(chan envelope, 64),
	}
	for _, opt := range opts {
		opt(c)
	}
	state := NewState(initial)
	c.state.Store(&state)
	return c
}

// Snapshot returns the latest published state.
func (c *Controller) Snapshot() State {
	return *c.state.Load()
}

// Dispatch queues an event without waiting for it to be applied.
func (c *Controller) Dispatch(ctx context.Context, ev Event) error {
	select {
	case c.events <- envelope{event: ev}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Apply queues an event and returns the state right after it was applied.
func (c *Controller) Apply(ctx context.Context, ev Event) (State, error) {
	done := make(chan State, 1)
	select {
	case c.events <- envelope{event: ev, done: done}:
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
	select {
	case s := <-done:
		return s, nil
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

// Run mounts the lifecycles and processes events until ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	var tick <-chan time.Time
	if c.repoll > 0 {
		ticker := time.NewTicker(c.repoll)
		defer ticker.Stop()
		tick = ticker.C
	}

	c.logger.Info("refresh controller started",
		zap.Stringer("key", c.Snapshot().Key),
		zap.Duration("repoll", c.repoll))
	c.apply(ctx, Mounted{})

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("refresh controller stopped")
			return ctx.Err()
		case env := <-c.events:
			next := c.apply(ctx, env.event)
			if env.done != nil {
				env.done <- next
			}
		case <-tick:
			c.apply(ctx, Tick{})
		}
	}
}

func (c *Controller) apply(ctx context.Context, ev Event) State {
	current := c.Snapshot()
	if fetched, ok := ev.(Fetched); ok {
		c.observe(current, fetched)
	}

	next, fetches := c.reducer.Reduce(current, ev)
	c.state.Store(&next)

	for _, f := range fetches {
		c.logger.Debug("fetch issued",
			zap.Stringer("lifecycle", f.Lifecycle),
			zap.Uint64("generation", f.Generation),
			zap.Stringer("query", f.Query))
		c.start(ctx, f)
	}
	return next
}

func (c *Controller) observe(current State, fetched Fetched) {
	outcome := Classify(current, fetched)
	if c.metrics != nil {
		c.metrics.RefreshOutcomesTotal.WithLabelValues(fetched.Lifecycle.String(), string(outcome)).Inc()
	}

	fields := []zap.Field{
		zap.Stringer("lifecycle", fetched.Lifecycle),
		zap.Uint64("generation", fetched.Generation),
		zap.String("outcome", string(outcome)),
	}
	switch outcome {
	case OutcomeFailed:
		c.logger.Warn("refresh failed, keeping previous data", append(fields, zap.Error(fetched.Err))...)
	default:
		c.logger.Debug("refresh completed", fields...)
	}
}

// start runs f in its own goroutine. A superseded fetch is not cancelled; its
// result is discarded by the reducer when it arrives.
func (c *Controller) start(ctx context.Context, f Fetch) {
	go func() {
		payload, err := c.source.Query(ctx, f.Query)
		result := Fetched{
			Lifecycle:  f.Lifecycle,
			Generation: f.Generation,
			Payload:    payload,
			Err:        err,
			At:         c.now(),
		}
		select {
		case c.events <- envelope{event: result}:
		case <-ctx.Done():
		}
	}()
}
