package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/uniflow/internal/observe"
)

// Named is implemented by actions and effects.
//
// Name is the low-cardinality kind ("counter.update") used for metrics and
// logs; String includes the payload ("counter.update:5") and is what traces
// record.
type Named interface {
	Name() string
	String() string
}

// Reducer is the pure transition function. It must be deterministic and
// free of I/O.
type Reducer[S any, A Named, E Named] interface {
	Reduce(state S, action A) (S, []E)
}

// ReducerFunc adapts a function to Reducer.
type ReducerFunc[S any, A Named, E Named] func(S, A) (S, []E)

// Reduce calls f.
func (f ReducerFunc[S, A, E]) Reduce(state S, action A) (S, []E) {
	return f(state, action)
}

// Dispatcher re-enters the store from an effect handler. It is safe to call
// from any goroutine: the action is marshaled onto the owner context.
type Dispatcher[A any] func(A)

// Handler performs effects. It never sees State; every change it wants goes
// through dispatch.
type Handler[A Named, E Named] interface {
	Handle(ctx context.Context, effect E, dispatch Dispatcher[A]) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc[A Named, E Named] func(ctx context.Context, effect E, dispatch Dispatcher[A]) error

// Handle calls f.
func (f HandlerFunc[A, E]) Handle(ctx context.Context, effect E, dispatch Dispatcher[A]) error {
	return f(ctx, effect, dispatch)
}

// Transition is the record of one committed reduction.
type Transition struct {
	Seq     int64
	Flow    string
	Action  string
	Effects []string
	Prev    any
	State   any
}

type options struct {
	flowGen       FlowTokenGenerator
	effectTimeout time.Duration
	maxSteps      int
	registerer    prometheus.Registerer
	recorders     []func(Transition)
	clock         *Clock
}

// Option configures a Store.
type Option func(*options)

// WithFlowGenerator sets the generator used for external actions.
// Default: UUIDv7Generator.
func WithFlowGenerator(g FlowTokenGenerator) Option {
	return func(o *options) { o.flowGen = g }
}

// WithEffectTimeout bounds every effect handler call. Zero means no limit.
func WithEffectTimeout(d time.Duration) Option {
	return func(o *options) { o.effectTimeout = d }
}

// WithMaxSteps sets the per-flow transition quota. Default: DefaultMaxSteps.
// Zero or a negative value disables the quota.
func WithMaxSteps(n int) Option {
	return func(o *options) { o.maxSteps = n }
}

// WithRegisterer exports the store's metrics to reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// WithRecorder installs a hook called on the owner goroutine after every
// committed transition. Hooks run in the order they were installed.
func WithRecorder(fn func(Transition)) Option {
	return func(o *options) { o.recorders = append(o.recorders, fn) }
}

// WithClock replaces the logical clock, e.g. to resume numbering.
func WithClock(c *Clock) Option {
	return func(o *options) { o.clock = c }
}

// flowState tracks outstanding work for one flow.
type flowState struct {
	quota   *QuotaEnforcer
	pending int
}

// Store owns the canonical State and serializes every transition.
//
// Thread-safety model:
//   - Dispatch: owner context only
//   - Run: exactly one goroutine; that goroutine becomes the owner context
//   - Send, State, Subscribe, WaitIdle, InFlight, Stop, Close: any goroutine
type Store[S any, A Named, E Named] struct {
	reducer Reducer[S, A, E]
	handler Handler[A, E]
	opts    options

	state   atomic.Pointer[S]
	clock   *Clock
	queue   *eventQueue[A]
	tasks   *taskRegistry
	subs    *observe.Broadcaster[S]
	metrics *metrics

	dispatching atomic.Bool

	baseCtx context.Context
	cancel  context.CancelFunc

	mu      sync.Mutex
	pending int
	waiters []chan struct{}
	flows   map[string]*flowState
}

// New creates a store holding initial.
func New[S any, A Named, E Named](initial S, reducer Reducer[S, A, E], handler Handler[A, E], opts ...Option) *Store[S, A, E] {
	o := options{
		flowGen:  UUIDv7Generator{},
		maxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.clock == nil {
		o.clock = NewClock()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Store[S, A, E]{
		reducer: reducer,
		handler: handler,
		opts:    o,
		clock:   o.clock,
		queue:   newEventQueue[A](),
		tasks:   newTaskRegistry(),
		subs:    observe.NewBroadcaster[S](),
		metrics: newMetrics(o.registerer),
		baseCtx: ctx,
		cancel:  cancel,
		flows:   make(map[string]*flowState),
	}
	s.state.Store(&initial)
	s.subs.Publish(initial)
	return s
}

// State returns the last committed state.
func (s *Store[S, A, E]) State() S {
	return *s.state.Load()
}

// Subscribe returns a last-value-wins subscription to committed states. The
// current state is delivered immediately.
func (s *Store[S, A, E]) Subscribe() *observe.Subscription[S] {
	return s.subs.Subscribe()
}

// Clock returns the store's logical clock.
func (s *Store[S, A, E]) Clock() *Clock {
	return s.clock
}

// QueueLen returns the number of actions waiting for the owner loop.
func (s *Store[S, A, E]) QueueLen() int {
	return s.queue.Len()
}

// InFlight returns the effect tasks that have not finished yet.
func (s *Store[S, A, E]) InFlight() []Task {
	return s.tasks.snapshot()
}

// Dispatch reduces action on the caller's goroutine, which must be the owner
// context. It starts a new flow.
//
// When Dispatch returns, the new state is committed and visible through
// State; effects have been handed off but may still be running.
func (s *Store[S, A, E]) Dispatch(action A) {
	flow := s.opts.flowGen.Generate()
	s.begin(flow)
	defer s.end(flow)
	s.dispatch(action, flow)
}

// Send queues action for the owner loop and starts a new flow. Safe from any
// goroutine. Returns false once the store is stopped.
func (s *Store[S, A, E]) Send(action A) bool {
	return s.enqueue(action, s.opts.flowGen.Generate())
}

// SendFlow queues action as part of an existing flow.
func (s *Store[S, A, E]) SendFlow(action A, flow string) bool {
	return s.enqueue(action, flow)
}

func (s *Store[S, A, E]) enqueue(action A, flow string) bool {
	s.begin(flow)
	if !s.queue.Enqueue(Event[A]{Action: action, Flow: flow}) {
		s.end(flow)
		s.metrics.dropped.WithLabelValues("stopped").Inc()
		slog.Warn("action dropped: store stopped",
			"action", action.String(),
			"flow", flow,
		)
		return false
	}
	return true
}

// dispatch is the transition step. Owner context only.
func (s *Store[S, A, E]) dispatch(action A, flow string) {
	if !s.dispatching.CompareAndSwap(false, true) {
		panic(ErrConcurrentDispatch)
	}
	defer s.dispatching.Store(false)

	if err := s.checkQuota(flow); err != nil {
		s.metrics.dropped.WithLabelValues("quota").Inc()
		slog.Error("max steps quota exceeded",
			"action", action.String(),
			"flow", flow,
			"error", err,
		)
		return
	}

	prev := s.State()
	next, effects := s.reducer.Reduce(prev, action)
	s.state.Store(&next)
	seq := s.clock.Next()
	s.metrics.actions.WithLabelValues(action.Name()).Inc()

	slog.Debug("action reduced",
		"seq", seq,
		"action", action.String(),
		"flow", flow,
		"effects", len(effects),
	)

	if len(s.opts.recorders) > 0 {
		names := make([]string, len(effects))
		for i, e := range effects {
			names[i] = e.String()
		}
		t := Transition{
			Seq:     seq,
			Flow:    flow,
			Action:  action.String(),
			Effects: names,
			Prev:    prev,
			State:   next,
		}
		for _, record := range s.opts.recorders {
			record(t)
		}
	}

	s.subs.Publish(next)

	for _, effect := range effects {
		s.spawn(effect, flow)
	}
}

// spawn hands effect to the handler on its own goroutine.
func (s *Store[S, A, E]) spawn(effect E, flow string) {
	s.begin(flow)
	task := s.tasks.start(flow, effect.Name())
	s.metrics.inflight.Inc()

	dispatch := Dispatcher[A](func(a A) {
		s.enqueue(a, flow)
	})

	go func() {
		defer s.end(flow)
		defer s.metrics.inflight.Dec()
		defer s.tasks.finish(task.ID)

		ctx := s.baseCtx
		if s.opts.effectTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.opts.effectTimeout)
			defer cancel()
		}

		start := time.Now()
		err := s.handle(ctx, effect, flow, dispatch)
		s.metrics.effectDone(effect.Name(), time.Since(start), err)
		if err != nil {
			slog.Error("effect failed",
				"effect", effect.String(),
				"flow", flow,
				"task", task.ID,
				"error", err,
			)
			return
		}
		slog.Debug("effect finished",
			"effect", effect.String(),
			"flow", flow,
			"task", task.ID,
		)
	}()
}

// handle runs the handler, converting panics and deadline expiry into
// EffectError values.
func (s *Store[S, A, E]) handle(ctx context.Context, effect E, flow string, dispatch Dispatcher[A]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &EffectError{
				Code:   ErrCodeEffectPanic,
				Effect: effect.String(),
				Flow:   flow,
				Err:    fmt.Errorf("panic: %v", r),
			}
		}
	}()

	if err := s.handler.Handle(ctx, effect, dispatch); err != nil {
		code := ErrCodeEffectFailed
		if errors.Is(err, context.DeadlineExceeded) {
			code = ErrCodeEffectTimeout
		}
		return &EffectError{Code: code, Effect: effect.String(), Flow: flow, Err: err}
	}
	return nil
}

func (s *Store[S, A, E]) checkQuota(flow string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fs := s.flowLocked(flow)
	return fs.quota.Check(flow)
}

func (s *Store[S, A, E]) flowLocked(flow string) *flowState {
	fs, ok := s.flows[flow]
	if !ok {
		fs = &flowState{quota: NewQuotaEnforcer(s.opts.maxSteps)}
		s.flows[flow] = fs
	}
	return fs
}

// begin registers one unit of outstanding work for flow.
func (s *Store[S, A, E]) begin(flow string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending++
	s.flowLocked(flow).pending++
}

// end releases one unit of work. A flow with nothing outstanding is
// forgotten, together with its quota.
func (s *Store[S, A, E]) end(flow string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending--
	if fs, ok := s.flows[flow]; ok {
		fs.pending--
		if fs.pending <= 0 {
			delete(s.flows, flow)
		}
	}
	if s.pending == 0 {
		for _, w := range s.waiters {
			close(w)
		}
		s.waiters = nil
	}
}

// WaitIdle blocks until no action is queued or being reduced and no effect
// task is in flight. Queued actions only drain while Run is active.
func (s *Store[S, A, E]) WaitIdle(ctx context.Context) error {
	s.mu.Lock()
	if s.pending == 0 {
		s.mu.Unlock()
		return nil
	}
	w := make(chan struct{})
	s.waiters = append(s.waiters, w)
	s.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-w:
		return nil
	}
}

// ActiveFlows returns the number of flows with outstanding work.
func (s *Store[S, A, E]) ActiveFlows() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.flows)
}

// Run makes the calling goroutine the owner context and reduces queued
// actions in FIFO order. Blocks until ctx is cancelled or Stop is called.
// Actions still queued at that point are discarded. Cancelling ctx also
// cancels the contexts of in-flight effects; Stop leaves them running.
//
// Must be called from exactly one goroutine, and Dispatch must not be used
// concurrently from anywhere else while Run is active.
func (s *Store[S, A, E]) Run(ctx context.Context) error {
	slog.Info("store starting")
	defer s.discardQueued()

	for {
		if ev, ok := s.queue.TryDequeue(); ok {
			s.dispatch(ev.Action, ev.Flow)
			s.end(ev.Flow)
			continue
		}

		select {
		case <-ctx.Done():
			slog.Info("store stopping: context cancelled", "inflight", s.tasks.size())
			s.queue.Close()
			s.cancel()
			return ctx.Err()

		case <-s.queue.Wait():
			// A stale signal can fire after its event was already taken,
			// so only a closed and empty queue ends the loop.
			if s.queue.Closed() && s.queue.Len() == 0 {
				slog.Info("store stopping: queue closed")
				return nil
			}
		}
	}
}

func (s *Store[S, A, E]) discardQueued() {
	dropped := s.queue.Drain()
	if len(dropped) == 0 {
		return
	}
	slog.Warn("discarding queued actions", "count", len(dropped))
	for _, ev := range dropped {
		s.metrics.dropped.WithLabelValues("stopped").Inc()
		s.end(ev.Flow)
	}
}

// Stop closes the queue. Run returns once it has drained; in-flight effects
// keep running but their follow-up actions are dropped.
func (s *Store[S, A, E]) Stop() {
	s.queue.Close()
}

// Close stops the store, cancels in-flight effect contexts and closes every
// subscription.
func (s *Store[S, A, E]) Close() {
	s.Stop()
	s.cancel()
	s.subs.Close()
}
