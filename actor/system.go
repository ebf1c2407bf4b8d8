// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package actor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	otelmetric "go.opentelemetry.io/otel/metric"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	gerrors "github.com/tochemey/loopactor/errors"
	"github.com/tochemey/loopactor/eventstream"
	"github.com/tochemey/loopactor/executor"
	"github.com/tochemey/loopactor/internal/validation"
	"github.com/tochemey/loopactor/log"
)

// SystemState is the state of a System
type SystemState int

const (
	SystemStarted SystemState = iota
	SystemPaused
	SystemStopped
)

// String returns the state name
func (s SystemState) String() string {
	switch s {
	case SystemStarted:
		return "started"
	case SystemPaused:
		return "paused"
	case SystemStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// System owns a registry of named actors and the executor they run on.
//
// Registration and lookups are safe for concurrent use, including from
// inside actor callbacks. Pause, Resume and Stop are broadcast to every
// registered actor in registration order.
type System struct {
	name              string
	logger            log.Logger
	executor          executor.Executor
	ownsExecutor      bool
	throughput        int
	deliveryRetries   int
	retryInitialDelay time.Duration
	retryMaxDelay     time.Duration
	meterProvider     otelmetric.MeterProvider
	instruments       *instruments
	events            *eventstream.EventsStream
	root              *Context
	scheduler         *Reference[Delayed]

	// mu guards the registry and the system state
	mu       sync.Mutex
	state    SystemState
	registry map[Name]Ref
	order    []Name

	// broadcastMu serializes Pause, Resume and Stop
	broadcastMu sync.Mutex
}

// NewSystem creates a started System. The scheduler is registered first
// under the reserved name "scheduler".
func NewSystem(name string, opts ...Option) (*System, error) {
	system := &System{
		name:              name,
		logger:            log.DefaultLogger,
		throughput:        DefaultThroughput,
		deliveryRetries:   DefaultDeliveryRetries,
		retryInitialDelay: DefaultRetryInitialDelay,
		retryMaxDelay:     DefaultRetryMaxDelay,
		events:            eventstream.New(),
		state:             SystemStarted,
		registry:          make(map[Name]Ref),
	}

	for _, opt := range opts {
		opt.Apply(system)
	}

	if err := validation.New(validation.FailFast()).
		AddValidator(validation.ValidatorFunc(func() error { return validateSegment(name) })).
		AddAssertion(system.throughput > 0, gerrors.ErrInvalidThroughput).
		AddAssertion(system.deliveryRetries > 0, gerrors.ErrInvalidMaxTries).
		AddAssertion(system.retryInitialDelay >= 0 && system.retryMaxDelay >= system.retryInitialDelay, gerrors.ErrInvalidRetryBackoff).
		Validate(); err != nil {
		return nil, err
	}

	instruments, err := newInstruments(system.meterProvider, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create runtime metrics: %w", err)
	}
	system.instruments = instruments

	if system.executor == nil {
		system.executor = executor.NewDedicated(executor.WithLogger(system.logger))
		system.ownsExecutor = true
	}

	system.root = newContext(context.Background(), system, Name{})

	scheduler, err := register[Delayed](system.root, schedulerName, newScheduler())
	if err != nil {
		system.events.Close()
		if system.ownsExecutor {
			_ = system.executor.Shutdown(context.Background())
		}
		return nil, fmt.Errorf("failed to start the scheduler: %w", err)
	}
	system.scheduler = scheduler

	system.logger.Infof("Actor System (%s) successfully started..:)", name)
	return system, nil
}

// Register registers actor under ctx with the given name segment.
//
// In a started system the actor is started before Register returns and a
// PreStart failure is returned. In a paused system it stays Unstarted until
// Resume. The name is released once the actor is stopped.
func Register[M any](ctx *Context, segment string, actor Actor[M], opts ...RegisterOption) (*Reference[M], error) {
	if ctx == nil || ctx.system == nil || actor == nil {
		return nil, gerrors.ErrUndefinedActor
	}

	if ctx.IsRoot() && segment == schedulerName {
		return nil, gerrors.ErrReservedName
	}

	return register(ctx, segment, actor, opts...)
}

func register[M any](ctx *Context, segment string, actor Actor[M], opts ...RegisterOption) (*Reference[M], error) {
	system := ctx.system
	name, err := ctx.name.Child(segment)
	if err != nil {
		return nil, err
	}

	ref, err := newReference(ctx.ctx, system, name, actor, newRegisterConfig(opts...))
	if err != nil {
		return nil, err
	}

	state, err := system.add(ref)
	if err != nil {
		return nil, err
	}

	if state == SystemStarted {
		// a concurrent Resume may have started it already
		if err := ref.Start(ctx.ctx, system.executor); err != nil && !errors.Is(err, gerrors.ErrAlreadyStarted) {
			return nil, err
		}
	}

	return ref, nil
}

// Lookup returns the actor registered under name
func (x *System) Lookup(name Name) (Ref, bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	ref, ok := x.registry[name]
	return ref, ok
}

// Lookup returns the actor registered under name with message type M
func Lookup[M any](system *System, name Name) (*Reference[M], error) {
	ref, ok := system.Lookup(name)
	if !ok {
		return nil, gerrors.NewErrActorNotFound(name.String())
	}

	typed, ok := ref.(*Reference[M])
	if !ok {
		return nil, fmt.Errorf("%w: %s is a %T", gerrors.ErrTypeMismatch, name, ref)
	}
	return typed, nil
}

// Actors returns the registered actors in registration order
func (x *System) Actors() []Ref {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.snapshot()
}

// Name returns the system name
func (x *System) Name() string {
	return x.name
}

// State returns the system state
func (x *System) State() SystemState {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.state
}

// Context returns the root registration scope
func (x *System) Context() *Context {
	return x.root
}

// Scheduler returns the scheduler actor
func (x *System) Scheduler() *Reference[Delayed] {
	return x.scheduler
}

// Logger returns the system logger
func (x *System) Logger() log.Logger {
	return x.logger
}

// Subscribe creates a subscriber to the given event topics.
// See TopicLifecycle and TopicDeadletters.
func (x *System) Subscribe(topics ...string) eventstream.Subscriber {
	subscriber := x.events.AddSubscriber()
	for _, topic := range topics {
		x.events.Subscribe(subscriber, topic)
	}
	return subscriber
}

// Unsubscribe removes subscriber from every topic and shuts it down
func (x *System) Unsubscribe(subscriber eventstream.Subscriber) {
	x.events.RemoveSubscriber(subscriber)
}

// Pause pauses every registered actor. Messages sent meanwhile are buffered.
func (x *System) Pause() error {
	x.broadcastMu.Lock()
	defer x.broadcastMu.Unlock()

	x.mu.Lock()
	if x.state == SystemStopped {
		x.mu.Unlock()
		return gerrors.ErrSystemStopped
	}
	x.state = SystemPaused
	refs := x.snapshot()
	x.mu.Unlock()

	var err error
	for _, ref := range refs {
		if e := ref.Pause(); e != nil && !errors.Is(e, gerrors.ErrDead) {
			x.logger.Errorf("Failed to pause Actor (%s): %v", ref.Name(), e)
			err = multierr.Append(err, fmt.Errorf("actor=%s: %w", ref.Name(), e))
		}
	}

	x.logger.Infof("Actor System (%s) paused", x.name)
	return err
}

// Resume starts every actor registered while paused and resumes the others
func (x *System) Resume() error {
	x.broadcastMu.Lock()
	defer x.broadcastMu.Unlock()

	x.mu.Lock()
	if x.state == SystemStopped {
		x.mu.Unlock()
		return gerrors.ErrSystemStopped
	}
	x.state = SystemStarted
	refs := x.snapshot()
	x.mu.Unlock()

	var err error
	for _, ref := range refs {
		if e := ref.Start(x.root.ctx, x.executor); e != nil &&
			!errors.Is(e, gerrors.ErrAlreadyStarted) &&
			!errors.Is(e, gerrors.ErrDead) {
			x.logger.Errorf("Failed to resume Actor (%s): %v", ref.Name(), e)
			err = multierr.Append(err, fmt.Errorf("actor=%s: %w", ref.Name(), e))
		}
	}

	x.logger.Infof("Actor System (%s) resumed", x.name)
	return err
}

// Stop stops every registered actor and waits, bounded by ctx, for them to
// terminate. The executor is shut down when the system created it.
// Stopping a stopped system is a no-op.
func (x *System) Stop(ctx context.Context, immediate bool) error {
	x.broadcastMu.Lock()
	defer x.broadcastMu.Unlock()

	x.mu.Lock()
	if x.state == SystemStopped {
		x.mu.Unlock()
		return nil
	}
	x.state = SystemStopped
	refs := x.snapshot()
	x.mu.Unlock()

	x.logger.Info("Shutdown process begins.:)")

	var err error
	for _, ref := range refs {
		if !ref.Stop(immediate) {
			e := fmt.Errorf("actor=%s: %w", ref.Name(), gerrors.ErrDeliveryFailed)
			x.logger.Errorf("Failed to stop Actor (%s) gracefully", ref.Name())
			err = multierr.Append(err, e)
		}
	}

	eg, egCtx := errgroup.WithContext(ctx)
	for _, ref := range refs {
		eg.Go(func() error {
			select {
			case <-ref.Done():
				return nil
			case <-egCtx.Done():
				return fmt.Errorf("actor=%s: %w", ref.Name(), egCtx.Err())
			}
		})
	}

	if e := eg.Wait(); e != nil {
		x.logger.Errorf("Failed to wait for actors to stop: %v", e)
		err = multierr.Append(err, e)
	}

	x.mu.Lock()
	clear(x.registry)
	x.order = nil
	x.mu.Unlock()

	x.events.Close()

	if x.ownsExecutor {
		if e := x.executor.Shutdown(ctx); e != nil {
			x.logger.Errorf("Failed to shutdown the executor: %v", e)
			err = multierr.Append(err, e)
		}
	}

	x.logger.Infof("Actor System (%s) successfully shutdown", x.name)
	return multierr.Combine(err, x.logger.Flush())
}

// add inserts ref into the registry and returns the state it was added in
func (x *System) add(ref Ref) (SystemState, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.state == SystemStopped {
		return x.state, gerrors.ErrSystemStopped
	}

	name := ref.Name()
	if _, ok := x.registry[name]; ok {
		return x.state, gerrors.NewErrActorAlreadyExists(name.String())
	}

	x.registry[name] = ref
	x.order = append(x.order, name)
	x.recordActors(context.Background(), 1)
	return x.state, nil
}

// deregister releases the name of ref unless it was taken over
func (x *System) deregister(ref Ref) {
	x.mu.Lock()
	defer x.mu.Unlock()

	name := ref.Name()
	if current, ok := x.registry[name]; !ok || current != ref {
		return
	}

	delete(x.registry, name)
	for i, registered := range x.order {
		if registered == name {
			x.order = append(x.order[:i], x.order[i+1:]...)
			break
		}
	}
	x.recordActors(context.Background(), -1)
}

// stopDescendants stops every actor named under name
func (x *System) stopDescendants(name Name, immediate bool) {
	x.mu.Lock()
	var descendants []Ref
	for _, registered := range x.order {
		if name.IsAncestorOf(registered) {
			descendants = append(descendants, x.registry[registered])
		}
	}
	x.mu.Unlock()

	for _, descendant := range descendants {
		descendant.Stop(immediate)
	}
}

func (x *System) isStarted() bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.state == SystemStarted
}

func (x *System) publish(topic string, event any) {
	x.events.Publish(topic, event)
}

// snapshot must be called with x.mu held
func (x *System) snapshot() []Ref {
	refs := make([]Ref, 0, len(x.order))
	for _, name := range x.order {
		refs = append(refs, x.registry[name])
	}
	return refs
}
