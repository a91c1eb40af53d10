package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"greenspring/core/gpio"
	"greenspring/core/logger"
	"greenspring/core/realtime"

	"go.uber.org/zap"
)

var (
	// ErrStopped is returned by entry points called before Start or after Shutdown.
	ErrStopped = errors.New("reconcile engine is not running")
	// ErrNotOutput is returned by SetOutput and ToggleOutput for numbers that are not
	// configured output pins.
	ErrNotOutput = errors.New("pin is not a configured output")
)

type eventKind int

const (
	eventApply eventKind = iota
	eventToggle
	eventInput
	eventReplace
	eventRebuild
	eventSnapshot
	eventAttach
)

// event is one unit of work for the engine loop.
type event struct {
	kind    eventKind
	number  int
	value   int
	origin  Origin
	config  PinConfig
	session realtime.Session
	// source is the driver that observed an input change, nil for external reports.
	source gpio.Driver
	reply  chan result
}

type result struct {
	snapshot Snapshot
	// value is the level applied by an output event.
	value int
	err   error
}

// Options configures an Engine.
type Options struct {
	Factory   gpio.Factory
	Store     Store
	Hub       Broadcaster
	Publisher Publisher
	Logger    *zap.Logger
	// QueueSize bounds the number of pending events. Defaults to 64.
	QueueSize int
}

// Engine is the single authority over pin state. Every entry point is turned into an
// event and handled to completion, one at a time, by the loop started with Start, so a
// rebuild is never observed half done.
type Engine struct {
	registry  *Registry
	store     Store
	hub       Broadcaster
	publisher Publisher
	logger    *zap.Logger

	// owned by the loop goroutine
	config PinConfig
	state  PinState

	events chan event
	quit   chan struct{}
	done   chan struct{}

	// lifecycle orders the start and stop transitions.
	lifecycle sync.Mutex
	startOnce sync.Once
	stopOnce  sync.Once
	started   chan struct{}
}

// New creates an engine. Hub and Publisher are optional.
func New(opts Options) *Engine {
	l := opts.Logger
	if l == nil {
		l = zap.NewNop()
	}
	var hub Broadcaster = nopBroadcaster{}
	if opts.Hub != nil {
		hub = opts.Hub
	}
	var pub Publisher = nopPublisher{}
	if opts.Publisher != nil {
		pub = opts.Publisher
	}
	size := opts.QueueSize
	if size <= 0 {
		size = 64
	}

	return &Engine{
		registry:  NewRegistry(opts.Factory, l),
		store:     opts.Store,
		hub:       hub,
		publisher: pub,
		logger:    l,
		config:    EmptyConfig(),
		state:     PinState{},
		events:    make(chan event, size),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
		started:   make(chan struct{}),
	}
}

// Start loads both documents, starts the loop and performs the initial rebuild.
func (e *Engine) Start(ctx context.Context) error {
	err := ErrStopped
	e.startOnce.Do(func() {
		e.lifecycle.Lock()
		select {
		case <-e.quit:
			e.lifecycle.Unlock()
			return
		default:
		}

		e.config = e.store.LoadConfig(ctx)
		e.state = e.store.LoadState(ctx)
		if e.state == nil {
			e.state = PinState{}
		}
		e.logger.Info("Loaded pin documents",
			zap.Int("pins", len(e.config.Pins)),
			zap.Int("state_entries", len(e.state)))

		close(e.started)
		go e.run()
		e.lifecycle.Unlock()

		_, err = e.submit(ctx, event{kind: eventRebuild})
	})
	return err
}

// Shutdown stops the loop and releases every driver. Pending callers get ErrStopped.
func (e *Engine) Shutdown() {
	e.stopOnce.Do(func() {
		e.lifecycle.Lock()
		defer e.lifecycle.Unlock()

		close(e.quit)
		select {
		case <-e.started:
			<-e.done
		default:
			close(e.done)
		}
	})
}

// ApplyOutput drives an output pin. Unknown pins and inputs are ignored.
func (e *Engine) ApplyOutput(ctx context.Context, number, value int, origin Origin) error {
	_, err := e.SetOutput(ctx, number, value, origin)
	return ignoreNotOutput(err)
}

// Toggle inverts the current value of an output pin. Unknown pins and inputs are ignored.
func (e *Engine) Toggle(ctx context.Context, number int, origin Origin) error {
	_, err := e.ToggleOutput(ctx, number, origin)
	return ignoreNotOutput(err)
}

// SetOutput drives an output pin and returns the level it was set to, or ErrNotOutput.
func (e *Engine) SetOutput(ctx context.Context, number, value int, origin Origin) (int, error) {
	r, err := e.submit(ctx, event{kind: eventApply, number: number, value: value, origin: origin})
	return r.value, err
}

// ToggleOutput inverts an output pin and returns its new level, or ErrNotOutput. The
// check and the write happen in the same event.
func (e *Engine) ToggleOutput(ctx context.Context, number int, origin Origin) (int, error) {
	r, err := e.submit(ctx, event{kind: eventToggle, number: number, origin: origin})
	return r.value, err
}

func ignoreNotOutput(err error) error {
	if errors.Is(err, ErrNotOutput) {
		return nil
	}
	return err
}

// ReportInput records an observed input level. It does not wait for the event to be
// handled, so it may be called from driver callbacks.
func (e *Engine) ReportInput(number, value int) {
	e.post(event{kind: eventInput, number: number, value: value, origin: OriginInput})
}

// ReplaceConfig installs a new topology: it is kept in memory, persisted and the
// registry is rebuilt. A save failure is returned, but the new topology stays applied.
func (e *Engine) ReplaceConfig(ctx context.Context, cfg PinConfig) error {
	_, err := e.submit(ctx, event{kind: eventReplace, config: cfg.Clone()})
	return err
}

// Snapshot returns the current configuration and pin values.
func (e *Engine) Snapshot(ctx context.Context) (Snapshot, error) {
	r, err := e.submit(ctx, event{kind: eventSnapshot})
	return r.snapshot, err
}

// Attach registers a UI session and sends it the current snapshot. Both happen inside
// the loop, so the session sees every delta produced after its snapshot.
func (e *Engine) Attach(ctx context.Context, s realtime.Session) error {
	_, err := e.submit(ctx, event{kind: eventAttach, session: s})
	return err
}

// Detach unregisters a UI session.
func (e *Engine) Detach(id string) {
	e.hub.Remove(id)
}

func (e *Engine) submit(ctx context.Context, ev event) (result, error) {
	select {
	case <-e.started:
	default:
		return result{}, ErrStopped
	}

	ev.reply = make(chan result, 1)
	select {
	case e.events <- ev:
	case <-e.done:
		return result{}, ErrStopped
	case <-ctx.Done():
		return result{}, ctx.Err()
	}

	select {
	case r := <-ev.reply:
		return r, r.err
	case <-e.done:
		return result{}, ErrStopped
	case <-ctx.Done():
		return result{}, ctx.Err()
	}
}

func (e *Engine) post(ev event) {
	select {
	case <-e.started:
	default:
		return
	}
	select {
	case e.events <- ev:
	case <-e.done:
	}
}

func (e *Engine) run() {
	defer close(e.done)
	for {
		select {
		case <-e.quit:
			e.registry.ReleaseAll()
			e.logger.Info("Reconcile engine stopped")
			return
		case ev := <-e.events:
			r := e.handle(ev)
			if ev.reply != nil {
				ev.reply <- r
			}
		}
	}
}

func (e *Engine) handle(ev event) result {
	switch ev.kind {
	case eventApply:
		return e.applyOutput(ev.number, ev.value, ev.origin)
	case eventToggle:
		value := 0
		if ent, ok := e.registry.lookup(ev.number); ok {
			value = 1 - ent.value
		}
		return e.applyOutput(ev.number, value, ev.origin)
	case eventInput:
		e.reportInput(ev.source, ev.number, ev.value)
	case eventReplace:
		return result{err: e.replaceConfig(ev.config)}
	case eventRebuild:
		e.rebuild()
	case eventSnapshot:
		return result{snapshot: e.snapshot()}
	case eventAttach:
		e.attach(ev.session)
	}
	return result{}
}

func (e *Engine) applyOutput(number, value int, origin Origin) result {
	ent, ok := e.registry.lookup(number)
	if !ok || ent.spec.Direction != gpio.Out {
		e.logger.Debug("Ignoring write to unknown or input pin",
			logger.Pin(number), zap.String("origin", string(origin)))
		return result{err: ErrNotOutput}
	}

	v := 0
	if value != 0 {
		v = 1
	}
	prev := ent.value

	// Optimistic: a failed write still updates state and listeners.
	if err := ent.driver.Write(v); err != nil {
		e.logger.Warn("Failed to write pin", logger.Pin(number), zap.Error(err))
	}
	ent.value = v

	e.state[number] = v
	if err := e.store.SaveState(context.Background(), e.state.Clone()); err != nil {
		e.logger.Error("Failed to persist pin state", logger.Pin(number), zap.Error(err))
	}

	e.hub.Broadcast(realtime.Message{Type: realtime.TypePin, Data: Delta{Number: number, Value: v}})

	if origin != OriginMQTT || prev != v {
		e.publisher.PublishState(number, v)
	}
	return result{value: v}
}

func (e *Engine) reportInput(source gpio.Driver, number, value int) {
	ent, ok := e.registry.lookup(number)
	if !ok || ent.spec.Direction != gpio.In {
		return
	}
	if source != nil && ent.driver != source {
		// Late callback from a driver released by a rebuild.
		return
	}

	v := 0
	if value != 0 {
		v = 1
	}
	ent.value = v

	e.hub.Broadcast(realtime.Message{Type: realtime.TypePin, Data: Delta{Number: number, Value: v}})
	e.publisher.PublishState(number, v)
}

func (e *Engine) replaceConfig(cfg PinConfig) error {
	e.config = cfg
	var saveErr error
	if err := e.store.SaveConfig(context.Background(), cfg); err != nil {
		e.logger.Error("Failed to persist pin configuration", zap.Error(err))
		saveErr = fmt.Errorf("failed to save configuration: %w", err)
	}
	e.rebuild()
	return saveErr
}

func (e *Engine) rebuild() {
	e.registry.Rebuild(e.config, e.state, e.inputListener)

	outputs := e.registry.outputs()
	numbers := make([]int, 0, len(outputs))
	for _, ent := range outputs {
		e.publisher.PublishState(ent.spec.Number, ent.value)
		numbers = append(numbers, ent.spec.Number)
	}
	e.publisher.Sync(numbers)

	e.logger.Info("Registry rebuilt",
		zap.Int("outputs", len(outputs)),
		zap.Int("inputs", len(e.registry.inputs())))

	e.hub.Broadcast(realtime.Message{Type: realtime.TypeInit, Data: e.snapshot()})
}

func (e *Engine) inputListener(d gpio.Driver) func(int) {
	return func(value int) {
		e.post(event{kind: eventInput, number: d.Number(), value: value, origin: OriginInput, source: d})
	}
}

func (e *Engine) snapshot() Snapshot {
	snap := Snapshot{
		Config: e.config.Clone(),
		State:  PinState{},
		Inputs: PinState{},
	}
	for _, ent := range e.registry.outputs() {
		snap.State[ent.spec.Number] = ent.value
	}
	for _, ent := range e.registry.inputs() {
		snap.Inputs[ent.spec.Number] = ent.value
	}
	return snap
}

func (e *Engine) attach(s realtime.Session) {
	e.hub.Add(s)
	if err := s.Send(realtime.Message{Type: realtime.TypeInit, Data: e.snapshot()}); err != nil {
		e.logger.Warn("Failed to send snapshot", zap.String("session", s.ID()), zap.Error(err))
		e.hub.Remove(s.ID())
		_ = s.Close()
	}
}
