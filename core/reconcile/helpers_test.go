package reconcile_test

import (
	"context"
	"sync"
	"testing"

	"greenspring/core/gpio"
	"greenspring/core/pinstore"
	"greenspring/core/realtime"
	"greenspring/core/reconcile"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type publish struct {
	Number int
	Value  int
}

// recordingPublisher captures everything the engine hands to the broker side.
type recordingPublisher struct {
	mu        sync.Mutex
	published []publish
	synced    [][]int
}

func (p *recordingPublisher) PublishState(number, value int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, publish{number, value})
}

func (p *recordingPublisher) Sync(outputs []int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.synced = append(p.synced, append([]int(nil), outputs...))
}

func (p *recordingPublisher) Published() []publish {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publish(nil), p.published...)
}

func (p *recordingPublisher) LastSync() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.synced) == 0 {
		return nil
	}
	return p.synced[len(p.synced)-1]
}

func (p *recordingPublisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = nil
	p.synced = nil
}

// failingFactory refuses to open the listed numbers.
type failingFactory struct {
	*gpio.Simulator
	refuse map[int]bool
}

func (f failingFactory) Open(number int, dir gpio.Direction) (gpio.Driver, error) {
	if f.refuse[number] {
		return nil, gpio.ErrUnknownPin
	}
	return f.Simulator.Open(number, dir)
}

type fixture struct {
	engine    *reconcile.Engine
	sim       *gpio.Simulator
	store     *pinstore.MemoryStore
	hub       *realtime.Hub
	publisher *recordingPublisher
}

func ledConfig() reconcile.PinConfig {
	return reconcile.PinConfig{Pins: []reconcile.PinSpec{
		{Number: 17, Label: "LED", Direction: gpio.Out},
	}}
}

func mixedConfig() reconcile.PinConfig {
	return reconcile.PinConfig{Pins: []reconcile.PinSpec{
		{Number: 17, Label: "LED", Direction: gpio.Out},
		{Number: 27, Label: "Relay", Direction: gpio.Out},
		{Number: 4, Label: "Button", Direction: gpio.In},
	}}
}

// newFixture starts an engine over a simulator and a memory store seeded with cfg and state.
func newFixture(t *testing.T, cfg reconcile.PinConfig, state reconcile.PinState) *fixture {
	t.Helper()
	return newFixtureWithFactory(t, nil, cfg, state)
}

func newFixtureWithFactory(t *testing.T, factory gpio.Factory, cfg reconcile.PinConfig, state reconcile.PinState) *fixture {
	t.Helper()
	f := &fixture{
		sim:       gpio.NewSimulator(),
		store:     pinstore.NewMemoryStore(),
		hub:       realtime.NewHub(zap.NewNop()),
		publisher: &recordingPublisher{},
	}
	if factory == nil {
		factory = f.sim
	}
	f.store.Seed(cfg, state)
	f.engine = reconcile.New(reconcile.Options{
		Factory:   factory,
		Store:     f.store,
		Hub:       f.hub,
		Publisher: f.publisher,
		Logger:    zap.NewNop(),
	})
	require.NoError(t, f.engine.Start(context.Background()))
	t.Cleanup(f.engine.Shutdown)
	return f
}

// attach connects a UI session and returns it with its initial snapshot consumed.
func (f *fixture) attach(t *testing.T, id string) (*realtime.Outbox, reconcile.Snapshot) {
	t.Helper()
	box := realtime.NewOutbox(id, 64)
	require.NoError(t, f.engine.Attach(context.Background(), box))
	msg := next(t, box)
	require.Equal(t, realtime.TypeInit, msg.Type)
	snap, ok := msg.Data.(reconcile.Snapshot)
	require.True(t, ok)
	return box, snap
}

// sync waits until every event queued so far has been handled.
func (f *fixture) sync(t *testing.T) reconcile.Snapshot {
	t.Helper()
	snap, err := f.engine.Snapshot(context.Background())
	require.NoError(t, err)
	return snap
}

func next(t *testing.T, box *realtime.Outbox) realtime.Message {
	t.Helper()
	select {
	case msg := <-box.Messages():
		return msg
	default:
		t.Fatalf("expected a queued message for session %s", box.ID())
		return realtime.Message{}
	}
}

func drain(box *realtime.Outbox) []realtime.Message {
	var out []realtime.Message
	for {
		select {
		case msg := <-box.Messages():
			out = append(out, msg)
		default:
			return out
		}
	}
}

func deltas(msgs []realtime.Message) []reconcile.Delta {
	var out []reconcile.Delta
	for _, m := range msgs {
		if d, ok := m.Data.(reconcile.Delta); ok && m.Type == realtime.TypePin {
			out = append(out, d)
		}
	}
	return out
}
