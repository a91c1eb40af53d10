package reconcile

import (
	"context"

	"greenspring/core/realtime"
)

// Store persists the topology and state documents.
//
// Loads never fail: a missing or unreadable document yields an empty one. Saves replace
// the whole document and report failures to the caller.
type Store interface {
	LoadConfig(ctx context.Context) PinConfig
	LoadState(ctx context.Context) PinState
	SaveConfig(ctx context.Context, cfg PinConfig) error
	SaveState(ctx context.Context, state PinState) error
}

// Broadcaster fans snapshots and deltas out to UI sessions.
type Broadcaster interface {
	Add(s realtime.Session)
	Remove(id string)
	Broadcast(msg realtime.Message)
}

// Publisher mirrors pin values to an external broker.
// Implementations must not block on the broker.
type Publisher interface {
	// PublishState announces the value of a pin.
	PublishState(number, value int)
	// Sync replaces the set of output pins that accept commands.
	Sync(outputs []int)
}

type nopPublisher struct{}

func (nopPublisher) PublishState(int, int) {}
func (nopPublisher) Sync([]int)            {}

type nopBroadcaster struct{}

func (nopBroadcaster) Add(realtime.Session)       {}
func (nopBroadcaster) Remove(string)              {}
func (nopBroadcaster) Broadcast(realtime.Message) {}
