package pinstore

import (
	"context"
	"sync"

	"greenspring/core/reconcile"
)

// MemoryStore keeps the documents in memory. It backs ephemeral runs and tests, which
// can seed documents, count saves and inject save failures.
type MemoryStore struct {
	mu          sync.Mutex
	config      *reconcile.PinConfig
	state       reconcile.PinState
	configSaves int
	stateSaves  int
	configErr   error
	stateErr    error
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Seed sets the documents returned by the next loads.
func (m *MemoryStore) Seed(cfg reconcile.PinConfig, state reconcile.PinState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := cfg.Clone()
	m.config = &c
	m.state = state.Clone()
}

// FailSaves makes subsequent saves return the given errors. Nil clears a failure.
func (m *MemoryStore) FailSaves(configErr, stateErr error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configErr, m.stateErr = configErr, stateErr
}

// Saves returns how many config and state saves succeeded.
func (m *MemoryStore) Saves() (config, state int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.configSaves, m.stateSaves
}

func (m *MemoryStore) LoadConfig(ctx context.Context) reconcile.PinConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.config == nil {
		return reconcile.EmptyConfig()
	}
	return m.config.Clone()
}

func (m *MemoryStore) LoadState(ctx context.Context) reconcile.PinState {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return reconcile.PinState{}
	}
	return m.state.Clone()
}

func (m *MemoryStore) SaveConfig(ctx context.Context, cfg reconcile.PinConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.configErr != nil {
		return m.configErr
	}
	c := cfg.Clone()
	m.config = &c
	m.configSaves++
	return nil
}

func (m *MemoryStore) SaveState(ctx context.Context, state reconcile.PinState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stateErr != nil {
		return m.stateErr
	}
	m.state = state.Clone()
	m.stateSaves++
	return nil
}
