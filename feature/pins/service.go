package pins

import (
	"context"
	"errors"
	"fmt"

	"greenspring/core/gpio"
	"greenspring/core/reconcile"

	"go.uber.org/zap"
)

var (
	// ErrNotInput is returned when an injection targets a pin that is not a live input.
	ErrNotInput = errors.New("pin is not a configured input")
	// ErrNoSimulator is returned by Inject when hardware drivers are active.
	ErrNoSimulator = errors.New("simulated inputs are not available")
)

// Engine is the part of the reconcile engine the HTTP surface drives.
type Engine interface {
	Snapshot(ctx context.Context) (reconcile.Snapshot, error)
	ReplaceConfig(ctx context.Context, cfg reconcile.PinConfig) error
	SetOutput(ctx context.Context, number, value int, origin reconcile.Origin) (int, error)
	ToggleOutput(ctx context.Context, number int, origin reconcile.Origin) (int, error)
}

// Injector drives simulated input levels.
type Injector interface {
	Inject(number, value int) error
}

// Service implements the pin HTTP operations.
type Service struct {
	engine   Engine
	store    reconcile.Store
	injector Injector
	logger   *zap.Logger
}

// NewService creates a new pins service. injector may be nil.
func NewService(engine Engine, store reconcile.Store, injector Injector, logger *zap.Logger) *Service {
	return &Service{
		engine:   engine,
		store:    store,
		injector: injector,
		logger:   logger,
	}
}

// Config returns the active topology.
func (s *Service) Config(ctx context.Context) (reconcile.PinConfig, error) {
	snap, err := s.engine.Snapshot(ctx)
	if err != nil {
		return reconcile.PinConfig{}, err
	}
	return snap.Config, nil
}

// ReplaceConfig validates a raw topology document and installs it. Malformed documents
// are rejected with reconcile.ErrInvalidConfig before anything changes.
func (s *Service) ReplaceConfig(ctx context.Context, body []byte) (reconcile.PinConfig, error) {
	cfg, err := reconcile.DecodeConfig(body)
	if err != nil {
		return reconcile.PinConfig{}, err
	}
	if err := s.engine.ReplaceConfig(ctx, cfg); err != nil {
		return cfg, err
	}
	s.logger.Info("Pin configuration replaced", zap.Int("pins", len(cfg.Pins)))
	return cfg, nil
}

// State returns the current snapshot.
func (s *Service) State(ctx context.Context) (reconcile.Snapshot, error) {
	return s.engine.Snapshot(ctx)
}

// SetPin drives an output pin and returns the applied level.
func (s *Service) SetPin(ctx context.Context, number int, value any) (int, error) {
	v, err := s.engine.SetOutput(ctx, number, reconcile.Coerce(value), reconcile.OriginHTTP)
	if err != nil {
		return 0, fmt.Errorf("set pin %d: %w", number, err)
	}
	return v, nil
}

// TogglePin inverts an output pin and returns the level the toggle produced.
func (s *Service) TogglePin(ctx context.Context, number int) (int, error) {
	v, err := s.engine.ToggleOutput(ctx, number, reconcile.OriginHTTP)
	if err != nil {
		return 0, fmt.Errorf("toggle pin %d: %w", number, err)
	}
	return v, nil
}

// Audit compares the active topology with the stored state document.
func (s *Service) Audit(ctx context.Context, purge bool) (*reconcile.Plan, error) {
	cfg, err := s.Config(ctx)
	if err != nil {
		return nil, err
	}
	state := s.store.LoadState(ctx)
	return reconcile.Audit(cfg, state, reconcile.PlanOptions{DoPurge: purge}), nil
}

// Inject drives a simulated input line.
func (s *Service) Inject(ctx context.Context, number int, value any) (int, error) {
	if s.injector == nil {
		return 0, ErrNoSimulator
	}
	snap, err := s.engine.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	if _, ok := snap.Inputs[number]; !ok {
		return 0, fmt.Errorf("%w: %d", ErrNotInput, number)
	}
	v := reconcile.Coerce(value)
	if err := s.injector.Inject(number, v); err != nil {
		return 0, err
	}
	return v, nil
}

// IsUnknownPin reports whether err means the addressed pin does not exist.
func IsUnknownPin(err error) bool {
	return errors.Is(err, reconcile.ErrNotOutput) || errors.Is(err, ErrNotInput) || errors.Is(err, gpio.ErrUnknownPin)
}
