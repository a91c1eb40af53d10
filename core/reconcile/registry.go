package reconcile

import (
	"greenspring/core/gpio"
	"greenspring/core/logger"

	"go.uber.org/zap"
)

// entry pairs a declared pin with its live driver and the value last written or observed.
type entry struct {
	spec   PinSpec
	driver gpio.Driver
	value  int
}

// InputListener builds the change callback attached to an input driver.
type InputListener func(d gpio.Driver) func(value int)

// Registry owns every open driver. It is only touched from the engine loop.
type Registry struct {
	factory gpio.Factory
	logger  *zap.Logger
	entries map[int]*entry
	order   []int
}

// NewRegistry creates an empty registry opening drivers from factory.
func NewRegistry(factory gpio.Factory, logger *zap.Logger) *Registry {
	return &Registry{
		factory: factory,
		logger:  logger,
		entries: make(map[int]*entry),
	}
}

// lookup returns the entry for a pin number.
func (r *Registry) lookup(number int) (*entry, bool) {
	e, ok := r.entries[number]
	return e, ok
}

// Len returns the number of live entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// ReleaseAll releases every driver and empties the registry. Release errors are logged.
func (r *Registry) ReleaseAll() {
	for _, n := range r.order {
		if e, ok := r.entries[n]; ok {
			r.release(e)
		}
	}
	r.entries = make(map[int]*entry)
	r.order = nil
}

func (r *Registry) release(e *entry) {
	if err := e.driver.Release(); err != nil {
		r.logger.Warn("Failed to release pin", logger.Pin(e.spec.Number), zap.Error(err))
	}
}

// Rebuild releases the current drivers and opens one per declared pin, in document
// order. A later declaration of the same number replaces the earlier one. Outputs are
// driven to their value in state (0 when absent); inputs get listen's callback and
// start from their current level. Pins whose driver fails to open are skipped.
func (r *Registry) Rebuild(cfg PinConfig, state PinState, listen InputListener) {
	r.ReleaseAll()

	for _, spec := range cfg.Pins {
		if prev, dup := r.entries[spec.Number]; dup {
			r.release(prev)
			delete(r.entries, spec.Number)
			r.order = removeNumber(r.order, spec.Number)
		}

		d, err := r.factory.Open(spec.Number, spec.Direction)
		if err != nil {
			r.logger.Warn("Failed to open pin, skipping",
				logger.Pin(spec.Number),
				zap.String("direction", string(spec.Direction)),
				zap.Error(err))
			continue
		}

		e := &entry{spec: spec, driver: d}
		if spec.Direction == gpio.Out {
			e.value = state[spec.Number]
			if err := d.Write(e.value); err != nil {
				r.logger.Warn("Failed to write initial value", logger.Pin(spec.Number), zap.Error(err))
			}
		} else {
			if v, err := d.Read(); err != nil {
				r.logger.Warn("Failed to read input", logger.Pin(spec.Number), zap.Error(err))
			} else {
				e.value = v
			}
			if listen != nil {
				d.OnChange(listen(d))
			}
		}

		r.entries[spec.Number] = e
		r.order = append(r.order, spec.Number)
	}
}

// outputs returns the live output entries in build order.
func (r *Registry) outputs() []*entry {
	return r.byDirection(gpio.Out)
}

// inputs returns the live input entries in build order.
func (r *Registry) inputs() []*entry {
	return r.byDirection(gpio.In)
}

func (r *Registry) byDirection(dir gpio.Direction) []*entry {
	var out []*entry
	for _, n := range r.order {
		if e := r.entries[n]; e.spec.Direction == dir {
			out = append(out, e)
		}
	}
	return out
}

func removeNumber(order []int, number int) []int {
	out := order[:0]
	for _, n := range order {
		if n != number {
			out = append(out, n)
		}
	}
	return out
}
