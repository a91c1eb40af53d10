package gpio

import (
	"fmt"
	"sync"
)

// Simulator is an in-memory Factory used when no hardware is present.
//
// Writes are stored and listeners registered on the same pin are invoked synchronously,
// on the writer's goroutine, whenever the level transitions. Inject drives a line from
// the outside, which is how simulated inputs change.
type Simulator struct {
	mu   sync.Mutex
	pins map[int]*simPin
}

// NewSimulator creates an empty simulator.
func NewSimulator() *Simulator {
	return &Simulator{pins: make(map[int]*simPin)}
}

// Name returns the backend name.
func (s *Simulator) Name() string {
	return DriverSim
}

// Open creates a simulated line at level 0.
func (s *Simulator) Open(number int, dir Direction) (Driver, error) {
	if number < 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPin, number)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.pins[number]; busy {
		return nil, fmt.Errorf("%w: %d", ErrBusy, number)
	}
	p := &simPin{sim: s, number: number, dir: dir}
	s.pins[number] = p
	return p, nil
}

// Inject sets the level of an open line as if the outside world drove it.
func (s *Simulator) Inject(number int, value int) error {
	s.mu.Lock()
	p, ok := s.pins[number]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownPin, number)
	}
	return p.set(value)
}

// Level returns the current level of an open line.
func (s *Simulator) Level(number int) (int, bool) {
	s.mu.Lock()
	p, ok := s.pins[number]
	s.mu.Unlock()
	if !ok {
		return 0, false
	}
	v, err := p.Read()
	return v, err == nil
}

func (s *Simulator) forget(p *simPin) {
	s.mu.Lock()
	if s.pins[p.number] == p {
		delete(s.pins, p.number)
	}
	s.mu.Unlock()
}

type simPin struct {
	sim    *Simulator
	number int
	dir    Direction

	mu        sync.Mutex
	value     int
	listeners []func(int)
	released  bool
}

func (p *simPin) Number() int          { return p.number }
func (p *simPin) Direction() Direction { return p.dir }

func (p *simPin) Write(value int) error {
	if p.dir != Out {
		return fmt.Errorf("%w: %d", ErrDirection, p.number)
	}
	return p.set(value)
}

func (p *simPin) set(value int) error {
	p.mu.Lock()
	if p.released {
		p.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrReleased, p.number)
	}
	value = level(value)
	changed := p.value != value
	p.value = value
	listeners := append([]func(int){}, p.listeners...)
	p.mu.Unlock()

	if changed {
		for _, fn := range listeners {
			fn(value)
		}
	}
	return nil
}

func (p *simPin) Read() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return 0, fmt.Errorf("%w: %d", ErrReleased, p.number)
	}
	return p.value, nil
}

func (p *simPin) OnChange(fn func(int)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released || fn == nil {
		return
	}
	p.listeners = append(p.listeners, fn)
}

func (p *simPin) Release() error {
	p.mu.Lock()
	if p.released {
		p.mu.Unlock()
		return nil
	}
	p.released = true
	p.listeners = nil
	p.mu.Unlock()

	p.sim.forget(p)
	return nil
}
