package gpio

import (
	"fmt"
	"sync"
	"time"

	"greenspring/core/logger"

	"go.uber.org/zap"
	pgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// edgeWait bounds a single WaitForEdge call so a released watcher notices promptly.
const edgeWait = 500 * time.Millisecond

// Periph opens real GPIO lines through periph.io. Lines are looked up by name
// (PinNameFormat applied to the BCM number, "GPIO17" by default).
type Periph struct {
	format string
	poll   time.Duration
	logger *zap.Logger

	initOnce sync.Once
	initErr  error
	hostInit func() error
	lookup   func(name string) pgpio.PinIO
}

// NewPeriph creates a periph backed factory. Host drivers are initialised on first Open.
func NewPeriph(cfg Config, l *zap.Logger) *Periph {
	format := cfg.PinNameFormat
	if format == "" {
		format = "GPIO%d"
	}
	poll := time.Duration(cfg.PollMillis) * time.Millisecond
	if poll <= 0 {
		poll = 50 * time.Millisecond
	}
	return &Periph{
		format:   format,
		poll:     poll,
		logger:   l,
		hostInit: initHost,
		lookup:   gpioreg.ByName,
	}
}

// Name returns the backend name.
func (p *Periph) Name() string {
	return DriverPeriph
}

func (p *Periph) init() error {
	p.initOnce.Do(func() {
		if err := p.hostInit(); err != nil {
			p.initErr = fmt.Errorf("failed to initialise periph host: %w", err)
		}
	})
	return p.initErr
}

// Open configures the named line for the requested direction. Inputs are watched for
// both edges, falling back to polling when the line cannot report edges.
func (p *Periph) Open(number int, dir Direction) (Driver, error) {
	if err := p.init(); err != nil {
		return nil, err
	}
	name := fmt.Sprintf(p.format, number)
	pin := p.lookup(name)
	if pin == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPin, name)
	}

	d := &periphPin{
		number: number,
		dir:    dir,
		pin:    pin,
		done:   make(chan struct{}),
		logger: p.logger.With(logger.Pin(number), zap.String("line", name)),
	}

	if dir == In {
		edges := true
		if err := pin.In(pgpio.PullNoChange, pgpio.BothEdges); err != nil {
			d.logger.Debug("Edge detection unavailable, polling input", zap.Error(err))
			edges = false
			if err := pin.In(pgpio.PullNoChange, pgpio.NoEdge); err != nil {
				return nil, fmt.Errorf("failed to configure %s as input: %w", name, err)
			}
		}
		d.last = toInt(pin.Read())
		go d.watch(edges, p.poll)
		return d, nil
	}

	if err := pin.Out(pgpio.Low); err != nil {
		return nil, fmt.Errorf("failed to configure %s as output: %w", name, err)
	}
	return d, nil
}

type periphPin struct {
	number int
	dir    Direction
	pin    pgpio.PinIO
	logger *zap.Logger

	mu        sync.Mutex
	listeners []func(int)
	last      int
	released  bool

	done      chan struct{}
	closeOnce sync.Once
}

func (d *periphPin) Number() int          { return d.number }
func (d *periphPin) Direction() Direction { return d.dir }

func (d *periphPin) Write(value int) error {
	if d.dir != Out {
		return fmt.Errorf("%w: %d", ErrDirection, d.number)
	}
	if d.isReleased() {
		return fmt.Errorf("%w: %d", ErrReleased, d.number)
	}
	lvl := pgpio.Low
	if level(value) == 1 {
		lvl = pgpio.High
	}
	return d.pin.Out(lvl)
}

func (d *periphPin) Read() (int, error) {
	if d.isReleased() {
		return 0, fmt.Errorf("%w: %d", ErrReleased, d.number)
	}
	return toInt(d.pin.Read()), nil
}

func (d *periphPin) OnChange(fn func(int)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.released || fn == nil {
		return
	}
	d.listeners = append(d.listeners, fn)
}

func (d *periphPin) Release() error {
	var err error
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.released = true
		d.listeners = nil
		d.mu.Unlock()

		close(d.done)
		err = d.pin.Halt()
	})
	return err
}

func (d *periphPin) isReleased() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.released
}

// watch runs until Release. It never waits for listeners to be removed, so a listener
// that blocks only delays the next sample.
func (d *periphPin) watch(edges bool, poll time.Duration) {
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		if edges {
			select {
			case <-d.done:
				return
			default:
			}
			if !d.pin.WaitForEdge(edgeWait) {
				continue
			}
		} else {
			select {
			case <-d.done:
				return
			case <-ticker.C:
			}
		}
		d.sample()
	}
}

func (d *periphPin) sample() {
	v := toInt(d.pin.Read())

	d.mu.Lock()
	if d.released || v == d.last {
		d.mu.Unlock()
		return
	}
	d.last = v
	listeners := append([]func(int){}, d.listeners...)
	d.mu.Unlock()

	for _, fn := range listeners {
		fn(v)
	}
}

func initHost() error {
	_, err := host.Init()
	return err
}

func toInt(l pgpio.Level) int {
	if l == pgpio.High {
		return 1
	}
	return 0
}
