package gpio

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Direction is the configured direction of a GPIO line.
type Direction string

const (
	// In lines are observed; their value is never authored by the service.
	In Direction = "in"
	// Out lines are driven by the service.
	Out Direction = "out"
)

// ParseDirection normalizes a direction string. Anything other than "in" is an output.
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(In)) {
		return In
	}
	return Out
}

var (
	// ErrUnknownPin is returned when the platform exposes no line for a number.
	ErrUnknownPin = errors.New("unknown gpio pin")
	// ErrBusy is returned when a line is opened twice without being released.
	ErrBusy = errors.New("gpio pin already open")
	// ErrReleased is returned by any operation on a released driver.
	ErrReleased = errors.New("gpio pin released")
	// ErrDirection is returned when writing to an input line.
	ErrDirection = errors.New("gpio pin is not an output")
)

// Driver is a single opened GPIO line.
//
// Write is only valid on outputs and completes synchronously. OnChange is only meaningful
// on inputs; every registered listener is kept (listeners accumulate) until Release, and
// each one receives the new level after a transition. Release stops watching, frees the
// line and may be called any number of times.
type Driver interface {
	Number() int
	Direction() Direction
	Write(value int) error
	Read() (int, error)
	OnChange(fn func(value int))
	Release() error
}

// Factory opens drivers for one hardware backend.
type Factory interface {
	Name() string
	Open(number int, dir Direction) (Driver, error)
}

// Config holds configuration for the GPIO backend.
type Config struct {
	// Driver selects the backend: "sim" (in-memory) or "periph" (real hardware).
	Driver string `mapstructure:"driver" default:"sim"`
	// PinNameFormat turns a pin number into a periph registry name.
	PinNameFormat string `mapstructure:"pin_name_format" default:"GPIO%d"`
	// PollMillis is the sampling period for inputs whose line has no edge detection.
	PollMillis int `mapstructure:"poll_millis" default:"50"`
}

const (
	DriverSim    = "sim"
	DriverPeriph = "periph"
)

// NewFactory selects the backend named by the configuration.
func NewFactory(cfg Config, logger *zap.Logger) (Factory, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", DriverSim:
		return NewSimulator(), nil
	case DriverPeriph:
		return NewPeriph(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown gpio driver %q", cfg.Driver)
	}
}

func level(v int) int {
	if v != 0 {
		return 1
	}
	return 0
}
