package reconcile

import (
	"sort"

	"greenspring/core/gpio"
)

// PinSpec is one declared line of the topology.
type PinSpec struct {
	// Number is the BCM line number, the unique key of the topology.
	Number int `json:"number"`
	// Label is the display name shown by the dashboard.
	Label string `json:"label"`
	// Direction is either "in" or "out".
	Direction gpio.Direction `json:"direction"`
}

// PinConfig is the ordered topology document.
// Duplicate numbers are allowed in the document; the last one wins at rebuild.
type PinConfig struct {
	Pins []PinSpec `json:"pins"`
}

// EmptyConfig returns a topology without pins.
func EmptyConfig() PinConfig {
	return PinConfig{Pins: []PinSpec{}}
}

// Clone returns a deep copy.
func (c PinConfig) Clone() PinConfig {
	pins := make([]PinSpec, len(c.Pins))
	copy(pins, c.Pins)
	return PinConfig{Pins: pins}
}

// Effective returns the specs that survive a rebuild: one per number, the last
// declaration winning, in the order of their final declaration.
func (c PinConfig) Effective() []PinSpec {
	last := make(map[int]int, len(c.Pins))
	for i, p := range c.Pins {
		last[p.Number] = i
	}
	out := make([]PinSpec, 0, len(last))
	for i, p := range c.Pins {
		if last[p.Number] == i {
			out = append(out, p)
		}
	}
	return out
}

// PinState maps a pin number to its last known output value (0 or 1).
// It is encoded with stringified numbers as keys.
type PinState map[int]int

// Clone returns a copy.
func (s PinState) Clone() PinState {
	out := make(PinState, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Numbers returns the keys in ascending order.
func (s PinState) Numbers() []int {
	keys := make([]int, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Origin identifies where a change came from.
type Origin string

const (
	OriginUI      Origin = "ui"
	OriginMQTT    Origin = "mqtt"
	OriginHTTP    Origin = "http"
	OriginRebuild Origin = "rebuild"
	OriginInput   Origin = "input"
)

// Snapshot is the full view sent to newly connected sessions and after every rebuild.
type Snapshot struct {
	Config PinConfig `json:"config"`
	// State holds exactly the output pins of the registry.
	State PinState `json:"state"`
	// Inputs holds the last observed level of every input pin.
	Inputs PinState `json:"inputs"`
}

// Delta is a single pin value change.
type Delta struct {
	Number int `json:"number"`
	Value  int `json:"value"`
}
