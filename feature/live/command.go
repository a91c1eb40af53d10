package live

import (
	"encoding/json"
	"errors"
	"fmt"

	"greenspring/core/utils"
)

const (
	// TypeSetPin writes data.value to an output.
	TypeSetPin = "setPin"
	// TypeToggle inverts an output, or writes data.value when one is given.
	TypeToggle = "toggle"
)

var (
	// ErrMalformed is returned for frames that are not a command object.
	ErrMalformed = errors.New("malformed command")
	// ErrUnknownCommand is returned for a command type the channel does not handle.
	ErrUnknownCommand = errors.New("unknown command")
)

// Command is one decoded inbound frame.
type Command struct {
	Type     string
	Number   int
	Value    any
	HasValue bool
}

type frame struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// DecodeCommand parses {"type": ..., "data": {"number": n, "value": v}}.
func DecodeCommand(data []byte) (Command, error) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Command{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if f.Type != TypeSetPin && f.Type != TypeToggle {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, f.Type)
	}
	number, ok := utils.ToInt(f.Data["number"])
	if !ok || number < 0 {
		return Command{}, fmt.Errorf("%w: missing or invalid number", ErrMalformed)
	}
	value, has := f.Data["value"]
	return Command{Type: f.Type, Number: number, Value: value, HasValue: has && value != nil}, nil
}
