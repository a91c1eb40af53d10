package reconcile

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"greenspring/core/gpio"
	"greenspring/core/utils"
)

// ErrInvalidConfig is returned when a submitted topology document is malformed.
var ErrInvalidConfig = errors.New("invalid pin configuration")

// DefaultLabel is the label given to pins declared without one.
func DefaultLabel(number int) string {
	return fmt.Sprintf("GPIO %d", number)
}

// Coerce normalizes any truthy or non-zero value to 1 and everything else to 0.
func Coerce(v any) int {
	if utils.ToBool(v) {
		return 1
	}
	return 0
}

// ParsePayload maps an MQTT command payload to a level: "ON" or "1" in any letter case
// is 1, anything else (including an empty payload) is 0.
func ParsePayload(payload string) int {
	p := strings.TrimSpace(payload)
	if strings.EqualFold(p, "ON") || p == "1" {
		return 1
	}
	return 0
}

// NormalizeConfig validates a decoded topology document. The pins key must be present
// and be a sequence; every entry must be an object carrying a non-negative integer
// number. Directions other than "in" become "out" and empty labels get DefaultLabel.
func NormalizeConfig(raw map[string]any) (PinConfig, error) {
	rawPins, ok := raw["pins"]
	if !ok {
		return PinConfig{}, fmt.Errorf("%w: missing pins", ErrInvalidConfig)
	}
	list, ok := rawPins.([]any)
	if !ok {
		return PinConfig{}, fmt.Errorf("%w: pins must be a list", ErrInvalidConfig)
	}

	cfg := PinConfig{Pins: make([]PinSpec, 0, len(list))}
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return PinConfig{}, fmt.Errorf("%w: pins[%d] is not an object", ErrInvalidConfig, i)
		}
		number, ok := utils.ToInt(obj["number"])
		if !ok || number < 0 {
			return PinConfig{}, fmt.Errorf("%w: pins[%d] has an invalid number", ErrInvalidConfig, i)
		}
		label := strings.TrimSpace(utils.ToString(obj["label"]))
		if label == "" {
			label = DefaultLabel(number)
		}
		cfg.Pins = append(cfg.Pins, PinSpec{
			Number:    number,
			Label:     label,
			Direction: gpio.ParseDirection(utils.ToString(obj["direction"])),
		})
	}
	return cfg, nil
}

// DecodeConfig parses and normalizes a topology document.
func DecodeConfig(data []byte) (PinConfig, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return PinConfig{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return NormalizeConfig(raw)
}

// EncodeConfig serializes a topology document.
func EncodeConfig(cfg PinConfig) ([]byte, error) {
	if cfg.Pins == nil {
		cfg.Pins = []PinSpec{}
	}
	return json.MarshalIndent(cfg, "", "  ")
}

// DecodeState parses a state document. Keys that are not pin numbers are skipped and
// values are coerced to 0 or 1.
func DecodeState(data []byte) (PinState, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid pin state: %w", err)
	}
	state := make(PinState, len(raw))
	for k, v := range raw {
		number, ok := utils.ToInt(k)
		if !ok || number < 0 {
			continue
		}
		state[number] = Coerce(v)
	}
	return state, nil
}

// EncodeState serializes a state document.
func EncodeState(state PinState) ([]byte, error) {
	if state == nil {
		state = PinState{}
	}
	return json.MarshalIndent(state, "", "  ")
}
