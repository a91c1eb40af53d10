package reconcile_test

import (
	"testing"

	"greenspring/core/gpio"
	"greenspring/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePayload(t *testing.T) {
	tests := []struct {
		payload string
		want    int
	}{
		{"ON", 1},
		{"on", 1},
		{"On", 1},
		{"1", 1},
		{" ON\n", 1},
		{"OFF", 0},
		{"0", 0},
		{"", 0},
		{"true", 0},
		{"11", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, reconcile.ParsePayload(tt.payload), "payload %q", tt.payload)
	}
}

func TestCoerce(t *testing.T) {
	assert.Equal(t, 1, reconcile.Coerce(1))
	assert.Equal(t, 1, reconcile.Coerce(42))
	assert.Equal(t, 1, reconcile.Coerce(true))
	assert.Equal(t, 1, reconcile.Coerce(float64(1)))
	assert.Equal(t, 0, reconcile.Coerce(0))
	assert.Equal(t, 0, reconcile.Coerce(false))
	assert.Equal(t, 0, reconcile.Coerce(nil))

	assert.Equal(t, 1, reconcile.Coerce("2"))
	assert.Equal(t, 1, reconcile.Coerce("yes"))
	assert.Equal(t, 1, reconcile.Coerce("0.5"))
	assert.Equal(t, 1, reconcile.Coerce(0.5))
	assert.Equal(t, 1, reconcile.Coerce(map[string]any{"on": true}))
	assert.Equal(t, 1, reconcile.Coerce([]any{1}))
	assert.Equal(t, 0, reconcile.Coerce("0"))
	assert.Equal(t, 0, reconcile.Coerce("off"))
	assert.Equal(t, 0, reconcile.Coerce(""))
	assert.Equal(t, 0, reconcile.Coerce(map[string]any{}))
	assert.Equal(t, 0, reconcile.Coerce([]any{}))
}

func TestDecodeConfig(t *testing.T) {
	t.Run("Normalizes", func(t *testing.T) {
		cfg, err := reconcile.DecodeConfig([]byte(`{"pins":[
			{"number":17,"label":"LED","direction":"out"},
			{"number":"4","direction":"IN"},
			{"number":22.0,"label":"  ","direction":"sideways"}
		]}`))
		require.NoError(t, err)
		assert.Equal(t, []reconcile.PinSpec{
			{Number: 17, Label: "LED", Direction: gpio.Out},
			{Number: 4, Label: "GPIO 4", Direction: gpio.In},
			{Number: 22, Label: "GPIO 22", Direction: gpio.Out},
		}, cfg.Pins)
	})

	t.Run("EmptyList", func(t *testing.T) {
		cfg, err := reconcile.DecodeConfig([]byte(`{"pins":[]}`))
		require.NoError(t, err)
		assert.Empty(t, cfg.Pins)
	})

	rejected := map[string]string{
		"NotJSON":        `pins`,
		"MissingPins":    `{}`,
		"PinsNotList":    `{"pins":{"number":17}}`,
		"PinsString":     `{"pins":"17"}`,
		"EntryNotObject": `{"pins":[17]}`,
		"MissingNumber":  `{"pins":[{"label":"LED"}]}`,
		"NegativeNumber": `{"pins":[{"number":-1}]}`,
		"FractionNumber": `{"pins":[{"number":1.5}]}`,
	}
	for name, doc := range rejected {
		t.Run(name, func(t *testing.T) {
			_, err := reconcile.DecodeConfig([]byte(doc))
			assert.ErrorIs(t, err, reconcile.ErrInvalidConfig)
		})
	}
}

func TestConfigRoundTrip(t *testing.T) {
	cfg := mixedConfig()
	data, err := reconcile.EncodeConfig(cfg)
	require.NoError(t, err)

	decoded, err := reconcile.DecodeConfig(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, decoded)

	empty, err := reconcile.EncodeConfig(reconcile.PinConfig{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"pins":[]}`, string(empty))
}

func TestDecodeState(t *testing.T) {
	state, err := reconcile.DecodeState([]byte(`{"17":1,"4":0,"22":"1","27":true,"x":1,"-3":1}`))
	require.NoError(t, err)
	assert.Equal(t, reconcile.PinState{17: 1, 4: 0, 22: 1, 27: 1}, state)

	_, err = reconcile.DecodeState([]byte(`[1,2]`))
	assert.Error(t, err)
}

func TestStateRoundTrip(t *testing.T) {
	state := reconcile.PinState{17: 1, 4: 0}
	data, err := reconcile.EncodeState(state)
	require.NoError(t, err)
	assert.JSONEq(t, `{"17":1,"4":0}`, string(data))

	decoded, err := reconcile.DecodeState(data)
	require.NoError(t, err)
	assert.Equal(t, state, decoded)
}

func TestPinConfig_Effective(t *testing.T) {
	cfg := reconcile.PinConfig{Pins: []reconcile.PinSpec{
		{Number: 17, Label: "A", Direction: gpio.Out},
		{Number: 4, Label: "B", Direction: gpio.In},
		{Number: 17, Label: "C", Direction: gpio.In},
	}}
	assert.Equal(t, []reconcile.PinSpec{
		{Number: 4, Label: "B", Direction: gpio.In},
		{Number: 17, Label: "C", Direction: gpio.In},
	}, cfg.Effective())
}

func TestPinConfig_CloneIsIndependent(t *testing.T) {
	cfg := ledConfig()
	clone := cfg.Clone()
	clone.Pins[0].Label = "changed"
	assert.Equal(t, "LED", cfg.Pins[0].Label)
}
