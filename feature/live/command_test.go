package live

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCommand(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Command
	}{
		{"SetPin", `{"type":"setPin","data":{"number":17,"value":1}}`, Command{Type: TypeSetPin, Number: 17, Value: float64(1), HasValue: true}},
		{"SetPinStringNumber", `{"type":"setPin","data":{"number":"17","value":true}}`, Command{Type: TypeSetPin, Number: 17, Value: true, HasValue: true}},
		{"Toggle", `{"type":"toggle","data":{"number":4}}`, Command{Type: TypeToggle, Number: 4}},
		{"ToggleNullValue", `{"type":"toggle","data":{"number":4,"value":null}}`, Command{Type: TypeToggle, Number: 4}},
		{"ToggleWithValue", `{"type":"toggle","data":{"number":4,"value":0}}`, Command{Type: TypeToggle, Number: 4, Value: float64(0), HasValue: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeCommand([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeCommand_Rejected(t *testing.T) {
	tests := map[string]struct {
		in  string
		err error
	}{
		"NotJSON":       {`toggle 17`, ErrMalformed},
		"Array":         {`[1,2]`, ErrMalformed},
		"UnknownType":   {`{"type":"reboot","data":{"number":17}}`, ErrUnknownCommand},
		"MissingType":   {`{"data":{"number":17}}`, ErrUnknownCommand},
		"MissingNumber": {`{"type":"setPin","data":{"value":1}}`, ErrMalformed},
		"MissingData":   {`{"type":"toggle"}`, ErrMalformed},
		"Negative":      {`{"type":"toggle","data":{"number":-2}}`, ErrMalformed},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeCommand([]byte(tt.in))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}
