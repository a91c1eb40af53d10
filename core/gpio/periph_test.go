package gpio

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	pgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func newTestPeriph(pins ...*gpiotest.Pin) *Periph {
	p := NewPeriph(Config{PinNameFormat: "GPIO%d", PollMillis: 5}, zap.NewNop())
	p.hostInit = func() error { return nil }
	p.lookup = func(name string) pgpio.PinIO {
		for _, pin := range pins {
			if pin.N == name {
				return pin
			}
		}
		return nil
	}
	return p
}

func TestPeriph_Output(t *testing.T) {
	pin := &gpiotest.Pin{N: "GPIO17"}
	p := newTestPeriph(pin)

	d, err := p.Open(17, Out)
	require.NoError(t, err)

	require.NoError(t, d.Write(1))
	assert.Equal(t, pgpio.High, pin.Read())

	v, err := d.Read()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	require.NoError(t, d.Write(0))
	assert.Equal(t, pgpio.Low, pin.Read())

	require.NoError(t, d.Release())
	require.NoError(t, d.Release())
	assert.ErrorIs(t, d.Write(1), ErrReleased)
}

func TestPeriph_UnknownPin(t *testing.T) {
	p := newTestPeriph()
	_, err := p.Open(99, Out)
	assert.ErrorIs(t, err, ErrUnknownPin)
}

func TestPeriph_HostInitFailure(t *testing.T) {
	p := newTestPeriph(&gpiotest.Pin{N: "GPIO17"})
	p.hostInit = func() error { return errors.New("no /dev/gpiomem") }

	_, err := p.Open(17, Out)
	assert.Error(t, err)
}

func TestPeriph_InputEdges(t *testing.T) {
	pin := &gpiotest.Pin{N: "GPIO4", EdgesChan: make(chan pgpio.Level, 4)}
	p := newTestPeriph(pin)

	d, err := p.Open(4, In)
	require.NoError(t, err)
	defer d.Release()

	var mu sync.Mutex
	var seen []int
	d.OnChange(func(v int) {
		mu.Lock()
		seen = append(seen, v)
		mu.Unlock()
	})

	pin.EdgesChan <- pgpio.High
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 1 && seen[0] == 1
	}, time.Second, 5*time.Millisecond)

	pin.EdgesChan <- pgpio.Low
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 2 && seen[1] == 0
	}, time.Second, 5*time.Millisecond)
}

func TestPeriph_InputPollingFallback(t *testing.T) {
	// Without an edge channel the test pin refuses edge detection.
	pin := &gpiotest.Pin{N: "GPIO5"}
	p := newTestPeriph(pin)

	d, err := p.Open(5, In)
	require.NoError(t, err)
	defer d.Release()

	changed := make(chan int, 1)
	d.OnChange(func(v int) { changed <- v })

	require.NoError(t, pin.Out(pgpio.High))

	select {
	case v := <-changed:
		assert.Equal(t, 1, v)
	case <-time.After(time.Second):
		t.Fatal("polling watcher did not report the transition")
	}
}
