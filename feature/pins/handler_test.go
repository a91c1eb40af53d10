package pins

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"greenspring/core/gpio"
	"greenspring/core/pinstore"
	"greenspring/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	app    *fiber.App
	engine *reconcile.Engine
	sim    *gpio.Simulator
	store  *pinstore.MemoryStore
}

func seedConfig() reconcile.PinConfig {
	return reconcile.PinConfig{Pins: []reconcile.PinSpec{
		{Number: 17, Label: "LED", Direction: gpio.Out},
		{Number: 4, Label: "Button", Direction: gpio.In},
	}}
}

func setupTestApp(t *testing.T) *testEnv {
	t.Helper()
	sim := gpio.NewSimulator()
	store := pinstore.NewMemoryStore()
	store.Seed(seedConfig(), reconcile.PinState{17: 1, 99: 1})

	engine := reconcile.New(reconcile.Options{Factory: sim, Store: store, Logger: zap.NewNop()})
	require.NoError(t, engine.Start(context.Background()))
	t.Cleanup(engine.Shutdown)

	app := fiber.New()
	NewHandler(NewService(engine, store, sim, zap.NewNop())).RegisterRoutes(app)
	return &testEnv{app: app, engine: engine, sim: sim, store: store}
}

func do(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestHandleGetConfig(t *testing.T) {
	env := setupTestApp(t)

	resp, body := do(t, env.app, "GET", "/api/config", "")
	assert.Equal(t, 200, resp.StatusCode)
	pins, ok := body["pins"].([]any)
	require.True(t, ok)
	assert.Len(t, pins, 2)
}

func TestHandleGetState(t *testing.T) {
	env := setupTestApp(t)

	resp, body := do(t, env.app, "GET", "/api/state", "")
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, map[string]any{"17": float64(1)}, body["state"])
	assert.Equal(t, map[string]any{"4": float64(0)}, body["inputs"])
}

func TestHandleReplaceConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid", func(t *testing.T) {
		env := setupTestApp(t)
		resp, body := do(t, env.app, "POST", "/api/config", `{"pins":[{"number":"22","label":"Pump"},{"number":5,"direction":"in"}]}`)

		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "saved", body["status"])

		stored := env.store.LoadConfig(ctx)
		assert.Equal(t, []reconcile.PinSpec{
			{Number: 22, Label: "Pump", Direction: gpio.Out},
			{Number: 5, Label: "GPIO 5", Direction: gpio.In},
		}, stored.Pins)

		_, open := env.sim.Level(17)
		assert.False(t, open)
		_, open = env.sim.Level(22)
		assert.True(t, open)
	})

	t.Run("PinsNotASequence", func(t *testing.T) {
		env := setupTestApp(t)
		configSaves, _ := env.store.Saves()

		resp, body := do(t, env.app, "POST", "/api/config", `{"pins":{"number":22}}`)

		assert.Equal(t, 400, resp.StatusCode)
		assert.NotEmpty(t, body["error"])
		after, _ := env.store.Saves()
		assert.Equal(t, configSaves, after)
		assert.Equal(t, seedConfig(), env.store.LoadConfig(ctx))

		level, open := env.sim.Level(17)
		assert.True(t, open)
		assert.Equal(t, 1, level)
	})

	t.Run("NotJSON", func(t *testing.T) {
		env := setupTestApp(t)
		resp, _ := do(t, env.app, "POST", "/api/config", `pins=17`)
		assert.Equal(t, 400, resp.StatusCode)
	})

	t.Run("SaveFailure", func(t *testing.T) {
		env := setupTestApp(t)
		env.store.FailSaves(errors.New("read-only filesystem"), nil)

		resp, body := do(t, env.app, "POST", "/api/config", `{"pins":[{"number":22}]}`)
		assert.Equal(t, 500, resp.StatusCode)
		assert.Contains(t, body["error"], "read-only filesystem")

		// Applied in memory nonetheless.
		snap, err := env.engine.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, reconcile.PinState{22: 0}, snap.State)
	})
}

func TestHandleSetPin(t *testing.T) {
	env := setupTestApp(t)

	resp, body := do(t, env.app, "PUT", "/api/pins/17", `{"value":0}`)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, float64(0), body["value"])
	level, _ := env.sim.Level(17)
	assert.Equal(t, 0, level)

	resp, body = do(t, env.app, "PUT", "/api/pins/17", `{"value":"on"}`)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, float64(1), body["value"])

	tests := []struct {
		name   string
		target string
		body   string
		status int
	}{
		{"Input", "/api/pins/4", `{"value":1}`, 404},
		{"Unknown", "/api/pins/99", `{"value":1}`, 404},
		{"BadNumber", "/api/pins/abc", `{"value":1}`, 400},
		{"BadBody", "/api/pins/17", `value`, 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := do(t, env.app, "PUT", tt.target, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestHandleTogglePin(t *testing.T) {
	env := setupTestApp(t)

	resp, body := do(t, env.app, "POST", "/api/pins/17/toggle", "")
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, float64(0), body["value"])
	assert.Equal(t, 0, env.store.LoadState(context.Background())[17])

	resp, _ = do(t, env.app, "POST", "/api/pins/4/toggle", "")
	assert.Equal(t, 404, resp.StatusCode)
}

func TestHandleAudit(t *testing.T) {
	env := setupTestApp(t)

	resp, body := do(t, env.app, "GET", "/api/audit?purge=true", "")
	assert.Equal(t, 200, resp.StatusCode)

	summary := body["summary"].(map[string]any)
	assert.Equal(t, float64(1), summary["inert_state"])
	assert.Equal(t, float64(1), summary["purge_actions"])
}

func TestHandleInject(t *testing.T) {
	env := setupTestApp(t)

	resp, _ := do(t, env.app, "POST", "/api/sim/4", `{"value":1}`)
	assert.Equal(t, 200, resp.StatusCode)

	snap, err := env.engine.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Inputs[4])

	resp, _ = do(t, env.app, "POST", "/api/sim/17", `{"value":1}`)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestHandleInjectWithoutSimulator(t *testing.T) {
	env := setupTestApp(t)
	app := fiber.New()
	NewHandler(NewService(env.engine, env.store, nil, zap.NewNop())).RegisterRoutes(app)

	resp, _ := do(t, app, "POST", "/api/sim/4", `{"value":1}`)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestHandlersWithStoppedEngine(t *testing.T) {
	engine := reconcile.New(reconcile.Options{Factory: gpio.NewSimulator(), Store: pinstore.NewMemoryStore()})
	app := fiber.New()
	NewHandler(NewService(engine, pinstore.NewMemoryStore(), nil, zap.NewNop())).RegisterRoutes(app)

	for _, target := range []string{"/api/config", "/api/state", "/api/audit"} {
		resp, _ := do(t, app, "GET", target, "")
		assert.Equal(t, 503, resp.StatusCode, target)
	}
	resp, _ := do(t, app, "PUT", "/api/pins/17", `{"value":1}`)
	assert.Equal(t, 503, resp.StatusCode)
}
