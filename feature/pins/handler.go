package pins

import (
	"encoding/json"
	"errors"

	"greenspring/core/logger"
	"greenspring/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for pins.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ValueRequest is the body of pin write requests.
type ValueRequest struct {
	// Value is coerced to 0 or 1.
	Value any `json:"value" swaggertype:"integer"`
}

// RegisterRoutes registers the pin routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/api")
	group.Get("/config", h.HandleGetConfig)
	group.Post("/config", h.HandleReplaceConfig)
	group.Get("/state", h.HandleGetState)
	group.Put("/pins/:number", h.HandleSetPin)
	group.Post("/pins/:number/toggle", h.HandleTogglePin)
	group.Get("/audit", h.HandleAudit)
	group.Post("/sim/:number", h.HandleInject)
}

// HandleGetConfig returns the active topology.
// @Summary Get Pin Configuration
// @Description Returns the active pin topology document.
// @Tags pins
// @Produce json
// @Success 200 {object} reconcile.PinConfig "Pin configuration"
// @Failure 503 {object} map[string]string "Engine not running"
// @Router /api/config [get]
func (h *Handler) HandleGetConfig(c *fiber.Ctx) error {
	cfg, err := h.service.Config(c.Context())
	if err != nil {
		return h.fail(c, fiber.StatusServiceUnavailable, "Failed to read configuration", err)
	}
	return c.JSON(cfg)
}

// HandleReplaceConfig validates, persists and applies a new topology.
// @Summary Replace Pin Configuration
// @Description Replaces the pin topology and rebuilds every driver. A failed save is reported but the new topology stays applied.
// @Tags pins
// @Accept json
// @Produce json
// @Param config body reconcile.PinConfig true "Pin configuration"
// @Success 200 {object} map[string]interface{} "Saved configuration"
// @Failure 400 {object} map[string]string "Malformed configuration"
// @Failure 500 {object} map[string]string "Configuration could not be saved"
// @Router /api/config [post]
func (h *Handler) HandleReplaceConfig(c *fiber.Ctx) error {
	cfg, err := h.service.ReplaceConfig(c.Context(), c.Body())
	if err != nil {
		if errors.Is(err, reconcile.ErrInvalidConfig) {
			return h.fail(c, fiber.StatusBadRequest, "Rejected pin configuration", err)
		}
		return h.fail(c, fiber.StatusInternalServerError, "Failed to save pin configuration", err)
	}
	return c.JSON(fiber.Map{
		"status": "saved",
		"config": cfg,
	})
}

// HandleGetState returns the current snapshot.
// @Summary Get Pin State
// @Description Returns the configuration with the current output values and input levels.
// @Tags pins
// @Produce json
// @Success 200 {object} reconcile.Snapshot "Snapshot"
// @Failure 503 {object} map[string]string "Engine not running"
// @Router /api/state [get]
func (h *Handler) HandleGetState(c *fiber.Ctx) error {
	snap, err := h.service.State(c.Context())
	if err != nil {
		return h.fail(c, fiber.StatusServiceUnavailable, "Failed to read state", err)
	}
	return c.JSON(snap)
}

// HandleSetPin drives an output pin.
// @Summary Set Output Pin
// @Description Writes a value (coerced to 0 or 1) to an output pin.
// @Tags pins
// @Accept json
// @Produce json
// @Param number path int true "Pin number"
// @Param body body ValueRequest true "Value"
// @Success 200 {object} reconcile.Delta "Applied value"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "Not an output pin"
// @Router /api/pins/{number} [put]
func (h *Handler) HandleSetPin(c *fiber.Ctx) error {
	number, err := c.ParamsInt("number")
	if err != nil || number < 0 {
		return h.fail(c, fiber.StatusBadRequest, "Invalid pin number", err)
	}
	var req ValueRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return h.fail(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	v, err := h.service.SetPin(c.Context(), number, req.Value)
	if err != nil {
		return h.pinError(c, err)
	}
	return c.JSON(reconcile.Delta{Number: number, Value: v})
}

// HandleTogglePin inverts an output pin.
// @Summary Toggle Output Pin
// @Description Inverts the current value of an output pin.
// @Tags pins
// @Produce json
// @Param number path int true "Pin number"
// @Success 200 {object} reconcile.Delta "New value"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "Not an output pin"
// @Router /api/pins/{number}/toggle [post]
func (h *Handler) HandleTogglePin(c *fiber.Ctx) error {
	number, err := c.ParamsInt("number")
	if err != nil || number < 0 {
		return h.fail(c, fiber.StatusBadRequest, "Invalid pin number", err)
	}
	v, err := h.service.TogglePin(c.Context(), number)
	if err != nil {
		return h.pinError(c, err)
	}
	return c.JSON(reconcile.Delta{Number: number, Value: v})
}

// HandleAudit reports inconsistencies between the topology and the state document.
// @Summary Audit Pin Documents
// @Description Compares the topology with the stored state. With purge=true the plan lists the state entries that would be removed.
// @Tags pins
// @Produce json
// @Param purge query bool false "Plan purge actions"
// @Success 200 {object} reconcile.Plan "Audit plan"
// @Failure 503 {object} map[string]string "Engine not running"
// @Router /api/audit [get]
func (h *Handler) HandleAudit(c *fiber.Ctx) error {
	plan, err := h.service.Audit(c.Context(), c.QueryBool("purge", false))
	if err != nil {
		return h.fail(c, fiber.StatusServiceUnavailable, "Audit failed", err)
	}
	return c.JSON(plan)
}

// HandleInject drives a simulated input line.
// @Summary Inject Simulated Input
// @Description Sets the level of a simulated line. Only available with the sim driver.
// @Tags pins
// @Accept json
// @Produce json
// @Param number path int true "Pin number"
// @Param body body ValueRequest true "Value"
// @Success 200 {object} reconcile.Delta "Injected value"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "Unknown pin or simulator disabled"
// @Router /api/sim/{number} [post]
func (h *Handler) HandleInject(c *fiber.Ctx) error {
	number, err := c.ParamsInt("number")
	if err != nil || number < 0 {
		return h.fail(c, fiber.StatusBadRequest, "Invalid pin number", err)
	}
	var req ValueRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return h.fail(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	v, err := h.service.Inject(c.Context(), number, req.Value)
	if err != nil {
		if errors.Is(err, ErrNoSimulator) || IsUnknownPin(err) {
			return h.fail(c, fiber.StatusNotFound, "Cannot inject input", err)
		}
		return h.fail(c, fiber.StatusInternalServerError, "Cannot inject input", err)
	}
	return c.JSON(reconcile.Delta{Number: number, Value: v})
}

func (h *Handler) pinError(c *fiber.Ctx, err error) error {
	if IsUnknownPin(err) {
		return h.fail(c, fiber.StatusNotFound, "Pin write rejected", err)
	}
	return h.fail(c, fiber.StatusServiceUnavailable, "Pin write failed", err)
}

func (h *Handler) fail(c *fiber.Ctx, status int, msg string, err error) error {
	l := logger.WithRayID(h.service.logger, c)
	detail := msg
	if err != nil {
		detail = err.Error()
	}
	if status >= fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Warn(msg, zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{
		"error": detail,
	})
}
