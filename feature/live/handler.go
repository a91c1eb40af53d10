package live

import (
	"context"

	"greenspring/core/realtime"
	"greenspring/core/reconcile"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Engine is the part of the reconcile engine the live channel drives.
type Engine interface {
	Attach(ctx context.Context, s realtime.Session) error
	Detach(id string)
	ApplyOutput(ctx context.Context, number, value int, origin reconcile.Origin) error
	Toggle(ctx context.Context, number int, origin reconcile.Origin) error
}

// Handler serves the realtime channel.
type Handler struct {
	engine     Engine
	logger     *zap.Logger
	bufferSize int
}

// NewHandler creates a new live handler. bufferSize bounds each session's unsent frames.
func NewHandler(engine Engine, logger *zap.Logger, bufferSize int) *Handler {
	return &Handler{engine: engine, logger: logger, bufferSize: bufferSize}
}

// RegisterRoutes registers the websocket route.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(h.serve))
}

func (h *Handler) serve(conn *websocket.Conn) {
	id := uuid.NewString()
	l := h.logger.With(zap.String("session", id))
	box := realtime.NewOutbox(id, h.bufferSize)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		h.writeLoop(conn, box, l)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := h.engine.Attach(ctx, box); err != nil {
		l.Warn("Failed to attach session", zap.Error(err))
		_ = box.Close()
		<-writerDone
		return
	}
	l.Info("Session connected")

	defer func() {
		h.engine.Detach(id)
		_ = box.Close()
		<-writerDone
		l.Info("Session disconnected")
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		cmd, err := DecodeCommand(data)
		if err != nil {
			l.Debug("Ignoring inbound frame", zap.Error(err))
			continue
		}
		if err := h.dispatch(ctx, cmd); err != nil {
			l.Warn("Command failed", zap.String("type", cmd.Type), zap.Error(err))
		}
	}
}

// dispatch turns a command into an engine call with the UI origin.
func (h *Handler) dispatch(ctx context.Context, cmd Command) error {
	switch {
	case cmd.Type == TypeToggle && !cmd.HasValue:
		return h.engine.Toggle(ctx, cmd.Number, reconcile.OriginUI)
	default:
		return h.engine.ApplyOutput(ctx, cmd.Number, reconcile.Coerce(cmd.Value), reconcile.OriginUI)
	}
}

// writeLoop drains the outbox onto the connection. A closed outbox (including one
// dropped by the hub as a slow consumer) closes the connection.
func (h *Handler) writeLoop(conn *websocket.Conn, box *realtime.Outbox, l *zap.Logger) {
	defer conn.Close()
	for {
		select {
		case <-box.Done():
			return
		case msg := <-box.Messages():
			if err := conn.WriteJSON(msg); err != nil {
				l.Debug("Write failed", zap.Error(err))
				_ = box.Close()
				return
			}
		}
	}
}
