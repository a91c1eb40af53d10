package realtime

import (
	"errors"
	"sync"

	"go.uber.org/zap"
)

const (
	// TypeInit carries a full snapshot of the configuration and pin values.
	TypeInit = "init"
	// TypePin carries a single pin value change.
	TypePin = "pin"
)

var (
	// ErrClosed is returned when sending to a closed session.
	ErrClosed = errors.New("session closed")
	// ErrSlowConsumer is returned when a session's outbound buffer is full.
	ErrSlowConsumer = errors.New("session outbound buffer full")
)

// Message is one frame pushed to UI sessions.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Session is one connected UI client. Send must not block and must preserve call order.
type Session interface {
	ID() string
	Send(msg Message) error
	Close() error
}

// Hub fans messages out to every connected session.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]Session
	logger   *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		sessions: make(map[string]Session),
		logger:   logger,
	}
}

// Add registers a session. A session with the same ID is replaced and closed.
func (h *Hub) Add(s Session) {
	h.mu.Lock()
	old, exists := h.sessions[s.ID()]
	h.sessions[s.ID()] = s
	h.mu.Unlock()

	if exists && old != s {
		_ = old.Close()
	}
	h.logger.Debug("Session attached", zap.String("session", s.ID()))
}

// Remove unregisters a session without closing it.
func (h *Hub) Remove(id string) {
	h.mu.Lock()
	_, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()

	if ok {
		h.logger.Debug("Session detached", zap.String("session", id))
	}
}

// Len returns the number of connected sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Broadcast sends msg to every session. Sessions that fail to accept it are dropped
// and closed; the remaining sessions still receive the message.
func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	targets := make([]Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	for _, s := range targets {
		if err := s.Send(msg); err != nil {
			h.logger.Warn("Dropping session",
				zap.String("session", s.ID()),
				zap.String("type", msg.Type),
				zap.Error(err))
			h.Remove(s.ID())
			_ = s.Close()
		}
	}
}

// Close closes and removes every session.
func (h *Hub) Close() {
	h.mu.Lock()
	sessions := h.sessions
	h.sessions = make(map[string]Session)
	h.mu.Unlock()

	for _, s := range sessions {
		_ = s.Close()
	}
}
