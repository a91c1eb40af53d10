package realtime

import "sync"

// Outbox is a Session backed by a bounded queue. A transport drains Messages on its own
// goroutine, which keeps Send non-blocking and ordered.
type Outbox struct {
	id     string
	ch     chan Message
	closed chan struct{}
	once   sync.Once
}

// NewOutbox creates an outbox holding at most size undelivered messages.
func NewOutbox(id string, size int) *Outbox {
	if size <= 0 {
		size = 64
	}
	return &Outbox{
		id:     id,
		ch:     make(chan Message, size),
		closed: make(chan struct{}),
	}
}

func (o *Outbox) ID() string { return o.id }

// Send queues msg, failing instead of blocking when the queue is full.
func (o *Outbox) Send(msg Message) error {
	select {
	case <-o.closed:
		return ErrClosed
	default:
	}
	select {
	case o.ch <- msg:
		return nil
	default:
		return ErrSlowConsumer
	}
}

// Messages returns the queue to drain.
func (o *Outbox) Messages() <-chan Message { return o.ch }

// Done is closed once the outbox is closed.
func (o *Outbox) Done() <-chan struct{} { return o.closed }

// Close marks the outbox closed. Safe to call more than once.
func (o *Outbox) Close() error {
	o.once.Do(func() { close(o.closed) })
	return nil
}
