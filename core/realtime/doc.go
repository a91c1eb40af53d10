// Package realtime pushes pin snapshots and deltas to connected UI sessions.
//
// The Hub is transport agnostic: a Session only needs a non-blocking, order preserving
// Send. Outbox provides that on top of a bounded queue for transports (the websocket
// feature) that write on their own goroutine. A session that cannot keep up is dropped
// rather than allowed to stall the reconciliation loop.
package realtime
