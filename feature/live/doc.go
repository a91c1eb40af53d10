// Package live serves the dashboard's realtime channel at /ws.
//
// Each connection becomes a realtime session with its own bounded outbox and writer
// goroutine. On attach the session receives an init frame with the full snapshot, then
// a pin frame for every change. Inbound frames:
//
//	{"type": "setPin", "data": {"number": 17, "value": 1}}
//	{"type": "toggle", "data": {"number": 17}}
//
// are forwarded to the reconcile engine with the ui origin. Malformed frames are ignored.
package live
