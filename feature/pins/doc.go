// Package pins exposes the pin configuration surface over HTTP.
//
// # Routes
//
//   - GET  /api/config             active topology
//   - POST /api/config             replace the topology (400 when malformed, 500 when not saved)
//   - GET  /api/state              snapshot with output values and input levels
//   - PUT  /api/pins/:number       drive an output
//   - POST /api/pins/:number/toggle invert an output
//   - GET  /api/audit              compare topology and state document
//   - POST /api/sim/:number        drive a simulated input
//
// Every write goes through the reconcile engine, so HTTP, UI and MQTT changes are
// serialized together.
package pins
