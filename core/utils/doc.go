// Package utils provides loose type conversion helpers shared by the HTTP, websocket and
// MQTT entry points, which all receive pin numbers and values as untyped JSON or text.
package utils
