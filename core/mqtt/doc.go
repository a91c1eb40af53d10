// Package mqtt bridges pin values to an MQTT broker.
//
// Output and input changes are published retained on <prefix>/<number>/state with an
// ON or OFF payload. For every output pin the bridge subscribes to <prefix>/<number>/set
// and hands decoded commands to a CommandHandler, normally the reconcile engine.
//
// The bridge never blocks its callers: broker operations go through a bounded queue
// drained by one worker, and connection, publish and subscribe failures are only logged.
// Reconnection is left to the paho client.
package mqtt
