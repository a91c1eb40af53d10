package server

import "strings"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// StaticDir is the directory holding the dashboard UI assets. Empty disables static serving.
	StaticDir string `mapstructure:"static_dir" default:"public"`
	// ApiKey protects the /api routes when set. Empty leaves them open.
	ApiKey string `mapstructure:"api_key" default:""`
	// ShutdownSeconds bounds the graceful shutdown of the HTTP listener.
	ShutdownSeconds int `mapstructure:"shutdown_seconds" default:"10"`
}

// Address returns the listen address for the configured port.
// A port already carrying a host part (e.g. "127.0.0.1:8080") is kept as is.
func (c Config) Address() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// ServesStatic reports whether the UI assets should be mounted.
func (c Config) ServesStatic() bool {
	return strings.TrimSpace(c.StaticDir) != ""
}
