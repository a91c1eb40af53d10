// Package server holds the HTTP server configuration.
//
// While the start command handles the server startup, this package defines the
// configuration structure: the listen port, the directory of the dashboard UI assets
// and the graceful shutdown bound.
//
// This package is primarily used by the core/config package to embed server settings.
package server
