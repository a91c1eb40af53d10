// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - Auth: API key validation for the /api routes and the live channel.
//   - RayID: tags every request with a unique ID, stored in the context and echoed in
//     the X-Ray-ID response header for tracing.
package middleware
