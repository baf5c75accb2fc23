// Package server holds the HTTP server configuration shared between the
// start command and the middleware stack.
package server
