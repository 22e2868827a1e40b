// Package server holds the HTTP server configuration section.
//
// The actual Fiber application is assembled in cmd/start.go; this package only
// carries the settings (listen port, API key) so that core/config can bind them
// from the environment.
package server
