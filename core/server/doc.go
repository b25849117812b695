// Package server holds the HTTP server configuration.
//
// The start command owns the Fiber application; this package only defines the
// settings it reads: listen port, API key, the header that carries the
// authenticated account id, the public base URL used to build OAuth
// callbacks, and the per-request deadline.
package server
