// Package api defines the endpoint abstraction shared by the HTTP server
// and the CLI: each endpoint is both a route and, optionally, a command
// that calls it on a running server.
package api

import (
	"net/http"

	"github.com/spf13/cobra"
)

// Endpoint defines an HTTP route and its corresponding CLI command.
type Endpoint interface {
	// Route returns the HTTP method, path, and handler for this endpoint.
	Route() (method, path string, handler http.HandlerFunc)

	// RequiresInit returns true if this endpoint requires the server to be
	// fully initialized (provider registry ready).
	RequiresInit() bool

	// Command returns a Cobra command that calls this endpoint via HTTP,
	// or nil when the endpoint has no CLI equivalent.
	// getServerURL is called at runtime to get the server URL.
	Command(getServerURL func() string) *cobra.Command
}
