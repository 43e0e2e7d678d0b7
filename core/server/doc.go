// Package server holds the HTTP server configuration.
//
// The serve command exposes import provenance, persisted content and dry-run
// previews over HTTP. This package defines the listen port, the API key that protects
// those endpoints and the timeout applied to previews.
package server
