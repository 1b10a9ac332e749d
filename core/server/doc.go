// Package server holds the HTTP server configuration.
//
// The serve command owns the fiber application; this package only defines the
// settings it needs: the listen port and the API key that protects every
// route except the swagger UI.
package server
