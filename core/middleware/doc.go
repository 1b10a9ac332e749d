// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation for every route except the swagger UI.
//   - rayid: assigns a request id (RayID), stores it in the fiber locals
//     and echoes it in the X-Ray-ID response header.
package middleware
