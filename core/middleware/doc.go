// Package middleware groups the HTTP middleware of the content service.
//
// # Components
//
//   - auth: API key validation. Health and metrics paths can be left public.
//   - rayid: reuses or generates a request id (RayID), stores it in the request
//     locals and echoes it in the response headers.
//
// Both are registered globally by the serve command, rayid first.
package middleware
