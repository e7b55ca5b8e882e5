// Package middleware provides HTTP middleware for the preview server.
//
// It includes:
//   - Request IDs (X-Request-ID, generated when the client sends none)
//   - Access logging in W3C Extended Log Format
//   - Prometheus request metrics labelled by route template
package middleware
