// Package handlers provides the HTTP handlers of the preview server.
//
// It includes handlers for:
//   - Job processing (POST /api/process, same JSON envelope as the CLI)
//   - Liveness and readiness probes
//   - Version information
//   - Prometheus metrics
package handlers
