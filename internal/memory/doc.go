// Package memory sets the Go soft memory limit from container limits and
// reports heap pressure to the preview server.
//
// libvips buffers and ffmpeg children live outside the Go heap, so the Go
// limit is a fraction of the container limit:
//
//   - GOMEMLIMIT: standard Go variable, takes precedence when set
//   - MEMORY_LIMIT: container limit in bytes (Kubernetes Downward API)
//   - MEMORY_RATIO: share of MEMORY_LIMIT given to the Go heap (default 0.85)
//
// Call [ConfigureFromEnv] before significant allocations. The server then
// runs a [Monitor]; job admission waits on [Monitor.Wait] while heap usage is
// above the critical watermark and resumes once it drops below the high
// watermark.
package memory
