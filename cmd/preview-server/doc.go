// Command preview-server exposes the preview pipeline over HTTP.
//
// POST /api/process accepts the same job object as the media-preview CLI
// and answers with the same result object. Concurrent jobs are limited to
// PREVIEW_WORKERS slots, and admission pauses while heap usage is above the
// memory high watermark.
//
// Health endpoints:
//
//	GET /healthz   liveness
//	GET /readyz    readiness (ffmpeg, ffprobe, kubi, libvips)
//	GET /metrics   Prometheus metrics, unless METRICS_ENABLED=false
package main
