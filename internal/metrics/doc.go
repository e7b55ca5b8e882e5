// Package metrics provides Prometheus instrumentation for the preview pipeline.
//
// All metrics are prefixed with "media_preview_" and registered on the default
// registry with promauto.
//
// # Metric Categories
//
// ## Job Metrics
//   - JobsTotal: Counter of jobs by media kind and status
//   - JobDuration: Histogram of end-to-end job time by kind
//   - JobsInProgress: Gauge of running jobs
//   - StageDuration: Histogram of pipeline stage time (decode, derivatives, ...)
//   - PanoramasTotal: Counter of cubemap projections
//
// ## Image Library Metrics
//   - DecodeTotal: Counter of decodes by detected format and decoder
//   - DerivativeBytes: Histogram of encoded derivative size by tier
//
// ## External Tool Metrics
//   - ToolInvocationsTotal: Counter of ffprobe/ffmpeg/kubi runs by status
//   - ToolDuration: Histogram of tool run time
//
// ## HTTP and Memory Metrics
//
// Only populated by the preview server: request counters, in-flight gauge and
// memory backpressure gauges.
//
// # Exposure
//
// The preview server mounts promhttp.Handler() on /metrics. The one-shot
// command writes the registry to a file with WriteTextfile when
// METRICS_TEXTFILE is set, so a node-exporter textfile collector can pick it up.
//
// Example PromQL:
//
//	sum(rate(media_preview_jobs_total{status="error"}[5m])) by (kind)
//	histogram_quantile(0.95, sum(rate(media_preview_stage_duration_seconds_bucket[5m])) by (le, stage))
package metrics
