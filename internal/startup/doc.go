// Package startup handles configuration loading and startup/shutdown logging
// for the preview CLI and server.
//
// # Configuration
//
// [LoadConfig] layers three sources, later ones winning:
//
//  1. built-in defaults
//  2. an optional TOML file named by PREVIEW_CONFIG
//  3. environment variables
//
// The following keys are supported (TOML key in parentheses):
//
//   - FINGERPRINT (fingerprint): palette or glyph (default: palette)
//   - VIPS_CACHE_MAX_MEM (vips_cache_max_mem): libvips cache ceiling in bytes (default: 2048)
//   - VIPS_CONCURRENCY (vips_concurrency): libvips worker threads, 0 for automatic (default: 0)
//   - TOOL_TIMEOUT (tool_timeout): deadline per ffmpeg/ffprobe/kubi call, 0 disables (default: 0)
//   - FFMPEG_PATH, FFPROBE_PATH, KUBI_PATH (ffmpeg_path, ffprobe_path, kubi_path)
//   - TEMP_DIR (temp_dir): parent of job working directories (default: system temp)
//   - METRICS_TEXTFILE (metrics_textfile): CLI only, write metrics here after each job
//   - PORT (port): server listen port (default: 8080)
//   - METRICS_ENABLED (metrics_enabled): serve /metrics (default: true)
//   - LOG_HEALTH_CHECKS (log_health_checks): access-log health probes (default: false)
//   - PREVIEW_WORKERS (preview_workers): concurrent jobs in the server, 0 for CPU based
//
// LOG_LEVEL, MEMORY_LIMIT, MEMORY_RATIO and GOMEMLIMIT are read by the
// logging and memory packages directly.
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo].
//
// # Lifecycle Logging
//
//   - [PrintBanner]: version banner (server only, the CLI keeps stderr quiet)
//   - [LogConfig]: resolved configuration
//   - [LogToolCheck]: external tool availability
//   - [LogHTTPRoutes]: registered HTTP routes (debug level)
//   - [LogServerStarted]: server endpoints and startup duration
//   - [LogShutdownInitiated], [LogShutdownComplete]: graceful shutdown
package startup
