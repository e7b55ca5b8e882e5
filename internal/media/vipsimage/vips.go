package vipsimage

import (
	"sync"

	"media-preview/internal/logging"

	"github.com/davidbyttow/govips/v2/vips"
)

var (
	vipsInitialized bool
	vipsInitMutex   sync.Mutex
)

// Config holds the libvips process settings.
type Config struct {
	// MaxCacheMem is the operation cache ceiling in bytes.
	MaxCacheMem int
	// Concurrency is the libvips worker thread count. Zero lets libvips decide.
	Concurrency int
}

// DefaultConfig keeps the libvips operation cache effectively disabled.
func DefaultConfig() Config {
	return Config{MaxCacheMem: 2048}
}

// InitVips starts libvips. Repeated calls are no-ops.
func InitVips(cfg Config) {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		return
	}

	// Logging must be configured before Startup
	vips.LoggingSettings(logHandler(logging.GetLevel()))

	vips.Startup(&vips.Config{
		ConcurrencyLevel: cfg.Concurrency,
		MaxCacheMem:      cfg.MaxCacheMem,
		MaxCacheSize:     100,
		ReportLeaks:      false,
		CacheTrace:       false,
		CollectStats:     false,
	})

	vipsInitialized = true
	logging.Debug("libvips initialized (version: %s, cache: %d bytes)", vips.Version, cfg.MaxCacheMem)
}

// logHandler maps the application level onto the libvips verbosity and
// forwards libvips messages through the logging package.
func logHandler(level logging.LogLevel) (func(string, vips.LogLevel, string), vips.LogLevel) {
	forward := func(domain string, l vips.LogLevel, msg string) {
		switch l {
		case vips.LogLevelError, vips.LogLevelCritical:
			logging.Error("[%s] %s", domain, msg)
		case vips.LogLevelWarning:
			logging.Warn("[%s] %s", domain, msg)
		default:
			logging.Debug("[%s] %s", domain, msg)
		}
	}

	switch level {
	case logging.LevelDebug:
		return forward, vips.LogLevelInfo
	case logging.LevelWarn:
		return forward, vips.LogLevelError
	case logging.LevelError:
		return forward, vips.LogLevelCritical
	default:
		return forward, vips.LogLevelWarning
	}
}

// ShutdownVips releases libvips.
func ShutdownVips() {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		vips.Shutdown()
		vipsInitialized = false
		logging.Debug("libvips shutdown complete")
	}
}

// IsVipsAvailable reports whether InitVips has run.
func IsVipsAvailable() bool {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()
	return vipsInitialized
}
