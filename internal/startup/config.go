package startup

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"media-preview/internal/fingerprint"
	"media-preview/internal/logging"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration.
type Config struct {
	Fingerprint     string   `toml:"fingerprint"`
	VipsCacheMaxMem int      `toml:"vips_cache_max_mem"`
	VipsConcurrency int      `toml:"vips_concurrency"`
	ToolTimeout     Duration `toml:"tool_timeout"`
	FFmpegPath      string   `toml:"ffmpeg_path"`
	FFprobePath     string   `toml:"ffprobe_path"`
	KubiPath        string   `toml:"kubi_path"`
	TempDir         string   `toml:"temp_dir"`
	MetricsTextfile string   `toml:"metrics_textfile"`
	Port            string   `toml:"port"`
	MetricsEnabled  bool     `toml:"metrics_enabled"`
	LogHealthChecks bool     `toml:"log_health_checks"`
	PreviewWorkers  int      `toml:"preview_workers"`

	// Source is the TOML file that was applied, if any.
	Source string `toml:"-"`
}

// Duration is a time.Duration that decodes from TOML strings like "90s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Fingerprint:     fingerprint.DefaultAlgorithm,
		VipsCacheMaxMem: 2048,
		FFmpegPath:      "ffmpeg",
		FFprobePath:     "ffprobe",
		KubiPath:        "kubi",
		Port:            "8080",
		MetricsEnabled:  true,
	}
}

// LoadConfig resolves defaults, the PREVIEW_CONFIG file and the environment.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	if path := os.Getenv("PREVIEW_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	meta, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	for _, key := range meta.Undecoded() {
		logging.Warn("Unknown key %q in %s", key.String(), path)
	}
	c.Source = path
	return nil
}

func (c *Config) applyEnv() {
	c.Fingerprint = getEnv("FINGERPRINT", c.Fingerprint)
	c.VipsCacheMaxMem = getEnvInt("VIPS_CACHE_MAX_MEM", c.VipsCacheMaxMem)
	c.VipsConcurrency = getEnvInt("VIPS_CONCURRENCY", c.VipsConcurrency)
	c.ToolTimeout.Duration = getEnvDuration("TOOL_TIMEOUT", c.ToolTimeout.Duration)
	c.FFmpegPath = getEnv("FFMPEG_PATH", c.FFmpegPath)
	c.FFprobePath = getEnv("FFPROBE_PATH", c.FFprobePath)
	c.KubiPath = getEnv("KUBI_PATH", c.KubiPath)
	c.TempDir = getEnv("TEMP_DIR", c.TempDir)
	c.MetricsTextfile = getEnv("METRICS_TEXTFILE", c.MetricsTextfile)
	c.Port = getEnv("PORT", c.Port)
	c.MetricsEnabled = getEnvBool("METRICS_ENABLED", c.MetricsEnabled)
	c.LogHealthChecks = getEnvBool("LOG_HEALTH_CHECKS", c.LogHealthChecks)
	c.PreviewWorkers = getEnvInt("PREVIEW_WORKERS", c.PreviewWorkers)
}

// Validate rejects values no component can run with.
func (c *Config) Validate() error {
	if _, err := fingerprint.ByName(c.Fingerprint); err != nil {
		return fmt.Errorf("FINGERPRINT: %w", err)
	}
	if c.VipsCacheMaxMem < 0 {
		return fmt.Errorf("VIPS_CACHE_MAX_MEM must not be negative, got %d", c.VipsCacheMaxMem)
	}
	if c.VipsConcurrency < 0 {
		return fmt.Errorf("VIPS_CONCURRENCY must not be negative, got %d", c.VipsConcurrency)
	}
	if c.ToolTimeout.Duration < 0 {
		return fmt.Errorf("TOOL_TIMEOUT must not be negative, got %v", c.ToolTimeout.Duration)
	}
	if c.PreviewWorkers < 0 {
		return fmt.Errorf("PREVIEW_WORKERS must not be negative, got %d", c.PreviewWorkers)
	}
	if c.TempDir != "" {
		info, err := os.Stat(c.TempDir)
		if err != nil {
			return fmt.Errorf("TEMP_DIR: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("TEMP_DIR %s is not a directory", c.TempDir)
		}
	}
	return nil
}

// LogConfig logs the resolved configuration.
func LogConfig(c *Config) {
	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")
	if c.Source != "" {
		logging.Info("  PREVIEW_CONFIG:      %s", c.Source)
	}
	logging.Info("  FINGERPRINT:         %s", c.Fingerprint)
	logging.Info("  VIPS_CACHE_MAX_MEM:  %d", c.VipsCacheMaxMem)
	logging.Info("  VIPS_CONCURRENCY:    %d", c.VipsConcurrency)
	logging.Info("  TOOL_TIMEOUT:        %v", c.ToolTimeout.Duration)
	logging.Info("  FFMPEG_PATH:         %s", c.FFmpegPath)
	logging.Info("  FFPROBE_PATH:        %s", c.FFprobePath)
	logging.Info("  KUBI_PATH:           %s", c.KubiPath)
	logging.Info("  TEMP_DIR:            %s", valueOr(c.TempDir, os.TempDir()))
	logging.Info("  PORT:                %s", c.Port)
	logging.Info("  METRICS_ENABLED:     %v", c.MetricsEnabled)
	logging.Info("  LOG_HEALTH_CHECKS:   %v", c.LogHealthChecks)
	logging.Info("  PREVIEW_WORKERS:     %d", c.PreviewWorkers)
	logging.Info("  LOG_LEVEL:           %s", logging.GetLevel())
	logging.Info("")
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		logging.Warn("Invalid duration for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
