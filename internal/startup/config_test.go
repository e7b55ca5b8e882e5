package startup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PREVIEW_CONFIG", "FINGERPRINT", "VIPS_CACHE_MAX_MEM", "VIPS_CONCURRENCY", "TOOL_TIMEOUT",
	"FFMPEG_PATH", "FFPROBE_PATH", "KUBI_PATH", "TEMP_DIR", "METRICS_TEXTFILE", "PORT",
	"METRICS_ENABLED", "LOG_HEALTH_CHECKS", "PREVIEW_WORKERS",
}

// clearConfigEnv unsets every config variable for the duration of the test.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "preview.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "palette", cfg.Fingerprint)
	assert.Equal(t, 2048, cfg.VipsCacheMaxMem)
	assert.Equal(t, 0, cfg.VipsConcurrency)
	assert.Equal(t, time.Duration(0), cfg.ToolTimeout.Duration)
	assert.Equal(t, "ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, "ffprobe", cfg.FFprobePath)
	assert.Equal(t, "kubi", cfg.KubiPath)
	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.MetricsEnabled)
	assert.False(t, cfg.LogHealthChecks)
	assert.Empty(t, cfg.Source)
}

func TestLoadConfigFile(t *testing.T) {
	clearConfigEnv(t)
	path := writeConfig(t, `
fingerprint = "glyph"
vips_cache_max_mem = 1048576
tool_timeout = "2m"
kubi_path = "/opt/kubi/bin/kubi"
metrics_enabled = false
preview_workers = 3
`)
	t.Setenv("PREVIEW_CONFIG", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "glyph", cfg.Fingerprint)
	assert.Equal(t, 1048576, cfg.VipsCacheMaxMem)
	assert.Equal(t, 2*time.Minute, cfg.ToolTimeout.Duration)
	assert.Equal(t, "/opt/kubi/bin/kubi", cfg.KubiPath)
	assert.False(t, cfg.MetricsEnabled)
	assert.Equal(t, 3, cfg.PreviewWorkers)
	assert.Equal(t, "ffmpeg", cfg.FFmpegPath, "unset keys keep their defaults")
	assert.Equal(t, path, cfg.Source)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PREVIEW_CONFIG", writeConfig(t, `
fingerprint = "glyph"
port = "9000"
`))
	t.Setenv("FINGERPRINT", "palette")
	t.Setenv("TOOL_TIMEOUT", "45s")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "palette", cfg.Fingerprint)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 45*time.Second, cfg.ToolTimeout.Duration)
	assert.False(t, cfg.MetricsEnabled)
}

func TestLoadConfigInvalidEnvFallsBack(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("VIPS_CACHE_MAX_MEM", "lots")
	t.Setenv("TOOL_TIMEOUT", "soon")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 2048, cfg.VipsCacheMaxMem)
	assert.Equal(t, time.Duration(0), cfg.ToolTimeout.Duration)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		file string
	}{
		{name: "unknown fingerprint", env: map[string]string{"FINGERPRINT": "blurhash"}},
		{name: "negative cache", env: map[string]string{"VIPS_CACHE_MAX_MEM": "-1"}},
		{name: "negative workers", env: map[string]string{"PREVIEW_WORKERS": "-2"}},
		{name: "missing temp dir", env: map[string]string{"TEMP_DIR": "/definitely/not/here"}},
		{name: "malformed file", file: "fingerprint = "},
		{name: "bad duration in file", file: `tool_timeout = "forever"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if tt.file != "" {
				t.Setenv("PREVIEW_CONFIG", writeConfig(t, tt.file))
			}

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PREVIEW_CONFIG", filepath.Join(t.TempDir(), "absent.toml"))

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidateTempDirMustBeDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	cfg := DefaultConfig()
	cfg.TempDir = file
	assert.Error(t, cfg.Validate())

	cfg.TempDir = filepath.Dir(file)
	assert.NoError(t, cfg.Validate())
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEST_INT_VAR", "17")
	assert.Equal(t, 17, getEnvInt("TEST_INT_VAR", 3))

	t.Setenv("TEST_INT_VAR", "x")
	assert.Equal(t, 3, getEnvInt("TEST_INT_VAR", 3))

	os.Unsetenv("TEST_INT_VAR")
	assert.Equal(t, 3, getEnvInt("TEST_INT_VAR", 3))
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"false", true, false},
		{"0", true, false},
		{"maybe", true, true},
		{"", false, false},
	}

	for _, tt := range tests {
		t.Setenv("TEST_BOOL_VAR", tt.value)
		assert.Equal(t, tt.want, getEnvBool("TEST_BOOL_VAR", tt.def), "value %q", tt.value)
	}
}
