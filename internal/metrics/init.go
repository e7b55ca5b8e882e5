package metrics

// Label values used across the pipeline. They are exported so callers and
// InitializeMetrics agree on spelling.
var (
	Kinds    = []string{"image", "video", "audio"}
	Stages   = []string{"probe", "still", "decode", "orient", "spherical", "cubemap", "derivatives", "fingerprint"}
	Tools    = []string{"ffprobe", "ffmpeg", "kubi"}
	Tiers    = []string{"o", "h", "s"}
	Formats  = []string{"jpg", "png", "gif", "webp", "bmp", "tif", "heif", "avif", "jxl", "unknown"}
	Decoders = []string{"vips", "fallback"}
)

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, kind := range Kinds {
		JobsTotal.WithLabelValues(kind, "success")
		JobsTotal.WithLabelValues(kind, "error")
		JobDuration.WithLabelValues(kind)
	}

	for _, stage := range Stages {
		StageDuration.WithLabelValues(stage)
	}

	for _, tool := range Tools {
		for _, status := range []string{"success", "error", "timeout"} {
			ToolInvocationsTotal.WithLabelValues(tool, status)
		}
		ToolDuration.WithLabelValues(tool)
	}

	for _, tier := range Tiers {
		DerivativeBytes.WithLabelValues(tier)
	}

	for _, format := range Formats {
		for _, decoder := range Decoders {
			DecodeTotal.WithLabelValues(format, decoder)
		}
	}
}
