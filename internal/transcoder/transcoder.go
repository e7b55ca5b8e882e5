package transcoder

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"media-preview/internal/logging"
	"media-preview/internal/toolexec"
)

const (
	// PreviewExtension is appended to the output prefix for preview transcodes.
	PreviewExtension = ".mkv"

	// PreviewWidth is the scaled width of video previews; height follows the aspect ratio.
	PreviewWidth = 480

	// MaxPreviewFPS is the source frame rate above which previews drop every other frame.
	MaxPreviewFPS = 30

	// FrameSeekRatio positions the extracted still within the video.
	FrameSeekRatio = 0.1

	frameFileName    = "frame.jxl"
	waveformFileName = "waveform.png"
)

// waveformFilter draws a grey peak layer and a white RMS layer on a black canvas.
const waveformFilter = "[0:a] aformat=channel_layouts=mono,showwavespic=s=640x120:colors=#808080:filter=peak:scale=sqrt [pk]; " +
	"[0:a] aformat=channel_layouts=mono,showwavespic=s=640x120:colors=#ffffff:scale=sqrt [rms], " +
	"[pk] [rms] overlay=format=auto [nobg], [1:v] [nobg] overlay=format=auto"

// audioPreviewArgs is the shared Opus configuration for previews.
var audioPreviewArgs = []string{"-c:a", "libopus", "-b:a", "16k", "-ac", "1", "-vbr", "on"}

// videoPreviewArgs is the AV1 configuration for video previews.
var videoPreviewArgs = []string{"-c:v", "libsvtav1", "-preset", "5", "-crf", "56", "-profile:v", "main", "-level:v", "5.1"}

// ErrToolTimeout is returned when ffmpeg or ffprobe exceeds the tool timeout.
var ErrToolTimeout = toolexec.ErrToolTimeout

// Config holds the tool locations.
type Config struct {
	FFmpegPath  string
	FFprobePath string
}

// Transcoder probes and transcodes time-based media.
type Transcoder struct {
	ffmpeg  string
	ffprobe string
	tools   *toolexec.Invoker
}

// New creates a Transcoder that runs tools through inv.
func New(cfg Config, inv *toolexec.Invoker) *Transcoder {
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	if cfg.FFprobePath == "" {
		cfg.FFprobePath = "ffprobe"
	}
	return &Transcoder{
		ffmpeg:  cfg.FFmpegPath,
		ffprobe: cfg.FFprobePath,
		tools:   inv,
	}
}

// Duration returns the container duration in whole seconds.
// Probe failures and unparsable output yield 0.
func (t *Transcoder) Duration(ctx context.Context, filePath string) int {
	out, err := t.tools.Run(ctx, "ffprobe", t.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		filePath,
	)
	if err != nil {
		logging.Debug("Duration probe failed for %s: %v", filePath, err)
		return 0
	}
	return parseDuration(string(out))
}

func parseDuration(s string) int {
	d, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return 0
	}
	return int(d)
}

// FrameRate returns the average frame rate of the first video stream.
func (t *Transcoder) FrameRate(ctx context.Context, filePath string) (float64, error) {
	out, err := t.tools.Run(ctx, "ffprobe", t.ffprobe,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=avg_frame_rate",
		"-of", "default=noprint_wrappers=1:nokey=1",
		filePath,
	)
	if err != nil {
		return 0, fmt.Errorf("frame rate probe failed: %w", err)
	}
	return parseFrameRate(string(out))
}

// parseFrameRate parses ffprobe rationals such as "30000/1001". Empty output
// means "1/1" and a zero denominator ("0/0") means an unknown rate of 0.
func parseFrameRate(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	if s == "" {
		s = "1/1"
	}

	numStr, denStr, isRational := strings.Cut(s, "/")
	num, err := strconv.Atoi(numStr)
	if err != nil {
		return 0, fmt.Errorf("invalid frame rate %q: %w", s, err)
	}
	if !isRational {
		return float64(num), nil
	}
	den, err := strconv.Atoi(denStr)
	if err != nil {
		return 0, fmt.Errorf("invalid frame rate %q: %w", s, err)
	}
	if den == 0 {
		return 0, nil
	}
	return float64(num) / float64(den), nil
}

// ExtractFrame writes one full-quality still at 10% of duration into dir and
// returns its path.
func (t *Transcoder) ExtractFrame(ctx context.Context, filePath string, duration int, dir string) (string, error) {
	output := filepath.Join(dir, frameFileName)
	seek := strconv.FormatFloat(float64(duration)*FrameSeekRatio, 'f', -1, 64)

	if _, err := t.tools.Run(ctx, "ffmpeg", t.ffmpeg,
		"-i", filePath,
		"-ss", seek,
		"-vframes", "1",
		"-q:v", "100",
		output,
	); err != nil {
		return "", fmt.Errorf("frame extraction failed: %w", err)
	}
	return output, nil
}

// Waveform renders the audio waveform image into dir and returns its path.
func (t *Transcoder) Waveform(ctx context.Context, filePath string, dir string) (string, error) {
	output := filepath.Join(dir, waveformFileName)

	if _, err := t.tools.Run(ctx, "ffmpeg", t.ffmpeg,
		"-i", filePath,
		"-f", "lavfi", "-i", "color=c=#000000:s=640x120",
		"-filter_complex", waveformFilter,
		"-frames:v", "1",
		"-update", "true",
		output,
	); err != nil {
		return "", fmt.Errorf("waveform rendering failed: %w", err)
	}
	return output, nil
}

// VideoFilter returns the -vf chain for a source with the given frame rate.
func VideoFilter(fps float64) string {
	filters := []string{fmt.Sprintf("scale=%d:-1", PreviewWidth)}
	if fps > MaxPreviewFPS {
		filters = append([]string{"fps=fps=source_fps/2"}, filters...)
	}
	return strings.Join(filters, ",")
}

// VideoPreview transcodes a low bitrate video preview to <prefix>.mkv.
func (t *Transcoder) VideoPreview(ctx context.Context, filePath, prefix string) error {
	fps, err := t.FrameRate(ctx, filePath)
	if err != nil {
		return err
	}

	args := []string{"-y", "-i", filePath}
	args = append(args, videoPreviewArgs...)
	args = append(args, audioPreviewArgs...)
	args = append(args, "-vf", VideoFilter(fps), prefix+PreviewExtension)

	if _, err := t.tools.Run(ctx, "ffmpeg", t.ffmpeg, args...); err != nil {
		return fmt.Errorf("video preview transcode failed: %w", err)
	}
	return nil
}

// AudioPreview transcodes an audio-only preview to <prefix>.mkv.
func (t *Transcoder) AudioPreview(ctx context.Context, filePath, prefix string) error {
	args := []string{"-y", "-i", filePath}
	args = append(args, audioPreviewArgs...)
	args = append(args, "-vn", prefix+PreviewExtension)

	if _, err := t.tools.Run(ctx, "ffmpeg", t.ffmpeg, args...); err != nil {
		return fmt.Errorf("audio preview transcode failed: %w", err)
	}
	return nil
}

// CheckTools verifies that ffmpeg and ffprobe can be found.
func (t *Transcoder) CheckTools() error {
	if err := toolexec.Available(t.ffmpeg); err != nil {
		return err
	}
	return toolexec.Available(t.ffprobe)
}
