package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"media-preview/internal/fingerprint"
	"media-preview/internal/logging"
	"media-preview/internal/media"
	"media-preview/internal/mediatypes"
	"media-preview/internal/metrics"
	"media-preview/internal/pano"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Prober is the ffmpeg/ffprobe surface the pipeline needs.
type Prober interface {
	Duration(ctx context.Context, path string) int
	ExtractFrame(ctx context.Context, path string, duration int, dir string) (string, error)
	Waveform(ctx context.Context, path, dir string) (string, error)
	VideoPreview(ctx context.Context, path, prefix string) error
	AudioPreview(ctx context.Context, path, prefix string) error
}

// Projector renders cubemaps for spherical images.
type Projector interface {
	Cubemap(ctx context.Context, src, prefix string, faceSize int) error
}

// Processor runs jobs. It holds no per-job state and is safe for
// concurrent use.
type Processor struct {
	decoder   media.Decoder
	prober    Prober
	projector Projector
	encoder   fingerprint.Encoder
	tempDir   string
}

// New creates a Processor. tempDir is the parent of job working
// directories; empty means the system default.
func New(decoder media.Decoder, prober Prober, projector Projector, encoder fingerprint.Encoder, tempDir string) *Processor {
	return &Processor{
		decoder:   decoder,
		prober:    prober,
		projector: projector,
		encoder:   encoder,
		tempDir:   tempDir,
	}
}

// Process validates and runs job.
func (p *Processor) Process(ctx context.Context, job Job) (*Result, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	log := logging.ForJob(id)
	kind := mediatypes.Classify(job.InputFile)
	log.Info("Processing %s as %s", job.InputFile, kind)

	metrics.JobsInProgress.Inc()
	defer metrics.JobsInProgress.Dec()
	start := time.Now()

	result, err := p.run(ctx, job, kind, log)

	status := "success"
	if err != nil {
		status = "error"
		log.Error("Failed: %v", err)
	} else {
		log.Info("Done in %v: %dx%d %s", time.Since(start).Round(time.Millisecond), result.Width, result.Height, result.Color)
	}
	metrics.JobsTotal.WithLabelValues(string(kind), status).Inc()
	metrics.JobDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())

	return result, err
}

func (p *Processor) run(ctx context.Context, job Job, kind mediatypes.Kind, log *logging.JobLogger) (*Result, error) {
	source := job.InputFile
	mode := media.DecodeBounded
	duration := 0

	if kind.IsTimeBased() {
		stage := time.Now()
		duration = p.prober.Duration(ctx, job.InputFile)
		observe("probe", stage)
		log.Debug("Duration: %ds", duration)

		dir, err := os.MkdirTemp(p.tempDir, "preview-*")
		if err != nil {
			return nil, fmt.Errorf("failed to create temp dir: %w", err)
		}
		defer os.RemoveAll(dir)

		stage = time.Now()
		source, err = p.sideOutputs(ctx, job, kind, duration, dir)
		observe("still", stage)
		if err != nil {
			return nil, err
		}
	} else if mediatypes.IsHEIF(job.InputFile) {
		mode = media.DecodeUnlimited
	}

	stage := time.Now()
	img, err := p.decoder.Load(source, mode)
	observe("decode", stage)
	if err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}
	defer img.Close()

	if job.Orientation > 1 {
		stage = time.Now()
		err := img.AutoRotate()
		observe("orient", stage)
		if err != nil {
			return nil, fmt.Errorf("auto-rotate failed: %w", err)
		}
	}

	width, height := img.Width(), img.Height()
	result := &Result{Width: width, Height: height}

	if kind == mediatypes.KindImage {
		stage = time.Now()
		spherical := pano.IsSpherical(img)
		observe("spherical", stage)

		if spherical {
			size := pano.FaceSize(width)
			log.Info("Equirectangular panorama, cubemap faces %dpx", size)
			stage = time.Now()
			err := p.projector.Cubemap(ctx, job.InputFile, job.OutputFile, size)
			observe("cubemap", stage)
			if err != nil {
				return nil, err
			}
			metrics.PanoramasTotal.Inc()
			result.Pano = &spherical
		}
	}

	grid, err := media.NewGenerator(log).Generate(img, job.OutputFile, p.encoder.GridSize())
	if err != nil {
		return nil, err
	}
	result.Color, err = p.encoder.Encode(grid)
	if err != nil {
		return nil, fmt.Errorf("%s fingerprint failed: %w", p.encoder.Name(), err)
	}

	if kind.IsTimeBased() {
		result.Duration = &duration
	}
	return result, nil
}

// sideOutputs renders the still for a time-based source while the preview
// transcodes. Both run to completion; the first error is returned.
func (p *Processor) sideOutputs(ctx context.Context, job Job, kind mediatypes.Kind, duration int, dir string) (string, error) {
	var (
		g     errgroup.Group
		still string
	)

	if kind == mediatypes.KindVideo {
		g.Go(func() error {
			var err error
			still, err = p.prober.ExtractFrame(ctx, job.InputFile, duration, dir)
			return err
		})
		g.Go(func() error {
			return p.prober.VideoPreview(ctx, job.InputFile, job.OutputFile)
		})
	} else {
		g.Go(func() error {
			var err error
			still, err = p.prober.Waveform(ctx, job.InputFile, dir)
			return err
		})
		g.Go(func() error {
			return p.prober.AudioPreview(ctx, job.InputFile, job.OutputFile)
		})
	}

	if err := g.Wait(); err != nil {
		return "", err
	}
	return still, nil
}

func observe(stage string, start time.Time) {
	metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
