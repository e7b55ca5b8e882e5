// Package app wires configuration into a ready pipeline.Processor for the
// CLI and the server.
package app

import (
	"fmt"

	"media-preview/internal/fingerprint"
	"media-preview/internal/handlers"
	"media-preview/internal/media/vipsimage"
	"media-preview/internal/pano"
	"media-preview/internal/pipeline"
	"media-preview/internal/startup"
	"media-preview/internal/toolexec"
	"media-preview/internal/transcoder"
)

// App is the assembled processing stack.
type App struct {
	Processor  *pipeline.Processor
	Transcoder *transcoder.Transcoder
	Projector  *pano.Projector
	Encoder    fingerprint.Encoder
}

// New starts libvips and builds the processor. Call Close when done.
func New(cfg *startup.Config) (*App, error) {
	enc, err := fingerprint.ByName(cfg.Fingerprint)
	if err != nil {
		return nil, fmt.Errorf("fingerprint: %w", err)
	}

	vipsimage.InitVips(vipsimage.Config{
		MaxCacheMem: cfg.VipsCacheMaxMem,
		Concurrency: cfg.VipsConcurrency,
	})

	tools := toolexec.New(cfg.ToolTimeout.Duration)
	tc := transcoder.New(transcoder.Config{FFmpegPath: cfg.FFmpegPath, FFprobePath: cfg.FFprobePath}, tools)
	proj := pano.NewProjector(cfg.KubiPath, tools)

	return &App{
		Processor:  pipeline.New(vipsimage.Decoder{}, tc, proj, enc, cfg.TempDir),
		Transcoder: tc,
		Projector:  proj,
		Encoder:    enc,
	}, nil
}

// Checks returns the readiness checks for the external tools and libvips.
func (a *App) Checks() map[string]handlers.Check {
	return map[string]handlers.Check{
		"tools": a.Transcoder.CheckTools,
		"kubi":  a.Projector.CheckTool,
		"libvips": func() error {
			if !vipsimage.IsVipsAvailable() {
				return fmt.Errorf("libvips not initialized")
			}
			return nil
		},
	}
}

// Close releases libvips.
func (a *App) Close() {
	vipsimage.ShutdownVips()
}
