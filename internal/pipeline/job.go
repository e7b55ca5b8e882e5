package pipeline

import (
	"errors"
	"fmt"
	"os"
)

// ErrInvalidJob is returned for requests that cannot be processed.
var ErrInvalidJob = errors.New("invalid job")

// Job is one processing request.
type Job struct {
	InputFile   string `json:"input_file"`
	OutputFile  string `json:"output_file"`
	Orientation int    `json:"orientation"`
}

// Validate checks the required fields and that the input is a regular file.
func (j Job) Validate() error {
	if j.InputFile == "" {
		return fmt.Errorf("%w: input_file is required", ErrInvalidJob)
	}
	if j.OutputFile == "" {
		return fmt.Errorf("%w: output_file is required", ErrInvalidJob)
	}

	info, err := os.Stat(j.InputFile)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJob, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", ErrInvalidJob, j.InputFile)
	}
	return nil
}

// Result describes the processed source. Pano is present only for
// equirectangular images and Duration only for video and audio.
type Result struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Color    string `json:"color"`
	Pano     *bool  `json:"pano,omitempty"`
	Duration *int   `json:"duration,omitempty"`
}
